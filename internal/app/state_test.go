package app

import (
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/fklub/stregterm/internal/config"
	"github.com/fklub/stregterm/internal/domain"
	"github.com/fklub/stregterm/internal/money"
)

func testCatalog() domain.Products {
	return domain.Products{
		"1":  {ID: "1", Name: "Kaffe", Price: money.New(500)},
		"2":  {ID: "2", Name: "Te", Price: money.New(300)},
		"12": {ID: "12", Name: "Øl", Price: money.New(1200)},
		"40": {ID: "40", Name: "Sodavand", Price: money.New(1000)},
	}
}

func newTestState(t *testing.T) (*State, *config.MemoryStore) {
	t.Helper()
	store := &config.MemoryStore{Settings: config.Settings{Username: "tester", RoomID: 10}}
	s := New(store.Settings, store, nil)
	s.Catalog.SetProducts(testCatalog())
	s.Catalog.SetAliases(domain.Aliases{"øl": 12, "coffee": 1})
	return s, store
}

func resolve(s *State, balance money.Money) {
	s.Account = AccountState{
		MemberID:    7,
		HasMemberID: true,
		Info:        &domain.MemberAccount{Username: "tester", Name: "Test", Balance: balance},
	}
}

func TestNew_InitialMode(t *testing.T) {
	s := New(config.DefaultSettings(), nil, nil)
	assert.Equal(t, ModeEditingInitialUsername, s.Mode())
	require.NotNil(t, s.UsernameModal())
	assert.True(t, s.UsernameModal().Initial)

	s = New(config.Settings{Username: "x", RoomID: 10}, nil, nil)
	assert.Equal(t, ModeNormal, s.Mode())
}

func TestCatalogState_Failures(t *testing.T) {
	s, _ := newTestState(t)
	s.Catalog.FailProducts(errors.New("boom"))
	assert.Nil(t, s.Catalog.Products)
	assert.Empty(t, s.Catalog.Sorted())
	assert.Equal(t, "boom", s.Catalog.Err)
	assert.NotNil(t, s.Catalog.Aliases)

	s.Catalog.FailAliases(errors.New("nope"))
	assert.Equal(t, "nope", s.Catalog.AliasErr)
}

func TestValidateForPurchase(t *testing.T) {
	s, _ := newTestState(t)
	err := s.ValidateForPurchase()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "Please sign in with a valid username")

	s.Account.Err = "Username 'tester' does not exist"
	assert.Contains(t, s.ValidateForPurchase().Error(), "Error: Username 'tester' does not exist")

	resolve(s, money.New(10000))
	assert.NoError(t, s.ValidateForPurchase())
}

func TestShowPurchase_InvalidUserOpensError(t *testing.T) {
	s, _ := newTestState(t)
	ShowPurchase(s)

	assert.Equal(t, ModeError, s.Mode())
	require.NotNil(t, s.ErrorModal())
	assert.Equal(t, "Invalid User", s.ErrorModal().Title)
	assert.Nil(t, s.PurchaseModal())

	HideError(s)
	assert.Equal(t, ModeNormal, s.Mode())
}

func TestPurchase_QuantityClamped(t *testing.T) {
	s, _ := newTestState(t)
	resolve(s, money.New(100000))

	ShowPurchase(s)
	require.Equal(t, ModeBuyConfirmation, s.Mode())
	m := s.PurchaseModal()
	assert.Equal(t, "1", m.ProductID)
	assert.Equal(t, 1, m.Quantity)

	for i := 0; i < 200; i++ {
		IncreaseQuantity(s)
	}
	assert.Equal(t, MaxQuantity, m.Quantity)

	for i := 0; i < 200; i++ {
		DecreaseQuantity(s)
	}
	assert.Equal(t, MinQuantity, m.Quantity)

	HidePurchase(s)
	assert.Equal(t, ModeNormal, s.Mode())
	assert.Nil(t, s.PurchaseModal())
}

func TestCheckBalance(t *testing.T) {
	s, _ := newTestState(t)
	resolve(s, money.New(1000))
	s.Nav.Selected = 1 // "2" Te, 3,00 DKK

	ShowPurchase(s)
	require.NotNil(t, s.PurchaseModal())
	assert.NoError(t, s.CheckBalance())

	for i := 0; i < 3; i++ {
		IncreaseQuantity(s)
	}
	cost, ok := s.TotalCost()
	require.True(t, ok)
	assert.Equal(t, money.New(1200), cost)
	err := s.CheckBalance()
	require.Error(t, err)
	assert.Equal(t, "Input error: Insufficient balance. This purchase requires 12,00 DKK", err.Error())
}

func TestErrorModal_Wraps(t *testing.T) {
	s, _ := newTestState(t)
	ShowError(s, "", strings.Repeat("word ", 200))

	m := s.ErrorModal()
	require.NotNil(t, m)
	assert.Equal(t, "Error", m.Title)
	lines := strings.Split(m.Message, "\n")
	assert.Len(t, lines, 10)
	assert.Equal(t, "...", lines[9])
	for _, l := range lines {
		assert.LessOrEqual(t, len(l), 50)
	}
}
