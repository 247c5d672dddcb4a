// Package testutil provides common testing utilities and mock implementations.
package testutil

import (
	"context"
	"strconv"
	"strings"
	"sync"

	"github.com/fklub/stregterm/internal/domain"
	"github.com/fklub/stregterm/internal/money"
	"github.com/fklub/stregterm/internal/parking"
)

// MockBackend is an in-memory stregsystem. Configure the exported fields
// before use; use the setters once calls may be in flight.
type MockBackend struct {
	mu sync.Mutex

	Products    domain.Products
	ProductsErr error
	Aliases     domain.Aliases
	AliasesErr  error
	// Members maps usernames to member ids.
	Members   map[string]int
	MemberErr error
	// MemberErrs fails the id lookup of specific usernames.
	MemberErrs  map[string]error
	Info        domain.MemberAccount
	InfoErr     error
	Sales       []domain.Sale
	SalesErr    error
	PurchaseErr error

	// Barrier, when set, makes the info and sales fetches wait for each
	// other.
	Barrier *sync.WaitGroup

	productCalls int
	purchases    []string
}

// NewMockBackend returns a backend with a small catalog and one member,
// "tester" (id 7), holding 50,00 DKK.
func NewMockBackend() *MockBackend {
	return &MockBackend{
		Products: domain.Products{
			"1":  {ID: "1", Name: "Kaffe", Price: money.New(500)},
			"2":  {ID: "2", Name: "Te", Price: money.New(300)},
			"12": {ID: "12", Name: "Øl", Price: money.New(1200)},
			"40": {ID: "40", Name: "Sodavand", Price: money.New(1000)},
		},
		Aliases: domain.Aliases{"øl": 12},
		Members: map[string]int{"tester": 7},
		Info:    domain.MemberAccount{Username: "tester", Name: "Test", Balance: money.New(5000)},
		Sales: []domain.Sale{
			{Timestamp: "2024-01-01T10:00:00Z", Product: "Øl", Price: money.New(1200)},
		},
	}
}

// FetchProducts returns a copy of Products.
func (m *MockBackend) FetchProducts(context.Context, int) (domain.Products, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.productCalls++
	if m.ProductsErr != nil {
		return nil, m.ProductsErr
	}
	out := make(domain.Products, len(m.Products))
	for id, p := range m.Products {
		out[id] = p
	}
	return out, nil
}

// FetchAliases returns Aliases.
func (m *MockBackend) FetchAliases(context.Context) (domain.Aliases, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.Aliases, m.AliasesErr
}

// FetchMemberID resolves username through Members.
func (m *MockBackend) FetchMemberID(_ context.Context, username string) (int, bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.MemberErr != nil {
		return 0, false, m.MemberErr
	}
	if err, ok := m.MemberErrs[username]; ok {
		return 0, false, err
	}
	id, ok := m.Members[username]
	return id, ok, nil
}

// FetchMemberInfo returns Info.
func (m *MockBackend) FetchMemberInfo(context.Context, int) (domain.MemberAccount, error) {
	m.rendezvous()
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.Info, m.InfoErr
}

// FetchSales returns Sales.
func (m *MockBackend) FetchSales(context.Context, int) ([]domain.Sale, error) {
	m.rendezvous()
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.Sales, m.SalesErr
}

// Purchase records buystring and debits the member by the catalog price.
func (m *MockBackend) Purchase(_ context.Context, _ int, buystring string, _ int) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.PurchaseErr != nil {
		return m.PurchaseErr
	}
	m.purchases = append(m.purchases, buystring)

	_, item, _ := strings.Cut(buystring, " ")
	id, qty, _ := strings.Cut(item, ":")
	n, _ := strconv.Atoi(qty)
	if p, ok := m.Products[id]; ok {
		m.Info.Balance = m.Info.Balance.Sub(p.Price.Mul(n))
	}
	return nil
}

func (m *MockBackend) rendezvous() {
	if m.Barrier != nil {
		m.Barrier.Done()
		m.Barrier.Wait()
	}
}

// SetInfoErr changes the member info failure.
func (m *MockBackend) SetInfoErr(err error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.InfoErr = err
}

// ProductCalls returns how often the catalog was fetched.
func (m *MockBackend) ProductCalls() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.productCalls
}

// Purchases returns the buystrings of every accepted sale.
func (m *MockBackend) Purchases() []string {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]string(nil), m.purchases...)
}

// Registration is one recorded parking request.
type Registration struct {
	Plate string
	Phone string
}

// MockParking records parking registrations.
type MockParking struct {
	mu            sync.Mutex
	Err           error
	registrations []Registration
}

// Register records the request and returns Err.
func (m *MockParking) Register(_ context.Context, plate, phone string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.registrations = append(m.registrations, Registration{Plate: plate, Phone: phone})
	return m.Err
}

// Registrations returns every recorded request.
func (m *MockParking) Registrations() []Registration {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]Registration(nil), m.registrations...)
}

// MockVehicles answers every lookup with Info and Err.
type MockVehicles struct {
	Info parking.VehicleInfo
	Err  error
}

// Lookup returns Info and Err.
func (m MockVehicles) Lookup(context.Context, string) (parking.VehicleInfo, error) {
	return m.Info, m.Err
}
