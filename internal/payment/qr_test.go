package payment

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/fklub/stregterm/internal/apperr"
	"github.com/fklub/stregterm/internal/money"
)

func TestMobilePayURL(t *testing.T) {
	assert.Equal(t,
		"mobilepay://send?phone=90601&comment=tester&amount=150.50",
		MobilePayURL("tester", money.New(15050)))
	assert.Equal(t,
		"mobilepay://send?phone=90601&comment=a+b&amount=50.00",
		MobilePayURL("a b", money.FromKroner(50)))
}

func TestParseAmount(t *testing.T) {
	amount, err := ParseAmount("50")
	require.NoError(t, err)
	assert.Equal(t, money.New(5000), amount)

	amount, err = ParseAmount("75,25")
	require.NoError(t, err)
	assert.Equal(t, money.New(7525), amount)

	_, err = ParseAmount("49.99")
	require.Error(t, err)
	assert.Equal(t, "Amount must be at least 50.00 DKK", apperr.UserMessage(err))

	_, err = ParseAmount("abc")
	assert.Equal(t, "Invalid amount format", apperr.UserMessage(err))

	_, err = ParseAmount("50.123")
	assert.Equal(t, apperr.KindInput, apperr.KindOf(err))
}

func TestNewQR(t *testing.T) {
	qr, err := NewQR("tester", money.FromKroner(100))
	require.NoError(t, err)

	assert.Equal(t, "mobilepay://send?phone=90601&comment=tester&amount=100.00", qr.URL)
	require.Greater(t, qr.Size(), 20)
	for _, row := range qr.Modules {
		assert.Len(t, row, qr.Size())
	}
	// Finder pattern corner is dark.
	assert.True(t, qr.Modules[0][0])
}

func TestNewQR_Rejects(t *testing.T) {
	_, err := NewQR("", money.FromKroner(100))
	assert.Error(t, err)

	_, err = NewQR("tester", money.FromKroner(10))
	assert.Equal(t, apperr.KindInput, apperr.KindOf(err))
}
