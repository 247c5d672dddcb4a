package app

import (
	"fmt"
	"time"

	"github.com/fklub/stregterm/internal/apperr"
	"github.com/fklub/stregterm/internal/config"
	"github.com/fklub/stregterm/internal/domain"
	"github.com/fklub/stregterm/internal/money"
	"github.com/fklub/stregterm/pkg/logger"
)

// CatalogState is the product snapshot of the configured room. Products and
// aliases fail independently.
type CatalogState struct {
	Products domain.Products
	Aliases  domain.Aliases
	Err      string
	AliasErr string

	sorted []domain.Product
}

// SetProducts replaces the product snapshot.
func (c *CatalogState) SetProducts(p domain.Products) {
	c.Products = p
	c.sorted = p.Sorted()
	c.Err = ""
}

// FailProducts discards the product snapshot and records why.
func (c *CatalogState) FailProducts(err error) {
	c.Products = nil
	c.sorted = nil
	c.Err = err.Error()
}

// SetAliases replaces the alias index.
func (c *CatalogState) SetAliases(a domain.Aliases) {
	c.Aliases = a
	c.AliasErr = ""
}

// FailAliases discards the alias index and records why.
func (c *CatalogState) FailAliases(err error) {
	c.Aliases = nil
	c.AliasErr = err.Error()
}

// Sorted returns the products in display order.
func (c *CatalogState) Sorted() []domain.Product {
	return c.sorted
}

// AccountState is the resolved member behind the configured username.
type AccountState struct {
	MemberID    int
	HasMemberID bool
	Info        *domain.MemberAccount
	Sales       []domain.Sale
	Err         string
}

// Reset discards the snapshot before a reload.
func (a *AccountState) Reset() {
	*a = AccountState{}
}

// Resolved reports whether the account is usable for purchases.
func (a *AccountState) Resolved() bool {
	return a.Err == "" && a.HasMemberID && a.Info != nil
}

// State is the single owned application state. Only the event loop's
// consumer mutates it.
type State struct {
	Settings config.Settings
	Store    config.SettingsStore
	Modes    ModeStack
	Catalog  CatalogState
	Account  AccountState
	Nav      NavState
	Now      time.Time
	Quit     bool

	log *logger.Logger
}

// New creates the state for settings. Without a username the client starts
// in the initial username prompt.
func New(settings config.Settings, store config.SettingsStore, log *logger.Logger) *State {
	if log == nil {
		log = logger.NewDiscard("app")
	}
	s := &State{
		Settings: settings,
		Store:    store,
		Now:      time.Now(),
		log:      log,
	}
	if !settings.HasUsername() {
		s.Modes.Enter(ModeEditingInitialUsername, &UsernameModal{Initial: true})
	}
	return s
}

// Mode returns the current input mode.
func (s *State) Mode() Mode {
	return s.Modes.Current()
}

// Username returns the configured username.
func (s *State) Username() string {
	return s.Settings.Username
}

// Logger returns the state's logger.
func (s *State) Logger() *logger.Logger {
	return s.log
}

// Tick records the clock time.
func (s *State) Tick(now time.Time) {
	s.Now = now
}

// saveSettings persists next and adopts it on success.
func (s *State) saveSettings(next config.Settings) error {
	if err := next.Validate(); err != nil {
		return err
	}
	if s.Store != nil {
		if err := s.Store.Save(next); err != nil {
			s.log.WithError(err).Error("failed to save settings")
			return err
		}
	}
	s.Settings = next
	return nil
}

// ValidateForPurchase returns an Input error describing why the account
// cannot buy anything.
func (s *State) ValidateForPurchase() error {
	if s.Account.Err != "" {
		return apperr.Input("Error: " + s.Account.Err)
	}
	if !s.Account.Resolved() {
		return apperr.Input("Please sign in with a valid username. The current username doesn't exist or couldn't be verified.")
	}
	return nil
}

// TotalCost returns price × quantity for the open purchase.
func (s *State) TotalCost() (money.Money, bool) {
	m := s.PurchaseModal()
	if m == nil {
		return 0, false
	}
	p, ok := s.Catalog.Products[m.ProductID]
	if !ok {
		return 0, false
	}
	return p.Price.Mul(m.Quantity), true
}

// CheckBalance returns an Input error when the balance does not cover the
// open purchase.
func (s *State) CheckBalance() error {
	cost, ok := s.TotalCost()
	if !ok || s.Account.Info == nil {
		return apperr.Input("Insufficient balance for this purchase")
	}
	if !s.Account.Info.Balance.Covers(cost) {
		return apperr.Input(fmt.Sprintf("Insufficient balance. This purchase requires %s", cost))
	}
	return nil
}
