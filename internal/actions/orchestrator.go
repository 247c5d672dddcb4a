// Package actions runs the operations that talk to remote services and
// writes their results into the application state.
package actions

import (
	"context"
	"fmt"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/fklub/stregterm/internal/app"
	"github.com/fklub/stregterm/internal/apperr"
	"github.com/fklub/stregterm/internal/backend"
	"github.com/fklub/stregterm/internal/domain"
	"github.com/fklub/stregterm/internal/metrics"
	"github.com/fklub/stregterm/internal/parking"
	"github.com/fklub/stregterm/pkg/logger"
)

// Backend is the stregsystem API as used by the orchestrator.
type Backend interface {
	FetchProducts(ctx context.Context, roomID int) (domain.Products, error)
	FetchAliases(ctx context.Context) (domain.Aliases, error)
	FetchMemberID(ctx context.Context, username string) (int, bool, error)
	FetchMemberInfo(ctx context.Context, memberID int) (domain.MemberAccount, error)
	FetchSales(ctx context.Context, memberID int) ([]domain.Sale, error)
	Purchase(ctx context.Context, memberID int, buystring string, roomID int) error
}

// ParkingProvider registers parking permits.
type ParkingProvider interface {
	Register(ctx context.Context, plate, phone string) error
}

// VehicleLookup resolves vehicle details for a plate.
type VehicleLookup interface {
	Lookup(ctx context.Context, plate string) (parking.VehicleInfo, error)
}

// Config configures an Orchestrator.
type Config struct {
	Backend  Backend
	Parking  ParkingProvider
	Vehicles VehicleLookup
	Logger   *logger.Logger
}

// Orchestrator executes remote operations. It holds no application state;
// every method mutates the *app.State it is given and must only be called
// from the goroutine that owns that state.
type Orchestrator struct {
	backend  Backend
	parking  ParkingProvider
	vehicles VehicleLookup
	log      *logger.Logger
}

// New creates an Orchestrator.
func New(cfg Config) *Orchestrator {
	log := cfg.Logger
	if log == nil {
		log = logger.NewDiscard("actions")
	}
	return &Orchestrator{
		backend:  cfg.Backend,
		parking:  cfg.Parking,
		vehicles: cfg.Vehicles,
		log:      log,
	}
}

func (o *Orchestrator) record(op string, start time.Time, err error) {
	outcome := "success"
	if err != nil {
		outcome = "failure"
	}
	metrics.RecordOperation(op, outcome, time.Since(start))
}

// LoadCatalog replaces the product list and alias index. Each half records
// its own failure on the catalog.
func (o *Orchestrator) LoadCatalog(ctx context.Context, s *app.State) {
	start := time.Now()

	products, err := o.backend.FetchProducts(ctx, s.Settings.RoomID)
	if err != nil {
		s.Catalog.FailProducts(err)
		o.log.WithField("operation", "load_catalog").WithError(err).Warn("failed to fetch products")
	} else {
		s.Catalog.SetProducts(products)
		s.ClampSelection()
	}
	o.record("load_products", start, err)

	aliases, aliasErr := o.backend.FetchAliases(ctx)
	if aliasErr != nil {
		s.Catalog.FailAliases(aliasErr)
		o.log.WithField("operation", "load_catalog").WithError(aliasErr).Warn("failed to fetch named products")
	} else {
		s.Catalog.SetAliases(aliases)
	}
	o.record("load_aliases", start, aliasErr)

	o.log.WithFields(map[string]interface{}{
		"operation": "load_catalog",
		"room_id":   s.Settings.RoomID,
		"products":  len(s.Catalog.Products),
		"aliases":   len(s.Catalog.Aliases),
	}).Info("catalog loaded")
}

// LoadAccount resolves the configured username and fetches the member's
// info and sales in parallel. An unknown username and failures of either
// fetch are recorded on the account; the first failure wins and a
// successful half is kept. The returned error is set only when the
// username could not be resolved at all.
func (o *Orchestrator) LoadAccount(ctx context.Context, s *app.State) error {
	start := time.Now()
	username := s.Settings.Username
	s.Account.Reset()
	if username == "" {
		return nil
	}

	log := o.log.WithFields(map[string]interface{}{
		"operation": "load_account",
		"username":  username,
	})

	memberID, found, err := o.backend.FetchMemberID(ctx, username)
	if err != nil {
		s.Account.Err = err.Error()
		log.WithError(err).Warn("failed to resolve username")
		o.record("load_account", start, err)
		return err
	}
	if !found {
		s.Account.Err = fmt.Sprintf("Username '%s' does not exist", username)
		log.Warn("unknown username")
		o.record("load_account", start, apperr.API(s.Account.Err))
		return nil
	}
	s.Account.MemberID = memberID
	s.Account.HasMemberID = true

	var (
		info     domain.MemberAccount
		sales    []domain.Sale
		infoErr  error
		salesErr error
		g        errgroup.Group
	)
	// Each fetch keeps its own error so one failure leaves the other result usable.
	g.Go(func() error {
		info, infoErr = o.backend.FetchMemberInfo(ctx, memberID)
		return nil
	})
	g.Go(func() error {
		sales, salesErr = o.backend.FetchSales(ctx, memberID)
		return nil
	})
	_ = g.Wait()

	if infoErr != nil {
		s.Account.Err = infoErr.Error()
	} else {
		s.Account.Info = &info
	}
	if salesErr != nil {
		if s.Account.Err == "" {
			s.Account.Err = salesErr.Error()
		}
	} else {
		s.Account.Sales = sales
	}

	log = log.WithField("member_id", memberID)
	if s.Account.Err != "" {
		log.WithField("error", s.Account.Err).Warn("account partially loaded")
		o.record("load_account", start, apperr.API(s.Account.Err))
		return nil
	}
	log.WithField("sales", len(sales)).Info("account loaded")
	o.record("load_account", start, nil)
	return nil
}

// LoadAll loads the catalog and, when a username is configured, the
// account. A username resolution failure is also recorded on the account
// and returned.
func (o *Orchestrator) LoadAll(ctx context.Context, s *app.State) error {
	o.LoadCatalog(ctx, s)
	if !s.Settings.HasUsername() {
		return nil
	}
	if err := o.LoadAccount(ctx, s); err != nil {
		s.Account.Err = "Failed to load user data: " + err.Error()
		return err
	}
	return nil
}

// Purchase buys the product of the open purchase modal. The account must be
// resolved and cover the total before anything is sent. A successful sale
// reloads the account; a failed reload is noted on the result.
func (o *Orchestrator) Purchase(ctx context.Context, s *app.State) {
	m := s.PurchaseModal()
	if m == nil || m.Finished() {
		return
	}

	if err := s.ValidateForPurchase(); err != nil {
		app.ShowError(s, "Invalid User", apperr.UserMessage(err))
		return
	}
	if err := s.CheckBalance(); err != nil {
		m.Err = apperr.UserMessage(err)
		return
	}

	start := time.Now()
	buystring := backend.BuyString(s.Account.Info.Username, m.ProductID, m.Quantity)
	log := o.log.WithFields(map[string]interface{}{
		"operation":  "purchase",
		"username":   s.Account.Info.Username,
		"member_id":  s.Account.MemberID,
		"product_id": m.ProductID,
		"quantity":   m.Quantity,
	})

	err := o.backend.Purchase(ctx, s.Account.MemberID, buystring, s.Settings.RoomID)
	o.record("purchase", start, err)
	if err != nil {
		m.Err = "Purchase failed: " + err.Error()
		log.WithError(err).Warn("purchase failed")
		return
	}

	m.Success = true
	m.Err = ""
	log.Info("purchase completed")

	if err := o.LoadAccount(ctx, s); err != nil {
		s.Account.Err = "Failed to refresh account: " + err.Error()
	}
	if s.Account.Err != "" {
		m.Notice = "Your balance could not be refreshed: " + s.Account.Err
		log.WithField("error", s.Account.Err).Warn("account refresh after purchase failed")
	}
}

// RegisterParking registers the confirmed plate and phone of the open
// parking modal and stores the result on it.
func (o *Orchestrator) RegisterParking(ctx context.Context, s *app.State) {
	m := s.ParkingModal()
	if m == nil || !m.Confirming || m.Finished() {
		return
	}

	start := time.Now()
	log := o.log.WithFields(map[string]interface{}{
		"operation": "register_parking",
		"plate":     m.Plate,
	})

	err := o.parking.Register(ctx, m.Plate, m.Phone)
	o.record("register_parking", start, err)
	if err != nil {
		m.Success = false
		m.Err = "Failed to register parking: " + err.Error()
		log.WithError(err).Warn("parking registration failed")
		return
	}
	m.Success = true
	m.Err = ""
	log.Info("parking registered")
}

// LookupVehicle fills in vehicle details for the parking modal's plate.
// Failures leave the details empty.
func (o *Orchestrator) LookupVehicle(ctx context.Context, s *app.State) {
	m := s.ParkingModal()
	if m == nil || o.vehicles == nil {
		return
	}
	m.Vehicle = parking.VehicleInfo{}

	start := time.Now()
	info, err := o.vehicles.Lookup(ctx, m.Plate)
	o.record("lookup_vehicle", start, err)
	if err != nil {
		o.log.WithField("plate", m.Plate).WithError(err).Debug("vehicle lookup failed")
		return
	}
	m.Vehicle = info
}
