package actions

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/fklub/stregterm/internal/app"
	"github.com/fklub/stregterm/internal/apperr"
	"github.com/fklub/stregterm/internal/backend"
	"github.com/fklub/stregterm/internal/config"
	"github.com/fklub/stregterm/internal/money"
	"github.com/fklub/stregterm/internal/parking"
	"github.com/fklub/stregterm/pkg/testutil"
)

func newState(username string) *app.State {
	return app.New(config.Settings{Username: username, RoomID: 10}, &config.MemoryStore{}, nil)
}

func TestLoadAll_UnknownUserKeepsCatalog(t *testing.T) {
	mb := testutil.NewMockBackend()
	o := New(Config{Backend: mb})
	s := newState("ghost")

	err := o.LoadAll(context.Background(), s)
	require.NoError(t, err)

	assert.Len(t, s.Catalog.Products, 4)
	assert.Empty(t, s.Catalog.Err)
	assert.Equal(t, "Username 'ghost' does not exist", s.Account.Err)
	assert.False(t, s.Account.Resolved())

	s.Nav.Selected = 2
	p, ok := s.SelectedProduct()
	require.True(t, ok)
	assert.Equal(t, "12", p.ID)
}

func TestLoadAll_EndToEndOverHTTP(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/products/active_products":
			_, _ = w.Write([]byte(`{"1": {"name": "Kaffe", "price": 500}}`))
		case "/products/named_products":
			_, _ = w.Write([]byte(`{"kaffe": 1}`))
		case "/member/get_id":
			w.WriteHeader(http.StatusNotFound)
		default:
			t.Errorf("unexpected request %s", r.URL.Path)
			w.WriteHeader(http.StatusTeapot)
		}
	}))
	defer srv.Close()

	o := New(Config{Backend: backend.New(backend.Config{BaseURL: srv.URL})})
	s := newState("ghost")

	require.NoError(t, o.LoadAll(context.Background(), s))
	assert.Equal(t, "Kaffe", s.Catalog.Products["1"].Name)
	assert.Equal(t, 1, s.Catalog.Aliases["kaffe"])
	assert.Equal(t, "Username 'ghost' does not exist", s.Account.Err)
}

func TestLoadAll_NoUsernameSkipsAccount(t *testing.T) {
	mb := testutil.NewMockBackend()
	mb.MemberErr = errors.New("must not be called")
	s := newState("")

	require.NoError(t, New(Config{Backend: mb}).LoadAll(context.Background(), s))
	assert.Len(t, s.Catalog.Products, 4)
	assert.Empty(t, s.Account.Err)
}

func TestLoadCatalog_IndependentFailures(t *testing.T) {
	mb := testutil.NewMockBackend()
	mb.AliasesErr = apperr.APIStatus("fetch named products", 500)
	o := New(Config{Backend: mb})
	s := newState("tester")

	o.LoadCatalog(context.Background(), s)
	assert.Len(t, s.Catalog.Products, 4)
	assert.Empty(t, s.Catalog.Err)
	assert.Equal(t, "API error: Failed to fetch named products: HTTP status 500", s.Catalog.AliasErr)

	mb.ProductsErr = apperr.Network("Failed to fetch products", errors.New("dial tcp"))
	mb.AliasesErr = nil
	o.LoadCatalog(context.Background(), s)
	assert.Nil(t, s.Catalog.Products)
	assert.Contains(t, s.Catalog.Err, "Network error")
	assert.Empty(t, s.Catalog.AliasErr)
	assert.Len(t, s.Catalog.Aliases, 1)
}

func TestLoadCatalog_ClampsSelection(t *testing.T) {
	mb := testutil.NewMockBackend()
	o := New(Config{Backend: mb})
	s := newState("tester")
	s.Nav.Selected = 3

	delete(mb.Products, "40")
	delete(mb.Products, "12")
	o.LoadCatalog(context.Background(), s)
	assert.Equal(t, 1, s.Nav.Selected)
}

func TestLoadAccount_FetchesInParallel(t *testing.T) {
	mb := testutil.NewMockBackend()
	var barrier sync.WaitGroup
	barrier.Add(2)
	mb.Barrier = &barrier
	o := New(Config{Backend: mb})
	s := newState("tester")

	done := make(chan error, 1)
	go func() { done <- o.LoadAccount(context.Background(), s) }()

	select {
	case err := <-done:
		require.NoError(t, err)
	case <-time.After(2 * time.Second):
		t.Fatal("info and sales were not fetched concurrently")
	}

	assert.True(t, s.Account.Resolved())
	assert.Equal(t, 7, s.Account.MemberID)
	assert.Equal(t, "Test", s.Account.Info.Name)
	assert.Len(t, s.Account.Sales, 1)
}

func TestLoadAccount_PartialFailures(t *testing.T) {
	infoErr := apperr.APIStatus("fetch member info", 500)
	salesErr := apperr.APIStatus("fetch sales", 502)

	tests := []struct {
		name      string
		infoErr   error
		salesErr  error
		wantErr   string
		wantInfo  bool
		wantSales bool
	}{
		{"info fails", infoErr, nil, infoErr.Error(), false, true},
		{"sales fails", nil, salesErr, salesErr.Error(), true, false},
		{"both fail, info first", infoErr, salesErr, infoErr.Error(), false, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mb := testutil.NewMockBackend()
			mb.InfoErr = tt.infoErr
			mb.SalesErr = tt.salesErr
			s := newState("tester")

			require.NoError(t, New(Config{Backend: mb}).LoadAccount(context.Background(), s))
			assert.Equal(t, tt.wantErr, s.Account.Err)
			assert.Equal(t, tt.wantInfo, s.Account.Info != nil)
			assert.Equal(t, tt.wantSales, len(s.Account.Sales) > 0)
			assert.False(t, s.Account.Resolved())
		})
	}
}

func TestLoadAll_ResolutionErrorReturned(t *testing.T) {
	mb := testutil.NewMockBackend()
	mb.MemberErr = apperr.Network("Failed to fetch member ID", errors.New("timeout"))
	s := newState("tester")

	err := New(Config{Backend: mb}).LoadAll(context.Background(), s)
	require.Error(t, err)
	assert.Contains(t, s.Account.Err, "Failed to load user data: Network error")
	assert.Len(t, s.Catalog.Products, 4)
}

func loadedState(t *testing.T, mb *testutil.MockBackend) (*Orchestrator, *app.State) {
	t.Helper()
	o := New(Config{Backend: mb})
	s := newState("tester")
	require.NoError(t, o.LoadAll(context.Background(), s))
	require.True(t, s.Account.Resolved())
	return o, s
}

func TestPurchase_Success(t *testing.T) {
	mb := testutil.NewMockBackend()
	o, s := loadedState(t, mb)
	s.Nav.Selected = 2 // Øl

	app.ShowPurchase(s)
	app.IncreaseQuantity(s)
	app.DecreaseQuantity(s)
	o.Purchase(context.Background(), s)

	m := s.PurchaseModal()
	require.NotNil(t, m)
	assert.True(t, m.Success)
	assert.Empty(t, m.Err)
	assert.Empty(t, m.Notice)
	assert.Equal(t, []string{"tester 12:1"}, mb.Purchases())
	assert.Equal(t, money.New(3800), s.Account.Info.Balance)

	// A finished purchase is not sent twice.
	o.Purchase(context.Background(), s)
	assert.Len(t, mb.Purchases(), 1)
}

func TestPurchase_InsufficientBalance(t *testing.T) {
	mb := testutil.NewMockBackend()
	o, s := loadedState(t, mb)
	s.Nav.Selected = 2

	app.ShowPurchase(s)
	for i := 0; i < 4; i++ {
		app.IncreaseQuantity(s)
	}
	o.Purchase(context.Background(), s)

	m := s.PurchaseModal()
	assert.Equal(t, "Insufficient balance. This purchase requires 60,00 DKK", m.Err)
	assert.Empty(t, mb.Purchases())
	assert.Equal(t, app.ModeBuyConfirmation, s.Mode())
}

func TestPurchase_InvalidUser(t *testing.T) {
	mb := testutil.NewMockBackend()
	o, s := loadedState(t, mb)

	app.ShowPurchase(s)
	s.Account.Err = "stale"
	o.Purchase(context.Background(), s)

	assert.Equal(t, app.ModeError, s.Mode())
	assert.Equal(t, "Invalid User", s.ErrorModal().Title)
	assert.Empty(t, mb.Purchases())
}

func TestPurchase_BackendFailure(t *testing.T) {
	mb := testutil.NewMockBackend()
	mb.PurchaseErr = apperr.APIStatus("make purchase", 400)
	o, s := loadedState(t, mb)

	app.ShowPurchase(s)
	o.Purchase(context.Background(), s)

	m := s.PurchaseModal()
	assert.False(t, m.Success)
	assert.Equal(t, "Purchase failed: API error: Failed to make purchase: HTTP status 400", m.Err)
	assert.Equal(t, money.New(5000), s.Account.Info.Balance)
	assert.Len(t, s.Account.Sales, 1)
}

func TestPurchase_RefreshFailureSurfaced(t *testing.T) {
	mb := testutil.NewMockBackend()
	o, s := loadedState(t, mb)

	app.ShowPurchase(s)
	mb.SetInfoErr(apperr.APIStatus("fetch member info", 503))
	o.Purchase(context.Background(), s)

	m := s.PurchaseModal()
	assert.True(t, m.Success)
	assert.Contains(t, m.Notice, "HTTP status 503")
	assert.Contains(t, s.Account.Err, "HTTP status 503")
}

func confirmedParking(t *testing.T) *app.State {
	t.Helper()
	s := newState("tester")
	app.ShowParking(s)
	m := s.ParkingModal()
	m.Phone, m.Plate = "12345678", "AB12345"
	require.NoError(t, app.ConfirmParking(s))
	return s
}

func TestRegisterParking(t *testing.T) {
	mp := &testutil.MockParking{}
	o := New(Config{Parking: mp})
	s := confirmedParking(t)

	o.RegisterParking(context.Background(), s)
	m := s.ParkingModal()
	assert.True(t, m.Success)
	assert.Equal(t, []testutil.Registration{{Plate: "AB12345", Phone: "12345678"}}, mp.Registrations())

	o.RegisterParking(context.Background(), s)
	assert.Len(t, mp.Registrations(), 1)
}

func TestRegisterParking_RequiresConfirmation(t *testing.T) {
	mp := &testutil.MockParking{}
	s := newState("tester")
	app.ShowParking(s)

	New(Config{Parking: mp}).RegisterParking(context.Background(), s)
	assert.Empty(t, mp.Registrations())
}

func TestRegisterParking_Failure(t *testing.T) {
	mp := &testutil.MockParking{Err: apperr.API("Parking registration failed: 409 Conflict - taken")}
	o := New(Config{Parking: mp})
	s := confirmedParking(t)

	o.RegisterParking(context.Background(), s)
	m := s.ParkingModal()
	assert.False(t, m.Success)
	assert.Equal(t, "Failed to register parking: API error: Parking registration failed: 409 Conflict - taken", m.Err)
	assert.True(t, m.Finished())
}

func TestLookupVehicle(t *testing.T) {
	s := confirmedParking(t)

	New(Config{Vehicles: testutil.MockVehicles{Info: parking.VehicleInfo{Brand: "Volvo"}}}).LookupVehicle(context.Background(), s)
	assert.Equal(t, "Volvo", s.ParkingModal().Vehicle.Brand)

	New(Config{Vehicles: testutil.MockVehicles{Err: errors.New("offline")}}).LookupVehicle(context.Background(), s)
	assert.True(t, s.ParkingModal().Vehicle.Empty())

	// No lookup configured is a no-op.
	New(Config{}).LookupVehicle(context.Background(), s)
}
