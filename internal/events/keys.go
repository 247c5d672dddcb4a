package events

import (
	"context"
	"fmt"

	"github.com/fklub/stregterm/internal/app"
	"github.com/fklub/stregterm/internal/apperr"
)

func (l *Loop) handleKey(ctx context.Context, s *app.State, ev Event) {
	switch s.Mode() {
	case app.ModeNormal:
		l.normalKey(ctx, s, ev)
	case app.ModeEditingInitialUsername, app.ModeEditingUsername:
		l.usernameKey(ctx, s, ev)
	case app.ModeBuyConfirmation:
		l.purchaseKey(ctx, s, ev)
	case app.ModeSearch:
		searchKey(s, ev)
	case app.ModeError:
		app.HideError(s)
	case app.ModeParkingInput:
		l.parkingInputKey(ctx, s, ev)
	case app.ModeParkingConfirmation:
		l.parkingConfirmKey(ctx, s, ev)
	case app.ModeTerminalTooSmall:
		if ev.IsRune('q') {
			s.Quit = true
		}
	case app.ModeQrAmountInput:
		qrAmountKey(s, ev)
	case app.ModeQrDisplay:
		qrDisplayKey(s, ev)
	}
}

func (l *Loop) normalKey(ctx context.Context, s *app.State, ev Event) {
	switch ev.Key {
	case KeyEsc:
		s.ClearPrefix()
		return
	case KeyDown:
		s.MoveDown(s.TakeCount())
		s.Nav.PendingG = false
		return
	case KeyUp:
		s.MoveUp(s.TakeCount())
		s.Nav.PendingG = false
		return
	case KeyEnter:
		if s.Settings.HasUsername() && len(s.Catalog.Products) > 0 {
			app.ShowPurchase(s)
		}
		return
	case KeyRune:
	default:
		return
	}

	switch r := ev.Rune; {
	case r == 'q':
		s.Quit = true
	case r == 'j':
		s.MoveDown(s.TakeCount())
		s.Nav.PendingG = false
	case r == 'k':
		s.MoveUp(s.TakeCount())
		s.Nav.PendingG = false
	case r == 'g':
		if s.Nav.PendingG {
			s.GoTop()
			s.Nav.PendingG = false
		} else {
			s.Nav.PendingG = true
		}
	case r == 'G':
		s.GoBottom()
	case r >= '0' && r <= '9':
		s.PushDigit(r)
	case r == 'u':
		if s.Settings.HasUsername() {
			app.ShowUsername(s)
		}
	case r == '/' || r == 's':
		app.ShowSearch(s)
	case r == 'p':
		app.ShowParking(s)
	case r == 'm':
		app.ShowQr(s)
	case r == 'r':
		l.reload(ctx, s)
	}
}

func (l *Loop) reload(ctx context.Context, s *app.State) {
	if !l.refresh.Allow() {
		l.log.Debug("refresh throttled")
		return
	}
	if err := l.actions.LoadAll(ctx, s); err != nil {
		app.ShowError(s, "User Data Error", fmt.Sprintf("There was a problem with your username. Error: %s.", err))
	}
}

func (l *Loop) usernameKey(ctx context.Context, s *app.State, ev Event) {
	switch ev.Key {
	case KeyEnter:
		reload, err := app.SubmitUsername(s)
		if err != nil {
			if apperr.KindOf(err) != apperr.KindInput {
				app.ShowError(s, "Username Update Error", "Error updating username: "+err.Error())
			}
			return
		}
		if !reload {
			return
		}
		if err := l.actions.LoadAccount(ctx, s); err != nil {
			s.Account.Err = "Error loading user data: " + err.Error()
			app.ShowError(s, "Username Error", "Check that the username exists and try again!\n"+err.Error())
		}
	case KeyBackspace:
		app.BackspaceUsername(s)
	case KeyEsc:
		app.HideUsername(s)
	case KeyRune:
		app.TypeUsername(s, ev.Rune)
	}
}

func (l *Loop) purchaseKey(ctx context.Context, s *app.State, ev Event) {
	if m := s.PurchaseModal(); m == nil || m.Finished() {
		app.HidePurchase(s)
		return
	}

	switch {
	case ev.IsRune('y'):
		l.actions.Purchase(ctx, s)
	case ev.IsRune('n'), ev.Key == KeyEsc:
		app.HidePurchase(s)
	case ev.IsRune('+'), ev.IsRune('='), ev.Key == KeyRight:
		app.IncreaseQuantity(s)
	case ev.IsRune('-'), ev.IsRune('_'), ev.Key == KeyLeft:
		app.DecreaseQuantity(s)
	}
}

func searchKey(s *app.State, ev Event) {
	switch ev.Key {
	case KeyEnter:
		app.SelectSearchResult(s)
	case KeyDown, KeyCtrlN:
		app.NextSearchResult(s)
	case KeyUp, KeyCtrlP:
		app.PrevSearchResult(s)
	case KeyBackspace:
		app.BackspaceSearch(s)
	case KeyEsc:
		app.HideSearch(s)
	case KeyRune:
		app.TypeSearch(s, ev.Rune)
	}
}

func (l *Loop) parkingInputKey(ctx context.Context, s *app.State, ev Event) {
	switch ev.Key {
	case KeyEnter:
		if err := app.ConfirmParking(s); err != nil {
			if apperr.KindOf(err) != apperr.KindInput {
				app.ShowError(s, "Parking Error", "Error confirming parking: "+err.Error())
			}
			return
		}
		l.actions.LookupVehicle(ctx, s)
	case KeyTab:
		app.NextParkingField(s)
	case KeyBacktab:
		app.PrevParkingField(s)
	case KeyBackspace:
		app.BackspaceParking(s)
	case KeyEsc:
		app.HideParking(s)
	case KeyRune:
		app.TypeParking(s, ev.Rune)
	}
}

func (l *Loop) parkingConfirmKey(ctx context.Context, s *app.State, ev Event) {
	if m := s.ParkingModal(); m == nil || m.Finished() {
		app.HideParking(s)
		return
	}

	switch {
	case ev.IsRune('y'):
		l.actions.RegisterParking(ctx, s)
	case ev.IsRune('n'), ev.Key == KeyEsc:
		app.HideParking(s)
	}
}

func qrAmountKey(s *app.State, ev Event) {
	switch ev.Key {
	case KeyEnter:
		_ = app.GenerateQr(s)
	case KeyBackspace:
		app.BackspaceQrAmount(s)
	case KeyEsc:
		app.HideQr(s)
	case KeyRune:
		app.TypeQrAmount(s, ev.Rune)
	}
}

func qrDisplayKey(s *app.State, ev Event) {
	switch {
	case ev.Key == KeyEsc, ev.IsRune('q'):
		app.HideQr(s)
	case ev.Key == KeyBackspace:
		app.QrBack(s)
	}
}
