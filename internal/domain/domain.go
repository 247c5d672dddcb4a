// Package domain defines the snapshot records fetched from the stregsystem
// backend. Snapshots are replaced wholesale on every fetch.
package domain

import (
	"sort"
	"strconv"
	"time"

	"github.com/fklub/stregterm/internal/money"
)

// Product is an active product in the current room.
type Product struct {
	ID    string      `json:"-"`
	Name  string      `json:"name"`
	Price money.Money `json:"price"`
}

// MemberAccount is the resolved member behind a username.
type MemberAccount struct {
	Username string      `json:"username"`
	Name     string      `json:"name"`
	Balance  money.Money `json:"balance"`
}

// Sale is one entry of a member's purchase history, most recent first.
type Sale struct {
	Timestamp string      `json:"timestamp"`
	Product   string      `json:"product"`
	Price     money.Money `json:"price"`
}

// FormattedTimestamp renders the sale time as dd/mm/yyyy HH:MM.
func (s Sale) FormattedTimestamp() string {
	ts, err := time.Parse(time.RFC3339, s.Timestamp)
	if err != nil {
		return "Invalid date"
	}
	return ts.Format("02/01/2006 15:04")
}

// Products maps product id to product.
type Products map[string]Product

// Aliases maps a search keyword to a product id. Several aliases may point at
// the same product.
type Aliases map[string]int

// Sorted returns the products ordered by id: integer ids numerically, then
// every other id lexically.
func (p Products) Sorted() []Product {
	out := make([]Product, 0, len(p))
	for _, prod := range p {
		out = append(out, prod)
	}
	sort.Slice(out, func(i, j int) bool {
		return LessID(out[i].ID, out[j].ID)
	})
	return out
}

// LessID orders product ids. Integer ids sort before all others and compare
// numerically, ties broken lexically ("7" before "07"); non-integer ids
// compare lexically.
func LessID(a, b string) bool {
	ai, errA := strconv.Atoi(a)
	bi, errB := strconv.Atoi(b)
	switch {
	case errA == nil && errB == nil:
		if ai != bi {
			return ai < bi
		}
		return a < b
	case errA == nil:
		return true
	case errB == nil:
		return false
	}
	return a < b
}

// BalanceTier classifies a balance for display.
type BalanceTier int

const (
	TierLow BalanceTier = iota
	TierMid
	TierHigh
)

const (
	highTierThreshold = 5000
	midTierThreshold  = 1000
)

// TierOf returns the display tier of a balance.
func TierOf(balance money.Money) BalanceTier {
	switch {
	case balance.CmpCents(highTierThreshold) >= 0:
		return TierHigh
	case balance.CmpCents(midTierThreshold) >= 0:
		return TierMid
	default:
		return TierLow
	}
}

func (t BalanceTier) String() string {
	switch t {
	case TierHigh:
		return "high"
	case TierMid:
		return "mid"
	default:
		return "low"
	}
}
