package search

import (
	"fmt"
	"strconv"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/fklub/stregterm/internal/domain"
	"github.com/fklub/stregterm/internal/money"
)

func catalog(names map[string]string) domain.Products {
	out := make(domain.Products, len(names))
	for id, name := range names {
		out[id] = domain.Product{ID: id, Name: name, Price: money.New(1000)}
	}
	return out
}

func ids(ps []domain.Product) []string {
	out := make([]string, len(ps))
	for i, p := range ps {
		out[i] = p.ID
	}
	return out
}

func TestRank_EmptyQuery(t *testing.T) {
	products := catalog(map[string]string{"1": "Cola"})
	assert.Empty(t, Rank("", products, nil))
}

func TestRank_ExactIDFirst(t *testing.T) {
	products := catalog(map[string]string{
		"12":  "Kaffe",
		"120": "Te",
		"7":   "Product 12 pack",
	})
	aliases := domain.Aliases{"12": 7}

	got := Rank("12", products, aliases)
	require.NotEmpty(t, got)
	assert.Equal(t, "12", got[0].ID)
	assert.Equal(t, []string{"12", "7"}, ids(got))
}

func TestRank_ExactIDNormalizesLeadingZeros(t *testing.T) {
	products := catalog(map[string]string{"12": "Kaffe"})
	got := Rank("012", products, nil)
	assert.Equal(t, []string{"12"}, ids(got))
}

func TestRank_NumericPrefix(t *testing.T) {
	products := catalog(map[string]string{
		"31":  "a",
		"3":   "b",
		"300": "c",
		"42":  "d",
	})
	got := Rank("30", products, nil)
	assert.Equal(t, []string{"300"}, ids(got))

	got = Rank("3", products, nil)
	assert.Equal(t, "3", got[0].ID, "exact id must win and suppress prefix phase")
	assert.Len(t, got, 1)
}

func TestRank_AliasPrecedence(t *testing.T) {
	products := catalog(map[string]string{
		"1": "Alpha",
		"2": "Bravo",
		"3": "Charlie",
		"4": "Xxbeerxx",
	})
	aliases := domain.Aliases{
		"beer":       1, // exact
		"beerpong":   2, // prefix
		"craftbeer!": 3, // partial
	}

	got := Rank("beer", products, aliases)
	assert.Equal(t, []string{"1", "2", "3", "4"}, ids(got))
}

func TestRank_AliasPartialScoreByLength(t *testing.T) {
	products := catalog(map[string]string{"1": "A", "2": "B"})
	aliases := domain.Aliases{
		"very long cola alias": 1,
		"xcola":                2,
	}
	got := Rank("cola", products, aliases)
	assert.Equal(t, []string{"2", "1"}, ids(got))
}

func TestRank_NameMatches(t *testing.T) {
	products := catalog(map[string]string{
		"1": "Sodavand Cola Zero Sukkerfri",
		"2": "Cola",
		"3": "Pepsi Cola",
	})
	got := Rank("cola", products, nil)
	assert.Equal(t, []string{"2", "3", "1"}, ids(got))
}

func TestRank_SkipsAliasesToUnknownProducts(t *testing.T) {
	products := catalog(map[string]string{"1": "Cola"})
	aliases := domain.Aliases{"cola": 99}
	got := Rank("cola", products, aliases)
	assert.Equal(t, []string{"1"}, ids(got))
}

func TestRank_AliasAndNameDeduplicated(t *testing.T) {
	products := catalog(map[string]string{"1": "Cola"})
	aliases := domain.Aliases{"cola": 1, "colaen": 1}
	got := Rank("cola", products, aliases)
	assert.Equal(t, []string{"1"}, ids(got))
}

func TestRank_CapAndNoDuplicates(t *testing.T) {
	names := make(map[string]string)
	aliases := domain.Aliases{}
	for i := 1; i <= 40; i++ {
		id := strconv.Itoa(i)
		names[id] = fmt.Sprintf("Øl nummer %d", i)
		aliases[fmt.Sprintf("øl%d", i)] = i
		aliases[fmt.Sprintf("øl-alias-%d", i)] = i
	}
	products := catalog(names)

	for _, q := range []string{"1", "ø", "øl", "nummer", "l", "2", "alias"} {
		got := Rank(q, products, aliases)
		assert.LessOrEqual(t, len(got), MaxResults, "query %q", q)
		seen := map[string]bool{}
		for _, p := range got {
			assert.False(t, seen[p.ID], "duplicate %s for query %q", p.ID, q)
			seen[p.ID] = true
		}
	}
}

func TestRank_Deterministic(t *testing.T) {
	products := catalog(map[string]string{"1": "Cola", "2": "Cola", "3": "Cola"})
	first := ids(Rank("co", products, nil))
	for i := 0; i < 20; i++ {
		assert.Equal(t, first, ids(Rank("co", products, nil)))
	}
}

func TestNormalize(t *testing.T) {
	assert.Equal(t, "cola", Normalize("  CoLa \t"))
}

func TestRank_MixedIDsStableOrder(t *testing.T) {
	products := catalog(map[string]string{
		"2":  "Cola",
		"10": "Cola",
		"1a": "Cola",
		"3":  "Cola",
		"x":  "Cola",
	})

	for i := 0; i < 100; i++ {
		require.Equal(t, []string{"2", "3", "10", "1a", "x"}, ids(Rank("cola", products, nil)), "run %d", i)
	}
}
