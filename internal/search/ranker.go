// Package search ranks catalog products against a free-text query.
//
// Ranking runs in phases and stops accumulating once MaxResults products are
// collected:
//
//  1. exact numeric id
//  2. numeric id prefix (only when phase 1 found nothing)
//  3. alias substring match, scored
//  4. product name substring match, scored
//
// Within a scored phase matches are ordered by descending score; ties keep
// their first-seen order. A product appears at most once.
package search

import (
	"sort"
	"strconv"
	"strings"
	"unicode/utf8"

	"github.com/fklub/stregterm/internal/domain"
)

// MaxResults caps the result list.
const MaxResults = 10

const (
	scoreAliasExact   = 1000
	scoreAliasPrefix  = 800
	scoreAliasPartial = 500
	scoreNamePrefix   = 700
	scoreNamePartial  = 400
)

// Normalize trims and lower-cases a raw query.
func Normalize(raw string) string {
	return strings.ToLower(strings.TrimSpace(raw))
}

type match struct {
	product domain.Product
	score   int
}

type resultSet struct {
	items []domain.Product
	seen  map[string]struct{}
}

func (r *resultSet) full() bool { return len(r.items) >= MaxResults }

func (r *resultSet) has(id string) bool {
	_, ok := r.seen[id]
	return ok
}

func (r *resultSet) add(p domain.Product) {
	if r.full() || r.has(p.ID) {
		return
	}
	r.seen[p.ID] = struct{}{}
	r.items = append(r.items, p)
}

func (r *resultSet) addScored(matches []match) {
	sort.SliceStable(matches, func(i, j int) bool {
		return matches[i].score > matches[j].score
	})
	for _, m := range matches {
		r.add(m.product)
	}
}

// Rank returns at most MaxResults products for query. The query is expected
// to be normalized already; an empty query yields no results.
func Rank(query string, products domain.Products, aliases domain.Aliases) []domain.Product {
	if query == "" {
		return nil
	}

	rs := &resultSet{seen: make(map[string]struct{})}
	sorted := products.Sorted()

	if n, err := strconv.Atoi(query); err == nil {
		if p, ok := products[strconv.Itoa(n)]; ok {
			rs.add(p)
		}
	}

	if isDigits(query) && len(rs.items) == 0 {
		for _, p := range sorted {
			if strings.HasPrefix(p.ID, query) {
				rs.add(p)
			}
		}
	}

	if !rs.full() {
		rs.addScored(aliasMatches(query, products, aliases, rs))
	}

	if !rs.full() {
		rs.addScored(nameMatches(query, sorted, rs))
	}

	return rs.items
}

func aliasMatches(query string, products domain.Products, aliases domain.Aliases, rs *resultSet) []match {
	keys := make([]string, 0, len(aliases))
	for alias := range aliases {
		keys = append(keys, alias)
	}
	sort.Strings(keys)

	var out []match
	for _, alias := range keys {
		lower := strings.ToLower(alias)
		if !strings.Contains(lower, query) {
			continue
		}
		p, ok := products[strconv.Itoa(aliases[alias])]
		if !ok || rs.has(p.ID) {
			continue
		}

		score := scoreAliasPartial - lengthDelta(lower, query)
		switch {
		case lower == query:
			score = scoreAliasExact
		case strings.HasPrefix(lower, query):
			score = scoreAliasPrefix
		}
		out = append(out, match{product: p, score: score})
	}
	return out
}

func nameMatches(query string, sorted []domain.Product, rs *resultSet) []match {
	var out []match
	for _, p := range sorted {
		name := strings.ToLower(p.Name)
		if !strings.Contains(name, query) || rs.has(p.ID) {
			continue
		}

		score := scoreNamePartial - lengthDelta(name, query)
		if strings.HasPrefix(name, query) {
			score = scoreNamePrefix
		}
		out = append(out, match{product: p, score: score})
	}
	return out
}

func lengthDelta(a, b string) int {
	d := utf8.RuneCountInString(a) - utf8.RuneCountInString(b)
	if d < 0 {
		return -d
	}
	return d
}

func isDigits(s string) bool {
	if s == "" {
		return false
	}
	for i := 0; i < len(s); i++ {
		if s[i] < '0' || s[i] > '9' {
			return false
		}
	}
	return true
}
