// Package filter narrows a list of phones by search text, brand, price tier and category.
package filter

import (
	"fmt"
	"strings"

	"github.com/at-ishikawa/phonecompare/internal/phone"
)

// PriceTier is a price bucket. The empty tier matches every price. It implements pflag.Value.
type PriceTier string

const (
	TierAny  PriceTier = ""
	TierLow  PriceTier = "low"
	TierMid  PriceTier = "mid"
	TierHigh PriceTier = "high"
)

const (
	lowUpperBound  = 2000
	highLowerBound = 4000
)

// Tiers lists the selectable tiers in display order, starting with the empty tier.
var Tiers = []PriceTier{TierAny, TierLow, TierMid, TierHigh}

func (t *PriceTier) String() string {
	return string(*t)
}

func (t *PriceTier) Set(value string) error {
	switch tier := PriceTier(strings.ToLower(strings.TrimSpace(value))); tier {
	case TierAny, TierLow, TierMid, TierHigh:
		*t = tier
		return nil
	}
	return fmt.Errorf("unknown price tier %q, must be one of low, mid or high", value)
}

func (t *PriceTier) Type() string {
	return "tier"
}

// Label is the human readable range of the tier.
func (t PriceTier) Label() string {
	switch t {
	case TierLow:
		return "Under ¥2,000"
	case TierMid:
		return "¥2,000 - ¥4,000"
	case TierHigh:
		return "Over ¥4,000"
	}
	return "All prices"
}

// Contains reports whether the price falls in the tier. A zero price is in no tier.
func (t PriceTier) Contains(price float64) bool {
	switch t {
	case TierAny:
		return true
	case TierLow:
		return price > 0 && price < lowUpperBound
	case TierMid:
		return price >= lowUpperBound && price <= highLowerBound
	case TierHigh:
		return price > highLowerBound
	}
	return false
}

// Query is the set of active filters. Empty fields do not filter.
type Query struct {
	Search   string    `json:"search"`
	Brand    string    `json:"brand"`
	Tier     PriceTier `json:"tier"`
	Category string    `json:"category"`
}

func (q Query) IsZero() bool {
	return strings.TrimSpace(q.Search) == "" && q.Brand == "" && q.Tier == TierAny && q.Category == ""
}

// Matches reports whether the record satisfies every filter of the query.
func (q Query) Matches(r phone.Record) bool {
	if term := strings.ToLower(strings.TrimSpace(q.Search)); term != "" {
		found := false
		for _, text := range r.SearchText() {
			if strings.Contains(text, term) {
				found = true
				break
			}
		}
		if !found {
			return false
		}
	}
	if q.Brand != "" && r.Brand != q.Brand {
		return false
	}
	if q.Tier != TierAny && !q.Tier.Contains(phone.ResolvePrice(r.Price)) {
		return false
	}
	if q.Category != "" && r.Category != q.Category {
		return false
	}
	return true
}

// Apply returns the records matching the query in their original order.
func Apply(records []phone.Record, q Query) []phone.Record {
	result := make([]phone.Record, 0, len(records))
	for _, r := range records {
		if q.Matches(r) {
			result = append(result, r)
		}
	}
	return result
}
