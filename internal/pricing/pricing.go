// Package pricing holds the per-jar rate rules. Everything here is pure:
// the same consumer, delivery type and rate table always produce the same
// unit rate, so the UI preview and the stored price cannot disagree.
package pricing

import (
	"github.com/shopspring/decimal"

	"jar-ledger/internal/models"
)

// Rates is the global rate table: one price per normal jar, one per chilled.
type Rates struct {
	Normal  decimal.Decimal `json:"normal"`
	Chilled decimal.Decimal `json:"chilled"`
}

// DefaultRates is the hardcoded fallback used when the stored rate table is
// missing or unreadable.
func DefaultRates() Rates {
	return Rates{
		Normal:  decimal.NewFromInt(20),
		Chilled: decimal.NewFromInt(30),
	}
}

// Resolve returns the unit rate for one jar, in strict precedence order:
//  1. chilled deliveries always use the global chilled rate — custom rates
//     never apply to chilled jars;
//  2. a consumer with a custom rate uses it for normal jars;
//  3. everything else, including an unknown consumer, uses the global
//     normal rate.
func Resolve(consumer *models.Consumer, entryType string, rates Rates) decimal.Decimal {
	if entryType == models.TypeChilled {
		return rates.Chilled
	}
	if consumer != nil && consumer.CustomRate.Valid && consumer.CustomRate.Decimal.IsPositive() {
		return consumer.CustomRate.Decimal
	}
	return rates.Normal
}

// Price computes the total for an entry: qty jars at the resolved unit rate.
// The result is stored with the entry and never recomputed on read.
func Price(qty int, unitRate decimal.Decimal) decimal.Decimal {
	return unitRate.Mul(decimal.NewFromInt(int64(qty)))
}
