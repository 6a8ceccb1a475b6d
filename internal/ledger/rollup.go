// Package ledger derives dashboard and invoice figures from delivery
// entries. All functions are pure folds over a slice: nothing here touches
// the database or mutates its input, and every figure is recomputed from
// scratch on each read.
package ledger

import (
	"sort"
	"strings"

	"github.com/shopspring/decimal"

	"jar-ledger/internal/models"
)

// DailyTotal is the admin daily-log header: jars delivered and money billed
// on one calendar date.
type DailyTotal struct {
	Jars    int
	Revenue decimal.Decimal
}

// MonthTotal is one consumer's position for one YYYY-MM billing period.
type MonthTotal struct {
	Jars int
	Due  decimal.Decimal
}

// InMonth reports whether an entry date (YYYY-MM-DD) falls in the given
// YYYY-MM billing period.
func InMonth(date, month string) bool {
	return strings.HasPrefix(date, month)
}

// Daily sums quantity and price across all entries on one date. An empty day
// rolls up to zero, not an error.
func Daily(entries []models.Entry, date string) DailyTotal {
	total := DailyTotal{Revenue: decimal.Zero}
	for i := range entries {
		if entries[i].Date != date {
			continue
		}
		total.Jars += entries[i].Qty
		total.Revenue = total.Revenue.Add(entries[i].Price)
	}
	return total
}

// Monthly sums one consumer's jars and dues inside one billing period.
func Monthly(entries []models.Entry, mobile, month string) MonthTotal {
	total := MonthTotal{Due: decimal.Zero}
	for i := range entries {
		if entries[i].Mobile != mobile || !InMonth(entries[i].Date, month) {
			continue
		}
		total.Jars += entries[i].Qty
		total.Due = total.Due.Add(entries[i].Price)
	}
	return total
}

// Lifetime sums everything a consumer has ever been billed, unbounded by date.
func Lifetime(entries []models.Entry, mobile string) decimal.Decimal {
	total := decimal.Zero
	for i := range entries {
		if entries[i].Mobile == mobile {
			total = total.Add(entries[i].Price)
		}
	}
	return total
}

// History returns a consumer's entries newest-first, the order dashboards
// display them in. The input slice is left untouched.
func History(entries []models.Entry, mobile string) []models.Entry {
	out := filterByMobile(entries, mobile)
	sort.SliceStable(out, func(i, j int) bool {
		if out[i].Date != out[j].Date {
			return out[i].Date > out[j].Date
		}
		return out[i].ID > out[j].ID
	})
	return out
}

// InvoiceLines returns one consumer's entries for one month oldest-first,
// the order a printed bill itemizes them in. The asymmetry with History is
// intentional.
func InvoiceLines(entries []models.Entry, mobile, month string) []models.Entry {
	var out []models.Entry
	for i := range entries {
		if entries[i].Mobile == mobile && InMonth(entries[i].Date, month) {
			out = append(out, entries[i])
		}
	}
	sort.SliceStable(out, func(i, j int) bool {
		if out[i].Date != out[j].Date {
			return out[i].Date < out[j].Date
		}
		return out[i].ID < out[j].ID
	})
	return out
}

// MonthPaid reports whether a month's invoice is settled: at least one entry
// and every one of them marked paid. An empty month is never paid.
func MonthPaid(entries []models.Entry, mobile, month string) bool {
	found := false
	for i := range entries {
		if entries[i].Mobile != mobile || !InMonth(entries[i].Date, month) {
			continue
		}
		if !entries[i].IsPaid {
			return false
		}
		found = true
	}
	return found
}

func filterByMobile(entries []models.Entry, mobile string) []models.Entry {
	var out []models.Entry
	for i := range entries {
		if entries[i].Mobile == mobile {
			out = append(out, entries[i])
		}
	}
	return out
}
