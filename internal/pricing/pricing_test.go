package pricing

import (
	"testing"

	"github.com/shopspring/decimal"

	"jar-ledger/internal/models"
)

func testRates() Rates {
	return Rates{
		Normal:  decimal.NewFromInt(20),
		Chilled: decimal.NewFromInt(30),
	}
}

func withCustomRate(rate int64) *models.Consumer {
	return &models.Consumer{
		Name:       "Test Consumer",
		Mobile:     "9876543210",
		CustomRate: decimal.NullDecimal{Decimal: decimal.NewFromInt(rate), Valid: true},
	}
}

// TestResolve_ChilledIgnoresCustomRate: chilled always bills at the global
// chilled rate, whatever the consumer's custom rate says.
func TestResolve_ChilledIgnoresCustomRate(t *testing.T) {
	rates := testRates()

	consumers := []*models.Consumer{
		nil,
		{Name: "Plain", Mobile: "9000000001"},
		withCustomRate(15),
		withCustomRate(50),
	}

	for _, consumer := range consumers {
		got := Resolve(consumer, models.TypeChilled, rates)
		if !got.Equal(rates.Chilled) {
			t.Errorf("Resolve(%+v, chilled) = %s, want %s", consumer, got, rates.Chilled)
		}
	}
}

// TestResolve_CustomRateWinsForNormal: a consumer with a custom rate gets it
// for normal jars.
func TestResolve_CustomRateWinsForNormal(t *testing.T) {
	rates := testRates()

	for _, rate := range []int64{1, 15, 25, 100} {
		got := Resolve(withCustomRate(rate), models.TypeNormal, rates)
		if !got.Equal(decimal.NewFromInt(rate)) {
			t.Errorf("Resolve(custom=%d, normal) = %s, want %d", rate, got, rate)
		}
	}
}

// TestResolve_GlobalNormalFallback: no custom rate, or no consumer at all,
// falls back to the global normal rate.
func TestResolve_GlobalNormalFallback(t *testing.T) {
	rates := testRates()

	consumers := []*models.Consumer{
		nil,
		{Name: "Plain", Mobile: "9000000001"},
		{Name: "ZeroRate", Mobile: "9000000002", CustomRate: decimal.NullDecimal{Valid: false}},
	}

	for _, consumer := range consumers {
		got := Resolve(consumer, models.TypeNormal, rates)
		if !got.Equal(rates.Normal) {
			t.Errorf("Resolve(%+v, normal) = %s, want %s", consumer, got, rates.Normal)
		}
	}
}

// TestResolve_Deterministic: same inputs, same output, always.
func TestResolve_Deterministic(t *testing.T) {
	rates := testRates()
	consumer := withCustomRate(17)

	first := Resolve(consumer, models.TypeNormal, rates)
	for i := 0; i < 10; i++ {
		if got := Resolve(consumer, models.TypeNormal, rates); !got.Equal(first) {
			t.Fatalf("Resolve not deterministic: %s then %s", first, got)
		}
	}
}

// TestPrice: qty x unit rate.
func TestPrice(t *testing.T) {
	testCases := []struct {
		qty  int
		rate int64
		want int64
	}{
		{1, 20, 20},
		{3, 20, 60},
		{3, 30, 90},
		{4, 15, 60},
		{10, 25, 250},
	}

	for _, tc := range testCases {
		got := Price(tc.qty, decimal.NewFromInt(tc.rate))
		if !got.Equal(decimal.NewFromInt(tc.want)) {
			t.Errorf("Price(%d, %d) = %s, want %d", tc.qty, tc.rate, got, tc.want)
		}
	}
}

// TestPricing_WorkedExamples covers the canonical billing examples:
// rates {normal:20, chilled:30}, no custom rate, qty=3 -> 60 normal, 90
// chilled; custom rate 15, qty=4 normal -> 60, not 80.
func TestPricing_WorkedExamples(t *testing.T) {
	rates := testRates()

	plain := &models.Consumer{Name: "Plain", Mobile: "9000000001"}
	if got := Price(3, Resolve(plain, models.TypeNormal, rates)); !got.Equal(decimal.NewFromInt(60)) {
		t.Errorf("normal qty=3 price = %s, want 60", got)
	}
	if got := Price(3, Resolve(plain, models.TypeChilled, rates)); !got.Equal(decimal.NewFromInt(90)) {
		t.Errorf("chilled qty=3 price = %s, want 90", got)
	}

	custom := withCustomRate(15)
	if got := Price(4, Resolve(custom, models.TypeNormal, rates)); !got.Equal(decimal.NewFromInt(60)) {
		t.Errorf("custom=15 qty=4 price = %s, want 60", got)
	}
}

// TestDefaultRates: the hardcoded fallback table.
func TestDefaultRates(t *testing.T) {
	rates := DefaultRates()
	if !rates.Normal.Equal(decimal.NewFromInt(20)) {
		t.Errorf("default normal = %s, want 20", rates.Normal)
	}
	if !rates.Chilled.Equal(decimal.NewFromInt(30)) {
		t.Errorf("default chilled = %s, want 30", rates.Chilled)
	}
}
