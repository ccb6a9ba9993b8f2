package pricing

import (
	"errors"
	"math"
	"testing"
)

func f(v float64) *float64 { return &v }

func almostEqual(a, b float64) bool {
	return math.Abs(a-b) <= 1e-9
}

func TestLineItem_PercentageShape(t *testing.T) {
	li := LineItem{
		Description:        "senior consultant",
		Unit:               "day",
		Qty:                2,
		BaseCost:           f(100),
		ProfitPercent:      20,
		ContingencyPercent: 5,
		DiscountPercent:    10,
	}

	t.Run("unit after markup", func(t *testing.T) {
		if got := li.UnitAfterMarkup(); !almostEqual(got, 125) {
			t.Fatalf("UnitAfterMarkup = %v, want 125", got)
		}
	})

	t.Run("unit after discount", func(t *testing.T) {
		if got := li.UnitAfterDiscount(); !almostEqual(got, 112.5) {
			t.Fatalf("UnitAfterDiscount = %v, want 112.5", got)
		}
	})

	t.Run("line total", func(t *testing.T) {
		got, err := CalculateLineTotal(li)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if !almostEqual(got, 225) {
			t.Fatalf("CalculateLineTotal = %v, want 225", got)
		}
	})

	t.Run("zero discount keeps markup", func(t *testing.T) {
		item := li
		item.DiscountPercent = 0
		got, err := CalculateLineTotal(item)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if !almostEqual(got, 250) {
			t.Fatalf("CalculateLineTotal = %v, want 250", got)
		}
	})

	t.Run("full discount zeroes the line", func(t *testing.T) {
		item := li
		item.DiscountPercent = 100
		got, err := CalculateLineTotal(item)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if !almostEqual(got, 0) {
			t.Fatalf("CalculateLineTotal = %v, want 0", got)
		}
	})

	t.Run("deterministic", func(t *testing.T) {
		first, _ := CalculateLineTotal(li)
		for i := 0; i < 100; i++ {
			again, _ := CalculateLineTotal(li)
			if again != first {
				t.Fatalf("iteration %d: got %v, want %v", i, again, first)
			}
		}
	})
}

func TestLineItem_LegacyShape(t *testing.T) {
	t.Run("qty times unit price plus adders", func(t *testing.T) {
		got, err := CalculateLineTotal(LineItem{Qty: 3, UnitPrice: 50, Contingency: 10, Profit: 25})
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if !almostEqual(got, 185) {
			t.Fatalf("CalculateLineTotal = %v, want 185", got)
		}
	})

	t.Run("percent fields ignored without base cost", func(t *testing.T) {
		got, err := CalculateLineTotal(LineItem{Qty: 1, UnitPrice: 100, ProfitPercent: 50})
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if !almostEqual(got, 100) {
			t.Fatalf("CalculateLineTotal = %v, want 100", got)
		}
	})

	t.Run("explicit zero base cost selects percentage shape", func(t *testing.T) {
		got, err := CalculateLineTotal(LineItem{Qty: 4, BaseCost: f(0), UnitPrice: 99})
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if !almostEqual(got, 0) {
			t.Fatalf("CalculateLineTotal = %v, want 0", got)
		}
	})
}

func TestLineItem_Validate(t *testing.T) {
	cases := []struct {
		name string
		item LineItem
		want error
	}{
		{"negative qty", LineItem{Qty: -1, BaseCost: f(10)}, ErrNegativeQty},
		{"negative base cost", LineItem{Qty: 1, BaseCost: f(-5)}, ErrNegativeBaseCost},
		{"negative profit percent", LineItem{Qty: 1, BaseCost: f(10), ProfitPercent: -1}, ErrNegativePercent},
		{"negative contingency percent", LineItem{Qty: 1, BaseCost: f(10), ContingencyPercent: -1}, ErrNegativePercent},
		{"discount below range", LineItem{Qty: 1, BaseCost: f(10), DiscountPercent: -0.5}, ErrDiscountOutOfRange},
		{"discount above range", LineItem{Qty: 1, BaseCost: f(10), DiscountPercent: 100.5}, ErrDiscountOutOfRange},
		{"no shape at all", LineItem{Qty: 1}, ErrLineItemShapeUnknown},
		{"valid percentage shape", LineItem{Qty: 1, BaseCost: f(10)}, nil},
		{"valid legacy shape", LineItem{Qty: 1, UnitPrice: 10}, nil},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if err := tc.item.Validate(); !errors.Is(err, tc.want) {
				t.Fatalf("Validate() = %v, want %v", err, tc.want)
			}
		})
	}
}

func TestComputeTotals(t *testing.T) {
	items := []LineItem{
		{Qty: 2, BaseCost: f(100), ProfitPercent: 20, ContingencyPercent: 5, DiscountPercent: 10},
	}

	t.Run("subtotal vat and grand total", func(t *testing.T) {
		got, err := ComputeTotals(items, 0.15)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if !almostEqual(got.Subtotal, 225) || !almostEqual(got.VAT, 33.75) || !almostEqual(got.Total, 258.75) {
			t.Fatalf("unexpected totals: %+v", got)
		}
	})

	t.Run("mixed shapes sum", func(t *testing.T) {
		mixed := append([]LineItem{}, items...)
		mixed = append(mixed, LineItem{Qty: 1, UnitPrice: 75})
		got, err := ComputeTotals(mixed, 0)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if !almostEqual(got.Subtotal, 300) || !almostEqual(got.VAT, 0) || !almostEqual(got.Total, 300) {
			t.Fatalf("unexpected totals: %+v", got)
		}
	})

	t.Run("empty items give zero totals", func(t *testing.T) {
		got, err := ComputeTotals(nil, 0.15)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if got != (Totals{}) {
			t.Fatalf("unexpected totals: %+v", got)
		}
	})

	t.Run("negative vat rate rejected", func(t *testing.T) {
		_, err := ComputeTotals(items, -0.01)
		if !errors.Is(err, ErrNegativeVATRate) {
			t.Fatalf("expected ErrNegativeVATRate, got %v", err)
		}
	})

	t.Run("bad item surfaces its error", func(t *testing.T) {
		_, err := ComputeTotals([]LineItem{{Qty: -1, BaseCost: f(10)}}, 0.15)
		if !errors.Is(err, ErrNegativeQty) {
			t.Fatalf("expected ErrNegativeQty, got %v", err)
		}
	})

	t.Run("total never below subtotal", func(t *testing.T) {
		got, err := ComputeTotals(items, 0.15)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if got.Total < got.Subtotal {
			t.Fatalf("total %v below subtotal %v", got.Total, got.Subtotal)
		}
	})
}

func TestRecompute(t *testing.T) {
	items := []LineItem{
		{Qty: 2, BaseCost: f(100), ProfitPercent: 20, ContingencyPercent: 5, DiscountPercent: 10},
	}

	t.Run("no cached totals means no mismatch", func(t *testing.T) {
		p := FinancialPayload{Currency: "EUR", VATRate: 0.15, Items: items}
		mismatch, err := Recompute(&p, DefaultVATRate)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if mismatch {
			t.Fatal("expected no mismatch for absent cache")
		}
		if !almostEqual(p.Totals.Total, 258.75) {
			t.Fatalf("unexpected total: %v", p.Totals.Total)
		}
	})

	t.Run("matching cache passes", func(t *testing.T) {
		p := FinancialPayload{VATRate: 0.15, Items: items, Totals: Totals{Subtotal: 225, VAT: 33.75, Total: 258.75}}
		mismatch, err := Recompute(&p, DefaultVATRate)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if mismatch {
			t.Fatal("expected matching cache to pass")
		}
	})

	t.Run("stale cache flagged and overwritten", func(t *testing.T) {
		p := FinancialPayload{VATRate: 0.15, Items: items, Totals: Totals{Subtotal: 999, VAT: 1, Total: 1000}}
		mismatch, err := Recompute(&p, DefaultVATRate)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if !mismatch {
			t.Fatal("expected mismatch for stale cache")
		}
		if !almostEqual(p.Totals.Subtotal, 225) || !almostEqual(p.Totals.Total, 258.75) {
			t.Fatalf("recomputed totals did not win: %+v", p.Totals)
		}
	})

	t.Run("zero vat rate falls back to default", func(t *testing.T) {
		p := FinancialPayload{Items: items}
		if _, err := Recompute(&p, DefaultVATRate); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if p.VATRate != DefaultVATRate {
			t.Fatalf("VATRate = %v, want %v", p.VATRate, DefaultVATRate)
		}
		if !almostEqual(p.Totals.VAT, 33.75) {
			t.Fatalf("unexpected vat: %v", p.Totals.VAT)
		}
	})

	t.Run("bad item rejects the payload", func(t *testing.T) {
		p := FinancialPayload{VATRate: 0.15, Items: []LineItem{{Qty: 1}}}
		if _, err := Recompute(&p, DefaultVATRate); !errors.Is(err, ErrLineItemShapeUnknown) {
			t.Fatalf("expected ErrLineItemShapeUnknown, got %v", err)
		}
	})
}
