package pricing

import (
	"errors"
	"math"
)

// All monetary math is IEEE-754 float64. Totals are never trusted from the
// caller: they are recomputed from the line items and compared, and the
// recomputed values win.

const DefaultVATRate = 0.15

// Recomputed vs cached totals closer than this are treated as equal.
const totalsTolerance = 1e-9

var (
	ErrNegativeQty          = errors.New("qty must be >= 0")
	ErrNegativeBaseCost     = errors.New("base_cost must be >= 0")
	ErrNegativePercent      = errors.New("percentages must be >= 0")
	ErrDiscountOutOfRange   = errors.New("discount_percent must be within [0,100]")
	ErrNegativeVATRate      = errors.New("vat_rate must be >= 0")
	ErrLineItemShapeUnknown = errors.New("line item has neither base_cost nor unit_price")
)

// LineItem supports two coexisting financial shapes:
//
//   - percentage shape (BaseCost set): unit economics built from base cost,
//     profit %, contingency % and discount %;
//   - legacy shape (BaseCost absent): flat unit price plus additive
//     contingency/profit amounts.
//
// The presence of base_cost decides which path computes the line total.
type LineItem struct {
	Description        string   `json:"description"`
	Unit               string   `json:"unit,omitempty"`
	Qty                float64  `json:"qty"`
	BaseCost           *float64 `json:"base_cost,omitempty"`
	ProfitPercent      float64  `json:"profit_percent,omitempty"`
	ContingencyPercent float64  `json:"contingency_percent,omitempty"`
	DiscountPercent    float64  `json:"discount_percent,omitempty"`

	// Legacy shape fields.
	UnitPrice   float64 `json:"unit_price,omitempty"`
	Contingency float64 `json:"contingency,omitempty"`
	Profit      float64 `json:"profit,omitempty"`
}

type Totals struct {
	Subtotal float64 `json:"subtotal"`
	VAT      float64 `json:"vat"`
	Total    float64 `json:"total"`
}

// FinancialPayload is the persisted financial section of an offer. The
// totals block is a display cache; ComputeTotals is authoritative.
type FinancialPayload struct {
	Currency string     `json:"currency"`
	VATRate  float64    `json:"vat_rate"`
	Items    []LineItem `json:"items"`
	Totals   Totals     `json:"totals"`
}

// UnitAfterMarkup returns base_cost * (1 + profit%/100 + contingency%/100).
// Only meaningful for the percentage shape.
func (li LineItem) UnitAfterMarkup() float64 {
	if li.BaseCost == nil {
		return 0
	}
	return *li.BaseCost * (1 + li.ProfitPercent/100 + li.ContingencyPercent/100)
}

// UnitAfterDiscount applies the discount on top of the marked-up unit price.
func (li LineItem) UnitAfterDiscount() float64 {
	return li.UnitAfterMarkup() * (1 - li.DiscountPercent/100)
}

// Validate enforces the numeric domain of a line item.
func (li LineItem) Validate() error {
	if li.Qty < 0 {
		return ErrNegativeQty
	}
	if li.BaseCost != nil {
		if *li.BaseCost < 0 {
			return ErrNegativeBaseCost
		}
		if li.ProfitPercent < 0 || li.ContingencyPercent < 0 {
			return ErrNegativePercent
		}
		if li.DiscountPercent < 0 || li.DiscountPercent > 100 {
			return ErrDiscountOutOfRange
		}
		return nil
	}
	if li.UnitPrice == 0 && li.Contingency == 0 && li.Profit == 0 {
		return ErrLineItemShapeUnknown
	}
	return nil
}

// CalculateLineTotal dispatches on the presence of base_cost:
// percentage shape multiplies unit economics by qty, the legacy shape is
// qty*unit_price + contingency + profit.
func CalculateLineTotal(li LineItem) (float64, error) {
	if err := li.Validate(); err != nil {
		return 0, err
	}
	if li.BaseCost != nil {
		return li.UnitAfterDiscount() * li.Qty, nil
	}
	return li.Qty*li.UnitPrice + li.Contingency + li.Profit, nil
}

// ComputeTotals aggregates line totals into subtotal, VAT and grand total.
func ComputeTotals(items []LineItem, vatRate float64) (Totals, error) {
	if vatRate < 0 {
		return Totals{}, ErrNegativeVATRate
	}
	subtotal := 0.0
	for _, li := range items {
		lt, err := CalculateLineTotal(li)
		if err != nil {
			return Totals{}, err
		}
		subtotal += lt
	}
	vat := subtotal * vatRate
	return Totals{Subtotal: subtotal, VAT: vat, Total: subtotal + vat}, nil
}

// Recompute replaces the payload's totals block with freshly computed values
// and reports whether the caller-supplied block disagreed. A zero VAT rate
// on the payload falls back to defaultVATRate.
func Recompute(p *FinancialPayload, defaultVATRate float64) (mismatch bool, err error) {
	if p.VATRate == 0 {
		p.VATRate = defaultVATRate
	}
	computed, err := ComputeTotals(p.Items, p.VATRate)
	if err != nil {
		return false, err
	}
	// An all-zero block means the caller sent no cache at all.
	if (p.Totals != Totals{}) {
		mismatch = !totalsEqual(p.Totals, computed)
	}
	p.Totals = computed
	return mismatch, nil
}

func totalsEqual(a, b Totals) bool {
	return math.Abs(a.Subtotal-b.Subtotal) <= totalsTolerance &&
		math.Abs(a.VAT-b.VAT) <= totalsTolerance &&
		math.Abs(a.Total-b.Total) <= totalsTolerance
}
