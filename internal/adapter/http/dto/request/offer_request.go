package request

import (
	"nexus_consulting/internal/domain/entities"
	"nexus_consulting/internal/domain/pricing"
)

type TechnicalSectionRequest struct {
	Title string `json:"title"`
	Body  string `json:"body"`
}

// LineItemRequest accepts both financial shapes; base_cost presence picks
// the percentage path downstream.
type LineItemRequest struct {
	Description        string   `json:"description"`
	Unit               string   `json:"unit"`
	Qty                float64  `json:"qty"`
	BaseCost           *float64 `json:"base_cost"`
	ProfitPercent      float64  `json:"profit_percent"`
	ContingencyPercent float64  `json:"contingency_percent"`
	DiscountPercent    float64  `json:"discount_percent"`
	UnitPrice          float64  `json:"unit_price"`
	Contingency        float64  `json:"contingency"`
	Profit             float64  `json:"profit"`
}

type TotalsRequest struct {
	Subtotal float64 `json:"subtotal"`
	VAT      float64 `json:"vat"`
	Total    float64 `json:"total"`
}

// FinancialRequest mirrors the persisted financial payload. The totals
// block is only a display cache; the server recomputes from items.
type FinancialRequest struct {
	Currency string            `json:"currency"`
	VATRate  float64           `json:"vat_rate"`
	Items    []LineItemRequest `json:"items"`
	Totals   TotalsRequest     `json:"totals"`
}

// OfferDraftRequest is the saveOfferDraft payload.
type OfferDraftRequest struct {
	Technical []TechnicalSectionRequest `json:"technical"`
	Financial FinancialRequest          `json:"financial" binding:"required"`
}

// ManagerDecisionRequest carries the manager verdict (approve|reject).
type ManagerDecisionRequest struct {
	Decision string `json:"decision" binding:"required"`
	Comment  string `json:"comment"`
}

func (r OfferDraftRequest) TechnicalSections() []entities.TechnicalSection {
	if len(r.Technical) == 0 {
		return nil
	}
	out := make([]entities.TechnicalSection, 0, len(r.Technical))
	for _, s := range r.Technical {
		out = append(out, entities.TechnicalSection{Title: s.Title, Body: s.Body})
	}
	return out
}

func (r OfferDraftRequest) FinancialPayload() pricing.FinancialPayload {
	items := make([]pricing.LineItem, 0, len(r.Financial.Items))
	for _, it := range r.Financial.Items {
		items = append(items, pricing.LineItem{
			Description:        it.Description,
			Unit:               it.Unit,
			Qty:                it.Qty,
			BaseCost:           it.BaseCost,
			ProfitPercent:      it.ProfitPercent,
			ContingencyPercent: it.ContingencyPercent,
			DiscountPercent:    it.DiscountPercent,
			UnitPrice:          it.UnitPrice,
			Contingency:        it.Contingency,
			Profit:             it.Profit,
		})
	}
	return pricing.FinancialPayload{
		Currency: r.Financial.Currency,
		VATRate:  r.Financial.VATRate,
		Items:    items,
		Totals: pricing.Totals{
			Subtotal: r.Financial.Totals.Subtotal,
			VAT:      r.Financial.Totals.VAT,
			Total:    r.Financial.Totals.Total,
		},
	}
}
