package domain

import "math"

// TaxRate is applied uniformly to every invoice regardless of client
// jurisdiction.
const TaxRate = 0.0625

// Totals is the subtotal/tax/total block of an invoice. All fields
// carry the raw sums; rounding happens only at presentation via
// Rounded, so repeated computation over the same lines always agrees.
type Totals struct {
	TimeSubtotal    float64 `json:"time_subtotal"`
	ServiceSubtotal float64 `json:"service_subtotal"`
	Subtotal        float64 `json:"subtotal"`
	Tax             float64 `json:"tax"`
	Total           float64 `json:"total"`
}

// CalculateTotals computes the totals block for a selection of time
// entry lines and service lines. It is a pure function: the persisted
// invoice amount and the rendered document both come from it, so the
// two can never disagree.
func CalculateTotals(entries []EntryLine, services []ServiceLine) Totals {
	var t Totals
	for _, entry := range entries {
		t.TimeSubtotal += entry.Amount()
	}
	for _, service := range services {
		t.ServiceSubtotal += service.Fee
	}
	t.Subtotal = t.TimeSubtotal + t.ServiceSubtotal
	t.Tax = t.Subtotal * TaxRate
	t.Total = t.Subtotal + t.Tax
	return t
}

// Rounded returns the totals with every field rounded to cents, for
// the persisted amount and rendered document.
func (t Totals) Rounded() Totals {
	return Totals{
		TimeSubtotal:    Round2(t.TimeSubtotal),
		ServiceSubtotal: Round2(t.ServiceSubtotal),
		Subtotal:        Round2(t.Subtotal),
		Tax:             Round2(t.Tax),
		Total:           Round2(t.Total),
	}
}

// Round2 rounds to two decimal places, half away from zero.
func Round2(v float64) float64 {
	return math.Round(v*100) / 100
}
