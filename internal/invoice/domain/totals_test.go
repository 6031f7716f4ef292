package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestCalculateTotals_MixedSelection(t *testing.T) {
	entries := []EntryLine{
		{Hours: 3, Rate: 100},
		{Hours: 1, Rate: 150},
	}
	services := []ServiceLine{
		{Name: "Logo design", Fee: 250},
	}

	totals := CalculateTotals(entries, services)

	assert.Equal(t, 450.0, totals.TimeSubtotal)
	assert.Equal(t, 250.0, totals.ServiceSubtotal)
	assert.Equal(t, 700.0, totals.Subtotal)
	assert.Equal(t, 43.75, totals.Tax)
	assert.Equal(t, 743.75, totals.Total)
}

func TestCalculateTotals_ServicesOnly(t *testing.T) {
	totals := CalculateTotals(nil, []ServiceLine{{Fee: 80}})

	assert.Equal(t, 80.0, totals.Subtotal)
	assert.Equal(t, 5.0, totals.Tax)
	assert.Equal(t, 85.0, totals.Total)
}

func TestCalculateTotals_EmptySelection(t *testing.T) {
	totals := CalculateTotals(nil, nil)

	assert.Zero(t, totals.TimeSubtotal)
	assert.Zero(t, totals.ServiceSubtotal)
	assert.Zero(t, totals.Subtotal)
	assert.Zero(t, totals.Tax)
	assert.Zero(t, totals.Total)
}

func TestCalculateTotals_Deterministic(t *testing.T) {
	entries := []EntryLine{
		{Hours: 2.5, Rate: 87.33},
		{Hours: 0.25, Rate: 120},
	}
	services := []ServiceLine{{Fee: 19.99}, {Fee: 42.01}}

	first := CalculateTotals(entries, services)
	second := CalculateTotals(entries, services)

	assert.Equal(t, first, second)
}

func TestTotals_Rounded(t *testing.T) {
	entries := []EntryLine{{Hours: 2.7, Rate: 33.33}}

	totals := CalculateTotals(entries, nil)
	assert.InDelta(t, 89.991, totals.Subtotal, 1e-9)

	rounded := totals.Rounded()
	assert.Equal(t, 89.99, rounded.Subtotal)
	assert.Equal(t, 5.62, rounded.Tax)
	assert.Equal(t, 95.62, rounded.Total)
	assert.Equal(t, Round2(totals.Subtotal*(1+TaxRate)), rounded.Total)
}

func TestRound2(t *testing.T) {
	assert.Equal(t, 43.75, Round2(43.75))
	assert.Equal(t, 0.13, Round2(0.125))
	assert.Equal(t, 1.0, Round2(0.999))
	assert.Equal(t, -0.13, Round2(-0.125))
}

func TestParseStatus(t *testing.T) {
	status, err := ParseStatus("paid")
	assert.NoError(t, err)
	assert.Equal(t, StatusPaid, status)

	status, err = ParseStatus(" PENDING ")
	assert.NoError(t, err)
	assert.Equal(t, StatusPending, status)

	_, err = ParseStatus("overdue")
	assert.ErrorIs(t, err, ErrInvalidStatus)
}
