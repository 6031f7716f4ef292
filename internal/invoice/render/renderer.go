// Package render turns an invoice with resolved line items into a PDF.
// The same renderer backs the download endpoint and the email
// attachment so the two documents can never drift apart.
package render

import (
	"context"
	"fmt"

	"github.com/johnfercher/maroto/v2"
	"github.com/johnfercher/maroto/v2/pkg/components/col"
	"github.com/johnfercher/maroto/v2/pkg/components/line"
	"github.com/johnfercher/maroto/v2/pkg/components/text"
	"github.com/johnfercher/maroto/v2/pkg/config"
	"github.com/johnfercher/maroto/v2/pkg/consts/align"
	"github.com/johnfercher/maroto/v2/pkg/consts/fontstyle"
	"github.com/johnfercher/maroto/v2/pkg/props"
	"github.com/smallbiznis/devgate/internal/invoice/domain"
)

type Renderer interface {
	Render(ctx context.Context, detail domain.Detail) ([]byte, error)
}

type pdfRenderer struct{}

func New() Renderer {
	return &pdfRenderer{}
}

// Render lays the invoice out as: a centered header with the invoice
// identifier and date, a Time Entries section, a One-Time Services
// section, and a right-aligned totals block. The body embeds no wall
// clock, only the persisted invoice date, so rendering the same
// invoice twice reproduces the same document.
func (r *pdfRenderer) Render(ctx context.Context, detail domain.Detail) ([]byte, error) {
	cfg := config.NewBuilder().Build()
	m := maroto.New(cfg)

	m.AddRow(12,
		text.NewCol(12, fmt.Sprintf("Invoice #%s", detail.ID.String()), props.Text{
			Size:  18,
			Style: fontstyle.Bold,
			Align: align.Center,
		}),
	)
	m.AddRow(8,
		text.NewCol(12, "Date: "+detail.Date.Format("2006-01-02"), props.Text{
			Size:  10,
			Align: align.Center,
		}),
	)

	if len(detail.Entries) > 0 {
		m.AddRow(10,
			text.NewCol(12, "Time Entries", props.Text{
				Size:  12,
				Style: fontstyle.Bold,
			}),
		)
		m.AddRow(2, line.NewCol(12))
		for _, entry := range detail.Entries {
			m.AddRow(7,
				text.NewCol(8, fmt.Sprintf("%s - %s", entry.ClientName, entry.ProjectTitle), props.Text{Size: 9}),
				text.NewCol(4, fmt.Sprintf("%.2fh @ $%.2f = $%.2f",
					entry.Hours, entry.Rate, domain.Round2(entry.Amount())), props.Text{
					Size:  9,
					Align: align.Right,
				}),
			)
		}
	}

	if len(detail.Services) > 0 {
		m.AddRow(10,
			text.NewCol(12, "One-Time Services", props.Text{
				Size:  12,
				Style: fontstyle.Bold,
				Top:   2,
			}),
		)
		m.AddRow(2, line.NewCol(12))
		for _, service := range detail.Services {
			m.AddRow(7,
				text.NewCol(8, service.Name, props.Text{Size: 9}),
				text.NewCol(4, fmt.Sprintf("$%.2f", domain.Round2(service.Fee)), props.Text{
					Size:  9,
					Align: align.Right,
				}),
			)
		}
	}

	totals := detail.Totals
	m.AddRow(10,
		col.New(6),
		text.NewCol(3, "Subtotal", props.Text{Size: 10, Top: 4}),
		text.NewCol(3, fmt.Sprintf("$%.2f", domain.Round2(totals.Subtotal)), props.Text{
			Size:  10,
			Top:   4,
			Align: align.Right,
		}),
	)
	m.AddRow(7,
		col.New(6),
		text.NewCol(3, fmt.Sprintf("Tax (%.2f%%)", domain.TaxRate*100), props.Text{Size: 10}),
		text.NewCol(3, fmt.Sprintf("$%.2f", totals.Tax), props.Text{
			Size:  10,
			Align: align.Right,
		}),
	)
	m.AddRow(7,
		col.New(6),
		text.NewCol(3, "Total", props.Text{Size: 10, Style: fontstyle.Bold}),
		text.NewCol(3, fmt.Sprintf("$%.2f", totals.Total), props.Text{
			Size:  10,
			Style: fontstyle.Bold,
			Align: align.Right,
		}),
	)

	doc, err := m.Generate()
	if err != nil {
		return nil, err
	}
	return doc.GetBytes(), nil
}
