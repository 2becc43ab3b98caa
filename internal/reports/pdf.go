// Package reports renders sales and statistics data into downloadable
// documents: PDF receipts and histories, spreadsheet summaries, and a
// JSON catalog dump that can be re-imported.
package reports

import (
	"fmt"

	"github.com/johnfercher/maroto/v2"
	"github.com/johnfercher/maroto/v2/pkg/components/row"
	"github.com/johnfercher/maroto/v2/pkg/components/text"
	"github.com/johnfercher/maroto/v2/pkg/config"
	"github.com/johnfercher/maroto/v2/pkg/consts/align"
	"github.com/johnfercher/maroto/v2/pkg/consts/fontstyle"
	"github.com/johnfercher/maroto/v2/pkg/core"
	"github.com/johnfercher/maroto/v2/pkg/props"

	"github.com/Abdullo200604/idealmarket/internal/models"
	"github.com/Abdullo200604/idealmarket/internal/stats"
)

const dateLayout = "2006-01-02 15:04"

func newDocument() core.Maroto {
	cfg := config.NewBuilder().
		WithPageNumber().
		Build()
	return maroto.New(cfg)
}

func titleRow(title string) core.Row {
	return row.New(12).Add(
		text.NewCol(12, title, props.Text{
			Size:  14,
			Style: fontstyle.Bold,
			Align: align.Center,
		}),
	)
}

func headerCell(width int, s string) core.Col {
	return text.NewCol(width, s, props.Text{Size: 9, Style: fontstyle.Bold})
}

func cell(width int, s string) core.Col {
	return text.NewCol(width, s, props.Text{Size: 9})
}

// SalePDF renders a single sale as a receipt-style document.
func SalePDF(sale *models.Sale) ([]byte, error) {
	m := newDocument()
	m.AddRows(titleRow(fmt.Sprintf("Sale #%d", sale.ID)))

	meta := fmt.Sprintf("Date: %s", sale.CreatedAt.Format(dateLayout))
	if sale.CreatedBy != nil {
		meta += fmt.Sprintf("    Cashier: %s", sale.CreatedBy.Username)
	}
	m.AddRows(row.New(8).Add(text.NewCol(12, meta, props.Text{Size: 10})))

	m.AddRows(row.New(7).Add(
		headerCell(6, "Product"),
		headerCell(2, "Qty"),
		headerCell(2, "Price"),
		headerCell(2, "Subtotal"),
	))
	for _, item := range sale.Items {
		desc := item.Product.Description
		if desc == "" {
			desc = fmt.Sprintf("product %d", item.ProductID)
		}
		m.AddRows(row.New(6).Add(
			cell(6, desc),
			cell(2, fmt.Sprintf("%d", item.Quantity)),
			cell(2, item.Price.StringFixed(2)),
			cell(2, item.Subtotal().StringFixed(2)),
		))
	}
	m.AddRows(row.New(8).Add(
		text.NewCol(12, "Total: "+sale.Total().StringFixed(2), props.Text{
			Size:  11,
			Style: fontstyle.Bold,
			Align: align.Right,
		}),
	))

	doc, err := m.Generate()
	if err != nil {
		return nil, err
	}
	return doc.GetBytes(), nil
}

// SalesHistoryPDF renders a list of sales with per-sale totals.
func SalesHistoryPDF(sales []models.Sale) ([]byte, error) {
	m := newDocument()
	m.AddRows(titleRow("Sales History"))

	m.AddRows(row.New(7).Add(
		headerCell(2, "Sale"),
		headerCell(4, "Date"),
		headerCell(3, "Cashier"),
		headerCell(3, "Total"),
	))
	for i := range sales {
		s := &sales[i]
		cashier := "-"
		if s.CreatedBy != nil {
			cashier = s.CreatedBy.Username
		}
		m.AddRows(row.New(6).Add(
			cell(2, fmt.Sprintf("#%d", s.ID)),
			cell(4, s.CreatedAt.Format(dateLayout)),
			cell(3, cashier),
			cell(3, s.Total().StringFixed(2)),
		))
	}

	doc, err := m.Generate()
	if err != nil {
		return nil, err
	}
	return doc.GetBytes(), nil
}

// StatisticsPDF renders the aggregated sales breakdowns.
func StatisticsPDF(summary *stats.Summary) ([]byte, error) {
	m := newDocument()
	m.AddRows(titleRow("Sales Statistics"))

	section := func(title string) core.Row {
		return row.New(9).Add(text.NewCol(12, title, props.Text{Size: 11, Style: fontstyle.Bold}))
	}

	m.AddRows(section("By category"))
	m.AddRows(row.New(7).Add(headerCell(6, "Category"), headerCell(3, "Quantity"), headerCell(3, "Revenue")))
	for _, r := range summary.ByCategory {
		m.AddRows(row.New(6).Add(cell(6, r.Category), cell(3, fmt.Sprintf("%d", r.Quantity)), cell(3, r.Revenue.StringFixed(2))))
	}

	m.AddRows(section("By product"))
	m.AddRows(row.New(7).Add(headerCell(6, "Product"), headerCell(3, "Quantity"), headerCell(3, "Revenue")))
	for _, r := range summary.ByProduct {
		m.AddRows(row.New(6).Add(cell(6, r.Description), cell(3, fmt.Sprintf("%d", r.Quantity)), cell(3, r.Revenue.StringFixed(2))))
	}

	m.AddRows(section("By operator"))
	m.AddRows(row.New(7).Add(headerCell(6, "Operator"), headerCell(3, "Receipts"), headerCell(3, "Revenue")))
	for _, r := range summary.ByOperator {
		name := r.Username
		if name == "" {
			name = "-"
		}
		m.AddRows(row.New(6).Add(cell(6, name), cell(3, fmt.Sprintf("%d", r.Receipts)), cell(3, r.Revenue.StringFixed(2))))
	}

	m.AddRows(section("By date"))
	m.AddRows(row.New(7).Add(headerCell(6, "Date"), headerCell(3, "Receipts"), headerCell(3, "Revenue")))
	for _, r := range summary.ByDate {
		m.AddRows(row.New(6).Add(cell(6, r.Date), cell(3, fmt.Sprintf("%d", r.Receipts)), cell(3, r.Revenue.StringFixed(2))))
	}

	doc, err := m.Generate()
	if err != nil {
		return nil, err
	}
	return doc.GetBytes(), nil
}
