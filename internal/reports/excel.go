package reports

import (
	"bytes"

	"github.com/xuri/excelize/v2"

	"github.com/Abdullo200604/idealmarket/internal/models"
	"github.com/Abdullo200604/idealmarket/internal/stats"
)

// StatisticsXLSX writes one sheet per breakdown.
func StatisticsXLSX(summary *stats.Summary) ([]byte, error) {
	f := excelize.NewFile()
	defer f.Close()

	if err := writeSheet(f, "By category", []string{"Category", "Quantity", "Revenue"}, len(summary.ByCategory), func(i int) []any {
		r := summary.ByCategory[i]
		return []any{r.Category, r.Quantity, r.Revenue.InexactFloat64()}
	}); err != nil {
		return nil, err
	}
	if err := writeSheet(f, "By product", []string{"Barcode", "Product", "Quantity", "Revenue"}, len(summary.ByProduct), func(i int) []any {
		r := summary.ByProduct[i]
		return []any{r.Barcode, r.Description, r.Quantity, r.Revenue.InexactFloat64()}
	}); err != nil {
		return nil, err
	}
	if err := writeSheet(f, "By operator", []string{"Operator", "Receipts", "Revenue"}, len(summary.ByOperator), func(i int) []any {
		r := summary.ByOperator[i]
		return []any{r.Username, r.Receipts, r.Revenue.InexactFloat64()}
	}); err != nil {
		return nil, err
	}
	if err := writeSheet(f, "By date", []string{"Date", "Receipts", "Revenue"}, len(summary.ByDate), func(i int) []any {
		r := summary.ByDate[i]
		return []any{r.Date, r.Receipts, r.Revenue.InexactFloat64()}
	}); err != nil {
		return nil, err
	}
	if err := writeSheet(f, "By hour", []string{"Hour", "Receipts"}, len(summary.ByHour), func(i int) []any {
		r := summary.ByHour[i]
		return []any{r.Hour, r.Receipts}
	}); err != nil {
		return nil, err
	}

	// the default sheet excelize creates is not used
	f.DeleteSheet("Sheet1")

	var buf bytes.Buffer
	if err := f.Write(&buf); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// SalesHistoryXLSX writes one row per sale.
func SalesHistoryXLSX(sales []models.Sale) ([]byte, error) {
	f := excelize.NewFile()
	defer f.Close()

	if err := writeSheet(f, "Sales", []string{"Sale", "Date", "Cashier", "Total"}, len(sales), func(i int) []any {
		s := &sales[i]
		cashier := ""
		if s.CreatedBy != nil {
			cashier = s.CreatedBy.Username
		}
		return []any{s.ID, s.CreatedAt.Format(dateLayout), cashier, s.Total().InexactFloat64()}
	}); err != nil {
		return nil, err
	}
	f.DeleteSheet("Sheet1")

	var buf bytes.Buffer
	if err := f.Write(&buf); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

func writeSheet(f *excelize.File, name string, header []string, n int, rowAt func(int) []any) error {
	if _, err := f.NewSheet(name); err != nil {
		return err
	}
	head := make([]any, len(header))
	for i, h := range header {
		head[i] = h
	}
	if err := setRow(f, name, 1, head); err != nil {
		return err
	}
	for i := 0; i < n; i++ {
		if err := setRow(f, name, i+2, rowAt(i)); err != nil {
			return err
		}
	}
	return nil
}

func setRow(f *excelize.File, sheet string, rowNum int, values []any) error {
	cell, err := excelize.CoordinatesToCellName(1, rowNum)
	if err != nil {
		return err
	}
	return f.SetSheetRow(sheet, cell, &values)
}
