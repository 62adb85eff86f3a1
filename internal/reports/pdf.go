package reports

import (
	"bytes"
	"strconv"
	"strings"
	"time"

	"github.com/phpdave11/gofpdf"
	"github.com/shopspring/decimal"

	"github.com/finbuddy/backend/internal/money"
)

const maxRows = 200

var (
	rowCols      = []float64{30, 50, 34, 34, 34}
	rowHeaders   = []string{"MONTH", "CATEGORY", "INCOME", "EXPENSES", "NET"}
	rowAlignment = []string{"C", "L", "R", "R", "R"}
)

// RenderPDF lays the report out on A4 pages. owner is printed masked.
func RenderPDF(r Report, owner string, generatedAt time.Time) ([]byte, error) {
	pdf := gofpdf.New("P", "mm", "A4", "")
	pdf.SetMargins(14, 14, 14)
	pdf.AddPage()

	pdf.SetFont("Helvetica", "B", 48)
	pdf.SetTextColor(235, 235, 235)
	pdf.Text(25, 140, "FINBUDDY")

	pdf.SetTextColor(20, 20, 20)
	pdf.SetFont("Helvetica", "B", 18)
	pdf.Cell(0, 10, "Spending Report")
	pdf.Ln(8)

	pdf.SetFont("Helvetica", "", 10)
	pdf.SetTextColor(80, 80, 80)
	pdf.Cell(0, 6, "Period: "+r.Period)
	pdf.Ln(5)
	pdf.Cell(0, 6, "User: "+maskID(owner))
	pdf.Ln(10)

	pdf.SetDrawColor(200, 200, 200)
	pdf.SetFillColor(248, 248, 248)
	pdf.SetTextColor(20, 20, 20)
	pdf.SetFont("Helvetica", "B", 11)

	sumW := []float64{60, 61, 61}
	pdf.CellFormat(sumW[0], 10, "Income", "1", 0, "C", true, 0, "")
	pdf.CellFormat(sumW[1], 10, "Expenses", "1", 0, "C", true, 0, "")
	pdf.CellFormat(sumW[2], 10, "Net", "1", 1, "C", true, 0, "")

	pdf.SetFont("Helvetica", "", 11)
	pdf.CellFormat(sumW[0], 10, formatAmount(r.TotalIncome), "1", 0, "C", false, 0, "")
	pdf.CellFormat(sumW[1], 10, formatAmount(r.TotalExpenses), "1", 0, "C", false, 0, "")
	pdf.CellFormat(sumW[2], 10, formatAmount(r.Net), "1", 1, "C", false, 0, "")
	pdf.Ln(6)

	tableHeader(pdf)
	pdf.SetFont("Helvetica", "", 9)
	pdf.SetTextColor(30, 30, 30)

	if len(r.Rows) == 0 {
		pdf.SetFont("Helvetica", "I", 9)
		pdf.CellFormat(0, 8, "No budgets recorded for this period.", "1", 1, "C", false, 0, "")
	}
	for i, row := range r.Rows {
		if i >= maxRows {
			pdf.SetFont("Helvetica", "I", 9)
			pdf.CellFormat(0, 8, "...truncated (too many rows)", "1", 1, "C", false, 0, "")
			break
		}
		if pdf.GetY() > 270 {
			pdf.AddPage()
			tableHeader(pdf)
			pdf.SetFont("Helvetica", "", 9)
		}

		cells := []string{
			row.Month,
			row.Category,
			formatAmount(row.Income),
			formatAmount(row.Expenses),
			formatAmount(row.Net),
		}
		for j, text := range cells {
			ln := 0
			if j == len(cells)-1 {
				ln = 1
			}
			pdf.CellFormat(rowCols[j], 8, text, "1", ln, rowAlignment[j], false, 0, "")
		}
	}

	if len(r.Categories) > 0 {
		pdf.Ln(6)
		if pdf.GetY() > 250 {
			pdf.AddPage()
		}
		pdf.SetFont("Helvetica", "B", 12)
		pdf.Cell(0, 8, "Expenses by category")
		pdf.Ln(9)

		pdf.SetFont("Helvetica", "B", 10)
		pdf.SetFillColor(245, 245, 245)
		pdf.CellFormat(80, 8, "CATEGORY", "1", 0, "L", true, 0, "")
		pdf.CellFormat(30, 8, "BUDGETS", "1", 0, "C", true, 0, "")
		pdf.CellFormat(40, 8, "EXPENSES", "1", 1, "R", true, 0, "")

		pdf.SetFont("Helvetica", "", 9)
		for _, ct := range r.Categories {
			if pdf.GetY() > 270 {
				pdf.AddPage()
			}
			pdf.CellFormat(80, 8, ct.Category, "1", 0, "L", false, 0, "")
			pdf.CellFormat(30, 8, strconv.Itoa(ct.Count), "1", 0, "C", false, 0, "")
			pdf.CellFormat(40, 8, formatAmount(ct.Expenses), "1", 1, "R", false, 0, "")
		}
	}

	pdf.SetY(-18)
	pdf.SetFont("Helvetica", "", 9)
	pdf.SetTextColor(120, 120, 120)
	pdf.CellFormat(0, 10, "Generated by FinBuddy - "+generatedAt.UTC().Format(time.RFC3339), "", 0, "C", false, 0, "")

	var buf bytes.Buffer
	if err := pdf.Output(&buf); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

func tableHeader(pdf *gofpdf.Fpdf) {
	pdf.SetFont("Helvetica", "B", 10)
	pdf.SetFillColor(245, 245, 245)
	pdf.SetTextColor(20, 20, 20)
	for i, h := range rowHeaders {
		ln := 0
		if i == len(rowHeaders)-1 {
			ln = 1
		}
		pdf.CellFormat(rowCols[i], 8, h, "1", ln, "C", true, 0, "")
	}
}

func maskID(id string) string {
	id = strings.TrimSpace(id)
	if len(id) <= 8 {
		return id
	}
	return id[:4] + "..." + id[len(id)-4:]
}

// formatAmount renders d with two places and thousands separators,
// e.g. -1,234.50.
func formatAmount(d decimal.Decimal) string {
	s := money.Format(d.Abs())
	whole, frac, _ := strings.Cut(s, ".")

	sign := ""
	if d.IsNegative() {
		sign = "-"
	}
	return sign + withCommas(whole) + "." + frac
}

func withCommas(digits string) string {
	var b strings.Builder
	l := len(digits)
	for i := 0; i < l; i++ {
		b.WriteByte(digits[i])
		rem := l - i - 1
		if rem > 0 && rem%3 == 0 {
			b.WriteByte(',')
		}
	}
	return b.String()
}
