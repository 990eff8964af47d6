package service

import (
	"bytes"
	"fmt"
	"strings"

	"github.com/go-pdf/fpdf"

	"emprunt/domain"
)

const (
	pageWidth    = 210.0
	marginLeft   = 15.0
	marginRight  = 15.0
	marginTop    = 15.0
	marginBottom = 20.0
	contentWidth = pageWidth - marginLeft - marginRight
)

type comparisonReport struct {
	pdf    *fpdf.Fpdf
	result domain.ComparisonResult
}

// ComparisonPDF renders a comparison as an A4 PDF: inputs, a summary per
// scenario and the year-end figures of both schedules.
func ComparisonPDF(result domain.ComparisonResult) ([]byte, error) {
	r := &comparisonReport{
		pdf:    fpdf.New("P", "mm", "A4", ""),
		result: result,
	}
	r.pdf.SetMargins(marginLeft, marginTop, marginRight)
	r.pdf.SetAutoPageBreak(true, marginBottom)
	r.pdf.SetTitle("Mortgage scenario comparison", false)

	r.addSummaryPage()
	r.addYearTable(1, result.Scenario1)
	r.addYearTable(2, result.Scenario2)

	var buf bytes.Buffer
	if err := r.pdf.Output(&buf); err != nil {
		return nil, fmt.Errorf("render pdf: %w", err)
	}
	return buf.Bytes(), nil
}

// pdfMoney avoids the euro sign, which the core fonts cannot encode.
func pdfMoney(v float64) string {
	return strings.Replace(FormatMoney(v), "€", "EUR ", 1)
}

func (r *comparisonReport) addSummaryPage() {
	r.pdf.AddPage()

	r.pdf.SetFont("Arial", "B", 20)
	r.pdf.SetTextColor(0, 51, 102)
	r.pdf.CellFormat(contentWidth, 12, "Mortgage Scenario Comparison", "", 1, "C", false, 0, "")
	r.pdf.Ln(6)

	in := r.result.Scenario1.SimulationInputs
	r.pdf.SetTextColor(0, 0, 0)
	r.sectionTitle("Common parameters")
	rows := [][2]string{
		{"Home cost", pdfMoney(in.HomeCost)},
		{"Savings", pdfMoney(in.Savings)},
		{"Monthly cash", pdfMoney(in.MonthlyCash)},
		{"Mortgage rate", fmt.Sprintf("%.2f%%", in.AnnualRate)},
		{"Term", fmt.Sprintf("%d years, %d payments/year", in.Years, in.PaymentsPerYear)},
		{"Investment return", fmt.Sprintf("%.2f%%", in.InvestmentRate)},
		{"Home appreciation", fmt.Sprintf("%.2f%%", in.HomeAppreciationRate)},
	}
	for _, row := range rows {
		r.keyValue(row[0], row[1])
	}
	r.pdf.Ln(4)

	r.sectionTitle("Results")
	header := []string{"", "Scenario 1", "Scenario 2"}
	widths := []float64{70, 55, 55}
	r.tableHeader(header, widths)

	s1, s2 := r.result.Scenario1, r.result.Scenario2
	f1, f2 := s1.Final(), s2.Final()
	lines := [][3]string{
		{"Down payment", pdfMoney(s1.DownPayment), pdfMoney(s2.DownPayment)},
		{"Principal", pdfMoney(s1.Principal), pdfMoney(s2.Principal)},
		{"Periodic payment", fmt.Sprintf("EUR %.2f", s1.Payment), fmt.Sprintf("EUR %.2f", s2.Payment)},
		{"Total interest", pdfMoney(s1.TotalInterest), pdfMoney(s2.TotalInterest)},
		{"Final home equity", pdfMoney(f1.HomeEquity), pdfMoney(f2.HomeEquity)},
		{"Final portfolio", pdfMoney(f1.InvestmentPortfolio), pdfMoney(f2.InvestmentPortfolio)},
		{"Final combined wealth", pdfMoney(f1.CombinedWealth), pdfMoney(f2.CombinedWealth)},
	}
	r.pdf.SetFont("Arial", "", 10)
	for _, l := range lines {
		r.pdf.CellFormat(widths[0], 7, l[0], "1", 0, "L", false, 0, "")
		r.pdf.CellFormat(widths[1], 7, l[1], "1", 0, "R", false, 0, "")
		r.pdf.CellFormat(widths[2], 7, l[2], "1", 1, "R", false, 0, "")
	}
	r.pdf.Ln(4)

	r.pdf.SetFont("Arial", "B", 11)
	verdict := "Both scenarios end with the same combined wealth."
	if r.result.Preferred != 0 {
		diff := r.result.WealthDifference
		if diff < 0 {
			diff = -diff
		}
		verdict = fmt.Sprintf("Scenario %d ends %s wealthier.", r.result.Preferred, pdfMoney(diff))
	}
	r.pdf.MultiCell(contentWidth, 6, verdict, "", "L", false)
}

func (r *comparisonReport) addYearTable(n int, res domain.SimulationResult) {
	r.pdf.AddPage()
	r.sectionTitle(fmt.Sprintf("Scenario %d - down payment %s", n, pdfMoney(res.DownPayment)))

	header := []string{"Year", "Balance", "Interest", "Equity", "Portfolio", "Gains", "Wealth"}
	widths := []float64{15, 28, 26, 28, 28, 27, 28}
	r.tableHeader(header, widths)

	r.pdf.SetFont("Arial", "", 8)
	for i, rec := range res.YearEnds() {
		fill := i%2 == 1
		r.pdf.SetFillColor(240, 244, 250)
		cells := []string{
			fmt.Sprintf("%d", rec.Period/res.PaymentsPerYear),
			pdfMoney(rec.Balance),
			pdfMoney(rec.CumulativeInterest),
			pdfMoney(rec.HomeEquity),
			pdfMoney(rec.InvestmentPortfolio),
			pdfMoney(rec.InvestmentGains),
			pdfMoney(rec.CombinedWealth),
		}
		for j, c := range cells {
			ln := 0
			if j == len(cells)-1 {
				ln = 1
			}
			r.pdf.CellFormat(widths[j], 6, c, "1", ln, "R", fill, 0, "")
		}
	}
}

func (r *comparisonReport) sectionTitle(title string) {
	r.pdf.SetFont("Arial", "B", 13)
	r.pdf.SetTextColor(0, 51, 102)
	r.pdf.CellFormat(contentWidth, 9, title, "", 1, "L", false, 0, "")
	r.pdf.SetTextColor(0, 0, 0)
}

func (r *comparisonReport) keyValue(key, value string) {
	r.pdf.SetFont("Arial", "", 10)
	r.pdf.CellFormat(60, 6, key, "", 0, "L", false, 0, "")
	r.pdf.SetFont("Arial", "B", 10)
	r.pdf.CellFormat(contentWidth-60, 6, value, "", 1, "L", false, 0, "")
}

func (r *comparisonReport) tableHeader(cols []string, widths []float64) {
	r.pdf.SetFont("Arial", "B", 9)
	r.pdf.SetFillColor(0, 51, 102)
	r.pdf.SetTextColor(255, 255, 255)
	for i, c := range cols {
		ln := 0
		if i == len(cols)-1 {
			ln = 1
		}
		r.pdf.CellFormat(widths[i], 7, c, "1", ln, "C", true, 0, "")
	}
	r.pdf.SetTextColor(0, 0, 0)
}
