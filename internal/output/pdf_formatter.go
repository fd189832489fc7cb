package output

import (
	"bytes"
	"fmt"

	"github.com/go-pdf/fpdf"
	"github.com/lonelyless/decisionaid/internal/domain"
)

// PDFFormatter produces a short A4 policy brief.
type PDFFormatter struct{}

func (p PDFFormatter) Name() string { return "pdf" }

const (
	pdfMarginLeft   = 15.0
	pdfMarginTop    = 15.0
	pdfMarginRight  = 15.0
	pdfMarginBottom = 20.0
	pdfContentWidth = 210.0 - pdfMarginLeft - pdfMarginRight
)

type policyBrief struct {
	pdf *fpdf.Fpdf
	tr  func(string) string
	r   *Report
	m   Money
}

func (p PDFFormatter) Format(r *Report) ([]byte, error) {
	if r == nil || r.Current == nil {
		return nil, fmt.Errorf("report has no current result")
	}
	doc := fpdf.New("P", "mm", "A4", "")
	doc.SetMargins(pdfMarginLeft, pdfMarginTop, pdfMarginRight)
	doc.SetAutoPageBreak(true, pdfMarginBottom)
	doc.SetTitle(r.Title, true)

	brief := &policyBrief{
		pdf: doc,
		// standard fonts are cp1252; translate the UTF-8 text we produce
		tr: doc.UnicodeTranslatorFromDescriptor(""),
		r:  r,
		m:  r.Money(),
	}
	brief.addSummaryPage()
	brief.addCosts()
	if len(r.Definitions) > 0 {
		brief.addDefinitions()
	}
	if len(r.Scenarios) > 1 {
		brief.addScenarios()
	}
	brief.addAssumptions()

	var buf bytes.Buffer
	if err := doc.Output(&buf); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

func (b *policyBrief) heading(text string) {
	b.pdf.Ln(4)
	b.pdf.SetFont("Helvetica", "B", 13)
	b.pdf.SetTextColor(0, 51, 102)
	b.pdf.CellFormat(pdfContentWidth, 8, b.tr(text), "", 1, "L", false, 0, "")
	b.pdf.SetTextColor(0, 0, 0)
	b.pdf.SetFont("Helvetica", "", 10)
}

func (b *policyBrief) paragraph(text string) {
	b.pdf.SetFont("Helvetica", "", 10)
	b.pdf.MultiCell(pdfContentWidth, 5, b.tr(text), "", "L", false)
	b.pdf.Ln(2)
}

func (b *policyBrief) keyValue(label, value string) {
	b.pdf.SetFont("Helvetica", "B", 10)
	b.pdf.CellFormat(70, 6, b.tr(label), "", 0, "L", false, 0, "")
	b.pdf.SetFont("Helvetica", "", 10)
	b.pdf.CellFormat(pdfContentWidth-70, 6, b.tr(value), "", 1, "L", false, 0, "")
}

// table draws a header row and body rows; the first column is left aligned and
// the rest right aligned.
func (b *policyBrief) table(widths []float64, header []string, rows [][]string) {
	b.pdf.SetFont("Helvetica", "B", 9)
	b.pdf.SetFillColor(230, 236, 245)
	for i, h := range header {
		b.pdf.CellFormat(widths[i], 7, b.tr(h), "1", 0, "C", true, 0, "")
	}
	b.pdf.Ln(-1)
	b.pdf.SetFont("Helvetica", "", 9)
	for _, row := range rows {
		for i, cell := range row {
			align := "R"
			if i == 0 {
				align = "L"
			}
			b.pdf.CellFormat(widths[i], 6, b.tr(cell), "1", 0, align, false, 0, "")
		}
		b.pdf.Ln(-1)
	}
}

func (b *policyBrief) addSummaryPage() {
	cur := b.r.Current
	b.pdf.AddPage()

	b.pdf.SetFont("Helvetica", "B", 20)
	b.pdf.SetTextColor(0, 51, 102)
	b.pdf.CellFormat(pdfContentWidth, 12, b.tr("LonelyLess policy brief"), "", 1, "L", false, 0, "")
	b.pdf.SetFont("Helvetica", "", 9)
	b.pdf.SetTextColor(100, 100, 100)
	b.pdf.CellFormat(pdfContentWidth, 5, b.tr("Generated "+b.r.GeneratedAt.Format("2 January 2006 15:04")), "", 1, "L", false, 0, "")
	b.pdf.SetTextColor(0, 0, 0)
	b.pdf.Ln(4)

	red, green, blue := statusFill(cur.Status)
	b.pdf.SetFillColor(red, green, blue)
	b.pdf.SetFont("Helvetica", "B", 11)
	b.pdf.CellFormat(pdfContentWidth, 9, b.tr(string(cur.Status)), "", 1, "C", true, 0, "")
	b.pdf.Ln(3)

	b.paragraph(Headline(b.r))
	b.paragraph(Briefing(b.r))

	b.heading("Headline figures")
	if cur.Configuration.Name != "" {
		b.keyValue("Scenario", cur.Configuration.Name)
	}
	b.keyValue("Population segment", cur.SegmentLabel)
	b.keyValue("Benefit measure", cur.Definition.Label())
	b.keyValue("Expected uptake", FormatPercentage(cur.Choice.UptakeProbability))
	b.keyValue("Endorsed participants", fmt.Sprintf("%s of %d", cur.Reach.EndorsedParticipants.StringFixed(1), cur.Reach.TotalParticipants))
	b.keyValue("Total cost", b.m.Format(cur.Cost.TotalCostAllGroups))
	b.keyValue("Total benefit", b.m.FormatNull(cur.Aggregate.TotalBenefit))
	b.keyValue("Net benefit", b.m.FormatNull(cur.Aggregate.NetBenefit))
	b.keyValue("Benefit-cost ratio", FormatRatio(cur.Aggregate.BenefitCostRatio))

	b.heading("Programme design")
	for _, line := range DescribeDesign(cur.Configuration) {
		b.paragraph("• " + line)
	}
}

func (b *policyBrief) addCosts() {
	cur := b.r.Current
	b.heading("Costs per group")
	b.keyValue("Direct cost", b.m.Format(cur.Cost.DirectCostPerGroup))
	b.keyValue("Opportunity cost", b.m.Format(cur.Cost.OpportunityCostPerGroup))
	b.keyValue("Total economic cost", b.m.Format(cur.Cost.TotalCostPerGroup))
	b.pdf.Ln(2)

	rows := make([][]string, 0, len(cur.Cost.Components))
	for _, comp := range cur.Cost.Components {
		rows = append(rows, []string{
			comp.Label,
			comp.Share.Mul(hundred).StringFixed(0) + "%",
			b.m.Format(comp.AmountPerGroup),
			b.m.Format(comp.PerParticipantPerPeriod),
		})
	}
	b.table([]float64{75, 25, 40, 40}, []string{"Component", "Share", "Per group", "Per participant/month"}, rows)
}

func (b *policyBrief) addDefinitions() {
	b.heading("Benefit measures compared")
	rows := make([][]string, 0, len(b.r.Definitions))
	for _, d := range b.r.Definitions {
		rows = append(rows, []string{
			d.Definition.Label(),
			b.m.FormatNull(d.Aggregate.TotalBenefit),
			b.m.FormatNull(d.Aggregate.NetBenefit),
			FormatRatio(d.Aggregate.BenefitCostRatio),
		})
	}
	b.table([]float64{60, 42, 42, 36}, []string{"Measure", "Total benefit", "Net benefit", "BCR"}, rows)
}

func (b *policyBrief) addScenarios() {
	b.heading("Saved scenarios")
	rows := make([][]string, 0, len(b.r.Scenarios))
	for _, s := range b.r.Scenarios {
		rows = append(rows, []string{
			truncate(s.Label, 28),
			FormatPercentage(s.UptakeProbability),
			b.m.Format(s.TotalCost),
			b.m.FormatNull(s.TotalBenefit),
			FormatRatio(s.BenefitCostRatio),
		})
	}
	b.table([]float64{60, 22, 36, 40, 22}, []string{"Scenario", "Uptake", "Total cost", "Total benefit", "BCR"}, rows)
}

func (b *policyBrief) addAssumptions() {
	b.heading("Key assumptions")
	for _, a := range DescribeAssumptions(b.r.Assumptions) {
		b.paragraph("• " + a)
	}
}

func statusFill(s domain.ValueStatus) (int, int, int) {
	switch s {
	case domain.StatusStrong:
		return 212, 237, 218
	case domain.StatusBorderline:
		return 255, 243, 205
	case domain.StatusPoor:
		return 248, 215, 218
	}
	return 226, 227, 229
}
