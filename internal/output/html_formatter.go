package output

import (
	"bytes"
	_ "embed"
	"html/template"

	"github.com/lonelyless/decisionaid/internal/domain"
	"github.com/shopspring/decimal"
)

// HTMLFormatter produces a standalone HTML report.
type HTMLFormatter struct{}

func (h HTMLFormatter) Name() string { return "html" }

//go:embed templates/report.html.tmpl
var htmlTemplateSource string

var htmlTemplate = template.Must(template.New("report").Funcs(template.FuncMap{
	"pct":   FormatPercentage,
	"ratio": FormatRatio,
	"share": func(d decimal.Decimal) string { return d.Mul(hundred).StringFixed(0) + "%" },
	"statusClass": func(s domain.ValueStatus) string {
		switch s {
		case domain.StatusStrong:
			return "good"
		case domain.StatusBorderline:
			return "warning"
		case domain.StatusPoor:
			return "poor"
		}
		return "neutral"
	},
}).Parse(htmlTemplateSource))

func (h HTMLFormatter) Format(r *Report) ([]byte, error) {
	var buf bytes.Buffer
	data := struct {
		*Report
		Headline    string
		Briefing    string
		Design      []string
		Assumptions []string
	}{
		Report:      r,
		Headline:    Headline(r),
		Briefing:    Briefing(r),
		Assumptions: DescribeAssumptions(r.Assumptions),
	}
	if r.Current != nil {
		data.Design = DescribeDesign(r.Current.Configuration)
	}
	if err := htmlTemplate.Execute(&buf, data); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}
