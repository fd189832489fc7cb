package output

import (
	"fmt"
	"strings"
	"time"

	"github.com/lonelyless/decisionaid/internal/calculation"
	"github.com/lonelyless/decisionaid/internal/domain"
	"github.com/shopspring/decimal"
	"golang.org/x/text/language"
	"golang.org/x/text/message"
)

// Report is everything a formatter can render for one run.
type Report struct {
	Title       string                   `json:"title"`
	GeneratedAt time.Time                `json:"generatedAt"`
	Assumptions domain.Assumptions       `json:"assumptions"`
	Current     *domain.ResultBundle     `json:"current"`
	Definitions []*domain.ResultBundle   `json:"definitions,omitempty"` // current configuration under every benefit definition
	Pooled      *domain.PooledChoice     `json:"pooled,omitempty"`
	Scenarios   []domain.BenefitTableRow `json:"scenarios,omitempty"`
}

// NewReport builds a report around the current result. The benefit table starts
// with the current configuration.
func NewReport(current *domain.ResultBundle, assumptions domain.Assumptions) *Report {
	r := &Report{
		Title:       "LonelyLess programme decision aid",
		GeneratedAt: time.Now(),
		Assumptions: assumptions,
		Current:     current,
	}
	if current != nil {
		r.Scenarios = calculation.BuildBenefitTable([]calculation.LabeledResult{
			{Label: "Current configuration", Result: current},
		})
	}
	return r
}

// Money returns the currency formatter for the report's assumptions.
func (r *Report) Money() Money {
	return NewMoney(r.Assumptions)
}

// Money formats amounts held in AUD for display in the selected currency.
type Money struct {
	Currency  string
	AUDPerUSD decimal.Decimal
}

// NewMoney reads the display currency and exchange rate from the assumptions.
func NewMoney(a domain.Assumptions) Money {
	m := Money{Currency: strings.ToUpper(a.Currency), AUDPerUSD: a.AUDPerUSD}
	if m.Currency == "" {
		m.Currency = domain.CurrencyAUD
	}
	if !m.AUDPerUSD.IsPositive() {
		m.AUDPerUSD = domain.DefaultAssumptions().AUDPerUSD
	}
	return m
}

var (
	printer = message.NewPrinter(language.English)
	hundred = decimal.NewFromInt(100)
)

// Format renders an AUD amount. AUD shows whole dollars; USD converts at the
// configured rate and shows one decimal.
func (m Money) Format(amount decimal.Decimal) string {
	if m.Currency == domain.CurrencyUSD {
		usd := amount.Div(m.AUDPerUSD).Round(1)
		return "USD " + printer.Sprintf("%.1f", usd.InexactFloat64())
	}
	return "AUD " + printer.Sprintf("%.0f", amount.Round(0).InexactFloat64())
}

// FormatNull renders an optional amount, "-" when undefined.
func (m Money) FormatNull(amount decimal.NullDecimal) string {
	if !amount.Valid {
		return "-"
	}
	return m.Format(amount.Decimal)
}

// FormatCurrency formats an AUD amount with the default assumptions.
func FormatCurrency(amount decimal.Decimal) string {
	return NewMoney(domain.DefaultAssumptions()).Format(amount)
}

// FormatPercentage formats a probability or share as a percentage with one decimal.
func FormatPercentage(p float64) string {
	return fmt.Sprintf("%.1f%%", p*100)
}

// FormatRatio formats a benefit-cost ratio, "-" when undefined.
func FormatRatio(bcr decimal.NullDecimal) string {
	if !bcr.Valid {
		return "-"
	}
	return bcr.Decimal.StringFixed(2)
}

// DescribeDesign lists "Dimension: level description" for each attribute.
func DescribeDesign(cfg domain.Configuration) []string {
	lines := make([]string, 0, len(domain.Dimensions()))
	for _, d := range domain.Dimensions() {
		lines = append(lines, fmt.Sprintf("%s: %s", d.Label(), d.Describe(cfg.Level(d))))
	}
	return lines
}

// Headline is the one-sentence verdict on the current configuration.
func Headline(r *Report) string {
	b := r.Current
	if b == nil || !b.Aggregate.BenefitCostRatio.Valid {
		return "Set a configuration to see whether the benefits of the programme are likely to justify the costs under the current assumptions."
	}
	balance := "weaker"
	if b.Aggregate.BenefitCostRatio.Decimal.GreaterThanOrEqual(decimal.NewFromInt(1)) {
		balance = "promising"
	}
	return fmt.Sprintf("With an estimated uptake of %s, a benefit-cost ratio of %s and total costs of %s, this configuration offers a %s balance between value and cost.",
		FormatPercentage(b.Choice.UptakeProbability),
		FormatRatio(b.Aggregate.BenefitCostRatio),
		r.Money().Format(b.Cost.TotalCostAllGroups),
		balance)
}

// Briefing is the short narrative paragraph used in the brief and HTML report.
func Briefing(r *Report) string {
	b := r.Current
	if b == nil {
		return ""
	}
	cfg := b.Configuration
	m := r.Money()
	return fmt.Sprintf("In this scenario, a %s delivered %s with %s is offered to %d participants in each group across %d groups. "+
		"The estimated uptake among the %s is %s. "+
		"Total economic costs over the whole programme are approximately %s, while %s benefits are around %s, "+
		"implying a benefit-cost ratio of %s under the current assumptions.",
		domain.DimensionTier.Describe(cfg.Tier),
		domain.DimensionDelivery.Describe(cfg.Delivery),
		domain.DimensionMentorship.Describe(cfg.Mentorship),
		cfg.ParticipantsPerGroup, cfg.NumberOfGroups,
		strings.ToLower(b.SegmentLabel),
		FormatPercentage(b.Choice.UptakeProbability),
		m.Format(b.Cost.TotalCostAllGroups),
		strings.ToLower(b.Definition.Label()),
		m.FormatNull(b.Aggregate.TotalBenefit),
		FormatRatio(b.Aggregate.BenefitCostRatio))
}

// DescribeAssumptions lists the economic assumptions behind the figures.
func DescribeAssumptions(a domain.Assumptions) []string {
	m := NewMoney(a)
	population := "all programme participants"
	if a.BasePopulation > 0 {
		population = fmt.Sprintf("%d people", a.BasePopulation)
	}
	return []string{
		fmt.Sprintf("Opportunity cost: %s of direct cost when included", FormatPercentage(a.OpportunityCostRate.InexactFloat64())),
		fmt.Sprintf("Value per QALY: %s", m.Format(a.ValuePerQALY)),
		fmt.Sprintf("QALY gain per participant: low %s, moderate %s, high %s",
			a.QALYPerParticipant.Low.String(), a.QALYPerParticipant.Moderate.String(), a.QALYPerParticipant.High.String()),
		fmt.Sprintf("QALY base population: %s", population),
		fmt.Sprintf("Avoided service cost per endorsed participant: %s", m.Format(a.SavingsPerParticipant)),
		"Uptake comes from pre-estimated preference weights; the pooled view is a simple average, not a statistical estimate",
		fmt.Sprintf("Currency: %s (AUD %s per USD)", m.Currency, m.AUDPerUSD.String()),
	}
}
