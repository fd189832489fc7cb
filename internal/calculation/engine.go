package calculation

import (
	"fmt"

	"github.com/lonelyless/decisionaid/internal/domain"
	"github.com/shopspring/decimal"
)

// CalculationEngine turns configurations into result bundles. Its region table
// and assumptions are fixed at construction and shared read-only.
type CalculationEngine struct {
	Regions     domain.RegionTable
	Assumptions domain.Assumptions
	Logger      Logger
	Debug       bool // Enable debug output for detailed calculations
}

// NewCalculationEngine creates an engine with the built-in region table and
// default assumptions
func NewCalculationEngine() *CalculationEngine {
	return NewCalculationEngineWith(domain.DefaultRegionTable(), domain.DefaultAssumptions())
}

// NewCalculationEngineWith creates an engine over the given tables
func NewCalculationEngineWith(regions domain.RegionTable, assumptions domain.Assumptions) *CalculationEngine {
	if regions == nil {
		regions = domain.DefaultRegionTable()
	}
	return &CalculationEngine{
		Regions:     regions,
		Assumptions: assumptions,
		Logger:      NopLogger{},
	}
}

// SetLogger sets the logger; nil installs a no-op logger
func (ce *CalculationEngine) SetLogger(l Logger) {
	if l == nil {
		ce.Logger = NopLogger{}
		return
	}
	ce.Logger = l
}

// WithAssumptions returns a copy of the engine using different assumptions.
func (ce *CalculationEngine) WithAssumptions(a domain.Assumptions) *CalculationEngine {
	cp := *ce
	cp.Assumptions = a
	return &cp
}

// ComputeFullResult runs choice, cost, benefit and aggregation for one
// configuration, segment and benefit definition.
func (ce *CalculationEngine) ComputeFullResult(cfg domain.Configuration, coefficients domain.CoefficientSet, def domain.BenefitDefinition) (*domain.ResultBundle, error) {
	if err := cfg.Validate(); err != nil {
		return nil, &domain.ValidationError{Scenario: cfg.Name, Err: err}
	}
	if err := def.Validate(); err != nil {
		return nil, fmt.Errorf("benefit definition: %w", err)
	}

	choice := ComputeChoice(cfg, coefficients, ce.Regions)
	if ce.Debug {
		ce.Logger.Debugf("segment=%s U_prog=%.4f U_opt=%.4f base=%.4f cost_term=%.4f uptake=%.4f",
			coefficients.Key, choice.ProgrammeUtility, choice.OptOutUtility, choice.BaseUtility, choice.CostTerm, choice.UptakeProbability)
	}
	if cfg.RegionAdjustment {
		if _, ok := ce.Regions.Multiplier(cfg.RegionCode); !ok {
			ce.Logger.Warnf("region %q has no multiplier; cost left unadjusted", cfg.RegionCode)
		}
	}

	cost := ComputeCosts(cfg, ce.Regions, ce.Assumptions)

	benefit, err := ComputeBenefit(def, choice, cfg, coefficients, ce.Assumptions)
	if err != nil {
		return nil, err
	}
	if def.Kind == domain.BenefitWTP && !benefit.WTPPerParticipantPerPeriod.Valid {
		ce.Logger.Infof("segment %s has a zero cost weight; WTP is not applicable", coefficients.Key)
	}

	aggregate := Aggregate(cost, benefit.TotalBenefit)
	aggregate.Definition = def

	uptake := decimal.NewFromFloat(choice.UptakeProbability)
	bundle := &domain.ResultBundle{
		Configuration: cfg,
		Segment:       coefficients.Key,
		SegmentLabel:  coefficients.DisplayName(),
		Definition:    def,
		Choice:        choice,
		Cost:          cost,
		Benefit:       benefit,
		Aggregate:     aggregate,
		Reach: domain.Reach{
			TotalParticipants:    cfg.TotalParticipants(),
			EndorsedParticipants: decimal.NewFromInt(int64(cfg.TotalParticipants())).Mul(uptake),
		},
		Status: domain.StatusForBCR(aggregate.BenefitCostRatio),
	}
	if def.Kind == domain.BenefitWTP && benefit.TotalWTPAllGroups.Valid {
		bundle.EffectiveBenefit = domain.Defined(benefit.TotalWTPAllGroups.Decimal.Mul(uptake))
	}

	if ce.Debug {
		ce.Logger.Debugf("%s: total cost=%s benefit=%s status=%s", def, cost.TotalCostAllGroups.StringFixed(2),
			formatNull(benefit.TotalBenefit), bundle.Status)
	}
	return bundle, nil
}

// ComputeAllDefinitions returns one bundle per benefit definition. The bundles
// are parallel views of the same configuration and must not be summed.
func (ce *CalculationEngine) ComputeAllDefinitions(cfg domain.Configuration, coefficients domain.CoefficientSet) ([]*domain.ResultBundle, error) {
	defs := domain.AllBenefitDefinitions()
	bundles := make([]*domain.ResultBundle, 0, len(defs))
	for _, def := range defs {
		b, err := ce.ComputeFullResult(cfg, coefficients, def)
		if err != nil {
			return nil, fmt.Errorf("%s: %w", def, err)
		}
		bundles = append(bundles, b)
	}
	return bundles, nil
}

// RunScenario builds a scenario input and computes its full result.
func (ce *CalculationEngine) RunScenario(input *domain.ScenarioInput, coefficients domain.CoefficientSet, def domain.BenefitDefinition) (*domain.ResultBundle, error) {
	cfg, err := input.Build()
	if err != nil {
		return nil, err
	}
	return ce.ComputeFullResult(cfg, coefficients, def)
}

func formatNull(d decimal.NullDecimal) string {
	if !d.Valid {
		return "n/a"
	}
	return d.Decimal.StringFixed(2)
}
