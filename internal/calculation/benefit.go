package calculation

import (
	"fmt"
	"math"

	"github.com/lonelyless/decisionaid/internal/domain"
	"github.com/shopspring/decimal"
)

// ComputeWTP values the configuration's attribute improvements over the
// reference configuration: wtp = -(U(cfg) - U(reference)) / costWeight per
// participant per period, rounded to cents. A zero cost weight leaves every WTP
// figure undefined.
func ComputeWTP(cfg domain.Configuration, coefficients domain.CoefficientSet) domain.BenefitResult {
	result := domain.BenefitResult{Definition: domain.WTPBenefit()}

	costWeight := finite(coefficients.CostWeight)
	if costWeight == 0 {
		return result
	}

	delta := coefficients.DesignUtility(cfg) - coefficients.DesignUtility(cfg.Reference())
	wtp := -delta / costWeight
	if math.IsNaN(wtp) || math.IsInf(wtp, 0) {
		return result
	}

	perParticipant := decimal.NewFromFloat(wtp).Round(2)
	perGroup := perParticipant.
		Mul(decimal.NewFromInt(int64(cfg.ParticipantsPerGroup))).
		Mul(decimal.NewFromInt(int64(cfg.Periods())))
	total := perGroup.Mul(decimal.NewFromInt(int64(cfg.NumberOfGroups)))

	result.WTPPerParticipantPerPeriod = domain.Defined(perParticipant)
	result.WTPPerGroup = domain.Defined(perGroup)
	result.TotalWTPAllGroups = domain.Defined(total)
	result.TotalBenefit = result.TotalWTPAllGroups
	return result
}

// basePopulation is the explicit base population, or everyone offered the programme.
func basePopulation(cfg domain.Configuration, assumptions domain.Assumptions) decimal.Decimal {
	if assumptions.BasePopulation > 0 {
		return decimal.NewFromInt(int64(assumptions.BasePopulation))
	}
	return decimal.NewFromInt(int64(cfg.TotalParticipants()))
}

// ComputeQALYBenefit monetises the QALY gains of the participants expected to
// take up the programme.
func ComputeQALYBenefit(uptake float64, cfg domain.Configuration, scenario domain.QALYScenario, assumptions domain.Assumptions) (domain.BenefitResult, error) {
	gain, err := assumptions.QALYPerParticipant.For(scenario)
	if err != nil {
		return domain.BenefitResult{}, err
	}

	participants := basePopulation(cfg, assumptions).Mul(decimal.NewFromFloat(uptake))
	gains := participants.Mul(gain)
	monetised := gains.Mul(assumptions.ValuePerQALY)

	return domain.BenefitResult{
		Definition:           domain.QALYBenefit(scenario),
		BenefitParticipants:  participants,
		QALYGainsTotal:       gains,
		MonetisedQALYBenefit: monetised,
		TotalBenefit:         domain.Defined(monetised),
	}, nil
}

// ComputeSavingsBenefit values avoided service use among participants expected
// to take up the programme.
func ComputeSavingsBenefit(uptake float64, cfg domain.Configuration, assumptions domain.Assumptions) domain.BenefitResult {
	participants := basePopulation(cfg, assumptions).Mul(decimal.NewFromFloat(uptake))
	savings := participants.Mul(assumptions.SavingsPerParticipant)
	return domain.BenefitResult{
		Definition:          domain.SavingsBenefit(),
		BenefitParticipants: participants,
		SavingsTotal:        savings,
		TotalBenefit:        domain.Defined(savings),
	}
}

// ComputeBenefit dispatches on the benefit definition.
func ComputeBenefit(def domain.BenefitDefinition, choice domain.ChoiceResult, cfg domain.Configuration, coefficients domain.CoefficientSet, assumptions domain.Assumptions) (domain.BenefitResult, error) {
	switch def.Kind {
	case domain.BenefitWTP:
		return ComputeWTP(cfg, coefficients), nil
	case domain.BenefitQALY:
		return ComputeQALYBenefit(choice.UptakeProbability, cfg, def.Scenario, assumptions)
	case domain.BenefitSavings:
		return ComputeSavingsBenefit(choice.UptakeProbability, cfg, assumptions), nil
	}
	return domain.BenefitResult{}, fmt.Errorf("unknown benefit definition %q", def.Kind)
}
