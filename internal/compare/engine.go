package compare

import (
	"context"
	"fmt"

	"github.com/lonelyless/decisionaid/internal/calculation"
	"github.com/lonelyless/decisionaid/internal/domain"
	"github.com/lonelyless/decisionaid/internal/transform"
)

// CompareEngine orchestrates scenario comparison
type CompareEngine struct {
	CalcEngine        *calculation.CalculationEngine
	Coefficients      *domain.CoefficientTable
	MetricsCalculator *MetricsCalculator
	TemplateRegistry  *transform.TemplateRegistry
}

// NewCompareEngine creates a new comparison engine
func NewCompareEngine(calcEngine *calculation.CalculationEngine, coefficients *domain.CoefficientTable) *CompareEngine {
	return &CompareEngine{
		CalcEngine:        calcEngine,
		Coefficients:      coefficients,
		MetricsCalculator: NewMetricsCalculator(),
		TemplateRegistry:  transform.CreateBuiltInTemplates(),
	}
}

// CompareOptions configures comparison behavior
type CompareOptions struct {
	BaseScenarioName string   // Name of the base scenario; empty uses the first scenario
	Templates        []string // List of template names to apply
	Segment          string   // Coefficient segment; empty uses the table default
	Definition       domain.BenefitDefinition // zero value means WTP
}

func (o CompareOptions) definition() domain.BenefitDefinition {
	if o.Definition.Kind == "" {
		return domain.WTPBenefit()
	}
	return o.Definition
}

// Compare evaluates the base scenario and one alternative per template
func (ce *CompareEngine) Compare(
	ctx context.Context,
	file *domain.ScenarioFile,
	options CompareOptions,
) (*ComparisonSet, error) {
	coefficients, err := ce.Coefficients.Resolve(options.Segment)
	if err != nil {
		return nil, err
	}
	options.Definition = options.definition()

	baseScenario, err := file.Scenario(options.BaseScenarioName)
	if err != nil {
		return nil, err
	}

	baseBundle, err := ce.CalcEngine.RunScenario(baseScenario, coefficients, options.Definition)
	if err != nil {
		return nil, fmt.Errorf("failed to calculate base scenario: %w", err)
	}
	baseResult := ce.MetricsCalculator.CalculateMetrics(baseBundle)

	alternatives := []ComparisonResult{}
	for _, templateName := range options.Templates {
		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		default:
		}

		template, ok := ce.TemplateRegistry.Get(templateName)
		if !ok {
			return nil, fmt.Errorf("template %s not found", templateName)
		}

		modified, err := transform.ApplyTemplate(baseScenario, template)
		if err != nil {
			return nil, fmt.Errorf("failed to apply template %s: %w", templateName, err)
		}
		modified.Name = baseScenario.Name + " + " + template.Name

		altBundle, err := ce.CalcEngine.RunScenario(modified, coefficients, options.Definition)
		if err != nil {
			return nil, fmt.Errorf("failed to calculate scenario %s: %w", templateName, err)
		}

		altResult := ce.MetricsCalculator.CalculateMetrics(altBundle)
		altResult.Description = template.Description
		altResult = ce.MetricsCalculator.CalculateComparison(altResult, baseResult)
		alternatives = append(alternatives, altResult)
	}

	compSet := &ComparisonSet{
		BaseScenarioName:   baseScenario.Name,
		Segment:            coefficients.Key,
		Definition:         options.Definition,
		BaseResult:         &baseResult,
		AlternativeResults: alternatives,
	}
	compSet.Recommendations = GenerateRecommendations(compSet)

	return compSet, nil
}

// CompareScenarios compares named scenarios from the same file (not using templates)
func (ce *CompareEngine) CompareScenarios(
	ctx context.Context,
	file *domain.ScenarioFile,
	baseScenarioName string,
	alternativeScenarioNames []string,
	options CompareOptions,
) (*ComparisonSet, error) {
	coefficients, err := ce.Coefficients.Resolve(options.Segment)
	if err != nil {
		return nil, err
	}
	options.Definition = options.definition()

	baseScenario, err := file.Scenario(baseScenarioName)
	if err != nil {
		return nil, err
	}
	baseBundle, err := ce.CalcEngine.RunScenario(baseScenario, coefficients, options.Definition)
	if err != nil {
		return nil, fmt.Errorf("failed to calculate base scenario: %w", err)
	}
	baseResult := ce.MetricsCalculator.CalculateMetrics(baseBundle)

	alternatives := []ComparisonResult{}
	for _, altName := range alternativeScenarioNames {
		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		default:
		}

		altScenario, err := file.Scenario(altName)
		if err != nil {
			return nil, fmt.Errorf("alternative scenario: %w", err)
		}
		altBundle, err := ce.CalcEngine.RunScenario(altScenario, coefficients, options.Definition)
		if err != nil {
			return nil, fmt.Errorf("failed to calculate scenario %s: %w", altName, err)
		}

		altResult := ce.MetricsCalculator.CalculateMetrics(altBundle)
		altResult.Description = altScenario.Notes
		altResult = ce.MetricsCalculator.CalculateComparison(altResult, baseResult)
		alternatives = append(alternatives, altResult)
	}

	compSet := &ComparisonSet{
		BaseScenarioName:   baseScenario.Name,
		Segment:            coefficients.Key,
		Definition:         options.Definition,
		BaseResult:         &baseResult,
		AlternativeResults: alternatives,
	}
	compSet.Recommendations = GenerateRecommendations(compSet)

	return compSet, nil
}
