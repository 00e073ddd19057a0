package compare

import (
	"context"
	"fmt"
	"strings"

	"github.com/rgehrsitz/paycalc/internal/calculation"
	"github.com/rgehrsitz/paycalc/internal/domain"
	"github.com/rgehrsitz/paycalc/internal/transform"
	"github.com/samber/lo"
)

// CompareEngine orchestrates scenario comparison
type CompareEngine struct {
	CalcEngine        *calculation.CalculationEngine
	MetricsCalculator *MetricsCalculator
	TemplateRegistry  *transform.TemplateRegistry
}

// NewCompareEngine creates a new comparison engine with the built-in templates
func NewCompareEngine(calcEngine *calculation.CalculationEngine) *CompareEngine {
	return &CompareEngine{
		CalcEngine:        calcEngine,
		MetricsCalculator: NewMetricsCalculator(),
		TemplateRegistry:  transform.CreateBuiltInTemplates(),
	}
}

// CompareOptions configures comparison behavior
type CompareOptions struct {
	Templates  []string                      // Template names to apply; empty means the defaults
	Transforms []transform.ScenarioTransform // Extra ad hoc variant, applied on its own
}

// Compare runs template variants of one base scenario against it
func (ce *CompareEngine) Compare(ctx context.Context, base domain.Scenario, options CompareOptions) (*ComparisonSet, error) {
	baseResult, err := ce.run(ctx, base)
	if err != nil {
		return nil, fmt.Errorf("failed to calculate base scenario: %w", err)
	}

	templates := options.Templates
	if len(templates) == 0 && len(options.Transforms) == 0 {
		templates = transform.DefaultComparisonTemplates
	}

	alternatives := []ComparisonResult{}
	for _, templateName := range templates {
		template, ok := ce.TemplateRegistry.Get(templateName)
		if !ok {
			return nil, fmt.Errorf("template %s not found", templateName)
		}

		modified, err := transform.ApplyTemplate(base, template)
		if err != nil {
			return nil, fmt.Errorf("failed to apply template %s: %w", templateName, err)
		}
		modified.Name = base.Name + "_" + template.Name
		modified.Description = template.Description

		altResult, err := ce.run(ctx, modified)
		if err != nil {
			return nil, fmt.Errorf("failed to calculate scenario %s: %w", templateName, err)
		}
		alternatives = append(alternatives, ce.MetricsCalculator.CalculateComparison(altResult, baseResult))
	}

	if len(options.Transforms) > 0 {
		modified, err := transform.ApplyTransforms(base, options.Transforms)
		if err != nil {
			return nil, fmt.Errorf("failed to apply transforms: %w", err)
		}
		modified.Name = base.Name + "_custom"
		modified.Description = describeTransforms(options.Transforms)

		altResult, err := ce.run(ctx, modified)
		if err != nil {
			return nil, fmt.Errorf("failed to calculate custom scenario: %w", err)
		}
		alternatives = append(alternatives, ce.MetricsCalculator.CalculateComparison(altResult, baseResult))
	}

	compSet := &ComparisonSet{
		BaseScenarioName:   base.Name,
		BaseResult:         &baseResult,
		AlternativeResults: alternatives,
	}
	compSet.Recommendations = GenerateRecommendations(compSet)

	return compSet, nil
}

// CompareScenarios compares explicit scenarios (not using templates)
func (ce *CompareEngine) CompareScenarios(
	ctx context.Context,
	scenarios []domain.Scenario,
	baseScenarioName string,
	alternativeScenarioNames []string,
) (*ComparisonSet, error) {
	byName := make(map[string]domain.Scenario, len(scenarios))
	for _, sc := range scenarios {
		byName[sc.Name] = sc
	}

	base, ok := byName[baseScenarioName]
	if !ok {
		return nil, fmt.Errorf("base scenario %s not found", baseScenarioName)
	}
	baseResult, err := ce.run(ctx, base)
	if err != nil {
		return nil, fmt.Errorf("failed to calculate base scenario: %w", err)
	}

	alternatives := []ComparisonResult{}
	for _, altName := range alternativeScenarioNames {
		alt, ok := byName[altName]
		if !ok {
			return nil, fmt.Errorf("alternative scenario %s not found", altName)
		}
		altResult, err := ce.run(ctx, alt)
		if err != nil {
			return nil, fmt.Errorf("failed to calculate scenario %s: %w", altName, err)
		}
		alternatives = append(alternatives, ce.MetricsCalculator.CalculateComparison(altResult, baseResult))
	}

	compSet := &ComparisonSet{
		BaseScenarioName:   baseScenarioName,
		BaseResult:         &baseResult,
		AlternativeResults: alternatives,
	}
	compSet.Recommendations = GenerateRecommendations(compSet)

	return compSet, nil
}

func (ce *CompareEngine) run(ctx context.Context, sc domain.Scenario) (ComparisonResult, error) {
	res, err := ce.CalcEngine.Run(ctx, sc.Parameters)
	if err != nil {
		return ComparisonResult{}, err
	}
	return ce.MetricsCalculator.CalculateMetrics(domain.ScenarioResult{Scenario: sc, Result: res}), nil
}

func describeTransforms(transforms []transform.ScenarioTransform) string {
	return strings.Join(lo.Map(transforms, func(t transform.ScenarioTransform, _ int) string {
		return t.Description()
	}), "; ")
}
