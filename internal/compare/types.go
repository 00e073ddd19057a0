package compare

import (
	"fmt"

	"github.com/rgehrsitz/paycalc/internal/domain"
	"github.com/rgehrsitz/paycalc/internal/output"
	"github.com/samber/lo"
	"github.com/shopspring/decimal"
)

// ComparisonResult represents a single scenario comparison with calculated metrics
type ComparisonResult struct {
	ScenarioName string             `json:"scenarioName"`
	Description  string             `json:"description"`
	Result       *domain.YearResult `json:"-"`

	// Bonus setup of this variant
	BonusMethod domain.BonusMethod `json:"bonusMethod"`
	PayMonth    int                `json:"payMonth"`
	BonusAmount decimal.Decimal    `json:"bonusAmount"`

	// Key Metrics
	PreTaxTotal   decimal.Decimal `json:"preTaxTotal"`
	TaxTotal      decimal.Decimal `json:"taxTotal"`
	BonusTax      decimal.Decimal `json:"bonusTax"`
	AfterTaxTotal decimal.Decimal `json:"afterTaxTotal"`

	// Comparison to Base
	TaxDiffFromBase      decimal.Decimal `json:"taxDiffFromBase"`
	TakeHomeDiffFromBase decimal.Decimal `json:"takeHomeDiffFromBase"`
	TakeHomePctFromBase  decimal.Decimal `json:"takeHomePctFromBase"`
}

// ComparisonSet represents a collection of scenario comparisons
type ComparisonSet struct {
	BaseScenarioName   string             `json:"baseScenarioName"`
	BaseResult         *ComparisonResult  `json:"baseResult"`
	AlternativeResults []ComparisonResult `json:"alternativeResults"`
	Recommendations    []string           `json:"recommendations"`
	ConfigPath         string             `json:"configPath,omitempty"`
}

// All returns the base followed by every alternative
func (cs *ComparisonSet) All() []ComparisonResult {
	all := make([]ComparisonResult, 0, len(cs.AlternativeResults)+1)
	if cs.BaseResult != nil {
		all = append(all, *cs.BaseResult)
	}
	return append(all, cs.AlternativeResults...)
}

// MetricsCalculator extracts key metrics from yearly results
type MetricsCalculator struct{}

// NewMetricsCalculator creates a new metrics calculator
func NewMetricsCalculator() *MetricsCalculator {
	return &MetricsCalculator{}
}

// CalculateMetrics computes all comparison metrics for a scenario result
func (mc *MetricsCalculator) CalculateMetrics(sr domain.ScenarioResult) ComparisonResult {
	params := sr.Scenario.Parameters
	result := ComparisonResult{
		ScenarioName:  sr.Name(),
		Description:   sr.Scenario.Description,
		Result:        sr.Result,
		BonusMethod:   params.Bonus.Method,
		PayMonth:      params.Bonus.PayMonth,
		BonusAmount:   params.BonusAmount(),
		PreTaxTotal:   sr.Result.PreTaxTotal,
		TaxTotal:      sr.Result.TaxTotal,
		AfterTaxTotal: sr.Result.AfterTaxTotal,
	}

	if m, ok := sr.Result.BonusMonth(); ok {
		result.BonusTax = *m.BonusTax
	}
	return result
}

// CalculateComparison computes comparison metrics between a scenario and a base
func (mc *MetricsCalculator) CalculateComparison(scenario, base ComparisonResult) ComparisonResult {
	scenario.TaxDiffFromBase = scenario.TaxTotal.Sub(base.TaxTotal)
	scenario.TakeHomeDiffFromBase = scenario.AfterTaxTotal.Sub(base.AfterTaxTotal)

	if !base.AfterTaxTotal.IsZero() {
		scenario.TakeHomePctFromBase = scenario.TakeHomeDiffFromBase.
			Div(base.AfterTaxTotal).
			Mul(decimal.NewFromInt(100))
	}

	return scenario
}

// GenerateRecommendations creates recommendations based on comparison results
func GenerateRecommendations(compSet *ComparisonSet) []string {
	recommendations := []string{}

	if compSet.BaseResult == nil || len(compSet.AlternativeResults) == 0 {
		return recommendations
	}
	base := *compSet.BaseResult
	all := compSet.All()

	lowestTax := lo.MinBy(all, func(a, b ComparisonResult) bool {
		return a.TaxTotal.LessThan(b.TaxTotal)
	})
	if lowestTax.TaxTotal.LessThan(base.TaxTotal) {
		recommendations = append(recommendations, fmt.Sprintf(
			"Lowest Taxes: %s saves %s in annual tax compared with %s",
			lowestTax.ScenarioName, output.FormatCurrency(base.TaxTotal.Sub(lowestTax.TaxTotal)), base.ScenarioName))
	} else {
		recommendations = append(recommendations, fmt.Sprintf(
			"Lowest Taxes: %s already has the lowest annual tax", base.ScenarioName))
	}

	bestTakeHome := lo.MaxBy(all, func(a, b ComparisonResult) bool {
		return a.AfterTaxTotal.GreaterThan(b.AfterTaxTotal)
	})
	if bestTakeHome.AfterTaxTotal.GreaterThan(base.AfterTaxTotal) {
		recommendations = append(recommendations, fmt.Sprintf(
			"Best Take-Home: %s provides %s more after-tax income than %s",
			bestTakeHome.ScenarioName, output.FormatCurrency(bestTakeHome.AfterTaxTotal.Sub(base.AfterTaxTotal)), base.ScenarioName))
	}

	return recommendations
}
