package calculation

import (
	"context"
	"fmt"

	"github.com/rgehrsitz/paycalc/internal/domain"
	"github.com/samber/lo"
	"github.com/shopspring/decimal"
)

// CalculationEngine runs the twelve-month payroll cycle. It holds only
// immutable rate data, so one engine may serve concurrent runs.
type CalculationEngine struct {
	Rates   *domain.RateSet
	TaxCalc *TaxCalculator
	Logger  Logger
}

// NewCalculationEngine creates an engine over a validated rate set
func NewCalculationEngine(rates *domain.RateSet) (*CalculationEngine, error) {
	if rates == nil {
		return nil, fmt.Errorf("rate set is required")
	}
	if err := rates.Validate(); err != nil {
		return nil, fmt.Errorf("invalid rate set: %w", err)
	}
	return &CalculationEngine{
		Rates:   rates,
		TaxCalc: NewTaxCalculator(rates),
		Logger:  NopLogger{},
	}, nil
}

// SetLogger sets the engine logger; nil restores the no-op logger.
func (ce *CalculationEngine) SetLogger(l Logger) {
	if l == nil {
		ce.Logger = NopLogger{}
		return
	}
	ce.Logger = l
}

// Run computes a full year of salary, contributions and tax. Identical
// parameters always produce identical results. ctx is checked once on entry;
// a run that has started always completes.
func (ce *CalculationEngine) Run(ctx context.Context, params domain.CalculationParameters) (*domain.YearResult, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if err := params.Validate(); err != nil {
		return nil, err
	}

	// Salary and bases are constant, so contributions are the same every month
	socialInsurance := ComputeSocialInsurance(ce.Rates.SocialInsurance, params.SocialInsuranceBase)
	housingFund := ComputeHousingFund(params.HousingFundBase, params.HousingFundRate)

	result := &domain.YearResult{
		SocialInsurance: socialInsurance,
		HousingFund:     housingFund,
	}

	var state domain.WithholdingState
	for month := 1; month <= domain.MonthsPerYear; month++ {
		tax, next := ce.TaxCalc.Withhold(
			params.MonthlySalary,
			socialInsurance.Personal.Total,
			housingFund.Personal,
			params.SpecialDeductions,
			state,
		)
		state = next

		mr := domain.MonthResult{
			Month:                   month,
			PreTaxSalary:            params.MonthlySalary,
			SocialInsuranceDeducted: socialInsurance.Personal.Total,
			HousingFundDeducted:     housingFund.Personal,
			Tax:                     tax,
			AfterTaxSalary: params.MonthlySalary.
				Sub(socialInsurance.Personal.Total).
				Sub(housingFund.Personal).
				Sub(tax),
		}

		ce.Logger.Debugf("month %d: cumulative taxable %s, withheld to date %s, tax %s",
			month, state.CumulativeTaxableIncome.StringFixed(2), state.CumulativeTaxWithheld.StringFixed(2), tax.StringFixed(2))

		if month == params.Bonus.PayMonth && params.Bonus.Active() {
			bonus := params.BonusAmount()
			bonusTax := ce.bonusTax(bonus, params.Bonus.Method, state)
			mr.Bonus = &bonus
			mr.BonusTax = &bonusTax
			ce.Logger.Infof("month %d: bonus %s taxed %s (%s)", month, bonus.StringFixed(2), bonusTax.StringFixed(2), params.Bonus.Method)
		}

		result.Months[month-1] = mr
	}

	months := result.Months[:]
	result.PreTaxTotal = sumMonths(months, func(m domain.MonthResult) decimal.Decimal {
		if m.Bonus != nil {
			return m.PreTaxSalary.Add(*m.Bonus)
		}
		return m.PreTaxSalary
	})
	result.AfterTaxTotal = sumMonths(months, domain.MonthResult.TakeHome)
	result.SocialInsuranceTotal = sumMonths(months, func(m domain.MonthResult) decimal.Decimal { return m.SocialInsuranceDeducted })
	result.HousingFundTotal = sumMonths(months, func(m domain.MonthResult) decimal.Decimal { return m.HousingFundDeducted })
	result.TaxTotal = sumMonths(months, domain.MonthResult.TotalTax)

	return result, nil
}

// RunScenarios runs every scenario in order and stops at the first failure
func (ce *CalculationEngine) RunScenarios(ctx context.Context, scenarios []domain.Scenario) ([]domain.ScenarioResult, error) {
	results := make([]domain.ScenarioResult, 0, len(scenarios))
	for _, sc := range scenarios {
		res, err := ce.Run(ctx, sc.Parameters)
		if err != nil {
			return nil, fmt.Errorf("scenario %q: %w", sc.Name, err)
		}
		results = append(results, domain.ScenarioResult{Scenario: sc, Result: res})
	}
	return results, nil
}

func (ce *CalculationEngine) bonusTax(bonus decimal.Decimal, method domain.BonusMethod, state domain.WithholdingState) decimal.Decimal {
	if method == domain.BonusCombined {
		return ce.TaxCalc.CombinedBonusTax(bonus, state)
	}
	return ce.TaxCalc.BonusTax(bonus)
}

func sumMonths(months []domain.MonthResult, field func(domain.MonthResult) decimal.Decimal) decimal.Decimal {
	return lo.Reduce(months, func(acc decimal.Decimal, m domain.MonthResult, _ int) decimal.Decimal {
		return acc.Add(field(m))
	}, decimal.Zero)
}
