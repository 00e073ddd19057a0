package calculation

import (
	"github.com/rgehrsitz/paycalc/internal/domain"
	"github.com/shopspring/decimal"
)

// TAX CALCULATION ASSUMPTIONS:
//
// 1. Ordinary income uses the cumulative withholding method: every month the
//    year-to-date taxable income is taxed with the annual bracket table and
//    the tax already withheld is subtracted. Withholding never produces a
//    refund inside the year.
//
// 2. A separately taxed bonus is looked up on bonus/12 in the monthly bonus
//    table, but the rate and quick deduction apply to the whole bonus.
//
// 3. Bracket lookup takes the largest threshold <= value. At a boundary both
//    neighbouring ordinary brackets give the same tax; for the bonus table
//    the higher bracket applies to the whole bonus.

var monthsPerYear = decimal.NewFromInt(domain.MonthsPerYear)

// TaxCalculator handles ordinary and bonus income tax
type TaxCalculator struct {
	BasicDeduction   decimal.Decimal
	OrdinaryBrackets domain.BracketTable
	BonusBrackets    domain.BracketTable
}

// NewTaxCalculator creates a tax calculator from a rate set
func NewTaxCalculator(rates *domain.RateSet) *TaxCalculator {
	return &TaxCalculator{
		BasicDeduction:   rates.BasicDeduction,
		OrdinaryBrackets: rates.OrdinaryBrackets,
		BonusBrackets:    rates.BonusBrackets,
	}
}

// MonthlyTaxableIncome returns this month's taxable income. It may be negative.
func (tc *TaxCalculator) MonthlyTaxableIncome(salary, socialInsurance, housingFund, specialDeductions decimal.Decimal) decimal.Decimal {
	return salary.
		Sub(socialInsurance).
		Sub(housingFund).
		Sub(tc.BasicDeduction).
		Sub(specialDeductions)
}

// Withhold computes one month of cumulative withholding. It returns the tax
// withheld this month and the state to carry into the next month.
func (tc *TaxCalculator) Withhold(salary, socialInsurance, housingFund, specialDeductions decimal.Decimal, state domain.WithholdingState) (decimal.Decimal, domain.WithholdingState) {
	taxable := tc.MonthlyTaxableIncome(salary, socialInsurance, housingFund, specialDeductions)
	cumulative := state.CumulativeTaxableIncome.Add(taxable)

	if cumulative.LessThanOrEqual(decimal.Zero) {
		return decimal.Zero, domain.WithholdingState{
			CumulativeTaxableIncome: cumulative,
			CumulativeTaxWithheld:   state.CumulativeTaxWithheld,
		}
	}

	due := tc.OrdinaryBrackets.Lookup(cumulative).Apply(cumulative)
	tax := decimal.Max(decimal.Zero, due.Sub(state.CumulativeTaxWithheld))

	return tax, domain.WithholdingState{
		CumulativeTaxableIncome: cumulative,
		CumulativeTaxWithheld:   decimal.Max(state.CumulativeTaxWithheld, due),
	}
}

// AnnualTax applies the ordinary bracket formula once to a full year of
// taxable income.
func (tc *TaxCalculator) AnnualTax(taxableIncome decimal.Decimal) decimal.Decimal {
	if taxableIncome.LessThanOrEqual(decimal.Zero) {
		return decimal.Zero
	}
	return tc.OrdinaryBrackets.Lookup(taxableIncome).Apply(taxableIncome)
}

// BonusTax calculates tax on a bonus taxed separately from salary
func (tc *TaxCalculator) BonusTax(amount decimal.Decimal) decimal.Decimal {
	if amount.LessThanOrEqual(decimal.Zero) {
		return decimal.Zero
	}
	monthly := amount.Div(monthsPerYear)
	tax := tc.BonusBrackets.Lookup(monthly).Apply(amount)
	return decimal.Max(decimal.Zero, tax)
}

// CombinedBonusTax folds the bonus into the cumulative withholding of its pay
// month. The bonus goes through the same monthly formula as salary (basic
// deduction included) on top of the state after that month's salary, and the
// resulting state is not carried forward.
func (tc *TaxCalculator) CombinedBonusTax(amount decimal.Decimal, state domain.WithholdingState) decimal.Decimal {
	tax, _ := tc.Withhold(amount, decimal.Zero, decimal.Zero, decimal.Zero, state)
	return tax
}
