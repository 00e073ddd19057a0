package domain

import (
	"errors"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func validParams() CalculationParameters {
	return CalculationParameters{
		MonthlySalary:       d("10000"),
		SocialInsuranceBase: d("10000"),
		HousingFundBase:     d("2690"),
		HousingFundRate:     d("0.07"),
		SpecialDeductions:   decimal.Zero,
		Bonus:               BonusSpec{Months: decimal.Zero, PayMonth: 12, Method: BonusSeparate},
	}
}

func TestCalculationParameters_Validate(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(p *CalculationParameters)
		field  string
	}{
		{"negative salary", func(p *CalculationParameters) { p.MonthlySalary = d("-1") }, "monthly_salary"},
		{"negative social base", func(p *CalculationParameters) { p.SocialInsuranceBase = d("-100") }, "social_insurance_base"},
		{"negative housing base", func(p *CalculationParameters) { p.HousingFundBase = d("-100") }, "housing_fund_base"},
		{"negative housing rate", func(p *CalculationParameters) { p.HousingFundRate = d("-0.01") }, "housing_fund_rate"},
		{"housing rate as percent", func(p *CalculationParameters) { p.HousingFundRate = d("7") }, "housing_fund_rate"},
		{"negative special deductions", func(p *CalculationParameters) { p.SpecialDeductions = d("-1") }, "special_deductions"},
		{"negative bonus months", func(p *CalculationParameters) { p.Bonus.Months = d("-2") }, "bonus.months"},
		{"pay month zero", func(p *CalculationParameters) { p.Bonus.PayMonth = 0 }, "bonus.pay_month"},
		{"pay month thirteen", func(p *CalculationParameters) { p.Bonus.PayMonth = 13 }, "bonus.pay_month"},
		{"unknown method", func(p *CalculationParameters) {
			p.Bonus.Months = d("1")
			p.Bonus.Method = "split"
		}, "bonus.method"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p := validParams()
			tt.mutate(&p)

			err := p.Validate()
			require.Error(t, err)
			assert.True(t, errors.Is(err, ErrInvalidParameter), "should match ErrInvalidParameter")

			var pe *ParameterError
			require.ErrorAs(t, err, &pe)
			assert.Equal(t, tt.field, pe.Field)
		})
	}
}

func TestCalculationParameters_Validate_Valid(t *testing.T) {
	p := validParams()
	assert.NoError(t, p.Validate())

	// method is irrelevant without a bonus
	p.Bonus.Method = ""
	assert.NoError(t, p.Validate())
}

func TestCalculationParameters_BonusAmount(t *testing.T) {
	p := validParams()
	assert.True(t, p.BonusAmount().IsZero(), "no bonus when months is zero")

	p.Bonus.Months = d("3")
	assert.True(t, p.BonusAmount().Equal(d("30000")))

	p.Bonus.Months = d("1.5")
	assert.True(t, p.BonusAmount().Equal(d("15000")))
}

func TestParameterError_Message(t *testing.T) {
	err := &ParameterError{Field: "bonus.pay_month", Value: "13", Reason: "must be between 1 and 12"}
	assert.Equal(t, "bonus.pay_month: must be between 1 and 12 (got 13)", err.Error())

	err = &ParameterError{Field: "monthly_salary", Reason: "is required"}
	assert.Equal(t, "monthly_salary: is required", err.Error())
}

func TestMonthResult_Bonus(t *testing.T) {
	bonus := d("30000")
	bonusTax := d("900")
	m := MonthResult{
		Month:          12,
		Tax:            d("112.851"),
		AfterTaxSalary: d("8648.849"),
		Bonus:          &bonus,
		BonusTax:       &bonusTax,
	}

	assert.True(t, m.HasBonus())
	assert.True(t, m.NetBonus().Equal(d("29100")))
	assert.True(t, m.TotalTax().Equal(d("1012.851")))
	assert.True(t, m.TakeHome().Equal(d("37748.849")))

	plain := MonthResult{Tax: d("10"), AfterTaxSalary: d("100")}
	assert.False(t, plain.HasBonus())
	assert.True(t, plain.NetBonus().IsZero())
	assert.True(t, plain.TotalTax().Equal(d("10")))
	assert.True(t, plain.TakeHome().Equal(d("100")))
}

func TestYearResult_IncomeStream(t *testing.T) {
	var y YearResult
	for i := range y.Months {
		y.Months[i] = MonthResult{Month: i + 1, AfterTaxSalary: d("8000")}
	}
	bonus, bonusTax := d("10000"), d("300")
	y.Months[11].Bonus = &bonus
	y.Months[11].BonusTax = &bonusTax

	salaryOnly := y.IncomeStream(false)
	withBonus := y.IncomeStream(true)

	require.Len(t, salaryOnly, MonthsPerYear)
	assert.True(t, salaryOnly[11].Equal(d("8000")))
	assert.True(t, withBonus[11].Equal(d("17700")))
	assert.True(t, withBonus[0].Equal(d("8000")))

	m, ok := y.BonusMonth()
	assert.True(t, ok)
	assert.Equal(t, 12, m.Month)

	_, ok = y.Month(0)
	assert.False(t, ok)
	first, ok := y.Month(1)
	assert.True(t, ok)
	assert.Equal(t, 1, first.Month)
}
