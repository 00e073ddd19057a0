package transform

import (
	"fmt"

	"github.com/rgehrsitz/paycalc/internal/domain"
	"github.com/shopspring/decimal"
)

// SetBonusMethod switches the bonus between separate and combined taxation
type SetBonusMethod struct {
	Method domain.BonusMethod
}

func (t *SetBonusMethod) Name() string { return "set_bonus_method" }

func (t *SetBonusMethod) Description() string {
	return fmt.Sprintf("Tax the bonus with the %s method", t.Method)
}

func (t *SetBonusMethod) Validate(base domain.Scenario) error {
	if !t.Method.Valid() {
		return NewTransformError(t.Name(), "validate", fmt.Sprintf("unknown bonus method %q", t.Method), nil)
	}
	return nil
}

func (t *SetBonusMethod) Apply(base domain.Scenario) (domain.Scenario, error) {
	base.Parameters.Bonus.Method = t.Method
	return base, nil
}

// SetPayMonth moves the bonus to another month of the year
type SetPayMonth struct {
	Month int
}

func (t *SetPayMonth) Name() string { return "set_pay_month" }

func (t *SetPayMonth) Description() string {
	return fmt.Sprintf("Pay the bonus in month %d", t.Month)
}

func (t *SetPayMonth) Validate(base domain.Scenario) error {
	if t.Month < 1 || t.Month > domain.MonthsPerYear {
		return NewTransformError(t.Name(), "validate", fmt.Sprintf("month must be between 1 and 12, got %d", t.Month), nil)
	}
	return nil
}

func (t *SetPayMonth) Apply(base domain.Scenario) (domain.Scenario, error) {
	base.Parameters.Bonus.PayMonth = t.Month
	return base, nil
}

// SetBonusMonths changes the size of the bonus in months of salary. Zero
// removes the bonus.
type SetBonusMonths struct {
	Months decimal.Decimal
}

func (t *SetBonusMonths) Name() string { return "set_bonus_months" }

func (t *SetBonusMonths) Description() string {
	if t.Months.IsZero() {
		return "No annual bonus"
	}
	return fmt.Sprintf("Annual bonus of %s months of salary", t.Months)
}

func (t *SetBonusMonths) Validate(base domain.Scenario) error {
	if t.Months.IsNegative() {
		return NewTransformError(t.Name(), "validate", "months cannot be negative", nil)
	}
	return nil
}

func (t *SetBonusMonths) Apply(base domain.Scenario) (domain.Scenario, error) {
	base.Parameters.Bonus.Months = t.Months
	return base, nil
}

// SetMonthlySalary replaces the monthly salary. With BasesFollowSalary both
// contribution bases are set to the new salary as well.
type SetMonthlySalary struct {
	Salary            decimal.Decimal
	BasesFollowSalary bool
}

func (t *SetMonthlySalary) Name() string { return "set_monthly_salary" }

func (t *SetMonthlySalary) Description() string {
	return fmt.Sprintf("Monthly salary of %s", t.Salary.StringFixed(2))
}

func (t *SetMonthlySalary) Validate(base domain.Scenario) error {
	if t.Salary.IsNegative() {
		return NewTransformError(t.Name(), "validate", "salary cannot be negative", nil)
	}
	return nil
}

func (t *SetMonthlySalary) Apply(base domain.Scenario) (domain.Scenario, error) {
	base.Parameters.MonthlySalary = t.Salary
	if t.BasesFollowSalary {
		base.Parameters.SocialInsuranceBase = t.Salary
		base.Parameters.HousingFundBase = t.Salary
	}
	return base, nil
}
