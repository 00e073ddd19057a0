package domain

import (
	"fmt"

	"github.com/shopspring/decimal"
)

// MonthsPerYear is the length of one withholding cycle
const MonthsPerYear = 12

// BonusMethod selects how the annual bonus is taxed
type BonusMethod string

const (
	// BonusSeparate taxes the bonus on its own with the bonus bracket table
	BonusSeparate BonusMethod = "separate"
	// BonusCombined folds the bonus into the pay month's cumulative withholding
	BonusCombined BonusMethod = "combined"
)

// Valid reports whether m is a known method.
func (m BonusMethod) Valid() bool {
	return m == BonusSeparate || m == BonusCombined
}

// BonusSpec describes a once-a-year bonus paid as a multiple of monthly salary
type BonusSpec struct {
	Months   decimal.Decimal `yaml:"months" json:"months"`
	PayMonth int             `yaml:"pay_month" json:"pay_month"`
	Method   BonusMethod     `yaml:"method" json:"method"`
}

// Active reports whether a bonus event occurs.
func (b BonusSpec) Active() bool {
	return b.Months.IsPositive()
}

// CalculationParameters is the already clamped input to one yearly run
type CalculationParameters struct {
	MonthlySalary       decimal.Decimal `yaml:"monthly_salary" json:"monthly_salary"`
	SocialInsuranceBase decimal.Decimal `yaml:"social_insurance_base" json:"social_insurance_base"`
	HousingFundBase     decimal.Decimal `yaml:"housing_fund_base" json:"housing_fund_base"`
	HousingFundRate     decimal.Decimal `yaml:"housing_fund_rate" json:"housing_fund_rate"`
	SpecialDeductions   decimal.Decimal `yaml:"special_deductions" json:"special_deductions"`
	Bonus               BonusSpec       `yaml:"bonus" json:"bonus"`
}

// BonusAmount returns the bonus paid in the pay month, or zero.
func (p CalculationParameters) BonusAmount() decimal.Decimal {
	if !p.Bonus.Active() {
		return decimal.Zero
	}
	return p.MonthlySalary.Mul(p.Bonus.Months)
}

// Validate fails fast on the first out-of-domain field. No clamping happens
// here; that belongs to the input layer.
func (p CalculationParameters) Validate() error {
	nonNegative := []struct {
		field string
		value decimal.Decimal
	}{
		{"monthly_salary", p.MonthlySalary},
		{"social_insurance_base", p.SocialInsuranceBase},
		{"housing_fund_base", p.HousingFundBase},
		{"housing_fund_rate", p.HousingFundRate},
		{"special_deductions", p.SpecialDeductions},
		{"bonus.months", p.Bonus.Months},
	}
	for _, nn := range nonNegative {
		if nn.value.IsNegative() {
			return &ParameterError{Field: nn.field, Value: nn.value.String(), Reason: "cannot be negative"}
		}
	}
	if p.HousingFundRate.GreaterThan(decimal.NewFromInt(1)) {
		return &ParameterError{Field: "housing_fund_rate", Value: p.HousingFundRate.String(), Reason: "must be a fraction between 0 and 1"}
	}
	if p.Bonus.PayMonth < 1 || p.Bonus.PayMonth > MonthsPerYear {
		return &ParameterError{Field: "bonus.pay_month", Value: fmt.Sprint(p.Bonus.PayMonth), Reason: "must be between 1 and 12"}
	}
	if p.Bonus.Active() && !p.Bonus.Method.Valid() {
		return &ParameterError{Field: "bonus.method", Value: string(p.Bonus.Method), Reason: "must be 'separate' or 'combined'"}
	}
	return nil
}

// WithholdingState is the year-to-date cumulative withholding state. The zero
// value is the state at the start of a tax year.
type WithholdingState struct {
	CumulativeTaxableIncome decimal.Decimal `json:"cumulative_taxable_income"`
	CumulativeTaxWithheld   decimal.Decimal `json:"cumulative_tax_withheld"`
}

// PersonalContributions is the employee share of social insurance
type PersonalContributions struct {
	Pension      decimal.Decimal `json:"pension"`
	Medical      decimal.Decimal `json:"medical"`
	Unemployment decimal.Decimal `json:"unemployment"`
	Total        decimal.Decimal `json:"total"`
}

// EmployerContributions is the employer share of social insurance
type EmployerContributions struct {
	Pension      decimal.Decimal `json:"pension"`
	Medical      decimal.Decimal `json:"medical"`
	Unemployment decimal.Decimal `json:"unemployment"`
	WorkInjury   decimal.Decimal `json:"work_injury"`
	Maternity    decimal.Decimal `json:"maternity"`
	Total        decimal.Decimal `json:"total"`
}

// SocialInsurance is the monthly contribution breakdown for one base
type SocialInsurance struct {
	Personal PersonalContributions `json:"personal"`
	Employer EmployerContributions `json:"employer"`
}

// HousingFund is the monthly housing fund contribution
type HousingFund struct {
	Personal decimal.Decimal `json:"personal"`
	Employer decimal.Decimal `json:"employer"`
}

// Total returns personal plus employer contribution.
func (h HousingFund) Total() decimal.Decimal {
	return h.Personal.Add(h.Employer)
}

// MonthResult is one month of the yearly run. AfterTaxSalary covers salary
// only; the bonus and its tax are reported separately.
type MonthResult struct {
	Month                   int              `json:"month"`
	PreTaxSalary            decimal.Decimal  `json:"pre_tax_salary"`
	SocialInsuranceDeducted decimal.Decimal  `json:"social_insurance_deducted"`
	HousingFundDeducted     decimal.Decimal  `json:"housing_fund_deducted"`
	Tax                     decimal.Decimal  `json:"tax"`
	AfterTaxSalary          decimal.Decimal  `json:"after_tax_salary"`
	Bonus                   *decimal.Decimal `json:"bonus,omitempty"`
	BonusTax                *decimal.Decimal `json:"bonus_tax,omitempty"`
}

// HasBonus reports whether the bonus was paid this month.
func (m MonthResult) HasBonus() bool {
	return m.Bonus != nil
}

// NetBonus returns bonus minus bonus tax, or zero.
func (m MonthResult) NetBonus() decimal.Decimal {
	if m.Bonus == nil {
		return decimal.Zero
	}
	net := *m.Bonus
	if m.BonusTax != nil {
		net = net.Sub(*m.BonusTax)
	}
	return net
}

// TotalTax returns salary tax plus bonus tax.
func (m MonthResult) TotalTax() decimal.Decimal {
	if m.BonusTax == nil {
		return m.Tax
	}
	return m.Tax.Add(*m.BonusTax)
}

// TakeHome returns after-tax salary plus net bonus.
func (m MonthResult) TakeHome() decimal.Decimal {
	return m.AfterTaxSalary.Add(m.NetBonus())
}

// YearResult is the output of one yearly run
type YearResult struct {
	Months               [MonthsPerYear]MonthResult `json:"months"`
	SocialInsurance      SocialInsurance            `json:"social_insurance"`
	HousingFund          HousingFund                `json:"housing_fund"`
	PreTaxTotal          decimal.Decimal            `json:"pre_tax_total"`
	AfterTaxTotal        decimal.Decimal            `json:"after_tax_total"`
	SocialInsuranceTotal decimal.Decimal            `json:"social_insurance_total"`
	HousingFundTotal     decimal.Decimal            `json:"housing_fund_total"`
	TaxTotal             decimal.Decimal            `json:"tax_total"`
}

// Month returns the result for a 1-based month number.
func (y *YearResult) Month(n int) (MonthResult, bool) {
	if n < 1 || n > MonthsPerYear {
		return MonthResult{}, false
	}
	return y.Months[n-1], true
}

// BonusMonth returns the month the bonus was paid in, if any.
func (y *YearResult) BonusMonth() (MonthResult, bool) {
	for _, m := range y.Months {
		if m.HasBonus() {
			return m, true
		}
	}
	return MonthResult{}, false
}

// IncomeStream returns the monthly disposable income series used by ledger
// style consumers. Whether the net bonus is included is the caller's choice.
func (y *YearResult) IncomeStream(includeBonus bool) []decimal.Decimal {
	stream := make([]decimal.Decimal, 0, MonthsPerYear)
	for _, m := range y.Months {
		if includeBonus {
			stream = append(stream, m.TakeHome())
		} else {
			stream = append(stream, m.AfterTaxSalary)
		}
	}
	return stream
}
