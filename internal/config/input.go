package config

import (
	"fmt"
	"os"
	"sort"

	"github.com/rgehrsitz/paycalc/internal/domain"
	"github.com/shopspring/decimal"
	"gopkg.in/yaml.v3"
)

// Base modes for contribution bases
const (
	BaseModeSalary = "salary"
	BaseModeMin    = "min"
	BaseModeCustom = "custom"
)

const defaultPayMonth = 12

var hundred = decimal.NewFromInt(100)

// InputFile is the on-disk scenario document
type InputFile struct {
	Scenarios []ScenarioInput `yaml:"scenarios"`
}

// ScenarioInput is one scenario as the user writes it, before base resolution
// and rate clamping.
type ScenarioInput struct {
	Name              string                     `yaml:"name"`
	Description       string                     `yaml:"description"`
	MonthlySalary     decimal.Decimal            `yaml:"monthly_salary"`
	SocialInsurance   BaseInput                  `yaml:"social_insurance"`
	HousingFund       HousingFundInput           `yaml:"housing_fund"`
	SpecialDeductions map[string]decimal.Decimal `yaml:"special_deductions"`
	Bonus             BonusInput                 `yaml:"bonus"`
}

// BaseInput selects a contribution base. MinBase/MaxBase are the legal limits
// for the employee's city.
type BaseInput struct {
	Mode    string           `yaml:"mode"`
	Base    *decimal.Decimal `yaml:"base"`
	MinBase *decimal.Decimal `yaml:"min_base"`
	MaxBase *decimal.Decimal `yaml:"max_base"`
}

// HousingFundInput is a base selection plus a rate in percent
type HousingFundInput struct {
	BaseInput   `yaml:",inline"`
	RatePercent *decimal.Decimal `yaml:"rate_percent"`
}

// BonusInput describes the annual bonus
type BonusInput struct {
	Months   decimal.Decimal `yaml:"months"`
	PayMonth int             `yaml:"pay_month"`
	Method   string          `yaml:"method"`
}

// InputParser handles parsing of scenario input files
type InputParser struct {
	Rates *domain.RateSet
}

// NewInputParser creates a new input parser that resolves inputs against rates
func NewInputParser(rates *domain.RateSet) *InputParser {
	return &InputParser{Rates: rates}
}

// LoadInputFile reads a scenario document without resolving it
func LoadInputFile(filename string) (*InputFile, error) {
	data, err := os.ReadFile(filename)
	if err != nil {
		return nil, fmt.Errorf("failed to read file %s: %w", filename, err)
	}

	var input InputFile
	if err := yaml.Unmarshal(data, &input); err != nil {
		return nil, fmt.Errorf("failed to parse YAML: %w", err)
	}
	return &input, nil
}

// Find returns the raw scenario named name
func (f *InputFile) Find(name string) (ScenarioInput, bool) {
	for _, si := range f.Scenarios {
		if si.Name == name {
			return si, true
		}
	}
	return ScenarioInput{}, false
}

// LoadFromFile loads, resolves and validates every scenario in a YAML file
func (ip *InputParser) LoadFromFile(filename string) ([]domain.Scenario, error) {
	input, err := LoadInputFile(filename)
	if err != nil {
		return nil, err
	}

	scenarios, err := ip.Resolve(input)
	if err != nil {
		return nil, fmt.Errorf("configuration validation failed: %w", err)
	}
	return scenarios, nil
}

// Resolve turns raw inputs into engine-ready scenarios
func (ip *InputParser) Resolve(input *InputFile) ([]domain.Scenario, error) {
	if len(input.Scenarios) == 0 {
		return nil, fmt.Errorf("no scenarios provided")
	}

	seen := make(map[string]bool, len(input.Scenarios))
	scenarios := make([]domain.Scenario, 0, len(input.Scenarios))
	for i, si := range input.Scenarios {
		if si.Name == "" {
			return nil, fmt.Errorf("scenario %d: name is required", i)
		}
		if seen[si.Name] {
			return nil, fmt.Errorf("scenario %d: duplicate name %q", i, si.Name)
		}
		seen[si.Name] = true

		params, err := ip.ResolveScenario(&si)
		if err != nil {
			return nil, fmt.Errorf("scenario %d (%s) validation failed: %w", i, si.Name, err)
		}
		scenarios = append(scenarios, domain.Scenario{
			Name:        si.Name,
			Description: si.Description,
			Parameters:  params,
		})
	}
	return scenarios, nil
}

// ResolveScenario resolves bases, clamps the housing fund rate, sums special
// deductions and applies bonus defaults.
func (ip *InputParser) ResolveScenario(si *ScenarioInput) (domain.CalculationParameters, error) {
	var params domain.CalculationParameters

	if si.MonthlySalary.IsNegative() {
		return params, fmt.Errorf("monthly salary cannot be negative")
	}

	socialBase, err := ResolveBase(si.SocialInsurance, si.MonthlySalary)
	if err != nil {
		return params, fmt.Errorf("social insurance: %w", err)
	}
	housingBase, err := ResolveBase(si.HousingFund.BaseInput, si.MonthlySalary)
	if err != nil {
		return params, fmt.Errorf("housing fund: %w", err)
	}
	housingRate, err := ip.resolveHousingRate(si.HousingFund.RatePercent)
	if err != nil {
		return params, fmt.Errorf("housing fund: %w", err)
	}
	special, err := ip.sumSpecialDeductions(si.SpecialDeductions)
	if err != nil {
		return params, fmt.Errorf("special deductions: %w", err)
	}

	bonus := domain.BonusSpec{
		Months:   si.Bonus.Months,
		PayMonth: si.Bonus.PayMonth,
		Method:   domain.BonusMethod(si.Bonus.Method),
	}
	if bonus.PayMonth == 0 {
		bonus.PayMonth = defaultPayMonth
	}
	if bonus.Method == "" {
		bonus.Method = domain.BonusSeparate
	}

	params = domain.CalculationParameters{
		MonthlySalary:       si.MonthlySalary,
		SocialInsuranceBase: socialBase,
		HousingFundBase:     housingBase,
		HousingFundRate:     housingRate,
		SpecialDeductions:   special,
		Bonus:               bonus,
	}
	if err := params.Validate(); err != nil {
		return domain.CalculationParameters{}, err
	}
	return params, nil
}

// SalaryVariant returns a builder that re-resolves si for another monthly
// salary. Salary-mode bases follow the new salary within their limits while
// custom and min bases stay put.
func (ip *InputParser) SalaryVariant(si ScenarioInput) func(salary decimal.Decimal) (domain.Scenario, error) {
	return func(salary decimal.Decimal) (domain.Scenario, error) {
		variant := si
		variant.MonthlySalary = salary
		params, err := ip.ResolveScenario(&variant)
		if err != nil {
			return domain.Scenario{}, fmt.Errorf("scenario %s: %w", si.Name, err)
		}
		return domain.Scenario{Name: si.Name, Description: si.Description, Parameters: params}, nil
	}
}

// ResolveBase picks the contribution base for a mode. The salary mode clamps
// salary into whichever limits are given.
func ResolveBase(in BaseInput, salary decimal.Decimal) (decimal.Decimal, error) {
	if in.MinBase != nil && in.MaxBase != nil && in.MinBase.GreaterThan(*in.MaxBase) {
		return decimal.Zero, fmt.Errorf("min base %s is greater than max base %s", in.MinBase, in.MaxBase)
	}

	mode := in.Mode
	if mode == "" {
		mode = BaseModeSalary
	}

	switch mode {
	case BaseModeMin:
		if in.MinBase == nil {
			return decimal.Zero, fmt.Errorf("min_base is required for mode %q", mode)
		}
		return *in.MinBase, nil
	case BaseModeSalary:
		base := salary
		if in.MinBase != nil && base.LessThan(*in.MinBase) {
			base = *in.MinBase
		}
		if in.MaxBase != nil && base.GreaterThan(*in.MaxBase) {
			base = *in.MaxBase
		}
		return base, nil
	case BaseModeCustom:
		if in.Base == nil {
			return decimal.Zero, fmt.Errorf("base is required for mode %q", mode)
		}
		if in.Base.IsNegative() {
			return decimal.Zero, fmt.Errorf("base cannot be negative")
		}
		return *in.Base, nil
	default:
		return decimal.Zero, fmt.Errorf("base mode must be 'salary', 'min', or 'custom', got %q", in.Mode)
	}
}

func (ip *InputParser) resolveHousingRate(percent *decimal.Decimal) (decimal.Decimal, error) {
	policy := ip.Rates.HousingFund
	if percent == nil {
		return policy.DefaultRate, nil
	}
	if percent.IsNegative() {
		return decimal.Zero, fmt.Errorf("rate percent cannot be negative")
	}
	return policy.Clamp(percent.Div(hundred)), nil
}

func (ip *InputParser) sumSpecialDeductions(items map[string]decimal.Decimal) (decimal.Decimal, error) {
	// sorted for stable error messages
	ids := make([]string, 0, len(items))
	for id := range items {
		ids = append(ids, id)
	}
	sort.Strings(ids)

	total := decimal.Zero
	for _, id := range ids {
		amount := items[id]
		item, ok := ip.Rates.FindSpecialDeduction(id)
		if !ok {
			return decimal.Zero, fmt.Errorf("unknown deduction %q", id)
		}
		if amount.IsNegative() {
			return decimal.Zero, fmt.Errorf("%s cannot be negative", id)
		}
		if amount.GreaterThan(item.MaxAmount) {
			return decimal.Zero, fmt.Errorf("%s: %s exceeds the monthly maximum of %s", id, amount, item.MaxAmount)
		}
		total = total.Add(amount)
	}
	return total, nil
}
