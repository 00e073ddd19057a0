package domain

import (
	"fmt"
	"sort"

	"github.com/shopspring/decimal"
)

// RateSet contains all regulatory data that applies uniformly to every
// calculation. It is loaded once from rates YAML and never mutated.
type RateSet struct {
	Metadata          RateMetadata           `yaml:"metadata" json:"metadata"`
	BasicDeduction    decimal.Decimal        `yaml:"basic_deduction" json:"basic_deduction"`
	OrdinaryBrackets  BracketTable           `yaml:"ordinary_brackets" json:"ordinary_brackets"`
	BonusBrackets     BracketTable           `yaml:"bonus_brackets" json:"bonus_brackets"`
	SocialInsurance   ContributionRates      `yaml:"social_insurance" json:"social_insurance"`
	HousingFund       HousingFundPolicy      `yaml:"housing_fund" json:"housing_fund"`
	SpecialDeductions []SpecialDeductionItem `yaml:"special_deductions" json:"special_deductions"`
}

// RateMetadata contains information about the rate data
type RateMetadata struct {
	TaxYear     int    `yaml:"tax_year" json:"tax_year"`
	LastUpdated string `yaml:"last_updated" json:"last_updated"`
	Description string `yaml:"description" json:"description"`
}

// TaxBracket is one row of a quick-deduction tax table. Income above
// Threshold is taxed as income*Rate - QuickDeduction.
type TaxBracket struct {
	Threshold      decimal.Decimal `yaml:"threshold" json:"threshold"`
	Rate           decimal.Decimal `yaml:"rate" json:"rate"`
	QuickDeduction decimal.Decimal `yaml:"quick_deduction" json:"quick_deduction"`
}

// Apply returns income*Rate - QuickDeduction.
func (b TaxBracket) Apply(income decimal.Decimal) decimal.Decimal {
	return income.Mul(b.Rate).Sub(b.QuickDeduction)
}

// BracketTable is an ascending sequence of tax brackets.
type BracketTable []TaxBracket

// Lookup returns the bracket with the largest threshold not exceeding value.
// A value below every threshold falls back to the lowest bracket. Callers must
// not pass negative values; the withholding path never does.
func (t BracketTable) Lookup(value decimal.Decimal) TaxBracket {
	// first index whose threshold is strictly greater than value
	i := sort.Search(len(t), func(i int) bool {
		return t[i].Threshold.GreaterThan(value)
	})
	if i == 0 {
		return t[0]
	}
	return t[i-1]
}

// Validate checks ordering, rate bounds and continuity at every boundary.
func (t BracketTable) Validate() error {
	if len(t) == 0 {
		return fmt.Errorf("bracket table is empty")
	}
	if !t[0].Threshold.IsZero() {
		return fmt.Errorf("first bracket threshold must be 0, got %s", t[0].Threshold)
	}
	for i, b := range t {
		if b.Rate.IsNegative() || b.Rate.GreaterThan(decimal.NewFromInt(1)) {
			return fmt.Errorf("bracket %d: rate %s must be between 0 and 1", i, b.Rate)
		}
		if b.QuickDeduction.IsNegative() {
			return fmt.Errorf("bracket %d: quick deduction cannot be negative", i)
		}
		if i == 0 {
			continue
		}
		prev := t[i-1]
		if !b.Threshold.GreaterThan(prev.Threshold) {
			return fmt.Errorf("bracket %d: threshold %s must be greater than %s", i, b.Threshold, prev.Threshold)
		}
		if !b.Apply(b.Threshold).Equal(prev.Apply(b.Threshold)) {
			return fmt.Errorf("bracket %d: tax is discontinuous at %s (%s vs %s)",
				i, b.Threshold, prev.Apply(b.Threshold), b.Apply(b.Threshold))
		}
	}
	return nil
}

// ContributionRate is a personal/employer rate pair for one insurance category
type ContributionRate struct {
	Personal decimal.Decimal `yaml:"personal" json:"personal"`
	Employer decimal.Decimal `yaml:"employer" json:"employer"`
}

// ContributionRates holds the five social insurance categories
type ContributionRates struct {
	Pension      ContributionRate `yaml:"pension" json:"pension"`
	Medical      ContributionRate `yaml:"medical" json:"medical"`
	Unemployment ContributionRate `yaml:"unemployment" json:"unemployment"`
	WorkInjury   ContributionRate `yaml:"work_injury" json:"work_injury"`
	Maternity    ContributionRate `yaml:"maternity" json:"maternity"`
}

// Validate checks that every rate is a fraction and that the employer-only
// categories carry no personal rate.
func (c ContributionRates) Validate() error {
	categories := []struct {
		name string
		rate ContributionRate
	}{
		{"pension", c.Pension},
		{"medical", c.Medical},
		{"unemployment", c.Unemployment},
		{"work_injury", c.WorkInjury},
		{"maternity", c.Maternity},
	}
	one := decimal.NewFromInt(1)
	for _, cat := range categories {
		if cat.rate.Personal.IsNegative() || cat.rate.Personal.GreaterThan(one) {
			return fmt.Errorf("%s: personal rate must be between 0 and 1", cat.name)
		}
		if cat.rate.Employer.IsNegative() || cat.rate.Employer.GreaterThan(one) {
			return fmt.Errorf("%s: employer rate must be between 0 and 1", cat.name)
		}
	}
	if !c.WorkInjury.Personal.IsZero() {
		return fmt.Errorf("work_injury: personal rate must be 0")
	}
	if !c.Maternity.Personal.IsZero() {
		return fmt.Errorf("maternity: personal rate must be 0")
	}
	return nil
}

// HousingFundPolicy is the legal range for the housing fund rate. The engine
// receives an already clamped rate; only the input layer reads this.
type HousingFundPolicy struct {
	MinRate     decimal.Decimal `yaml:"min_rate" json:"min_rate"`
	MaxRate     decimal.Decimal `yaml:"max_rate" json:"max_rate"`
	DefaultRate decimal.Decimal `yaml:"default_rate" json:"default_rate"`
}

// Clamp restricts rate to [MinRate, MaxRate].
func (p HousingFundPolicy) Clamp(rate decimal.Decimal) decimal.Decimal {
	if rate.LessThan(p.MinRate) {
		return p.MinRate
	}
	if rate.GreaterThan(p.MaxRate) {
		return p.MaxRate
	}
	return rate
}

// SpecialDeductionItem is a catalogue entry for a monthly special additional
// deduction with its statutory monthly cap.
type SpecialDeductionItem struct {
	ID        string          `yaml:"id" json:"id"`
	Name      string          `yaml:"name" json:"name"`
	MaxAmount decimal.Decimal `yaml:"max_amount" json:"max_amount"`
}

// FindSpecialDeduction looks up a catalogue entry by id.
func (r *RateSet) FindSpecialDeduction(id string) (SpecialDeductionItem, bool) {
	for _, item := range r.SpecialDeductions {
		if item.ID == id {
			return item, true
		}
	}
	return SpecialDeductionItem{}, false
}

// Validate checks every table in the set.
func (r *RateSet) Validate() error {
	if r.BasicDeduction.IsNegative() {
		return &RateTableError{Table: "basic_deduction", Err: fmt.Errorf("cannot be negative")}
	}
	if err := r.OrdinaryBrackets.Validate(); err != nil {
		return &RateTableError{Table: "ordinary_brackets", Err: err}
	}
	if err := r.BonusBrackets.Validate(); err != nil {
		return &RateTableError{Table: "bonus_brackets", Err: err}
	}
	if err := r.SocialInsurance.Validate(); err != nil {
		return &RateTableError{Table: "social_insurance", Err: err}
	}
	hf := r.HousingFund
	if hf.MinRate.IsNegative() || hf.MaxRate.GreaterThan(decimal.NewFromInt(1)) || hf.MinRate.GreaterThan(hf.MaxRate) {
		return &RateTableError{Table: "housing_fund", Err: fmt.Errorf("rate range [%s, %s] is invalid", hf.MinRate, hf.MaxRate)}
	}
	if hf.DefaultRate.LessThan(hf.MinRate) || hf.DefaultRate.GreaterThan(hf.MaxRate) {
		return &RateTableError{Table: "housing_fund", Err: fmt.Errorf("default rate %s outside [%s, %s]", hf.DefaultRate, hf.MinRate, hf.MaxRate)}
	}
	seen := make(map[string]bool, len(r.SpecialDeductions))
	for _, item := range r.SpecialDeductions {
		if item.ID == "" {
			return &RateTableError{Table: "special_deductions", Err: fmt.Errorf("item id is required")}
		}
		if seen[item.ID] {
			return &RateTableError{Table: "special_deductions", Err: fmt.Errorf("duplicate item %q", item.ID)}
		}
		seen[item.ID] = true
		if item.MaxAmount.IsNegative() {
			return &RateTableError{Table: "special_deductions", Err: fmt.Errorf("%s: max amount cannot be negative", item.ID)}
		}
	}
	return nil
}
