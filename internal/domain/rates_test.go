package domain

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func d(s string) decimal.Decimal {
	return decimal.RequireFromString(s)
}

func ordinaryTable() BracketTable {
	return BracketTable{
		{Threshold: d("0"), Rate: d("0.03"), QuickDeduction: d("0")},
		{Threshold: d("36000"), Rate: d("0.1"), QuickDeduction: d("2520")},
		{Threshold: d("144000"), Rate: d("0.2"), QuickDeduction: d("16920")},
		{Threshold: d("300000"), Rate: d("0.25"), QuickDeduction: d("31920")},
		{Threshold: d("420000"), Rate: d("0.3"), QuickDeduction: d("52920")},
		{Threshold: d("660000"), Rate: d("0.35"), QuickDeduction: d("85920")},
		{Threshold: d("960000"), Rate: d("0.45"), QuickDeduction: d("181920")},
	}
}

func bonusTable() BracketTable {
	return BracketTable{
		{Threshold: d("0"), Rate: d("0.03"), QuickDeduction: d("0")},
		{Threshold: d("3000"), Rate: d("0.1"), QuickDeduction: d("210")},
		{Threshold: d("12000"), Rate: d("0.2"), QuickDeduction: d("1410")},
		{Threshold: d("25000"), Rate: d("0.25"), QuickDeduction: d("2660")},
		{Threshold: d("35000"), Rate: d("0.3"), QuickDeduction: d("4410")},
		{Threshold: d("55000"), Rate: d("0.35"), QuickDeduction: d("7160")},
		{Threshold: d("80000"), Rate: d("0.45"), QuickDeduction: d("15160")},
	}
}

func TestBracketTable_Lookup(t *testing.T) {
	table := ordinaryTable()

	tests := []struct {
		name      string
		value     string
		threshold string
	}{
		{"zero uses lowest bracket", "0", "0"},
		{"inside first bracket", "3761.7", "0"},
		{"just below boundary", "35999.99", "0"},
		{"exactly on boundary takes the higher bracket", "36000", "36000"},
		{"just above boundary", "36000.01", "36000"},
		{"middle bracket", "200000", "144000"},
		{"top bracket", "5000000", "960000"},
		{"top boundary", "960000", "960000"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			b := table.Lookup(d(tt.value))
			assert.True(t, b.Threshold.Equal(d(tt.threshold)), "got threshold %s", b.Threshold)
		})
	}
}

func TestBracketTable_Lookup_BelowFirstThreshold(t *testing.T) {
	// A table that does not start at 0 still falls back to its lowest bracket
	table := BracketTable{
		{Threshold: d("100"), Rate: d("0.1")},
		{Threshold: d("200"), Rate: d("0.2"), QuickDeduction: d("10")},
	}
	assert.True(t, table.Lookup(d("50")).Threshold.Equal(d("100")))
}

func TestBracketTable_Validate_DefaultTables(t *testing.T) {
	assert.NoError(t, ordinaryTable().Validate(), "ordinary table should be continuous")
	assert.NoError(t, bonusTable().Validate(), "bonus table should be continuous")
}

func TestBracketTable_Continuity(t *testing.T) {
	for name, table := range map[string]BracketTable{"ordinary": ordinaryTable(), "bonus": bonusTable()} {
		t.Run(name, func(t *testing.T) {
			eps := d("0.01")
			for i := 1; i < len(table); i++ {
				boundary := table[i].Threshold
				below := table.Lookup(boundary.Sub(eps)).Apply(boundary)
				above := table.Lookup(boundary.Add(eps)).Apply(boundary)
				assert.True(t, below.Equal(above), "jump at %s: %s vs %s", boundary, below, above)
			}
		})
	}
}

func TestBracketTable_Validate_Errors(t *testing.T) {
	tests := []struct {
		name    string
		table   BracketTable
		message string
	}{
		{
			name:    "empty",
			table:   BracketTable{},
			message: "empty",
		},
		{
			name:    "first threshold not zero",
			table:   BracketTable{{Threshold: d("1"), Rate: d("0.03")}},
			message: "first bracket threshold must be 0",
		},
		{
			name: "not increasing",
			table: BracketTable{
				{Threshold: d("0"), Rate: d("0.03")},
				{Threshold: d("0"), Rate: d("0.1")},
			},
			message: "must be greater than",
		},
		{
			name: "discontinuous",
			table: BracketTable{
				{Threshold: d("0"), Rate: d("0.03")},
				{Threshold: d("36000"), Rate: d("0.1"), QuickDeduction: d("2000")},
			},
			message: "discontinuous",
		},
		{
			name:    "rate above one",
			table:   BracketTable{{Threshold: d("0"), Rate: d("1.5")}},
			message: "between 0 and 1",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.table.Validate()
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.message)
		})
	}
}

func TestContributionRates_Validate(t *testing.T) {
	rates := ContributionRates{
		Pension:      ContributionRate{Personal: d("0.08"), Employer: d("0.16")},
		Medical:      ContributionRate{Personal: d("0.02"), Employer: d("0.08")},
		Unemployment: ContributionRate{Personal: d("0.005"), Employer: d("0.005")},
		WorkInjury:   ContributionRate{Employer: d("0.002")},
		Maternity:    ContributionRate{},
	}
	assert.NoError(t, rates.Validate())

	rates.WorkInjury.Personal = d("0.001")
	err := rates.Validate()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "work_injury")
}

func TestHousingFundPolicy_Clamp(t *testing.T) {
	policy := HousingFundPolicy{MinRate: d("0.05"), MaxRate: d("0.12"), DefaultRate: d("0.12")}

	assert.True(t, policy.Clamp(d("0.01")).Equal(d("0.05")))
	assert.True(t, policy.Clamp(d("0.07")).Equal(d("0.07")))
	assert.True(t, policy.Clamp(d("0.2")).Equal(d("0.12")))
}

func TestRateSet_Validate(t *testing.T) {
	rs := &RateSet{
		BasicDeduction:   d("5000"),
		OrdinaryBrackets: ordinaryTable(),
		BonusBrackets:    bonusTable(),
		HousingFund:      HousingFundPolicy{MinRate: d("0.05"), MaxRate: d("0.12"), DefaultRate: d("0.12")},
		SpecialDeductions: []SpecialDeductionItem{
			{ID: "housing_rent", MaxAmount: d("1500")},
		},
	}
	require.NoError(t, rs.Validate())

	item, ok := rs.FindSpecialDeduction("housing_rent")
	assert.True(t, ok)
	assert.True(t, item.MaxAmount.Equal(d("1500")))
	_, ok = rs.FindSpecialDeduction("unknown")
	assert.False(t, ok)

	rs.BonusBrackets = BracketTable{}
	err := rs.Validate()
	var tableErr *RateTableError
	require.ErrorAs(t, err, &tableErr)
	assert.Equal(t, "bonus_brackets", tableErr.Table)
}

func TestRateSet_Validate_DuplicateDeduction(t *testing.T) {
	rs := &RateSet{
		BasicDeduction:   d("5000"),
		OrdinaryBrackets: ordinaryTable(),
		BonusBrackets:    bonusTable(),
		SpecialDeductions: []SpecialDeductionItem{
			{ID: "elderly_care", MaxAmount: d("2000")},
			{ID: "elderly_care", MaxAmount: d("3000")},
		},
	}
	err := rs.Validate()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "duplicate")
}
