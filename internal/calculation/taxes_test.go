package calculation

import (
	"testing"

	"github.com/rgehrsitz/paycalc/internal/domain"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
)

func newTestTaxCalculator(t *testing.T) *TaxCalculator {
	t.Helper()
	return NewTaxCalculator(defaultRates(t))
}

func TestTaxCalculator_Withhold_FirstMonth(t *testing.T) {
	tc := newTestTaxCalculator(t)

	// 10000 - 1050 - 188.3 - 5000 = 3761.7 taxable, 3% bracket
	tax, state := tc.Withhold(d("10000"), d("1050"), d("188.3"), decimal.Zero, domain.WithholdingState{})

	assert.True(t, tax.Equal(d("112.851")), "got %s", tax)
	assert.True(t, state.CumulativeTaxableIncome.Equal(d("3761.7")))
	assert.True(t, state.CumulativeTaxWithheld.Equal(d("112.851")))
}

func TestTaxCalculator_Withhold_CrossesBracket(t *testing.T) {
	tc := newTestTaxCalculator(t)

	var state domain.WithholdingState
	var taxes []decimal.Decimal
	for month := 1; month <= 12; month++ {
		var tax decimal.Decimal
		tax, state = tc.Withhold(d("10000"), d("1050"), d("188.3"), decimal.Zero, state)
		taxes = append(taxes, tax)
	}

	assert.True(t, taxes[8].Equal(d("112.851")), "month 9 is still in the 3%% bracket, got %s", taxes[8])
	// cumulative 37617 moves into the 10% bracket: 1241.7 due - 1015.659 withheld
	assert.True(t, taxes[9].Equal(d("226.041")), "month 10 got %s", taxes[9])
	assert.True(t, taxes[10].Equal(d("376.17")), "month 11 got %s", taxes[10])
	assert.True(t, taxes[11].Equal(d("376.17")), "month 12 got %s", taxes[11])
	assert.True(t, state.CumulativeTaxWithheld.Equal(d("1994.04")))
}

func TestTaxCalculator_Withhold_ZeroAndNegative(t *testing.T) {
	tc := newTestTaxCalculator(t)

	t.Run("exactly the basic deduction", func(t *testing.T) {
		tax, state := tc.Withhold(d("5000"), decimal.Zero, decimal.Zero, decimal.Zero, domain.WithholdingState{})
		assert.True(t, tax.IsZero())
		assert.True(t, state.CumulativeTaxableIncome.IsZero())
		assert.True(t, state.CumulativeTaxWithheld.IsZero())
	})

	t.Run("large negative month keeps withheld tax", func(t *testing.T) {
		start := domain.WithholdingState{CumulativeTaxableIncome: d("20000"), CumulativeTaxWithheld: d("600")}

		tax, state := tc.Withhold(decimal.Zero, decimal.Zero, decimal.Zero, d("20000"), start)

		assert.True(t, tax.IsZero(), "no refund inside the year")
		assert.True(t, state.CumulativeTaxableIncome.Equal(d("-5000")))
		assert.True(t, state.CumulativeTaxWithheld.Equal(d("600")), "withheld tax never decreases")
	})

	t.Run("due below already withheld", func(t *testing.T) {
		start := domain.WithholdingState{CumulativeTaxableIncome: d("10000"), CumulativeTaxWithheld: d("500")}

		// zero taxable this month: due 300 < 500 withheld
		tax, state := tc.Withhold(d("5000"), decimal.Zero, decimal.Zero, decimal.Zero, start)

		assert.True(t, tax.IsZero())
		assert.True(t, state.CumulativeTaxWithheld.Equal(d("500")))
	})
}

func TestTaxCalculator_Withhold_NegativeOffsetCarriesForward(t *testing.T) {
	tc := newTestTaxCalculator(t)

	// month 1: heavy deductions push taxable income to -1238.3
	tax1, state := tc.Withhold(d("10000"), d("1050"), d("188.3"), d("5000"), domain.WithholdingState{})
	assert.True(t, tax1.IsZero())
	assert.True(t, state.CumulativeTaxableIncome.Equal(d("-1238.3")))

	// month 2: normal month, cumulative 2523.4
	tax2, _ := tc.Withhold(d("10000"), d("1050"), d("188.3"), decimal.Zero, state)
	isolated, _ := tc.Withhold(d("10000"), d("1050"), d("188.3"), decimal.Zero, domain.WithholdingState{})

	assert.True(t, tax2.Equal(d("75.702")), "got %s", tax2)
	assert.True(t, tax2.LessThan(isolated), "offset should reduce month 2 tax")
}

func TestTaxCalculator_AnnualConvergence(t *testing.T) {
	tc := newTestTaxCalculator(t)

	for _, salary := range []string{"3000", "5000", "8000", "10000", "17000", "30000", "55000", "80000", "150000"} {
		t.Run(salary, func(t *testing.T) {
			var state domain.WithholdingState
			total := decimal.Zero
			for month := 0; month < 12; month++ {
				var tax decimal.Decimal
				tax, state = tc.Withhold(d(salary), decimal.Zero, decimal.Zero, decimal.Zero, state)
				total = total.Add(tax)
			}

			monthly := tc.MonthlyTaxableIncome(d(salary), decimal.Zero, decimal.Zero, decimal.Zero)
			annual := tc.AnnualTax(monthly.Mul(decimal.NewFromInt(12)))

			assert.True(t, total.Equal(annual), "monthly sum %s != annual %s", total, annual)
		})
	}
}

func TestTaxCalculator_AnnualTax(t *testing.T) {
	tc := newTestTaxCalculator(t)

	assert.True(t, tc.AnnualTax(d("-100")).IsZero())
	assert.True(t, tc.AnnualTax(decimal.Zero).IsZero())
	assert.True(t, tc.AnnualTax(d("36000")).Equal(d("1080")))
	assert.True(t, tc.AnnualTax(d("45140.4")).Equal(d("1994.04")))
	assert.True(t, tc.AnnualTax(d("1000000")).Equal(d("268080")))
}

func TestTaxCalculator_BonusTax(t *testing.T) {
	tc := newTestTaxCalculator(t)

	tests := []struct {
		name     string
		bonus    string
		expected string
	}{
		{"zero bonus", "0", "0"},
		{"three months of 10000", "30000", "900"},
		{"just under first boundary", "35988", "1079.64"},
		// 36000/12 = 3000 sits on the boundary and takes the 10% bracket
		{"on first boundary", "36000", "3390"},
		{"second bracket", "60000", "5790"},
		{"top bracket", "1200000", "524840"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := tc.BonusTax(d(tt.bonus))
			assert.True(t, got.Equal(d(tt.expected)), "BonusTax(%s) = %s, expected %s", tt.bonus, got, tt.expected)
		})
	}
}

func TestTaxCalculator_BonusTax_NeverNegative(t *testing.T) {
	tc := newTestTaxCalculator(t)

	for bonus := int64(0); bonus <= 1200000; bonus += 7919 {
		tax := tc.BonusTax(decimal.NewFromInt(bonus))
		assert.False(t, tax.IsNegative(), "bonus %d produced negative tax %s", bonus, tax)
	}
}

func TestTaxCalculator_CombinedBonusTax(t *testing.T) {
	tc := newTestTaxCalculator(t)

	state := domain.WithholdingState{
		CumulativeTaxableIncome: d("45140.4"),
		CumulativeTaxWithheld:   d("1994.04"),
	}

	// 30000 - 5000 basic deduction on top of 45140.4: 70140.4 * 10% - 2520 - 1994.04
	tax := tc.CombinedBonusTax(d("30000"), state)

	assert.True(t, tax.Equal(d("2500")), "got %s", tax)
}
