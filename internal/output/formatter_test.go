package output

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"strings"
	"testing"

	"github.com/rgehrsitz/paycalc/internal/calculation"
	"github.com/rgehrsitz/paycalc/internal/config"
	"github.com/rgehrsitz/paycalc/internal/domain"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func d(s string) decimal.Decimal {
	return decimal.RequireFromString(s)
}

func buildTestResults(t *testing.T) []domain.ScenarioResult {
	t.Helper()
	rates, err := config.DefaultRates()
	require.NoError(t, err)
	engine, err := calculation.NewCalculationEngine(rates)
	require.NoError(t, err)

	params := domain.CalculationParameters{
		MonthlySalary:       d("10000"),
		SocialInsuranceBase: d("10000"),
		HousingFundBase:     d("2690"),
		HousingFundRate:     d("0.07"),
		Bonus:               domain.BonusSpec{Months: d("3"), PayMonth: 12, Method: domain.BonusSeparate},
	}
	noBonus := params
	noBonus.Bonus = domain.BonusSpec{PayMonth: 12, Method: domain.BonusSeparate}

	results, err := engine.RunScenarios(context.Background(), []domain.Scenario{
		{Name: "Beijing", Description: "three month bonus", Parameters: params},
		{Name: "Alpha", Parameters: noBonus},
	})
	require.NoError(t, err)
	return results
}

func TestFormatterFunc_Format(t *testing.T) {
	called := false
	var received []domain.ScenarioResult

	formatter := FormatterFunc{
		ID: "test-formatter",
		F: func(results []domain.ScenarioResult) ([]byte, error) {
			called = true
			received = results
			return []byte("test output"), nil
		},
	}

	testResults := buildTestResults(t)
	out, err := formatter.Format(testResults)

	assert.NoError(t, err, "Should not error")
	assert.True(t, called, "Should call the function")
	assert.Equal(t, testResults, received, "Should pass the results")
	assert.Equal(t, []byte("test output"), out, "Should return the function output")
	assert.Equal(t, "test-formatter", formatter.Name(), "Should return the ID")
}

func TestWriteFormatted(t *testing.T) {
	wd, err := os.Getwd()
	require.NoError(t, err)
	require.NoError(t, os.Chdir(t.TempDir()))
	t.Cleanup(func() { _ = os.Chdir(wd) })

	formatter := FormatterFunc{
		ID: "test-formatter",
		F: func(results []domain.ScenarioResult) ([]byte, error) {
			return []byte("test output content"), nil
		},
	}

	filename, err := WriteFormatted(formatter, nil, "txt")

	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(filename, "payroll_report_"), "Should have correct prefix")
	assert.True(t, strings.HasSuffix(filename, ".txt"), "Should have correct extension")

	content, err := os.ReadFile(filename)
	require.NoError(t, err)
	assert.Equal(t, "test output content", string(content))
}

func TestWriteFormatted_FormatterError(t *testing.T) {
	formatter := FormatterFunc{
		ID: "error-formatter",
		F: func(results []domain.ScenarioResult) ([]byte, error) {
			return nil, fmt.Errorf("formatter error")
		},
	}

	filename, err := WriteFormatted(formatter, nil, "txt")

	assert.Error(t, err)
	assert.Empty(t, filename, "Should return empty filename on error")
	assert.Contains(t, err.Error(), "formatter error")
}

func TestAvailableFormatterNames(t *testing.T) {
	assert.Equal(t, []string{"console", "csv", "json", "summary-csv"}, AvailableFormatterNames())
	assert.Contains(t, AvailableFormatAliases(), "table")
}

func TestGetFormatterByName(t *testing.T) {
	tests := []struct {
		name     string
		expected string
	}{
		{"console", "console"},
		{" JSON ", "json"},
		{"table", "console"},
		{"summary", "summary-csv"},
		{"monthly", "csv"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := GetFormatterByName(tt.name)
			require.NotNil(t, f)
			assert.Equal(t, tt.expected, f.Name())
		})
	}

	assert.Nil(t, GetFormatterByName("html"), "Should return nil for unknown name")
}

func TestConsoleFormatter_Format(t *testing.T) {
	out, err := ConsoleFormatter{}.Format(buildTestResults(t))
	require.NoError(t, err)

	content := string(out)
	assert.Contains(t, content, "PAYROLL TAX REPORT")
	assert.Contains(t, content, "SCENARIO: Beijing")
	assert.Contains(t, content, "three month bonus")
	assert.Contains(t, content, "SCENARIO: Alpha")
	assert.Contains(t, content, "MONTHLY CONTRIBUTIONS")
	assert.Contains(t, content, "2470.00", "employer social insurance total")
	assert.Contains(t, content, "8648.85", "month 1 after-tax salary")
	assert.Contains(t, content, "30000.00")
	assert.Contains(t, content, "900.00")
	assert.Contains(t, content, "paid in month 12 (separate)")
	assert.Contains(t, content, FormatCurrency(d("132246.36")))
}

func TestConsoleFormatter_Format_Empty(t *testing.T) {
	out, err := ConsoleFormatter{}.Format(nil)
	require.NoError(t, err)
	assert.Contains(t, string(out), "No scenarios")
}

func TestConsoleFormatter_Format_MissingResult(t *testing.T) {
	_, err := ConsoleFormatter{}.Format([]domain.ScenarioResult{{Scenario: domain.Scenario{Name: "x"}}})
	assert.Error(t, err)
	assert.Contains(t, err.Error(), `scenario "x" has no result`)
}

func TestCSVFormatter_Format(t *testing.T) {
	out, err := CSVFormatter{}.Format(buildTestResults(t))
	require.NoError(t, err)

	lines := strings.Split(strings.TrimSpace(string(out)), "\n")
	require.Len(t, lines, 1+24)
	assert.Equal(t, "Scenario,Month,PreTaxSalary,SocialInsurance,HousingFund,Tax,AfterTaxSalary,Bonus,BonusTax", lines[0])
	assert.Equal(t, "Beijing,1,10000.00,1050.00,188.30,112.85,8648.85,,", lines[1])
	assert.Equal(t, "Beijing,12,10000.00,1050.00,188.30,376.17,8385.53,30000.00,900.00", lines[12])
	assert.True(t, strings.HasPrefix(lines[13], "Alpha,1,"))
}

func TestSummaryCSVFormatter_Format(t *testing.T) {
	out, err := SummaryCSVFormatter{}.Format(buildTestResults(t))
	require.NoError(t, err)

	lines := strings.Split(strings.TrimSpace(string(out)), "\n")
	require.Len(t, lines, 3)
	assert.True(t, strings.HasPrefix(lines[1], "Alpha,120000.00,"), "rows are sorted by name")
	assert.Equal(t, "Beijing,150000.00,12600.00,2259.60,2894.04,132246.36,2470.00,188.30", lines[2])
}

func TestJSONFormatter_Format(t *testing.T) {
	out, err := JSONFormatter{Pretty: true}.Format(buildTestResults(t))
	require.NoError(t, err)

	var decoded []struct {
		Scenario struct {
			Name string `json:"name"`
		} `json:"scenario"`
		Result struct {
			TaxTotal decimal.Decimal `json:"tax_total"`
			Months   []struct {
				Month    int              `json:"month"`
				BonusTax *decimal.Decimal `json:"bonus_tax"`
			} `json:"months"`
		} `json:"result"`
	}
	require.NoError(t, json.Unmarshal(out, &decoded))
	require.Len(t, decoded, 2)
	assert.Equal(t, "Beijing", decoded[0].Scenario.Name)
	assert.True(t, decoded[0].Result.TaxTotal.Equal(d("2894.04")))
	require.Len(t, decoded[0].Result.Months, 12)
	assert.Nil(t, decoded[0].Result.Months[0].BonusTax)
	require.NotNil(t, decoded[0].Result.Months[11].BonusTax)
	assert.True(t, decoded[0].Result.Months[11].BonusTax.Equal(d("900")))

	empty, err := JSONFormatter{}.Format(nil)
	require.NoError(t, err)
	assert.Equal(t, "[]", string(empty))
}

func TestFormatCurrency(t *testing.T) {
	assert.Equal(t, "1,234.50 元", FormatCurrency(d("1234.5")))
	assert.Equal(t, "112.85 元", FormatCurrency(d("112.851")))
	assert.Equal(t, "0.00 元", FormatCurrency(decimal.Zero))
	assert.Contains(t, FormatCurrency(d("-20")), "-")
}

func TestFormatPercentage(t *testing.T) {
	assert.Equal(t, "7.00%", FormatPercentage(d("0.07")))
	assert.Equal(t, "0.50%", FormatPercentage(d("0.005")))
}

func TestFormatRates(t *testing.T) {
	rates, err := config.DefaultRates()
	require.NoError(t, err)

	content := FormatRates(rates)

	assert.Contains(t, content, "TAX AND CONTRIBUTION RATES (2024)")
	assert.Contains(t, content, "36000.00")
	assert.Contains(t, content, "181920.00")
	assert.Contains(t, content, "45.00%")
	assert.Contains(t, content, "Rate range 5.00% to 12.00%, default 12.00%")
	assert.Contains(t, content, "continuing_education")
}
