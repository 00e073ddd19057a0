package compare

import (
	"encoding/csv"
	"strconv"
	"strings"
)

// CSVFormatter formats comparison results as CSV
type CSVFormatter struct{}

// Format generates CSV output for comparison results
func (cf *CSVFormatter) Format(compSet *ComparisonSet) (string, error) {
	var sb strings.Builder
	writer := csv.NewWriter(&sb)

	header := []string{
		"Scenario",
		"Type",
		"Bonus Method",
		"Pay Month",
		"Bonus",
		"Bonus Tax",
		"Pre-Tax Total",
		"Tax Total",
		"After-Tax Total",
		"Tax Diff from Base",
		"Take-Home Diff from Base",
		"Take-Home % Change",
	}
	if err := writer.Write(header); err != nil {
		return "", err
	}

	if compSet.BaseResult != nil {
		if err := writer.Write(cf.formatRow(compSet.BaseResult, "base")); err != nil {
			return "", err
		}
	}

	for _, alt := range compSet.AlternativeResults {
		if err := writer.Write(cf.formatRow(&alt, "alternative")); err != nil {
			return "", err
		}
	}

	writer.Flush()
	if err := writer.Error(); err != nil {
		return "", err
	}

	return sb.String(), nil
}

func (cf *CSVFormatter) formatRow(result *ComparisonResult, scenarioType string) []string {
	return []string{
		result.ScenarioName,
		scenarioType,
		string(result.BonusMethod),
		strconv.Itoa(result.PayMonth),
		result.BonusAmount.StringFixed(2),
		result.BonusTax.StringFixed(2),
		result.PreTaxTotal.StringFixed(2),
		result.TaxTotal.StringFixed(2),
		result.AfterTaxTotal.StringFixed(2),
		result.TaxDiffFromBase.StringFixed(2),
		result.TakeHomeDiffFromBase.StringFixed(2),
		result.TakeHomePctFromBase.StringFixed(2),
	}
}
