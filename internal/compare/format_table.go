package compare

import (
	"fmt"
	"strings"

	"github.com/rgehrsitz/paycalc/internal/output"
	"github.com/shopspring/decimal"
)

// TableFormatter formats comparison results as a console table
type TableFormatter struct{}

// Format generates a formatted table comparing scenarios
func (tf *TableFormatter) Format(compSet *ComparisonSet) string {
	var sb strings.Builder

	sb.WriteString("BONUS SCENARIO COMPARISON\n")
	sb.WriteString(strings.Repeat("=", 96) + "\n")
	sb.WriteString(fmt.Sprintf("Base Scenario: %s\n", compSet.BaseScenarioName))
	if compSet.ConfigPath != "" {
		sb.WriteString(fmt.Sprintf("Configuration: %s\n", compSet.ConfigPath))
	}
	sb.WriteString("\n")

	nameWidth := 32
	numWidth := 15

	sb.WriteString(fmt.Sprintf("%-*s %-9s %5s %*s %*s %*s\n",
		nameWidth, "Scenario",
		"Method", "Month",
		numWidth, "Bonus Tax",
		numWidth, "Annual Tax",
		numWidth, "Take-Home"))
	sb.WriteString(strings.Repeat("-", 96) + "\n")

	if compSet.BaseResult != nil {
		sb.WriteString(tf.formatRow(compSet.BaseResult, nameWidth, numWidth, true))
	}

	if len(compSet.AlternativeResults) > 0 {
		sb.WriteString(strings.Repeat("-", 96) + "\n")
		for _, alt := range compSet.AlternativeResults {
			sb.WriteString(tf.formatRow(&alt, nameWidth, numWidth, false))
		}
	}

	sb.WriteString(strings.Repeat("=", 96) + "\n")

	if len(compSet.AlternativeResults) > 0 {
		sb.WriteString("\nCOMPARISON TO BASE\n")
		sb.WriteString(strings.Repeat("-", 96) + "\n")

		for _, alt := range compSet.AlternativeResults {
			sb.WriteString(fmt.Sprintf("\n%s:\n", alt.ScenarioName))
			if alt.Description != "" {
				sb.WriteString(fmt.Sprintf("  %s\n", alt.Description))
			}

			sb.WriteString(fmt.Sprintf("  Take-Home:  %s%s (%s%%)\n",
				tf.deltaSymbol(alt.TakeHomeDiffFromBase),
				output.FormatCurrency(alt.TakeHomeDiffFromBase.Abs()),
				alt.TakeHomePctFromBase.StringFixed(2)))

			if !alt.TaxDiffFromBase.IsZero() {
				// lower tax is the good direction
				sb.WriteString(fmt.Sprintf("  Tax Impact: %s%s\n",
					tf.deltaSymbol(alt.TaxDiffFromBase),
					output.FormatCurrency(alt.TaxDiffFromBase.Abs())))
			}
		}
		sb.WriteString("\n")
	}

	if len(compSet.Recommendations) > 0 {
		sb.WriteString("\nRECOMMENDATIONS\n")
		sb.WriteString(strings.Repeat("-", 96) + "\n")
		for _, rec := range compSet.Recommendations {
			sb.WriteString(fmt.Sprintf("• %s\n", rec))
		}
		sb.WriteString("\n")
	}

	return sb.String()
}

func (tf *TableFormatter) formatRow(result *ComparisonResult, nameWidth, numWidth int, isBase bool) string {
	name := result.ScenarioName
	if isBase {
		name += " (base)"
	}

	method, month := "-", "-"
	if result.BonusAmount.IsPositive() {
		method = string(result.BonusMethod)
		month = fmt.Sprintf("%d", result.PayMonth)
	}

	return fmt.Sprintf("%-*s %-9s %5s %*s %*s %*s\n",
		nameWidth, tf.truncate(name, nameWidth),
		method, month,
		numWidth, result.BonusTax.StringFixed(2),
		numWidth, result.TaxTotal.StringFixed(2),
		numWidth, result.AfterTaxTotal.StringFixed(2))
}

// deltaSymbol returns "+" or "-" for a delta, and a blank for zero
func (tf *TableFormatter) deltaSymbol(delta decimal.Decimal) string {
	if delta.IsPositive() {
		return "+"
	} else if delta.IsNegative() {
		return "-"
	}
	return " "
}

func (tf *TableFormatter) truncate(s string, maxLen int) string {
	if len(s) <= maxLen {
		return s
	}
	return s[:maxLen-3] + "..."
}

// FormatCompact creates a compact single-line summary of tax deltas
func (tf *TableFormatter) FormatCompact(compSet *ComparisonSet) string {
	var sb strings.Builder

	sb.WriteString(fmt.Sprintf("Base: %s | ", compSet.BaseScenarioName))

	for i, alt := range compSet.AlternativeResults {
		if i > 0 {
			sb.WriteString(" | ")
		}
		change := "="
		if !alt.TaxDiffFromBase.IsZero() {
			change = fmt.Sprintf("tax %s%s", tf.deltaSymbol(alt.TaxDiffFromBase), alt.TaxDiffFromBase.Abs().StringFixed(2))
		}
		sb.WriteString(fmt.Sprintf("%s: %s", alt.ScenarioName, change))
	}

	return sb.String()
}
