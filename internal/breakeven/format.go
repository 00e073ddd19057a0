package breakeven

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/rgehrsitz/paycalc/internal/output"
)

// TableFormatter formats gross-up results for the console
type TableFormatter struct{}

// Format generates a report for one gross-up result
func (tf *TableFormatter) Format(result *OptimizationResult) string {
	var sb strings.Builder

	sb.WriteString("GROSS-UP RESULT\n")
	sb.WriteString(strings.Repeat("=", 64) + "\n")
	sb.WriteString(fmt.Sprintf("Goal:           %s\n", tf.goalLabel(result.Goal)))
	sb.WriteString(fmt.Sprintf("Target:         %s\n", output.FormatCurrency(result.TargetIncome)))
	sb.WriteString(fmt.Sprintf("Status:         %s\n", tf.formatStatus(result.Success)))
	sb.WriteString(fmt.Sprintf("Iterations:     %d\n", result.Iterations))
	if result.ConvergenceInfo != "" {
		sb.WriteString(fmt.Sprintf("Convergence:    %s\n", result.ConvergenceInfo))
	}
	sb.WriteString("\n")

	sb.WriteString("REQUIRED SALARY\n")
	sb.WriteString(strings.Repeat("-", 64) + "\n")
	sb.WriteString(fmt.Sprintf("Monthly salary: %s\n", output.FormatCurrency(result.MonthlySalary)))
	sb.WriteString(fmt.Sprintf("Achieved:       %s\n", output.FormatCurrency(result.AchievedIncome)))
	sb.WriteString(fmt.Sprintf("Surplus:        %s\n", output.FormatCurrency(result.Surplus)))

	if result.Result != nil {
		first := result.Result.Months[0]
		sb.WriteString("\nFIRST MONTH\n")
		sb.WriteString(strings.Repeat("-", 64) + "\n")
		sb.WriteString(fmt.Sprintf("Social insurance: %s\n", output.FormatCurrency(first.SocialInsuranceDeducted)))
		sb.WriteString(fmt.Sprintf("Housing fund:     %s\n", output.FormatCurrency(first.HousingFundDeducted)))
		sb.WriteString(fmt.Sprintf("Income tax:       %s\n", output.FormatCurrency(first.Tax)))
		sb.WriteString(fmt.Sprintf("After-tax:        %s\n", output.FormatCurrency(first.AfterTaxSalary)))
		sb.WriteString(fmt.Sprintf("\nAnnual tax %s, annual take-home %s\n",
			output.FormatCurrency(result.Result.TaxTotal), output.FormatCurrency(result.Result.AfterTaxTotal)))
	}

	return sb.String()
}

// FormatLadder renders one line per solved target
func (tf *TableFormatter) FormatLadder(results []OptimizationResult) string {
	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("%-20s %20s %20s\n", "Target", "Monthly Salary", "Achieved"))
	sb.WriteString(strings.Repeat("-", 62) + "\n")
	for _, r := range results {
		sb.WriteString(fmt.Sprintf("%-20s %20s %20s\n",
			r.TargetIncome.StringFixed(2), r.MonthlySalary.StringFixed(2), r.AchievedIncome.StringFixed(2)))
	}
	return sb.String()
}

func (tf *TableFormatter) formatStatus(success bool) string {
	if success {
		return "✓ target met"
	}
	return "✗ target not met"
}

func (tf *TableFormatter) goalLabel(goal OptimizationGoal) string {
	switch goal {
	case GoalAnnualTakeHome:
		return "annual take-home"
	case GoalFirstMonthNet:
		return "first-month after-tax salary"
	default:
		return string(goal)
	}
}

// JSONFormatter formats gross-up results as JSON
type JSONFormatter struct {
	Pretty bool
}

// Format generates JSON for one result
func (jf *JSONFormatter) Format(result *OptimizationResult) (string, error) {
	return jf.marshal(result)
}

// FormatLadder generates JSON for several results
func (jf *JSONFormatter) FormatLadder(results []OptimizationResult) (string, error) {
	return jf.marshal(results)
}

func (jf *JSONFormatter) marshal(v any) (string, error) {
	var data []byte
	var err error
	if jf.Pretty {
		data, err = json.MarshalIndent(v, "", "  ")
	} else {
		data, err = json.Marshal(v)
	}
	if err != nil {
		return "", err
	}
	return string(data), nil
}
