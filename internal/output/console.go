package output

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
	"github.com/rgehrsitz/paycalc/internal/domain"
	"github.com/samber/lo"
)

var (
	titleStyle   = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("63"))
	sectionStyle = lipgloss.NewStyle().Bold(true).Underline(true)
	mutedStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("245"))
	headerStyle  = lipgloss.NewStyle().Bold(true).Padding(0, 1)
	cellStyle    = lipgloss.NewStyle().Padding(0, 1).Align(lipgloss.Right)
	labelStyle   = lipgloss.NewStyle().Padding(0, 1)
	bonusStyle   = cellStyle.Foreground(lipgloss.Color("42"))
)

// ConsoleFormatter renders a human-readable report with styled tables
type ConsoleFormatter struct{}

func (ConsoleFormatter) Name() string { return "console" }

func (ConsoleFormatter) Format(results []domain.ScenarioResult) ([]byte, error) {
	if len(results) == 0 {
		return []byte("No scenarios to report.\n"), nil
	}

	var sb strings.Builder
	sb.WriteString(titleStyle.Render("PAYROLL TAX REPORT") + "\n")
	sb.WriteString(strings.Repeat("=", 72) + "\n\n")

	for i, sr := range results {
		if sr.Result == nil {
			return nil, fmt.Errorf("scenario %q has no result", sr.Name())
		}
		if i > 0 {
			sb.WriteString("\n" + strings.Repeat("-", 72) + "\n\n")
		}
		writeScenario(&sb, sr)
	}
	return []byte(sb.String()), nil
}

func writeScenario(sb *strings.Builder, sr domain.ScenarioResult) {
	p := sr.Scenario.Parameters
	res := sr.Result

	sb.WriteString(titleStyle.Render("SCENARIO: "+sr.Name()) + "\n")
	if sr.Scenario.Description != "" {
		sb.WriteString(mutedStyle.Render(sr.Scenario.Description) + "\n")
	}
	sb.WriteString("\n")

	fmt.Fprintf(sb, "Monthly salary:          %s\n", FormatCurrency(p.MonthlySalary))
	fmt.Fprintf(sb, "Social insurance base:   %s\n", FormatCurrency(p.SocialInsuranceBase))
	fmt.Fprintf(sb, "Housing fund base/rate:  %s @ %s\n", FormatCurrency(p.HousingFundBase), FormatPercentage(p.HousingFundRate))
	fmt.Fprintf(sb, "Special deductions:      %s\n", FormatCurrency(p.SpecialDeductions))
	if p.Bonus.Active() {
		fmt.Fprintf(sb, "Bonus:                   %s months, paid in month %d (%s)\n", p.Bonus.Months, p.Bonus.PayMonth, p.Bonus.Method)
	}
	sb.WriteString("\n")

	sb.WriteString(sectionStyle.Render("MONTHLY CONTRIBUTIONS") + "\n")
	sb.WriteString(contributionsTable(res) + "\n\n")

	sb.WriteString(sectionStyle.Render("MONTHLY BREAKDOWN") + "\n")
	sb.WriteString(monthlyTable(res) + "\n\n")

	sb.WriteString(sectionStyle.Render("ANNUAL TOTALS") + "\n")
	fmt.Fprintf(sb, "Pre-tax income:          %s\n", FormatCurrency(res.PreTaxTotal))
	fmt.Fprintf(sb, "Social insurance:        %s\n", FormatCurrency(res.SocialInsuranceTotal))
	fmt.Fprintf(sb, "Housing fund:            %s\n", FormatCurrency(res.HousingFundTotal))
	fmt.Fprintf(sb, "Income tax:              %s\n", FormatCurrency(res.TaxTotal))
	fmt.Fprintf(sb, "After-tax income:        %s\n", FormatCurrency(res.AfterTaxTotal))
}

func contributionsTable(res *domain.YearResult) string {
	si := res.SocialInsurance
	rows := [][]string{
		{"Pension", FormatAmount(si.Personal.Pension), FormatAmount(si.Employer.Pension)},
		{"Medical", FormatAmount(si.Personal.Medical), FormatAmount(si.Employer.Medical)},
		{"Unemployment", FormatAmount(si.Personal.Unemployment), FormatAmount(si.Employer.Unemployment)},
		{"Work injury", "-", FormatAmount(si.Employer.WorkInjury)},
		{"Maternity", "-", FormatAmount(si.Employer.Maternity)},
		{"Social insurance total", FormatAmount(si.Personal.Total), FormatAmount(si.Employer.Total)},
		{"Housing fund", FormatAmount(res.HousingFund.Personal), FormatAmount(res.HousingFund.Employer)},
	}

	return table.New().
		Border(lipgloss.NormalBorder()).
		Headers("Item", "Personal", "Employer").
		Rows(rows...).
		StyleFunc(func(row, col int) lipgloss.Style {
			switch {
			case row == table.HeaderRow:
				return headerStyle
			case col == 0:
				return labelStyle
			default:
				return cellStyle
			}
		}).
		Render()
}

func monthlyTable(res *domain.YearResult) string {
	rows := lo.Map(res.Months[:], func(m domain.MonthResult, _ int) []string {
		bonus, bonusTax := "", ""
		if m.HasBonus() {
			bonus = FormatAmount(*m.Bonus)
			bonusTax = FormatAmount(*m.BonusTax)
		}
		return []string{
			strconv.Itoa(m.Month),
			FormatAmount(m.PreTaxSalary),
			FormatAmount(m.SocialInsuranceDeducted),
			FormatAmount(m.HousingFundDeducted),
			FormatAmount(m.Tax),
			FormatAmount(m.AfterTaxSalary),
			bonus,
			bonusTax,
		}
	})

	return table.New().
		Border(lipgloss.NormalBorder()).
		Headers("Month", "Pre-tax", "Social ins.", "Housing fund", "Tax", "After-tax", "Bonus", "Bonus tax").
		Rows(rows...).
		StyleFunc(func(row, col int) lipgloss.Style {
			switch {
			case row == table.HeaderRow:
				return headerStyle
			case col >= 6:
				return bonusStyle
			default:
				return cellStyle
			}
		}).
		Render()
}
