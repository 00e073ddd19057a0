package output

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
	"github.com/rgehrsitz/paycalc/internal/domain"
	"github.com/samber/lo"
)

// FormatRates renders the active rate set as console tables
func FormatRates(rates *domain.RateSet) string {
	var sb strings.Builder

	sb.WriteString(titleStyle.Render(fmt.Sprintf("TAX AND CONTRIBUTION RATES (%d)", rates.Metadata.TaxYear)) + "\n")
	if rates.Metadata.Description != "" {
		sb.WriteString(mutedStyle.Render(rates.Metadata.Description) + "\n")
	}
	fmt.Fprintf(&sb, "\nBasic deduction: %s per month\n\n", FormatCurrency(rates.BasicDeduction))

	sb.WriteString(sectionStyle.Render("ORDINARY INCOME (cumulative annual table)") + "\n")
	sb.WriteString(bracketTable(rates.OrdinaryBrackets) + "\n\n")

	sb.WriteString(sectionStyle.Render("SEPARATELY TAXED BONUS (monthly table)") + "\n")
	sb.WriteString(bracketTable(rates.BonusBrackets) + "\n\n")

	si := rates.SocialInsurance
	sb.WriteString(sectionStyle.Render("SOCIAL INSURANCE") + "\n")
	sb.WriteString(simpleTable([]string{"Item", "Personal", "Employer"}, [][]string{
		{"Pension", FormatPercentage(si.Pension.Personal), FormatPercentage(si.Pension.Employer)},
		{"Medical", FormatPercentage(si.Medical.Personal), FormatPercentage(si.Medical.Employer)},
		{"Unemployment", FormatPercentage(si.Unemployment.Personal), FormatPercentage(si.Unemployment.Employer)},
		{"Work injury", FormatPercentage(si.WorkInjury.Personal), FormatPercentage(si.WorkInjury.Employer)},
		{"Maternity", FormatPercentage(si.Maternity.Personal), FormatPercentage(si.Maternity.Employer)},
	}) + "\n\n")

	hf := rates.HousingFund
	fmt.Fprintf(&sb, "%s\nRate range %s to %s, default %s\n\n",
		sectionStyle.Render("HOUSING FUND"),
		FormatPercentage(hf.MinRate), FormatPercentage(hf.MaxRate), FormatPercentage(hf.DefaultRate))

	sb.WriteString(sectionStyle.Render("SPECIAL DEDUCTIONS (monthly caps)") + "\n")
	sb.WriteString(simpleTable([]string{"ID", "Name", "Max"}, lo.Map(rates.SpecialDeductions, func(item domain.SpecialDeductionItem, _ int) []string {
		return []string{item.ID, item.Name, FormatAmount(item.MaxAmount)}
	})) + "\n")

	return sb.String()
}

func bracketTable(brackets domain.BracketTable) string {
	rows := lo.Map(brackets, func(b domain.TaxBracket, _ int) []string {
		return []string{FormatAmount(b.Threshold), FormatPercentage(b.Rate), FormatAmount(b.QuickDeduction)}
	})
	return simpleTable([]string{"Above", "Rate", "Quick deduction"}, rows)
}

func simpleTable(headers []string, rows [][]string) string {
	return table.New().
		Border(lipgloss.NormalBorder()).
		Headers(headers...).
		Rows(rows...).
		StyleFunc(func(row, col int) lipgloss.Style {
			if row == table.HeaderRow {
				return headerStyle
			}
			return labelStyle
		}).
		Render()
}
