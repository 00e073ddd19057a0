package output

import (
	"bytes"
	"encoding/csv"
	"sort"
	"strconv"

	"github.com/rgehrsitz/paycalc/internal/domain"
)

// CSVFormatter writes one row per scenario and month
type CSVFormatter struct{}

func (CSVFormatter) Name() string { return "csv" }

func (CSVFormatter) Format(results []domain.ScenarioResult) ([]byte, error) {
	buf := &bytes.Buffer{}
	w := csv.NewWriter(buf)
	header := []string{"Scenario", "Month", "PreTaxSalary", "SocialInsurance", "HousingFund", "Tax", "AfterTaxSalary", "Bonus", "BonusTax"}
	if err := w.Write(header); err != nil {
		return nil, err
	}
	for _, sr := range results {
		if sr.Result == nil {
			continue
		}
		for _, m := range sr.Result.Months {
			bonus, bonusTax := "", ""
			if m.HasBonus() {
				bonus = m.Bonus.StringFixed(2)
				bonusTax = m.BonusTax.StringFixed(2)
			}
			row := []string{
				sr.Name(),
				strconv.Itoa(m.Month),
				m.PreTaxSalary.StringFixed(2),
				m.SocialInsuranceDeducted.StringFixed(2),
				m.HousingFundDeducted.StringFixed(2),
				m.Tax.StringFixed(2),
				m.AfterTaxSalary.StringFixed(2),
				bonus,
				bonusTax,
			}
			if err := w.Write(row); err != nil {
				return nil, err
			}
		}
	}
	w.Flush()
	return buf.Bytes(), w.Error()
}

// SummaryCSVFormatter writes one row of annual totals per scenario, sorted by name
type SummaryCSVFormatter struct{}

func (SummaryCSVFormatter) Name() string { return "summary-csv" }

func (SummaryCSVFormatter) Format(results []domain.ScenarioResult) ([]byte, error) {
	buf := &bytes.Buffer{}
	w := csv.NewWriter(buf)
	header := []string{"Scenario", "PreTaxTotal", "SocialInsuranceTotal", "HousingFundTotal", "TaxTotal", "AfterTaxTotal", "EmployerSocialInsuranceMonthly", "EmployerHousingFundMonthly"}
	if err := w.Write(header); err != nil {
		return nil, err
	}
	sorted := append([]domain.ScenarioResult(nil), results...)
	sort.SliceStable(sorted, func(i, j int) bool { return sorted[i].Name() < sorted[j].Name() })
	for _, sr := range sorted {
		if sr.Result == nil {
			continue
		}
		res := sr.Result
		row := []string{
			sr.Name(),
			res.PreTaxTotal.StringFixed(2),
			res.SocialInsuranceTotal.StringFixed(2),
			res.HousingFundTotal.StringFixed(2),
			res.TaxTotal.StringFixed(2),
			res.AfterTaxTotal.StringFixed(2),
			res.SocialInsurance.Employer.Total.StringFixed(2),
			res.HousingFund.Employer.StringFixed(2),
		}
		if err := w.Write(row); err != nil {
			return nil, err
		}
	}
	w.Flush()
	return buf.Bytes(), w.Error()
}
