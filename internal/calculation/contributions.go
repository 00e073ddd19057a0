package calculation

import (
	"github.com/rgehrsitz/paycalc/internal/domain"
	"github.com/shopspring/decimal"
)

// ComputeSocialInsurance splits a contribution base into personal and employer
// social insurance. Base clamping to city limits is the caller's job.
func ComputeSocialInsurance(rates domain.ContributionRates, base decimal.Decimal) domain.SocialInsurance {
	personal := domain.PersonalContributions{
		Pension:      base.Mul(rates.Pension.Personal),
		Medical:      base.Mul(rates.Medical.Personal),
		Unemployment: base.Mul(rates.Unemployment.Personal),
	}
	personal.Total = personal.Pension.Add(personal.Medical).Add(personal.Unemployment)

	employer := domain.EmployerContributions{
		Pension:      base.Mul(rates.Pension.Employer),
		Medical:      base.Mul(rates.Medical.Employer),
		Unemployment: base.Mul(rates.Unemployment.Employer),
		WorkInjury:   base.Mul(rates.WorkInjury.Employer),
		Maternity:    base.Mul(rates.Maternity.Employer),
	}
	employer.Total = employer.Pension.
		Add(employer.Medical).
		Add(employer.Unemployment).
		Add(employer.WorkInjury).
		Add(employer.Maternity)

	return domain.SocialInsurance{Personal: personal, Employer: employer}
}

// ComputeHousingFund returns the symmetric housing fund contribution
func ComputeHousingFund(base, rate decimal.Decimal) domain.HousingFund {
	amount := base.Mul(rate)
	return domain.HousingFund{Personal: amount, Employer: amount}
}
