package main

import (
	"fmt"

	"github.com/rgehrsitz/paycalc/internal/breakeven"
	"github.com/rgehrsitz/paycalc/internal/config"
	"github.com/rgehrsitz/paycalc/internal/domain"
	"github.com/shopspring/decimal"
	"github.com/spf13/cobra"
)

func grossUpCmd(a *app) *cobra.Command {
	var (
		targets      []string
		annual       bool
		inputFile    string
		scenarioName string
		housingRate  string
		bonusMonths  string
		maxSalary    string
		format       string
	)

	cmd := &cobra.Command{
		Use:   "gross-up",
		Short: "Find the monthly salary that yields a target net income",
		Long: `Gross-up searches for the smallest monthly salary whose first-month after-tax
salary reaches the target. With --annual the target is the annual take-home,
bonus included.

Without --input, both contribution bases follow the salary. With --input the
named scenario is re-resolved for every candidate salary, so its base limits and
custom bases apply.`,
		Example: `  paycalc gross-up --target 8000
  paycalc gross-up --target 8000 --target 10000 --target 15000
  paycalc gross-up --target 150000 --annual --input scenarios.yaml --scenario Beijing`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			amounts := make([]decimal.Decimal, 0, len(targets))
			for _, t := range targets {
				v, err := decimal.NewFromString(t)
				if err != nil {
					return fmt.Errorf("invalid target %q: %w", t, err)
				}
				amounts = append(amounts, v)
			}

			req := breakeven.OptimizationRequest{Goal: breakeven.GoalFirstMonthNet}
			if annual {
				req.Goal = breakeven.GoalAnnualTakeHome
			}
			if maxSalary != "" {
				v, err := decimal.NewFromString(maxSalary)
				if err != nil {
					return fmt.Errorf("invalid max salary %q: %w", maxSalary, err)
				}
				req.MaxSalary = v
			}

			if inputFile != "" {
				builder, base, err := scenarioBuilder(a, inputFile, scenarioName)
				if err != nil {
					return err
				}
				req.Builder = builder
				req.BaseScenario = base
			} else {
				base, err := defaultGrossUpScenario(a.rates, housingRate, bonusMonths)
				if err != nil {
					return err
				}
				req.BaseScenario = base
			}

			solver := breakeven.NewDefaultSolver(a.engine)
			out := cmd.OutOrStdout()

			if len(amounts) == 1 {
				req.TargetIncome = amounts[0]
				result, err := solver.Optimize(cmd.Context(), req)
				if err != nil {
					return err
				}
				if format == "json" {
					js, err := (&breakeven.JSONFormatter{Pretty: true}).Format(result)
					if err != nil {
						return err
					}
					fmt.Fprintln(out, js)
					return nil
				}
				fmt.Fprint(out, (&breakeven.TableFormatter{}).Format(result))
				return nil
			}

			results, err := solver.OptimizeTargets(cmd.Context(), req, amounts)
			if err != nil {
				return err
			}
			if format == "json" {
				js, err := (&breakeven.JSONFormatter{Pretty: true}).FormatLadder(results)
				if err != nil {
					return err
				}
				fmt.Fprintln(out, js)
				return nil
			}
			fmt.Fprint(out, (&breakeven.TableFormatter{}).FormatLadder(results))
			return nil
		},
	}

	cmd.Flags().StringArrayVar(&targets, "target", nil, "Target net income (repeatable)")
	cmd.Flags().BoolVar(&annual, "annual", false, "Target annual take-home instead of first-month after-tax salary")
	cmd.Flags().StringVar(&inputFile, "input", "", "Scenario file to take bases, deductions and bonus from")
	cmd.Flags().StringVar(&scenarioName, "scenario", "", "Scenario name within --input")
	cmd.Flags().StringVar(&housingRate, "housing-rate", "", "Housing fund rate in percent without --input (default: policy default)")
	cmd.Flags().StringVar(&bonusMonths, "bonus-months", "0", "Bonus in months of salary without --input")
	cmd.Flags().StringVar(&maxSalary, "max-salary", "", "Upper end of the salary search")
	cmd.Flags().StringVarP(&format, "format", "f", "table", "Output format (table, json)")
	_ = cmd.MarkFlagRequired("target")
	return cmd
}

func scenarioBuilder(a *app, inputFile, name string) (breakeven.ScenarioBuilder, domain.Scenario, error) {
	input, err := config.LoadInputFile(inputFile)
	if err != nil {
		return nil, domain.Scenario{}, err
	}

	var si config.ScenarioInput
	switch {
	case name != "":
		var ok bool
		if si, ok = input.Find(name); !ok {
			return nil, domain.Scenario{}, fmt.Errorf("scenario %q not found in %s", name, inputFile)
		}
	case len(input.Scenarios) == 1:
		si = input.Scenarios[0]
	default:
		return nil, domain.Scenario{}, fmt.Errorf("--scenario is required when %s has %d scenarios", inputFile, len(input.Scenarios))
	}

	build := config.NewInputParser(a.rates).SalaryVariant(si)
	base, err := build(si.MonthlySalary)
	if err != nil {
		return nil, domain.Scenario{}, err
	}
	return build, base, nil
}

func defaultGrossUpScenario(rates *domain.RateSet, housingRate, bonusMonths string) (domain.Scenario, error) {
	rate := rates.HousingFund.DefaultRate
	if housingRate != "" {
		pct, err := decimal.NewFromString(housingRate)
		if err != nil {
			return domain.Scenario{}, fmt.Errorf("invalid housing rate %q: %w", housingRate, err)
		}
		rate = rates.HousingFund.Clamp(pct.Shift(-2))
	}
	months, err := decimal.NewFromString(bonusMonths)
	if err != nil {
		return domain.Scenario{}, fmt.Errorf("invalid bonus months %q: %w", bonusMonths, err)
	}

	return domain.Scenario{
		Name: "gross-up",
		Parameters: domain.CalculationParameters{
			HousingFundRate: rate,
			Bonus:           domain.BonusSpec{Months: months, PayMonth: 12, Method: domain.BonusSeparate},
		},
	}, nil
}
