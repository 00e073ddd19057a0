package breakeven

import (
	"context"
	"fmt"

	"github.com/rgehrsitz/paycalc/internal/calculation"
	"github.com/rgehrsitz/paycalc/internal/domain"
	"github.com/rgehrsitz/paycalc/internal/output"
	"github.com/rgehrsitz/paycalc/internal/transform"
	"github.com/shopspring/decimal"
)

var two = decimal.NewFromInt(2)

// Solver finds the gross monthly salary that yields a target net income
type Solver struct {
	CalcEngine *calculation.CalculationEngine
	Options    SolverOptions
}

// NewSolver creates a new gross-up solver
func NewSolver(calcEngine *calculation.CalculationEngine, options SolverOptions) *Solver {
	return &Solver{
		CalcEngine: calcEngine,
		Options:    options,
	}
}

// NewDefaultSolver creates a solver with default options
func NewDefaultSolver(calcEngine *calculation.CalculationEngine) *Solver {
	return NewSolver(calcEngine, DefaultSolverOptions())
}

// Optimize bisects on the monthly salary until the goal income reaches the
// target. The answer is rounded up to the fen.
//
// First-month net income rises strictly with salary. Annual take-home can dip
// where a separately taxed bonus crosses a bracket, so for that goal the
// returned salary meets the target but need not be the smallest that does.
func (s *Solver) Optimize(ctx context.Context, req OptimizationRequest) (*OptimizationResult, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}

	if req.MaxIterations == 0 {
		req.MaxIterations = s.Options.MaxIterations
	}
	if req.Tolerance.IsZero() {
		req.Tolerance = s.Options.Tolerance
	}
	if req.MaxSalary.IsZero() {
		req.MaxSalary = s.Options.MaxSalary
	}
	if req.Builder == nil {
		req.Builder = SalaryBuilder(req.BaseScenario)
	}

	lo, hi := decimal.Zero, req.MaxSalary

	low, err := s.evaluate(ctx, req, lo)
	if err != nil {
		return nil, err
	}
	if low.AchievedIncome.GreaterThanOrEqual(req.TargetIncome) {
		low.Success = true
		low.ConvergenceInfo = "Target met at zero salary"
		return low, nil
	}

	high, err := s.evaluate(ctx, req, hi)
	if err != nil {
		return nil, err
	}
	if high.AchievedIncome.LessThan(req.TargetIncome) {
		return nil, &BreakEvenError{
			Operation: "gross_up",
			Message: fmt.Sprintf("target %s is not reachable below a monthly salary of %s",
				req.TargetIncome.StringFixed(2), req.MaxSalary.StringFixed(2)),
		}
	}

	iterations := 0
	for iterations < req.MaxIterations && hi.Sub(lo).GreaterThan(req.Tolerance) {
		iterations++

		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		default:
		}

		mid := lo.Add(hi).Div(two)
		probe, err := s.evaluate(ctx, req, mid)
		if err != nil {
			return nil, err
		}
		if probe.AchievedIncome.GreaterThanOrEqual(req.TargetIncome) {
			hi = mid
		} else {
			lo = mid
		}
	}

	salary := hi.Shift(2).Ceil().Shift(-2)
	result, err := s.evaluate(ctx, req, salary)
	if err != nil {
		return nil, err
	}
	result.Iterations = iterations
	result.Success = result.AchievedIncome.GreaterThanOrEqual(req.TargetIncome)

	converged := hi.Sub(lo).LessThanOrEqual(req.Tolerance)
	switch {
	case converged && result.Success:
		result.ConvergenceInfo = fmt.Sprintf("Converged within %s after %d iterations", req.Tolerance.String(), iterations)
	case converged:
		result.ConvergenceInfo = "Converged, but rounding to the fen crossed a bonus tax cliff"
	default:
		result.ConvergenceInfo = fmt.Sprintf("Max iterations (%d) reached", req.MaxIterations)
	}

	s.CalcEngine.Logger.Debugf("gross-up %s: salary %s gives %s for target %s",
		req.Goal, result.MonthlySalary.StringFixed(2), result.AchievedIncome.StringFixed(2), req.TargetIncome.StringFixed(2))

	return result, nil
}

// OptimizeTargets solves several targets against the same base scenario
func (s *Solver) OptimizeTargets(ctx context.Context, req OptimizationRequest, targets []decimal.Decimal) ([]OptimizationResult, error) {
	results := make([]OptimizationResult, 0, len(targets))
	for _, target := range targets {
		r := req
		r.TargetIncome = target
		res, err := s.Optimize(ctx, r)
		if err != nil {
			return nil, fmt.Errorf("target %s: %w", output.FormatCurrency(target), err)
		}
		results = append(results, *res)
	}
	return results, nil
}

func (s *Solver) evaluate(ctx context.Context, req OptimizationRequest, salary decimal.Decimal) (*OptimizationResult, error) {
	scenario, err := req.Builder(salary)
	if err != nil {
		return nil, &BreakEvenError{
			Operation: "gross_up",
			Message:   "failed to build scenario for salary " + salary.StringFixed(2),
			Cause:     err,
		}
	}

	year, err := s.CalcEngine.Run(ctx, scenario.Parameters)
	if err != nil {
		return nil, &BreakEvenError{
			Operation: "gross_up",
			Message:   "failed to calculate scenario",
			Cause:     err,
		}
	}

	achieved := goalIncome(req.Goal, year)
	return &OptimizationResult{
		Request:        req,
		Goal:           req.Goal,
		TargetIncome:   req.TargetIncome,
		MonthlySalary:  salary,
		AchievedIncome: achieved,
		Surplus:        achieved.Sub(req.TargetIncome),
		Scenario:       scenario,
		Result:         year,
	}, nil
}

func goalIncome(goal OptimizationGoal, year *domain.YearResult) decimal.Decimal {
	if goal == GoalAnnualTakeHome {
		return year.AfterTaxTotal
	}
	return year.Months[0].AfterTaxSalary
}

// SalaryBuilder replaces the base scenario's salary and sets both contribution
// bases to it.
func SalaryBuilder(base domain.Scenario) ScenarioBuilder {
	return func(salary decimal.Decimal) (domain.Scenario, error) {
		return transform.ApplyTransforms(base, []transform.ScenarioTransform{
			&transform.SetMonthlySalary{Salary: salary, BasesFollowSalary: true},
		})
	}
}
