package breakeven

import (
	"github.com/rgehrsitz/paycalc/internal/domain"
	"github.com/shopspring/decimal"
)

// OptimizationGoal defines which income figure the gross-up must reach
type OptimizationGoal string

const (
	GoalFirstMonthNet  OptimizationGoal = "first_month_net"  // After-tax salary of month 1
	GoalAnnualTakeHome OptimizationGoal = "annual_take_home" // After-tax total of the year, bonus included
)

// Valid reports whether g is a known goal.
func (g OptimizationGoal) Valid() bool {
	return g == GoalFirstMonthNet || g == GoalAnnualTakeHome
}

// ScenarioBuilder derives the scenario to evaluate for a candidate monthly
// salary. Builders decide how contribution bases follow the salary.
type ScenarioBuilder func(salary decimal.Decimal) (domain.Scenario, error)

// OptimizationRequest defines the parameters for a gross-up run
type OptimizationRequest struct {
	BaseScenario  domain.Scenario
	Goal          OptimizationGoal
	TargetIncome  decimal.Decimal
	Builder       ScenarioBuilder // nil: salary replaced, bases follow salary
	MaxSalary     decimal.Decimal // upper end of the search; zero uses the solver default
	MaxIterations int
	Tolerance     decimal.Decimal
}

// OptimizationResult contains the results of a gross-up run
type OptimizationResult struct {
	Request         OptimizationRequest `json:"-"`
	Goal            OptimizationGoal    `json:"goal"`
	TargetIncome    decimal.Decimal     `json:"target_income"`
	Success         bool                `json:"success"`
	Iterations      int                 `json:"iterations"`
	ConvergenceInfo string              `json:"convergence_info"`

	MonthlySalary  decimal.Decimal    `json:"monthly_salary"`
	AchievedIncome decimal.Decimal    `json:"achieved_income"`
	Surplus        decimal.Decimal    `json:"surplus"`
	Scenario       domain.Scenario    `json:"scenario"`
	Result         *domain.YearResult `json:"result"`
}

// SolverOptions configures the solver algorithm
type SolverOptions struct {
	Tolerance     decimal.Decimal // Convergence width of the salary bracket
	MaxIterations int             // Maximum bisection steps
	MaxSalary     decimal.Decimal // Default upper search bound
}

// DefaultSolverOptions returns default solver configuration
func DefaultSolverOptions() SolverOptions {
	return SolverOptions{
		Tolerance:     decimal.RequireFromString("0.01"),
		MaxIterations: 100,
		MaxSalary:     decimal.NewFromInt(1000000),
	}
}

// Validate checks the request before any calculation runs
func (r *OptimizationRequest) Validate() error {
	if !r.Goal.Valid() {
		return &BreakEvenError{
			Operation: "validate_request",
			Message:   "goal must be 'first_month_net' or 'annual_take_home', got '" + string(r.Goal) + "'",
		}
	}
	if r.TargetIncome.IsNegative() {
		return &BreakEvenError{
			Operation: "validate_request",
			Message:   "target income cannot be negative",
		}
	}
	if r.MaxSalary.IsNegative() {
		return &BreakEvenError{
			Operation: "validate_request",
			Message:   "max salary cannot be negative",
		}
	}
	return nil
}

// BreakEvenError represents errors from the gross-up solver
type BreakEvenError struct {
	Operation string
	Message   string
	Cause     error
}

func (e *BreakEvenError) Error() string {
	if e.Cause != nil {
		return e.Operation + ": " + e.Message + ": " + e.Cause.Error()
	}
	return e.Operation + ": " + e.Message
}

func (e *BreakEvenError) Unwrap() error {
	return e.Cause
}
