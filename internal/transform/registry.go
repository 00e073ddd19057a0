package transform

import (
	"fmt"
	"sort"
	"strconv"
	"strings"

	"github.com/rgehrsitz/paycalc/internal/domain"
	"github.com/shopspring/decimal"
)

// TransformRegistry provides a central registry for all available transforms.
// It enables creation of transforms from string parameters, useful for CLI commands.
type TransformRegistry struct {
	factories map[string]TransformFactory
}

// TransformFactory is a function that creates a transform from parameters.
type TransformFactory func(params map[string]string) (ScenarioTransform, error)

// NewTransformRegistry creates a new registry with all built-in transforms registered.
func NewTransformRegistry() *TransformRegistry {
	registry := &TransformRegistry{
		factories: make(map[string]TransformFactory),
	}

	registry.Register("set_bonus_method", createSetBonusMethod)
	registry.Register("set_pay_month", createSetPayMonth)
	registry.Register("set_bonus_months", createSetBonusMonths)
	registry.Register("set_monthly_salary", createSetMonthlySalary)

	return registry
}

// Register adds a transform factory to the registry.
func (r *TransformRegistry) Register(name string, factory TransformFactory) {
	r.factories[name] = factory
}

// Create creates a transform by name with the given parameters.
func (r *TransformRegistry) Create(name string, params map[string]string) (ScenarioTransform, error) {
	factory, exists := r.factories[name]
	if !exists {
		return nil, fmt.Errorf("unknown transform: %s", name)
	}

	return factory(params)
}

// List returns the names of all registered transforms, sorted.
func (r *TransformRegistry) List() []string {
	names := make([]string, 0, len(r.factories))
	for name := range r.factories {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// ParseTransformSpec parses a transform specification string.
// Format: "transform_name:param1=value1,param2=value2"
// Example: "set_pay_month:month=6"
func (r *TransformRegistry) ParseTransformSpec(spec string) (ScenarioTransform, error) {
	parts := strings.SplitN(spec, ":", 2)
	if len(parts) != 2 {
		return nil, fmt.Errorf("invalid transform spec format, expected 'name:params', got: %s", spec)
	}

	name := strings.TrimSpace(parts[0])
	paramsStr := strings.TrimSpace(parts[1])

	params := make(map[string]string)
	if paramsStr != "" {
		for _, paramPair := range strings.Split(paramsStr, ",") {
			kv := strings.SplitN(paramPair, "=", 2)
			if len(kv) != 2 {
				return nil, fmt.Errorf("invalid parameter format, expected 'key=value', got: %s", paramPair)
			}
			params[strings.TrimSpace(kv[0])] = strings.TrimSpace(kv[1])
		}
	}

	return r.Create(name, params)
}

func createSetBonusMethod(params map[string]string) (ScenarioTransform, error) {
	method, ok := params["method"]
	if !ok {
		return nil, fmt.Errorf("set_bonus_method requires 'method' parameter")
	}
	return &SetBonusMethod{Method: domain.BonusMethod(method)}, nil
}

func createSetPayMonth(params map[string]string) (ScenarioTransform, error) {
	monthStr, ok := params["month"]
	if !ok {
		return nil, fmt.Errorf("set_pay_month requires 'month' parameter")
	}
	month, err := strconv.Atoi(monthStr)
	if err != nil {
		return nil, fmt.Errorf("invalid month value: %w", err)
	}
	return &SetPayMonth{Month: month}, nil
}

func createSetBonusMonths(params map[string]string) (ScenarioTransform, error) {
	monthsStr, ok := params["months"]
	if !ok {
		return nil, fmt.Errorf("set_bonus_months requires 'months' parameter")
	}
	months, err := decimal.NewFromString(monthsStr)
	if err != nil {
		return nil, fmt.Errorf("invalid months value: %w", err)
	}
	return &SetBonusMonths{Months: months}, nil
}

func createSetMonthlySalary(params map[string]string) (ScenarioTransform, error) {
	salaryStr, ok := params["salary"]
	if !ok {
		return nil, fmt.Errorf("set_monthly_salary requires 'salary' parameter")
	}
	salary, err := decimal.NewFromString(salaryStr)
	if err != nil {
		return nil, fmt.Errorf("invalid salary value: %w", err)
	}

	follow := false
	if v, ok := params["bases_follow_salary"]; ok {
		follow, err = strconv.ParseBool(v)
		if err != nil {
			return nil, fmt.Errorf("invalid bases_follow_salary value: %w", err)
		}
	}
	return &SetMonthlySalary{Salary: salary, BasesFollowSalary: follow}, nil
}
