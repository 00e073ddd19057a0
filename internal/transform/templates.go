package transform

import (
	"fmt"
	"sort"
	"strings"

	"github.com/rgehrsitz/paycalc/internal/domain"
	"github.com/shopspring/decimal"
)

// TemplateRegistry manages built-in scenario templates
type TemplateRegistry struct {
	templates map[string]Template
}

// Template represents a named collection of transforms
type Template struct {
	Name        string
	Description string
	Transforms  []ScenarioTransform
}

// NewTemplateRegistry creates an empty template registry
func NewTemplateRegistry() *TemplateRegistry {
	return &TemplateRegistry{
		templates: make(map[string]Template),
	}
}

// Register adds a template to the registry
func (tr *TemplateRegistry) Register(t Template) {
	tr.templates[strings.ToLower(t.Name)] = t
}

// Get retrieves a template by name (case-insensitive)
func (tr *TemplateRegistry) Get(name string) (Template, bool) {
	t, ok := tr.templates[strings.ToLower(name)]
	return t, ok
}

// List returns all registered template names, sorted
func (tr *TemplateRegistry) List() []string {
	names := make([]string, 0, len(tr.templates))
	for name := range tr.templates {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// DefaultComparisonTemplates are the variants compared when none are named.
var DefaultComparisonTemplates = []string{"bonus_separate", "bonus_combined", "pay_january"}

// CreateBuiltInTemplates creates a template registry with the common bonus
// variants: both tax methods, every pay month and no bonus at all.
func CreateBuiltInTemplates() *TemplateRegistry {
	registry := NewTemplateRegistry()

	registry.Register(Template{
		Name:        "bonus_separate",
		Description: "Bonus taxed separately with the monthly bonus table",
		Transforms:  []ScenarioTransform{&SetBonusMethod{Method: domain.BonusSeparate}},
	})

	registry.Register(Template{
		Name:        "bonus_combined",
		Description: "Bonus merged into the pay month's cumulative withholding",
		Transforms:  []ScenarioTransform{&SetBonusMethod{Method: domain.BonusCombined}},
	})

	monthNames := []string{"january", "february", "march", "april", "may", "june",
		"july", "august", "september", "october", "november", "december"}
	for i, name := range monthNames {
		registry.Register(Template{
			Name:        "pay_" + name,
			Description: fmt.Sprintf("Bonus paid in month %d", i+1),
			Transforms:  []ScenarioTransform{&SetPayMonth{Month: i + 1}},
		})
	}

	registry.Register(Template{
		Name:        "no_bonus",
		Description: "No annual bonus",
		Transforms:  []ScenarioTransform{&SetBonusMonths{Months: decimal.Zero}},
	})

	return registry
}

// ApplyTemplate applies every transform of a template to a scenario
func ApplyTemplate(base domain.Scenario, template Template) (domain.Scenario, error) {
	return ApplyTransforms(base, template.Transforms)
}
