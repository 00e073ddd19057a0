package domain

// Scenario is a named set of calculation parameters
type Scenario struct {
	Name        string                `json:"name"`
	Description string                `json:"description,omitempty"`
	Parameters  CalculationParameters `json:"parameters"`
}

// ScenarioResult pairs a scenario with its yearly result
type ScenarioResult struct {
	Scenario Scenario    `json:"scenario"`
	Result   *YearResult `json:"result"`
}

// Name returns the scenario name.
func (s ScenarioResult) Name() string {
	return s.Scenario.Name
}
