package output

import (
	"encoding/json"

	"github.com/rgehrsitz/paycalc/internal/domain"
)

// JSONFormatter writes the full results, including every month
type JSONFormatter struct {
	Pretty bool
}

func (JSONFormatter) Name() string { return "json" }

func (jf JSONFormatter) Format(results []domain.ScenarioResult) ([]byte, error) {
	if results == nil {
		results = []domain.ScenarioResult{}
	}
	if jf.Pretty {
		return json.MarshalIndent(results, "", "  ")
	}
	return json.Marshal(results)
}
