package compare

import (
	"encoding/json"
	"fmt"
)

// Formats accepted by Render
const (
	FormatTable = "table"
	FormatCSV   = "csv"
	FormatJSON  = "json"
)

// JSONFormatter formats comparison results as JSON
type JSONFormatter struct {
	Pretty bool // If true, format with indentation
}

// Format generates JSON output for comparison results
func (jf *JSONFormatter) Format(compSet *ComparisonSet) (string, error) {
	var data []byte
	var err error

	if jf.Pretty {
		data, err = json.MarshalIndent(compSet, "", "  ")
	} else {
		data, err = json.Marshal(compSet)
	}
	if err != nil {
		return "", err
	}
	return string(data), nil
}

// Render formats a comparison set as table, csv or json
func Render(compSet *ComparisonSet, format string) (string, error) {
	switch format {
	case FormatTable, "", "console":
		return (&TableFormatter{}).Format(compSet), nil
	case FormatCSV:
		return (&CSVFormatter{}).Format(compSet)
	case FormatJSON:
		return (&JSONFormatter{Pretty: true}).Format(compSet)
	default:
		return "", fmt.Errorf("unsupported comparison format: %s", format)
	}
}
