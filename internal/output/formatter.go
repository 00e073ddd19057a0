package output

import (
	"fmt"
	"os"
	"sort"
	"strings"
	"time"

	"github.com/rgehrsitz/paycalc/internal/domain"
)

// Formatter renders scenario results into a byte slice
type Formatter interface {
	Name() string
	Format(results []domain.ScenarioResult) ([]byte, error)
}

// FormatterFunc adapts a plain function to the Formatter interface
type FormatterFunc struct {
	ID string
	F  func(results []domain.ScenarioResult) ([]byte, error)
}

func (f FormatterFunc) Name() string { return f.ID }

func (f FormatterFunc) Format(results []domain.ScenarioResult) ([]byte, error) {
	return f.F(results)
}

var formatters = map[string]Formatter{}

// aliases map alternate user-facing names onto registered formatters
var aliases = map[string]string{
	"table":   "console",
	"text":    "console",
	"monthly": "csv",
	"summary": "summary-csv",
}

func register(f Formatter) {
	formatters[f.Name()] = f
}

func init() {
	register(ConsoleFormatter{})
	register(JSONFormatter{Pretty: true})
	register(CSVFormatter{})
	register(SummaryCSVFormatter{})
}

// GetFormatterByName returns the formatter registered under name or alias,
// or nil when there is none.
func GetFormatterByName(name string) Formatter {
	key := strings.ToLower(strings.TrimSpace(name))
	if target, ok := aliases[key]; ok {
		key = target
	}
	return formatters[key]
}

// AvailableFormatterNames returns the registered formatter names, sorted
func AvailableFormatterNames() []string {
	names := make([]string, 0, len(formatters))
	for name := range formatters {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// AvailableFormatAliases returns the accepted aliases, sorted
func AvailableFormatAliases() []string {
	names := make([]string, 0, len(aliases))
	for name := range aliases {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// WriteFormatted formats results and writes them to a timestamped file in
// the working directory. It returns the file name.
func WriteFormatted(f Formatter, results []domain.ScenarioResult, ext string) (string, error) {
	data, err := f.Format(results)
	if err != nil {
		return "", err
	}

	filename := fmt.Sprintf("payroll_report_%s.%s", time.Now().Format("20060102_150405"), ext)
	if err := os.WriteFile(filename, data, 0644); err != nil {
		return "", fmt.Errorf("failed to write %s: %w", filename, err)
	}
	return filename, nil
}
