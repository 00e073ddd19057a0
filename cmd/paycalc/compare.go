package main

import (
	"fmt"
	"strings"

	"github.com/rgehrsitz/paycalc/internal/compare"
	"github.com/rgehrsitz/paycalc/internal/config"
	"github.com/rgehrsitz/paycalc/internal/domain"
	"github.com/rgehrsitz/paycalc/internal/transform"
	"github.com/spf13/cobra"
)

func compareCmd(a *app) *cobra.Command {
	var (
		scenarioName   string
		templates      []string
		transformSpecs []string
		against        []string
		format         string
		listTemplates  bool
		listTransforms bool
	)

	cmd := &cobra.Command{
		Use:   "compare [input-file]",
		Short: "Compare bonus tax methods and pay months for a scenario",
		Long: `Compare runs variants of one scenario side by side and shows how tax and
take-home pay change. Without --templates or --transform it compares both bonus
tax methods and a January payout.`,
		Example: `  paycalc compare scenarios.yaml --scenario Beijing
  paycalc compare scenarios.yaml --scenario Beijing --templates pay_june,no_bonus --format csv
  paycalc compare scenarios.yaml --scenario Beijing --transform "set_pay_month:month=3"
  paycalc compare scenarios.yaml --scenario Beijing --against Shanghai,Shenzhen
  paycalc compare --list-templates`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			out := cmd.OutOrStdout()
			compareEngine := compare.NewCompareEngine(a.engine)

			if listTemplates {
				fmt.Fprintln(out, "Available templates:")
				for _, name := range compareEngine.TemplateRegistry.List() {
					t, _ := compareEngine.TemplateRegistry.Get(name)
					fmt.Fprintf(out, "  %-16s %s\n", t.Name, t.Description)
				}
				return nil
			}
			registry := transform.NewTransformRegistry()
			if listTransforms {
				fmt.Fprintln(out, "Available transforms:")
				for _, name := range registry.List() {
					fmt.Fprintf(out, "  %s\n", name)
				}
				return nil
			}

			if len(args) == 0 {
				return fmt.Errorf("an input file is required (or use --list-templates)")
			}

			scenarios, err := config.NewInputParser(a.rates).LoadFromFile(args[0])
			if err != nil {
				return err
			}
			base, err := pickScenario(scenarios, scenarioName)
			if err != nil {
				return err
			}

			var compSet *compare.ComparisonSet
			if len(against) > 0 {
				a.log.Debugf("comparing %s against %s", base.Name, strings.Join(against, ", "))
				compSet, err = compareEngine.CompareScenarios(cmd.Context(), scenarios, base.Name, against)
			} else {
				transforms := make([]transform.ScenarioTransform, 0, len(transformSpecs))
				for _, spec := range transformSpecs {
					t, err := registry.ParseTransformSpec(spec)
					if err != nil {
						return fmt.Errorf("--transform %q: %w", spec, err)
					}
					transforms = append(transforms, t)
				}
				compSet, err = compareEngine.Compare(cmd.Context(), base, compare.CompareOptions{
					Templates:  templates,
					Transforms: transforms,
				})
			}
			if err != nil {
				return err
			}
			compSet.ConfigPath = args[0]

			rendered, err := compare.Render(compSet, format)
			if err != nil {
				return err
			}
			fmt.Fprint(out, rendered)
			if !strings.HasSuffix(rendered, "\n") {
				fmt.Fprintln(out)
			}
			return nil
		},
	}

	cmd.Flags().StringVar(&scenarioName, "scenario", "", "Base scenario name (may be omitted when the file has one scenario)")
	cmd.Flags().StringSliceVar(&templates, "templates", nil, "Comma-separated templates to compare")
	cmd.Flags().StringArrayVar(&transformSpecs, "transform", nil, "Ad hoc variant as name:key=value,... (repeatable, applied together)")
	cmd.Flags().StringSliceVar(&against, "against", nil, "Compare with other scenarios from the same file instead of templates")
	cmd.Flags().StringVarP(&format, "format", "f", compare.FormatTable, "Output format (table, csv, json)")
	cmd.Flags().BoolVar(&listTemplates, "list-templates", false, "List all available templates")
	cmd.Flags().BoolVar(&listTransforms, "list-transforms", false, "List all available transforms")
	return cmd
}

// pickScenario finds name, or the only scenario when name is empty
func pickScenario(scenarios []domain.Scenario, name string) (domain.Scenario, error) {
	if name == "" {
		if len(scenarios) == 1 {
			return scenarios[0], nil
		}
		return domain.Scenario{}, fmt.Errorf("--scenario is required when the file has %d scenarios", len(scenarios))
	}
	for _, sc := range scenarios {
		if sc.Name == name {
			return sc, nil
		}
	}
	return domain.Scenario{}, fmt.Errorf("scenario %q not found", name)
}
