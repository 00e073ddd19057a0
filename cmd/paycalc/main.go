package main

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"os/signal"
	"runtime/debug"
	"strings"
	"syscall"

	"github.com/rgehrsitz/paycalc/internal/calculation"
	"github.com/rgehrsitz/paycalc/internal/config"
	"github.com/rgehrsitz/paycalc/internal/domain"
	"github.com/rgehrsitz/paycalc/internal/output"
	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
)

var (
	version = "dev"
	commit  = "none"
	date    = "unknown"
)

// app holds what every subcommand needs once the root flags are parsed
type app struct {
	ratesPath string
	logLevel  string
	debug     bool

	log    *logrus.Entry
	rates  *domain.RateSet
	engine *calculation.CalculationEngine
}

func (a *app) setup(cmd *cobra.Command) error {
	logger, err := newLogger(cmd.ErrOrStderr(), a.logLevel, a.debug)
	if err != nil {
		return err
	}
	a.log = logger.WithField("module", "cli")

	rates, err := config.LoadRatesOrDefault(a.ratesPath)
	if err != nil {
		return err
	}
	engine, err := calculation.NewCalculationEngine(rates)
	if err != nil {
		return err
	}
	engine.SetLogger(engineLogger{entry: logger.WithField("module", "engine")})

	a.rates = rates
	a.engine = engine
	if a.ratesPath != "" {
		a.log.Infof("loaded rates from %s (tax year %d)", a.ratesPath, rates.Metadata.TaxYear)
	}
	return nil
}

func newRootCmd() *cobra.Command {
	a := &app{}

	rootCmd := &cobra.Command{
		Use:   "paycalc",
		Short: "Payroll tax calculator CLI",
		Long: "Computes a year of monthly salary, social insurance, housing fund and " +
			"cumulatively withheld income tax, plus the annual bonus tax",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return a.setup(cmd)
		},
	}

	rootCmd.PersistentFlags().StringVar(&a.ratesPath, "rates", "", "Path to a rates YAML file (default: built-in rates)")
	rootCmd.PersistentFlags().StringVar(&a.logLevel, "log-level", "warn", "Log level (trace, debug, info, warn, error)")
	rootCmd.PersistentFlags().BoolVar(&a.debug, "debug", false, "Enable debug output for detailed calculations")

	rootCmd.AddCommand(calculateCmd(a))
	rootCmd.AddCommand(validateCmd(a))
	rootCmd.AddCommand(ratesCmd(a))
	rootCmd.AddCommand(compareCmd(a))
	rootCmd.AddCommand(grossUpCmd(a))
	rootCmd.AddCommand(versionCmd())

	return rootCmd
}

func versionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print version information",
		// no rates needed
		PersistentPreRun: func(cmd *cobra.Command, args []string) {},
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Fprintf(cmd.OutOrStdout(), "paycalc %s (commit %s, built %s)\n", version, commit, date)
			if info := buildInfo(); info != "" {
				fmt.Fprintln(cmd.OutOrStdout(), info)
			}
		},
	}
}

func buildInfo() string {
	if bi, ok := debug.ReadBuildInfo(); ok && bi != nil {
		return bi.Main.Path + " " + bi.GoVersion
	}
	return ""
}

func calculateCmd(a *app) *cobra.Command {
	var (
		format string
		save   bool
	)

	cmd := &cobra.Command{
		Use:   "calculate [input-file]",
		Short: "Calculate payroll scenarios",
		Example: `  paycalc calculate scenarios.yaml
  paycalc calculate scenarios.yaml --format csv
  paycalc calculate scenarios.yaml --format summary --save`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			f := output.GetFormatterByName(format)
			if f == nil {
				return fmt.Errorf("unsupported format %q (available: %s; aliases: %s)", format,
					strings.Join(output.AvailableFormatterNames(), ", "),
					strings.Join(output.AvailableFormatAliases(), ", "))
			}

			scenarios, err := config.NewInputParser(a.rates).LoadFromFile(args[0])
			if err != nil {
				return err
			}
			a.log.Debugf("loaded %d scenarios from %s", len(scenarios), args[0])

			results, err := a.engine.RunScenarios(cmd.Context(), scenarios)
			if err != nil {
				return err
			}

			if save {
				filename, err := output.WriteFormatted(f, results, reportExtension(f.Name()))
				if err != nil {
					return err
				}
				fmt.Fprintf(cmd.OutOrStdout(), "Report written to %s\n", filename)
				return nil
			}

			data, err := f.Format(results)
			if err != nil {
				return err
			}
			_, err = cmd.OutOrStdout().Write(data)
			return err
		},
	}

	cmd.Flags().StringVarP(&format, "format", "f", "console", "Output format (console, json, csv, summary-csv)")
	cmd.Flags().BoolVar(&save, "save", false, "Write the report to a timestamped file instead of stdout")
	return cmd
}

func reportExtension(formatter string) string {
	switch formatter {
	case "json":
		return "json"
	case "csv", "summary-csv":
		return "csv"
	default:
		return "txt"
	}
}

func validateCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "validate [input-file]",
		Short: "Validate a scenario file",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			scenarios, err := config.NewInputParser(a.rates).LoadFromFile(args[0])
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "Configuration file %s is valid\n", args[0])
			for _, sc := range scenarios {
				fmt.Fprintf(out, "  - %s\n", sc.Name)
			}
			return nil
		},
	}
}

func ratesCmd(a *app) *cobra.Command {
	var format string

	cmd := &cobra.Command{
		Use:   "rates",
		Short: "Print the active tax and contribution rates",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			switch strings.ToLower(format) {
			case "", "console", "table":
				fmt.Fprint(cmd.OutOrStdout(), output.FormatRates(a.rates))
				return nil
			case "json":
				data, err := json.MarshalIndent(a.rates, "", "  ")
				if err != nil {
					return err
				}
				fmt.Fprintln(cmd.OutOrStdout(), string(data))
				return nil
			default:
				return fmt.Errorf("unsupported format %q (use console or json)", format)
			}
		},
	}

	cmd.Flags().StringVarP(&format, "format", "f", "console", "Output format (console, json)")
	return cmd
}

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := newRootCmd().ExecuteContext(ctx); err != nil {
		fmt.Fprintln(os.Stderr, "paycalc:", err)
		stop()
		os.Exit(1)
	}
}
