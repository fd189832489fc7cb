package main

import (
	"fmt"
	"os"
	"runtime"
	"runtime/debug"
	"strings"

	"code.cloudfoundry.org/lager/v3"
	"github.com/lonelyless/decisionaid/internal/calculation"
	"github.com/lonelyless/decisionaid/internal/config"
	"github.com/lonelyless/decisionaid/internal/domain"
	"github.com/lonelyless/decisionaid/internal/output"
	"github.com/lonelyless/decisionaid/internal/session"
	"github.com/lonelyless/decisionaid/internal/transform"
	"github.com/spf13/cobra"
)

// Version information set by build flags
var (
	version = "dev"
	commit  = "unknown"
	date    = "unknown"
)

// app carries the global flags and the tables shared by every command.
type app struct {
	coefficientsFile string
	regionsFile      string
	currency         string
	debug            bool

	logger  lager.Logger
	table   *domain.CoefficientTable
	regions domain.RegionTable
}

func newRootCmd() *cobra.Command {
	a := &app{}

	rootCmd := &cobra.Command{
		Use:   "lonelyless",
		Short: "LonelyLess programme decision aid",
		Long: `Estimate uptake, costs and value for money of loneliness-reduction
programmes from discrete choice estimates.

Scenario files are YAML documents listing one or more programme designs.
Settings can also be given through LONELYLESS_COEFFICIENTS, LONELYLESS_REGIONS,
LONELYLESS_CURRENCY and LONELYLESS_DEBUG; flags take precedence.`,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return a.setup(cmd)
		},
		Run: func(cmd *cobra.Command, args []string) {
			_ = cmd.Help()
		},
	}

	flags := rootCmd.PersistentFlags()
	flags.StringVar(&a.coefficientsFile, "coefficients", "", "Coefficient table YAML (default: built-in estimates)")
	flags.StringVar(&a.regionsFile, "regions", "", "Region multiplier JSON (default: built-in table)")
	flags.StringVar(&a.currency, "currency", "", "Display currency (AUD, USD)")
	flags.BoolVar(&a.debug, "debug", false, "Enable debug output for detailed calculations")

	rootCmd.AddCommand(
		newCalculateCmd(a),
		newValidateCmd(a),
		newSegmentsCmd(a),
		newCompareCmd(a),
		newBreakEvenCmd(a),
		newSensitivityCmd(a),
		newScenariosCmd(a),
		newExportCmd(a),
		versionCmd(),
	)
	return rootCmd
}

// setup merges environment settings under the flags and loads the tables.
func (a *app) setup(cmd *cobra.Command) error {
	settings, err := config.LoadSettings()
	if err != nil {
		return err
	}
	flags := cmd.Flags()
	if !flags.Changed("coefficients") {
		a.coefficientsFile = settings.CoefficientsFile
	}
	if !flags.Changed("regions") {
		a.regionsFile = settings.RegionsFile
	}
	if !flags.Changed("debug") {
		a.debug = settings.Debug
	}
	if !flags.Changed("currency") {
		if _, ok := os.LookupEnv("LONELYLESS_CURRENCY"); ok {
			a.currency = settings.Currency
		}
	}

	a.logger = newLogger(cmd.ErrOrStderr(), a.debug)

	a.table, err = config.LoadCoefficientTable(a.coefficientsFile)
	if err != nil {
		return err
	}
	regions, err := config.LoadRegionTable(a.regionsFile)
	if err != nil {
		a.logger.Info("region-table-fallback", lager.Data{"reason": err.Error()})
	}
	a.regions = regions
	return nil
}

// engine builds a calculation engine for one scenario file's assumptions.
func (a *app) engine(assumptions domain.Assumptions) *calculation.CalculationEngine {
	engine := calculation.NewCalculationEngineWith(a.regions, assumptions)
	engine.SetLogger(newEngineLogger(a.logger))
	engine.Debug = a.debug
	return engine
}

// loadScenarioFile parses a scenario file and applies the currency override.
func (a *app) loadScenarioFile(path string) (*domain.ScenarioFile, error) {
	file, err := config.NewInputParser().LoadFromFile(path)
	if err != nil {
		return nil, err
	}
	if a.currency != "" {
		file.Assumptions.Currency = strings.ToUpper(a.currency)
		if err := file.Assumptions.Validate(); err != nil {
			return nil, err
		}
	}
	a.logger.Debug("scenario-file-loaded", lager.Data{"path": path, "scenarios": len(file.Scenarios)})
	return file, nil
}

// selection resolves the segment and benefit definition from flags, falling
// back to the scenario file.
func selection(cmd *cobra.Command, file *domain.ScenarioFile) (string, domain.BenefitDefinition, error) {
	segment, _ := cmd.Flags().GetString("segment")
	if segment == "" {
		segment = file.Segment
	}
	benefit, _ := cmd.Flags().GetString("benefit")
	if benefit == "" {
		benefit = file.Benefit
	}
	def, err := domain.ParseBenefitDefinition(benefit)
	if err != nil {
		return "", domain.BenefitDefinition{}, err
	}
	return segment, def, nil
}

func addSelectionFlags(cmd *cobra.Command) {
	cmd.Flags().String("segment", "", "Population segment (default: from file, then the table default)")
	cmd.Flags().String("benefit", "", "Benefit measure: wtp, qaly:<low|moderate|high>, savings")
	cmd.Flags().String("scenario", "", "Scenario name (default: first scenario in the file)")
}

// buildReport computes the selected scenario as the current result and the
// remaining scenarios of the file as saved rows of the benefit table.
func (a *app) buildReport(cmd *cobra.Command, path string) (*output.Report, error) {
	file, err := a.loadScenarioFile(path)
	if err != nil {
		return nil, err
	}
	segment, def, err := selection(cmd, file)
	if err != nil {
		return nil, err
	}
	name, _ := cmd.Flags().GetString("scenario")
	input, err := file.Scenario(name)
	if err != nil {
		return nil, err
	}
	selected := input.Name
	if specs, _ := cmd.Flags().GetStringArray("apply"); len(specs) > 0 {
		if input, err = applyTransforms(input, specs); err != nil {
			return nil, err
		}
	}

	engine := a.engine(file.Assumptions)
	s := session.NewSession(engine, a.table)

	current, err := s.RecomputeInput(input, segment, def)
	if err != nil {
		return nil, err
	}
	for i := range file.Scenarios {
		other := &file.Scenarios[i]
		if other.Name == selected {
			continue
		}
		bundle, err := s.RecomputeInput(other, segment, def)
		if err != nil {
			return nil, fmt.Errorf("scenario %s: %w", other.Name, err)
		}
		if _, err := s.Save(bundle, other.Name, other.Notes); err != nil {
			return nil, err
		}
	}

	report := output.NewReport(current, file.Assumptions)
	report.Scenarios = s.BenefitTable(current)

	if all, _ := cmd.Flags().GetBool("all-definitions"); all {
		set, err := a.table.Resolve(segment)
		if err != nil {
			return nil, err
		}
		report.Definitions, err = engine.ComputeAllDefinitions(current.Configuration, set)
		if err != nil {
			return nil, err
		}
	}
	if pooled, _ := cmd.Flags().GetBool("pooled"); pooled {
		p := calculation.ComputePooled(current.Configuration, a.table, a.regions)
		report.Pooled = &p
	}
	return report, nil
}

func addReportFlags(cmd *cobra.Command) {
	addSelectionFlags(cmd)
	cmd.Flags().Bool("all-definitions", false, "Show every benefit measure side by side")
	cmd.Flags().Bool("pooled", false, "Show per-segment uptake and the simple pooled average")
	cmd.Flags().StringArray("apply", nil, "Transform applied to the scenario, e.g. set_level:dimension=delivery,level=online (repeatable)")
}

// applyTransforms parses each "name:key=value,..." spec and applies them in order.
func applyTransforms(input *domain.ScenarioInput, specs []string) (*domain.ScenarioInput, error) {
	registry := transform.NewTransformRegistry()
	transforms := make([]transform.ScenarioTransform, 0, len(specs))
	for _, spec := range specs {
		t, err := registry.ParseTransformSpec(spec)
		if err != nil {
			return nil, fmt.Errorf("--apply %q: %w", spec, err)
		}
		transforms = append(transforms, t)
	}
	return transform.ApplyTransforms(input, transforms)
}

func newCalculateCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "calculate [scenario-file]",
		Short: "Calculate uptake, costs and value for money for a scenario",
		Long: `Calculate the result for one scenario. The other scenarios in the file are
listed alongside it in the scenario table.

Examples:
  lonelyless calculate scenarios.yaml
  lonelyless calculate scenarios.yaml --segment supportive --benefit qaly:moderate
  lonelyless calculate scenarios.yaml --all-definitions --format json
  lonelyless calculate scenarios.yaml --format pdf --out brief.pdf`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			report, err := a.buildReport(cmd, args[0])
			if err != nil {
				return err
			}
			format, _ := cmd.Flags().GetString("format")
			outPath, _ := cmd.Flags().GetString("out")
			return writeReport(cmd, report, format, outPath)
		},
	}
	addReportFlags(cmd)
	cmd.Flags().StringP("format", "f", "console", "Output format ("+strings.Join(output.AvailableFormatterNames(), ", ")+")")
	cmd.Flags().StringP("out", "o", "", "Write the report to this file instead of stdout")
	return cmd
}

// writeReport prints text formats and writes binary formats to a file.
func writeReport(cmd *cobra.Command, report *output.Report, format, outPath string) error {
	formatter := output.GetFormatterByName(format)
	if formatter == nil {
		return fmt.Errorf("unknown format %q (available: %s; aliases: %s)",
			format, strings.Join(output.AvailableFormatterNames(), ", "), strings.Join(output.AvailableFormatAliases(), ", "))
	}

	if outPath == "" && output.IsBinary(formatter.Name()) {
		filename, err := output.WriteFormatted(formatter, report, output.Extension(formatter.Name()))
		if err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "Report written to %s\n", filename)
		return nil
	}
	if outPath != "" {
		if err := output.WriteFile(formatter, report, outPath); err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "Report written to %s\n", outPath)
		return nil
	}

	data, err := formatter.Format(report)
	if err != nil {
		return err
	}
	_, err = cmd.OutOrStdout().Write(data)
	return err
}

func newValidateCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "validate [scenario-file]",
		Short: "Validate a scenario file",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			file, err := a.loadScenarioFile(args[0])
			if err != nil {
				return err
			}
			if _, err := a.table.Resolve(file.Segment); err != nil {
				return fmt.Errorf("segment: %w", err)
			}
			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "Scenario file is valid (%d scenarios)\n", len(file.Scenarios))
			for _, s := range file.Scenarios {
				cfg, _ := s.Build()
				fmt.Fprintf(out, "  %-24s %d x %d participants, %d months\n",
					s.Name, cfg.NumberOfGroups, cfg.ParticipantsPerGroup, cfg.Periods())
			}
			return nil
		},
	}
}

func versionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print version information",
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Fprintf(cmd.OutOrStdout(), "lonelyless %s\n", buildVersion())
			fmt.Fprintf(cmd.OutOrStdout(), "  commit: %s\n  built:  %s\n  go:     %s\n", commit, date, runtime.Version())
		},
	}
}

func buildVersion() string {
	if version != "dev" {
		return version
	}
	if info, ok := debug.ReadBuildInfo(); ok && info.Main.Version != "" && info.Main.Version != "(devel)" {
		return info.Main.Version
	}
	return version
}

func main() {
	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(1)
	}
}
