package main

import (
	"fmt"
	"os"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"

	"github.com/lonelyless/decisionaid/internal/calculation"
	"github.com/lonelyless/decisionaid/internal/config"
	"github.com/lonelyless/decisionaid/internal/domain"
	"github.com/lonelyless/decisionaid/internal/session"
	"github.com/lonelyless/decisionaid/internal/tui"
)

func main() {
	var (
		coefficientsFile string
		regionsFile      string
		segment          string
		benefit          string
		scenarioName     string
	)

	cmd := &cobra.Command{
		Use:   "lonelyless-tui [scenario-file]",
		Short: "Interactive LonelyLess decision aid",
		Long: `Explore programme designs interactively. Without a scenario file the aid
opens on the reference design with default assumptions.`,
		Args:         cobra.MaximumNArgs(1),
		SilenceUsage: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			settings, err := config.LoadSettings()
			if err != nil {
				return err
			}
			if !cmd.Flags().Changed("coefficients") {
				coefficientsFile = settings.CoefficientsFile
			}
			if !cmd.Flags().Changed("regions") {
				regionsFile = settings.RegionsFile
			}

			table, err := config.LoadCoefficientTable(coefficientsFile)
			if err != nil {
				return err
			}
			regions, err := config.LoadRegionTable(regionsFile)
			if err != nil {
				fmt.Fprintf(os.Stderr, "Warning: %v\n", err)
			}

			assumptions := domain.DefaultAssumptions()
			assumptions.Currency = settings.Currency
			opts := tui.Options{Regions: regions.Codes()}

			if len(args) == 1 {
				file, err := config.NewInputParser().LoadFromFile(args[0])
				if err != nil {
					return err
				}
				assumptions = file.Assumptions
				if _, ok := os.LookupEnv("LONELYLESS_CURRENCY"); ok {
					assumptions.Currency = settings.Currency
				}
				opts.Input, err = file.Scenario(scenarioName)
				if err != nil {
					return err
				}
				if segment == "" {
					segment = file.Segment
				}
				if benefit == "" {
					benefit = file.Benefit
				}
			}
			if err := assumptions.Validate(); err != nil {
				return err
			}

			opts.Segment = segment
			opts.Definition, err = domain.ParseBenefitDefinition(benefit)
			if err != nil {
				return err
			}
			if _, err := table.Resolve(segment); err != nil {
				return err
			}

			engine := calculation.NewCalculationEngineWith(regions, assumptions)
			opts.Session = session.NewSession(engine, table)

			p := tea.NewProgram(
				tui.NewModel(opts),
				tea.WithAltScreen(),       // Use alternate screen buffer
				tea.WithMouseCellMotion(), // Enable mouse support
			)
			if _, err := p.Run(); err != nil {
				return fmt.Errorf("error running TUI: %w", err)
			}
			return nil
		},
	}
	cmd.Flags().StringVar(&coefficientsFile, "coefficients", "", "Coefficient table YAML (default: built-in estimates)")
	cmd.Flags().StringVar(&regionsFile, "regions", "", "Region multiplier JSON (default: built-in table)")
	cmd.Flags().StringVar(&segment, "segment", "", "Population segment to start with")
	cmd.Flags().StringVar(&benefit, "benefit", "", "Benefit measure to start with: wtp, qaly:<scenario>, savings")
	cmd.Flags().StringVar(&scenarioName, "scenario", "", "Scenario to open (default: first in the file)")

	if err := cmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(1)
	}
}
