package main

import (
	"context"
	"fmt"
	"strings"

	"github.com/lonelyless/decisionaid/internal/breakeven"
	"github.com/lonelyless/decisionaid/internal/calculation"
	"github.com/lonelyless/decisionaid/internal/compare"
	"github.com/lonelyless/decisionaid/internal/output"
	"github.com/lonelyless/decisionaid/internal/transform"
	"github.com/shopspring/decimal"
	"github.com/spf13/cobra"
)

func newSegmentsCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "segments [scenario-file]",
		Short: "Show expected uptake of a scenario in every population segment",
		Long: `Show the uptake of one scenario under each segment's estimates and the
simple pooled average. The pooled figure is an arithmetic mean of the segment
figures, not a statistical estimate.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			file, err := a.loadScenarioFile(args[0])
			if err != nil {
				return err
			}
			name, _ := cmd.Flags().GetString("scenario")
			input, err := file.Scenario(name)
			if err != nil {
				return err
			}
			cfg, err := input.Build()
			if err != nil {
				return err
			}

			pooled := calculation.ComputePooled(cfg, a.table, a.regions)
			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "UPTAKE BY SEGMENT: %s\n", cfg.Name)
			fmt.Fprintln(out, strings.Repeat("=", 60))
			fmt.Fprintf(out, "%-12s %-30s %8s %8s\n", "Segment", "Label", "Uptake", "Opt-out")
			for _, s := range pooled.Segments {
				marker := ""
				if s.Segment == a.table.DefaultSegment {
					marker = " *"
				}
				fmt.Fprintf(out, "%-12s %-30.30s %8s %8s%s\n", s.Segment, s.Label,
					output.FormatPercentage(s.Choice.UptakeProbability),
					output.FormatPercentage(s.Choice.OptOutProbability), marker)
			}
			fmt.Fprintln(out, strings.Repeat("-", 60))
			fmt.Fprintf(out, "%-43s %8s\n", "Pooled", output.FormatPercentage(pooled.UptakeProbability))
			fmt.Fprintf(out, "\n%s\n* default segment\n", pooled.Label)
			return nil
		},
	}
	cmd.Flags().String("scenario", "", "Scenario name (default: first scenario in the file)")
	return cmd
}

func newCompareCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "compare [scenario-file]",
		Short: "Compare a base scenario against design templates or other scenarios",
		Long: `Compare a base scenario against alternative designs.

Examples:
  lonelyless compare scenarios.yaml --templates online,intensive
  lonelyless compare scenarios.yaml --base Base --with-scenarios "Online,Large roll-out" --format csv
  lonelyless compare --list-templates`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if list, _ := cmd.Flags().GetBool("list-templates"); list {
				fmt.Fprint(cmd.OutOrStdout(), transform.GetTemplateHelp(transform.CreateBuiltInTemplates()))
				return nil
			}
			if len(args) == 0 {
				return fmt.Errorf("scenario file required for comparison (use --list-templates to see available templates)")
			}

			file, err := a.loadScenarioFile(args[0])
			if err != nil {
				return err
			}
			segment, def, err := selection(cmd, file)
			if err != nil {
				return err
			}
			base, _ := cmd.Flags().GetString("base")
			templates, _ := cmd.Flags().GetString("templates")
			scenarios, _ := cmd.Flags().GetString("with-scenarios")
			format, _ := cmd.Flags().GetString("format")

			engine := compare.NewCompareEngine(a.engine(file.Assumptions), a.table)
			opts := compare.CompareOptions{BaseScenarioName: base, Segment: segment, Definition: def}

			ctx := context.Background()
			var set *compare.ComparisonSet
			switch {
			case scenarios != "":
				set, err = engine.CompareScenarios(ctx, file, base, transform.ParseTemplateList(scenarios), opts)
			case templates != "":
				opts.Templates = transform.ParseTemplateList(templates)
				set, err = engine.Compare(ctx, file, opts)
			default:
				return fmt.Errorf("--templates or --with-scenarios is required (or use --list-templates)")
			}
			if err != nil {
				return fmt.Errorf("comparison failed: %w", err)
			}
			set.ConfigPath = args[0]

			var text string
			switch strings.ToLower(format) {
			case "csv":
				text, err = (&compare.CSVFormatter{}).Format(set)
			case "json":
				text, err = (&compare.JSONFormatter{Pretty: true}).Format(set)
			case "compact":
				text = (&compare.TableFormatter{}).FormatCompact(set)
			case "table", "console", "":
				text = (&compare.TableFormatter{}).Format(set)
			default:
				return fmt.Errorf("unknown output format: %s (valid: table, compact, csv, json)", format)
			}
			if err != nil {
				return err
			}
			fmt.Fprint(cmd.OutOrStdout(), text)
			return nil
		},
	}
	cmd.Flags().String("segment", "", "Population segment (default: from file, then the table default)")
	cmd.Flags().String("benefit", "", "Benefit measure: wtp, qaly:<low|moderate|high>, savings")
	cmd.Flags().String("base", "", "Base scenario name (default: first scenario in the file)")
	cmd.Flags().String("templates", "", "Comma-separated list of templates to compare")
	cmd.Flags().String("with-scenarios", "", "Comma-separated list of scenarios from the file to compare")
	cmd.Flags().StringP("format", "f", "table", "Output format (table, compact, csv, json)")
	cmd.Flags().Bool("list-templates", false, "List all available scenario templates")
	return cmd
}

func newBreakEvenCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "break-even [scenario-file]",
		Short: "Find the highest unit cost that still meets a BCR or uptake target",
		Long: `Search for the largest unit cost per participant per month at which the
scenario still reaches the target.

Examples:
  lonelyless break-even scenarios.yaml
  lonelyless break-even scenarios.yaml --target bcr --value 1.5 --benefit qaly:high
  lonelyless break-even scenarios.yaml --target uptake --value 0.6 --all-segments`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			file, err := a.loadScenarioFile(args[0])
			if err != nil {
				return err
			}
			segment, def, err := selection(cmd, file)
			if err != nil {
				return err
			}
			name, _ := cmd.Flags().GetString("scenario")
			input, err := file.Scenario(name)
			if err != nil {
				return err
			}

			targetText, _ := cmd.Flags().GetString("target")
			target, err := breakeven.ParseTarget(targetText)
			if err != nil {
				return err
			}
			constraints := breakeven.DefaultConstraints(target)
			if err := decimalFlag(cmd, "value", &constraints.TargetValue); err != nil {
				return err
			}
			if err := decimalFlag(cmd, "min-cost", &constraints.MinUnitCost); err != nil {
				return err
			}
			if err := decimalFlag(cmd, "max-cost", &constraints.MaxUnitCost); err != nil {
				return err
			}

			solver := breakeven.NewDefaultSolver(a.engine(file.Assumptions), a.table)
			req := breakeven.OptimizationRequest{
				Input:       input,
				Segment:     segment,
				Definition:  def,
				Target:      target,
				Constraints: constraints,
			}

			format, _ := cmd.Flags().GetString("format")
			jsonOut := strings.EqualFold(format, "json")
			ctx := context.Background()
			out := cmd.OutOrStdout()

			if all, _ := cmd.Flags().GetBool("all-segments"); all {
				result, err := solver.OptimizeAcrossSegments(ctx, req)
				if err != nil {
					return err
				}
				if jsonOut {
					text, err := (&breakeven.JSONFormatter{Pretty: true}).FormatMultiSegment(result)
					if err != nil {
						return err
					}
					fmt.Fprintln(out, text)
					return nil
				}
				fmt.Fprint(out, (&breakeven.TableFormatter{}).FormatMultiSegment(result))
				return nil
			}

			result, err := solver.Optimize(ctx, req)
			if err != nil {
				return err
			}
			if jsonOut {
				text, err := (&breakeven.JSONFormatter{Pretty: true}).Format(result)
				if err != nil {
					return err
				}
				fmt.Fprintln(out, text)
				return nil
			}
			fmt.Fprint(out, (&breakeven.TableFormatter{}).Format(result))
			return nil
		},
	}
	addSelectionFlags(cmd)
	cmd.Flags().String("target", "bcr", "Target to solve for (bcr, uptake)")
	cmd.Flags().String("value", "", "Target threshold (default: 1.0 for bcr, 0.5 for uptake)")
	cmd.Flags().String("min-cost", "", "Lowest unit cost to search (default: 0.01)")
	cmd.Flags().String("max-cost", "", "Highest unit cost to search (default: 10000)")
	cmd.Flags().Bool("all-segments", false, "Solve once per population segment")
	cmd.Flags().StringP("format", "f", "table", "Output format (table, json)")
	return cmd
}

// decimalFlag overwrites dst when the named flag was given.
func decimalFlag(cmd *cobra.Command, name string, dst *decimal.Decimal) error {
	text, _ := cmd.Flags().GetString(name)
	if text == "" {
		return nil
	}
	v, err := decimal.NewFromString(text)
	if err != nil {
		return fmt.Errorf("--%s: invalid number %q", name, text)
	}
	*dst = v
	return nil
}
