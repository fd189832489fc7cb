package main

import (
	"fmt"
	"strings"

	"code.cloudfoundry.org/lager/v3"
	"github.com/lonelyless/decisionaid/internal/domain"
	"github.com/lonelyless/decisionaid/internal/output"
	"github.com/lonelyless/decisionaid/internal/session"
	"github.com/spf13/cobra"
)

func newScenariosCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "scenarios [scenario-file...]",
		Short: "Save every scenario of one or more files into a session and list them",
		Long: `Compute every scenario of the given files, save each into one session and
print the saved list with the benefit table.

All files are computed with the same segment and benefit measure. Assumptions
are taken from each file.`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			segment, _ := cmd.Flags().GetString("segment")
			benefit, _ := cmd.Flags().GetString("benefit")
			def, err := domain.ParseBenefitDefinition(benefit)
			if err != nil {
				return err
			}

			manager := session.NewManager(a.engine(domain.DefaultAssumptions()), a.table)
			s := manager.Open()
			defer manager.Close(s.ID)

			var money output.Money
			for i, path := range args {
				file, err := a.loadScenarioFile(path)
				if err != nil {
					return err
				}
				if i == 0 {
					money = output.NewMoney(file.Assumptions)
				}
				// each file computes under its own assumptions
				fileSession := session.NewSession(a.engine(file.Assumptions), a.table)
				for j := range file.Scenarios {
					input := &file.Scenarios[j]
					bundle, err := fileSession.RecomputeInput(input, segment, def)
					if err != nil {
						return fmt.Errorf("%s: scenario %s: %w", path, input.Name, err)
					}
					if _, err := s.Save(bundle, input.Name, input.Notes); err != nil {
						return err
					}
				}
			}

			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "SAVED SCENARIOS (%d)\n", s.Len())
			fmt.Fprintln(out, strings.Repeat("=", 81))
			for _, sc := range s.List() {
				fmt.Fprintf(out, "%-8s %-28.28s %s\n", sc.ID[:8], sc.Name, output.StatusText(sc.Result.Status))
				for _, line := range output.DescribeDesign(sc.Result.Configuration) {
					fmt.Fprintf(out, "         %s\n", line)
				}
			}
			fmt.Fprintln(out)
			fmt.Fprintln(out, "BENEFIT TABLE")
			fmt.Fprintln(out, strings.Repeat("-", 81))
			fmt.Fprintf(out, "%-24s %8s %14s %14s %14s %6s\n", "Scenario", "Uptake", "Total cost", "Benefit", "Net", "BCR")
			for _, row := range s.BenefitTable(nil) {
				fmt.Fprintf(out, "%-24.24s %8s %14s %14s %14s %6s\n",
					row.Label,
					output.FormatPercentage(row.UptakeProbability),
					money.Format(row.TotalCost),
					money.FormatNull(row.TotalBenefit),
					money.FormatNull(row.NetBenefit),
					output.FormatRatio(row.BenefitCostRatio))
			}
			return nil
		},
	}
	cmd.Flags().String("segment", "", "Population segment (default: the table default)")
	cmd.Flags().String("benefit", "", "Benefit measure: wtp, qaly:<low|moderate|high>, savings")
	return cmd
}

func newExportCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "export [scenario-file]",
		Short: "Write a policy brief, workbook or report file for a scenario",
		Long: `Write the full report for a scenario to a file. Every benefit measure is
included.

Examples:
  lonelyless export scenarios.yaml --format pdf --out brief.pdf
  lonelyless export scenarios.yaml --format xlsx
  lonelyless export scenarios.yaml --format html --out report.html`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := cmd.Flags().Set("all-definitions", "true"); err != nil {
				return err
			}
			report, err := a.buildReport(cmd, args[0])
			if err != nil {
				return err
			}
			format, _ := cmd.Flags().GetString("format")
			formatter := output.GetFormatterByName(format)
			if formatter == nil {
				return fmt.Errorf("unknown format %q (available: %s)", format, strings.Join(output.AvailableFormatterNames(), ", "))
			}
			outPath, _ := cmd.Flags().GetString("out")
			if outPath == "" {
				filename, err := output.WriteFormatted(formatter, report, output.Extension(formatter.Name()))
				if err != nil {
					return err
				}
				outPath = filename
			} else if err := output.WriteFile(formatter, report, outPath); err != nil {
				return err
			}
			a.logger.Info("report-exported", lager.Data{"path": outPath, "format": formatter.Name()})
			fmt.Fprintf(cmd.OutOrStdout(), "Report written to %s\n", outPath)
			return nil
		},
	}
	addReportFlags(cmd)
	cmd.Flags().StringP("format", "f", "pdf", "File format ("+strings.Join(output.AvailableFormatterNames(), ", ")+")")
	cmd.Flags().StringP("out", "o", "", "Output path (default: report_<timestamp>.<ext>)")
	return cmd
}
