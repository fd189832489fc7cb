package main

import (
	"context"
	"fmt"
	"strings"

	"github.com/lonelyless/decisionaid/internal/calculation"
	"github.com/lonelyless/decisionaid/internal/domain"
	"github.com/lonelyless/decisionaid/internal/output"
	"github.com/shopspring/decimal"
	"github.com/spf13/cobra"
)

func newSensitivityCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "sensitivity [scenario-file]",
		Short: "Sweep one parameter and show how uptake, cost and BCR respond",
		Long: `Perform sensitivity analysis to test how robust a scenario's value for money
is to changes in one parameter.

Without --min and --max the sweep runs from half to one and a half times the
scenario's current value.

Examples:
  lonelyless sensitivity scenarios.yaml --parameter unit_cost --min 50 --max 200 --steps 7
  lonelyless sensitivity scenarios.yaml --parameter value_per_qaly --benefit qaly:moderate
  lonelyless sensitivity scenarios.yaml --parameter number_of_groups --output csv`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if list, _ := cmd.Flags().GetBool("list-parameters"); list {
				for _, name := range domain.ParameterNames() {
					fmt.Fprintln(cmd.OutOrStdout(), name)
				}
				return nil
			}
			if len(args) == 0 {
				return fmt.Errorf("scenario file required (use --list-parameters to see parameters)")
			}
			return a.runSensitivity(cmd, args[0])
		},
	}
	addSelectionFlags(cmd)
	cmd.Flags().String("parameter", domain.ParamUnitCost, "Parameter to sweep ("+strings.Join(domain.ParameterNames(), ", ")+")")
	cmd.Flags().String("min", "", "Lowest value of the sweep")
	cmd.Flags().String("max", "", "Highest value of the sweep")
	cmd.Flags().Int("steps", 5, "Number of values in the sweep")
	cmd.Flags().String("output", "table", "Output format (table, csv, json)")
	cmd.Flags().Bool("list-parameters", false, "List the parameters that can be swept")
	return cmd
}

func (a *app) runSensitivity(cmd *cobra.Command, path string) error {
	file, err := a.loadScenarioFile(path)
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

	paramName, _ := cmd.Flags().GetString("parameter")
	base, err := baseValue(paramName, input, file.Assumptions)
	if err != nil {
		return err
	}
	low := base.Mul(decimal.NewFromFloat(0.5))
	high := base.Mul(decimal.NewFromFloat(1.5))
	if err := decimalFlag(cmd, "min", &low); err != nil {
		return err
	}
	if err := decimalFlag(cmd, "max", &high); err != nil {
		return err
	}
	if low.Equal(high) {
		return fmt.Errorf("%s is %s; give --min and --max to set a range", paramName, base)
	}
	steps, _ := cmd.Flags().GetInt("steps")
	param, err := domain.LookupParameter(paramName, low, high, base, steps)
	if err != nil {
		return err
	}

	set, err := a.table.Resolve(segment)
	if err != nil {
		return err
	}
	analyzer := calculation.NewSensitivityAnalyzer(a.engine(file.Assumptions))
	analysis, err := analyzer.AnalyzeSingleParameter(context.Background(), input, set, def, param)
	if err != nil {
		return fmt.Errorf("sensitivity analysis failed: %w", err)
	}

	format, _ := cmd.Flags().GetString("output")
	text, err := output.NewSensitivityFormatter(format, output.NewMoney(file.Assumptions)).FormatSensitivityAnalysis(analysis)
	if err != nil {
		return err
	}
	fmt.Fprintln(cmd.OutOrStdout(), text)
	return nil
}

// baseValue reads the scenario's current value of a sweepable parameter.
func baseValue(name string, input *domain.ScenarioInput, a domain.Assumptions) (decimal.Decimal, error) {
	switch name {
	case domain.ParamUnitCost:
		return input.UnitCost, nil
	case domain.ParamParticipantsPerGroup:
		return decimal.NewFromInt(int64(input.ParticipantsPerGroup)), nil
	case domain.ParamNumberOfGroups:
		return decimal.NewFromInt(int64(input.NumberOfGroups)), nil
	case domain.ParamOpportunityCostRate:
		return a.OpportunityCostRate, nil
	case domain.ParamValuePerQALY:
		return a.ValuePerQALY, nil
	case domain.ParamSavingsPerParticipant:
		return a.SavingsPerParticipant, nil
	}
	return decimal.Zero, fmt.Errorf("unknown sensitivity parameter %q (available: %s)", name, strings.Join(domain.ParameterNames(), ", "))
}
