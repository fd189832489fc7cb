package main

import (
	"fmt"
	"os"

	calc "github.com/lonelyless/decisionaid/internal/calculation"
	"github.com/lonelyless/decisionaid/internal/config"
	"github.com/lonelyless/decisionaid/internal/domain"
	"github.com/shopspring/decimal"
)

// Prints a CSV of uptake, cost, benefit and BCR for every scenario in a file
// over a grid of unit costs, so the break-even crossing can be eyeballed.
func main() {
	if len(os.Args) < 2 {
		fmt.Println("usage: debug_break_even <scenario-file> [max-unit-cost]")
		return
	}
	f := os.Args[1]
	maxCost := decimal.NewFromInt(500)
	if len(os.Args) > 2 {
		v, err := decimal.NewFromString(os.Args[2])
		if err != nil {
			panic(err)
		}
		maxCost = v
	}

	p := config.NewInputParser()
	file, err := p.LoadFromFile(f)
	if err != nil {
		panic(err)
	}
	table, err := config.LoadCoefficientTable("")
	if err != nil {
		panic(err)
	}
	set, err := table.Resolve(file.Segment)
	if err != nil {
		panic(err)
	}
	def, err := file.BenefitDefinition()
	if err != nil {
		panic(err)
	}
	engine := calc.NewCalculationEngineWith(domain.DefaultRegionTable(), file.Assumptions)

	const steps = 20
	step := maxCost.Div(decimal.NewFromInt(steps))

	fmt.Println("Scenario,UnitCost,Uptake,TotalCost,TotalBenefit,BCR")
	for i := range file.Scenarios {
		input := file.Scenarios[i].DeepCopy()
		for k := 1; k <= steps; k++ {
			input.UnitCost = step.Mul(decimal.NewFromInt(int64(k)))
			res, err := engine.RunScenario(input, set, def)
			if err != nil {
				panic(err)
			}
			fmt.Printf("%s,%s,%.4f,%s,%s,%s\n",
				input.Name,
				input.UnitCost.StringFixed(2),
				res.Choice.UptakeProbability,
				res.Cost.TotalCostAllGroups.StringFixed(2),
				nullString(res.Aggregate.TotalBenefit),
				nullString(res.Aggregate.BenefitCostRatio))
		}
	}
}

func nullString(d decimal.NullDecimal) string {
	if !d.Valid {
		return ""
	}
	return d.Decimal.StringFixed(4)
}
