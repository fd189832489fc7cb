package output

import (
	"fmt"

	"github.com/shopspring/decimal"
	"github.com/xuri/excelize/v2"
)

// XLSXFormatter writes a workbook with a summary sheet, the scenario table, the
// cost components and, when present, the benefit definitions. Amounts are AUD.
type XLSXFormatter struct{}

func (x XLSXFormatter) Name() string { return "xlsx" }

// Sheet names
const (
	SheetSummary     = "Summary"
	SheetScenarios   = "Scenarios"
	SheetCosts       = "Costs"
	SheetDefinitions = "Benefit measures"
)

type workbook struct {
	f    *excelize.File
	bold int
}

func (x XLSXFormatter) Format(r *Report) ([]byte, error) {
	if r == nil || r.Current == nil {
		return nil, fmt.Errorf("report has no current result")
	}
	f := excelize.NewFile()
	defer f.Close()

	bold, err := f.NewStyle(&excelize.Style{Font: &excelize.Font{Bold: true}})
	if err != nil {
		return nil, err
	}
	wb := &workbook{f: f, bold: bold}

	if err := f.SetSheetName("Sheet1", SheetSummary); err != nil {
		return nil, err
	}
	steps := []func(*Report) error{wb.writeSummary, wb.writeScenarios, wb.writeCosts}
	if len(r.Definitions) > 0 {
		steps = append(steps, wb.writeDefinitions)
	}
	for _, step := range steps {
		if err := step(r); err != nil {
			return nil, err
		}
	}

	buf, err := f.WriteToBuffer()
	if err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// writeRows writes a bold header followed by body rows starting at A1.
func (w *workbook) writeRows(sheet string, header []string, rows [][]interface{}) error {
	if sheet != SheetSummary {
		if _, err := w.f.NewSheet(sheet); err != nil {
			return err
		}
	}
	for col, h := range header {
		cell, err := excelize.CoordinatesToCellName(col+1, 1)
		if err != nil {
			return err
		}
		if err := w.f.SetCellValue(sheet, cell, h); err != nil {
			return err
		}
	}
	if len(header) > 0 {
		last, _ := excelize.CoordinatesToCellName(len(header), 1)
		if err := w.f.SetCellStyle(sheet, "A1", last, w.bold); err != nil {
			return err
		}
	}
	for i, row := range rows {
		for col, v := range row {
			if v == nil {
				continue
			}
			cell, err := excelize.CoordinatesToCellName(col+1, i+2)
			if err != nil {
				return err
			}
			if err := w.f.SetCellValue(sheet, cell, v); err != nil {
				return err
			}
		}
	}
	return w.f.SetColWidth(sheet, "A", "A", 32)
}

func (w *workbook) writeSummary(r *Report) error {
	cur := r.Current
	cfg := cur.Configuration
	rows := [][]interface{}{
		{"Scenario", cfg.Name},
		{"Segment", cur.SegmentLabel},
		{"Benefit measure", cur.Definition.Label()},
		{"Status", string(cur.Status)},
		{"Expected uptake", cur.Choice.UptakeProbability},
		{"Endorsed participants", num(cur.Reach.EndorsedParticipants)},
		{"Total participants", cur.Reach.TotalParticipants},
		{"Unit cost (AUD per participant per month)", num(cfg.UnitCost)},
		{"Participants per group", cfg.ParticipantsPerGroup},
		{"Number of groups", cfg.NumberOfGroups},
		{"Duration (months)", cur.Cost.DurationPeriods},
		{"Total cost per group (AUD)", num(cur.Cost.TotalCostPerGroup)},
		{"Total cost (AUD)", num(cur.Cost.TotalCostAllGroups)},
		{"Total benefit (AUD)", nullNum(cur.Aggregate.TotalBenefit)},
		{"Net benefit (AUD)", nullNum(cur.Aggregate.NetBenefit)},
		{"Benefit-cost ratio", nullNum(cur.Aggregate.BenefitCostRatio)},
	}
	return w.writeRows(SheetSummary, []string{"Measure", "Value"}, rows)
}

func (w *workbook) writeScenarios(r *Report) error {
	rows := make([][]interface{}, 0, len(r.Scenarios))
	for _, s := range r.Scenarios {
		rows = append(rows, []interface{}{
			s.Label,
			s.Segment,
			s.Definition.Label(),
			s.UptakeProbability,
			num(s.TotalCostPerGroup),
			num(s.TotalCost),
			nullNum(s.TotalBenefit),
			nullNum(s.EffectiveBenefit),
			nullNum(s.NetBenefit),
			nullNum(s.BenefitCostRatio),
		})
	}
	header := []string{"Scenario", "Segment", "Benefit measure", "Uptake", "Total cost per group", "Total cost", "Total benefit", "Uptake-weighted benefit", "Net benefit", "BCR"}
	return w.writeRows(SheetScenarios, header, rows)
}

func (w *workbook) writeCosts(r *Report) error {
	comps := r.Current.Cost.Components
	rows := make([][]interface{}, 0, len(comps))
	for _, c := range comps {
		rows = append(rows, []interface{}{c.Label, num(c.Share), num(c.AmountPerGroup), num(c.PerParticipantPerPeriod)})
	}
	return w.writeRows(SheetCosts, []string{"Component", "Share", "Per group", "Per participant per month"}, rows)
}

func (w *workbook) writeDefinitions(r *Report) error {
	rows := make([][]interface{}, 0, len(r.Definitions))
	for _, d := range r.Definitions {
		rows = append(rows, []interface{}{
			d.Definition.Label(),
			nullNum(d.Aggregate.TotalBenefit),
			nullNum(d.Aggregate.NetBenefit),
			nullNum(d.Aggregate.BenefitCostRatio),
			string(d.Status),
		})
	}
	return w.writeRows(SheetDefinitions, []string{"Benefit measure", "Total benefit", "Net benefit", "BCR", "Status"}, rows)
}

func num(d decimal.Decimal) float64 {
	return d.InexactFloat64()
}

// nullNum returns nil for undefined values so the cell stays empty.
func nullNum(d decimal.NullDecimal) interface{} {
	if !d.Valid {
		return nil
	}
	return d.Decimal.InexactFloat64()
}
