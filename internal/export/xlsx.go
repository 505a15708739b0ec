package export

import (
	"fmt"
	"io"

	"github.com/xuri/excelize/v2"

	"github.com/san-kum/kppsim/internal/config"
	"github.com/san-kum/kppsim/internal/sim"
)

const (
	SummarySheet = "Summary"
	SeriesSheet  = "Series"
)

var seriesHeader = []interface{}{
	"time", "net_torque", "net_force", "mechanical_power",
	"electrical_power", "chain_speed", "ascending_force", "descending_force",
}

// WriteWorkbook writes a two-sheet xlsx report: headline figures and
// parameters on Summary, the per-step series on Series.
func WriteWorkbook(w io.Writer, p config.Params, r *sim.CycleResult) error {
	f := excelize.NewFile()
	defer f.Close()

	index, err := f.NewSheet(SummarySheet)
	if err != nil {
		return fmt.Errorf("creating summary sheet: %w", err)
	}
	f.SetActiveSheet(index)
	if _, err := f.NewSheet(SeriesSheet); err != nil {
		return fmt.Errorf("creating series sheet: %w", err)
	}
	if err := f.DeleteSheet("Sheet1"); err != nil {
		return err
	}

	bold, err := f.NewStyle(&excelize.Style{Font: &excelize.Font{Bold: true}})
	if err != nil {
		return err
	}

	summary := [][]interface{}{
		{"KPP simulation summary"},
		{"Energy out (J)", r.EnergyOut},
		{"Energy in (J)", r.EnergyIn},
		{"Efficiency", r.Efficiency},
		{"Mechanical energy (J)", r.MechanicalEnergy},
		{"Mean electrical power (W)", r.MeanElectricalPower()},
		{"Water heat loss (J)", r.WaterHeatLoss},
		{"Injections", len(r.Injections)},
		{"Period (s)", r.Period},
		{"Steps", r.Steps},
		{"Stalled", r.Stalled},
		{"H1 mean force (N)", r.Hypotheses.H1.MeanForce},
		{"H2 mean force (N)", r.Hypotheses.H2.MeanForce},
		{"H3 mean force (N)", r.Hypotheses.H3.MeanForce},
		{},
		{"Parameter", "Value"},
	}
	for _, name := range config.ParamNames() {
		v, _ := p.Get(name)
		summary = append(summary, []interface{}{name, v})
	}
	summary = append(summary,
		[]interface{}{"injection.compression", p.Injection.Compression},
		[]interface{}{"simulation.speed_mode", p.Simulation.SpeedMode},
		[]interface{}{"simulation.integrator", p.Simulation.Integrator},
	)

	for i, row := range summary {
		cell, err := excelize.CoordinatesToCellName(1, i+1)
		if err != nil {
			return err
		}
		if err := f.SetSheetRow(SummarySheet, cell, &row); err != nil {
			return err
		}
	}
	if err := f.SetCellStyle(SummarySheet, "A1", "A1", bold); err != nil {
		return err
	}
	if err := f.SetColWidth(SummarySheet, "A", "A", 34); err != nil {
		return err
	}

	if err := f.SetSheetRow(SeriesSheet, "A1", &seriesHeader); err != nil {
		return err
	}
	if err := f.SetCellStyle(SeriesSheet, "A1", "H1", bold); err != nil {
		return err
	}
	s := r.Series
	for k := 0; k < s.Len(); k++ {
		cell, err := excelize.CoordinatesToCellName(1, k+2)
		if err != nil {
			return err
		}
		row := []interface{}{
			s.Time[k], s.NetTorque[k], s.NetForce[k], s.MechanicalPower[k],
			s.ElectricalPower[k], s.ChainSpeed[k], s.AscendingForce[k], s.DescendingForce[k],
		}
		if err := f.SetSheetRow(SeriesSheet, cell, &row); err != nil {
			return err
		}
	}

	if err := f.Write(w); err != nil {
		return fmt.Errorf("writing workbook: %w", err)
	}
	return nil
}
