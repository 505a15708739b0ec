package storage

import (
	"encoding/json"
	"fmt"
	"io"

	"github.com/gocarina/gocsv"

	"github.com/san-kum/kppsim/internal/config"
	"github.com/san-kum/kppsim/internal/sim"
)

// Row is one time step of a series as written to CSV.
type Row struct {
	Time            float64 `csv:"time"`
	NetTorque       float64 `csv:"net_torque"`
	NetForce        float64 `csv:"net_force"`
	MechanicalPower float64 `csv:"mechanical_power"`
	ElectricalPower float64 `csv:"electrical_power"`
	ChainSpeed      float64 `csv:"chain_speed"`
	AscendingForce  float64 `csv:"ascending_force"`
	DescendingForce float64 `csv:"descending_force"`
}

func Rows(s sim.Series) []Row {
	rows := make([]Row, s.Len())
	for i := range rows {
		rows[i] = Row{
			Time:            s.Time[i],
			NetTorque:       s.NetTorque[i],
			NetForce:        s.NetForce[i],
			MechanicalPower: s.MechanicalPower[i],
			ElectricalPower: s.ElectricalPower[i],
			ChainSpeed:      s.ChainSpeed[i],
			AscendingForce:  s.AscendingForce[i],
			DescendingForce: s.DescendingForce[i],
		}
	}
	return rows
}

func WriteCSV(w io.Writer, s sim.Series) error {
	rows := Rows(s)
	if err := gocsv.Marshal(&rows, w); err != nil {
		return fmt.Errorf("writing series: %w", err)
	}
	return nil
}

func ReadCSV(r io.Reader) (sim.Series, error) {
	var rows []Row
	if err := gocsv.Unmarshal(r, &rows); err != nil {
		return sim.Series{}, fmt.Errorf("reading series: %w", err)
	}

	var s sim.Series
	for _, row := range rows {
		s.Time = append(s.Time, row.Time)
		s.NetTorque = append(s.NetTorque, row.NetTorque)
		s.NetForce = append(s.NetForce, row.NetForce)
		s.MechanicalPower = append(s.MechanicalPower, row.MechanicalPower)
		s.ElectricalPower = append(s.ElectricalPower, row.ElectricalPower)
		s.ChainSpeed = append(s.ChainSpeed, row.ChainSpeed)
		s.AscendingForce = append(s.AscendingForce, row.AscendingForce)
		s.DescendingForce = append(s.DescendingForce, row.DescendingForce)
	}
	return s, nil
}

// ExportData is the JSON document written by ExportJSON.
type ExportData struct {
	Params config.Params    `json:"params"`
	Result *sim.CycleResult `json:"result"`
}

// ExportJSON writes params and result as indented JSON. Without series the
// per-step data and hypothesis force traces are left out.
func ExportJSON(w io.Writer, p config.Params, result *sim.CycleResult, series bool) error {
	out := *result
	if !series {
		out.Series = sim.Series{}
		out.Hypotheses.H1.Force = nil
		out.Hypotheses.H2.Force = nil
		out.Hypotheses.H3.Force = nil
	}

	encoder := json.NewEncoder(w)
	encoder.SetIndent("", "  ")
	return encoder.Encode(ExportData{Params: p, Result: &out})
}
