package sim

import (
	"fmt"
	"log/slog"

	"github.com/san-kum/kppsim/internal/physics"
)

// Series holds the per-step time series of a run. All slices have the same
// length and Time[k] == k*dt.
type Series struct {
	Time            []float64 `json:"time"`
	NetTorque       []float64 `json:"net_torque"`       // N·m at the sprocket
	NetForce        []float64 `json:"net_force"`        // N along the chain
	MechanicalPower []float64 `json:"mechanical_power"` // W
	ElectricalPower []float64 `json:"electrical_power"` // W
	ChainSpeed      []float64 `json:"chain_speed"`      // m/s
	AscendingForce  []float64 `json:"ascending_force"`  // N, air-filled side
	DescendingForce []float64 `json:"descending_force"` // N, water-filled side
}

func newSeries(n int) Series {
	return Series{
		Time:            make([]float64, 0, n),
		NetTorque:       make([]float64, 0, n),
		NetForce:        make([]float64, 0, n),
		MechanicalPower: make([]float64, 0, n),
		ElectricalPower: make([]float64, 0, n),
		ChainSpeed:      make([]float64, 0, n),
		AscendingForce:  make([]float64, 0, n),
		DescendingForce: make([]float64, 0, n),
	}
}

func (s *Series) Len() int { return len(s.Time) }

// SeriesFields lists the names accepted by Field.
var SeriesFields = []string{
	"net_torque", "net_force", "mechanical_power", "electrical_power",
	"chain_speed", "ascending_force", "descending_force",
}

// Field returns the series column with the given JSON name.
func (s *Series) Field(name string) ([]float64, error) {
	switch name {
	case "net_torque", "torque":
		return s.NetTorque, nil
	case "net_force", "force":
		return s.NetForce, nil
	case "mechanical_power":
		return s.MechanicalPower, nil
	case "electrical_power", "power":
		return s.ElectricalPower, nil
	case "chain_speed", "speed":
		return s.ChainSpeed, nil
	case "ascending_force":
		return s.AscendingForce, nil
	case "descending_force":
		return s.DescendingForce, nil
	}
	return nil, fmt.Errorf("unknown series: %s", name)
}

// Contribution is the share of the chain force attributable to one
// hypothesis: the difference between the force with and without it.
type Contribution struct {
	Force      []float64 `json:"force,omitempty"`
	MeanForce  float64   `json:"mean_force"`
	MeanTorque float64   `json:"mean_torque"`
	Energy     float64   `json:"energy"` // J of mechanical work
}

type Hypotheses struct {
	H1 Contribution `json:"h1"`
	H2 Contribution `json:"h2"`
	H3 Contribution `json:"h3"`
}

// InjectionEvent records one air injection.
type InjectionEvent struct {
	Floater int     `json:"floater"`
	Start   float64 `json:"start"`
}

// CycleResult is the full output of one run.
type CycleResult struct {
	Series     Series           `json:"series"`
	Hypotheses Hypotheses       `json:"hypotheses"`
	Injections []InjectionEvent `json:"injections,omitempty"`

	EnergyOut            float64 `json:"energy_out"`        // J electrical
	MechanicalEnergy     float64 `json:"mechanical_energy"` // J at the shaft
	EnergyIn             float64 `json:"energy_in"`         // J compressor
	Efficiency           float64 `json:"efficiency"`        // EnergyOut / EnergyIn, unclamped
	WaterHeatLoss        float64 `json:"water_heat_loss"`   // J drawn from the water by H2
	WaterTemperatureDrop float64 `json:"water_temperature_drop"`

	Period  float64 `json:"period"`
	Steps   int     `json:"steps"`
	Dt      float64 `json:"dt"`
	Stalled bool    `json:"stalled"`

	Metrics map[string]float64 `json:"metrics,omitempty"`
}

// Duration is the time span the energy integrals cover.
func (r *CycleResult) Duration() float64 {
	n := r.Series.Len()
	if n < 2 {
		return 0
	}
	return r.Series.Time[n-1] - r.Series.Time[0]
}

// MeanElectricalPower is EnergyOut averaged over the run.
func (r *CycleResult) MeanElectricalPower() float64 {
	d := r.Duration()
	if d == 0 {
		return 0
	}
	return r.EnergyOut / d
}

func (r *CycleResult) LogValue() slog.Value {
	return slog.GroupValue(
		slog.Int("steps", r.Steps),
		slog.Float64("period", r.Period),
		slog.Float64("energy_out", r.EnergyOut),
		slog.Float64("energy_in", r.EnergyIn),
		slog.Float64("efficiency", r.Efficiency),
		slog.Int("injections", len(r.Injections)),
		slog.Bool("stalled", r.Stalled),
	)
}

// Sample is one recorded step, as seen by metrics.
type Sample struct {
	Time            float64
	NetTorque       float64
	NetForce        float64
	MechanicalPower float64
	ElectricalPower float64
	ChainSpeed      float64
}

// Metric accumulates a scalar over the samples of a run.
type Metric interface {
	Name() string
	Observe(s Sample)
	Value() float64
	Reset()
}

// Observer is notified after every recorded step.
type Observer interface {
	OnStep(s Sample)
}

// ColumnObserver is an Observer that also wants the floaters at every
// step. The slice is only valid for the duration of the call.
type ColumnObserver interface {
	Observer
	OnColumn(step int, floaters []physics.Floater)
}
