package sim

import (
	"fmt"
	"log/slog"
	"math"

	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/integrate"

	"github.com/san-kum/kppsim/internal/config"
	"github.com/san-kum/kppsim/internal/control"
	"github.com/san-kum/kppsim/internal/drivetrain"
	"github.com/san-kum/kppsim/internal/dynamo"
	"github.com/san-kum/kppsim/internal/integrators"
	"github.com/san-kum/kppsim/internal/physics"
	"github.com/san-kum/kppsim/internal/simerr"
)

// Simulator runs the cycle orchestrator. A Simulator may be reused for
// sequential runs; every run builds its own floaters. Attached metrics are
// stateful, so a Simulator must not be shared between goroutines.
type Simulator struct {
	logger    *slog.Logger
	metrics   []Metric
	observers []Observer
}

func New() *Simulator {
	return &Simulator{
		logger:    slog.Default(),
		metrics:   make([]Metric, 0),
		observers: make([]Observer, 0),
	}
}

func (s *Simulator) WithLogger(l *slog.Logger) *Simulator {
	if l != nil {
		s.logger = l
	}
	return s
}

func (s *Simulator) AddMetric(m Metric)     { s.metrics = append(s.metrics, m) }
func (s *Simulator) AddObserver(o Observer) { s.observers = append(s.observers, o) }

// RunSimulation validates p and runs it with no metrics attached.
func RunSimulation(p config.Params) (*CycleResult, error) {
	return New().Run(p)
}

// StepsPerCycle is the number of samples covering one nominal period.
func StepsPerCycle(p config.Params) int {
	return int(math.Ceil(p.Period()/p.Simulation.Dt - timeEps))
}

// Run executes num_cycles periods of the plant described by p. It either
// returns a complete result or an error, never both.
func (s *Simulator) Run(p config.Params) (*CycleResult, error) {
	if err := p.Validate(); err != nil {
		return nil, err
	}

	pl, err := newPlant(p)
	if err != nil {
		return nil, err
	}

	dt := p.Simulation.Dt
	total := p.Simulation.NumCycles * StepsPerCycle(p)
	dynamic := p.Simulation.SpeedMode == config.SpeedDynamic
	dtr := p.Drivetrain

	s.logger.Debug("run start",
		"floaters", len(pl.floaters),
		"steps", total,
		"speed_mode", p.Simulation.SpeedMode,
		"h1", p.H1.Enabled, "h2", p.H2.Enabled, "h3", p.H3.Enabled)

	for _, m := range s.metrics {
		m.Reset()
	}

	var flywheel *drivetrain.Flywheel
	if p.H3.Enabled {
		flywheel = drivetrain.NewFlywheel(dtr.FlywheelTimeConstant, dtr.FlywheelEfficiency)
	}

	var (
		integ dynamo.Integrator
		ctrl  dynamo.Controller
		dyn   *chain
		x     dynamo.State
	)
	if dynamic {
		integ, err = integrators.ByName(p.Simulation.Integrator)
		if err != nil {
			return nil, err
		}
		g := p.Simulation.Controller
		ctrl = control.New(control.Gains{Kp: g.Kp, Ki: g.Ki, Kd: g.Kd}, dtr.ChainSpeed)
		dyn = newChain(pl)
		x = dynamo.State{dtr.ChainSpeed}
	}

	result := &CycleResult{
		Series:  newSeries(total),
		Period:  p.Period(),
		Steps:   total,
		Dt:      dt,
		Metrics: make(map[string]float64),
	}
	h1 := make([]float64, 0, total)
	h2 := make([]float64, 0, total)
	h3 := make([]float64, 0, total)
	speeds := make([]float64, 0, total)

	inject := func(i int, start float64) {
		result.Injections = append(result.Injections, InjectionEvent{Floater: i, Start: start})
		result.EnergyIn += pl.injectionWork
		result.WaterHeatLoss += pl.h2Energy
	}
	for i := range pl.floaters {
		if pl.floaters[i].State == physics.Injecting {
			inject(i, pl.floaters[i].InjectionStart)
		}
	}

	for k := 0; k < total; k++ {
		t := float64(k) * dt

		for i := range pl.floaters {
			injected, err := pl.transition(i, k, t)
			if err != nil {
				return nil, err
			}
			if injected {
				inject(i, t)
			}
		}

		v := dtr.ChainSpeed
		if dynamic {
			v = x[0]
		}

		f := pl.chainForces(v)
		force := f.total()
		if math.IsNaN(force) || math.IsInf(force, 0) {
			return nil, &simerr.InternalError{Floater: -1, Step: k, Time: t, State: "chain",
				Message: fmt.Sprintf("non-finite chain force %g", force)}
		}

		var mech float64
		if dynamic {
			load := loadFrom(ctrl.Compute(x, t))
			mech = load * v
			x = integ.Step(dyn, x, dynamo.Control{load}, t, dt)
			if !x.IsValid() {
				return nil, &simerr.InternalError{Floater: -1, Step: k, Time: t, State: "chain",
					Message: "non-finite chain speed"}
			}
			if x[0] <= 0 {
				x[0] = 0
				result.Stalled = true
			}
		} else {
			mech = force * v
		}

		shaft := mech
		if flywheel != nil {
			shaft = flywheel.Smooth(mech, dt)
		}
		elec, err := drivetrain.ConvertToElectrical(shaft, dtr.GearboxEfficiency, dtr.ClutchEfficiency, dtr.GeneratorEfficiency)
		if err != nil {
			return nil, err
		}

		sample := Sample{
			Time:            t,
			NetTorque:       force * pl.radius,
			NetForce:        force,
			MechanicalPower: mech,
			ElectricalPower: elec,
			ChainSpeed:      v,
		}
		result.Series.append(sample, f.ascending, f.descending)
		h1 = append(h1, f.h1)
		h2 = append(h2, f.h2)
		h3 = append(h3, f.pulse)
		speeds = append(speeds, v)

		for _, m := range s.metrics {
			m.Observe(sample)
		}
		for _, o := range s.observers {
			o.OnStep(sample)
			if co, ok := o.(ColumnObserver); ok {
				co.OnColumn(k, pl.floaters)
			}
		}

		pl.advance(v, dt)
	}

	series := result.Series
	result.MechanicalEnergy = trapezoid(series.Time, series.MechanicalPower)
	result.EnergyOut = trapezoid(series.Time, series.ElectricalPower)
	result.Efficiency = drivetrain.CycleEfficiency(result.EnergyOut, result.EnergyIn)

	result.Hypotheses = Hypotheses{
		H1: contribution(h1, speeds, series.Time, pl.radius),
		H2: contribution(h2, speeds, series.Time, pl.radius),
		H3: contribution(h3, speeds, series.Time, pl.radius),
	}

	if m := p.H2.ReservoirMass; m > 0 {
		result.WaterTemperatureDrop = result.WaterHeatLoss / (m * physics.WaterSpecificHeat)
	}

	for _, m := range s.metrics {
		result.Metrics[m.Name()] = m.Value()
	}

	if result.Efficiency > 1 {
		s.logger.Warn("over-unity result is a modeling artifact",
			"efficiency", result.Efficiency,
			"energy_out", result.EnergyOut,
			"energy_in", result.EnergyIn)
	}
	s.logger.Debug("run complete", "result", result)

	return result, nil
}

func (s *Series) append(sm Sample, ascending, descending float64) {
	s.Time = append(s.Time, sm.Time)
	s.NetTorque = append(s.NetTorque, sm.NetTorque)
	s.NetForce = append(s.NetForce, sm.NetForce)
	s.MechanicalPower = append(s.MechanicalPower, sm.MechanicalPower)
	s.ElectricalPower = append(s.ElectricalPower, sm.ElectricalPower)
	s.ChainSpeed = append(s.ChainSpeed, sm.ChainSpeed)
	s.AscendingForce = append(s.AscendingForce, ascending)
	s.DescendingForce = append(s.DescendingForce, descending)
}

func contribution(force, speed, time []float64, radius float64) Contribution {
	c := Contribution{Force: force}
	if len(force) == 0 {
		return c
	}
	c.MeanForce = floats.Sum(force) / float64(len(force))
	c.MeanTorque = c.MeanForce * radius

	power := make([]float64, len(force))
	floats.MulTo(power, force, speed)
	c.Energy = trapezoid(time, power)
	return c
}

func trapezoid(x, f []float64) float64 {
	if len(x) < 2 {
		return 0
	}
	return integrate.Trapezoidal(x, f)
}
