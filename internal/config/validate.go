package config

import (
	"errors"
	"fmt"
	"math"

	"github.com/san-kum/kppsim/internal/physics"
	"github.com/san-kum/kppsim/internal/simerr"
)

// Validate checks every field against its documented range and returns all
// violations joined, so callers can report them at once.
func (p Params) Validate() error {
	var errs []error
	add := func(err error) {
		if err != nil {
			errs = append(errs, err)
		}
	}

	for _, name := range ParamNames() {
		v, _ := p.Get(name)
		add(simerr.Finite(name, v))
	}
	if len(errs) > 0 {
		return errors.Join(errs...)
	}

	positive := func(field string, v float64) {
		if v <= 0 {
			add(simerr.NewConfigError(field, "> 0", v))
		}
	}
	unitOpen := func(field string, v float64) {
		if v <= 0 || v > 1 {
			add(simerr.NewConfigError(field, "in (0, 1]", v))
		}
	}

	if p.Floater.Count < 1 || p.Floater.Count > MaxFloaters {
		add(simerr.NewConfigError("floater.count", fmt.Sprintf("in [1, %d]", MaxFloaters), float64(p.Floater.Count)))
	}
	positive("floater.volume", p.Floater.Volume)
	if p.Floater.ShellMass < 0 {
		add(simerr.NewConfigError("floater.shell_mass", ">= 0", p.Floater.ShellMass))
	}
	positive("floater.cross_section_area", p.Floater.CrossSectionArea)
	if p.Floater.DragCoefficient < 0 {
		add(simerr.NewConfigError("floater.drag_coefficient", ">= 0", p.Floater.DragCoefficient))
	}

	if p.Environment.ColumnHeight != physics.ColumnHeight {
		add(simerr.NewConfigError("environment.column_height", fmt.Sprint(physics.ColumnHeight), p.Environment.ColumnHeight))
	}
	positive("environment.water_density", p.Environment.WaterDensity)
	if p.Environment.AirDensity < 0 {
		add(simerr.NewConfigError("environment.air_density", ">= 0", p.Environment.AirDensity))
	}
	positive("environment.water_temperature", p.Environment.WaterTemperature)

	positive("drivetrain.sprocket_radius", p.Drivetrain.SprocketRadius)
	positive("drivetrain.chain_speed", p.Drivetrain.ChainSpeed)
	unitOpen("drivetrain.gearbox_efficiency", p.Drivetrain.GearboxEfficiency)
	unitOpen("drivetrain.clutch_efficiency", p.Drivetrain.ClutchEfficiency)
	unitOpen("drivetrain.flywheel_efficiency", p.Drivetrain.FlywheelEfficiency)
	unitOpen("drivetrain.generator_efficiency", p.Drivetrain.GeneratorEfficiency)
	if p.Drivetrain.FlywheelTimeConstant < 0 {
		add(simerr.NewConfigError("drivetrain.flywheel_time_constant", ">= 0", p.Drivetrain.FlywheelTimeConstant))
	}
	if p.Drivetrain.FlywheelInertia < 0 {
		add(simerr.NewConfigError("drivetrain.flywheel_inertia", ">= 0", p.Drivetrain.FlywheelInertia))
	}

	positive("injection.fill_time", p.Injection.FillTime)
	positive("injection.vent_time", p.Injection.VentTime)
	if p.Injection.AirVolume < 0 {
		add(simerr.NewConfigError("injection.air_volume", ">= 0", p.Injection.AirVolume))
	}
	if pr := p.Injection.Pressure; pr != 0 && pr < p.BottomPressure() {
		add(simerr.NewConfigError("injection.pressure",
			fmt.Sprintf("0 or >= %.0f Pa", p.BottomPressure()), pr))
	}
	unitOpen("injection.compressor_efficiency", p.Injection.CompressorEfficiency)
	switch p.Injection.Compression {
	case CompressionIsothermal:
	case CompressionAdiabatic:
		if p.Injection.HeatCapacityRatio <= 1 {
			add(simerr.NewConfigError("injection.heat_capacity_ratio", "> 1", p.Injection.HeatCapacityRatio))
		}
	default:
		add(simerr.NewConfigError("injection.compression", "isothermal or adiabatic", math.NaN()))
	}

	// h1.void_fraction above the model limit is clamped at run time, not rejected.
	if v := p.H1.VoidFraction; v < 0 || v >= 1 {
		add(simerr.NewConfigError("h1.void_fraction", "in [0, 1)", v))
	}
	if v := p.H1.DragReduction; v < 0 || v >= 1 {
		add(simerr.NewConfigError("h1.drag_reduction", "in [0, 1)", v))
	}
	if v := p.H2.HeatExchangeEfficiency; v < 0 || v > 1 {
		add(simerr.NewConfigError("h2.heat_exchange_efficiency", "in [0, 1]", v))
	}
	if p.H2.ReservoirMass < 0 {
		add(simerr.NewConfigError("h2.reservoir_mass", ">= 0", p.H2.ReservoirMass))
	}
	if p.H3.JetVelocity < 0 {
		add(simerr.NewConfigError("h3.jet_velocity", ">= 0", p.H3.JetVelocity))
	}

	positive("simulation.dt", p.Simulation.Dt)
	if p.Simulation.NumCycles < 1 {
		add(simerr.NewConfigError("simulation.num_cycles", ">= 1", float64(p.Simulation.NumCycles)))
	}
	switch p.Simulation.SpeedMode {
	case SpeedFixed:
	case SpeedDynamic:
		switch p.Simulation.Integrator {
		case "euler", "rk4":
		default:
			add(simerr.NewConfigError("simulation.integrator", "euler or rk4", math.NaN()))
		}
	default:
		add(simerr.NewConfigError("simulation.speed_mode", "fixed or dynamic", math.NaN()))
	}

	// Dwell windows must span at least one step or the state machine
	// could skip them.
	if dt := p.Simulation.Dt; dt > 0 {
		if p.Injection.FillTime > 0 && p.Injection.FillTime < dt {
			add(simerr.NewConfigError("injection.fill_time", fmt.Sprintf(">= dt (%g)", dt), p.Injection.FillTime))
		}
		if p.Injection.VentTime > 0 && p.Injection.VentTime < dt {
			add(simerr.NewConfigError("injection.vent_time", fmt.Sprintf(">= dt (%g)", dt), p.Injection.VentTime))
		}
	}

	// Step count is computed in float64 so that huge cycle counts cannot
	// wrap around before the comparison.
	if len(errs) == 0 {
		perCycle := p.Period() / p.Simulation.Dt
		switch {
		case perCycle > MaxSteps:
			add(simerr.NewConfigError("simulation.dt",
				fmt.Sprintf(">= %g (at most %d steps)", p.Period()/MaxSteps, MaxSteps), p.Simulation.Dt))
		case float64(p.Simulation.NumCycles)*perCycle > MaxSteps:
			add(simerr.NewConfigError("simulation.num_cycles",
				fmt.Sprintf("<= %d (at most %d steps)", int(MaxSteps/perCycle), MaxSteps), float64(p.Simulation.NumCycles)))
		}
	}

	return errors.Join(errs...)
}
