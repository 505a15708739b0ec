package config

import (
	"fmt"
	"sort"
)

type accessor struct {
	get func(*Params) float64
	set func(*Params, float64)
}

func floatField(f func(*Params) *float64) accessor {
	return accessor{
		get: func(p *Params) float64 { return *f(p) },
		set: func(p *Params, v float64) { *f(p) = v },
	}
}

func intField(f func(*Params) *int) accessor {
	return accessor{
		get: func(p *Params) float64 { return float64(*f(p)) },
		set: func(p *Params, v float64) { *f(p) = int(v) },
	}
}

func boolField(f func(*Params) *bool) accessor {
	return accessor{
		get: func(p *Params) float64 {
			if *f(p) {
				return 1
			}
			return 0
		},
		set: func(p *Params, v float64) { *f(p) = v != 0 },
	}
}

// fields maps the dotted YAML path of every numeric parameter to its storage.
var fields = map[string]accessor{
	"floater.count":              intField(func(p *Params) *int { return &p.Floater.Count }),
	"floater.volume":             floatField(func(p *Params) *float64 { return &p.Floater.Volume }),
	"floater.shell_mass":         floatField(func(p *Params) *float64 { return &p.Floater.ShellMass }),
	"floater.cross_section_area": floatField(func(p *Params) *float64 { return &p.Floater.CrossSectionArea }),
	"floater.drag_coefficient":   floatField(func(p *Params) *float64 { return &p.Floater.DragCoefficient }),

	"environment.column_height":     floatField(func(p *Params) *float64 { return &p.Environment.ColumnHeight }),
	"environment.water_density":     floatField(func(p *Params) *float64 { return &p.Environment.WaterDensity }),
	"environment.air_density":       floatField(func(p *Params) *float64 { return &p.Environment.AirDensity }),
	"environment.water_temperature": floatField(func(p *Params) *float64 { return &p.Environment.WaterTemperature }),

	"drivetrain.sprocket_radius":        floatField(func(p *Params) *float64 { return &p.Drivetrain.SprocketRadius }),
	"drivetrain.chain_speed":            floatField(func(p *Params) *float64 { return &p.Drivetrain.ChainSpeed }),
	"drivetrain.gearbox_efficiency":     floatField(func(p *Params) *float64 { return &p.Drivetrain.GearboxEfficiency }),
	"drivetrain.clutch_efficiency":      floatField(func(p *Params) *float64 { return &p.Drivetrain.ClutchEfficiency }),
	"drivetrain.flywheel_efficiency":    floatField(func(p *Params) *float64 { return &p.Drivetrain.FlywheelEfficiency }),
	"drivetrain.generator_efficiency":   floatField(func(p *Params) *float64 { return &p.Drivetrain.GeneratorEfficiency }),
	"drivetrain.flywheel_time_constant": floatField(func(p *Params) *float64 { return &p.Drivetrain.FlywheelTimeConstant }),
	"drivetrain.flywheel_inertia":       floatField(func(p *Params) *float64 { return &p.Drivetrain.FlywheelInertia }),

	"injection.fill_time":             floatField(func(p *Params) *float64 { return &p.Injection.FillTime }),
	"injection.vent_time":             floatField(func(p *Params) *float64 { return &p.Injection.VentTime }),
	"injection.air_volume":            floatField(func(p *Params) *float64 { return &p.Injection.AirVolume }),
	"injection.pressure":              floatField(func(p *Params) *float64 { return &p.Injection.Pressure }),
	"injection.compressor_efficiency": floatField(func(p *Params) *float64 { return &p.Injection.CompressorEfficiency }),
	"injection.heat_capacity_ratio":   floatField(func(p *Params) *float64 { return &p.Injection.HeatCapacityRatio }),

	"h1.enabled":        boolField(func(p *Params) *bool { return &p.H1.Enabled }),
	"h1.void_fraction":  floatField(func(p *Params) *float64 { return &p.H1.VoidFraction }),
	"h1.drag_reduction": floatField(func(p *Params) *float64 { return &p.H1.DragReduction }),

	"h2.enabled":                  boolField(func(p *Params) *bool { return &p.H2.Enabled }),
	"h2.heat_exchange_efficiency": floatField(func(p *Params) *float64 { return &p.H2.HeatExchangeEfficiency }),
	"h2.reservoir_mass":           floatField(func(p *Params) *float64 { return &p.H2.ReservoirMass }),

	"h3.enabled":      boolField(func(p *Params) *bool { return &p.H3.Enabled }),
	"h3.jet_velocity": floatField(func(p *Params) *float64 { return &p.H3.JetVelocity }),

	"simulation.dt":            floatField(func(p *Params) *float64 { return &p.Simulation.Dt }),
	"simulation.num_cycles":    intField(func(p *Params) *int { return &p.Simulation.NumCycles }),
	"simulation.controller.kp": floatField(func(p *Params) *float64 { return &p.Simulation.Controller.Kp }),
	"simulation.controller.ki": floatField(func(p *Params) *float64 { return &p.Simulation.Controller.Ki }),
	"simulation.controller.kd": floatField(func(p *Params) *float64 { return &p.Simulation.Controller.Kd }),
}

// ParamNames lists every numeric parameter addressable by Get and Set, sorted.
func ParamNames() []string {
	names := make([]string, 0, len(fields))
	for name := range fields {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Get reads a numeric parameter by dotted name. Booleans read as 0 or 1.
func (p *Params) Get(name string) (float64, error) {
	f, ok := fields[name]
	if !ok {
		return 0, fmt.Errorf("unknown parameter: %s", name)
	}
	return f.get(p), nil
}

// Set writes a numeric parameter by dotted name. Any non-zero value enables
// a boolean.
func (p *Params) Set(name string, value float64) error {
	f, ok := fields[name]
	if !ok {
		return fmt.Errorf("unknown parameter: %s", name)
	}
	f.set(p, value)
	return nil
}

// SetString handles the string-valued fields as well as anything Set accepts.
func (p *Params) SetString(name, value string) error {
	switch name {
	case "injection.compression":
		p.Injection.Compression = value
		return nil
	case "simulation.speed_mode":
		p.Simulation.SpeedMode = value
		return nil
	case "simulation.integrator":
		p.Simulation.Integrator = value
		return nil
	}

	var v float64
	switch value {
	case "true", "on":
		v = 1
	case "false", "off":
		v = 0
	default:
		if _, err := fmt.Sscanf(value, "%g", &v); err != nil {
			return fmt.Errorf("parameter %s: cannot parse %q", name, value)
		}
	}
	return p.Set(name, v)
}
