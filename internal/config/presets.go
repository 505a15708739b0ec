package config

import "sort"

// Presets are named starting points. Each function starts from Default so
// presets never share mutable state.
var Presets = map[string]func() Params{
	"baseline": Default,
	"h1": func() Params {
		p := Default()
		p.H1.Enabled = true
		p.H1.VoidFraction = 0.2
		return p
	},
	"h2": func() Params {
		p := Default()
		p.H2.Enabled = true
		p.H2.HeatExchangeEfficiency = 1.0
		return p
	},
	"h3": func() Params {
		p := Default()
		p.H3.Enabled = true
		p.Drivetrain.FlywheelTimeConstant = 2.0
		return p
	},
	"all": func() Params {
		p := Default()
		p.H1.Enabled = true
		p.H2.Enabled = true
		p.H3.Enabled = true
		p.Drivetrain.FlywheelTimeConstant = 2.0
		return p
	},
	"dynamic": func() Params {
		p := Default()
		p.Simulation.SpeedMode = SpeedDynamic
		p.Simulation.NumCycles = 2
		p.Drivetrain.FlywheelInertia = 50
		return p
	},
}

// GetPreset returns a fresh copy of the named preset.
func GetPreset(name string) (Params, bool) {
	fn, ok := Presets[name]
	if !ok {
		return Params{}, false
	}
	return fn(), true
}

func ListPresets() []string {
	names := make([]string, 0, len(Presets))
	for name := range Presets {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
