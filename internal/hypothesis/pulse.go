package hypothesis

import (
	"github.com/san-kum/kppsim/internal/physics"
	"github.com/san-kum/kppsim/internal/simerr"
)

// H3 holds the injection-pulse coefficients.
type H3 struct {
	Enabled     bool
	JetVelocity float64 // m/s
}

// PulseInput is everything the injection pulse depends on.
type PulseInput struct {
	WaterDensity      float64
	InjectedAirVolume float64
	ShellMass         float64
	SprocketRadius    float64
	FillTime          float64
	JetVelocity       float64
}

// Pulse is the torque applied over [start, start+Duration] of an injection.
type Pulse struct {
	Torque         float64
	BuoyancyTorque float64
	JetTorque      float64
	Duration       float64
}

// BuoyancyPulseTorque is (ρ·V_air·g − m·g)·r, the steady torque of a fully
// air-filled floater, applied as a pulse during the fill.
func BuoyancyPulseTorque(waterDensity, airVolume, shellMass, radius float64) float64 {
	return (physics.BuoyantForce(waterDensity, airVolume) - shellMass*physics.Gravity) * radius
}

// JetPulseTorque is the reaction torque of the water expelled while air
// fills the floater: ṁ = ρ·V/t_fill, F = ṁ·v_jet, T = F·r.
func JetPulseTorque(waterDensity, airVolume, fillTime, jetVelocity, radius float64) (float64, error) {
	if fillTime <= 0 {
		return 0, simerr.NewConfigError("injection.fill_time", "> 0", fillTime)
	}
	massFlow := waterDensity * airVolume / fillTime
	return massFlow * jetVelocity * radius, nil
}

// TotalInjectionPulse sums the buoyancy and jet torques.
func TotalInjectionPulse(in PulseInput) (Pulse, error) {
	if in.SprocketRadius <= 0 {
		return Pulse{}, simerr.NewConfigError("drivetrain.sprocket_radius", "> 0", in.SprocketRadius)
	}
	jet, err := JetPulseTorque(in.WaterDensity, in.InjectedAirVolume, in.FillTime, in.JetVelocity, in.SprocketRadius)
	if err != nil {
		return Pulse{}, err
	}
	bang := BuoyancyPulseTorque(in.WaterDensity, in.InjectedAirVolume, in.ShellMass, in.SprocketRadius)
	return Pulse{
		Torque:         bang + jet,
		BuoyancyTorque: bang,
		JetTorque:      jet,
		Duration:       in.FillTime,
	}, nil
}
