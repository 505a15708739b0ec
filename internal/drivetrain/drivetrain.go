// Package drivetrain converts mechanical shaft power into electrical output.
package drivetrain

import (
	"github.com/san-kum/kppsim/internal/simerr"
)

// Efficiencies of each drivetrain stage, all in (0, 1].
type Efficiencies struct {
	Gearbox   float64
	Clutch    float64
	Flywheel  float64
	Generator float64
}

func checkEfficiency(field string, v float64) error {
	if err := simerr.Finite(field, v); err != nil {
		return err
	}
	if v <= 0 || v > 1 {
		return simerr.NewConfigError(field, "in (0, 1]", v)
	}
	return nil
}

// ConvertToElectrical is P_mech · η_gearbox · η_clutch · η_generator.
func ConvertToElectrical(mechanicalPower, gearboxEff, clutchEff, generatorEff float64) (float64, error) {
	if err := checkEfficiency("drivetrain.gearbox_efficiency", gearboxEff); err != nil {
		return 0, err
	}
	if err := checkEfficiency("drivetrain.clutch_efficiency", clutchEff); err != nil {
		return 0, err
	}
	if err := checkEfficiency("drivetrain.generator_efficiency", generatorEff); err != nil {
		return 0, err
	}
	return mechanicalPower * gearboxEff * clutchEff * generatorEff, nil
}

// CycleEfficiency is energy out over energy in. It is not clamped: values
// above 1 are returned as-is. Zero input yields zero.
func CycleEfficiency(energyOut, energyIn float64) float64 {
	if energyIn == 0 {
		return 0
	}
	return energyOut / energyIn
}
