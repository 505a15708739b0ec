package hypothesis

import (
	"math"

	"github.com/san-kum/kppsim/internal/simerr"
)

// H2 holds the isothermal-expansion coefficients.
type H2 struct {
	Enabled                bool
	HeatExchangeEfficiency float64
}

// IsothermalEnergyIdeal is n·R·T·ln(pBottom/pTop), the work of an ideal
// isothermal expansion from pBottom down to pTop.
func IsothermalEnergyIdeal(moles, gasConstant, tempK, pBottom, pTop float64) (float64, error) {
	if pTop <= 0 {
		return 0, simerr.NewConfigError("pressure_top", "> 0", pTop)
	}
	if pBottom <= pTop {
		return 0, simerr.NewConfigError("pressure_bottom", "> pressure_top", pBottom)
	}
	if moles < 0 {
		return 0, simerr.NewConfigError("moles", ">= 0", moles)
	}
	if tempK <= 0 {
		return 0, simerr.NewConfigError("temperature", "> 0 K", tempK)
	}
	return moles * gasConstant * tempK * math.Log(pBottom/pTop), nil
}

// IsothermalEnergyReal scales the ideal energy by the heat-exchange
// efficiency: 0 is adiabatic (no H2 effect), 1 fully isothermal.
func IsothermalEnergyReal(ideal, efficiency float64) (float64, error) {
	if efficiency < 0 || efficiency > 1 {
		return 0, simerr.NewConfigError("h2.heat_exchange_efficiency", "in [0, 1]", efficiency)
	}
	if efficiency == 0 {
		return 0, nil
	}
	return ideal * efficiency, nil
}

// IsothermalForceEquivalent spreads energy uniformly over the ascent as an
// average extra upward force. The real profile is not uniform; the average
// is enough for per-cycle energy accounting.
func IsothermalForceEquivalent(energy, ascentHeight float64) (float64, error) {
	if ascentHeight <= 0 {
		return 0, simerr.NewConfigError("ascent_height", "> 0", ascentHeight)
	}
	return energy / ascentHeight, nil
}

// WaterHeatLossPerCycle is the heat drawn from the reservoir by one floater
// per cycle. Isothermal work is paid for entirely by that heat.
func WaterHeatLossPerCycle(realEnergy float64) float64 {
	return realEnergy
}

// AdiabaticCompressionWork is the work to compress n moles adiabatically
// from p1 to p2 starting at tempK: γ/(γ−1)·nRT·((p2/p1)^((γ−1)/γ) − 1).
func AdiabaticCompressionWork(moles, gasConstant, tempK, p1, p2, gamma float64) (float64, error) {
	if p1 <= 0 {
		return 0, simerr.NewConfigError("pressure_in", "> 0", p1)
	}
	if p2 < p1 {
		return 0, simerr.NewConfigError("pressure_out", ">= pressure_in", p2)
	}
	if gamma <= 1 {
		return 0, simerr.NewConfigError("injection.heat_capacity_ratio", "> 1", gamma)
	}
	k := (gamma - 1) / gamma
	return moles * gasConstant * tempK / k * (math.Pow(p2/p1, k) - 1), nil
}

// Moles of an ideal gas occupying volume at pressure and tempK.
func Moles(pressure, volume, gasConstant, tempK float64) float64 {
	return pressure * volume / (gasConstant * tempK)
}
