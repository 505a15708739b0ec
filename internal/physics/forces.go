package physics

import "math"

// BuoyantForce is Archimedes' principle, ρ·V·g, returned positive.
func BuoyantForce(fluidDensity, volume float64) float64 {
	return fluidDensity * volume * Gravity
}

// DragForce is quadratic drag 0.5·Cd·ρ·A·v² signed against velocity.
func DragForce(fluidDensity, dragCoeff, area, velocity float64) float64 {
	magnitude := 0.5 * dragCoeff * fluidDensity * area * velocity * velocity
	return -math.Copysign(magnitude, velocity)
}

// NetVerticalForce combines buoyancy, weight and drag on f immersed in a
// fluid of the given density. Positive is upward.
func NetVerticalForce(f Floater, fluidDensity float64) float64 {
	buoyancy := BuoyantForce(fluidDensity, f.Volume)
	drag := DragForce(fluidDensity, f.DragCoefficient, f.CrossSectionArea, f.Velocity)
	return buoyancy - f.Weight() + drag
}
