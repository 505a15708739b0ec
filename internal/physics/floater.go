package physics

import "fmt"

// State is the position of a floater in its fill/vent cycle.
type State int

const (
	WaterFilled State = iota
	Injecting
	AirFilledAscending
	Venting
	WaterFilledDescending
)

var stateNames = [...]string{
	WaterFilled:           "WATER_FILLED",
	Injecting:             "INJECTING",
	AirFilledAscending:    "AIR_FILLED_ASCENDING",
	Venting:               "VENTING",
	WaterFilledDescending: "WATER_FILLED_DESCENDING",
}

func (s State) String() string {
	if s.Valid() {
		return stateNames[s]
	}
	return fmt.Sprintf("State(%d)", int(s))
}

func (s State) Valid() bool { return s >= WaterFilled && s <= WaterFilledDescending }

// Next returns the only state s may transition to.
func (s State) Next() State {
	if s == WaterFilledDescending {
		return WaterFilled
	}
	return s + 1
}

// CanTransition reports whether s -> to is a legal single step of the cycle.
func (s State) CanTransition(to State) bool {
	return s.Valid() && to.Valid() && s.Next() == to
}

// HoldsWater reports whether the floater carries ballast water in s.
// Injecting counts as water-filled until the fill window closes.
func (s State) HoldsWater() bool {
	switch s {
	case WaterFilled, Injecting, WaterFilledDescending:
		return true
	}
	return false
}

// Floater is one container on the chain. Position is height above the
// bottom of the column; Velocity is signed, positive upward.
type Floater struct {
	Volume           float64 // m³
	ShellMass        float64 // kg, structure only
	CrossSectionArea float64 // m²
	DragCoefficient  float64
	BallastDensity   float64 // kg/m³ of the water carried when water-filled

	State    State
	Position float64 // m
	Velocity float64 // m/s

	// StateTime is the time spent in the current state.
	StateTime float64
	// InjectionStart is the simulation time the current injection began.
	InjectionStart float64
}

// Mass is the total carried mass, including ballast water when filled.
func (f *Floater) Mass() float64 {
	m := f.ShellMass
	if f.State.HoldsWater() {
		m += f.BallastDensity * f.Volume
	}
	return m
}

// Weight is the downward gravitational force on the floater, returned positive.
func (f *Floater) Weight() float64 {
	return f.Mass() * Gravity
}

// Transition moves the floater to the next state and resets its state clock.
func (f *Floater) Transition(to State) error {
	if !f.State.CanTransition(to) {
		return fmt.Errorf("illegal transition %s -> %s", f.State, to)
	}
	f.State = to
	f.StateTime = 0
	return nil
}
