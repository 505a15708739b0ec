package drivetrain

// Flywheel is a first-order lag between the sprocket shaft and the
// generator, engaged through the clutch in pulse mode.
type Flywheel struct {
	TimeConstant float64 // s, 0 passes power straight through
	Efficiency   float64
	level        float64
	primed       bool
}

func NewFlywheel(timeConstant, efficiency float64) *Flywheel {
	return &Flywheel{TimeConstant: timeConstant, Efficiency: efficiency}
}

// Smooth feeds one sample of shaft power and returns the power delivered
// downstream of the flywheel.
func (f *Flywheel) Smooth(power, dt float64) float64 {
	if f.TimeConstant <= 0 {
		return power * f.Efficiency
	}
	if !f.primed {
		f.level = power
		f.primed = true
		return f.level * f.Efficiency
	}
	alpha := dt / (f.TimeConstant + dt)
	f.level += alpha * (power - f.level)
	return f.level * f.Efficiency
}

func (f *Flywheel) Reset() {
	f.level = 0
	f.primed = false
}
