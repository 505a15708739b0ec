package viz

import (
	"github.com/san-kum/kppsim/internal/physics"
	"github.com/san-kum/kppsim/internal/sim"
)

// Frame is the column as it was at one recorded step.
type Frame struct {
	Time      float64
	Torque    float64
	Power     float64
	Speed     float64
	Positions []float64
	States    []physics.State
}

// Recorder keeps every Nth step of a run for the live viewer. Attach it
// with sim.Simulator.AddObserver.
type Recorder struct {
	every  int
	last   sim.Sample
	frames []Frame
}

func NewRecorder(every int) *Recorder {
	if every < 1 {
		every = 1
	}
	return &Recorder{every: every}
}

func (r *Recorder) OnStep(s sim.Sample) { r.last = s }

func (r *Recorder) OnColumn(step int, floaters []physics.Floater) {
	if step%r.every != 0 {
		return
	}
	f := Frame{
		Time:      r.last.Time,
		Torque:    r.last.NetTorque,
		Power:     r.last.ElectricalPower,
		Speed:     r.last.ChainSpeed,
		Positions: make([]float64, len(floaters)),
		States:    make([]physics.State, len(floaters)),
	}
	for i := range floaters {
		f.Positions[i] = floaters[i].Position
		f.States[i] = floaters[i].State
	}
	r.frames = append(r.frames, f)
}

func (r *Recorder) Frames() []Frame { return r.frames }
