package sim

import (
	"fmt"
	"math"

	"github.com/san-kum/kppsim/internal/config"
	"github.com/san-kum/kppsim/internal/hypothesis"
	"github.com/san-kum/kppsim/internal/physics"
	"github.com/san-kum/kppsim/internal/simerr"
)

const timeEps = 1e-9

// plant is the run-scoped mutable state: the floaters plus every per-run
// constant derived from the parameters. Nothing in it outlives a run.
type plant struct {
	p        config.Params
	floaters []physics.Floater

	height float64
	radius float64

	// Effective fluid seen by descending floaters, after H1.
	descDensity float64
	descDrag    float64

	h2Force    float64 // extra upward force per ascending floater
	h2Energy   float64 // real isothermal work per ascent
	pulseForce float64 // H3 force per injecting floater

	injectionWork float64 // compressor energy per injection, J
}

// forces is the chain force breakdown at one instant. The hypothesis
// fields are already included in the totals.
type forces struct {
	ascending  float64
	descending float64
	pulse      float64
	h1         float64
	h2         float64
	mass       float64
}

func (f forces) total() float64 {
	return f.ascending + f.descending + f.pulse
}

func newPlant(p config.Params) (*plant, error) {
	pl := &plant{
		p:      p,
		height: p.Environment.ColumnHeight,
		radius: p.Drivetrain.SprocketRadius,
	}

	density, drag, err := hypothesis.ApplyH1(p.Environment.WaterDensity, p.Floater.DragCoefficient, hypothesis.H1{
		Enabled:       p.H1.Enabled,
		VoidFraction:  p.H1.VoidFraction,
		DragReduction: p.H1.DragReduction,
	})
	if err != nil {
		return nil, err
	}
	if density <= 0 {
		return nil, &simerr.InternalError{Floater: -1, State: "setup",
			Message: fmt.Sprintf("non-positive effective density %g", density)}
	}
	pl.descDensity, pl.descDrag = density, drag

	temp := p.Environment.WaterTemperature
	pBottom := p.BottomPressure()
	moles := hypothesis.Moles(pBottom, p.AirVolume(), physics.GasConstant, temp)

	if p.H2.Enabled {
		ideal, err := hypothesis.IsothermalEnergyIdeal(moles, physics.GasConstant, temp, pBottom, physics.AtmosphericPressure)
		if err != nil {
			return nil, fmt.Errorf("h2: %w", err)
		}
		recovered, err := hypothesis.IsothermalEnergyReal(ideal, p.H2.HeatExchangeEfficiency)
		if err != nil {
			return nil, err
		}
		force, err := hypothesis.IsothermalForceEquivalent(recovered, pl.height)
		if err != nil {
			return nil, err
		}
		pl.h2Energy = recovered
		pl.h2Force = force
	}

	if p.H3.Enabled {
		pulse, err := hypothesis.TotalInjectionPulse(hypothesis.PulseInput{
			WaterDensity:      p.Environment.WaterDensity,
			InjectedAirVolume: p.AirVolume(),
			ShellMass:         p.Floater.ShellMass,
			SprocketRadius:    pl.radius,
			FillTime:          p.Injection.FillTime,
			JetVelocity:       p.H3.JetVelocity,
		})
		if err != nil {
			return nil, err
		}
		pl.pulseForce = pulse.Torque / pl.radius
	}

	work, err := compressionWork(p, moles)
	if err != nil {
		return nil, err
	}
	pl.injectionWork = work

	pl.place()
	return pl, nil
}

// compressionWork is the compressor energy for one injection of moles
// drawn from the atmosphere.
func compressionWork(p config.Params, moles float64) (float64, error) {
	temp := p.Environment.WaterTemperature
	pInj := p.InjectionPressure()

	var work float64
	var err error
	switch p.Injection.Compression {
	case config.CompressionAdiabatic:
		work, err = hypothesis.AdiabaticCompressionWork(moles, physics.GasConstant, temp,
			physics.AtmosphericPressure, pInj, p.Injection.HeatCapacityRatio)
	default:
		work, err = hypothesis.IsothermalEnergyIdeal(moles, physics.GasConstant, temp, pInj, physics.AtmosphericPressure)
	}
	if err != nil {
		return 0, fmt.Errorf("injection: %w", err)
	}
	return work / p.Injection.CompressorEfficiency, nil
}

// place spreads the floaters evenly around the loop by phase.
func (pl *plant) place() {
	p := pl.p
	n := p.Floater.Count
	v := p.Drivetrain.ChainSpeed
	fill := p.Injection.FillTime
	vent := p.Injection.VentTime
	travel := pl.height / v
	period := p.Period()

	pl.floaters = make([]physics.Floater, n)
	for i := range pl.floaters {
		f := physics.Floater{
			Volume:           p.Floater.Volume,
			ShellMass:        p.Floater.ShellMass,
			CrossSectionArea: p.Floater.CrossSectionArea,
			DragCoefficient:  p.Floater.DragCoefficient,
			BallastDensity:   p.Environment.WaterDensity,
		}

		tau := float64(i) * period / float64(n)
		switch {
		case tau < fill:
			f.State = physics.Injecting
			f.Position = 0
			f.StateTime = tau
			f.InjectionStart = -tau
		case tau < fill+travel:
			f.State = physics.AirFilledAscending
			f.Position = (tau - fill) * v
			f.StateTime = tau - fill
		case tau < fill+travel+vent:
			f.State = physics.Venting
			f.Position = pl.height
			f.StateTime = tau - fill - travel
		default:
			f.State = physics.WaterFilledDescending
			f.StateTime = tau - fill - travel - vent
			f.Position = math.Max(0, pl.height-f.StateTime*v)
		}
		pl.floaters[i] = f
	}
}

// transition advances the state machine of floater i at the start of a
// step. It reports whether an injection began.
func (pl *plant) transition(i, step int, t float64) (injected bool, err error) {
	f := &pl.floaters[i]
	fail := func(msg string) error {
		return &simerr.InternalError{Floater: i, Step: step, Time: t, State: f.State.String(), Message: msg}
	}
	move := func(to physics.State) error {
		if err := f.Transition(to); err != nil {
			return fail(err.Error())
		}
		return nil
	}

	switch f.State {
	case physics.WaterFilledDescending:
		if f.Position > timeEps {
			return false, nil
		}
		f.Position = 0
		if err := move(physics.WaterFilled); err != nil {
			return false, err
		}
		fallthrough
	case physics.WaterFilled:
		if err := move(physics.Injecting); err != nil {
			return false, err
		}
		f.InjectionStart = t
		return true, nil
	case physics.Injecting:
		if f.StateTime < pl.p.Injection.FillTime-timeEps {
			return false, nil
		}
		return false, move(physics.AirFilledAscending)
	case physics.AirFilledAscending:
		if f.Position < pl.height-timeEps {
			return false, nil
		}
		f.Position = pl.height
		return false, move(physics.Venting)
	case physics.Venting:
		if f.StateTime < pl.p.Injection.VentTime-timeEps {
			return false, nil
		}
		return false, move(physics.WaterFilledDescending)
	}
	return false, fail("unreachable floater state")
}

// chainForces sums the force every floater puts on the chain when the
// chain moves at speed v. Ascending and descending contributions are both
// positive when they drive the chain forward.
func (pl *plant) chainForces(v float64) forces {
	var out forces
	water := pl.p.Environment.WaterDensity

	for i := range pl.floaters {
		f := pl.floaters[i]
		out.mass += f.Mass()

		switch f.State {
		case physics.AirFilledAscending:
			f.Velocity = v
			out.ascending += physics.NetVerticalForce(f, water) + pl.h2Force
			out.h2 += pl.h2Force
		case physics.WaterFilledDescending:
			f.Velocity = -v
			base := -physics.NetVerticalForce(f, water)

			eff := f
			eff.DragCoefficient = pl.descDrag
			withH1 := -physics.NetVerticalForce(eff, pl.descDensity)

			out.descending += withH1
			out.h1 += withH1 - base
		case physics.Injecting:
			out.pulse += pl.pulseForce
		}
	}
	return out
}

// advance moves every travelling floater by v*dt and ticks state clocks.
func (pl *plant) advance(v, dt float64) {
	for i := range pl.floaters {
		f := &pl.floaters[i]
		switch f.State {
		case physics.AirFilledAscending:
			f.Velocity = v
			f.Position = math.Min(pl.height, f.Position+v*dt)
		case physics.WaterFilledDescending:
			f.Velocity = -v
			f.Position = math.Max(0, f.Position-v*dt)
		default:
			f.Velocity = 0
		}
		f.StateTime += dt
	}
}
