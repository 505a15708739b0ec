package sim_test

import (
	"math"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
	"gonum.org/v1/gonum/stat"

	"github.com/san-kum/kppsim/internal/config"
	"github.com/san-kum/kppsim/internal/sim"
)

func run(p config.Params) *sim.CycleResult {
	GinkgoHelper()
	result, err := sim.RunSimulation(p)
	Expect(err).NotTo(HaveOccurred())
	return result
}

var _ = Describe("End-to-end scenarios", func() {
	var baseline *sim.CycleResult

	BeforeEach(func() {
		baseline = run(config.Default())
	})

	Describe("scenario A, all hypotheses off", func() {
		It("is bit-identical across runs", func() {
			again := run(config.Default())
			Expect(again).To(Equal(baseline))
		})

		It("produces equal-length series with t_k = k*dt", func() {
			s := baseline.Series
			n := s.Len()
			Expect(n).To(Equal(baseline.Steps))
			for _, col := range [][]float64{s.NetTorque, s.NetForce, s.MechanicalPower,
				s.ElectricalPower, s.ChainSpeed, s.AscendingForce, s.DescendingForce} {
				Expect(col).To(HaveLen(n))
			}
			for k := 1; k < n; k++ {
				Expect(s.Time[k]).To(BeNumerically(">", s.Time[k-1]))
			}
		})

		It("converts every sample through the drivetrain", func() {
			s := baseline.Series
			for k := range s.Time {
				Expect(s.ElectricalPower[k]).To(BeNumerically("~", s.MechanicalPower[k]*0.729, 1e-9))
				Expect(s.NetTorque[k]).To(BeNumerically("~", s.NetForce[k]*1.0, 1e-12))
			}
		})

		It("reports efficiency as energy out over energy in", func() {
			Expect(baseline.EnergyIn).To(BeNumerically(">", 0))
			Expect(baseline.Efficiency).To(BeNumerically("~", baseline.EnergyOut/baseline.EnergyIn, 1e-12))
		})
	})

	Describe("scenario B, H1 at 20% void fraction", func() {
		It("raises the descending-side force at every step", func() {
			p, _ := config.GetPreset("h1")
			b := run(p)

			for k := range b.Series.DescendingForce {
				Expect(b.Series.DescendingForce[k]).To(BeNumerically(">=", baseline.Series.DescendingForce[k]))
			}
			Expect(stat.Mean(b.Series.DescendingForce, nil)).
				To(BeNumerically(">", stat.Mean(baseline.Series.DescendingForce, nil)))
			Expect(b.Hypotheses.H1.MeanForce).To(BeNumerically(">", 0))
		})

		It("charges nothing extra for nanobubbles", func() {
			p, _ := config.GetPreset("h1")
			Expect(run(p).EnergyIn).To(Equal(baseline.EnergyIn))
		})
	})

	Describe("scenario C, H2 fully isothermal", func() {
		It("raises the ascending-side force and energy", func() {
			p, _ := config.GetPreset("h2")
			c := run(p)

			Expect(stat.Mean(c.Series.AscendingForce, nil)).
				To(BeNumerically(">", stat.Mean(baseline.Series.AscendingForce, nil)))
			Expect(c.Hypotheses.H2.Energy).To(BeNumerically(">", 0))
			Expect(c.MechanicalEnergy).To(BeNumerically(">", baseline.MechanicalEnergy))
			Expect(c.WaterHeatLoss).To(BeNumerically(">", 0))
		})

		It("contributes nothing at zero heat exchange", func() {
			p, _ := config.GetPreset("h2")
			p.H2.HeatExchangeEfficiency = 0
			c := run(p)

			Expect(c.Series.AscendingForce).To(Equal(baseline.Series.AscendingForce))
			Expect(c.Hypotheses.H2.Energy).To(BeZero())
		})
	})

	Describe("H3 injection pulse", func() {
		var (
			p     config.Params
			pulse *sim.CycleResult
		)

		BeforeEach(func() {
			p = config.Default()
			p.H3.Enabled = true
			pulse = run(p)
		})

		It("applies only inside an injection window", func() {
			fill := p.Injection.FillTime
			inWindow := func(t float64) bool {
				for _, ev := range pulse.Injections {
					if t >= ev.Start-1e-9 && t <= ev.Start+fill+1e-9 {
						return true
					}
				}
				return false
			}

			for k, f := range pulse.Hypotheses.H3.Force {
				if f != 0 {
					Expect(inWindow(pulse.Series.Time[k])).To(BeTrue(),
						"pulse force at t=%.3f outside every injection window", pulse.Series.Time[k])
				}
			}
		})

		It("returns to baseline torque just after each window", func() {
			dt := p.Simulation.Dt
			checked := 0
			for _, ev := range pulse.Injections {
				k := int(math.Floor((ev.Start+p.Injection.FillTime)/dt)) + 1
				if k >= pulse.Series.Len() {
					continue
				}
				Expect(pulse.Hypotheses.H3.Force[k]).To(BeZero())
				Expect(pulse.Series.NetTorque[k]).To(Equal(baseline.Series.NetTorque[k]))
				checked++
			}
			Expect(checked).To(BeNumerically(">", 0))
		})

		It("is elevated at the start of every injection inside the run", func() {
			dt := p.Simulation.Dt
			for _, ev := range pulse.Injections {
				if ev.Start < 0 {
					continue
				}
				k := int(math.Round(ev.Start / dt))
				Expect(pulse.Series.NetTorque[k]).To(BeNumerically(">", baseline.Series.NetTorque[k]))
			}
		})

		It("does not change the compressor cost", func() {
			Expect(pulse.EnergyIn).To(Equal(baseline.EnergyIn))
		})
	})

	Describe("configuration errors", func() {
		It("fails before any step with a field name", func() {
			p := config.Default()
			p.H1.Enabled = true
			p.H1.VoidFraction = 1.0

			result, err := sim.RunSimulation(p)
			Expect(result).To(BeNil())
			Expect(err).To(MatchError(ContainSubstring("h1.void_fraction")))
		})
	})
})
