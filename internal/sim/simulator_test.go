package sim

import (
	"bytes"
	"context"
	"errors"
	"log/slog"
	"math"
	"reflect"
	"strings"
	"testing"

	"github.com/san-kum/kppsim/internal/config"
	"github.com/san-kum/kppsim/internal/physics"
	"github.com/san-kum/kppsim/internal/simerr"
)

func TestRunBaseline(t *testing.T) {
	p := config.Default()
	result, err := RunSimulation(p)
	if err != nil {
		t.Fatalf("run failed: %v", err)
	}

	want := StepsPerCycle(p)
	if result.Steps != want || result.Series.Len() != want {
		t.Fatalf("expected %d steps, got %d (series %d)", want, result.Steps, result.Series.Len())
	}

	for k, tk := range result.Series.Time {
		if tk != float64(k)*p.Simulation.Dt {
			t.Fatalf("time[%d] = %v, want %v", k, tk, float64(k)*p.Simulation.Dt)
		}
	}

	if len(result.Injections) != p.Floater.Count {
		t.Errorf("expected one injection per floater, got %d", len(result.Injections))
	}

	if result.Efficiency < 0.30 || result.Efficiency > 0.45 {
		t.Errorf("baseline efficiency %v outside expected band", result.Efficiency)
	}

	meanForce := result.MechanicalEnergy / result.Duration() / p.Drivetrain.ChainSpeed
	if meanForce < 7000 || meanForce > 8200 {
		t.Errorf("mean chain force %v outside expected band", meanForce)
	}

	if result.Hypotheses.H1.MeanForce != 0 || result.Hypotheses.H2.MeanForce != 0 || result.Hypotheses.H3.MeanForce != 0 {
		t.Error("disabled hypotheses must contribute nothing")
	}
}

func TestRunDeterministic(t *testing.T) {
	p, _ := config.GetPreset("all")

	a, err := RunSimulation(p)
	if err != nil {
		t.Fatal(err)
	}
	b, err := RunSimulation(p)
	if err != nil {
		t.Fatal(err)
	}
	if !reflect.DeepEqual(a, b) {
		t.Error("identical parameters produced different results")
	}
}

func TestRunRejectsInvalidConfig(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*config.Params)
	}{
		{"zero fill time", func(p *config.Params) { p.Injection.FillTime = 0 }},
		{"void fraction one", func(p *config.Params) { p.H1.Enabled = true; p.H1.VoidFraction = 1 }},
		{"zero gearbox", func(p *config.Params) { p.Drivetrain.GearboxEfficiency = 0 }},
		{"NaN chain speed", func(p *config.Params) { p.Drivetrain.ChainSpeed = math.NaN() }},
		{"step count overflow", func(p *config.Params) { p.Simulation.NumCycles = 4e15 }},
		{"tiny dt", func(p *config.Params) { p.Simulation.Dt = 1e-7 }},
		{"huge floater count", func(p *config.Params) { p.Floater.Count = 1e9 }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p := config.Default()
			tt.mutate(&p)

			result, err := RunSimulation(p)
			if result != nil {
				t.Error("no partial result may be returned on error")
			}
			if !errors.Is(err, simerr.ErrConfig) {
				t.Errorf("expected config error, got %v", err)
			}
		})
	}
}

func TestTransitionRejectsUnknownState(t *testing.T) {
	pl, err := newPlant(config.Default())
	if err != nil {
		t.Fatal(err)
	}
	pl.floaters[3].State = physics.State(42)

	_, err = pl.transition(3, 17, 0.85)
	var ie *simerr.InternalError
	if !errors.As(err, &ie) {
		t.Fatalf("expected InternalError, got %v", err)
	}
	if ie.Floater != 3 || ie.Step != 17 {
		t.Errorf("unexpected context: %+v", ie)
	}
}

func TestInitialPlacement(t *testing.T) {
	pl, err := newPlant(config.Default())
	if err != nil {
		t.Fatal(err)
	}

	counts := map[physics.State]int{}
	for _, f := range pl.floaters {
		counts[f.State]++
		if f.Position < 0 || f.Position > pl.height {
			t.Errorf("position %v outside column", f.Position)
		}
	}
	if counts[physics.AirFilledAscending] < 19 || counts[physics.WaterFilledDescending] < 19 {
		t.Errorf("floaters not spread evenly: %v", counts)
	}
	if pl.floaters[0].State != physics.Injecting {
		t.Errorf("floater 0 should start injecting, got %s", pl.floaters[0].State)
	}
}

func TestH2ReservoirCooling(t *testing.T) {
	p, _ := config.GetPreset("h2")
	p.H2.ReservoirMass = 10000

	result, err := RunSimulation(p)
	if err != nil {
		t.Fatal(err)
	}
	if result.WaterHeatLoss <= 0 {
		t.Fatal("expected heat drawn from water")
	}
	want := result.WaterHeatLoss / (10000 * physics.WaterSpecificHeat)
	if math.Abs(result.WaterTemperatureDrop-want) > 1e-12 {
		t.Errorf("temperature drop = %v, want %v", result.WaterTemperatureDrop, want)
	}
}

func TestAdiabaticCompressionCostsMore(t *testing.T) {
	iso := config.Default()
	adi := config.Default()
	adi.Injection.Compression = config.CompressionAdiabatic

	a, err := RunSimulation(iso)
	if err != nil {
		t.Fatal(err)
	}
	b, err := RunSimulation(adi)
	if err != nil {
		t.Fatal(err)
	}
	if b.EnergyIn <= a.EnergyIn {
		t.Errorf("adiabatic energy in %v should exceed isothermal %v", b.EnergyIn, a.EnergyIn)
	}
}

func TestDynamicMode(t *testing.T) {
	for _, integ := range []string{"euler", "rk4"} {
		t.Run(integ, func(t *testing.T) {
			p, _ := config.GetPreset("dynamic")
			p.Simulation.Integrator = integ

			result, err := RunSimulation(p)
			if err != nil {
				t.Fatal(err)
			}
			if result.Stalled {
				t.Error("chain should not stall under the default controller")
			}
			for k, v := range result.Series.ChainSpeed {
				if v < 0 {
					t.Fatalf("negative chain speed %v at step %d", v, k)
				}
			}
			for k, pw := range result.Series.MechanicalPower {
				if pw < 0 {
					t.Fatalf("generator cannot drive the chain: power %v at step %d", pw, k)
				}
			}

			n := result.Series.Len()
			tail := result.Series.ChainSpeed[n*3/4:]
			var mean float64
			for _, v := range tail {
				mean += v
			}
			mean /= float64(len(tail))
			if math.Abs(mean-p.Drivetrain.ChainSpeed) > 0.1 {
				t.Errorf("controller should hold speed near %v, got %v", p.Drivetrain.ChainSpeed, mean)
			}
		})
	}
}

func TestDynamicModeClampsReverseSpeed(t *testing.T) {
	p, _ := config.GetPreset("dynamic")
	p.Simulation.Integrator = "euler"
	p.Simulation.Controller.Kp = 1e6 // overshoots hard enough to brake through zero

	result, err := RunSimulation(p)
	if err != nil {
		t.Fatal(err)
	}
	if !result.Stalled {
		t.Error("expected chain to stall")
	}
	for k, v := range result.Series.ChainSpeed {
		if v < 0 {
			t.Fatalf("negative chain speed %v at step %d", v, k)
		}
	}
}

func TestDynamicModeFreeWheels(t *testing.T) {
	p, _ := config.GetPreset("dynamic")
	p.Simulation.Controller = config.ControllerConfig{}

	result, err := RunSimulation(p)
	if err != nil {
		t.Fatal(err)
	}
	n := result.Series.Len()
	if last := result.Series.ChainSpeed[n-1]; last <= p.Drivetrain.ChainSpeed {
		t.Errorf("unloaded chain should speed up past %v, got %v", p.Drivetrain.ChainSpeed, last)
	}
	if result.EnergyOut != 0 {
		t.Errorf("no load means no generator output, got %v", result.EnergyOut)
	}
}

func TestOverUnityWarning(t *testing.T) {
	p, _ := config.GetPreset("all")
	p.H1.VoidFraction = 0.4
	p.Drivetrain.GearboxEfficiency = 1
	p.Drivetrain.ClutchEfficiency = 1
	p.Drivetrain.FlywheelEfficiency = 1
	p.Drivetrain.GeneratorEfficiency = 1
	p.Injection.CompressorEfficiency = 1

	var buf bytes.Buffer
	s := New().WithLogger(slog.New(slog.NewTextHandler(&buf, nil)))
	result, err := s.Run(p)
	if err != nil {
		t.Fatal(err)
	}
	if result.Efficiency <= 1 {
		t.Fatalf("expected over-unity efficiency, got %v", result.Efficiency)
	}
	if !strings.Contains(buf.String(), "over-unity") {
		t.Errorf("expected warning in log, got %q", buf.String())
	}
}

type countingMetric struct{ n int }

func (c *countingMetric) Name() string   { return "count" }
func (c *countingMetric) Observe(Sample) { c.n++ }
func (c *countingMetric) Value() float64 { return float64(c.n) }
func (c *countingMetric) Reset()         { c.n = 0 }

func TestMetricsObserveEveryStep(t *testing.T) {
	s := New()
	s.AddMetric(&countingMetric{})

	result, err := s.Run(config.Default())
	if err != nil {
		t.Fatal(err)
	}
	if got := result.Metrics["count"]; got != float64(result.Steps) {
		t.Errorf("metric saw %v samples, want %d", got, result.Steps)
	}

	again, _ := s.Run(config.Default())
	if again.Metrics["count"] != result.Metrics["count"] {
		t.Error("metrics must reset between runs")
	}
}

func TestEnsemble(t *testing.T) {
	var params []config.Params
	for _, name := range []string{"baseline", "h1", "h2"} {
		p, _ := config.GetPreset(name)
		params = append(params, p)
	}

	results, err := NewEnsemble(nil, 2).Run(context.Background(), params)
	if err != nil {
		t.Fatal(err)
	}
	for i, p := range params {
		want, _ := RunSimulation(p)
		if !reflect.DeepEqual(results[i], want) {
			t.Errorf("ensemble result %d differs from sequential run", i)
		}
	}
}

func TestEnsembleReportsFailure(t *testing.T) {
	bad := config.Default()
	bad.Simulation.Dt = 0
	params := []config.Params{config.Default(), bad}

	_, err := NewEnsemble(nil, 0).Run(context.Background(), params)
	if !errors.Is(err, simerr.ErrConfig) {
		t.Errorf("expected config error, got %v", err)
	}
	if err != nil && !strings.Contains(err.Error(), "run 1") {
		t.Errorf("expected failing index in error, got %v", err)
	}
}

func TestEnsembleCanceled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := NewEnsemble(nil, 1).Run(ctx, []config.Params{config.Default()})
	if !errors.Is(err, context.Canceled) {
		t.Errorf("expected context.Canceled, got %v", err)
	}
}

func BenchmarkRunSimulation(b *testing.B) {
	p := config.Default()
	for i := 0; i < b.N; i++ {
		if _, err := RunSimulation(p); err != nil {
			b.Fatal(err)
		}
	}
}

func BenchmarkRunSimulationDynamic(b *testing.B) {
	p, _ := config.GetPreset("dynamic")
	for i := 0; i < b.N; i++ {
		if _, err := RunSimulation(p); err != nil {
			b.Fatal(err)
		}
	}
}

type columnRecorder struct {
	steps    int
	floaters int
	badState bool
}

func (c *columnRecorder) OnStep(Sample) {}

func (c *columnRecorder) OnColumn(step int, floaters []physics.Floater) {
	c.steps++
	c.floaters = len(floaters)
	for _, f := range floaters {
		if !f.State.Valid() {
			c.badState = true
		}
	}
}

func TestColumnObserver(t *testing.T) {
	rec := &columnRecorder{}
	s := New()
	s.AddObserver(rec)

	p := config.Default()
	result, err := s.Run(p)
	if err != nil {
		t.Fatal(err)
	}
	if rec.steps != result.Steps {
		t.Errorf("observer saw %d steps, want %d", rec.steps, result.Steps)
	}
	if rec.floaters != p.Floater.Count {
		t.Errorf("observer saw %d floaters, want %d", rec.floaters, p.Floater.Count)
	}
	if rec.badState {
		t.Error("observer saw a floater in an invalid state")
	}
}

func TestSeriesField(t *testing.T) {
	s := Series{NetTorque: []float64{1}, ChainSpeed: []float64{0.5}}

	got, err := s.Field("torque")
	if err != nil || len(got) != 1 || got[0] != 1 {
		t.Errorf("torque alias: %v, %v", got, err)
	}
	for _, name := range SeriesFields {
		if _, err := s.Field(name); err != nil {
			t.Errorf("field %s: %v", name, err)
		}
	}
	if _, err := s.Field("bogus"); err == nil {
		t.Error("expected error for unknown field")
	}
}
