package optim

import (
	"context"
	"errors"
	"math"
	"testing"

	"github.com/san-kum/kppsim/internal/config"
	"github.com/san-kum/kppsim/internal/experiment"
	"github.com/san-kum/kppsim/internal/sim"
)

func TestGridSearch(t *testing.T) {
	build := Builder(config.Default(), experiment.NewRegistry())
	values := []float64{0.8, 0.9, 1.0, 1.1}

	tests := []struct {
		name     string
		maximize bool
		want     float64
	}{
		{"maximize efficiency", true, 1.0},
		{"minimize efficiency", false, 0.8},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			g := NewGridSearch([]string{"drivetrain.gearbox_efficiency"}, [][]float64{values})
			g.Maximize = tt.maximize

			best, err := g.Search(context.Background(), build, "efficiency")
			if err != nil {
				t.Fatal(err)
			}
			if got := best.Params["drivetrain.gearbox_efficiency"]; got != tt.want {
				t.Errorf("best gearbox efficiency = %v, want %v", got, tt.want)
			}
			if best.Evaluations != 3 || best.Skipped != 1 {
				t.Errorf("expected 3 runs and 1 skip, got %d and %d", best.Evaluations, best.Skipped)
			}
		})
	}
}

func TestGridSearchTwoParameters(t *testing.T) {
	g := NewGridSearch(
		[]string{"drivetrain.gearbox_efficiency", "drivetrain.generator_efficiency"},
		[][]float64{{0.8, 0.95}, {0.7, 0.9}},
	)
	g.Maximize = true

	best, err := g.Search(context.Background(), Builder(config.Default(), experiment.NewRegistry()), "mean_electrical_power")
	if err != nil {
		t.Fatal(err)
	}
	if best.Evaluations != 4 {
		t.Errorf("expected 4 evaluations, got %d", best.Evaluations)
	}
	if best.Params["drivetrain.gearbox_efficiency"] != 0.95 || best.Params["drivetrain.generator_efficiency"] != 0.9 {
		t.Errorf("unexpected best: %v", best.Params)
	}
}

func TestGridSearchErrors(t *testing.T) {
	build := Builder(config.Default(), experiment.NewRegistry())
	ctx := context.Background()

	g := NewGridSearch([]string{"a", "b"}, [][]float64{{1}})
	if _, err := g.Search(ctx, build, "efficiency"); err == nil {
		t.Error("expected error for mismatched ranges")
	}

	g = NewGridSearch([]string{"nope"}, [][]float64{{1}})
	if _, err := g.Search(ctx, build, "efficiency"); err == nil {
		t.Error("expected error for unknown parameter")
	}

	g = NewGridSearch([]string{"floater.volume"}, [][]float64{{0.5}})
	if _, err := g.Search(ctx, build, "bogus"); err == nil {
		t.Error("expected error for unknown objective")
	}

	canceled, cancel := context.WithCancel(ctx)
	cancel()
	if _, err := g.Search(canceled, build, "efficiency"); !errors.Is(err, context.Canceled) {
		t.Errorf("expected context.Canceled, got %v", err)
	}
}

func TestGridSearchAllSkipped(t *testing.T) {
	g := NewGridSearch([]string{"drivetrain.gearbox_efficiency"}, [][]float64{{0, 2}})
	best, err := g.Search(context.Background(), Builder(config.Default(), experiment.NewRegistry()), "efficiency")
	if err != nil {
		t.Fatal(err)
	}
	if best.Params != nil || best.Skipped != 2 {
		t.Errorf("expected no winner and 2 skips, got %+v", best)
	}
}

func TestObjective(t *testing.T) {
	r := &sim.CycleResult{
		Efficiency: 0.4,
		EnergyOut:  1000,
		Metrics:    map[string]float64{"torque_ripple": 0.2},
	}

	tests := []struct {
		name string
		want float64
	}{
		{"efficiency", 0.4},
		{"energy_out", 1000},
		{"torque_ripple", 0.2},
		{"mean_electrical_power", 0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := Objective(r, tt.name)
			if err != nil {
				t.Fatal(err)
			}
			if got != tt.want {
				t.Errorf("got %v, want %v", got, tt.want)
			}
		})
	}
	if _, err := Objective(r, "nope"); err == nil {
		t.Error("expected error")
	}
}

func TestLinspace(t *testing.T) {
	got := Linspace(0, 1, 5)
	want := []float64{0, 0.25, 0.5, 0.75, 1}
	for i := range want {
		if math.Abs(got[i]-want[i]) > 1e-12 {
			t.Errorf("Linspace[%d] = %v, want %v", i, got[i], want[i])
		}
	}
	if one := Linspace(3, 7, 1); len(one) != 1 || one[0] != 3 {
		t.Errorf("unexpected single-point range: %v", one)
	}
}
