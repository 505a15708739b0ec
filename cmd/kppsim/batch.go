package main

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"text/tabwriter"

	"github.com/gocarina/gocsv"
	"github.com/spf13/cobra"

	"github.com/san-kum/kppsim/internal/automation"
	"github.com/san-kum/kppsim/internal/experiment"
	"github.com/san-kum/kppsim/internal/optim"
	"github.com/san-kum/kppsim/internal/sim"
	"github.com/san-kum/kppsim/internal/storage"
	"github.com/san-kum/kppsim/internal/viz"
)

func runSweep(cmd *cobra.Command, args []string) error {
	base, err := loadParams()
	if err != nil {
		return err
	}

	sweep := &automation.ParameterSweep{
		Base:      base,
		ParamName: args[0],
		Min:       sweepMin,
		Max:       sweepMax,
		NumSteps:  sweepSteps,
		Workers:   workers,
	}
	results, err := automation.RunSweep(cmd.Context(), sweep, experiment.NewRegistry(), logger)
	if err != nil {
		return err
	}

	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintf(w, "%s\tEFFICIENCY\tE_OUT (kJ)\tE_IN (kJ)\tMEAN POWER (kW)\n", strings.ToUpper(args[0]))
	eff := make([]float64, len(results))
	for i, r := range results {
		eff[i] = r.Efficiency * 100
		fmt.Fprintf(w, "%g\t%.2f%%\t%.1f\t%.1f\t%.2f\n",
			r.ParamValue, r.Efficiency*100, r.EnergyOut/1000, r.EnergyIn/1000, r.MeanElectricalPower/1000)
	}
	if err := w.Flush(); err != nil {
		return err
	}
	fmt.Println()
	fmt.Println(viz.Plot(eff, "efficiency (%) vs "+args[0], 60, 10))

	if output == "" {
		return nil
	}
	f, err := os.Create(output)
	if err != nil {
		return err
	}
	if err := gocsv.Marshal(&results, f); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}

func runScenario(cmd *cobra.Command, args []string) error {
	scenario, err := automation.LoadScenario(args[0])
	if err != nil {
		return err
	}

	results, err := automation.RunScenario(cmd.Context(), scenario, experiment.NewRegistry(), logger)
	if err != nil {
		return err
	}

	names := make([]string, len(results))
	runs := make([]*sim.CycleResult, len(results))
	for i, vr := range results {
		names[i] = vr.Variant.Name
		runs[i] = vr.Result
	}
	if scenario.Description != "" {
		fmt.Println(viz.Subtle.Render(scenario.Description))
	}
	fmt.Println(viz.Compare(names, runs))

	var st *storage.Store
	for _, vr := range results {
		if vr.Variant.SaveAs == "" {
			continue
		}
		if st == nil {
			st = storage.New(dataDir)
			if err := st.Init(); err != nil {
				return err
			}
		}
		runID, err := st.Save(vr.Variant.SaveAs, vr.Params, vr.Result)
		if err != nil {
			return err
		}
		fmt.Printf("saved %s as %s\n", vr.Variant.Name, runID)
	}
	return nil
}

func runMonteCarlo(cmd *cobra.Command, args []string) error {
	base, err := loadParams()
	if err != nil {
		return err
	}

	cfg := &automation.MonteCarloConfig{
		Base:      base,
		Params:    mcParams,
		Spread:    mcSpread,
		NumTrials: mcTrials,
		Seed:      mcSeed,
		Workers:   workers,
	}
	results, err := automation.RunMonteCarlo(cmd.Context(), cfg, experiment.NewRegistry(), logger)
	if err != nil {
		return err
	}
	summary := automation.MonteCarloStats(results)

	fmt.Printf("monte carlo: %d trials, %d rejected by validation\n", summary.Trials, summary.Invalid)
	fmt.Printf("perturbed: %s (±%.0f%%)\n\n", strings.Join(mcParams, ", "), mcSpread*100)

	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "\tMEAN\tSTD\tMIN\tMAX")
	fmt.Fprintf(w, "efficiency\t%.2f%%\t%.2f%%\t%.2f%%\t%.2f%%\n",
		summary.MeanEfficiency*100, summary.StdEfficiency*100,
		summary.MinEfficiency*100, summary.MaxEfficiency*100)
	fmt.Fprintf(w, "power (kW)\t%.2f\t%.2f\t\t\n", summary.MeanPower/1000, summary.StdPower/1000)
	return w.Flush()
}

// parseRange reads min:max:steps.
func parseRange(s string) ([]float64, error) {
	parts := strings.Split(s, ":")
	if len(parts) != 3 {
		return nil, fmt.Errorf("range %q: want min:max:steps", s)
	}
	lo, err := strconv.ParseFloat(parts[0], 64)
	if err != nil {
		return nil, fmt.Errorf("range %q: %w", s, err)
	}
	hi, err := strconv.ParseFloat(parts[1], 64)
	if err != nil {
		return nil, fmt.Errorf("range %q: %w", s, err)
	}
	n, err := strconv.Atoi(parts[2])
	if err != nil || n < 1 {
		return nil, fmt.Errorf("range %q: steps must be a positive integer", s)
	}
	return optim.Linspace(lo, hi, n), nil
}

func runOptimize(cmd *cobra.Command, args []string) error {
	base, err := loadParams()
	if err != nil {
		return err
	}
	if len(optParams) == 0 {
		return fmt.Errorf("--params is required")
	}
	if len(optRanges) != len(optParams) {
		return fmt.Errorf("need one --range per parameter: %d params, %d ranges", len(optParams), len(optRanges))
	}

	ranges := make([][]float64, len(optRanges))
	for i, r := range optRanges {
		if ranges[i], err = parseRange(r); err != nil {
			return err
		}
	}

	gs := optim.NewGridSearch(optParams, ranges)
	gs.Maximize = !optMinimize

	best, err := gs.Search(cmd.Context(), optim.Builder(base, experiment.NewRegistry()), optObjective)
	if err != nil {
		return err
	}
	if best.Params == nil {
		return fmt.Errorf("no valid combination among %d skipped", best.Skipped)
	}

	fmt.Printf("evaluated %d combinations, skipped %d invalid\n\n", best.Evaluations, best.Skipped)
	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	for _, name := range optParams {
		fmt.Fprintf(w, "  %s\t%g\n", name, best.Params[name])
	}
	fmt.Fprintf(w, "  %s\t%g\n", optObjective, best.Value)
	return w.Flush()
}
