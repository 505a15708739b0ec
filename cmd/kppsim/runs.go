package main

import (
	"encoding/json"
	"fmt"
	"os"
	"strings"
	"text/tabwriter"
	"time"

	"github.com/spf13/cobra"

	"github.com/san-kum/kppsim/internal/analysis"
	"github.com/san-kum/kppsim/internal/config"
	"github.com/san-kum/kppsim/internal/export"
	"github.com/san-kum/kppsim/internal/sim"
	"github.com/san-kum/kppsim/internal/storage"
	"github.com/san-kum/kppsim/internal/viz"
)

func runSimulation(cmd *cobra.Command, args []string) error {
	p, err := loadParams()
	if err != nil {
		return err
	}

	name := runName
	if name == "" {
		name = preset
	}
	exp, err := newExperiment(name, p)
	if err != nil {
		return err
	}

	start := time.Now()
	result, err := exp.Run(cmd.Context())
	if err != nil {
		return err
	}
	logger.Info("run complete", "name", name, "elapsed", time.Since(start), "result", result)

	fmt.Println(viz.Summary(name, p, result))

	if !save {
		return nil
	}
	st := storage.New(dataDir)
	if err := st.Init(); err != nil {
		return err
	}
	runID, err := st.Save(name, p, result)
	if err != nil {
		return err
	}
	fmt.Printf("run id: %s\n", runID)
	return nil
}

func comparePresets(cmd *cobra.Command, args []string) error {
	names := args
	if len(names) == 0 {
		names = config.ListPresets()
	}

	params := make([]config.Params, len(names))
	for i, name := range names {
		p, ok := config.GetPreset(name)
		if !ok {
			return fmt.Errorf("unknown preset: %s (available: %v)", name, config.ListPresets())
		}
		params[i] = p
	}

	results, err := sim.NewEnsemble(nil, 0).Run(cmd.Context(), params)
	if err != nil {
		return err
	}
	fmt.Println(viz.Compare(names, results))
	return nil
}

func listPresets(cmd *cobra.Command, args []string) error {
	fmt.Println("presets:")
	for _, name := range config.ListPresets() {
		fmt.Printf("  %s\n", name)
	}

	base := config.Default()
	fmt.Println("\nparameters (baseline value):")
	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	for _, name := range config.ParamNames() {
		v, _ := base.Get(name)
		fmt.Fprintf(w, "  %s\t%g\n", name, v)
	}
	fmt.Fprintf(w, "  %s\t%s\n", "injection.compression", base.Injection.Compression)
	fmt.Fprintf(w, "  %s\t%s\n", "simulation.speed_mode", base.Simulation.SpeedMode)
	fmt.Fprintf(w, "  %s\t%s\n", "simulation.integrator", base.Simulation.Integrator)
	return w.Flush()
}

func listRuns(cmd *cobra.Command, args []string) error {
	st := storage.New(dataDir)
	runs, err := st.List()
	if err != nil {
		return err
	}

	if len(runs) == 0 {
		fmt.Println("no runs found")
		return nil
	}

	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "ID\tNAME\tTIME\tSTEPS\tMODE\tHYPOTHESES\tEFFICIENCY")

	for _, run := range runs {
		hyp := strings.Join(run.Hypotheses, ",")
		if hyp == "" {
			hyp = "-"
		}
		fmt.Fprintf(w, "%s\t%s\t%s\t%d\t%s\t%s\t%.2f%%\n",
			run.ID,
			run.Name,
			run.Timestamp.Format("2006-01-02 15:04:05"),
			run.Steps,
			run.SpeedMode,
			hyp,
			run.Efficiency*100,
		)
	}

	return w.Flush()
}

func plotRun(cmd *cobra.Command, args []string) error {
	runID := args[0]

	st := storage.New(dataDir)
	meta, err := st.Load(runID)
	if err != nil {
		return err
	}
	s, err := st.LoadSeries(runID)
	if err != nil {
		return err
	}
	data, err := s.Field(field)
	if err != nil {
		return err
	}
	if len(data) == 0 {
		return fmt.Errorf("no data to plot")
	}

	fmt.Printf("run: %s (%s)\n", meta.ID, meta.Name)
	fmt.Printf("samples: %d\n\n", len(data))
	fmt.Println(viz.Plot(data, field+" vs time", width, height))
	return nil
}

func analyzeRun(cmd *cobra.Command, args []string) error {
	runID := args[0]

	st := storage.New(dataDir)
	meta, err := st.Load(runID)
	if err != nil {
		return err
	}
	s, err := st.LoadSeries(runID)
	if err != nil {
		return err
	}

	sp, err := analysis.TorqueSpectrum(s.NetTorque, meta.Dt)
	if err != nil {
		return err
	}

	fmt.Printf("torque analysis: %s (%s)\n\n", meta.ID, meta.Name)

	shown := sp.Magnitudes[:max(len(sp.Magnitudes)/4, 1)]
	fmt.Println(viz.Plot(shown, "torque spectrum", 80, 12))
	fmt.Println()

	fmt.Printf("dominant frequency: %.4f Hz\n", sp.DominantFrequency)
	if sp.DominantFrequency > 0 {
		fmt.Printf("period: %.2f s\n", 1/sp.DominantFrequency)
	}

	portrait := analysis.NewPortrait("chain speed", s.ChainSpeed, "net force", s.NetForce, 1)
	if out := portrait.ToASCII(60, 16); out != "" {
		fmt.Println()
		fmt.Println(out)
	}
	return nil
}

func exportCSV(cmd *cobra.Command, args []string) error {
	st := storage.New(dataDir)
	s, err := st.LoadSeries(args[0])
	if err != nil {
		return err
	}

	f, closeFn, err := create(output)
	if err != nil {
		return err
	}
	if err := storage.WriteCSV(f, s); err != nil {
		closeFn()
		return err
	}
	return closeFn()
}

type storedRun struct {
	Metadata *storage.RunMetadata `json:"metadata"`
	Params   config.Params        `json:"params"`
	Series   *sim.Series          `json:"series,omitempty"`
}

func exportJSON(cmd *cobra.Command, args []string) error {
	runID := args[0]

	st := storage.New(dataDir)
	meta, err := st.Load(runID)
	if err != nil {
		return err
	}
	p, err := st.LoadParams(runID)
	if err != nil {
		return err
	}
	out := storedRun{Metadata: meta, Params: p}
	if series {
		s, err := st.LoadSeries(runID)
		if err != nil {
			return err
		}
		out.Series = &s
	}

	f, closeFn, err := create(output)
	if err != nil {
		return err
	}
	enc := json.NewEncoder(f)
	enc.SetIndent("", "  ")
	if err := enc.Encode(out); err != nil {
		closeFn()
		return err
	}
	return closeFn()
}

func exportSVG(cmd *cobra.Command, args []string) error {
	runID := args[0]

	st := storage.New(dataDir)
	meta, err := st.Load(runID)
	if err != nil {
		return err
	}
	s, err := st.LoadSeries(runID)
	if err != nil {
		return err
	}

	svg := export.SeriesToSVG(meta.Name+" chain forces", s.Time, []export.Trace{
		{Label: "net force (N)", Values: s.NetForce},
		{Label: "ascending (N)", Values: s.AscendingForce},
		{Label: "descending (N)", Values: s.DescendingForce},
	}, svgWidth, svgHeight)
	if svg == "" {
		return fmt.Errorf("no data to draw")
	}

	f, closeFn, err := create(output)
	if err != nil {
		return err
	}
	if _, err := f.WriteString(svg); err != nil {
		closeFn()
		return err
	}
	return closeFn()
}

func exportXLSX(cmd *cobra.Command, args []string) error {
	p, err := loadParams()
	if err != nil {
		return err
	}
	exp, err := newExperiment(preset, p)
	if err != nil {
		return err
	}
	result, err := exp.Run(cmd.Context())
	if err != nil {
		return err
	}

	f, err := os.Create(xlsxOutput)
	if err != nil {
		return err
	}
	if err := export.WriteWorkbook(f, p, result); err != nil {
		f.Close()
		return err
	}
	if err := f.Close(); err != nil {
		return err
	}
	fmt.Printf("wrote %s\n", xlsxOutput)
	return nil
}
