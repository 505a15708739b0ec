package main

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"slices"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/joho/godotenv"
	"github.com/spf13/cobra"

	"github.com/san-kum/kppsim/internal/api"
	"github.com/san-kum/kppsim/internal/experiment"
	"github.com/san-kum/kppsim/internal/viz"
)

func runLive(cmd *cobra.Command, args []string) error {
	if !slices.Contains(viz.ThemeNames(), theme) {
		return fmt.Errorf("unknown theme %q (available: %s)", theme, strings.Join(viz.ThemeNames(), ", "))
	}
	p, err := loadParams()
	if err != nil {
		return err
	}
	exp, err := newExperiment(preset, p)
	if err != nil {
		return err
	}

	rec := viz.NewRecorder(every)
	exp.GetSimulator().AddObserver(rec)
	if _, err := exp.Run(cmd.Context()); err != nil {
		return err
	}

	m := viz.NewModel(preset, p.Environment.ColumnHeight, rec.Frames()).WithTheme(theme)
	_, err = tea.NewProgram(m, tea.WithAltScreen(), tea.WithContext(cmd.Context())).Run()
	return err
}

func serve(cmd *cobra.Command, args []string) error {
	// A missing .env is fine; the environment and flags still apply.
	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		logger.Warn("reading .env", "err", err)
	}

	listen := addr
	if listen == "" {
		listen = os.Getenv("KPPSIM_ADDR")
	}
	if listen == "" {
		listen = ":8080"
	}

	srv := api.NewServer(logger, experiment.NewRegistry(), origins)
	return srv.ListenAndServe(cmd.Context(), listen)
}
