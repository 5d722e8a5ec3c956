package main

import (
	"fmt"
	"os"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/san-kum/sphsim/internal/config"
	"github.com/san-kum/sphsim/internal/experiment"
	"github.com/san-kum/sphsim/internal/gui"
	"github.com/san-kum/sphsim/internal/viz"
)

func runLive(cmd *cobra.Command, args []string) error {
	reg := experiment.NewRegistry()
	if pick {
		return viz.RunPicker(reg.BuildSolver)
	}

	cfg, err := resolveConfig(cmd)
	if err != nil {
		return err
	}
	solver, err := reg.BuildSolver(cfg)
	if err != nil {
		return err
	}

	m := viz.NewModel(solver, cfg.Dt, displayName()).
		WithTheme(theme).
		WithGIFPath(gifPath)
	return viz.Run(m)
}

func runGUI(cmd *cobra.Command, args []string) error {
	cfg, err := resolveConfig(cmd)
	if err != nil {
		return err
	}
	solver, err := experiment.NewRegistry().BuildSolver(cfg)
	if err != nil {
		return err
	}

	gui.Run(solver, cfg.Dt, displayName())
	return nil
}

func listPresets(cmd *cobra.Command, args []string) error {
	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "NAME\tPARTICLES\tCONTAINER\tGRID\tVISC\tGAS\tGRAVITY\tSTEPS")
	for _, name := range config.ListPresets() {
		c := config.GetPreset(name)
		fmt.Fprintf(w, "%s\t%d\t%gx%g\t%dx%d\t%g\t%g\t%gx\t%d\n",
			name,
			c.Particles.Count,
			c.Container.Width, c.Container.Height,
			c.Container.Cols, c.Container.Rows,
			c.Fluid.Viscosity,
			c.Fluid.GasConstant,
			c.Gravity.Modifier,
			c.Steps,
		)
	}
	return w.Flush()
}
