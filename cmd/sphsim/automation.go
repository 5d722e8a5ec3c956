package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/san-kum/sphsim/internal/automation"
	"github.com/san-kum/sphsim/internal/experiment"
	"github.com/san-kum/sphsim/internal/storage"
)

func runScenario(cmd *cobra.Command, args []string) error {
	sc, err := automation.LoadScenario(args[0])
	if err != nil {
		return err
	}

	fmt.Printf("scenario: %s\n", sc.Name)
	if sc.Description != "" {
		fmt.Printf("%s\n", sc.Description)
	}
	fmt.Println()

	results, err := automation.RunScenario(cmd.Context(), sc, experiment.NewRegistry(), os.Stdout)
	st := storage.New(dataDir)
	for _, r := range results {
		fmt.Printf("\n%s: %d steps\n", r.Metadata.Name, r.Result.StepsTaken)
		printMetrics(r.Result.Metrics)

		if r.Step.SaveAs == "" {
			continue
		}
		runID, saveErr := st.Save(r.Metadata, r.Result)
		if saveErr != nil {
			return saveErr
		}
		fmt.Printf("  saved as %s\n", runID)
	}
	return err
}

func runMonteCarlo(cmd *cobra.Command, args []string) error {
	cfg, err := resolveConfig(cmd)
	if err != nil {
		return err
	}

	mc := &automation.MonteCarloConfig{
		Base:      cfg,
		Jitter:    perturb,
		NumTrials: trials,
		Seed:      cfg.Seed,
	}

	fmt.Printf("monte carlo: %d trials, jitter %g, %d particles, %d steps\n\n",
		trials, perturb, cfg.Particles.Count, cfg.Steps)

	results, err := automation.RunMonteCarlo(cmd.Context(), mc, experiment.NewRegistry(), os.Stdout)
	if err != nil {
		return err
	}

	stable, unstable := automation.MonteCarloStats(results)
	worst := 0.0
	for _, r := range results {
		worst = max(worst, r.Metrics["max_speed"])
	}

	fmt.Printf("\nstable: %d, unstable: %d\n", stable, unstable)
	fmt.Printf("worst max speed: %.3f\n", worst)
	return nil
}
