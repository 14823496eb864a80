// Command underwriters runs the insurance market simulation, either as a
// headless multi-turn batch or behind the HTTP API.
package main

import (
	"fmt"
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	"github.com/talgya/underwriters/internal/config"
	"github.com/talgya/underwriters/internal/engine"
)

var (
	flagConfig string
	flagSeed   int64
	flagDB     string
)

func main() {
	root := &cobra.Command{
		Use:   "underwriters",
		Short: "Turn-based insurance market simulation",
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			logger := slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{
				Level: slog.LevelInfo,
			}))
			slog.SetDefault(logger)
		},
	}
	root.PersistentFlags().StringVar(&flagConfig, "config", "", "scenario YAML file (default: built-in scenario)")
	root.PersistentFlags().Int64Var(&flagSeed, "seed", 0, "override scenario seed (0 = keep scenario value)")
	root.PersistentFlags().StringVar(&flagDB, "db", "", "SQLite save file (empty = no persistence)")

	root.AddCommand(newRunCmd(), newServeCmd())

	if err := root.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

// loadScenario resolves the scenario from --config or the built-in default,
// applying the --seed override.
func loadScenario() (*config.Scenario, error) {
	var scenario *config.Scenario
	if flagConfig != "" {
		loaded, err := config.Load(flagConfig)
		if err != nil {
			return nil, err
		}
		scenario = loaded
	} else {
		scenario = config.Default()
	}
	if flagSeed != 0 {
		scenario.Seed = flagSeed
	}
	return scenario, nil
}

// newGame builds a game from the resolved scenario.
func newGame() (*engine.Game, error) {
	scenario, err := loadScenario()
	if err != nil {
		return nil, err
	}
	return engine.New(scenario)
}
