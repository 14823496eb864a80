package main

import (
	"fmt"
	"log/slog"
	"os"

	"github.com/dustin/go-humanize"
	"github.com/spf13/cobra"

	"github.com/talgya/underwriters/internal/engine"
	"github.com/talgya/underwriters/internal/persistence"
)

func newRunCmd() *cobra.Command {
	var turns int

	cmd := &cobra.Command{
		Use:   "run",
		Short: "Run a headless simulation for a number of turns",
		RunE: func(cmd *cobra.Command, args []string) error {
			game, err := newGame()
			if err != nil {
				return err
			}

			var db *persistence.DB
			if flagDB != "" {
				db, err = persistence.Open(flagDB)
				if err != nil {
					return err
				}
				defer db.Close()

				if db.HasSaves() {
					snap, err := db.LoadLatest()
					if err != nil {
						return err
					}
					game, err = engine.Restore(snap)
					if err != nil {
						return err
					}
					slog.Info("resumed saved game", "turn", game.Turn, "company", game.Player.Name)
				}
			}

			for i := 0; i < turns; i++ {
				game.EndTurn()
			}

			if db != nil {
				if err := db.SaveGame(game); err != nil {
					return err
				}
			}

			printSummary(game)
			return nil
		},
	}

	cmd.Flags().IntVar(&turns, "turns", 20, "number of quarters to simulate")
	return cmd
}

func printSummary(g *engine.Game) {
	fmt.Fprintf(os.Stdout, "\n%s after %d quarters\n", g.Player.Name, g.Turn)
	fmt.Fprintf(os.Stdout, "  cash:            $%s\n", humanize.CommafWithDigits(g.Player.Cash, 2))
	fmt.Fprintf(os.Stdout, "  policies:        %s\n", humanize.Comma(int64(g.Player.TotalPolicies())))
	fmt.Fprintf(os.Stdout, "  holdings value:  $%s\n", humanize.CommafWithDigits(g.Portfolio.HoldingsValue(g.Player), 2))
	fmt.Fprintf(os.Stdout, "  claims on file:  %s\n", humanize.Comma(int64(len(g.Player.ClaimsHistory))))

	if n := len(g.Player.Reports); n > 0 {
		last := g.Player.Reports[n-1]
		fmt.Fprintf(os.Stdout, "  last quarter:    revenue $%s, claims $%s, net $%s\n",
			humanize.CommafWithDigits(last.Revenue, 0),
			humanize.CommafWithDigits(last.ClaimsPaid, 0),
			humanize.CommafWithDigits(last.NetIncome(), 0),
		)
	}

	fmt.Fprintln(os.Stdout, "\ncompetitors:")
	for _, comp := range g.Competitors {
		fmt.Fprintf(os.Stdout, "  %-28s (%s)  cash $%s, policies %s\n",
			comp.Name, comp.Strategy.Profile,
			humanize.CommafWithDigits(comp.Cash, 0),
			humanize.Comma(int64(comp.TotalPolicies())),
		)
	}
}
