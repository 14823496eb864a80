package main

import (
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	"github.com/talgya/underwriters/internal/api"
	"github.com/talgya/underwriters/internal/engine"
	"github.com/talgya/underwriters/internal/persistence"
)

func newServeCmd() *cobra.Command {
	var port int

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve the game over the HTTP API",
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

			adminKey := os.Getenv("UNDERWRITERS_ADMIN_KEY")
			if adminKey == "" {
				slog.Warn("UNDERWRITERS_ADMIN_KEY not set, game operation endpoints are disabled")
			}

			server := &api.Server{
				Game:     game,
				DB:       db,
				Port:     port,
				AdminKey: adminKey,
			}
			return server.ListenAndServe()
		},
	}

	cmd.Flags().IntVar(&port, "port", 8080, "HTTP listen port")
	return cmd
}
