package main

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-migrate/migrate/v4"
	"github.com/spf13/cobra"

	"github.com/cory-johannsen/donut/internal/config"
	"github.com/cory-johannsen/donut/migrations"
)

func newMigrateCmd(opts *rootOptions) *cobra.Command {
	var steps int
	cmd := &cobra.Command{
		Use:       "migrate [up|down|version]",
		Short:     "Apply or roll back database migrations",
		Args:      cobra.MatchAll(cobra.ExactArgs(1), cobra.OnlyValidArgs),
		ValidArgs: []string{"up", "down", "version"},
		RunE: func(cmd *cobra.Command, args []string) error {
			start := time.Now()
			cfg, err := config.Load(opts.configPath)
			if err != nil {
				return fmt.Errorf("loading config: %w", err)
			}
			m, err := migrations.New(cfg.Database.DSN())
			if err != nil {
				return err
			}
			defer m.Close()

			direction := args[0]
			switch direction {
			case "up":
				if steps > 0 {
					err = m.Steps(steps)
				} else {
					err = m.Up()
				}
			case "down":
				if steps > 0 {
					err = m.Steps(-steps)
				} else {
					err = m.Down()
				}
			}
			noChange := errors.Is(err, migrate.ErrNoChange)
			if err != nil && !noChange {
				return fmt.Errorf("migration failed: %w", err)
			}

			version, dirty, verr := m.Version()
			if verr != nil && !errors.Is(verr, migrate.ErrNilVersion) {
				return fmt.Errorf("reading version: %w", verr)
			}
			out := cmd.OutOrStdout()
			elapsed := time.Since(start)
			switch {
			case direction == "version":
				fmt.Fprintf(out, "version=%d dirty=%v\n", version, dirty)
			case noChange:
				fmt.Fprintf(out, "no changes (version=%d dirty=%v) [%s]\n", version, dirty, elapsed)
			default:
				fmt.Fprintf(out, "migrated %s to version=%d dirty=%v [%s]\n", direction, version, dirty, elapsed)
			}
			return nil
		},
	}
	cmd.Flags().IntVar(&steps, "steps", 0, "number of steps (0 = all)")
	return cmd
}
