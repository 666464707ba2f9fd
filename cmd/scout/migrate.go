package main

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/riskibarqy/scout-core/internal/app"
	"github.com/spf13/cobra"
)

func (c *cli) migrateCommand() *cobra.Command {
	var dir string

	withMigrator := func(fn func(m *app.Migrator, args []string) error) func(*cobra.Command, []string) error {
		return func(_ *cobra.Command, args []string) error {
			m, err := app.NewMigrator(c.cfg, dir, c.logger)
			if err != nil {
				return err
			}
			defer m.Close()
			return fn(m, args)
		}
	}

	cmd := &cobra.Command{
		Use:   "migrate",
		Short: "Manage the postgres schema",
	}
	cmd.PersistentFlags().StringVar(&dir, "dir", "", "migrations directory (default MIGRATIONS_DIR or ./db/migrations)")

	cmd.AddCommand(
		&cobra.Command{
			Use:   "up",
			Short: "Apply all pending migrations",
			Args:  cobra.NoArgs,
			RunE: withMigrator(func(m *app.Migrator, _ []string) error {
				return m.Up()
			}),
		},
		&cobra.Command{
			Use:   "down [steps]",
			Short: "Roll back migrations (default 1)",
			Args:  cobra.MaximumNArgs(1),
			RunE: withMigrator(func(m *app.Migrator, args []string) error {
				steps, err := parseSteps(args)
				if err != nil {
					return err
				}
				return m.Down(steps)
			}),
		},
		&cobra.Command{
			Use:   "goto <version>",
			Short: "Migrate up or down to a version",
			Args:  cobra.ExactArgs(1),
			RunE: withMigrator(func(m *app.Migrator, args []string) error {
				target, err := strconv.ParseUint(strings.TrimSpace(args[0]), 10, 64)
				if err != nil {
					return fmt.Errorf("invalid target version %q: %w", args[0], err)
				}
				return m.Goto(uint(target))
			}),
		},
		&cobra.Command{
			Use:   "force <version>",
			Short: "Set the recorded version without running migrations",
			Args:  cobra.ExactArgs(1),
			RunE: withMigrator(func(m *app.Migrator, args []string) error {
				version, err := strconv.Atoi(strings.TrimSpace(args[0]))
				if err != nil {
					return fmt.Errorf("invalid version %q: %w", args[0], err)
				}
				return m.Force(version)
			}),
		},
		&cobra.Command{
			Use:   "version",
			Short: "Print the current schema version",
			Args:  cobra.NoArgs,
			RunE: withMigrator(func(m *app.Migrator, _ []string) error {
				version, err := m.Version()
				if err != nil {
					return err
				}
				if !version.Applied {
					fmt.Fprintln(c.out, "version: none")
					fmt.Fprintln(c.out, "dirty: false")
					return nil
				}
				fmt.Fprintf(c.out, "version: %d\n", version.Version)
				fmt.Fprintf(c.out, "dirty: %t\n", version.Dirty)
				return nil
			}),
		},
	)
	return cmd
}

func parseSteps(args []string) (int, error) {
	if len(args) == 0 {
		return 1, nil
	}

	steps, err := strconv.Atoi(strings.TrimSpace(args[0]))
	if err != nil {
		return 0, fmt.Errorf("invalid down steps %q: %w", args[0], err)
	}
	if steps <= 0 {
		return 0, fmt.Errorf("down steps must be > 0")
	}
	return steps, nil
}
