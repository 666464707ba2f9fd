package main

import (
	"context"
	"fmt"
	"io"
	"os"

	sonic "github.com/bytedance/sonic"
	"github.com/joho/godotenv"
	"github.com/riskibarqy/scout-core/internal/config"
	"github.com/riskibarqy/scout-core/internal/platform/logging"
	"github.com/spf13/cobra"
)

// cli holds what every subcommand needs once the root pre-run has loaded the
// environment.
type cli struct {
	envFiles []string
	cfg      config.Config
	logger   *logging.Logger
	out      io.Writer
}

func newCLI() *cli {
	return &cli{out: os.Stdout}
}

func (c *cli) execute(ctx context.Context, args []string) error {
	root := c.rootCommand()
	root.SetArgs(args)
	return root.ExecuteContext(ctx)
}

func (c *cli) rootCommand() *cobra.Command {
	root := &cobra.Command{
		Use:               "scout",
		Short:             "Player identity, profile merge and rating jobs",
		PersistentPreRunE: c.setup,
		SilenceUsage:      true,
		SilenceErrors:     true,
	}
	root.PersistentFlags().StringSliceVar(&c.envFiles, "env-file", []string{".env", ".env.local"}, "dotenv files loaded before reading configuration")

	root.AddCommand(
		c.serveCommand(),
		c.migrateCommand(),
		c.recomputeCommand(),
		c.resolveCommand(),
	)
	return root
}

func (c *cli) setup(_ *cobra.Command, _ []string) error {
	for _, file := range c.envFiles {
		if _, err := os.Stat(file); err != nil {
			continue
		}
		if err := godotenv.Load(file); err != nil {
			return fmt.Errorf("load %s: %w", file, err)
		}
	}

	cfg, err := config.Load()
	if err != nil {
		return err
	}
	c.cfg = cfg
	// stdout carries command output, so logs go to stderr.
	c.logger = logging.New(logging.Options{
		Level:          cfg.LogLevel,
		Output:         os.Stderr,
		ServiceName:    cfg.ServiceName,
		ServiceVersion: cfg.ServiceVersion,
	})
	logging.SetDefault(c.logger)
	return nil
}

func (c *cli) printJSON(v any) error {
	encoder := sonic.ConfigDefault.NewEncoder(c.out)
	encoder.SetIndent("", "  ")
	return encoder.Encode(v)
}
