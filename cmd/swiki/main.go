package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"

	_ "github.com/joho/godotenv/autoload"
	"github.com/urfave/cli/v3"

	"github.com/starford/swiki/internal"
	pkgconfig "github.com/starford/swiki/pkg/config"
)

var errUsage = errors.New("args must be input and output folder")

func run(ctx context.Context, cmd *cli.Command) error {
	cfg := internal.NewDefaultConfig()

	if cmd.IsSet("config") {
		if err := pkgconfig.Load(cmd.String("config"), cfg); err != nil {
			return fmt.Errorf("failed to parse config: %w", err)
		}
	}

	if err := applyFlags(cmd, cfg); err != nil {
		return err
	}

	if err := internal.Run(ctx, internal.WithConfig(cfg)); err != nil {
		return fmt.Errorf("app run error: %w", err)
	}

	return nil
}

// applyFlags overrides configuration values with positional arguments and
// explicitly set flags.
func applyFlags(cmd *cli.Command, cfg *internal.Config) error {
	switch cmd.Args().Len() {
	case 0:
		if cfg.Wiki.Input == "" || cfg.Wiki.Output == "" {
			return errUsage
		}
	case 2:
		cfg.Wiki.Input = cmd.Args().Get(0)
		cfg.Wiki.Output = cmd.Args().Get(1)
	default:
		return errUsage
	}

	if cmd.IsSet("delete-current-html") {
		cfg.Wiki.Purge = cmd.Bool("delete-current-html")
	}
	if cmd.IsSet("no-fatfile") {
		cfg.Wiki.Fatfile = !cmd.Bool("no-fatfile")
	}
	if cmd.IsSet("graph-db") {
		cfg.Graph.Path = cmd.String("graph-db")
	}
	if cmd.IsSet("watch") {
		cfg.Watch.Enabled = cmd.Bool("watch")
	}
	if cmd.IsSet("workers") {
		cfg.Wiki.Workers = int(cmd.Int("workers"))
	}
	if cmd.IsSet("log-level") {
		if err := cfg.App.LogLevel.UnmarshalText([]byte(cmd.String("log-level"))); err != nil {
			return fmt.Errorf("invalid log level: %w", err)
		}
	}
	return nil
}

func main() {
	cmd := &cli.Command{
		Name:      "swiki",
		Usage:     "Build a static HTML wiki with wikilinks, backlinks, and a sitemap from a folder of Markdown files",
		ArgsUsage: "<input folder> <output folder>",
		Action:    run,
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    "config",
				Aliases: []string{"c"},
				Usage:   "Path to config file",
				Sources: cli.EnvVars("SWIKI_CONFIG_FILE"),
			},
			&cli.BoolFlag{
				Name:    "delete-current-html",
				Aliases: []string{"d"},
				Usage:   "Delete existing HTML files in the output folder before building",
			},
			&cli.BoolFlag{
				Name:  "no-fatfile",
				Usage: "Do not generate fatfile.html",
			},
			&cli.StringFlag{
				Name:  "graph-db",
				Usage: "Export the page graph to this SQLite file",
			},
			&cli.BoolFlag{
				Name:    "watch",
				Aliases: []string{"w"},
				Usage:   "Rebuild whenever the input folder changes",
			},
			&cli.IntFlag{
				Name:  "workers",
				Usage: "Number of documents parsed concurrently",
			},
			&cli.StringFlag{
				Name:  "log-level",
				Usage: "Log level (debug, info, warn, error)",
			},
		},
	}

	if err := cmd.Run(context.Background(), os.Args); err != nil {
		slog.Error("application error", slog.String("error", err.Error()))
		os.Exit(1)
	}
}
