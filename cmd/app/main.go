package main

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"os"

	_ "github.com/joho/godotenv/autoload"
	"github.com/urfave/cli/v3"

	"github.com/starford/folio/internal"
	"github.com/starford/folio/internal/mcpserver"
	pkgconfig "github.com/starford/folio/pkg/config"
)

var version = "dev"

func loadConfig(cmd *cli.Command) (*internal.Config, error) {
	cfg := internal.NewDefaultConfig()
	if err := pkgconfig.LoadOptional(cmd.String("config"), cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config: %w", err)
	}
	return cfg, nil
}

func run(ctx context.Context, cmd *cli.Command) error {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}

	if err := internal.Run(ctx, internal.WithConfig(cfg)); err != nil {
		return fmt.Errorf("app run error: %w", err)
	}

	return nil
}

func runMCP(ctx context.Context, cmd *cli.Command) error {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}
	// stdout carries the MCP protocol; keep logs on stderr.
	slog.SetDefault(internal.NewLogger(cfg.App.LogLevel))

	docs, err := internal.OpenStore(cfg.Documents)
	if err != nil {
		return err
	}
	return mcpserver.New(docs, version).ServeStdio()
}

func runList(ctx context.Context, cmd *cli.Command) error {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}
	docs, err := internal.OpenStore(cfg.Documents)
	if err != nil {
		return err
	}

	all, err := docs.ListAll(ctx)
	if err != nil {
		return err
	}
	if !cmd.Bool("all") {
		visible := all[:0]
		for _, d := range all {
			if !d.Hidden {
				visible = append(visible, d)
			}
		}
		all = visible
	}
	return printJSON(all)
}

func runShow(ctx context.Context, cmd *cli.Command) error {
	slug := cmd.Args().First()
	if slug == "" {
		return fmt.Errorf("usage: folio show <slug>")
	}
	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}
	docs, err := internal.OpenStore(cfg.Documents)
	if err != nil {
		return err
	}

	doc, err := docs.GetBySlug(ctx, slug)
	if err != nil {
		return fmt.Errorf("show %s: %w", slug, err)
	}
	return printJSON(doc)
}

func printJSON(v any) error {
	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

func main() {
	cmd := &cli.Command{
		Name:    "folio",
		Usage:   "Serves a directory of Markdown documents with optional metadata blocks",
		Version: version,
		Action:  run,
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:        "config",
				Aliases:     []string{"c"},
				Usage:       "Path to config file",
				DefaultText: "config/config.yaml",
				Value:       "config/config.yaml",
				Sources:     cli.EnvVars("APP_CONFIG_FILE"),
			},
		},
		Commands: []*cli.Command{
			{
				Name:   "serve",
				Usage:  "Run the HTTP server (default)",
				Action: run,
			},
			{
				Name:   "mcp",
				Usage:  "Serve documents to MCP clients over stdio",
				Action: runMCP,
			},
			{
				Name:  "list",
				Usage: "Print all documents as JSON",
				Flags: []cli.Flag{
					&cli.BoolFlag{Name: "all", Aliases: []string{"a"}, Usage: "Include hidden documents"},
				},
				Action: runList,
			},
			{
				Name:      "show",
				Usage:     "Print one document as JSON",
				ArgsUsage: "<slug>",
				Action:    runShow,
			},
		},
	}

	if err := cmd.Run(context.Background(), os.Args); err != nil {
		slog.Error("application error", slog.String("error", err.Error()))
		os.Exit(1)
	}
}
