// Copyright 2026 Jovian Atlas
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.


package main

import (
	"context"
	"fmt"
	"log"
	"log/slog"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/urfave/cli/v2"

	"github.com/jovianatlas/moonatlas"
	"github.com/jovianatlas/moonatlas/config"
	"github.com/jovianatlas/moonatlas/ingestion"
	"github.com/jovianatlas/moonatlas/server"
	"github.com/jovianatlas/moonatlas/telemetry"
)

func main() {
	app := &cli.App{
		Name:   "moonatlas",
		Usage:  "Retrieval-augmented chatbot for Jupiter's moons",
		Before: setupLogger,
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    "log-level",
				Aliases: []string{"l"},
				Usage:   "Set logging level (debug, info, warn, error)",
				Value:   "info",
			},
		},
		Commands: []*cli.Command{
			{
				Name:   "serve",
				Usage:  "Serve the chat API",
				Action: serveCommand,
				Flags: []cli.Flag{
					&cli.StringFlag{
						Name:  "addr",
						Usage: "Listen address (overrides LISTEN_ADDR)",
					},
				},
			},
			{
				Name:      "ingest",
				Usage:     "Ingest a tab-separated moon facts table into the vector index",
				ArgsUsage: "<facts.tsv>",
				Action:    ingestCommand,
				Flags: []cli.Flag{
					&cli.IntFlag{
						Name:  "batch-size",
						Usage: "Embedding/upsert batch size (overrides EMBED_BATCH_SIZE)",
					},
				},
			},
			{
				Name:   "review",
				Usage:  "Print index statistics and run a sample similarity query",
				Action: reviewCommand,
				Flags: []cli.Flag{
					&cli.StringFlag{
						Name:  "query",
						Usage: "Sample question to run against the index",
						Value: "Does Europa have an ocean?",
					},
					&cli.IntFlag{
						Name:  "top-k",
						Usage: "Number of matches to show",
						Value: 3,
					},
				},
			},
		},
	}

	if err := app.Run(os.Args); err != nil {
		log.Fatal(err)
	}
}

func serveCommand(c *cli.Context) error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	cfg, err := config.Load()
	if err != nil {
		return err
	}
	if addr := c.String("addr"); addr != "" {
		cfg.ListenAddr = addr
	}

	service, err := moonatlas.NewService(ctx, cfg)
	if err != nil {
		return fmt.Errorf("failed to initialize service: %w", err)
	}
	defer service.Close()

	orchestrator, err := service.NewOrchestrator()
	if err != nil {
		return err
	}

	serverOpts := []server.Option{
		server.WithListenAddr(cfg.ListenAddr),
		server.WithChatModel(cfg.ChatModel),
		server.WithCORSOrigins(cfg.CORSOrigins),
	}

	if cfg.TelemetryEnabled {
		shutdown, err := telemetry.InitTracing(ctx, telemetry.TracingConfig{
			ServiceName: "moonatlas",
			Environment: cfg.Environment,
			Endpoint:    cfg.OTLPEndpoint,
			Insecure:    cfg.OTLPInsecure,
		}, slog.Default())
		if err != nil {
			// Telemetry degrades to disabled, never blocks serving
			slog.Warn("telemetry initialization failed, continuing without it", "err", err)
		} else {
			defer shutdown(context.Background())
			observer, err := telemetry.NewObserver(telemetry.WithEnvironment(cfg.Environment))
			if err != nil {
				slog.Warn("telemetry observer creation failed, continuing without it", "err", err)
			} else {
				defer observer.Close()
				serverOpts = append(serverOpts, server.WithObserver(observer))
			}
		}
	}

	srv, err := server.NewServer(orchestrator, serverOpts...)
	if err != nil {
		return err
	}
	return srv.Run(ctx)
}

func ingestCommand(c *cli.Context) error {
	if c.NArg() != 1 {
		return fmt.Errorf("expected exactly one argument: the facts TSV file")
	}
	path := c.Args().First()

	ctx := context.Background()

	cfg, err := config.Load()
	if err != nil {
		return err
	}
	if size := c.Int("batch-size"); size > 0 {
		cfg.BatchSize = size
	}

	rows, err := ingestion.ReadTableFile(path)
	if err != nil {
		return fmt.Errorf("failed to read facts table: %w", err)
	}

	service, err := moonatlas.NewService(ctx, cfg)
	if err != nil {
		return fmt.Errorf("failed to initialize service: %w", err)
	}
	defer service.Close()

	pipeline, err := service.NewIngestionPipeline()
	if err != nil {
		return err
	}

	report, err := pipeline.Run(ctx, rows)
	if err != nil {
		return fmt.Errorf("ingestion failed: %w", err)
	}

	fmt.Fprintf(os.Stderr, "Rows: %d\n", len(rows))
	fmt.Fprintf(os.Stderr, "Documents: %d\n", report.Documents)
	fmt.Fprintf(os.Stderr, "Chunks: %d\n", report.Chunks)
	fmt.Fprintf(os.Stderr, "Embedded: %d\n", report.Embedded)
	fmt.Fprintf(os.Stderr, "Cache hits: %d\n", report.CacheHits)

	return nil
}

func reviewCommand(c *cli.Context) error {
	ctx := context.Background()

	cfg, err := config.Load()
	if err != nil {
		return err
	}

	service, err := moonatlas.NewService(ctx, cfg)
	if err != nil {
		return fmt.Errorf("failed to initialize service: %w", err)
	}
	defer service.Close()

	stats, err := service.Store().Stats(ctx)
	if err != nil {
		return fmt.Errorf("failed to read index stats: %w", err)
	}

	fmt.Printf("Index: %s\n", cfg.IndexName)
	fmt.Printf("Dimension: %d\n", stats.Dimension)
	fmt.Printf("Total vectors: %d\n", stats.TotalVectors)
	for namespace, count := range stats.Namespaces {
		fmt.Printf("  namespace %q: %d vectors\n", namespace, count)
	}

	query := c.String("query")
	topK := c.Int("top-k")
	fmt.Printf("\nSample query: %s\n", query)

	vector, err := service.Provider().Embedder().EmbedText(ctx, query)
	if err != nil {
		return fmt.Errorf("failed to embed sample query: %w", err)
	}
	matches, err := service.Store().Query(ctx, vector, topK)
	if err != nil {
		return fmt.Errorf("sample query failed: %w", err)
	}

	for i, match := range matches {
		fmt.Printf("\n%d. %s (score %.4f)\n", i+1, match.ID, match.Score)
		if text := match.Text(); text != "" {
			fmt.Println(indent(text, "   "))
		}
	}
	return nil
}

func indent(s, prefix string) string {
	lines := strings.Split(s, "\n")
	for i, line := range lines {
		lines[i] = prefix + line
	}
	return strings.Join(lines, "\n")
}

func setupLogger(c *cli.Context) error {
	levelStr := strings.ToLower(c.String("log-level"))

	var level slog.Level
	switch levelStr {
	case "debug":
		level = slog.LevelDebug
	case "info":
		level = slog.LevelInfo
	case "warn":
		level = slog.LevelWarn
	case "error":
		level = slog.LevelError
	default:
		return fmt.Errorf("invalid log level %q: must be one of debug, info, warn, error", levelStr)
	}

	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
		Level: level,
	}))
	slog.SetDefault(logger)

	return nil
}
