// Copyright 2025 Serica Labs
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
	"errors"
	"fmt"
	"log"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/urfave/cli/v2"

	"github.com/sericalabs/serica/ai"
	"github.com/sericalabs/serica/ai/openai"
	"github.com/sericalabs/serica/index/elastic"
	"github.com/sericalabs/serica/ingestion"
	"github.com/sericalabs/serica/nlp"
	"github.com/sericalabs/serica/nlp/latin"
	"github.com/sericalabs/serica/nlp/stanza"
	"github.com/sericalabs/serica/server"
	"github.com/sericalabs/serica/storage/badger"
)

func main() {
	app := &cli.App{
		Name:  "sericad",
		Usage: "Sentence-level text ingestion and indexing service",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    "log-level",
				Aliases: []string{"l"},
				Usage:   "Set logging level (debug, info, warn, error)",
				Value:   "info",
			},
		},
		Before: setupLogger,
		Commands: []*cli.Command{
			{
				Name:   "serve",
				Usage:  "Run the ingestion HTTP service",
				Action: serveCommand,
				Flags: []cli.Flag{
					&cli.StringFlag{
						Name:  "addr",
						Usage: "HTTP listen address",
						Value: ":8000",
					},
					&cli.StringSliceFlag{
						Name:  "es-address",
						Usage: "Elasticsearch node URL (repeatable)",
						Value: cli.NewStringSlice("http://localhost:9200"),
					},
					&cli.StringFlag{
						Name:  "es-username",
						Usage: "Elasticsearch basic auth username",
					},
					&cli.StringFlag{
						Name:  "es-password",
						Usage: "Elasticsearch basic auth password",
					},
					&cli.StringFlag{
						Name:  "index",
						Usage: "Target index name",
						Value: "sentences",
					},
					&cli.StringFlag{
						Name:  "model",
						Usage: "Embedding model label used for the index feature field",
						Value: "labse",
					},
					&cli.IntFlag{
						Name:  "dimensions",
						Usage: "Embedding vector dimensionality",
						Value: 768,
					},
					&cli.StringFlag{
						Name:  "embedding-host",
						Usage: "Embedding service host URL",
						Value: "http://localhost:11434/v1",
					},
					&cli.StringFlag{
						Name:  "embedding-model",
						Usage: "Embedding model name",
						Value: "labse",
					},
					&cli.StringFlag{
						Name:  "segmenter",
						Usage: "Sentence segmenter: rule or stanza",
						Value: "rule",
					},
					&cli.StringFlag{
						Name:  "stanza-url",
						Usage: "Stanza segmentation service URL (required with --segmenter stanza)",
					},
					&cli.StringFlag{
						Name:     "db",
						Aliases:  []string{"d"},
						Usage:    "Path to BadgerDB database directory for job records",
						Required: true,
					},
					&cli.IntFlag{
						Name:  "batch-size",
						Usage: "Number of sentences per embedding call and bulk write",
						Value: 500,
					},
					&cli.IntFlag{
						Name:  "pool-size",
						Usage: "Worker pool size for concurrent ingestion runs (0 = auto)",
					},
					&cli.IntFlag{
						Name:  "max-retries",
						Usage: "Maximum retry attempts for failed index operations",
						Value: 3,
					},
					&cli.DurationFlag{
						Name:  "retry-delay",
						Usage: "Base delay for exponential backoff",
						Value: 1 * time.Second,
					},
					&cli.BoolFlag{
						Name:  "create-index",
						Usage: "Create the target index at startup if absent",
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

	// Job record store
	backend, err := badger.OpenBackend(c.String("db"), false, slog.Default())
	if err != nil {
		return fmt.Errorf("failed to open database: %w", err)
	}
	defer backend.Close()

	jobs, err := badger.NewJobRepository(backend)
	if err != nil {
		return fmt.Errorf("failed to create job repository: %w", err)
	}
	defer jobs.Close()

	// Search index
	indexClient, err := elastic.NewClient(elastic.Config{
		Addresses: c.StringSlice("es-address"),
		Username:  c.String("es-username"),
		Password:  c.String("es-password"),
		ModelName: c.String("model"),
	})
	if err != nil {
		return fmt.Errorf("failed to create index client: %w", err)
	}

	indexName := c.String("index")
	if c.Bool("create-index") {
		exists, err := indexClient.IndexExists(ctx, indexName)
		if err != nil {
			return fmt.Errorf("failed to check index: %w", err)
		}
		if !exists {
			if err := indexClient.CreateSentenceIndex(ctx, indexName, c.String("model"), c.Int("dimensions")); err != nil {
				return fmt.Errorf("failed to create index: %w", err)
			}
			slog.Info("index created", "index", indexName)
		}
	}

	// Embedder
	aiConfig := ai.NewConfig(
		ai.WithHost(c.String("embedding-host")),
		ai.WithModel(c.String("embedding-model")),
		ai.WithDimensions(c.Int("dimensions")),
	)
	if err := aiConfig.Validate(); err != nil {
		return fmt.Errorf("invalid AI configuration: %w", err)
	}
	embedder, err := openai.NewEmbedder(aiConfig)
	if err != nil {
		return fmt.Errorf("failed to create embedder: %w", err)
	}

	// Segmenter
	segmenter, err := buildSegmenter(c)
	if err != nil {
		return err
	}

	// Pipeline
	opts := []ingestion.Option{
		ingestion.WithBatchSize(c.Int("batch-size")),
		ingestion.WithRetryPolicy(c.Int("max-retries"), c.Duration("retry-delay")),
	}
	if size := c.Int("pool-size"); size > 0 {
		opts = append(opts, ingestion.WithPoolSize(size))
	}
	pipeline, err := ingestion.NewPipeline(indexClient, embedder, segmenter, jobs, indexName, opts...)
	if err != nil {
		return fmt.Errorf("failed to create pipeline: %w", err)
	}
	defer pipeline.Release()

	srv := server.NewServer(pipeline, indexClient, embedder, indexName, slog.Default())
	httpServer := &http.Server{
		Addr:    c.String("addr"),
		Handler: srv.Handler(),
	}

	errCh := make(chan error, 1)
	go func() {
		slog.Info("listening", "addr", httpServer.Addr, "index", indexName)
		if err := httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	slog.Info("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	return httpServer.Shutdown(shutdownCtx)
}

func buildSegmenter(c *cli.Context) (nlp.Segmenter, error) {
	switch c.String("segmenter") {
	case "rule":
		return latin.NewSegmenter(), nil
	case "stanza":
		return stanza.NewClient(stanza.Config{URL: c.String("stanza-url")})
	default:
		return nil, fmt.Errorf("invalid segmenter %q: must be rule or stanza", c.String("segmenter"))
	}
}

func setupLogger(c *cli.Context) error {
	// Get log level from flag and normalize to lowercase
	levelStr := strings.ToLower(c.String("log-level"))

	// Map string to slog.Level
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

	// Configure slog with the specified level
	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
		Level: level,
	}))
	slog.SetDefault(logger)

	return nil
}
