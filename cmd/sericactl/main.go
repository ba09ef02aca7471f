package main

import (
	"context"
	"fmt"
	"io"
	"log"
	"log/slog"
	"net/http"
	"os"
	"strings"
	"time"

	"github.com/urfave/cli/v2"

	"github.com/sericalabs/serica/index/elastic"
)

func main() {
	esFlags := []cli.Flag{
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
	}

	app := &cli.App{
		Name:  "sericactl",
		Usage: "Administrative commands for the serica ingestion service",
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
				Name:   "create-index",
				Usage:  "Create the sentence index with the expected mapping",
				Action: createIndexCommand,
				Flags: append(esFlags,
					&cli.IntFlag{
						Name:  "dimensions",
						Usage: "Embedding vector dimensionality",
						Value: 768,
					},
				),
			},
			{
				Name:      "delete",
				Usage:     "Delete all records of a document from the index",
				Action:    deleteCommand,
				ArgsUsage: "DOCUMENT_ID",
				Flags:     esFlags,
			},
			{
				Name:      "status",
				Usage:     "Show the most recent ingestion job for a document",
				Action:    statusCommand,
				ArgsUsage: "DOCUMENT_ID",
				Flags: []cli.Flag{
					&cli.StringFlag{
						Name:  "server",
						Usage: "Base URL of a running sericad instance",
						Value: "http://localhost:8000",
					},
				},
			},
		},
	}

	if err := app.Run(os.Args); err != nil {
		log.Fatal(err)
	}
}

func newIndexClient(c *cli.Context) (*elastic.Client, error) {
	return elastic.NewClient(elastic.Config{
		Addresses: c.StringSlice("es-address"),
		Username:  c.String("es-username"),
		Password:  c.String("es-password"),
		ModelName: c.String("model"),
	})
}

func createIndexCommand(c *cli.Context) error {
	client, err := newIndexClient(c)
	if err != nil {
		return err
	}

	ctx := context.Background()
	name := c.String("index")

	exists, err := client.IndexExists(ctx, name)
	if err != nil {
		return fmt.Errorf("failed to check index: %w", err)
	}
	if exists {
		fmt.Fprintf(os.Stderr, "Index %q already exists\n", name)
		return nil
	}

	if err := client.CreateSentenceIndex(ctx, name, c.String("model"), c.Int("dimensions")); err != nil {
		return fmt.Errorf("failed to create index: %w", err)
	}
	fmt.Fprintf(os.Stderr, "Index %q created\n", name)
	return nil
}

func deleteCommand(c *cli.Context) error {
	documentID, err := documentIDArg(c)
	if err != nil {
		return err
	}

	client, err := newIndexClient(c)
	if err != nil {
		return err
	}

	deleted, err := client.DeleteDocument(context.Background(), c.String("index"), documentID)
	if err != nil {
		return fmt.Errorf("failed to delete document: %w", err)
	}
	fmt.Fprintf(os.Stderr, "Deleted %d records of document %d\n", deleted, documentID)
	return nil
}

func statusCommand(c *cli.Context) error {
	documentID, err := documentIDArg(c)
	if err != nil {
		return err
	}

	url := fmt.Sprintf("%s/jobs/%d", strings.TrimSuffix(c.String("server"), "/"), documentID)
	client := &http.Client{Timeout: 10 * time.Second}
	resp, err := client.Get(url)
	if err != nil {
		return fmt.Errorf("failed to query server: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return err
	}
	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("server returned %s: %s", resp.Status, strings.TrimSpace(string(body)))
	}

	fmt.Println(strings.TrimSpace(string(body)))
	return nil
}

func documentIDArg(c *cli.Context) (int64, error) {
	if c.NArg() != 1 {
		return 0, fmt.Errorf("expected exactly one DOCUMENT_ID argument")
	}
	var documentID int64
	if _, err := fmt.Sscanf(c.Args().First(), "%d", &documentID); err != nil {
		return 0, fmt.Errorf("invalid document id %q", c.Args().First())
	}
	return documentID, nil
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
