// Copyright 2025 Poiesic Systems
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
	"fmt"
	"log"
	"log/slog"
	"os"
	"strings"
	"time"

	"github.com/poiesic/sift/ai"
	"github.com/poiesic/sift/reembed"
	"github.com/urfave/cli/v2"
)

func main() {
	if err := newApp().Run(os.Args); err != nil {
		log.Fatal(err)
	}
}

func newApp() *cli.App {
	defaults := ai.DefaultConfig()

	return &cli.App{
		Name:  "sift",
		Usage: "Search, relate and summarize a personal collection of saved content",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    "log-level",
				Aliases: []string{"l"},
				Usage:   "Set logging level (debug, info, warn, error)",
				Value:   "info",
			},
			&cli.StringFlag{
				Name:    "embedding-host",
				Usage:   "Embedding service host URL",
				EnvVars: []string{"SIFT_EMBEDDING_HOST"},
				Value:   defaults.EmbeddingHost,
			},
			&cli.StringFlag{
				Name:    "embedding-model",
				Usage:   "Embedding model name",
				EnvVars: []string{"SIFT_EMBEDDING_MODEL"},
				Value:   defaults.EmbeddingModel,
			},
			&cli.DurationFlag{
				Name:  "embedding-timeout",
				Usage: "Timeout for each embedding request",
				Value: defaults.Timeout,
			},
		},
		Before: setupLogger,
		Commands: []*cli.Command{
			{
				Name:      "analyze",
				Usage:     "Show how a query is interpreted",
				ArgsUsage: "QUERY",
				Action:    analyzeCommand,
			},
			{
				Name:   "add",
				Usage:  "Save a new item",
				Action: addCommand,
				Flags: []cli.Flag{
					dbFlag(),
					&cli.StringFlag{
						Name:  "id",
						Usage: "Item ID (generated when empty)",
					},
					&cli.StringFlag{
						Name:     "title",
						Aliases:  []string{"t"},
						Usage:    "Item title",
						Required: true,
					},
					&cli.StringFlag{
						Name:  "description",
						Usage: "Item description",
					},
					&cli.StringFlag{
						Name:  "url",
						Usage: "Source URL",
					},
					&cli.StringSliceFlag{
						Name:  "tag",
						Usage: "Tag name (repeatable)",
					},
					&cli.StringFlag{
						Name:  "type",
						Usage: "Content type (article, video, document, image, note)",
					},
					&cli.StringFlag{
						Name:  "created",
						Usage: "Creation time in RFC 3339 format (defaults to now)",
					},
				},
			},
			{
				Name:   "list",
				Usage:  "List saved items, newest first",
				Action: listCommand,
				Flags: []cli.Flag{
					dbFlag(),
					&cli.IntFlag{
						Name:  "limit",
						Usage: "Maximum number of items to show (0 for all)",
						Value: 20,
					},
				},
			},
			{
				Name:      "search",
				Usage:     "Rank saved items against a query",
				ArgsUsage: "QUERY",
				Action:    searchCommand,
				Flags: []cli.Flag{
					dbFlag(),
					&cli.IntFlag{
						Name:  "limit",
						Usage: "Maximum number of results (0 for all)",
						Value: 10,
					},
					&cli.BoolFlag{
						Name:  "semantic",
						Usage: "Rank by embedding similarity instead of keywords",
					},
					&cli.Float64Flag{
						Name:  "min-similarity",
						Usage: "Minimum embedding similarity for --semantic",
						Value: 0.5,
					},
					&cli.BoolFlag{
						Name:  "trace",
						Usage: "Print every scoring decision",
					},
				},
			},
			{
				Name:      "related",
				Usage:     "Show items related to a saved item",
				ArgsUsage: "ID",
				Action:    relatedCommand,
				Flags: []cli.Flag{
					dbFlag(),
					&cli.BoolFlag{
						Name:  "lexical",
						Usage: "Use word overlap only, without embeddings",
					},
				},
			},
			{
				Name:      "duplicates",
				Usage:     "Find near-duplicates of a saved item",
				ArgsUsage: "ID",
				Action:    duplicatesCommand,
				Flags: []cli.Flag{
					dbFlag(),
					&cli.BoolFlag{
						Name:  "lexical",
						Usage: "Use word overlap only, without embeddings",
					},
				},
			},
			{
				Name:      "summarize",
				Usage:     "Summarize a saved item",
				ArgsUsage: "ID",
				Action:    summarizeCommand,
				Flags: []cli.Flag{
					dbFlag(),
					&cli.StringFlag{
						Name:    "mode",
						Aliases: []string{"m"},
						Usage:   "Summary length (short, medium, long, bullets)",
						Value:   "medium",
					},
					&cli.StringFlag{
						Name:  "focus",
						Usage: "Prefer sentences mentioning this text",
					},
				},
			},
			{
				Name:   "suggest",
				Usage:  "Suggest example queries for the collection",
				Action: suggestCommand,
				Flags:  []cli.Flag{dbFlag()},
			},
			{
				Name:   "reembed",
				Usage:  "Recompute the stored embedding of every item",
				Action: reembedCommand,
				Flags: []cli.Flag{
					dbFlag(),
					&cli.IntFlag{
						Name:  "batch-size",
						Usage: "Number of items to process in each batch",
						Value: reembed.DefaultBatchSize,
					},
					&cli.IntFlag{
						Name:  "report-interval",
						Usage: "Report progress every N items",
						Value: 100,
					},
					&cli.IntFlag{
						Name:  "max-retries",
						Usage: "Maximum retry attempts for failed operations",
						Value: 3,
					},
					&cli.DurationFlag{
						Name:  "retry-delay",
						Usage: "Base delay for exponential backoff",
						Value: 1 * time.Second,
					},
					&cli.BoolFlag{
						Name:  "resume",
						Usage: "Continue from the last checkpoint of an interrupted run",
					},
				},
			},
		},
	}
}

func dbFlag() cli.Flag {
	return &cli.StringFlag{
		Name:     "db",
		Aliases:  []string{"d"},
		Usage:    "Path to BadgerDB database directory",
		EnvVars:  []string{"SIFT_DB"},
		Required: true,
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

	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
		Level: level,
	}))
	slog.SetDefault(logger)

	return nil
}
