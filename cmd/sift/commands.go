package main

import (
	"fmt"
	"io"
	"slices"
	"strings"
	"time"

	"github.com/poiesic/sift"
	"github.com/poiesic/sift/ai"
	"github.com/poiesic/sift/ai/openai"
	"github.com/poiesic/sift/core"
	"github.com/poiesic/sift/reembed"
	"github.com/poiesic/sift/search"
	"github.com/urfave/cli/v2"
)

// newProvider builds the embedding provider for commands that open a database.
var newProvider = openai.NewProvider

func openDatabase(c *cli.Context) (*sift.Database, error) {
	dbPath := c.String("db")
	if dbPath == "" {
		return nil, fmt.Errorf("database path is required")
	}

	aiConfig := ai.NewConfig(
		ai.WithEmbeddingHost(c.String("embedding-host")),
		ai.WithEmbeddingModel(c.String("embedding-model")),
		ai.WithTimeout(c.Duration("embedding-timeout")),
	)
	if err := aiConfig.Validate(); err != nil {
		return nil, fmt.Errorf("invalid AI configuration: %w", err)
	}

	provider, err := newProvider(aiConfig)
	if err != nil {
		return nil, fmt.Errorf("failed to create embedding provider: %w", err)
	}

	db, err := sift.NewDatabase(dbPath, sift.WithAIConfig(aiConfig), sift.WithProvider(provider))
	if err != nil {
		provider.Close()
		return nil, fmt.Errorf("failed to open database: %w", err)
	}
	return db, nil
}

func newEngine(c *cli.Context, db *sift.Database, lexical bool) (*sift.Engine, error) {
	if lexical {
		return sift.NewEngine()
	}
	return db.NewEngine(sift.WithEmbeddingTimeout(c.Duration("embedding-timeout")))
}

// requireArg returns the command's arguments joined by spaces.
func requireArg(c *cli.Context, name string) (string, error) {
	arg := strings.TrimSpace(strings.Join(c.Args().Slice(), " "))
	if arg == "" {
		return "", fmt.Errorf("%s requires a %s argument", c.Command.Name, name)
	}
	return arg, nil
}

func analyzeCommand(c *cli.Context) error {
	text, err := requireArg(c, "QUERY")
	if err != nil {
		return err
	}

	engine, err := sift.NewEngine()
	if err != nil {
		return err
	}

	desc := engine.AnalyzeQuery(text)
	w := c.App.Writer
	fmt.Fprintf(w, "Query:        %s\n", desc.Query)
	fmt.Fprintf(w, "Intent:       %s\n", desc.Intent)
	fmt.Fprintf(w, "Keywords:     %s\n", strings.Join(desc.Keywords, ", "))
	if desc.HasTimeframe() {
		fmt.Fprintf(w, "Timeframe:    %s\n", desc.Timeframe)
	}
	if desc.HasContentType() {
		fmt.Fprintf(w, "Content type: %s\n", desc.ContentType)
	}
	fmt.Fprintf(w, "Sentiment:    %s\n", desc.Sentiment)
	fmt.Fprintf(w, "Confidence:   %.2f\n", desc.Confidence)
	return nil
}

func addCommand(c *cli.Context) error {
	item := &core.Item{
		ID:          c.String("id"),
		Title:       c.String("title"),
		Description: c.String("description"),
		URL:         c.String("url"),
		ContentType: core.ContentType(strings.ToLower(c.String("type"))),
	}
	for _, name := range c.StringSlice("tag") {
		item.Tags = append(item.Tags, core.Tag{Name: name})
	}
	if created := c.String("created"); created != "" {
		ts, err := time.Parse(time.RFC3339, created)
		if err != nil {
			return fmt.Errorf("invalid created time %q: %w", created, err)
		}
		item.CreatedAt = ts.UTC()
	}

	db, err := openDatabase(c)
	if err != nil {
		return err
	}
	defer db.Close()

	pipeline, err := db.NewIngestionPipeline()
	if err != nil {
		return fmt.Errorf("failed to create ingestion pipeline: %w", err)
	}
	// Release blocks until the item's embedding has been stored.
	defer pipeline.Release()

	added, err := pipeline.Ingest(c.Context, item)
	if err != nil {
		return fmt.Errorf("failed to add item: %w", err)
	}
	for _, a := range added {
		fmt.Fprintln(c.App.Writer, a.ID)
	}
	return nil
}

func listCommand(c *cli.Context) error {
	db, err := openDatabase(c)
	if err != nil {
		return err
	}
	defer db.Close()

	var items []*core.Item
	if limit := c.Int("limit"); limit > 0 {
		items, err = db.ItemRepository().GetRecentItems(c.Context, limit)
	} else {
		items, err = loadItems(c, db)
		slices.Reverse(items)
	}
	if err != nil {
		return fmt.Errorf("failed to list items: %w", err)
	}

	for _, item := range items {
		printItem(c.App.Writer, item)
	}
	return nil
}

func searchCommand(c *cli.Context) error {
	text, err := requireArg(c, "QUERY")
	if err != nil {
		return err
	}

	db, err := openDatabase(c)
	if err != nil {
		return err
	}
	defer db.Close()

	w := c.App.Writer
	if c.Bool("semantic") {
		matches, err := db.SimilarByText(c.Context, text, float32(c.Float64("min-similarity")), c.Int("limit"))
		if err != nil {
			return fmt.Errorf("semantic search failed: %w", err)
		}
		if len(matches) == 0 {
			fmt.Fprintln(w, "No matches")
		}
		for _, m := range matches {
			fmt.Fprintf(w, "%.3f  %s  %s\n", m.Score, m.Item.ID, m.Item.Title)
		}
		return nil
	}

	items, err := loadItems(c, db)
	if err != nil {
		return err
	}
	engine, err := newEngine(c, db, true)
	if err != nil {
		return err
	}

	var monitor search.SearchMonitor
	if c.Bool("trace") {
		monitor = &traceMonitor{w: c.App.ErrWriter}
	}
	results := engine.SearchWithMonitor(text, items, c.Int("limit"), monitor)
	if len(results) == 0 {
		fmt.Fprintln(w, "No matches")
	}
	for _, r := range results {
		fmt.Fprintf(w, "%5.1f  %s  %s\n", r.Score, r.Item.ID, r.HighlightedTitle)
		if r.Reason != "" {
			fmt.Fprintf(w, "       %s\n", r.Reason)
		}
	}
	return nil
}

func relatedCommand(c *cli.Context) error {
	id, err := requireArg(c, "ID")
	if err != nil {
		return err
	}

	db, err := openDatabase(c)
	if err != nil {
		return err
	}
	defer db.Close()

	anchor, items, err := loadAnchor(c, db, id)
	if err != nil {
		return err
	}
	engine, err := newEngine(c, db, c.Bool("lexical"))
	if err != nil {
		return err
	}

	titles := titlesByID(items)
	links := engine.RelatedContent(c.Context, anchor, items)
	if len(links) == 0 {
		fmt.Fprintln(c.App.Writer, "No related items")
	}
	for _, link := range links {
		fmt.Fprintf(c.App.Writer, "%.2f  %-10s  %s  %s\n       %s\n",
			link.Score, link.Type, link.TargetID, titles[link.TargetID], link.Reason)
	}
	return nil
}

func duplicatesCommand(c *cli.Context) error {
	id, err := requireArg(c, "ID")
	if err != nil {
		return err
	}

	db, err := openDatabase(c)
	if err != nil {
		return err
	}
	defer db.Close()

	anchor, items, err := loadAnchor(c, db, id)
	if err != nil {
		return err
	}
	engine, err := newEngine(c, db, c.Bool("lexical"))
	if err != nil {
		return err
	}

	w := c.App.Writer
	clusters := engine.DuplicateClusters(c.Context, anchor, items)
	if len(clusters) == 0 {
		fmt.Fprintln(w, "No duplicates")
	}
	for _, cluster := range clusters {
		fmt.Fprintf(w, "%s (%.2f, %s)\n", cluster.ID, cluster.Similarity, cluster.Reason)
		for _, member := range cluster.Items {
			marker := " "
			if member == cluster.Primary {
				marker = "*"
			}
			fmt.Fprintf(w, "  %s %s  %s\n", marker, member.ID, member.Title)
		}
	}
	return nil
}

func summarizeCommand(c *cli.Context) error {
	id, err := requireArg(c, "ID")
	if err != nil {
		return err
	}
	mode := core.LengthMode(strings.ToLower(c.String("mode")))
	if err := core.ValidateLengthMode(mode); err != nil {
		return err
	}

	db, err := openDatabase(c)
	if err != nil {
		return err
	}
	defer db.Close()

	item, err := db.ItemRepository().GetItem(c.Context, id)
	if err != nil {
		return fmt.Errorf("failed to load item %s: %w", id, err)
	}
	engine, err := newEngine(c, db, true)
	if err != nil {
		return err
	}

	result := engine.Summarize(item, mode, c.String("focus"))
	w := c.App.Writer
	fmt.Fprintln(w, result.Summary)
	if len(result.KeyPoints) > 0 {
		fmt.Fprintln(w, "\nKey points:")
		for _, p := range result.KeyPoints {
			fmt.Fprintf(w, "  - %s\n", p)
		}
	}
	if len(result.ActionableItems) > 0 {
		fmt.Fprintln(w, "\nAction items:")
		for _, a := range result.ActionableItems {
			fmt.Fprintf(w, "  - %s\n", a)
		}
	}
	fmt.Fprintf(w, "\n%d words, confidence %.2f\n", result.WordCount, result.Confidence)
	return nil
}

func suggestCommand(c *cli.Context) error {
	db, err := openDatabase(c)
	if err != nil {
		return err
	}
	defer db.Close()

	items, err := loadItems(c, db)
	if err != nil {
		return err
	}
	engine, err := newEngine(c, db, true)
	if err != nil {
		return err
	}

	for _, q := range engine.SuggestedQueries(items) {
		fmt.Fprintln(c.App.Writer, q)
	}
	return nil
}

func reembedCommand(c *cli.Context) error {
	// Create reembedding config
	reembedConfig := &reembed.Config{
		BatchSize:      c.Int("batch-size"),
		ReportInterval: c.Int("report-interval"),
		MaxRetries:     c.Int("max-retries"),
		RetryDelay:     c.Duration("retry-delay"),
		Resume:         c.Bool("resume"),
	}

	// Validate config
	if reembedConfig.BatchSize <= 0 {
		return fmt.Errorf("batch-size must be greater than 0")
	}
	if reembedConfig.ReportInterval <= 0 {
		return fmt.Errorf("report-interval must be greater than 0")
	}
	if reembedConfig.MaxRetries <= 0 {
		return fmt.Errorf("max-retries must be greater than 0")
	}

	db, err := openDatabase(c)
	if err != nil {
		return err
	}
	defer db.Close()

	progress := c.App.ErrWriter
	reembedder, err := db.NewReembedder(reembedConfig, progress)
	if err != nil {
		return fmt.Errorf("failed to create reembedder: %w", err)
	}

	fmt.Fprintf(progress, "Database: %s\n", c.String("db"))
	fmt.Fprintf(progress, "Embedding host: %s\n", c.String("embedding-host"))
	fmt.Fprintf(progress, "Embedding model: %s\n", c.String("embedding-model"))
	fmt.Fprintln(progress)

	if err := reembedder.Run(c.Context); err != nil {
		return fmt.Errorf("reembedding failed: %w", err)
	}
	return nil
}

// loadItems returns every stored item, oldest first.
func loadItems(c *cli.Context, db *sift.Database) ([]*core.Item, error) {
	items, err := db.ItemRepository().ListItems(c.Context)
	if err != nil {
		return nil, fmt.Errorf("failed to load items: %w", err)
	}
	slices.SortStableFunc(items, func(a, b *core.Item) int {
		return a.CreatedAt.Compare(b.CreatedAt)
	})
	return items, nil
}

func loadAnchor(c *cli.Context, db *sift.Database, id string) (*core.Item, []*core.Item, error) {
	anchor, err := db.ItemRepository().GetItem(c.Context, id)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to load item %s: %w", id, err)
	}
	items, err := loadItems(c, db)
	if err != nil {
		return nil, nil, err
	}
	return anchor, items, nil
}

func titlesByID(items []*core.Item) map[string]string {
	titles := make(map[string]string, len(items))
	for _, item := range items {
		titles[item.ID] = item.Title
	}
	return titles
}

func printItem(w io.Writer, item *core.Item) {
	fmt.Fprintf(w, "%s  %s  %-8s  %s", item.ID, item.CreatedAt.Format(time.DateOnly), item.ContentType, item.Title)
	if tags := item.TagNames(); len(tags) > 0 {
		fmt.Fprintf(w, "  [%s]", strings.Join(tags, ", "))
	}
	fmt.Fprintln(w)
}

// traceMonitor prints each search stage.
type traceMonitor struct {
	w io.Writer
}

var _ search.SearchMonitor = (*traceMonitor)(nil)

func (m *traceMonitor) Start(query string) {
	fmt.Fprintf(m.w, "search: %q\n", query)
}

func (m *traceMonitor) AfterAnalysis(desc core.QueryDescriptor) {
	fmt.Fprintf(m.w, "  intent=%s keywords=%v timeframe=%q type=%q\n",
		desc.Intent, desc.Keywords, desc.Timeframe, desc.ContentType)
}

func (m *traceMonitor) ItemScored(item *core.Item, score float64, reason string) {
	fmt.Fprintf(m.w, "  scored   %s %.1f (%s)\n", item.ID, score, reason)
}

func (m *traceMonitor) ItemExcluded(item *core.Item) {
	fmt.Fprintf(m.w, "  excluded %s\n", item.ID)
}

func (m *traceMonitor) Finish(results []*core.SearchResult) {
	fmt.Fprintf(m.w, "  %d results\n", len(results))
}
