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
	"context"
	"encoding/json"
	"fmt"
	"log"
	"log/slog"
	"os"
	"strings"

	"github.com/poiesic/docflow"
	"github.com/poiesic/docflow/core"
	"github.com/poiesic/docflow/relationship"
	"github.com/poiesic/docflow/search"
	"github.com/poiesic/docflow/storage"
	"github.com/urfave/cli/v2"
)

func main() {
	app := &cli.App{
		Name:  "docflow",
		Usage: "Document relationship, search, and workflow engine for project artifacts",
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
				Name:   "add",
				Usage:  "Create a document",
				Action: addCommand,
				Flags: []cli.Flag{
					dbFlag(),
					&cli.StringFlag{
						Name:     "type",
						Usage:    "Document type (vision, adr, prd, epic, feature, task, code, test, documentation)",
						Required: true,
					},
					&cli.StringFlag{
						Name:     "title",
						Usage:    "Document title",
						Required: true,
					},
					&cli.StringFlag{
						Name:     "project",
						Usage:    "Project identifier",
						Required: true,
					},
					&cli.StringFlag{
						Name:  "content",
						Usage: "Document content",
					},
					&cli.StringSliceFlag{
						Name:  "keyword",
						Usage: "Document keyword (repeatable)",
					},
					&cli.StringFlag{
						Name:  "priority",
						Usage: "Document priority",
					},
					&cli.StringFlag{
						Name:  "author",
						Usage: "Document author",
					},
					&cli.BoolFlag{
						Name:  "relationships",
						Usage: "Auto-generate relationships for the new document",
						Value: true,
					},
					&cli.BoolFlag{
						Name:  "workflow",
						Usage: "Start the document's workflow",
					},
				},
			},
			{
				Name:      "get",
				Usage:     "Print a document as JSON",
				ArgsUsage: "<document-id>",
				Action:    getCommand,
				Flags:     []cli.Flag{dbFlag()},
			},
			{
				Name:   "list",
				Usage:  "List documents matching a filter",
				Action: listCommand,
				Flags: []cli.Flag{
					dbFlag(),
					&cli.StringFlag{
						Name:  "project",
						Usage: "Filter by project identifier",
					},
					&cli.StringFlag{
						Name:  "type",
						Usage: "Filter by document type",
					},
					&cli.StringFlag{
						Name:  "status",
						Usage: "Filter by status",
					},
					&cli.IntFlag{
						Name:  "limit",
						Usage: "Maximum number of documents to print",
						Value: 20,
					},
					&cli.IntFlag{
						Name:  "offset",
						Usage: "Number of documents to skip",
					},
				},
			},
			{
				Name:      "search",
				Usage:     "Search documents",
				ArgsUsage: "<query>",
				Action:    searchCommand,
				Flags: []cli.Flag{
					dbFlag(),
					&cli.StringFlag{
						Name:  "project",
						Usage: "Restrict the search to a project",
					},
					&cli.StringFlag{
						Name:  "strategy",
						Usage: "Search strategy (fulltext, semantic, keyword, combined)",
						Value: "combined",
					},
					&cli.IntFlag{
						Name:  "limit",
						Usage: "Maximum number of results to print",
						Value: 10,
					},
					&cli.BoolFlag{
						Name:  "verbose",
						Usage: "Print per-strategy scoring details to stderr",
					},
				},
			},
			{
				Name:  "workflow",
				Usage: "Manage document workflows",
				Subcommands: []*cli.Command{
					{
						Name:      "start",
						Usage:     "Start a document's workflow",
						ArgsUsage: "<document-id>",
						Action:    workflowStartCommand,
						Flags: []cli.Flag{
							dbFlag(),
							&cli.StringFlag{
								Name:  "name",
								Usage: "Workflow name (defaults from the document type)",
							},
							&cli.StringFlag{
								Name:  "stage",
								Usage: "Initial stage (defaults to the workflow's first stage)",
							},
						},
					},
					{
						Name:      "advance",
						Usage:     "Advance a document's workflow to the next stage",
						ArgsUsage: "<document-id> <next-stage>",
						Action:    workflowAdvanceCommand,
						Flags:     []cli.Flag{dbFlag()},
					},
					{
						Name:      "status",
						Usage:     "Print a document's workflow state as JSON",
						ArgsUsage: "<document-id>",
						Action:    workflowStatusCommand,
						Flags:     []cli.Flag{dbFlag()},
					},
				},
			},
			{
				Name:   "relink",
				Usage:  "Regenerate relationships for every document in a project",
				Action: relinkCommand,
				Flags: []cli.Flag{
					dbFlag(),
					&cli.StringFlag{
						Name:     "project",
						Usage:    "Project identifier",
						Required: true,
					},
					&cli.IntFlag{
						Name:  "workers",
						Usage: "Worker pool size",
					},
				},
			},
		},
	}

	if err := app.Run(os.Args); err != nil {
		log.Fatal(err)
	}
}

func dbFlag() cli.Flag {
	return &cli.StringFlag{
		Name:     "db",
		Aliases:  []string{"d"},
		Usage:    "Path to the database directory",
		Required: true,
	}
}

func openDatabase(c *cli.Context) (*docflow.Database, error) {
	db, err := docflow.Open(c.String("db"))
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}
	return db, nil
}

func addCommand(c *cli.Context) error {
	ctx := context.Background()

	db, err := openDatabase(c)
	if err != nil {
		return err
	}
	defer db.Close()

	manager, err := db.NewManager()
	if err != nil {
		return err
	}

	doc, err := manager.CreateDocument(ctx, &core.Document{
		Type:      core.DocumentType(c.String("type")),
		Title:     c.String("title"),
		Content:   c.String("content"),
		Keywords:  c.StringSlice("keyword"),
		Priority:  c.String("priority"),
		Author:    c.String("author"),
		ProjectId: c.String("project"),
	}, docflow.CreateOptions{
		AutoGenerateRelationships: c.Bool("relationships"),
		StartWorkflow:             c.Bool("workflow"),
	})
	if err != nil {
		return fmt.Errorf("failed to create document: %w", err)
	}

	fmt.Println(doc.Id)
	return nil
}

func getCommand(c *cli.Context) error {
	ctx := context.Background()

	id := c.Args().First()
	if id == "" {
		return fmt.Errorf("document id is required")
	}

	db, err := openDatabase(c)
	if err != nil {
		return err
	}
	defer db.Close()

	doc, err := db.DocumentRepository().GetDocument(ctx, id)
	if err != nil {
		return err
	}

	return printJSON(doc)
}

func listCommand(c *cli.Context) error {
	ctx := context.Background()

	db, err := openDatabase(c)
	if err != nil {
		return err
	}
	defer db.Close()

	manager, err := db.NewManager()
	if err != nil {
		return err
	}

	result, err := manager.QueryDocuments(ctx, storage.DocumentFilter{
		ProjectId: c.String("project"),
		Type:      core.DocumentType(c.String("type")),
		Status:    c.String("status"),
	}, docflow.Page{
		Limit:  c.Int("limit"),
		Offset: c.Int("offset"),
	})
	if err != nil {
		return err
	}

	for _, doc := range result.Documents {
		fmt.Printf("%s\t%s\t%s\n", doc.Id, doc.Type, doc.Title)
	}
	fmt.Fprintf(os.Stderr, "%d of %d documents", len(result.Documents), result.Total)
	if result.HasMore {
		fmt.Fprint(os.Stderr, " (more available)")
	}
	fmt.Fprintln(os.Stderr)
	return nil
}

func searchCommand(c *cli.Context) error {
	ctx := context.Background()

	query := strings.Join(c.Args().Slice(), " ")
	if query == "" {
		return fmt.Errorf("search query is required")
	}

	db, err := openDatabase(c)
	if err != nil {
		return err
	}
	defer db.Close()

	manager, err := db.NewManager()
	if err != nil {
		return err
	}

	var monitor search.Monitor
	if c.Bool("verbose") {
		monitor = &stderrMonitor{}
	}

	result, err := manager.SearchDocuments(ctx, query, docflow.SearchOptions{
		ProjectId: c.String("project"),
		Strategy:  search.Strategy(c.String("strategy")),
		Limit:     c.Int("limit"),
		Monitor:   monitor,
	})
	if err != nil {
		return fmt.Errorf("search failed: %w", err)
	}

	for _, r := range result.Results {
		fmt.Printf("%.4f\t%s\t%s\t%s\n", r.Score, r.Document.Id, r.Document.Type, r.Document.Title)
	}
	fmt.Fprintf(os.Stderr, "%d of %d results\n", len(result.Results), result.Total)
	return nil
}

// stderrMonitor reports ranking progress on stderr for verbose searches.
type stderrMonitor struct{}

var _ search.Monitor = (*stderrMonitor)(nil)

func (*stderrMonitor) Start(query string, strategy search.Strategy, candidateCount int) {
	fmt.Fprintf(os.Stderr, "searching %d candidates with %s for %q\n", candidateCount, strategy, query)
}

func (*stderrMonitor) StrategyScored(strategy search.Strategy, scores map[string]float64) {
	fmt.Fprintf(os.Stderr, "  %s scored %d documents\n", strategy, len(scores))
}

func (*stderrMonitor) Finish(result *search.Result) {
	fmt.Fprintf(os.Stderr, "ranked %d results\n", result.Total)
}

func workflowStartCommand(c *cli.Context) error {
	ctx := context.Background()

	id := c.Args().First()
	if id == "" {
		return fmt.Errorf("document id is required")
	}

	db, err := openDatabase(c)
	if err != nil {
		return err
	}
	defer db.Close()

	manager, err := db.NewManager()
	if err != nil {
		return err
	}

	state, err := manager.StartDocumentWorkflow(ctx, id, c.String("name"), c.String("stage"))
	if err != nil {
		return fmt.Errorf("failed to start workflow: %w", err)
	}

	return printJSON(state)
}

func workflowAdvanceCommand(c *cli.Context) error {
	ctx := context.Background()

	id := c.Args().Get(0)
	nextStage := c.Args().Get(1)
	if id == "" || nextStage == "" {
		return fmt.Errorf("document id and next stage are required")
	}

	db, err := openDatabase(c)
	if err != nil {
		return err
	}
	defer db.Close()

	manager, err := db.NewManager()
	if err != nil {
		return err
	}

	state, err := manager.AdvanceDocumentWorkflow(ctx, id, nextStage, nil)
	if err != nil {
		return fmt.Errorf("failed to advance workflow: %w", err)
	}

	return printJSON(state)
}

func workflowStatusCommand(c *cli.Context) error {
	ctx := context.Background()

	id := c.Args().First()
	if id == "" {
		return fmt.Errorf("document id is required")
	}

	db, err := openDatabase(c)
	if err != nil {
		return err
	}
	defer db.Close()

	state, err := db.WorkflowStateRepository().GetWorkflowState(ctx, id)
	if err != nil {
		return err
	}

	return printJSON(state)
}

func relinkCommand(c *cli.Context) error {
	ctx := context.Background()

	db, err := openDatabase(c)
	if err != nil {
		return err
	}
	defer db.Close()

	manager, err := db.NewManager()
	if err != nil {
		return err
	}

	var opts []relationship.RelinkerOption
	if workers := c.Int("workers"); workers > 0 {
		opts = append(opts, relationship.WithRelinkerPoolSize(workers))
	}

	relinker, err := manager.NewRelinker(opts...)
	if err != nil {
		return err
	}
	defer relinker.Release()

	stats, err := relinker.RelinkProject(ctx, c.String("project"))
	if err != nil {
		return fmt.Errorf("relink failed: %w", err)
	}

	fmt.Fprintf(os.Stderr, "Documents: %d\n", stats.Documents)
	fmt.Fprintf(os.Stderr, "Edges: %d\n", stats.Edges)
	fmt.Fprintf(os.Stderr, "Failed: %d\n", stats.Failed)
	return nil
}

func printJSON(v any) error {
	out, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return err
	}
	fmt.Println(string(out))
	return nil
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
