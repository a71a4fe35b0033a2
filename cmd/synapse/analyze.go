package main

import (
	"context"
	"fmt"
	"sort"
	"strings"

	"github.com/spf13/cobra"

	"github.com/nithin-eashwar/synapse/internal/condenser"
	"github.com/nithin-eashwar/synapse/internal/pipeline"
	"github.com/nithin-eashwar/synapse/internal/query"
	"github.com/nithin-eashwar/synapse/internal/storage"
)

var (
	analyzeWorkers     int
	analyzeDBPath      string
	analyzeCondensed   bool
	analyzeListEntities bool
)

var analyzeCmd = &cobra.Command{
	Use:   "analyze [repository path]",
	Short: "Parse a repository and build its knowledge graph",
	Long: `Walks the repository, parses every supported source file with
Tree-sitter, resolves calls into a graph, mines git history for
expertise signals, and scores every entity for risk.

Examples:
  synapse analyze .
  synapse analyze ./my-service --workers 40`,
	Args: cobra.ExactArgs(1),
	RunE: runAnalyze,
}

func init() {
	analyzeCmd.Flags().IntVarP(&analyzeWorkers, "workers", "w", 20, "number of concurrent parsers")
	analyzeCmd.Flags().StringVar(&analyzeDBPath, "db", "", "override the SQLite path for persisted results")
	analyzeCmd.Flags().BoolVar(&analyzeCondensed, "condensed", false, "print the directory/file risk rollup")
	analyzeCmd.Flags().BoolVar(&analyzeListEntities, "list-entities", false, "print every entity in the graph")
}

func runAnalyze(cmd *cobra.Command, args []string) error {
	ctx := context.Background()
	repoPath := args[0]

	fmt.Printf("Synapse: analyzing %s\n", repoPath)

	orch := pipeline.NewOrchestrator(logger, cfg, analyzeWorkers)
	result, err := orch.Run(ctx, repoPath)
	if err != nil {
		return fmt.Errorf("analysis failed: %w", err)
	}

	fmt.Printf("\nFiles:        %d total (%d parsed, %d failed)\n", result.FilesTotal, result.FilesParsed, result.FilesFailed)
	fmt.Printf("Entities:     %d\n", result.Graph.Len())
	stats := result.Graph.Stats()
	fmt.Printf("Relationships: %d\n", stats.Relationships)
	fmt.Printf("Commits mined: %d\n", len(result.Commits))
	fmt.Printf("Developers:    %d\n", len(result.Developers))
	fmt.Printf("Duration:      %v\n", result.Duration)

	if len(result.Warnings) > 0 {
		fmt.Printf("\nWarnings (%d):\n", len(result.Warnings))
		for _, w := range result.Warnings {
			fmt.Printf("  %s: %s (%s)\n", w.File, w.Message, w.Symbol)
		}
	}

	counts := map[string]int{}
	for _, a := range result.Assessments {
		counts[string(a.Level)]++
	}
	fmt.Printf("\nRisk levels: CRITICAL=%d HIGH=%d MEDIUM=%d LOW=%d\n",
		counts["CRITICAL"], counts["HIGH"], counts["MEDIUM"], counts["LOW"])

	engine := &query.Engine{Graph: result.Graph, Assessments: result.Assessments}

	if analyzeListEntities {
		fmt.Println()
		for _, e := range engine.GetGraph().Nodes {
			fmt.Printf("  %-10s %s\n", e.Kind, e.ID)
		}
	}

	if analyzeCondensed {
		fmt.Println()
		printCondensed(engine.GetCondensedGraph().Root, 0)
	}

	dbPath := analyzeDBPath
	if dbPath == "" {
		dbPath = cfg.Storage.SQLitePath
	}
	store, err := storage.Open(dbPath, logger)
	if err != nil {
		logger.WithError(err).Warn("could not open local store, skipping persistence")
		return nil
	}
	defer store.Close()

	if err := store.SaveDeveloperProfiles(ctx, result.Developers); err != nil {
		logger.WithError(err).Warn("failed to persist developer profiles")
	}
	if err := store.SaveExpertiseScores(ctx, result.Expertise); err != nil {
		logger.WithError(err).Warn("failed to persist expertise scores")
	}

	return nil
}

func printCondensed(d *condenser.DirNode, depth int) {
	indent := strings.Repeat("  ", depth)
	label := d.Path
	if label == "" {
		label = "."
	}
	fmt.Printf("%s%s [%s]\n", indent, label, d.DirRisk())

	for _, f := range d.Files {
		fmt.Printf("%s  %s (cyclomatic=%d, risk=%s)\n", indent, f.Path, f.TotalCyclomatic, f.MaxRiskLevel)
	}

	var names []string
	for name := range d.Children {
		names = append(names, name)
	}
	sort.Strings(names)
	for _, name := range names {
		printCondensed(d.Children[name], depth+1)
	}
}
