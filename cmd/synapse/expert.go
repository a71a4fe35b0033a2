package main

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/nithin-eashwar/synapse/internal/pipeline"
	"github.com/nithin-eashwar/synapse/internal/query"
)

var expertCmd = &cobra.Command{
	Use:   "expert [repository path] [file path]",
	Short: "Show who has the most expertise on a file",
	Long: `Mines git history and scores every developer who has touched the
given file across seven weighted factors (commit frequency, lines changed,
refactor depth, architectural changes, bug fixes, recency, code review
participation), then reports the file's bus factor.

Examples:
  synapse expert . src/auth/session.go`,
	Args: cobra.ExactArgs(2),
	RunE: runExpert,
}

func runExpert(cmd *cobra.Command, args []string) error {
	ctx := context.Background()
	repoPath, filePath := args[0], args[1]

	orch := pipeline.NewOrchestrator(logger, cfg, 0)
	result, err := orch.Run(ctx, repoPath)
	if err != nil {
		return fmt.Errorf("analysis failed: %w", err)
	}

	engine := &query.Engine{
		Graph:      result.Graph,
		Expertise:  result.Expertise,
		BusFactors: result.BusFactors,
	}

	summary := engine.ExpertSummary(filePath)
	if summary.PrimaryExpert == nil {
		fmt.Printf("No expertise data for %s (no commits mined, or file never touched)\n", filePath)
		return nil
	}

	var lines []string
	lines = append(lines, fmt.Sprintf("  %-40s total=%.3f confidence=%.2f (primary)", summary.PrimaryExpert.DeveloperEmail, summary.PrimaryExpert.Total, summary.PrimaryExpert.Confidence))
	for _, sc := range summary.SecondaryExperts {
		lines = append(lines, fmt.Sprintf("  %-40s total=%.3f confidence=%.2f", sc.DeveloperEmail, sc.Total, sc.Confidence))
	}
	fmt.Printf("Experts for %s:\n%s\n", filePath, joinLines(lines))
	fmt.Printf("\nBus factor: %d\n%s\n", summary.BusFactor, summary.RecommendationText)
	return nil
}

func joinLines(lines []string) string {
	out := ""
	for i, l := range lines {
		if i > 0 {
			out += "\n"
		}
		out += l
	}
	return out
}
