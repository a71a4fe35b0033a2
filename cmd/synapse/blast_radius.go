package main

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/nithin-eashwar/synapse/internal/pipeline"
	"github.com/nithin-eashwar/synapse/internal/query"
)

var (
	blastDepth     int
	blastDecay     float64
	blastMinWeight float64
)

var blastRadiusCmd = &cobra.Command{
	Use:   "blast-radius [repository path] [entity id]",
	Short: "Show everything that transitively depends on an entity",
	Long: `Builds the repository's graph and traverses its reverse structural
edges (CALLS, INHERITS, IMPORTS) from the given entity, decaying a weight
at each hop and stopping once it falls below a threshold.

Examples:
  synapse blast-radius . src/payments.py:charge_card
  synapse blast-radius . src/api.ts:Handler --depth 5 --decay 0.6`,
	Args: cobra.ExactArgs(2),
	RunE: runBlastRadius,
}

func init() {
	blastRadiusCmd.Flags().IntVar(&blastDepth, "depth", 4, "maximum traversal depth")
	blastRadiusCmd.Flags().Float64Var(&blastDecay, "decay", 0.5, "per-hop weight decay factor")
	blastRadiusCmd.Flags().Float64Var(&blastMinWeight, "min-weight", 0.05, "stop traversal once weight falls below this")
}

func runBlastRadius(cmd *cobra.Command, args []string) error {
	ctx := context.Background()
	repoPath, entityID := args[0], args[1]

	orch := pipeline.NewOrchestrator(logger, cfg, 0)
	result, err := orch.Run(ctx, repoPath)
	if err != nil {
		return fmt.Errorf("analysis failed: %w", err)
	}

	engine := &query.Engine{Graph: result.Graph, Assessments: result.Assessments}
	summary, ok := engine.BlastRadiusSummary(entityID, blastDepth, blastDecay, blastMinWeight)
	if !ok {
		return fmt.Errorf("entity not found: %s", entityID)
	}

	fmt.Printf("Blast radius for %s (%d entities affected, %d direct callers):\n\n", entityID, len(summary.Affected), summary.DirectCallers)
	hits := engine.BlastRadius(entityID, blastDepth, blastDecay, blastMinWeight)
	for _, h := range hits {
		level := "LOW"
		if a, ok := engine.Assessment(h.EntityID); ok {
			level = string(a.Level)
		}
		fmt.Printf("  [%4.2f] depth=%d  %-10s %s\n", h.Weight, h.Distance, level, h.EntityID)
	}

	fmt.Printf("\nBlast radius score: %.3f (%s)\n", summary.BlastRadiusScore, summary.RiskLevel)
	for _, rec := range summary.Recommendations {
		fmt.Printf("Recommendation: %s\n", rec)
	}
	return nil
}
