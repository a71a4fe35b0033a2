package main

import (
	"context"
	"fmt"
	"sort"
	"strings"

	"github.com/spf13/cobra"

	"github.com/nithin-eashwar/synapse/internal/pipeline"
	"github.com/nithin-eashwar/synapse/internal/query"
)

var heatmapCmd = &cobra.Command{
	Use:   "heatmap [repository path]",
	Short: "Show per-module developer ownership",
	Long: `Buckets mined expertise scores by top-level directory and developer,
giving a quick view of which parts of the repository each developer owns.`,
	Args: cobra.ExactArgs(1),
	RunE: runHeatmap,
}

func runHeatmap(cmd *cobra.Command, args []string) error {
	ctx := context.Background()
	repoPath := args[0]

	orch := pipeline.NewOrchestrator(logger, cfg, 0)
	result, err := orch.Run(ctx, repoPath)
	if err != nil {
		return fmt.Errorf("analysis failed: %w", err)
	}

	engine := &query.Engine{Graph: result.Graph, Expertise: result.Expertise, BusFactors: result.BusFactors}
	heat := engine.Heatmap(moduleOf)
	byDev := engine.ByDeveloper(moduleOf)

	var modules []string
	for m := range heat.Modules {
		modules = append(modules, m)
	}
	sort.Strings(modules)

	for _, m := range modules {
		entry := heat.Modules[m]
		gapMarker := ""
		if entry.HasGap {
			gapMarker = " [knowledge gap]"
		}
		fmt.Printf("%s  bus_factor=%d experts=%d files=%d%s\n", m, entry.BusFactor, entry.ExpertCount, entry.FileCount, gapMarker)

		devs := byDev[m]
		var emails []string
		for e := range devs {
			emails = append(emails, e)
		}
		sort.Slice(emails, func(i, j int) bool { return devs[emails[i]] > devs[emails[j]] })
		for _, e := range emails {
			fmt.Printf("  %-40s %.3f\n", e, devs[e])
		}
	}

	fmt.Printf("\naverage bus factor: %.2f\n", heat.AverageBusFactor)
	if len(heat.RiskAreas) > 0 {
		fmt.Printf("risk areas: %s\n", strings.Join(heat.RiskAreas, ", "))
	}
	return nil
}

// moduleOf returns the top-level directory of a repo-relative file path,
// or "." for files at the repository root.
func moduleOf(filePath string) string {
	parts := strings.SplitN(filePath, "/", 2)
	if len(parts) < 2 {
		return "."
	}
	return parts[0]
}
