package main

import (
	"context"
	"fmt"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/nithin-eashwar/synapse/internal/discover"
	"github.com/nithin-eashwar/synapse/internal/governance"
	"github.com/nithin-eashwar/synapse/internal/parser"
	"github.com/nithin-eashwar/synapse/internal/query"
	"github.com/nithin-eashwar/synapse/internal/storage"
	"github.com/nithin-eashwar/synapse/internal/workerpool"
)

var (
	governanceRulesPath  string
	governanceSaveBaseline bool
)

var governanceCmd = &cobra.Command{
	Use:   "governance [repository path]",
	Short: "Validate import boundaries and report architectural drift",
	Long: `Loads layer and boundary-rule definitions from
.synapse/architecture.yaml (or --rules), classifies every file into a
layer, and validates every cross-file import against the ordered rule
set. Reports coupling/cohesion metrics and drift against a stored
baseline; --save-baseline records the current metrics as the new one.

Examples:
  synapse governance .
  synapse governance . --rules ./architecture.yaml --save-baseline`,
	Args: cobra.ExactArgs(1),
	RunE: runGovernance,
}

func init() {
	governanceCmd.Flags().StringVar(&governanceRulesPath, "rules", "", "path to architecture.yaml (default: <repo>/.synapse/architecture.yaml)")
	governanceCmd.Flags().BoolVar(&governanceSaveBaseline, "save-baseline", false, "record current metrics as the new drift baseline")
}

func runGovernance(cmd *cobra.Command, args []string) error {
	ctx := context.Background()
	repoPath := args[0]

	rulesPath := governanceRulesPath
	if rulesPath == "" {
		rulesPath = filepath.Join(repoPath, ".synapse", "architecture.yaml")
	}
	rules, err := governance.Load(rulesPath)
	if err != nil {
		return fmt.Errorf("load governance rules: %w", err)
	}
	if len(rules.Layers) == 0 {
		fmt.Println("No layers configured; see .synapse/architecture.yaml")
	}

	files, err := discover.Walk(repoPath)
	if err != nil {
		return fmt.Errorf("discover source files: %w", err)
	}

	parsed, err := workerpool.Map(ctx, 20, files, func(_ context.Context, path string) (*parser.ParsedFile, error) {
		return parser.ParseFile(path), nil
	})
	if err != nil {
		return fmt.Errorf("parse files: %w", err)
	}

	var imports []governance.ImportEdge
	for _, pf := range parsed {
		if pf.Err != nil || pf.Imports == nil {
			continue
		}
		for _, target := range pf.Imports.Aliases {
			imports = append(imports, governance.ImportEdge{FromFile: pf.FilePath, ToFile: target})
		}
		for _, target := range pf.Imports.StarImports {
			imports = append(imports, governance.ImportEdge{FromFile: pf.FilePath, ToFile: target})
		}
	}

	engine := &query.Engine{Rules: rules}
	for _, layer := range engine.GovernanceLayers() {
		fmt.Printf("layer %-12s %v\n", layer.Name, layer.Patterns)
	}

	violations := engine.GovernanceValidate(imports)
	fmt.Printf("Import edges checked: %d\n", len(imports))
	fmt.Printf("Violations: %d\n\n", len(violations))
	for _, v := range violations {
		fmt.Printf("[%s] %s -> %s (%s -> %s): %s\n", v.Severity, v.FromModule, v.ToModule, v.FromLayer, v.ToLayer, v.Message)
	}

	metrics := rules.Metrics(imports)
	fmt.Printf("\nCoupling: %.3f  Cohesion: %.3f\n", metrics.CouplingScore, metrics.CohesionScore)

	store, err := storage.Open(cfg.Storage.SQLitePath, logger)
	if err != nil {
		logger.WithError(err).Warn("could not open local store, skipping drift comparison")
		return nil
	}
	defer store.Close()

	baseline, _, ok, err := store.LoadDriftBaseline(ctx, repoPath)
	if err != nil {
		return fmt.Errorf("load drift baseline: %w", err)
	}
	if ok {
		driftView := engine.GovernanceDrift(*baseline, imports)
		fmt.Printf("Drift from baseline: %.3f\n", driftView.DriftScore)
		for _, rec := range driftView.Recommendations {
			fmt.Printf("Recommendation: %s\n", rec)
		}
	} else {
		fmt.Println("No stored baseline for this repository yet")
	}

	if governanceSaveBaseline {
		if err := store.SaveDriftBaseline(ctx, repoPath, metrics, ""); err != nil {
			return fmt.Errorf("save drift baseline: %w", err)
		}
		fmt.Println("Saved current metrics as the new baseline")
	}

	return nil
}
