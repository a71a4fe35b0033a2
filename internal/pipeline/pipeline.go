// Package pipeline coordinates a full analysis run: discover source
// files, parse them concurrently, resolve calls into a graph, mine git
// history, and score risk and expertise, returning a phased run summary
// a caller can act on even when some files failed to parse.
package pipeline

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/nithin-eashwar/synapse/internal/cache"
	"github.com/nithin-eashwar/synapse/internal/config"
	"github.com/nithin-eashwar/synapse/internal/discover"
	"github.com/nithin-eashwar/synapse/internal/expertise"
	"github.com/nithin-eashwar/synapse/internal/gitminer"
	"github.com/nithin-eashwar/synapse/internal/graph"
	"github.com/nithin-eashwar/synapse/internal/models"
	"github.com/nithin-eashwar/synapse/internal/parser"
	"github.com/nithin-eashwar/synapse/internal/resolver"
	"github.com/nithin-eashwar/synapse/internal/risk"
	"github.com/nithin-eashwar/synapse/internal/workerpool"
)

// Orchestrator runs the full parse -> resolve -> score pipeline for one
// repository checkout.
type Orchestrator struct {
	logger  *logrus.Logger
	cfg     *config.Config
	workers int
}

// NewOrchestrator builds an Orchestrator. workers bounds file-parsing
// concurrency; 0 falls back to a sane default.
func NewOrchestrator(logger *logrus.Logger, cfg *config.Config, workers int) *Orchestrator {
	if workers <= 0 {
		workers = 20
	}
	return &Orchestrator{logger: logger, cfg: cfg, workers: workers}
}

// parseCacheKey identifies one file's parse result by path, size, and
// modification time, so an edited file never serves a stale cache hit.
func parseCacheKey(path string, info os.FileInfo) string {
	return fmt.Sprintf("%s:%d:%d", path, info.Size(), info.ModTime().UnixNano())
}

// parseWithCache parses path, serving a cached result when the file is
// unchanged since it was last parsed and caching a fresh, error-free parse.
func parseWithCache(c *cache.Cache, path string) *parser.ParsedFile {
	if c == nil {
		return parser.ParseFile(path)
	}
	info, err := os.Stat(path)
	if err != nil {
		return parser.ParseFile(path)
	}
	key := parseCacheKey(path, info)

	var cached parser.ParsedFile
	if found, err := c.Get(cache.BucketParsedFiles, key, &cached); err == nil && found {
		return &cached
	}

	pf := parser.ParseFile(path)
	if pf.Err == nil {
		_ = c.Put(cache.BucketParsedFiles, key, pf)
	}
	return pf
}

// RunSummary is everything a completed run produces, including a
// partial-failure list so the caller can act on a best-effort result
// instead of an all-or-nothing one.
type RunSummary struct {
	RepoPath     string
	Duration     time.Duration
	FilesTotal   int
	FilesParsed  int
	FilesFailed  int
	ParseErrors  []string
	Warnings     []resolver.Warning
	Graph        *graph.Graph
	Assessments  map[string]*risk.Assessment
	Commits      []models.Commit
	Developers   []models.DeveloperProfile
	Expertise    []models.ExpertiseScore
	BusFactors   []expertise.BusFactor
}

// Run executes the full pipeline against repoPath.
func (o *Orchestrator) Run(ctx context.Context, repoPath string) (*RunSummary, error) {
	start := time.Now()
	o.logger.WithField("repo", repoPath).Info("starting analysis run")

	files, err := discover.Walk(repoPath)
	if err != nil {
		return nil, fmt.Errorf("discover source files: %w", err)
	}

	result := &RunSummary{RepoPath: repoPath, FilesTotal: len(files)}

	var parseCache *cache.Cache
	if o.cfg.Cache.Directory != "" {
		if err := os.MkdirAll(o.cfg.Cache.Directory, 0o755); err == nil {
			parseCache, err = cache.Open(filepath.Join(o.cfg.Cache.Directory, "parse.db"))
			if err != nil {
				o.logger.WithError(err).Warn("could not open parse cache, reparsing every file")
				parseCache = nil
			} else {
				defer parseCache.Close()
			}
		}
	}

	parsed, err := workerpool.Map(ctx, o.workers, files, func(_ context.Context, path string) (*parser.ParsedFile, error) {
		return parseWithCache(parseCache, path), nil
	})
	if err != nil {
		return nil, fmt.Errorf("parse files: %w", err)
	}

	var clean []*parser.ParsedFile
	for _, pf := range parsed {
		if pf.Err != nil {
			result.FilesFailed++
			result.ParseErrors = append(result.ParseErrors, fmt.Sprintf("%s: %v", pf.FilePath, pf.Err))
			continue
		}
		result.FilesParsed++
		clean = append(clean, pf)
	}

	idx := resolver.NewIndex(clean)
	rels, warnings := idx.Resolve()
	entities := idx.Entities()
	entities = append(entities, resolver.EnsureExternalEntities(rels)...)
	result.Warnings = warnings

	g := graph.New(entities, rels)
	result.Graph = g

	changeFreq90d := map[string]int{}
	busFactorOf := map[string]int{}
	cutoff90 := start.AddDate(0, 0, -90)

	miner := gitminer.NewMiner(repoPath)
	commits, err := miner.Mine(ctx, o.cfg.Mining.RevisionRange, "")
	if err != nil {
		o.logger.WithError(err).Warn("git history mining failed, continuing without expertise data")
	} else {
		result.Commits = commits
		result.Developers = gitminer.AggregateDevelopers(commits)
		scorer := expertise.NewScorer(expertise.DefaultWeights(), time.Now())
		result.Expertise = scorer.Score(commits)
		result.BusFactors = expertise.ComputeBusFactor(result.Expertise)

		for _, c := range commits {
			if c.Timestamp.Before(cutoff90) {
				continue
			}
			for _, fc := range c.Files {
				changeFreq90d[fc.Path]++
			}
		}
		for _, bf := range result.BusFactors {
			busFactorOf[bf.FilePath] = bf.Factor
		}
	}

	result.Assessments = o.assessRisk(g, changeFreq90d, busFactorOf)

	result.Duration = time.Since(start)
	o.logger.WithFields(logrus.Fields{
		"files_parsed": result.FilesParsed,
		"files_failed": result.FilesFailed,
		"entities":     g.Len(),
		"duration":     result.Duration,
	}).Info("analysis run complete")

	return result, nil
}

func (o *Orchestrator) assessRisk(g *graph.Graph, changeFreq90d map[string]int, busFactorOf map[string]int) map[string]*risk.Assessment {
	riskCfg := risk.DefaultConfig()
	riskCfg.MediumThreshold = o.cfg.Risk.MediumThreshold
	riskCfg.HighThreshold = o.cfg.Risk.HighThreshold
	riskCfg.CriticalThreshold = o.cfg.Risk.CriticalThreshold
	calc := risk.NewCalculator(o.logger, riskCfg)

	centralityResult := g.BetweennessCentralityDetailed()
	if centralityResult.Approximate {
		o.logger.Warn("graph exceeds the centrality sample threshold; betweenness scores are approximate")
	}
	percentiles := graph.CentralityPercentiles(centralityResult.Values)

	out := make(map[string]*risk.Assessment, g.Len())
	for i := 0; i < g.Len(); i++ {
		e := g.Entity(i)
		sig := risk.EntitySignals{
			EntityID:        e.ID,
			Cyclomatic:      e.Cyclomatic,
			Cognitive:       e.Cognitive,
			Centrality:      percentiles[i],
			TestCoverage:    -1, // unknown: no coverage data source wired
			InDegree:        g.InDegree(i),
			OutDegree:       g.OutDegree(i),
			ChangeFrequency: changeFreq90d[e.Location.File],
			BusFactor:       busFactorOf[e.Location.File],
		}
		out[sig.EntityID] = calc.Assess(sig)
	}
	return out
}
