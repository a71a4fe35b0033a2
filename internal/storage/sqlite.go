// Package storage persists the data synapse needs across runs: expertise
// scores, developer profiles, and governance drift baselines, via
// sqlx.Connect against the mattn/go-sqlite3 driver, WAL mode, and an
// initSchema() bootstrap — local-filesystem persistence only (see
// DESIGN.md for why remote backing stores are out of scope).
package storage

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/jmoiron/sqlx"
	_ "github.com/mattn/go-sqlite3"
	"github.com/sirupsen/logrus"

	"github.com/nithin-eashwar/synapse/internal/models"
)

// Store persists expertise scores, developer profiles, and drift
// baselines in a local SQLite database.
type Store struct {
	db     *sqlx.DB
	logger *logrus.Logger
}

// Open connects to (and creates, if absent) a SQLite database at path.
func Open(path string, logger *logrus.Logger) (*Store, error) {
	if logger == nil {
		logger = logrus.StandardLogger()
	}

	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, fmt.Errorf("create database directory: %w", err)
	}

	db, err := sqlx.Connect("sqlite3", path)
	if err != nil {
		return nil, fmt.Errorf("connect to sqlite: %w", err)
	}
	db.Exec("PRAGMA foreign_keys = ON")
	db.Exec("PRAGMA journal_mode = WAL")

	store := &Store{db: db, logger: logger}
	if err := store.initSchema(); err != nil {
		return nil, fmt.Errorf("init schema: %w", err)
	}
	return store, nil
}

func (s *Store) initSchema() error {
	schema := `
	CREATE TABLE IF NOT EXISTS developer_profiles (
		email TEXT PRIMARY KEY,
		observed_names TEXT,
		first_activity DATETIME,
		last_activity DATETIME,
		total_commits INTEGER,
		total_lines_added INTEGER,
		total_lines_deleted INTEGER
	);

	CREATE TABLE IF NOT EXISTS expertise_scores (
		developer_email TEXT NOT NULL,
		file_path TEXT NOT NULL,
		commit_frequency REAL,
		lines_changed REAL,
		refactor_depth REAL,
		architectural_changes REAL,
		bug_fixes REAL,
		recency REAL,
		code_review_participation REAL,
		total REAL,
		confidence REAL,
		computed_at DATETIME,
		PRIMARY KEY (developer_email, file_path)
	);

	CREATE TABLE IF NOT EXISTS drift_baselines (
		repo_path TEXT PRIMARY KEY,
		coupling_score REAL,
		cohesion_score REAL,
		violation_count INTEGER,
		layer_balance TEXT,
		recorded_at DATETIME
	);
	`
	_, err := s.db.Exec(schema)
	return err
}

// Close releases the underlying database connection.
func (s *Store) Close() error { return s.db.Close() }

// SaveDeveloperProfiles upserts a batch of developer profiles.
func (s *Store) SaveDeveloperProfiles(ctx context.Context, profiles []models.DeveloperProfile) error {
	tx, err := s.db.BeginTxx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	stmt := `INSERT INTO developer_profiles
		(email, observed_names, first_activity, last_activity, total_commits, total_lines_added, total_lines_deleted)
		VALUES (:email, :observed_names, :first_activity, :last_activity, :total_commits, :total_lines_added, :total_lines_deleted)
		ON CONFLICT(email) DO UPDATE SET
			observed_names=excluded.observed_names,
			first_activity=excluded.first_activity,
			last_activity=excluded.last_activity,
			total_commits=excluded.total_commits,
			total_lines_added=excluded.total_lines_added,
			total_lines_deleted=excluded.total_lines_deleted`

	for _, p := range profiles {
		_, err := tx.NamedExecContext(ctx, stmt, map[string]interface{}{
			"email":               p.Email,
			"observed_names":      joinNames(p.ObservedNames),
			"first_activity":      p.FirstActivity,
			"last_activity":       p.LastActivity,
			"total_commits":       p.TotalCommits,
			"total_lines_added":   p.TotalLinesAdded,
			"total_lines_deleted": p.TotalLinesDeleted,
		})
		if err != nil {
			return fmt.Errorf("save developer profile %s: %w", p.Email, err)
		}
	}

	return tx.Commit()
}

// SaveExpertiseScores upserts a batch of expertise scores.
func (s *Store) SaveExpertiseScores(ctx context.Context, scores []models.ExpertiseScore) error {
	tx, err := s.db.BeginTxx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	stmt := `INSERT INTO expertise_scores
		(developer_email, file_path, commit_frequency, lines_changed, refactor_depth,
		 architectural_changes, bug_fixes, recency, code_review_participation, total, confidence, computed_at)
		VALUES (:developer_email, :file_path, :commit_frequency, :lines_changed, :refactor_depth,
		 :architectural_changes, :bug_fixes, :recency, :code_review_participation, :total, :confidence, :computed_at)
		ON CONFLICT(developer_email, file_path) DO UPDATE SET
			commit_frequency=excluded.commit_frequency,
			lines_changed=excluded.lines_changed,
			refactor_depth=excluded.refactor_depth,
			architectural_changes=excluded.architectural_changes,
			bug_fixes=excluded.bug_fixes,
			recency=excluded.recency,
			code_review_participation=excluded.code_review_participation,
			total=excluded.total,
			confidence=excluded.confidence,
			computed_at=excluded.computed_at`

	now := time.Now()
	for _, sc := range scores {
		_, err := tx.NamedExecContext(ctx, stmt, map[string]interface{}{
			"developer_email":           sc.DeveloperEmail,
			"file_path":                 sc.FilePath,
			"commit_frequency":          sc.Factors.CommitFrequency,
			"lines_changed":             sc.Factors.LinesChanged,
			"refactor_depth":            sc.Factors.RefactorDepth,
			"architectural_changes":     sc.Factors.ArchitecturalChanges,
			"bug_fixes":                 sc.Factors.BugFixes,
			"recency":                   sc.Factors.Recency,
			"code_review_participation": sc.Factors.CodeReviewParticipation,
			"total":                     sc.Total,
			"confidence":                sc.Confidence,
			"computed_at":               now,
		})
		if err != nil {
			return fmt.Errorf("save expertise score %s/%s: %w", sc.DeveloperEmail, sc.FilePath, err)
		}
	}

	return tx.Commit()
}

// ExpertiseForFile returns every stored expertise score for a given file.
func (s *Store) ExpertiseForFile(ctx context.Context, filePath string) ([]models.ExpertiseScore, error) {
	rows, err := s.db.QueryxContext(ctx,
		`SELECT developer_email, file_path, commit_frequency, lines_changed, refactor_depth,
		        architectural_changes, bug_fixes, recency, code_review_participation, total, confidence
		 FROM expertise_scores WHERE file_path = ? ORDER BY total DESC`, filePath)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var scores []models.ExpertiseScore
	for rows.Next() {
		var sc models.ExpertiseScore
		if err := rows.Scan(&sc.DeveloperEmail, &sc.FilePath, &sc.Factors.CommitFrequency,
			&sc.Factors.LinesChanged, &sc.Factors.RefactorDepth, &sc.Factors.ArchitecturalChanges,
			&sc.Factors.BugFixes, &sc.Factors.Recency, &sc.Factors.CodeReviewParticipation,
			&sc.Total, &sc.Confidence); err != nil {
			return nil, err
		}
		scores = append(scores, sc)
	}
	return scores, rows.Err()
}

// SaveDriftBaseline records current architecture metrics as the new
// baseline for repoPath.
func (s *Store) SaveDriftBaseline(ctx context.Context, repoPath string, metrics models.DriftMetrics, layerBalanceJSON string) error {
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO drift_baselines (repo_path, coupling_score, cohesion_score, violation_count, layer_balance, recorded_at)
		 VALUES (?, ?, ?, ?, ?, ?)
		 ON CONFLICT(repo_path) DO UPDATE SET
		 	coupling_score=excluded.coupling_score,
		 	cohesion_score=excluded.cohesion_score,
		 	violation_count=excluded.violation_count,
		 	layer_balance=excluded.layer_balance,
		 	recorded_at=excluded.recorded_at`,
		repoPath, metrics.CouplingScore, metrics.CohesionScore, metrics.ViolationCount, layerBalanceJSON, time.Now())
	return err
}

// LoadDriftBaseline fetches the stored baseline for repoPath, if any.
func (s *Store) LoadDriftBaseline(ctx context.Context, repoPath string) (*models.DriftMetrics, string, bool, error) {
	var m models.DriftMetrics
	var layerBalanceJSON string
	row := s.db.QueryRowxContext(ctx,
		`SELECT coupling_score, cohesion_score, violation_count, layer_balance FROM drift_baselines WHERE repo_path = ?`, repoPath)
	err := row.Scan(&m.CouplingScore, &m.CohesionScore, &m.ViolationCount, &layerBalanceJSON)
	if err != nil {
		return nil, "", false, nil
	}
	return &m, layerBalanceJSON, true, nil
}

func joinNames(names []string) string {
	out := ""
	for i, n := range names {
		if i > 0 {
			out += "|"
		}
		out += n
	}
	return out
}
