// Package models holds the data types shared across the analysis pipeline:
// entities, relationships, commit records, developer profiles, expertise
// scores, layers, boundary rules, violations, and drift metrics.
package models

import "time"

// EntityKind is the closed set of node kinds the graph can hold.
type EntityKind string

const (
	KindFunction EntityKind = "function"
	KindMethod   EntityKind = "method"
	KindClass    EntityKind = "class"
	KindModule   EntityKind = "module"
	KindImport   EntityKind = "import"
	KindExternal EntityKind = "external" // synthetic node for unresolved calls
)

// Location is a source span within a file.
type Location struct {
	File      string `json:"file"`
	StartLine int    `json:"start_line"`
	EndLine   int    `json:"end_line"`
}

// Signature captures a callable's declared shape.
type Signature struct {
	Params     []string `json:"params,omitempty"`
	ReturnType string   `json:"return_type,omitempty"`
	Decorators []string `json:"decorators,omitempty"`
}

// Entity is a node in the knowledge graph. ID has the stable form
// "<normalised_path>:<qualified_name>".
type Entity struct {
	ID         string     `json:"id"`
	Kind       EntityKind `json:"kind"`
	Name       string     `json:"name"`
	Location   Location   `json:"location"`
	Signature  Signature  `json:"signature,omitempty"`
	Cyclomatic int        `json:"cyclomatic_complexity"`
	Cognitive  int        `json:"cognitive_complexity"`
	OwnerClass string     `json:"owner_class,omitempty"` // methods only
	Language   string     `json:"language,omitempty"`
}

// RelationshipKind is the closed set of edge kinds the graph can hold.
type RelationshipKind string

const (
	RelCalls     RelationshipKind = "CALLS"
	RelInherits  RelationshipKind = "INHERITS"
	RelImports   RelationshipKind = "IMPORTS"
	RelDecorates RelationshipKind = "DECORATES"
	RelReturns   RelationshipKind = "RETURNS"
	RelRaises    RelationshipKind = "RAISES"
	RelUses      RelationshipKind = "USES"
	RelContains  RelationshipKind = "CONTAINS"
	RelOverrides RelationshipKind = "OVERRIDES"
	RelImplements RelationshipKind = "IMPLEMENTS"
	RelReferences RelationshipKind = "REFERENCES"
	RelThrows    RelationshipKind = "THROWS"
)

// StructuralKinds are the edge kinds used for centrality, blast radius,
// and governance traversal, restricted to structural edges (CALLS,
// INHERITS, IMPORTS).
var StructuralKinds = map[RelationshipKind]bool{
	RelCalls:    true,
	RelInherits: true,
	RelImports:  true,
}

// Relationship is a directed, typed edge between two entities.
type Relationship struct {
	SourceID string                 `json:"source_id"`
	TargetID string                 `json:"target_id"`
	Kind     RelationshipKind       `json:"kind"`
	Attrs    map[string]interface{} `json:"attrs,omitempty"`
}

// RiskLevel is the four-band classification of a risk score.
type RiskLevel string

const (
	RiskLow      RiskLevel = "LOW"
	RiskMedium   RiskLevel = "MEDIUM"
	RiskHigh     RiskLevel = "HIGH"
	RiskCritical RiskLevel = "CRITICAL"
)

// CommitClassification is the deterministic category a commit is assigned.
type CommitClassification string

const (
	ClassBugfix       CommitClassification = "bugfix"
	ClassRefactor      CommitClassification = "refactor"
	ClassArchitectural CommitClassification = "architectural"
	ClassRoutine       CommitClassification = "routine"
)

// FileChange is the per-file hunk summary within a commit.
type FileChange struct {
	Path             string `json:"path"`
	LinesAdded       int    `json:"lines_added"`
	LinesDeleted     int    `json:"lines_deleted"`
	FilesTouchedInCommit int `json:"files_touched_in_commit"`
}

// Author identifies a commit's author by name and email.
type Author struct {
	Name  string `json:"name"`
	Email string `json:"email"`
}

// Commit is one mined commit record.
type Commit struct {
	Hash           string               `json:"hash"`
	Author         Author               `json:"author"`
	Timestamp      time.Time            `json:"timestamp"`
	Message        string               `json:"message"`
	Classification CommitClassification `json:"classification"`
	Files          []FileChange         `json:"files"`
}

// DeveloperProfile aggregates per-developer activity, keyed by email.
type DeveloperProfile struct {
	Email          string    `json:"email"`
	ObservedNames  []string  `json:"observed_names"`
	FirstActivity  time.Time `json:"first_activity"`
	LastActivity   time.Time `json:"last_activity"`
	TotalCommits   int       `json:"total_commits"`
	TotalLinesAdded   int    `json:"total_lines_added"`
	TotalLinesDeleted int    `json:"total_lines_deleted"`
}

// ExpertiseFactors holds the seven weighted factor values in [0,1].
type ExpertiseFactors struct {
	CommitFrequency       float64 `json:"commit_frequency"`
	LinesChanged          float64 `json:"lines_changed"`
	RefactorDepth         float64 `json:"refactor_depth"`
	ArchitecturalChanges  float64 `json:"architectural_changes"`
	BugFixes              float64 `json:"bug_fixes"`
	Recency               float64 `json:"recency"`
	CodeReviewParticipation float64 `json:"code_review_participation"`
}

// ExpertiseScore is a per-(developer, file) record.
type ExpertiseScore struct {
	DeveloperEmail string           `json:"developer_email"`
	FilePath       string           `json:"file_path"`
	Factors        ExpertiseFactors `json:"factors"`
	Total          float64          `json:"total"`
	Confidence     float64          `json:"confidence"`
}

// Layer is a named partition of module paths, defined by ordered globs.
type Layer struct {
	Name     string   `json:"name"`
	Patterns []string `json:"patterns"`
}

// RuleAction is the effect a boundary rule has on a matching import edge.
type RuleAction string

const (
	ActionAllow RuleAction = "allow"
	ActionWarn  RuleAction = "warn"
	ActionBlock RuleAction = "block"
)

// BoundaryRule governs imports from one layer to another.
type BoundaryRule struct {
	Name     string     `json:"name"`
	From     string     `json:"from"`
	To       string     `json:"to"`
	Action   RuleAction `json:"action"`
	Message  string     `json:"message"`
}

// Severity is the governance-issue severity, distinct from the pipeline's
// internal error Severity.
type Severity string

const (
	SeverityInfo     Severity = "info"
	SeverityWarning  Severity = "warning"
	SeverityError    Severity = "error"
	SeverityCritical Severity = "critical"
)

// Violation is a single rule match against an import edge.
type Violation struct {
	RuleName   string   `json:"rule_name"`
	FromModule string   `json:"from_module"`
	ToModule   string   `json:"to_module"`
	FromLayer  string   `json:"from_layer"`
	ToLayer    string   `json:"to_layer"`
	Severity   Severity `json:"severity"`
	FilePath   string   `json:"file_path"`
	LineNumber int      `json:"line_number"`
	Message    string   `json:"message"`
}

// DriftMetrics is the bounded scalar + dimension breakdown comparing a
// current snapshot's architecture metrics against a stored baseline.
type DriftMetrics struct {
	CouplingScore   float64            `json:"coupling_score"`
	CohesionScore   float64            `json:"cohesion_score"`
	ViolationCount  int                `json:"violation_count"`
	LayerBalance    map[string]float64 `json:"layer_balance"`
}
