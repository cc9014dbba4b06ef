// Package model holds the shared domain types described in spec.md section 3:
// Source, Season, Batch, ProgressEntry, the parsed-entity family, and the
// validation/reconciliation records. Types here carry no behaviour beyond
// small invariant helpers -- persistence lives in progress/batch/validate.
package model

import "time"

// SourceType is the closed set of source archetypes (C4/C7).
type SourceType string

const (
	SourceTypeAPIJSON      SourceType = "api_json"
	SourceTypeHTMLReport   SourceType = "html_report"
	SourceTypeMixedScrape  SourceType = "mixed_scrape"
)

// Source is immutable after seeding. source_id is a small stable integer.
type Source struct {
	ID   int
	Name string
	Type SourceType
}

// BatchStatus is the terminal/non-terminal status of a Batch.
type BatchStatus string

const (
	BatchRunning   BatchStatus = "running"
	BatchCompleted BatchStatus = "completed"
	BatchFailed    BatchStatus = "failed"
	BatchCancelled BatchStatus = "cancelled"
)

// IsTerminal reports whether s is a terminal batch status.
func (s BatchStatus) IsTerminal() bool {
	return s == BatchCompleted || s == BatchFailed || s == BatchCancelled
}

// Batch is one (source, season) ingestion run, atomically tracked.
type Batch struct {
	ID            int64
	SourceID      int
	SeasonID      *int
	Status        BatchStatus
	StartedAt     time.Time
	CompletedAt   *time.Time
	ItemsTotal    *int
	ItemsSuccess  int
	ItemsFailed   int
	ItemsSkipped  int
	ErrorMessage  string
	Metadata      map[string]any
}

// ProgressStatus is the per-item ingestion state machine (spec.md section 3).
type ProgressStatus string

const (
	ProgressPending    ProgressStatus = "pending"
	ProgressInProgress ProgressStatus = "in_progress"
	ProgressSuccess    ProgressStatus = "success"
	ProgressFailed     ProgressStatus = "failed"
	ProgressSkipped    ProgressStatus = "skipped"
)

// ProgressEntry is keyed by (source_id, season_id, item_key). SeasonID is
// nullable; NULL is treated as a distinct key per item_key ("NULL = NULL"
// semantics handled by the store's season_id IS NULL queries).
type ProgressEntry struct {
	ID                int64
	SourceID          int
	SeasonID          *int
	ItemKey           string
	Status            ProgressStatus
	Attempts          int
	BatchID           *int64
	LastAttemptAt     *time.Time
	CompletedAt       *time.Time
	ErrorMessage      string
	ResponseSizeBytes *int
	ResponseTimeMs    *int
	CreatedAt         time.Time
}

// BatchStats mirrors C5.get_batch_stats.
type BatchStats struct {
	Pending  int
	Success  int
	Failed   int
	Skipped  int
	Total    int
}

// ValidationSeverity is the severity of a rule or result.
type ValidationSeverity string

const (
	SeverityError   ValidationSeverity = "error"
	SeverityWarning ValidationSeverity = "warning"
	SeverityInfo    ValidationSeverity = "info"
)

// ValidationCategory distinguishes internal, cross-source, and analytics
// rules (the analytics category is a SPEC_FULL addition, section C.6).
type ValidationCategory string

const (
	CategoryInternal    ValidationCategory = "internal"
	CategoryCrossSource ValidationCategory = "cross_source"
	CategoryAnalytics   ValidationCategory = "analytics"
)

// ValidationRule is a registered rule definition.
type ValidationRule struct {
	ID       int
	Name     string
	Category ValidationCategory
	Severity ValidationSeverity
	IsActive bool
	Config   map[string]any
}

// RunStatus is the lifecycle of a ValidationRun.
type RunStatus string

const (
	RunRunning   RunStatus = "running"
	RunCompleted RunStatus = "completed"
	RunFailed    RunStatus = "failed"
)

// ValidationRun is one reconciliation pass over a season (or a single game).
type ValidationRun struct {
	RunID         string
	SeasonID      int
	StartedAt     time.Time
	CompletedAt   *time.Time
	Status        RunStatus
	RulesChecked  int
	TotalPassed   int
	TotalFailed   int
	TotalWarnings int
	Metadata      map[string]any
}

// ValidationResult is keyed by (run_id, rule_id, game_id?).
type ValidationResult struct {
	RunID         string
	RuleName      string
	GameID        *int
	Passed        bool
	Severity      ValidationSeverity
	Message       string
	Details       map[string]any
	SourceValues  map[string]any
	CreatedAt     time.Time
}

// ResolutionStatus is the discrepancy workflow state.
type ResolutionStatus string

const (
	ResolutionOpen     ResolutionStatus = "open"
	ResolutionResolved ResolutionStatus = "resolved"
	ResolutionIgnored  ResolutionStatus = "ignored"
)

// Discrepancy is a persistent cross-source mismatch record, keyed by
// (rule, entity_type, entity_id, field_name).
type Discrepancy struct {
	ID               string
	RuleName         string
	EntityType       string
	EntityID         string
	FieldName        string
	SourceValues     map[string]any
	ResolutionStatus ResolutionStatus
	CreatedAt        time.Time
	UpdatedAt        time.Time
}
