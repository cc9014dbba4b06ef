package reconcile

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/relentnet/nhl-ingest/model"
	"github.com/relentnet/nhl-ingest/validate"
)

// pgStore is the pgx-backed Store implementation, grounded on the
// teacher's transaction-per-write-unit idiom in
// integrations/sports/api/sports.go and the schema bootstrapped by
// dbstore.bootstrap.
type pgStore struct {
	db *pgxpool.Pool
}

// NewPGStore wraps a connection pool as a reconcile.Store.
func NewPGStore(db *pgxpool.Pool) Store {
	return &pgStore{db: db}
}

func (s *pgStore) CreateRun(ctx context.Context, runID string, seasonID int) error {
	_, err := s.db.Exec(ctx, `
		INSERT INTO validation_runs (run_id, season_id, status)
		VALUES ($1, $2, $3)
	`, runID, seasonID, string(model.RunRunning))
	if err != nil {
		return fmt.Errorf("reconcile: insert run: %w", err)
	}
	return nil
}

// RecordGameResults persists every result for one game inside a single
// transaction -- spec.md section 4.10 requires that a game's results land
// atomically, either all or none.
func (s *pgStore) RecordGameResults(ctx context.Context, runID string, gameID *int, results []validate.RuleResult) error {
	tx, err := s.db.Begin(ctx)
	if err != nil {
		return fmt.Errorf("reconcile: begin tx: %w", err)
	}
	defer tx.Rollback(ctx)

	for _, r := range results {
		_, err := tx.Exec(ctx, `
			INSERT INTO validation_results (run_id, rule_name, game_id, passed, severity, message, details, source_values)
			VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		`, runID, r.RuleName, gameID, r.Passed, string(r.Severity), r.Message, jsonbOrEmpty(r.Details), jsonbOrEmpty(nil))
		if err != nil {
			return fmt.Errorf("reconcile: insert result %s: %w", r.RuleName, err)
		}
	}

	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("reconcile: commit tx: %w", err)
	}
	return nil
}

func jsonbOrEmpty(m map[string]any) map[string]any {
	if m == nil {
		return map[string]any{}
	}
	return m
}

// UpsertDiscrepancy inserts a new discrepancy or, if one already exists for
// the same (rule, entity_type, entity_id, field_name) key, refreshes its
// source_values and updated_at and marks it open again.
// Previously-resolved discrepancies are not reopened by a later failing
// run unless the underlying source values changed, per spec.md section
// 4.10; the WHERE clause on the conflict update enforces that by only
// touching rows that are still 'open' or whose source_values actually
// differ from the new ones.
func (s *pgStore) UpsertDiscrepancy(ctx context.Context, d model.Discrepancy) error {
	_, err := s.db.Exec(ctx, `
		INSERT INTO discrepancies (id, rule_name, entity_type, entity_id, field_name, source_values, resolution_status)
		VALUES ($1, $2, $3, $4, $5, $6, 'open')
		ON CONFLICT (rule_name, entity_type, entity_id, field_name) DO UPDATE SET
			source_values = EXCLUDED.source_values,
			resolution_status = 'open',
			updated_at = now()
		WHERE discrepancies.resolution_status = 'open'
		   OR discrepancies.source_values IS DISTINCT FROM EXCLUDED.source_values
	`, d.ID, d.RuleName, d.EntityType, d.EntityID, d.FieldName, jsonbOrEmpty(d.SourceValues))
	if err != nil {
		return fmt.Errorf("reconcile: upsert discrepancy: %w", err)
	}
	return nil
}

func (s *pgStore) FinishRun(ctx context.Context, runID string, status model.RunStatus, run model.ValidationRun) error {
	_, err := s.db.Exec(ctx, `
		UPDATE validation_runs SET
			status = $2, completed_at = now(),
			rules_checked = $3, total_passed = $4, total_failed = $5, total_warnings = $6
		WHERE run_id = $1
	`, runID, string(status), run.RulesChecked, run.TotalPassed, run.TotalFailed, run.TotalWarnings)
	if err != nil {
		return fmt.Errorf("reconcile: finish run: %w", err)
	}
	return nil
}
