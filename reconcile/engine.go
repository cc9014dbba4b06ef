// Package reconcile implements the reconciliation engine (C11): one pass
// over a season (or a single game) that runs every active validation rule
// against the games in scope, persists results, and files discrepancies
// for failed cross-source checks. Grounded on the contract in spec.md
// section 4.10.
package reconcile

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/relentnet/nhl-ingest/model"
	"github.com/relentnet/nhl-ingest/validate"
)

// EntityLoader fetches the parsed entities a game's rules need. Adapters
// own how parsed entities are actually stored (spec.md section 4.6); this
// engine only needs read access, so it depends on the narrow interface
// rather than a concrete table -- ok is false when that entity hasn't been
// ingested yet for the game, which every rule treats as "insufficient
// data" rather than an error.
type EntityLoader interface {
	LoadBoxscore(ctx context.Context, gameID int) (model.ParsedBoxscore, bool, error)
	LoadPlayByPlay(ctx context.Context, gameID int) (model.ParsedPlayByPlay, bool, error)
	LoadShiftChart(ctx context.Context, gameID int) (model.ParsedShiftChart, bool, error)
	LoadSchedule(ctx context.Context, gameID int) (model.ScheduleGame, bool, error)
}

// Store persists validation runs, per-game result batches, and
// discrepancies. Kept narrow so unit tests substitute an in-memory fake.
type Store interface {
	CreateRun(ctx context.Context, runID string, seasonID int) error
	RecordGameResults(ctx context.Context, runID string, gameID *int, results []validate.RuleResult) error
	UpsertDiscrepancy(ctx context.Context, d model.Discrepancy) error
	FinishRun(ctx context.Context, runID string, status model.RunStatus, run model.ValidationRun) error
}

// Engine runs reconciliation passes.
type Engine struct {
	Entities EntityLoader
	Store    Store
}

// NewEngine builds an Engine over the given entity source and result store.
func NewEngine(entities EntityLoader, store Store) *Engine {
	return &Engine{Entities: entities, Store: store}
}

// Run evaluates every rule against each game in gameIDs, persists results,
// and files discrepancies, returning the completed ValidationRun.
func (e *Engine) Run(ctx context.Context, seasonID int, gameIDs []int) (model.ValidationRun, error) {
	runID := uuid.NewString()
	startedAt := time.Now()

	if err := e.Store.CreateRun(ctx, runID, seasonID); err != nil {
		return model.ValidationRun{}, fmt.Errorf("reconcile: create run: %w", err)
	}

	run := model.ValidationRun{RunID: runID, SeasonID: seasonID, StartedAt: startedAt, Status: model.RunRunning}

	var runErr error
	for _, gameID := range gameIDs {
		results, err := e.evaluateGame(ctx, gameID)
		if err != nil {
			runErr = err
			break
		}
		validate.SortResults(results)

		gid := gameID
		if err := e.Store.RecordGameResults(ctx, runID, &gid, results); err != nil {
			runErr = fmt.Errorf("reconcile: record results for game %d: %w", gameID, err)
			break
		}

		for _, r := range results {
			run.RulesChecked++
			switch {
			case r.Passed:
				run.TotalPassed++
			case r.Severity == model.SeverityWarning:
				run.TotalWarnings++
			default:
				run.TotalFailed++
			}
			if !r.Passed && r.Category == model.CategoryCrossSource {
				if err := e.fileDiscrepancy(ctx, gameID, r); err != nil {
					runErr = fmt.Errorf("reconcile: file discrepancy for game %d: %w", gameID, err)
					break
				}
			}
		}
		if runErr != nil {
			break
		}
	}

	completedAt := time.Now()
	run.CompletedAt = &completedAt
	if runErr != nil {
		run.Status = model.RunFailed
	} else {
		run.Status = model.RunCompleted
	}

	if err := e.Store.FinishRun(ctx, runID, run.Status, run); err != nil {
		return run, fmt.Errorf("reconcile: finish run: %w", err)
	}
	return run, runErr
}

// evaluateGame loads whatever parsed entities are available for gameID and
// invokes every rule whose required inputs are present, falling back to a
// skipped result for rule groups whose inputs are entirely missing.
func (e *Engine) evaluateGame(ctx context.Context, gameID int) ([]validate.RuleResult, error) {
	var out []validate.RuleResult
	entityID := fmt.Sprintf("%d", gameID)

	box, haveBox, err := e.Entities.LoadBoxscore(ctx, gameID)
	if err != nil {
		return nil, err
	}
	if haveBox {
		out = append(out, validate.ValidateBoxscore(box)...)
	}

	pbp, havePBP, err := e.Entities.LoadPlayByPlay(ctx, gameID)
	if err != nil {
		return nil, err
	}
	switch {
	case haveBox && havePBP:
		out = append(out, validate.ValidateGoalsPBPVsBoxscore(pbp, box)...)
		out = append(out, validate.ValidateShotsPBPVsBoxscore(pbp, box)...)
	default:
		out = append(out,
			validate.Skipped("cross_source_pbp_boxscore_goals_home", model.CategoryCrossSource, "boxscore or play-by-play not yet ingested", entityID),
			validate.Skipped("cross_source_pbp_boxscore_goals_away", model.CategoryCrossSource, "boxscore or play-by-play not yet ingested", entityID),
			validate.Skipped("cross_source_pbp_boxscore_shots_home", model.CategoryCrossSource, "boxscore or play-by-play not yet ingested", entityID),
			validate.Skipped("cross_source_pbp_boxscore_shots_away", model.CategoryCrossSource, "boxscore or play-by-play not yet ingested", entityID),
		)
	}

	shifts, haveShifts, err := e.Entities.LoadShiftChart(ctx, gameID)
	if err != nil {
		return nil, err
	}
	switch {
	case haveBox && haveShifts:
		out = append(out, validate.ValidateTOIShiftsVsBoxscore(shifts, box)...)
		out = append(out, validate.ValidateShiftCountShiftsVsBoxscore(shifts, box)...)
		out = append(out, validate.ValidateShiftTotals(shifts, box)...)
	default:
		out = append(out,
			validate.Skipped("cross_source_shifts_boxscore_toi", model.CategoryCrossSource, "boxscore or shift chart not yet ingested", entityID),
			validate.Skipped("cross_source_shifts_boxscore_shift_count", model.CategoryCrossSource, "boxscore or shift chart not yet ingested", entityID),
			validate.Skipped("analytics_shift_total_tolerance", model.CategoryAnalytics, "boxscore or shift chart not yet ingested", entityID),
		)
	}

	sched, haveSched, err := e.Entities.LoadSchedule(ctx, gameID)
	if err != nil {
		return nil, err
	}
	switch {
	case haveBox && haveSched:
		out = append(out, validate.ValidateFinalScoreScheduleVsBoxscore(sched, box)...)
	default:
		out = append(out, validate.Skipped("cross_source_schedule_boxscore_score", model.CategoryCrossSource, "boxscore or schedule not yet ingested", entityID))
	}

	if haveBox && havePBP {
		out = append(out, attributedShotEventCounts(gameID, pbp, box)...)
	} else {
		out = append(out, validate.Skipped("analytics_event_count_tolerance", model.CategoryAnalytics, "boxscore or play-by-play not yet ingested", entityID))
	}

	return out, nil
}

// attributedShotEventCounts wires the analytics event-count rule to the
// entities this engine actually has: PBP shot-on-goal attribution compared
// against the boxscore's official shots-on-goal count, per team.
func attributedShotEventCounts(gameID int, pbp model.ParsedPlayByPlay, box model.ParsedBoxscore) []validate.RuleResult {
	homeAttributed, awayAttributed := 0, 0
	for _, ev := range pbp.Events {
		if ev.EventType != model.EventShot && ev.EventType != model.EventGoal {
			continue
		}
		if ev.PeriodType == model.PeriodShootout {
			continue
		}
		switch ev.EventOwnerTeam {
		case pbp.HomeTeamID:
			homeAttributed++
		case pbp.AwayTeamID:
			awayAttributed++
		}
	}
	return []validate.RuleResult{
		validate.ValidateEventCounts(gameID, model.EventShot, "boxscore_home", box.HomeTeam.ShotsOnGoal, homeAttributed),
		validate.ValidateEventCounts(gameID, model.EventShot, "boxscore_away", box.AwayTeam.ShotsOnGoal, awayAttributed),
	}
}

// fileDiscrepancy upserts a Discrepancy for one failed cross-source result,
// keyed by (rule, entity_type, entity_id, field_name) per spec.md section
// 4.10's dedup key. entity_type is always "game" here since every rule in
// this engine is scoped to a single game; field_name is derived from the
// rule name's trailing segment (e.g. "goals_home", "shots_away").
func (e *Engine) fileDiscrepancy(ctx context.Context, gameID int, r validate.RuleResult) error {
	d := model.Discrepancy{
		ID:               uuid.NewString(),
		RuleName:         r.RuleName,
		EntityType:       "game",
		EntityID:         fmt.Sprintf("%d", gameID),
		FieldName:        fieldNameFromRule(r.RuleName),
		SourceValues:     r.Details,
		ResolutionStatus: model.ResolutionOpen,
	}
	return e.Store.UpsertDiscrepancy(ctx, d)
}

func fieldNameFromRule(ruleName string) string {
	// cross_source_pbp_boxscore_goals_home -> goals_home
	const prefix1, prefix2 = "cross_source_pbp_boxscore_", "cross_source_shifts_boxscore_"
	switch {
	case len(ruleName) > len(prefix1) && ruleName[:len(prefix1)] == prefix1:
		return ruleName[len(prefix1):]
	case len(ruleName) > len(prefix2) && ruleName[:len(prefix2)] == prefix2:
		return ruleName[len(prefix2):]
	case ruleName == "cross_source_schedule_boxscore_score":
		return "score"
	default:
		return ruleName
	}
}
