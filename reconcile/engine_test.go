package reconcile

import (
	"context"
	"sync"
	"testing"

	"github.com/relentnet/nhl-ingest/model"
	"github.com/relentnet/nhl-ingest/validate"
)

type fakeEntities struct {
	boxscores map[int]model.ParsedBoxscore
	pbp       map[int]model.ParsedPlayByPlay
	shifts    map[int]model.ParsedShiftChart
	schedules map[int]model.ScheduleGame
}

func (f *fakeEntities) LoadBoxscore(ctx context.Context, gameID int) (model.ParsedBoxscore, bool, error) {
	b, ok := f.boxscores[gameID]
	return b, ok, nil
}
func (f *fakeEntities) LoadPlayByPlay(ctx context.Context, gameID int) (model.ParsedPlayByPlay, bool, error) {
	p, ok := f.pbp[gameID]
	return p, ok, nil
}
func (f *fakeEntities) LoadShiftChart(ctx context.Context, gameID int) (model.ParsedShiftChart, bool, error) {
	s, ok := f.shifts[gameID]
	return s, ok, nil
}
func (f *fakeEntities) LoadSchedule(ctx context.Context, gameID int) (model.ScheduleGame, bool, error) {
	s, ok := f.schedules[gameID]
	return s, ok, nil
}

type fakeReconcileStore struct {
	mu            sync.Mutex
	runsCreated   []string
	resultsByGame map[int][]validate.RuleResult
	discrepancies []model.Discrepancy
	finished      model.ValidationRun
}

func newFakeReconcileStore() *fakeReconcileStore {
	return &fakeReconcileStore{resultsByGame: map[int][]validate.RuleResult{}}
}

func (s *fakeReconcileStore) CreateRun(ctx context.Context, runID string, seasonID int) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.runsCreated = append(s.runsCreated, runID)
	return nil
}

func (s *fakeReconcileStore) RecordGameResults(ctx context.Context, runID string, gameID *int, results []validate.RuleResult) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if gameID != nil {
		s.resultsByGame[*gameID] = results
	}
	return nil
}

func (s *fakeReconcileStore) UpsertDiscrepancy(ctx context.Context, d model.Discrepancy) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.discrepancies = append(s.discrepancies, d)
	return nil
}

func (s *fakeReconcileStore) FinishRun(ctx context.Context, runID string, status model.RunStatus, run model.ValidationRun) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.finished = run
	return nil
}

func TestEngineRunCompletesAndFilesDiscrepancy(t *testing.T) {
	box := model.ParsedBoxscore{GameID: 1, HomeTeam: model.TeamBoxscore{Score: 3}, AwayTeam: model.TeamBoxscore{Score: 1}}
	pbp := model.ParsedPlayByPlay{GameID: 1, HomeTeamID: 1, AwayTeamID: 2, Events: []model.PBPEvent{
		{EventType: model.EventGoal, PeriodType: model.PeriodRegulation, EventOwnerTeam: 1},
		{EventType: model.EventGoal, PeriodType: model.PeriodRegulation, EventOwnerTeam: 1},
	}}
	entities := &fakeEntities{
		boxscores: map[int]model.ParsedBoxscore{1: box},
		pbp:       map[int]model.ParsedPlayByPlay{1: pbp},
	}
	store := newFakeReconcileStore()
	engine := NewEngine(entities, store)

	run, err := engine.Run(context.Background(), 20242025, []int{1})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if run.Status != model.RunCompleted {
		t.Errorf("status = %v, want completed", run.Status)
	}
	if run.TotalFailed == 0 {
		t.Errorf("expected the home-goals mismatch (PBP=2, Box=3) to count as a failure")
	}
	if len(store.discrepancies) == 0 {
		t.Errorf("expected a discrepancy to be filed for the failed cross-source goals rule")
	}
}

func TestEngineRunSkipsWhenEntitiesMissing(t *testing.T) {
	entities := &fakeEntities{}
	store := newFakeReconcileStore()
	engine := NewEngine(entities, store)

	run, err := engine.Run(context.Background(), 20242025, []int{1})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if run.Status != model.RunCompleted {
		t.Errorf("status = %v, want completed even with no ingested entities", run.Status)
	}
	results := store.resultsByGame[1]
	if len(results) == 0 {
		t.Fatal("expected skipped results to still be recorded")
	}
	for _, r := range results {
		if !r.Passed {
			t.Errorf("missing-entity rule groups should report passed skips, got %+v", r)
		}
	}
}

func TestEngineRunRecordsResultsPerGame(t *testing.T) {
	box1 := model.ParsedBoxscore{GameID: 1, HomeTeam: model.TeamBoxscore{Score: 2}, AwayTeam: model.TeamBoxscore{Score: 2}}
	box2 := model.ParsedBoxscore{GameID: 2, HomeTeam: model.TeamBoxscore{Score: 1}, AwayTeam: model.TeamBoxscore{Score: 1}}
	entities := &fakeEntities{boxscores: map[int]model.ParsedBoxscore{1: box1, 2: box2}}
	store := newFakeReconcileStore()
	engine := NewEngine(entities, store)

	if _, err := engine.Run(context.Background(), 20242025, []int{1, 2}); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(store.resultsByGame) != 2 {
		t.Errorf("expected results recorded for both games, got %d", len(store.resultsByGame))
	}
}
