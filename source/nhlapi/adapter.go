package nhlapi

import (
	"context"
	"fmt"

	"github.com/relentnet/nhl-ingest/model"
	"github.com/relentnet/nhl-ingest/registry"
	"github.com/relentnet/nhl-ingest/source"
)

// BoxscoreAdapter fetches and persists api-web.nhle.com boxscore JSON.
// PersistFunc is injected so this package stays free of a direct dbstore
// dependency -- batch/reconcile own persistence wiring.
type BoxscoreAdapter struct {
	*source.Base
	PersistFunc func(ctx context.Context, b model.ParsedBoxscore) error
}

func NewBoxscoreAdapter(base *source.Base, persist func(context.Context, model.ParsedBoxscore) error) *BoxscoreAdapter {
	return &BoxscoreAdapter{Base: base, PersistFunc: persist}
}

func (a *BoxscoreAdapter) SourceName() string { return registry.SourceNHLBoxscore }

// EnumerateItems is a no-op here: boxscore items are enumerated by the
// schedule source and handed in by the batch coordinator as game ids.
func (a *BoxscoreAdapter) EnumerateItems(ctx context.Context, seasonID *int) ([]source.Item, error) {
	return nil, fmt.Errorf("nhlapi: boxscore enumeration requires a schedule-derived game list")
}

func (a *BoxscoreAdapter) FetchOne(ctx context.Context, item source.Item) (source.FetchResult, error) {
	gameID, ok := source.SafeInt(item.Payload["game_id"])
	if !ok {
		return source.FetchResult{}, fmt.Errorf("nhlapi: item %q missing game_id", item.ItemKey)
	}

	url := fmt.Sprintf("%s/v1/gamecenter/%d/boxscore", a.BaseURL(), gameID)
	resp, err := a.Client.Get(ctx, url, nil)
	if err != nil {
		return source.FetchResult{}, err
	}
	if !resp.IsSuccess() {
		return source.FetchResult{}, fmt.Errorf("nhlapi: boxscore fetch for %d returned status %d", gameID, resp.StatusCode)
	}

	parsed, err := ParseBoxscore(gameID, resp.Body)
	if err != nil {
		return source.FetchResult{}, err
	}

	return source.FetchResult{
		Parsed:            parsed,
		ResponseSizeBytes: len(resp.Body),
		ResponseTimeMs:    int(resp.Duration.Milliseconds()),
	}, nil
}

func (a *BoxscoreAdapter) Persist(ctx context.Context, result source.FetchResult) error {
	b, ok := result.Parsed.(model.ParsedBoxscore)
	if !ok {
		return fmt.Errorf("nhlapi: Persist received non-boxscore payload")
	}
	return a.PersistFunc(ctx, b)
}

func (a *BoxscoreAdapter) HealthCheck(ctx context.Context) bool {
	return a.Client.HealthCheck(ctx, a.BaseURL(), "/v1/schedule/now")
}

// ScheduleAdapter fetches the weekly schedule to enumerate game ids for the
// other JSON-API and HTML-report adapters.
type ScheduleAdapter struct {
	*source.Base
	PersistFunc func(ctx context.Context, games []model.ScheduleGame) error
}

func NewScheduleAdapter(base *source.Base, persist func(context.Context, []model.ScheduleGame) error) *ScheduleAdapter {
	return &ScheduleAdapter{Base: base, PersistFunc: persist}
}

func (a *ScheduleAdapter) SourceName() string { return registry.SourceNHLSchedule }

func (a *ScheduleAdapter) EnumerateItems(ctx context.Context, seasonID *int) ([]source.Item, error) {
	const week = "now"
	return []source.Item{{ItemKey: week, SeasonID: seasonID, Payload: map[string]any{"week": week}}}, nil
}

func (a *ScheduleAdapter) FetchOne(ctx context.Context, item source.Item) (source.FetchResult, error) {
	week, _ := item.Payload["week"].(string)
	url := fmt.Sprintf("%s/v1/schedule/%s", a.BaseURL(), week)
	resp, err := a.Client.Get(ctx, url, nil)
	if err != nil {
		return source.FetchResult{}, err
	}
	if !resp.IsSuccess() {
		return source.FetchResult{}, fmt.Errorf("nhlapi: schedule fetch returned status %d", resp.StatusCode)
	}

	games, err := ParseSchedule(resp.Body)
	if err != nil {
		return source.FetchResult{}, err
	}

	return source.FetchResult{
		Parsed:            games,
		ResponseSizeBytes: len(resp.Body),
		ResponseTimeMs:    int(resp.Duration.Milliseconds()),
	}, nil
}

func (a *ScheduleAdapter) Persist(ctx context.Context, result source.FetchResult) error {
	games, ok := result.Parsed.([]model.ScheduleGame)
	if !ok {
		return fmt.Errorf("nhlapi: Persist received non-schedule payload")
	}
	return a.PersistFunc(ctx, games)
}

func (a *ScheduleAdapter) HealthCheck(ctx context.Context) bool {
	return a.Client.HealthCheck(ctx, a.BaseURL(), "/v1/schedule/now")
}
