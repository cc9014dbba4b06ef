package mixedscrape

import (
	"context"
	"fmt"

	"github.com/relentnet/nhl-ingest/model"
	"github.com/relentnet/nhl-ingest/registry"
	"github.com/relentnet/nhl-ingest/source"
)

// StartingGoaliesAdapter fetches the projected-starters page per game.
type StartingGoaliesAdapter struct {
	*source.Base
	PersistFunc func(ctx context.Context, g []model.StartingGoalie) error
}

func NewStartingGoaliesAdapter(base *source.Base, persist func(context.Context, []model.StartingGoalie) error) *StartingGoaliesAdapter {
	return &StartingGoaliesAdapter{Base: base, PersistFunc: persist}
}

func (a *StartingGoaliesAdapter) SourceName() string { return registry.SourceDailyFaceoff }

func (a *StartingGoaliesAdapter) EnumerateItems(ctx context.Context, seasonID *int) ([]source.Item, error) {
	return nil, fmt.Errorf("mixedscrape: starting goalies enumeration requires a schedule-derived game list")
}

func (a *StartingGoaliesAdapter) FetchOne(ctx context.Context, item source.Item) (source.FetchResult, error) {
	gameID, ok := source.SafeInt(item.Payload["game_id"])
	if !ok {
		return source.FetchResult{}, fmt.Errorf("mixedscrape: item %q missing game_id", item.ItemKey)
	}

	url := fmt.Sprintf("%s/starting-goalies/%d", a.BaseURL(), gameID)
	resp, err := a.Client.Get(ctx, url, nil)
	if err != nil {
		return source.FetchResult{}, err
	}
	if !resp.IsSuccess() {
		return source.FetchResult{}, fmt.Errorf("mixedscrape: fetch for %d returned status %d", gameID, resp.StatusCode)
	}

	goalies, err := ParseStartingGoalies(gameID, resp.Body)
	if err != nil {
		return source.FetchResult{}, err
	}

	return source.FetchResult{
		Parsed:            goalies,
		ResponseSizeBytes: len(resp.Body),
		ResponseTimeMs:    int(resp.Duration.Milliseconds()),
	}, nil
}

func (a *StartingGoaliesAdapter) Persist(ctx context.Context, result source.FetchResult) error {
	goalies, ok := result.Parsed.([]model.StartingGoalie)
	if !ok {
		return fmt.Errorf("mixedscrape: Persist received unexpected payload type")
	}
	return a.PersistFunc(ctx, goalies)
}

func (a *StartingGoaliesAdapter) HealthCheck(ctx context.Context) bool {
	return a.Client.HealthCheck(ctx, a.BaseURL(), "/")
}
