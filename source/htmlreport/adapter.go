package htmlreport

import (
	"bytes"
	"compress/gzip"
	"context"
	"fmt"
	"io"

	"github.com/relentnet/nhl-ingest/model"
	"github.com/relentnet/nhl-ingest/registry"
	"github.com/relentnet/nhl-ingest/source"
)

// PersistFunc persists one report's parsed payload. The concrete type of
// parsed depends on code: model.ParsedHTMLReport for GS/ES/TH/TV,
// model.ParsedFaceoffReport for FS/FC, model.ParsedRosterReport for RO,
// model.ParsedShotSummaryReport for SS, model.ParsedPlayByPlayHTMLReport
// for PL.
type PersistFunc func(ctx context.Context, code model.HTMLReportCode, parsed any) error

// ReportAdapter fetches and parses one HTML report code for every game
// handed to it. One adapter instance is configured per report code so the
// registry's per-source health check and rate limit apply independently.
type ReportAdapter struct {
	*source.Base
	Code        model.HTMLReportCode
	SourceNm    string
	PersistFunc PersistFunc
}

func NewReportAdapter(base *source.Base, code model.HTMLReportCode, sourceName string, persist PersistFunc) *ReportAdapter {
	return &ReportAdapter{Base: base, Code: code, SourceNm: sourceName, PersistFunc: persist}
}

func (a *ReportAdapter) SourceName() string { return a.SourceNm }

// EnumerateItems requires the batch coordinator to supply a game list
// (typically derived from the schedule source), mirroring BoxscoreAdapter.
func (a *ReportAdapter) EnumerateItems(ctx context.Context, seasonID *int) ([]source.Item, error) {
	return nil, fmt.Errorf("htmlreport: %s enumeration requires a schedule-derived game list", a.SourceNm)
}

func (a *ReportAdapter) FetchOne(ctx context.Context, item source.Item) (source.FetchResult, error) {
	gameID, ok := source.SafeInt(item.Payload["game_id"])
	if !ok {
		return source.FetchResult{}, fmt.Errorf("htmlreport: item %q missing game_id", item.ItemKey)
	}

	url := BuildReportURL(a.BaseURL(), gameID, a.Code)
	resp, err := a.Client.Get(ctx, url, nil)
	if err != nil {
		return source.FetchResult{}, err
	}
	if !resp.IsSuccess() {
		return source.FetchResult{}, fmt.Errorf("htmlreport: fetch %s for %d returned status %d", a.Code, gameID, resp.StatusCode)
	}
	if len(resp.Body) >= 2 && resp.Body[0] == 0x1f && resp.Body[1] == 0x8b {
		zr, err := gzip.NewReader(bytes.NewReader(resp.Body))
		if err != nil {
			return source.FetchResult{}, fmt.Errorf("htmlreport: gunzip %s for %d: %w", a.Code, gameID, err)
		}
		plain, err := io.ReadAll(zr)
		if err != nil {
			return source.FetchResult{}, fmt.Errorf("htmlreport: gunzip %s for %d: %w", a.Code, gameID, err)
		}
		resp.Body = plain
	}

	var parsed any
	switch a.Code {
	case model.ReportGameSummary:
		parsed, err = ParseGameSummary(gameID, resp.Body)
	case model.ReportEventSummary:
		parsed, err = ParseEventSummary(gameID, resp.Body)
	case model.ReportHomeTOI, model.ReportVisitorTOI:
		parsed, err = ParseTOIReport(gameID, a.Code, resp.Body)
	case model.ReportFaceoffSummary:
		parsed, err = ParseFaceoffSummary(gameID, resp.Body)
	case model.ReportFaceoffComparison:
		parsed, err = ParseFaceoffComparison(gameID, resp.Body)
	case model.ReportRoster:
		parsed, err = ParseRoster(gameID, resp.Body)
	case model.ReportShotSummary:
		parsed, err = ParseShotSummary(gameID, resp.Body)
	case model.ReportPlayByPlay:
		parsed, err = ParsePlayByPlayReport(gameID, resp.Body)
	default:
		err = fmt.Errorf("htmlreport: no parser wired for report code %s", a.Code)
	}
	if err != nil {
		return source.FetchResult{}, err
	}

	return source.FetchResult{
		Parsed:            parsed,
		ResponseSizeBytes: len(resp.Body),
		ResponseTimeMs:    int(resp.Duration.Milliseconds()),
	}, nil
}

func (a *ReportAdapter) Persist(ctx context.Context, result source.FetchResult) error {
	return a.PersistFunc(ctx, a.Code, result.Parsed)
}

func (a *ReportAdapter) HealthCheck(ctx context.Context) bool {
	// The report index has no dedicated health endpoint; a reachable base
	// URL root is treated as healthy.
	return a.Client.HealthCheck(ctx, a.BaseURL(), "/")
}

// NewGameSummaryAdapter is a convenience constructor for the GS report,
// the one most other cross-source rules depend on for final scores.
func NewGameSummaryAdapter(base *source.Base, persist func(context.Context, model.ParsedHTMLReport) error) *ReportAdapter {
	return NewReportAdapter(base, model.ReportGameSummary, registry.SourceHTMLGameSummary,
		func(ctx context.Context, _ model.HTMLReportCode, parsed any) error {
			r, ok := parsed.(model.ParsedHTMLReport)
			if !ok {
				return fmt.Errorf("htmlreport: game summary persist received unexpected type %T", parsed)
			}
			return persist(ctx, r)
		})
}
