// Package registry is the closed, code-defined mapping from source name to
// (source_id, type) -- C4. Grounded on the teacher's
// api/core/constants.go convention of banner-separated const blocks, and
// api/core/registry.go's pattern of a single package-level registry guarding
// its internal map.
package registry

import (
	"fmt"
	"sort"
	"sync"

	"github.com/relentnet/nhl-ingest/model"
)

// =============================================================================
// Source Names
// =============================================================================

const (
	SourceNHLBoxscore       = "nhl_boxscore"
	SourceNHLPlayByPlay     = "nhl_play_by_play"
	SourceNHLShiftChart     = "nhl_shift_chart"
	SourceNHLSchedule       = "nhl_schedule"
	SourceNHLStandings      = "nhl_standings"
	SourceNHLRoster         = "nhl_roster"
	SourceNHLPlayerLanding  = "nhl_player_landing"
	SourceNHLPlayerGameLog  = "nhl_player_game_log"
	SourceHTMLGameSummary   = "html_game_summary"
	SourceHTMLEventSummary  = "html_event_summary"
	SourceHTMLPlayByPlay    = "html_play_by_play"
	SourceHTMLFaceoffSum    = "html_faceoff_summary"
	SourceHTMLFaceoffComp   = "html_faceoff_comparison"
	SourceHTMLRoster        = "html_roster"
	SourceHTMLShotSummary   = "html_shot_summary"
	SourceHTMLHomeTOI       = "html_home_toi"
	SourceHTMLVisitorTOI    = "html_visitor_toi"
	SourceDailyFaceoff      = "daily_faceoff"
)

// Entry is one registered source's fixed metadata: id, name and type. It
// holds no adapter factory, and the registry constructs no adapters.
type Entry struct {
	ID   int
	Name string
	Type model.SourceType
}

// builtins enumerates every source this engine knows about; the integer IDs
// are stable and never reused, matching spec.md section 3's "source_id is a
// small stable integer" invariant.
var builtins = []Entry{
	{1, SourceNHLBoxscore, model.SourceTypeAPIJSON},
	{2, SourceNHLPlayByPlay, model.SourceTypeAPIJSON},
	{3, SourceNHLShiftChart, model.SourceTypeAPIJSON},
	{4, SourceNHLSchedule, model.SourceTypeAPIJSON},
	{5, SourceNHLStandings, model.SourceTypeAPIJSON},
	{6, SourceNHLRoster, model.SourceTypeAPIJSON},
	{7, SourceNHLPlayerLanding, model.SourceTypeAPIJSON},
	{8, SourceNHLPlayerGameLog, model.SourceTypeAPIJSON},
	{9, SourceHTMLGameSummary, model.SourceTypeHTMLReport},
	{10, SourceHTMLEventSummary, model.SourceTypeHTMLReport},
	{11, SourceHTMLPlayByPlay, model.SourceTypeHTMLReport},
	{12, SourceHTMLFaceoffSum, model.SourceTypeHTMLReport},
	{13, SourceHTMLFaceoffComp, model.SourceTypeHTMLReport},
	{14, SourceHTMLRoster, model.SourceTypeHTMLReport},
	{15, SourceHTMLShotSummary, model.SourceTypeHTMLReport},
	{16, SourceHTMLHomeTOI, model.SourceTypeHTMLReport},
	{17, SourceHTMLVisitorTOI, model.SourceTypeHTMLReport},
	{18, SourceDailyFaceoff, model.SourceTypeMixedScrape},
}

var (
	mu      sync.RWMutex
	byName  map[string]Entry
	byID    map[int]Entry
)

func init() {
	byName = make(map[string]Entry, len(builtins))
	byID = make(map[int]Entry, len(builtins))
	for _, e := range builtins {
		byName[e.Name] = e
		byID[e.ID] = e
	}
}

// ErrUnknownSource is returned by Lookup/LookupID for names/ids not in the
// closed registry.
type ErrUnknownSource struct {
	Key string
}

func (e *ErrUnknownSource) Error() string {
	return fmt.Sprintf("registry: unknown source %q", e.Key)
}

// Lookup resolves a source by name.
func Lookup(name string) (Entry, error) {
	mu.RLock()
	defer mu.RUnlock()
	e, ok := byName[name]
	if !ok {
		return Entry{}, &ErrUnknownSource{Key: name}
	}
	return e, nil
}

// LookupID resolves a source by its stable integer id.
func LookupID(id int) (Entry, error) {
	mu.RLock()
	defer mu.RUnlock()
	e, ok := byID[id]
	if !ok {
		return Entry{}, &ErrUnknownSource{Key: fmt.Sprintf("id:%d", id)}
	}
	return e, nil
}

// All returns every registered source, ordered by id.
func All() []Entry {
	mu.RLock()
	defer mu.RUnlock()
	out := make([]Entry, 0, len(byID))
	for _, e := range byID {
		out = append(out, e)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out
}

// ByType returns every registered source of the given archetype, ordered by
// id.
func ByType(t model.SourceType) []Entry {
	all := All()
	out := make([]Entry, 0, len(all))
	for _, e := range all {
		if e.Type == t {
			out = append(out, e)
		}
	}
	return out
}
