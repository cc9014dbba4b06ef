package registry

import (
	"testing"

	"github.com/relentnet/nhl-ingest/model"
)

func TestLookupKnownSource(t *testing.T) {
	e, err := Lookup(SourceNHLBoxscore)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if e.Type != model.SourceTypeAPIJSON {
		t.Errorf("type = %v, want api_json", e.Type)
	}
}

func TestLookupUnknownSource(t *testing.T) {
	_, err := Lookup("not_a_source")
	if err == nil {
		t.Fatal("expected error for unknown source")
	}
}

func TestLookupIDRoundTrip(t *testing.T) {
	e, err := Lookup(SourceDailyFaceoff)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	byID, err := LookupID(e.ID)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if byID.Name != SourceDailyFaceoff {
		t.Errorf("name = %q, want %q", byID.Name, SourceDailyFaceoff)
	}
}

func TestAllIsOrderedByID(t *testing.T) {
	all := All()
	for i := 1; i < len(all); i++ {
		if all[i].ID <= all[i-1].ID {
			t.Fatalf("All() not sorted by id at index %d", i)
		}
	}
}

func TestByTypeFiltersCorrectly(t *testing.T) {
	mixed := ByType(model.SourceTypeMixedScrape)
	if len(mixed) != 1 || mixed[0].Name != SourceDailyFaceoff {
		t.Errorf("ByType(mixed_scrape) = %+v, want only %s", mixed, SourceDailyFaceoff)
	}
}

func TestIDsAreStableAndUnique(t *testing.T) {
	seen := map[int]bool{}
	for _, e := range All() {
		if seen[e.ID] {
			t.Fatalf("duplicate source id %d", e.ID)
		}
		seen[e.ID] = true
	}
}
