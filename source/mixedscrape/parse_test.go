package mixedscrape

import "testing"

const sampleNextDataHTML = `<!DOCTYPE html>
<html><head>
<script id="__NEXT_DATA__" type="application/json">{"props":{"pageProps":{"games":[{"gameId":2023020001,"homeGoalie":{"teamAbbrev":"EDM","name":"Stuart Skinner","confirmed":true},"awayGoalie":{"teamAbbrev":"VAN","name":"Thatcher Demko","confirmed":false}}]}}}</script>
</head><body></body></html>`

func TestParseStartingGoaliesPrefersNextData(t *testing.T) {
	goalies, err := ParseStartingGoalies(2023020001, []byte(sampleNextDataHTML))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(goalies) != 2 {
		t.Fatalf("goalies = %d, want 2", len(goalies))
	}
	if goalies[0].PlayerName != "Stuart Skinner" || !goalies[0].Confirmed {
		t.Errorf("home goalie = %+v", goalies[0])
	}
	if goalies[1].Confirmed {
		t.Errorf("away goalie should be unconfirmed")
	}
}

const sampleDOMFallbackHTML = `<!DOCTYPE html>
<html><body>
<div class="starting-goalie-card">
	<span class="team-abbrev">EDM</span>
	<span class="goalie-name">Stuart Skinner</span>
	<span class="confirmation-status">Confirmed</span>
</div>
<div class="starting-goalie-card">
	<span class="team-abbrev">VAN</span>
	<span class="goalie-name">Thatcher Demko</span>
	<span class="confirmation-status">Likely</span>
</div>
</body></html>`

func TestParseStartingGoaliesFallsBackToDOM(t *testing.T) {
	goalies, err := ParseStartingGoalies(2023020001, []byte(sampleDOMFallbackHTML))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(goalies) != 2 {
		t.Fatalf("goalies = %d, want 2", len(goalies))
	}
	if goalies[0].Confirmed != true {
		t.Errorf("expected confirmed goalie from DOM fallback")
	}
	if goalies[1].Confirmed {
		t.Errorf("expected unconfirmed 'Likely' goalie")
	}
}

const sampleLineCombinationsDOM = `<!DOCTYPE html>
<html><body>
<div class="line-combination-row">
	<span class="player-name">Connor McDavid</span>
	<span class="player-name">Leon Draisaitl</span>
	<span class="player-name">Zach Hyman</span>
</div>
<div class="line-combination-row defense-line">
	<span class="player-name">Evan Bouchard</span>
	<span class="player-name">Darnell Nurse</span>
</div>
</body></html>`

func TestParseLineCombinationsDOM(t *testing.T) {
	lines, err := ParseLineCombinations("EDM", []byte(sampleLineCombinationsDOM))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(lines) != 2 {
		t.Fatalf("lines = %d, want 2", len(lines))
	}
	if lines[0].Unit != "forward" || len(lines[0].Players) != 3 {
		t.Errorf("forward line = %+v", lines[0])
	}
	if lines[1].Unit != "defense" || len(lines[1].Players) != 2 {
		t.Errorf("defense line = %+v", lines[1])
	}
}
