package validate

import (
	"testing"

	"github.com/relentnet/nhl-ingest/model"
)

func fp(v float64) *float64 { return &v }
func ip(v int) *int         { return &v }

func makeSkater(playerID, goals, assists, points int) model.SkaterStats {
	return model.SkaterStats{
		PlayerID: playerID, Name: "Test Player", TeamAbbrev: "TOR",
		Goals: goals, Assists: assists, Points: points,
		FaceoffPct: fp(50.0), TOI: "15:00", Shifts: ip(20),
	}
}

func makeBoxscore(homeSkaters []model.SkaterStats, homeScore, homeShots int) model.ParsedBoxscore {
	return model.ParsedBoxscore{
		GameID:   2024020001,
		HomeTeam: model.TeamBoxscore{Abbrev: "TOR", Score: homeScore, ShotsOnGoal: homeShots},
		AwayTeam: model.TeamBoxscore{Abbrev: "MTL", Score: 0, ShotsOnGoal: 0},
		Skaters:  homeSkaters,
	}
}

func countRule(results []RuleResult, name string) int {
	n := 0
	for _, r := range results {
		if r.RuleName == name {
			n++
		}
	}
	return n
}

func TestValidatePlayerPointsPasses(t *testing.T) {
	skater := makeSkater(1, 2, 1, 3)
	box := makeBoxscore([]model.SkaterStats{skater}, 2, 30)
	results := ValidateBoxscore(box)
	found := false
	for _, r := range results {
		if r.RuleName == "boxscore_player_points" {
			found = true
			if !r.Passed {
				t.Errorf("expected points rule to pass, got %+v", r)
			}
		}
	}
	if !found {
		t.Fatal("expected a boxscore_player_points result")
	}
}

func TestValidatePlayerPointsMismatchFails(t *testing.T) {
	skater := makeSkater(1, 2, 1, 5)
	box := makeBoxscore([]model.SkaterStats{skater}, 2, 30)
	results := ValidateBoxscore(box)
	for _, r := range results {
		if r.RuleName == "boxscore_player_points" {
			if r.Passed {
				t.Errorf("expected points mismatch to fail")
			}
			if r.Severity != model.SeverityError {
				t.Errorf("severity = %v, want error", r.Severity)
			}
		}
	}
}

func TestValidateBoxscoreOneResultPerSkater(t *testing.T) {
	skaters := []model.SkaterStats{
		makeSkater(1, 2, 1, 3),
		makeSkater(2, 1, 2, 3),
		makeSkater(3, 0, 0, 0),
	}
	box := makeBoxscore(skaters, 3, 30)
	results := ValidateBoxscore(box)
	if n := countRule(results, "boxscore_player_points"); n != 3 {
		t.Errorf("boxscore_player_points count = %d, want 3", n)
	}
}

func TestValidateSpecialTeamsBoundedFails(t *testing.T) {
	skater := makeSkater(1, 1, 0, 1)
	skater.PowerPlayGoals = 1
	skater.ShorthandedGoals = 1
	box := makeBoxscore([]model.SkaterStats{skater}, 1, 10)
	results := ValidateBoxscore(box)
	for _, r := range results {
		if r.RuleName == "boxscore_special_teams_bounded" && r.Passed {
			t.Errorf("expected special teams bound to fail: pp+sh=2 > goals=1")
		}
	}
}

func TestValidateFaceoffPctRangeSkipsWhenMissing(t *testing.T) {
	skater := makeSkater(1, 0, 0, 0)
	skater.FaceoffPct = nil
	box := makeBoxscore([]model.SkaterStats{skater}, 0, 0)
	results := ValidateBoxscore(box)
	for _, r := range results {
		if r.RuleName == "boxscore_faceoff_pct_range" {
			if !r.Passed {
				t.Errorf("missing faceoff_pct should be a passed skip, not a failure")
			}
		}
	}
}

func TestValidateTOIFormatRejectsMalformed(t *testing.T) {
	skater := makeSkater(1, 0, 0, 0)
	skater.TOI = "bogus"
	box := makeBoxscore([]model.SkaterStats{skater}, 0, 0)
	results := ValidateBoxscore(box)
	for _, r := range results {
		if r.RuleName == "boxscore_toi_format" && r.Passed {
			t.Errorf("malformed TOI should fail the format rule")
		}
	}
}

func TestValidateTeamGoalsSumMismatch(t *testing.T) {
	skaters := []model.SkaterStats{makeSkater(1, 1, 0, 1), makeSkater(2, 1, 0, 1)}
	box := makeBoxscore(skaters, 5, 30)
	results := ValidateBoxscore(box)
	for _, r := range results {
		if r.RuleName == "boxscore_team_goals_sum" && r.EntityID == "2024020001:home" && r.Passed {
			t.Errorf("team goals sum (2) should not match team score (5)")
		}
	}
}

func TestValidateShotsGTEGoalsFailsWhenImpossible(t *testing.T) {
	box := makeBoxscore(nil, 5, 3)
	results := ValidateBoxscore(box)
	for _, r := range results {
		if r.RuleName == "boxscore_shots_gte_goals" && r.EntityID == "2024020001:home" {
			if r.Passed {
				t.Errorf("shots (3) < goals (5) should fail")
			}
			if r.Severity != model.SeverityWarning {
				t.Errorf("severity = %v, want warning", r.Severity)
			}
		}
	}
}

func TestValidateGoalieShotArithmeticPasses(t *testing.T) {
	box := model.ParsedBoxscore{
		GameID:   2024020001,
		HomeTeam: model.TeamBoxscore{Abbrev: "TOR"},
		AwayTeam: model.TeamBoxscore{Abbrev: "MTL"},
		Goalies: []model.GoalieStats{
			{PlayerID: 100, Name: "Test Goalie", Saves: 25, GoalsAgainst: 2, ShotsAgainst: 27, SavePct: fp(0.926), TOI: "60:00"},
		},
	}
	results := ValidateBoxscore(box)
	for _, r := range results {
		if r.RuleName == "boxscore_goalie_shot_arithmetic" && !r.Passed {
			t.Errorf("expected goalie shot arithmetic to pass: %+v", r)
		}
	}
}
