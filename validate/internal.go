package validate

import (
	"fmt"
	"regexp"

	"github.com/relentnet/nhl-ingest/model"
)

var toiFormat = regexp.MustCompile(`^\d{1,2}:\d{2}$`)

// ValidateBoxscore runs every internal (single-entity) rule over one
// ParsedBoxscore, exactly mirroring the rule set the Python original's
// validate_boxscore applies per skater/goalie/team. Callers get one
// RuleResult per rule per player/team, matching the "4 rules per skater"
// shape the original's tests assert on.
func ValidateBoxscore(b model.ParsedBoxscore) []RuleResult {
	var out []RuleResult

	for _, s := range b.Skaters {
		out = append(out, validatePlayerPoints(b.GameID, s)...)
		out = append(out, validateSpecialTeamsBounded(b.GameID, s)...)
		out = append(out, validateFaceoffPctRange(b.GameID, s)...)
		out = append(out, validateTOIFormat(b.GameID, s.PlayerID, s.Name, s.TOI)...)
	}
	for _, g := range b.Goalies {
		out = append(out, validateGoalieSavePctRange(b.GameID, g)...)
		out = append(out, validateGoalieShotArithmetic(b.GameID, g)...)
		out = append(out, validateTOIFormat(b.GameID, g.PlayerID, g.Name, g.TOI)...)
	}

	out = append(out, validateTeamGoalsSum(b.GameID, "home", b.HomeTeam, homeSkaters(b))...)
	out = append(out, validateTeamGoalsSum(b.GameID, "away", b.AwayTeam, awaySkaters(b))...)
	out = append(out, validateShotsGTEGoals(b.GameID, "home", b.HomeTeam)...)
	out = append(out, validateShotsGTEGoals(b.GameID, "away", b.AwayTeam)...)

	return out
}

// homeSkaters/awaySkaters partition b.Skaters by team abbrev, since
// ParsedBoxscore keeps one flat skater slice rather than the original's
// separate home_skaters/away_skaters lists.
func homeSkaters(b model.ParsedBoxscore) []model.SkaterStats {
	return skatersForTeam(b, b.HomeTeam.Abbrev)
}

func awaySkaters(b model.ParsedBoxscore) []model.SkaterStats {
	return skatersForTeam(b, b.AwayTeam.Abbrev)
}

func skatersForTeam(b model.ParsedBoxscore, abbrev string) []model.SkaterStats {
	var out []model.SkaterStats
	for _, s := range b.Skaters {
		if s.TeamAbbrev == abbrev {
			out = append(out, s)
		}
	}
	return out
}

func playerEntityID(gameID, playerID int) string {
	return fmt.Sprintf("%d:%d", gameID, playerID)
}

func teamEntityID(gameID int, side string) string {
	return fmt.Sprintf("%d:%s", gameID, side)
}

// validatePlayerPoints: points = goals + assists, severity error.
func validatePlayerPoints(gameID int, s model.SkaterStats) []RuleResult {
	const rule = "boxscore_player_points"
	entityID := playerEntityID(gameID, s.PlayerID)
	expected := s.Goals + s.Assists
	if s.Points == expected {
		return []RuleResult{passed(rule, model.CategoryInternal,
			fmt.Sprintf("%s: points %d = goals %d + assists %d", s.Name, s.Points, s.Goals, s.Assists), entityID)}
	}
	return []RuleResult{failed(rule, model.CategoryInternal, model.SeverityError,
		fmt.Sprintf("%s: points mismatch, actual=%d expected=%d", s.Name, s.Points, expected), entityID,
		map[string]any{"player_id": s.PlayerID, "goals": s.Goals, "assists": s.Assists, "points": s.Points, "expected": expected})}
}

// validateSpecialTeamsBounded: power_play_goals + shorthanded_goals <= goals.
func validateSpecialTeamsBounded(gameID int, s model.SkaterStats) []RuleResult {
	const rule = "boxscore_special_teams_bounded"
	entityID := playerEntityID(gameID, s.PlayerID)
	sum := s.PowerPlayGoals + s.ShorthandedGoals
	if sum <= s.Goals {
		return []RuleResult{passed(rule, model.CategoryInternal,
			fmt.Sprintf("%s: special teams goals %d within total goals %d", s.Name, sum, s.Goals), entityID)}
	}
	return []RuleResult{failed(rule, model.CategoryInternal, model.SeverityError,
		fmt.Sprintf("%s: special teams goals %d exceed total goals %d", s.Name, sum, s.Goals), entityID,
		map[string]any{"player_id": s.PlayerID, "power_play_goals": s.PowerPlayGoals, "shorthanded_goals": s.ShorthandedGoals, "goals": s.Goals})}
}

// validateFaceoffPctRange: 0 <= faceoff_pct <= 100, severity warning.
// Nil FaceoffPct is a total-function skip, not a failure.
func validateFaceoffPctRange(gameID int, s model.SkaterStats) []RuleResult {
	const rule = "boxscore_faceoff_pct_range"
	entityID := playerEntityID(gameID, s.PlayerID)
	if s.FaceoffPct == nil {
		return []RuleResult{skipped(rule, model.CategoryInternal, "no faceoff_pct reported", entityID)}
	}
	pct := *s.FaceoffPct
	if pct >= 0 && pct <= 100 {
		return []RuleResult{passed(rule, model.CategoryInternal,
			fmt.Sprintf("%s: faceoff_pct %.1f in range", s.Name, pct), entityID)}
	}
	return []RuleResult{failed(rule, model.CategoryInternal, model.SeverityWarning,
		fmt.Sprintf("%s: faceoff_pct %.1f out of range [0,100]", s.Name, pct), entityID,
		map[string]any{"player_id": s.PlayerID, "faceoff_pct": pct})}
}

// validateTOIFormat: toi matches ^\d{1,2}:\d{2}$, severity info.
func validateTOIFormat(gameID, playerID int, name, toi string) []RuleResult {
	const rule = "boxscore_toi_format"
	entityID := playerEntityID(gameID, playerID)
	if toiFormat.MatchString(toi) {
		return []RuleResult{passed(rule, model.CategoryInternal,
			fmt.Sprintf("%s: toi %q well-formed", name, toi), entityID)}
	}
	return []RuleResult{failed(rule, model.CategoryInternal, model.SeverityInfo,
		fmt.Sprintf("%s: toi %q does not match MM:SS", name, toi), entityID,
		map[string]any{"player_id": playerID, "toi": toi})}
}

// validateGoalieSavePctRange: 0 <= save_pct <= 1, severity warning.
func validateGoalieSavePctRange(gameID int, g model.GoalieStats) []RuleResult {
	const rule = "boxscore_goalie_save_pct_range"
	entityID := playerEntityID(gameID, g.PlayerID)
	if g.SavePct == nil {
		return []RuleResult{skipped(rule, model.CategoryInternal, "no save_pct reported", entityID)}
	}
	pct := *g.SavePct
	if pct >= 0 && pct <= 1 {
		return []RuleResult{passed(rule, model.CategoryInternal,
			fmt.Sprintf("%s: save_pct %.3f in range", g.Name, pct), entityID)}
	}
	return []RuleResult{failed(rule, model.CategoryInternal, model.SeverityWarning,
		fmt.Sprintf("%s: save_pct %.3f out of range [0,1]", g.Name, pct), entityID,
		map[string]any{"player_id": g.PlayerID, "save_pct": pct})}
}

// validateGoalieShotArithmetic: saves + goals_against = shots_against.
func validateGoalieShotArithmetic(gameID int, g model.GoalieStats) []RuleResult {
	const rule = "boxscore_goalie_shot_arithmetic"
	entityID := playerEntityID(gameID, g.PlayerID)
	expected := g.Saves + g.GoalsAgainst
	if expected == g.ShotsAgainst {
		return []RuleResult{passed(rule, model.CategoryInternal,
			fmt.Sprintf("%s: saves %d + goals_against %d = shots_against %d", g.Name, g.Saves, g.GoalsAgainst, g.ShotsAgainst), entityID)}
	}
	return []RuleResult{failed(rule, model.CategoryInternal, model.SeverityError,
		fmt.Sprintf("%s: saves %d + goals_against %d != shots_against %d", g.Name, g.Saves, g.GoalsAgainst, g.ShotsAgainst), entityID,
		map[string]any{"player_id": g.PlayerID, "saves": g.Saves, "goals_against": g.GoalsAgainst, "shots_against": g.ShotsAgainst, "expected": expected})}
}

// validateTeamGoalsSum: team.score = sum(skater.goals), severity error.
func validateTeamGoalsSum(gameID int, side string, team model.TeamBoxscore, skaters []model.SkaterStats) []RuleResult {
	const rule = "boxscore_team_goals_sum"
	entityID := teamEntityID(gameID, side)
	sum := 0
	for _, s := range skaters {
		sum += s.Goals
	}
	if sum == team.Score {
		return []RuleResult{passed(rule, model.CategoryInternal,
			fmt.Sprintf("%s team: score %d matches skater goal sum %d", side, team.Score, sum), entityID)}
	}
	return []RuleResult{failed(rule, model.CategoryInternal, model.SeverityError,
		fmt.Sprintf("%s team: score %d does not match skater goal sum %d", side, team.Score, sum), entityID,
		map[string]any{"side": side, "team_score": team.Score, "skater_goal_sum": sum})}
}

// validateShotsGTEGoals: team.shots_on_goal >= team.score, severity warning.
func validateShotsGTEGoals(gameID int, side string, team model.TeamBoxscore) []RuleResult {
	const rule = "boxscore_shots_gte_goals"
	entityID := teamEntityID(gameID, side)
	if team.ShotsOnGoal >= team.Score {
		return []RuleResult{passed(rule, model.CategoryInternal,
			fmt.Sprintf("%s team: shots %d >= goals %d", side, team.ShotsOnGoal, team.Score), entityID)}
	}
	return []RuleResult{failed(rule, model.CategoryInternal, model.SeverityWarning,
		fmt.Sprintf("%s team: shots %d < goals %d (impossible)", side, team.ShotsOnGoal, team.Score), entityID,
		map[string]any{"side": side, "shots_on_goal": team.ShotsOnGoal, "score": team.Score})}
}
