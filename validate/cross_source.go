package validate

import (
	"fmt"

	"github.com/relentnet/nhl-ingest/model"
	"github.com/relentnet/nhl-ingest/source"
)

// Cross-source tolerances, per spec.md section 4.9's rule table.
const (
	ShotTolerance       = 2
	TOITolerance        = 5 // seconds
	ShiftCountTolerance = 1
)

// ValidateGoalsPBPVsBoxscore compares goal counts between play-by-play
// (excluding shootout) and the boxscore team scores. Exact match required.
// Grounded on validate_goals_pbp_vs_boxscore in the original's
// validation/rules/cross_source.py.
func ValidateGoalsPBPVsBoxscore(pbp model.ParsedPlayByPlay, box model.ParsedBoxscore) []RuleResult {
	entityID := fmt.Sprintf("%d", box.GameID)
	homePBP, awayPBP := 0, 0
	for _, e := range pbp.Events {
		if e.EventType != model.EventGoal || e.PeriodType == model.PeriodShootout {
			continue
		}
		switch e.EventOwnerTeam {
		case pbp.HomeTeamID:
			homePBP++
		case pbp.AwayTeamID:
			awayPBP++
		}
	}

	return []RuleResult{
		exactGoalResult("cross_source_pbp_boxscore_goals_home", "Home", homePBP, box.HomeTeam.Score, entityID),
		exactGoalResult("cross_source_pbp_boxscore_goals_away", "Away", awayPBP, box.AwayTeam.Score, entityID),
	}
}

func exactGoalResult(rule, side string, pbpGoals, boxGoals int, entityID string) RuleResult {
	if pbpGoals == boxGoals {
		return passed(rule, model.CategoryCrossSource,
			fmt.Sprintf("%s team goals match: PBP=%d, Boxscore=%d", side, pbpGoals, boxGoals), entityID)
	}
	return failed(rule, model.CategoryCrossSource, model.SeverityError,
		fmt.Sprintf("%s team goals mismatch: PBP=%d, Boxscore=%d", side, pbpGoals, boxGoals), entityID,
		map[string]any{"pbp_goals": pbpGoals, "boxscore_goals": boxGoals, "difference": pbpGoals - boxGoals})
}

// ValidateShotsPBPVsBoxscore compares shot-on-goal counts within a ±2
// tolerance for timing edge cases at period boundaries. Grounded on
// validate_shots_pbp_vs_boxscore.
func ValidateShotsPBPVsBoxscore(pbp model.ParsedPlayByPlay, box model.ParsedBoxscore) []RuleResult {
	entityID := fmt.Sprintf("%d", box.GameID)
	homePBP, awayPBP := 0, 0
	for _, e := range pbp.Events {
		if (e.EventType != model.EventShot && e.EventType != model.EventGoal) || e.PeriodType == model.PeriodShootout {
			continue
		}
		switch e.EventOwnerTeam {
		case pbp.HomeTeamID:
			homePBP++
		case pbp.AwayTeamID:
			awayPBP++
		}
	}

	return []RuleResult{
		toleranceShotResult("cross_source_pbp_boxscore_shots_home", "Home", homePBP, box.HomeTeam.ShotsOnGoal, entityID),
		toleranceShotResult("cross_source_pbp_boxscore_shots_away", "Away", awayPBP, box.AwayTeam.ShotsOnGoal, entityID),
	}
}

func toleranceShotResult(rule, side string, pbpShots, boxShots int, entityID string) RuleResult {
	diff := pbpShots - boxShots
	if diff < 0 {
		diff = -diff
	}
	if diff <= ShotTolerance {
		return passed(rule, model.CategoryCrossSource,
			fmt.Sprintf("%s team shots within tolerance: PBP=%d, Boxscore=%d (diff=%d)", side, pbpShots, boxShots, diff), entityID)
	}
	return failed(rule, model.CategoryCrossSource, model.SeverityWarning,
		fmt.Sprintf("%s team shots outside tolerance: PBP=%d, Boxscore=%d (diff=%d)", side, pbpShots, boxShots, diff), entityID,
		map[string]any{"pbp_shots": pbpShots, "boxscore_shots": boxShots, "difference": diff, "tolerance": ShotTolerance})
}

// ValidateTOIShiftsVsBoxscore compares each boxscore skater's reported TOI
// against the shift chart's summed durations within a ±5s tolerance,
// producing one summary result rather than one per player (grounded on
// validate_toi_shifts_vs_boxscore's summary-result shape). Players with an
// unparseable boxscore TOI are excluded from the comparison, not failed.
func ValidateTOIShiftsVsBoxscore(shifts model.ParsedShiftChart, box model.ParsedBoxscore) []RuleResult {
	const rule = "cross_source_shifts_boxscore_toi"
	entityID := fmt.Sprintf("%d", box.GameID)

	checked, matched := 0, 0
	var mismatched []map[string]any
	for _, s := range box.Skaters {
		boxTOI, ok := parseTOI(s.TOI)
		if !ok {
			continue
		}
		shiftTOI := shifts.TOISeconds(s.PlayerID)
		checked++
		diff := shiftTOI - boxTOI
		if diff < 0 {
			diff = -diff
		}
		if diff <= TOITolerance {
			matched++
		} else {
			mismatched = append(mismatched, map[string]any{
				"player_id": s.PlayerID, "player_name": s.Name,
				"shift_toi_seconds": shiftTOI, "boxscore_toi_seconds": boxTOI, "difference_seconds": diff,
			})
		}
	}

	if checked == 0 {
		return []RuleResult{skipped(rule, model.CategoryCrossSource, "no players with parseable TOI", entityID)}
	}
	if len(mismatched) == 0 {
		return []RuleResult{passed(rule, model.CategoryCrossSource,
			fmt.Sprintf("all %d player TOI values match within %ds tolerance", matched, TOITolerance), entityID)}
	}
	return []RuleResult{failed(rule, model.CategoryCrossSource, model.SeverityWarning,
		fmt.Sprintf("%d of %d players have TOI mismatch beyond %ds", len(mismatched), checked, TOITolerance), entityID,
		map[string]any{"players_checked": checked, "players_matched": matched, "players_mismatched": firstN(mismatched, 5)})}
}

// ValidateShiftCountShiftsVsBoxscore compares boxscore shift counts against
// the shift chart's counted segments within a ±1 tolerance. Grounded on
// validate_shift_count_shifts_vs_boxscore.
func ValidateShiftCountShiftsVsBoxscore(shifts model.ParsedShiftChart, box model.ParsedBoxscore) []RuleResult {
	const rule = "cross_source_shifts_boxscore_shift_count"
	entityID := fmt.Sprintf("%d", box.GameID)

	checked, matched := 0, 0
	var mismatched []map[string]any
	for _, s := range box.Skaters {
		if s.Shifts == nil {
			continue
		}
		boxShifts := *s.Shifts
		chartShifts := shifts.ShiftCount(s.PlayerID)
		checked++
		diff := chartShifts - boxShifts
		if diff < 0 {
			diff = -diff
		}
		if diff <= ShiftCountTolerance {
			matched++
		} else {
			mismatched = append(mismatched, map[string]any{
				"player_id": s.PlayerID, "player_name": s.Name,
				"shift_chart_shifts": chartShifts, "boxscore_shifts": boxShifts, "difference": diff,
			})
		}
	}

	if checked == 0 {
		return []RuleResult{skipped(rule, model.CategoryCrossSource, "no players with a reported shift count", entityID)}
	}
	if len(mismatched) == 0 {
		return []RuleResult{passed(rule, model.CategoryCrossSource,
			fmt.Sprintf("all %d player shift counts match within tolerance of %d", matched, ShiftCountTolerance), entityID)}
	}
	return []RuleResult{failed(rule, model.CategoryCrossSource, model.SeverityWarning,
		fmt.Sprintf("%d of %d players have shift count mismatch", len(mismatched), checked), entityID,
		map[string]any{"players_checked": checked, "players_matched": matched, "players_mismatched": firstN(mismatched, 5)})}
}

// ValidateFinalScoreScheduleVsBoxscore compares the schedule's reported
// final score against the boxscore. Pre-game (nil) schedule scores are a
// total-function skip, per spec.md section 9's Open Question resolution.
func ValidateFinalScoreScheduleVsBoxscore(sched model.ScheduleGame, box model.ParsedBoxscore) []RuleResult {
	const rule = "cross_source_schedule_boxscore_score"
	entityID := fmt.Sprintf("%d", box.GameID)

	if sched.HomeScore == nil || sched.AwayScore == nil {
		return []RuleResult{skipped(rule, model.CategoryCrossSource, "schedule score not yet available (pre-game)", entityID)}
	}

	homeMatch := *sched.HomeScore == box.HomeTeam.Score
	awayMatch := *sched.AwayScore == box.AwayTeam.Score
	if homeMatch && awayMatch {
		return []RuleResult{passed(rule, model.CategoryCrossSource,
			fmt.Sprintf("final score matches: %d-%d", box.AwayTeam.Score, box.HomeTeam.Score), entityID)}
	}
	return []RuleResult{failed(rule, model.CategoryCrossSource, model.SeverityError,
		fmt.Sprintf("score mismatch: schedule=%d-%d boxscore=%d-%d", *sched.AwayScore, *sched.HomeScore, box.AwayTeam.Score, box.HomeTeam.Score), entityID,
		map[string]any{
			"schedule_home_score": *sched.HomeScore, "schedule_away_score": *sched.AwayScore,
			"boxscore_home_score": box.HomeTeam.Score, "boxscore_away_score": box.AwayTeam.Score,
			"home_match": homeMatch, "away_match": awayMatch,
		})}
}

func parseTOI(toi string) (int, bool) {
	return source.ParseTimeMMSS(toi)
}

func firstN(items []map[string]any, n int) []map[string]any {
	if len(items) <= n {
		return items
	}
	return items[:n]
}
