package validate

import "sort"

// Names lists every rule name this package can produce, used by reconcile
// to seed model.ValidationRule rows and to compute stable (category, name)
// evaluation order (spec.md section 4.10's ordering/tie-break rule).
var Names = []string{
	"boxscore_player_points",
	"boxscore_special_teams_bounded",
	"boxscore_faceoff_pct_range",
	"boxscore_toi_format",
	"boxscore_goalie_save_pct_range",
	"boxscore_goalie_shot_arithmetic",
	"boxscore_team_goals_sum",
	"boxscore_shots_gte_goals",
	"cross_source_pbp_boxscore_goals_home",
	"cross_source_pbp_boxscore_goals_away",
	"cross_source_pbp_boxscore_shots_home",
	"cross_source_pbp_boxscore_shots_away",
	"cross_source_shifts_boxscore_toi",
	"cross_source_shifts_boxscore_shift_count",
	"cross_source_schedule_boxscore_score",
	"analytics_shift_total_tolerance",
	"analytics_event_count_tolerance",
}

// SortResults orders results by (category, rule_name), the stable
// tie-break spec.md section 4.10 requires before persistence.
func SortResults(results []RuleResult) {
	sort.SliceStable(results, func(i, j int) bool {
		if results[i].Category != results[j].Category {
			return results[i].Category < results[j].Category
		}
		return results[i].RuleName < results[j].RuleName
	})
}
