// Package htmlreport implements the HTML report source archetype (C8):
// goquery DOM queries over nhl.com's legacy per-game HTML reports, an
// HTML-sentinel check in place of JSON validation, and the
// {base}/{season}/{REPORT_CODE}{game_suffix}.HTM URL template (spec.md
// sections 4.7 and 6). DOM extraction style (label-cell -> value-cell
// table walking, link text extraction) is grounded on
// maxjiang216-fide-glicko's get_tournament_details.go.
package htmlreport

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/PuerkitoBio/goquery"

	"github.com/relentnet/nhl-ingest/model"
	"github.com/relentnet/nhl-ingest/source"
)

// teamLogoPattern pulls a team abbreviation out of a report's logo image
// src, e.g. "logocnyi.gif" -> "NYI" (every htmlreports page, per
// roster.py/shot_summary.py's identical TEAM_LOGO_PATTERN).
var teamLogoPattern = regexp.MustCompile(`(?i)logoc([a-z]{3})\.gif`)

// teamAbbrevFromLogo extracts the team abbreviation from the first <img
// alt> element inside a team table (id="Visitor"/"Home"/etc).
func teamAbbrevFromLogo(s *goquery.Selection) string {
	src, _ := s.Find("img[alt]").First().Attr("src")
	m := teamLogoPattern.FindStringSubmatch(src)
	if m == nil {
		return ""
	}
	return strings.ToUpper(m[1])
}

// BuildReportURL constructs the HTML report URL for a game and report code.
func BuildReportURL(baseURL string, gameID int, code model.HTMLReportCode) string {
	seasonID := model.GameIDToSeasonID(gameID)
	return fmt.Sprintf("%s/%d/%s%s.HTM", baseURL, seasonID, code, model.GameSuffix(gameID))
}

// errNotHTML is returned when the response body doesn't look like HTML,
// the sentinel check substituting for JSON validation on this archetype.
var errNotHTML = fmt.Errorf("htmlreport: response does not look like HTML")

func looksLikeHTML(body []byte) bool {
	s := strings.ToLower(string(body))
	return strings.Contains(s, "<html") || strings.Contains(s, "<!doctype html")
}

// ParseGameSummary parses a GS-code report into skater/goalie boxscore-style
// rows plus team score lines.
func ParseGameSummary(gameID int, body []byte) (model.ParsedHTMLReport, error) {
	if !looksLikeHTML(body) {
		return model.ParsedHTMLReport{}, errNotHTML
	}
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(string(body)))
	if err != nil {
		return model.ParsedHTMLReport{}, fmt.Errorf("htmlreport: parse failed for game %d: %w", gameID, err)
	}

	report := model.ParsedHTMLReport{
		GameID:     gameID,
		SeasonID:   model.GameIDToSeasonID(gameID),
		ReportCode: model.ReportGameSummary,
		RawBytes:   body,
	}

	doc.Find("table.gamesummary tr.team-name").Each(func(i int, s *goquery.Selection) {
		abbrev := strings.TrimSpace(s.Find(".team-abbrev").Text())
		scoreText := strings.TrimSpace(s.Find(".team-score").Text())
		score, _ := source.SafeInt(scoreText)
		team := model.TeamBoxscore{Abbrev: abbrev, Score: score}
		if i == 0 {
			report.AwayTeam = team
		} else {
			report.HomeTeam = team
		}
	})

	return report, nil
}

// Fixed column indices for the Event Summary (ES) report's per-team stats
// table, grounded on the real report's column layout (event_summary.py's
// HEADER_COLUMN_MAP / _parse_player_row / _parse_goalie_row): the report
// has no stable CSS hooks per stat, so every cell is addressed by position.
const (
	esColNum        = 0
	esColPos        = 1
	esColName       = 2
	esColGoals      = 3
	esColAssists    = 4
	esColPoints     = 5
	esColPlusMinus  = 6
	esColTOITotal   = 9
	esColShots      = 15
	esColFaceoffPct = 24
)

// findPlayerStatsTables locates the ES report's two per-team stats tables:
// a table qualifies if it has a td.sectionheading cell and at least one
// oddColor/evenColor row wide enough to be a stats row (event_summary.py's
// _find_player_stats_tables). The first match is the away team, the second
// is home, matching the report's left-to-right layout.
func findPlayerStatsTables(doc *goquery.Document) []*goquery.Selection {
	var tables []*goquery.Selection
	doc.Find("table").Each(func(_ int, tbl *goquery.Selection) {
		if tbl.Find("td.sectionheading").Length() == 0 {
			return
		}
		wide := false
		tbl.Find("tr.oddColor, tr.evenColor").EachWithBreak(func(_ int, row *goquery.Selection) bool {
			if row.Find("td").Length() >= 15 {
				wide = true
				return false
			}
			return true
		})
		if wide {
			tables = append(tables, tbl)
		}
	})
	return tables
}

// isGoalieRow mirrors event_summary.py's _is_goalie_row: the POS column
// reads "G". Goalie rows in the ES report carry only number and name --
// shots-against/saves/goals-against live in the GS report instead.
func isGoalieRow(cells *goquery.Selection) bool {
	return cells.Length() > esColPos && strings.TrimSpace(cells.Eq(esColPos).Text()) == "G"
}

// isTotalsRow mirrors event_summary.py's _parse_totals_row detection: a
// "bold" row class, or a name cell reading "TEAM TOTALS".
func isTotalsRow(row, cells *goquery.Selection) bool {
	if class, _ := row.Attr("class"); strings.Contains(class, "bold") {
		return true
	}
	if cells.Length() <= esColName {
		return false
	}
	return strings.Contains(strings.ToUpper(strings.TrimSpace(cells.Eq(esColName).Text())), "TEAM TOTALS")
}

// ParseEventSummary parses an ES-code report's two per-team stats tables,
// grounded on event_summary.py: fixed column indices per cell, goalie rows
// detected via the POS column, and TEAM TOTALS/bold rows excluded.
func ParseEventSummary(gameID int, body []byte) (model.ParsedHTMLReport, error) {
	if !looksLikeHTML(body) {
		return model.ParsedHTMLReport{}, errNotHTML
	}
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(string(body)))
	if err != nil {
		return model.ParsedHTMLReport{}, fmt.Errorf("htmlreport: parse failed for game %d: %w", gameID, err)
	}

	report := model.ParsedHTMLReport{
		GameID:     gameID,
		SeasonID:   model.GameIDToSeasonID(gameID),
		ReportCode: model.ReportEventSummary,
		RawBytes:   body,
	}
	report.AwayTeam.Abbrev = teamAbbrevFromLogo(doc.Find("table#Visitor"))
	report.HomeTeam.Abbrev = teamAbbrevFromLogo(doc.Find("table#Home"))

	for i, tbl := range findPlayerStatsTables(doc) {
		teamAbbrev := report.AwayTeam.Abbrev
		if i == 1 {
			teamAbbrev = report.HomeTeam.Abbrev
		}

		tbl.Find("tr.oddColor, tr.evenColor").Each(func(_ int, row *goquery.Selection) {
			cells := row.Find("td")
			if cells.Length() < 15 || isTotalsRow(row, cells) {
				return
			}

			name := strings.TrimSpace(cells.Eq(esColName).Text())
			number, _ := source.SafeInt(strings.TrimSpace(cells.Eq(esColNum).Text()))

			if isGoalieRow(cells) {
				report.Goalies = append(report.Goalies, model.GoalieStats{
					PlayerID:   number,
					Name:       name,
					TeamAbbrev: teamAbbrev,
				})
				return
			}

			goals, _ := source.SafeInt(strings.TrimSpace(cells.Eq(esColGoals).Text()))
			assists, _ := source.SafeInt(strings.TrimSpace(cells.Eq(esColAssists).Text()))
			points, _ := source.SafeInt(strings.TrimSpace(cells.Eq(esColPoints).Text()))
			plusMinus, _ := source.SafeInt(strings.TrimSpace(cells.Eq(esColPlusMinus).Text()))
			toi := ""
			if cells.Length() > esColTOITotal {
				toi = strings.TrimSpace(cells.Eq(esColTOITotal).Text())
			}

			skater := model.SkaterStats{
				PlayerID:   number,
				Name:       name,
				TeamAbbrev: teamAbbrev,
				Goals:      goals,
				Assists:    assists,
				Points:     points,
				PlusMinus:  plusMinus,
				TOI:        toi,
			}
			if cells.Length() > esColFaceoffPct {
				if pct, ok := source.SafeFloat(strings.TrimSpace(cells.Eq(esColFaceoffPct).Text())); ok {
					skater.FaceoffPct = &pct
				}
			}
			report.Skaters = append(report.Skaters, skater)
		})
	}

	return report, nil
}

// ParseTOIReport parses a TH/TV-code time-on-ice report into skater rows
// with TOI and shift-count cells only.
func ParseTOIReport(gameID int, code model.HTMLReportCode, body []byte) (model.ParsedHTMLReport, error) {
	if code != model.ReportHomeTOI && code != model.ReportVisitorTOI {
		return model.ParsedHTMLReport{}, fmt.Errorf("htmlreport: %s is not a TOI report code", code)
	}
	if !looksLikeHTML(body) {
		return model.ParsedHTMLReport{}, errNotHTML
	}
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(string(body)))
	if err != nil {
		return model.ParsedHTMLReport{}, fmt.Errorf("htmlreport: parse failed for game %d: %w", gameID, err)
	}

	report := model.ParsedHTMLReport{
		GameID:     gameID,
		SeasonID:   model.GameIDToSeasonID(gameID),
		ReportCode: code,
		RawBytes:   body,
	}

	doc.Find("table.toi tr.player-row").Each(func(_ int, s *goquery.Selection) {
		name := extractCellText(s.Find(".player-name"))
		toi := strings.TrimSpace(s.Find(".player-toi-total").Text())
		shifts, shiftsOK := source.SafeInt(strings.TrimSpace(s.Find(".player-shifts").Text()))

		skater := model.SkaterStats{Name: name, TOI: toi}
		if shiftsOK {
			skater.Shifts = &shifts
		}
		report.Skaters = append(report.Skaters, skater)
	})

	return report, nil
}

// extractCellText returns a cell's text, preferring concatenated link text
// when the cell contains anchors (player names are often linked), falling
// back to the cell's own text otherwise.
func extractCellText(cell *goquery.Selection) string {
	if cell.Find("a").Length() == 0 {
		return strings.TrimSpace(cell.Text())
	}
	var parts []string
	cell.Find("a").Each(func(_ int, a *goquery.Selection) {
		if t := strings.TrimSpace(a.Text()); t != "" {
			parts = append(parts, t)
		}
	})
	return strings.TrimSpace(strings.Join(parts, " "))
}
