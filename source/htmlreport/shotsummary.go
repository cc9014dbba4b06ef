package htmlreport

import (
	"fmt"
	"strings"

	"github.com/PuerkitoBio/goquery"

	"github.com/relentnet/nhl-ingest/model"
	"github.com/relentnet/nhl-ingest/source"
)

// parseGoalsShots parses a shot-summary cell in "goals-shots" format, e.g.
// "2-15", grounded on shot_summary.py's _parse_goals_shots.
func parseGoalsShots(text string) model.ShotSituationStat {
	text = strings.TrimSpace(text)
	if text == "" || text == "&nbsp;" || !strings.Contains(text, "-") {
		return model.ShotSituationStat{}
	}
	parts := strings.SplitN(text, "-", 2)
	goals, _ := source.SafeInt(strings.TrimSpace(parts[0]))
	var shots int
	if len(parts) > 1 {
		shots, _ = source.SafeInt(strings.TrimSpace(parts[1]))
	}
	return model.ShotSituationStat{Goals: goals, Shots: shots}
}

func parseShotPeriodRow(row *goquery.Selection) (model.ShotPeriodStat, bool) {
	cells := row.Find("td")
	if cells.Length() < 5 {
		return model.ShotPeriodStat{}, false
	}
	return model.ShotPeriodStat{
		Period:       strings.TrimSpace(cells.Eq(0).Text()),
		EvenStrength: parseGoalsShots(cells.Eq(1).Text()),
		PowerPlay:    parseGoalsShots(cells.Eq(2).Text()),
		Shorthanded:  parseGoalsShots(cells.Eq(3).Text()),
		Total:        parseGoalsShots(cells.Eq(4).Text()),
	}, true
}

// parseSituationTable finds the EV/PP/SH/TOT-by-period table inside a
// container and walks its oddColor/evenColor rows, grounded on
// shot_summary.py's _parse_situation_table.
func parseSituationTable(container *goquery.Selection) []model.ShotPeriodStat {
	var periods []model.ShotPeriodStat
	container.Find("table").EachWithBreak(func(_ int, tbl *goquery.Selection) bool {
		header := tbl.Find(`tr[class="heading"]`)
		if header.Length() == 0 {
			return true
		}
		headers := header.Find("td").Map(func(_ int, c *goquery.Selection) string { return strings.TrimSpace(c.Text()) })
		hasPer, hasTot := false, false
		for _, h := range headers {
			if h == "Per" {
				hasPer = true
			}
			if h == "TOT" {
				hasTot = true
			}
		}
		if len(headers) < 5 || !hasPer || !hasTot {
			return true
		}
		tbl.Find("tr.oddColor, tr.evenColor").Each(func(_ int, row *goquery.Selection) {
			if p, ok := parseShotPeriodRow(row); ok {
				periods = append(periods, p)
			}
		})
		return false
	})
	return periods
}

// shotsSummaryColumns returns a ShotsSummary table's direct <td> columns.
// goquery's underlying html5 parser inserts an implicit <tbody> around bare
// <tr> rows, so ChildrenFiltered on the table itself never reaches them;
// route through the table's own first row instead.
func shotsSummaryColumns(tbl *goquery.Selection) *goquery.Selection {
	return tbl.Find("tr").First().ChildrenFiltered(`td[width="50%"]`)
}

func findShotSummarySectionTable(doc *goquery.Document, headingSubstr string) *goquery.Selection {
	var found *goquery.Selection
	doc.Find("td.sectionheading").EachWithBreak(func(_ int, td *goquery.Selection) bool {
		if !strings.Contains(strings.ToUpper(td.Text()), headingSubstr) {
			return true
		}
		tbl := td.Closest("tr").Next().Find(`table[id="ShotsSummary"]`).First()
		if tbl.Length() > 0 {
			found = tbl
		}
		return false
	})
	return found
}

func parseShotTeamHeader(doc *goquery.Document, id string) (name, abbrev string) {
	tbl := doc.Find("table#" + id)
	if tbl.Length() == 0 {
		return "", ""
	}
	img := tbl.Find("img[alt]").First()
	name, _ = img.Attr("alt")
	src, _ := img.Attr("src")
	if m := teamLogoPattern.FindStringSubmatch(src); m != nil {
		abbrev = strings.ToUpper(m[1])
	}
	return name, abbrev
}

func parsePlayerStatsTable(cell *goquery.Selection) []model.ShotPeriodStat {
	var periods []model.ShotPeriodStat
	cell.Find("table").First().Find("tr.oddColor, tr.evenColor").Each(func(_ int, row *goquery.Selection) {
		if p, ok := parseShotPeriodRow(row); ok {
			periods = append(periods, p)
		}
	})
	return periods
}

// parseShotPlayerColumn walks a team's column of player shot-summary
// entries: each row nests a 3-row player-info table (number, first, last
// name) beside a stats table, grounded on shot_summary.py's
// _parse_player_column.
func parseShotPlayerColumn(col *goquery.Selection) []model.PlayerShotSummary {
	var players []model.PlayerShotSummary
	col.Find("table").Each(func(_ int, tbl *goquery.Selection) {
		tbl.Find("tr").Each(func(_ int, row *goquery.Selection) {
			cells := row.ChildrenFiltered("td")
			if cells.Length() < 2 {
				return
			}
			playerTbl := cells.Eq(0).Find("table").First()
			infoRows := playerTbl.Find("tr")
			if infoRows.Length() < 3 {
				return
			}
			number, ok := source.SafeInt(strings.TrimSpace(infoRows.Eq(0).Text()))
			if !ok {
				return
			}
			first := strings.TrimSpace(infoRows.Eq(1).Text())
			last := strings.TrimSpace(infoRows.Eq(2).Text())
			players = append(players, model.PlayerShotSummary{
				Number:  number,
				Name:    strings.TrimSpace(first + " " + last),
				Periods: parsePlayerStatsTable(cells.Eq(1)),
			})
		})
	})
	return players
}

// ParseShotSummary parses an SS-code report's team and player shot counts
// by period and strength situation, grounded on shot_summary.py's full
// _parse_report pipeline.
func ParseShotSummary(gameID int, body []byte) (model.ParsedShotSummaryReport, error) {
	if !looksLikeHTML(body) {
		return model.ParsedShotSummaryReport{}, errNotHTML
	}
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(string(body)))
	if err != nil {
		return model.ParsedShotSummaryReport{}, fmt.Errorf("htmlreport: parse failed for game %d: %w", gameID, err)
	}

	report := model.ParsedShotSummaryReport{
		GameID:   gameID,
		SeasonID: model.GameIDToSeasonID(gameID),
		RawBytes: body,
	}
	report.AwayTeam.Name, report.AwayTeam.Abbrev = parseShotTeamHeader(doc, "Visitor")
	report.HomeTeam.Name, report.HomeTeam.Abbrev = parseShotTeamHeader(doc, "Home")

	if teamTable := findShotSummarySectionTable(doc, "TEAM SUMMARY"); teamTable != nil {
		if cols := shotsSummaryColumns(teamTable); cols.Length() >= 2 {
			report.AwayTeam.Periods = parseSituationTable(cols.Eq(0))
			report.HomeTeam.Periods = parseSituationTable(cols.Eq(1))
		}
	}

	if playerTable := findShotSummarySectionTable(doc, "PLAYER SUMMARY"); playerTable != nil {
		if cols := shotsSummaryColumns(playerTable); cols.Length() >= 2 {
			report.AwayTeam.Players = parseShotPlayerColumn(cols.Eq(0))
			report.HomeTeam.Players = parseShotPlayerColumn(cols.Eq(1))
		}
	}

	return report, nil
}
