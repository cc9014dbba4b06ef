package htmlreport

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/PuerkitoBio/goquery"

	"github.com/relentnet/nhl-ingest/model"
	"github.com/relentnet/nhl-ingest/source"
)

// faceoffCellPattern parses a faceoff result cell like "8-9/89%" into
// (won, total, pct), grounded on faceoff_summary.py's FACEOFF_PATTERN.
var faceoffCellPattern = regexp.MustCompile(`(\d+)-(\d+)(?:/(\d+)%)?`)

// playerHeadingPattern parses a player-heading cell like "20 C AHO, SEBASTIAN"
// into (number, position, name), grounded on faceoff_summary.py's player
// heading regex (shared with faceoff_comparison.py).
var playerHeadingPattern = regexp.MustCompile(`(?i)^\s*(\d+)\s+([A-Z])\s+(.+)$`)

// vsPlayerPattern parses a faceoff-comparison opponent cell like
// "vs. 20 C AHO, SEBASTIAN", grounded on faceoff_comparison.py's
// VS_PLAYER_PATTERN.
var vsPlayerPattern = regexp.MustCompile(`(?i)^\s*vs\.\s*(\d+)\s+([A-Z])\s+(.+)$`)

func parseFaceoffStat(text string) model.FaceoffStat {
	m := faceoffCellPattern.FindStringSubmatch(strings.TrimSpace(text))
	if m == nil {
		return model.FaceoffStat{}
	}
	won, _ := source.SafeInt(m[1])
	total, _ := source.SafeInt(m[2])
	stat := model.FaceoffStat{Won: won, Total: total}
	if m[3] != "" {
		if pct, ok := source.SafeFloat(m[3]); ok {
			stat.Pct = &pct
		}
	}
	return stat
}

// parseFaceoffPlayerColumn walks one team's player blocks in the
// faceoff-summary/faceoff-comparison PlayerTable: each block starts at a
// td.playerHeading cell and runs until the next one, with zone/total rows
// in between and (for FC) "vs." matchup rows attributing a result to an
// opponent.
func parseFaceoffPlayerColumn(col *goquery.Selection) ([]model.PlayerFaceoffStats, []model.FaceoffMatchup) {
	var players []model.PlayerFaceoffStats
	var matchups []model.FaceoffMatchup

	col.Find("td.playerHeading").Each(func(_ int, heading *goquery.Selection) {
		m := playerHeadingPattern.FindStringSubmatch(strings.TrimSpace(heading.Text()))
		if m == nil {
			return
		}
		number, _ := source.SafeInt(m[1])
		player := model.PlayerFaceoffStats{
			Number:   number,
			Position: strings.ToUpper(m[2]),
			Name:     strings.TrimSpace(m[3]),
		}

		for row := heading.Closest("tr").Next(); row.Length() > 0; row = row.Next() {
			if row.Find("td.playerHeading").Length() > 0 {
				break
			}
			cells := row.Find("td")
			if cells.Length() < 2 {
				continue
			}
			label := strings.TrimSpace(cells.Eq(0).Text())
			value := strings.TrimSpace(cells.Eq(1).Text())

			if vm := vsPlayerPattern.FindStringSubmatch(label); vm != nil {
				oppNumber, _ := source.SafeInt(vm[1])
				matchups = append(matchups, model.FaceoffMatchup{
					Player: player,
					Opponent: model.PlayerFaceoffStats{
						Number:   oppNumber,
						Position: strings.ToUpper(vm[2]),
						Name:     strings.TrimSpace(vm[3]),
					},
					Overall: parseFaceoffStat(value),
				})
				continue
			}

			switch {
			case strings.Contains(strings.ToUpper(label), "OFF"):
				player.Offensive = parseFaceoffStat(value)
			case strings.Contains(strings.ToUpper(label), "DEF"):
				player.Defensive = parseFaceoffStat(value)
			case strings.Contains(strings.ToUpper(label), "NEU"):
				player.Neutral = parseFaceoffStat(value)
			case label == "TOT":
				player.Overall = parseFaceoffStat(value)
			}
		}

		players = append(players, player)
	})

	return players, matchups
}

func parseFaceoffReportBase(gameID int, code model.HTMLReportCode, body []byte) (model.ParsedFaceoffReport, *goquery.Document, error) {
	if !looksLikeHTML(body) {
		return model.ParsedFaceoffReport{}, nil, errNotHTML
	}
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(string(body)))
	if err != nil {
		return model.ParsedFaceoffReport{}, nil, fmt.Errorf("htmlreport: parse failed for game %d: %w", gameID, err)
	}

	report := model.ParsedFaceoffReport{
		GameID:     gameID,
		SeasonID:   model.GameIDToSeasonID(gameID),
		ReportCode: code,
		RawBytes:   body,
	}
	report.AwayTeam.Abbrev = teamAbbrevFromLogo(doc.Find("table#Visitor"))
	report.HomeTeam.Abbrev = teamAbbrevFromLogo(doc.Find("table#Home"))

	return report, doc, nil
}

// ParseFaceoffSummary parses an FS-code report's player-level faceoff
// breakdown (offensive/defensive/neutral zone and overall), grounded on
// faceoff_summary.py's PlayerTable column walk. The original's additional
// strength (EV/PP/SH) and period breakdowns are not carried: zone and
// overall totals are what spec.md's faceoff validation rules need.
func ParseFaceoffSummary(gameID int, body []byte) (model.ParsedFaceoffReport, error) {
	report, doc, err := parseFaceoffReportBase(gameID, model.ReportFaceoffSummary, body)
	if err != nil {
		return model.ParsedFaceoffReport{}, err
	}

	columns := doc.Find(`table#PlayerTable td[valign="top"]`)
	if columns.Length() >= 2 {
		report.AwayTeam.Players, _ = parseFaceoffPlayerColumn(columns.Eq(0))
		report.HomeTeam.Players, _ = parseFaceoffPlayerColumn(columns.Eq(1))
	}

	return report, nil
}

// ParseFaceoffComparison parses an FC-code report's head-to-head faceoff
// matchups in addition to each player's own zone/overall totals, grounded
// on faceoff_comparison.py's PlayerTable column walk and "vs." matchup rows.
func ParseFaceoffComparison(gameID int, body []byte) (model.ParsedFaceoffReport, error) {
	report, doc, err := parseFaceoffReportBase(gameID, model.ReportFaceoffComparison, body)
	if err != nil {
		return model.ParsedFaceoffReport{}, err
	}

	columns := doc.Find(`table#PlayerTable td[valign="top"]`)
	if columns.Length() >= 2 {
		var awayMatchups, homeMatchups []model.FaceoffMatchup
		report.AwayTeam.Players, awayMatchups = parseFaceoffPlayerColumn(columns.Eq(0))
		report.HomeTeam.Players, homeMatchups = parseFaceoffPlayerColumn(columns.Eq(1))
		report.Matchups = append(awayMatchups, homeMatchups...)
	}

	return report, nil
}
