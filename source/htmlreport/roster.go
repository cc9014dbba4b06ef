package htmlreport

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/PuerkitoBio/goquery"

	"github.com/relentnet/nhl-ingest/model"
	"github.com/relentnet/nhl-ingest/source"
)

// captainPattern strips a trailing captain/alternate designation off a
// roster name, e.g. "NELSON, BROCK (A)", grounded on roster.py's
// CAPTAIN_PATTERN.
var captainPattern = regexp.MustCompile(`(.+?)\s*\(([CA])\)\s*$`)

// officialPattern parses an official cell like "#7 GARRETT RANK", grounded
// on roster.py's official_pattern.
var officialPattern = regexp.MustCompile(`#(\d+)\s+(.+)`)

func isRosterHeaderTable(_ int, s *goquery.Selection) bool {
	header := s.Find("tr").First().Find("td")
	if header.Length() < 3 {
		return false
	}
	return strings.TrimSpace(header.Eq(0).Text()) == "#" &&
		strings.TrimSpace(header.Eq(1).Text()) == "Pos" &&
		strings.TrimSpace(header.Eq(2).Text()) == "Name"
}

// findRosterTables finds the two main away/home player-roster tables
// (header "# | Pos | Name"), excluding any nested inside the scratches
// section, grounded on roster.py's _find_roster_tables.
func findRosterTables(doc *goquery.Document) []*goquery.Selection {
	var tables []*goquery.Selection
	doc.Find("table").FilterFunction(isRosterHeaderTable).Each(func(_ int, tbl *goquery.Selection) {
		if tbl.ParentsFiltered(`tr[id="Scratches"]`).Length() > 0 {
			return
		}
		tables = append(tables, tbl)
	})
	if len(tables) > 2 {
		tables = tables[:2]
	}
	return tables
}

func parseRosterPlayerRow(cells *goquery.Selection) (model.RosterPlayer, bool) {
	if cells.Length() < 3 {
		return model.RosterPlayer{}, false
	}
	numberText := strings.TrimSpace(cells.Eq(0).Text())
	position := strings.TrimSpace(cells.Eq(1).Text())
	nameText := strings.TrimSpace(cells.Eq(2).Text())

	number, ok := source.SafeInt(numberText)
	if !ok {
		return model.RosterPlayer{}, false
	}
	switch position {
	case "C", "L", "R", "D", "G":
	default:
		return model.RosterPlayer{}, false
	}

	name := nameText
	isCaptain, isAlternate := false, false
	if m := captainPattern.FindStringSubmatch(nameText); m != nil {
		name = strings.TrimSpace(m[1])
		switch m[2] {
		case "C":
			isCaptain = true
		case "A":
			isAlternate = true
		}
	}

	class, _ := cells.Eq(0).Attr("class")

	return model.RosterPlayer{
		Number:      number,
		Position:    position,
		Name:        name,
		IsStarter:   strings.Contains(class, "bold"),
		IsCaptain:   isCaptain,
		IsAlternate: isAlternate,
	}, true
}

func parseRosterPlayerTable(tbl *goquery.Selection) []model.RosterPlayer {
	var players []model.RosterPlayer
	tbl.Find("tr").Each(func(i int, row *goquery.Selection) {
		if i == 0 {
			return
		}
		if player, ok := parseRosterPlayerRow(row.Find("td")); ok {
			players = append(players, player)
		}
	})
	return players
}

func splitRosterByPosition(players []model.RosterPlayer) (skaters, goalies []model.RosterPlayer) {
	for _, p := range players {
		if p.Position == "G" {
			goalies = append(goalies, p)
		} else {
			skaters = append(skaters, p)
		}
	}
	return skaters, goalies
}

func parseOfficials(doc *goquery.Document) (referees, linesmen []model.OfficialInfo) {
	var officialsTable *goquery.Selection
	doc.Find("td.header").EachWithBreak(func(_ int, td *goquery.Selection) bool {
		if strings.TrimSpace(td.Text()) != "Officials" {
			return true
		}
		tbl := td.Closest("tr").Next().Find("table").First()
		if tbl.Length() > 0 {
			officialsTable = tbl
		}
		return false
	})
	if officialsTable == nil {
		return nil, nil
	}

	refereeCol, linespersonCol := -1, -1
	// officialsTable is a <table>; goquery's html5 parser inserts an implicit
	// <tbody>, so Find("tr") is used instead of ChildrenFiltered to reach its rows.
	officialsTable.Find("tr").Each(func(_ int, row *goquery.Selection) {
		cells := row.ChildrenFiltered("td")
		texts := cells.Map(func(_ int, c *goquery.Selection) string { return strings.TrimSpace(c.Text()) })
		for i, t := range texts {
			if t == "Referee" {
				refereeCol = i
			}
			if t == "Linesperson" {
				linespersonCol = i
			}
		}

		cells.Each(func(i int, cell *goquery.Selection) {
			text := strings.TrimSpace(cell.Text())
			if text == "Referee" || text == "Linesperson" || text == "Standby" || text == "" {
				return
			}
			var role string
			switch i {
			case refereeCol:
				role = "Referee"
			case linespersonCol:
				role = "Linesman"
			default:
				return
			}
			cell.Find("table td").Each(func(_ int, nested *goquery.Selection) {
				m := officialPattern.FindStringSubmatch(strings.TrimSpace(nested.Text()))
				if m == nil {
					return
				}
				number, _ := source.SafeInt(m[1])
				official := model.OfficialInfo{Number: number, Name: strings.TrimSpace(m[2]), Role: role}
				if role == "Referee" {
					referees = append(referees, official)
				} else {
					linesmen = append(linesmen, official)
				}
			})
		})
	})

	return referees, linesmen
}

// ParseRoster parses an RO-code report: away/home skater, goalie, and
// scratch lists, head coaches, and officials, grounded on roster.py's full
// _parse_report pipeline.
func ParseRoster(gameID int, body []byte) (model.ParsedRosterReport, error) {
	if !looksLikeHTML(body) {
		return model.ParsedRosterReport{}, errNotHTML
	}
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(string(body)))
	if err != nil {
		return model.ParsedRosterReport{}, fmt.Errorf("htmlreport: parse failed for game %d: %w", gameID, err)
	}

	report := model.ParsedRosterReport{
		GameID:   gameID,
		SeasonID: model.GameIDToSeasonID(gameID),
		RawBytes: body,
	}
	report.AwayTeam.Abbrev = teamAbbrevFromLogo(doc.Find("table#Visitor"))
	report.HomeTeam.Abbrev = teamAbbrevFromLogo(doc.Find("table#Home"))

	if headings := doc.Find("td.teamHeading"); headings.Length() >= 2 {
		report.AwayTeam.Name = strings.TrimSpace(headings.Eq(0).Text())
		report.HomeTeam.Name = strings.TrimSpace(headings.Eq(1).Text())
	}

	if tables := findRosterTables(doc); len(tables) >= 2 {
		awayPlayers := parseRosterPlayerTable(tables[0])
		homePlayers := parseRosterPlayerTable(tables[1])
		report.AwayTeam.Skaters, report.AwayTeam.Goalies = splitRosterByPosition(awayPlayers)
		report.HomeTeam.Skaters, report.HomeTeam.Goalies = splitRosterByPosition(homePlayers)
	}

	scratchTables := doc.Find(`tr[id="Scratches"]`).Find("table").FilterFunction(isRosterHeaderTable)
	if scratchTables.Length() >= 2 {
		report.AwayTeam.Scratches = parseRosterPlayerTable(scratchTables.Eq(0))
		report.HomeTeam.Scratches = parseRosterPlayerTable(scratchTables.Eq(1))
	}

	if coachTables := doc.Find(`tr[id="HeadCoaches"]`).Find("table"); coachTables.Length() >= 2 {
		if name := strings.TrimSpace(coachTables.Eq(0).Find("td").First().Text()); name != "" {
			report.AwayTeam.Coaches = append(report.AwayTeam.Coaches, name)
		}
		if name := strings.TrimSpace(coachTables.Eq(1).Find("td").First().Text()); name != "" {
			report.HomeTeam.Coaches = append(report.HomeTeam.Coaches, name)
		}
	}

	report.Referees, report.Linesmen = parseOfficials(doc)

	return report, nil
}
