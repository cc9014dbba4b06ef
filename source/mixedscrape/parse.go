// Package mixedscrape implements the mixed JSON+HTML scrape archetype
// (C8): a Next.js-style `__NEXT_DATA__` embedded-JSON payload is tried
// first via gjson path walking, falling back to CSS-class DOM queries when
// the script tag is absent or the expected path is missing (spec.md
// section 4.7's "JSON-first then DOM fallback" description; gjson path
// style grounded on Amr-9-Sayl's attacker.go gjson.GetBytes usage, DOM
// fallback grounded on maxjiang216-fide-glicko's goquery cell extraction).
package mixedscrape

import (
	"strings"

	"github.com/PuerkitoBio/goquery"
	"github.com/tidwall/gjson"

	"github.com/relentnet/nhl-ingest/model"
	"github.com/relentnet/nhl-ingest/source"
)

const nextDataSelector = "script#__NEXT_DATA__"

// extractNextData returns the raw JSON text inside the __NEXT_DATA__
// script tag, or "" if absent.
func extractNextData(doc *goquery.Document) string {
	return doc.Find(nextDataSelector).First().Text()
}

// ParseStartingGoalies extracts projected starters for gameID from a
// dailyfaceoff-style page: __NEXT_DATA__ JSON first, DOM fallback second.
func ParseStartingGoalies(gameID int, body []byte) ([]model.StartingGoalie, error) {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(string(body)))
	if err != nil {
		return nil, err
	}

	if raw := extractNextData(doc); raw != "" {
		if goalies, ok := parseStartingGoaliesJSON(gameID, raw); ok {
			return goalies, nil
		}
	}

	return parseStartingGoaliesDOM(gameID, doc), nil
}

func parseStartingGoaliesJSON(gameID int, raw string) ([]model.StartingGoalie, bool) {
	result := gjson.Get(raw, "props.pageProps.games")
	if !result.Exists() {
		return nil, false
	}

	var goalies []model.StartingGoalie
	result.ForEach(func(_, g gjson.Result) bool {
		id, _ := source.SafeInt(g.Get("gameId").Value())
		if id != gameID {
			return true
		}
		for _, side := range []string{"homeGoalie", "awayGoalie"} {
			node := g.Get(side)
			if !node.Exists() {
				continue
			}
			goalies = append(goalies, model.StartingGoalie{
				GameID:     gameID,
				TeamAbbrev: node.Get("teamAbbrev").String(),
				PlayerName: node.Get("name").String(),
				Confirmed:  node.Get("confirmed").Bool(),
			})
		}
		return true
	})
	if len(goalies) == 0 {
		return nil, false
	}
	return goalies, true
}

func parseStartingGoaliesDOM(gameID int, doc *goquery.Document) []model.StartingGoalie {
	var goalies []model.StartingGoalie
	doc.Find(".starting-goalie-card").Each(func(_ int, s *goquery.Selection) {
		teamAbbrev := strings.TrimSpace(s.Find(".team-abbrev").Text())
		name := strings.TrimSpace(s.Find(".goalie-name").Text())
		confirmed := strings.Contains(strings.ToLower(s.Find(".confirmation-status").Text()), "confirmed")
		if name == "" {
			return
		}
		goalies = append(goalies, model.StartingGoalie{
			GameID:     gameID,
			TeamAbbrev: teamAbbrev,
			PlayerName: name,
			Confirmed:  confirmed,
		})
	})
	return goalies
}

// ParseLineCombinations extracts forward/defense line groupings for a team,
// JSON-first then DOM fallback.
func ParseLineCombinations(teamAbbrev string, body []byte) ([]model.LineCombination, error) {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(string(body)))
	if err != nil {
		return nil, err
	}

	if raw := extractNextData(doc); raw != "" {
		if lines, ok := parseLineCombinationsJSON(teamAbbrev, raw); ok {
			return lines, nil
		}
	}

	return parseLineCombinationsDOM(teamAbbrev, doc), nil
}

func parseLineCombinationsJSON(teamAbbrev, raw string) ([]model.LineCombination, bool) {
	result := gjson.Get(raw, "props.pageProps.lines")
	if !result.Exists() {
		return nil, false
	}

	var lines []model.LineCombination
	result.ForEach(func(_, l gjson.Result) bool {
		lineNum, _ := source.SafeInt(l.Get("lineNumber").Value())
		unit := l.Get("unit").String()
		var players []string
		l.Get("players").ForEach(func(_, p gjson.Result) bool {
			players = append(players, p.String())
			return true
		})
		lines = append(lines, model.LineCombination{
			TeamAbbrev: teamAbbrev,
			LineNumber: lineNum,
			Unit:       unit,
			Players:    players,
		})
		return true
	})
	if len(lines) == 0 {
		return nil, false
	}
	return lines, true
}

func parseLineCombinationsDOM(teamAbbrev string, doc *goquery.Document) []model.LineCombination {
	var lines []model.LineCombination
	doc.Find(".line-combination-row").Each(func(i int, s *goquery.Selection) {
		unit := "forward"
		if strings.Contains(s.AttrOr("class", ""), "defense-line") {
			unit = "defense"
		}
		var players []string
		s.Find(".player-name").Each(func(_ int, p *goquery.Selection) {
			if t := strings.TrimSpace(p.Text()); t != "" {
				players = append(players, t)
			}
		})
		if len(players) == 0 {
			return
		}
		lines = append(lines, model.LineCombination{
			TeamAbbrev: teamAbbrev,
			LineNumber: i + 1,
			Unit:       unit,
			Players:    players,
		})
	})
	return lines
}

// ParseInjuries extracts injury report rows for a team, JSON-first then
// DOM fallback.
func ParseInjuries(teamAbbrev string, body []byte) ([]model.InjuryReport, error) {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(string(body)))
	if err != nil {
		return nil, err
	}

	if raw := extractNextData(doc); raw != "" {
		if injuries, ok := parseInjuriesJSON(teamAbbrev, raw); ok {
			return injuries, nil
		}
	}

	return parseInjuriesDOM(teamAbbrev, doc), nil
}

func parseInjuriesJSON(teamAbbrev, raw string) ([]model.InjuryReport, bool) {
	result := gjson.Get(raw, "props.pageProps.injuries")
	if !result.Exists() {
		return nil, false
	}

	var injuries []model.InjuryReport
	result.ForEach(func(_, inj gjson.Result) bool {
		injuries = append(injuries, model.InjuryReport{
			TeamAbbrev: teamAbbrev,
			PlayerName: inj.Get("player").String(),
			Status:     inj.Get("status").String(),
			Note:       inj.Get("note").String(),
		})
		return true
	})
	if len(injuries) == 0 {
		return nil, false
	}
	return injuries, true
}

func parseInjuriesDOM(teamAbbrev string, doc *goquery.Document) []model.InjuryReport {
	var injuries []model.InjuryReport
	doc.Find(".injury-row").Each(func(_ int, s *goquery.Selection) {
		name := strings.TrimSpace(s.Find(".player-name").Text())
		if name == "" {
			return
		}
		injuries = append(injuries, model.InjuryReport{
			TeamAbbrev: teamAbbrev,
			PlayerName: name,
			Status:     strings.TrimSpace(s.Find(".injury-status").Text()),
			Note:       strings.TrimSpace(s.Find(".injury-note").Text()),
		})
	})
	return injuries
}
