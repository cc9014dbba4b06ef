// Package nhlapi implements the JSON API source archetype (C8): field
// canonicalization and game-id/season-id derivation over api-web.nhle.com
// style payloads. Grounded on the Python original's JSON-API downloader and
// on jshill103-hockey_home_dashboard's transformBoxscore field-by-field
// extraction style.
package nhlapi

import (
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/tidwall/gjson"

	"github.com/relentnet/nhl-ingest/model"
	"github.com/relentnet/nhl-ingest/source"
)

// ParseBoxscore canonicalizes a boxscore JSON payload into model.ParsedBoxscore.
func ParseBoxscore(gameID int, body []byte) (model.ParsedBoxscore, error) {
	if !json.Valid(body) {
		return model.ParsedBoxscore{}, fmt.Errorf("nhlapi: invalid JSON boxscore for game %d", gameID)
	}
	root := gjson.ParseBytes(body)

	b := model.ParsedBoxscore{
		GameID:   gameID,
		SeasonID: model.GameIDToSeasonID(gameID),
		RawBytes: body,
	}

	if t := root.Get("startTimeUTC").String(); t != "" {
		if parsed, err := time.Parse(time.RFC3339, t); err == nil {
			b.StartTime = parsed
		}
	}

	b.HomeTeam = parseTeamBoxscore(root.Get("homeTeam"))
	b.AwayTeam = parseTeamBoxscore(root.Get("awayTeam"))

	for _, side := range []string{"homeTeam", "awayTeam"} {
		abbrev := root.Get(side + ".abbrev").String()
		root.Get("playerByGameStats." + side + ".forwards").ForEach(func(_, v gjson.Result) bool {
			b.Skaters = append(b.Skaters, parseSkater(v, abbrev))
			return true
		})
		root.Get("playerByGameStats." + side + ".defense").ForEach(func(_, v gjson.Result) bool {
			b.Skaters = append(b.Skaters, parseSkater(v, abbrev))
			return true
		})
		root.Get("playerByGameStats." + side + ".goalies").ForEach(func(_, v gjson.Result) bool {
			b.Goalies = append(b.Goalies, parseGoalie(v, abbrev))
			return true
		})
	}

	return b, nil
}

func parseTeamBoxscore(t gjson.Result) model.TeamBoxscore {
	score, _ := source.SafeInt(t.Get("score").Value())
	sog, _ := source.SafeInt(t.Get("sog").Value())
	return model.TeamBoxscore{
		Abbrev:      t.Get("abbrev").String(),
		Name:        t.Get("commonName.default").String(),
		Score:       score,
		ShotsOnGoal: sog,
	}
}

func parseSkater(v gjson.Result, teamAbbrev string) model.SkaterStats {
	playerID, _ := source.SafeInt(v.Get("playerId").Value())
	goals, _ := source.SafeInt(v.Get("goals").Value())
	assists, _ := source.SafeInt(v.Get("assists").Value())
	points, _ := source.SafeInt(v.Get("points").Value())
	plusMinus, _ := source.SafeInt(v.Get("plusMinus").Value())
	ppg, _ := source.SafeInt(v.Get("powerPlayGoals").Value())
	shg, _ := source.SafeInt(v.Get("shGoals").Value())

	s := model.SkaterStats{
		PlayerID:         playerID,
		Name:             v.Get("name.default").String(),
		TeamAbbrev:       teamAbbrev,
		Goals:            goals,
		Assists:          assists,
		Points:           points,
		PlusMinus:        plusMinus,
		PowerPlayGoals:   ppg,
		ShorthandedGoals: shg,
		TOI:              v.Get("toi").String(),
	}
	if shifts, ok := source.SafeInt(v.Get("shifts").Value()); ok {
		s.Shifts = &shifts
	}
	if pct, ok := source.SafeFloat(v.Get("faceoffWinningPctg").Value()); ok {
		s.FaceoffPct = &pct
	}
	return s
}

func parseGoalie(v gjson.Result, teamAbbrev string) model.GoalieStats {
	playerID, _ := source.SafeInt(v.Get("playerId").Value())
	goalsAgainst, _ := source.SafeInt(v.Get("goalsAgainst").Value())
	saves, shotsAgainst := parseSaveShotsAgainst(v)

	g := model.GoalieStats{
		PlayerID:     playerID,
		Name:         v.Get("name.default").String(),
		TeamAbbrev:   teamAbbrev,
		Saves:        saves,
		GoalsAgainst: goalsAgainst,
		ShotsAgainst: shotsAgainst,
		TOI:          v.Get("toi").String(),
	}
	if pct, ok := source.SafeFloat(v.Get("savePctg").Value()); ok {
		g.SavePct = &pct
	}
	return g
}

// parseSaveShotsAgainst reads "saveShotsAgainst", which the real API
// reports as a combined "saves/shots" string (e.g. "25/27"), not a bare
// save count. Falls back to separate "saves"/"shotsAgainst" fields when
// that combined field isn't in the expected slash format.
func parseSaveShotsAgainst(v gjson.Result) (saves, shotsAgainst int) {
	combined := v.Get("saveShotsAgainst").String()
	if parts := strings.Split(combined, "/"); len(parts) == 2 {
		s, sOK := source.SafeInt(parts[0])
		sa, saOK := source.SafeInt(parts[1])
		if sOK && saOK {
			return s, sa
		}
	}
	saves, _ = source.SafeInt(v.Get("saves").Value())
	shotsAgainst, _ = source.SafeInt(v.Get("shotsAgainst").Value())
	return saves, shotsAgainst
}

// ParsePlayByPlay canonicalizes a play-by-play JSON payload.
func ParsePlayByPlay(gameID int, body []byte) (model.ParsedPlayByPlay, error) {
	if !json.Valid(body) {
		return model.ParsedPlayByPlay{}, fmt.Errorf("nhlapi: invalid JSON play-by-play for game %d", gameID)
	}
	root := gjson.ParseBytes(body)

	homeID, _ := source.SafeInt(root.Get("homeTeam.id").Value())
	awayID, _ := source.SafeInt(root.Get("awayTeam.id").Value())

	pbp := model.ParsedPlayByPlay{
		GameID:     gameID,
		SeasonID:   model.GameIDToSeasonID(gameID),
		HomeTeamID: homeID,
		AwayTeamID: awayID,
		HomeAbbrev: root.Get("homeTeam.abbrev").String(),
		AwayAbbrev: root.Get("awayTeam.abbrev").String(),
	}

	root.Get("plays").ForEach(func(_, v gjson.Result) bool {
		typeDesc := v.Get("typeDescKey").String()
		period := periodTypeFrom(v.Get("periodDescriptor.periodType").String())
		owner, _ := source.SafeInt(v.Get("details.eventOwnerTeamId").Value())

		var eventType model.PBPEventType
		switch typeDesc {
		case "goal":
			eventType = model.EventGoal
		case "shot-on-goal":
			eventType = model.EventShot
		}

		pbp.Events = append(pbp.Events, model.PBPEvent{
			EventType:      eventType,
			RawType:        typeDesc,
			PeriodType:     period,
			EventOwnerTeam: owner,
		})
		return true
	})

	return pbp, nil
}

func periodTypeFrom(s string) model.PeriodType {
	switch s {
	case "OT":
		return model.PeriodOvertime
	case "SO":
		return model.PeriodShootout
	default:
		return model.PeriodRegulation
	}
}

// ParseShiftChart canonicalizes a shift-chart JSON payload (SPEC_FULL.md C.3).
func ParseShiftChart(gameID int, body []byte) (model.ParsedShiftChart, error) {
	if !json.Valid(body) {
		return model.ParsedShiftChart{}, fmt.Errorf("nhlapi: invalid JSON shift chart for game %d", gameID)
	}
	root := gjson.ParseBytes(body)

	chart := model.ParsedShiftChart{
		GameID:   gameID,
		SeasonID: model.GameIDToSeasonID(gameID),
	}

	root.Get("data").ForEach(func(_, v gjson.Result) bool {
		playerID, _ := source.SafeInt(v.Get("playerId").Value())
		period, _ := source.SafeInt(v.Get("period").Value())
		typeCode, _ := source.SafeInt(v.Get("typeCode").Value())
		startSec, startOK := source.ParseTimeMMSS(v.Get("startTime").String())
		endSec, endOK := source.ParseTimeMMSS(v.Get("endTime").String())
		if !startOK || !endOK {
			return true
		}
		chart.Shifts = append(chart.Shifts, model.ShiftSegment{
			PlayerID: playerID,
			Period:   period,
			StartSec: startSec,
			EndSec:   endSec,
			TypeCode: typeCode,
		})
		return true
	})

	return chart, nil
}

// ParseSchedule canonicalizes a schedule JSON payload.
func ParseSchedule(body []byte) ([]model.ScheduleGame, error) {
	if !json.Valid(body) {
		return nil, fmt.Errorf("nhlapi: invalid JSON schedule")
	}
	root := gjson.ParseBytes(body)

	var games []model.ScheduleGame
	root.Get("gameWeek").ForEach(func(_, day gjson.Result) bool {
		day.Get("games").ForEach(func(_, g gjson.Result) bool {
			gameID, _ := source.SafeInt(g.Get("id").Value())
			sg := model.ScheduleGame{
				GameID:     gameID,
				SeasonID:   model.GameIDToSeasonID(gameID),
				HomeAbbrev: g.Get("homeTeam.abbrev").String(),
				AwayAbbrev: g.Get("awayTeam.abbrev").String(),
			}
			if score, ok := source.SafeInt(g.Get("homeTeam.score").Value()); ok {
				sg.HomeScore = &score
			}
			if score, ok := source.SafeInt(g.Get("awayTeam.score").Value()); ok {
				sg.AwayScore = &score
			}
			games = append(games, sg)
			return true
		})
		return true
	})
	return games, nil
}

// ParseStandings canonicalizes a standings JSON payload.
func ParseStandings(body []byte) ([]model.StandingsRow, error) {
	if !json.Valid(body) {
		return nil, fmt.Errorf("nhlapi: invalid JSON standings")
	}
	root := gjson.ParseBytes(body)

	var rows []model.StandingsRow
	root.Get("standings").ForEach(func(_, t gjson.Result) bool {
		wins, _ := source.SafeInt(t.Get("wins").Value())
		losses, _ := source.SafeInt(t.Get("losses").Value())
		otLosses, _ := source.SafeInt(t.Get("otLosses").Value())
		points, _ := source.SafeInt(t.Get("points").Value())
		rows = append(rows, model.StandingsRow{
			TeamAbbrev: t.Get("teamAbbrev.default").String(),
			Wins:       wins,
			Losses:     losses,
			OTLosses:   otLosses,
			Points:     points,
		})
		return true
	})
	return rows, nil
}

// ParseRoster canonicalizes a team roster JSON payload.
func ParseRoster(teamAbbrev string, body []byte) ([]model.RosterEndpointPlayer, error) {
	if !json.Valid(body) {
		return nil, fmt.Errorf("nhlapi: invalid JSON roster for %s", teamAbbrev)
	}
	root := gjson.ParseBytes(body)

	var players []model.RosterEndpointPlayer
	for _, group := range []string{"forwards", "defensemen", "goalies"} {
		root.Get(group).ForEach(func(_, p gjson.Result) bool {
			playerID, _ := source.SafeInt(p.Get("id").Value())
			players = append(players, model.RosterEndpointPlayer{
				PlayerID:   playerID,
				Name:       p.Get("firstName.default").String() + " " + p.Get("lastName.default").String(),
				Position:   p.Get("positionCode").String(),
				TeamAbbrev: teamAbbrev,
			})
			return true
		})
	}
	return players, nil
}

// ParsePlayerLanding canonicalizes a player-landing JSON payload.
func ParsePlayerLanding(playerID int, body []byte) (model.PlayerLanding, error) {
	if !json.Valid(body) {
		return model.PlayerLanding{}, fmt.Errorf("nhlapi: invalid JSON player landing for %d", playerID)
	}
	root := gjson.ParseBytes(body)
	return model.PlayerLanding{
		PlayerID:  playerID,
		FullName:  root.Get("firstName.default").String() + " " + root.Get("lastName.default").String(),
		Position:  root.Get("position").String(),
		BirthDate: root.Get("birthDate").String(),
	}, nil
}

// ParsePlayerGameLog canonicalizes a player-game-log JSON payload.
func ParsePlayerGameLog(playerID int, body []byte) ([]model.PlayerGameLogRow, error) {
	if !json.Valid(body) {
		return nil, fmt.Errorf("nhlapi: invalid JSON game log for %d", playerID)
	}
	root := gjson.ParseBytes(body)

	var rows []model.PlayerGameLogRow
	root.Get("gameLog").ForEach(func(_, g gjson.Result) bool {
		gameID, _ := source.SafeInt(g.Get("gameId").Value())
		goals, _ := source.SafeInt(g.Get("goals").Value())
		assists, _ := source.SafeInt(g.Get("assists").Value())
		points, _ := source.SafeInt(g.Get("points").Value())
		rows = append(rows, model.PlayerGameLogRow{
			PlayerID: playerID,
			GameID:   gameID,
			Goals:    goals,
			Assists:  assists,
			Points:   points,
		})
		return true
	})
	return rows, nil
}
