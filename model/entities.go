package model

import "time"

// GameIDToSeasonID derives the season key from a 10-digit game id
// (YYYYGGNNNN): the first 4 digits are the season-start year, and the
// season id is year*10000 + (year+1), per spec.md sections 4.7 and 6.
func GameIDToSeasonID(gameID int) int {
	year := gameID / 1000000
	return year*10000 + (year + 1)
}

// GameSuffix returns the last 6 digits of the game id, zero-padded, used to
// build HTML report URLs (spec.md sections 4.7 and 6).
func GameSuffix(gameID int) string {
	suffix := gameID % 1000000
	return padInt(suffix, 6)
}

func padInt(n, width int) string {
	s := itoa(n)
	for len(s) < width {
		s = "0" + s
	}
	return s
}

func itoa(n int) string {
	if n == 0 {
		return "0"
	}
	neg := n < 0
	if neg {
		n = -n
	}
	var buf [20]byte
	i := len(buf)
	for n > 0 {
		i--
		buf[i] = byte('0' + n%10)
		n /= 10
	}
	if neg {
		i--
		buf[i] = '-'
	}
	return string(buf[i:])
}

// GameType is the two-digit game-type segment of a game id.
type GameType string

const (
	GameTypePreseason GameType = "01"
	GameTypeRegular   GameType = "02"
	GameTypePlayoffs  GameType = "03"
)

// TeamBoxscore is one team's line in a boxscore.
type TeamBoxscore struct {
	Abbrev      string
	Name        string
	Score       int
	ShotsOnGoal int
}

// SkaterStats is one skater's boxscore line.
type SkaterStats struct {
	PlayerID         int
	Name             string
	TeamAbbrev       string
	Goals            int
	Assists          int
	Points           int
	PlusMinus        int
	PowerPlayGoals   int
	ShorthandedGoals int
	FaceoffPct       *float64
	TOI              string
	Shifts           *int
}

// GoalieStats is one goalie's boxscore line.
type GoalieStats struct {
	PlayerID     int
	Name         string
	TeamAbbrev   string
	Saves        int
	GoalsAgainst int
	ShotsAgainst int
	SavePct      *float64
	TOI          string
}

// ParsedBoxscore is the canonical representation of a JSON API boxscore
// (spec.md section 4.7, "JSON API parser").
type ParsedBoxscore struct {
	GameID     int
	SeasonID   int
	StartTime  time.Time
	HomeTeam   TeamBoxscore
	AwayTeam   TeamBoxscore
	Skaters    []SkaterStats
	Goalies    []GoalieStats
	RawBytes   []byte
}

// PBPEventType is the closed set of play-by-play event types this engine
// reasons about. Other event types are preserved in RawType but do not
// participate in cross-source validation.
type PBPEventType string

const (
	EventGoal PBPEventType = "goal"
	EventShot PBPEventType = "shot-on-goal"
)

// PeriodType flags regulation/OT/shootout so shootout events can be
// excluded from the goal/shot cross-source rules, per spec.md section 4.9.
type PeriodType string

const (
	PeriodRegulation PeriodType = "REG"
	PeriodOvertime   PeriodType = "OT"
	PeriodShootout   PeriodType = "SO"
)

// PBPEvent is one event row in a play-by-play feed.
type PBPEvent struct {
	EventType      PBPEventType
	RawType        string
	PeriodType     PeriodType
	EventOwnerTeam int
}

// ParsedPlayByPlay is the canonical representation of a JSON API
// play-by-play feed.
type ParsedPlayByPlay struct {
	GameID       int
	SeasonID     int
	HomeTeamID   int
	AwayTeamID   int
	HomeAbbrev   string
	AwayAbbrev   string
	Events       []PBPEvent
}

// ShiftSegment is one shift interval for a player.
type ShiftSegment struct {
	PlayerID   int
	Period     int
	StartSec   int
	EndSec     int
	TypeCode   int // 505 = decorative goal event row, excluded from sums
}

// ParsedShiftChart aggregates shift segments for a game (SPEC_FULL.md C.2).
type ParsedShiftChart struct {
	GameID   int
	SeasonID int
	Shifts   []ShiftSegment
}

// DecorativeGoalEventTypeCode is the shift-row type code that overlaps a
// regular shift and must be excluded from TOI/shift-count sums, resolving
// the Open Question in spec.md section 9.
const DecorativeGoalEventTypeCode = 505

// TOISeconds sums a player's shift durations, excluding decorative goal
// event rows (type_code 505).
func (c ParsedShiftChart) TOISeconds(playerID int) int {
	total := 0
	for _, s := range c.Shifts {
		if s.PlayerID != playerID || s.TypeCode == DecorativeGoalEventTypeCode {
			continue
		}
		total += s.EndSec - s.StartSec
	}
	return total
}

// ShiftCount counts a player's shifts, excluding decorative goal event rows.
func (c ParsedShiftChart) ShiftCount(playerID int) int {
	n := 0
	for _, s := range c.Shifts {
		if s.PlayerID != playerID || s.TypeCode == DecorativeGoalEventTypeCode {
			continue
		}
		n++
	}
	return n
}

// ScheduleGame is one row from the JSON API schedule endpoint.
type ScheduleGame struct {
	GameID    int
	SeasonID  int
	HomeAbbrev string
	AwayAbbrev string
	// HomeScore/AwayScore are nil pre-game (spec.md section 9, Open Question).
	HomeScore *int
	AwayScore *int
}

// StandingsRow is one team's row from the JSON API standings endpoint.
type StandingsRow struct {
	TeamAbbrev string
	Wins       int
	Losses     int
	OTLosses   int
	Points     int
}

// RosterEndpointPlayer is one row from a team roster endpoint.
type RosterEndpointPlayer struct {
	PlayerID   int
	Name       string
	Position   string
	TeamAbbrev string
}

// PlayerLanding is the player-landing JSON API endpoint (biographical and
// career-summary data).
type PlayerLanding struct {
	PlayerID  int
	FullName  string
	Position  string
	BirthDate string
}

// PlayerGameLogRow is one game's line from the player-game-log endpoint.
type PlayerGameLogRow struct {
	PlayerID int
	GameID   int
	Goals    int
	Assists  int
	Points   int
}

// HTMLReportCode is the two-letter report genre code (spec.md sections 4.7/6).
type HTMLReportCode string

const (
	ReportGameSummary        HTMLReportCode = "GS"
	ReportEventSummary       HTMLReportCode = "ES"
	ReportPlayByPlay         HTMLReportCode = "PL"
	ReportFaceoffSummary     HTMLReportCode = "FS"
	ReportFaceoffComparison  HTMLReportCode = "FC"
	ReportRoster             HTMLReportCode = "RO"
	ReportShotSummary        HTMLReportCode = "SS"
	ReportHomeTOI            HTMLReportCode = "TH"
	ReportVisitorTOI         HTMLReportCode = "TV"
)

// ParsedHTMLReport is the canonical representation of one HTML report.
// Raw bytes may be preserved for reprocessing if configured.
type ParsedHTMLReport struct {
	GameID      int
	SeasonID    int
	ReportCode  HTMLReportCode
	Skaters     []SkaterStats
	Goalies     []GoalieStats
	HomeTeam    TeamBoxscore
	AwayTeam    TeamBoxscore
	RawBytes    []byte
}

// FaceoffStat is a won/total/pct triple, the shape every faceoff report
// cell reduces to once parsed out of its "8-9/89%" text form.
type FaceoffStat struct {
	Won   int
	Total int
	Pct   *float64
}

// PlayerFaceoffStats is one player's zone-broken-out faceoff record, from
// the FS (faceoff summary) or FC (faceoff comparison) report.
type PlayerFaceoffStats struct {
	Number    int
	Position  string
	Name      string
	Offensive FaceoffStat
	Defensive FaceoffStat
	Neutral   FaceoffStat
	Overall   FaceoffStat
}

// FaceoffMatchup is one head-to-head faceoff pairing from the FC report.
type FaceoffMatchup struct {
	Player   PlayerFaceoffStats
	Opponent PlayerFaceoffStats
	Overall  FaceoffStat
}

// TeamFaceoffSummary is one team's player-level faceoff breakdown.
type TeamFaceoffSummary struct {
	Name    string
	Abbrev  string
	Players []PlayerFaceoffStats
}

// ParsedFaceoffReport is the canonical representation shared by the FS and
// FC report codes; Matchups is only populated when ReportCode is FC.
type ParsedFaceoffReport struct {
	GameID     int
	SeasonID   int
	ReportCode HTMLReportCode
	AwayTeam   TeamFaceoffSummary
	HomeTeam   TeamFaceoffSummary
	Matchups   []FaceoffMatchup
	RawBytes   []byte
}

// RosterPlayer is one skater/goalie line from the RO (roster) report.
type RosterPlayer struct {
	Number      int
	Position    string
	Name        string
	IsStarter   bool
	IsCaptain   bool
	IsAlternate bool
}

// OfficialInfo is one referee/linesman entry from the RO report.
type OfficialInfo struct {
	Number int
	Name   string
	Role   string // "Referee" or "Linesman"
}

// TeamRoster is one team's roster-report lineup.
type TeamRoster struct {
	Name      string
	Abbrev    string
	Skaters   []RosterPlayer
	Goalies   []RosterPlayer
	Scratches []RosterPlayer
	Coaches   []string
}

// ParsedRosterReport is the canonical representation of an RO report.
type ParsedRosterReport struct {
	GameID   int
	SeasonID int
	AwayTeam TeamRoster
	HomeTeam TeamRoster
	Referees []OfficialInfo
	Linesmen []OfficialInfo
	RawBytes []byte
}

// ShotSituationStat is a goals/shots pair for one strength situation, from
// the SS (shot summary) report's "goals-shots" cells.
type ShotSituationStat struct {
	Goals int
	Shots int
}

// ShotPeriodStat is one period's shot/goal split by strength situation.
type ShotPeriodStat struct {
	Period       string
	EvenStrength ShotSituationStat
	PowerPlay    ShotSituationStat
	Shorthanded  ShotSituationStat
	Total        ShotSituationStat
}

// PlayerShotSummary is one player's per-period shot breakdown.
type PlayerShotSummary struct {
	Number  int
	Name    string
	Periods []ShotPeriodStat
}

// TeamShotSummary is one team's shot-summary report section.
type TeamShotSummary struct {
	Name    string
	Abbrev  string
	Periods []ShotPeriodStat
	Players []PlayerShotSummary
}

// ParsedShotSummaryReport is the canonical representation of an SS report.
type ParsedShotSummaryReport struct {
	GameID   int
	SeasonID int
	AwayTeam TeamShotSummary
	HomeTeam TeamShotSummary
	RawBytes []byte
}

// PlayByPlayHTMLEvent is one row of the legacy PL HTML report's event
// table: a lighter-weight, free-text sibling of the JSON API's structured
// play-by-play events (nhlapi.ParsePlayByPlay), used when only the HTML
// report is available for a game.
type PlayByPlayHTMLEvent struct {
	Period      string
	Time        string
	EventType   string
	Description string
}

// ParsedPlayByPlayHTMLReport is the canonical representation of a PL report.
type ParsedPlayByPlayHTMLReport struct {
	GameID   int
	SeasonID int
	Events   []PlayByPlayHTMLEvent
	RawBytes []byte
}

// StartingGoalie is one team's projected starter from a dailyfaceoff-style
// mixed-scrape source (SPEC_FULL.md C.4).
type StartingGoalie struct {
	GameID     int
	TeamAbbrev string
	PlayerName string
	Confirmed  bool
}

// LineCombination is one forward/defense line entry from a mixed-scrape
// line-combinations page.
type LineCombination struct {
	TeamAbbrev string
	LineNumber int
	Unit       string // "forward" or "defense"
	Players    []string
}

// InjuryReport is one player's injury status entry from a mixed-scrape
// injuries page.
type InjuryReport struct {
	TeamAbbrev string
	PlayerName string
	Status     string
	Note       string
}
