package htmlreport

import (
	"fmt"
	"strings"

	"github.com/PuerkitoBio/goquery"

	"github.com/relentnet/nhl-ingest/model"
)

// ParsePlayByPlayReport parses a PL-code report's event table into
// free-text rows. Unlike the other report codes, the corpus's Python
// reference only downloads play-by-play from the JSON API
// (nhlapi.ParsePlayByPlay is the authoritative, structured source); no
// original HTML PL downloader exists to ground this one against, so this
// parser follows the row-walking idiom shared by every sibling HTML report
// (table id, tr.oddColor/evenColor rows) rather than a report-specific
// original. Treat nhlapi.ParsePlayByPlay as canonical when both are
// available; this is a lighter-weight fallback representation.
func ParsePlayByPlayReport(gameID int, body []byte) (model.ParsedPlayByPlayHTMLReport, error) {
	if !looksLikeHTML(body) {
		return model.ParsedPlayByPlayHTMLReport{}, errNotHTML
	}
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(string(body)))
	if err != nil {
		return model.ParsedPlayByPlayHTMLReport{}, fmt.Errorf("htmlreport: parse failed for game %d: %w", gameID, err)
	}

	report := model.ParsedPlayByPlayHTMLReport{
		GameID:   gameID,
		SeasonID: model.GameIDToSeasonID(gameID),
		RawBytes: body,
	}

	doc.Find(`table[id="PlayByPlay"]`).Find("tr.oddColor, tr.evenColor").Each(func(_ int, row *goquery.Selection) {
		cells := row.Find("td")
		if cells.Length() < 4 {
			return
		}
		report.Events = append(report.Events, model.PlayByPlayHTMLEvent{
			Period:      strings.TrimSpace(cells.Eq(0).Text()),
			Time:        strings.TrimSpace(cells.Eq(1).Text()),
			EventType:   strings.TrimSpace(cells.Eq(2).Text()),
			Description: strings.TrimSpace(cells.Eq(3).Text()),
		})
	})

	return report, nil
}
