package htmlreport

import "testing"

const sampleRosterHTML = `<!DOCTYPE html>
<html><body>
<table id="Visitor"><tr><td><img alt="Carolina Hurricanes" src="logoccar.gif"></td></tr></table>
<table id="Home"><tr><td><img alt="New York Islanders" src="logocnyi.gif"></td></tr></table>
<table><tr><td class="teamHeading">Carolina Hurricanes</td><td class="teamHeading">New York Islanders</td></tr></table>
<table>
<tr><td>#</td><td>Pos</td><td>Name</td></tr>
<tr><td class="bold">20</td><td>C</td><td>AHO, SEBASTIAN (C)</td></tr>
<tr><td>8</td><td>D</td><td>SLAVIN, JACCOB (A)</td></tr>
<tr><td>30</td><td>G</td><td>ANDERSEN, FREDERIK</td></tr>
</table>
<table>
<tr><td>#</td><td>Pos</td><td>Name</td></tr>
<tr><td class="bold">13</td><td>C</td><td>BARZAL, MATHEW</td></tr>
<tr><td>70</td><td>G</td><td>SOROKIN, ILYA</td></tr>
</table>
<table>
<tr id="Scratches">
  <td><table>
    <tr><td>#</td><td>Pos</td><td>Name</td></tr>
    <tr><td>99</td><td>L</td><td>SOME, PLAYER</td></tr>
  </table></td>
  <td><table>
    <tr><td>#</td><td>Pos</td><td>Name</td></tr>
  </table></td>
</tr>
</table>
<table>
<tr id="HeadCoaches">
  <td><table><tr><td>Rod Brind'Amour</td></tr></table></td>
  <td><table><tr><td>Patrick Roy</td></tr></table></td>
</tr>
</table>
<table>
<tr><td class="header">Officials</td></tr>
<tr><td><table>
  <tr><td>Referee</td><td>Linesperson</td></tr>
  <tr>
    <td><table><tr><td>#7 Garrett Rank</td></tr></table></td>
    <td><table><tr><td>#81 Derek Amell</td></tr></table></td>
  </tr>
</table></td></tr>
</table>
</body></html>`

func TestParseRoster(t *testing.T) {
	r, err := ParseRoster(2023020001, []byte(sampleRosterHTML))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if r.AwayTeam.Abbrev != "CAR" || r.HomeTeam.Abbrev != "NYI" {
		t.Errorf("abbrevs = %q/%q, want CAR/NYI", r.AwayTeam.Abbrev, r.HomeTeam.Abbrev)
	}
	if r.AwayTeam.Name != "Carolina Hurricanes" || r.HomeTeam.Name != "New York Islanders" {
		t.Errorf("names = %q/%q", r.AwayTeam.Name, r.HomeTeam.Name)
	}

	if len(r.AwayTeam.Skaters) != 2 || len(r.AwayTeam.Goalies) != 1 {
		t.Fatalf("away skaters=%d goalies=%d, want 2/1: %+v / %+v", len(r.AwayTeam.Skaters), len(r.AwayTeam.Goalies), r.AwayTeam.Skaters, r.AwayTeam.Goalies)
	}
	aho := r.AwayTeam.Skaters[0]
	if aho.Name != "AHO, SEBASTIAN" || !aho.IsCaptain || !aho.IsStarter {
		t.Errorf("aho = %+v, want name without (C) suffix, IsCaptain and IsStarter true", aho)
	}
	slavin := r.AwayTeam.Skaters[1]
	if slavin.Name != "SLAVIN, JACCOB" || !slavin.IsAlternate {
		t.Errorf("slavin = %+v, want name without (A) suffix and IsAlternate true", slavin)
	}

	if len(r.AwayTeam.Scratches) != 1 || r.AwayTeam.Scratches[0].Name != "SOME, PLAYER" {
		t.Errorf("away scratches = %+v", r.AwayTeam.Scratches)
	}
	if len(r.AwayTeam.Coaches) != 1 || r.AwayTeam.Coaches[0] != "Rod Brind'Amour" {
		t.Errorf("away coaches = %+v", r.AwayTeam.Coaches)
	}

	if len(r.Referees) != 1 || r.Referees[0].Number != 7 || r.Referees[0].Name != "Garrett Rank" {
		t.Errorf("referees = %+v", r.Referees)
	}
	if len(r.Linesmen) != 1 || r.Linesmen[0].Number != 81 || r.Linesmen[0].Name != "Derek Amell" {
		t.Errorf("linesmen = %+v", r.Linesmen)
	}
}
