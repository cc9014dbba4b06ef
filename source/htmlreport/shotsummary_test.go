package htmlreport

import "testing"

const sampleShotSummaryHTML = `<!DOCTYPE html>
<html><body>
<table id="Visitor"><tr><td><img alt="Carolina Hurricanes" src="logoccar.gif"></td></tr></table>
<table id="Home"><tr><td><img alt="New York Islanders" src="logocnyi.gif"></td></tr></table>
<table>
<tr><td class="sectionheading">TEAM SUMMARY (Goals-Shots)</td></tr>
<tr><td>
  <table id="ShotsSummary">
  <tr>
    <td width="50%"><table>
      <tr class="heading"><td>Per</td><td>EV</td><td>PP</td><td>SH</td><td>TOT</td></tr>
      <tr class="oddColor"><td>1</td><td>1-10</td><td>0-2</td><td>0-0</td><td>1-12</td></tr>
      <tr class="evenColor"><td>TOT</td><td>1-10</td><td>0-2</td><td>0-0</td><td>1-12</td></tr>
    </table></td>
    <td width="50%"><table>
      <tr class="heading"><td>Per</td><td>EV</td><td>PP</td><td>SH</td><td>TOT</td></tr>
      <tr class="oddColor"><td>1</td><td>2-8</td><td>1-3</td><td>0-0</td><td>3-11</td></tr>
    </table></td>
  </tr>
  </table>
</td></tr>
</table>
<table>
<tr><td class="sectionheading">PLAYER SUMMARY</td></tr>
<tr><td>
  <table id="ShotsSummary">
  <tr>
    <td width="50%"><table><tr>
      <td><table><tr><td>20</td></tr><tr><td>SEBASTIAN</td></tr><tr><td>AHO</td></tr></table></td>
      <td><table>
        <tr class="heading"><td>Per</td><td>EV</td><td>PP</td><td>SH</td><td>TOT</td></tr>
        <tr class="oddColor"><td>1</td><td>1-3</td><td>0-0</td><td>0-0</td><td>1-3</td></tr>
      </table></td>
    </tr></table></td>
    <td width="50%"><table></table></td>
  </tr>
  </table>
</td></tr>
</table>
</body></html>`

func TestParseShotSummary(t *testing.T) {
	r, err := ParseShotSummary(2023020001, []byte(sampleShotSummaryHTML))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if r.AwayTeam.Abbrev != "CAR" || r.AwayTeam.Name != "Carolina Hurricanes" {
		t.Errorf("away team = %+v", r.AwayTeam)
	}
	if len(r.AwayTeam.Periods) != 2 {
		t.Fatalf("away periods = %d, want 2", len(r.AwayTeam.Periods))
	}
	p1 := r.AwayTeam.Periods[0]
	if p1.Period != "1" || p1.EvenStrength.Goals != 1 || p1.EvenStrength.Shots != 10 || p1.Total.Goals != 1 || p1.Total.Shots != 12 {
		t.Errorf("period 1 = %+v", p1)
	}
	if len(r.AwayTeam.Players) != 1 {
		t.Fatalf("away players = %d, want 1", len(r.AwayTeam.Players))
	}
	player := r.AwayTeam.Players[0]
	if player.Number != 20 || player.Name != "SEBASTIAN AHO" {
		t.Errorf("player = %+v", player)
	}
	if len(player.Periods) != 1 || player.Periods[0].EvenStrength.Shots != 3 {
		t.Errorf("player periods = %+v", player.Periods)
	}
}
