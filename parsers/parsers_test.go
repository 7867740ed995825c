package parsers

import (
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"

	"github.com/Nydauron/regattascore/regatta"
	"github.com/Nydauron/regattascore/rotation"
)

func TestGetParser(t *testing.T) {
	tests := []struct {
		filename string
		want     Parser
		wantErr  bool
	}{
		{"finishes.csv", &CSVParser{}, false},
		{"Finishes.XLSX", &XLSXParser{}, false},
		{"results.html", &HTMLParser{}, false},
		{"results.htm", &HTMLParser{}, false},
		{"finishes.txt", nil, true},
		{"finishes", nil, true},
	}
	for _, tt := range tests {
		t.Run(tt.filename, func(t *testing.T) {
			p, err := GetParser(tt.filename)
			if tt.wantErr {
				require.Error(t, err)
				return
			}
			require.NoError(t, err)
			require.IsType(t, tt.want, p)
		})
	}
}

func TestCSVParser(t *testing.T) {
	data := "Race,Team,Penalty,Breakdown,Handicap,Comment\n" +
		"1A,HAR,,,,\n" +
		"1A,YAL,Disqualified,,,rule 18\n" +
		"1A,BRN,,redress,3rd,collision\n" +
		",,,,,\n"
	finishes, err := NewCSVParser().Parse([]byte(data))
	require.NoError(t, err)
	require.Len(t, finishes, 3)

	race := regatta.Race{Division: regatta.DivisionA, Number: 1}
	require.Equal(t, race, finishes[0].Race)
	require.Equal(t, "HAR", finishes[0].TeamID)
	require.True(t, finishes[0].Timestamp.Before(finishes[1].Timestamp))

	require.Equal(t, &regatta.Penalty{Kind: regatta.PenaltyDSQ, Comment: "rule 18"}, finishes[1].Penalty)
	require.Equal(t, &regatta.Breakdown{Kind: regatta.BreakdownRDG, Comment: "collision", Handicap: 3}, finishes[2].Breakdown)
}

func TestCSVParser_Errors(t *testing.T) {
	tests := map[string]string{
		"empty":            "",
		"missing team col": "Race,Time\n1A,10:00:00\n",
		"bad race":         "Race,Team\nZ9,HAR\n",
		"missing team":     "Race,Team\n1A,\n",
		"bad penalty":      "Race,Team,Penalty\n1A,HAR,XYZ\n",
		"both adjustments": "Race,Team,Penalty,Breakdown\n1A,HAR,DSQ,RDG\n",
		"bad time":         "Race,Team,Time\n1A,HAR,noon\n",
		"header only":      "Race,Team\n",
	}
	for name, data := range tests {
		t.Run(name, func(t *testing.T) {
			_, err := NewCSVParser().Parse([]byte(data))
			require.Error(t, err)
		})
	}
}

func TestCSVParser_Times(t *testing.T) {
	data := "race,TEAM,time\n2B,HAR,10:00:05\n2B,YAL,10:00:01\n"
	finishes, err := NewCSVParser().Parse([]byte(data))
	require.NoError(t, err)
	require.True(t, finishes[1].Timestamp.Before(finishes[0].Timestamp))
	require.Equal(t, regatta.DivisionB, finishes[0].Race.Division)
}

func TestCSVParser_MixedTimes(t *testing.T) {
	data := "Race,Team,Time\n" +
		"1A,DART,\n" +
		"1A,HAR,10:00:00\n" +
		"1A,YAL,\n" +
		"1A,BRN,09:59:59\n"
	finishes, err := NewCSVParser().Parse([]byte(data))
	require.NoError(t, err)
	require.Len(t, finishes, 4)

	dart, har, yal, brn := finishes[0].Timestamp, finishes[1].Timestamp, finishes[2].Timestamp, finishes[3].Timestamp
	require.Equal(t, time.Date(2000, 1, 1, 10, 0, 0, 0, time.UTC), har)
	require.Equal(t, har.Add(time.Second), yal)
	require.True(t, dart.Before(brn))
	require.True(t, brn.Before(har))
}

func TestXLSXParser(t *testing.T) {
	f := excelize.NewFile()
	defer f.Close()
	sheet := f.GetSheetName(0)
	rows := [][]any{
		{"Race", "Team", "Penalty"},
		{"3A", "HAR", ""},
		{"3A", "YAL", "DNF"},
	}
	for i, row := range rows {
		cell, err := excelize.CoordinatesToCellName(1, i+1)
		require.NoError(t, err)
		require.NoError(t, f.SetSheetRow(sheet, cell, &row))
	}
	buf, err := f.WriteToBuffer()
	require.NoError(t, err)

	finishes, err := NewXLSXParser().Parse(buf.Bytes())
	require.NoError(t, err)
	require.Len(t, finishes, 2)
	require.Equal(t, 3, finishes[0].Race.Number)
	require.Nil(t, finishes[0].Penalty)
	require.Equal(t, regatta.PenaltyDNF, finishes[1].Penalty.Kind)
}

func TestXLSXParser_NotAWorkbook(t *testing.T) {
	_, err := NewXLSXParser().Parse([]byte("Race,Team\n"))
	require.Error(t, err)
}

func TestHTMLParser(t *testing.T) {
	page := `<html><body>
<table class="nav"><tr><th>Race</th><th>Team</th></tr><tr><td>9A</td><td>NOPE</td></tr></table>
<table class="results finishes">
  <thead><tr><th>Race</th><th>Team</th><th>Penalty</th></tr></thead>
  <tbody>
    <tr><td>1A</td><td><b>HAR</b></td><td></td></tr>
    <tr><td>1A</td><td>YAL</td><td>OCS</td></tr>
  </tbody>
</table>
</body></html>`
	finishes, err := NewHTMLParser().Parse([]byte(page))
	require.NoError(t, err)
	require.Len(t, finishes, 2)
	require.Equal(t, "HAR", finishes[0].TeamID)
	require.Equal(t, regatta.PenaltyOCS, finishes[1].Penalty.Kind)
}

func TestHTMLParser_NoTable(t *testing.T) {
	_, err := NewHTMLParser().Parse([]byte(`<html><body><p>nothing</p></body></html>`))
	require.Error(t, err)
}

func TestNormalize(t *testing.T) {
	p, err := NormalizePenalty(" over early ")
	require.NoError(t, err)
	require.Equal(t, regatta.PenaltyOCS, p)

	p, err = NormalizePenalty("dns")
	require.NoError(t, err)
	require.Equal(t, regatta.PenaltyDNS, p)

	b, err := NormalizeBreakdown("Equipment Failure")
	require.NoError(t, err)
	require.Equal(t, regatta.BreakdownBKD, b)

	_, err = NormalizeBreakdown("luck")
	require.Error(t, err)
}

const regattaDoc = `
name: Spring Team Race
venue: Charles River
date: 2024-04-13
divisions: [A, B]
races: 2
teams:
  - {id: HAR, name: Harvard}
  - {id: YAL, name: Yale}
  - {id: BRN, name: Brown}
order:
  1A: [HAR, YAL, BRN]
  1B: [YAL, BRN, HAR]
adjustments:
  - {race: 1B, team: BRN, penalty: Disqualified, comment: protest}
team_penalties:
  - {division: A, team: HAR, kind: PFD}
`

func TestReadRegatta(t *testing.T) {
	reg, err := ReadRegatta(strings.NewReader(regattaDoc))
	require.NoError(t, err)

	require.Equal(t, "Spring Team Race", reg.Name)
	require.Equal(t, "Charles River", reg.Venue)
	require.Equal(t, time.Date(2024, 4, 13, 0, 0, 0, 0, time.UTC), reg.StartDate)
	require.Equal(t, 3, reg.FleetSize())
	require.Len(t, reg.AllRaces(), 4)
	require.Len(t, reg.Finishes, 6)

	race := regatta.Race{Division: regatta.DivisionB, Number: 1}
	yal := reg.Finish(race, "YAL")
	har := reg.Finish(race, "HAR")
	require.NotNil(t, yal)
	require.True(t, yal.Timestamp.Before(har.Timestamp))

	brn := reg.Finish(race, "BRN")
	require.Equal(t, &regatta.Penalty{Kind: regatta.PenaltyDSQ, Comment: "protest"}, brn.Penalty)
	require.Len(t, reg.TeamPenaltiesFor("HAR"), 1)
}

func TestReadRegatta_Errors(t *testing.T) {
	tests := map[string]string{
		"unknown field": "name: x\ndivisions: [A]\nraces: 1\nteams: [{id: A, name: A}]\nbogus: 1\n",
		"no divisions":  "name: x\nraces: 1\nteams: [{id: A, name: A}]\n",
		"bad date":      "name: x\ndate: April\ndivisions: [A]\nraces: 1\nteams: [{id: A, name: A}]\n",
		"unknown team":  "name: x\ndivisions: [A]\nraces: 1\nteams: [{id: A, name: A}]\norder: {1A: [A, Z]}\n",
		"missing finish": "name: x\ndivisions: [A]\nraces: 1\nteams: [{id: A, name: A}, {id: B, name: B}]\n" +
			"order: {1A: [A]}\n",
		"race out of range": "name: x\ndivisions: [A]\nraces: 1\nteams: [{id: A, name: A}]\norder: {2A: [A]}\n",
		"orphan adjustment": "name: x\ndivisions: [A]\nraces: 1\nteams: [{id: A, name: A}]\n" +
			"adjustments: [{race: 1A, team: A, penalty: DSQ}]\n",
		"empty adjustment": "name: x\ndivisions: [A]\nraces: 1\nteams: [{id: A, name: A}]\norder: {1A: [A]}\n" +
			"adjustments: [{race: 1A, team: A}]\n",
	}
	for name, doc := range tests {
		t.Run(name, func(t *testing.T) {
			_, err := ReadRegatta(strings.NewReader(doc))
			require.Error(t, err)
		})
	}
}

func TestReadRegatta_DivisionRaces(t *testing.T) {
	doc := "name: x\ndivisions: [A, B]\nraces: 3\ndivision_races: {B: 1}\nteams: [{id: A, name: A}]\n"
	reg, err := ReadRegatta(strings.NewReader(doc))
	require.NoError(t, err)
	require.Len(t, reg.Races[regatta.DivisionA], 3)
	require.Len(t, reg.Races[regatta.DivisionB], 1)
}

func TestReadRotationPlan(t *testing.T) {
	doc := `
type: swap
style: collated
divisions: [A, B]
races: 4
teams: [HAR, YAL, BRN, DART]
sails: [1, 2, 3, 4]
`
	plan, err := ReadRotationPlan(strings.NewReader(doc), RotationPlan{Type: rotation.TypeStandard, SetSize: 2})
	require.NoError(t, err)
	require.Equal(t, rotation.TypeSwap, plan.Type)
	require.Equal(t, rotation.StyleNavy, plan.Style)
	require.Equal(t, 2, plan.SetSize)

	rot, err := plan.Build()
	require.NoError(t, err)
	require.Len(t, rot.Races(), 8)
	for _, race := range rot.Races() {
		require.Len(t, rot.Assignments(race), 4)
	}
	sail, ok := rot.Sail(regatta.Race{Division: regatta.DivisionA, Number: 1}, "HAR")
	require.True(t, ok)
	require.Equal(t, regatta.Sail("1"), sail)
}

func TestReadRotationPlan_UnknownType(t *testing.T) {
	_, err := ReadRotationPlan(strings.NewReader("type: spiral\n"), RotationPlan{})
	require.Error(t, err)
}

func TestRotationPlan_Combined(t *testing.T) {
	plan := &RotationPlan{
		Type:      rotation.TypeStandard,
		SetSize:   1,
		Divisions: []regatta.Division{regatta.DivisionA, regatta.DivisionB},
		Races:     2,
		Teams:     []string{"HAR", "YAL"},
		Sails:     []regatta.Sail{"1", "2", "3", "4"},
		Combined:  true,
	}
	rot, err := plan.Build()
	require.NoError(t, err)

	sail, _ := rot.Sail(regatta.Race{Division: regatta.DivisionB, Number: 1}, "HAR")
	require.Equal(t, regatta.Sail("3"), sail)
	sail, _ = rot.Sail(regatta.Race{Division: regatta.DivisionA, Number: 2}, "HAR")
	require.Equal(t, regatta.Sail("2"), sail)

	plan.Sails = plan.Sails[:3]
	_, err = plan.Build()
	var cfgErr *rotation.ConfigError
	require.ErrorAs(t, err, &cfgErr)
}
