package rotation

import (
	"errors"
	"fmt"
	"slices"
	"testing"

	"github.com/brianvoe/gofakeit/v7"
	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/require"

	"github.com/Nydauron/regattascore/regatta"
)

var (
	divA = regatta.DivisionA
	divB = regatta.DivisionB
)

func races(d regatta.Division, n int) []regatta.Race {
	out := make([]regatta.Race, n)
	for i := range out {
		out[i] = regatta.Race{Division: d, Number: i + 1}
	}
	return out
}

func sailList(n int) []regatta.Sail {
	out := make([]regatta.Sail, n)
	for i := range out {
		out[i] = regatta.Sail(fmt.Sprint(i + 1))
	}
	return out
}

func teamList(n int) []string {
	out := make([]string, n)
	for i := range out {
		out[i] = fmt.Sprintf("t%d", i)
	}
	return out
}

// raceSails returns the sails of teams in roster order for one race.
func raceSails(t *testing.T, rot *Rotation, race regatta.Race, teams []string) []regatta.Sail {
	t.Helper()
	out := make([]regatta.Sail, len(teams))
	for i, team := range teams {
		s, ok := rot.Sail(race, team)
		require.True(t, ok, "no sail for %s in %s", team, race)
		out[i] = s
	}
	return out
}

func TestFill_Validation(t *testing.T) {
	valid := Params{
		Type:    TypeStandard,
		Style:   StyleNone,
		Races:   [][]regatta.Race{races(divA, 2)},
		Teams:   teamList(4),
		Sails:   sailList(4),
		SetSize: 1,
	}
	tests := []struct {
		name   string
		modify func(p *Params)
	}{
		{name: "sail count mismatch", modify: func(p *Params) { p.Sails = sailList(3) }},
		{name: "zero set size", modify: func(p *Params) { p.SetSize = 0 }},
		{name: "unknown style", modify: func(p *Params) { p.Style = Style(9) }},
		{name: "unknown type", modify: func(p *Params) { p.Type = Type(9) }},
		{name: "no divisions", modify: func(p *Params) { p.Races = nil }},
		{name: "odd swap", modify: func(p *Params) {
			p.Type = TypeSwap
			p.Teams = teamList(3)
			p.Sails = sailList(3)
		}},
		{name: "duplicate sail", modify: func(p *Params) { p.Sails = []regatta.Sail{"1", "2", "2", "4"} }},
		{name: "duplicate team", modify: func(p *Params) { p.Teams = []string{"a", "b", "a", "c"} }},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p := valid
			tt.modify(&p)
			rot := New()
			err := Fill(rot, p)
			var cfgErr *ConfigError
			require.True(t, errors.As(err, &cfgErr), "expected ConfigError, got %v", err)
			require.Empty(t, rot.Races())
		})
	}

	require.NoError(t, Fill(New(), valid))
}

func TestFill_StandardIndividual(t *testing.T) {
	teams := teamList(3)
	rot := New()
	err := Fill(rot, Params{
		Type: TypeStandard, Style: StyleNone,
		Races: [][]regatta.Race{races(divA, 3)},
		Teams: teams, Sails: sailList(3), SetSize: 1,
	})
	require.NoError(t, err)

	require.Equal(t, []regatta.Sail{"1", "2", "3"}, raceSails(t, rot, regatta.Race{Division: divA, Number: 1}, teams))
	require.Equal(t, []regatta.Sail{"2", "3", "1"}, raceSails(t, rot, regatta.Race{Division: divA, Number: 2}, teams))
	require.Equal(t, []regatta.Sail{"3", "1", "2"}, raceSails(t, rot, regatta.Race{Division: divA, Number: 3}, teams))
}

func TestFill_StandardPeriodicity(t *testing.T) {
	for n := 2; n <= 9; n++ {
		teams := teamList(n)
		rot := New()
		require.NoError(t, Fill(rot, Params{
			Type: TypeStandard, Style: StyleNone,
			Races: [][]regatta.Race{races(divA, n+1)},
			Teams: teams, Sails: sailList(n), SetSize: 1,
		}))
		first := raceSails(t, rot, regatta.Race{Division: divA, Number: 1}, teams)
		last := raceSails(t, rot, regatta.Race{Division: divA, Number: n + 1}, teams)
		require.Equal(t, first, last, "n=%d", n)
	}
}

func TestSwapInvolution(t *testing.T) {
	for _, n := range []int{2, 4, 6, 8, 12} {
		for d := 1; d < 3*n; d += 2 {
			list := sailList(n)
			orig := slices.Clone(list)
			swap(list, d)
			swap(list, d)
			require.Equal(t, orig, list, "n=%d d=%d", n, d)
		}
	}
}

func TestFill_Swap(t *testing.T) {
	teams := teamList(4)
	rot := New()
	require.NoError(t, Fill(rot, Params{
		Type: TypeSwap, Style: StyleNone,
		Races: [][]regatta.Race{races(divA, 3)},
		Teams: teams, Sails: sailList(4), SetSize: 1,
	}))
	require.Equal(t, []regatta.Sail{"1", "2", "3", "4"}, raceSails(t, rot, regatta.Race{Division: divA, Number: 1}, teams))
	require.Equal(t, []regatta.Sail{"2", "1", "4", "3"}, raceSails(t, rot, regatta.Race{Division: divA, Number: 2}, teams))
	require.Equal(t, []regatta.Sail{"3", "4", "1", "2"}, raceSails(t, rot, regatta.Race{Division: divA, Number: 3}, teams))
}

func TestFill_Static(t *testing.T) {
	teams := teamList(3)
	rot := New()
	require.NoError(t, Fill(rot, Params{
		Type: TypeStatic, Style: StyleNone,
		Races: [][]regatta.Race{races(divA, 4)},
		Teams: teams, Sails: sailList(3), SetSize: 2,
	}))
	for _, race := range races(divA, 4) {
		require.Equal(t, sailList(3), raceSails(t, rot, race, teams))
	}
}

func TestFill_RefillReplacesHolders(t *testing.T) {
	race := regatta.Race{Division: divA, Number: 1}
	fill := func(rot *Rotation, teams ...string) {
		require.NoError(t, Fill(rot, Params{
			Type: TypeStatic, Style: StyleNone,
			Races: [][]regatta.Race{{race}},
			Teams: teams, Sails: []regatta.Sail{"1", "2"}, SetSize: 1,
		}))
	}
	rot := New()
	fill(rot, "x", "y")
	fill(rot, "p", "q")

	require.Equal(t, []Assignment{{TeamID: "p", Sail: "1"}, {TeamID: "q", Sail: "2"}}, rot.Assignments(race))
	_, ok := rot.Sail(race, "x")
	require.False(t, ok)
	team, _ := rot.Team(race, "2")
	require.Equal(t, "q", team)
}

func TestFill_Styles(t *testing.T) {
	a1, a2, a3, a4 := regatta.Race{Division: divA, Number: 1}, regatta.Race{Division: divA, Number: 2},
		regatta.Race{Division: divA, Number: 3}, regatta.Race{Division: divA, Number: 4}
	b1, b2, b3, b4 := regatta.Race{Division: divB, Number: 1}, regatta.Race{Division: divB, Number: 2},
		regatta.Race{Division: divB, Number: 3}, regatta.Race{Division: divB, Number: 4}
	start := []regatta.Sail{"1", "2"}
	shifted := []regatta.Sail{"2", "1"}

	tests := []struct {
		name  string
		style Style
		want  map[regatta.Race][]regatta.Sail
	}{
		{
			name:  "individual rotates once per set of every division",
			style: StyleNone,
			want: map[regatta.Race][]regatta.Sail{
				a1: start, a2: start, b1: start, b2: start,
				a3: shifted, a4: shifted, b3: shifted, b4: shifted,
			},
		},
		{
			name:  "navy rotates once per set",
			style: StyleNavy,
			want: map[regatta.Race][]regatta.Sail{
				a1: start, a2: start, b1: shifted, b2: shifted,
				a3: start, a4: start, b3: shifted, b4: shifted,
			},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			teams := teamList(2)
			rot := New()
			require.NoError(t, Fill(rot, Params{
				Type: TypeStandard, Style: tt.style,
				Races: [][]regatta.Race{races(divA, 4), races(divB, 4)},
				Teams: teams, Sails: start, SetSize: 2,
			}))
			for race, want := range tt.want {
				require.Equal(t, want, raceSails(t, rot, race, teams), "race %s", race)
			}
		})
	}
}

func TestFill_FrannyOffsets(t *testing.T) {
	teams := teamList(4)
	a := races(divA, 2)
	b := races(divB, 2)

	t.Run("default offset", func(t *testing.T) {
		rot := New()
		require.NoError(t, Fill(rot, Params{
			Type: TypeStandard, Style: StyleFranny,
			Races: [][]regatta.Race{a, b},
			Teams: teams, Sails: sailList(4), SetSize: 1,
		}))
		require.Equal(t, []regatta.Sail{"1", "2", "3", "4"}, raceSails(t, rot, a[0], teams))
		require.Equal(t, []regatta.Sail{"2", "3", "4", "1"}, raceSails(t, rot, a[1], teams))
		require.Equal(t, []regatta.Sail{"3", "4", "1", "2"}, raceSails(t, rot, b[0], teams))
		require.Equal(t, []regatta.Sail{"4", "1", "2", "3"}, raceSails(t, rot, b[1], teams))
	})

	t.Run("explicit offset", func(t *testing.T) {
		rot := New()
		require.NoError(t, Fill(rot, Params{
			Type: TypeStatic, Style: StyleFranny,
			Races: [][]regatta.Race{a, b},
			Teams: teams, Sails: sailList(4), SetSize: 1, Offset: 1,
		}))
		require.Equal(t, []regatta.Sail{"1", "2", "3", "4"}, raceSails(t, rot, a[1], teams))
		require.Equal(t, []regatta.Sail{"2", "3", "4", "1"}, raceSails(t, rot, b[1], teams))
	})
}

func TestFill_UnequalDivisionsFollowFirstDivision(t *testing.T) {
	teams := teamList(2)
	rot := New()
	require.NoError(t, Fill(rot, Params{
		Type: TypeStandard, Style: StyleNone,
		Races: [][]regatta.Race{races(divA, 2), races(divB, 3)},
		Teams: teams, Sails: sailList(2), SetSize: 1,
	}))
	_, ok := rot.Sail(regatta.Race{Division: divB, Number: 3}, "t0")
	require.False(t, ok, "sets are sized from the first division")
	require.Len(t, rot.Races(), 4)
}

func TestFill_PaddingConsumesSteps(t *testing.T) {
	teams := teamList(2)
	rot := New()
	require.NoError(t, Fill(rot, Params{
		Type: TypeStandard, Style: StyleNavy,
		Races: [][]regatta.Race{races(divA, 3), races(divB, 2)},
		Teams: teams, Sails: sailList(2), SetSize: 2,
	}))
	// Timeline: [1A 2A] [1B 2B] [3A pad] [pad pad]
	require.Equal(t, []regatta.Sail{"1", "2"}, raceSails(t, rot, regatta.Race{Division: divA, Number: 3}, teams))
	require.Equal(t, []regatta.Sail{"2", "1"}, raceSails(t, rot, regatta.Race{Division: divB, Number: 2}, teams))
}

func TestFill_KeepsRacesOutsideMap(t *testing.T) {
	rot := New()
	other := regatta.Race{Division: divB, Number: 7}
	rot.Set(other, "t0", "99")
	require.NoError(t, Fill(rot, Params{
		Type: TypeStandard, Style: StyleNone,
		Races: [][]regatta.Race{races(divA, 2)},
		Teams: teamList(2), Sails: sailList(2), SetSize: 1,
	}))
	s, ok := rot.Sail(other, "t0")
	require.True(t, ok)
	require.Equal(t, regatta.Sail("99"), s)
}

func TestFill_Completeness(t *testing.T) {
	faker := gofakeit.New(42)
	for iter := 0; iter < 40; iter++ {
		numTeams := faker.IntRange(1, 9) * 2
		numDivs := faker.IntRange(1, 4)
		numRaces := faker.IntRange(1, 12)
		teams := make([]string, numTeams)
		for i := range teams {
			teams[i] = fmt.Sprintf("%s-%d", faker.Company(), i)
		}
		grid := make([][]regatta.Race, numDivs)
		for d := range grid {
			grid[d] = races(regatta.AllDivisions[d], numRaces)
		}
		p := Params{
			Type:    Type(faker.IntRange(0, 2)),
			Style:   Style(faker.IntRange(0, 2)),
			Races:   grid,
			Teams:   teams,
			Sails:   sailList(numTeams),
			SetSize: faker.IntRange(1, 4),
		}
		rot := New()
		require.NoError(t, Fill(rot, p))

		for _, divRaces := range grid {
			for _, race := range divRaces {
				sails := raceSails(t, rot, race, teams)
				sorted := slices.Clone(sails)
				slices.SortFunc(sorted, regatta.CompareSails)
				if diff := cmp.Diff(sailList(numTeams), sorted); diff != "" {
					t.Fatalf("race %s with %+v is not a permutation (-want +got):\n%s", race, p, diff)
				}
				for i, team := range teams {
					back, ok := rot.Team(race, sails[i])
					require.True(t, ok)
					require.Equal(t, team, back)
				}
			}
		}
	}
}

func TestFillCombined(t *testing.T) {
	teams := []string{"x", "y", "x", "y"}
	divs := []regatta.Division{divA, divA, divB, divB}

	t.Run("standard", func(t *testing.T) {
		rot := New()
		require.NoError(t, FillCombined(rot, CombinedParams{
			Type: TypeStandard, Teams: teams, Divisions: divs, Sails: sailList(4),
			Races: []int{1, 2, 3}, SetSize: 2,
		}))
		get := func(div regatta.Division, num int, team string) regatta.Sail {
			s, ok := rot.Sail(regatta.Race{Division: div, Number: num}, team)
			require.True(t, ok)
			return s
		}
		require.Equal(t, regatta.Sail("1"), get(divA, 1, "x"))
		require.Equal(t, regatta.Sail("4"), get(divB, 2, "y"))
		require.Equal(t, regatta.Sail("2"), get(divA, 3, "x"))
		require.Equal(t, regatta.Sail("1"), get(divB, 3, "y"))
	})

	t.Run("swap", func(t *testing.T) {
		rot := New()
		require.NoError(t, FillCombined(rot, CombinedParams{
			Type: TypeSwap, Teams: teams, Divisions: divs, Sails: sailList(4),
			Races: []int{1, 2, 3}, SetSize: 1,
		}))
		want := map[int][]regatta.Sail{
			1: {"1", "2", "3", "4"},
			2: {"2", "1", "4", "3"},
			3: {"3", "4", "1", "2"},
		}
		for num, sails := range want {
			for j := range teams {
				s, ok := rot.Sail(regatta.Race{Division: divs[j], Number: num}, teams[j])
				require.True(t, ok)
				require.Equal(t, sails[j], s, "race %d entry %d", num, j)
			}
		}
	})

	t.Run("length mismatch", func(t *testing.T) {
		rot := New()
		err := FillCombined(rot, CombinedParams{
			Type: TypeStandard, Teams: teams, Divisions: divs[:3], Sails: sailList(4),
			Races: []int{1}, SetSize: 1,
		})
		var cfgErr *ConfigError
		require.ErrorAs(t, err, &cfgErr)
		require.Empty(t, rot.Races())
	})

	t.Run("duplicate entry", func(t *testing.T) {
		err := FillCombined(New(), CombinedParams{
			Type: TypeStatic, Teams: []string{"x", "x"}, Divisions: []regatta.Division{divA, divA},
			Sails: sailList(2), Races: []int{1}, SetSize: 1,
		})
		require.Error(t, err)
	})
}

func TestRotation_ShiftAndLookup(t *testing.T) {
	rot := New()
	race := regatta.Race{Division: divA, Number: 1}
	rot.Set(race, "x", "1")
	rot.Set(race, "y", "2")
	rot.ShiftSails([]regatta.Race{race}, 10)

	require.Equal(t, []Assignment{{TeamID: "x", Sail: "11"}, {TeamID: "y", Sail: "12"}}, rot.Assignments(race))
	team, ok := rot.Team(race, "12")
	require.True(t, ok)
	require.Equal(t, "y", team)
	_, ok = rot.Team(race, "2")
	require.False(t, ok)

	rot.Set(race, "x", "5")
	_, ok = rot.Team(race, "11")
	require.False(t, ok)

	rot.Clear(race)
	require.Empty(t, rot.Races())
}

func TestParseTypeAndStyle(t *testing.T) {
	typ, err := ParseType("Swap")
	require.NoError(t, err)
	require.Equal(t, TypeSwap, typ)

	for alias, want := range map[string]Style{"individual": StyleNone, "collated": StyleNavy, "offset": StyleFranny, "NAVY": StyleNavy} {
		got, err := ParseStyle(alias)
		require.NoError(t, err)
		require.Equal(t, want, got, alias)
	}

	_, err = ParseStyle("diagonal")
	var cfgErr *ConfigError
	require.ErrorAs(t, err, &cfgErr)
}
