package report

import (
	"time"

	"github.com/Nydauron/regattascore/regatta"
	"github.com/Nydauron/regattascore/scoring"
)

// Generate builds the results of r from its computed scores. With divisions
// given, races and standings are limited to them; otherwise every division
// is covered and each gets its own standings as well.
func Generate(r *regatta.Regatta, scores scoring.Scores, divisions ...regatta.Division) Results {
	scoped := len(divisions) > 0
	if !scoped {
		divisions = r.Divisions
	}

	meta := Metadata{
		Name:      r.Name,
		Venue:     r.Venue,
		Divisions: divisions,
		FleetSize: r.FleetSize(),
	}
	if !r.StartDate.IsZero() {
		meta.Date = r.StartDate.Format(time.DateOnly)
	}

	races := make([]RaceResult, 0)
	for _, race := range r.FinishedRaces(divisions...) {
		result := RaceResult{Race: race}
		for _, f := range scoring.PlaceOrder(r.FinishesFor(race)) {
			score, ok := scores.Get(race, f.TeamID)
			if !ok {
				panic("no score for team " + f.TeamID + " in race " + race.String())
			}
			result.Entries = append(result.Entries, newEntry(f, score))
		}
		races = append(races, result)
	}

	results := Results{
		Regatta:   meta,
		Teams:     r.Teams,
		Races:     races,
		Standings: scoring.Rank(r, scores, divisions...),
	}
	if !scoped && len(r.Divisions) > 1 {
		for _, d := range r.Divisions {
			results.DivisionStandings = append(results.DivisionStandings, DivisionStandings{
				Division:  d,
				Standings: scoring.Rank(r, scores, d),
			})
		}
	}
	return results
}

func newEntry(f *regatta.Finish, score int) Entry {
	e := Entry{Team: f.TeamID, Score: score}
	switch {
	case f.Penalty != nil:
		e.Penalty = string(f.Penalty.Kind)
		e.Comment = f.Penalty.Comment
	case f.Breakdown != nil:
		e.Breakdown = string(f.Breakdown.Kind)
		e.Handicap = f.Breakdown.Handicap
		e.Comment = f.Breakdown.Comment
	}
	return e
}

// Cumulative returns each team's running total after every race, in race
// order. Team penalties are not included.
func (res Results) Cumulative() map[string][]int {
	totals := make(map[string][]int, len(res.Teams))
	running := make(map[string]int, len(res.Teams))
	for _, race := range res.Races {
		for _, e := range race.Entries {
			running[e.Team] += e.Score
		}
		for _, t := range res.Teams {
			totals[t.ID] = append(totals[t.ID], running[t.ID])
		}
	}
	return totals
}
