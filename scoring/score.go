// Package scoring turns recorded finishes into race scores and ranks teams.
//
// Scoring is low-point: a race score is the team's place, penalties score
// one more than the fleet size, and redress either assigns a place or
// averages the team's other races in the division. ComputeScores never
// mutates the regatta; callers that keep Finish.Score in sync use Apply.
package scoring

import (
	"fmt"
	"slices"
	"strings"

	"github.com/Nydauron/regattascore/regatta"
)

// Key identifies one team's score in one race.
type Key struct {
	Race   regatta.Race
	TeamID string
}

// Scores holds the computed score of every finish.
type Scores map[Key]int

func (s Scores) Get(race regatta.Race, teamID string) (int, bool) {
	v, ok := s[Key{race, teamID}]
	return v, ok
}

// Apply writes the scores into the matching finishes. Finishes without a
// computed score are left untouched.
func (s Scores) Apply(finishes []regatta.Finish) {
	for i := range finishes {
		if v, ok := s[Key{finishes[i].Race, finishes[i].TeamID}]; ok {
			finishes[i].Score = v
		}
	}
}

// CompareCleanPlace orders finishes by arrival: unpenalized before
// penalized, then by timestamp, then by team id.
func CompareCleanPlace(a, b *regatta.Finish) int {
	if a.Penalized() != b.Penalized() {
		if a.Penalized() {
			return 1
		}
		return -1
	}
	if c := a.Timestamp.Compare(b.Timestamp); c != 0 {
		return c
	}
	return strings.Compare(a.TeamID, b.TeamID)
}

// PlaceOrder returns the finishes of one race in scoring order: clean place
// order with assigned redress moved to its handicap position.
func PlaceOrder(finishes []*regatta.Finish) []*regatta.Finish {
	order := slices.Clone(finishes)
	slices.SortFunc(order, CompareCleanPlace)

	clean := slices.Clone(order)
	for _, f := range clean {
		if !f.Breakdown.Assigned() {
			continue
		}
		idx := slices.Index(order, f)
		order = slices.Delete(order, idx, idx+1)
		target := min(f.Breakdown.Handicap-1, len(order))
		order = slices.Insert(order, target, f)
	}
	return order
}

type averaged struct {
	key     Key
	natural int
}

// ComputeScores scores every finished race of the regatta. It panics when a
// finish references a team or race the regatta does not have, or when a team
// finishes the same race twice.
func ComputeScores(r *regatta.Regatta) Scores {
	fleet := r.FleetSize()
	byRace := make(map[regatta.Race][]*regatta.Finish)
	seen := make(map[Key]bool, len(r.Finishes))
	for i := range r.Finishes {
		f := r.Finishes[i]
		if _, ok := r.Team(f.TeamID); !ok {
			panic(fmt.Sprintf("scoring: finish in race %s references unknown team %q", f.Race, f.TeamID))
		}
		if !r.HasRace(f.Race) {
			panic(fmt.Sprintf("scoring: finish references unknown race %s", f.Race))
		}
		if f.Penalty != nil && f.Breakdown != nil {
			panic(fmt.Sprintf("scoring: race %s team %q: %v", f.Race, f.TeamID, regatta.ErrConflictingAdjustment))
		}
		k := Key{f.Race, f.TeamID}
		if seen[k] {
			panic(fmt.Sprintf("scoring: team %q finishes race %s more than once", f.TeamID, f.Race))
		}
		seen[k] = true
		byRace[f.Race] = append(byRace[f.Race], &f)
	}

	scores := make(Scores, len(r.Finishes))
	var pending []averaged
	for _, race := range r.FinishedRaces() {
		for i, f := range PlaceOrder(byRace[race]) {
			place := i + 1
			k := Key{race, f.TeamID}
			switch {
			case f.Penalty != nil:
				scores[k] = fleet + 1
			case f.Breakdown != nil && !f.Breakdown.Assigned():
				pending = append(pending, averaged{key: k, natural: place})
			default:
				scores[k] = place
			}
		}
	}

	// Averages only draw on scores fixed above, never on other averages.
	resolved := make([]int, len(pending))
	for i, p := range pending {
		resolved[i] = averageScore(scores, p, fleet)
	}
	for i, p := range pending {
		scores[p.key] = resolved[i]
	}
	return scores
}

func averageScore(scores Scores, p averaged, fleet int) int {
	sum, count := 0, 0
	for k, v := range scores {
		if k.TeamID != p.key.TeamID || k.Race.Division != p.key.Race.Division || k.Race == p.key.Race {
			continue
		}
		if v > 0 {
			sum += v
			count++
		}
	}
	if count == 0 {
		if p.natural > 0 {
			return p.natural
		}
		return fleet
	}
	// round half up
	mean := (2*sum + count) / (2 * count)
	return min(p.natural, mean)
}
