package regatta

import (
	"errors"
	"fmt"
	"slices"
	"time"
)

// Regatta holds the fixed structure and recorded results of one event.
// The engines only read it; Finish.Score is written by scoring.Scores.Apply.
type Regatta struct {
	Name          string
	Venue         string
	StartDate     time.Time
	Divisions     []Division
	Teams         []Team
	Races         map[Division][]Race
	Finishes      []Finish
	TeamPenalties []TeamPenalty
}

// New creates a regatta with numRaces races in each division.
func New(name string, divisions []Division, teams []Team, numRaces int) *Regatta {
	r := &Regatta{
		Name:      name,
		Divisions: slices.Clone(divisions),
		Teams:     slices.Clone(teams),
		Races:     make(map[Division][]Race, len(divisions)),
	}
	for _, d := range divisions {
		for n := 1; n <= numRaces; n++ {
			r.Races[d] = append(r.Races[d], Race{Division: d, Number: n})
		}
	}
	return r
}

func (r *Regatta) FleetSize() int {
	return len(r.Teams)
}

func (r *Regatta) Team(id string) (Team, bool) {
	for _, t := range r.Teams {
		if t.ID == id {
			return t, true
		}
	}
	return Team{}, false
}

func (r *Regatta) HasRace(race Race) bool {
	return slices.Contains(r.Races[race.Division], race)
}

// AllRaces returns every race of the regatta in CompareByNumber order.
func (r *Regatta) AllRaces() []Race {
	var races []Race
	for _, d := range r.Divisions {
		races = append(races, r.Races[d]...)
	}
	slices.SortFunc(races, CompareByNumber)
	return races
}

// RaceGrid returns the race lists of every division in division order.
func (r *Regatta) RaceGrid() [][]Race {
	grid := make([][]Race, 0, len(r.Divisions))
	for _, d := range r.Divisions {
		grid = append(grid, slices.Clone(r.Races[d]))
	}
	return grid
}

// FinishesFor returns pointers into the regatta's finish list for one race.
func (r *Regatta) FinishesFor(race Race) []*Finish {
	var out []*Finish
	for i := range r.Finishes {
		if r.Finishes[i].Race == race {
			out = append(out, &r.Finishes[i])
		}
	}
	return out
}

// Finish returns the finish of a team in a race, or nil.
func (r *Regatta) Finish(race Race, teamID string) *Finish {
	for i := range r.Finishes {
		if r.Finishes[i].Race == race && r.Finishes[i].TeamID == teamID {
			return &r.Finishes[i]
		}
	}
	return nil
}

// FinishedRaces returns the races with at least one finish, restricted to
// the given divisions (all divisions when none given), in CompareByNumber order.
func (r *Regatta) FinishedRaces(divisions ...Division) []Race {
	seen := make(map[Race]bool)
	var races []Race
	for _, f := range r.Finishes {
		if seen[f.Race] {
			continue
		}
		if len(divisions) > 0 && !slices.Contains(divisions, f.Race.Division) {
			continue
		}
		seen[f.Race] = true
		races = append(races, f.Race)
	}
	slices.SortFunc(races, CompareByNumber)
	return races
}

// TeamPenaltiesFor lists the team penalties of one team in the given divisions.
func (r *Regatta) TeamPenaltiesFor(teamID string, divisions ...Division) []TeamPenalty {
	var out []TeamPenalty
	for _, p := range r.TeamPenalties {
		if p.TeamID != teamID {
			continue
		}
		if len(divisions) > 0 && !slices.Contains(divisions, p.Division) {
			continue
		}
		out = append(out, p)
	}
	return out
}

// ErrUnknownDivision is returned for a division the regatta does not sail.
var ErrUnknownDivision = errors.New("division not sailed in this regatta")

// CheckDivisions fails for any division not in r.Divisions.
func (r *Regatta) CheckDivisions(divisions ...Division) error {
	for _, d := range divisions {
		if !slices.Contains(r.Divisions, d) {
			return fmt.Errorf("%w: %s", ErrUnknownDivision, d)
		}
	}
	return nil
}

// AddFinishes appends finishes and revalidates. On error the regatta is left
// unchanged.
func (r *Regatta) AddFinishes(fs ...Finish) error {
	old := r.Finishes
	r.Finishes = append(slices.Clone(old), fs...)
	if err := r.Validate(); err != nil {
		r.Finishes = old
		return err
	}
	return nil
}

// Validate reports every structural problem found, joined.
func (r *Regatta) Validate() error {
	var errs []error
	if len(r.Teams) == 0 {
		errs = append(errs, errors.New("regatta has no teams"))
	}
	teamIDs := make(map[string]bool, len(r.Teams))
	for _, t := range r.Teams {
		if t.ID == "" {
			errs = append(errs, fmt.Errorf("team %q has no id", t.Name))
			continue
		}
		if teamIDs[t.ID] {
			errs = append(errs, fmt.Errorf("duplicate team id %q", t.ID))
		}
		teamIDs[t.ID] = true
	}
	for _, d := range r.Divisions {
		if !d.Valid() {
			errs = append(errs, fmt.Errorf("invalid division %d", int(d)))
		}
	}

	type key struct {
		race Race
		team string
	}
	seen := make(map[key]bool, len(r.Finishes))
	for i := range r.Finishes {
		f := &r.Finishes[i]
		if !slices.Contains(r.Divisions, f.Race.Division) || !r.HasRace(f.Race) {
			errs = append(errs, fmt.Errorf("finish references unknown race %s", f.Race))
		}
		if !teamIDs[f.TeamID] {
			errs = append(errs, fmt.Errorf("finish in race %s references unknown team %q", f.Race, f.TeamID))
		}
		k := key{f.Race, f.TeamID}
		if seen[k] {
			errs = append(errs, fmt.Errorf("duplicate finish for team %q in race %s", f.TeamID, f.Race))
		}
		seen[k] = true
		if err := f.Validate(); err != nil {
			errs = append(errs, err)
		}
	}

	for _, race := range r.FinishedRaces() {
		for _, t := range r.Teams {
			if !seen[key{race, t.ID}] {
				errs = append(errs, fmt.Errorf("race %s has no finish for team %q", race, t.ID))
			}
		}
	}

	for _, p := range r.TeamPenalties {
		if !teamIDs[p.TeamID] {
			errs = append(errs, fmt.Errorf("team penalty references unknown team %q", p.TeamID))
		}
		if !slices.Contains(r.Divisions, p.Division) {
			errs = append(errs, fmt.Errorf("team penalty for %q in unused division %s", p.TeamID, p.Division))
		}
		if !slices.Contains(teamPenaltyKinds, p.Kind) {
			errs = append(errs, fmt.Errorf("team penalty for %q has unknown kind %q", p.TeamID, p.Kind))
		}
	}
	return errors.Join(errs...)
}
