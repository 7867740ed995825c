package rotation

import (
	"slices"
	"strings"

	"github.com/Nydauron/regattascore/regatta"
)

type assignmentKey struct {
	race regatta.Race
	team string
}

type reverseKey struct {
	race regatta.Race
	sail regatta.Sail
}

// Rotation maps (race, team) to the sail the team uses in that race.
type Rotation struct {
	sails map[assignmentKey]regatta.Sail
	teams map[reverseKey]string
}

func New() *Rotation {
	return &Rotation{
		sails: make(map[assignmentKey]regatta.Sail),
		teams: make(map[reverseKey]string),
	}
}

// Set assigns a sail, replacing any previous assignment of the team in the
// race. A team already holding the sail in that race loses its assignment.
func (r *Rotation) Set(race regatta.Race, teamID string, sail regatta.Sail) {
	k := assignmentKey{race, teamID}
	if old, ok := r.sails[k]; ok {
		delete(r.teams, reverseKey{race, old})
	}
	if holder, ok := r.teams[reverseKey{race, sail}]; ok && holder != teamID {
		delete(r.sails, assignmentKey{race, holder})
	}
	r.sails[k] = sail
	r.teams[reverseKey{race, sail}] = teamID
}

func (r *Rotation) Sail(race regatta.Race, teamID string) (regatta.Sail, bool) {
	s, ok := r.sails[assignmentKey{race, teamID}]
	return s, ok
}

// Team is the reverse lookup: which team sails the given boat in a race.
func (r *Rotation) Team(race regatta.Race, sail regatta.Sail) (string, bool) {
	t, ok := r.teams[reverseKey{race, sail}]
	return t, ok
}

// Races returns every race with at least one assignment, in CompareByNumber order.
func (r *Rotation) Races() []regatta.Race {
	seen := make(map[regatta.Race]bool)
	var races []regatta.Race
	for k := range r.sails {
		if !seen[k.race] {
			seen[k.race] = true
			races = append(races, k.race)
		}
	}
	slices.SortFunc(races, regatta.CompareByNumber)
	return races
}

// Assignment is one team's sail in one race.
type Assignment struct {
	TeamID string       `yaml:"team"`
	Sail   regatta.Sail `yaml:"sail"`
}

// Assignments lists a race's assignments ordered by sail.
func (r *Rotation) Assignments(race regatta.Race) []Assignment {
	var out []Assignment
	for k, s := range r.sails {
		if k.race == race {
			out = append(out, Assignment{TeamID: k.team, Sail: s})
		}
	}
	slices.SortFunc(out, func(a, b Assignment) int {
		if c := regatta.CompareSails(a.Sail, b.Sail); c != 0 {
			return c
		}
		return strings.Compare(a.TeamID, b.TeamID)
	})
	return out
}

// Clear removes every assignment of the given races.
func (r *Rotation) Clear(races ...regatta.Race) {
	for k, s := range r.sails {
		if slices.Contains(races, k.race) {
			delete(r.sails, k)
			delete(r.teams, reverseKey{k.race, s})
		}
	}
}

// ShiftSails adds n to every numeric sail assigned in the given races.
func (r *Rotation) ShiftSails(races []regatta.Race, n int) {
	for _, race := range races {
		assignments := r.Assignments(race)
		for _, a := range assignments {
			delete(r.teams, reverseKey{race, a.Sail})
		}
		for _, a := range assignments {
			shifted := a.Sail.Add(n)
			r.sails[assignmentKey{race, a.TeamID}] = shifted
			r.teams[reverseKey{race, shifted}] = a.TeamID
		}
	}
}
