package scoring

import (
	"fmt"
	"slices"
	"strings"

	"github.com/Nydauron/regattascore/regatta"
)

// Standing is a team's place in a ranking.
type Standing struct {
	Rank          int          `yaml:"rank"`
	Team          regatta.Team `yaml:"team"`
	Total         int          `yaml:"total"`
	PenaltyPoints int          `yaml:"penalty_points,omitempty"`
	Explanation   string       `yaml:"explanation,omitempty"`
}

type entry struct {
	team    regatta.Team
	total   int
	penalty int
	reasons []string
}

// stage produces a sort key for every team of a tied group. Lower keys rank
// better. reason, when set, explains a split caused by this stage.
type stage struct {
	keys   func(group []*entry) []int
	reason func(e *entry, key int) string
}

// Rank orders every team of the regatta. With no divisions given the ranking
// covers all divisions of the regatta. It panics on a division the regatta
// does not sail.
func Rank(r *regatta.Regatta, scores Scores, divisions ...regatta.Division) []Standing {
	if len(divisions) == 0 {
		divisions = r.Divisions
	}
	if err := r.CheckDivisions(divisions...); err != nil {
		panic(fmt.Sprintf("scoring: %v", err))
	}
	relevant := r.FinishedRaces(divisions...)

	entries := make([]*entry, len(r.Teams))
	for i, t := range r.Teams {
		e := &entry{team: t}
		for _, race := range relevant {
			e.total += mustScore(scores, race, t.ID)
		}
		e.penalty = regatta.TeamPenaltyPoints * len(r.TeamPenaltiesFor(t.ID, divisions...))
		e.total += e.penalty
		entries[i] = e
	}

	ordered := resolve(entries, pipeline(r, scores, relevant))

	standings := make([]Standing, len(ordered))
	for i, e := range ordered {
		standings[i] = Standing{
			Rank:          i + 1,
			Team:          e.team,
			Total:         e.total,
			PenaltyPoints: e.penalty,
			Explanation:   strings.Join(e.reasons, "; "),
		}
	}
	return standings
}

func pipeline(r *regatta.Regatta, scores Scores, relevant []regatta.Race) []stage {
	stages := []stage{
		totalStage(),
		// Head-to-head deliberately looks at every finished race of the
		// regatta, not only the divisions being ranked.
		headToHeadStage(r.FinishedRaces(), scores),
	}
	for place := 1; place <= r.FleetSize(); place++ {
		stages = append(stages, highFinishStage(relevant, scores, place))
	}
	for i := len(relevant) - 1; i >= 0; i-- {
		stages = append(stages, lastRaceStage(relevant[i], scores))
	}
	return append(stages, alphabeticalStage())
}

// resolve runs the stages over ever smaller tied groups until every group
// holds a single team or the stages run out.
func resolve(entries []*entry, stages []stage) []*entry {
	groups := [][]*entry{entries}
	for _, st := range stages {
		if allSingletons(groups) {
			break
		}
		next := make([][]*entry, 0, len(groups))
		for _, group := range groups {
			if len(group) < 2 {
				next = append(next, group)
				continue
			}
			runs := splitByKey(group, st.keys(group))
			if len(runs) > 1 && st.reason != nil {
				for _, run := range runs {
					for _, kv := range run {
						kv.item.reasons = appendReason(kv.item.reasons, st.reason(kv.item, kv.key))
					}
				}
			}
			for _, run := range runs {
				next = append(next, unzip(run))
			}
		}
		groups = next
	}
	return slices.Concat(groups...)
}

func allSingletons(groups [][]*entry) bool {
	for _, g := range groups {
		if len(g) > 1 {
			return false
		}
	}
	return true
}

// appendReason merges a stage explanation into a team's list, skipping repeats.
func appendReason(reasons []string, reason string) []string {
	if reason == "" || slices.Contains(reasons, reason) {
		return reasons
	}
	return append(reasons, reason)
}

func mustScore(scores Scores, race regatta.Race, teamID string) int {
	v, ok := scores.Get(race, teamID)
	if !ok {
		panic(fmt.Sprintf("scoring: no score for team %q in finished race %s", teamID, race))
	}
	return v
}

func totalStage() stage {
	return stage{keys: func(group []*entry) []int {
		keys := make([]int, len(group))
		for i, e := range group {
			keys[i] = e.total
		}
		return keys
	}}
}

// headToHeadStage ranks the tied teams among themselves in every race and
// sums those ranks. Equal scores share a rank.
func headToHeadStage(races []regatta.Race, scores Scores) stage {
	return stage{
		keys: func(group []*entry) []int {
			sums := make([]int, len(group))
			raceScores := make([]int, len(group))
			for _, race := range races {
				for i, e := range group {
					raceScores[i] = mustScore(scores, race, e.team.ID)
				}
				for i := range group {
					rank := 1
					for j := range group {
						if raceScores[j] < raceScores[i] {
							rank++
						}
					}
					sums[i] += rank
				}
			}
			return sums
		},
		reason: func(_ *entry, _ int) string {
			return "Head-to-head tiebreaker"
		},
	}
}

// highFinishStage favours teams with more finishes of exactly place.
func highFinishStage(races []regatta.Race, scores Scores, place int) stage {
	return stage{
		keys: func(group []*entry) []int {
			keys := make([]int, len(group))
			for i, e := range group {
				matches := 0
				for _, race := range races {
					if mustScore(scores, race, e.team.ID) == place {
						matches++
					}
				}
				keys[i] = len(races) - matches
			}
			return keys
		},
		reason: func(_ *entry, _ int) string {
			return fmt.Sprintf("Number of high finishes (place %d)", place)
		},
	}
}

func lastRaceStage(race regatta.Race, scores Scores) stage {
	return stage{
		keys: func(group []*entry) []int {
			keys := make([]int, len(group))
			for i, e := range group {
				keys[i] = mustScore(scores, race, e.team.ID)
			}
			return keys
		},
		reason: func(_ *entry, _ int) string {
			return fmt.Sprintf("Last race back (race %s)", race)
		},
	}
}

func alphabeticalStage() stage {
	return stage{
		keys: func(group []*entry) []int {
			sorted := slices.Clone(group)
			slices.SortStableFunc(sorted, func(a, b *entry) int {
				if c := strings.Compare(a.team.Name, b.team.Name); c != 0 {
					return c
				}
				return strings.Compare(a.team.ID, b.team.ID)
			})
			keys := make([]int, len(group))
			for i, e := range group {
				keys[i] = slices.Index(sorted, e)
			}
			return keys
		},
		reason: func(_ *entry, _ int) string {
			return "Alphabetical"
		},
	}
}
