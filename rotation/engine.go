package rotation

import (
	"fmt"
	"slices"

	"github.com/Nydauron/regattascore/regatta"
)

// Params describes one rotation run. Races holds each division's races in
// the order they are sailed; Teams[i] starts in Sails[i].
type Params struct {
	Type    Type
	Style   Style
	Races   [][]regatta.Race
	Teams   []string
	Sails   []regatta.Sail
	SetSize int
	// Offset is the starting-sail shift between divisions for StyleFranny.
	// Zero selects len(Teams)/len(Races).
	Offset int
}

func (p Params) validate() error {
	if len(p.Teams) != len(p.Sails) {
		return &ConfigError{Msg: fmt.Sprintf("%d teams but %d sails", len(p.Teams), len(p.Sails))}
	}
	if err := validateCommon(p.Type, p.Teams, p.Sails, p.SetSize); err != nil {
		return err
	}
	if !p.Style.valid() {
		return &ConfigError{Msg: fmt.Sprintf("unknown rotation style %d", int(p.Style))}
	}
	if len(p.Races) == 0 {
		return &ConfigError{Msg: "no divisions to rotate"}
	}
	return nil
}

func validateCommon(t Type, teams []string, sails []regatta.Sail, setSize int) error {
	if setSize < 1 {
		return &ConfigError{Msg: fmt.Sprintf("set size must be at least 1, got %d", setSize)}
	}
	if !t.valid() {
		return &ConfigError{Msg: fmt.Sprintf("unknown rotation type %d", int(t))}
	}
	if len(teams) == 0 {
		return &ConfigError{Msg: "no teams to rotate"}
	}
	if t == TypeSwap && len(sails)%2 != 0 {
		return &ConfigError{Msg: fmt.Sprintf("swap rotation needs an even number of boats, got %d", len(sails))}
	}
	seen := make(map[regatta.Sail]bool, len(sails))
	for _, s := range sails {
		if seen[s] {
			return &ConfigError{Msg: fmt.Sprintf("sail %s is assigned more than once", s)}
		}
		seen[s] = true
	}
	return nil
}

// Fill writes the rotation described by p into rot. Nothing is written when
// p is invalid. Races outside p.Races keep their existing assignments; inside
// them a team keeps its entry only while no filled team takes its sail.
func Fill(rot *Rotation, p Params) error {
	if err := p.validate(); err != nil {
		return err
	}
	seen := make(map[string]bool, len(p.Teams))
	for _, t := range p.Teams {
		if seen[t] {
			return &ConfigError{Msg: fmt.Sprintf("team %q listed more than once", t)}
		}
		seen[t] = true
	}

	sails := slices.Clone(p.Sails)
	switch p.Style {
	case StyleNone:
		fillSequence(rot, p.Type, confuse(p.Races, p.SetSize), p.Teams, sails, p.SetSize*len(p.Races))
	case StyleNavy:
		fillSequence(rot, p.Type, confuse(p.Races, p.SetSize), p.Teams, sails, p.SetSize)
	case StyleFranny:
		offset := p.Offset
		if offset == 0 {
			offset = len(p.Teams) / len(p.Races)
		}
		for _, races := range p.Races {
			seq := confuse([][]regatta.Race{races}, p.SetSize)
			fillSequence(rot, p.Type, seq, p.Teams, slices.Clone(sails), p.SetSize)
			sails = shift(sails, offset)
		}
	}
	return nil
}

// confuse merges the divisions' races into one timeline. The number of sets
// is taken from the first division; divisions that run out are padded with nil.
func confuse(divisions [][]regatta.Race, setSize int) []*regatta.Race {
	numSets := (len(divisions[0]) + setSize - 1) / setSize
	seq := make([]*regatta.Race, 0, numSets*setSize*len(divisions))
	for set := 0; set < numSets; set++ {
		for _, races := range divisions {
			for k := 0; k < setSize; k++ {
				idx := set*setSize + k
				if idx < len(races) {
					seq = append(seq, &races[idx])
				} else {
					seq = append(seq, nil)
				}
			}
		}
	}
	return seq
}

// fillSequence assigns sails chunk by chunk, permuting after every chunk.
// Nil slots still count toward the chunk.
func fillSequence(rot *Rotation, t Type, seq []*regatta.Race, teams []string, sails []regatta.Sail, chunk int) {
	distance := 1
	for start := 0; start < len(seq); start += chunk {
		end := min(start+chunk, len(seq))
		for _, race := range seq[start:end] {
			if race == nil {
				continue
			}
			for i, team := range teams {
				rot.Set(*race, team, sails[i])
			}
		}
		switch t {
		case TypeStandard:
			sails = shift(sails, 1)
		case TypeSwap:
			swap(sails, distance)
			distance += 2
		}
	}
}

// shift returns list rotated left by n positions.
func shift[T any](list []T, n int) []T {
	if len(list) == 0 {
		return list
	}
	n = mod(n, len(list))
	return append(slices.Clone(list[n:]), list[:n]...)
}

// swap exchanges every even index with the element d positions after it.
func swap[T any](list []T, d int) {
	n := len(list)
	for i := 0; i < n; i += 2 {
		j := (i + d) % n
		list[i], list[j] = list[j], list[i]
	}
}

func mod(a, n int) int {
	return ((a % n) + n) % n
}

// CombinedParams describes a combined-division rotation where every
// (team, division) pair sails as its own entry in one shared race sequence.
type CombinedParams struct {
	Type      Type
	Teams     []string
	Divisions []regatta.Division
	Sails     []regatta.Sail
	Races     []int
	SetSize   int
}

// FillCombined writes a combined-division rotation into rot.
func FillCombined(rot *Rotation, p CombinedParams) error {
	if len(p.Teams) != len(p.Divisions) || len(p.Teams) != len(p.Sails) {
		return &ConfigError{Msg: fmt.Sprintf("%d teams, %d divisions and %d sails must match",
			len(p.Teams), len(p.Divisions), len(p.Sails))}
	}
	if err := validateCommon(p.Type, p.Teams, p.Sails, p.SetSize); err != nil {
		return err
	}
	type entry struct {
		team string
		div  regatta.Division
	}
	seen := make(map[entry]bool, len(p.Teams))
	for j, t := range p.Teams {
		if !p.Divisions[j].Valid() {
			return &ConfigError{Msg: fmt.Sprintf("invalid division %d for team %q", int(p.Divisions[j]), t)}
		}
		e := entry{t, p.Divisions[j]}
		if seen[e] {
			return &ConfigError{Msg: fmt.Sprintf("team %q listed twice in division %s", t, p.Divisions[j])}
		}
		seen[e] = true
	}
	for _, num := range p.Races {
		if num < 1 {
			return &ConfigError{Msg: fmt.Sprintf("invalid race number %d", num)}
		}
	}

	n := len(p.Sails)
	original := slices.Clone(p.Sails)
	sails := slices.Clone(p.Sails)
	setNum := 0
	for start := 0; start < len(p.Races); start += p.SetSize {
		end := min(start+p.SetSize, len(p.Races))
		for _, num := range p.Races[start:end] {
			for j, team := range p.Teams {
				rot.Set(regatta.Race{Division: p.Divisions[j], Number: num}, team, sails[j])
			}
		}
		setNum++
		switch p.Type {
		case TypeStandard:
			sails = shift(sails, 1)
		case TypeSwap:
			for j := range sails {
				if j%2 == 0 {
					sails[j] = original[mod(j+setNum, n)]
				} else {
					sails[j] = original[mod(j-setNum, n)]
				}
			}
		}
	}
	return nil
}
