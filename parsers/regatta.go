package parsers

import (
	"errors"
	"fmt"
	"io"
	"slices"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/Nydauron/regattascore/regatta"
)

// RegattaDocument is the YAML form of a regatta.
//
//	name: Spring Team Race
//	date: 2024-04-13
//	divisions: [A, B]
//	races: 6
//	teams:
//	  - {id: HAR, name: Harvard}
//	order:
//	  1A: [HAR, YAL, BRN]
//	adjustments:
//	  - {race: 1A, team: BRN, penalty: DSQ}
type RegattaDocument struct {
	Name          string                `yaml:"name"`
	Venue         string                `yaml:"venue,omitempty"`
	Date          string                `yaml:"date,omitempty"`
	Divisions     []regatta.Division    `yaml:"divisions"`
	Races         int                   `yaml:"races"`
	DivisionRaces map[string]int        `yaml:"division_races,omitempty"`
	Teams         []regatta.Team        `yaml:"teams"`
	Finishes      []regatta.Finish      `yaml:"finishes,omitempty"`
	Order         map[string][]string   `yaml:"order,omitempty"`
	Adjustments   []Adjustment          `yaml:"adjustments,omitempty"`
	TeamPenalties []regatta.TeamPenalty `yaml:"team_penalties,omitempty"`
}

// Adjustment attaches a penalty or a breakdown to a finish listed elsewhere
// in the document. Codes and long names are both accepted.
type Adjustment struct {
	Race      string `yaml:"race"`
	Team      string `yaml:"team"`
	Penalty   string `yaml:"penalty,omitempty"`
	Breakdown string `yaml:"breakdown,omitempty"`
	Handicap  int    `yaml:"handicap,omitempty"`
	Comment   string `yaml:"comment,omitempty"`
}

// ReadRegatta decodes and validates a regatta document.
func ReadRegatta(r io.Reader) (*regatta.Regatta, error) {
	var doc RegattaDocument
	dec := yaml.NewDecoder(r)
	dec.KnownFields(true)
	if err := dec.Decode(&doc); err != nil {
		return nil, fmt.Errorf("failed to decode regatta: %w", err)
	}
	return doc.Build()
}

// Build converts the document into a validated regatta.
func (doc *RegattaDocument) Build() (*regatta.Regatta, error) {
	if len(doc.Divisions) == 0 {
		return nil, errors.New("regatta has no divisions")
	}
	reg := regatta.New(doc.Name, doc.Divisions, doc.Teams, doc.Races)
	reg.Venue = doc.Venue
	if doc.Date != "" {
		date, err := time.Parse(time.DateOnly, doc.Date)
		if err != nil {
			return nil, fmt.Errorf("invalid regatta date %q: %w", doc.Date, err)
		}
		reg.StartDate = date
	}
	for key, count := range doc.DivisionRaces {
		d, err := regatta.ParseDivision(key)
		if err != nil {
			return nil, err
		}
		if !slices.Contains(doc.Divisions, d) {
			return nil, fmt.Errorf("race count given for unused division %s", d)
		}
		reg.Races[d] = nil
		for n := 1; n <= count; n++ {
			reg.Races[d] = append(reg.Races[d], regatta.Race{Division: d, Number: n})
		}
	}

	reg.Finishes = slices.Clone(doc.Finishes)
	ordered, err := doc.expandOrder(reg.StartDate)
	if err != nil {
		return nil, err
	}
	reg.Finishes = append(reg.Finishes, ordered...)
	for i, adj := range doc.Adjustments {
		if err := adj.apply(reg); err != nil {
			return nil, fmt.Errorf("adjustment %d: %w", i+1, err)
		}
	}
	reg.TeamPenalties = slices.Clone(doc.TeamPenalties)

	if err := reg.Validate(); err != nil {
		return nil, err
	}
	return reg, nil
}

// expandOrder turns each race's finishing order into finishes one second
// apart, starting at base.
func (doc *RegattaDocument) expandOrder(base time.Time) ([]regatta.Finish, error) {
	if base.IsZero() {
		base = sheetEpoch
	}
	keys := make([]string, 0, len(doc.Order))
	for k := range doc.Order {
		keys = append(keys, k)
	}
	slices.Sort(keys)

	var out []regatta.Finish
	for _, k := range keys {
		race, err := regatta.ParseRace(k)
		if err != nil {
			return nil, err
		}
		for i, team := range doc.Order[k] {
			out = append(out, regatta.Finish{
				Race:      race,
				TeamID:    team,
				Timestamp: base.Add(time.Duration(i) * time.Second),
			})
		}
	}
	return out, nil
}

func (adj Adjustment) apply(reg *regatta.Regatta) error {
	race, err := regatta.ParseRace(adj.Race)
	if err != nil {
		return err
	}
	f := reg.Finish(race, adj.Team)
	if f == nil {
		return fmt.Errorf("no finish for team %q in race %s", adj.Team, race)
	}
	if adj.Penalty != "" {
		kind, err := NormalizePenalty(adj.Penalty)
		if err != nil {
			return err
		}
		f.Penalty = &regatta.Penalty{Kind: kind, Comment: adj.Comment}
	}
	if adj.Breakdown != "" {
		kind, err := NormalizeBreakdown(adj.Breakdown)
		if err != nil {
			return err
		}
		f.Breakdown = &regatta.Breakdown{Kind: kind, Comment: adj.Comment, Handicap: adj.Handicap}
	}
	if f.Penalty == nil && f.Breakdown == nil {
		return fmt.Errorf("race %s team %s: adjustment has neither penalty nor breakdown", race, adj.Team)
	}
	return f.Validate()
}
