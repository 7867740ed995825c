package parsers

import (
	"fmt"
	"io"

	"gopkg.in/yaml.v3"

	"github.com/Nydauron/regattascore/regatta"
	"github.com/Nydauron/regattascore/rotation"
)

// RotationPlan is the YAML form of a rotation request.
//
//	type: standard
//	style: navy
//	set_size: 2
//	divisions: [A, B]
//	races: 6
//	teams: [HAR, YAL, BRN, DART]
//	sails: ["1", "2", "3", "4"]
//
// With combined set, every team sails once per division and sails lists
// len(teams) * len(divisions) boats, division by division.
type RotationPlan struct {
	Type      rotation.Type      `yaml:"type"`
	Style     rotation.Style     `yaml:"style"`
	SetSize   int                `yaml:"set_size"`
	Offset    int                `yaml:"offset,omitempty"`
	Divisions []regatta.Division `yaml:"divisions"`
	Races     int                `yaml:"races"`
	Teams     []string           `yaml:"teams"`
	Sails     []regatta.Sail     `yaml:"sails"`
	Combined  bool               `yaml:"combined,omitempty"`
}

// ReadRotationPlan decodes a rotation plan over defaults, so fields the
// document leaves out keep their default value.
func ReadRotationPlan(r io.Reader, defaults RotationPlan) (*RotationPlan, error) {
	plan := defaults
	dec := yaml.NewDecoder(r)
	dec.KnownFields(true)
	if err := dec.Decode(&plan); err != nil {
		return nil, fmt.Errorf("failed to decode rotation plan: %w", err)
	}
	return &plan, nil
}

// RaceGrid lists every division's races in sailing order.
func (p *RotationPlan) RaceGrid() [][]regatta.Race {
	grid := make([][]regatta.Race, 0, len(p.Divisions))
	for _, d := range p.Divisions {
		races := make([]regatta.Race, 0, p.Races)
		for n := 1; n <= p.Races; n++ {
			races = append(races, regatta.Race{Division: d, Number: n})
		}
		grid = append(grid, races)
	}
	return grid
}

// Build runs the rotation engine over the plan.
func (p *RotationPlan) Build() (*rotation.Rotation, error) {
	rot := rotation.New()
	if !p.Combined {
		err := rotation.Fill(rot, rotation.Params{
			Type:    p.Type,
			Style:   p.Style,
			Races:   p.RaceGrid(),
			Teams:   p.Teams,
			Sails:   p.Sails,
			SetSize: p.SetSize,
			Offset:  p.Offset,
		})
		if err != nil {
			return nil, err
		}
		return rot, nil
	}

	if len(p.Sails) != len(p.Teams)*len(p.Divisions) {
		return nil, &rotation.ConfigError{Msg: fmt.Sprintf("combined rotation needs %d sails, got %d",
			len(p.Teams)*len(p.Divisions), len(p.Sails))}
	}
	params := rotation.CombinedParams{Type: p.Type, Sails: p.Sails, SetSize: p.SetSize}
	for _, d := range p.Divisions {
		for _, t := range p.Teams {
			params.Teams = append(params.Teams, t)
			params.Divisions = append(params.Divisions, d)
		}
	}
	for n := 1; n <= p.Races; n++ {
		params.Races = append(params.Races, n)
	}
	if err := rotation.FillCombined(rot, params); err != nil {
		return nil, err
	}
	return rot, nil
}
