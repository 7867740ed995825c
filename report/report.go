package report

import (
	"github.com/Nydauron/regattascore/regatta"
	"github.com/Nydauron/regattascore/scoring"
)

// Results is the published form of a scored regatta.
type Results struct {
	Regatta           Metadata            `yaml:"Regatta"`
	Teams             []regatta.Team      `yaml:"Teams"`
	Races             []RaceResult        `yaml:"Races"`
	Standings         []scoring.Standing  `yaml:"Standings"`
	DivisionStandings []DivisionStandings `yaml:"Division Standings,omitempty"`
}

type Metadata struct {
	Name      string             `yaml:"name"`
	Venue     string             `yaml:"venue,omitempty"`
	Date      string             `yaml:"date,omitempty"`
	Divisions []regatta.Division `yaml:"divisions"`
	FleetSize int                `yaml:"fleet size"`
}

type RaceResult struct {
	Race    regatta.Race `yaml:"race"`
	Entries []Entry      `yaml:"entries"`
}

// Entry is one team's line in a race, in place order.
type Entry struct {
	Team      string `yaml:"team"`
	Score     int    `yaml:"score"`
	Penalty   string `yaml:"penalty,omitempty"`
	Breakdown string `yaml:"breakdown,omitempty"`
	Handicap  int    `yaml:"handicap,omitempty"`
	Comment   string `yaml:"comment,omitempty"`
}

type DivisionStandings struct {
	Division  regatta.Division   `yaml:"division"`
	Standings []scoring.Standing `yaml:"standings"`
}
