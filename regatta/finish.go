package regatta

import (
	"errors"
	"fmt"
	"slices"
	"time"
)

// PenaltyKind is a disciplinary code that fixes a finish at the worst score.
type PenaltyKind string

const (
	PenaltyDSQ PenaltyKind = "DSQ"
	PenaltyRAF PenaltyKind = "RAF"
	PenaltyOCS PenaltyKind = "OCS"
	PenaltyDNF PenaltyKind = "DNF"
	PenaltyDNS PenaltyKind = "DNS"
)

// BreakdownKind is a redress code.
type BreakdownKind string

const (
	BreakdownRDG BreakdownKind = "RDG"
	BreakdownBKD BreakdownKind = "BKD"
	BreakdownBYE BreakdownKind = "BYE"
)

// TeamPenaltyKind is a division-level penalty code.
type TeamPenaltyKind string

const (
	TeamPenaltyPFD TeamPenaltyKind = "PFD"
	TeamPenaltyLOP TeamPenaltyKind = "LOP"
	TeamPenaltyMRP TeamPenaltyKind = "MRP"
	TeamPenaltyGDQ TeamPenaltyKind = "GDQ"
)

// TeamPenaltyPoints is added to a team's division total per team penalty.
const TeamPenaltyPoints = 20

var (
	penaltyKinds     = []PenaltyKind{PenaltyDSQ, PenaltyRAF, PenaltyOCS, PenaltyDNF, PenaltyDNS}
	breakdownKinds   = []BreakdownKind{BreakdownRDG, BreakdownBKD, BreakdownBYE}
	teamPenaltyKinds = []TeamPenaltyKind{TeamPenaltyPFD, TeamPenaltyLOP, TeamPenaltyMRP, TeamPenaltyGDQ}
)

// ErrConflictingAdjustment is returned for a finish with both a penalty and a breakdown.
var ErrConflictingAdjustment = errors.New("finish has both a penalty and a breakdown")

type Penalty struct {
	Kind    PenaltyKind `yaml:"kind"`
	Comment string      `yaml:"comment,omitempty"`
}

// Breakdown is a redress adjustment. A positive Handicap is the assigned
// place; zero or negative means average the team's other scores.
type Breakdown struct {
	Kind     BreakdownKind `yaml:"kind"`
	Comment  string        `yaml:"comment,omitempty"`
	Handicap int           `yaml:"handicap,omitempty"`
}

func (b *Breakdown) Assigned() bool {
	return b != nil && b.Handicap > 0
}

type TeamPenalty struct {
	Division Division        `yaml:"division"`
	TeamID   string          `yaml:"team"`
	Kind     TeamPenaltyKind `yaml:"kind"`
	Comment  string          `yaml:"comment,omitempty"`
}

type Team struct {
	ID   string `yaml:"id"`
	Name string `yaml:"name"`
}

// Finish records one team crossing the line in one race.
type Finish struct {
	Race      Race       `yaml:"race"`
	TeamID    string     `yaml:"team"`
	Timestamp time.Time  `yaml:"time"`
	Penalty   *Penalty   `yaml:"penalty,omitempty"`
	Breakdown *Breakdown `yaml:"breakdown,omitempty"`
	Score     int        `yaml:"score,omitempty"`
}

func (f *Finish) Penalized() bool {
	return f.Penalty != nil
}

// Validate checks the adjustment invariants of a single finish.
func (f *Finish) Validate() error {
	if f.Penalty != nil && f.Breakdown != nil {
		return fmt.Errorf("race %s team %s: %w", f.Race, f.TeamID, ErrConflictingAdjustment)
	}
	if f.Penalty != nil && !slices.Contains(penaltyKinds, f.Penalty.Kind) {
		return fmt.Errorf("race %s team %s: unknown penalty %q", f.Race, f.TeamID, f.Penalty.Kind)
	}
	if f.Breakdown != nil && !slices.Contains(breakdownKinds, f.Breakdown.Kind) {
		return fmt.Errorf("race %s team %s: unknown breakdown %q", f.Race, f.TeamID, f.Breakdown.Kind)
	}
	return nil
}
