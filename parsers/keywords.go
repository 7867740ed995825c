package parsers

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/Nydauron/regattascore/regatta"
)

var numberRegex = regexp.MustCompile(`-?[0-9]+`)

// Long names score keepers write instead of the code.
var penaltyMapping = map[string]regatta.PenaltyKind{
	"DISQUALIFIED":            regatta.PenaltyDSQ,
	"RETIRED AFTER FINISHING": regatta.PenaltyRAF,
	"ON COURSE SIDE":          regatta.PenaltyOCS,
	"OVER EARLY":              regatta.PenaltyOCS,
	"DID NOT FINISH":          regatta.PenaltyDNF,
	"DID NOT START":           regatta.PenaltyDNS,
}

var breakdownMapping = map[string]regatta.BreakdownKind{
	"REDRESS":           regatta.BreakdownRDG,
	"REDRESS GIVEN":     regatta.BreakdownRDG,
	"BREAKDOWN":         regatta.BreakdownBKD,
	"EQUIPMENT FAILURE": regatta.BreakdownBKD,
	"BYE":               regatta.BreakdownBYE,
}

// NormalizePenalty accepts a penalty code or its long name.
func NormalizePenalty(s string) (regatta.PenaltyKind, error) {
	s = strings.ToUpper(strings.TrimSpace(s))
	switch kind := regatta.PenaltyKind(s); kind {
	case regatta.PenaltyDSQ, regatta.PenaltyRAF, regatta.PenaltyOCS, regatta.PenaltyDNF, regatta.PenaltyDNS:
		return kind, nil
	}
	if kind, ok := penaltyMapping[s]; ok {
		return kind, nil
	}
	return "", fmt.Errorf("unknown penalty %q", s)
}

// NormalizeBreakdown accepts a breakdown code or its long name.
func NormalizeBreakdown(s string) (regatta.BreakdownKind, error) {
	s = strings.ToUpper(strings.TrimSpace(s))
	switch kind := regatta.BreakdownKind(s); kind {
	case regatta.BreakdownRDG, regatta.BreakdownBKD, regatta.BreakdownBYE:
		return kind, nil
	}
	if kind, ok := breakdownMapping[s]; ok {
		return kind, nil
	}
	return "", fmt.Errorf("unknown breakdown %q", s)
}
