package parsers

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/Nydauron/regattascore/regatta"
)

// Column headers of a finish sheet. Matching is case-insensitive.
const (
	RACE_COL_NAME      = "Race"
	TEAM_COL_NAME      = "Team"
	TIME_COL_NAME      = "Time"
	PENALTY_COL_NAME   = "Penalty"
	BREAKDOWN_COL_NAME = "Breakdown"
	HANDICAP_COL_NAME  = "Handicap"
	COMMENT_COL_NAME   = "Comment"
)

var timeLayouts = []string{time.RFC3339Nano, time.DateTime, time.TimeOnly, "15:04:05.000", "15:04"}

// Parser reads a finish sheet.
type Parser interface {
	Parse(data []byte) ([]regatta.Finish, error)
}

// GetParser picks a parser from the file extension.
func GetParser(filename string) (Parser, error) {
	idx := strings.LastIndex(filename, ".")
	ext := ""
	if idx != -1 {
		ext = strings.ToLower(filename[idx:])
	}
	switch ext {
	case ".csv":
		return NewCSVParser(), nil
	case ".xlsx":
		return NewXLSXParser(), nil
	case ".html", ".htm":
		return NewHTMLParser(), nil
	default:
		return nil, fmt.Errorf("unsupported finish sheet type: %q", ext)
	}
}

// sheet converts header + rows, the shape shared by every finish sheet
// format, into finishes. A row without a time finishes one second after the
// previous row of its race, so the order of the sheet decides the race.
// Clock-only times fall on the sheet epoch's day.
type sheet struct {
	columns map[string]int
}

func newSheet(header []string) (*sheet, error) {
	s := &sheet{columns: make(map[string]int, len(header))}
	for i, col := range header {
		s.columns[strings.ToLower(strings.TrimSpace(col))] = i
	}
	for _, required := range []string{RACE_COL_NAME, TEAM_COL_NAME} {
		if _, ok := s.columns[strings.ToLower(required)]; !ok {
			return nil, fmt.Errorf("finish sheet is missing the %q column", required)
		}
	}
	return s, nil
}

func (s *sheet) cell(row []string, col string) string {
	idx, ok := s.columns[strings.ToLower(col)]
	if !ok || idx >= len(row) {
		return ""
	}
	return strings.TrimSpace(row[idx])
}

var sheetEpoch = time.Date(2000, 1, 1, 0, 0, 0, 0, time.UTC)

func (s *sheet) finishes(rows [][]string) ([]regatta.Finish, error) {
	var out []regatta.Finish
	last := make(map[regatta.Race]time.Time)
	for i, row := range rows {
		if isBlank(row) {
			continue
		}
		f, err := s.finish(row)
		if err != nil {
			return nil, fmt.Errorf("row %d: %w", i+2, err)
		}
		if f.Timestamp.IsZero() {
			if prev, ok := last[f.Race]; ok {
				f.Timestamp = prev.Add(time.Second)
			} else {
				f.Timestamp = sheetEpoch.Add(time.Duration(i) * time.Second)
			}
		}
		last[f.Race] = f.Timestamp
		out = append(out, f)
	}
	if len(out) == 0 {
		return nil, fmt.Errorf("finish sheet has no finishes")
	}
	return out, nil
}

func (s *sheet) finish(row []string) (regatta.Finish, error) {
	race, err := regatta.ParseRace(s.cell(row, RACE_COL_NAME))
	if err != nil {
		return regatta.Finish{}, err
	}
	f := regatta.Finish{Race: race, TeamID: s.cell(row, TEAM_COL_NAME)}
	if f.TeamID == "" {
		return regatta.Finish{}, fmt.Errorf("missing team")
	}

	if raw := s.cell(row, TIME_COL_NAME); raw != "" {
		f.Timestamp, err = parseTime(raw)
		if err != nil {
			return regatta.Finish{}, err
		}
	}

	comment := s.cell(row, COMMENT_COL_NAME)
	if raw := s.cell(row, PENALTY_COL_NAME); raw != "" {
		kind, err := NormalizePenalty(raw)
		if err != nil {
			return regatta.Finish{}, err
		}
		f.Penalty = &regatta.Penalty{Kind: kind, Comment: comment}
	}
	if raw := s.cell(row, BREAKDOWN_COL_NAME); raw != "" {
		kind, err := NormalizeBreakdown(raw)
		if err != nil {
			return regatta.Finish{}, err
		}
		f.Breakdown = &regatta.Breakdown{Kind: kind, Comment: comment}
		if h := s.cell(row, HANDICAP_COL_NAME); h != "" {
			handicap, err := strconv.Atoi(numberRegex.FindString(h))
			if err != nil {
				return regatta.Finish{}, fmt.Errorf("invalid handicap %q", h)
			}
			f.Breakdown.Handicap = handicap
		}
	}
	if err := f.Validate(); err != nil {
		return regatta.Finish{}, err
	}
	return f, nil
}

func parseTime(raw string) (time.Time, error) {
	for _, layout := range timeLayouts {
		t, err := time.Parse(layout, raw)
		if err != nil {
			continue
		}
		if t.Year() == 0 {
			t = sheetEpoch.Add(t.Sub(time.Date(0, 1, 1, 0, 0, 0, 0, time.UTC)))
		}
		return t, nil
	}
	return time.Time{}, fmt.Errorf("invalid finish time %q", raw)
}

func isBlank(row []string) bool {
	for _, c := range row {
		if strings.TrimSpace(c) != "" {
			return false
		}
	}
	return true
}
