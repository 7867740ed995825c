package writers

import (
	"fmt"
	"io"
	"slices"

	"github.com/xuri/excelize/v2"

	"github.com/Nydauron/regattascore/report"
	"github.com/Nydauron/regattascore/rotation"
	"github.com/Nydauron/regattascore/scoring"
)

const (
	standingsSheet = "Standings"
	racesSheet     = "Races"
	rotationSheet  = "Rotation"
	defaultSheet   = "Sheet1"
)

type styles struct {
	header  int
	penalty int
	redress int
}

func newStyles(f *excelize.File) (styles, error) {
	var s styles
	var err error
	s.header, err = f.NewStyle(&excelize.Style{
		Fill: excelize.Fill{
			Type:    "pattern",
			Pattern: 1,
			Color:   []string{"1c399e"},
		},
		Alignment: &excelize.Alignment{
			Horizontal: "center",
		},
		Font: &excelize.Font{
			Color: "ffffff",
			Bold:  true,
		},
	})
	if err != nil {
		return s, err
	}
	s.penalty, err = f.NewStyle(&excelize.Style{
		Fill: excelize.Fill{
			Type:    "pattern",
			Pattern: 1,
			Color:   []string{"f71e1e"},
		},
	})
	if err != nil {
		return s, err
	}
	s.redress, err = f.NewStyle(&excelize.Style{
		Fill: excelize.Fill{
			Type:    "pattern",
			Pattern: 1,
			Color:   []string{"3cb03a"},
		},
		Font: &excelize.Font{
			Italic: true,
		},
	})
	return s, err
}

// WriteWorkbook exports results as an XLSX workbook: overall standings,
// one sheet per division standings and every race's finishing order.
func WriteWorkbook(w io.Writer, res report.Results) error {
	f := excelize.NewFile()
	defer f.Close()
	st, err := newStyles(f)
	if err != nil {
		return fmt.Errorf("failed to create workbook styles: %w", err)
	}

	if err := f.SetSheetName(defaultSheet, standingsSheet); err != nil {
		return err
	}
	if err := writeStandings(f, st, standingsSheet, res.Standings); err != nil {
		return err
	}
	for _, ds := range res.DivisionStandings {
		name := "Division " + ds.Division.String()
		if _, err := f.NewSheet(name); err != nil {
			return err
		}
		if err := writeStandings(f, st, name, ds.Standings); err != nil {
			return err
		}
	}

	if _, err := f.NewSheet(racesSheet); err != nil {
		return err
	}
	if err := writeRow(f, racesSheet, 1, []any{"Race", "Place", "Team", "Score", "Code", "Comment"}); err != nil {
		return err
	}
	if err := f.SetCellStyle(racesSheet, "A1", "F1", st.header); err != nil {
		return err
	}
	row := 2
	for _, race := range res.Races {
		for place, e := range race.Entries {
			code := e.Penalty
			if e.Breakdown != "" {
				code = e.Breakdown
			}
			if err := writeRow(f, racesSheet, row, []any{race.Race.String(), place + 1, e.Team, e.Score, code, e.Comment}); err != nil {
				return err
			}
			style := 0
			switch {
			case e.Penalty != "":
				style = st.penalty
			case e.Breakdown != "":
				style = st.redress
			}
			if style != 0 {
				if err := f.SetCellStyle(racesSheet, cellName(1, row), cellName(6, row), style); err != nil {
					return err
				}
			}
			row++
		}
	}

	return writeFile(f, w)
}

func writeStandings(f *excelize.File, st styles, sheet string, standings []scoring.Standing) error {
	if err := writeRow(f, sheet, 1, []any{"Rank", "Team", "Name", "Total", "Team Penalties", "Tiebreak"}); err != nil {
		return err
	}
	if err := f.SetCellStyle(sheet, "A1", "F1", st.header); err != nil {
		return err
	}
	for i, s := range standings {
		values := []any{s.Rank, s.Team.ID, s.Team.Name, s.Total, s.PenaltyPoints, s.Explanation}
		if err := writeRow(f, sheet, i+2, values); err != nil {
			return err
		}
	}
	return f.SetColWidth(sheet, "F", "F", 40)
}

// WriteRotationWorkbook exports a rotation as a grid of teams by races.
// Teams are listed in the given order, or sorted when teams is empty.
func WriteRotationWorkbook(w io.Writer, rot *rotation.Rotation, teams []string) error {
	f := excelize.NewFile()
	defer f.Close()
	st, err := newStyles(f)
	if err != nil {
		return fmt.Errorf("failed to create workbook styles: %w", err)
	}
	if err := f.SetSheetName(defaultSheet, rotationSheet); err != nil {
		return err
	}

	races := rot.Races()
	if len(teams) == 0 {
		seen := make(map[string]bool)
		for _, race := range races {
			for _, a := range rot.Assignments(race) {
				if !seen[a.TeamID] {
					seen[a.TeamID] = true
					teams = append(teams, a.TeamID)
				}
			}
		}
		slices.Sort(teams)
	}

	header := []any{"Team"}
	for _, race := range races {
		header = append(header, race.String())
	}
	if err := writeRow(f, rotationSheet, 1, header); err != nil {
		return err
	}
	if err := f.SetCellStyle(rotationSheet, "A1", cellName(len(header), 1), st.header); err != nil {
		return err
	}
	for i, team := range teams {
		values := []any{team}
		for _, race := range races {
			sail, ok := rot.Sail(race, team)
			if !ok {
				values = append(values, "")
				continue
			}
			values = append(values, string(sail))
		}
		if err := writeRow(f, rotationSheet, i+2, values); err != nil {
			return err
		}
	}
	return writeFile(f, w)
}

func writeRow(f *excelize.File, sheet string, row int, values []any) error {
	return f.SetSheetRow(sheet, cellName(1, row), &values)
}

func cellName(col, row int) string {
	name, err := excelize.CoordinatesToCellName(col, row)
	if err != nil {
		panic(err)
	}
	return name
}

func writeFile(f *excelize.File, w io.Writer) error {
	if _, err := f.WriteTo(w); err != nil {
		return fmt.Errorf("failed to write workbook: %w", err)
	}
	return nil
}
