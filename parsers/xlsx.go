package parsers

import (
	"bytes"
	"fmt"

	"github.com/xuri/excelize/v2"

	"github.com/Nydauron/regattascore/regatta"
)

// XLSXParser reads the first sheet of a workbook as a finish sheet.
type XLSXParser struct{}

func NewXLSXParser() *XLSXParser {
	return &XLSXParser{}
}

func (p *XLSXParser) Parse(data []byte) ([]regatta.Finish, error) {
	f, err := excelize.OpenReader(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("failed to open XLSX file: %w", err)
	}
	defer f.Close()

	sheets := f.GetSheetList()
	if len(sheets) == 0 {
		return nil, fmt.Errorf("XLSX file has no sheets")
	}
	rows, err := f.GetRows(sheets[0])
	if err != nil {
		return nil, fmt.Errorf("failed to read sheet %q: %w", sheets[0], err)
	}
	if len(rows) == 0 {
		return nil, fmt.Errorf("sheet %q is empty", sheets[0])
	}

	s, err := newSheet(rows[0])
	if err != nil {
		return nil, err
	}
	return s.finishes(rows[1:])
}
