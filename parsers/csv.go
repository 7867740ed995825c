package parsers

import (
	"bytes"
	"encoding/csv"
	"fmt"
	"io"

	"github.com/Nydauron/regattascore/regatta"
)

// CSVParser reads finish sheets saved as CSV.
type CSVParser struct{}

func NewCSVParser() *CSVParser {
	return &CSVParser{}
}

func (p *CSVParser) Parse(data []byte) ([]regatta.Finish, error) {
	reader := csv.NewReader(bytes.NewReader(data))
	reader.FieldsPerRecord = -1
	reader.TrimLeadingSpace = true

	var records [][]string
	for {
		record, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("failed to read CSV: %w", err)
		}
		records = append(records, record)
	}
	if len(records) == 0 {
		return nil, fmt.Errorf("CSV file is empty")
	}

	s, err := newSheet(records[0])
	if err != nil {
		return nil, err
	}
	return s.finishes(records[1:])
}
