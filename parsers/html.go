package parsers

import (
	"bytes"
	"fmt"
	"regexp"
	"strings"

	"golang.org/x/net/html"

	"github.com/Nydauron/regattascore/regatta"
)

var finishesTableRegex = regexp.MustCompile(`\bfinishes\b`)

// HTMLParser reads the first <table class="finishes"> of a page. The row of
// <th> cells is the header; every row of <td> cells is a finish.
type HTMLParser struct{}

func NewHTMLParser() *HTMLParser {
	return &HTMLParser{}
}

func (p *HTMLParser) Parse(data []byte) ([]regatta.Finish, error) {
	header, rows, err := tokenizeTable(data)
	if err != nil {
		return nil, err
	}
	if header == nil {
		return nil, fmt.Errorf("no finishes table found")
	}
	s, err := newSheet(header)
	if err != nil {
		return nil, err
	}
	return s.finishes(rows)
}

func tokenizeTable(data []byte) ([]string, [][]string, error) {
	z := html.NewTokenizer(bytes.NewReader(data))
	isTable := false
	isHeaderCell := false
	isCell := false
	done := false

	var header []string
	var rows [][]string
	var row []string
	var cell strings.Builder
	for !done {
		tt := z.Next()
		switch tt {
		case html.ErrorToken:
			if isTable {
				return nil, nil, fmt.Errorf("finishes table is not closed: %w", z.Err())
			}
			done = true
		case html.StartTagToken:
			t := z.Token()
			switch t.Data {
			case "table":
				if header != nil || isTable {
					continue
				}
				for _, attr := range t.Attr {
					if attr.Key == "class" && finishesTableRegex.MatchString(attr.Val) {
						isTable = true
					}
				}
			case "tr":
				if isTable {
					row = nil
				}
			case "th", "td":
				if isTable {
					isHeaderCell = t.Data == "th"
					isCell = true
					cell.Reset()
				}
			}
		case html.TextToken:
			if isCell {
				cell.Write(z.Text())
			}
		case html.EndTagToken:
			t := z.Token()
			switch t.Data {
			case "th", "td":
				if isCell {
					row = append(row, strings.TrimSpace(cell.String()))
					isCell = false
				}
			case "tr":
				if !isTable || len(row) == 0 {
					continue
				}
				if isHeaderCell && header == nil {
					header = row
				} else {
					rows = append(rows, row)
				}
				row = nil
			case "table":
				if isTable {
					isTable = false
					done = true
				}
			}
		}
	}
	return header, rows, nil
}
