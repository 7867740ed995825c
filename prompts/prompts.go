package prompts

import (
	"bufio"
	"fmt"
	"io"
	"strconv"
	"strings"
	"time"

	"github.com/Nydauron/regattascore/regatta"
)

// Prompter asks line-based questions. Every question is repeated until the
// answer parses; running out of input returns io.ErrUnexpectedEOF.
type Prompter struct {
	in  *bufio.Reader
	out io.Writer
}

func New(in io.Reader, out io.Writer) *Prompter {
	return &Prompter{in: bufio.NewReader(in), out: out}
}

func (p *Prompter) Prompt(message string) (string, error) {
	fmt.Fprint(p.out, message)
	input, err := p.in.ReadString('\n')
	if err == io.EOF && input == "" {
		return "", io.ErrUnexpectedEOF
	}
	if err != nil && err != io.EOF {
		return "", err
	}
	return strings.TrimSpace(input), nil
}

func (p *Prompter) RegattaNamePrompt() (string, error) {
	for {
		userInput, err := p.Prompt("Regatta name: ")
		if err != nil {
			return "", err
		}
		if userInput != "" {
			return userInput, nil
		}
	}
}

func (p *Prompter) VenuePrompt() (string, error) {
	return p.Prompt("Venue (optional): ")
}

func (p *Prompter) RegattaDatePrompt() (time.Time, error) {
	for {
		userInput, err := p.Prompt("Regatta date (YYYY-MM-DD): ")
		if err != nil {
			return time.Time{}, err
		}
		if date, err := time.Parse(time.DateOnly, userInput); err == nil {
			return date, nil
		}
	}
}

// SetSizePrompt accepts an empty answer as defaultSize.
func (p *Prompter) SetSizePrompt(defaultSize int) (int, error) {
	for {
		userInput, err := p.Prompt(fmt.Sprintf("Races per set [%d]: ", defaultSize))
		if err != nil {
			return 0, err
		}
		if userInput == "" {
			return defaultSize, nil
		}
		if n, err := strconv.Atoi(userInput); err == nil && n > 0 {
			return n, nil
		}
	}
}

func (p *Prompter) ConfirmPrompt(message string) (bool, error) {
	for {
		userInput, err := p.Prompt(message + " (y/N) ")
		if err != nil {
			return false, err
		}
		switch strings.ToLower(userInput) {
		case "y", "yes":
			return true, nil
		case "n", "no", "":
			return false, nil
		}
	}
}

// FillMetadata asks for whatever of the regatta's name, venue and date is
// missing.
func (p *Prompter) FillMetadata(r *regatta.Regatta) error {
	var err error
	if r.Name == "" {
		if r.Name, err = p.RegattaNamePrompt(); err != nil {
			return err
		}
	}
	if r.Venue == "" {
		if r.Venue, err = p.VenuePrompt(); err != nil {
			return err
		}
	}
	if r.StartDate.IsZero() {
		if r.StartDate, err = p.RegattaDatePrompt(); err != nil {
			return err
		}
	}
	return nil
}
