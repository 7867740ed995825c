package writers

import (
	"fmt"
	"io"

	"gopkg.in/yaml.v3"

	"github.com/Nydauron/regattascore/regatta"
	"github.com/Nydauron/regattascore/report"
	"github.com/Nydauron/regattascore/rotation"
)

// RaceRotation is one race of a published rotation.
type RaceRotation struct {
	Race  regatta.Race          `yaml:"race"`
	Sails []rotation.Assignment `yaml:"sails"`
}

type RotationDocument struct {
	Rotation []RaceRotation `yaml:"Rotation"`
}

// NewRotationDocument lists every race of rot in chronological order.
func NewRotationDocument(rot *rotation.Rotation) RotationDocument {
	doc := RotationDocument{Rotation: make([]RaceRotation, 0)}
	for _, race := range rot.Races() {
		doc.Rotation = append(doc.Rotation, RaceRotation{Race: race, Sails: rot.Assignments(race)})
	}
	return doc
}

func WriteResults(w io.Writer, res report.Results) error {
	return writeYAML(w, &res)
}

func WriteRotation(w io.Writer, rot *rotation.Rotation) error {
	doc := NewRotationDocument(rot)
	return writeYAML(w, &doc)
}

func writeYAML(w io.Writer, v any) error {
	enc := yaml.NewEncoder(w)
	enc.SetIndent(2)
	if err := enc.Encode(v); err != nil {
		return fmt.Errorf("encoding to YAML failed: %w", err)
	}
	if err := enc.Close(); err != nil {
		return fmt.Errorf("encoding to YAML failed on close: %w", err)
	}
	return nil
}
