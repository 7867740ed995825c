package server

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"mime"
	"net/http"
	"strings"

	"github.com/Nydauron/regattascore/parsers"
	"github.com/Nydauron/regattascore/regatta"
	"github.com/Nydauron/regattascore/report"
	"github.com/Nydauron/regattascore/rotation"
	"github.com/Nydauron/regattascore/scoring"
	"github.com/Nydauron/regattascore/writers"
)

const (
	regattaField  = "regatta"
	finishesField = "finishes"

	contentTypeYAML = "application/yaml"
	contentTypeXLSX = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"
	contentTypePNG  = "image/png"
)

// inputError marks a problem with what the client sent.
type inputError struct {
	kind string
	err  error
}

func (e *inputError) Error() string { return e.err.Error() }
func (e *inputError) Unwrap() error { return e.err }

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "text/plain")
	fmt.Fprintln(w, "ok")
}

// handleScore accepts either a regatta document as the body or a multipart
// form with a "regatta" document and an optional "finishes" sheet. The
// division and format (yaml, xlsx, png) query parameters shape the answer.
func (s *Server) handleScore(w http.ResponseWriter, r *http.Request) {
	reg, err := s.readRegatta(w, r)
	if err != nil {
		s.fail(w, r, err)
		return
	}

	var divisions []regatta.Division
	for _, raw := range r.URL.Query()["division"] {
		d, err := regatta.ParseDivision(raw)
		if err != nil {
			s.fail(w, r, &inputError{kind: "query", err: err})
			return
		}
		divisions = append(divisions, d)
	}
	if err := reg.CheckDivisions(divisions...); err != nil {
		s.fail(w, r, &inputError{kind: "query", err: err})
		return
	}

	scores := scoring.ComputeScores(reg)
	res := report.Generate(reg, scores, divisions...)
	s.metrics.racesScored.Add(float64(len(res.Races)))

	var buf bytes.Buffer
	switch format := r.URL.Query().Get("format"); format {
	case "", "yaml":
		w.Header().Set("Content-Type", contentTypeYAML)
		err = writers.WriteResults(&buf, res)
	case "xlsx":
		w.Header().Set("Content-Type", contentTypeXLSX)
		err = writers.WriteWorkbook(&buf, res)
	case "png":
		w.Header().Set("Content-Type", contentTypePNG)
		err = writers.RenderStandingsChart(&buf, res)
	default:
		s.fail(w, r, &inputError{kind: "query", err: fmt.Errorf("unknown format %q", format)})
		return
	}
	if err != nil {
		s.fail(w, r, err)
		return
	}
	loggerFrom(r.Context(), s.logger).Debug("scored regatta", "name", reg.Name, "races", len(res.Races))
	buf.WriteTo(w)
}

func (s *Server) readRegatta(w http.ResponseWriter, r *http.Request) (*regatta.Regatta, error) {
	r.Body = http.MaxBytesReader(w, r.Body, s.cfg.MaxUploadBytes)
	mediaType, _, _ := mime.ParseMediaType(r.Header.Get("Content-Type"))
	if !strings.HasPrefix(mediaType, "multipart/") {
		body, err := io.ReadAll(r.Body)
		if err != nil {
			return nil, err
		}
		reg, err := parsers.ReadRegatta(bytes.NewReader(body))
		if err != nil {
			return nil, &inputError{kind: "regatta", err: err}
		}
		return reg, nil
	}

	if err := r.ParseMultipartForm(s.cfg.MaxUploadBytes); err != nil {
		return nil, &inputError{kind: "form", err: err}
	}
	file, _, err := r.FormFile(regattaField)
	if err != nil {
		return nil, &inputError{kind: "form", err: fmt.Errorf("missing %q file: %w", regattaField, err)}
	}
	defer file.Close()
	reg, err := parsers.ReadRegatta(file)
	if err != nil {
		return nil, &inputError{kind: "regatta", err: err}
	}

	sheet, header, err := r.FormFile(finishesField)
	if errors.Is(err, http.ErrMissingFile) {
		return reg, nil
	}
	if err != nil {
		return nil, &inputError{kind: "form", err: err}
	}
	defer sheet.Close()
	parser, err := parsers.GetParser(header.Filename)
	if err != nil {
		return nil, &inputError{kind: "finishes", err: err}
	}
	data, err := io.ReadAll(sheet)
	if err != nil {
		return nil, &inputError{kind: "form", err: err}
	}
	finishes, err := parser.Parse(data)
	if err != nil {
		return nil, &inputError{kind: "finishes", err: err}
	}
	if err := reg.AddFinishes(finishes...); err != nil {
		return nil, &inputError{kind: "finishes", err: err}
	}
	return reg, nil
}

// handleRotation builds the rotation described by a rotation plan body.
// format=xlsx returns a workbook instead of YAML.
func (s *Server) handleRotation(w http.ResponseWriter, r *http.Request) {
	body, err := io.ReadAll(http.MaxBytesReader(w, r.Body, s.cfg.MaxUploadBytes))
	if err != nil {
		s.fail(w, r, err)
		return
	}
	defaults := parsers.RotationPlan{Type: s.rotation.Type, Style: s.rotation.Style, SetSize: s.rotation.SetSize}
	plan, err := parsers.ReadRotationPlan(bytes.NewReader(body), defaults)
	if err != nil {
		s.fail(w, r, &inputError{kind: "rotation", err: err})
		return
	}
	rot, err := plan.Build()
	if err != nil {
		s.fail(w, r, err)
		return
	}
	s.metrics.racesRotated.Add(float64(len(rot.Races())))

	var buf bytes.Buffer
	switch format := r.URL.Query().Get("format"); format {
	case "", "yaml":
		w.Header().Set("Content-Type", contentTypeYAML)
		err = writers.WriteRotation(&buf, rot)
	case "xlsx":
		w.Header().Set("Content-Type", contentTypeXLSX)
		err = writers.WriteRotationWorkbook(&buf, rot, plan.Teams)
	default:
		s.fail(w, r, &inputError{kind: "query", err: fmt.Errorf("unknown format %q", format)})
		return
	}
	if err != nil {
		s.fail(w, r, err)
		return
	}
	buf.WriteTo(w)
}

// fail maps err to a status code and reports it to the client.
func (s *Server) fail(w http.ResponseWriter, r *http.Request, err error) {
	logger := loggerFrom(r.Context(), s.logger)
	var inErr *inputError
	var cfgErr *rotation.ConfigError
	var tooLarge *http.MaxBytesError
	status := http.StatusInternalServerError
	switch {
	case errors.As(err, &tooLarge):
		status = http.StatusRequestEntityTooLarge
	case errors.As(err, &cfgErr):
		status = http.StatusUnprocessableEntity
		s.metrics.rejectedInput.WithLabelValues("rotation").Inc()
	case errors.As(err, &inErr):
		status = http.StatusBadRequest
		s.metrics.rejectedInput.WithLabelValues(inErr.kind).Inc()
	}
	if status == http.StatusInternalServerError {
		logger.Error("request failed", "error", err)
	} else {
		logger.Warn("rejected request", "status", status, "error", err)
	}
	w.Header().Del("Content-Type")
	http.Error(w, err.Error(), status)
}
