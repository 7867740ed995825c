package main

import (
	"bytes"
	"fmt"
	"io"
	"log"
	"log/slog"
	"net/http"
	"net/url"
	"os"
	"os/signal"
	"path"
	"syscall"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/urfave/cli/v2"
	"golang.org/x/sync/errgroup"

	"github.com/Nydauron/regattascore/config"
	"github.com/Nydauron/regattascore/parsers"
	"github.com/Nydauron/regattascore/prompts"
	"github.com/Nydauron/regattascore/regatta"
	"github.com/Nydauron/regattascore/report"
	"github.com/Nydauron/regattascore/scoring"
	"github.com/Nydauron/regattascore/server"
	"github.com/Nydauron/regattascore/ui"
	"github.com/Nydauron/regattascore/writers"
)

const (
	configFlag      = "config"
	logLevelFlag    = "log-level"
	inputFlag       = "input"
	finishesFlag    = "finishes"
	outputFlag      = "output"
	divisionFlag    = "division"
	xlsxFlag        = "xlsx"
	chartFlag       = "chart"
	interactiveFlag = "interactive"
	shiftFlag       = "shift"
	addrFlag        = "addr"
)

var build string
var semanticVersion = "v0.1.0-dev" + build

type app struct {
	cfg    *config.Config
	logger *slog.Logger
}

func (a *app) before(cCtx *cli.Context) error {
	cfg, err := config.LoadConfig(cCtx.String(configFlag))
	if err != nil {
		return err
	}
	if level := cCtx.String(logLevelFlag); level != "" {
		cfg.Logging.Level = level
		if err := cfg.Validate(); err != nil {
			return err
		}
	}
	a.cfg = cfg
	a.logger = cfg.Logging.NewLogger(os.Stderr)
	slog.SetDefault(a.logger)
	return nil
}

// openInput opens a local file or fetches a URL.
func (a *app) openInput(location string) (io.ReadCloser, string, error) {
	if u, err := url.ParseRequestURI(location); err == nil && (u.Scheme == "http" || u.Scheme == "https") {
		a.logger.Info("fetching input", "url", u.String())
		resp, err := http.Get(u.String())
		if err != nil {
			return nil, "", fmt.Errorf("error occurred when trying to fetch page: %w", err)
		}
		if resp.StatusCode >= 400 {
			resp.Body.Close()
			return nil, "", fmt.Errorf("invalid HTTP status code received: %v", resp.Status)
		}
		return resp.Body, path.Base(u.Path), nil
	}
	f, err := os.Open(location)
	if err != nil {
		return nil, "", fmt.Errorf("provided input was neither a valid URL or a path to existing file: %v", location)
	}
	return f, location, nil
}

func (a *app) loadRegatta(cCtx *cli.Context) (*regatta.Regatta, error) {
	in, _, err := a.openInput(cCtx.String(inputFlag))
	if err != nil {
		return nil, err
	}
	defer in.Close()
	reg, err := parsers.ReadRegatta(in)
	if err != nil {
		return nil, err
	}

	if location := cCtx.String(finishesFlag); location != "" {
		sheet, name, err := a.openInput(location)
		if err != nil {
			return nil, err
		}
		defer sheet.Close()
		parser, err := parsers.GetParser(name)
		if err != nil {
			return nil, err
		}
		data, err := io.ReadAll(sheet)
		if err != nil {
			return nil, err
		}
		finishes, err := parser.Parse(data)
		if err != nil {
			return nil, fmt.Errorf("%s: %w", location, err)
		}
		if err := reg.AddFinishes(finishes...); err != nil {
			return nil, err
		}
		a.logger.Info("loaded finish sheet", "file", location, "finishes", len(finishes))
	}

	if cCtx.Bool(interactiveFlag) {
		if err := prompts.New(os.Stdin, os.Stderr).FillMetadata(reg); err != nil {
			return nil, err
		}
	}
	return reg, nil
}

func (a *app) score(cCtx *cli.Context) error {
	reg, err := a.loadRegatta(cCtx)
	if err != nil {
		return err
	}
	divisions, err := parseDivisions(reg, cCtx.StringSlice(divisionFlag))
	if err != nil {
		return err
	}

	res := report.Generate(reg, scoring.ComputeScores(reg), divisions...)
	a.logger.Info("scored regatta", "name", reg.Name, "races", len(res.Races), "teams", reg.FleetSize())

	// Each output renders into its own buffer; files are only written
	// once every render succeeded.
	outputs := []struct {
		location string
		render   func(io.Writer) error
	}{
		{cCtx.String(outputFlag), func(w io.Writer) error { return writers.WriteResults(w, res) }},
		{cCtx.String(xlsxFlag), func(w io.Writer) error { return writers.WriteWorkbook(w, res) }},
		{cCtx.String(chartFlag), func(w io.Writer) error { return writers.RenderStandingsChart(w, res) }},
	}
	buffers := make([]bytes.Buffer, len(outputs))
	g := new(errgroup.Group)
	for i, out := range outputs {
		if out.location == "" {
			continue
		}
		g.Go(func() error {
			return out.render(&buffers[i])
		})
	}
	if err := g.Wait(); err != nil {
		return err
	}
	for i, out := range outputs {
		if out.location == "" {
			continue
		}
		if err := writeOutput(out.location, &buffers[i]); err != nil {
			return err
		}
	}
	return nil
}

// parseDivisions parses division letters, rejecting those the regatta does
// not sail.
func parseDivisions(reg *regatta.Regatta, raw []string) ([]regatta.Division, error) {
	var divisions []regatta.Division
	for _, s := range raw {
		d, err := regatta.ParseDivision(s)
		if err != nil {
			return nil, err
		}
		divisions = append(divisions, d)
	}
	if err := reg.CheckDivisions(divisions...); err != nil {
		return nil, err
	}
	return divisions, nil
}

func writeOutput(location string, buf *bytes.Buffer) error {
	w := writers.Output(location)
	if _, err := buf.WriteTo(w); err != nil {
		w.Close()
		return err
	}
	return w.Close()
}

func (a *app) rotate(cCtx *cli.Context) error {
	in, _, err := a.openInput(cCtx.String(inputFlag))
	if err != nil {
		return err
	}
	defer in.Close()
	plan, err := parsers.ReadRotationPlan(in, planDefaults(a.cfg.Rotation))
	if err != nil {
		return err
	}

	if cCtx.Bool(interactiveFlag) {
		choice, err := ui.RunRotationForm(os.Stdin, os.Stderr, ui.RotationChoice{
			Type:    plan.Type,
			Style:   plan.Style,
			SetSize: plan.SetSize,
		})
		if err != nil {
			return err
		}
		plan.Type, plan.Style, plan.SetSize = choice.Type, choice.Style, choice.SetSize
	}

	rot, err := plan.Build()
	if err != nil {
		return err
	}
	if n := cCtx.Int(shiftFlag); n != 0 {
		rot.ShiftSails(rot.Races(), n)
	}
	a.logger.Info("built rotation", "type", plan.Type, "style", plan.Style, "races", len(rot.Races()))

	var buf bytes.Buffer
	if err := writers.WriteRotation(&buf, rot); err != nil {
		return err
	}
	if err := writeOutput(cCtx.String(outputFlag), &buf); err != nil {
		return err
	}
	if location := cCtx.String(xlsxFlag); location != "" {
		buf.Reset()
		if err := writers.WriteRotationWorkbook(&buf, rot, plan.Teams); err != nil {
			return err
		}
		return writeOutput(location, &buf)
	}
	return nil
}

func planDefaults(c config.RotationConfig) parsers.RotationPlan {
	return parsers.RotationPlan{Type: c.Type, Style: c.Style, SetSize: c.SetSize}
}

func (a *app) serve(cCtx *cli.Context) error {
	if addr := cCtx.String(addrFlag); addr != "" {
		a.cfg.Server.Address = addr
	}
	ctx, stop := signal.NotifyContext(cCtx.Context, os.Interrupt, syscall.SIGTERM)
	defer stop()
	return server.New(a.cfg, a.logger, prometheus.NewRegistry()).Run(ctx)
}

func main() {
	a := &app{}
	outputUsage := "The location to write the YAML result. Can be a file path or \"-\" (for stdout)."
	cliApp := &cli.App{
		Name:    "regattascore",
		Usage:   "Score team racing regattas and build sail rotations",
		Version: semanticVersion,
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    configFlag,
				Usage:   "Path to the YAML configuration file",
				Value:   "config.yaml",
				EnvVars: []string{"REGATTASCORE_CONFIG"},
			},
			&cli.StringFlag{
				Name:  logLevelFlag,
				Usage: "Log level (debug, info, warn, error)",
			},
		},
		Before: a.before,
		Commands: []*cli.Command{
			{
				Name:  "score",
				Usage: "Score a regatta and rank its teams",
				Flags: []cli.Flag{
					&cli.StringFlag{
						Name:     inputFlag,
						Aliases:  []string{"i"},
						Usage:    "The URL or path to the regatta YAML document",
						Required: true,
					},
					&cli.StringFlag{
						Name:    finishesFlag,
						Aliases: []string{"f"},
						Usage:   "A finish sheet (CSV, XLSX or HTML) to add to the regatta",
					},
					&cli.StringFlag{
						Name:     outputFlag,
						Aliases:  []string{"o"},
						Usage:    outputUsage,
						Required: true,
					},
					&cli.StringSliceFlag{
						Name:    divisionFlag,
						Aliases: []string{"d"},
						Usage:   "Only score the given divisions",
					},
					&cli.StringFlag{
						Name:  xlsxFlag,
						Usage: "Also write the results as an XLSX workbook",
					},
					&cli.StringFlag{
						Name:  chartFlag,
						Usage: "Also write a PNG chart of running totals",
					},
					&cli.BoolFlag{
						Name:  interactiveFlag,
						Usage: "Ask for regatta details missing from the document",
					},
				},
				Action: a.score,
			},
			{
				Name:  "rotate",
				Usage: "Build a sail rotation from a rotation plan",
				Flags: []cli.Flag{
					&cli.StringFlag{
						Name:     inputFlag,
						Aliases:  []string{"i"},
						Usage:    "The URL or path to the rotation plan YAML document",
						Required: true,
					},
					&cli.StringFlag{
						Name:     outputFlag,
						Aliases:  []string{"o"},
						Usage:    outputUsage,
						Required: true,
					},
					&cli.StringFlag{
						Name:  xlsxFlag,
						Usage: "Also write the rotation as an XLSX workbook",
					},
					&cli.IntFlag{
						Name:  shiftFlag,
						Usage: "Add this number to every numeric sail",
					},
					&cli.BoolFlag{
						Name:  interactiveFlag,
						Usage: "Choose rotation type, style and set size interactively",
					},
				},
				Action: a.rotate,
			},
			{
				Name:  "serve",
				Usage: "Serve the scoring and rotation HTTP API",
				Flags: []cli.Flag{
					&cli.StringFlag{
						Name:  addrFlag,
						Usage: "Listen address, overriding the configuration",
					},
				},
				Action: a.serve,
			},
		},
	}

	if err := cliApp.Run(os.Args); err != nil {
		log.Fatal(err)
	}
}
