package writers

import (
	"bytes"
	"errors"
	"io"

	"github.com/wcharczuk/go-chart/v2"

	"github.com/Nydauron/regattascore/report"
)

const (
	chartWidth  = 1024
	chartHeight = 512
)

// RenderStandingsChart draws every team's running score total across the
// scored races as a PNG. Lower lines are better.
func RenderStandingsChart(w io.Writer, res report.Results) error {
	if len(res.Races) == 0 {
		return errors.New("no scored races to chart")
	}

	// Every line starts from zero before the first race.
	ticks := []chart.Tick{{Value: 0, Label: "Start"}}
	xValues := []float64{0}
	for i, race := range res.Races {
		xValues = append(xValues, float64(i+1))
		ticks = append(ticks, chart.Tick{Value: float64(i + 1), Label: race.Race.String()})
	}

	cumulative := res.Cumulative()
	series := make([]chart.Series, 0, len(res.Teams))
	for i, t := range res.Teams {
		totals := cumulative[t.ID]
		yValues := make([]float64, 0, len(totals)+1)
		yValues = append(yValues, 0)
		for _, v := range totals {
			yValues = append(yValues, float64(v))
		}
		series = append(series, chart.ContinuousSeries{
			Name:    t.Name,
			XValues: xValues,
			YValues: yValues,
			Style: chart.Style{
				StrokeColor: chart.GetDefaultColor(i),
				StrokeWidth: 2,
				DotWidth:    3,
				DotColor:    chart.GetDefaultColor(i),
			},
		})
	}

	graph := chart.Chart{
		Title:  res.Regatta.Name,
		Width:  chartWidth,
		Height: chartHeight,
		Background: chart.Style{
			Padding: chart.Box{Top: 40, Left: 20, Right: 20, Bottom: 20},
		},
		XAxis: chart.XAxis{
			Name:  "Race",
			Ticks: ticks,
		},
		YAxis: chart.YAxis{
			Name: "Points",
		},
		Series: series,
	}
	graph.Elements = []chart.Renderable{chart.LegendLeft(&graph)}

	buffer := bytes.NewBuffer([]byte{})
	if err := graph.Render(chart.PNG, buffer); err != nil {
		return err
	}
	_, err := buffer.WriteTo(w)
	return err
}
