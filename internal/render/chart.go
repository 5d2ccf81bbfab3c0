package render

import (
	"errors"
	"fmt"
	"io"

	chart "github.com/wcharczuk/go-chart/v2"

	"dashboard/internal/models"
)

// ErrEmpty is returned for tables without entries; go-chart refuses to draw them.
var ErrEmpty = errors.New("nothing to draw")

const (
	chartHeight = 480
	barWidth    = 48
	barSpacing  = 16
	minWidth    = 480
)

// SVG draws t as a bar or pie chart depending on t.Chart.
func SVG(w io.Writer, t models.Table) error {
	if len(t.Items) == 0 {
		return ErrEmpty
	}
	switch t.Chart {
	case models.ChartPie:
		return pie(w, t)
	case models.ChartBar, "":
		return bars(w, t)
	}
	return fmt.Errorf("unknown chart type %q", t.Chart)
}

func values(t models.Table) ([]chart.Value, float64) {
	out := make([]chart.Value, 0, len(t.Items))
	maxCount := 0.0
	for _, it := range t.Items {
		v := float64(it.Count)
		if v > maxCount {
			maxCount = v
		}
		out = append(out, chart.Value{Label: it.Name, Value: v})
	}
	return out, maxCount
}

func bars(w io.Writer, t models.Table) error {
	vals, maxCount := values(t)
	width := len(vals)*(barWidth+barSpacing) + 160
	if width < minWidth {
		width = minWidth
	}

	bc := chart.BarChart{
		Title:      t.Title,
		Background: chart.Style{Padding: chart.Box{Top: 48, Left: 16, Right: 16, Bottom: 16}},
		Width:      width,
		Height:     chartHeight,
		BarWidth:   barWidth,
		BarSpacing: barSpacing,
		YAxis: chart.YAxis{
			Name:  "Number of Customers",
			Range: &chart.ContinuousRange{Min: 0, Max: maxCount},
		},
		Bars: vals,
	}
	if err := bc.Render(chart.SVG, w); err != nil {
		return fmt.Errorf("render bar chart: %w", err)
	}
	return nil
}

func pie(w io.Writer, t models.Table) error {
	vals, _ := values(t)
	pc := chart.PieChart{
		Title:  t.Title,
		Width:  chartHeight,
		Height: chartHeight,
		Values: vals,
	}
	if err := pc.Render(chart.SVG, w); err != nil {
		return fmt.Errorf("render pie chart: %w", err)
	}
	return nil
}
