package charts

import (
	"fmt"

	"gonum.org/v1/plot"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/plotutil"
	"gonum.org/v1/plot/vg"

	"github.com/felipepiassi/an-lise-de-dados-do-Censo-Escolar/pkg/contracts/domain"
)

const (
	barWidth     = 18 * vg.Millimeter
	barImageW    = 8 * vg.Inch
	barImageH    = 5 * vg.Inch
	barTitleSize = 14
)

// RenderLocaleBarChart draws one group of bars per locale type, one bar
// per level group, and saves the plot to path. The format follows the
// file extension.
func RenderLocaleBarChart(summaries []domain.LocaleSummary, path string) error {
	if len(summaries) == 0 {
		return fmt.Errorf("locale bar chart: %w", ErrNoData)
	}

	p := plot.New()
	p.Title.Text = BarChartTitle
	p.Title.TextStyle.Font.Size = vg.Points(barTitleSize)
	p.X.Label.Text = BarChartXLabel
	p.Y.Label.Text = BarChartYLabel
	p.Y.Min = 0
	p.Legend.Top = true

	groups := len(domain.LevelGroups)
	for i, g := range domain.LevelGroups {
		values := make(plotter.Values, len(summaries))
		for j, s := range summaries {
			values[j] = s.Means.Get(g)
		}

		bars, err := plotter.NewBarChart(values, barWidth)
		if err != nil {
			return fmt.Errorf("failed to build bars for %s: %w", g.Label(), err)
		}
		bars.Color = plotutil.Color(i)
		bars.LineStyle.Width = vg.Length(0)
		bars.Offset = vg.Length(float64(i)-float64(groups-1)/2) * barWidth

		p.Add(bars)
		p.Legend.Add(g.Label(), bars)
	}

	labels := make([]string, len(summaries))
	for i, s := range summaries {
		labels[i] = s.Locale.String()
	}
	p.NominalX(labels...)

	if err := ensureParent(path); err != nil {
		return err
	}
	if err := p.Save(barImageW, barImageH, path); err != nil {
		return fmt.Errorf("failed to save bar chart: %w", err)
	}
	return nil
}
