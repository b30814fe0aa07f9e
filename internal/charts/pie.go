package charts

import (
	"fmt"
	"os"

	"github.com/wcharczuk/go-chart/v2"

	"github.com/felipepiassi/an-lise-de-dados-do-Censo-Escolar/pkg/contracts/domain"
)

const (
	pieSizePx    = 600
	pieTitleSize = 14
)

// PieLabel formats the slice label of a cluster share
func PieLabel(share domain.ClusterShare) string {
	return fmt.Sprintf("Cluster %d: %.1f%%", share.Cluster, share.Percent)
}

// RenderClusterPieChart draws one slice per cluster, in the order given,
// and writes a 600x600 PNG to path.
func RenderClusterPieChart(shares []domain.ClusterShare, path string) error {
	values := make([]chart.Value, 0, len(shares))
	for _, s := range shares {
		if s.Count <= 0 {
			continue
		}
		values = append(values, chart.Value{
			Value: float64(s.Count),
			Label: PieLabel(s),
		})
	}
	if len(values) == 0 {
		return fmt.Errorf("cluster pie chart: %w", ErrNoData)
	}

	pie := chart.PieChart{
		Title:      PieChartTitle,
		TitleStyle: chart.Style{FontSize: pieTitleSize},
		Width:      pieSizePx,
		Height:     pieSizePx,
		Values:     values,
	}

	if err := ensureParent(path); err != nil {
		return err
	}
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create pie chart file: %w", err)
	}
	if err := pie.Render(chart.PNG, f); err != nil {
		f.Close()
		return fmt.Errorf("failed to render pie chart: %w", err)
	}
	if err := f.Close(); err != nil {
		return fmt.Errorf("failed to close pie chart file: %w", err)
	}
	return nil
}
