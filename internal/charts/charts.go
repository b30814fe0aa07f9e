// Package charts renders the census summary and cluster distribution as PNG images.
//
// The grouped bar chart is drawn with gonum.org/v1/plot; the pie chart,
// which gonum/plot does not provide, with github.com/wcharczuk/go-chart/v2.
package charts

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
)

// ErrNoData is returned when a chart has nothing to draw
var ErrNoData = errors.New("no data to chart")

const (
	// BarChartTitle is the title of the locale bar chart
	BarChartTitle = "Média de Matrículas por Localização (Urbana vs. Rural)"
	// BarChartXLabel and BarChartYLabel name the bar chart axes
	BarChartXLabel = "Localização"
	BarChartYLabel = "Média de Matrículas"
	// PieChartTitle is the title of the cluster pie chart
	PieChartTitle = "Distribuição de Regiões por Perfil de Matrícula (Clusters)"
)

func ensureParent(path string) error {
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return fmt.Errorf("failed to create chart directory: %w", err)
	}
	return nil
}
