package report

import (
	"fmt"

	"github.com/felipepiassi/an-lise-de-dados-do-Censo-Escolar/pkg/contracts/domain"
)

// MetricsHeaderLabel heads the first column of the metrics table
const MetricsHeaderLabel = "Nível de Ensino"

// MetricsTable is the grouped summary transposed: one row per level
// group, one column per locale type.
type MetricsTable struct {
	Header []string
	Rows   [][]string
}

// BuildMetricsTable transposes summaries, formatting means with two decimals
func BuildMetricsTable(summaries []domain.LocaleSummary) MetricsTable {
	header := make([]string, 0, len(summaries)+1)
	header = append(header, MetricsHeaderLabel)
	for _, s := range summaries {
		header = append(header, s.Locale.String())
	}

	rows := make([][]string, 0, len(domain.LevelGroups))
	for _, g := range domain.LevelGroups {
		row := make([]string, 0, len(summaries)+1)
		row = append(row, g.Label())
		for _, s := range summaries {
			row = append(row, fmt.Sprintf("%.2f", s.Means.Get(g)))
		}
		rows = append(rows, row)
	}

	return MetricsTable{Header: header, Rows: rows}
}
