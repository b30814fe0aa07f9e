package exporter

import (
	"github.com/felipepiassi/an-lise-de-dados-do-Censo-Escolar/pkg/contracts/domain"
)

// Sheet names of the exported tables
const (
	SummarySheet = "Resumo"
	RecordsSheet = "Registros"
	ClusterSheet = "Clusters"
)

// Table is a named grid of typed cells. Cells are string, float64, int or
// nil for a value that is not available.
type Table struct {
	Name    string
	Headers []string
	Rows    [][]interface{}
}

// StringRecords renders every row as CSV text
func (t Table) StringRecords() [][]string {
	records := make([][]string, len(t.Rows))
	for i, row := range t.Rows {
		rec := make([]string, len(row))
		for j, cell := range row {
			rec[j] = formatCell(cell)
		}
		records[i] = rec
	}
	return records
}

// Tables are the three exported views of one analysis run
type Tables struct {
	Summary  Table
	Records  Table
	Clusters Table
}

// BuildTables builds the summary, record and cluster tables
func BuildTables(analyzed []domain.AnalyzedRecord, summaries []domain.LocaleSummary, outcome domain.ClusterOutcome) Tables {
	return Tables{
		Summary:  SummaryTable(summaries),
		Records:  RecordsTable(analyzed),
		Clusters: ClusterTable(outcome),
	}
}

func levelLabels() []string {
	labels := make([]string, len(domain.LevelGroups))
	for i, g := range domain.LevelGroups {
		labels[i] = g.Label()
	}
	return labels
}

func proportionLabels() []string {
	labels := make([]string, len(domain.LevelGroups))
	for i, g := range domain.LevelGroups {
		labels[i] = g.ProportionLabel()
	}
	return labels
}

// SummaryTable has one row per locale type with its mean level totals
func SummaryTable(summaries []domain.LocaleSummary) Table {
	headers := append([]string{"Tipo_Localizacao", "Membros"}, levelLabels()...)

	rows := make([][]interface{}, 0, len(summaries))
	for _, s := range summaries {
		row := []interface{}{s.Locale.String(), s.Members}
		for _, v := range s.Means.Values() {
			row = append(row, v)
		}
		rows = append(rows, row)
	}
	return Table{Name: SummarySheet, Headers: headers, Rows: rows}
}

// RecordsTable has every analyzed record with raw counts and derived
// columns. Proportions are empty when the grand total is zero.
func RecordsTable(records []domain.AnalyzedRecord) Table {
	headers := []string{domain.Columns[0], "Tipo_Localizacao"}
	headers = append(headers, domain.Columns[1:]...)
	headers = append(headers, levelLabels()...)
	headers = append(headers, "Total_Geral")
	headers = append(headers, proportionLabels()...)

	rows := make([][]interface{}, 0, len(records))
	for _, rec := range records {
		row := []interface{}{rec.Locale, rec.LocaleType.String()}
		for _, v := range rec.Counts.Values() {
			row = append(row, v)
		}
		for _, v := range rec.Totals.Values() {
			row = append(row, v)
		}
		row = append(row, rec.GrandTotal)
		row = append(row, proportionCells(rec)...)
		rows = append(rows, row)
	}
	return Table{Name: RecordsSheet, Headers: headers, Rows: rows}
}

// ClusterTable lists the clustering candidates with their cluster id.
// The id column is empty when clustering failed.
func ClusterTable(outcome domain.ClusterOutcome) Table {
	headers := []string{domain.Columns[0], "Tipo_Localizacao"}
	headers = append(headers, proportionLabels()...)
	headers = append(headers, "Cluster")

	// Labels is nil for a failed outcome
	labels, _ := outcome.Labels()

	rows := make([][]interface{}, 0, len(outcome.Candidates))
	for i, rec := range outcome.Candidates {
		row := []interface{}{rec.Locale, rec.LocaleType.String()}
		row = append(row, proportionCells(rec)...)
		if i < len(labels) {
			row = append(row, labels[i])
		} else {
			row = append(row, nil)
		}
		rows = append(rows, row)
	}
	return Table{Name: ClusterSheet, Headers: headers, Rows: rows}
}

func proportionCells(rec domain.AnalyzedRecord) []interface{} {
	cells := make([]interface{}, 0, len(domain.LevelGroups))
	for _, v := range rec.Proportions.Values() {
		if rec.ProportionsDefined {
			cells = append(cells, v)
		} else {
			cells = append(cells, nil)
		}
	}
	return cells
}
