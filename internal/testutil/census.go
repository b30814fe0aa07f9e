package testutil

import (
	"bytes"
	"encoding/csv"
	"testing"

	"golang.org/x/text/encoding/charmap"
)

// CensusHeader mirrors the 13-column header of the published census table
var CensusHeader = []string{
	"Localização",
	"Creche Parcial", "Creche Integral",
	"Pré-escola Parcial", "Pré-escola Integral",
	"Anos Iniciais Parcial", "Anos Iniciais Integral",
	"Anos Finais Parcial", "Anos Finais Integral",
	"Ensino Médio Parcial", "Ensino Médio Integral",
	"EJA Fundamental", "EJA Médio",
}

// censusSubheader is the second header line the loader discards
var censusSubheader = []string{
	"", "Total", "Total", "Total", "Total", "Total", "Total",
	"Total", "Total", "Total", "Total", "Total", "Total",
}

// CensusRows returns four valid locale rows: two urban, two rural
func CensusRows() [][]string {
	return [][]string{
		{"Urbana", "1.200", "3.400", "2.100", "1.500", "10.250", "4.300", "8.100", "2.200", "6.300", "1.100", "900", "750"},
		{"Rural", "300", "150", "500", "120", "2.400", "800", "1.900", "300", "700", "90", "410", "260"},
		{"Urbana - Estadual", "50", "10", "80", "20", "1.500", "600", "3.200", "900", "5.400", "2.100", "300", "450"},
		{"Rural - Municipal", "420", "60", "610", "40", "3.100", "500", "1.200", "100", "150", "10", "600", "20"},
	}
}

// MixedCensusRows returns CensusRows plus rows the loader must drop:
// two aggregates, a blank locale and an unparseable count.
func MixedCensusRows() [][]string {
	rows := [][]string{
		{"BRASIL", "1.970", "3.620", "3.290", "1.680", "17.250", "6.200", "14.400", "3.500", "12.550", "3.300", "2.210", "1.480"},
		{"Estadual", "50", "10", "80", "20", "1.500", "600", "3.200", "900", "5.400", "2.100", "300", "450"},
	}
	rows = append(rows, CensusRows()...)
	rows = append(rows,
		[]string{"  ", "1", "2", "3", "4", "5", "6", "7", "8", "9", "10", "11", "12"},
		[]string{"Urbana - Privada", "abc", "2", "3", "4", "5", "6", "7", "8", "9", "10", "11", "12"},
	)
	return rows
}

// EncodeCensusCSV renders header, subheader and rows as a ';'-delimited
// table in the given encoding ("latin1" or "utf8").
func EncodeCensusCSV(t *testing.T, header []string, rows [][]string, encoding string) []byte {
	t.Helper()

	var buf bytes.Buffer
	w := csv.NewWriter(&buf)
	w.Comma = ';'
	if err := w.Write(header); err != nil {
		t.Fatalf("failed to write header: %v", err)
	}
	if err := w.Write(censusSubheader); err != nil {
		t.Fatalf("failed to write subheader: %v", err)
	}
	if err := w.WriteAll(rows); err != nil {
		t.Fatalf("failed to write rows: %v", err)
	}

	if encoding == "utf8" {
		return buf.Bytes()
	}
	encoded, err := charmap.ISO8859_1.NewEncoder().Bytes(buf.Bytes())
	if err != nil {
		t.Fatalf("failed to encode fixture as latin1: %v", err)
	}
	return encoded
}

// WriteCensusCSV writes a Latin-1 census table into dir and returns its path
func WriteCensusCSV(t *testing.T, dir, name string, rows [][]string) string {
	t.Helper()
	return CreateTestFile(t, dir, name, EncodeCensusCSV(t, CensusHeader, rows, "latin1"))
}
