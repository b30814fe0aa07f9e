package exporter

import (
	"bytes"
	"encoding/csv"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/felipepiassi/an-lise-de-dados-do-Censo-Escolar/internal/config"
)

func setupTestEnv(t *testing.T) (*CSVWriter, *config.Paths) {
	t.Helper()
	paths := config.NewPaths(filepath.Join(t.TempDir(), "relatorios"), config.TelemetryConfig{})
	return NewCSVWriter(paths, nil), paths
}

func readCSV(t *testing.T, path string) ([]byte, [][]string) {
	t.Helper()
	data, err := os.ReadFile(path)
	require.NoError(t, err)

	records, err := csv.NewReader(bytes.NewReader(bytes.TrimPrefix(data, utf8BOM))).ReadAll()
	require.NoError(t, err)
	return data, records
}

func TestCSVWriter_WriteCSV(t *testing.T) {
	tests := []struct {
		name    string
		options WriteOptions
		wantBOM bool
		want    [][]string
	}{
		{
			name: "with headers and BOM",
			options: WriteOptions{
				Headers:   []string{"Tipo_Localizacao", "Total_EJA"},
				Records:   [][]string{{"Rural", "645.00"}, {"Urbana", "1200.00"}},
				BOMPrefix: true,
			},
			wantBOM: true,
			want:    [][]string{{"Tipo_Localizacao", "Total_EJA"}, {"Rural", "645.00"}, {"Urbana", "1200.00"}},
		},
		{
			name: "records only",
			options: WriteOptions{
				Records: [][]string{{"a", "b"}},
			},
			want: [][]string{{"a", "b"}},
		},
		{
			name: "quotes fields with commas",
			options: WriteOptions{
				Headers: []string{"Localizacao"},
				Records: [][]string{{"Urbana, Estadual"}},
			},
			want: [][]string{{"Localizacao"}, {"Urbana, Estadual"}},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			writer, paths := setupTestEnv(t)

			require.NoError(t, writer.WriteCSV("out.csv", tt.options))

			data, records := readCSV(t, filepath.Join(paths.OutputDir, "out.csv"))
			assert.Equal(t, tt.wantBOM, bytes.HasPrefix(data, utf8BOM))
			assert.Equal(t, tt.want, records)
		})
	}
}

func TestCSVWriter_Overwrites(t *testing.T) {
	writer, paths := setupTestEnv(t)

	require.NoError(t, writer.WriteSimpleCSV("out.csv", []string{"h"}, [][]string{{"1"}, {"2"}}))
	require.NoError(t, writer.WriteSimpleCSV("out.csv", []string{"h"}, [][]string{{"3"}}))

	_, records := readCSV(t, filepath.Join(paths.OutputDir, "out.csv"))
	assert.Equal(t, [][]string{{"h"}, {"3"}}, records)
}

func TestCSVWriter_AbsolutePath(t *testing.T) {
	writer, _ := setupTestEnv(t)
	target := filepath.Join(t.TempDir(), "abs", "file.csv")

	require.NoError(t, writer.WriteSimpleCSV(target, []string{"h"}, nil))
	assert.FileExists(t, target)
}
