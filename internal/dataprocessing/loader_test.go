package dataprocessing

import (
	"bytes"
	"errors"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/felipepiassi/an-lise-de-dados-do-Censo-Escolar/internal/testutil"
)

func TestParseLocaleNumber(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		want    float64
		wantErr bool
	}{
		{"thousands and decimal", "1.234,5", 1234.5, false},
		{"zero", "0", 0, false},
		{"plain integer", "42", 42, false},
		{"millions", "1.234.567", 1234567, false},
		{"surrounding spaces", "  12,25 ", 12.25, false},
		{"negative", "-3,5", -3.5, false},
		{"letters", "abc", 0, true},
		{"empty", "", 0, true},
		{"dash placeholder", "-", 0, true},
		{"nan", "NaN", 0, true},
		{"infinity", "Inf", 0, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ParseLocaleNumber(tt.input)
			if tt.wantErr {
				require.Error(t, err)
				assert.True(t, errors.Is(err, ErrUnparseableNumber))
				return
			}
			require.NoError(t, err)
			assert.InDelta(t, tt.want, got, 1e-9)
		})
	}
}

func TestIsAggregateLabel(t *testing.T) {
	for _, label := range []string{"BRASIL", "Estadual e Municipal", "Estadual", "Municipal", "Privada"} {
		assert.True(t, IsAggregateLabel(label), label)
	}
	for _, label := range []string{"Urbana", "Rural - Municipal", "brasil", " BRASIL", ""} {
		assert.False(t, IsAggregateLabel(label), label)
	}
}

func TestLoadMixedTable(t *testing.T) {
	path := testutil.WriteCensusCSV(t, t.TempDir(), "censo.csv", testutil.MixedCensusRows())

	result, err := LoadFile(path, DefaultLoadOptions(), nil)
	require.NoError(t, err)

	assert.Equal(t, LoadStats{
		RowsRead:         8,
		AggregateDropped: 2,
		BlankDropped:     1,
		InvalidDropped:   1,
		RowsKept:         4,
	}, result.Stats)

	require.Len(t, result.Records, 4)
	locales := make([]string, 0, len(result.Records))
	for _, rec := range result.Records {
		assert.False(t, IsAggregateLabel(rec.Locale))
		locales = append(locales, rec.Locale)
	}
	assert.Equal(t, []string{"Urbana", "Rural", "Urbana - Estadual", "Rural - Municipal"}, locales)

	first := result.Records[0].Counts
	assert.Equal(t, 1200.0, first.CrechePartial)
	assert.Equal(t, 10250.0, first.ElementaryPartial)
	assert.Equal(t, 750.0, first.AdultSecondary)
}

func TestLoadDecodesLatin1(t *testing.T) {
	rows := [][]string{
		{"Urbana - Pública", "1", "2", "3", "4", "5", "6", "7", "8", "9", "10", "11", "12"},
	}
	data := testutil.EncodeCensusCSV(t, testutil.CensusHeader, rows, "latin1")

	result, err := Load(bytes.NewReader(data), DefaultLoadOptions(), nil)
	require.NoError(t, err)
	require.Len(t, result.Records, 1)
	assert.Equal(t, "Urbana - Pública", result.Records[0].Locale)
}

func TestLoadUTF8(t *testing.T) {
	rows := [][]string{
		{"Rural - Pública", "1,5", "2", "3", "4", "5", "6", "7", "8", "9", "10", "11", "12"},
	}
	data := testutil.EncodeCensusCSV(t, testutil.CensusHeader, rows, "utf8")

	result, err := Load(bytes.NewReader(data), LoadOptions{Encoding: "utf8", Delimiter: ';'}, nil)
	require.NoError(t, err)
	require.Len(t, result.Records, 1)
	assert.Equal(t, "Rural - Pública", result.Records[0].Locale)
	assert.Equal(t, 1.5, result.Records[0].Counts.CrechePartial)
}

func TestLoadFillsMissingCells(t *testing.T) {
	rows := [][]string{
		{"Urbana", "10", "", "30"},
		{"Rural", "1", "2", "3", "4", "5", "6", "7", "8", "9", "10", "11", ""},
	}
	data := testutil.EncodeCensusCSV(t, testutil.CensusHeader, rows, "latin1")

	result, err := Load(bytes.NewReader(data), DefaultLoadOptions(), nil)
	require.NoError(t, err)
	require.Len(t, result.Records, 2)

	short := result.Records[0].Counts.Values()
	assert.Equal(t, 10.0, short[0])
	assert.Equal(t, 0.0, short[1])
	assert.Equal(t, 30.0, short[2])
	for _, v := range short[3:] {
		assert.Equal(t, 0.0, v)
	}
	assert.Equal(t, 0.0, result.Records[1].Counts.AdultSecondary)
}

func TestLoadMalformedTable(t *testing.T) {
	narrowHeader := testutil.CensusHeader[:12]
	wideRow := [][]string{
		{"Urbana", "1", "2", "3", "4", "5", "6", "7", "8", "9", "10", "11", "12", "13"},
	}

	tests := []struct {
		name string
		data []byte
	}{
		{"empty input", nil},
		{"narrow header", testutil.EncodeCensusCSV(t, narrowHeader, nil, "latin1")},
		{"row with extra fields", testutil.EncodeCensusCSV(t, testutil.CensusHeader, wideRow, "latin1")},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Load(bytes.NewReader(tt.data), DefaultLoadOptions(), nil)
			require.Error(t, err)
			assert.ErrorIs(t, err, ErrMalformedTable)
		})
	}
}

func TestLoadHeaderOnly(t *testing.T) {
	data := testutil.EncodeCensusCSV(t, testutil.CensusHeader, nil, "latin1")

	result, err := Load(bytes.NewReader(data), DefaultLoadOptions(), nil)
	require.NoError(t, err)
	assert.Empty(t, result.Records)
	assert.Zero(t, result.Stats.RowsRead)
}

func TestLoadUnsupportedEncoding(t *testing.T) {
	_, err := Load(strings.NewReader(""), LoadOptions{Encoding: "ebcdic"}, nil)
	assert.Error(t, err)
}

func TestLoadFileMissing(t *testing.T) {
	_, err := LoadFile(filepath.Join(t.TempDir(), "missing.csv"), DefaultLoadOptions(), nil)
	assert.Error(t, err)
}
