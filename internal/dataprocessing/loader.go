package dataprocessing

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"math"
	"os"
	"strconv"
	"strings"

	"golang.org/x/text/encoding/charmap"

	"github.com/felipepiassi/an-lise-de-dados-do-Censo-Escolar/internal/config"
	"github.com/felipepiassi/an-lise-de-dados-do-Censo-Escolar/pkg/contracts/domain"
)

var (
	// ErrMalformedTable is returned when the table does not have the census shape
	ErrMalformedTable = errors.New("malformed census table")
	// ErrUnparseableNumber is returned by ParseLocaleNumber for non-numeric cells
	ErrUnparseableNumber = errors.New("unparseable number")
)

// columnCount is the locale column plus the 12 enrollment counts
const columnCount = domain.NumericColumnCount + 1

// aggregateLabels are summary rows published alongside the locale rows
var aggregateLabels = map[string]struct{}{
	"BRASIL":               {},
	"Estadual e Municipal": {},
	"Estadual":             {},
	"Municipal":            {},
	"Privada":              {},
}

// IsAggregateLabel reports whether locale names a summary row rather than a locale
func IsAggregateLabel(locale string) bool {
	_, ok := aggregateLabels[locale]
	return ok
}

// ParseLocaleNumber parses a pt-BR formatted number such as "1.234,5".
// Every '.' is a thousands separator and ',' is the decimal mark.
func ParseLocaleNumber(s string) (float64, error) {
	cleaned := strings.TrimSpace(s)
	cleaned = strings.ReplaceAll(cleaned, ".", "")
	cleaned = strings.ReplaceAll(cleaned, ",", ".")

	v, err := strconv.ParseFloat(cleaned, 64)
	if err != nil {
		return 0, fmt.Errorf("%w: %q", ErrUnparseableNumber, s)
	}
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return 0, fmt.Errorf("%w: %q is not finite", ErrUnparseableNumber, s)
	}
	return v, nil
}

// LoadOptions controls how the raw table is decoded
type LoadOptions struct {
	Encoding  string
	Delimiter rune
}

// DefaultLoadOptions returns the options for the published census file
func DefaultLoadOptions() LoadOptions {
	return LoadOptions{
		Encoding:  config.EncodingLatin1,
		Delimiter: ';',
	}
}

// LoadOptionsFromConfig builds LoadOptions from the input section
func LoadOptionsFromConfig(cfg config.InputConfig) LoadOptions {
	opts := DefaultLoadOptions()
	if cfg.Encoding != "" {
		opts.Encoding = cfg.Encoding
	}
	if cfg.Delimiter != "" {
		opts.Delimiter = []rune(cfg.Delimiter)[0]
	}
	return opts
}

// LoadStats counts what happened to each data row
type LoadStats struct {
	RowsRead         int `json:"rows_read"`
	AggregateDropped int `json:"aggregate_dropped"`
	BlankDropped     int `json:"blank_locale_dropped"`
	InvalidDropped   int `json:"unparseable_dropped"`
	RowsKept         int `json:"rows_kept"`
}

// LoadResult is the cleaned table and the counters collected while cleaning it
type LoadResult struct {
	Records []domain.EnrollmentRecord
	Stats   LoadStats
}

// LoadFile opens path and loads it with Load
func LoadFile(path string, opts LoadOptions, logger *slog.Logger) (*LoadResult, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open census table: %w", err)
	}
	defer f.Close()

	result, err := Load(f, opts, logger)
	if err != nil {
		return nil, fmt.Errorf("failed to load %s: %w", path, err)
	}
	return result, nil
}

// Load reads the census table from r. The first row is the header and must
// be 13 columns wide; the second row is a sub-header and is skipped.
func Load(r io.Reader, opts LoadOptions, logger *slog.Logger) (*LoadResult, error) {
	if logger == nil {
		logger = slog.Default()
	}
	if opts.Delimiter == 0 {
		opts.Delimiter = ';'
	}

	var src io.Reader = r
	switch opts.Encoding {
	case "", config.EncodingLatin1:
		src = charmap.ISO8859_1.NewDecoder().Reader(r)
	case config.EncodingUTF8:
	default:
		return nil, fmt.Errorf("unsupported encoding %q", opts.Encoding)
	}

	reader := csv.NewReader(src)
	reader.Comma = opts.Delimiter
	reader.LazyQuotes = true
	reader.FieldsPerRecord = -1

	header, err := reader.Read()
	if err == io.EOF {
		return nil, fmt.Errorf("%w: missing header row", ErrMalformedTable)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read header: %w", err)
	}
	if len(header) != columnCount {
		return nil, fmt.Errorf("%w: header has %d columns, want %d", ErrMalformedTable, len(header), columnCount)
	}

	if _, err := reader.Read(); err != nil && err != io.EOF {
		return nil, fmt.Errorf("failed to read sub-header: %w", err)
	}

	result := &LoadResult{}
	stats := &result.Stats
	line := 2

	for {
		row, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("failed to read row: %w", err)
		}
		line++
		stats.RowsRead++

		if len(row) > columnCount {
			return nil, fmt.Errorf("%w: row %d has %d fields, want at most %d", ErrMalformedTable, line, len(row), columnCount)
		}

		locale := row[0]
		if strings.TrimSpace(locale) == "" {
			stats.BlankDropped++
			continue
		}
		if IsAggregateLabel(locale) {
			stats.AggregateDropped++
			continue
		}

		counts, ok := parseCounts(row[1:])
		if !ok {
			stats.InvalidDropped++
			continue
		}

		result.Records = append(result.Records, domain.EnrollmentRecord{
			Locale: locale,
			Counts: domain.CountsFromValues(counts),
		})
		stats.RowsKept++
	}

	logger.Info("census_table_loaded",
		slog.Int("rows_read", stats.RowsRead),
		slog.Int("rows_kept", stats.RowsKept),
		slog.Int("aggregate_dropped", stats.AggregateDropped),
		slog.Int("blank_locale_dropped", stats.BlankDropped),
		slog.Int("unparseable_dropped", stats.InvalidDropped))

	return result, nil
}

// parseCounts parses the numeric cells of a row. Missing and empty cells are 0.
func parseCounts(cells []string) ([domain.NumericColumnCount]float64, bool) {
	var values [domain.NumericColumnCount]float64
	for i := range values {
		if i >= len(cells) || strings.TrimSpace(cells[i]) == "" {
			continue
		}
		v, err := ParseLocaleNumber(cells[i])
		if err != nil {
			return values, false
		}
		values[i] = v
	}
	return values, true
}
