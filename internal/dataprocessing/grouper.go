package dataprocessing

import (
	"sort"
	"strings"

	"gonum.org/v1/gonum/stat"

	"github.com/felipepiassi/an-lise-de-dados-do-Censo-Escolar/pkg/contracts/domain"
)

// ClassifyLocale maps a locale label to its type. The match is a
// case-sensitive substring test and "Urbana" wins over "Rural".
func ClassifyLocale(locale string) domain.LocaleType {
	switch {
	case strings.Contains(locale, string(domain.LocaleUrban)):
		return domain.LocaleUrban
	case strings.Contains(locale, string(domain.LocaleRural)):
		return domain.LocaleRural
	default:
		return domain.LocaleOther
	}
}

// GroupByLocale averages the level totals of urban and rural records.
// Other locales are excluded. The result is ordered by locale type label.
func GroupByLocale(records []domain.AnalyzedRecord) []domain.LocaleSummary {
	// columns[locale][level] holds the totals of every member
	columns := make(map[domain.LocaleType][][]float64)

	for _, rec := range records {
		if !rec.LocaleType.Grouped() {
			continue
		}
		cols, ok := columns[rec.LocaleType]
		if !ok {
			cols = make([][]float64, len(domain.LevelGroups))
		}
		for i, v := range rec.Totals.Values() {
			cols[i] = append(cols[i], v)
		}
		columns[rec.LocaleType] = cols
	}

	summaries := make([]domain.LocaleSummary, 0, len(columns))
	for locale, cols := range columns {
		summaries = append(summaries, domain.LocaleSummary{
			Locale:  locale,
			Members: len(cols[0]),
			Means: domain.LevelTotals{
				EarlyChildhood: stat.Mean(cols[0], nil),
				Elementary:     stat.Mean(cols[1], nil),
				Secondary:      stat.Mean(cols[2], nil),
				AdultEducation: stat.Mean(cols[3], nil),
			},
		})
	}

	sort.Slice(summaries, func(i, j int) bool {
		return summaries[i].Locale < summaries[j].Locale
	})
	return summaries
}
