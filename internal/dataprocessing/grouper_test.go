package dataprocessing

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/felipepiassi/an-lise-de-dados-do-Censo-Escolar/pkg/contracts/domain"
)

func TestClassifyLocale(t *testing.T) {
	tests := []struct {
		locale string
		want   domain.LocaleType
	}{
		{"Urbana", domain.LocaleUrban},
		{"Rural", domain.LocaleRural},
		{"Urbana - Estadual", domain.LocaleUrban},
		{"Rural - Municipal", domain.LocaleRural},
		{"Rural e Urbana", domain.LocaleUrban},
		{"urbana", domain.LocaleOther},
		{"Total", domain.LocaleOther},
		{"", domain.LocaleOther},
	}

	for _, tt := range tests {
		t.Run(tt.locale, func(t *testing.T) {
			assert.Equal(t, tt.want, ClassifyLocale(tt.locale))
		})
	}
}

func TestGroupByLocale(t *testing.T) {
	summaries := GroupByLocale(Aggregate(loadFixture(t)))
	require.Len(t, summaries, 2)

	rural, urban := summaries[0], summaries[1]
	assert.Equal(t, domain.LocaleRural, rural.Locale)
	assert.Equal(t, 2, rural.Members)
	assert.Equal(t, domain.LevelTotals{
		EarlyChildhood: 1100,
		Elementary:     5150,
		Secondary:      475,
		AdultEducation: 645,
	}, rural.Means)

	assert.Equal(t, domain.LocaleUrban, urban.Locale)
	assert.Equal(t, 2, urban.Members)
	assert.Equal(t, domain.LevelTotals{
		EarlyChildhood: 4180,
		Elementary:     15525,
		Secondary:      7450,
		AdultEducation: 1200,
	}, urban.Means)
}

func TestGroupByLocaleExcludesOther(t *testing.T) {
	records := Aggregate([]domain.EnrollmentRecord{
		{Locale: "Sem classificação", Counts: domain.EnrollmentCounts{CrechePartial: 1000}},
		{Locale: "Urbana", Counts: domain.EnrollmentCounts{CrechePartial: 10}},
	})

	summaries := GroupByLocale(records)
	require.Len(t, summaries, 1)
	assert.Equal(t, domain.LocaleUrban, summaries[0].Locale)
	assert.Equal(t, 10.0, summaries[0].Means.EarlyChildhood)

	assert.Empty(t, GroupByLocale(Aggregate([]domain.EnrollmentRecord{{Locale: "Outro"}})))
}

func TestGroupByLocaleIncludesZeroTotals(t *testing.T) {
	records := Aggregate([]domain.EnrollmentRecord{
		{Locale: "Rural"},
		{Locale: "Rural - Estadual", Counts: domain.EnrollmentCounts{HighSchoolFull: 40}},
	})

	summaries := GroupByLocale(records)
	require.Len(t, summaries, 1)
	assert.Equal(t, 2, summaries[0].Members)
	assert.Equal(t, 20.0, summaries[0].Means.Secondary)
}
