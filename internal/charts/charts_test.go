package charts

import (
	"errors"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/felipepiassi/an-lise-de-dados-do-Censo-Escolar/internal/testutil"
	"github.com/felipepiassi/an-lise-de-dados-do-Censo-Escolar/pkg/contracts/domain"
)

func sampleSummaries() []domain.LocaleSummary {
	return []domain.LocaleSummary{
		{Locale: domain.LocaleRural, Members: 2, Means: domain.LevelTotals{EarlyChildhood: 1100, Elementary: 5150, Secondary: 475, AdultEducation: 645}},
		{Locale: domain.LocaleUrban, Members: 2, Means: domain.LevelTotals{EarlyChildhood: 4180, Elementary: 15525, Secondary: 7450, AdultEducation: 1200}},
	}
}

func TestRenderLocaleBarChart(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "matrículas_por_localizacao.png")

	require.NoError(t, RenderLocaleBarChart(sampleSummaries(), path))
	testutil.AssertNonEmptyFile(t, path)
	testutil.AssertFilePrefix(t, path, testutil.PNGMagic)
}

func TestRenderLocaleBarChartSingleLocale(t *testing.T) {
	path := filepath.Join(t.TempDir(), "bar.png")

	require.NoError(t, RenderLocaleBarChart(sampleSummaries()[1:], path))
	testutil.AssertFilePrefix(t, path, testutil.PNGMagic)
}

func TestRenderLocaleBarChartEmpty(t *testing.T) {
	path := filepath.Join(t.TempDir(), "bar.png")

	err := RenderLocaleBarChart(nil, path)
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrNoData))
	assert.False(t, testutil.FileExists(path))
}

func TestRenderClusterPieChart(t *testing.T) {
	path := filepath.Join(t.TempDir(), "distribuicao_clusters.png")
	shares := []domain.ClusterShare{
		{Cluster: 1, Count: 2, Percent: 50},
		{Cluster: 0, Count: 1, Percent: 25},
		{Cluster: 2, Count: 1, Percent: 25},
	}

	require.NoError(t, RenderClusterPieChart(shares, path))
	testutil.AssertNonEmptyFile(t, path)
	testutil.AssertFilePrefix(t, path, testutil.PNGMagic)
}

func TestRenderClusterPieChartEmpty(t *testing.T) {
	err := RenderClusterPieChart([]domain.ClusterShare{{Cluster: 0, Count: 0}}, filepath.Join(t.TempDir(), "pie.png"))
	assert.ErrorIs(t, err, ErrNoData)
}

func TestPieLabel(t *testing.T) {
	assert.Equal(t, "Cluster 2: 33.3%", PieLabel(domain.ClusterShare{Cluster: 2, Count: 1, Percent: 100.0 / 3}))
	assert.Equal(t, "Cluster 0: 50.0%", PieLabel(domain.ClusterShare{Cluster: 0, Count: 2, Percent: 50}))
}
