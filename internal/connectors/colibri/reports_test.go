package colibri

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tapsight-labs/possync/internal/core/domain"
)

func TestReportQuery_AllCategoriesMapped(t *testing.T) {
	for _, c := range domain.AllCategories {
		v, err := reportQuery(c, "2025-02-01", 42)
		require.NoError(t, err, "category %s", c)
		assert.NotEmpty(t, v.Get("query"))
		assert.Equal(t, "2025-02-01", v.Get("dtinicio"))
		assert.Equal(t, "2025-02-01", v.Get("dtfim"))
		assert.Equal(t, "42", v.Get("emp"))
	}
}

func TestReportQuery_CategoryFilters(t *testing.T) {
	v, err := reportQuery(domain.CategoryAnalitico, "2025-02-01", 1)
	require.NoError(t, err)
	assert.Equal(t, "0", v.Get("cancelados"))

	v, err = reportQuery(domain.CategoryStock, "2025-02-01", 1)
	require.NoError(t, err)
	assert.Equal(t, "fechamento", v.Get("posicao"))

	v, err = reportQuery(domain.CategoryPayments, "2025-02-01", 1)
	require.NoError(t, err)
	assert.Empty(t, v.Get("cancelados"))
}

func TestReportQuery_Unknown(t *testing.T) {
	_, err := reportQuery(domain.Category("bogus"), "2025-02-01", 1)
	assert.ErrorIs(t, err, ErrUnknownCategory)
}

func TestHashSecret(t *testing.T) {
	// Known SHA-1 vectors.
	assert.Equal(t, "da39a3ee5e6b4b0d3255bfef95601890afd80709", hashSecret(""))
	assert.Equal(t, "fef341f85d87439e7d91a2d465b9871ef66b5e98", hashSecret("s3cret"))
}
