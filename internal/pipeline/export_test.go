package pipeline

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"

	"mizan/internal"
)

func TestExportCollectionToXLSX(t *testing.T) {
	products := []internal.Product{
		{Name: "Amul Butter", Brand: "Amul", CategorySlug: "dairy", Slug: "amul-butter",
			Nutrients: internal.Nutrients{internal.NutrientEnergyKcal: 722, internal.NutrientTotalFat: 80}},
	}
	result := Result{
		Collection: internal.Collection{Products: products},
		Categories: SummarizeCategories(products),
	}
	path := filepath.Join(t.TempDir(), "out", "report.xlsx")
	require.NoError(t, ExportCollectionToXLSX(result, path))

	f, err := excelize.OpenFile(path)
	require.NoError(t, err)
	defer f.Close()

	rows, err := f.GetRows(productsSheet)
	require.NoError(t, err)
	require.Len(t, rows, 2)
	assert.Equal(t, "amul-butter", rows[1][0])
	assert.Equal(t, "722", rows[1][5])
	assert.Equal(t, "2", rows[1][len(rows[1])-1])

	cats, err := f.GetRows(categoriesSheet)
	require.NoError(t, err)
	assert.Equal(t, [][]string{{"category_slug", "count"}, {"dairy", "1"}}, cats)
}
