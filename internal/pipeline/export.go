package pipeline

import (
	"io"

	"github.com/xuri/excelize/v2"

	"mizan/internal"
)

const (
	productsSheet   = "products"
	categoriesSheet = "categories"
)

var exportNutrients = []string{
	internal.NutrientEnergyKcal,
	internal.NutrientProtein,
	internal.NutrientCarbohydrates,
	internal.NutrientSugar,
	internal.NutrientTotalFat,
	internal.NutrientSodium,
}

// ExportCollectionToXLSX writes a review workbook: one row per cleaned product
// and the per-category counts.
func ExportCollectionToXLSX(result Result, outputPath string) error {
	return ExportProductsToXLSX(result.Collection.Products, result.Categories, outputPath)
}

func ExportProductsToXLSX(products []internal.Product, categories []CategoryCount, outputPath string) error {
	staged, err := stageWorkbook(products, categories, outputPath)
	if err != nil {
		return err
	}
	return staged.Commit()
}

func stageWorkbook(products []internal.Product, categories []CategoryCount, outputPath string) (*stagedFile, error) {
	return stageFile(outputPath, func(w io.Writer) error {
		return writeWorkbook(w, products, categories)
	})
}

func writeWorkbook(w io.Writer, products []internal.Product, categories []CategoryCount) error {
	f := excelize.NewFile()
	defer f.Close()

	if err := f.SetSheetName(f.GetSheetName(0), productsSheet); err != nil {
		return err
	}
	if _, err := f.NewSheet(categoriesSheet); err != nil {
		return err
	}

	headers := []string{"slug", "name", "brand", "category", "category_slug"}
	headers = append(headers, exportNutrients...)
	headers = append(headers, "completeness")
	for i, h := range headers {
		cell, _ := excelize.CoordinatesToCellName(i+1, 1)
		_ = f.SetCellValue(productsSheet, cell, h)
	}

	for i, p := range products {
		r := i + 2
		set := func(col int, value any) {
			cell, _ := excelize.CoordinatesToCellName(col, r)
			_ = f.SetCellValue(productsSheet, cell, value)
		}

		set(1, p.Slug)
		set(2, p.Name)
		set(3, p.Brand)
		set(4, p.Category)
		set(5, p.CategorySlug)
		for j, key := range exportNutrients {
			set(6+j, p.Nutrients.Get(key))
		}
		set(6+len(exportNutrients), p.Nutrients.Completeness())
	}

	_ = f.SetCellValue(categoriesSheet, "A1", "category_slug")
	_ = f.SetCellValue(categoriesSheet, "B1", "count")
	for i, c := range categories {
		r := i + 2
		nameCell, _ := excelize.CoordinatesToCellName(1, r)
		countCell, _ := excelize.CoordinatesToCellName(2, r)
		_ = f.SetCellValue(categoriesSheet, nameCell, c.CategorySlug)
		_ = f.SetCellValue(categoriesSheet, countCell, c.Count)
	}

	_, err := f.WriteTo(w)
	return err
}
