package cmd

import (
	"fmt"
	"path/filepath"
	"time"

	"github.com/spf13/cobra"

	"mizan/internal/pipeline"
)

var exportCmd = &cobra.Command{
	Use:   "export",
	Short: "Export the stored catalog snapshot to xlsx",
	RunE:  runExport,
}

func init() {
	exportCmd.Flags().String("out", "", "workbook path (default OUTPUT_DIR/catalog-<timestamp>.xlsx)")
}

func runExport(cmd *cobra.Command, args []string) error {
	out, _ := cmd.Flags().GetString("out")
	if out == "" {
		out = filepath.Join(cfg.OutputDir, fmt.Sprintf("catalog-%s.xlsx", time.Now().Format("20060102-150405")))
	}

	db, err := openDB()
	if err != nil {
		return err
	}
	defer db.Close()

	products, err := db.ListProducts(cmd.Context())
	if err != nil {
		return err
	}
	if err := pipeline.ExportProductsToXLSX(products, pipeline.SummarizeCategories(products), out); err != nil {
		return err
	}
	fmt.Printf("exported %d products to %s\n", len(products), out)
	return nil
}
