package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"mizan/internal/catalog"
	"mizan/internal/config"
	"mizan/internal/pipeline"
)

var fetchCmd = &cobra.Command{
	Use:   "fetch",
	Short: "Harvest raw products from Open Food Facts",
	RunE:  runFetch,
}

func init() {
	fetchCmd.Flags().Int("limit", 0, "maximum products to fetch (default FETCH_LIMIT)")
	fetchCmd.Flags().String("output", "", "raw products file (default RAW_PRODUCTS_PATH)")
}

func runFetch(cmd *cobra.Command, args []string) error {
	limit, _ := cmd.Flags().GetInt("limit")
	if limit <= 0 {
		limit = cfg.FetchLimit
	}
	output, _ := cmd.Flags().GetString("output")
	if output == "" {
		output = cfg.RawProductsPath
	}
	if err := cfg.Require("OFF_API_BASE_URL", cfg.OFFAPIBaseURL); err != nil {
		return err
	}

	keywords, err := config.LoadKeywords(cfg.CatalogKeywordsPath)
	if err != nil {
		return err
	}

	svc := catalog.NewFetchService(cfg, keywords, logger)
	collection, err := svc.Fetch(cmd.Context(), limit)
	if err != nil {
		return err
	}
	if err := pipeline.WriteCollectionFile(output, collection); err != nil {
		return err
	}

	fmt.Printf("fetched %d products\n", len(collection.Products))
	fmt.Printf("saved to: %s\n", output)
	return nil
}
