package cmd

import (
	"fmt"
	"sort"

	"github.com/spf13/cobra"

	"mizan/internal/pipeline"
	"mizan/internal/storage"
)

var cleanupCmd = &cobra.Command{
	Use:   "cleanup",
	Short: "Clean raw products into the catalog file",
	Long:  "Rewrite names, drop incomplete products, merge duplicates and assign slugs.",
	RunE:  runCleanup,
}

func init() {
	cleanupCmd.Flags().String("input", "", "raw products file (default RAW_PRODUCTS_PATH)")
	cleanupCmd.Flags().String("output", "", "cleaned products file (default CLEAN_PRODUCTS_PATH)")
	cleanupCmd.Flags().String("xlsx", "", "also write a review workbook to this path")
	cleanupCmd.Flags().Bool("no-db", false, "skip the sqlite snapshot")
}

func runCleanup(cmd *cobra.Command, args []string) error {
	opts := pipeline.CleanupOptions{InputPath: cfg.RawProductsPath, OutputPath: cfg.CleanProductsPath}
	if v, _ := cmd.Flags().GetString("input"); v != "" {
		opts.InputPath = v
	}
	if v, _ := cmd.Flags().GetString("output"); v != "" {
		opts.OutputPath = v
	}
	opts.XLSXPath, _ = cmd.Flags().GetString("xlsx")
	noDB, _ := cmd.Flags().GetBool("no-db")

	var db *storage.DB
	if cfg.SnapshotDB && !noDB {
		opened, err := openDB()
		if err != nil {
			return err
		}
		defer opened.Close()
		db = opened
	}

	res, err := pipeline.NewCleanupService(db, logger).Cleanup(cmd.Context(), opts)
	if err != nil {
		return err
	}

	s := res.Stats
	fmt.Printf("input=%d malformed=%d complete=%d unique=%d replaced=%d final=%d\n",
		s.Input, s.Malformed, s.Complete, s.Unique, s.Replaced, s.Final)
	reasons := make([]string, 0, len(s.Rejected))
	for reason := range s.Rejected {
		reasons = append(reasons, reason)
	}
	sort.Strings(reasons)
	for _, reason := range reasons {
		fmt.Printf("  rejected %s: %d\n", reason, s.Rejected[reason])
	}
	fmt.Println("categories:")
	for _, c := range res.Categories {
		fmt.Printf("  %s: %d\n", c.CategorySlug, c.Count)
	}
	fmt.Printf("saved to: %s (trace %s, %dms)\n", opts.OutputPath, res.TraceID, res.Elapsed.Milliseconds())
	return nil
}
