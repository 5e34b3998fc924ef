package cmd

import (
	"context"
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"mizan/internal/pipeline"
	"mizan/internal/storage"
)

var runsCmd = &cobra.Command{
	Use:   "runs",
	Short: "List recorded cleanup runs",
	RunE:  runRuns,
}

func init() {
	runsCmd.Flags().Int("limit", 10, "number of runs to show")
}

func runRuns(cmd *cobra.Command, args []string) error {
	limit, _ := cmd.Flags().GetInt("limit")

	db, err := openDB()
	if err != nil {
		return err
	}
	defer db.Close()

	return printRuns(cmd.Context(), os.Stdout, db, limit)
}

func printRuns(ctx context.Context, w io.Writer, db *storage.DB, limit int) error {
	last, err := db.GetMetadata(ctx, pipeline.LastRunKey)
	if err != nil {
		return err
	}
	if last != nil {
		fmt.Fprintf(w, "last cleanup: %s\n", *last)
	}

	runs, err := db.ListRuns(ctx, limit)
	if err != nil {
		return err
	}
	if len(runs) == 0 {
		fmt.Fprintln(w, "no runs recorded")
		return nil
	}
	for _, r := range runs {
		fmt.Fprintf(w, "%s  %s  %s -> %s  %.0fms  %s\n", r.CreatedAt, r.TraceID, r.InputPath, r.OutputPath, r.TotalMs, r.CountsJSON)
	}
	return nil
}
