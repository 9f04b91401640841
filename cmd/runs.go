package main

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"text/tabwriter"

	"github.com/rotisserie/eris"
	"github.com/spf13/cobra"

	"github.com/forkful/recipe-cli/internal/model"
	"github.com/forkful/recipe-cli/internal/store"
)

var runsCmd = &cobra.Command{
	Use:   "runs",
	Short: "Inspect stored extractions",
	Long:  "Commands for listing, viewing, and deleting saved extraction results.",
}

// -- runs list --

var runsListCmd = &cobra.Command{
	Use:   "list",
	Short: "List saved extractions",
	RunE: func(cmd *cobra.Command, _ []string) error {
		ctx := cmd.Context()

		e, err := initEnv(ctx, true)
		if err != nil {
			return err
		}
		defer e.Close()

		source, _ := cmd.Flags().GetString("source")
		strategy, _ := cmd.Flags().GetString("strategy")
		limit, _ := cmd.Flags().GetInt("limit")

		filter := store.ListFilter{
			SourceURL: source,
			Strategy:  strategy,
			Limit:     limit,
		}

		extractions, err := e.Store.ListExtractions(ctx, filter)
		if err != nil {
			return eris.Wrap(err, "runs list")
		}

		if len(extractions) == 0 {
			fmt.Fprintln(os.Stderr, "No extractions found.")
			return nil
		}

		formatExtractionsList(os.Stdout, extractions)
		return nil
	},
}

// -- runs show --

var runsShowCmd = &cobra.Command{
	Use:   "show <extraction-id>",
	Short: "Show full details of an extraction",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()

		e, err := initEnv(ctx, true)
		if err != nil {
			return err
		}
		defer e.Close()

		extraction, err := e.Store.GetExtraction(ctx, args[0])
		if err != nil {
			return eris.Wrap(err, "runs show")
		}

		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		return enc.Encode(extraction)
	},
}

// -- runs delete --

var runsDeleteCmd = &cobra.Command{
	Use:   "delete <extraction-id>",
	Short: "Delete a saved extraction",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()

		e, err := initEnv(ctx, true)
		if err != nil {
			return err
		}
		defer e.Close()

		if err := e.Store.DeleteExtraction(ctx, args[0]); err != nil {
			return eris.Wrap(err, "runs delete")
		}
		fmt.Println("deleted", args[0])
		return nil
	},
}

func init() {
	runsListCmd.Flags().String("source", "", "filter by source URL")
	runsListCmd.Flags().String("strategy", "", "filter by strategy name (web, video, blocks)")
	runsListCmd.Flags().Int("limit", 50, "max number of extractions to display")

	runsCmd.AddCommand(runsListCmd)
	runsCmd.AddCommand(runsShowCmd)
	runsCmd.AddCommand(runsDeleteCmd)
	rootCmd.AddCommand(runsCmd)
}

// formatExtractionsList writes a tabular list of extractions to w.
func formatExtractionsList(out io.Writer, extractions []model.Extraction) {
	w := tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)
	_, _ = fmt.Fprintln(w, "ID\tRECIPE\tSTRATEGY\tSOURCE\tCREATED")
	_, _ = fmt.Fprintln(w, "--\t------\t--------\t------\t-------")

	for _, x := range extractions {
		name := x.Recipe.Name
		if name == "" {
			name = "(unnamed)"
		}
		if len(name) > 30 {
			name = name[:27] + "..."
		}

		source := x.SourceURL
		if len(source) > 40 {
			source = source[:37] + "..."
		}

		_, _ = fmt.Fprintf(w, "%s\t%s\t%s\t%s\t%s\n",
			truncateID(x.ID),
			name,
			x.Strategy,
			source,
			x.CreatedAt.Format("2006-01-02 15:04"),
		)
	}
	_ = w.Flush()
}

// truncateID returns the first 8 characters of a UUID for compact display.
func truncateID(id string) string {
	if len(id) > 8 {
		return id[:8]
	}
	return id
}
