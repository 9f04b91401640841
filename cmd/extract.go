package main

import (
	"encoding/json"
	"fmt"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

var extractSave bool

var extractCmd = &cobra.Command{
	Use:   "extract <url>",
	Short: "Extract a recipe from a single URL",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()

		e, err := initEnv(ctx, extractSave)
		if err != nil {
			return err
		}
		defer e.Close()

		// A no-recipe outcome surfaces through main's error mapping so
		// the deferred store close still runs.
		result, err := extractURL(ctx, e, args[0])
		if err != nil {
			return err
		}

		if extractSave {
			saved, err := e.Store.SaveExtraction(ctx, args[0], result.Strategy, *result.Recipe)
			if err != nil {
				return err
			}
			zap.L().Info("extraction saved", zap.String("id", saved.ID))
		}

		out, err := json.MarshalIndent(result.Recipe, "", "  ")
		if err != nil {
			return err
		}
		fmt.Println(string(out))
		return nil
	},
}

func init() {
	extractCmd.Flags().BoolVar(&extractSave, "save", false, "persist the result to the store")
	rootCmd.AddCommand(extractCmd)
}
