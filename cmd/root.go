package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/forkful/recipe-cli/internal/config"
	"github.com/forkful/recipe-cli/internal/extract"
)

var cfg *config.Config

var rootCmd = &cobra.Command{
	Use:   "recipe-cli",
	Short: "Recipe extraction engine",
	Long: "Extracts structured recipes (ingredients, directions, timing, drink metadata)\n" +
		"from arbitrary web pages and video descriptions via graded-confidence strategies.",
	Example: `  recipe-cli extract https://example.com/best-chili --save
  recipe-cli batch --file urls.txt
  recipe-cli runs list --strategy web`,
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		c, err := config.Load()
		if err != nil {
			return fmt.Errorf("load config: %w", err)
		}
		cfg = c

		if err := config.InitLogger(cfg.Log); err != nil {
			return fmt.Errorf("init logger: %w", err)
		}

		return nil
	},
	PersistentPostRun: func(cmd *cobra.Command, args []string) {
		_ = zap.L().Sync()
	},
}

// exitMessage maps an execution error to the line printed on stderr.
// The exhausted-cascade outcome gets a plain message instead of an
// error dump.
func exitMessage(err error) string {
	if extract.IsNoRecipe(err) {
		return "no recipe found"
	}
	return "Error: " + err.Error()
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, exitMessage(err))
		os.Exit(1)
	}
}
