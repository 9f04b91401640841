package main

import (
	"bufio"
	"os"
	"strings"

	"github.com/rotisserie/eris"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/forkful/recipe-cli/internal/extract"
)

var batchFile string

var batchCmd = &cobra.Command{
	Use:   "batch [urls...]",
	Short: "Extract recipes from many URLs concurrently",
	Long:  "Extracts every URL given as an argument or read from --file (one per line). Failures are logged and skipped; results are persisted.",
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()

		urls := args
		if batchFile != "" {
			fromFile, err := readURLFile(batchFile)
			if err != nil {
				return err
			}
			urls = append(urls, fromFile...)
		}
		if len(urls) == 0 {
			return eris.New("batch: no urls given")
		}

		e, err := initEnv(ctx, true)
		if err != nil {
			return err
		}
		defer e.Close()

		maxConcurrent := cfg.Batch.MaxConcurrent
		if maxConcurrent <= 0 {
			maxConcurrent = 5
		}

		// Extractions share no state, so each URL is an independent unit.
		g, gCtx := errgroup.WithContext(ctx)
		g.SetLimit(maxConcurrent)

		var saved, failed int
		results := make(chan bool, len(urls))
		for _, u := range urls {
			g.Go(func() error {
				result, err := extractURL(gCtx, e, u)
				if err != nil {
					if extract.IsNoRecipe(err) {
						zap.L().Warn("batch: no recipe found", zap.String("url", u))
					} else {
						zap.L().Warn("batch: extraction failed",
							zap.String("url", u),
							zap.Error(err),
						)
					}
					results <- false
					return nil
				}
				if _, err := e.Store.SaveExtraction(gCtx, u, result.Strategy, *result.Recipe); err != nil {
					zap.L().Warn("batch: save failed",
						zap.String("url", u),
						zap.Error(err),
					)
					results <- false
					return nil
				}
				results <- true
				return nil
			})
		}
		_ = g.Wait()
		close(results)
		for ok := range results {
			if ok {
				saved++
			} else {
				failed++
			}
		}

		zap.L().Info("batch complete",
			zap.Int("urls", len(urls)),
			zap.Int("saved", saved),
			zap.Int("failed", failed),
		)
		return nil
	},
}

func readURLFile(path string) ([]string, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, eris.Wrapf(err, "batch: open %s", path)
	}
	defer f.Close()

	var urls []string
	scanner := bufio.NewScanner(f)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		urls = append(urls, line)
	}
	return urls, eris.Wrap(scanner.Err(), "batch: read urls")
}

func init() {
	batchCmd.Flags().StringVar(&batchFile, "file", "", "file of URLs, one per line")
	rootCmd.AddCommand(batchCmd)
}
