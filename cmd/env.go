package main

import (
	"context"

	"github.com/rotisserie/eris"
	"golang.org/x/time/rate"

	"github.com/forkful/recipe-cli/internal/extract"
	"github.com/forkful/recipe-cli/internal/fetch"
	"github.com/forkful/recipe-cli/internal/store"
	"github.com/forkful/recipe-cli/pkg/videometa"
)

// env bundles the wired collaborators shared by the commands.
type env struct {
	Fetcher  fetch.Fetcher
	Selector *extract.Selector
	Store    store.Store
}

func (e *env) Close() {
	if e.Store != nil {
		_ = e.Store.Close()
	}
}

// initEnv wires the fetcher, strategies and store from config. withStore
// is false for commands that only print results.
func initEnv(ctx context.Context, withStore bool) (*env, error) {
	weights := cfg.Extract.EffectiveWeights()

	video := videometa.New(cfg.Video.APIKey, videometa.WithBaseURL(cfg.Video.BaseURL))

	selector := extract.NewSelector(
		extract.NewVideoStrategy(video, weights),
		extract.NewBlockStrategy(weights),
		extract.NewWebStrategy(weights),
	)

	fetcher := fetch.NewHTTP(fetch.Options{
		UserAgent:   cfg.Fetch.UserAgent,
		Timeout:     cfg.Fetch.Timeout(),
		MaxRetries:  cfg.Fetch.MaxRetries,
		PerHostRate: rate.Limit(cfg.Fetch.PerHostRate),
	})

	e := &env{Fetcher: fetcher, Selector: selector}
	if !withStore {
		return e, nil
	}

	var (
		st  store.Store
		err error
	)
	switch cfg.Store.Driver {
	case "postgres":
		st, err = store.NewPostgres(ctx, cfg.Store.DatabaseURL)
	case "sqlite", "":
		st, err = store.NewSQLite(cfg.Store.DatabaseURL)
	default:
		return nil, eris.Errorf("unknown store driver: %s", cfg.Store.Driver)
	}
	if err != nil {
		return nil, err
	}
	if err := st.Migrate(ctx); err != nil {
		_ = st.Close()
		return nil, err
	}
	e.Store = st
	return e, nil
}

// extractURL fetches a page (skipped for video URLs, which need no
// document) and runs the strategy cascade.
func extractURL(ctx context.Context, e *env, url string) (*extract.Result, error) {
	src := &extract.Source{URL: url}
	if extract.VideoID(url) == "" {
		page, err := e.Fetcher.Fetch(ctx, url)
		if err != nil {
			return nil, err
		}
		src.Doc = page.Doc
		src.Body = page.Body
	}
	return e.Selector.Extract(ctx, src)
}
