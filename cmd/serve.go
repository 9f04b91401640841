package main

import (
	"encoding/json"
	"fmt"
	"net/http"
	"os/signal"
	"strconv"
	"syscall"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/rotisserie/eris"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/forkful/recipe-cli/internal/extract"
	"github.com/forkful/recipe-cli/internal/store"
)

var servePort int

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the extraction HTTP API",
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
		defer stop()

		e, err := initEnv(ctx, true)
		if err != nil {
			return err
		}
		defer e.Close()

		r := chi.NewRouter()
		r.Use(middleware.RequestID)
		r.Use(middleware.Recoverer)
		r.Use(cors.Handler(cors.Options{
			AllowedOrigins: []string{"*"},
			AllowedMethods: []string{"GET", "POST", "DELETE"},
			AllowedHeaders: []string{"Content-Type"},
		}))

		r.Get("/health", func(w http.ResponseWriter, req *http.Request) {
			writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
		})

		r.Post("/extract", func(w http.ResponseWriter, req *http.Request) {
			var body struct {
				URL string `json:"url"`
			}
			if err := json.NewDecoder(req.Body).Decode(&body); err != nil {
				writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid request body"})
				return
			}
			if body.URL == "" {
				writeJSON(w, http.StatusBadRequest, map[string]string{"error": "url is required"})
				return
			}

			// Extraction can take several fetch round-trips, so the
			// request is acknowledged and the work runs in the
			// background against the server context.
			go func() {
				result, err := extractURL(ctx, e, body.URL)
				if err != nil {
					if extract.IsNoRecipe(err) {
						zap.L().Info("serve: no recipe found", zap.String("url", body.URL))
					} else {
						zap.L().Error("serve: extraction failed",
							zap.String("url", body.URL),
							zap.Error(err),
						)
					}
					return
				}
				saved, err := e.Store.SaveExtraction(ctx, body.URL, result.Strategy, *result.Recipe)
				if err != nil {
					zap.L().Error("serve: save failed",
						zap.String("url", body.URL),
						zap.Error(err),
					)
					return
				}
				zap.L().Info("serve: extraction complete",
					zap.String("url", body.URL),
					zap.String("id", saved.ID),
					zap.String("strategy", result.Strategy),
				)
			}()

			writeJSON(w, http.StatusAccepted, map[string]string{
				"status": "accepted",
				"url":    body.URL,
			})
		})

		r.Get("/recipes", func(w http.ResponseWriter, req *http.Request) {
			filter := store.ListFilter{
				SourceURL: req.URL.Query().Get("source"),
				Strategy:  req.URL.Query().Get("strategy"),
				Limit:     50,
			}
			if v := req.URL.Query().Get("limit"); v != "" {
				if n, err := strconv.Atoi(v); err == nil && n > 0 {
					filter.Limit = n
				}
			}

			extractions, err := e.Store.ListExtractions(req.Context(), filter)
			if err != nil {
				zap.L().Error("serve: list failed", zap.Error(err))
				writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "list failed"})
				return
			}
			writeJSON(w, http.StatusOK, extractions)
		})

		r.Get("/recipes/{id}", func(w http.ResponseWriter, req *http.Request) {
			extraction, err := e.Store.GetExtraction(req.Context(), chi.URLParam(req, "id"))
			if err != nil {
				writeJSON(w, http.StatusNotFound, map[string]string{"error": "not found"})
				return
			}
			writeJSON(w, http.StatusOK, extraction)
		})

		r.Delete("/recipes/{id}", func(w http.ResponseWriter, req *http.Request) {
			if err := e.Store.DeleteExtraction(req.Context(), chi.URLParam(req, "id")); err != nil {
				writeJSON(w, http.StatusNotFound, map[string]string{"error": "not found"})
				return
			}
			w.WriteHeader(http.StatusNoContent)
		})

		port := servePort
		if port == 0 {
			port = cfg.Server.Port
		}

		srv := &http.Server{
			Addr:    fmt.Sprintf(":%d", port),
			Handler: r,
		}

		// Graceful shutdown
		go func() {
			<-ctx.Done()
			zap.L().Info("shutting down server")
			srv.Shutdown(ctx)
		}()

		zap.L().Info("starting server", zap.Int("port", port))
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			return eris.Wrap(err, "server listen")
		}

		return nil
	},
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func init() {
	serveCmd.Flags().IntVar(&servePort, "port", 0, "server port (default from config)")
	rootCmd.AddCommand(serveCmd)
}
