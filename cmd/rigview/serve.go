package main

import (
	"encoding/json"
	"fmt"
	"log"
	"net/http"
	"time"

	"github.com/gorilla/mux"
	"github.com/rs/cors"
	"github.com/spf13/cobra"

	"github.com/phanxgames/rigview"
)

func newServeCmd() *cobra.Command {
	var addr, root string
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "serve assets and the character catalog over HTTP",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := Load(configFile)
			if err != nil {
				return err
			}
			if addr != "" {
				cfg.Serve.Addr = addr
			}
			if root != "" {
				cfg.Assets = root
			}
			server := &http.Server{
				Addr:              cfg.Serve.Addr,
				Handler:           newRouter(cfg),
				ReadHeaderTimeout: 10 * time.Second,
			}
			fmt.Printf("Serving %s on %s\n", cfg.Assets, cfg.Serve.Addr)
			return server.ListenAndServe()
		},
	}
	cmd.Flags().StringVar(&addr, "addr", "", "listen address (overrides config)")
	cmd.Flags().StringVar(&root, "root", "", "asset directory (overrides config)")
	return cmd
}

// newRouter builds the asset server:
//
//	GET /assets/{path}     raw asset files
//	GET /api/characters    the catalog, with the modes each entry declares
//	GET /healthz
func newRouter(cfg *Config) http.Handler {
	r := mux.NewRouter()
	r.Use(loggingMiddleware)

	r.HandleFunc("/healthz", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	}).Methods(http.MethodGet)
	r.HandleFunc("/api/characters", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, catalog(cfg))
	}).Methods(http.MethodGet)
	r.HandleFunc("/api/characters/{name}", func(w http.ResponseWriter, r *http.Request) {
		name := mux.Vars(r)["name"]
		var out []catalogEntry
		for _, e := range catalog(cfg) {
			if e.Name == name {
				out = append(out, e)
			}
		}
		if len(out) == 0 {
			http.Error(w, "character not found", http.StatusNotFound)
			return
		}
		writeJSON(w, out)
	}).Methods(http.MethodGet)

	files := http.StripPrefix("/assets/", http.FileServer(http.Dir(cfg.Assets)))
	r.PathPrefix("/assets/").Handler(files).Methods(http.MethodGet, http.MethodHead)

	c := cors.New(cors.Options{
		AllowedOrigins: cfg.Serve.Origins,
		AllowedMethods: []string{http.MethodGet, http.MethodHead, http.MethodOptions},
		AllowedHeaders: []string{"*"},
	})
	return c.Handler(r)
}

type catalogEntry struct {
	Name    string   `json:"name"`
	Costume string   `json:"costume"`
	Clip    string   `json:"clip,omitempty"`
	Modes   []string `json:"modes"`
	// Pairs maps each declared mode to its resolved binary and atlas.
	Pairs map[string]rigview.AssetPair `json:"pairs"`
}

func catalog(cfg *Config) []catalogEntry {
	out := make([]catalogEntry, 0, len(cfg.Characters))
	for _, ch := range cfg.Characters {
		e := catalogEntry{
			Name:    ch.Name,
			Costume: ch.Costume,
			Clip:    ch.Clip,
			Pairs:   make(map[string]rigview.AssetPair),
		}
		for _, m := range modes {
			if !ch.Asset.HasVariant(m) {
				continue
			}
			e.Modes = append(e.Modes, m.String())
			e.Pairs[m.String()] = rigview.Resolve(ch.Asset, m)
		}
		out = append(out, e)
	}
	return out
}

func writeJSON(w http.ResponseWriter, v any) {
	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(v); err != nil {
		log.Printf("encode response: %v", err)
	}
}

func loggingMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		wrapped := &responseWriter{ResponseWriter: w, statusCode: http.StatusOK}
		next.ServeHTTP(wrapped, r)
		log.Printf("%s %s - %d - %v", r.Method, r.URL.Path, wrapped.statusCode, time.Since(start))
	})
}

// responseWriter records the status code for logging.
type responseWriter struct {
	http.ResponseWriter
	statusCode int
}

func (rw *responseWriter) WriteHeader(code int) {
	rw.statusCode = code
	rw.ResponseWriter.WriteHeader(code)
}
