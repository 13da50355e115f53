package main

import (
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"mindmap/config"
	"mindmap/editor"
	"mindmap/server"
	"mindmap/store"
)

// openStore returns the configured map store.
func (a *app) openStore() (store.Store, error) {
	switch a.cfg.Store.Backend {
	case config.StoreRedis:
		st, err := store.NewRedisStore(a.cfg.Store.RedisURL)
		if err != nil {
			return nil, fmt.Errorf("connect to redis: %w", err)
		}
		a.logger.Info("Using redis store", zap.String("url", a.cfg.Store.RedisURL))
		return st, nil
	default:
		return store.NewMemoryStore(), nil
	}
}

func (a *app) serveCmd() *cobra.Command {
	var addr, load string

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve the editing API over HTTP",
		Long: `Serve the editing API, Prometheus metrics on /metrics and a health
check on /health.

Examples:
  mindmap serve --addr :9090
  MINDMAP_STORE_BACKEND=redis mindmap serve --load plan
`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()

			cfg := a.cfg.Server
			if addr != "" {
				cfg.Addr = addr
			}

			st, err := a.openStore()
			if err != nil {
				return err
			}
			defer st.Close()

			metrics := server.NewMetrics("mindmap")
			ed, err := a.newEditor(editor.WithRecorder(metrics))
			if err != nil {
				return err
			}
			if load != "" {
				doc, err := st.Load(ctx, load)
				if err != nil {
					return err
				}
				if err := ed.ImportDocument(ctx, doc); err != nil {
					return err
				}
				a.logger.Info("Map loaded", zap.String("name", load), zap.Int("nodes", len(doc.Nodes)))
			}

			srv := server.New(ed, st,
				server.WithLogger(a.logger),
				server.WithMetrics(metrics),
				server.WithCORSOrigins(cfg.CORSOrigins),
			)
			return srv.Run(ctx, cfg)
		},
	}

	cmd.Flags().StringVar(&addr, "addr", "", "listen address (overrides server.addr)")
	cmd.Flags().StringVar(&load, "load", "", "load this stored map on start")

	return cmd
}
