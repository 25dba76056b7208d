package cli

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"github.com/charmbracelet/log"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/google/uuid"
	"github.com/spf13/cobra"

	sharc "github.com/gitpushjoe/sharc-sub000"
	"github.com/gitpushjoe/sharc-sub000/internal/demo"
	"github.com/gitpushjoe/sharc-sub000/worker"
)

func (c *CLI) serveCommand() *cobra.Command {
	var addr string
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve the demo scene to remote viewers over a websocket",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx := cmd.Context()
			logger := loggerFromContext(ctx)
			cfg, err := c.loadConfig()
			if err != nil {
				return err
			}
			srv := &http.Server{
				Addr:              addr,
				Handler:           newRouter(ctx, cfg, logger),
				ReadHeaderTimeout: 5 * time.Second,
			}
			go func() {
				<-ctx.Done()
				shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
				defer cancel()
				_ = srv.Shutdown(shutdownCtx)
			}()
			logger.Info("serving", "addr", addr, "ws", "/ws")
			if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
				return err
			}
			return nil
		},
	}
	cmd.Flags().StringVar(&addr, "addr", ":8080", "listen address")
	return cmd
}

// newRouter mounts the render endpoint. Each websocket connection gets its
// own renderer session running the demo scene.
func newRouter(ctx context.Context, cfg sharc.Config, logger *log.Logger) http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.Recoverer)

	r.Get("/healthz", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ok\n"))
	})
	r.Get("/ws", func(w http.ResponseWriter, req *http.Request) {
		ws, err := worker.Upgrade(w, req)
		if err != nil {
			logger.Warn("upgrade failed", "err", err)
			return
		}
		defer ws.Close()

		id := uuid.NewString()
		sl := logger.With("session", id)
		sl.Info("session started", "remote", req.RemoteAddr)

		rend := worker.NewRenderer(ws, cfg, func(rend *worker.Renderer, s *sharc.Stage) {
			demo.Build(s, func(ev string) {
				payload, _ := json.Marshal(map[string]string{"session": id, "event": ev})
				if err := rend.Custom(payload); err != nil {
					sl.Debug("custom not delivered", "err", err)
				}
			})
		}, worker.WithRendererLogger(sl))

		if err := rend.Run(ctx); err != nil && !errors.Is(err, context.Canceled) {
			sl.Warn("session ended", "err", err)
			return
		}
		sl.Info("session ended")
	})
	return r
}
