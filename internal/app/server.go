package app

import (
	"context"
	"errors"
	"net/http"
	"time"

	"go.uber.org/zap"
)

const shutdownTimeout = 10 * time.Second

// Serve runs the HTTP server until ctx is cancelled, then shuts it down
// gracefully and releases the app's connections.
func (a *App) Serve(ctx context.Context) error {
	server := &http.Server{
		Addr:         "0.0.0.0:" + a.cfg.HTTP.Port,
		Handler:      a.router,
		ReadTimeout:  a.cfg.HTTP.ReadTimeout.Duration(),
		WriteTimeout: a.cfg.HTTP.WriteTimeout.Duration(),
		IdleTimeout:  a.cfg.HTTP.IdleTimeout.Duration(),
	}

	errCh := make(chan error, 1)
	go func() {
		a.log.Info("HTTP server listening",
			zap.String("app", string(a.kind)),
			zap.String("addr", server.Addr),
			zap.String("url", "http://localhost:"+a.cfg.HTTP.Port),
		)
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err, ok := <-errCh:
		if ok {
			_ = a.Close(context.Background())
			return err
		}
	case <-ctx.Done():
		a.log.Info("shutting down")
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		_ = a.Close(shutdownCtx)
		return err
	}
	return a.Close(shutdownCtx)
}
