package http

import (
	"context"
	"errors"
	"fmt"
	"log"
	"net"
	"net/http"
	"time"

	"github.com/taobot/taobot/config"
	"github.com/taobot/taobot/constants"
	"github.com/taobot/taobot/utils"
)

const shutdownTimeout = 5 * time.Second

// StartServer listens on the configured address and serves the adapter's
// application until ctx is cancelled.
func StartServer(ctx context.Context, adapter *Adapter, cfg *config.Config) error {
	if cfg == nil {
		cfg = config.Default()
	}
	ln, err := net.Listen("tcp", cfg.Addr())
	if err != nil {
		return fmt.Errorf("listen on %s: %w", cfg.Addr(), err)
	}
	return Serve(ctx, ln, adapter)
}

// Serve builds the application eagerly and serves it on ln. A construction
// failure is returned before any request is accepted.
func Serve(ctx context.Context, ln net.Listener, adapter *Adapter) error {
	app, err := adapter.App(ctx)
	if err != nil {
		ln.Close()
		return err
	}
	handler, ok := app.(http.Handler)
	if !ok {
		handler = adapter
	}

	srv := &http.Server{
		Handler:           handler,
		ReadHeaderTimeout: 10 * time.Second,
		ErrorLog:          log.New(&utils.LoggerWriter{Fn: utils.Warn, Prefix: "http: "}, "", 0),
		BaseContext:       func(net.Listener) context.Context { return ctx },
	}

	port := 0
	if addr, ok := ln.Addr().(*net.TCPAddr); ok {
		port = addr.Port
	}
	utils.User(constants.LogServerRunning, port)

	errc := make(chan error, 1)
	go func() { errc <- srv.Serve(ln) }()

	select {
	case err := <-errc:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), shutdownTimeout)
	defer cancel()
	err = srv.Shutdown(shutdownCtx)
	if s, ok := app.(interface{ Shutdown(context.Context) error }); ok {
		if serr := s.Shutdown(shutdownCtx); serr != nil {
			utils.Warn("telemetry shutdown: %v", serr)
		}
	}
	<-errc
	utils.Info(constants.LogServerStopped)
	return err
}
