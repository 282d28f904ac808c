package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"farmertwin/logging"
)

const shutdownTimeout = 15 * time.Second

// serve runs srv until it fails or the process gets SIGINT/SIGTERM, then
// shuts it down gracefully. beforeShutdown runs first so long-lived streams
// end instead of holding Shutdown open.
func serve(srv *http.Server, log logging.Logger, beforeShutdown func()) error {
	errCh := make(chan error, 1)
	go func() {
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	signalChan := make(chan os.Signal, 1)
	signal.Notify(signalChan, os.Interrupt, syscall.SIGTERM)
	defer signal.Stop(signalChan)

	select {
	case err := <-errCh:
		return err
	case sig := <-signalChan:
		log.Info(context.Background(), "caught signal, shutting down", "signal", sig.String())
	}

	if beforeShutdown != nil {
		beforeShutdown()
	}

	ctx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	return srv.Shutdown(ctx)
}
