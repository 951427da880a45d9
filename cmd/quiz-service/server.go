package main

import (
	"context"
	"errors"
	"log"
	"net"
	"net/http"
	"time"
)

// serve runs server on ln until ctx is cancelled, then drains in-flight
// requests. It returns only after the drain finished or timed out.
func serve(ctx context.Context, server *http.Server, ln net.Listener, drainTimeout time.Duration) error {
	drained := make(chan error, 1)
	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), drainTimeout)
		defer cancel()
		drained <- server.Shutdown(shutdownCtx)
	}()

	if err := server.Serve(ln); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	if err := <-drained; err != nil {
		log.Printf("shutdown: %v", err)
		return err
	}
	return nil
}
