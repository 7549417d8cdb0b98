package server

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"sync"
	"syscall"

	"go.uber.org/zap"
)

// ErrShutdownSignal is the cancel cause of a context stopped by WithSignal.
var ErrShutdownSignal = errors.New("shutdown signal received")

var shutdownSignals = []os.Signal{syscall.SIGINT, syscall.SIGTERM}

// WithSignal returns a context that is canceled on SIGINT or SIGTERM. The
// returned stop func releases the signal handler and cancels the context.
func WithSignal(ctx context.Context, log *zap.Logger) (context.Context, context.CancelFunc) {
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, shutdownSignals...)

	ctx, cancel := watchSignals(ctx, sigCh, log)

	var once sync.Once
	return ctx, func() {
		once.Do(func() {
			signal.Stop(sigCh)
			cancel()
		})
	}
}

// watchSignals cancels ctx with ErrShutdownSignal when sigCh delivers.
func watchSignals(ctx context.Context, sigCh <-chan os.Signal, log *zap.Logger) (context.Context, context.CancelFunc) {
	ctx, cancel := context.WithCancelCause(ctx)

	go func() {
		select {
		case sig := <-sigCh:
			log.Info("shutdown signal received", zap.String("signal", sig.String()))
			cancel(fmt.Errorf("%w: %s", ErrShutdownSignal, sig))
		case <-ctx.Done():
		}
	}()

	return ctx, func() { cancel(nil) }
}
