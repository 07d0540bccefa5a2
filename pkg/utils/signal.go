package utils

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"syscall"
)

var ErrSignal = errors.New("signal received")

// WithSignal returns a context cancelled with ErrSignal as its cause on
// SIGINT or SIGTERM.
func WithSignal(parentCtx context.Context) (context.Context, context.CancelCauseFunc) {
	ctx, cancel := context.WithCancelCause(parentCtx)

	sig := make(chan os.Signal, 1)
	signal.Notify(sig, syscall.SIGINT, syscall.SIGTERM)

	go func() {
		select {
		case s := <-sig:
			cancel(fmt.Errorf("%w: %s", ErrSignal, s))
		case <-ctx.Done():
		}
		signal.Stop(sig)
	}()

	return ctx, cancel
}
