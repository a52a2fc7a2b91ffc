//go:build windows

package main

import (
	"context"
	"os"
	"os/signal"
)

// notifyContext returns a context that is canceled on interrupt.
// Windows has no SIGTERM; marp-cli children are stopped by taskkill.
func notifyContext(parent context.Context) (context.Context, context.CancelFunc) {
	return signal.NotifyContext(parent, os.Interrupt)
}
