package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
)

// shutdownSignals stop a render batch; files not yet rendered are reported
// as cancelled.
var shutdownSignals = []os.Signal{os.Interrupt, syscall.SIGTERM}

func notifyContext(parent context.Context) (context.Context, context.CancelFunc) {
	return signal.NotifyContext(parent, shutdownSignals...)
}
