package main

import (
	"context"
	"testing"
)

func TestNotifyContext_FollowsParent(t *testing.T) {
	t.Parallel()

	parent, cancel := context.WithCancel(context.Background())
	ctx, stop := notifyContext(parent)
	defer stop()

	if ctx.Err() != nil {
		t.Fatalf("context done before any signal: %v", ctx.Err())
	}
	cancel()
	<-ctx.Done()
}

func TestNotifyContext_StopReleases(t *testing.T) {
	t.Parallel()

	ctx, stop := notifyContext(context.Background())
	stop()
	if ctx.Err() == nil {
		t.Error("context still live after stop()")
	}
}
