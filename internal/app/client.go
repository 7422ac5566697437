package app

import (
	"context"
	"errors"
	"fmt"
	"io"
	"time"

	armouryv1 "armoury/api/armoury/v1"
	"armoury/internal/daemon"
)

// DefaultTimeout bounds a single daemon round trip.
const DefaultTimeout = 5 * time.Second

// ErrDaemonNotRunning is returned by daemon-only operations.
var ErrDaemonNotRunning = errors.New("daemon is not running")

var (
	daemonIsRunning  = daemon.IsRunning
	dialDaemonClient = dialSocket
)

func dialSocket(ctx context.Context) (armouryv1.ArmouryClient, io.Closer, error) {
	client, conn, err := daemon.Dial(ctx)
	if err != nil {
		return nil, nil, err
	}
	return client, conn, nil
}

func resetDaemonDeps() {
	daemonIsRunning = daemon.IsRunning
	dialDaemonClient = dialSocket
}

func (a *App) withClient(ctx context.Context, timeout time.Duration, fn func(context.Context, armouryv1.ArmouryClient) error) error {
	if timeout <= 0 {
		return errors.New("timeout must be greater than 0")
	}
	if !daemonIsRunning() {
		return ErrDaemonNotRunning
	}

	ctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	client, conn, err := dialDaemonClient(ctx)
	if err != nil {
		return fmt.Errorf("connect to daemon: %w", err)
	}
	if conn != nil {
		defer conn.Close()
	}

	return fn(ctx, client)
}

// viaDaemon runs fn against the daemon when it is up. It reports false
// without error when the caller should fall back to local execution.
func (a *App) viaDaemon(ctx context.Context, timeout time.Duration, fn func(context.Context, armouryv1.ArmouryClient) error) (bool, error) {
	if !daemonIsRunning() {
		return false, nil
	}
	if timeout <= 0 {
		timeout = DefaultTimeout
	}
	return true, a.withClient(ctx, timeout, fn)
}
