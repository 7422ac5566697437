package app

import (
	"context"
	"fmt"
	"time"

	armouryv1 "armoury/api/armoury/v1"

	"google.golang.org/protobuf/types/known/emptypb"
)

// Ping contacts the daemon and returns its health response.
func (a *App) Ping(ctx context.Context, timeout time.Duration) (string, error) {
	var reply string
	err := a.withClient(ctx, timeout, func(ctx context.Context, client armouryv1.ArmouryClient) error {
		resp, err := client.Ping(ctx, &emptypb.Empty{})
		if err != nil {
			return fmt.Errorf("daemon ping RPC failed: %w", err)
		}
		reply = resp.GetValue()
		return nil
	})
	return reply, err
}

// DaemonVersion asks the running daemon for its version.
func (a *App) DaemonVersion(ctx context.Context, timeout time.Duration) (string, error) {
	var v string
	err := a.withClient(ctx, timeout, func(ctx context.Context, client armouryv1.ArmouryClient) error {
		resp, err := client.GetVersion(ctx, &emptypb.Empty{})
		if err != nil {
			return fmt.Errorf("daemon version RPC failed: %w", err)
		}
		v = resp.GetValue()
		return nil
	})
	return v, err
}
