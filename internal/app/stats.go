package app

import (
	"context"
	"fmt"
	"time"

	armouryv1 "armoury/api/armoury/v1"
	"armoury/internal/daemon"
	"armoury/internal/stats"

	"google.golang.org/protobuf/types/known/emptypb"
)

// SessionSummary returns the daemon's running session statistics.
func (a *App) SessionSummary(ctx context.Context, timeout time.Duration) (stats.Summary, error) {
	var sum stats.Summary
	err := a.withClient(ctx, timeout, func(ctx context.Context, client armouryv1.ArmouryClient) error {
		resp, err := client.GetSessionSummary(ctx, &emptypb.Empty{})
		if err != nil {
			return fmt.Errorf("daemon session RPC failed: %w", err)
		}
		return daemon.DecodeStruct(resp, &sum)
	})
	return sum, err
}

// StatsHistory loads the newest saved session summaries.
func (a *App) StatsHistory() ([]stats.Summary, error) {
	return stats.LoadHistory(a.statsDir)
}
