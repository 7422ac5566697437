package daemon

import (
	"context"
	"errors"
	"fmt"
	"net"
	"strings"

	armouryv1 "armoury/api/armoury/v1"

	"google.golang.org/grpc"
	"google.golang.org/grpc/connectivity"
	"google.golang.org/grpc/credentials/insecure"
)

// Dial opens a gRPC connection to the daemon socket and waits until it
// is ready or ctx ends.
func Dial(ctx context.Context) (armouryv1.ArmouryClient, *grpc.ClientConn, error) {
	return DialSocket(ctx, SocketPath())
}

// DialSocket is Dial for an explicit socket path.
func DialSocket(ctx context.Context, path string) (armouryv1.ArmouryClient, *grpc.ClientConn, error) {
	conn, err := grpc.NewClient(
		socketTarget(path),
		grpc.WithTransportCredentials(insecure.NewCredentials()),
		grpc.WithContextDialer(func(ctx context.Context, _ string) (net.Conn, error) {
			var d net.Dialer
			return d.DialContext(ctx, "unix", path)
		}),
	)
	if err != nil {
		return nil, nil, fmt.Errorf("create client: %w", err)
	}
	conn.Connect()
	if err := waitForReady(ctx, conn); err != nil {
		_ = conn.Close()
		return nil, nil, err
	}
	return armouryv1.NewArmouryClient(conn), conn, nil
}

func socketTarget(path string) string {
	if trimmed, ok := strings.CutPrefix(path, "/"); ok {
		return "unix:///" + trimmed
	}
	return "unix://" + path
}

func waitForReady(ctx context.Context, conn *grpc.ClientConn) error {
	for {
		state := conn.GetState()
		switch state {
		case connectivity.Ready:
			return nil
		case connectivity.Shutdown:
			return errors.New("grpc connection is shut down")
		}
		if !conn.WaitForStateChange(ctx, state) {
			if err := ctx.Err(); err != nil {
				return err
			}
			return fmt.Errorf("grpc connection stuck in state %s", state)
		}
	}
}
