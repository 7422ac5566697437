package app

import (
	"context"
	"errors"
	"io"
	"testing"
	"time"

	armouryv1 "armoury/api/armoury/v1"

	"google.golang.org/grpc"
	"google.golang.org/protobuf/types/known/wrapperspb"
)

func TestAppPingNotRunning(t *testing.T) {
	stubDaemon(t, false, nil)

	app := &App{}
	if _, err := app.Ping(context.Background(), time.Second); err == nil || err.Error() != "daemon is not running" {
		t.Fatalf("expected daemon not running error, got %v", err)
	}
}

func TestAppPingSuccess(t *testing.T) {
	stubDaemon(t, true, func(ctx context.Context) (armouryv1.ArmouryClient, io.Closer, error) {
		conn := &fakeConn{
			invoke: func(ctx context.Context, method string, args interface{}, reply interface{}, opts ...grpc.CallOption) error {
				if method != armouryv1.Armoury_Ping_FullMethodName {
					t.Fatalf("unexpected method %s", method)
				}
				resp, ok := reply.(*wrapperspb.StringValue)
				if !ok {
					t.Fatalf("unexpected reply type %T", reply)
				}
				resp.Value = "pong"
				return nil
			},
		}
		return armouryv1.NewArmouryClient(conn), conn, nil
	})

	app := &App{}
	msg, err := app.Ping(context.Background(), 500*time.Millisecond)
	if err != nil {
		t.Fatalf("Ping returned error: %v", err)
	}
	if msg != "pong" {
		t.Fatalf("expected pong, got %q", msg)
	}
}

func TestAppPingDialError(t *testing.T) {
	stubDaemon(t, true, func(ctx context.Context) (armouryv1.ArmouryClient, io.Closer, error) {
		return nil, nil, errors.New("dial failed")
	})

	app := &App{}
	if _, err := app.Ping(context.Background(), time.Second); err == nil || err.Error() != "connect to daemon: dial failed" {
		t.Fatalf("expected wrapped dial error, got %v", err)
	}
}

func TestAppPingInvalidTimeout(t *testing.T) {
	stubDaemon(t, true, func(ctx context.Context) (armouryv1.ArmouryClient, io.Closer, error) {
		return nil, nil, errors.New("should not dial")
	})

	app := &App{}
	if _, err := app.Ping(context.Background(), 0); err == nil || err.Error() != "timeout must be greater than 0" {
		t.Fatalf("expected timeout error, got %v", err)
	}
}

func TestDaemonVersion(t *testing.T) {
	stubDaemon(t, true, func(ctx context.Context) (armouryv1.ArmouryClient, io.Closer, error) {
		conn := &fakeConn{
			invoke: func(ctx context.Context, method string, args interface{}, reply interface{}, opts ...grpc.CallOption) error {
				reply.(*wrapperspb.StringValue).Value = "1.1.0"
				return nil
			},
		}
		return armouryv1.NewArmouryClient(conn), conn, nil
	})

	app := &App{}
	v, err := app.DaemonVersion(context.Background(), time.Second)
	if err != nil || v != "1.1.0" {
		t.Fatalf("DaemonVersion = %q, %v", v, err)
	}
}

func TestStatusNotRunning(t *testing.T) {
	stubDaemon(t, false, nil)
	st, err := (&App{}).Status()
	if err != nil || st.Running {
		t.Fatalf("Status = %+v, %v", st, err)
	}
}
