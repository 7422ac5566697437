package app

import (
	"context"
	"errors"
	"io"
	"os"
	"path/filepath"
	"testing"

	armouryv1 "armoury/api/armoury/v1"
	"armoury/internal/execx"

	"google.golang.org/grpc"
	"google.golang.org/protobuf/types/known/structpb"
)

type fakeConn struct {
	invoke func(ctx context.Context, method string, args interface{}, reply interface{}, opts ...grpc.CallOption) error
}

func (f *fakeConn) Invoke(ctx context.Context, method string, args interface{}, reply interface{}, opts ...grpc.CallOption) error {
	if f.invoke != nil {
		return f.invoke(ctx, method, args, reply, opts...)
	}
	return nil
}

func (f *fakeConn) NewStream(ctx context.Context, desc *grpc.StreamDesc, method string, opts ...grpc.CallOption) (grpc.ClientStream, error) {
	return nil, errors.New("not implemented")
}

func (f *fakeConn) Close() error { return nil }

func stubDaemon(t *testing.T, running bool, dial func(context.Context) (armouryv1.ArmouryClient, io.Closer, error)) {
	t.Helper()
	resetDaemonDeps()
	daemonIsRunning = func() bool { return running }
	if dial == nil {
		dial = func(context.Context) (armouryv1.ArmouryClient, io.Closer, error) {
			return nil, nil, errors.New("dial not stubbed")
		}
	}
	dialDaemonClient = dial
	t.Cleanup(resetDaemonDeps)
}

// stubRPC answers a single method with a Struct built from fields.
func stubRPC(t *testing.T, method string, fields map[string]any, check func(args interface{})) {
	t.Helper()
	stubDaemon(t, true, func(ctx context.Context) (armouryv1.ArmouryClient, io.Closer, error) {
		conn := &fakeConn{
			invoke: func(ctx context.Context, got string, args interface{}, reply interface{}, opts ...grpc.CallOption) error {
				if got != method {
					t.Fatalf("unexpected method %s, want %s", got, method)
				}
				if check != nil {
					check(args)
				}
				out, ok := reply.(*structpb.Struct)
				if !ok {
					t.Fatalf("unexpected reply type %T", reply)
				}
				st, err := structpb.NewStruct(fields)
				if err != nil {
					t.Fatalf("NewStruct: %v", err)
				}
				out.Fields = st.Fields
				return nil
			},
		}
		return armouryv1.NewArmouryClient(conn), conn, nil
	})
}

// newTestApp builds an App over a temporary sysfs root with D-Bus off.
func newTestApp(t *testing.T, fake *execx.Fake) (*App, string) {
	t.Helper()
	root := t.TempDir()
	state := t.TempDir()
	for _, k := range []string{"ARMOURY_MONITOR_INTERVAL", "ARMOURY_COMMAND_TIMEOUT", "ARMOURY_AUTO_SWITCH", "ARMOURY_SYSFS_ROOT", "ARMOURY_LOG_LEVEL"} {
		t.Setenv(k, "")
	}
	a, err := New(Options{
		SysfsRoot:    root,
		Runner:       fake,
		DisableDBus:  true,
		ProfileDir:   filepath.Join(state, "profiles"),
		SettingsPath: filepath.Join(state, "settings.json"),
		StatsDir:     filepath.Join(state, "stats"),
		Getenv:       func(string) string { return "" },
	})
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	return a, root
}

func writeFixture(t *testing.T, root, p, content string) {
	t.Helper()
	full := filepath.Join(root, p)
	if err := os.MkdirAll(filepath.Dir(full), 0o755); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(full, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}
}

func readFixture(t *testing.T, root, p string) string {
	t.Helper()
	data, err := os.ReadFile(filepath.Join(root, p))
	if err != nil {
		t.Fatal(err)
	}
	return string(data)
}
