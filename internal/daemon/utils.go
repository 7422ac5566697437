package daemon

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/user"
	"path/filepath"
	"runtime"
	"strconv"
	"strings"
	"time"

	"google.golang.org/protobuf/types/known/emptypb"
)

// SocketBaseName is the UNIX socket filename.
const SocketBaseName = "armoury.sock"

const pidFileName = "armoury.pid"

// SocketPath returns the full path to the UNIX socket.
// Order of precedence (first wins):
// 1) ARMOURY_SOCKET (absolute path to socket)
// 2) if runtime=linux:
//   - ARMOURY_RUNTIME_DIR or $XDG_RUNTIME_DIR or /run/user/<UID>
//     else:
//   - ARMOURY_RUNTIME_DIR or /tmp
func SocketPath() string {
	if explicit := os.Getenv("ARMOURY_SOCKET"); explicit != "" {
		return explicit
	}

	uid := currentUID()

	if rd := os.Getenv("ARMOURY_RUNTIME_DIR"); rd != "" {
		return filepath.Join(rd, SocketBaseName)
	}

	if runtime.GOOS == "linux" {
		if v := os.Getenv("XDG_RUNTIME_DIR"); v != "" {
			return filepath.Join(v, SocketBaseName)
		}
		return filepath.Join("/run/user", uid, SocketBaseName)
	}

	// keep it short, sun_path is limited
	return filepath.Join("/tmp", "armoury-"+uid+".sock")
}

// EnsureRuntimeDir creates the socket directory if it doesn't exist.
func EnsureRuntimeDir() error {
	return os.MkdirAll(filepath.Dir(SocketPath()), 0o700)
}

// PIDPath returns the full path to the PID file.
func PIDPath() string {
	return filepath.Join(filepath.Dir(SocketPath()), pidFileName)
}

// WritePID stores pid into the pid file.
func WritePID(pid int) error {
	if err := EnsureRuntimeDir(); err != nil {
		return err
	}
	return os.WriteFile(PIDPath(), []byte(fmt.Sprintf("%d\n", pid)), 0o600)
}

// RemovePID removes the pid file if it exists.
func RemovePID() error {
	if err := os.Remove(PIDPath()); err != nil && !errors.Is(err, os.ErrNotExist) {
		return err
	}
	return nil
}

// RunningPID returns the pid stored in the pid file.
func RunningPID() (int, error) {
	data, err := os.ReadFile(PIDPath())
	if err != nil {
		return 0, err
	}
	pid, err := strconv.Atoi(strings.TrimSpace(string(data)))
	if err != nil {
		return 0, fmt.Errorf("parse pid file: %w", err)
	}
	return pid, nil
}

// IsRunning pings the daemon and reports whether it answered within 300ms.
func IsRunning() bool {
	if _, err := os.Stat(SocketPath()); err != nil {
		return false
	}

	ctx, cancel := context.WithTimeout(context.Background(), 300*time.Millisecond)
	defer cancel()

	client, conn, err := Dial(ctx)
	if err != nil {
		return false
	}
	defer conn.Close()

	resp, err := client.Ping(ctx, &emptypb.Empty{})
	return err == nil && resp.GetValue() == PingReply
}

func currentUID() string {
	u, err := user.Current()
	if err == nil && u != nil && u.Uid != "" {
		return u.Uid
	}
	return "0"
}
