// Package daemon serves the armoury.v1.Armoury gRPC service on a per-user
// UNIX socket and runs the monitor loop next to it.
package daemon

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net"
	"os"
	"sync"
	"syscall"
	"time"

	armouryv1 "armoury/api/armoury/v1"

	"google.golang.org/grpc"
)

// Server wraps the gRPC server, its UNIX listener and the background loop.
type Server struct {
	ln     net.Listener
	srv    *grpc.Server
	path   string
	log    *slog.Logger
	cancel context.CancelFunc
	wg     sync.WaitGroup
	once   sync.Once
}

// Path returns the socket path.
func (s *Server) Path() string { return s.path }

// Close stops serving, waits for the loop, then unlinks the socket and the
// pid file.
func (s *Server) Close() error {
	var err error
	s.once.Do(func() {
		s.cancel()
		s.srv.GracefulStop()
		s.wg.Wait()
		if rmErr := os.Remove(s.path); rmErr != nil && !errors.Is(rmErr, os.ErrNotExist) {
			err = rmErr
			return
		}
		err = RemovePID()
		s.log.Info("daemon stopped", "socket", s.path)
	})
	return err
}

// StartDaemon binds the socket, registers the service and starts serving.
// loop, when non-nil, runs until Close.
func StartDaemon(h Handlers, loop func(ctx context.Context) error) (*Server, error) {
	if err := EnsureRuntimeDir(); err != nil {
		return nil, fmt.Errorf("create runtime dir: %w", err)
	}
	path := SocketPath()

	// stale socket from a crashed daemon
	if _, err := os.Stat(path); err == nil {
		if IsRunning() {
			return nil, fmt.Errorf("daemon already running on %s", path)
		}
		if err := os.Remove(path); err != nil {
			return nil, err
		}
	}

	ln, err := net.Listen("unix", path)
	if err != nil {
		return nil, err
	}
	if err := os.Chmod(path, 0o600); err != nil {
		ln.Close()
		return nil, err
	}

	svc := newService(h)
	srv := grpc.NewServer()
	armouryv1.RegisterArmouryServer(srv, svc)

	ctx, cancel := context.WithCancel(context.Background())
	s := &Server{ln: ln, srv: srv, path: path, log: svc.log, cancel: cancel}
	if err := WritePID(os.Getpid()); err != nil {
		ln.Close()
		s.Close()
		return nil, err
	}

	s.wg.Add(1)
	go func() {
		defer s.wg.Done()
		if err := srv.Serve(ln); err != nil && !errors.Is(err, grpc.ErrServerStopped) {
			s.log.Error("serve", "err", err)
		}
	}()
	if loop != nil {
		s.wg.Add(1)
		go func() {
			defer s.wg.Done()
			if err := loop(ctx); err != nil {
				s.log.Error("background loop", "err", err)
			}
		}()
	}
	s.log.Info("daemon listening", "socket", path, "pid", os.Getpid())
	return s, nil
}

// StopRunningDaemon sends SIGTERM to the running daemon, then SIGKILL when
// force is set and it did not exit.
func StopRunningDaemon(force bool) error {
	pid, err := RunningPID()
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			if IsRunning() {
				return fmt.Errorf("daemon is running but PID file %q is missing; stop it manually", PIDPath())
			}
			return nil
		}
		return fmt.Errorf("unable to read daemon PID: %w", err)
	}
	if pid == os.Getpid() {
		return errors.New("refusing to stop current process")
	}
	proc, err := os.FindProcess(pid)
	if err != nil {
		return err
	}
	if err := sendSignal(proc, syscall.SIGTERM); err != nil {
		return err
	}
	if waitForShutdown(3 * time.Second) {
		return nil
	}
	if !force {
		return fmt.Errorf("daemon process %d did not exit after SIGTERM", pid)
	}
	if err := sendSignal(proc, syscall.SIGKILL); err != nil {
		return err
	}
	if waitForShutdown(2 * time.Second) {
		return nil
	}
	return fmt.Errorf("daemon process %d did not exit after SIGKILL", pid)
}

func sendSignal(proc *os.Process, sig syscall.Signal) error {
	if err := proc.Signal(sig); err != nil {
		if errors.Is(err, os.ErrProcessDone) {
			_ = RemovePID()
			return nil
		}
		return err
	}
	return nil
}

func waitForShutdown(timeout time.Duration) bool {
	deadline := time.Now().Add(timeout)
	for {
		if !IsRunning() {
			_ = RemovePID()
			return true
		}
		if time.Now().After(deadline) {
			return false
		}
		time.Sleep(100 * time.Millisecond)
	}
}
