package app

import (
	"armoury/internal/daemon"
)

// DaemonStatus represents current information about the daemon process.
type DaemonStatus struct {
	Running bool
	PID     int
}

// Status returns whether the daemon is running and its PID if known.
func (a *App) Status() (DaemonStatus, error) {
	if !daemonIsRunning() {
		return DaemonStatus{Running: false}, nil
	}
	pid, err := daemon.RunningPID()
	if err != nil {
		return DaemonStatus{Running: true}, err
	}
	return DaemonStatus{Running: true, PID: pid}, nil
}

// StopDaemon attempts to stop the running daemon.
func (a *App) StopDaemon(force bool) error {
	return daemon.StopRunningDaemon(force)
}

// DaemonHandle holds a running daemon instance.
type DaemonHandle struct {
	srv *daemon.Server
}

// Close stops the running daemon instance.
func (h *DaemonHandle) Close() error {
	if h == nil || h.srv == nil {
		return nil
	}
	return h.srv.Close()
}

// StartDaemon serves the control socket and runs the monitor loop until
// the handle is closed.
func (a *App) StartDaemon() (*DaemonHandle, error) {
	mon := a.NewMonitor()
	srv, err := daemon.StartDaemon(daemon.Handlers{
		Power:    a.power,
		Battery:  a.battery,
		Profiles: a,
		Monitor:  mon,
		Logger:   a.log.With("component", "daemon"),
	}, mon.Run)
	if err != nil {
		return nil, err
	}
	return &DaemonHandle{srv: srv}, nil
}
