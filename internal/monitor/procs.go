package monitor

import (
	"context"
	"path"
	"strconv"
	"strings"

	"github.com/shirou/gopsutil/v4/process"

	"armoury/internal/execx"
	"armoury/internal/sysfs"
)

// GamingApps are the process-name fragments that mark a gaming session.
var GamingApps = []string{
	"steam", "lutris", "heroic", "bottles", "wine",
	"proton", "gamemoded", "gamemode", "minecraft", "dotnet",
}

// IsGaming reports whether any name contains a GamingApps fragment,
// ignoring case.
func IsGaming(names []string) bool {
	for _, n := range names {
		n = strings.ToLower(n)
		for _, app := range GamingApps {
			if strings.Contains(n, app) {
				return true
			}
		}
	}
	return false
}

// processNames lists running process names through gopsutil.
func processNames(ctx context.Context) ([]string, error) {
	procs, err := process.ProcessesWithContext(ctx)
	if err != nil {
		return nil, err
	}
	names := make([]string, 0, len(procs))
	for _, p := range procs {
		name, err := p.NameWithContext(ctx)
		if err != nil || name == "" {
			continue
		}
		names = append(names, name)
	}
	return names, nil
}

// procComm reads /proc/<pid>/comm for every numeric /proc entry.
func procComm(fs *sysfs.FS) []string {
	entries, err := fs.List("/proc")
	if err != nil {
		return nil
	}
	var names []string
	for _, e := range entries {
		if _, err := strconv.Atoi(e); err != nil {
			continue
		}
		if name := fs.ReadString(path.Join("/proc", e, "comm")); name != "" {
			names = append(names, name)
		}
	}
	return names
}

// psComm lists process names with `ps -eo comm`, skipping the header.
func psComm(ctx context.Context, r execx.Runner) []string {
	out, err := r.Run(ctx, "ps", "-eo", "comm")
	if err != nil {
		return nil
	}
	lines := strings.Split(out, "\n")
	var names []string
	for _, l := range lines[1:] {
		if l = strings.TrimSpace(l); l != "" {
			names = append(names, l)
		}
	}
	return names
}
