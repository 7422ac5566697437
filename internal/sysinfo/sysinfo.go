// Package sysinfo gathers the static system overview: CPU, GPUs, memory,
// storage and operating system.
package sysinfo

import (
	"context"
	"fmt"
	"os"
	"regexp"
	"strconv"
	"strings"
	"time"

	"github.com/shirou/gopsutil/v4/disk"
	"github.com/shirou/gopsutil/v4/host"
	"github.com/shirou/gopsutil/v4/mem"
	"golang.org/x/sys/unix"

	"armoury/internal/execx"
	"armoury/internal/sysfs"
)

const unknown = "Unknown"

var (
	modelNameRe = regexp.MustCompile(`(?m)^model name\s*:\s*(.+)$`)
	memTotalRe  = regexp.MustCompile(`MemTotal:\s*(\d+)`)
	memAvailRe  = regexp.MustCompile(`MemAvailable:\s*(\d+)`)
	pciIDRe     = regexp.MustCompile(`(?i)\[([0-9a-f]{4}:[0-9a-f]{4})\]`)
	gpuNameRe   = regexp.MustCompile(`:\s*(.+?)\s*\[[0-9a-fA-F]{4}:[0-9a-fA-F]{4}\]`)
)

// CPU describes the processor.
type CPU struct {
	Model        string
	Cores        int
	Threads      int
	MaxFreqGHz   float64
	Architecture string
}

// GPU is one graphics controller reported by lspci.
type GPU struct {
	Name  string
	Type  string
	PCIID string
}

// Memory is the RAM usage in bytes.
type Memory struct {
	Total       uint64
	Used        uint64
	Available   uint64
	UsedPercent float64
}

// Volume is a mounted block device.
type Volume struct {
	Device      string
	Mountpoint  string
	Fstype      string
	Total       uint64
	Used        uint64
	Free        uint64
	UsedPercent float64
}

// OS describes the distribution and session.
type OS struct {
	Name    string
	Version string
	Kernel  string
	Desktop string
	Uptime  time.Duration
}

// Info is the full overview.
type Info struct {
	CPU     CPU
	GPUs    []GPU
	Memory  Memory
	Storage []Volume
	OS      OS
}

// Reader collects system information. The gopsutil readers are fields so
// tests can replace them.
type Reader struct {
	fs     *sysfs.FS
	runner execx.Runner
	getenv func(string) string

	virtualMemory func(context.Context) (*mem.VirtualMemoryStat, error)
	partitions    func(context.Context, bool) ([]disk.PartitionStat, error)
	usage         func(context.Context, string) (*disk.UsageStat, error)
	uptime        func(context.Context) (uint64, error)
	uname         func() (release, machine string)
}

// New returns a Reader backed by the live system.
func New(fs *sysfs.FS, r execx.Runner) *Reader {
	return &Reader{
		fs:            fs,
		runner:        r,
		getenv:        os.Getenv,
		virtualMemory: mem.VirtualMemoryWithContext,
		partitions:    disk.PartitionsWithContext,
		usage:         disk.UsageWithContext,
		uptime:        host.UptimeWithContext,
		uname:         uname,
	}
}

func uname() (string, string) {
	var u unix.Utsname
	if err := unix.Uname(&u); err != nil {
		return "", ""
	}
	return unix.ByteSliceToString(u.Release[:]), unix.ByteSliceToString(u.Machine[:])
}

// Collect gathers every section. Sections that fail are left zero.
func (r *Reader) Collect(ctx context.Context) Info {
	return Info{
		CPU:     r.CPU(),
		GPUs:    r.GPUs(ctx),
		Memory:  r.Memory(ctx),
		Storage: r.Storage(ctx),
		OS:      r.OS(ctx),
	}
}

// CPU parses /proc/cpuinfo. Cores counts distinct core ids and falls back
// to the thread count.
func (r *Reader) CPU() CPU {
	cpu := CPU{Model: unknown}
	raw, err := r.fs.Read("/proc/cpuinfo")
	if err == nil {
		if m := modelNameRe.FindStringSubmatch(raw); m != nil {
			cpu.Model = strings.TrimSpace(m[1])
		}
		cores := make(map[string]struct{})
		for _, line := range strings.Split(raw, "\n") {
			switch {
			case strings.HasPrefix(line, "core id"):
				if _, v, ok := strings.Cut(line, ":"); ok {
					cores[strings.TrimSpace(v)] = struct{}{}
				}
			case strings.HasPrefix(line, "processor"):
				cpu.Threads++
			}
		}
		cpu.Cores = len(cores)
		if cpu.Cores == 0 {
			cpu.Cores = cpu.Threads
		}
	}
	if khz, err := r.fs.ReadInt64("/sys/devices/system/cpu/cpu0/cpufreq/cpuinfo_max_freq"); err == nil {
		cpu.MaxFreqGHz = float64(khz) / 1e6
	}
	if _, machine := r.uname(); machine != "" {
		cpu.Architecture = machine
	} else {
		cpu.Architecture = unknown
	}
	return cpu
}

// GPUs lists VGA, 3D and Display controllers from `lspci -nn`.
func (r *Reader) GPUs(ctx context.Context) []GPU {
	fallback := []GPU{{Name: unknown, Type: unknown}}
	out, err := r.runner.Run(ctx, "lspci", "-nn")
	if err != nil {
		return fallback
	}
	var gpus []GPU
	for _, line := range strings.Split(out, "\n") {
		if !strings.Contains(line, "VGA") && !strings.Contains(line, "3D") && !strings.Contains(line, "Display") {
			continue
		}
		gpus = append(gpus, parseGPU(line))
	}
	if len(gpus) == 0 {
		return fallback
	}
	return gpus
}

func parseGPU(line string) GPU {
	g := GPU{Name: "Unknown GPU", Type: unknown}
	if m := gpuNameRe.FindStringSubmatch(line); m != nil {
		g.Name = m[1]
		// drop the class prefix, "VGA compatible controller [0300]: "
		if i := strings.LastIndex(g.Name, "]: "); i >= 0 {
			g.Name = g.Name[i+3:]
		}
	} else if parts := strings.SplitN(line, ":", 3); len(parts) == 3 {
		g.Name = strings.TrimSpace(parts[2])
	}
	name := strings.ToLower(g.Name)
	switch {
	case strings.Contains(name, "nvidia"):
		g.Type = "NVIDIA (Discrete)"
	case strings.Contains(name, "amd") || strings.Contains(name, "radeon"):
		g.Type = "AMD (Discrete)"
		for _, k := range []string{"vega", "integrated", "apu"} {
			if strings.Contains(name, k) {
				g.Type = "AMD (Integrated)"
			}
		}
	case strings.Contains(name, "intel"):
		g.Type = "Intel (Integrated)"
	}
	if m := pciIDRe.FindStringSubmatch(line); m != nil {
		g.PCIID = strings.ToLower(m[1])
	}
	return g
}

// Memory uses gopsutil and falls back to /proc/meminfo.
func (r *Reader) Memory(ctx context.Context) Memory {
	if vm, err := r.virtualMemory(ctx); err == nil && vm.Total > 0 {
		return Memory{Total: vm.Total, Used: vm.Used, Available: vm.Available, UsedPercent: vm.UsedPercent}
	}
	raw, err := r.fs.Read("/proc/meminfo")
	if err != nil {
		return Memory{}
	}
	var m Memory
	if t := memTotalRe.FindStringSubmatch(raw); t != nil {
		kb, _ := strconv.ParseUint(t[1], 10, 64)
		m.Total = kb * 1024
	}
	if a := memAvailRe.FindStringSubmatch(raw); a != nil && m.Total > 0 {
		kb, _ := strconv.ParseUint(a[1], 10, 64)
		m.Available = kb * 1024
		m.Used = m.Total - min(m.Available, m.Total)
		m.UsedPercent = float64(m.Used) / float64(m.Total) * 100
	}
	return m
}

// Storage lists mounted /dev block devices, skipping loop devices.
func (r *Reader) Storage(ctx context.Context) []Volume {
	parts, err := r.partitions(ctx, false)
	if err != nil {
		return nil
	}
	var vols []Volume
	seen := make(map[string]bool)
	for _, p := range parts {
		if !strings.HasPrefix(p.Device, "/dev/") || strings.Contains(p.Device, "loop") || seen[p.Mountpoint] {
			continue
		}
		seen[p.Mountpoint] = true
		v := Volume{Device: p.Device, Mountpoint: p.Mountpoint, Fstype: p.Fstype}
		if u, err := r.usage(ctx, p.Mountpoint); err == nil {
			v.Total, v.Used, v.Free, v.UsedPercent = u.Total, u.Used, u.Free, u.UsedPercent
		}
		vols = append(vols, v)
	}
	return vols
}

// OS reads /etc/os-release, the kernel release and the desktop session.
func (r *Reader) OS(ctx context.Context) OS {
	info := OS{Name: unknown, Version: unknown, Kernel: unknown, Desktop: unknown}
	if raw, err := r.fs.Read("/etc/os-release"); err == nil {
		for _, line := range strings.Split(raw, "\n") {
			k, v, ok := strings.Cut(line, "=")
			if !ok {
				continue
			}
			v = strings.Trim(strings.TrimSpace(v), `"`)
			switch k {
			case "PRETTY_NAME":
				info.Name = v
			case "VERSION":
				info.Version = v
			}
		}
	}
	if release, _ := r.uname(); release != "" {
		info.Kernel = release
	}
	if d := r.getenv("XDG_CURRENT_DESKTOP"); d != "" {
		info.Desktop = d
	} else if s := r.getenv("DESKTOP_SESSION"); s != "" {
		info.Desktop = strings.ToUpper(s[:1]) + s[1:]
	}
	if secs, err := r.uptime(ctx); err == nil {
		info.Uptime = time.Duration(secs) * time.Second
	}
	return info
}

// FormatUptime renders d as "2d 3h 4m", "3h 4m" or "4m".
func FormatUptime(d time.Duration) string {
	days := int(d.Hours()) / 24
	hours := int(d.Hours()) % 24
	minutes := int(d.Minutes()) % 60
	switch {
	case days > 0:
		return fmt.Sprintf("%dd %dh %dm", days, hours, minutes)
	case hours > 0:
		return fmt.Sprintf("%dh %dm", hours, minutes)
	}
	return fmt.Sprintf("%dm", minutes)
}

// FormatBytes renders n in GiB with one decimal.
func FormatBytes(n uint64) string {
	return fmt.Sprintf("%.1f GB", float64(n)/(1<<30))
}
