package sysinfo

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/shirou/gopsutil/v4/disk"
	"github.com/shirou/gopsutil/v4/mem"

	"armoury/internal/execx"
	"armoury/internal/sysfs"
)

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

const lspciOut = `00:02.0 VGA compatible controller [0300]: Intel Corporation Alder Lake-P GT2 [Iris Xe Graphics] [8086:46a6] (rev 0c)
01:00.0 3D controller [0302]: NVIDIA Corporation GA107M [GeForce RTX 3050 Mobile] [10de:25a2] (rev a1)
00:1f.3 Audio device [0403]: Intel Corporation Alder Lake PCH-P High Definition Audio Controller [8086:51c8] (rev 01)
05:00.0 Display controller [0380]: Advanced Micro Devices, Inc. [AMD/ATI] Vega 8 integrated [1002:15d8]`

func testReader(t *testing.T, root string, fake *execx.Fake) *Reader {
	t.Helper()
	r := New(sysfs.New(root), fake)
	r.getenv = func(string) string { return "" }
	r.uname = func() (string, string) { return "6.12.1-arch1-1", "x86_64" }
	r.virtualMemory = func(context.Context) (*mem.VirtualMemoryStat, error) {
		return nil, errors.New("unavailable")
	}
	r.partitions = func(context.Context, bool) ([]disk.PartitionStat, error) {
		return nil, errors.New("unavailable")
	}
	r.uptime = func(context.Context) (uint64, error) { return 93784, nil }
	return r
}

func TestCPU(t *testing.T) {
	root := t.TempDir()
	writeFixture(t, root, "/proc/cpuinfo", `processor	: 0
model name	: AMD Ryzen 9 7940HS
core id		: 0

processor	: 1
model name	: AMD Ryzen 9 7940HS
core id		: 0

processor	: 2
model name	: AMD Ryzen 9 7940HS
core id		: 1
`)
	writeFixture(t, root, "/sys/devices/system/cpu/cpu0/cpufreq/cpuinfo_max_freq", "5200000")

	cpu := testReader(t, root, execx.NewFake()).CPU()
	if cpu.Model != "AMD Ryzen 9 7940HS" || cpu.Cores != 2 || cpu.Threads != 3 {
		t.Fatalf("unexpected cpu %+v", cpu)
	}
	if cpu.MaxFreqGHz != 5.2 || cpu.Architecture != "x86_64" {
		t.Fatalf("unexpected cpu %+v", cpu)
	}
}

func TestGPUs(t *testing.T) {
	fake := execx.NewFake().Set("lspci -nn", lspciOut)
	gpus := testReader(t, t.TempDir(), fake).GPUs(context.Background())

	want := []GPU{
		{Name: "Intel Corporation Alder Lake-P GT2 [Iris Xe Graphics]", Type: "Intel (Integrated)", PCIID: "8086:46a6"},
		{Name: "NVIDIA Corporation GA107M [GeForce RTX 3050 Mobile]", Type: "NVIDIA (Discrete)", PCIID: "10de:25a2"},
		{Name: "Advanced Micro Devices, Inc. [AMD/ATI] Vega 8 integrated", Type: "AMD (Integrated)", PCIID: "1002:15d8"},
	}
	if len(gpus) != len(want) {
		t.Fatalf("gpus = %+v", gpus)
	}
	for i := range want {
		if gpus[i] != want[i] {
			t.Fatalf("gpu %d = %+v, want %+v", i, gpus[i], want[i])
		}
	}
}

func TestGPUsFallback(t *testing.T) {
	gpus := testReader(t, t.TempDir(), execx.NewFake()).GPUs(context.Background())
	if len(gpus) != 1 || gpus[0].Name != "Unknown" {
		t.Fatalf("gpus = %+v", gpus)
	}
}

func TestMemory(t *testing.T) {
	ctx := context.Background()

	t.Run("gopsutil", func(t *testing.T) {
		r := testReader(t, t.TempDir(), execx.NewFake())
		r.virtualMemory = func(context.Context) (*mem.VirtualMemoryStat, error) {
			return &mem.VirtualMemoryStat{Total: 100, Used: 40, Available: 60, UsedPercent: 40}, nil
		}
		if m := r.Memory(ctx); m.Total != 100 || m.UsedPercent != 40 {
			t.Fatalf("memory = %+v", m)
		}
	})

	t.Run("meminfo", func(t *testing.T) {
		root := t.TempDir()
		writeFixture(t, root, "/proc/meminfo", "MemTotal:       1000 kB\nMemFree:         100 kB\nMemAvailable:    250 kB\n")
		m := testReader(t, root, execx.NewFake()).Memory(ctx)
		if m.Total != 1024000 || m.Available != 256000 || m.UsedPercent != 75 {
			t.Fatalf("memory = %+v", m)
		}
	})
}

func TestStorage(t *testing.T) {
	r := testReader(t, t.TempDir(), execx.NewFake())
	r.partitions = func(context.Context, bool) ([]disk.PartitionStat, error) {
		return []disk.PartitionStat{
			{Device: "/dev/nvme0n1p2", Mountpoint: "/", Fstype: "btrfs"},
			{Device: "/dev/nvme0n1p2", Mountpoint: "/", Fstype: "btrfs"},
			{Device: "/dev/loop0", Mountpoint: "/snap/core", Fstype: "squashfs"},
			{Device: "tmpfs", Mountpoint: "/tmp", Fstype: "tmpfs"},
			{Device: "/dev/nvme0n1p1", Mountpoint: "/boot", Fstype: "vfat"},
		}, nil
	}
	r.usage = func(_ context.Context, p string) (*disk.UsageStat, error) {
		if p == "/boot" {
			return nil, errors.New("denied")
		}
		return &disk.UsageStat{Path: p, Total: 1000, Used: 250, Free: 750, UsedPercent: 25}, nil
	}

	vols := r.Storage(context.Background())
	if len(vols) != 2 {
		t.Fatalf("volumes = %+v", vols)
	}
	if vols[0].Mountpoint != "/" || vols[0].UsedPercent != 25 {
		t.Fatalf("root volume = %+v", vols[0])
	}
	if vols[1].Mountpoint != "/boot" || vols[1].Total != 0 {
		t.Fatalf("boot volume = %+v", vols[1])
	}
}

func TestOS(t *testing.T) {
	root := t.TempDir()
	writeFixture(t, root, "/etc/os-release", "NAME=\"Arch Linux\"\nPRETTY_NAME=\"Arch Linux\"\nVERSION=\"rolling\"\n")
	r := testReader(t, root, execx.NewFake())
	r.getenv = func(k string) string {
		if k == "DESKTOP_SESSION" {
			return "plasma"
		}
		return ""
	}

	info := r.OS(context.Background())
	if info.Name != "Arch Linux" || info.Version != "rolling" || info.Kernel != "6.12.1-arch1-1" {
		t.Fatalf("unexpected os %+v", info)
	}
	if info.Desktop != "Plasma" {
		t.Fatalf("Desktop = %q", info.Desktop)
	}
	if got := FormatUptime(info.Uptime); got != "1d 2h 3m" {
		t.Fatalf("FormatUptime = %q", got)
	}
}

func TestFormatUptime(t *testing.T) {
	tests := map[time.Duration]string{
		5 * time.Minute:            "5m",
		3*time.Hour + time.Minute:  "3h 1m",
		49*time.Hour + time.Minute: "2d 1h 1m",
	}
	for d, want := range tests {
		if got := FormatUptime(d); got != want {
			t.Fatalf("FormatUptime(%v) = %q, want %q", d, got, want)
		}
	}
}
