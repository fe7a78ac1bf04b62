// Package diagnostics collects the host information the doctor command
// reports: memory and load for the machine driving the sync engine, and
// capacity of the volume backing the VFS cache directory.
package diagnostics

import (
	"fmt"
	"runtime"
	"strings"

	"github.com/jaypipes/ghw"
	"github.com/shirou/gopsutil/v3/cpu"
	"github.com/shirou/gopsutil/v3/disk"
	"github.com/shirou/gopsutil/v3/load"
	"github.com/shirou/gopsutil/v3/mem"
)

// HostReport holds system-level facts relevant to running a sync engine.
type HostReport struct {
	OS         string  `json:"os"`
	Arch       string  `json:"arch"`
	CPUModel   string  `json:"cpu_model"`
	CPUThreads int     `json:"cpu_threads"`
	MemTotalMB float64 `json:"mem_total_mb"`
	MemUsedMB  float64 `json:"mem_used_mb"`
	MemPercent float64 `json:"mem_percent"`
	LoadAvg1   float64 `json:"load_avg_1"`
	LoadAvg5   float64 `json:"load_avg_5"`
	LoadAvg15  float64 `json:"load_avg_15"`
}

// CacheVolume describes the filesystem behind a cache or state directory.
type CacheVolume struct {
	Path        string  `json:"path"`
	TotalGB     float64 `json:"total_gb"`
	UsedGB      float64 `json:"used_gb"`
	UsedPercent float64 `json:"used_percent"`
	Disks       []Disk  `json:"disks,omitempty"`
}

// Disk is one physical disk visible on the host.
type Disk struct {
	Name      string `json:"name"`
	SizeGB    uint64 `json:"size_gb"`
	DriveType string `json:"drive_type"`
}

// CollectHost gathers host facts. Individual probes failing leave their
// fields zero rather than failing the whole report.
func CollectHost() HostReport {
	report := HostReport{OS: runtime.GOOS, Arch: runtime.GOARCH}

	if infos, err := cpu.Info(); err == nil && len(infos) > 0 {
		report.CPUModel = strings.TrimSpace(infos[0].ModelName)
	}
	if threads, err := cpu.Counts(true); err == nil {
		report.CPUThreads = threads
	}
	if vm, err := mem.VirtualMemory(); err == nil {
		report.MemTotalMB = float64(vm.Total) / 1024 / 1024
		report.MemUsedMB = float64(vm.Used) / 1024 / 1024
		report.MemPercent = vm.UsedPercent
	}
	if avg, err := load.Avg(); err == nil {
		report.LoadAvg1 = avg.Load1
		report.LoadAvg5 = avg.Load5
		report.LoadAvg15 = avg.Load15
	}
	return report
}

// CollectCacheVolume reports capacity of the volume holding path, plus the
// physical disks on the host for context when the volume runs hot.
func CollectCacheVolume(path string) (CacheVolume, error) {
	usage, err := disk.Usage(path)
	if err != nil {
		return CacheVolume{}, fmt.Errorf("reading usage of %s: %w", path, err)
	}

	vol := CacheVolume{
		Path:        path,
		TotalGB:     float64(usage.Total) / 1024 / 1024 / 1024,
		UsedGB:      float64(usage.Used) / 1024 / 1024 / 1024,
		UsedPercent: usage.UsedPercent,
	}

	// Best-effort; ghw needs elevated access on some platforms.
	if block, err := ghw.Block(); err == nil {
		for _, d := range block.Disks {
			vol.Disks = append(vol.Disks, Disk{
				Name:      d.Name,
				SizeGB:    d.SizeBytes / 1024 / 1024 / 1024,
				DriveType: d.DriveType.String(),
			})
		}
	}
	return vol, nil
}
