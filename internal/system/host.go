package system

import (
	"os"
	"runtime"

	"github.com/shirou/gopsutil/v3/cpu"
	"github.com/shirou/gopsutil/v3/mem"
	"github.com/shirou/gopsutil/v3/process"
)

// HostStats is the resource snapshot reported by the health endpoint and the
// performance report.
type HostStats struct {
	CPUs         int     `json:"cpus"`
	Goroutines   int     `json:"goroutines"`
	ProcessRSSMB float64 `json:"process_rss_mb"`
	MemTotalMB   float64 `json:"mem_total_mb"`
	MemUsedPct   float64 `json:"mem_used_pct"`
}

// ReadHostStats collects what the platform exposes. Fields it cannot read stay zero.
func ReadHostStats() HostStats {
	stats := HostStats{Goroutines: runtime.NumGoroutine()}

	if n, err := cpu.Counts(true); err == nil {
		stats.CPUs = n
	} else {
		stats.CPUs = runtime.NumCPU()
	}

	if vm, err := mem.VirtualMemory(); err == nil {
		stats.MemTotalMB = float64(vm.Total) / 1024 / 1024
		stats.MemUsedPct = vm.UsedPercent
	}

	if p, err := process.NewProcess(int32(os.Getpid())); err == nil {
		if mi, err := p.MemoryInfo(); err == nil {
			stats.ProcessRSSMB = float64(mi.RSS) / 1024 / 1024
		}
	}

	return stats
}
