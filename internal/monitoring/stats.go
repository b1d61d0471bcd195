package monitoring

import (
	"time"

	"github.com/shirou/gopsutil/v3/cpu"
	"github.com/shirou/gopsutil/v3/host"
	"github.com/shirou/gopsutil/v3/mem"
)

// SystemStats is a point-in-time snapshot of host resource usage.
type SystemStats struct {
	CPUUsagePercent float64   `json:"cpu_usage_percent"`
	MemoryUsedMB    uint64    `json:"memory_used_mb"`
	MemoryTotalMB   uint64    `json:"memory_total_mb"`
	UptimeSeconds   uint64    `json:"uptime_seconds"`
	CollectedAt     time.Time `json:"collected_at"`
}

// CollectSystemStats gathers CPU, memory and uptime figures for the
// host running the backend.
func CollectSystemStats() (SystemStats, error) {
	stats := SystemStats{CollectedAt: time.Now()}

	percentages, err := cpu.Percent(0, false)
	if err != nil {
		return SystemStats{}, err
	}
	if len(percentages) > 0 {
		stats.CPUUsagePercent = percentages[0]
	}

	vm, err := mem.VirtualMemory()
	if err != nil {
		return SystemStats{}, err
	}
	stats.MemoryUsedMB = vm.Used / 1024 / 1024
	stats.MemoryTotalMB = vm.Total / 1024 / 1024

	uptime, err := host.Uptime()
	if err != nil {
		return SystemStats{}, err
	}
	stats.UptimeSeconds = uptime

	return stats, nil
}
