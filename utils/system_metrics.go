package utils

import (
	"context"
	"log"
	"time"

	"github.com/shirou/gopsutil/v4/cpu"
)

const cpuSampleWindow = 200 * time.Millisecond

// GetCPUUsage returns the current CPU usage as a percentage
func GetCPUUsage(ctx context.Context) float64 {
	percentage, err := cpu.PercentWithContext(ctx, cpuSampleWindow, false)
	if err != nil {
		log.Printf("Error getting CPU usage: %v", err)
		return 0
	}
	if len(percentage) > 0 {
		return percentage[0]
	}
	return 0
}
