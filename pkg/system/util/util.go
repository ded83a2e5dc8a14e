//go:build linux

package util

import (
	"fmt"
	"runtime"
	"strconv"

	"github.com/shirou/gopsutil/v4/host"
	"github.com/shirou/gopsutil/v4/mem"

	"github.com/appmon/appmon/pkg/types"
)

// SystemSummary describes the host for report headers: hostname,
// kernel, logical CPU count and total memory. Probes that fail degrade
// to "?" instead of failing the caller; a header is not worth aborting
// a run over.
func SystemSummary() (hostname, kernel, cpus, totalMem string) {
	hostname, kernel, totalMem = "?", "?", "?"
	if info, err := host.Info(); err == nil {
		hostname = info.Hostname
		kernel = fmt.Sprintf("%s %s", info.OS, info.KernelVersion)
	}
	cpus = strconv.Itoa(runtime.NumCPU())
	if vm, err := mem.VirtualMemory(); err == nil {
		totalMem = types.Bytes(vm.Total).String()
	}
	return hostname, kernel, cpus, totalMem
}

// FmtFloat renders a metric value compactly: integral values print
// without a decimal point, fractional ones keep their shortest exact
// representation.
func FmtFloat(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}
