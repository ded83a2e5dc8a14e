//go:build linux

package proc

import (
	"log/slog"
	"regexp"
	"strconv"
	"strings"

	"github.com/appmon/appmon/pkg/metrics"
	"github.com/appmon/appmon/pkg/types"
)

// StatusReader collects memory metrics from /proc/<pid>/status:
//
//	app.mem.bytes type=vmsize         virtual memory currently in use
//	app.mem.bytes type=peak_vmsize    virtual memory high-water mark
//	app.mem.bytes type=resident       resident set size
//	app.mem.bytes type=peak_resident  resident set high-water mark
type StatusReader struct {
	source
}

// NewStatusReader returns a StatusReader bound to pid. Emitted samples
// are tagged with app.
func NewStatusReader(pid int, app string, out metrics.Emitter, logger *slog.Logger) *StatusReader {
	return &StatusReader{source: newSource("/proc/%d/status", pid, app, out, logger)}
}

func (r *StatusReader) ReadCycle() error { return r.readCycle(r.gather) }

func (r *StatusReader) gather(data []byte) error {
	r.emit(parseStatus(string(data)))
	return nil
}

// statusLine matches "Key: 123" records. The kernel appends a unit
// ("kB") that only the leading integer of matters.
var statusLine = regexp.MustCompile(`^(\w+):\s*(\d+)`)

var statusTypes = map[string]string{
	"VmSize": "vmsize",
	"VmPeak": "peak_vmsize",
	"VmRSS":  "resident",
	"VmHWM":  "peak_resident",
}

// parseStatus emits one app.mem.bytes sample per recognized memory key,
// in the order the keys appear in the file. Sizes arrive in kilobytes
// and are converted to bytes. Lines without a leading integer value and
// keys outside the memory set are skipped.
func parseStatus(data string) []metrics.Sample {
	var samples []metrics.Sample
	for _, line := range strings.Split(data, "\n") {
		m := statusLine.FindStringSubmatch(line)
		if m == nil {
			continue
		}
		typ, ok := statusTypes[m[1]]
		if !ok {
			continue
		}
		kb, err := strconv.ParseUint(m[2], 10, 64)
		if err != nil {
			continue
		}
		samples = append(samples, metrics.Sample{
			Name:  "app.mem.bytes",
			Value: float64(types.FromKB(kb)),
			Type:  typ,
		})
	}
	return samples
}
