//go:build linux

package proc

import (
	"log/slog"
	"strconv"
	"strings"

	"github.com/appmon/appmon/pkg/metrics"
)

// IoReader collects disk I/O metrics from /proc/<pid>/io, available on
// kernels 2.6.20 and later:
//
//	app.disk.bytes type=read      bytes read so far
//	app.disk.requests type=read   read system calls issued
//	app.disk.bytes type=write     bytes written so far
//	app.disk.requests type=write  write system calls issued
type IoReader struct {
	source
}

// NewIoReader returns an IoReader bound to pid. Emitted samples are
// tagged with app.
func NewIoReader(pid int, app string, out metrics.Emitter, logger *slog.Logger) *IoReader {
	return &IoReader{source: newSource("/proc/%d/io", pid, app, out, logger)}
}

func (r *IoReader) ReadCycle() error { return r.readCycle(r.gather) }

func (r *IoReader) gather(data []byte) error {
	r.emit(parseIo(string(data)))
	return nil
}

// parseIo walks the "key: value" records of an io file, keeping the
// four counters worth reporting. Unknown keys and lines whose value is
// not an integer are skipped.
func parseIo(data string) []metrics.Sample {
	var samples []metrics.Sample
	for _, line := range strings.Split(data, "\n") {
		fields := strings.Fields(line)
		if len(fields) < 2 {
			continue
		}
		v, err := strconv.ParseUint(fields[1], 10, 64)
		if err != nil {
			continue
		}
		var name, typ string
		switch fields[0] {
		case "rchar:":
			name, typ = "app.disk.bytes", "read"
		case "syscr:":
			name, typ = "app.disk.requests", "read"
		case "wchar:":
			name, typ = "app.disk.bytes", "write"
		case "syscw:":
			name, typ = "app.disk.requests", "write"
		default:
			continue
		}
		samples = append(samples, metrics.Sample{Name: name, Value: float64(v), Type: typ})
	}
	return samples
}
