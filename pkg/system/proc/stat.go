//go:build linux

package proc

import (
	"errors"
	"log/slog"
	"math"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/appmon/appmon/pkg/metrics"
)

// Field offsets into /proc/<pid>/stat, counted from zero after the
// ") " that closes the comm field. Comm may contain spaces and even
// parentheses, so counting from the front is not safe.
const (
	statFieldUTime     = 11
	statFieldSTime     = 12
	statFieldNice      = 16
	statFieldThreads   = 17
	statFieldStartTime = 19
)

// StatReader collects CPU, uptime, nice and thread metrics from
// /proc/<pid>/stat:
//
//	app.cpu type=user     user-mode CPU consumed, in centiseconds
//	app.cpu type=system   kernel-mode CPU consumed, in centiseconds
//	app.uptime            time since the process started, in milliseconds
//	app.nice              current nice value
//	app.threads           number of threads
type StatReader struct {
	source
	hz int64

	// The kernel reports process start time relative to boot, so uptime
	// needs the wall-clock boot time. It is estimated once per reader
	// from /proc/uptime and reused for every later cycle, keeping all
	// readings on one clock.
	uptimePath string
	bootTimeMs int64
	bootOK     bool
}

// NewStatReader returns a StatReader bound to pid. Emitted samples are
// tagged with app.
func NewStatReader(pid int, app string, out metrics.Emitter, logger *slog.Logger) *StatReader {
	return &StatReader{
		source:     newSource("/proc/%d/stat", pid, app, out, logger),
		hz:         ClockTicks(),
		uptimePath: "/proc/uptime",
	}
}

func (r *StatReader) ReadCycle() error { return r.readCycle(r.gather) }

func (r *StatReader) gather(data []byte) error {
	uptimeMs, err := r.systemUptimeMs()
	if err != nil {
		return err
	}
	samples, err := parseStat(string(data), r.hz, uptimeMs)
	if err != nil {
		return err
	}
	r.emit(samples)
	return nil
}

// systemUptimeMs returns how long the system has been up, in
// milliseconds, derived from the cached boot-time estimate.
func (r *StatReader) systemUptimeMs() (int64, error) {
	if !r.bootOK {
		b, err := os.ReadFile(r.uptimePath)
		if err != nil {
			return 0, err
		}
		fields := strings.Fields(string(b))
		if len(fields) == 0 {
			return 0, ErrNoUptime
		}
		up, err := strconv.ParseFloat(fields[0], 64)
		if err != nil {
			return 0, ErrNoUptime
		}
		r.bootTimeMs = time.Now().Unix()*1000 - int64(up*1000.0)
		r.bootOK = true
	}
	return time.Now().Unix()*1000 - r.bootTimeMs, nil
}

// parseStat extracts the metric samples from one stat record. The
// record is a single line: pid, the parenthesized comm, then
// space-delimited numeric fields at fixed positions.
func parseStat(line string, hz int64, uptimeMs int64) ([]metrics.Sample, error) {
	i := strings.Index(line, ") ")
	if i < 0 {
		return nil, ErrNoStat
	}
	fields := strings.Fields(line[i+2:])
	if len(fields) <= statFieldStartTime {
		return nil, ErrShortStat
	}

	utime, uErr := strconv.ParseUint(fields[statFieldUTime], 10, 64)
	stime, sErr := strconv.ParseUint(fields[statFieldSTime], 10, 64)
	nice, nErr := strconv.ParseFloat(fields[statFieldNice], 64)
	threads, tErr := strconv.ParseUint(fields[statFieldThreads], 10, 64)
	start, rErr := strconv.ParseUint(fields[statFieldStartTime], 10, 64)
	if err := errors.Join(uErr, sErr, nErr, tErr, rErr); err != nil {
		return nil, errors.Join(ErrNoStat, err)
	}

	return []metrics.Sample{
		{Name: "app.cpu", Value: float64(ticksToCs(utime, hz)), Type: "user"},
		{Name: "app.cpu", Value: float64(ticksToCs(stime, hz)), Type: "system"},
		{Name: "app.uptime", Value: float64(uptimeMs - ticksToMs(start, hz))},
		{Name: "app.nice", Value: nice},
		{Name: "app.threads", Value: float64(threads)},
	}, nil
}

// ticksToCs converts jiffies to centiseconds, rounding to nearest.
func ticksToCs(ticks uint64, hz int64) int64 {
	return int64(math.Round(float64(ticks) * 100.0 / float64(hz)))
}

// ticksToMs converts jiffies to milliseconds, rounding to nearest.
func ticksToMs(ticks uint64, hz int64) int64 {
	return int64(math.Round(float64(ticks) * 1000.0 / float64(hz)))
}
