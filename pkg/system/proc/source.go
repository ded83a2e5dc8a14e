//go:build linux

package proc

import (
	"errors"
	"fmt"
	"io"
	"io/fs"
	"log/slog"
	"os"

	"github.com/appmon/appmon/pkg/metrics"
)

// Reader is a single per-process statistic source. ReadCycle collects
// and emits the source's metrics for the current cycle; Close releases
// the underlying handle. Implementations keep their file open across
// cycles and rewind instead of reopening: proc files are cheap to
// re-read but not always cheap to re-open, and a stable handle pins
// the exact process the reader was bound to.
type Reader interface {
	ReadCycle() error
	Close() error
}

// source carries the state shared by every reader: the path template
// and pid it is bound to, the long-lived handle, and the failure latch.
type source struct {
	pattern string // path template with a single %d for the pid
	pid     int
	app     string
	out     metrics.Emitter
	logger  *slog.Logger

	f      *os.File
	failed bool
}

func newSource(pattern string, pid int, app string, out metrics.Emitter, logger *slog.Logger) source {
	if logger == nil {
		logger = slog.Default()
	}
	return source{pattern: pattern, pid: pid, app: app, out: out, logger: logger}
}

func (s *source) path() string { return fmt.Sprintf(s.pattern, s.pid) }

// open acquires the source's handle. Permission and existence failures
// latch the source: neither resolves by retrying, so the source reports
// once and stays silent until a rebind replaces it. Any other failure
// is unexpected and propagates to the caller.
func (s *source) open() error {
	f, err := os.Open(s.path())
	switch {
	case err == nil:
		s.f = f
	case errors.Is(err, fs.ErrPermission):
		s.logger.Error("insufficient permission to read proc file, re-run with more privilege to collect these metrics",
			"path", s.path())
		s.failed = true
	case errors.Is(err, fs.ErrNotExist):
		s.logger.Error("proc file does not exist, the running kernel may not provide it",
			"path", s.path())
		s.failed = true
	default:
		return err
	}
	return nil
}

// readCycle runs one collection pass: rewind, read the whole file, hand
// the contents to gather. A latched source is a no-op. An unopened
// source is opened first; if opening latched it, the pass is skipped
// silently since the failure was already reported.
func (s *source) readCycle(gather func(data []byte) error) error {
	if s.failed {
		return nil
	}
	if s.f == nil {
		if err := s.open(); err != nil {
			return err
		}
		if s.f == nil {
			return nil
		}
	}
	if _, err := s.f.Seek(0, io.SeekStart); err != nil {
		return err
	}
	data, err := io.ReadAll(s.f)
	if err != nil {
		return err
	}
	return gather(data)
}

// Close releases the handle. Safe on a source that never opened, and
// safe to call more than once.
func (s *source) Close() error {
	if s.f == nil {
		return nil
	}
	err := s.f.Close()
	s.f = nil
	return err
}

// emit stamps the monitor identity on parsed samples and forwards them
// to the sink.
func (s *source) emit(samples []metrics.Sample) {
	for _, smp := range samples {
		smp.App = s.app
		s.out.Emit(smp)
	}
}
