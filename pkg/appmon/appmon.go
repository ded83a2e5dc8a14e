//go:build linux

package appmon

import (
	"errors"
	"fmt"
	"log/slog"
	"os"
	"regexp"
	"strconv"

	"github.com/appmon/appmon/pkg/system/proc"
	"github.com/appmon/appmon/pkg/system/ps"
	"golang.org/x/sys/unix"
)

// Monitor tracks one target process and collects its metrics once per
// GatherSample call. It starts unbound; each cycle it verifies the
// bound process is still alive, re-resolves the target when it is not,
// and reads every statistic source of the current binding.
type Monitor struct {
	cfg     Config
	pattern *regexp.Regexp // compiled CommandLine, nil in pid mode
	pid     int            // explicit target, 0 in self or pattern mode
	self    bool
	logger  *slog.Logger

	bound *binding
}

// binding is the set of readers attached to one concrete pid. It is
// built whole on bind and closed whole on unbind; readers are never
// retargeted to another process.
type binding struct {
	pid     int
	readers []proc.Reader
}

// New validates cfg and returns a Monitor in the unbound state. Nothing
// is resolved or opened until the first GatherSample call. Invalid
// configuration fails here, never later.
func New(cfg Config) (*Monitor, error) {
	if cfg.ID == "" {
		return nil, ErrNoID
	}
	if cfg.Out == nil {
		return nil, ErrNoEmitter
	}
	if cfg.PID == "" && cfg.CommandLine == "" {
		return nil, ErrNoTarget
	}
	if cfg.PID != "" && cfg.CommandLine != "" {
		return nil, ErrBothTargets
	}
	if cfg.Logger == nil {
		cfg.Logger = slog.Default()
	}
	if cfg.ListProcs == nil {
		cfg.ListProcs = ps.List
	}
	if cfg.Probe == nil {
		cfg.Probe = proc.Signal0
	}

	m := &Monitor{cfg: cfg, logger: cfg.Logger}
	switch {
	case cfg.PID == SelfPID:
		m.self = true
	case cfg.PID != "":
		pid, err := strconv.Atoi(cfg.PID)
		if err != nil || pid <= 0 {
			return nil, fmt.Errorf("appmon: invalid pid %q", cfg.PID)
		}
		m.pid = pid
	default:
		re, err := regexp.Compile(cfg.CommandLine)
		if err != nil {
			return nil, fmt.Errorf("appmon: bad commandline pattern: %w", err)
		}
		m.pattern = re
	}
	return m, nil
}

// GatherSample runs one collection cycle: liveness check, rebind if
// needed, then one read pass over every bound source. A cycle with no
// resolvable target is not an error; the monitor simply emits nothing
// and tries again next cycle. Read failures abort the cycle and
// propagate.
func (m *Monitor) GatherSample() error {
	if m.bound != nil && !m.alive(m.bound.pid) {
		if err := m.unbind(); err != nil {
			return err
		}
	}
	if m.bound == nil {
		pid, ok, err := m.resolve()
		if err != nil {
			return err
		}
		if !ok {
			return nil
		}
		m.bind(pid)
	}
	for _, r := range m.bound.readers {
		if err := r.ReadCycle(); err != nil {
			return err
		}
	}
	return nil
}

// PID returns the currently bound process id, or 0 when unbound.
func (m *Monitor) PID() int {
	if m.bound == nil {
		return 0
	}
	return m.bound.pid
}

// Close releases the current binding. Safe to call when unbound, and
// safe to call more than once.
func (m *Monitor) Close() error {
	if m.bound == nil {
		return nil
	}
	return m.unbind()
}

// alive interprets the probe for liveness: only a positive "no such
// process" means dead. A denied probe counts as alive, since the
// target may simply be owned by somebody else; assuming death there
// would churn rebinding. This is a deliberate, conservative reading of
// an ambiguous probe result.
func (m *Monitor) alive(pid int) bool {
	return !errors.Is(m.cfg.Probe(pid), unix.ESRCH)
}

// resolve maps the configured target to a live pid. ok is false when
// nothing matches this cycle, which is routine, not an error. A failed
// process-table enumeration is the one resolution error worth
// reporting, and it belongs to the cycle, not the monitor.
func (m *Monitor) resolve() (pid int, ok bool, err error) {
	if m.pattern == nil {
		pid = m.pid
		if m.self {
			pid = os.Getpid()
		}
		// Resolution needs positive confirmation. A denied probe cannot
		// confirm existence, so unlike the liveness check it leaves the
		// target unresolved.
		if m.cfg.Probe(pid) != nil {
			return 0, false, nil
		}
		return pid, true, nil
	}

	entries, err := m.cfg.ListProcs()
	if err != nil {
		return 0, false, err
	}
	for _, e := range entries {
		if m.pattern.MatchString(e.Command) {
			return e.PID, true, nil
		}
	}
	return 0, false, nil
}

// bind constructs fresh readers for pid. The previous binding, if any,
// was already closed by unbind.
func (m *Monitor) bind(pid int) {
	b := &binding{pid: pid}
	b.readers = append(b.readers,
		proc.NewStatReader(pid, m.cfg.ID, m.cfg.Out, m.logger),
		proc.NewStatusReader(pid, m.cfg.ID, m.cfg.Out, m.logger),
		proc.NewIoReader(pid, m.cfg.ID, m.cfg.Out, m.logger),
	)
	if m.cfg.NetStats {
		b.readers = append(b.readers,
			proc.NewNetStatReader(pid, m.cfg.ID, m.cfg.Out, m.logger),
			proc.NewSockStatReader(pid, m.cfg.ID, m.cfg.Out, m.logger),
		)
	}
	m.bound = b
	m.logger.Debug("bound to process", "id", m.cfg.ID, "pid", pid)
}

// unbind closes every reader of the current binding and discards it.
// The binding is cleared even when a close fails: a half-dead binding
// must never survive into the next cycle.
func (m *Monitor) unbind() error {
	errs := make([]error, 0, len(m.bound.readers))
	for _, r := range m.bound.readers {
		errs = append(errs, r.Close())
	}
	pid := m.bound.pid
	m.bound = nil
	m.logger.Debug("unbound from process", "id", m.cfg.ID, "pid", pid)
	return errors.Join(errs...)
}
