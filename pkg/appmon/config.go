package appmon

import (
	"log/slog"

	"github.com/appmon/appmon/pkg/metrics"
	"github.com/appmon/appmon/pkg/system/ps"
)

// SelfPID is the PID value selecting the monitoring process itself,
// spelled the way shells spell it. It is resolved to a concrete pid on
// every resolution attempt, not once at construction.
const SelfPID = "$$"

// Config configures a Monitor. ID, Out and exactly one of PID or
// CommandLine are required; everything else has a working default.
type Config struct {
	// ID tags every emitted sample so operators can tell monitor
	// instances apart.
	ID string

	// PID targets a process by explicit id: a positive integer, or
	// SelfPID for the monitoring process itself.
	PID string

	// CommandLine targets a process by matching this regular expression
	// against the command lines of the live process table. The first
	// matching entry in table order wins.
	CommandLine string

	// NetStats additionally collects the net/netstat and net/sockstat
	// files. Their counters are system-wide despite the per-pid path,
	// so they are off unless an operator opts in.
	NetStats bool

	// Out receives every collected sample.
	Out metrics.Emitter

	// Logger receives lifecycle diagnostics. Defaults to slog.Default().
	Logger *slog.Logger

	// ListProcs supplies the process table for CommandLine matching.
	// Defaults to ps.List.
	ListProcs func() ([]ps.Entry, error)

	// Probe checks whether a pid exists, returning nil when the probe
	// positively confirms it. Defaults to proc.Signal0.
	Probe func(pid int) error
}
