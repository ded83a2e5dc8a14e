// Package proc reads per-process metrics from the Linux /proc
// filesystem and emits them as metrics.Sample values.
//
// Overview
//
//   - Reader interface:
//     ReadCycle() error
//     Close() error
//
//     ReadCycle performs one collection pass: it re-reads the reader's
//     proc file and emits every metric the file yields to the sink the
//     reader was constructed with. You typically drive a set of readers
//     from a ticker, one ReadCycle per reader per tick. Close releases
//     the underlying file handle.
//
//   - Readers:
//
//   - StatReader (/proc/<pid>/stat): CPU time split into user and
//     system centiseconds, process uptime in milliseconds, nice value,
//     thread count.
//
//   - StatusReader (/proc/<pid>/status): virtual and resident memory
//     sizes with their peaks, all in bytes.
//
//   - IoReader (/proc/<pid>/io): cumulative bytes and syscall counts,
//     split into read and write. Needs kernel 2.6.20+.
//
//   - NetStatReader, SockStatReader (/proc/<pid>/net/*): system-wide
//     network counters and socket usage. These files look per-process
//     but are not; keep them opt-in.
//
// # File handling
//
// Each reader opens its file once, on the first ReadCycle, and keeps
// the handle for its lifetime. Later cycles rewind with Seek(0) and
// re-read. Rebinding to another process means constructing new readers,
// not retargeting old ones.
//
// Opening can fail two ways with different meaning. Permission denied
// and file-not-exist are permanent for the life of a binding: the
// reader logs one error and latches itself off, so a monitor running
// without privilege degrades to the metrics it can see instead of
// spamming the log every cycle. Every other error (including read and
// seek errors on a live handle) propagates out of ReadCycle for the
// caller to handle.
//
// # Errors (errs.go)
//
//	ErrNoStat    : stat record empty or missing the ") " comm terminator
//	ErrShortStat : stat record with too few fields
//	ErrNoUptime  : /proc/uptime empty or non-numeric
//
// # Units
//
// CPU ticks are converted using the clock tick rate from ClockTicks
// (CLK_TCK env override, then sysconf(_SC_CLK_TCK), then 100).
// Centiseconds and milliseconds round to nearest. Memory sizes arrive
// from the kernel in kB and are reported in bytes.
//
// # Process probing
//
// Signal0 delivers signal 0 to a pid, which checks existence and
// permission without disturbing the target. Alive wraps it with the
// monitor's policy: only ESRCH means gone; a denied probe still counts
// as alive.
//
// Testing guidance
//
//   - Parser tests are pure: feed captured file contents to the parse
//     functions directly.
//   - Lifecycle tests can point a source at a temp directory via its
//     path pattern; no privileges needed.
//   - Live tests read /proc/self and should SKIP when /proc is absent.
//
// Package import path: github.com/appmon/appmon/pkg/system/proc
package proc
