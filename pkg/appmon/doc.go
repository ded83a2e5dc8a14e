// Package appmon monitors a single process and periodically emits its
// resource metrics: CPU time, uptime, nice value, thread count, memory
// sizes and disk I/O, each tagged with an operator-assigned identity.
//
// Overview
//
//   - Monitor: the per-target controller. Construct one with New and
//     drive it from your own scheduler, one GatherSample call per
//     collection interval. Calls never overlap for one Monitor; run
//     several independent Monitors for several targets.
//
//   - Target selection: exactly one of Config.PID (a literal pid, or
//     SelfPID for the agent itself) and Config.CommandLine (a regular
//     expression searched against the live process table). Pattern
//     targets re-resolve automatically: when the matched process dies
//     and a replacement appears, the monitor picks it up on a later
//     cycle without operator action.
//
//   - Emission: every collected value goes to Config.Out as a
//     metrics.Sample carrying the monitor's ID. The sink decides what
//     transport or storage means; a metrics.Recorder works for tests
//     and for batch-style CLIs.
//
// # Lifecycle
//
// A Monitor is either unbound or bound to one concrete pid. Each
// GatherSample cycle runs: liveness check on the bound pid (unbind on
// death, closing every reader), resolution if unbound, then one read
// pass over the binding's readers. Binding constructs one reader per
// statistic file; rebinding never reuses readers, so a reader's handle
// always belongs to exactly one incarnation of the target.
//
// Cycles with nothing to do are silent. A target that cannot be
// resolved produces no metrics and no errors, cycle after cycle, until
// it appears. Readers that hit a permanent failure (no permission,
// file absent on this kernel) report once and drop out of the binding's
// output; the rest keep collecting.
//
// # Hooks
//
// Config.ListProcs and Config.Probe default to the real process table
// and the real signal-0 probe. Tests substitute them to script process
// death, denied probes and table contents without needing privileged
// fixtures.
//
// Package import path: github.com/appmon/appmon/pkg/appmon
package appmon
