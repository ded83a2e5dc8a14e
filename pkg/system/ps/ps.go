// Package ps enumerates the system process table for command-line
// matching.
package ps

import (
	"cmp"
	"fmt"
	"slices"

	"github.com/shirou/gopsutil/v4/process"
)

// Entry is one row of the process table: a pid and the command line the
// process was started with.
type Entry struct {
	PID     int
	Command string
}

// List returns a snapshot of the process table sorted by pid, so that
// callers matching against it get a deterministic scan order. Processes
// that vanish mid-scan are skipped. Kernel threads and other processes
// without a readable command line fall back to the bracketed executable
// name, the same spelling ps prints for them.
func List() ([]Entry, error) {
	procs, err := process.Processes()
	if err != nil {
		return nil, fmt.Errorf("ps: list processes: %w", err)
	}

	entries := make([]Entry, 0, len(procs))
	for _, p := range procs {
		command, err := p.Cmdline()
		if err != nil || command == "" {
			name, err := p.Name()
			if err != nil || name == "" {
				continue
			}
			command = "[" + name + "]"
		}
		entries = append(entries, Entry{PID: int(p.Pid), Command: command})
	}
	slices.SortFunc(entries, func(a, b Entry) int { return cmp.Compare(a.PID, b.PID) })
	return entries, nil
}
