//go:build linux

package proc

import (
	"errors"
	"os"
	"strconv"

	"github.com/tklauser/go-sysconf"
	"golang.org/x/sys/unix"
)

// ClockTicks returns the number of jiffies (clock ticks) per second.
// It first checks the env var CLK_TCK (useful for testing), then asks
// sysconf(_SC_CLK_TCK), otherwise falls back to 100 (common default).
func ClockTicks() int64 {
	v, _ := strconv.Atoi(os.Getenv("CLK_TCK"))
	if v > 0 {
		return int64(v)
	}
	if hz, err := sysconf.Sysconf(sysconf.SC_CLK_TCK); err == nil && hz > 0 {
		return hz
	}
	return 100
}

// Signal0 probes a pid by delivering signal 0, which runs the kernel's
// existence and permission checks without touching the target. A nil
// return means the process exists and is signalable; unix.ESRCH means
// no such process; unix.EPERM means it exists but belongs to somebody
// this process may not signal.
func Signal0(pid int) error {
	return unix.Kill(pid, 0)
}

// Alive reports whether pid currently exists. A denied probe counts as
// alive: the kernel only refuses to signal processes that are actually
// there.
func Alive(pid int) bool {
	return !errors.Is(Signal0(pid), unix.ESRCH)
}
