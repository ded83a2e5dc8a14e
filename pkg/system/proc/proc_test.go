//go:build linux

package proc

import (
	"os"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/sys/unix"
)

func TestClockTicks_EnvOverride(t *testing.T) {
	t.Setenv("CLK_TCK", "250")
	assert.Equal(t, int64(250), ClockTicks())
}

func TestClockTicks_IgnoresBadEnv(t *testing.T) {
	t.Setenv("CLK_TCK", "nope")
	assert.Positive(t, ClockTicks())
}

func TestClockTicks_Default(t *testing.T) {
	t.Setenv("CLK_TCK", "")
	assert.Positive(t, ClockTicks())
}

func TestSignal0(t *testing.T) {
	require.NoError(t, Signal0(os.Getpid()))

	// Far beyond pid_max, guaranteed unoccupied.
	assert.ErrorIs(t, Signal0(1<<30), unix.ESRCH)
}

func TestAlive(t *testing.T) {
	assert.True(t, Alive(os.Getpid()))
	assert.False(t, Alive(1<<30))

	if os.Geteuid() != 0 {
		// pid 1 exists but an unprivileged probe is denied; that still
		// counts as alive.
		assert.True(t, Alive(1))
	}
}
