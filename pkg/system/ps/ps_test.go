//go:build linux

package ps

import (
	"os"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestList(t *testing.T) {
	if _, err := os.Stat("/proc"); err != nil {
		t.Skipf("no /proc here: %v", err)
	}

	entries, err := List()
	require.NoError(t, err)
	require.NotEmpty(t, entries)

	var self *Entry
	for i := range entries {
		assert.Positive(t, entries[i].PID)
		assert.NotEmpty(t, entries[i].Command)
		if entries[i].PID == os.Getpid() {
			self = &entries[i]
		}
	}
	require.NotNil(t, self, "the test process itself must be listed")

	for i := 1; i < len(entries); i++ {
		assert.Greater(t, entries[i].PID, entries[i-1].PID)
	}
}
