//go:build linux

package util

import (
	"strconv"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSystemSummary(t *testing.T) {
	hostname, kernel, cpus, totalMem := SystemSummary()

	assert.NotEmpty(t, hostname)
	assert.NotEmpty(t, kernel)
	assert.NotEmpty(t, totalMem)

	n, err := strconv.Atoi(cpus)
	require.NoError(t, err)
	assert.Positive(t, n)
}

func TestFmtFloat(t *testing.T) {
	assert.Equal(t, "500", FmtFloat(500))
	assert.Equal(t, "1.5", FmtFloat(1.5))
	assert.Equal(t, "0", FmtFloat(0))
	assert.Equal(t, "-3", FmtFloat(-3))
	assert.Equal(t, "1048576", FmtFloat(1 << 20))
}
