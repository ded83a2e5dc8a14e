//go:build linux

package proc

import (
	"os"
	"testing"

	"github.com/appmon/appmon/pkg/metrics"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseStatus(t *testing.T) {
	samples := parseStatus("VmSize:\t  1024 kB\nVmRSS:\t   256 kB\n")
	require.Len(t, samples, 2)

	assert.Equal(t, metrics.Sample{Name: "app.mem.bytes", Value: 1048576, Type: "vmsize"}, samples[0])
	assert.Equal(t, metrics.Sample{Name: "app.mem.bytes", Value: 262144, Type: "resident"}, samples[1])
}

func TestParseStatus_AllKeysInFileOrder(t *testing.T) {
	data := "Name:\tapp\n" +
		"VmPeak:\t 2000 kB\n" +
		"VmSize:\t 1500 kB\n" +
		"VmHWM:\t  800 kB\n" +
		"VmRSS:\t  700 kB\n" +
		"Threads:\t4\n"
	samples := parseStatus(data)
	require.Len(t, samples, 4)

	types := make([]string, 0, len(samples))
	for _, s := range samples {
		types = append(types, s.Type)
	}
	assert.Equal(t, []string{"peak_vmsize", "vmsize", "peak_resident", "resident"}, types)
	assert.InDelta(t, 2000*1024, samples[0].Value, 0.001)
}

func TestParseStatus_SkipsUnparsableLines(t *testing.T) {
	data := "VmSize:\tlots kB\n" +
		"Uid:\t0\t0\t0\t0\n" +
		"VmRSS:\t 100 kB\n"
	samples := parseStatus(data)
	require.Len(t, samples, 1)
	assert.Equal(t, "resident", samples[0].Type)
}

func TestParseStatus_Empty(t *testing.T) {
	assert.Empty(t, parseStatus(""))
}

func TestStatusReader_Live(t *testing.T) {
	if _, err := os.Stat("/proc/self/status"); err != nil {
		t.Skipf("no /proc here: %v", err)
	}

	rec := metrics.NewRecorder()
	r := NewStatusReader(os.Getpid(), "live", rec, nil)
	defer r.Close()

	require.NoError(t, r.ReadCycle())
	samples := rec.Samples()
	require.NotEmpty(t, samples)

	seen := map[string]float64{}
	for _, s := range samples {
		assert.Equal(t, "app.mem.bytes", s.Name)
		seen[s.Type] = s.Value
	}
	assert.Contains(t, seen, "vmsize")
	assert.Contains(t, seen, "resident")
	assert.Greater(t, seen["vmsize"], float64(0))
	assert.LessOrEqual(t, seen["resident"], seen["vmsize"])
}
