//go:build linux

package proc

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/appmon/appmon/pkg/metrics"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// statLine builds a /proc/<pid>/stat record with the given post-comm
// fields at the offsets the parser reads.
func statLine(comm string, utime, stime, nice, threads, start string) string {
	fields := make([]string, 22)
	for i := range fields {
		fields[i] = "0"
	}
	fields[0] = "S"
	fields[statFieldUTime] = utime
	fields[statFieldSTime] = stime
	fields[statFieldNice] = nice
	fields[statFieldThreads] = threads
	fields[statFieldStartTime] = start
	return "1234 (" + comm + ") " + strings.Join(fields, " ")
}

func TestParseStat(t *testing.T) {
	samples, err := parseStat(statLine("app", "250", "50", "5", "3", "1000"), 100, 60000)
	require.NoError(t, err)
	require.Len(t, samples, 5)

	assert.Equal(t, metrics.Sample{Name: "app.cpu", Value: 250, Type: "user"}, samples[0])
	assert.Equal(t, metrics.Sample{Name: "app.cpu", Value: 50, Type: "system"}, samples[1])
	// started 10000ms after boot, system up for 60000ms
	assert.Equal(t, metrics.Sample{Name: "app.uptime", Value: 50000}, samples[2])
	assert.Equal(t, metrics.Sample{Name: "app.nice", Value: 5}, samples[3])
	assert.Equal(t, metrics.Sample{Name: "app.threads", Value: 3}, samples[4])
}

func TestParseStat_ConvertsTicksByHz(t *testing.T) {
	samples, err := parseStat(statLine("app", "250", "50", "0", "1", "1000"), 250, 60000)
	require.NoError(t, err)

	assert.InDelta(t, 100, samples[0].Value, 0.001) // 250 ticks @ 250Hz = 1s
	assert.InDelta(t, 20, samples[1].Value, 0.001)
	assert.InDelta(t, 56000, samples[2].Value, 0.001) // started 4000ms after boot
}

func TestParseStat_CommWithSpacesAndParens(t *testing.T) {
	samples, err := parseStat(statLine("tmux: server (x)", "7", "11", "-5", "2", "42"), 100, 10000)
	require.NoError(t, err)

	assert.InDelta(t, 7, samples[0].Value, 0.001)
	assert.InDelta(t, 11, samples[1].Value, 0.001)
	assert.InDelta(t, -5, samples[3].Value, 0.001)
}

func TestParseStat_Malformed(t *testing.T) {
	_, err := parseStat("", 100, 0)
	assert.ErrorIs(t, err, ErrNoStat)

	_, err = parseStat("1234 (app S 0 0 0", 100, 0)
	assert.ErrorIs(t, err, ErrNoStat)

	_, err = parseStat("1234 (app) S 0 0", 100, 0)
	assert.ErrorIs(t, err, ErrShortStat)

	_, err = parseStat(statLine("app", "abc", "50", "0", "1", "1000"), 100, 0)
	assert.ErrorIs(t, err, ErrNoStat)
}

func TestTickConversionRounds(t *testing.T) {
	assert.Equal(t, int64(33), ticksToCs(1, 3))
	assert.Equal(t, int64(13), ticksToCs(1, 8)) // 12.5 rounds up
	assert.Equal(t, int64(333), ticksToMs(1, 3))
	assert.Equal(t, int64(125), ticksToMs(1, 8))
	assert.Equal(t, int64(0), ticksToCs(0, 100))
}

func TestStatReader_CachesBootTime(t *testing.T) {
	rec := metrics.NewRecorder()
	r := NewStatReader(os.Getpid(), "test", rec, nil)

	up := filepath.Join(t.TempDir(), "uptime")
	require.NoError(t, os.WriteFile(up, []byte("12345.67 23456.78\n"), 0o644))
	r.uptimePath = up

	got, err := r.systemUptimeMs()
	require.NoError(t, err)
	assert.InDelta(t, 12345670, got, 2000)

	// Cached after the first read: removing the file must not matter.
	require.NoError(t, os.Remove(up))
	again, err := r.systemUptimeMs()
	require.NoError(t, err)
	assert.GreaterOrEqual(t, again, got)
}

func TestStatReader_MalformedUptime(t *testing.T) {
	rec := metrics.NewRecorder()
	r := NewStatReader(os.Getpid(), "test", rec, nil)

	up := filepath.Join(t.TempDir(), "uptime")
	require.NoError(t, os.WriteFile(up, []byte("not-a-number\n"), 0o644))
	r.uptimePath = up

	_, err := r.systemUptimeMs()
	assert.ErrorIs(t, err, ErrNoUptime)
}

func TestStatReader_Live(t *testing.T) {
	if _, err := os.Stat("/proc/self/stat"); err != nil {
		t.Skipf("no /proc here: %v", err)
	}

	rec := metrics.NewRecorder()
	r := NewStatReader(os.Getpid(), "live", rec, nil)
	defer r.Close()

	require.NoError(t, r.ReadCycle())
	samples := rec.Samples()
	require.Len(t, samples, 5)

	names := make([]string, 0, len(samples))
	for _, s := range samples {
		names = append(names, s.Name)
		assert.Equal(t, "live", s.App)
	}
	assert.Equal(t, []string{"app.cpu", "app.cpu", "app.uptime", "app.nice", "app.threads"}, names)

	assert.GreaterOrEqual(t, samples[2].Value, float64(0), "uptime must not go negative")
	assert.GreaterOrEqual(t, samples[4].Value, float64(1), "at least one thread")

	// Uptime keeps growing between cycles.
	rec.Reset()
	time.Sleep(10 * time.Millisecond)
	require.NoError(t, r.ReadCycle())
	assert.GreaterOrEqual(t, rec.Samples()[2].Value, samples[2].Value)
}
