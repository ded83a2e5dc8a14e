//go:build linux

package proc

import (
	"log/slog"
	"regexp"
	"strconv"
	"strings"

	"github.com/appmon/appmon/pkg/metrics"
)

// NetStatReader collects network counters from /proc/<pid>/net/netstat:
//
//	app.net.bytes type=in    bytes received
//	app.net.bytes type=out   bytes sent
//	app.net.tcp_retransmits  TCP loss-recovery episodes (Reno + SACK)
//
// The file is system-wide despite living under a pid: every process
// sees the same counters. Reporting them under a process tag misleads,
// so these readers are off by default and exist for operators who opt
// in knowing the caveat.
type NetStatReader struct {
	source
}

// NewNetStatReader returns a NetStatReader bound to pid. Emitted
// samples are tagged with app.
func NewNetStatReader(pid int, app string, out metrics.Emitter, logger *slog.Logger) *NetStatReader {
	return &NetStatReader{source: newSource("/proc/%d/net/netstat", pid, app, out, logger)}
}

func (r *NetStatReader) ReadCycle() error { return r.readCycle(r.gather) }

func (r *NetStatReader) gather(data []byte) error {
	r.emit(parseNetStat(string(data)))
	return nil
}

// parseNetStat reads netstat's adjacent line pairs: a header row naming
// the columns and a value row, both carrying the same group prefix
// ("TcpExt:", "IpExt:"). Pairs whose prefixes or column counts do not
// match are ignored, as are columns whose value does not parse.
func parseNetStat(data string) []metrics.Sample {
	lines := strings.Split(data, "\n")

	var names, values []string
	for i := 0; i+1 < len(lines); i++ {
		ns := strings.Fields(lines[i])
		vs := strings.Fields(lines[i+1])
		if len(ns) == 0 || len(ns) != len(vs) || ns[0] != vs[0] {
			continue
		}
		names = append(names, ns...)
		values = append(values, vs...)
	}

	var samples []metrics.Sample
	var retransmits uint64
	var haveRetransmits bool
	for i, name := range names {
		v, err := strconv.ParseUint(values[i], 10, 64)
		if err != nil {
			continue
		}
		switch name {
		case "InOctets":
			samples = append(samples, metrics.Sample{Name: "app.net.bytes", Value: float64(v), Type: "in"})
		case "OutOctets":
			samples = append(samples, metrics.Sample{Name: "app.net.bytes", Value: float64(v), Type: "out"})
		case "TCPRenoRecovery", "TCPSackRecovery":
			retransmits += v
			haveRetransmits = true
		}
	}
	if haveRetransmits {
		samples = append(samples, metrics.Sample{Name: "app.net.tcp_retransmits", Value: float64(retransmits)})
	}
	return samples
}

// SockStatReader collects socket usage from /proc/<pid>/net/sockstat:
//
//	app.net.sockets_in_use type=<proto>  sockets in use per protocol
//
// Like netstat, the file is system-wide; the same opt-in caveat
// applies.
type SockStatReader struct {
	source
}

// NewSockStatReader returns a SockStatReader bound to pid. Emitted
// samples are tagged with app.
func NewSockStatReader(pid int, app string, out metrics.Emitter, logger *slog.Logger) *SockStatReader {
	return &SockStatReader{source: newSource("/proc/%d/net/sockstat", pid, app, out, logger)}
}

func (r *SockStatReader) ReadCycle() error { return r.readCycle(r.gather) }

func (r *SockStatReader) gather(data []byte) error {
	r.emit(parseSockStat(string(data)))
	return nil
}

// sockstatLine matches "TCP: inuse 5 orphan 0 ..." records; only the
// inuse column is reported.
var sockstatLine = regexp.MustCompile(`(\w+): inuse (\d+)`)

// parseSockStat emits one sample per protocol line, typed with the
// lowercased protocol name.
func parseSockStat(data string) []metrics.Sample {
	var samples []metrics.Sample
	for _, line := range strings.Split(data, "\n") {
		m := sockstatLine.FindStringSubmatch(line)
		if m == nil {
			continue
		}
		v, err := strconv.ParseUint(m[2], 10, 64)
		if err != nil {
			continue
		}
		samples = append(samples, metrics.Sample{
			Name:  "app.net.sockets_in_use",
			Value: float64(v),
			Type:  strings.ToLower(m[1]),
		})
	}
	return samples
}
