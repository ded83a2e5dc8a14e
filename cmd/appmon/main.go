//go:build linux

package main

import (
	"context"
	"encoding/csv"
	"encoding/json"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"path/filepath"
	"strings"
	"syscall"
	"text/tabwriter"
	"time"

	"github.com/spf13/cobra"

	"github.com/appmon/appmon/pkg/appmon"
	"github.com/appmon/appmon/pkg/metrics"
	"github.com/appmon/appmon/pkg/system/util"
	"github.com/appmon/appmon/pkg/types"
)

var pretty bool

type opts struct {
	// target
	id          string
	pid         string
	commandline string
	netStats    bool

	// sampling
	samples  int
	interval time.Duration

	// outputs
	csvPath  string
	jsonPath string
}

type row struct {
	At    time.Time `json:"time"`
	Name  string    `json:"metric"`
	Type  string    `json:"type,omitempty"`
	Value float64   `json:"value"`
	App   string    `json:"app"`
}

func main() {
	var o opts

	root := &cobra.Command{
		Use:   "appmon",
		Short: "Per-process resource metrics monitor",
		Long: `appmon watches one Linux process and periodically reports its resource
metrics: CPU time, uptime, nice value, thread count, memory sizes and
disk I/O, each tagged with the monitor id you assign.

The target is either an explicit PID ("--pid 4242", or "--pid '$$'" for
appmon itself) or a command-line pattern ("--commandline 'nginx: master'")
matched against the live process table. Pattern targets survive restarts:
when the matched process dies, appmon rebinds to the next match on a
later cycle.

* GitHub: https://github.com/appmon/appmon

Examples:
  appmon --id tomcat --commandline 'java.*tomcat'
  appmon --id self --pid '$$' -i 500ms -s 10
  appmon --id db --pid 4242 --csv db.csv --json db.json`,
		RunE: func(cmd *cobra.Command, args []string) error {
			return run(cmd.Context(), o)
		},
	}

	root.Flags().StringVar(&o.id, "id", "", "monitor id attached to every metric (required)")
	root.Flags().StringVar(&o.pid, "pid", "", "target process id, or '$$' for appmon itself")
	root.Flags().StringVarP(&o.commandline, "commandline", "c", "", "regexp matched against process command lines")
	root.Flags().BoolVar(&o.netStats, "net-stats", false, "also collect network counters (system-wide, not per-process)")

	root.Flags().IntVarP(&o.samples, "samples", "s", 0, "number of collection cycles (0 = run until Ctrl-C)")
	root.Flags().DurationVarP(&o.interval, "interval", "i", time.Second, "collection interval (e.g. 1s, 500ms)")

	root.Flags().BoolVar(&pretty, "pretty", true, "format output as a table instead of CSV-like lines")
	root.Flags().StringVar(&o.csvPath, "csv", "", "write per-cycle metric rows to CSV file")
	root.Flags().StringVar(&o.jsonPath, "json", "", "write per-cycle metric rows to JSON file")

	_ = root.MarkFlagRequired("id")

	if err := root.Execute(); err != nil {
		slog.Error(err.Error())
		os.Exit(1)
	}
}

func run(ctx context.Context, o opts) error {
	if o.interval <= 0 {
		return fmt.Errorf("interval must be > 0")
	}

	rec := metrics.NewRecorder()
	mon, err := appmon.New(appmon.Config{
		ID:          o.id,
		PID:         o.pid,
		CommandLine: o.commandline,
		NetStats:    o.netStats,
		Out:         rec,
	})
	if err != nil {
		return err
	}
	defer mon.Close()

	host, kernel, cpus, mem := util.SystemSummary()
	fmt.Printf(_console, host, kernel, cpus, mem, time.Now().Format("2006-01-02 15:04:05"))

	var tw *tabwriter.Writer
	if pretty {
		tw = newTable()
		printTableHeader(tw)
	} else {
		fmt.Println("# time, metric, type, value, app")
	}

	// file outputs
	var (
		csvF  *os.File
		csvW  *csv.Writer
		jsonF *os.File
	)
	if o.csvPath != "" {
		if err := os.MkdirAll(filepath.Dir(o.csvPath), 0o755); err == nil {
			if f, er := os.Create(o.csvPath); er == nil {
				csvF = f
				csvW = csv.NewWriter(f)
				_ = csvW.Write([]string{"time", "metric", "type", "value", "app"})
				csvW.Flush()
			}
		}
	}
	if o.jsonPath != "" {
		if err := os.MkdirAll(filepath.Dir(o.jsonPath), 0o755); err == nil {
			jsonF, _ = os.Create(o.jsonPath)
			if jsonF != nil {
				_, _ = jsonF.WriteString("[\n")
			}
		}
	}

	// Ctrl-C handling
	ctx, stop := signal.NotifyContext(ctx, syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	ticker := time.NewTicker(o.interval)
	defer ticker.Stop()

	cycles := 0
	writeN := 0 // number of JSON rows actually written (for commas)

	for {
		select {
		case <-ctx.Done():
			slog.Info("interrupted")
			goto END

		case <-ticker.C:
			if err := mon.GatherSample(); err != nil {
				// Partial output of a failed cycle is discarded, the
				// monitor itself keeps running.
				slog.Warn("collection cycle failed", "err", err)
				rec.Reset()
				continue
			}

			now := time.Now()
			for _, s := range rec.Samples() {
				if pretty {
					printTableRow(tw, now, s)
				} else {
					fmt.Printf("%s, %s, %s, %s, %s\n",
						now.Format(time.RFC3339), s.Name, orDash(s.Type), util.FmtFloat(s.Value), s.App)
				}

				if csvW != nil {
					_ = csvW.Write([]string{
						now.Format(time.RFC3339), s.Name, s.Type, util.FmtFloat(s.Value), s.App,
					})
				}
				if jsonF != nil {
					b, _ := json.MarshalIndent(row{
						At: now, Name: s.Name, Type: s.Type, Value: s.Value, App: s.App,
					}, "  ", "  ")
					if writeN > 0 {
						_, _ = jsonF.WriteString(",\n")
					}
					_, _ = jsonF.Write(b)
					writeN++
				}
			}
			if csvW != nil {
				csvW.Flush()
			}
			rec.Reset()

			cycles++
			if o.samples > 0 && cycles >= o.samples {
				goto END
			}
		}
	}

END:
	if csvW != nil {
		csvW.Flush()
	}
	if csvF != nil {
		_ = csvF.Close()
	}
	if jsonF != nil {
		_, _ = jsonF.WriteString("\n]\n")
		_ = jsonF.Close()
	}

	fmt.Println()
	fmt.Printf("appmon collected %d cycles of ~%s", cycles, o.interval)
	if pid := mon.PID(); pid != 0 {
		fmt.Printf(" from pid %d", pid)
	}
	fmt.Println()

	return nil
}

func newTable() *tabwriter.Writer {
	return tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
}

func printTableHeader(tw *tabwriter.Writer) {
	fmt.Fprintln(tw, "TIME\tMETRIC\tTYPE\tVALUE\tAPP")
	fmt.Fprintln(tw, "----\t------\t----\t-----\t---")
	tw.Flush()
}

func printTableRow(tw *tabwriter.Writer, ts time.Time, s metrics.Sample) {
	fmt.Fprintf(tw, "%s\t%s\t%s\t%s\t%s\n",
		ts.Format("2006-01-02 15:04:05"), s.Name, orDash(s.Type), displayValue(s), s.App)
	tw.Flush()
}

// displayValue humanizes byte-valued metrics for the table; everything
// else prints as a plain number.
func displayValue(s metrics.Sample) string {
	if strings.HasSuffix(s.Name, ".bytes") && s.Value >= 0 {
		return types.Bytes(s.Value).String()
	}
	return util.FmtFloat(s.Value)
}

func orDash(typ string) string {
	if typ == "" {
		return "-"
	}
	return typ
}

const _console = `appmon - Per-Process Resource Metrics Monitor

* GitHub: https://github.com/appmon/appmon

       Host: %s
       Kernel: %s
       CPUs: %s
       Mem: %s

appmon report as of %s:

`
