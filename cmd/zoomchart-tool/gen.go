package main

import (
	"bufio"
	"context"
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"os/signal"
	"strconv"
	"time"

	"github.com/spf13/cobra"

	"git.sr.ht/~whereswaldon/zoomchart/backend"
	"git.sr.ht/~whereswaldon/zoomchart/sensors"
)

const (
	defaultGenRows     = 90
	defaultGenInterval = 24 * time.Hour
	defaultGenTick     = time.Second
)

var (
	genOutput   string
	genRows     int
	genInterval time.Duration
	genStart    string
	genSeed     int64
	genFollow   bool
	genTick     time.Duration
)

func newGenCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "gen",
		Short: "Write a synthetic CSV trace",
		Long: `Write a synthetic CSV trace of a few generated series.

With --follow the command keeps appending one row per tick until interrupted,
which is useful for watching the viewer tail a growing file:

  zoomchart-tool gen --follow --output trace.csv &
  zoomchart trace.csv`,
		Args: cobra.NoArgs,
		RunE: runGenCmd,
	}
	cmd.Flags().StringVarP(&genOutput, "output", "o", "-", "output file for the CSV trace")
	cmd.Flags().IntVar(&genRows, "rows", defaultGenRows, "number of rows to write up front")
	cmd.Flags().DurationVar(&genInterval, "interval", defaultGenInterval, "trace time between rows")
	cmd.Flags().StringVar(&genStart, "start", "", "timestamp of the first row as YYYY-MM-DD (default: rows*interval before today)")
	cmd.Flags().Int64Var(&genSeed, "seed", 1, "random seed")
	cmd.Flags().BoolVar(&genFollow, "follow", false, "keep appending rows until interrupted")
	cmd.Flags().DurationVar(&genTick, "tick", defaultGenTick, "wall-clock delay between appended rows in follow mode")
	return cmd
}

func runGenCmd(cmd *cobra.Command, _ []string) error {
	logger := newLogger(cmd)
	if genRows < 0 {
		return fmt.Errorf("--rows must not be negative")
	}
	if genInterval <= 0 {
		return fmt.Errorf("--interval must be positive")
	}
	start, err := parseStart(genStart, time.Now(), genRows, genInterval)
	if err != nil {
		return err
	}

	var output io.WriteCloser
	if genOutput == "-" {
		output = nopCloser{cmd.OutOrStdout()}
	} else {
		f, err := os.Create(genOutput)
		if err != nil {
			return fmt.Errorf("failed opening output file %q: %w", genOutput, err)
		}
		output = f
	}
	defer func() {
		if err := output.Close(); err != nil {
			logger.Error("failed closing output", "err", err)
		}
	}()

	tw := newTraceWriter(output, sensors.Defaults(genSeed))
	if err := tw.WriteHeader(); err != nil {
		return err
	}
	next := start
	for i := 0; i < genRows; i++ {
		if err := tw.WriteRow(next); err != nil {
			return err
		}
		next = next.Add(genInterval)
	}
	if err := tw.Flush(); err != nil {
		return err
	}
	logger.Debug("wrote trace", "rows", genRows, "output", genOutput)
	if !genFollow {
		return nil
	}

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt)
	defer stop()
	return tw.Follow(ctx, next, genInterval, genTick)
}

// parseStart resolves the --start flag. Without one the trace ends today.
func parseStart(s string, now time.Time, rows int, interval time.Duration) (time.Time, error) {
	if s == "" {
		today := now.UTC().Truncate(24 * time.Hour)
		return today.Add(-time.Duration(rows) * interval), nil
	}
	t, err := time.ParseInLocation(time.DateOnly, s, time.UTC)
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid --start %q: %w", s, err)
	}
	return t, nil
}

type nopCloser struct {
	io.Writer
}

func (nopCloser) Close() error { return nil }

// traceWriter emits rows in the trace format read by backend.ParseTrace.
type traceWriter struct {
	buf     *bufio.Writer
	csv     *csv.Writer
	sensors []sensors.Sensor
	record  []string
}

func newTraceWriter(w io.Writer, sensorList []sensors.Sensor) *traceWriter {
	buf := bufio.NewWriter(w)
	return &traceWriter{
		buf:     buf,
		csv:     csv.NewWriter(buf),
		sensors: sensorList,
		record:  make([]string, len(sensorList)+1),
	}
}

func (t *traceWriter) WriteHeader() error {
	t.record[0] = "timestamp (ms)"
	for i, s := range t.sensors {
		t.record[i+1] = fmt.Sprintf("%s [%s]", sensors.Heading(s), backend.HexColor(backend.PaletteColor(i)))
	}
	return t.csv.Write(t.record)
}

func (t *traceWriter) WriteRow(at time.Time) error {
	t.record[0] = strconv.FormatInt(at.UnixMilli(), 10)
	for i, s := range t.sensors {
		v, err := s.Read(at)
		if err != nil {
			return fmt.Errorf("failed reading value: %w", err)
		}
		t.record[i+1] = strconv.FormatFloat(v, 'f', 2, 64)
	}
	return t.csv.Write(t.record)
}

func (t *traceWriter) Flush() error {
	t.csv.Flush()
	if err := t.csv.Error(); err != nil {
		return err
	}
	return t.buf.Flush()
}

// Follow appends a row every tick, advancing trace time by interval, until
// ctx is done.
func (t *traceWriter) Follow(ctx context.Context, next time.Time, interval, tick time.Duration) error {
	ticker := time.NewTicker(tick)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return t.Flush()
		case <-ticker.C:
			if err := t.WriteRow(next); err != nil {
				return err
			}
			if err := t.Flush(); err != nil {
				return err
			}
			next = next.Add(interval)
		}
	}
}
