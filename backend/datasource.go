package backend

import (
	"context"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"github.com/fsnotify/fsnotify"
)

// Result is the latest state of the open chart file.
type Result struct {
	// Name identifies the source, usually its path.
	Name   string
	Charts []Chart
	Err    error
}

type RWBox[T any] struct {
	t    T
	lock sync.RWMutex
}

func (r *RWBox[T]) Read(f func(*T)) {
	r.lock.RLock()
	defer r.lock.RUnlock()
	f(&r.t)
}

func (r *RWBox[T]) Write(f func(*T)) {
	r.lock.Lock()
	defer r.lock.Unlock()
	f(&r.t)
}

type request struct {
	path string
	// name and data are set for sources that cannot be watched.
	name string
	data []byte
}

// source is the file currently shown. Traces keep their file open and are
// read incrementally as the file grows.
type source struct {
	path  string
	file  *os.File
	csv   *csv.Reader
	trace *Trace
}

func (s *source) close() {
	if s != nil && s.file != nil {
		s.file.Close()
	}
}

// Datasource loads chart files and reloads them when they change on disk.
// All file access happens on the goroutine executing Run.
type Datasource struct {
	logger   *slog.Logger
	watcher  *fsnotify.Watcher
	requests chan request
	latest   RWBox[Result]

	subsLock sync.Mutex
	subs     map[chan Result]struct{}

	current *source
}

func NewDatasource(logger *slog.Logger) (*Datasource, error) {
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("failed creating file watcher: %w", err)
	}
	return &Datasource{
		logger:   logger,
		watcher:  watcher,
		requests: make(chan request, 4),
		subs:     map[chan Result]struct{}{},
	}, nil
}

// Open asks the datasource to show the file at path and follow changes to it.
func (d *Datasource) Open(path string) {
	d.requests <- request{path: path}
}

// OpenReader shows the contents of rc. Readers backed by a named file are
// watched like Open; anything else is loaded once.
func (d *Datasource) OpenReader(rc io.ReadCloser) {
	defer rc.Close()
	if f, ok := rc.(interface{ Name() string }); ok && f.Name() != "" {
		d.Open(f.Name())
		return
	}
	data, err := io.ReadAll(rc)
	if err != nil {
		d.publish(Result{Name: "chart", Err: err})
		return
	}
	d.requests <- request{name: "chart", data: data}
}

// Latest returns the most recently published result.
func (d *Datasource) Latest() Result {
	var r Result
	d.latest.Read(func(res *Result) {
		r = *res
	})
	return r
}

// Charts streams results until ctx is cancelled. Slow readers only ever see
// the newest result; intermediate ones are dropped.
func (d *Datasource) Charts(ctx context.Context) <-chan Result {
	out := make(chan Result, 1)
	d.subsLock.Lock()
	d.subs[out] = struct{}{}
	if latest := d.Latest(); latest.Name != "" {
		out <- latest
	}
	d.subsLock.Unlock()
	go func() {
		<-ctx.Done()
		d.subsLock.Lock()
		defer d.subsLock.Unlock()
		delete(d.subs, out)
		close(out)
	}()
	return out
}

func (d *Datasource) publish(r Result) {
	d.latest.Write(func(res *Result) {
		*res = r
	})
	d.subsLock.Lock()
	defer d.subsLock.Unlock()
	for ch := range d.subs {
		select {
		case ch <- r:
		default:
			select {
			case <-ch:
			default:
			}
			ch <- r
		}
	}
}

// Run services open requests and file events until ctx is cancelled.
func (d *Datasource) Run(ctx context.Context) error {
	defer func() {
		d.current.close()
		d.watcher.Close()
	}()
	for {
		select {
		case <-ctx.Done():
			return nil
		case req := <-d.requests:
			if req.path == "" {
				d.unwatch()
				charts, err := ParseJSON(req.name, req.data)
				d.publish(Result{Name: req.name, Charts: charts, Err: err})
				continue
			}
			d.open(req.path)
		case ev, ok := <-d.watcher.Events:
			if !ok {
				return nil
			}
			d.handle(ev)
		case err, ok := <-d.watcher.Errors:
			if !ok {
				return nil
			}
			d.logger.Warn("file watcher error", "err", err)
		}
	}
}

func (d *Datasource) unwatch() {
	if d.current == nil {
		return
	}
	d.current.close()
	if err := d.watcher.Remove(filepath.Dir(d.current.path)); err != nil {
		d.logger.Debug("failed removing watch", "path", d.current.path, "err", err)
	}
	d.current = nil
}

func (d *Datasource) open(path string) {
	path = filepath.Clean(path)
	d.unwatch()
	// Watching the directory keeps the watch alive across editors that
	// save by renaming a new file into place.
	if err := d.watcher.Add(filepath.Dir(path)); err != nil {
		d.logger.Warn("not watching chart file", "path", path, "err", err)
	}
	d.current = &source{path: path}
	d.logger.Info("opened chart file", "path", path)
	d.reload()
}

func (d *Datasource) handle(ev fsnotify.Event) {
	if d.current == nil || filepath.Clean(ev.Name) != d.current.path {
		return
	}
	d.logger.Debug("chart file event", "path", ev.Name, "op", ev.Op.String())
	switch {
	case ev.Has(fsnotify.Create):
		d.current.close()
		d.current = &source{path: d.current.path}
		d.reload()
	case ev.Has(fsnotify.Write):
		d.reload()
	}
}

func (d *Datasource) reload() {
	src := d.current
	if isTrace(src.path) {
		d.tail(src)
		return
	}
	charts, err := Load(src.path)
	if err != nil {
		d.logger.Error("failed loading chart file", "path", src.path, "err", err)
	} else {
		d.logger.Info("loaded chart file", "path", src.path, "charts", len(charts))
	}
	d.publish(Result{Name: src.path, Charts: charts, Err: err})
}

// tail reads whatever complete rows have been appended to a trace since the
// last call.
func (d *Datasource) tail(src *source) {
	if src.file == nil {
		f, err := os.Open(src.path)
		if err != nil {
			d.logger.Error("failed opening trace", "path", src.path, "err", err)
			d.publish(Result{Name: src.path, Err: err})
			return
		}
		src.file = f
		src.csv = newTraceReader(NewLineReader(f))
	}
	if src.trace == nil {
		header, err := src.csv.Read()
		if errors.Is(err, io.EOF) {
			return
		} else if err != nil {
			d.publish(Result{Name: src.path, Err: fmt.Errorf("%w: %s: reading header: %w", ErrFormat, src.path, err)})
			return
		}
		trace, err := NewTrace(filepath.Base(src.path), header)
		if err != nil {
			d.publish(Result{Name: src.path, Err: err})
			return
		}
		src.trace = trace
	}
	before := src.trace.Len()
	for {
		rec, err := src.csv.Read()
		if errors.Is(err, io.EOF) {
			break
		} else if err != nil {
			var perr *csv.ParseError
			if errors.As(err, &perr) {
				d.logger.Warn("skipping malformed trace row", "path", src.path, "err", err)
				continue
			}
			d.logger.Error("failed reading trace", "path", src.path, "err", err)
			d.publish(Result{Name: src.path, Err: err})
			return
		}
		if err := src.trace.Append(rec); err != nil {
			d.logger.Warn("skipping trace row", "path", src.path, "err", err)
		}
	}
	if src.trace.Len() == before || src.trace.Len() < 2 {
		return
	}
	chart, err := src.trace.Chart()
	if err != nil {
		d.publish(Result{Name: src.path, Err: err})
		return
	}
	d.logger.Debug("read trace rows", "path", src.path, "rows", src.trace.Len()-before)
	d.publish(Result{Name: src.path, Charts: []Chart{chart}})
}

func isTrace(path string) bool {
	return strings.EqualFold(filepath.Ext(path), ".csv")
}

// Load reads and parses a chart file once.
func Load(path string) ([]Chart, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	return Parse(path, data)
}
