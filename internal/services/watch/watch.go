// Package watch converts delimited files dropped into a directory
package watch

import (
	"bufio"
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/google/uuid"

	perr "csv2xml/internal/platform/errors"
	"csv2xml/internal/platform/logger"
	"csv2xml/internal/services/convert/domain"
)

// DefaultDebounce is the quiet period after the last write before converting
const DefaultDebounce = 500 * time.Millisecond

// Options configure a Watcher
type Options struct {
	InDir  string
	OutDir string // defaults to InDir

	Debounce time.Duration
	Convert  domain.Options

	// Initial converts the *.csv files already present when Run starts
	Initial bool

	// OnResult is called after every conversion attempt
	OnResult func(Result)
}

// Result reports one file conversion
type Result struct {
	Input  string
	Output string
	Stats  domain.Stats
	Err    error
}

// Watcher turns *.csv files in InDir into *.xml files in OutDir
type Watcher struct {
	svc  domain.ServicePort
	opts Options
	log  *logger.Logger

	// started, when set, receives the fsnotify watcher once InDir is watched
	started func(*fsnotify.Watcher)
}

// New checks the directories and options; OutDir is created when missing
func New(svc domain.ServicePort, opts Options) (*Watcher, error) {
	if svc == nil {
		return nil, perr.InvalidArgf("watch: converter is required")
	}
	if opts.InDir == "" {
		return nil, perr.WithField(perr.InvalidArgf("watch: input directory is required"), "in_dir")
	}
	fi, err := os.Stat(opts.InDir)
	if err != nil {
		return nil, perr.WithField(perr.Wrapf(err, perr.ErrorCodeInvalidArgument, "watch: input directory %q", opts.InDir), "in_dir")
	}
	if !fi.IsDir() {
		return nil, perr.WithField(perr.InvalidArgf("watch: %q is not a directory", opts.InDir), "in_dir")
	}
	if opts.OutDir == "" {
		opts.OutDir = opts.InDir
	}
	if err := os.MkdirAll(opts.OutDir, 0o755); err != nil {
		return nil, perr.WithField(perr.Streamf(err, "watch: create output directory %q", opts.OutDir), "out_dir")
	}
	if opts.Debounce <= 0 {
		opts.Debounce = DefaultDebounce
	}
	if err := opts.Convert.Validate(); err != nil {
		return nil, err
	}
	return &Watcher{svc: svc, opts: opts, log: logger.Named("watch")}, nil
}

// IsCSV reports whether name has a .csv extension, ignoring case
func IsCSV(name string) bool { return strings.EqualFold(filepath.Ext(name), ".csv") }

// OutputPath maps an input file to its XML file in dir
func OutputPath(dir, input string) string {
	base := filepath.Base(input)
	return filepath.Join(dir, strings.TrimSuffix(base, filepath.Ext(base))+".xml")
}

// Run watches InDir until ctx is done; in-flight conversions finish first
func (w *Watcher) Run(ctx context.Context) error {
	fw, err := fsnotify.NewWatcher()
	if err != nil {
		return perr.Wrap(err, perr.ErrorCodeUnavailable, "watch: create watcher")
	}
	defer func() { _ = fw.Close() }()

	if err := fw.Add(w.opts.InDir); err != nil {
		return perr.Wrapf(err, perr.ErrorCodeUnavailable, "watch: watch %q", w.opts.InDir)
	}
	w.log.Info().Str("in", w.opts.InDir).Str("out", w.opts.OutDir).Dur("debounce", w.opts.Debounce).Msg("watching")
	if w.started != nil {
		w.started(fw)
	}

	var (
		timers  = map[string]*time.Timer{}
		running = map[string]bool{}
		due     = make(chan string)
		done    = make(chan string)
		quit    = make(chan struct{})
		active  int
	)
	schedule := func(path string) {
		if t, ok := timers[path]; ok {
			t.Stop()
		}
		timers[path] = time.AfterFunc(w.opts.Debounce, func() {
			select {
			case due <- path:
			case <-quit:
			}
		})
	}
	// stop releases pending timers and waits for in-flight conversions
	stop := func() {
		close(quit)
		for _, t := range timers {
			t.Stop()
		}
		for ; active > 0; active-- {
			<-done
		}
	}

	if w.opts.Initial {
		entries, err := os.ReadDir(w.opts.InDir)
		if err != nil {
			close(quit)
			return perr.Streamf(err, "watch: list %q", w.opts.InDir)
		}
		for _, e := range entries {
			if !e.IsDir() && IsCSV(e.Name()) {
				schedule(filepath.Join(w.opts.InDir, e.Name()))
			}
		}
	}

	for {
		select {
		case <-ctx.Done():
			stop()
			w.log.Info().Msg("watcher stopped")
			return nil

		case ev, ok := <-fw.Events:
			if !ok {
				stop()
				return perr.Unavailablef("watch: event stream closed")
			}
			if !ev.Has(fsnotify.Write) && !ev.Has(fsnotify.Create) {
				continue
			}
			if !IsCSV(ev.Name) {
				continue
			}
			schedule(ev.Name)

		case path := <-due:
			delete(timers, path)
			if running[path] {
				// still converting the previous version
				schedule(path)
				continue
			}
			running[path] = true
			active++
			go func() {
				w.handle(ctx, path)
				done <- path
			}()

		case path := <-done:
			delete(running, path)
			active--

		case err, ok := <-fw.Errors:
			if !ok {
				stop()
				return perr.Unavailablef("watch: error stream closed")
			}
			w.log.Warn().Err(err).Msg("watch error")
		}
	}
}

func (w *Watcher) handle(ctx context.Context, path string) {
	ctx = logger.WithRun(ctx, uuid.NewString())
	out, st, err := w.ConvertFile(ctx, path)
	log := logger.C(ctx)
	switch {
	case err == nil:
		log.Info().Str("input", path).Str("output", out).Int("rows", st.Rows).Msg("file converted")
	case errors.Is(err, os.ErrNotExist):
		// removed before the debounce fired
		log.Debug().Str("input", path).Msg("file vanished")
	default:
		log.Error().Err(err).Str("input", path).Msg("file conversion failed")
	}
	if w.opts.OnResult != nil {
		w.opts.OnResult(Result{Input: path, Output: out, Stats: st, Err: err})
	}
}

// ConvertFile converts path into OutDir through a temp file and rename, so
// readers never see a partial document
func (w *Watcher) ConvertFile(ctx context.Context, path string) (string, domain.Stats, error) {
	in, err := os.Open(path)
	if err != nil {
		return "", domain.Stats{}, perr.Streamf(err, "watch: open %q", path)
	}
	defer func() { _ = in.Close() }()

	target := OutputPath(w.opts.OutDir, path)
	tmp, err := os.CreateTemp(w.opts.OutDir, "."+filepath.Base(target)+".*.tmp")
	if err != nil {
		return "", domain.Stats{}, perr.Streamf(err, "watch: create temp file")
	}
	cleanup := func() {
		_ = tmp.Close()
		_ = os.Remove(tmp.Name())
	}

	bw := bufio.NewWriter(tmp)
	st, err := w.svc.Convert(ctx, in, bw, w.opts.Convert)
	if err == nil {
		err = bw.Flush()
		if err != nil {
			err = perr.Streamf(err, "watch: write %q", tmp.Name())
		}
	}
	if err != nil {
		cleanup()
		return "", st, perr.WithOp(err, "convert_file")
	}
	if err := tmp.Close(); err != nil {
		_ = os.Remove(tmp.Name())
		return "", st, perr.Streamf(err, "watch: close %q", tmp.Name())
	}
	if err := os.Rename(tmp.Name(), target); err != nil {
		_ = os.Remove(tmp.Name())
		return "", st, perr.Streamf(err, "watch: rename to %q", target)
	}
	return target, st, nil
}
