// Command csv2xml converts delimited text with CUEX_ customer extension
// columns into XML, once from a file or stdin, or continuously for every
// *.csv file dropped into a watched directory
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"os/signal"
	"path/filepath"
	"strings"
	"syscall"
	"time"

	"github.com/google/uuid"

	"csv2xml/internal/core/version"
	"csv2xml/internal/modkit"
	"csv2xml/internal/modkit/module"
	"csv2xml/internal/platform/config"
	"csv2xml/internal/platform/config/raw"
	perr "csv2xml/internal/platform/errors"
	"csv2xml/internal/platform/logger"
	"csv2xml/internal/services/convert/domain"
	convertmod "csv2xml/internal/services/convert/module"
	"csv2xml/internal/services/watch"
)

func main() {
	opt := logger.FromEnv()
	opt.Writer = os.Stderr
	opt.Level = raw.New().Prefix("LOG_").Get("LEVEL", "info")
	if opt.Service == "" {
		opt.Service = "csv2xml"
	}
	logger.Init(opt)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	ctx = logger.WithRun(ctx, uuid.NewString())

	if err := run(ctx, os.Args[1:], os.Stdin, os.Stdout, os.Stderr); err != nil {
		if errors.Is(err, flag.ErrHelp) {
			os.Exit(2)
		}
		logger.C(ctx).Error().Err(err).Str("code", perr.CodeOf(err).String()).Msg("csv2xml failed")
		os.Exit(1)
	}
}

type cliFlags struct {
	in, out      string
	watchDir     string
	outDir       string
	debounce     time.Duration
	initial      bool
	printVersion bool
	noHeader     bool
	opts         domain.Options
}

func parseFlags(args []string, stderr io.Writer) (cliFlags, error) {
	cfg := config.New().Prefix("CSV2XML_")
	def := domain.DefaultOptions()

	var f cliFlags
	fs := flag.NewFlagSet("csv2xml", flag.ContinueOnError)
	fs.SetOutput(stderr)

	fs.StringVar(&f.in, "in", cfg.MayString("IN", "-"), "input file, - for stdin")
	fs.StringVar(&f.out, "out", cfg.MayString("OUT", "-"), "output file, - for stdout")
	fs.StringVar(&f.opts.Delimiter, "delimiter", string(cfg.MayChar("DELIMITER", def.Delimiter[0])), "field delimiter or tab, comma, semicolon, pipe, space")
	fs.StringVar(&f.opts.Root, "root", cfg.MayString("ROOT", def.Root), "document element name")
	fs.StringVar(&f.opts.Record, "record", cfg.MayString("RECORD", def.Record), "per row element name")
	fs.StringVar(&f.opts.Extensions, "extensions", cfg.MayString("EXTENSIONS", def.Extensions), "customer extensions wrapper element name")
	fs.StringVar(&f.opts.Indent, "indent", strings.Repeat(" ", max(cfg.MayInt("INDENT_WIDTH", len(def.Indent)), 0)), "indent per nesting level, empty for compact output")
	fs.BoolVar(&f.opts.Strict, "strict", cfg.MayBool("STRICT", false), "reject rows whose field count differs from the header")
	fs.BoolVar(&f.opts.LazyQuotes, "lazy-quotes", cfg.MayBool("LAZY_QUOTES", false), "tolerate stray quotes in fields")
	fs.BoolVar(&f.opts.TrimSpace, "trim-space", cfg.MayBool("TRIM_SPACE", false), "drop leading spaces in fields")
	fs.BoolVar(&f.opts.RepairTags, "repair-tags", cfg.MayBool("REPAIR_TAGS", false), "rewrite illegal column names instead of failing")
	fs.BoolVar(&f.noHeader, "no-header", cfg.MayBool("NO_HEADER", false), "omit the XML declaration")
	fs.StringVar(&f.watchDir, "watch", cfg.MayString("WATCH", ""), "watch this directory and convert every *.csv written to it")
	fs.StringVar(&f.outDir, "out-dir", cfg.MayString("OUT_DIR", ""), "output directory in watch mode, defaults to the watched directory")
	fs.DurationVar(&f.debounce, "debounce", cfg.MayDuration("DEBOUNCE", watch.DefaultDebounce), "quiet period before converting a changed file")
	fs.BoolVar(&f.initial, "initial", cfg.MayBool("INITIAL", true), "in watch mode, convert files already present")
	fs.BoolVar(&f.printVersion, "version", false, "print version and exit")

	if err := fs.Parse(args); err != nil {
		return f, err
	}
	if fs.NArg() > 0 {
		return f, perr.InvalidArgf("unexpected arguments: %v", fs.Args())
	}
	f.opts.XMLHeader = !f.noHeader
	return f, nil
}

func run(ctx context.Context, args []string, stdin io.Reader, stdout, stderr io.Writer) error {
	f, err := parseFlags(args, stderr)
	if err != nil {
		return err
	}
	if f.printVersion {
		_, err := fmt.Fprintln(stdout, version.Info("csv2xml"))
		return err
	}

	conv := module.MustPortsOf[convertmod.Ports](
		convertmod.New(modkit.Deps{Cfg: config.New().Prefix("CSV2XML_")}),
	).Converter

	if f.watchDir != "" {
		w, err := watch.New(conv, watch.Options{
			InDir:    f.watchDir,
			OutDir:   f.outDir,
			Debounce: f.debounce,
			Convert:  f.opts,
			Initial:  f.initial,
		})
		if err != nil {
			return err
		}
		return w.Run(ctx)
	}

	in := stdin
	if f.in != "-" && f.in != "" {
		file, err := os.Open(f.in)
		if err != nil {
			return perr.Streamf(err, "open input %q", f.in)
		}
		defer func() { _ = file.Close() }()
		in = file
	}

	if f.out == "-" || f.out == "" {
		_, err := conv.Convert(ctx, in, stdout, f.opts)
		return err
	}
	return convertToFile(ctx, conv, in, f.out, f.opts)
}

// convertToFile writes next to path and renames on success so a failed run
// leaves any previous output intact
func convertToFile(ctx context.Context, conv domain.ServicePort, in io.Reader, path string, opts domain.Options) error {
	tmp, err := os.CreateTemp(filepath.Dir(path), ".csv2xml-*.tmp")
	if err != nil {
		return perr.Streamf(err, "create output for %q", path)
	}
	defer func() { _ = os.Remove(tmp.Name()) }()

	if _, err := conv.Convert(ctx, in, tmp, opts); err != nil {
		_ = tmp.Close()
		return err
	}
	if err := tmp.Close(); err != nil {
		return perr.Streamf(err, "close output %q", path)
	}
	if err := os.Rename(tmp.Name(), path); err != nil {
		return perr.Streamf(err, "rename output to %q", path)
	}
	return nil
}
