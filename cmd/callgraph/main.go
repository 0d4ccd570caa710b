// Command callgraph builds a static defines/uses call graph over a tree
// of source files and renders it as Graphviz DOT or JSON.
//
// This file defines the main control flow, grounded in the teacher pack's
// arl-sockdrawer/main.go: top-level flag.* vars, a usage const, and a
// main()/doMain() split so the exit-code handling stays in one place.
package main

import (
	"context"
	"flag"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/viant/afs"
	"github.com/viant/afs/url"
	"go.uber.org/zap"

	"github.com/viant/callgraph/analyzer"
	"github.com/viant/callgraph/graph"
	"github.com/viant/callgraph/output"
)

var (
	configFile   = flag.String("config", "", "YAML config file (see config.go)")
	root         = flag.String("root", "", "project root (inferred from inputs when omitted)")
	format       = flag.String("format", "dot", "output format: dot or json")
	outputPath   = flag.String("output", "", "output file (stdout when omitted)")
	drawDefines  = flag.Bool("draw-defines", true, "include defines edges in the output")
	drawUses     = flag.Bool("draw-uses", true, "include uses edges in the output")
	colorByFile  = flag.Bool("color-by-file", false, "annotate nodes with a per-file color")
	annotate     = flag.Bool("annotate", false, "annotate nodes with filename:line")
	pruneOrphans = flag.Bool("prune-orphans", false, "drop nodes with no incident edge")
	parallelism  = flag.Int("parallelism", 0, "bounded parse concurrency (0 = GOMAXPROCS)")
	verbose      = flag.Bool("v", false, "enable verbose (debug-level) logging")
)

const usage = `Usage: callgraph [flags] <file-or-dir>...

callgraph builds a static call graph over a tree of source files and
renders it as Graphviz DOT or JSON.

Flags:
 -config=file          Load additional options from a YAML config file.
 -root=dir             Project root (inferred from inputs when omitted).
 -format=dot|json       Output format (default dot).
 -output=file           Output file (stdout when omitted).
 -draw-defines=bool     Include defines edges (default true).
 -draw-uses=bool        Include uses edges (default true).
 -color-by-file=bool    Annotate nodes with a per-file color (default false).
 -annotate=bool         Annotate nodes with filename:line (default false).
 -prune-orphans=bool    Drop nodes with no incident edge (default false).
 -parallelism=n         Bounded parse concurrency (default GOMAXPROCS).
 -v                     Enable verbose (debug-level) logging.
`

func main() {
	flag.Parse()
	if err := doMain(flag.Args()); err != nil {
		fmt.Fprintf(os.Stderr, "callgraph: %s\n", err)
		os.Exit(1)
	}
}

func doMain(args []string) error {
	if len(args) == 0 {
		fmt.Fprint(os.Stderr, usage)
		return nil
	}

	cfg, err := loadConfig(*configFile)
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}

	logger, err := newLogger(*verbose)
	if err != nil {
		return err
	}
	defer logger.Sync()

	files, err := discoverFiles(context.Background(), args)
	if err != nil {
		return fmt.Errorf("discover files: %w", err)
	}
	if len(files) == 0 {
		return fmt.Errorf("no source files found under %s", strings.Join(args, ", "))
	}

	opts := buildOptions(cfg, logger)

	g, err := runAnalyze(files, opts)
	if err != nil {
		return fmt.Errorf("analyze: %w", err)
	}

	out, closeFn, err := openOutput(cfg)
	if err != nil {
		return err
	}
	defer closeFn()

	switch resolveFormat(cfg) {
	case "json":
		return output.WriteJSON(out, g)
	default:
		return output.WriteDOT(out, g)
	}
}

// runAnalyze recovers from an InvariantError panic raised deep inside the
// library (spec.md §7: invariant violations are fatal bugs, not a
// condition library code itself can meaningfully handle) and reports it as
// an ordinary error at the CLI boundary, the one place this repository
// recovers a panic.
func runAnalyze(files []string, opts []analyzer.Option) (g *graph.Graph, err error) {
	defer func() {
		if r := recover(); r != nil {
			if ie, ok := r.(*graph.InvariantError); ok {
				err = ie
				return
			}
			panic(r)
		}
	}()
	return analyzer.Analyze(context.Background(), files, opts...)
}

func newLogger(verbose bool) (*zap.Logger, error) {
	if verbose {
		return zap.NewDevelopment()
	}
	cfg := zap.NewProductionConfig()
	cfg.Level.SetLevel(zap.WarnLevel)
	return cfg.Build()
}

func buildOptions(cfg *config, logger *zap.Logger) []analyzer.Option {
	opts := []analyzer.Option{analyzer.WithLogger(logger)}
	if *root != "" {
		opts = append(opts, analyzer.WithRoot(*root))
	} else if cfg.Root != "" {
		opts = append(opts, analyzer.WithRoot(cfg.Root))
	}
	if len(cfg.ProjectFiles) > 0 {
		opts = append(opts, analyzer.WithProjectFiles(cfg.ProjectFiles...))
	}
	opts = append(opts,
		analyzer.WithDrawDefines(boolOr(cfg.DrawDefines, *drawDefines)),
		analyzer.WithDrawUses(boolOr(cfg.DrawUses, *drawUses)),
		analyzer.WithColorByFile(cfg.ColorByFile || *colorByFile),
		analyzer.WithAnnotate(cfg.Annotate || *annotate),
		analyzer.WithOrphanPruning(cfg.PruneOrphans || *pruneOrphans),
	)
	if cfg.Parallelism > 0 {
		opts = append(opts, analyzer.WithParallelism(cfg.Parallelism))
	} else if *parallelism > 0 {
		opts = append(opts, analyzer.WithParallelism(*parallelism))
	}
	return opts
}

func resolveFormat(cfg *config) string {
	if cfg.Format != "" {
		return cfg.Format
	}
	return *format
}

func openOutput(cfg *config) (io.Writer, func(), error) {
	path := *outputPath
	if path == "" {
		path = cfg.Output
	}
	if path == "" {
		return os.Stdout, func() {}, nil
	}
	f, err := os.Create(path)
	if err != nil {
		return nil, nil, err
	}
	return f, func() { f.Close() }, nil
}

// discoverFiles walks every argument (file or directory) via afs, the same
// abstraction analyzer.WithFS injects, collecting every *.py file found.
func discoverFiles(ctx context.Context, args []string) ([]string, error) {
	fs := afs.New()
	var files []string
	for _, arg := range args {
		if !strings.HasSuffix(arg, ".py") {
			if ok, _ := isDir(ctx, arg); !ok {
				continue
			}
		}
		if strings.HasSuffix(arg, ".py") {
			files = append(files, arg)
			continue
		}
		err := fs.Walk(ctx, arg, func(ctx context.Context, baseURL, parent string, info os.FileInfo, reader io.Reader) (bool, error) {
			if info.IsDir() {
				return true, nil
			}
			if strings.HasSuffix(info.Name(), ".py") {
				files = append(files, url.Join(baseURL, parent, info.Name()))
			}
			return true, nil
		})
		if err != nil {
			return nil, err
		}
	}
	return files, nil
}

func isDir(ctx context.Context, path string) (bool, error) {
	info, err := os.Stat(path)
	if err != nil {
		return false, err
	}
	return info.IsDir(), nil
}
