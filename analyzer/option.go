package analyzer

import (
	"github.com/viant/afs"
	"go.uber.org/zap"
)

// Option configures an Analyzer, following the teacher's functional-
// options pattern (analyzer/option.go in viant/linager).
type Option func(*Analyzer)

// WithRoot sets an explicit project root, overriding inference
// (spec.md §6).
func WithRoot(root string) Option {
	return func(a *Analyzer) { a.root = root }
}

// WithDrawDefines toggles whether defines edges are retained in the
// output graph.
func WithDrawDefines(draw bool) Option {
	return func(a *Analyzer) { a.drawDefines = draw }
}

// WithDrawUses toggles whether uses edges are retained in the output
// graph.
func WithDrawUses(draw bool) Option {
	return func(a *Analyzer) { a.drawUses = draw }
}

// WithColorByFile annotates each node with a display-only hue index.
// The analyzer core computes but never interprets it.
func WithColorByFile(enabled bool) Option {
	return func(a *Analyzer) { a.colorByFile = enabled }
}

// WithAnnotate attaches filename:lineno metadata to each node.
func WithAnnotate(enabled bool) Option {
	return func(a *Analyzer) { a.annotate = enabled }
}

// WithProjectFiles sets marker filenames (e.g. "__init__.py",
// "pyproject.toml") used to detect package/project roots, mirroring the
// teacher's WithProjectFiles (go.mod, pom.xml, package.json).
func WithProjectFiles(files ...string) Option {
	return func(a *Analyzer) { a.projectFiles = files }
}

// WithFS injects an afs.Service, mirroring the teacher's Analyzer.fs.
// Defaults to afs.New() (local disk and any afs-registered scheme).
func WithFS(fs afs.Service) Option {
	return func(a *Analyzer) { a.fs = fs }
}

// WithLogger installs a structured logger for recoverable conditions
// (parse failures, MRO truncation, ambiguous wildcard contraction).
// Defaults to zap.NewNop().
func WithLogger(logger *zap.Logger) Option {
	return func(a *Analyzer) { a.logger = logger }
}

// WithOrphanPruning toggles the postprocessor's optional step of
// dropping nodes with no incident edges (spec.md §4.7.4).
func WithOrphanPruning(enabled bool) Option {
	return func(a *Analyzer) { a.pruneOrphans = enabled }
}

// WithParallelism bounds the number of files parsed concurrently before
// the single-threaded binding/use passes run (SPEC_FULL.md §5). A value
// <= 0 uses runtime.GOMAXPROCS(0) as the bound.
func WithParallelism(n int) Option {
	return func(a *Analyzer) { a.parallelism = n }
}
