package analyzer

import (
	"context"
	"runtime"

	sitter "github.com/smacker/go-tree-sitter"
	"github.com/smacker/go-tree-sitter/python"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

// parsedFile is one input file's raw source plus its parsed tree.
type parsedFile struct {
	path string
	src  []byte
	tree *sitter.Tree
}

// parseFiles reads and parses every input file, bounded by a.parallelism
// (or GOMAXPROCS when unset), mirroring the teacher's bounded worker-pool
// pattern for per-file work but built on errgroup rather than a hand-rolled
// channel pool, since the rest of the pack (e.g. gavlooth-codeloom) reaches
// for errgroup for exactly this shape.
//
// A file that fails to read is an InputError (spec.md §7, surfaced
// immediately); a file that fails to parse into a usable tree is logged
// and skipped (a ParseError), analysis continuing with the rest.
func (a *Analyzer) parseFiles(ctx context.Context, files []string) ([]*parsedFile, error) {
	limit := a.parallelism
	if limit <= 0 {
		limit = runtime.GOMAXPROCS(0)
	}

	results := make([]*parsedFile, len(files))
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(limit)

	for i, f := range files {
		i, f := i, f
		g.Go(func() error {
			data, err := a.fs.DownloadWithURL(gctx, f)
			if err != nil {
				return &InputError{Path: f, Err: err}
			}
			parser := sitter.NewParser()
			parser.SetLanguage(python.GetLanguage())
			tree, err := parser.ParseCtx(gctx, nil, data)
			if err != nil {
				a.logger.Warn("parse failed, skipping file", zap.String("file", f), zap.Error(err))
				return nil
			}
			results[i] = &parsedFile{path: f, src: data, tree: tree}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	out := make([]*parsedFile, 0, len(files))
	for _, pf := range results {
		if pf != nil {
			out = append(out, pf)
		}
	}
	return out, nil
}
