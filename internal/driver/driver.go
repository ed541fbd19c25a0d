// Package driver orchestrates indexing across files: read, parse, lower,
// index, check, with a content-addressed disk cache and bounded parallelism.
package driver

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"runtime"
	"sort"
	"strings"

	"golang.org/x/sync/errgroup"

	"floe/internal/ast"
	"floe/internal/diag"
	"floe/internal/parser"
	"floe/internal/project"
	"floe/internal/semantic"
	"floe/internal/source"
	"floe/internal/trace"
)

// Stage labels progress events.
type Stage uint8

const (
	StageQueued Stage = iota
	StageParsing
	StageIndexing
	StageDone
	StageCached
	StageFailed
)

func (s Stage) String() string {
	switch s {
	case StageParsing:
		return "parsing"
	case StageIndexing:
		return "indexing"
	case StageDone:
		return "done"
	case StageCached:
		return "cached"
	case StageFailed:
		return "failed"
	default:
		return "queued"
	}
}

// Event reports per-file progress to an observer (the progress UI).
type Event struct {
	Path  string
	Stage Stage
}

// Options configure a batch run.
type Options struct {
	// Jobs bounds worker parallelism; 0 means GOMAXPROCS.
	Jobs int
	// MaxDiagnostics caps the per-file bag.
	MaxDiagnostics int
	// Cache is the optional disk cache; nil disables caching.
	Cache *DiskCache
	// Tracer receives phase spans; nil means no tracing.
	Tracer trace.Tracer
	// Manifest supplies exclude patterns for directory walks.
	Manifest *project.Manifest
	// Observer receives progress events; may be nil. Called from worker
	// goroutines.
	Observer func(Event)
}

// Summary carries the per-file counts the CLI prints and the cache stores.
type Summary struct {
	Scopes      int
	Symbols     int
	Definitions int
	Constraints int
	Uses        int
	HadErrors   bool
}

// FileResult is the outcome of indexing one file. Cache hits carry the
// summary and diagnostics but no builder or index; everything else is
// complete.
type FileResult struct {
	Path      string
	FileID    source.FileID
	Builder   *ast.Builder
	Module    ast.ModuleID
	Index     *semantic.Index
	Bag       *diag.Bag
	Summary   Summary
	FromCache bool
	Err       error
}

func (o *Options) observe(path string, stage Stage) {
	if o.Observer != nil {
		o.Observer(Event{Path: path, Stage: stage})
	}
}

func (o *Options) manifest() *project.Manifest {
	if o.Manifest != nil {
		return o.Manifest
	}
	return &project.Manifest{}
}

// ExpandPaths turns the CLI's path arguments into the sorted list of Python
// files to index. Directories are walked with the manifest's excludes; an
// empty argument list means the working directory.
func ExpandPaths(paths []string, manifest *project.Manifest) ([]string, error) {
	if len(paths) == 0 {
		paths = []string{"."}
	}
	seen := make(map[string]struct{})
	var files []string
	add := func(path string) {
		if _, ok := seen[path]; ok {
			return
		}
		seen[path] = struct{}{}
		files = append(files, path)
	}
	for _, path := range paths {
		info, err := os.Stat(path)
		if err != nil {
			return nil, fmt.Errorf("stat %s: %w", path, err)
		}
		if !info.IsDir() {
			if strings.HasSuffix(path, ".py") {
				add(path)
			}
			continue
		}
		listed, err := manifest.ListPythonFiles(path)
		if err != nil {
			return nil, err
		}
		for _, f := range listed {
			add(f)
		}
	}
	sort.Strings(files)
	return files, nil
}

// IndexPaths indexes the given files and directories in parallel. Results
// come back in input order; per-file failures land in the result's Err and
// Bag rather than aborting the batch.
func IndexPaths(ctx context.Context, paths []string, opts Options) (*source.FileSet, []FileResult, error) {
	files, err := ExpandPaths(paths, opts.manifest())
	if err != nil {
		return nil, nil, err
	}
	fileSet := source.NewFileSet()
	if len(files) == 0 {
		return fileSet, nil, nil
	}

	defer trace.Span(opts.Tracer, trace.LevelPhase, "index-batch", "")()

	// Loading mutates the FileSet; do it up front, single-threaded.
	fileIDs := make([]source.FileID, len(files))
	loadErrs := make([]error, len(files))
	for i, path := range files {
		fileIDs[i], loadErrs[i] = fileSet.Load(path)
	}

	jobs := opts.Jobs
	if jobs <= 0 {
		jobs = runtime.GOMAXPROCS(0)
	}

	p := parser.New()
	results := make([]FileResult, len(files))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(min(jobs, len(files)))
	for i, path := range files {
		g.Go(func() error {
			select {
			case <-gctx.Done():
				return gctx.Err()
			default:
			}
			results[i] = indexOne(path, fileIDs[i], loadErrs[i], fileSet, p, &opts)
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return fileSet, results, err
	}
	return fileSet, results, nil
}

func indexOne(path string, fileID source.FileID, loadErr error, fileSet *source.FileSet, p *parser.Parser, opts *Options) FileResult {
	bag := diag.NewBag(opts.MaxDiagnostics)
	result := FileResult{Path: path, FileID: fileID, Bag: bag}

	if loadErr != nil {
		bag.Add(diag.NewError(diag.ProjFileRead, source.Span{},
			fmt.Sprintf("failed to read %s: %v", path, loadErr)))
		result.Err = loadErr
		result.Summary.HadErrors = true
		opts.observe(path, StageFailed)
		return result
	}
	file := fileSet.Get(fileID)

	if opts.Cache != nil {
		if payload, ok := opts.Cache.Get(file.Hash); ok {
			payload.restore(&result, fileID)
			trace.Emitf(opts.Tracer, trace.LevelDetail, "cache", "hit %s", path)
			opts.observe(path, StageCached)
			return result
		}
	}

	opts.observe(path, StageParsing)
	endParse := trace.Span(opts.Tracer, trace.LevelDetail, "parse", path)
	builder := ast.NewBuilder(ast.Hints{}, nil)
	parsed, err := p.ParseFile(file, builder)
	endParse()
	if err != nil {
		bag.Add(diag.NewError(diag.ParseSyntaxError, source.Span{File: fileID}, err.Error()))
		result.Err = err
		result.Summary.HadErrors = true
		opts.observe(path, StageFailed)
		return result
	}
	if parsed.HadErrors {
		bag.Add(diag.NewWarning(diag.ParseSyntaxError, source.Span{File: fileID},
			"syntax errors; index covers the recovered portion"))
	}

	opts.observe(path, StageIndexing)
	endIndex := trace.Span(opts.Tracer, trace.LevelDetail, "index", path)
	idx := semantic.BuildIndex(builder, parsed.Module, semantic.Options{})
	semantic.Check(builder, idx, diag.BagReporter{Bag: bag})
	endIndex()
	bag.Sort()

	result.Builder = builder
	result.Module = parsed.Module
	result.Index = idx
	result.Summary = Summary{
		Scopes:      idx.Scopes.Len(),
		Symbols:     idx.Symbols.Len(),
		Definitions: idx.Definitions.Len(),
		Constraints: idx.Constraints.Len(),
		Uses:        len(idx.Uses()),
		HadErrors:   bag.HasErrors(),
	}

	if opts.Cache != nil {
		if err := opts.Cache.Put(file.Hash, newPayload(path, &result)); err != nil {
			trace.Emitf(opts.Tracer, trace.LevelDetail, "cache", "put %s failed: %v", path, err)
		}
	}
	opts.observe(path, StageDone)
	return result
}

// CacheDir returns the default disk-cache location.
func CacheDir() (string, error) {
	base := os.Getenv("XDG_CACHE_HOME")
	if base == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return "", err
		}
		base = filepath.Join(home, ".cache")
	}
	return filepath.Join(base, "floe"), nil
}
