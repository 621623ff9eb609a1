// Package walker implements the parallel recursive directory scan of
// spec.md §5: a fixed worker pool reads each discovered file, runs it
// through a passagematcher.Scan, and streams PathMatches to a single
// consumer.
package walker

import (
	"context"
	"io/fs"
	"os"
	"path/filepath"
	"sync"

	"github.com/basalt-labs/topos/core/filter"
	"github.com/basalt-labs/topos/core/passagematcher"
	"github.com/basalt-labs/topos/internal/logging"
	"github.com/basalt-labs/topos/internal/validation"
)

// maxWorkers bounds the fixed thread pool scanning files in parallel.
const maxWorkers = 32

// PathMatches pairs one scanned file with the matches found in it. Path is
// nil for synchronous single-buffer scans that have no backing file.
type PathMatches struct {
	Path    *string
	Matches []passagematcher.Match
	Err     error
}

// pool is a minimal generic worker pool: a fixed number of goroutines pull
// jobs from an input channel and push results to an output channel.
type pool[Job any, Result any] struct {
	numWorkers int
	jobs       chan Job
	results    chan Result
	wg         sync.WaitGroup
}

func newPool[Job any, Result any](numWorkers int) *pool[Job, Result] {
	if numWorkers <= 0 {
		numWorkers = maxWorkers
	}
	return &pool[Job, Result]{
		numWorkers: numWorkers,
		jobs:       make(chan Job, numWorkers),
		results:    make(chan Result, numWorkers),
	}
}

func (p *pool[Job, Result]) start(workerFn func(Job) Result) {
	for i := 0; i < p.numWorkers; i++ {
		p.wg.Add(1)
		go func() {
			defer p.wg.Done()
			for job := range p.jobs {
				p.results <- workerFn(job)
			}
		}()
	}
}

func (p *pool[Job, Result]) submit(job Job) { p.jobs <- job }

func (p *pool[Job, Result]) close() {
	close(p.jobs)
	go func() {
		p.wg.Wait()
		close(p.results)
	}()
}

// Walk enumerates every regular file under root, scans each with m, and
// returns a channel of PathMatches. The channel closes once every
// discovered file has been scanned or ctx is canceled.
//
// Cancellation: if the caller stops draining the returned channel and
// cancels ctx, in-flight workers notice on their next send attempt and
// return without blocking forever, matching spec.md §5's cancellation
// model (closing the consumer causes workers to quit instead of hang).
func Walk(ctx context.Context, root string, m *filter.Matcher) <-chan PathMatches {
	p := newPool[string, PathMatches](maxWorkers)
	p.start(func(path string) PathMatches {
		if err := validation.ValidatePath(path); err != nil {
			logging.SecurityEvent("invalid_path_rejected", "walker", "path", path, "error", err)
			return PathMatches{Path: &path, Err: err}
		}
		info, err := os.Stat(path)
		if err != nil {
			logging.Error("walker: failed to stat file", "path", path, "error", err)
			return PathMatches{Path: &path, Err: err}
		}
		if err := validation.ValidateFileSize(info.Size()); err != nil {
			logging.Warn("walker: skipping oversized file", "path", path, "error", err)
			return PathMatches{Path: &path, Err: err}
		}
		data, err := os.ReadFile(path)
		if err != nil {
			logging.Error("walker: failed to read file", "path", path, "error", err)
			return PathMatches{Path: &path, Err: err}
		}
		matches := passagematcher.Scan(m, string(data))
		return PathMatches{Path: &path, Matches: matches}
	})

	go func() {
		defer p.close()
		_ = filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
			select {
			case <-ctx.Done():
				return ctx.Err()
			default:
			}
			if err != nil {
				logging.Error("walker: directory traversal error", "path", path, "error", err)
				return nil
			}
			if d.IsDir() {
				return nil
			}
			select {
			case <-ctx.Done():
				return ctx.Err()
			default:
				p.submit(path)
			}
			return nil
		})
	}()

	return p.results
}
