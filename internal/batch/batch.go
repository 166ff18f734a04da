// Package batch converts many NFA files to DFA files concurrently.
package batch

import (
	"context"
	"errors"
	"fmt"
	"path/filepath"
	"strings"

	u "github.com/araddon/gou"
	"go.opentelemetry.io/otel/attribute"
	"golang.org/x/sync/errgroup"

	"github.com/lopezrodolfo/nfa/automaton"
	"github.com/lopezrodolfo/nfa/automaton/fafile"
	"github.com/lopezrodolfo/nfa/internal/telemetry"
)

// ErrDuplicateOutput marks a job whose output file belongs to an earlier
// job in the same run.
var ErrDuplicateOutput = errors.New("duplicate output path")

// Cache is the subset of *store.Store the converter needs.
type Cache interface {
	Get(ctx context.Context, n *automaton.NFA) (*automaton.DFA, bool, error)
	Put(ctx context.Context, n *automaton.NFA, d *automaton.DFA) error
}

// Job is one conversion: read Input as an NFA, write its DFA to Output.
type Job struct {
	Input  string
	Output string
}

// Result describes a finished Job. Err is set when the job failed; other
// jobs keep running.
type Result struct {
	Job
	NFAStates int
	DFAStates int
	Cached    bool
	Err       error
}

// Converter runs jobs on at most Workers goroutines. Cache may be nil.
type Converter struct {
	Workers int
	Cache   Cache
}

// JobsFor maps each input to <outDir>/<base>.dfa, where base is the input
// file name without its extension.
func JobsFor(outDir string, inputs []string) []Job {
	jobs := make([]Job, len(inputs))
	for i, in := range inputs {
		base := filepath.Base(in)
		base = strings.TrimSuffix(base, filepath.Ext(base))
		jobs[i] = Job{Input: in, Output: filepath.Join(outDir, base+".dfa")}
	}
	return jobs
}

// Run converts every job and returns the results in job order. The error is
// non-nil only when ctx is cancelled; per-job failures are in the results.
// Only the first job writing a given output path runs; later ones fail
// with ErrDuplicateOutput.
func (c *Converter) Run(ctx context.Context, jobs []Job) ([]Result, error) {
	workers := c.Workers
	if workers < 1 {
		return nil, fmt.Errorf("workers must be > 0")
	}
	ctx, span := telemetry.Start(ctx, "batch.run",
		attribute.Int("batch.jobs", len(jobs)),
		attribute.Int("batch.workers", workers),
	)

	results := make([]Result, len(jobs))
	owners := make(map[string]string, len(jobs))
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(workers)
	for i, job := range jobs {
		out := filepath.Clean(job.Output)
		if first, ok := owners[out]; ok {
			results[i] = Result{Job: job, Err: fmt.Errorf("%s: %w: %s is also written for %s", job.Input, ErrDuplicateOutput, job.Output, first)}
			u.Warnf("batch: %v", results[i].Err)
			continue
		}
		owners[out] = job.Input
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			results[i] = c.convert(gctx, job)
			return nil
		})
	}
	err := g.Wait()
	telemetry.End(span, err)
	if err != nil {
		return results, err
	}

	failed := 0
	for _, r := range results {
		if r.Err != nil {
			failed++
		}
	}
	u.Infof("batch: converted %d of %d automata", len(jobs)-failed, len(jobs))
	return results, nil
}

func (c *Converter) convert(ctx context.Context, job Job) (res Result) {
	res.Job = job
	ctx, span := telemetry.Start(ctx, "batch.convert", attribute.String("batch.input", job.Input))
	defer func() { telemetry.End(span, res.Err) }()

	n, err := fafile.ReadNFAFile(job.Input)
	if err != nil {
		res.Err = err
		u.Warnf("batch: %v", err)
		return res
	}
	res.NFAStates = n.NumStates()

	var d *automaton.DFA
	if c.Cache != nil {
		cached, ok, err := c.Cache.Get(ctx, n)
		if err != nil {
			u.Warnf("batch: cache lookup for %s: %v", job.Input, err)
		}
		if ok {
			d = cached
			res.Cached = true
			u.Debugf("batch: cache hit for %s", job.Input)
		}
	}
	if d == nil {
		d = automaton.Determinize(n)
		if c.Cache != nil {
			if err := c.Cache.Put(ctx, n, d); err != nil {
				u.Warnf("batch: cache store for %s: %v", job.Input, err)
			}
		}
	}
	res.DFAStates = d.NumStates()
	span.SetAttributes(
		attribute.Int("nfa.states", res.NFAStates),
		attribute.Int("dfa.states", res.DFAStates),
		attribute.Bool("batch.cached", res.Cached),
	)

	if err := fafile.WriteDFAFile(job.Output, d); err != nil {
		res.Err = fmt.Errorf("%s: %w", job.Output, err)
		return res
	}
	u.Debugf("batch: %s -> %s (%d -> %d states)", job.Input, job.Output, res.NFAStates, res.DFAStates)
	return res
}
