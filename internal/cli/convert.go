package cli

import (
	"context"
	"flag"
	"fmt"
	"io"
	"os"

	u "github.com/araddon/gou"
	"go.opentelemetry.io/otel/attribute"

	"github.com/lopezrodolfo/nfa/automaton"
	"github.com/lopezrodolfo/nfa/automaton/fafile"
	"github.com/lopezrodolfo/nfa/internal/batch"
	"github.com/lopezrodolfo/nfa/internal/telemetry"
)

func convertFlags(fs *flag.FlagSet) runFunc {
	nfaPath := fs.String("nfa", "", "NFA description file (required)")
	outPath := fs.String("out", "", "DFA output file, stdout when empty")
	stats := fs.Bool("stats", false, "print subset construction metrics")

	return func(ctx context.Context, e *env, args []string) error {
		if *nfaPath == "" {
			return usageErrorf("convert: -nfa is required")
		}
		if len(args) > 0 {
			return usageErrorf("convert: unexpected arguments %q", args)
		}
		n, err := loadNFA(ctx, *nfaPath)
		if err != nil {
			return err
		}

		var d *automaton.DFA
		var metrics *automaton.Metrics
		if *stats {
			// Metrics come from a fresh construction, never from the cache.
			_, span := telemetry.Start(ctx, "fa.determinize", attribute.Int("nfa.states", n.NumStates()))
			d, metrics = automaton.DeterminizeWithMetrics(n)
			span.SetAttributes(attribute.Int("dfa.states", d.NumStates()))
			telemetry.End(span, nil)
		} else {
			cache := openCache(e.cfg)
			defer cache.Close()
			d = determinize(ctx, n, cache)
		}

		statsOut := e.stdout
		if *outPath == "" {
			if err := fafile.WriteDFA(e.stdout, d); err != nil {
				return err
			}
			statsOut = e.stderr
		} else {
			if err := fafile.WriteDFAFile(*outPath, d); err != nil {
				return err
			}
			fmt.Fprintf(e.stdout, "%s -> %s (%d NFA states, %d DFA states)\n", *nfaPath, *outPath, n.NumStates(), d.NumStates())
		}
		if metrics != nil {
			writeStats(statsOut, metrics)
		}
		u.Infof("converted %s: %d -> %d states", *nfaPath, n.NumStates(), d.NumStates())
		return nil
	}
}

func writeStats(w io.Writer, m *automaton.Metrics) {
	fmt.Fprintln(w)
	fmt.Fprint(w, m.GenerateMetricsTable())
}

func batchFlags(fs *flag.FlagSet) runFunc {
	outDir := fs.String("out", "", "output directory for the DFA files (required)")

	return func(ctx context.Context, e *env, args []string) error {
		if *outDir == "" {
			return usageErrorf("batch: -out is required")
		}
		if len(args) == 0 {
			return usageErrorf("batch: no NFA files given")
		}
		if err := os.MkdirAll(*outDir, 0o755); err != nil {
			return fmt.Errorf("create output dir: %w", err)
		}

		c := &batch.Converter{Workers: e.cfg.Workers}
		if cache := openCache(e.cfg); cache != nil {
			defer cache.Close()
			c.Cache = cache
		}
		results, err := c.Run(ctx, batch.JobsFor(*outDir, args))
		if err != nil {
			return err
		}

		failed := 0
		for _, r := range results {
			if r.Err != nil {
				failed++
				fmt.Fprintf(e.stdout, "%s: error: %v\n", r.Input, r.Err)
				continue
			}
			suffix := ""
			if r.Cached {
				suffix = ", cached"
			}
			fmt.Fprintf(e.stdout, "%s -> %s (%d NFA states, %d DFA states%s)\n", r.Input, r.Output, r.NFAStates, r.DFAStates, suffix)
		}
		if failed > 0 {
			return fmt.Errorf("%d of %d conversions failed", failed, len(results))
		}
		return nil
	}
}
