package cli

import (
	"bufio"
	"context"
	"flag"
	"fmt"
	"os"
	"strings"

	u "github.com/araddon/gou"
	"go.opentelemetry.io/otel/attribute"

	"github.com/lopezrodolfo/nfa/automaton"
	"github.com/lopezrodolfo/nfa/internal/telemetry"
)

func simulateFlags(fs *flag.FlagSet) runFunc {
	dfaPath := fs.String("dfa", "", "DFA description file")
	nfaPath := fs.String("nfa", "", "NFA description file, simulated directly")
	stringsPath := fs.String("strings", "", "file with one input string per line")

	return func(ctx context.Context, e *env, args []string) error {
		if (*dfaPath == "") == (*nfaPath == "") {
			return usageErrorf("simulate: exactly one of -dfa or -nfa is required")
		}
		inputs := args
		if *stringsPath != "" {
			lines, err := readLines(*stringsPath)
			if err != nil {
				return err
			}
			inputs = append(lines, args...)
		}
		if len(inputs) == 0 {
			return usageErrorf("simulate: no input strings (use -strings or positional arguments)")
		}

		var m automaton.Acceptor
		var err error
		if *dfaPath != "" {
			m, err = loadDFA(ctx, *dfaPath)
		} else {
			m, err = loadNFA(ctx, *nfaPath)
		}
		if err != nil {
			return err
		}
		return simulateAll(ctx, e, m, inputs)
	}
}

// simulateAll prints Accept or Reject for each input in order. A DFA with a
// missing transition stops the run with an error.
func simulateAll(ctx context.Context, e *env, m automaton.Acceptor, inputs []string) error {
	_, span := telemetry.Start(ctx, "fa.simulate", attribute.Int("fa.inputs", len(inputs)))
	accepted := 0
	for i, input := range inputs {
		ok, err := m.Accepts(input)
		if err != nil {
			err = fmt.Errorf("input %d %q: %w", i+1, input, err)
			telemetry.End(span, err)
			return err
		}
		if ok {
			accepted++
			fmt.Fprintln(e.stdout, "Accept")
		} else {
			fmt.Fprintln(e.stdout, "Reject")
		}
	}
	span.SetAttributes(attribute.Int("fa.accepted", accepted))
	telemetry.End(span, nil)
	u.Infof("simulated %d strings: %d accepted, %d rejected", len(inputs), accepted, len(inputs)-accepted)
	return nil
}

// readLines returns every line of path. Empty lines are kept as the empty
// input string.
func readLines(path string) ([]string, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open strings: %w", err)
	}
	defer f.Close()

	var lines []string
	sc := bufio.NewScanner(f)
	for sc.Scan() {
		lines = append(lines, strings.TrimRight(sc.Text(), "\r"))
	}
	if err := sc.Err(); err != nil {
		return nil, fmt.Errorf("read strings: %w", err)
	}
	return lines, nil
}
