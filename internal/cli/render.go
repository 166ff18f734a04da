package cli

import (
	"context"
	"flag"
	"fmt"
	"io"
	"path/filepath"
	"strings"

	"go.opentelemetry.io/otel/attribute"

	"github.com/lopezrodolfo/nfa/automaton"
	"github.com/lopezrodolfo/nfa/automaton/fafile"
	"github.com/lopezrodolfo/nfa/internal/telemetry"
)

func diagramFlags(fs *flag.FlagSet) runFunc {
	dfaPath := fs.String("dfa", "", "DFA description file")
	nfaPath := fs.String("nfa", "", "NFA description file")
	convert := fs.Bool("convert", false, "with -nfa, draw the converted DFA labelled with its NFA subsets")
	format := fs.String("format", "mermaid", "output format: mermaid or dot")

	return func(ctx context.Context, e *env, args []string) error {
		if (*dfaPath == "") == (*nfaPath == "") {
			return usageErrorf("diagram: exactly one of -dfa or -nfa is required")
		}
		if *format != "mermaid" && *format != "dot" {
			return usageErrorf("diagram: unknown format %q (want mermaid or dot)", *format)
		}
		if *convert && *nfaPath == "" {
			return usageErrorf("diagram: -convert needs -nfa")
		}

		var g *automaton.Diagram
		switch {
		case *dfaPath != "":
			d, err := loadDFA(ctx, *dfaPath)
			if err != nil {
				return err
			}
			g = automaton.DFADiagram(d, false)
		default:
			n, err := loadNFA(ctx, *nfaPath)
			if err != nil {
				return err
			}
			if *convert {
				// The cache drops subsets, so convert directly.
				g = automaton.DFADiagram(automaton.Determinize(n), true)
			} else {
				g = automaton.NFADiagram(n)
			}
		}

		if *format == "dot" {
			return g.WriteDOT(e.stdout)
		}
		return g.WriteMermaid(e.stdout)
	}
}

func reportFlags(fs *flag.FlagSet) runFunc {
	nfaPath := fs.String("nfa", "", "NFA description file (required)")
	title := fs.String("title", "", "report title, the file name when empty")

	return func(ctx context.Context, e *env, args []string) error {
		if *nfaPath == "" {
			return usageErrorf("report: -nfa is required")
		}
		n, err := loadNFA(ctx, *nfaPath)
		if err != nil {
			return err
		}
		name := *title
		if name == "" {
			name = filepath.Base(*nfaPath)
		}
		_, span := telemetry.Start(ctx, "fa.report", attribute.Int("nfa.states", n.NumStates()))
		err = writeReport(e.stdout, name, n, args)
		telemetry.End(span, err)
		return err
	}
}

// writeReport renders a markdown document: both diagrams, the subset table,
// the construction metrics and, when inputs are given, how each automaton
// treats them.
func writeReport(w io.Writer, name string, n *automaton.NFA, inputs []string) error {
	d, metrics := automaton.DeterminizeWithMetrics(n)

	var sb strings.Builder
	fmt.Fprintf(&sb, "# %s\n\n", name)
	fmt.Fprintf(&sb, "Alphabet `%s`, %d NFA states, %d DFA states.\n\n", n.Alphabet(), n.NumStates(), d.NumStates())

	sb.WriteString("## NFA\n\n```mermaid\n")
	sb.WriteString(automaton.NFADiagram(n).GenerateMermaid())
	sb.WriteString("```\n\n")

	sb.WriteString("## DFA\n\n```mermaid\n")
	sb.WriteString(automaton.DFADiagram(d, true).GenerateMermaid())
	sb.WriteString("```\n\n")

	sb.WriteString("## Subset construction\n\n")
	sb.WriteString(automaton.GenerateSubsetTable(d))
	sb.WriteString("\n## Metrics\n\n")
	sb.WriteString(metrics.GenerateMetricsTable())

	if len(inputs) > 0 {
		sb.WriteString("\n## Inputs\n\n| Input | NFA | DFA |\n|-------|-----|-----|\n")
		for _, input := range inputs {
			nfaOK, _ := n.Accepts(input)
			dfaOK, err := d.Accepts(input)
			if err != nil {
				return fmt.Errorf("input %q: %w", input, err)
			}
			fmt.Fprintf(&sb, "| %s | %s | %s |\n", displayInput(input), verdict(nfaOK), verdict(dfaOK))
		}
	}

	_, err := io.WriteString(w, sb.String())
	return err
}

func demoFlags(fs *flag.FlagSet) runFunc {
	return func(ctx context.Context, e *env, args []string) error {
		if len(args) > 0 {
			return usageErrorf("demo: unexpected arguments %q", args)
		}
		return writeDemo(e.stdout)
	}
}

// writeDemo converts every canned example and checks each NFA against its
// DFA on all strings up to length 3.
func writeDemo(w io.Writer) error {
	fmt.Fprintln(w, "=== Finite automata: subset construction demo ===")
	for _, ex := range automaton.Examples() {
		d := automaton.Determinize(ex.NFA)
		fmt.Fprintf(w, "\n--- %s: %s ---\n", ex.Name, ex.Description)
		fmt.Fprintln(w, "NFA:")
		fmt.Fprint(w, fafile.FormatNFA(ex.NFA))
		text, err := fafile.FormatDFA(d)
		if err != nil {
			return fmt.Errorf("%s: %w", ex.Name, err)
		}
		fmt.Fprintln(w, "DFA:")
		fmt.Fprint(w, text)

		var accepted []string
		for _, input := range allStrings(ex.NFA.Alphabet(), 3) {
			nfaOK, _ := ex.NFA.Accepts(input)
			dfaOK, err := d.Accepts(input)
			if err != nil {
				return fmt.Errorf("%s: input %q: %w", ex.Name, input, err)
			}
			if nfaOK != dfaOK {
				return fmt.Errorf("%s: NFA and DFA disagree on %q", ex.Name, input)
			}
			if dfaOK {
				accepted = append(accepted, displayInput(input))
			}
		}
		fmt.Fprintf(w, "Accepted up to length 3: %s\n", strings.Join(accepted, " "))
	}

	evenAs := automaton.ExampleEvenAs()
	fmt.Fprintln(w, "\n--- even-as: DFA accepting an even number of a's ---")
	for _, input := range []string{"", "a", "aa", "abab", "bbbab"} {
		ok, err := evenAs.Accepts(input)
		if err != nil {
			return err
		}
		fmt.Fprintf(w, "%-6s %s\n", displayInput(input), verdict(ok))
	}
	return nil
}

// allStrings lists every string over alphabet of length 0..maxLen in
// length then alphabet order.
func allStrings(alphabet automaton.Alphabet, maxLen int) []string {
	out := []string{""}
	frontier := []string{""}
	for i := 0; i < maxLen; i++ {
		var next []string
		for _, prefix := range frontier {
			for _, sym := range alphabet.Symbols() {
				next = append(next, prefix+string(rune(sym)))
			}
		}
		out = append(out, next...)
		frontier = next
	}
	return out
}

func verdict(ok bool) string {
	if ok {
		return "Accept"
	}
	return "Reject"
}

func displayInput(s string) string {
	if s == "" {
		return "ε"
	}
	return s
}
