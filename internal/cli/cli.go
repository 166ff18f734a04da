// Package cli implements the fa command: simulate, convert and render
// finite automata stored in the fafile text format.
package cli

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"log"
	"sort"
	"strings"
	"time"

	u "github.com/araddon/gou"
	"go.opentelemetry.io/otel/attribute"

	"github.com/lopezrodolfo/nfa/automaton"
	"github.com/lopezrodolfo/nfa/automaton/fafile"
	"github.com/lopezrodolfo/nfa/internal/config"
	"github.com/lopezrodolfo/nfa/internal/store"
	"github.com/lopezrodolfo/nfa/internal/telemetry"
)

const serviceName = "fa"

const otelShutdownTimeout = 5 * time.Second

const usage = `usage: fa <command> [flags] [args]

commands:
  simulate  -dfa FILE | -nfa FILE [-strings FILE] [input ...]
  convert   -nfa FILE [-out FILE] [-stats]
  batch     -out DIR FILE ...
  diagram   -dfa FILE | -nfa FILE [-convert] [-format mermaid|dot]
  report    -nfa FILE [-title TEXT] [input ...]
  demo

common flags: -log-level LEVEL -cache PATH -workers N
`

// UsageError reports a malformed command line.
type UsageError struct {
	Msg string
}

func (e *UsageError) Error() string { return e.Msg }

func usageErrorf(format string, args ...any) error {
	return &UsageError{Msg: fmt.Sprintf(format, args...)}
}

// ExitCode maps an error returned by Run to a process exit code: 0 on
// success, 2 for usage errors and 1 otherwise.
func ExitCode(err error) int {
	if err == nil {
		return 0
	}
	var usageErr *UsageError
	if errors.As(err, &usageErr) {
		return 2
	}
	return 1
}

// env is what a subcommand runs with once flags are parsed.
type env struct {
	cfg    config.Config
	stdout io.Writer
	stderr io.Writer
}

type runFunc func(ctx context.Context, e *env, args []string) error

// Each entry registers its flags on fs and returns the command body.
var commands = map[string]func(fs *flag.FlagSet) runFunc{
	"simulate": simulateFlags,
	"convert":  convertFlags,
	"batch":    batchFlags,
	"diagram":  diagramFlags,
	"report":   reportFlags,
	"demo":     demoFlags,
}

func commandNames() []string {
	names := make([]string, 0, len(commands))
	for name := range commands {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Run executes the subcommand named by args[0].
func Run(ctx context.Context, args []string, stdout, stderr io.Writer) error {
	if len(args) == 0 {
		fmt.Fprint(stderr, usage)
		return usageErrorf("missing command")
	}
	name := args[0]
	if name == "help" || name == "-h" || name == "--help" {
		fmt.Fprint(stdout, usage)
		return nil
	}
	register, ok := commands[name]
	if !ok {
		fmt.Fprint(stderr, usage)
		return usageErrorf("unknown command %q (want one of %s)", name, strings.Join(commandNames(), ", "))
	}

	fs := flag.NewFlagSet(name, flag.ContinueOnError)
	fs.SetOutput(stderr)
	run := register(fs)

	e := &env{stdout: stdout, stderr: stderr}
	if err := config.ParseConfigFromArgs(&e.cfg, fs, args[1:]); err != nil {
		if errors.Is(err, flag.ErrHelp) {
			return nil
		}
		return usageErrorf("%s: %v", name, err)
	}
	setupLogging(e.cfg, stderr)

	shutdown, err := telemetry.Setup(ctx, serviceName, e.cfg.OTelEndpoint, e.cfg.TracingEnabled())
	if err != nil {
		u.Warnf("tracing disabled: %v", err)
	}
	defer func() {
		sctx, cancel := context.WithTimeout(context.Background(), otelShutdownTimeout)
		defer cancel()
		if err := shutdown(sctx); err != nil {
			u.Warnf("flush traces: %v", err)
		}
	}()

	ctx, span := telemetry.Start(ctx, "fa."+name)
	err = run(ctx, e, fs.Args())
	telemetry.End(span, err)
	if err != nil && ExitCode(err) != 2 {
		u.Errorf("%s: %v", name, err)
	}
	return err
}

func setupLogging(cfg config.Config, stderr io.Writer) {
	u.SetLogger(log.New(stderr, "", log.Ltime|log.Lmicroseconds), strings.ToLower(cfg.LogLevel))
	if cfg.LogColor {
		u.SetColorOutput()
	}
}

// openCache opens the configured DFA cache. A cache that cannot be opened
// is logged and skipped.
func openCache(cfg config.Config) *store.Store {
	if strings.TrimSpace(cfg.CachePath) == "" {
		return nil
	}
	s, err := store.Open(cfg.CachePath)
	if err != nil {
		u.Warnf("dfa cache unavailable: %v", err)
		return nil
	}
	return s
}

func loadNFA(ctx context.Context, path string) (*automaton.NFA, error) {
	_, span := telemetry.Start(ctx, "fa.load", attribute.String("fa.path", path), attribute.String("fa.kind", "nfa"))
	n, err := fafile.ReadNFAFile(path)
	telemetry.End(span, err)
	if err == nil {
		u.Debugf("loaded nfa %s: %d states, alphabet %q", path, n.NumStates(), n.Alphabet())
	}
	return n, err
}

func loadDFA(ctx context.Context, path string) (*automaton.DFA, error) {
	_, span := telemetry.Start(ctx, "fa.load", attribute.String("fa.path", path), attribute.String("fa.kind", "dfa"))
	d, err := fafile.ReadDFAFile(path)
	telemetry.End(span, err)
	if err == nil {
		u.Debugf("loaded dfa %s: %d states, alphabet %q", path, d.NumStates(), d.Alphabet())
	}
	return d, err
}

// determinize converts n, consulting cache when it is non-nil.
func determinize(ctx context.Context, n *automaton.NFA, cache *store.Store) *automaton.DFA {
	ctx, span := telemetry.Start(ctx, "fa.determinize", attribute.Int("nfa.states", n.NumStates()))
	if cache != nil {
		d, ok, err := cache.Get(ctx, n)
		if err != nil {
			u.Warnf("dfa cache lookup: %v", err)
		}
		if ok {
			u.Debugf("dfa cache hit %s", store.Digest(n))
			span.SetAttributes(attribute.Bool("fa.cached", true), attribute.Int("dfa.states", d.NumStates()))
			telemetry.End(span, nil)
			return d
		}
	}

	d := automaton.Determinize(n)
	span.SetAttributes(attribute.Bool("fa.cached", false), attribute.Int("dfa.states", d.NumStates()))
	if cache != nil {
		if err := cache.Put(ctx, n, d); err != nil {
			u.Warnf("dfa cache store: %v", err)
		}
	}
	telemetry.End(span, nil)
	return d
}
