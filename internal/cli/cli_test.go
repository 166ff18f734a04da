package cli

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"go.opentelemetry.io/otel"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/lopezrodolfo/nfa/automaton"
	"github.com/lopezrodolfo/nfa/automaton/fafile"
)

const endsWithAB = "3\nab\n1 'a' 1\n1 'b' 1\n1 'a' 2\n2 'b' 3\n\n1\n3\n"

// evenAs accepts strings over {a,b} with an even number of a's.
const evenAs = "2\nab\n1 'a' 2\n1 'b' 1\n2 'a' 1\n2 'b' 2\n1\n1\n"

func isolateEnv(t *testing.T) {
	t.Helper()
	for _, name := range []string{"FA_LOG_LEVEL", "FA_LOG_COLOR", "FA_CACHE_PATH", "FA_WORKERS", "FA_OTEL_ENDPOINT", "FA_OTEL_ENABLED"} {
		t.Setenv(name, "")
		os.Unsetenv(name)
	}
}

func writeFile(t *testing.T, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func run(t *testing.T, args ...string) (string, string, error) {
	t.Helper()
	var stdout, stderr bytes.Buffer
	err := Run(context.Background(), args, &stdout, &stderr)
	return stdout.String(), stderr.String(), err
}

func TestRunUsage(t *testing.T) {
	isolateEnv(t)

	_, stderr, err := run(t)
	assert.Equal(t, 2, ExitCode(err))
	assert.Contains(t, stderr, "usage: fa")

	_, _, err = run(t, "minimize")
	assert.Equal(t, 2, ExitCode(err))
	assert.ErrorContains(t, err, "unknown command")

	stdout, _, err := run(t, "help")
	assert.NoError(t, err)
	assert.Contains(t, stdout, "simulate")

	_, _, err = run(t, "simulate", "-bogus")
	assert.Equal(t, 2, ExitCode(err))

	assert.Equal(t, 0, ExitCode(nil))
	assert.Equal(t, 1, ExitCode(automaton.ErrLoad))
}

func TestSimulateDFAStringsFile(t *testing.T) {
	isolateEnv(t)
	dir := t.TempDir()
	dfa := writeFile(t, dir, "even.dfa", evenAs)
	inputs := writeFile(t, dir, "strings.txt", "\na\naa\nabab\nbbbab\nac\n")

	stdout, _, err := run(t, "simulate", "-dfa", dfa, "-strings", inputs)
	require.NoError(t, err)
	assert.Equal(t, "Accept\nReject\nAccept\nAccept\nReject\nReject\n", stdout)
}

func TestSimulateNFAPositional(t *testing.T) {
	isolateEnv(t)
	nfa := writeFile(t, t.TempDir(), "ends.nfa", endsWithAB)

	stdout, _, err := run(t, "simulate", "-nfa", nfa, "ab", "aba", "bbab", "")
	require.NoError(t, err)
	assert.Equal(t, "Accept\nReject\nAccept\nReject\n", stdout)
}

func TestSimulatePartialDFAFails(t *testing.T) {
	isolateEnv(t)
	dfa := writeFile(t, t.TempDir(), "partial.dfa", "2\nab\n1 'a' 2\n1\n1\n")

	stdout, _, err := run(t, "simulate", "-dfa", dfa, "", "a", "b")
	require.Error(t, err)
	assert.Equal(t, 1, ExitCode(err))
	assert.ErrorIs(t, err, automaton.ErrNonTotalTransition)
	assert.Equal(t, "Accept\nReject\n", stdout)
}

func TestSimulateUsageErrors(t *testing.T) {
	isolateEnv(t)
	dfa := writeFile(t, t.TempDir(), "even.dfa", evenAs)

	_, _, err := run(t, "simulate", "a")
	assert.Equal(t, 2, ExitCode(err))
	_, _, err = run(t, "simulate", "-dfa", dfa, "-nfa", dfa, "a")
	assert.Equal(t, 2, ExitCode(err))
	_, _, err = run(t, "simulate", "-dfa", dfa)
	assert.Equal(t, 2, ExitCode(err))
}

func TestSimulateLoadError(t *testing.T) {
	isolateEnv(t)
	nfa := writeFile(t, t.TempDir(), "bad.nfa", "2\nabe\n1\n2\n")

	_, _, err := run(t, "simulate", "-nfa", nfa, "a")
	assert.Equal(t, 1, ExitCode(err))
	assert.ErrorIs(t, err, automaton.ErrAlphabetConflict)
}

func TestConvertWritesDFA(t *testing.T) {
	isolateEnv(t)
	dir := t.TempDir()
	nfa := writeFile(t, dir, "ends.nfa", endsWithAB)
	out := filepath.Join(dir, "ends.dfa")

	stdout, _, err := run(t, "convert", "-nfa", nfa, "-out", out, "-stats")
	require.NoError(t, err)
	assert.Contains(t, stdout, "3 NFA states, 3 DFA states")
	assert.Contains(t, stdout, "| subsets_expanded | 3 |")

	d, err := fafile.ReadDFAFile(out)
	require.NoError(t, err)
	require.NoError(t, d.CheckTotal())
	ok, err := d.Accepts("aab")
	require.NoError(t, err)
	assert.True(t, ok)
}

func TestConvertToStdoutWithCache(t *testing.T) {
	isolateEnv(t)
	dir := t.TempDir()
	t.Setenv("FA_CACHE_PATH", filepath.Join(dir, "cache.db"))
	nfa := writeFile(t, dir, "ends.nfa", endsWithAB)
	want := "3\nab\n1 'a' 2\n1 'b' 1\n2 'a' 2\n2 'b' 3\n3 'a' 2\n3 'b' 1\n1\n3\n"

	stdout, _, err := run(t, "convert", "-nfa", nfa)
	require.NoError(t, err)
	assert.Equal(t, want, stdout)

	stdout, _, err = run(t, "convert", "-nfa", nfa, "-log-level", "debug")
	require.NoError(t, err)
	assert.Equal(t, want, stdout)

	_, err = os.Stat(filepath.Join(dir, "cache.db"))
	assert.NoError(t, err)
}

func TestBatch(t *testing.T) {
	isolateEnv(t)
	dir := t.TempDir()
	out := filepath.Join(dir, "out")
	good := writeFile(t, dir, "ends.nfa", endsWithAB)
	bad := writeFile(t, dir, "bad.nfa", "0\nab\n")

	stdout, _, err := run(t, "batch", "-out", out, "-workers", "2", good)
	require.NoError(t, err)
	assert.Contains(t, stdout, filepath.Join(out, "ends.dfa"))
	_, err = fafile.ReadDFAFile(filepath.Join(out, "ends.dfa"))
	require.NoError(t, err)

	stdout, _, err = run(t, "batch", "-out", out, good, bad)
	require.Error(t, err)
	assert.Equal(t, 1, ExitCode(err))
	assert.Contains(t, err.Error(), "1 of 2 conversions failed")
	assert.Contains(t, stdout, bad+": error:")

	_, _, err = run(t, "batch", good)
	assert.Equal(t, 2, ExitCode(err))
}

func TestDiagram(t *testing.T) {
	isolateEnv(t)
	dir := t.TempDir()
	nfa := writeFile(t, dir, "ends.nfa", endsWithAB)
	dfa := writeFile(t, dir, "even.dfa", evenAs)

	stdout, _, err := run(t, "diagram", "-nfa", nfa)
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(stdout, "stateDiagram-v2\n"))
	assert.Contains(t, stdout, "s_1 --> s_1: a,b")

	stdout, _, err = run(t, "diagram", "-nfa", nfa, "-convert", "-format", "dot")
	require.NoError(t, err)
	assert.Contains(t, stdout, "digraph DFA")
	assert.Contains(t, stdout, `label="2 {1,2}"`)

	stdout, _, err = run(t, "diagram", "-dfa", dfa, "-format", "dot")
	require.NoError(t, err)
	assert.Contains(t, stdout, `"1" [label="1", shape=doublecircle]`)

	_, _, err = run(t, "diagram", "-dfa", dfa, "-format", "svg")
	assert.Equal(t, 2, ExitCode(err))
	_, _, err = run(t, "diagram", "-dfa", dfa, "-convert")
	assert.Equal(t, 2, ExitCode(err))
}

func TestReport(t *testing.T) {
	isolateEnv(t)
	nfa := writeFile(t, t.TempDir(), "ends.nfa", endsWithAB)

	stdout, _, err := run(t, "report", "-nfa", nfa, "-title", "Ends with ab", "", "ab", "ba")
	require.NoError(t, err)
	for _, want := range []string{
		"# Ends with ab",
		"3 NFA states, 3 DFA states",
		"## NFA\n\n```mermaid\nstateDiagram-v2",
		"| 3 | {1,3} | yes | 2 | 1 |",
		"| dead_state | 0 |",
		"| ε | Reject | Reject |",
		"| ab | Accept | Accept |",
	} {
		assert.Contains(t, stdout, want)
	}
}

func TestDemo(t *testing.T) {
	isolateEnv(t)

	stdout, _, err := run(t, "demo")
	require.NoError(t, err)
	assert.Contains(t, stdout, "--- branching:")
	assert.Contains(t, stdout, "--- ends-with-ab:")
	assert.Contains(t, stdout, "Accepted up to length 3: ab aab bab")
	assert.Contains(t, stdout, "abab   Accept")
}

func TestAllStrings(t *testing.T) {
	alphabet, err := automaton.ParseAlphabet("ab")
	require.NoError(t, err)
	assert.Equal(t, []string{"", "a", "b", "aa", "ab", "ba", "bb"}, allStrings(alphabet, 2))
}

func TestRunTracingFollowsConfig(t *testing.T) {
	isolateEnv(t)
	t.Setenv("FA_OTEL_ENDPOINT", "http://192.0.2.1:4318")
	t.Setenv("FA_OTEL_ENABLED", "false")
	_, _, err := run(t, "demo")
	require.NoError(t, err)
	_, isSDK := otel.GetTracerProvider().(*sdktrace.TracerProvider)
	assert.False(t, isSDK, "disabled tracing must not install a provider")
}
