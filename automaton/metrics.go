package automaton

import (
	"fmt"
	"sort"
	"strings"
)

// Metric is a named counter.
type Metric struct {
	Name        string
	Value       int
	Description string
}

func (m *Metric) Inc()          { m.Value++ }
func (m *Metric) Add(delta int) { m.Value += delta }

// Metrics collects counters for one subset construction run.
type Metrics struct {
	metrics map[string]*Metric
}

// Counter names recorded by DeterminizeWithMetrics.
const (
	MetricSubsetsExpanded     = "subsets_expanded"
	MetricClosureCalls        = "closure_calls"
	MetricTransitionsRecorded = "transitions_recorded"
	MetricDeadState           = "dead_state"
	MetricNFAStates           = "nfa_states"
	MetricDFAStates           = "dfa_states"
)

var metricDescriptions = map[string]string{
	MetricSubsetsExpanded:     "subsets taken off the worklist",
	MetricClosureCalls:        "epsilon closures computed",
	MetricTransitionsRecorded: "DFA transitions recorded",
	MetricDeadState:           "1 if an empty-subset sink was materialized",
	MetricNFAStates:           "states in the source NFA",
	MetricDFAStates:           "states in the resulting DFA",
}

func NewMetrics() *Metrics {
	return &Metrics{metrics: make(map[string]*Metric)}
}

// Counter returns the counter called name, creating it at zero.
func (mc *Metrics) Counter(name string) *Metric {
	if m, ok := mc.metrics[name]; ok {
		return m
	}
	m := &Metric{Name: name, Description: metricDescriptions[name]}
	mc.metrics[name] = m
	return m
}

// Value returns the current value of name, zero if it was never counted.
func (mc *Metrics) Value(name string) int {
	if m, ok := mc.metrics[name]; ok {
		return m.Value
	}
	return 0
}

// Names returns counter names in sorted order.
func (mc *Metrics) Names() []string {
	names := make([]string, 0, len(mc.metrics))
	for name := range mc.metrics {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// GenerateMetricsTable renders the counters as a markdown table.
func (mc *Metrics) GenerateMetricsTable() string {
	var sb strings.Builder
	sb.WriteString("| Metric | Value | Description |\n")
	sb.WriteString("|--------|-------|-------------|\n")
	for _, name := range mc.Names() {
		m := mc.metrics[name]
		sb.WriteString(fmt.Sprintf("| %s | %d | %s |\n", m.Name, m.Value, m.Description))
	}
	return sb.String()
}
