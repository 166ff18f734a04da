package automaton

import (
	"fmt"
	"io"
	"strings"
)

// Diagram is a renderable view of an automaton: one edge per (from, to)
// pair with the symbols that connect them joined into a label.
type Diagram struct {
	Name   string
	States []StateID
	Labels map[StateID]string
	Start  StateID
	Accept StateSet
	Edges  []Edge
}

// Edge connects two states; Label lists the symbols, ε for epsilon.
type Edge struct {
	From  StateID
	To    StateID
	Label string
}

// NFADiagram builds a diagram of n.
func NFADiagram(n *NFA) *Diagram {
	return newDiagram("NFA", n.States(), n.Start(), NewStateSet(n.AcceptStates()...), n.Transitions())
}

// DFADiagram builds a diagram of d. With showSubsets, states produced by
// Determinize are labelled with the NFA subset they stand for.
func DFADiagram(d *DFA, showSubsets bool) *Diagram {
	g := newDiagram("DFA", d.States(), d.Start(), NewStateSet(d.AcceptStates()...), d.Transitions())
	if showSubsets {
		for _, id := range g.States {
			if set, ok := d.Subset(id); ok {
				g.Labels[id] = fmt.Sprintf("%s %s", id, set)
			}
		}
	}
	return g
}

func newDiagram(name string, states []StateID, start StateID, accept StateSet, transitions []Transition) *Diagram {
	g := &Diagram{
		Name:   name,
		States: states,
		Labels: make(map[StateID]string, len(states)),
		Start:  start,
		Accept: accept,
	}
	for _, s := range states {
		g.Labels[s] = string(s)
	}

	index := make(map[[2]StateID]int)
	for _, t := range transitions {
		label := t.Symbol.String()
		if t.Symbol == Epsilon {
			label = "ε"
		}
		key := [2]StateID{t.From, t.To}
		if i, ok := index[key]; ok {
			g.Edges[i].Label += "," + label
			continue
		}
		index[key] = len(g.Edges)
		g.Edges = append(g.Edges, Edge{From: t.From, To: t.To, Label: label})
	}
	return g
}

// mermaidID turns a state id into a Mermaid-safe identifier.
func mermaidID(s StateID) string {
	var sb strings.Builder
	sb.WriteString("s_")
	for _, r := range string(s) {
		if r == '_' || r >= '0' && r <= '9' || r >= 'a' && r <= 'z' || r >= 'A' && r <= 'Z' {
			sb.WriteRune(r)
		} else {
			fmt.Fprintf(&sb, "x%x", r)
		}
	}
	return sb.String()
}

// WriteMermaid writes a Mermaid stateDiagram-v2. Accepting states get the
// "accept" class.
func (g *Diagram) WriteMermaid(w io.Writer) error {
	_, err := io.WriteString(w, g.GenerateMermaid())
	return err
}

func (g *Diagram) GenerateMermaid() string {
	var sb strings.Builder
	sb.WriteString("stateDiagram-v2\n")
	for _, s := range g.States {
		sb.WriteString(fmt.Sprintf("    state \"%s\" as %s\n", g.Labels[s], mermaidID(s)))
	}
	sb.WriteString(fmt.Sprintf("    [*] --> %s\n", mermaidID(g.Start)))
	for _, e := range g.Edges {
		sb.WriteString(fmt.Sprintf("    %s --> %s: %s\n", mermaidID(e.From), mermaidID(e.To), e.Label))
	}
	accepting := make([]string, 0, len(g.Accept))
	for _, s := range g.States {
		if g.Accept.Has(s) {
			accepting = append(accepting, mermaidID(s))
		}
	}
	if len(accepting) > 0 {
		sb.WriteString("    classDef accept stroke-width:4px\n")
		sb.WriteString(fmt.Sprintf("    class %s accept\n", strings.Join(accepting, ",")))
	}
	return sb.String()
}

// WriteDOT writes a Graphviz digraph. Accepting states are drawn as double
// circles and an invisible point marks the start.
func (g *Diagram) WriteDOT(w io.Writer) error {
	_, err := io.WriteString(w, g.GenerateGraphviz())
	return err
}

func (g *Diagram) GenerateGraphviz() string {
	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("digraph %s {\n", g.Name))
	sb.WriteString("  rankdir=LR;\n")
	sb.WriteString("  node [shape=circle];\n")
	sb.WriteString("\n")
	sb.WriteString("  start [shape=point];\n")
	sb.WriteString(fmt.Sprintf("  start -> %q;\n", string(g.Start)))
	sb.WriteString("\n")
	for _, s := range g.States {
		shape := "circle"
		if g.Accept.Has(s) {
			shape = "doublecircle"
		}
		sb.WriteString(fmt.Sprintf("  %q [label=%q, shape=%s];\n", string(s), g.Labels[s], shape))
	}
	sb.WriteString("\n")
	for _, e := range g.Edges {
		sb.WriteString(fmt.Sprintf("  %q -> %q [label=%q];\n", string(e.From), string(e.To), e.Label))
	}
	sb.WriteString("}\n")
	return sb.String()
}

// GenerateSubsetTable renders a markdown table of each determinized state,
// the NFA subset behind it, whether it accepts, and its transitions.
func GenerateSubsetTable(d *DFA) string {
	var sb strings.Builder
	symbols := d.alphabet.symbols
	sb.WriteString("| DFA state | NFA subset | Accept |")
	for _, sym := range symbols {
		sb.WriteString(fmt.Sprintf(" %s |", sym))
	}
	sb.WriteString("\n|-----------|------------|--------|")
	for range symbols {
		sb.WriteString("---|")
	}
	sb.WriteString("\n")
	for _, id := range d.states {
		subset := "-"
		if set, ok := d.subsets[id]; ok {
			subset = set.String()
		}
		accept := ""
		if d.accept.Has(id) {
			accept = "yes"
		}
		sb.WriteString(fmt.Sprintf("| %s | %s | %s |", id, subset, accept))
		for _, sym := range symbols {
			to, err := d.Next(id, sym)
			if err != nil {
				to = "-"
			}
			sb.WriteString(fmt.Sprintf(" %s |", to))
		}
		sb.WriteString("\n")
	}
	return sb.String()
}
