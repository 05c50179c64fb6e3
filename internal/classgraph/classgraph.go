// Package classgraph renders the inheritance graph of a class file.
package classgraph

import (
	"strconv"

	"github.com/zboralski/lattice"
	"github.com/zboralski/lattice/render"

	"github.com/whit3rabbit/dexmixer/internal/ir"
)

// Build constructs a lattice.Graph with one node per defined class and an
// edge from each class to its super class and to every interface it
// implements. Platform types referenced as parents become nodes too.
func Build(f *ir.File) *lattice.Graph {
	g := &lattice.Graph{}
	for _, c := range f.Classes {
		name := Label(c.Type)
		g.Nodes = append(g.Nodes, name)
		if c.SuperClass != "" {
			g.Edges = append(g.Edges, lattice.Edge{Caller: name, Callee: Label(c.SuperClass)})
		}
		for _, iface := range c.Interfaces {
			g.Edges = append(g.Edges, lattice.Edge{Caller: name, Callee: Label(iface)})
		}
	}
	g.Dedup()
	return g
}

// DOT renders the inheritance graph of f as Graphviz source.
func DOT(f *ir.File, title string) string {
	return render.DOT(Build(f), title)
}

// Label turns a descriptor into a printable node name. Generated names
// consist of invisible code points, so anything outside printable ASCII
// is escaped.
func Label(desc string) string {
	for i := 0; i < len(desc); i++ {
		if desc[i] < 0x20 || desc[i] > 0x7e {
			q := strconv.QuoteToASCII(desc)
			return q[1 : len(q)-1]
		}
	}
	return desc
}
