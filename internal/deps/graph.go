// SPDX-FileCopyrightText: 2025 The cargo-hyperlight-go authors
//
// SPDX-License-Identifier: MIT

package deps

// Graph is a read-only view of the resolved crate graph. Nodes are crate
// IDs, edges point from a crate to its direct dependencies.
type Graph struct {
	names map[string]string
	edges map[string][]string
	roots []string
}

// NewGraph builds a [Graph] from cargo metadata.
//
// The roots are the resolve root if present, otherwise all workspace
// members: building a virtual workspace builds exactly those.
func NewGraph(meta *Metadata) *Graph {
	graph := &Graph{
		names: make(map[string]string, len(meta.Packages)),
		edges: make(map[string][]string, len(meta.Resolve.Nodes)),
	}

	for _, pkg := range meta.Packages {
		graph.names[pkg.ID] = pkg.Name
	}

	for _, node := range meta.Resolve.Nodes {
		graph.edges[node.ID] = node.Dependencies
	}

	if meta.Resolve.Root != "" {
		graph.roots = []string{meta.Resolve.Root}
	} else {
		graph.roots = meta.WorkspaceMembers
	}

	return graph
}

// Reachable reports whether a crate with the given name is reachable from
// any root, over the full transitive closure.
func (g *Graph) Reachable(name string) bool {
	visited := make(map[string]bool, len(g.edges))
	queue := append([]string{}, g.roots...)

	for len(queue) > 0 {
		id := queue[0]
		queue = queue[1:]

		if visited[id] {
			continue
		}

		visited[id] = true

		if g.names[id] == name {
			return true
		}

		queue = append(queue, g.edges[id]...)
	}

	return false
}
