// Package graph models shader node graphs and the analyses that turn a graph
// into compile units.
//
// A [Graph] owns nodes, the input and output ports derived from each node's
// [NodeType], the edges between ports, and user constraints. The root node
// is the graph's sink (normally an Output node).
//
// Analyses, in the order the compiler runs them:
//
//   - [Graph.TopologicalNodes] orders nodes so every edge points forward.
//     Ties between ready nodes break by ascending node ID.
//   - [Graph.ComputationDomains] labels every node with the union of its own
//     domain and the domains of everything upstream.
//   - [Graph.SubgraphLabels] and [Graph.BranchLabels] walk backwards from the
//     root, propagating tags introduced on input ports.
//   - [Graph.Prune] drops nodes outside the retained subgraphs.
//   - [Graph.Decompose] groups nodes into a [MultiGraph];
//     [MultiGraph.Branch] splits each subgraph into branches and shared nodes.
//   - [Graph.AssignConcreteTypes] and [Graph.NarrowAbstractTypes] run the
//     constraint solver over every port.
//
// A Graph is not safe for concurrent mutation. Analyses only read it, except
// Prune.
package graph
