// Package shadergraph compiles shader node graphs into ordered GPU stages.
//
// A graph is a set of nodes whose ports carry abstract types such as "any
// float" or "a 2D texture". Compile resolves every port to a concrete type,
// splits the graph into subgraphs at tagged input ports, orders the
// subgraphs by dependency and turns each one into a Stage:
//
//	g := graph.New(graph.Output())
//	add := g.AddNode(graph.Binary(graph.Add))
//	pos := g.AddNode(graph.Input(graph.WorldPosition))
//	g.Connect(graph.OutputPortID{Node: pos}, graph.InputPortID{Node: add})
//	g.Connect(graph.OutputPortID{Node: add}, graph.InputPortID{Node: g.Root})
//
//	out, err := shadergraph.Compile(g, shadergraph.WithOutputSize(1024))
//
// Stages whose results depend on the model are compute rasterizers: two
// WGSL programs that rasterize the mesh in UV space into a visibility
// buffer and copy it into a storage image. See package codegen.
//
// Executing stages is left to the caller; package render schedules them by
// dependency and by which computation domains changed.
//
// # Logging
//
// shadergraph is silent by default. Call SetLogger to enable log output.
package shadergraph
