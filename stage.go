package shadergraph

import (
	"fmt"
	"slices"

	"github.com/gogpu/shadergraph/cache"
	"github.com/gogpu/shadergraph/codegen"
	"github.com/gogpu/shadergraph/datatype"
	"github.com/gogpu/shadergraph/graph"
)

// Shader is the kind of GPU work a stage lowers to.
type Shader uint8

const (
	// ShaderComputeShader is a plain compute pass.
	ShaderComputeShader Shader = iota

	// ShaderComputeRasterizer rasterizes the model in UV space into an
	// image. Stages that depend on the model use it.
	ShaderComputeRasterizer

	// ShaderVertexFragment is the final render pass of the root subgraph.
	ShaderVertexFragment
)

func (s Shader) String() string {
	switch s {
	case ShaderComputeShader:
		return "ComputeShader"
	case ShaderComputeRasterizer:
		return "ComputeRasterizer"
	case ShaderVertexFragment:
		return "VertexFragment"
	default:
		return fmt.Sprintf("Shader(%d)", uint8(s))
	}
}

// Stage is one compiled unit of a graph: a subgraph together with the
// shader it lowers to.
type Stage struct {
	// ID is the subgraph ID. The root stage has the root node's ID.
	ID graph.ID

	Shader  Shader
	Domains graph.ComputationDomain

	// Dependencies are the stages whose results this one reads; Dependants
	// read this one's result. Both are in output order.
	Dependencies []graph.ID
	Dependants   []graph.ID

	// Nodes lists every member node in topological order.
	Nodes []graph.ID

	// Branches holds nodes that run only in one branch; SharedNodes run in
	// all of them.
	Branches    map[graph.ID][]graph.ID
	SharedNodes []graph.ID

	// PortTypes holds the resolved type of every port on a member node.
	PortTypes map[graph.PortID]datatype.Concrete

	// Rasterizer is set for ShaderComputeRasterizer stages.
	Rasterizer *codegen.Rasterizer
}

// Programs returns the generated programs of the stage, in execution
// order. Only rasterizer stages have any.
func (s *Stage) Programs() []*codegen.Program {
	if s.Rasterizer == nil {
		return nil
	}
	return s.Rasterizer.Programs()
}

// Reads reports whether the stage must re-run when any of the domains in d
// change.
func (s *Stage) Reads(d graph.ComputationDomain) bool {
	return s.Domains&d != 0
}

// IntermediateOutput is the result of Compile: the stages in dependency
// order.
type IntermediateOutput struct {
	Stages []*Stage

	// Graph is the pruned, typed graph the stages were built from.
	Graph *graph.Graph

	// Types holds the resolved type of every port.
	Types map[graph.PortID]datatype.Concrete

	// Cache is the shader cache passed with WithCache, or nil.
	Cache *cache.ShaderCache
}

// Stage returns the stage with the given ID.
func (o *IntermediateOutput) Stage(id graph.ID) (*Stage, bool) {
	i := slices.IndexFunc(o.Stages, func(s *Stage) bool { return s.ID == id })
	if i < 0 {
		return nil, false
	}
	return o.Stages[i], true
}

// Root returns the stage of the root subgraph.
func (o *IntermediateOutput) Root() *Stage {
	s, _ := o.Stage(o.Graph.Root)
	return s
}
