package shadergraph

import (
	"errors"
	"fmt"
	"maps"
	"slices"
	"strconv"

	"github.com/gogpu/shadergraph/codegen"
	"github.com/gogpu/shadergraph/datatype"
	"github.com/gogpu/shadergraph/graph"
	"github.com/gogpu/shadergraph/solver"
)

// TypeError reports a graph whose ports cannot all be given a concrete
// type. Port is where the contradiction was detected; fixing that port's
// type or its connections is the place to start.
type TypeError struct {
	Port graph.PortID
	Err  error
}

func (e *TypeError) Error() string {
	return fmt.Sprintf("shadergraph: type error at %s: %v", e.Port, e.Err)
}

func (e *TypeError) Unwrap() error { return e.Err }

// Compile turns a graph into ordered stages. The graph is not modified.
//
// The returned error wraps solver.ErrContradiction, as a *TypeError, when
// the ports cannot be typed; graph.ErrCycle when the graph is not acyclic;
// and codegen.ErrInvalidProgram when validation is on and a generated
// program fails it.
func Compile(g *graph.Graph, opts ...Option) (*IntermediateOutput, error) {
	o := defaultOptions()
	for _, opt := range opts {
		opt(&o)
	}
	log := Logger()

	if _, ok := g.Nodes[g.Root]; !ok {
		return nil, fmt.Errorf("shadergraph: root %d: %w", g.Root, graph.ErrUnknownNode)
	}

	g = g.Clone()
	retain := o.retain
	if len(retain) > 0 {
		retain = append(slices.Clone(retain), g.Root)
	}
	if n := g.Prune(retain...); n > 0 {
		log.Warn("shadergraph: pruned nodes", "removed", n, "kept", len(g.Nodes))
	}

	types, err := g.AssignConcreteTypes()
	if err != nil {
		var ce *solver.ContradictionError[graph.PortID]
		if errors.As(err, &ce) {
			return nil, &TypeError{Port: ce.Port, Err: err}
		}
		return nil, fmt.Errorf("shadergraph: %w", err)
	}
	log.Debug("shadergraph: ports typed", "ports", len(types))

	order, err := g.TopologicalNodes()
	if err != nil {
		return nil, fmt.Errorf("shadergraph: %w", err)
	}
	domains := g.ComputationDomains(order)

	mg, err := g.Decompose()
	if err != nil {
		return nil, fmt.Errorf("shadergraph: %w", err)
	}
	bmg := mg.Branch()
	log.Debug("shadergraph: decomposed", "subgraphs", len(mg.Subgraphs), "ordering", mg.Ordering)

	out := &IntermediateOutput{
		Graph: g,
		Types: types,
		Cache: o.cache,
	}
	for _, id := range mg.Ordering {
		st, err := buildStage(g, mg, bmg.Subgraphs[id], domains, types, o)
		if err != nil {
			return nil, err
		}
		out.Stages = append(out.Stages, st)
	}

	log.Info("shadergraph: compiled",
		"nodes", len(g.Nodes),
		"stages", len(out.Stages),
	)
	return out, nil
}

func buildStage(
	g *graph.Graph,
	mg *graph.MultiGraph,
	bs *graph.BranchedSubgraph,
	domains map[graph.ID]graph.ComputationDomain,
	types map[graph.PortID]datatype.Concrete,
	o options,
) (*Stage, error) {
	id := bs.ID
	st := &Stage{
		ID:           id,
		Dependencies: slices.Clone(mg.Dependencies[id]),
		Dependants:   mg.Dependants(id),
		Nodes:        slices.Clone(mg.Subgraphs[id].Nodes),
		Branches:     maps.Clone(bs.Branches),
		SharedNodes:  slices.Clone(bs.Nodes),
		PortTypes:    make(map[graph.PortID]datatype.Concrete),
	}
	for _, n := range st.Nodes {
		st.Domains |= domains[n]
		node := g.Nodes[n]
		for _, p := range node.Inputs() {
			st.PortTypes[p.Port()] = types[p.Port()]
		}
		for _, p := range node.Outputs() {
			st.PortTypes[p.Port()] = types[p.Port()]
		}
	}

	switch {
	case id == g.Root:
		st.Shader = ShaderVertexFragment
	case st.Domains.Has(graph.ModelDependent):
		st.Shader = ShaderComputeRasterizer
		st.Rasterizer = codegen.NewRasterizer("stage"+strconv.FormatUint(uint64(id), 10), o.raster)
	default:
		st.Shader = ShaderComputeShader
	}

	if o.validate {
		for _, p := range st.Programs() {
			if err := p.Validate(); err != nil {
				return nil, fmt.Errorf("shadergraph: stage %d: %w", id, err)
			}
		}
	}
	Logger().Debug("shadergraph: stage built",
		"stage", id,
		"shader", st.Shader,
		"domains", st.Domains,
		"nodes", len(st.Nodes),
		"branches", len(st.Branches),
	)
	return st, nil
}
