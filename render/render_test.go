// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

package render

import (
	"context"
	"errors"
	"slices"
	"testing"

	"github.com/gogpu/gpucontext"
	"github.com/gogpu/wgpu/hal"
	"github.com/gogpu/wgpu/hal/noop"

	"github.com/gogpu/shadergraph"
	"github.com/gogpu/shadergraph/cache"
	"github.com/gogpu/shadergraph/datatype"
	"github.com/gogpu/shadergraph/graph"
)

// compiled builds three stages:
//
//	model(4): pos(3), pos(5) -> add(4)           ComputeRasterizer
//	const(6): mul(6) with fixed inputs           ComputeShader
//	root(1):  add(2) <- add(4), add(7) <- mul(6)  VertexFragment
func compiled(t *testing.T, opts ...shadergraph.Option) *shadergraph.IntermediateOutput {
	t.Helper()
	g := graph.New(graph.Output())
	a2 := g.AddNode(graph.Binary(graph.Add))
	p3 := g.AddNode(graph.Input(graph.WorldPosition))
	a4 := g.AddNode(graph.Binary(graph.Add))
	p5 := g.AddNode(graph.Input(graph.ObjectPosition))
	m6 := g.AddNode(graph.Binary(graph.Multiply))
	a7 := g.AddNode(graph.Binary(graph.Add))

	edges := [][2]graph.PortID{
		{graph.OutputPortID{Node: a2}.Port(), graph.InputPortID{Node: g.Root}.Port()},
		{graph.OutputPortID{Node: a7}.Port(), graph.InputPortID{Node: a2, Index: 0}.Port()},
		{graph.OutputPortID{Node: a4}.Port(), graph.InputPortID{Node: a2, Index: 1}.Port()},
		{graph.OutputPortID{Node: p3}.Port(), graph.InputPortID{Node: a4, Index: 0}.Port()},
		{graph.OutputPortID{Node: p5}.Port(), graph.InputPortID{Node: a4, Index: 1}.Port()},
		{graph.OutputPortID{Node: m6}.Port(), graph.InputPortID{Node: a7, Index: 0}.Port()},
		{graph.OutputPortID{Node: p3}.Port(), graph.InputPortID{Node: a7, Index: 1}.Port()},
	}
	for _, e := range edges {
		from := graph.OutputPortID{Node: e[0].Node, Index: e[0].Index}
		to := graph.InputPortID{Node: e[1].Node, Index: e[1].Index}
		if _, err := g.Connect(from, to); err != nil {
			t.Fatal(err)
		}
	}
	f3 := datatype.ConcreteType(datatype.Float(datatype.S3))
	if err := g.SetPortType(graph.InputPortID{Node: m6}.Port(), f3); err != nil {
		t.Fatal(err)
	}
	if err := g.TagSubgraph(graph.InputPortID{Node: a2, Index: 1}, a4); err != nil {
		t.Fatal(err)
	}
	if err := g.TagSubgraph(graph.InputPortID{Node: a7, Index: 0}, m6); err != nil {
		t.Fatal(err)
	}

	opts = append([]shadergraph.Option{shadergraph.WithValidation(false), shadergraph.WithOutputSize(16)}, opts...)
	out, err := shadergraph.Compile(g, opts...)
	if err != nil {
		t.Fatalf("Compile: %v", err)
	}
	return out
}

func ids(stages []*shadergraph.Stage) []graph.ID {
	out := make([]graph.ID, len(stages))
	for i, s := range stages {
		out[i] = s.ID
	}
	return out
}

func TestCompiledFixture(t *testing.T) {
	out := compiled(t)
	want := map[graph.ID]shadergraph.Shader{
		1: shadergraph.ShaderVertexFragment,
		4: shadergraph.ShaderComputeRasterizer,
		6: shadergraph.ShaderComputeShader,
	}
	if len(out.Stages) != len(want) {
		t.Fatalf("stages = %v", ids(out.Stages))
	}
	for id, shader := range want {
		s, ok := out.Stage(id)
		if !ok || s.Shader != shader {
			t.Errorf("stage %d = %v, want %s", id, s, shader)
		}
	}
	if root := out.Stages[len(out.Stages)-1]; root.ID != 1 {
		t.Errorf("root stage is not last: %v", ids(out.Stages))
	}
}

func TestSchedulerInitialPlan(t *testing.T) {
	out := compiled(t)
	s := NewScheduler(out)
	if got := ids(s.Plan()); !slices.Equal(got, ids(out.Stages)) {
		t.Errorf("initial plan = %v, want every stage %v", got, ids(out.Stages))
	}
}

func TestSchedulerInvalidate(t *testing.T) {
	out := compiled(t)
	s := NewScheduler(out)
	if err := s.Run(context.Background(), NullDeviceHandle{}, ExecutorFunc(
		func(context.Context, DeviceHandle, *shadergraph.Stage) error { return nil },
	)); err != nil {
		t.Fatalf("Run: %v", err)
	}
	if plan := s.Plan(); len(plan) != 0 {
		t.Fatalf("plan after run = %v, want empty", ids(plan))
	}

	// The constant stage does not read the model; the root reads everything.
	s.Invalidate(graph.ModelDependent)
	if got := ids(s.Plan()); !slices.Equal(got, []graph.ID{4, 1}) {
		t.Errorf("model plan = %v, want [4 1]", got)
	}
	if s.Stale(6) {
		t.Error("constant stage went stale on a model change")
	}
}

func TestSchedulerInvalidateStagePullsDependants(t *testing.T) {
	out := compiled(t)
	s := NewScheduler(out)
	nop := ExecutorFunc(func(context.Context, DeviceHandle, *shadergraph.Stage) error { return nil })
	if err := s.Run(context.Background(), NullDeviceHandle{}, nop); err != nil {
		t.Fatal(err)
	}

	s.InvalidateStage(6)
	s.InvalidateStage(99)
	if got := ids(s.Plan()); !slices.Equal(got, []graph.ID{6, 1}) {
		t.Errorf("plan = %v, want [6 1]", got)
	}
}

func TestSchedulerRunOrderAndFailure(t *testing.T) {
	out := compiled(t)
	s := NewScheduler(out)

	boom := errors.New("boom")
	var ran []graph.ID
	exec := ExecutorFunc(func(_ context.Context, _ DeviceHandle, st *shadergraph.Stage) error {
		ran = append(ran, st.ID)
		if st.ID == 1 {
			return boom
		}
		return nil
	})
	err := s.Run(context.Background(), NullDeviceHandle{}, exec)
	if !errors.Is(err, boom) {
		t.Fatalf("err = %v, want boom", err)
	}
	if !slices.Equal(ran, ids(out.Stages)) {
		t.Errorf("ran %v, want %v", ran, ids(out.Stages))
	}
	if !s.Stale(1) {
		t.Error("failed stage is not stale")
	}
	if got := ids(s.Plan()); !slices.Equal(got, []graph.ID{1}) {
		t.Errorf("plan after failure = %v, want [1]", got)
	}
}

func TestSchedulerRunCanceled(t *testing.T) {
	s := NewScheduler(compiled(t))
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	called := false
	err := s.Run(ctx, NullDeviceHandle{}, ExecutorFunc(func(context.Context, DeviceHandle, *shadergraph.Stage) error {
		called = true
		return nil
	}))
	if !errors.Is(err, context.Canceled) {
		t.Errorf("err = %v, want context.Canceled", err)
	}
	if called {
		t.Error("executor ran after cancellation")
	}
}

// halHandle is a DeviceHandle around a HAL device.
type halHandle struct {
	NullDeviceHandle
	device hal.Device
}

func (h halHandle) Device() gpucontext.Device { return h.device }

// recordingDevice counts objects on top of the noop backend and can fail
// compute pipeline creation after a number of successes.
type recordingDevice struct {
	*noop.Device
	live          int
	failPipelines int
}

var errDevice = errors.New("device lost")

func (d *recordingDevice) CreateShaderModule(desc *hal.ShaderModuleDescriptor) (hal.ShaderModule, error) {
	if len(desc.Source.SPIRV) == 0 {
		return nil, errors.New("empty SPIR-V")
	}
	d.live++
	return d.Device.CreateShaderModule(desc)
}

func (d *recordingDevice) DestroyShaderModule(m hal.ShaderModule) { d.live-- }

func (d *recordingDevice) CreateBindGroupLayout(desc *hal.BindGroupLayoutDescriptor) (hal.BindGroupLayout, error) {
	d.live++
	return d.Device.CreateBindGroupLayout(desc)
}

func (d *recordingDevice) DestroyBindGroupLayout(hal.BindGroupLayout) { d.live-- }

func (d *recordingDevice) CreatePipelineLayout(desc *hal.PipelineLayoutDescriptor) (hal.PipelineLayout, error) {
	d.live++
	return d.Device.CreatePipelineLayout(desc)
}

func (d *recordingDevice) DestroyPipelineLayout(hal.PipelineLayout) { d.live-- }

func (d *recordingDevice) CreateComputePipeline(desc *hal.ComputePipelineDescriptor) (hal.ComputePipeline, error) {
	if d.failPipelines == 0 {
		return nil, errDevice
	}
	d.failPipelines--
	d.live++
	return d.Device.CreateComputePipeline(desc)
}

func (d *recordingDevice) DestroyComputePipeline(hal.ComputePipeline) { d.live-- }

// precompiled returns a cache holding a stub SPIR-V binary for every
// program, so pipeline tests do not depend on the shader compiler.
func precompiled(t *testing.T) (*shadergraph.IntermediateOutput, *cache.ShaderCache) {
	t.Helper()
	c := cache.NewShaderCache(8)
	out := compiled(t, shadergraph.WithCache(c))
	for _, st := range out.Stages {
		for _, p := range st.Programs() {
			c.Set(p.CacheKey(), []byte{0x03, 0x02, 0x23, 0x07})
		}
	}
	return out, c
}

func TestNewPipelines(t *testing.T) {
	out, _ := precompiled(t)
	dev := &recordingDevice{Device: &noop.Device{}, failPipelines: 100}

	p, err := NewPipelinesFor(halHandle{device: dev}, out)
	if err != nil {
		t.Fatalf("NewPipelines: %v", err)
	}
	if p.Len() != 2 {
		t.Fatalf("Len = %d, want 2", p.Len())
	}
	pls := p.Stage(4)
	if len(pls) != 2 || pls[0].Program.EntryPoint != "rasterize" || pls[1].Program.EntryPoint != "to_image" {
		t.Fatalf("stage 4 pipelines out of order")
	}
	for _, pl := range pls {
		if pl.Module == nil || pl.BindLayout == nil || pl.Layout == nil || pl.Pipeline == nil {
			t.Errorf("%s: incomplete pipeline %+v", pl.Program.Label, pl)
		}
	}
	if len(p.Stage(1)) != 0 {
		t.Error("root stage got pipelines")
	}
	if dev.live != 8 {
		t.Errorf("live objects = %d, want 8", dev.live)
	}

	p.Close()
	p.Close()
	if dev.live != 0 {
		t.Errorf("live objects after Close = %d, want 0", dev.live)
	}
}

func TestNewPipelinesPartialFailure(t *testing.T) {
	out, _ := precompiled(t)
	dev := &recordingDevice{Device: &noop.Device{}, failPipelines: 1}

	if _, err := NewPipelines(dev, out); !errors.Is(err, errDevice) {
		t.Fatalf("err = %v, want device error", err)
	}
	if dev.live != 0 {
		t.Errorf("%d objects leaked after a failed build", dev.live)
	}
}

func TestNewPipelinesNoDevice(t *testing.T) {
	out, _ := precompiled(t)
	if _, err := NewPipelinesFor(NullDeviceHandle{}, out); !errors.Is(err, ErrNoDevice) {
		t.Errorf("err = %v, want ErrNoDevice", err)
	}
	if _, err := HALDevice(nil); !errors.Is(err, ErrNoDevice) {
		t.Errorf("HALDevice(nil) = %v", err)
	}
}
