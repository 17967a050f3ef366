// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

package render

import (
	"fmt"

	"github.com/gogpu/wgpu/hal"

	"github.com/gogpu/shadergraph"
	"github.com/gogpu/shadergraph/codegen"
	"github.com/gogpu/shadergraph/graph"
	"github.com/gogpu/shadergraph/internal/native"
)

// Pipeline is the HAL state for one generated program.
type Pipeline struct {
	Program    *codegen.Program
	Module     hal.ShaderModule
	BindLayout hal.BindGroupLayout
	Layout     hal.PipelineLayout
	Pipeline   hal.ComputePipeline
}

// Pipelines holds the compute pipelines of every stage of a compiled graph.
// Close releases them.
type Pipelines struct {
	res     native.Resources
	byStage map[graph.ID][]*Pipeline
}

// NewPipelinesFor builds pipelines on the HAL device behind a handle.
func NewPipelinesFor(h DeviceHandle, out *shadergraph.IntermediateOutput) (*Pipelines, error) {
	device, err := HALDevice(h)
	if err != nil {
		return nil, err
	}
	return NewPipelines(device, out)
}

// NewPipelines compiles every program of out and creates its pipeline on
// device. SPIR-V goes through out.Cache when one was configured. On error,
// everything created so far is destroyed.
func NewPipelines(device hal.Device, out *shadergraph.IntermediateOutput) (*Pipelines, error) {
	p := &Pipelines{
		res:     native.Resources{Device: device},
		byStage: make(map[graph.ID][]*Pipeline),
	}
	for _, st := range out.Stages {
		for _, prog := range st.Programs() {
			pl, err := p.create(device, prog, out)
			if err != nil {
				p.Close()
				return nil, fmt.Errorf("render: stage %d: %s: %w", st.ID, prog.Label, err)
			}
			p.byStage[st.ID] = append(p.byStage[st.ID], pl)
		}
	}
	shadergraph.Logger().Debug("render: pipelines created",
		"stages", len(p.byStage),
		"objects", p.res.Len(),
	)
	return p, nil
}

func (p *Pipelines) create(device hal.Device, prog *codegen.Program, out *shadergraph.IntermediateOutput) (*Pipeline, error) {
	desc := prog.Pipeline()
	if err := desc.Validate(); err != nil {
		return nil, err
	}
	spirvBytes, err := prog.SPIRV(out.Cache)
	if err != nil {
		return nil, err
	}
	words, err := native.SPIRVWords(spirvBytes)
	if err != nil {
		return nil, err
	}

	pl := &Pipeline{Program: prog}
	pl.Module, err = native.CreateShaderModule(device, prog.Label, words)
	if err != nil {
		return nil, fmt.Errorf("create shader module: %w", err)
	}
	p.res.ShaderModules = append(p.res.ShaderModules, pl.Module)

	pl.BindLayout, err = device.CreateBindGroupLayout(&hal.BindGroupLayoutDescriptor{
		Label:   desc.Layout.Label,
		Entries: desc.Layout.GPUEntries(),
	})
	if err != nil {
		return nil, fmt.Errorf("create bind group layout: %w", err)
	}
	p.res.BindLayouts = append(p.res.BindLayouts, pl.BindLayout)

	pl.Layout, err = device.CreatePipelineLayout(&hal.PipelineLayoutDescriptor{
		Label:            prog.Label,
		BindGroupLayouts: []hal.BindGroupLayout{pl.BindLayout},
	})
	if err != nil {
		return nil, fmt.Errorf("create pipeline layout: %w", err)
	}
	p.res.PipelineLayouts = append(p.res.PipelineLayouts, pl.Layout)

	pl.Pipeline, err = device.CreateComputePipeline(&hal.ComputePipelineDescriptor{
		Label:  prog.Label,
		Layout: pl.Layout,
		Compute: hal.ComputeState{
			Module:     pl.Module,
			EntryPoint: prog.EntryPoint,
		},
	})
	if err != nil {
		return nil, fmt.Errorf("create compute pipeline: %w", err)
	}
	p.res.Pipelines = append(p.res.Pipelines, pl.Pipeline)
	return pl, nil
}

// Stage returns the pipelines of a stage in execution order.
func (p *Pipelines) Stage(id graph.ID) []*Pipeline {
	return p.byStage[id]
}

// Len returns the number of pipelines.
func (p *Pipelines) Len() int {
	n := 0
	for _, pls := range p.byStage {
		n += len(pls)
	}
	return n
}

// Close destroys every HAL object. It is safe to call more than once.
func (p *Pipelines) Close() {
	p.res.Destroy()
	clear(p.byStage)
}
