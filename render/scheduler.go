// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

package render

import (
	"context"
	"fmt"
	"sync"

	"github.com/gogpu/shadergraph"
	"github.com/gogpu/shadergraph/graph"
)

// Executor runs one stage on a device.
type Executor interface {
	Execute(ctx context.Context, device DeviceHandle, stage *shadergraph.Stage) error
}

// ExecutorFunc adapts a function to Executor.
type ExecutorFunc func(ctx context.Context, device DeviceHandle, stage *shadergraph.Stage) error

// Execute calls f.
func (f ExecutorFunc) Execute(ctx context.Context, device DeviceHandle, stage *shadergraph.Stage) error {
	return f(ctx, device, stage)
}

// Scheduler decides which stages of a compiled graph must run.
//
// Every stage starts stale. A stage becomes current when it runs
// successfully and stale again when a domain it reads is invalidated or
// when a stage it depends on re-runs.
//
// Scheduler is safe for concurrent use; Run executes stages one at a time.
type Scheduler struct {
	mu    sync.Mutex
	out   *shadergraph.IntermediateOutput
	stale map[graph.ID]bool
}

// NewScheduler returns a scheduler with every stage stale.
func NewScheduler(out *shadergraph.IntermediateOutput) *Scheduler {
	s := &Scheduler{
		out:   out,
		stale: make(map[graph.ID]bool, len(out.Stages)),
	}
	for _, st := range out.Stages {
		s.stale[st.ID] = true
	}
	return s
}

// Invalidate marks every stage that reads any domain in d as stale.
func (s *Scheduler) Invalidate(d graph.ComputationDomain) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, st := range s.out.Stages {
		if st.Reads(d) {
			s.stale[st.ID] = true
		}
	}
}

// InvalidateStage marks one stage as stale.
func (s *Scheduler) InvalidateStage(id graph.ID) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.out.Stage(id); ok {
		s.stale[id] = true
	}
}

// Plan returns the stages the next Run executes: the stale stages and their
// transitive dependants, in output order.
func (s *Scheduler) Plan() []*shadergraph.Stage {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.plan()
}

func (s *Scheduler) plan() []*shadergraph.Stage {
	run := make(map[graph.ID]bool, len(s.out.Stages))
	var plan []*shadergraph.Stage
	for _, st := range s.out.Stages {
		needed := s.stale[st.ID]
		for _, dep := range st.Dependencies {
			if run[dep] {
				needed = true
				break
			}
		}
		if needed {
			run[st.ID] = true
			plan = append(plan, st)
		}
	}
	return plan
}

// Run executes the planned stages in order. It stops at the first error;
// that stage and every stage after it stay stale.
func (s *Scheduler) Run(ctx context.Context, device DeviceHandle, exec Executor) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	log := shadergraph.Logger()
	plan := s.plan()
	for _, st := range plan {
		if err := ctx.Err(); err != nil {
			return err
		}
		if err := exec.Execute(ctx, device, st); err != nil {
			return fmt.Errorf("render: stage %d (%s): %w", st.ID, st.Shader, err)
		}
		// Dependants of a re-run stage are stale until they run too.
		delete(s.stale, st.ID)
		for _, d := range st.Dependants {
			s.stale[d] = true
		}
		log.Debug("render: stage executed", "stage", st.ID, "shader", st.Shader)
	}
	return nil
}

// Stale reports whether a stage is waiting to run.
func (s *Scheduler) Stale(id graph.ID) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.stale[id]
}
