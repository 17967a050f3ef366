// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

// Package render runs compiled stages.
//
// The package does not create GPU devices. The host application owns the
// device and passes it in as a DeviceHandle; render builds pipelines on it
// and decides which stages need to run.
//
// # Scheduling
//
// A Scheduler tracks which stages are stale. Invalidate marks every stage
// that reads a computation domain, for example the model after a mesh
// change. Plan returns the stale stages and everything downstream of them,
// dependencies first, and Run hands them to an Executor in that order:
//
//	s := render.NewScheduler(out)
//	s.Invalidate(graph.ModelDependent)
//	err := s.Run(ctx, handle, render.ExecutorFunc(func(ctx context.Context, d render.DeviceHandle, st *shadergraph.Stage) error {
//	    return encode(d, st)
//	}))
//
// # Pipelines
//
// NewPipelines compiles every generated program to SPIR-V and creates its
// shader module, bind group layout, pipeline layout and compute pipeline
// on a HAL device.
package render
