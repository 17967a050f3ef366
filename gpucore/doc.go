// Package gpucore describes the GPU resources generated programs need.
//
// Descriptions here are backend-neutral: bind group layouts, buffers and
// storage textures are plain values that codegen fills in and the render
// package turns into HAL objects. The GPUType methods convert them to
// github.com/gogpu/gputypes values.
//
// # Bindings
//
// Every generated program uses a single bind group. A [BindGroupLayoutEntry]
// records the binding index, the WGSL variable name and the resource kind.
//
//	desc := gpucore.ComputePipelineDesc{
//		Label:      "rasterize",
//		EntryPoint: "rasterize",
//		Workgroup:  [3]uint32{64, 1, 1},
//		Layout: gpucore.BindGroupLayoutDesc{Entries: []gpucore.BindGroupLayoutEntry{
//			{Binding: 0, Name: "indices", Type: gpucore.BindingTypeReadOnlyStorageBuffer},
//		}},
//	}
//	entries := desc.Layout.GPUEntries()
//
// # Dispatch
//
// [ComputePipelineDesc.Dispatch] rounds an invocation grid up to whole
// workgroups.
package gpucore
