// Package codegen generates the WGSL compute programs that rasterize a mesh
// into a visibility image.
//
// A Rasterizer pairs two programs. The rasterize program runs one invocation
// per triangle, projects the triangle's UVs into a square grid and records
// triangle+1 in every covered cell with atomicMax. The to_image program
// copies the grid into a storage texture. Because atomicMax is commutative,
// the result does not depend on the order in which invocations run.
//
// Programs are plain data: WGSL source, an entry point, a workgroup size and
// a bind group layout. Validate, SPIRV and Translate run them through naga.
package codegen
