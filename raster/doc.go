// Package raster executes the rasterizer programs emitted by codegen on the
// CPU.
//
// It is the reference the generated WGSL is checked against: Rasterize runs
// the per-triangle invocation exactly as the rasterize entry point does,
// bounding box, barycentric test and atomic max included, and ToImage mirrors
// the to_image pass. Invocations can run in any order, sequentially or on a
// WorkerPool, and the visibility buffer comes out the same.
package raster
