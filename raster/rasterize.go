package raster

import (
	"math"

	"github.com/gogpu/shadergraph/gpucore"
)

type vec2 struct{ x, y float32 }

func (a vec2) sub(b vec2) vec2 { return vec2{a.x - b.x, a.y - b.y} }

// dot keeps each product in float32 so the compiler cannot fuse them.
func (a vec2) dot(b vec2) float32 { return float32(a.x*b.x) + float32(a.y*b.y) }

func minv(a, b vec2) vec2 { return vec2{min(a.x, b.x), min(a.y, b.y)} }
func maxv(a, b vec2) vec2 { return vec2{max(a.x, b.x), max(a.y, b.y)} }

func floorv(a vec2) vec2 {
	return vec2{float32(math.Floor(float64(a.x))), float32(math.Floor(float64(a.y)))}
}

func ceilv(a vec2) vec2 {
	return vec2{float32(math.Ceil(float64(a.x))), float32(math.Ceil(float64(a.y)))}
}

func clampv(a vec2, lo, hi float32) vec2 {
	return vec2{min(max(a.x, lo), hi), min(max(a.y, lo), hi)}
}

// Invoke runs one invocation of the rasterize program for triangle. It
// returns the number of cells the triangle covered.
func Invoke(m *Mesh, triangle uint32, vis *Visibility) int {
	if uint64(triangle)*3+2 >= uint64(len(m.Indices)) {
		return 0
	}
	size := vis.Size()
	if size == 0 {
		return 0
	}
	scale := float32(size)

	uv := func(corner uint32) vec2 {
		t := m.Vertices[m.Indices[triangle*3+corner]].UV
		return vec2{t[0] * scale, t[1] * scale}
	}
	uv1, uv2, uv3 := uv(0), uv(1), uv(2)

	v0 := uv2.sub(uv1)
	v1 := uv3.sub(uv1)
	d00 := v0.dot(v0)
	d01 := v0.dot(v1)
	d11 := v1.dot(v1)
	denom := float32(d00*d11) - float32(d01*d01)
	if denom == 0 {
		return 0
	}

	last := scale - 1
	lo := clampv(floorv(minv(minv(uv1, uv2), uv3)), 0, last)
	hi := clampv(ceilv(maxv(maxv(uv1, uv2), uv3)), 0, last)

	covered := 0
	for y := uint32(lo.y); y <= uint32(hi.y); y++ {
		for x := uint32(lo.x); x <= uint32(hi.x); x++ {
			p := vec2{float32(x) + 0.5, float32(y) + 0.5}
			v2 := p.sub(uv1)
			d20 := v2.dot(v0)
			d21 := v2.dot(v1)
			v := (float32(d11*d20) - float32(d01*d21)) / denom
			w := (float32(d00*d21) - float32(d01*d20)) / denom
			u := 1 - v - w
			if u >= 0 && v >= 0 && w >= 0 {
				vis.MaxAt(y*size+x, triangle+1)
				covered++
			}
		}
	}
	return covered
}

// Rasterize runs one invocation per triangle, in the given order. A nil
// order means ascending triangle index. Indices outside the mesh are
// ignored the way out-of-range invocations are on the GPU.
func Rasterize(m *Mesh, vis *Visibility, order []uint32) {
	if order == nil {
		for t := range m.Triangles() {
			Invoke(m, t, vis)
		}
		return
	}
	for _, t := range order {
		Invoke(m, t, vis)
	}
}

// RasterizeParallel dispatches workgroups of workgroupSize invocations onto
// pool, one work item per workgroup, and waits for all of them.
func RasterizeParallel(pool *WorkerPool, m *Mesh, vis *Visibility, workgroupSize uint32) {
	if workgroupSize == 0 {
		workgroupSize = 1
	}
	triangles := m.Triangles()
	groups := gpucore.WorkgroupCount(triangles, workgroupSize)

	work := make([]func(), 0, groups)
	for g := range groups {
		first := g * workgroupSize
		work = append(work, func() {
			for t := first; t < first+workgroupSize && t < triangles; t++ {
				Invoke(m, t, vis)
			}
		})
	}
	pool.ExecuteAll(work)
}
