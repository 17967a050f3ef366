package raster

import (
	"errors"
	"math/rand/v2"
	"testing"
)

// fullTriangle covers every cell of any grid: its legs are twice the UV
// square.
var fullTriangle = [3]Vertex{
	{UV: [4]float32{0, 0, 0, 0}},
	{UV: [4]float32{2, 0, 0, 0}},
	{UV: [4]float32{0, 2, 0, 0}},
}

// overlapMesh has six triangles. Triangles 2 and 5 cover the whole grid,
// the others are degenerate.
func overlapMesh() *Mesh {
	m := &Mesh{Vertices: append([]Vertex{{UV: [4]float32{0.5, 0.5, 0, 0}}}, fullTriangle[:]...)}
	for t := range 6 {
		if t == 2 || t == 5 {
			m.Indices = append(m.Indices, 1, 2, 3)
		} else {
			m.Indices = append(m.Indices, 0, 0, 0)
		}
	}
	return m
}

func TestOverlapMaxWins(t *testing.T) {
	orders := map[string][]uint32{
		"ascending":  nil,
		"descending": {5, 4, 3, 2, 1, 0},
		"interleave": {2, 0, 5, 1, 4, 3},
		"late two":   {5, 0, 1, 3, 4, 2},
	}
	for name, order := range orders {
		t.Run(name, func(t *testing.T) {
			vis := NewVisibility(8)
			Rasterize(overlapMesh(), vis, order)
			for i, c := range vis.Cells() {
				if c != 6 {
					t.Fatalf("cell %d = %d, want 6", i, c)
				}
			}
		})
	}
}

func TestOverlapRandomOrders(t *testing.T) {
	m := overlapMesh()
	rng := rand.New(rand.NewPCG(1, 2))
	for range 20 {
		order := []uint32{0, 1, 2, 3, 4, 5}
		rng.Shuffle(len(order), func(i, j int) { order[i], order[j] = order[j], order[i] })

		vis := NewVisibility(4)
		Rasterize(m, vis, order)
		if got := vis.At(1, 1); got != 6 {
			t.Fatalf("order %v: cell = %d, want 6", order, got)
		}
	}
}

func TestRasterizeParallel(t *testing.T) {
	pool := NewWorkerPool(4)
	defer pool.Close()

	for _, wg := range []uint32{0, 1, 2, 64} {
		vis := NewVisibility(16)
		RasterizeParallel(pool, overlapMesh(), vis, wg)
		for i, c := range vis.Cells() {
			if c != 6 {
				t.Fatalf("workgroup %d: cell %d = %d, want 6", wg, i, c)
			}
		}
	}
}

func TestDegenerateTriangle(t *testing.T) {
	tests := []struct {
		name string
		uvs  [3][2]float32
	}{
		{"point", [3][2]float32{{0.5, 0.5}, {0.5, 0.5}, {0.5, 0.5}}},
		{"collinear", [3][2]float32{{0, 0}, {0.5, 0.5}, {1, 1}}},
		{"repeated edge", [3][2]float32{{0, 0}, {1, 0}, {1, 0}}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			m := &Mesh{Indices: []uint32{0, 1, 2}}
			for _, uv := range tt.uvs {
				m.Vertices = append(m.Vertices, Vertex{UV: [4]float32{uv[0], uv[1], 0, 0}})
			}
			vis := NewVisibility(8)
			if n := Invoke(m, 0, vis); n != 0 {
				t.Errorf("covered %d cells", n)
			}
			for i, c := range vis.Cells() {
				if c != 0 {
					t.Fatalf("cell %d written: %d", i, c)
				}
			}
		})
	}
}

func TestSmallTriangleCoverage(t *testing.T) {
	// Scaled to an 8 grid the legs are 4 cells long; centres with
	// x+y <= 3 lie inside, edges included.
	m := &Mesh{
		Vertices: []Vertex{
			{UV: [4]float32{0, 0, 0, 0}},
			{UV: [4]float32{0.5, 0, 0, 0}},
			{UV: [4]float32{0, 0.5, 0, 0}},
		},
		Indices: []uint32{0, 1, 2},
	}
	vis := NewVisibility(8)
	if n := Invoke(m, 0, vis); n != 10 {
		t.Errorf("covered %d cells, want 10", n)
	}
	for y := range uint32(8) {
		for x := range uint32(8) {
			want := uint32(0)
			if x+y <= 3 {
				want = 1
			}
			if got := vis.At(x, y); got != want {
				t.Errorf("cell (%d,%d) = %d, want %d", x, y, got, want)
			}
		}
	}
}

func TestInvokeOutOfRange(t *testing.T) {
	vis := NewVisibility(4)
	if n := Invoke(Quad(), 7, vis); n != 0 {
		t.Errorf("out of range invocation covered %d cells", n)
	}
	if n := Invoke(Quad(), 0, NewVisibility(0)); n != 0 {
		t.Errorf("empty grid covered %d cells", n)
	}
}

func TestQuadCoversGrid(t *testing.T) {
	vis := NewVisibility(8)
	Rasterize(Quad(), vis, nil)
	for i, c := range vis.Cells() {
		if c == 0 {
			t.Fatalf("cell %d not covered", i)
		}
	}
	// The second triangle wins along the shared diagonal.
	if got := vis.At(3, 3); got != 2 {
		t.Errorf("diagonal cell = %d, want 2", got)
	}
}

func TestMeshValidate(t *testing.T) {
	if err := Quad().Validate(); err != nil {
		t.Fatalf("Quad: %v", err)
	}
	bad := []*Mesh{
		{Vertices: make([]Vertex, 3), Indices: []uint32{0, 1}},
		{Vertices: make([]Vertex, 3), Indices: []uint32{0, 1, 3}},
	}
	for i, m := range bad {
		if err := m.Validate(); !errors.Is(err, ErrInvalidMesh) {
			t.Errorf("mesh %d: err = %v, want ErrInvalidMesh", i, err)
		}
	}
}

func TestMeshBytes(t *testing.T) {
	m := Quad()
	if got := len(m.VertexBytes()); got != 4*32 {
		t.Errorf("vertex bytes = %d, want 128", got)
	}
	idx := m.IndexBytes()
	if len(idx) != 24 {
		t.Fatalf("index bytes = %d, want 24", len(idx))
	}
	if idx[4] != 1 || idx[8] != 2 {
		t.Errorf("indices not little-endian: % x", idx[:12])
	}
	// UV.x of vertex 1 is 1.0 = 0x3f800000.
	v := m.VertexBytes()
	if v[32+16] != 0x00 || v[32+19] != 0x3f {
		t.Errorf("vertex 1 uv.x = % x", v[48:52])
	}
}

func TestVisibilityMaxAt(t *testing.T) {
	vis := NewVisibility(2)
	if got := vis.MaxAt(3, 5); got != 5 {
		t.Errorf("MaxAt = %d, want 5", got)
	}
	if got := vis.MaxAt(3, 2); got != 5 {
		t.Errorf("smaller MaxAt = %d, want 5", got)
	}
	if vis.Size() != 2 || vis.Len() != 4 {
		t.Errorf("size/len = %d/%d", vis.Size(), vis.Len())
	}
	vis.Reset()
	if vis.At(1, 1) != 0 {
		t.Error("Reset left a value")
	}
}

func TestToImageAndDownscale(t *testing.T) {
	vis := NewVisibility(8)
	Rasterize(overlapMesh(), vis, nil)

	img := ToImage(vis)
	if img.Bounds().Dx() != 8 {
		t.Fatalf("image width = %d", img.Bounds().Dx())
	}
	c := img.RGBA64At(3, 4)
	if c.R != 6 || c.G != 6 || c.B != 6 || c.A != 6 {
		t.Errorf("texel = %+v, want all channels 6", c)
	}

	small := Downscale(img, 4)
	if small.Bounds().Dx() != 4 {
		t.Fatalf("downscaled width = %d", small.Bounds().Dx())
	}
	for y := range 4 {
		for x := range 4 {
			if got := small.RGBA64At(x, y).R; got != 6 {
				t.Errorf("downscaled (%d,%d) = %d, want 6", x, y, got)
			}
		}
	}

	col := Colorize(img)
	if col.NRGBAAt(0, 0) != Palette(6) {
		t.Error("Colorize does not use Palette")
	}
	if col.NRGBAAt(0, 0).A != 0xff {
		t.Error("drawn texel not opaque")
	}
}

func TestWorkerPool(t *testing.T) {
	pool := NewWorkerPool(0)
	if pool.Workers() < 1 {
		t.Fatalf("Workers = %d", pool.Workers())
	}
	pool.Close()
	pool.Close()
	// Closed pools drop work.
	ran := false
	pool.ExecuteAll([]func(){func() { ran = true }})
	if ran {
		t.Error("closed pool ran work")
	}
}
