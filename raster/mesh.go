package raster

import (
	"encoding/binary"
	"errors"
	"fmt"
	"math"
)

// ErrInvalidMesh is returned for meshes the rasterizer cannot read.
var ErrInvalidMesh = errors.New("raster: invalid mesh")

// Vertex matches the WGSL Vertex struct: position then uv, both vec4<f32>.
// Only UV.xy is read by the rasterizer.
type Vertex struct {
	Position [4]float32
	UV       [4]float32
}

// Mesh is an indexed triangle list.
type Mesh struct {
	Vertices []Vertex
	Indices  []uint32
}

// Triangles returns the number of complete triangles in the index list.
func (m *Mesh) Triangles() uint32 {
	return uint32(len(m.Indices) / 3)
}

// Validate reports index lists that are not whole triangles or that point
// past the vertex list.
func (m *Mesh) Validate() error {
	if len(m.Indices)%3 != 0 {
		return fmt.Errorf("%w: %d indices is not a multiple of 3", ErrInvalidMesh, len(m.Indices))
	}
	for i, idx := range m.Indices {
		if int(idx) >= len(m.Vertices) {
			return fmt.Errorf("%w: index %d = %d, only %d vertices", ErrInvalidMesh, i, idx, len(m.Vertices))
		}
	}
	return nil
}

// VertexBytes encodes the vertices as the little-endian storage buffer the
// rasterize program binds at binding 1.
func (m *Mesh) VertexBytes() []byte {
	buf := make([]byte, 0, len(m.Vertices)*32)
	for _, v := range m.Vertices {
		for _, f := range v.Position {
			buf = binary.LittleEndian.AppendUint32(buf, math.Float32bits(f))
		}
		for _, f := range v.UV {
			buf = binary.LittleEndian.AppendUint32(buf, math.Float32bits(f))
		}
	}
	return buf
}

// IndexBytes encodes the indices as the storage buffer bound at binding 0.
func (m *Mesh) IndexBytes() []byte {
	buf := make([]byte, 0, len(m.Indices)*4)
	for _, idx := range m.Indices {
		buf = binary.LittleEndian.AppendUint32(buf, idx)
	}
	return buf
}

// Quad returns a two-triangle mesh covering the whole UV square.
func Quad() *Mesh {
	return &Mesh{
		Vertices: []Vertex{
			{Position: [4]float32{-1, -1, 0, 1}, UV: [4]float32{0, 0, 0, 0}},
			{Position: [4]float32{1, -1, 0, 1}, UV: [4]float32{1, 0, 0, 0}},
			{Position: [4]float32{1, 1, 0, 1}, UV: [4]float32{1, 1, 0, 0}},
			{Position: [4]float32{-1, 1, 0, 1}, UV: [4]float32{0, 1, 0, 0}},
		},
		Indices: []uint32{0, 1, 2, 0, 2, 3},
	}
}
