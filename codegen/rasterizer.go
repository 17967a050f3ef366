package codegen

import (
	"embed"
	"math/bits"
	"strings"
	"text/template"

	"github.com/gogpu/shadergraph/gpucore"
)

//go:embed shaders/*.wgsl.tmpl
var shaderFS embed.FS

var shaderTemplates = template.Must(template.ParseFS(shaderFS, "shaders/*.wgsl.tmpl"))

// Entry point names of the rasterizer programs.
const (
	RasterizeEntryPoint = "rasterize"
	ToImageEntryPoint   = "to_image"
)

// Mesh layout read by the rasterize program.
const (
	// VertexStride is the size of one vertex: position and uv, both vec4<f32>.
	VertexStride = 32
	// IndexSize is the size of one index.
	IndexSize = 4
	// VisibilityCellSize is the size of one visibility buffer cell.
	VisibilityCellSize = 4
	// ImageTileSize is the square workgroup edge of the to_image program.
	ImageTileSize = 8
)

// RasterizerOptions parameterizes the compute rasterizer.
type RasterizerOptions struct {
	// OutputSize is the edge of the final square output image in pixels.
	OutputSize uint32

	// BaseSizeMultiplier scales the visibility buffer edge relative to
	// OutputSize.
	BaseSizeMultiplier uint32

	// WorkgroupSize is the number of triangles per rasterize workgroup.
	WorkgroupSize uint32

	// GenerateMipMaps requests a full mip chain on the output image. Mip
	// generation itself is left to the consumer of the image.
	GenerateMipMaps bool

	// Format is the texel format of the output image. Unknown formats take
	// the default.
	Format gpucore.TextureFormat
}

// DefaultRasterizerOptions returns the defaults: a 512x512 output, no
// supersampling, 64 triangles per workgroup, RGBA32Float texels.
func DefaultRasterizerOptions() RasterizerOptions {
	return RasterizerOptions{
		OutputSize:         512,
		BaseSizeMultiplier: 1,
		WorkgroupSize:      64,
		Format:             gpucore.TextureFormatRGBA32Float,
	}
}

func (o RasterizerOptions) withDefaults() RasterizerOptions {
	d := DefaultRasterizerOptions()
	if o.OutputSize == 0 {
		o.OutputSize = d.OutputSize
	}
	if o.BaseSizeMultiplier == 0 {
		o.BaseSizeMultiplier = d.BaseSizeMultiplier
	}
	if o.WorkgroupSize == 0 {
		o.WorkgroupSize = d.WorkgroupSize
	}
	if !o.Format.Valid() {
		o.Format = d.Format
	}
	return o
}

// GridSize is the edge of the visibility buffer in cells.
func (o RasterizerOptions) GridSize() uint32 {
	o = o.withDefaults()
	return o.OutputSize * o.BaseSizeMultiplier
}

// MipLevels is the mip count of the output image.
func (o RasterizerOptions) MipLevels() uint32 {
	o = o.withDefaults()
	if !o.GenerateMipMaps {
		return 1
	}
	return uint32(bits.Len32(o.OutputSize))
}

// Rasterizer holds the two programs of a compute-rasterized stage and the
// resources they share.
//
// Rasterize runs one invocation per triangle and fills Visibility. ToImage
// runs one invocation per visibility cell and writes Image.
type Rasterizer struct {
	Options    RasterizerOptions
	Rasterize  *Program
	ToImage    *Program
	Visibility gpucore.BufferDesc
	Image      gpucore.TextureDesc
}

// NewRasterizer builds the rasterizer programs. Zero option fields take
// their defaults. Construction cannot fail; the programs are checked when
// they are validated or compiled.
func NewRasterizer(label string, opts RasterizerOptions) *Rasterizer {
	opts = opts.withDefaults()
	grid := opts.GridSize()

	r := &Rasterizer{
		Options: opts,
		Rasterize: &Program{
			Label:      label + "/" + RasterizeEntryPoint,
			EntryPoint: RasterizeEntryPoint,
			Workgroup:  [3]uint32{opts.WorkgroupSize, 1, 1},
			Source: render("rasterize.wgsl.tmpl", map[string]any{
				"EntryPoint":    RasterizeEntryPoint,
				"WorkgroupSize": opts.WorkgroupSize,
			}),
			Layout: gpucore.BindGroupLayoutDesc{
				Label: label + "/" + RasterizeEntryPoint,
				Entries: []gpucore.BindGroupLayoutEntry{
					{Binding: 0, Name: "indices", Type: gpucore.BindingTypeReadOnlyStorageBuffer, MinBindingSize: 3 * IndexSize},
					{Binding: 1, Name: "vertices", Type: gpucore.BindingTypeReadOnlyStorageBuffer, MinBindingSize: VertexStride},
					{Binding: 2, Name: "visibility", Type: gpucore.BindingTypeStorageBuffer, MinBindingSize: VisibilityCellSize},
				},
			},
		},
		ToImage: &Program{
			Label:      label + "/" + ToImageEntryPoint,
			EntryPoint: ToImageEntryPoint,
			Workgroup:  [3]uint32{ImageTileSize, ImageTileSize, 1},
			Source: render("to_image.wgsl.tmpl", map[string]any{
				"EntryPoint": ToImageEntryPoint,
				"TileSize":   ImageTileSize,
				"Format":     opts.Format.WGSL(),
			}),
			Layout: gpucore.BindGroupLayoutDesc{
				Label: label + "/" + ToImageEntryPoint,
				Entries: []gpucore.BindGroupLayoutEntry{
					{Binding: 0, Name: "visibility", Type: gpucore.BindingTypeReadOnlyStorageBuffer, MinBindingSize: VisibilityCellSize},
					{Binding: 1, Name: "output", Type: gpucore.BindingTypeStorageTexture, Format: opts.Format},
				},
			},
		},
		Visibility: gpucore.BufferDesc{
			Label: label + "/visibility",
			Size:  uint64(grid) * uint64(grid) * VisibilityCellSize,
			Usage: gpucore.BufferUsageStorage | gpucore.BufferUsageCopyDst | gpucore.BufferUsageCopySrc,
		},
		Image: gpucore.TextureDesc{
			Label:         label + "/image",
			Width:         grid,
			Height:        grid,
			MipLevelCount: opts.MipLevels(),
			Format:        opts.Format,
			Usage:         gpucore.TextureUsageStorageBinding | gpucore.TextureUsageTextureBinding | gpucore.TextureUsageCopySrc,
		},
	}
	slogger().Debug("codegen: rasterizer built",
		"label", label,
		"grid", grid,
		"workgroup", opts.WorkgroupSize,
		"mips", opts.MipLevels(),
	)
	return r
}

// Programs returns the programs in execution order.
func (r *Rasterizer) Programs() []*Program {
	return []*Program{r.Rasterize, r.ToImage}
}

// RasterizeDispatch returns the workgroup counts for a mesh of triangles.
func (r *Rasterizer) RasterizeDispatch(triangles uint32) [3]uint32 {
	d := r.Rasterize.Pipeline()
	return d.Dispatch(triangles, 1, 1)
}

// ToImageDispatch returns the workgroup counts covering the visibility grid.
func (r *Rasterizer) ToImageDispatch() [3]uint32 {
	grid := r.Options.GridSize()
	d := r.ToImage.Pipeline()
	return d.Dispatch(grid, grid, 1)
}

func render(name string, data map[string]any) string {
	var b strings.Builder
	if err := shaderTemplates.ExecuteTemplate(&b, name, data); err != nil {
		// Templates are embedded and their data is fixed by this package.
		panic("codegen: " + err.Error())
	}
	return b.String()
}
