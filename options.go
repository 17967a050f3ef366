package shadergraph

import (
	"github.com/gogpu/shadergraph/cache"
	"github.com/gogpu/shadergraph/codegen"
	"github.com/gogpu/shadergraph/gpucore"
	"github.com/gogpu/shadergraph/graph"
)

// Option configures Compile.
//
// Example:
//
//	out, err := shadergraph.Compile(g,
//	    shadergraph.WithOutputSize(1024),
//	    shadergraph.WithBaseSizeMultiplier(2),
//	)
type Option func(*options)

type options struct {
	raster   codegen.RasterizerOptions
	retain   []graph.ID
	validate bool
	cache    *cache.ShaderCache
}

func defaultOptions() options {
	return options{
		raster:   codegen.DefaultRasterizerOptions(),
		validate: true,
	}
}

// WithOutputSize sets the edge of the square images rasterizer stages
// produce. The default is 512.
func WithOutputSize(size uint32) Option {
	return func(o *options) {
		o.raster.OutputSize = size
	}
}

// WithBaseSizeMultiplier scales the visibility buffer relative to the output
// size, trading memory for fewer missed texels on thin triangles. The
// default is 1.
func WithBaseSizeMultiplier(m uint32) Option {
	return func(o *options) {
		o.raster.BaseSizeMultiplier = m
	}
}

// WithMipMaps requests mip chains on rasterizer images.
func WithMipMaps(enabled bool) Option {
	return func(o *options) {
		o.raster.GenerateMipMaps = enabled
	}
}

// WithWorkgroupSize sets the triangles per rasterize workgroup. The default
// is 64.
func WithWorkgroupSize(n uint32) Option {
	return func(o *options) {
		o.raster.WorkgroupSize = n
	}
}

// WithImageFormat sets the texel format of rasterizer images. Only the
// 32-bit float formats of gpucore are accepted, since texels hold triangle
// indices; anything else keeps the default, gpucore.TextureFormatRGBA32Float.
func WithImageFormat(f gpucore.TextureFormat) Option {
	return func(o *options) {
		o.raster.Format = f
	}
}

// WithRetainedSubgraphs keeps only the root subgraph and the given
// subgraphs. Nodes that belong to none of them are pruned before typing.
// Without this option every node reachable from the root is kept.
func WithRetainedSubgraphs(ids ...graph.ID) Option {
	return func(o *options) {
		o.retain = append(o.retain, ids...)
	}
}

// WithValidation controls whether generated programs are run through naga's
// validator during Compile. It is on by default.
func WithValidation(enabled bool) Option {
	return func(o *options) {
		o.validate = enabled
	}
}

// WithCache shares a compiled-shader cache between compiles. Programs with
// identical source then compile to SPIR-V once.
func WithCache(c *cache.ShaderCache) Option {
	return func(o *options) {
		o.cache = c
	}
}
