package gpucore

// BufferUsage is a bitmask specifying how a buffer will be used.
type BufferUsage uint32

// Buffer usage flags.
const (
	// BufferUsageMapRead indicates the buffer can be mapped for reading.
	BufferUsageMapRead BufferUsage = 1 << 0

	// BufferUsageMapWrite indicates the buffer can be mapped for writing.
	BufferUsageMapWrite BufferUsage = 1 << 1

	// BufferUsageCopySrc indicates the buffer can be used as a copy source.
	BufferUsageCopySrc BufferUsage = 1 << 2

	// BufferUsageCopyDst indicates the buffer can be used as a copy destination.
	BufferUsageCopyDst BufferUsage = 1 << 3

	// BufferUsageUniform indicates the buffer can be used as a uniform buffer.
	BufferUsageUniform BufferUsage = 1 << 6

	// BufferUsageStorage indicates the buffer can be used as a storage buffer.
	BufferUsageStorage BufferUsage = 1 << 7

	// BufferUsageIndirect indicates the buffer can be used for indirect dispatch.
	BufferUsageIndirect BufferUsage = 1 << 8
)

// TextureFormat specifies the format of texture data.
//
// Only 32-bit float formats are provided: rasterizer images store triangle
// indices as texel values, and a normalized format would clamp every index
// above zero to 1.0.
type TextureFormat uint32

// Texture formats.
const (
	// TextureFormatR32Float is 32-bit red channel only, floating point.
	TextureFormatR32Float TextureFormat = iota + 1

	// TextureFormatRG32Float is 32-bit RG, floating point.
	TextureFormatRG32Float

	// TextureFormatRGBA32Float is 32-bit RGBA, floating point.
	TextureFormatRGBA32Float
)

// Valid reports whether f is one of the declared formats.
func (f TextureFormat) Valid() bool {
	return f >= TextureFormatR32Float && f <= TextureFormatRGBA32Float
}

// WGSL returns the storage texel format name used in WGSL declarations.
func (f TextureFormat) WGSL() string {
	switch f {
	case TextureFormatR32Float:
		return "r32float"
	case TextureFormatRG32Float:
		return "rg32float"
	default:
		return "rgba32float"
	}
}

// TextureUsage is a bitmask specifying how a texture will be used.
type TextureUsage uint32

// Texture usage flags.
const (
	// TextureUsageCopySrc indicates the texture can be used as a copy source.
	TextureUsageCopySrc TextureUsage = 1 << 0

	// TextureUsageCopyDst indicates the texture can be used as a copy destination.
	TextureUsageCopyDst TextureUsage = 1 << 1

	// TextureUsageTextureBinding indicates the texture can be bound as a sampled texture.
	TextureUsageTextureBinding TextureUsage = 1 << 2

	// TextureUsageStorageBinding indicates the texture can be bound as a storage texture.
	TextureUsageStorageBinding TextureUsage = 1 << 3
)

// BindingType specifies the type of a shader binding.
type BindingType uint32

// Binding types.
const (
	// BindingTypeUniformBuffer is a uniform buffer binding.
	BindingTypeUniformBuffer BindingType = iota + 1

	// BindingTypeStorageBuffer is a storage buffer binding (read-write).
	BindingTypeStorageBuffer

	// BindingTypeReadOnlyStorageBuffer is a read-only storage buffer binding.
	BindingTypeReadOnlyStorageBuffer

	// BindingTypeSampler is a texture sampler binding.
	BindingTypeSampler

	// BindingTypeSampledTexture is a sampled texture binding.
	BindingTypeSampledTexture

	// BindingTypeStorageTexture is a write-only storage texture binding.
	BindingTypeStorageTexture
)

// String returns the binding type name.
func (t BindingType) String() string {
	switch t {
	case BindingTypeUniformBuffer:
		return "uniform"
	case BindingTypeStorageBuffer:
		return "storage"
	case BindingTypeReadOnlyStorageBuffer:
		return "storage(read)"
	case BindingTypeSampler:
		return "sampler"
	case BindingTypeSampledTexture:
		return "texture"
	case BindingTypeStorageTexture:
		return "storage_texture"
	default:
		return "unknown"
	}
}

// IsBuffer reports whether the binding holds a buffer.
func (t BindingType) IsBuffer() bool {
	return t == BindingTypeUniformBuffer || t == BindingTypeStorageBuffer || t == BindingTypeReadOnlyStorageBuffer
}

// BindGroupLayoutEntry describes a single binding in a bind group layout.
type BindGroupLayoutEntry struct {
	// Binding is the binding index.
	Binding uint32

	// Name is the variable name the shader declares at this binding.
	Name string

	// Type is the type of resource bound at this index.
	Type BindingType

	// MinBindingSize is the minimum buffer size for buffer bindings.
	// Set to 0 for non-buffer bindings.
	MinBindingSize uint64

	// Format is the texel format of storage texture bindings.
	Format TextureFormat
}

// BindGroupLayoutDesc describes a bind group layout.
type BindGroupLayoutDesc struct {
	// Label is an optional debug label.
	Label string

	// Group is the bind group index (@group in WGSL).
	Group uint32

	// Entries defines the bindings in this layout.
	Entries []BindGroupLayoutEntry
}

// Entry returns the entry at binding, if present.
func (d *BindGroupLayoutDesc) Entry(binding uint32) (BindGroupLayoutEntry, bool) {
	for _, e := range d.Entries {
		if e.Binding == binding {
			return e, true
		}
	}
	return BindGroupLayoutEntry{}, false
}

// BufferDesc describes a buffer a program needs allocated.
type BufferDesc struct {
	// Label is an optional debug label.
	Label string

	// Size is the buffer size in bytes.
	Size uint64

	// Usage specifies how the buffer will be used.
	Usage BufferUsage
}

// TextureDesc describes a 2D texture a program writes.
type TextureDesc struct {
	// Label is an optional debug label.
	Label string

	// Width and Height are the texture extent in texels.
	Width, Height uint32

	// MipLevelCount is the number of mip levels, at least 1.
	MipLevelCount uint32

	// Format is the texel format.
	Format TextureFormat

	// Usage specifies how the texture will be used.
	Usage TextureUsage
}
