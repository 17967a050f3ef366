package gpucore

import "github.com/gogpu/gputypes"

// GPUType converts the entry to a gputypes entry visible to compute shaders.
func (e BindGroupLayoutEntry) GPUType() gputypes.BindGroupLayoutEntry {
	result := gputypes.BindGroupLayoutEntry{
		Binding:    e.Binding,
		Visibility: gputypes.ShaderStageCompute,
	}

	switch e.Type {
	case BindingTypeUniformBuffer:
		result.Buffer = &gputypes.BufferBindingLayout{
			Type:           gputypes.BufferBindingTypeUniform,
			MinBindingSize: e.MinBindingSize,
		}
	case BindingTypeStorageBuffer:
		result.Buffer = &gputypes.BufferBindingLayout{
			Type:           gputypes.BufferBindingTypeStorage,
			MinBindingSize: e.MinBindingSize,
		}
	case BindingTypeReadOnlyStorageBuffer:
		result.Buffer = &gputypes.BufferBindingLayout{
			Type:           gputypes.BufferBindingTypeReadOnlyStorage,
			MinBindingSize: e.MinBindingSize,
		}
	case BindingTypeSampler:
		result.Sampler = &gputypes.SamplerBindingLayout{
			Type: gputypes.SamplerBindingTypeFiltering,
		}
	case BindingTypeSampledTexture:
		result.Texture = &gputypes.TextureBindingLayout{
			SampleType:    gputypes.TextureSampleTypeFloat,
			ViewDimension: gputypes.TextureViewDimension2D,
		}
	case BindingTypeStorageTexture:
		result.StorageTexture = &gputypes.StorageTextureBindingLayout{
			Access:        gputypes.StorageTextureAccessWriteOnly,
			Format:        e.Format.GPUType(),
			ViewDimension: gputypes.TextureViewDimension2D,
		}
	}

	return result
}

// GPUEntries converts every entry of the layout.
func (d *BindGroupLayoutDesc) GPUEntries() []gputypes.BindGroupLayoutEntry {
	entries := make([]gputypes.BindGroupLayoutEntry, len(d.Entries))
	for i, e := range d.Entries {
		entries[i] = e.GPUType()
	}
	return entries
}

// GPUType converts the format to its gputypes equivalent.
func (f TextureFormat) GPUType() gputypes.TextureFormat {
	switch f {
	case TextureFormatR32Float:
		return gputypes.TextureFormatR32Float
	case TextureFormatRG32Float:
		return gputypes.TextureFormatRG32Float
	case TextureFormatRGBA32Float:
		return gputypes.TextureFormatRGBA32Float
	default:
		return gputypes.TextureFormatUndefined
	}
}

// GPUType converts the usage flags to their gputypes equivalent.
func (u BufferUsage) GPUType() gputypes.BufferUsage {
	var out gputypes.BufferUsage
	flags := []struct {
		from BufferUsage
		to   gputypes.BufferUsage
	}{
		{BufferUsageMapRead, gputypes.BufferUsageMapRead},
		{BufferUsageMapWrite, gputypes.BufferUsageMapWrite},
		{BufferUsageCopySrc, gputypes.BufferUsageCopySrc},
		{BufferUsageCopyDst, gputypes.BufferUsageCopyDst},
		{BufferUsageUniform, gputypes.BufferUsageUniform},
		{BufferUsageStorage, gputypes.BufferUsageStorage},
		{BufferUsageIndirect, gputypes.BufferUsageIndirect},
	}
	for _, f := range flags {
		if u&f.from != 0 {
			out |= f.to
		}
	}
	return out
}

// GPUType converts the usage flags to their gputypes equivalent.
func (u TextureUsage) GPUType() gputypes.TextureUsage {
	var out gputypes.TextureUsage
	if u&TextureUsageCopySrc != 0 {
		out |= gputypes.TextureUsageCopySrc
	}
	if u&TextureUsageCopyDst != 0 {
		out |= gputypes.TextureUsageCopyDst
	}
	if u&TextureUsageTextureBinding != 0 {
		out |= gputypes.TextureUsageTextureBinding
	}
	if u&TextureUsageStorageBinding != 0 {
		out |= gputypes.TextureUsageStorageBinding
	}
	return out
}
