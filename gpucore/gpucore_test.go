package gpucore

import (
	"testing"

	"github.com/gogpu/gputypes"
)

func TestBindGroupLayoutEntryGPUType(t *testing.T) {
	tests := []struct {
		name  string
		entry BindGroupLayoutEntry
		check func(t *testing.T, e gputypes.BindGroupLayoutEntry)
	}{
		{
			name:  "read-only storage",
			entry: BindGroupLayoutEntry{Binding: 1, Type: BindingTypeReadOnlyStorageBuffer, MinBindingSize: 16},
			check: func(t *testing.T, e gputypes.BindGroupLayoutEntry) {
				if e.Buffer == nil || e.Buffer.Type != gputypes.BufferBindingTypeReadOnlyStorage {
					t.Fatalf("Buffer = %+v, want read-only storage", e.Buffer)
				}
				if e.Buffer.MinBindingSize != 16 {
					t.Errorf("MinBindingSize = %d, want 16", e.Buffer.MinBindingSize)
				}
			},
		},
		{
			name:  "storage",
			entry: BindGroupLayoutEntry{Binding: 2, Type: BindingTypeStorageBuffer},
			check: func(t *testing.T, e gputypes.BindGroupLayoutEntry) {
				if e.Buffer == nil || e.Buffer.Type != gputypes.BufferBindingTypeStorage {
					t.Fatalf("Buffer = %+v, want storage", e.Buffer)
				}
			},
		},
		{
			name:  "storage texture",
			entry: BindGroupLayoutEntry{Binding: 3, Type: BindingTypeStorageTexture, Format: TextureFormatRGBA32Float},
			check: func(t *testing.T, e gputypes.BindGroupLayoutEntry) {
				if e.Buffer != nil {
					t.Error("storage texture carries a buffer layout")
				}
				st := e.StorageTexture
				if st == nil {
					t.Fatal("StorageTexture is nil")
				}
				if st.Access != gputypes.StorageTextureAccessWriteOnly {
					t.Errorf("Access = %v, want write-only", st.Access)
				}
				if st.Format != gputypes.TextureFormatRGBA32Float {
					t.Errorf("Format = %v, want RGBA32Float", st.Format)
				}
			},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			e := tt.entry.GPUType()
			if e.Binding != tt.entry.Binding {
				t.Errorf("Binding = %d, want %d", e.Binding, tt.entry.Binding)
			}
			if e.Visibility != gputypes.ShaderStageCompute {
				t.Errorf("Visibility = %v, want compute", e.Visibility)
			}
			tt.check(t, e)
		})
	}
}

func TestUsageGPUType(t *testing.T) {
	b := (BufferUsageStorage | BufferUsageCopySrc).GPUType()
	if b != gputypes.BufferUsageStorage|gputypes.BufferUsageCopySrc {
		t.Errorf("buffer usage = %v", b)
	}
	tx := (TextureUsageStorageBinding | TextureUsageTextureBinding).GPUType()
	if tx != gputypes.TextureUsageStorageBinding|gputypes.TextureUsageTextureBinding {
		t.Errorf("texture usage = %v", tx)
	}
}

func TestComputePipelineDescValidate(t *testing.T) {
	valid := ComputePipelineDesc{
		Label:      "test",
		EntryPoint: "main",
		Workgroup:  [3]uint32{8, 8, 1},
		Layout: BindGroupLayoutDesc{Entries: []BindGroupLayoutEntry{
			{Binding: 0, Type: BindingTypeReadOnlyStorageBuffer},
			{Binding: 1, Type: BindingTypeStorageTexture, Format: TextureFormatR32Float},
		}},
	}
	if err := valid.Validate(); err != nil {
		t.Fatalf("Validate() = %v", err)
	}

	dup := valid
	dup.Layout.Entries = append([]BindGroupLayoutEntry{{Binding: 1, Type: BindingTypeStorageBuffer}}, valid.Layout.Entries...)
	if err := dup.Validate(); err == nil {
		t.Error("duplicate binding accepted")
	}

	zero := valid
	zero.Workgroup = [3]uint32{64, 0, 1}
	if err := zero.Validate(); err == nil {
		t.Error("zero workgroup dimension accepted")
	}
}

func TestDispatch(t *testing.T) {
	d := ComputePipelineDesc{Workgroup: [3]uint32{8, 8, 1}}
	if got := d.Dispatch(17, 8, 1); got != [3]uint32{3, 1, 1} {
		t.Errorf("Dispatch(17, 8, 1) = %v, want [3 1 1]", got)
	}
	if got := WorkgroupCount(0, 64); got != 0 {
		t.Errorf("WorkgroupCount(0, 64) = %d, want 0", got)
	}
	if got := WorkgroupCount(5, 0); got != 0 {
		t.Errorf("WorkgroupCount(5, 0) = %d, want 0", got)
	}
}

func TestTextureFormats(t *testing.T) {
	tests := []struct {
		format TextureFormat
		valid  bool
		wgsl   string
		gpu    gputypes.TextureFormat
	}{
		{TextureFormatR32Float, true, "r32float", gputypes.TextureFormatR32Float},
		{TextureFormatRG32Float, true, "rg32float", gputypes.TextureFormatRG32Float},
		{TextureFormatRGBA32Float, true, "rgba32float", gputypes.TextureFormatRGBA32Float},
		{0, false, "rgba32float", gputypes.TextureFormatUndefined},
		{TextureFormatRGBA32Float + 1, false, "rgba32float", gputypes.TextureFormatUndefined},
	}
	for _, tt := range tests {
		if got := tt.format.Valid(); got != tt.valid {
			t.Errorf("%d.Valid() = %v, want %v", tt.format, got, tt.valid)
		}
		if got := tt.format.WGSL(); got != tt.wgsl {
			t.Errorf("%d.WGSL() = %q, want %q", tt.format, got, tt.wgsl)
		}
		if got := tt.format.GPUType(); got != tt.gpu {
			t.Errorf("%d.GPUType() = %v, want %v", tt.format, got, tt.gpu)
		}
	}
}
