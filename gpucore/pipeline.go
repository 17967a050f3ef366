package gpucore

import "fmt"

// ComputePipelineDesc describes a compute pipeline built from a generated
// program.
type ComputePipelineDesc struct {
	// Label is an optional debug label.
	Label string

	// EntryPoint is the name of the shader entry point function.
	EntryPoint string

	// Workgroup is the @workgroup_size of the entry point.
	Workgroup [3]uint32

	// Layout is the single bind group the program uses.
	Layout BindGroupLayoutDesc
}

// Validate checks that the description can be turned into a pipeline.
func (d *ComputePipelineDesc) Validate() error {
	if d.EntryPoint == "" {
		return fmt.Errorf("gpucore: %s: entry point is required", d.Label)
	}
	for i, n := range d.Workgroup {
		if n == 0 {
			return fmt.Errorf("gpucore: %s: workgroup size %d is zero", d.Label, i)
		}
	}
	seen := make(map[uint32]bool, len(d.Layout.Entries))
	for _, e := range d.Layout.Entries {
		if seen[e.Binding] {
			return fmt.Errorf("gpucore: %s: duplicate binding %d", d.Label, e.Binding)
		}
		seen[e.Binding] = true
		if e.Type == BindingTypeStorageTexture && e.Format == 0 {
			return fmt.Errorf("gpucore: %s: storage texture %q has no format", d.Label, e.Name)
		}
	}
	return nil
}

// WorkgroupCount returns the number of workgroups covering items
// invocations of size each.
func WorkgroupCount(items, size uint32) uint32 {
	if size == 0 {
		return 0
	}
	return (items + size - 1) / size
}

// Dispatch returns the workgroup counts covering an x*y*z invocation grid.
func (d *ComputePipelineDesc) Dispatch(x, y, z uint32) [3]uint32 {
	return [3]uint32{
		WorkgroupCount(x, d.Workgroup[0]),
		WorkgroupCount(y, d.Workgroup[1]),
		WorkgroupCount(z, d.Workgroup[2]),
	}
}
