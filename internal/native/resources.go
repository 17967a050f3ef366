package native

import "github.com/gogpu/wgpu/hal"

// Resources collects the HAL objects created for a set of programs so they
// can be released together, including after a partial failure.
type Resources struct {
	Device          hal.Device
	ShaderModules   []hal.ShaderModule
	BindLayouts     []hal.BindGroupLayout
	PipelineLayouts []hal.PipelineLayout
	Pipelines       []hal.ComputePipeline
}

// Destroy releases everything in reverse creation order: pipelines, then
// pipeline layouts, bind group layouts and shader modules. Destroy is safe
// to call more than once.
func (r *Resources) Destroy() {
	if r.Device == nil {
		return
	}
	for _, p := range r.Pipelines {
		if p != nil {
			r.Device.DestroyComputePipeline(p)
		}
	}
	for _, l := range r.PipelineLayouts {
		if l != nil {
			r.Device.DestroyPipelineLayout(l)
		}
	}
	for _, l := range r.BindLayouts {
		if l != nil {
			r.Device.DestroyBindGroupLayout(l)
		}
	}
	for _, m := range r.ShaderModules {
		if m != nil {
			r.Device.DestroyShaderModule(m)
		}
	}
	r.Pipelines = nil
	r.PipelineLayouts = nil
	r.BindLayouts = nil
	r.ShaderModules = nil
}

// Len returns the number of live objects.
func (r *Resources) Len() int {
	return len(r.ShaderModules) + len(r.BindLayouts) + len(r.PipelineLayouts) + len(r.Pipelines)
}
