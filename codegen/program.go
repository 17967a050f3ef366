package codegen

import (
	"errors"
	"fmt"

	"github.com/gogpu/naga"
	"github.com/gogpu/naga/glsl"
	"github.com/gogpu/naga/hlsl"
	"github.com/gogpu/naga/ir"
	"github.com/gogpu/naga/msl"
	"github.com/gogpu/naga/spirv"

	"github.com/gogpu/shadergraph/cache"
	"github.com/gogpu/shadergraph/gpucore"
)

// ErrInvalidProgram is returned when a generated program does not survive
// lowering or validation.
var ErrInvalidProgram = errors.New("codegen: invalid program")

// Target selects a source language for Translate.
type Target uint8

// Translation targets.
const (
	TargetMSL Target = iota
	TargetGLSL
	TargetHLSL
)

func (t Target) String() string {
	switch t {
	case TargetMSL:
		return "msl"
	case TargetGLSL:
		return "glsl"
	case TargetHLSL:
		return "hlsl"
	default:
		return fmt.Sprintf("Target(%d)", uint8(t))
	}
}

// Program is a generated compute program: WGSL source, its single entry
// point, and the bind group layout it expects.
type Program struct {
	Label      string
	EntryPoint string
	Workgroup  [3]uint32
	Source     string
	Layout     gpucore.BindGroupLayoutDesc
}

// Pipeline describes the compute pipeline that runs the program.
func (p *Program) Pipeline() gpucore.ComputePipelineDesc {
	return gpucore.ComputePipelineDesc{
		Label:      p.Label,
		EntryPoint: p.EntryPoint,
		Workgroup:  p.Workgroup,
		Layout:     p.Layout,
	}
}

// Module parses and lowers the program to naga IR.
func (p *Program) Module() (*ir.Module, error) {
	ast, err := naga.Parse(p.Source)
	if err != nil {
		return nil, fmt.Errorf("%w: %s: %w", ErrInvalidProgram, p.Label, err)
	}
	m, err := naga.LowerWithSource(ast, p.Source)
	if err != nil {
		return nil, fmt.Errorf("%w: %s: lowering: %w", ErrInvalidProgram, p.Label, err)
	}
	return m, nil
}

// Validate lowers the program, runs naga's validator and checks that the
// module agrees with the program description: a compute entry point of the
// right name and workgroup size, and a global for every layout entry.
func (p *Program) Validate() error {
	m, err := p.Module()
	if err != nil {
		return err
	}
	return p.validate(m)
}

func (p *Program) validate(m *ir.Module) error {
	errs, err := naga.Validate(m)
	if err != nil {
		return fmt.Errorf("%w: %s: %w", ErrInvalidProgram, p.Label, err)
	}
	if len(errs) > 0 {
		return fmt.Errorf("%w: %s: %w", ErrInvalidProgram, p.Label, errs[0])
	}

	var ep *ir.EntryPoint
	for i := range m.EntryPoints {
		if m.EntryPoints[i].Name == p.EntryPoint {
			ep = &m.EntryPoints[i]
		}
	}
	switch {
	case ep == nil:
		return fmt.Errorf("%w: %s: no entry point %q", ErrInvalidProgram, p.Label, p.EntryPoint)
	case ep.Stage != ir.StageCompute:
		return fmt.Errorf("%w: %s: entry point %q is not a compute shader", ErrInvalidProgram, p.Label, p.EntryPoint)
	case ep.Workgroup != p.Workgroup:
		return fmt.Errorf("%w: %s: workgroup %v, declared %v", ErrInvalidProgram, p.Label, ep.Workgroup, p.Workgroup)
	}

	for _, e := range p.Layout.Entries {
		if !hasBinding(m, p.Layout.Group, e) {
			return fmt.Errorf("%w: %s: no global %q at @group(%d) @binding(%d)",
				ErrInvalidProgram, p.Label, e.Name, p.Layout.Group, e.Binding)
		}
	}
	return nil
}

func hasBinding(m *ir.Module, group uint32, e gpucore.BindGroupLayoutEntry) bool {
	for _, g := range m.GlobalVariables {
		if g.Binding == nil || g.Binding.Group != group || g.Binding.Binding != e.Binding {
			continue
		}
		if g.Name != e.Name {
			return false
		}
		if e.Type.IsBuffer() {
			return g.Space == ir.SpaceStorage || g.Space == ir.SpaceUniform
		}
		return g.Space == ir.SpaceHandle
	}
	return false
}

// spirvTarget names the cached SPIR-V flavour.
const spirvTarget = "spirv-1.3"

// SPIRV compiles the program to a SPIR-V binary. When c is non-nil, results
// are cached by source, so identical programs across stages compile once.
func (p *Program) SPIRV(c *cache.ShaderCache) ([]byte, error) {
	if c == nil {
		return p.compileSPIRV()
	}
	return c.GetOrCompute(p.CacheKey(), p.compileSPIRV)
}

// CacheKey is the key SPIRV stores the program's binary under.
func (p *Program) CacheKey() string {
	return cache.ShaderKey(spirvTarget, p.Source)
}

func (p *Program) compileSPIRV() ([]byte, error) {
	m, err := p.Module()
	if err != nil {
		return nil, err
	}
	if err := p.validate(m); err != nil {
		return nil, err
	}
	out, err := naga.GenerateSPIRV(m, spirv.Options{Version: spirv.Version1_3})
	if err != nil {
		return nil, fmt.Errorf("%w: %s: %w", ErrInvalidProgram, p.Label, err)
	}
	slogger().Debug("codegen: compiled program",
		"label", p.Label,
		"entry", p.EntryPoint,
		"wgsl_bytes", len(p.Source),
		"spirv_bytes", len(out),
	)
	return out, nil
}

// Translate cross-compiles the program to another shading language.
func (p *Program) Translate(target Target) (string, error) {
	m, err := p.Module()
	if err != nil {
		return "", err
	}

	var (
		src  string
		terr error
	)
	switch target {
	case TargetMSL:
		src, _, terr = msl.Compile(m, msl.DefaultOptions())
	case TargetGLSL:
		opts := glsl.DefaultOptions()
		opts.LangVersion = glsl.Version430
		opts.EntryPoint = p.EntryPoint
		src, _, terr = glsl.Compile(m, opts)
	case TargetHLSL:
		src, _, terr = hlsl.Compile(m, hlsl.DefaultOptions())
	default:
		return "", fmt.Errorf("codegen: unknown target %s", target)
	}
	if terr != nil {
		return "", fmt.Errorf("codegen: %s to %s: %w", p.Label, target, terr)
	}
	return src, nil
}
