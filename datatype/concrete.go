package datatype

import "fmt"

// CompositeSize is the vector width of a value.
type CompositeSize uint8

// Composite sizes.
const (
	S1 CompositeSize = iota + 1
	S2
	S3
	S4
)

// CompositeSizes lists every composite size in ascending order.
var CompositeSizes = [...]CompositeSize{S1, S2, S3, S4}

// Components returns the number of vector components.
func (s CompositeSize) Components() int { return int(s) }

// String returns "S1".."S4".
func (s CompositeSize) String() string {
	if s < S1 || s > S4 {
		return fmt.Sprintf("CompositeSize(%d)", uint8(s))
	}
	return fmt.Sprintf("S%d", uint8(s))
}

// Dimensionality is the spatial dimensionality of a field or texture.
type Dimensionality uint8

// Dimensionalities.
const (
	D1 Dimensionality = iota + 1
	D2
	D3
	D4
)

// Dimensionalities lists every dimensionality in ascending order.
var Dimensionalities = [...]Dimensionality{D1, D2, D3, D4}

// String returns "D1".."D4".
func (d Dimensionality) String() string {
	if d < D1 || d > D4 {
		return fmt.Sprintf("Dimensionality(%d)", uint8(d))
	}
	return fmt.Sprintf("D%d", uint8(d))
}

// ConcreteKind identifies the variant of a [Concrete] type.
type ConcreteKind uint8

// Concrete kinds.
const (
	KindFloat ConcreteKind = iota + 1
	KindInt
	KindBool
	KindTexture
	KindProceduralField
	KindSlabMaterial
)

// String returns the kind name.
func (k ConcreteKind) String() string {
	switch k {
	case KindFloat:
		return "Float"
	case KindInt:
		return "Int"
	case KindBool:
		return "Bool"
	case KindTexture:
		return "Texture"
	case KindProceduralField:
		return "ProceduralField"
	case KindSlabMaterial:
		return "SlabMaterial"
	default:
		return fmt.Sprintf("ConcreteKind(%d)", uint8(k))
	}
}

// Concrete is a fully resolved GPU value type.
//
// Concrete is comparable and is used directly as a map key and as a solver
// value. Size is meaningful for Float, Texture and ProceduralField; Dim for
// Texture and ProceduralField. Use the constructors rather than composite
// literals so unused fields stay zero.
type Concrete struct {
	Kind ConcreteKind
	Dim  Dimensionality
	Size CompositeSize
}

// Float returns a float vector of the given width.
func Float(size CompositeSize) Concrete { return Concrete{Kind: KindFloat, Size: size} }

// Int returns the scalar integer type.
func Int() Concrete { return Concrete{Kind: KindInt} }

// Bool returns the scalar boolean type.
func Bool() Concrete { return Concrete{Kind: KindBool} }

// Texture returns a sampled texture of the given dimensionality and width.
func Texture(dim Dimensionality, size CompositeSize) Concrete {
	return Concrete{Kind: KindTexture, Dim: dim, Size: size}
}

// ProceduralField returns a procedurally evaluated field.
func ProceduralField(dim Dimensionality, size CompositeSize) Concrete {
	return Concrete{Kind: KindProceduralField, Dim: dim, Size: size}
}

// SlabMaterial returns the layered material type consumed by the output node.
func SlabMaterial() Concrete { return Concrete{Kind: KindSlabMaterial} }

// CompositeSize returns the vector width of the type. Scalars report S1.
// SlabMaterial has no composite size.
func (c Concrete) CompositeSize() (CompositeSize, bool) {
	switch c.Kind {
	case KindFloat, KindTexture, KindProceduralField:
		return c.Size, true
	case KindInt, KindBool:
		return S1, true
	default:
		return 0, false
	}
}

// Dimensionality returns the spatial dimensionality of textures and fields.
func (c Concrete) Dimensionality() (Dimensionality, bool) {
	switch c.Kind {
	case KindTexture, KindProceduralField:
		return c.Dim, true
	default:
		return 0, false
	}
}

// Rank is always 0: concrete types are never ordered against each other.
func (c Concrete) Rank() int { return 0 }

// IsField reports whether the type is a texture or procedural field.
func (c Concrete) IsField() bool {
	return c.Kind == KindTexture || c.Kind == KindProceduralField
}

// String formats the type, e.g. "Float(S3)" or "Texture(D2,S4)".
func (c Concrete) String() string {
	switch c.Kind {
	case KindFloat:
		return fmt.Sprintf("Float(%s)", c.Size)
	case KindTexture, KindProceduralField:
		return fmt.Sprintf("%s(%s,%s)", c.Kind, c.Dim, c.Size)
	default:
		return c.Kind.String()
	}
}

// WGSL returns the WGSL spelling of value types. Fields and materials have no
// direct WGSL value type and return "".
func (c Concrete) WGSL() string {
	switch c.Kind {
	case KindFloat:
		if c.Size == S1 {
			return "f32"
		}
		return fmt.Sprintf("vec%d<f32>", c.Size.Components())
	case KindInt:
		return "i32"
	case KindBool:
		return "bool"
	default:
		return ""
	}
}

// floats enumerates Float(S1)..Float(S4).
func floats() []Concrete {
	out := make([]Concrete, 0, len(CompositeSizes))
	for _, s := range CompositeSizes {
		out = append(out, Float(s))
	}
	return out
}

// fields enumerates every dim x size combination of one field kind,
// optionally restricted to a single dimensionality or composite size.
func fields(kind ConcreteKind, dim Dimensionality, size CompositeSize) []Concrete {
	var out []Concrete
	for _, d := range Dimensionalities {
		if dim != 0 && d != dim {
			continue
		}
		for _, s := range CompositeSizes {
			if size != 0 && s != size {
				continue
			}
			out = append(out, Concrete{Kind: kind, Dim: d, Size: s})
		}
	}
	return out
}

// AllConcrete enumerates every concrete type in canonical order:
// floats, Int, Bool, textures, procedural fields, SlabMaterial.
func AllConcrete() []Concrete {
	out := floats()
	out = append(out, Int(), Bool())
	out = append(out, fields(KindTexture, 0, 0)...)
	out = append(out, fields(KindProceduralField, 0, 0)...)
	return append(out, SlabMaterial())
}
