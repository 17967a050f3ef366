package datatype

import (
	"fmt"
	"slices"
)

// AbstractKind identifies the variant of an [Abstract] type.
type AbstractKind uint8

// Abstract kinds, from least to most specific.
const (
	KindAny AbstractKind = iota + 1
	KindAnyMaterial
	KindAnyValue
	KindAnyNumber
	KindAnyFloat
	KindAnyField
	KindAnyTexture
	KindAnyTextureWithDimensionality
	KindAnyTextureWithCompositeSize
	KindAnyProceduralField
	KindAnyProceduralFieldWithDimensionality
	KindAnyProceduralFieldWithCompositeSize
	KindConcreteType
)

var abstractKindNames = map[AbstractKind]string{
	KindAny:                                  "Any",
	KindAnyMaterial:                          "AnyMaterial",
	KindAnyValue:                             "AnyValue",
	KindAnyNumber:                            "AnyNumber",
	KindAnyFloat:                             "AnyFloat",
	KindAnyField:                             "AnyField",
	KindAnyTexture:                           "AnyTexture",
	KindAnyTextureWithDimensionality:         "AnyTextureWithDimensionality",
	KindAnyTextureWithCompositeSize:          "AnyTextureWithCompositeSize",
	KindAnyProceduralField:                   "AnyProceduralField",
	KindAnyProceduralFieldWithDimensionality: "AnyProceduralFieldWithDimensionality",
	KindAnyProceduralFieldWithCompositeSize:  "AnyProceduralFieldWithCompositeSize",
	KindConcreteType:                         "ConcreteType",
}

// String returns the kind name.
func (k AbstractKind) String() string {
	if name, ok := abstractKindNames[k]; ok {
		return name
	}
	return fmt.Sprintf("AbstractKind(%d)", uint8(k))
}

// Abstract is a type constraint on a port.
//
// Dim and Size parameterize the "With" kinds; Concrete is set only for
// KindConcreteType. Abstract is comparable.
type Abstract struct {
	Kind     AbstractKind
	Dim      Dimensionality
	Size     CompositeSize
	Concrete Concrete
}

// Any admits every concrete type.
func Any() Abstract { return Abstract{Kind: KindAny} }

// AnyMaterial admits anything that can be shaded onto a surface:
// float vectors, textures, procedural fields and slab materials.
func AnyMaterial() Abstract { return Abstract{Kind: KindAnyMaterial} }

// AnyValue admits scalar and vector values: floats, Int and Bool.
func AnyValue() Abstract { return Abstract{Kind: KindAnyValue} }

// AnyNumber admits float vectors and Int.
func AnyNumber() Abstract { return Abstract{Kind: KindAnyNumber} }

// AnyFloat admits float vectors of any width.
func AnyFloat() Abstract { return Abstract{Kind: KindAnyFloat} }

// AnyField admits every texture and procedural field.
func AnyField() Abstract { return Abstract{Kind: KindAnyField} }

// AnyTexture admits every texture.
func AnyTexture() Abstract { return Abstract{Kind: KindAnyTexture} }

// AnyTextureWithDimensionality admits textures of one dimensionality.
func AnyTextureWithDimensionality(d Dimensionality) Abstract {
	return Abstract{Kind: KindAnyTextureWithDimensionality, Dim: d}
}

// AnyTextureWithCompositeSize admits textures of one composite size.
func AnyTextureWithCompositeSize(s CompositeSize) Abstract {
	return Abstract{Kind: KindAnyTextureWithCompositeSize, Size: s}
}

// AnyProceduralField admits every procedural field.
func AnyProceduralField() Abstract { return Abstract{Kind: KindAnyProceduralField} }

// AnyProceduralFieldWithDimensionality admits procedural fields of one dimensionality.
func AnyProceduralFieldWithDimensionality(d Dimensionality) Abstract {
	return Abstract{Kind: KindAnyProceduralFieldWithDimensionality, Dim: d}
}

// AnyProceduralFieldWithCompositeSize admits procedural fields of one composite size.
func AnyProceduralFieldWithCompositeSize(s CompositeSize) Abstract {
	return Abstract{Kind: KindAnyProceduralFieldWithCompositeSize, Size: s}
}

// ConcreteType wraps a fully resolved type.
func ConcreteType(c Concrete) Abstract { return Abstract{Kind: KindConcreteType, Concrete: c} }

// IsConcrete reports whether a is fully resolved.
func (a Abstract) IsConcrete() bool { return a.Kind == KindConcreteType }

// ConcreteDomain enumerates the concrete types admitted by a, in canonical
// order (see [AllConcrete]).
func (a Abstract) ConcreteDomain() []Concrete {
	switch a.Kind {
	case KindAny:
		return AllConcrete()
	case KindAnyMaterial:
		out := floats()
		out = append(out, fields(KindTexture, 0, 0)...)
		out = append(out, fields(KindProceduralField, 0, 0)...)
		return append(out, SlabMaterial())
	case KindAnyValue:
		return append(floats(), Int(), Bool())
	case KindAnyNumber:
		return append(floats(), Int())
	case KindAnyFloat:
		return floats()
	case KindAnyField:
		return append(fields(KindTexture, 0, 0), fields(KindProceduralField, 0, 0)...)
	case KindAnyTexture:
		return fields(KindTexture, 0, 0)
	case KindAnyTextureWithDimensionality:
		return fields(KindTexture, a.Dim, 0)
	case KindAnyTextureWithCompositeSize:
		return fields(KindTexture, 0, a.Size)
	case KindAnyProceduralField:
		return fields(KindProceduralField, 0, 0)
	case KindAnyProceduralFieldWithDimensionality:
		return fields(KindProceduralField, a.Dim, 0)
	case KindAnyProceduralFieldWithCompositeSize:
		return fields(KindProceduralField, 0, a.Size)
	case KindConcreteType:
		return []Concrete{a.Concrete}
	default:
		return nil
	}
}

func textureFamily() []Abstract {
	out := []Abstract{AnyTexture()}
	for _, d := range Dimensionalities {
		out = append(out, AnyTextureWithDimensionality(d))
	}
	for _, s := range CompositeSizes {
		out = append(out, AnyTextureWithCompositeSize(s))
	}
	return out
}

func proceduralFieldFamily() []Abstract {
	out := []Abstract{AnyProceduralField()}
	for _, d := range Dimensionalities {
		out = append(out, AnyProceduralFieldWithDimensionality(d))
	}
	for _, s := range CompositeSizes {
		out = append(out, AnyProceduralFieldWithCompositeSize(s))
	}
	return out
}

// AbstractDomain enumerates the abstract types at least as specific as a,
// starting with a itself and ending with every admitted concrete type
// wrapped in [ConcreteType].
func (a Abstract) AbstractDomain() []Abstract {
	var out []Abstract
	switch a.Kind {
	case KindAny:
		out = []Abstract{Any(), AnyMaterial(), AnyValue(), AnyNumber(), AnyFloat(), AnyField()}
		out = append(out, textureFamily()...)
		out = append(out, proceduralFieldFamily()...)
	case KindAnyMaterial:
		out = []Abstract{AnyMaterial(), AnyFloat(), AnyField()}
		out = append(out, textureFamily()...)
		out = append(out, proceduralFieldFamily()...)
	case KindAnyValue:
		out = []Abstract{AnyValue(), AnyNumber(), AnyFloat()}
	case KindAnyNumber:
		out = []Abstract{AnyNumber(), AnyFloat()}
	case KindAnyFloat:
		out = []Abstract{AnyFloat()}
	case KindAnyField:
		out = []Abstract{AnyField()}
		out = append(out, textureFamily()...)
		out = append(out, proceduralFieldFamily()...)
	case KindAnyTexture:
		out = textureFamily()
	case KindAnyProceduralField:
		out = proceduralFieldFamily()
	case KindAnyTextureWithDimensionality, KindAnyTextureWithCompositeSize,
		KindAnyProceduralFieldWithDimensionality, KindAnyProceduralFieldWithCompositeSize:
		out = []Abstract{a}
	case KindConcreteType:
		return []Abstract{a}
	default:
		return nil
	}
	for _, c := range a.ConcreteDomain() {
		out = append(out, ConcreteType(c))
	}
	return out
}

// Admits reports whether c is in the concrete domain of a.
func (a Abstract) Admits(c Concrete) bool {
	return slices.Contains(a.ConcreteDomain(), c)
}

// Rank grows with specificity. Members of an abstract domain never rank
// below the type that enumerates them.
func (a Abstract) Rank() int {
	switch a.Kind {
	case KindAny:
		return 0
	case KindAnyMaterial, KindAnyValue:
		return 1
	case KindAnyNumber, KindAnyField:
		return 2
	case KindAnyFloat, KindAnyTexture, KindAnyProceduralField:
		return 3
	case KindAnyTextureWithDimensionality, KindAnyTextureWithCompositeSize,
		KindAnyProceduralFieldWithDimensionality, KindAnyProceduralFieldWithCompositeSize:
		return 4
	case KindConcreteType:
		return 5
	default:
		return 0
	}
}

// CompositeSize returns the composite size the constraint pins, if any.
func (a Abstract) CompositeSize() (CompositeSize, bool) {
	switch a.Kind {
	case KindAnyTextureWithCompositeSize, KindAnyProceduralFieldWithCompositeSize:
		return a.Size, true
	case KindConcreteType:
		return a.Concrete.CompositeSize()
	default:
		return 0, false
	}
}

// Dimensionality returns the dimensionality the constraint pins, if any.
func (a Abstract) Dimensionality() (Dimensionality, bool) {
	switch a.Kind {
	case KindAnyTextureWithDimensionality, KindAnyProceduralFieldWithDimensionality:
		return a.Dim, true
	case KindConcreteType:
		return a.Concrete.Dimensionality()
	default:
		return 0, false
	}
}

// String formats the type, e.g. "AnyTextureWithDimensionality(D2)".
func (a Abstract) String() string {
	switch a.Kind {
	case KindAnyTextureWithDimensionality, KindAnyProceduralFieldWithDimensionality:
		return fmt.Sprintf("%s(%s)", a.Kind, a.Dim)
	case KindAnyTextureWithCompositeSize, KindAnyProceduralFieldWithCompositeSize:
		return fmt.Sprintf("%s(%s)", a.Kind, a.Size)
	case KindConcreteType:
		return fmt.Sprintf("ConcreteType(%s)", a.Concrete)
	default:
		return a.Kind.String()
	}
}

// AllAbstract enumerates every abstract type, which is the abstract domain
// of [Any].
func AllAbstract() []Abstract { return Any().AbstractDomain() }
