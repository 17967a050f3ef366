package datatype

import (
	"slices"
	"testing"
)

func TestAbstractDomainContainsSelf(t *testing.T) {
	for _, a := range AllAbstract() {
		if !slices.Contains(a.AbstractDomain(), a) {
			t.Errorf("%s not in its own abstract domain", a)
		}
	}
}

func TestAbstractDomainClosure(t *testing.T) {
	for _, a := range AllAbstract() {
		parent := a.AbstractDomain()
		for _, b := range parent {
			for _, member := range b.AbstractDomain() {
				if !slices.Contains(parent, member) {
					t.Errorf("%s in domain of %s, but its member %s is not", b, a, member)
				}
			}
		}
	}
}

func TestConcreteDomainWrappedInAbstractDomain(t *testing.T) {
	for _, a := range AllAbstract() {
		abstract := a.AbstractDomain()
		for _, c := range a.ConcreteDomain() {
			if !slices.Contains(abstract, ConcreteType(c)) {
				t.Errorf("%s admits %s but abstract domain lacks ConcreteType(%s)", a, c, c)
			}
		}
		// And the converse: every wrapped concrete is admitted.
		for _, b := range abstract {
			if b.IsConcrete() && !a.Admits(b.Concrete) {
				t.Errorf("%s lists %s but does not admit it", a, b)
			}
		}
	}
}

func TestRankMonotonic(t *testing.T) {
	for _, a := range AllAbstract() {
		for _, b := range a.AbstractDomain() {
			if b == a {
				continue
			}
			if b.Rank() <= a.Rank() {
				t.Errorf("rank(%s)=%d not above rank(%s)=%d", b, b.Rank(), a, a.Rank())
			}
		}
	}
}

func TestDomainsHaveNoDuplicates(t *testing.T) {
	for _, a := range AllAbstract() {
		seen := make(map[Abstract]bool)
		for _, b := range a.AbstractDomain() {
			if seen[b] {
				t.Errorf("%s lists %s twice", a, b)
			}
			seen[b] = true
		}
		seenConcrete := make(map[Concrete]bool)
		for _, c := range a.ConcreteDomain() {
			if seenConcrete[c] {
				t.Errorf("%s admits %s twice", a, c)
			}
			seenConcrete[c] = true
		}
	}
}

func TestConcreteDomains(t *testing.T) {
	tests := []struct {
		name string
		a    Abstract
		want int
	}{
		{"Any", Any(), 4 + 2 + 16 + 16 + 1},
		{"AnyMaterial", AnyMaterial(), 4 + 16 + 16 + 1},
		{"AnyValue", AnyValue(), 6},
		{"AnyNumber", AnyNumber(), 5},
		{"AnyFloat", AnyFloat(), 4},
		{"AnyField", AnyField(), 32},
		{"AnyTexture", AnyTexture(), 16},
		{"AnyTextureWithDimensionality", AnyTextureWithDimensionality(D2), 4},
		{"AnyProceduralFieldWithCompositeSize", AnyProceduralFieldWithCompositeSize(S3), 4},
		{"ConcreteType", ConcreteType(Int()), 1},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := len(tt.a.ConcreteDomain()); got != tt.want {
				t.Errorf("len(ConcreteDomain()) = %d, want %d", got, tt.want)
			}
		})
	}
}

func TestAdmits(t *testing.T) {
	if !AnyTextureWithDimensionality(D2).Admits(Texture(D2, S4)) {
		t.Error("2D texture constraint should admit Texture(D2,S4)")
	}
	if AnyTextureWithDimensionality(D2).Admits(Texture(D3, S4)) {
		t.Error("2D texture constraint should not admit Texture(D3,S4)")
	}
	if AnyNumber().Admits(Bool()) {
		t.Error("AnyNumber should not admit Bool")
	}
	if !AnyMaterial().Admits(Float(S3)) {
		t.Error("AnyMaterial should admit Float(S3)")
	}
}

func TestProjections(t *testing.T) {
	if s, ok := Float(S3).CompositeSize(); !ok || s != S3 {
		t.Errorf("Float(S3).CompositeSize() = %v, %v", s, ok)
	}
	if _, ok := Float(S3).Dimensionality(); ok {
		t.Error("Float has no dimensionality")
	}
	if d, ok := ProceduralField(D3, S1).Dimensionality(); !ok || d != D3 {
		t.Errorf("ProceduralField(D3,S1).Dimensionality() = %v, %v", d, ok)
	}
	if _, ok := SlabMaterial().CompositeSize(); ok {
		t.Error("SlabMaterial has no composite size")
	}
	if s, ok := AnyTextureWithCompositeSize(S2).CompositeSize(); !ok || s != S2 {
		t.Errorf("AnyTextureWithCompositeSize(S2).CompositeSize() = %v, %v", s, ok)
	}
	if _, ok := AnyTexture().Dimensionality(); ok {
		t.Error("AnyTexture pins no dimensionality")
	}
	if d, ok := ConcreteType(Texture(D1, S2)).Dimensionality(); !ok || d != D1 {
		t.Errorf("ConcreteType(Texture(D1,S2)).Dimensionality() = %v, %v", d, ok)
	}
}

func TestStrings(t *testing.T) {
	tests := []struct {
		got, want string
	}{
		{Float(S3).String(), "Float(S3)"},
		{Texture(D2, S4).String(), "Texture(D2,S4)"},
		{Int().String(), "Int"},
		{AnyTextureWithDimensionality(D2).String(), "AnyTextureWithDimensionality(D2)"},
		{ConcreteType(Bool()).String(), "ConcreteType(Bool)"},
		{Float(S1).WGSL(), "f32"},
		{Float(S4).WGSL(), "vec4<f32>"},
		{Texture(D2, S4).WGSL(), ""},
	}
	for _, tt := range tests {
		if tt.got != tt.want {
			t.Errorf("got %q, want %q", tt.got, tt.want)
		}
	}
}
