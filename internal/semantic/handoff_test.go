package semantic

import (
	"testing"

	"github.com/doublemover/objc3sema/internal/semtype"
)

func sampleSurface() *Surface {
	s := NewSurface()
	s.Globals["b"] = semtype.I32
	s.Globals["a"] = semtype.I32

	s.Functions["zeta"] = &FunctionInfo{
		Arity:                 1,
		ParamTypes:            []semtype.Type{semtype.Scalar(semtype.I32)},
		ParamHasInvalidSuffix: []bool{false},
		Return:                semtype.Scalar(semtype.I32),
	}
	s.Functions["alpha"] = &FunctionInfo{
		Arity:                 0,
		ParamTypes:            []semtype.Type{},
		ParamHasInvalidSuffix: []bool{},
		Return:                semtype.Scalar(semtype.Void),
	}

	s.Interfaces["Shape"] = &InterfaceInfo{
		Methods: map[string]MethodInfo{
			"area": {Selector: "area", Arity: 0, Return: semtype.Scalar(semtype.I32)},
		},
	}
	s.Implementations["Shape"] = &ImplementationInfo{
		HasMatchingInterface: true,
		Methods: map[string]MethodInfo{
			"area": {Selector: "area", Arity: 0, Return: semtype.Scalar(semtype.I32), HasDefinition: true},
		},
	}
	return s
}

func TestBuildHandoffSortsEverything(t *testing.T) {
	h := BuildHandoff(sampleSurface())

	if len(h.Globals) != 2 || h.Globals[0].Name != "a" || h.Globals[1].Name != "b" {
		t.Fatalf("handoff.Globals = %+v, want sorted [a b]", h.Globals)
	}
	if len(h.Functions) != 2 || h.Functions[0].Name != "alpha" || h.Functions[1].Name != "zeta" {
		t.Fatalf("handoff.Functions = %+v, want sorted [alpha zeta]", h.Functions)
	}
	if len(h.Interfaces) != 1 || h.Interfaces[0].Name != "Shape" {
		t.Fatalf("handoff.Interfaces = %+v, want [Shape]", h.Interfaces)
	}
	if h.LinkedImplementationSymbols != 1 {
		t.Fatalf("handoff.LinkedImplementationSymbols = %d, want 1 (matching signature)", h.LinkedImplementationSymbols)
	}
	if !h.Deterministic {
		t.Fatalf("handoff.Deterministic = false, want true")
	}
}

func TestBuildHandoffUnlinkedOnSignatureMismatch(t *testing.T) {
	s := sampleSurface()
	// Mutate the implementation's arity so it no longer matches the
	// interface signature; the symbol must not be counted as linked.
	s.Implementations["Shape"].Methods["area"] = MethodInfo{
		Selector: "area", Arity: 1, Return: semtype.Scalar(semtype.I32),
		ParamTypes: []semtype.Type{semtype.Scalar(semtype.I32)}, HasDefinition: true,
	}
	h := BuildHandoff(s)
	if h.LinkedImplementationSymbols != 0 {
		t.Fatalf("handoff.LinkedImplementationSymbols = %d, want 0 (arity mismatch)", h.LinkedImplementationSymbols)
	}
}

func TestIsDeterministicHandoffRejectsUnsortedGlobals(t *testing.T) {
	h := TypeMetadataHandoff{
		Deterministic: true,
		Globals:       []GlobalMetadata{{Name: "b"}, {Name: "a"}},
	}
	if IsDeterministicHandoff(h) {
		t.Fatalf("IsDeterministicHandoff() = true, want false (globals out of order)")
	}
}

func TestIsDeterministicHandoffRejectsArityMismatch(t *testing.T) {
	h := TypeMetadataHandoff{
		Deterministic: true,
		Functions: []FunctionMetadata{
			{Name: "f", FunctionInfo: FunctionInfo{Arity: 2, ParamTypes: []semtype.Type{semtype.Scalar(semtype.I32)}, ParamHasInvalidSuffix: []bool{false}}},
		},
	}
	if IsDeterministicHandoff(h) {
		t.Fatalf("IsDeterministicHandoff() = true, want false (ParamTypes length != Arity)")
	}
}

func TestIsDeterministicHandoffRejectsFalseDeterministicFlag(t *testing.T) {
	h := TypeMetadataHandoff{Deterministic: false}
	if IsDeterministicHandoff(h) {
		t.Fatalf("IsDeterministicHandoff() = true, want false (Deterministic flag already false)")
	}
}

func TestBuildHandoffPropagatesResolvedInterfaceCounts(t *testing.T) {
	s := sampleSurface()
	s.InterfaceImplementationSummary.DeclaredInterfaces = 3
	s.InterfaceImplementationSummary.ResolvedInterfaces = 1
	s.InterfaceImplementationSummary.DeclaredImplementations = 2
	s.InterfaceImplementationSummary.ResolvedImplementations = 1

	h := BuildHandoff(s)
	if h.ResolvedInterfaces != 1 || h.ResolvedImplementations != 1 {
		t.Fatalf("handoff resolved counts = %d/%d, want 1/1 (propagated from the surface summary)", h.ResolvedInterfaces, h.ResolvedImplementations)
	}
	if !IsDeterministicHandoff(h) {
		t.Fatalf("IsDeterministicHandoff() = false, want true (resolved counts match the handoff's own vector lengths)")
	}
}

func TestIsDeterministicHandoffRejectsResolvedInterfaceCountMismatch(t *testing.T) {
	h := TypeMetadataHandoff{
		Deterministic:      true,
		Interfaces:         []InterfaceMetadata{{Name: "Shape"}},
		ResolvedInterfaces: 2,
	}
	if IsDeterministicHandoff(h) {
		t.Fatalf("IsDeterministicHandoff() = true, want false (ResolvedInterfaces disagrees with len(Interfaces))")
	}
}

func TestIsDeterministicHandoffRejectsResolvedImplementationCountMismatch(t *testing.T) {
	h := TypeMetadataHandoff{
		Deterministic:           true,
		Implementations:         []ImplementationMetadata{{Name: "Shape"}},
		ResolvedImplementations: 0,
	}
	if IsDeterministicHandoff(h) {
		t.Fatalf("IsDeterministicHandoff() = true, want false (ResolvedImplementations disagrees with len(Implementations))")
	}
}

func TestIsDeterministicHandoffAcceptsEmptyHandoff(t *testing.T) {
	h := BuildHandoff(NewSurface())
	if !IsDeterministicHandoff(h) {
		t.Fatalf("IsDeterministicHandoff(empty surface) = false, want true")
	}
}

func TestIsCompatibleSignature(t *testing.T) {
	a := MethodInfo{Arity: 1, ParamTypes: []semtype.Type{semtype.Scalar(semtype.I32)}, Return: semtype.Scalar(semtype.Bool)}
	b := MethodInfo{Arity: 1, ParamTypes: []semtype.Type{semtype.Scalar(semtype.I32)}, Return: semtype.Scalar(semtype.Bool)}
	c := MethodInfo{Arity: 1, ParamTypes: []semtype.Type{semtype.Scalar(semtype.Bool)}, Return: semtype.Scalar(semtype.Bool)}

	if !IsCompatibleSignature(a, b) {
		t.Fatalf("IsCompatibleSignature(a, b) = false, want true")
	}
	if IsCompatibleSignature(a, c) {
		t.Fatalf("IsCompatibleSignature(a, c) = true, want false (param type differs)")
	}
}
