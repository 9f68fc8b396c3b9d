package semantic

import (
	"sort"

	"github.com/doublemover/objc3sema/internal/semtype"
)

// GlobalMetadata is one sorted entry of the handoff's global vector.
type GlobalMetadata struct {
	Name string
	Type semtype.ValueType
}

// FunctionMetadata is one sorted entry of the handoff's function vector. It
// is a flattened, self-contained copy of FunctionInfo: no back-reference to
// the surface.
type FunctionMetadata struct {
	Name string
	FunctionInfo
}

// MethodMetadata is one sorted entry of a nested method vector.
type MethodMetadata struct {
	MethodInfo
}

// InterfaceMetadata is one sorted entry of the handoff's interface vector.
type InterfaceMetadata struct {
	Name      string
	SuperName string
	Methods   []MethodMetadata
}

// ImplementationMetadata is one sorted entry of the handoff's implementation
// vector.
type ImplementationMetadata struct {
	Name                 string
	HasMatchingInterface bool
	Methods              []MethodMetadata
}

// TypeMetadataHandoff is the sorted, self-contained projection of the
// surface handed off to later compiler stages.
type TypeMetadataHandoff struct {
	Globals         []GlobalMetadata
	Functions       []FunctionMetadata
	Interfaces      []InterfaceMetadata
	Implementations []ImplementationMetadata

	ResolvedInterfaces          int
	ResolvedImplementations     int
	InterfaceMethodSymbols      int
	ImplementationMethodSymbols int
	LinkedImplementationSymbols int
	Deterministic               bool
}

// BuildHandoff projects surface into a lexicographically sorted,
// self-contained handoff.
func BuildHandoff(surface *Surface) TypeMetadataHandoff {
	h := TypeMetadataHandoff{
		Deterministic:           true,
		ResolvedInterfaces:      surface.InterfaceImplementationSummary.ResolvedInterfaces,
		ResolvedImplementations: surface.InterfaceImplementationSummary.ResolvedImplementations,
	}

	globalNames := make([]string, 0, len(surface.Globals))
	for name := range surface.Globals {
		globalNames = append(globalNames, name)
	}
	sort.Strings(globalNames)
	for _, name := range globalNames {
		h.Globals = append(h.Globals, GlobalMetadata{Name: name, Type: surface.Globals[name]})
	}

	fnNames := make([]string, 0, len(surface.Functions))
	for name := range surface.Functions {
		fnNames = append(fnNames, name)
	}
	sort.Strings(fnNames)
	for _, name := range fnNames {
		info := surface.Functions[name]
		h.Functions = append(h.Functions, FunctionMetadata{Name: name, FunctionInfo: *info})
	}

	interfaceNames := make([]string, 0, len(surface.Interfaces))
	for name := range surface.Interfaces {
		interfaceNames = append(interfaceNames, name)
	}
	sort.Strings(interfaceNames)
	for _, name := range interfaceNames {
		iface := surface.Interfaces[name]
		methods := sortedMethods(iface.Methods)
		h.Interfaces = append(h.Interfaces, InterfaceMetadata{Name: name, SuperName: iface.SuperName, Methods: methods})
		h.InterfaceMethodSymbols += len(methods)
	}

	implNames := make([]string, 0, len(surface.Implementations))
	for name := range surface.Implementations {
		implNames = append(implNames, name)
	}
	sort.Strings(implNames)
	for _, name := range implNames {
		impl := surface.Implementations[name]
		methods := sortedMethods(impl.Methods)
		h.Implementations = append(h.Implementations, ImplementationMetadata{
			Name:                 name,
			HasMatchingInterface: impl.HasMatchingInterface,
			Methods:              methods,
		})
		h.ImplementationMethodSymbols += len(methods)
	}

	ifaceByName := make(map[string]InterfaceMetadata, len(h.Interfaces))
	for _, iface := range h.Interfaces {
		ifaceByName[iface.Name] = iface
	}
	for _, impl := range h.Implementations {
		if !impl.HasMatchingInterface {
			continue
		}
		iface, ok := ifaceByName[impl.Name]
		if !ok {
			continue
		}
		ifaceMethodsBySelector := make(map[string]MethodInfo, len(iface.Methods))
		for _, m := range iface.Methods {
			ifaceMethodsBySelector[m.Selector] = m.MethodInfo
		}
		for _, m := range impl.Methods {
			ifaceMethod, ok := ifaceMethodsBySelector[m.Selector]
			if !ok {
				continue
			}
			if IsCompatibleSignature(ifaceMethod, m.MethodInfo) {
				h.LinkedImplementationSymbols++
			}
		}
	}

	return h
}

func sortedMethods(methods map[string]MethodInfo) []MethodMetadata {
	selectors := make([]string, 0, len(methods))
	for selector := range methods {
		selectors = append(selectors, selector)
	}
	sort.Strings(selectors)
	out := make([]MethodMetadata, 0, len(selectors))
	for _, selector := range selectors {
		out = append(out, MethodMetadata{MethodInfo: methods[selector]})
	}
	return out
}

// IsDeterministicHandoff checks the handoff's invariants: sort order,
// parallel-vector length consistency, recomputed symbol-count totals, and
// the linked-implementation-symbols bound.
func IsDeterministicHandoff(h TypeMetadataHandoff) bool {
	if !h.Deterministic {
		return false
	}
	if !sort.SliceIsSorted(h.Globals, func(i, j int) bool { return h.Globals[i].Name < h.Globals[j].Name }) {
		return false
	}
	if !sort.SliceIsSorted(h.Functions, func(i, j int) bool { return h.Functions[i].Name < h.Functions[j].Name }) {
		return false
	}
	for _, fn := range h.Functions {
		if len(fn.ParamTypes) != fn.Arity || len(fn.ParamHasInvalidSuffix) != fn.Arity {
			return false
		}
	}
	if !sort.SliceIsSorted(h.Interfaces, func(i, j int) bool { return h.Interfaces[i].Name < h.Interfaces[j].Name }) {
		return false
	}
	if h.ResolvedInterfaces != len(h.Interfaces) || h.ResolvedImplementations != len(h.Implementations) {
		return false
	}
	interfaceMethodTotal := 0
	for _, iface := range h.Interfaces {
		if !sort.SliceIsSorted(iface.Methods, func(i, j int) bool { return iface.Methods[i].Selector < iface.Methods[j].Selector }) {
			return false
		}
		for _, m := range iface.Methods {
			if len(m.ParamTypes) != m.Arity {
				return false
			}
		}
		interfaceMethodTotal += len(iface.Methods)
	}
	if !sort.SliceIsSorted(h.Implementations, func(i, j int) bool { return h.Implementations[i].Name < h.Implementations[j].Name }) {
		return false
	}
	implementationMethodTotal := 0
	for _, impl := range h.Implementations {
		if !sort.SliceIsSorted(impl.Methods, func(i, j int) bool { return impl.Methods[i].Selector < impl.Methods[j].Selector }) {
			return false
		}
		for _, m := range impl.Methods {
			if len(m.ParamTypes) != m.Arity {
				return false
			}
		}
		implementationMethodTotal += len(impl.Methods)
	}

	if interfaceMethodTotal != h.InterfaceMethodSymbols || implementationMethodTotal != h.ImplementationMethodSymbols {
		return false
	}
	minSymbols := h.InterfaceMethodSymbols
	if h.ImplementationMethodSymbols < minSymbols {
		minSymbols = h.ImplementationMethodSymbols
	}
	if h.LinkedImplementationSymbols > minSymbols {
		return false
	}
	return true
}
