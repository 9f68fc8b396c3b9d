// Package passes holds the three concrete semantic analysis passes run in
// fixed order by the pass manager: the surface builder, the body validator,
// and the pure-contract validator.
package passes

import (
	"sort"

	"github.com/doublemover/objc3sema/internal/ast"
	"github.com/doublemover/objc3sema/internal/config"
	"github.com/doublemover/objc3sema/internal/consteval"
	"github.com/doublemover/objc3sema/internal/semantic"
	"github.com/doublemover/objc3sema/internal/semtype"
)

// SurfacePass implements Pass 1: Surface Building.
//
// Registers every global, function, interface, and implementation into the
// shared Surface without validating statement or expression bodies — that is
// Pass 2's job. A global's initializer is still evaluated here (leniently,
// truncating on overflow) because whether it folds to a constant is itself
// part of the surface: O3S210 fires at this pass, not at Pass 2.
type SurfacePass struct{}

// NewSurfacePass creates a new surface-building pass.
func NewSurfacePass() *SurfacePass { return &SurfacePass{} }

// Name returns this pass's identifier.
func (p *SurfacePass) Name() string { return "surface" }

// Run builds surface from program, appending diagnostics in discovery order.
func (p *SurfacePass) Run(program *ast.Program, surface *semantic.Surface, opts config.Options) []string {
	var diags []string

	diags = append(diags, buildGlobals(program, surface)...)
	diags = append(diags, buildFunctions(program, surface)...)
	diags = append(diags, buildInterfaces(program, surface)...)
	diags = append(diags, buildImplementations(program, surface)...)

	computeInterfaceImplementationSummary(program, surface)
	surface.Built = true
	return diags
}

func buildGlobals(program *ast.Program, surface *semantic.Surface) []string {
	var diags []string
	_, resolved := consteval.ResolveGlobalOrder(program.Globals)
	for i, g := range program.Globals {
		if _, dup := surface.Globals[g.Name]; dup {
			diags = append(diags, semantic.ErrDuplicateSymbol(g.Location, "global", g.Name))
			continue
		}
		surface.Globals[g.Name] = semtype.I32
		if !resolved[i] {
			diags = append(diags, semantic.ErrNonConstantGlobal(g.Location, g.Name))
		}
	}
	return diags
}

func buildFunctions(program *ast.Program, surface *semantic.Surface) []string {
	var diags []string
	for _, fn := range program.Functions {
		params, paramInvalid, paramDiags := buildParamTypes(fn.Params, "function", fn.Name)
		diags = append(diags, paramDiags...)
		ret, _, retDiags := buildReturnType(fn.Return, fn.Location, "function", fn.Name)
		diags = append(diags, retDiags...)

		info := &semantic.FunctionInfo{
			Arity:                 len(fn.Params),
			ParamTypes:            params,
			ParamHasInvalidSuffix: paramInvalid,
			Return:                ret,
			HasDefinition:         fn.HasDefinition(),
			IsPureAnnotation:      fn.IsPure,
			Location:              fn.Location,
		}

		existing, ok := surface.Functions[fn.Name]
		if !ok {
			surface.Functions[fn.Name] = info
			continue
		}

		if !semantic.IsCompatibleSignature(toMethodInfo(existing), toMethodInfo(info)) {
			diags = append(diags, semantic.ErrTypeMismatchDetail(fn.Location, "redeclaration of function '"+fn.Name+"' with an incompatible signature"))
			continue
		}
		existing.HasDefinition = existing.HasDefinition || info.HasDefinition
		existing.IsPureAnnotation = existing.IsPureAnnotation || info.IsPureAnnotation
		for i := range existing.ParamHasInvalidSuffix {
			if i < len(info.ParamHasInvalidSuffix) && info.ParamHasInvalidSuffix[i] {
				existing.ParamHasInvalidSuffix[i] = true
			}
		}
	}
	return diags
}

// toMethodInfo adapts a FunctionInfo to the shape IsCompatibleSignature
// compares, so functions and methods share one compatibility check.
func toMethodInfo(f *semantic.FunctionInfo) semantic.MethodInfo {
	return semantic.MethodInfo{Arity: f.Arity, ParamTypes: f.ParamTypes, Return: f.Return}
}

func buildInterfaces(program *ast.Program, surface *semantic.Surface) []string {
	var diags []string
	for _, iface := range program.Interfaces {
		if _, dup := surface.Interfaces[iface.Name]; dup {
			diags = append(diags, semantic.ErrDuplicateSymbol(iface.Location, "interface", iface.Name))
			continue
		}
		methods := map[string]semantic.MethodInfo{}
		for _, m := range iface.Methods {
			if _, dup := methods[m.Selector]; dup {
				diags = append(diags, semantic.ErrDuplicateSymbol(m.Location, "selector", m.Selector))
				continue
			}
			if m.HasBody() {
				diags = append(diags, semantic.ErrTypeMismatchDetail(m.Location, "interface method '"+m.Selector+"' must not have a body"))
			}
			params, _, paramDiags := buildParamTypes(m.Params, "interface", m.Selector)
			diags = append(diags, paramDiags...)
			ret, _, retDiags := buildReturnType(m.Return, m.Location, "interface", m.Selector)
			diags = append(diags, retDiags...)
			methods[m.Selector] = semantic.MethodInfo{
				Selector:      m.Selector,
				Arity:         len(m.Params),
				ParamTypes:    params,
				Return:        ret,
				IsClassMethod: m.IsClassMethod,
				HasDefinition: m.HasBody(),
				Location:      m.Location,
			}
		}
		surface.Interfaces[iface.Name] = &semantic.InterfaceInfo{
			SuperName: iface.SuperName,
			Methods:   methods,
			Location:  iface.Location,
		}
	}
	return diags
}

func buildImplementations(program *ast.Program, surface *semantic.Surface) []string {
	var diags []string
	for _, impl := range program.Implementations {
		if _, dup := surface.Implementations[impl.Name]; dup {
			diags = append(diags, semantic.ErrDuplicateSymbol(impl.Location, "implementation", impl.Name))
			continue
		}
		_, hasMatchingInterface := surface.Interfaces[impl.Name]
		methods := map[string]semantic.MethodInfo{}
		for _, m := range impl.Methods {
			if _, dup := methods[m.Selector]; dup {
				diags = append(diags, semantic.ErrDuplicateSymbol(m.Location, "selector", m.Selector))
				continue
			}
			if !m.HasBody() {
				diags = append(diags, semantic.ErrTypeMismatchDetail(m.Location, "implementation method '"+m.Selector+"' must have a body"))
			}
			params, _, paramDiags := buildParamTypes(m.Params, "implementation", m.Selector)
			diags = append(diags, paramDiags...)
			ret, _, retDiags := buildReturnType(m.Return, m.Location, "implementation", m.Selector)
			diags = append(diags, retDiags...)
			methods[m.Selector] = semantic.MethodInfo{
				Selector:      m.Selector,
				Arity:         len(m.Params),
				ParamTypes:    params,
				Return:        ret,
				IsClassMethod: m.IsClassMethod,
				HasDefinition: m.HasBody(),
				Location:      m.Location,
			}
		}
		surface.Implementations[impl.Name] = &semantic.ImplementationInfo{
			HasMatchingInterface: hasMatchingInterface,
			Methods:              methods,
			Location:             impl.Location,
		}
	}
	return diags
}

// buildParamTypes converts AST parameter annotations to semantic types,
// validating the generic/pointer/nullability suffix restriction: those
// suffixes are only legal on id/Class/instancetype parameter annotations.
func buildParamTypes(params []ast.FuncParam, ownerKind, ownerName string) ([]semtype.Type, []bool, []string) {
	types := make([]semtype.Type, len(params))
	invalid := make([]bool, len(params))
	var diags []string
	for i, p := range params {
		types[i] = annotationToType(p.Type)
		if hasSuffixTokens(p.Type) && !p.Type.SupportsGenericSuffix() {
			invalid[i] = true
			diags = append(diags, semantic.ErrTypeMismatchDetail(p.Location,
				ownerKind+" '"+ownerName+"' parameter '"+p.Name+"' carries a generic, pointer, or nullability suffix on a type that does not support one"))
		}
	}
	return types, invalid, diags
}

func buildReturnType(ret ast.TypeAnnotation, pos ast.Position, ownerKind, ownerName string) (semtype.Type, bool, []string) {
	t := annotationToType(ret)
	if hasSuffixTokens(ret) && !ret.SupportsGenericSuffix() {
		return t, true, []string{semantic.ErrTypeMismatchDetail(pos, ownerKind+" '"+ownerName+"' return type carries a generic, pointer, or nullability suffix on a type that does not support one")}
	}
	return t, false, nil
}

func hasSuffixTokens(ann ast.TypeAnnotation) bool {
	return ann.HasGenericSuffix || len(ann.PointerDeclaratorTokens) > 0 || len(ann.NullabilitySuffixTokens) > 0
}

func annotationToType(ann ast.TypeAnnotation) semtype.Type {
	if ann.VectorSpelling {
		return semtype.Vector(ann.Base, ann.VectorBase, ann.VectorLaneCount)
	}
	return semtype.Scalar(ann.Base)
}

// computeInterfaceImplementationSummary fills Surface.InterfaceImplementationSummary
// from the maps SurfacePass just built. Declared* counts every AST
// declaration (program.Interfaces/Implementations), including ones later
// rejected as duplicates; Resolved* counts only the surviving, deduplicated
// entries actually registered in the surface's maps.
func computeInterfaceImplementationSummary(program *ast.Program, surface *semantic.Surface) {
	summary := semantic.InterfaceImplementationSummary{Deterministic: true}
	summary.DeclaredInterfaces = len(program.Interfaces)
	summary.DeclaredImplementations = len(program.Implementations)
	summary.ResolvedInterfaces = len(surface.Interfaces)
	summary.ResolvedImplementations = len(surface.Implementations)

	for _, iface := range surface.Interfaces {
		summary.InterfaceMethodSymbols += len(iface.Methods)
	}
	for _, impl := range surface.Implementations {
		summary.ImplementationMethodSymbols += len(impl.Methods)
	}

	implNames := make([]string, 0, len(surface.Implementations))
	for name := range surface.Implementations {
		implNames = append(implNames, name)
	}
	sort.Strings(implNames)
	for _, name := range implNames {
		impl := surface.Implementations[name]
		if !impl.HasMatchingInterface {
			continue
		}
		iface, ok := surface.Interfaces[name]
		if !ok {
			continue
		}
		for selector, m := range impl.Methods {
			ifaceMethod, ok := iface.Methods[selector]
			if !ok {
				continue
			}
			if semantic.IsCompatibleSignature(ifaceMethod, m) {
				summary.LinkedImplementationSymbols++
			}
		}
	}

	surface.InterfaceImplementationSummary = summary
}
