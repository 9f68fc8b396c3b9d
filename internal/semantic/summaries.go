package semantic

import (
	"github.com/doublemover/objc3sema/internal/ast"
	"github.com/doublemover/objc3sema/internal/semtype"
)

// AtomicMemoryOrder is the closed set of memory-order outcomes an
// assignment operator maps to.
type AtomicMemoryOrder int

const (
	Relaxed AtomicMemoryOrder = iota
	Acquire
	Release
	AcqRel
	SeqCst
	Unsupported
)

func (o AtomicMemoryOrder) String() string {
	switch o {
	case Relaxed:
		return "relaxed"
	case Acquire:
		return "acquire"
	case Release:
		return "release"
	case AcqRel:
		return "acq_rel"
	case SeqCst:
		return "seq_cst"
	default:
		return "unsupported"
	}
}

// MapAssignmentOperatorToAtomicMemoryOrder is the total function from
// assignment operator spelling to atomic memory order.
func MapAssignmentOperatorToAtomicMemoryOrder(op string) AtomicMemoryOrder {
	switch op {
	case "=", "|=", "^=":
		return Release
	case "&=", "<<=", ">>=":
		return Acquire
	case "+=", "-=", "++", "--":
		return AcqRel
	case "*=", "/=", "%=":
		return SeqCst
	default:
		return Unsupported
	}
}

// FormatAtomicMemoryOrderMappingHint renders the diagnostic suffix appended
// to assignment-compatibility mismatches.
func FormatAtomicMemoryOrderMappingHint(op string) string {
	order := MapAssignmentOperatorToAtomicMemoryOrder(op)
	if order == Unsupported {
		return "atomic memory-order mapping unavailable for operator '" + op + "'"
	}
	return "atomic memory-order mapping for operator '" + op + "' uses '" + order.String() + "'"
}

// AtomicMemoryOrderMappingSummary counts assignment operators by their
// mapped memory order across every function body in the program.
type AtomicMemoryOrderMappingSummary struct {
	Relaxed, Acquire, Release, AcqRel, SeqCst, Unsupported int
	Deterministic                                          bool
}

func recordAtomicMemoryOrderMapping(op string, summary *AtomicMemoryOrderMappingSummary) {
	switch MapAssignmentOperatorToAtomicMemoryOrder(op) {
	case Relaxed:
		summary.Relaxed++
	case Acquire:
		summary.Acquire++
	case Release:
		summary.Release++
	case AcqRel:
		summary.AcqRel++
	case SeqCst:
		summary.SeqCst++
	default:
		summary.Unsupported++
		summary.Deterministic = false
	}
}

// BuildAtomicMemoryOrderMappingSummary walks every free function's body and
// tallies the memory order implied by each assignment operator it contains,
// including assignments in for-loop init/step clauses.
func BuildAtomicMemoryOrderMappingSummary(program *ast.Program) AtomicMemoryOrderMappingSummary {
	summary := AtomicMemoryOrderMappingSummary{Deterministic: true}
	for _, fn := range program.Functions {
		if fn.Body == nil {
			continue
		}
		collectAtomicMemoryOrderMappingsInBlock(fn.Body, &summary)
	}
	return summary
}

func collectAtomicMemoryOrderMappingsInBlock(block *ast.BlockStmt, summary *AtomicMemoryOrderMappingSummary) {
	if block == nil {
		return
	}
	for _, s := range block.Statements {
		collectAtomicMemoryOrderMappingsInStmt(s, summary)
	}
}

func collectAtomicMemoryOrderMappingsInStmt(stmt ast.Stmt, summary *AtomicMemoryOrderMappingSummary) {
	switch s := stmt.(type) {
	case *ast.AssignStmt:
		recordAtomicMemoryOrderMapping(s.Op, summary)
	case *ast.BlockStmt:
		collectAtomicMemoryOrderMappingsInBlock(s, summary)
	case *ast.IfStmt:
		collectAtomicMemoryOrderMappingsInBlock(s.Then, summary)
		collectAtomicMemoryOrderMappingsInBlock(s.Else, summary)
	case *ast.WhileStmt:
		collectAtomicMemoryOrderMappingsInBlock(s.Body, summary)
	case *ast.DoWhileStmt:
		collectAtomicMemoryOrderMappingsInBlock(s.Body, summary)
	case *ast.ForStmt:
		if s.Init.Kind == ast.ForClauseAssign {
			recordAtomicMemoryOrderMapping(s.Init.AssignOp, summary)
		}
		if s.Step.Kind == ast.ForClauseAssign {
			recordAtomicMemoryOrderMapping(s.Step.AssignOp, summary)
		}
		collectAtomicMemoryOrderMappingsInBlock(s.Body, summary)
	case *ast.SwitchStmt:
		for _, c := range s.Cases {
			collectAtomicMemoryOrderMappingsInBlock(c.Body, summary)
		}
	}
}

// VectorTypeLoweringSummary buckets vector-annotated parameters and returns
// by position (return/param), base type, and lane count.
type VectorTypeLoweringSummary struct {
	ReturnAnnotations, ParamAnnotations                           int
	BoolAnnotations, I32Annotations, UnsupportedAnnotations        int
	Lane2Annotations, Lane4Annotations, Lane8Annotations, Lane16Annotations int
	Deterministic                                                 bool
}

func recordVectorTypeLoweringAnnotation(baseType semtype.ValueType, laneCount int, isReturn bool, summary *VectorTypeLoweringSummary) {
	if isReturn {
		summary.ReturnAnnotations++
	} else {
		summary.ParamAnnotations++
	}

	switch baseType {
	case semtype.Bool:
		summary.BoolAnnotations++
	case semtype.I32:
		summary.I32Annotations++
	default:
		summary.UnsupportedAnnotations++
		summary.Deterministic = false
	}

	switch laneCount {
	case 2:
		summary.Lane2Annotations++
	case 4:
		summary.Lane4Annotations++
	case 8:
		summary.Lane8Annotations++
	case 16:
		summary.Lane16Annotations++
	default:
		summary.UnsupportedAnnotations++
		summary.Deterministic = false
	}
}

// BuildVectorTypeLoweringSummary iterates the surface's function entries
// and tallies their vector-annotated parameters and returns.
func BuildVectorTypeLoweringSummary(surface *Surface) VectorTypeLoweringSummary {
	summary := VectorTypeLoweringSummary{Deterministic: true}
	for _, fn := range surface.Functions {
		if len(fn.ParamTypes) != fn.Arity || len(fn.ParamHasInvalidSuffix) != fn.Arity {
			summary.Deterministic = false
			continue
		}
		if fn.Return.IsVector {
			recordVectorTypeLoweringAnnotation(fn.Return.Base, fn.Return.VectorLaneCount, true, &summary)
		}
		for _, p := range fn.ParamTypes {
			if !p.IsVector {
				continue
			}
			recordVectorTypeLoweringAnnotation(p.Base, p.VectorLaneCount, false, &summary)
		}
	}
	return summary
}
