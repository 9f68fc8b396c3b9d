package passes

import (
	"github.com/doublemover/objc3sema/internal/ast"
	"github.com/doublemover/objc3sema/internal/config"
	"github.com/doublemover/objc3sema/internal/semantic"
)

// PassManagerResult is the full outcome of running the three ordered passes
// over one program.
type PassManagerResult struct {
	Surface *semantic.Surface

	// Diagnostics is every diagnostic produced, in the order the three
	// passes emitted them.
	Diagnostics []string

	// DiagnosticsAfterPass[i] is the cumulative diagnostic count once pass i
	// (0=surface, 1=bodies, 2=pure-contract) has finished.
	DiagnosticsAfterPass [3]int

	// DiagnosticsEmittedByPass[i] is the diagnostic count pass i alone
	// contributed.
	DiagnosticsEmittedByPass [3]int

	Handoff              semantic.TypeMetadataHandoff
	DeterministicHandoff bool

	// Executed is false only when Run was given a nil program; every other
	// input runs all three passes unconditionally, with no early stop on
	// error, so that Pass 2 and Pass 3 diagnostics are always available in
	// the same run.
	Executed bool
}

// PassManager runs the surface, body, and pure-contract passes in that
// fixed order against one set of config.Options.
type PassManager struct {
	opts   config.Options
	passes []semantic.Pass
}

// NewPassManager creates a pass manager with the three passes in spec order.
func NewPassManager(opts config.Options) *PassManager {
	return &PassManager{
		opts: opts,
		passes: []semantic.Pass{
			NewSurfacePass(),
			NewBodyPass(),
			NewPureContractPass(),
		},
	}
}

// Run executes every pass against program, unconditionally, and builds the
// type-metadata handoff from the resulting surface.
func (pm *PassManager) Run(program *ast.Program) PassManagerResult {
	if program == nil {
		return PassManagerResult{}
	}

	surface := semantic.NewSurface()
	result := PassManagerResult{Surface: surface, Executed: true}

	for i, pass := range pm.passes {
		emitted := pass.Run(program, surface, pm.opts)
		result.Diagnostics = append(result.Diagnostics, emitted...)
		result.DiagnosticsEmittedByPass[i] = len(emitted)
		result.DiagnosticsAfterPass[i] = len(result.Diagnostics)
	}

	result.Handoff = semantic.BuildHandoff(surface)
	result.DeterministicHandoff = semantic.IsDeterministicHandoff(result.Handoff)
	return result
}
