package semantic

import (
	"github.com/doublemover/objc3sema/internal/ast"
	"github.com/doublemover/objc3sema/internal/config"
)

// Pass is one of the three ordered semantic analysis passes. A pass reads
// the program and the surface built by earlier passes, mutates the surface
// it owns, and returns the diagnostics it produced in the order they were
// discovered.
type Pass interface {
	Name() string
	Run(program *ast.Program, surface *Surface, opts config.Options) []string
}
