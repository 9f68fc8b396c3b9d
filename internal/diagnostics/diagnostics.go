// Package diagnostics implements the wire format and publish-batch sink
// contract: a single-line diagnostic record plus an external, null-safe
// collaborator that receives each pass's batch.
package diagnostics

import (
	"fmt"

	"github.com/doublemover/objc3sema/internal/ast"
)

// Make renders a diagnostic in the exact required shape:
// "error:<line>:<col>: <message> [<code>]".
func Make(pos ast.Position, code Code, message string) string {
	return fmt.Sprintf("error:%d:%d: %s [%s]", pos.Line, pos.Column, message, code)
}

// Bus is the external diagnostics sink: a publish-batch collaborator that
// receives each pass's diagnostic batch in order. A nil *Bus (see NewBus)
// behaves as a null sink that simply counts without retaining messages.
type Bus struct {
	retain  bool
	count   int
	records []string
}

// NewBus constructs a diagnostics bus. When retain is false the bus behaves
// as a null sink: it still counts published diagnostics but discards the
// text, the cheapest legal implementation of "may accept nothing".
func NewBus(retain bool) *Bus {
	return &Bus{retain: retain}
}

// PublishBatch appends batch to the bus in order.
func (b *Bus) PublishBatch(batch []string) {
	if b == nil {
		return
	}
	b.count += len(batch)
	if b.retain {
		b.records = append(b.records, batch...)
	}
}

// Count returns the total number of diagnostics ever published.
func (b *Bus) Count() int {
	if b == nil {
		return 0
	}
	return b.count
}

// Records returns the retained diagnostics, or nil if this bus was built
// with retain=false.
func (b *Bus) Records() []string {
	if b == nil {
		return nil
	}
	return b.records
}
