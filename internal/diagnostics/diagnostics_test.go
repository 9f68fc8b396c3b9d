package diagnostics

import (
	"testing"

	"github.com/doublemover/objc3sema/internal/ast"
)

func TestMakeWireFormat(t *testing.T) {
	got := Make(ast.Position{Line: 3, Column: 7}, UndefinedIdentifier, "undefined identifier 'x'")
	want := "error:3:7: undefined identifier 'x' [O3S202]"
	if got != want {
		t.Fatalf("Make() = %q, want %q", got, want)
	}
}

func TestBusPublishBatchRetaining(t *testing.T) {
	b := NewBus(true)
	b.PublishBatch([]string{"a", "b"})
	b.PublishBatch([]string{"c"})

	if b.Count() != 3 {
		t.Fatalf("Count() = %d, want 3", b.Count())
	}
	records := b.Records()
	if len(records) != 3 || records[0] != "a" || records[2] != "c" {
		t.Fatalf("Records() = %v, want [a b c]", records)
	}
}

func TestBusPublishBatchNullSink(t *testing.T) {
	b := NewBus(false)
	b.PublishBatch([]string{"a", "b", "c"})

	if b.Count() != 3 {
		t.Fatalf("Count() = %d, want 3 (null sink still counts)", b.Count())
	}
	if b.Records() != nil {
		t.Fatalf("Records() = %v, want nil (null sink discards text)", b.Records())
	}
}

func TestBusNilReceiverIsSafe(t *testing.T) {
	var b *Bus
	b.PublishBatch([]string{"a"}) // must not panic
	if b.Count() != 0 {
		t.Fatalf("nil Bus.Count() = %d, want 0", b.Count())
	}
	if b.Records() != nil {
		t.Fatalf("nil Bus.Records() = %v, want nil", b.Records())
	}
}

func TestLookupKnownCode(t *testing.T) {
	info, ok := Lookup(MissingReturn)
	if !ok {
		t.Fatalf("Lookup(MissingReturn) ok = false, want true")
	}
	if info.Pass != "bodies" {
		t.Fatalf("Lookup(MissingReturn).Pass = %q, want %q", info.Pass, "bodies")
	}
}

func TestLookupUnknownCode(t *testing.T) {
	if _, ok := Lookup(Code("O3S999")); ok {
		t.Fatalf("Lookup(unknown code) ok = true, want false")
	}
}

func TestPassPredicates(t *testing.T) {
	tests := []struct {
		code           Code
		wantSurface    bool
		wantBodies     bool
		wantPureContract bool
	}{
		{DuplicateSymbol, true, false, false},
		{TypeMismatch, true, true, false},
		{UndefinedIdentifier, false, true, false},
		{PureContractViolation, false, false, true},
	}
	for _, tt := range tests {
		if got := IsSurfacePass(tt.code); got != tt.wantSurface {
			t.Errorf("IsSurfacePass(%s) = %v, want %v", tt.code, got, tt.wantSurface)
		}
		if got := IsBodiesPass(tt.code); got != tt.wantBodies {
			t.Errorf("IsBodiesPass(%s) = %v, want %v", tt.code, got, tt.wantBodies)
		}
		if got := IsPureContractPass(tt.code); got != tt.wantPureContract {
			t.Errorf("IsPureContractPass(%s) = %v, want %v", tt.code, got, tt.wantPureContract)
		}
	}
}

func TestRegistryCoversEveryCode(t *testing.T) {
	codes := []Code{
		DuplicateSymbol, ScopeRedeclaration, UndefinedIdentifier, UnknownFunction,
		ArityMismatch, MissingReturn, TypeMismatch, MessageReceiverType,
		MessageArityMismatch, MessageArgumentType, NonConstantGlobal,
		ReturnTypeMismatch, BreakOutsideLoop, ContinueOutsideLoop,
		UndefinedAssignmentTarget, PureContractViolation,
	}
	for _, c := range codes {
		if _, ok := Lookup(c); !ok {
			t.Errorf("code %s missing from Registry", c)
		}
	}
	if len(Registry) != len(codes) {
		t.Errorf("Registry has %d entries, want %d (every Code constant must be registered)", len(Registry), len(codes))
	}
}
