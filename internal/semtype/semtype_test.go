package semtype

import "testing"

func TestValueTypeString(t *testing.T) {
	tests := []struct {
		v    ValueType
		want string
	}{
		{I32, "i32"},
		{Bool, "bool"},
		{Void, "void"},
		{Function, "function"},
		{Unknown, "unknown"},
		{ValueType(99), "unknown"},
	}
	for _, tt := range tests {
		if got := tt.v.String(); got != tt.want {
			t.Errorf("ValueType(%d).String() = %q, want %q", tt.v, got, tt.want)
		}
	}
}

func TestEqualScalar(t *testing.T) {
	a := Scalar(I32)
	b := Scalar(I32)
	c := Scalar(Bool)
	if !Equal(a, b) {
		t.Fatalf("Equal(%v, %v) = false, want true", a, b)
	}
	if Equal(a, c) {
		t.Fatalf("Equal(%v, %v) = true, want false", a, c)
	}
}

func TestEqualVector(t *testing.T) {
	a := Vector(I32, "i32", 4)
	b := Vector(I32, "i32", 4)
	c := Vector(I32, "i32", 8)
	d := Scalar(I32)
	if !Equal(a, b) {
		t.Fatalf("Equal(%v, %v) = false, want true", a, b)
	}
	if Equal(a, c) {
		t.Fatalf("Equal(%v, %v) = true, want false (lane count differs)", a, c)
	}
	if Equal(a, d) {
		t.Fatalf("Equal(%v, %v) = true, want false (vector vs scalar)", a, d)
	}
}

func TestIsUnknown(t *testing.T) {
	if !(Type{Base: Unknown}).IsUnknown() {
		t.Fatalf("scalar Unknown.IsUnknown() = false, want true")
	}
	if (Type{Base: Unknown, IsVector: true}).IsUnknown() {
		t.Fatalf("vector Unknown.IsUnknown() = true, want false")
	}
	if Scalar(I32).IsUnknown() {
		t.Fatalf("scalar I32.IsUnknown() = true, want false")
	}
}

func TestIsBoolCompatibleScalar(t *testing.T) {
	tests := []struct {
		typ  Type
		want bool
	}{
		{Scalar(Bool), true},
		{Scalar(I32), true},
		{Scalar(Void), false},
		{Scalar(Function), false},
		{Vector(Bool, "bool", 4), false},
	}
	for _, tt := range tests {
		if got := tt.typ.IsBoolCompatibleScalar(); got != tt.want {
			t.Errorf("%+v.IsBoolCompatibleScalar() = %v, want %v", tt.typ, got, tt.want)
		}
	}
}

func TestName(t *testing.T) {
	tests := []struct {
		typ  Type
		want string
	}{
		{Scalar(I32), "i32"},
		{Scalar(Bool), "bool"},
		{Vector(I32, "i32", 4), "i32x4"},
		{Vector(Bool, "", 8), "boolx8"},
	}
	for _, tt := range tests {
		if got := Name(tt.typ); got != tt.want {
			t.Errorf("Name(%+v) = %q, want %q", tt.typ, got, tt.want)
		}
	}
}
