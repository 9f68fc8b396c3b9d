package errors

import (
	"strings"
	"testing"
)

func TestParseWireFormat(t *testing.T) {
	d := Parse("error:3:7: undefined identifier 'x' [O3S202]")
	if d.Line != 3 || d.Column != 7 || d.Message != "undefined identifier 'x'" || d.Code != "O3S202" {
		t.Fatalf("Parse() = %+v, want Line:3 Column:7 Message:\"undefined identifier 'x'\" Code:O3S202", d)
	}
}

func TestParseNonWireFormatFallsBackToRaw(t *testing.T) {
	d := Parse("not a diagnostic")
	if d.Message != "not a diagnostic" || d.Line != 0 || d.Column != 0 {
		t.Fatalf("Parse(non-wire) = %+v, want Message set, Line/Column zero", d)
	}
}

func TestRenderIncludesSourceLineAndCaret(t *testing.T) {
	source := "let x = 1;\nlet y = x + z;\n"
	out := Render("error:2:13: undefined identifier 'z' [O3S202]", source, "prog.o3", false)

	if !strings.Contains(out, "prog.o3:2:13:") {
		t.Fatalf("Render() = %q, missing file:line:col header", out)
	}
	if !strings.Contains(out, "let y = x + z;") {
		t.Fatalf("Render() = %q, missing source excerpt", out)
	}
	if !strings.Contains(out, "^") {
		t.Fatalf("Render() = %q, missing caret", out)
	}
}

func TestRenderWithoutSourceSkipsExcerpt(t *testing.T) {
	out := Render("error:1:1: x [O3S202]", "", "", false)
	if strings.Contains(out, "^") {
		t.Fatalf("Render() with no source = %q, should not print a caret line", out)
	}
}

func TestRenderAllEmpty(t *testing.T) {
	if got := RenderAll(nil, "", "", false); got != "" {
		t.Fatalf("RenderAll(nil) = %q, want empty string", got)
	}
}

func TestRenderAllSingleOmitsSummaryHeader(t *testing.T) {
	out := RenderAll([]string{"error:1:1: x [O3S202]"}, "", "", false)
	if strings.Contains(out, "diagnostic(s):") {
		t.Fatalf("RenderAll(one diag) = %q, should not print the N-diagnostics summary header", out)
	}
}

func TestRenderAllMultiplePrintsSummaryHeader(t *testing.T) {
	diags := []string{"error:1:1: x [O3S202]", "error:2:1: y [O3S203]"}
	out := RenderAll(diags, "", "", false)
	if !strings.Contains(out, "2 diagnostic(s):") {
		t.Fatalf("RenderAll(two diags) = %q, want a 2-diagnostics summary header", out)
	}
}
