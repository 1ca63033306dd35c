package errors

import (
	"strings"
	"testing"

	"github.com/vexel-lang/vexel/internal/ast"
)

func TestDiagnosticError(t *testing.T) {
	d := New(SEM001, PhaseTypeChecker, ast.Pos{File: "a.vx", Line: 3, Column: 5}, "type mismatch")
	if !strings.Contains(d.Error(), "SEM001") {
		t.Fatalf("expected code in error string, got %q", d.Error())
	}
	d.WithSuggestion("add an explicit cast")
	if !strings.Contains(d.Error(), "add an explicit cast") {
		t.Fatalf("expected suggestion in error string, got %q", d.Error())
	}
}

func TestListAccumulatesAndKeepsGoing(t *testing.T) {
	var l List
	l.Add(New(RES001, PhaseResolver, ast.Pos{}, "undefined identifier: x"))
	l.Add(New(RES001, PhaseResolver, ast.Pos{}, "undefined identifier: y"))
	if !l.HasErrors() {
		t.Fatalf("expected HasErrors true")
	}
	if len(l.Items()) != 2 {
		t.Fatalf("expected 2 items, got %d", len(l.Items()))
	}
	if !strings.Contains(l.Error(), "and 1 more") {
		t.Fatalf("expected summarized message, got %q", l.Error())
	}
}

func TestDiagnosticJSONRoundTrip(t *testing.T) {
	d := New(CTE001, PhaseCTE, ast.Pos{File: "b.vx", Line: 1, Column: 1}, "division by zero")
	js, err := d.ToJSON()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !strings.Contains(js, "CTE001") || !strings.Contains(js, "vexel.diagnostic/v1") {
		t.Fatalf("unexpected json: %s", js)
	}
}
