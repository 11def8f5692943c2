package pyemitter

import (
	"testing"

	genspec "github.com/pytypegen/pytypegen/internal/spec"
)

func TestTypeExpr_MappingTable(t *testing.T) {
	t.Parallel()
	cases := []struct {
		name string
		node *genspec.SchemaNode
		want string
	}{
		{"string", &genspec.SchemaNode{Kind: genspec.KindPrimitive, Primitive: genspec.StringKind}, "str"},
		{"integer", &genspec.SchemaNode{Kind: genspec.KindPrimitive, Primitive: genspec.IntegerKind}, "int"},
		{"number", &genspec.SchemaNode{Kind: genspec.KindPrimitive, Primitive: genspec.NumberKind}, "float"},
		{"boolean", &genspec.SchemaNode{Kind: genspec.KindPrimitive, Primitive: genspec.BooleanKind}, "bool"},
		{"ref", &genspec.SchemaNode{Kind: genspec.KindRef, Ref: "Pet"}, "Pet"},
		{"array", &genspec.SchemaNode{Kind: genspec.KindArray, Items: &genspec.SchemaNode{Kind: genspec.KindRef, Ref: "Pet"}}, "list[Pet]"},
		{"nested array", &genspec.SchemaNode{Kind: genspec.KindArray, Items: &genspec.SchemaNode{Kind: genspec.KindArray, Items: &genspec.SchemaNode{Kind: genspec.KindPrimitive, Primitive: genspec.StringKind}}}, "list[list[str]]"},
		{"unsupported", &genspec.SchemaNode{Kind: genspec.KindUnsupported}, "Any"},
		{"nil", nil, "Any"},
		{"nullable string", &genspec.SchemaNode{Kind: genspec.KindPrimitive, Primitive: genspec.StringKind, Nullable: true}, "str | None"},
		{"enum", &genspec.SchemaNode{Kind: genspec.KindEnum, Enum: []genspec.EnumValue{
			{Kind: genspec.StringKind, Literal: "a"},
			{Kind: genspec.IntegerKind, Literal: "1"},
			{Kind: genspec.BooleanKind, Literal: "true"},
		}}, "Literal['a', 1, True]"},
	}
	for _, tc := range cases {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()
			m := newMapper()
			if got := m.typeExpr(tc.node); got != tc.want {
				t.Fatalf("typeExpr = %q, want %q", got, tc.want)
			}
		})
	}
}

func TestTypeExpr_QuotesAndEscapes(t *testing.T) {
	t.Parallel()
	m := newMapper()
	got := m.typeExpr(&genspec.SchemaNode{Kind: genspec.KindEnum, Enum: []genspec.EnumValue{
		{Kind: genspec.StringKind, Literal: "it's"},
		{Kind: genspec.StringKind, Literal: `back\slash`},
	}})
	want := `Literal['it\'s', 'back\\slash']`
	if got != want {
		t.Fatalf("got %q, want %q", got, want)
	}
}

func TestImportLine_SortedAndOnDemand(t *testing.T) {
	t.Parallel()
	m := newMapper()
	if line := m.importLine(); line != "" {
		t.Fatalf("expected empty import line, got %q", line)
	}
	m.need("TypedDict")
	m.need("Any")
	m.need("Literal")
	want := "from typing import Any, Literal, TypedDict"
	if line := m.importLine(); line != want {
		t.Fatalf("got %q, want %q", line, want)
	}
}

func TestWrappers(t *testing.T) {
	t.Parallel()
	m := newMapper()
	if got := m.optional("int"); got != "Optional[int]" {
		t.Fatalf("optional: %q", got)
	}
	if got := m.notRequired("str"); got != "NotRequired[str]" {
		t.Fatalf("notRequired: %q", got)
	}
	if !m.imports["Optional"] || !m.imports["NotRequired"] {
		t.Fatalf("imports not recorded: %v", m.imports)
	}
}
