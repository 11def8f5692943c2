package pyemitter

import (
	"fmt"
	"strings"

	genspec "github.com/pytypegen/pytypegen/internal/spec"
)

// Emit renders the document as one Python source string: named type
// declarations in dependency order, then one Protocol per operation in
// source order. Output is deterministic for identical input.
//
// Cyclic schema groups are emitted contiguously; the leading
// `from __future__ import annotations` makes the forward references inside
// such a group legal.
func Emit(doc *genspec.Document) (string, error) {
	if doc == nil {
		return "", fmt.Errorf("pyemitter: nil document")
	}

	m := newMapper()
	var blocks []string

	for _, group := range doc.Groups {
		for _, name := range group {
			node, ok := doc.Schema(name)
			if !ok {
				return "", fmt.Errorf("pyemitter: named schema %q missing from table", name)
			}
			blocks = append(blocks, renderNamed(m, name, node))
		}
	}

	for i := range doc.Operations {
		blocks = append(blocks, renderProtocol(m, &doc.Operations[i]))
	}

	var b strings.Builder
	b.WriteString("from __future__ import annotations\n")
	if imports := m.importLine(); imports != "" {
		b.WriteString(imports)
		b.WriteString("\n")
	}
	for _, block := range blocks {
		b.WriteString("\n")
		b.WriteString(block)
	}
	return b.String(), nil
}

// renderNamed renders one named-schema table entry: objects become TypedDict
// classes, everything else becomes a type alias assignment.
func renderNamed(m *mapper, name string, node *genspec.SchemaNode) string {
	if node.Kind != genspec.KindObject {
		return fmt.Sprintf("%s = %s\n", name, m.typeExpr(node))
	}

	m.need("TypedDict")
	var b strings.Builder
	fmt.Fprintf(&b, "class %s(TypedDict):\n", name)
	if len(node.Properties) == 0 {
		b.WriteString("    pass\n")
		return b.String()
	}
	for _, p := range node.Properties {
		expr := m.typeExpr(p.Schema)
		if !node.Required[p.Name] {
			expr = m.notRequired(expr)
		}
		fmt.Fprintf(&b, "    %s: %s\n", p.Name, expr)
	}
	return b.String()
}

// renderProtocol renders an operation as a Protocol class whose __call__
// carries one argument per parameter (plus the request body) and returns the
// success response type. The docstring names the HTTP method and path.
func renderProtocol(m *mapper, op *genspec.Operation) string {
	m.need("Protocol")

	type arg struct {
		name     string
		expr     string
		optional bool
	}
	var required, optional []arg
	for _, p := range op.Parameters {
		a := arg{name: p.Name, expr: m.typeExpr(p.Schema)}
		if p.Required {
			required = append(required, a)
		} else {
			a.expr = m.optional(a.expr)
			a.optional = true
			optional = append(optional, a)
		}
	}
	if op.RequestBody != nil {
		a := arg{name: "body", expr: m.typeExpr(op.RequestBody)}
		if op.BodyRequired {
			required = append(required, a)
		} else {
			a.expr = m.optional(a.expr)
			a.optional = true
			optional = append(optional, a)
		}
	}
	// Defaulted arguments must follow the required ones in Python.
	args := append(required, optional...)

	ret := "None"
	switch {
	case op.NoContent:
		ret = "None"
	case op.Response == nil:
		m.need("Any")
		ret = "Any"
	default:
		ret = m.typeExpr(op.Response)
	}

	var b strings.Builder
	fmt.Fprintf(&b, "class %s(Protocol):\n", genspec.Pascal(op.ID)+"Protocol")

	methodPath := strings.ToUpper(string(op.Method)) + " " + op.Path
	if op.Summary != "" {
		fmt.Fprintf(&b, "    \"\"\"%s\n\n    %s\n    \"\"\"\n", op.Summary, methodPath)
	} else {
		fmt.Fprintf(&b, "    \"\"\"%s\"\"\"\n", methodPath)
	}

	if len(args) == 0 {
		fmt.Fprintf(&b, "\n    def __call__(self) -> %s: ...\n", ret)
		return b.String()
	}
	b.WriteString("\n    def __call__(\n        self,\n")
	for _, a := range args {
		if a.optional {
			fmt.Fprintf(&b, "        %s: %s = None,\n", a.name, a.expr)
		} else {
			fmt.Fprintf(&b, "        %s: %s,\n", a.name, a.expr)
		}
	}
	fmt.Fprintf(&b, "    ) -> %s: ...\n", ret)
	return b.String()
}
