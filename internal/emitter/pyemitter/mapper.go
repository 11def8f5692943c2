package pyemitter

import (
	"fmt"
	"sort"
	"strings"

	genspec "github.com/pytypegen/pytypegen/internal/spec"
)

// mapper converts SchemaNodes into Python type expressions and tracks which
// typing names the output file needs to import.
type mapper struct {
	imports map[string]bool
}

func newMapper() *mapper {
	return &mapper{imports: make(map[string]bool)}
}

func (m *mapper) need(name string) { m.imports[name] = true }

// importLine renders the typing import for everything the mapping used, or
// an empty string when nothing was needed.
func (m *mapper) importLine() string {
	if len(m.imports) == 0 {
		return ""
	}
	names := make([]string, 0, len(m.imports))
	for name := range m.imports {
		names = append(names, name)
	}
	sort.Strings(names)
	return "from typing import " + strings.Join(names, ", ")
}

// typeExpr maps a schema node to a Python type expression. Objects never
// reach this point inline: the resolver hoists every anonymous object into
// the named table, so records are always referenced by name.
func (m *mapper) typeExpr(n *genspec.SchemaNode) string {
	if n == nil {
		m.need("Any")
		return "Any"
	}
	var expr string
	switch n.Kind {
	case genspec.KindPrimitive:
		expr = pyScalar(n.Primitive)
	case genspec.KindEnum:
		m.need("Literal")
		expr = literalUnion(n.Enum)
	case genspec.KindArray:
		expr = "list[" + m.typeExpr(n.Items) + "]"
	case genspec.KindRef:
		expr = n.Ref
	case genspec.KindObject:
		// Only a top-level named record carries KindObject; as an inline
		// expression it degrades to an open mapping.
		m.need("Any")
		expr = "dict[str, Any]"
	default:
		m.need("Any")
		expr = "Any"
	}
	if n.Nullable {
		expr += " | None"
	}
	return expr
}

// optional wraps a type for a not-required field or parameter.
func (m *mapper) optional(expr string) string {
	m.need("Optional")
	return "Optional[" + expr + "]"
}

// notRequired wraps a TypedDict field whose property is absent from the
// schema's required list.
func (m *mapper) notRequired(expr string) string {
	m.need("NotRequired")
	return "NotRequired[" + expr + "]"
}

func pyScalar(kind genspec.PrimitiveKind) string {
	switch kind {
	case genspec.StringKind:
		return "str"
	case genspec.IntegerKind:
		return "int"
	case genspec.NumberKind:
		return "float"
	case genspec.BooleanKind:
		return "bool"
	}
	return "str"
}

// literalUnion renders a closed value set as Literal[...], values verbatim
// in source order. Strings are single-quoted the way ast.unparse does it.
func literalUnion(values []genspec.EnumValue) string {
	parts := make([]string, 0, len(values))
	for _, v := range values {
		parts = append(parts, pyLiteral(v))
	}
	return "Literal[" + strings.Join(parts, ", ") + "]"
}

func pyLiteral(v genspec.EnumValue) string {
	switch v.Kind {
	case genspec.BooleanKind:
		if strings.EqualFold(v.Literal, "true") {
			return "True"
		}
		return "False"
	case genspec.IntegerKind, genspec.NumberKind:
		return v.Literal
	default:
		return quotePy(v.Literal)
	}
}

// quotePy single-quotes a string literal, escaping backslashes and quotes.
func quotePy(s string) string {
	s = strings.ReplaceAll(s, `\`, `\\`)
	s = strings.ReplaceAll(s, "'", `\'`)
	return fmt.Sprintf("'%s'", s)
}
