package typegen

import (
	"errors"
	"strings"
	"testing"

	genspec "github.com/pytypegen/pytypegen/internal/spec"
)

const sampleYAML = `openapi: 3.0.0
info:
  title: Store API
  version: "1.0.0"
components:
  schemas:
    Person:
      type: object
      required:
        - name
      properties:
        name:
          type: string
        age:
          type: integer
    Status:
      type: string
      enum:
        - active
        - inactive
        - pending
paths:
  /items/{id}:
    get:
      operationId: getItem
      parameters:
        - name: id
          in: path
          required: true
          schema:
            type: integer
      responses:
        "200":
          description: ok
          content:
            application/json:
              schema:
                type: object
                properties:
                  value:
                    type: string
`

func TestGenerate_EndToEnd(t *testing.T) {
	t.Parallel()
	out, err := Generate([]byte(sampleYAML), FormatYAML)
	if err != nil {
		t.Fatalf("generate: %v", err)
	}

	for _, want := range []string{
		"class Person(TypedDict):",
		"    name: str\n",
		"    age: NotRequired[int]\n",
		"Status = Literal['active', 'inactive', 'pending']",
		"class GetItemProtocol(Protocol):",
		"GET /items/{id}",
		"        id: int,\n",
		") -> GetItemResponse: ...",
	} {
		if !strings.Contains(out, want) {
			t.Errorf("output missing %q:\n%s", want, out)
		}
	}
}

func TestGenerate_Idempotent(t *testing.T) {
	t.Parallel()
	first, err := Generate([]byte(sampleYAML), FormatYAML)
	if err != nil {
		t.Fatalf("generate: %v", err)
	}
	second, err := Generate([]byte(sampleYAML), FormatYAML)
	if err != nil {
		t.Fatalf("generate: %v", err)
	}
	if first != second {
		t.Fatalf("output not byte-identical")
	}
}

func TestGenerate_JSONFormat(t *testing.T) {
	t.Parallel()
	content := `{
  "openapi": "3.0.0",
  "info": {"title": "T", "version": "1"},
  "components": {"schemas": {"Flag": {"type": "boolean"}}}
}`
	out, err := Generate([]byte(content), FormatJSON)
	if err != nil {
		t.Fatalf("generate: %v", err)
	}
	if !strings.Contains(out, "Flag = bool\n") {
		t.Fatalf("output:\n%s", out)
	}
}

func TestGenerate_NoPartialOutputOnError(t *testing.T) {
	t.Parallel()
	content := `openapi: 3.0.0
info:
  title: T
  version: "1"
components:
  schemas:
    A:
      type: object
      properties:
        b:
          $ref: '#/components/schemas/Missing'
`
	out, err := Generate([]byte(content), FormatYAML)
	if err == nil {
		t.Fatalf("expected unresolved reference error")
	}
	if out != "" {
		t.Fatalf("partial output returned: %q", out)
	}
	var se *genspec.SpecError
	if !errors.As(err, &se) || se.Kind != genspec.UnresolvedReference {
		t.Fatalf("expected UnresolvedReference, got %v", err)
	}
}

func TestGenerate_CyclicReferences(t *testing.T) {
	t.Parallel()
	content := `openapi: 3.0.0
info:
  title: T
  version: "1"
components:
  schemas:
    A:
      type: object
      properties:
        b:
          $ref: '#/components/schemas/B'
    B:
      type: object
      properties:
        a:
          $ref: '#/components/schemas/A'
`
	out, err := Generate([]byte(content), FormatYAML)
	if err != nil {
		t.Fatalf("generate: %v", err)
	}
	if !strings.Contains(out, "class A(TypedDict):") || !strings.Contains(out, "class B(TypedDict):") {
		t.Fatalf("both cycle members must be declared:\n%s", out)
	}
	if !strings.Contains(out, "b: NotRequired[B]") || !strings.Contains(out, "a: NotRequired[A]") {
		t.Fatalf("cycle members must reference each other by name:\n%s", out)
	}
}
