package typegen

import (
	"github.com/pytypegen/pytypegen/internal/emitter/pyemitter"
	"github.com/pytypegen/pytypegen/internal/spec"
)

// Format selects the surface syntax of the input document.
type Format = spec.Format

const (
	FormatYAML = spec.FormatYAML
	FormatJSON = spec.FormatJSON
)

// Generate turns an OpenAPI document into Python type declarations: one
// TypedDict or type alias per named schema in dependency order, then one
// Protocol per operation in source order.
//
// Generation is a pure transformation. It either returns the complete output
// string or an error; partial output is never returned. Errors are
// *spec.SpecError values (possibly joined), carrying a kind and the name of
// the offending schema or operation.
func Generate(content []byte, format Format) (string, error) {
	root, err := spec.Parse(content, format)
	if err != nil {
		return "", err
	}
	doc, err := spec.BuildDocument(root)
	if err != nil {
		return "", err
	}
	return pyemitter.Emit(doc)
}
