package spec

import (
    "encoding/json"
    "fmt"
    "strings"

    "gopkg.in/yaml.v3"
)

// Format selects the surface syntax of the input document. It is an explicit
// parameter, never auto-detected.
type Format string

const (
    FormatYAML Format = "yaml"
    FormatJSON Format = "json"
)

// Parse hands the raw document to the format parser and returns the generic
// node tree's root mapping. Both formats decode through yaml.v3 because its
// mapping nodes preserve source key order, which downstream output
// determinism depends on; JSON is a subset of the YAML grammar, but the json
// format still insists the input is strict JSON.
func Parse(content []byte, format Format) (*yaml.Node, error) {
    switch format {
    case FormatYAML, "":
    case FormatJSON:
        if !json.Valid(content) {
            return nil, malformedErr("", "input is not valid JSON")
        }
    default:
        return nil, &SpecError{Kind: InputError, Message: fmt.Sprintf("unsupported format %q (yaml|json)", format)}
    }

    var root yaml.Node
    if err := yaml.Unmarshal(content, &root); err != nil {
        return nil, &SpecError{Kind: MalformedDocument, Message: fmt.Sprintf("parse document: %v", err), Cause: err}
    }
    if root.Kind != yaml.DocumentNode || len(root.Content) == 0 {
        return nil, malformedErr("", "document is empty")
    }
    top := deref(root.Content[0])
    if top.Kind != yaml.MappingNode {
        return nil, malformedErr("", "top level must be a mapping")
    }
    return top, nil
}

// deref follows a YAML alias to its anchor target.
func deref(n *yaml.Node) *yaml.Node {
    for n != nil && n.Kind == yaml.AliasNode && n.Alias != nil {
        n = n.Alias
    }
    return n
}

func isMapping(n *yaml.Node) bool { return n != nil && deref(n).Kind == yaml.MappingNode }

// mapGet returns the value node for key, or nil.
func mapGet(n *yaml.Node, key string) *yaml.Node {
    n = deref(n)
    if n == nil || n.Kind != yaml.MappingNode {
        return nil
    }
    for i := 0; i+1 < len(n.Content); i += 2 {
        if n.Content[i].Value == key {
            return deref(n.Content[i+1])
        }
    }
    return nil
}

// eachPair visits the entries of a mapping node in source order.
func eachPair(n *yaml.Node, fn func(key string, val *yaml.Node) error) error {
    n = deref(n)
    if n == nil || n.Kind != yaml.MappingNode {
        return nil
    }
    for i := 0; i+1 < len(n.Content); i += 2 {
        if err := fn(n.Content[i].Value, deref(n.Content[i+1])); err != nil {
            return err
        }
    }
    return nil
}

// seqItems returns the item nodes of a sequence, or nil for anything else.
func seqItems(n *yaml.Node) []*yaml.Node {
    n = deref(n)
    if n == nil || n.Kind != yaml.SequenceNode {
        return nil
    }
    out := make([]*yaml.Node, 0, len(n.Content))
    for _, c := range n.Content {
        out = append(out, deref(c))
    }
    return out
}

// scalarString returns the string value of a scalar node.
func scalarString(n *yaml.Node) (string, bool) {
    n = deref(n)
    if n == nil || n.Kind != yaml.ScalarNode {
        return "", false
    }
    return n.Value, true
}

// scalarBool reads a boolean scalar, defaulting to def for anything else.
func scalarBool(n *yaml.Node, def bool) bool {
    n = deref(n)
    if n == nil || n.Kind != yaml.ScalarNode || n.ShortTag() != "!!bool" {
        return def
    }
    return strings.EqualFold(n.Value, "true")
}

// stringList reads a sequence of string scalars, skipping anything else.
func stringList(n *yaml.Node) []string {
    items := seqItems(n)
    if len(items) == 0 {
        return nil
    }
    out := make([]string, 0, len(items))
    for _, it := range items {
        if s, ok := scalarString(it); ok {
            out = append(out, s)
        }
    }
    return out
}
