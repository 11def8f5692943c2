package spec

import (
    "errors"
    "testing"

    "gopkg.in/yaml.v3"
)

func TestParse_YAMLMapping(t *testing.T) {
    t.Parallel()
    root, err := Parse([]byte("openapi: 3.0.0\ninfo:\n  title: T\n"), FormatYAML)
    if err != nil {
        t.Fatalf("parse: %v", err)
    }
    if root.Kind != yaml.MappingNode {
        t.Fatalf("expected mapping root, got kind %v", root.Kind)
    }
    if v, ok := scalarString(mapGet(root, "openapi")); !ok || v != "3.0.0" {
        t.Fatalf("openapi key: got %q ok=%v", v, ok)
    }
}

func TestParse_JSONFormat(t *testing.T) {
    t.Parallel()
    root, err := Parse([]byte(`{"openapi": "3.0.0", "info": {"title": "T"}}`), FormatJSON)
    if err != nil {
        t.Fatalf("parse: %v", err)
    }
    if mapGet(root, "info") == nil {
        t.Fatalf("expected info key")
    }
}

func TestParse_JSONFormatRejectsYAML(t *testing.T) {
    t.Parallel()
    // The format is explicit: yaml content under the json format is an error
    // even though the yaml parser could read it.
    _, err := Parse([]byte("openapi: 3.0.0\n"), FormatJSON)
    if err == nil {
        t.Fatalf("expected error for yaml content under json format")
    }
    var se *SpecError
    if !errors.As(err, &se) || se.Kind != MalformedDocument {
        t.Fatalf("expected MalformedDocument, got %v (%T)", err, err)
    }
}

func TestParse_UnknownFormat(t *testing.T) {
    t.Parallel()
    _, err := Parse([]byte("{}"), Format("toml"))
    var se *SpecError
    if !errors.As(err, &se) || se.Kind != InputError {
        t.Fatalf("expected InputError, got %v (%T)", err, err)
    }
}

func TestParse_EmptyAndScalarDocuments(t *testing.T) {
    t.Parallel()
    for _, content := range []string{"", "just a scalar", "- a\n- list\n"} {
        if _, err := Parse([]byte(content), FormatYAML); err == nil {
            t.Errorf("expected error for %q", content)
        }
    }
}

func TestMapGet_PreservesOrderAndAliases(t *testing.T) {
    t.Parallel()
    content := `
base: &b
  x: 1
derived: *b
first: 1
second: 2
`
    root, err := Parse([]byte(content), FormatYAML)
    if err != nil {
        t.Fatalf("parse: %v", err)
    }
    derived := mapGet(root, "derived")
    if derived == nil || derived.Kind != yaml.MappingNode {
        t.Fatalf("alias not followed: %v", derived)
    }
    var keys []string
    _ = eachPair(root, func(key string, _ *yaml.Node) error {
        keys = append(keys, key)
        return nil
    })
    want := []string{"base", "derived", "first", "second"}
    if len(keys) != len(want) {
        t.Fatalf("keys: got %v", keys)
    }
    for i := range want {
        if keys[i] != want[i] {
            t.Fatalf("key order: got %v, want %v", keys, want)
        }
    }
}
