package spec

import (
    "strings"

    "gopkg.in/yaml.v3"
)

// BuildDocument translates the generic parse tree into a Document: the
// named-schema table in declaration order, the operations in source order,
// and the declaration order over the table. The tree is read to completion
// before anything downstream maps from the table.
func BuildDocument(root *yaml.Node) (*Document, error) {
    if root == nil || deref(root).Kind != yaml.MappingNode {
        return nil, malformedErr("", "top level must be a mapping")
    }

    version, ok := scalarString(mapGet(root, "openapi"))
    if !ok {
        return nil, malformedErr("", "missing required top-level key \"openapi\"")
    }
    if !strings.HasPrefix(strings.TrimSpace(version), "3.") {
        return nil, malformedErr("", "unsupported document version "+version+" (OpenAPI 3.x required)")
    }
    if mapGet(root, "info") == nil {
        return nil, malformedErr("", "missing required top-level key \"info\"")
    }

    doc := &Document{}

    // Named-schema table first, in document order. Unknown top-level and
    // component keys are ignored for forward compatibility.
    if components := mapGet(root, "components"); components != nil {
        if !isMapping(components) {
            return nil, malformedErr("components", "must be a mapping")
        }
        if schemas := mapGet(components, "schemas"); schemas != nil {
            if !isMapping(schemas) {
                return nil, malformedErr("components.schemas", "must be a mapping")
            }
            err := eachPair(schemas, func(name string, val *yaml.Node) error {
                if !isMapping(val) {
                    return malformedErr(name, "schema must be a mapping")
                }
                node, perr := parseSchema(val, name, 0)
                if perr != nil {
                    return perr
                }
                doc.addSchema(name, node)
                return nil
            })
            if err != nil {
                return nil, err
            }
        }
    }

    if paths := mapGet(root, "paths"); paths != nil {
        if !isMapping(paths) {
            return nil, malformedErr("paths", "must be a mapping")
        }
        ops, err := extractOperations(paths)
        if err != nil {
            return nil, err
        }
        doc.Operations = ops
    }

    if err := doc.hoistAnonymous(); err != nil {
        return nil, err
    }
    if err := doc.checkReferences(); err != nil {
        return nil, err
    }
    doc.computeGroups()
    return doc, nil
}
