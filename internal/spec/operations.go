package spec

import (
    "strconv"
    "strings"

    "gopkg.in/yaml.v3"
)

// extractOperations derives one Operation per (path, method) pair, in source
// path order with a stable method order inside each path item.
func extractOperations(paths *yaml.Node) ([]Operation, error) {
    var ops []Operation
    err := eachPair(paths, func(path string, item *yaml.Node) error {
        if !isMapping(item) {
            return malformedErr(path, "path item must be a mapping")
        }
        pathParams, err := parseParameterList(mapGet(item, "parameters"), path)
        if err != nil {
            return err
        }
        for _, method := range methodOrder {
            opNode := mapGet(item, string(method))
            if opNode == nil {
                continue
            }
            if !isMapping(opNode) {
                return malformedErr(strings.ToUpper(string(method))+" "+path, "operation must be a mapping")
            }
            op, err := buildOperation(path, method, opNode, pathParams)
            if err != nil {
                return err
            }
            ops = append(ops, *op)
        }
        return nil
    })
    if err != nil {
        return nil, err
    }
    return ops, nil
}

func buildOperation(path string, method HttpMethod, opNode *yaml.Node, pathParams []Parameter) (*Operation, error) {
    subject := strings.ToUpper(string(method)) + " " + path
    id, ok := scalarString(mapGet(opNode, "operationId"))
    if !ok || strings.TrimSpace(id) == "" {
        return nil, &SpecError{
            Kind:    MissingOperationID,
            Message: "operationId is required to derive generated names",
            Subject: subject,
        }
    }

    opParams, err := parseParameterList(mapGet(opNode, "parameters"), subject)
    if err != nil {
        return nil, err
    }

    op := &Operation{
        ID:         id,
        Method:     method,
        Path:       path,
        Parameters: mergeParameters(pathParams, opParams),
    }
    if summary, ok := scalarString(mapGet(opNode, "summary")); ok {
        op.Summary = strings.TrimSpace(summary)
    }

    if body := mapGet(opNode, "requestBody"); isMapping(body) {
        op.BodyRequired = scalarBool(mapGet(body, "required"), false)
        if schema := jsonContentSchema(mapGet(body, "content")); schema != nil {
            node, perr := parseSchema(schema, subject, 0)
            if perr != nil {
                return nil, perr
            }
            op.RequestBody = node
        }
    }

    if err := pickResponse(op, mapGet(opNode, "responses"), subject); err != nil {
        return nil, err
    }
    return op, nil
}

// mergeParameters layers operation-level parameters over path-level ones.
// An operation parameter replaces a path parameter with the same name and
// location in place; new ones append in their declared order.
func mergeParameters(pathParams, opParams []Parameter) []Parameter {
    merged := append([]Parameter(nil), pathParams...)
    for _, p := range opParams {
        replaced := false
        for i := range merged {
            if merged[i].Name == p.Name && merged[i].In == p.In {
                merged[i] = p
                replaced = true
                break
            }
        }
        if !replaced {
            merged = append(merged, p)
        }
    }
    return merged
}

func parseParameterList(n *yaml.Node, subject string) ([]Parameter, error) {
    var out []Parameter
    for _, item := range seqItems(n) {
        if !isMapping(item) {
            continue
        }
        // Shared parameter components are out of scope; skip $ref entries.
        if mapGet(item, "$ref") != nil {
            continue
        }
        name, ok := scalarString(mapGet(item, "name"))
        if !ok || name == "" {
            continue
        }
        in, _ := scalarString(mapGet(item, "in"))
        p := Parameter{
            Name:     name,
            In:       ParameterLocation(in),
            Required: scalarBool(mapGet(item, "required"), false),
        }
        // Path parameters are required regardless of the flag.
        if p.In == InPath {
            p.Required = true
        }
        if schemaNode := mapGet(item, "schema"); schemaNode != nil {
            node, err := parseSchema(schemaNode, subject, 0)
            if err != nil {
                return nil, err
            }
            p.Schema = node
        } else {
            p.Schema = &SchemaNode{Kind: KindUnsupported}
        }
        out = append(out, p)
    }
    return out, nil
}

// pickResponse selects the success response body: the lowest 2xx status
// wins, application/json is preferred among its content types, and 204
// yields an explicit no-content marker.
func pickResponse(op *Operation, responses *yaml.Node, subject string) error {
    if !isMapping(responses) {
        return nil
    }
    best := -1
    var bestNode *yaml.Node
    _ = eachPair(responses, func(code string, val *yaml.Node) error {
        status, err := strconv.Atoi(code)
        if err != nil || status < 200 || status > 299 {
            return nil
        }
        if best == -1 || status < best {
            best = status
            bestNode = val
        }
        return nil
    })
    if best == -1 {
        return nil
    }
    if best == 204 {
        op.NoContent = true
        return nil
    }
    if !isMapping(bestNode) {
        return nil
    }
    schema := jsonContentSchema(mapGet(bestNode, "content"))
    if schema == nil {
        return nil
    }
    node, err := parseSchema(schema, subject, 0)
    if err != nil {
        return err
    }
    op.Response = node
    return nil
}

// jsonContentSchema picks the schema node out of a content mapping,
// preferring application/json and falling back to the first media type.
func jsonContentSchema(content *yaml.Node) *yaml.Node {
    if !isMapping(content) {
        return nil
    }
    if media := mapGet(content, "application/json"); isMapping(media) {
        return mapGet(media, "schema")
    }
    var first *yaml.Node
    _ = eachPair(content, func(_ string, val *yaml.Node) error {
        if first == nil && isMapping(val) {
            first = mapGet(val, "schema")
        }
        return nil
    })
    return first
}
