package spec

import (
    "errors"
    "fmt"
    "sort"
    "strings"

    "gopkg.in/yaml.v3"
)

const (
    refPrefix = "#/components/schemas/"

    // maxSchemaDepth bounds recursion when parsing and hoisting nested
    // anonymous schemas, so pathological inputs fail instead of
    // overflowing the stack.
    maxSchemaDepth = 64
)

// parseSchema converts one raw schema fragment into a SchemaNode by a single
// recursive descent. References stay unresolved Ref nodes; they are checked
// against the finished table later, which is what makes cyclic schema graphs
// representable.
func parseSchema(n *yaml.Node, subject string, depth int) (*SchemaNode, error) {
    if depth > maxSchemaDepth {
        return nil, depthErr(subject)
    }
    n = deref(n)
    if n == nil || n.Kind != yaml.MappingNode {
        return &SchemaNode{Kind: KindUnsupported}, nil
    }

    if refNode := mapGet(n, "$ref"); refNode != nil {
        ref, ok := scalarString(refNode)
        if ok && strings.HasPrefix(ref, refPrefix) {
            return &SchemaNode{Kind: KindRef, Ref: strings.TrimPrefix(ref, refPrefix)}, nil
        }
        // External or non-schema pointers are out of scope.
        return &SchemaNode{Kind: KindUnsupported}, nil
    }

    nullable := scalarBool(mapGet(n, "nullable"), false)

    // Composition keywords degrade to the opaque fallback, never abort.
    for _, kw := range []string{"oneOf", "anyOf", "allOf", "not"} {
        if mapGet(n, kw) != nil {
            return &SchemaNode{Kind: KindUnsupported, Nullable: nullable}, nil
        }
    }

    typ, _ := scalarString(mapGet(n, "type"))

    if enumNode := mapGet(n, "enum"); enumNode != nil {
        if values := parseEnumValues(enumNode, typ); len(values) > 0 {
            return &SchemaNode{Kind: KindEnum, Enum: values, Nullable: nullable}, nil
        }
        return &SchemaNode{Kind: KindUnsupported, Nullable: nullable}, nil
    }

    switch typ {
    case "string", "integer", "number", "boolean":
        return &SchemaNode{Kind: KindPrimitive, Primitive: PrimitiveKind(typ), Nullable: nullable}, nil
    case "array":
        items := mapGet(n, "items")
        if items == nil {
            return &SchemaNode{Kind: KindArray, Items: &SchemaNode{Kind: KindUnsupported}, Nullable: nullable}, nil
        }
        itemNode, err := parseSchema(items, subject, depth+1)
        if err != nil {
            return nil, err
        }
        return &SchemaNode{Kind: KindArray, Items: itemNode, Nullable: nullable}, nil
    case "object":
        return parseObjectSchema(n, subject, depth, nullable)
    case "":
        if mapGet(n, "properties") != nil {
            return parseObjectSchema(n, subject, depth, nullable)
        }
        return &SchemaNode{Kind: KindUnsupported, Nullable: nullable}, nil
    default:
        // Unknown type keyword.
        return &SchemaNode{Kind: KindUnsupported, Nullable: nullable}, nil
    }
}

func parseObjectSchema(n *yaml.Node, subject string, depth int, nullable bool) (*SchemaNode, error) {
    node := &SchemaNode{Kind: KindObject, Nullable: nullable, Required: map[string]bool{}}
    for _, name := range stringList(mapGet(n, "required")) {
        node.Required[name] = true
    }
    err := eachPair(mapGet(n, "properties"), func(name string, val *yaml.Node) error {
        prop, perr := parseSchema(val, subject, depth+1)
        if perr != nil {
            return perr
        }
        node.Properties = append(node.Properties, Property{Name: name, Schema: prop})
        return nil
    })
    if err != nil {
        return nil, err
    }
    return node, nil
}

// parseEnumValues reads the literal members of an enum in source order. Each
// scalar's own tag decides its literal kind; the sibling type keyword is the
// fallback, defaulting to string, so mixed-value enums keep per-value kinds.
func parseEnumValues(n *yaml.Node, siblingType string) []EnumValue {
    fallback := StringKind
    switch siblingType {
    case "integer":
        fallback = IntegerKind
    case "number":
        fallback = NumberKind
    case "boolean":
        fallback = BooleanKind
    }
    var out []EnumValue
    for _, item := range seqItems(n) {
        if item.Kind != yaml.ScalarNode {
            continue
        }
        kind := fallback
        switch item.ShortTag() {
        case "!!int":
            kind = IntegerKind
        case "!!float":
            kind = NumberKind
        case "!!bool":
            kind = BooleanKind
        case "!!str":
            kind = StringKind
        }
        out = append(out, EnumValue{Kind: kind, Literal: item.Value})
    }
    return out
}

// Pascal converts an identifier to PascalCase: split on '_' and '-', keep
// interior capitals, uppercase the first letter of each word. getItem and
// get_item both become GetItem.
func Pascal(name string) string {
    var b strings.Builder
    for _, word := range strings.FieldsFunc(name, func(r rune) bool { return r == '_' || r == '-' || r == ' ' }) {
        b.WriteString(strings.ToUpper(word[:1]))
        b.WriteString(word[1:])
    }
    return b.String()
}

// uniqueName returns name, or name with the smallest numeric suffix that is
// free in the table. Synthesized names must not shadow declared ones.
func (d *Document) uniqueName(name string) string {
    if _, taken := d.index[name]; !taken {
        return name
    }
    for i := 2; ; i++ {
        candidate := fmt.Sprintf("%s%d", name, i)
        if _, taken := d.index[candidate]; !taken {
            return candidate
        }
    }
}

// hoistAnonymous lifts every anonymous object schema nested in a property,
// array item, parameter, request body or response into the named-schema
// table, replacing it with a Ref. After this pass every record in the
// document is addressable by name, declared or synthesized alike.
func (d *Document) hoistAnonymous() error {
    // Schemas appended during the loop are visited too; their children get
    // names derived from the synthesized parent name.
    for i := 0; i < len(d.Schemas); i++ {
        ns := d.Schemas[i]
        if err := d.hoistChildren(ns.Schema, ns.Name, 0); err != nil {
            return err
        }
    }
    for oi := range d.Operations {
        op := &d.Operations[oi]
        base := Pascal(op.ID)
        for pi := range op.Parameters {
            p := &op.Parameters[pi]
            if err := d.hoistNode(&p.Schema, base+Pascal(p.Name), op.subject(), 0); err != nil {
                return err
            }
        }
        if op.RequestBody != nil {
            if err := d.hoistNode(&op.RequestBody, base+"Body", op.subject(), 0); err != nil {
                return err
            }
        }
        if op.Response != nil {
            if err := d.hoistNode(&op.Response, base+"Response", op.subject(), 0); err != nil {
                return err
            }
        }
    }
    return nil
}

func (op *Operation) subject() string {
    return op.ID + " " + strings.ToUpper(string(op.Method)) + " " + op.Path
}

// hoistNode registers *slot in the table under name when it is an anonymous
// object, replacing the slot with a Ref. Arrays are descended into; all other
// kinds stay inline.
func (d *Document) hoistNode(slot **SchemaNode, name, subject string, depth int) error {
    if depth > maxSchemaDepth {
        return depthErr(subject)
    }
    n := *slot
    if n == nil {
        return nil
    }
    switch n.Kind {
    case KindObject:
        unique := d.uniqueName(name)
        ref := &SchemaNode{Kind: KindRef, Ref: unique, Nullable: n.Nullable}
        n.Nullable = false
        d.addSchema(unique, n)
        *slot = ref
        return d.hoistChildren(n, unique, depth+1)
    case KindArray:
        return d.hoistNode(&n.Items, name+"Item", subject, depth+1)
    default:
        return nil
    }
}

// hoistChildren walks an already-named node, lifting anonymous objects below
// it. Child names are derived from the owner: owner + capitalized property
// name, with an Item suffix per array level.
func (d *Document) hoistChildren(n *SchemaNode, owner string, depth int) error {
    if depth > maxSchemaDepth {
        return depthErr(owner)
    }
    switch n.Kind {
    case KindObject:
        for i := range n.Properties {
            p := &n.Properties[i]
            if err := d.hoistNode(&p.Schema, owner+Pascal(p.Name), owner, depth+1); err != nil {
                return err
            }
        }
    case KindArray:
        return d.hoistNode(&n.Items, owner+"Item", owner, depth+1)
    }
    return nil
}

// checkReferences verifies that every Ref in the document points at a table
// entry. Dangling references are collected across the whole document and
// reported together.
func (d *Document) checkReferences() error {
    var errs []error
    check := func(n *SchemaNode, referrer string) {
        for _, target := range collectRefs(n) {
            if _, ok := d.index[target]; !ok {
                errs = append(errs, unresolvedErr(referrer, target))
            }
        }
    }
    for _, ns := range d.Schemas {
        check(ns.Schema, ns.Name)
    }
    for i := range d.Operations {
        op := &d.Operations[i]
        for _, p := range op.Parameters {
            check(p.Schema, op.subject())
        }
        check(op.RequestBody, op.subject())
        check(op.Response, op.subject())
    }
    return errors.Join(errs...)
}

// collectRefs returns the reference targets anywhere in a tree, in encounter
// order, deduplicated.
func collectRefs(n *SchemaNode) []string {
    var out []string
    seen := map[string]bool{}
    var walk func(*SchemaNode)
    walk = func(n *SchemaNode) {
        if n == nil {
            return
        }
        switch n.Kind {
        case KindRef:
            if !seen[n.Ref] {
                seen[n.Ref] = true
                out = append(out, n.Ref)
            }
        case KindArray:
            walk(n.Items)
        case KindObject:
            for _, p := range n.Properties {
                walk(p.Schema)
            }
        }
    }
    walk(n)
    return out
}

// computeGroups orders the named-schema table for emission: Tarjan's SCC
// over the reference graph emits every group after the groups it depends on,
// so dependencies are declared first and each cyclic group stays contiguous.
func (d *Document) computeGroups() {
    n := len(d.Schemas)
    adj := make([][]int, n)
    for i, ns := range d.Schemas {
        for _, target := range collectRefs(ns.Schema) {
            if j, ok := d.index[target]; ok {
                adj[i] = append(adj[i], j)
            }
        }
    }

    const unvisited = -1
    index := make([]int, n)
    low := make([]int, n)
    onStack := make([]bool, n)
    for i := range index {
        index[i] = unvisited
    }
    var stack []int
    counter := 0
    var groups [][]int

    var strongconnect func(v int)
    strongconnect = func(v int) {
        index[v] = counter
        low[v] = counter
        counter++
        stack = append(stack, v)
        onStack[v] = true
        for _, w := range adj[v] {
            if index[w] == unvisited {
                strongconnect(w)
                if low[w] < low[v] {
                    low[v] = low[w]
                }
            } else if onStack[w] && index[w] < low[v] {
                low[v] = index[w]
            }
        }
        if low[v] == index[v] {
            var group []int
            for {
                w := stack[len(stack)-1]
                stack = stack[:len(stack)-1]
                onStack[w] = false
                group = append(group, w)
                if w == v {
                    break
                }
            }
            // Stable member order within a cyclic group: table order.
            sort.Ints(group)
            groups = append(groups, group)
        }
    }

    for v := 0; v < n; v++ {
        if index[v] == unvisited {
            strongconnect(v)
        }
    }

    d.Groups = make([][]string, 0, len(groups))
    for _, group := range groups {
        names := make([]string, 0, len(group))
        for _, i := range group {
            names = append(names, d.Schemas[i].Name)
        }
        d.Groups = append(d.Groups, names)
    }
}
