package spec

// Document model shared by the resolver, the operation extractor and the
// emitter. Everything here is built once per generation call and read-only
// afterwards.

type HttpMethod string

const (
    GET     HttpMethod = "get"
    POST    HttpMethod = "post"
    PUT     HttpMethod = "put"
    DELETE  HttpMethod = "delete"
    PATCH   HttpMethod = "patch"
    HEAD    HttpMethod = "head"
    OPTIONS HttpMethod = "options"
    TRACE   HttpMethod = "trace"
)

// methodOrder is the stable order in which the methods of a path item are
// visited.
var methodOrder = []HttpMethod{GET, POST, PUT, DELETE, PATCH, HEAD, OPTIONS, TRACE}

// SchemaKind tags the SchemaNode union.
type SchemaKind int

const (
    KindPrimitive SchemaKind = iota
    KindEnum
    KindArray
    KindObject
    KindRef
    KindUnsupported
)

// PrimitiveKind is the scalar type of a primitive schema or enum literal.
type PrimitiveKind string

const (
    StringKind  PrimitiveKind = "string"
    IntegerKind PrimitiveKind = "integer"
    NumberKind  PrimitiveKind = "number"
    BooleanKind PrimitiveKind = "boolean"
)

// EnumValue is one member of a closed value set. Literal holds the scalar's
// source text; Kind decides how the emitter quotes it.
type EnumValue struct {
    Kind    PrimitiveKind
    Literal string
}

// Property is one named field of an object schema. Properties are kept in
// source order so output is deterministic.
type Property struct {
    Name   string
    Schema *SchemaNode
}

// SchemaNode is the closed representation of a schema fragment. Only the
// fields matching Kind are populated. References are by name and never
// expanded structurally, which is what keeps cyclic schema graphs finite.
type SchemaNode struct {
    Kind       SchemaKind
    Primitive  PrimitiveKind   // KindPrimitive
    Enum       []EnumValue     // KindEnum, source order
    Items      *SchemaNode     // KindArray
    Properties []Property      // KindObject, source order
    Required   map[string]bool // KindObject, from the required list
    Ref        string          // KindRef, a named-schema table key
    Nullable   bool
}

// NamedSchema is one entry of the named-schema table, either declared under
// components.schemas or synthesized for an anonymous object.
type NamedSchema struct {
    Name   string
    Schema *SchemaNode
}

// ParameterLocation is the OpenAPI "in" value of a parameter.
type ParameterLocation string

const (
    InPath   ParameterLocation = "path"
    InQuery  ParameterLocation = "query"
    InHeader ParameterLocation = "header"
    InCookie ParameterLocation = "cookie"
)

// Parameter is one declared input of an operation.
type Parameter struct {
    Name     string
    In       ParameterLocation
    Required bool
    Schema   *SchemaNode
}

// Operation is one (path, method) pair with its derived contract.
type Operation struct {
    ID           string // operationId, always present
    Method       HttpMethod
    Path         string
    Summary      string
    Parameters   []Parameter
    RequestBody  *SchemaNode // application/json body schema, nil when absent
    BodyRequired bool
    Response     *SchemaNode // success response body, nil when absent
    NoContent    bool        // success response was 204
}

// Document is the resolved spec: the named-schema table in declaration order
// (synthesized names appended), the operations in source order, and the
// declaration order over the table.
type Document struct {
    Schemas    []NamedSchema
    Operations []Operation

    // Groups holds named-schema names in emission order: dependencies before
    // dependents, each strongly-connected group contiguous.
    Groups [][]string

    index map[string]int
}

// Schema looks a named schema up by table key.
func (d *Document) Schema(name string) (*SchemaNode, bool) {
    i, ok := d.index[name]
    if !ok {
        return nil, false
    }
    return d.Schemas[i].Schema, true
}

// addSchema appends a named schema to the table. It reports false when the
// name is already taken.
func (d *Document) addSchema(name string, node *SchemaNode) bool {
    if _, exists := d.index[name]; exists {
        return false
    }
    if d.index == nil {
        d.index = make(map[string]int)
    }
    d.index[name] = len(d.Schemas)
    d.Schemas = append(d.Schemas, NamedSchema{Name: name, Schema: node})
    return true
}
