package spec

// ErrorKind categorizes generation errors for clearer handling and messaging.
type ErrorKind string

const (
    MalformedDocument    ErrorKind = "MalformedDocument"
    UnresolvedReference  ErrorKind = "UnresolvedReference"
    MissingOperationID   ErrorKind = "MissingOperationID"
    UnsupportedConstruct ErrorKind = "UnsupportedConstruct"
    DepthExceeded        ErrorKind = "DepthExceeded"

    // Loader-side kinds.
    InputError      ErrorKind = "InputError"
    NetworkError    ErrorKind = "NetworkError"
    ValidationError ErrorKind = "ValidationError"
)

// SpecError is a structured error with a kind and a human-readable locator
// (schema name, or operation id + path).
type SpecError struct {
    Kind    ErrorKind
    Message string
    Subject string // schema name or "operationId path"
    Cause   error
}

func (e *SpecError) Error() string {
    if e.Subject != "" {
        return e.Subject + ": " + e.Message
    }
    return e.Message
}

func (e *SpecError) Unwrap() error { return e.Cause }

func malformedErr(subject, msg string) *SpecError {
    return &SpecError{Kind: MalformedDocument, Message: msg, Subject: subject}
}

func unresolvedErr(referrer, target string) *SpecError {
    return &SpecError{
        Kind:    UnresolvedReference,
        Message: "unresolved reference to #/components/schemas/" + target,
        Subject: referrer,
    }
}

func depthErr(subject string) *SpecError {
    return &SpecError{Kind: DepthExceeded, Message: "schema nesting exceeds maximum depth", Subject: subject}
}
