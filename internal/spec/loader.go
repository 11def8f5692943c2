package spec

import (
    "context"
    "errors"
    "fmt"
    "io"
    "net/http"
    "net/url"
    "os"
    "path/filepath"
    "strings"
    "time"

    "github.com/getkin/kin-openapi/openapi3"
)

// Settings configures loader behavior.
type Settings struct {
    // HTTPTimeout bounds each HTTP request.
    HTTPTimeout time.Duration
    // MaxRetries for transient HTTP failures (>=500, 429, or network errors).
    MaxRetries int
    // BackoffBase is the base delay for exponential backoff.
    BackoffBase time.Duration
}

// DefaultSettings returns recommended defaults.
func DefaultSettings() Settings {
    return Settings{
        HTTPTimeout: 10 * time.Second,
        MaxRetries:  3,
        BackoffBase: 200 * time.Millisecond,
    }
}

// Option mutates Settings.
type Option func(*Settings)

func WithHTTPTimeout(d time.Duration) Option  { return func(s *Settings) { s.HTTPTimeout = d } }
func WithMaxRetries(n int) Option             { return func(s *Settings) { s.MaxRetries = n } }
func WithBackoffBase(d time.Duration) Option  { return func(s *Settings) { s.BackoffBase = d } }

// Load reads the raw document bytes from a filesystem path or an http/https
// URL. Parsing stays with the generator so the format parameter remains
// explicit; the loader only moves bytes.
func Load(ctx context.Context, input string, opts ...Option) ([]byte, error) {
    if strings.TrimSpace(input) == "" {
        return nil, &SpecError{Kind: InputError, Message: "spec: input is empty"}
    }

    settings := DefaultSettings()
    for _, opt := range opts {
        opt(&settings)
    }

    u, uerr := url.Parse(input)
    isURL := uerr == nil && u.Scheme != "" && u.Host != ""

    if isURL {
        scheme := strings.ToLower(u.Scheme)
        if scheme != "http" && scheme != "https" {
            return nil, &SpecError{Kind: InputError, Message: fmt.Sprintf("spec: unsupported URL scheme %q (only http/https allowed)", scheme), Subject: input}
        }
        raw, fetchErr := fetchWithRetry(ctx, input, settings)
        if fetchErr != nil {
            return nil, &SpecError{Kind: NetworkError, Message: fmt.Sprintf("fetch %s: %v", input, fetchErr), Subject: input, Cause: fetchErr}
        }
        return raw, nil
    }

    abs, err := filepath.Abs(input)
    if err != nil {
        return nil, &SpecError{Kind: InputError, Message: fmt.Sprintf("resolve path: %v", err), Subject: input, Cause: err}
    }
    raw, rerr := os.ReadFile(abs)
    if rerr != nil {
        return nil, &SpecError{Kind: InputError, Message: fmt.Sprintf("read file %s: %v", abs, rerr), Subject: abs, Cause: rerr}
    }
    return raw, nil
}

func fetchWithRetry(ctx context.Context, rawURL string, settings Settings) ([]byte, error) {
    client := &http.Client{Timeout: settings.HTTPTimeout}
    var lastErr error
    backoff := settings.BackoffBase
    if backoff <= 0 {
        backoff = 200 * time.Millisecond
    }
    attempts := settings.MaxRetries
    if attempts <= 0 {
        attempts = 1
    }
    for i := 0; i < attempts; i++ {
        req, err := http.NewRequestWithContext(ctx, http.MethodGet, rawURL, nil)
        if err != nil {
            return nil, err
        }
        resp, err := client.Do(req)
        if err == nil && resp != nil && resp.StatusCode < 300 {
            defer resp.Body.Close()
            return io.ReadAll(resp.Body)
        }
        if err != nil {
            lastErr = err
        } else {
            defer resp.Body.Close()
            if resp.StatusCode >= 500 || resp.StatusCode == 429 {
                lastErr = fmt.Errorf("transient http error %d", resp.StatusCode)
            } else {
                body, _ := io.ReadAll(io.LimitReader(resp.Body, 1024))
                return nil, fmt.Errorf("http %d: %s", resp.StatusCode, strings.TrimSpace(string(body)))
            }
        }
        select {
        case <-ctx.Done():
            return nil, ctx.Err()
        case <-time.After(backoff):
        }
        backoff *= 2
    }
    if lastErr == nil {
        lastErr = errors.New("fetch failed")
    }
    return nil, lastErr
}

// Validate runs the document through the OpenAPI validator as a pre-flight
// check. Unresolved-ref complaints are tolerated: the generator performs its
// own reference checking against the named-schema table.
func Validate(ctx context.Context, raw []byte) error {
    loader := openapi3.NewLoader()
    doc, err := loader.LoadFromData(raw)
    if err != nil {
        return &SpecError{Kind: ValidationError, Message: err.Error(), Cause: err}
    }
    if err := doc.Validate(ctx); err != nil {
        if canProceedDespiteValidation(err) {
            return nil
        }
        return &SpecError{Kind: ValidationError, Message: err.Error(), Cause: err}
    }
    return nil
}

// canProceedDespiteValidation returns true for validation errors where a
// best-effort generation can still proceed (e.g., unresolved $ref entries).
func canProceedDespiteValidation(err error) bool {
    if err == nil {
        return true
    }
    s := strings.ToLower(err.Error())
    if strings.Contains(s, "unresolved ref") || strings.Contains(s, "found unresolved ref") {
        return true
    }
    return false
}
