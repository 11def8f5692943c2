package spec

import (
    "context"
    "errors"
    "net/http"
    "net/http/httptest"
    "os"
    "path/filepath"
    "strings"
    "testing"
    "time"
)

func TestLoad_EmptyInput(t *testing.T) {
    t.Parallel()
    _, err := Load(context.Background(), "   ")
    var se *SpecError
    if !errors.As(err, &se) || se.Kind != InputError {
        t.Fatalf("expected InputError, got %v (%T)", err, err)
    }
}

func TestLoad_UnsupportedScheme(t *testing.T) {
    t.Parallel()
    _, err := Load(context.Background(), "ftp://example.com/spec.yaml")
    var se *SpecError
    if !errors.As(err, &se) || se.Kind != InputError {
        t.Fatalf("expected InputError, got %v (%T)", err, err)
    }
}

func TestLoad_FromFile(t *testing.T) {
    t.Parallel()
    dir := t.TempDir()
    path := filepath.Join(dir, "spec.yaml")
    content := "openapi: 3.0.0\n"
    if err := os.WriteFile(path, []byte(content), 0o600); err != nil {
        t.Fatalf("write: %v", err)
    }
    raw, err := Load(context.Background(), path)
    if err != nil {
        t.Fatalf("load: %v", err)
    }
    if string(raw) != content {
        t.Fatalf("content mismatch: %q", raw)
    }
}

func TestLoad_MissingFile(t *testing.T) {
    t.Parallel()
    _, err := Load(context.Background(), filepath.Join(t.TempDir(), "nope.yaml"))
    var se *SpecError
    if !errors.As(err, &se) || se.Kind != InputError {
        t.Fatalf("expected InputError, got %v", err)
    }
    if se.Subject == "" {
        t.Fatalf("expected subject to carry the path")
    }
}

func TestLoad_FromURLWithRetry(t *testing.T) {
    t.Parallel()
    attempts := 0
    srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
        attempts++
        if attempts == 1 {
            w.WriteHeader(http.StatusInternalServerError)
            return
        }
        _, _ = w.Write([]byte("openapi: 3.0.0\n"))
    }))
    defer srv.Close()

    raw, err := Load(context.Background(), srv.URL+"/spec.yaml",
        WithMaxRetries(3), WithBackoffBase(time.Millisecond), WithHTTPTimeout(2*time.Second))
    if err != nil {
        t.Fatalf("load: %v", err)
    }
    if attempts != 2 {
        t.Fatalf("expected one retry, got %d attempts", attempts)
    }
    if !strings.HasPrefix(string(raw), "openapi:") {
        t.Fatalf("content: %q", raw)
    }
}

func TestLoad_NetworkError(t *testing.T) {
    t.Parallel()
    // Unused port to provoke a quick network failure.
    ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
    defer cancel()
    _, err := Load(ctx, "http://127.0.0.1:1/spec.yaml",
        WithHTTPTimeout(200*time.Millisecond), WithMaxRetries(2), WithBackoffBase(time.Millisecond))
    var se *SpecError
    if !errors.As(err, &se) || se.Kind != NetworkError {
        t.Fatalf("expected NetworkError, got %v (%T)", err, err)
    }
}

func TestValidate_AcceptsWellFormedSpec(t *testing.T) {
    t.Parallel()
    raw := []byte(strings.TrimSpace(`
openapi: 3.0.0
info:
  title: Sample
  version: "1.0.0"
paths:
  /hello:
    get:
      operationId: hello
      responses:
        "200":
          description: ok
`))
    if err := Validate(context.Background(), raw); err != nil {
        t.Fatalf("validate: %v", err)
    }
}

func TestValidate_RejectsBrokenSpec(t *testing.T) {
    t.Parallel()
    raw := []byte(strings.TrimSpace(`
openapi: 3.0.0
info:
  title: Bad
  version: "1.0.0"
paths:
  /pet:
    get:
      responses: {}
`))
    err := Validate(context.Background(), raw)
    if err == nil {
        t.Fatalf("expected validation error for empty responses")
    }
    var se *SpecError
    if !errors.As(err, &se) || se.Kind != ValidationError {
        t.Fatalf("expected ValidationError, got %v (%T)", err, err)
    }
}
