// Package remote performs lookups of records owned by another service and
// turns their outcome into the shared domain errors.
//
// Service code never calls a Resolver directly: it goes through Lookup, so
// every call site maps absence and failure the same way.
package remote

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"strings"

	"github.com/ledgerline/bank/shared/logger"
)

const maxBodyBytes = 1 << 20

type authorizationKey struct{}

// WithAuthorization stores the caller's Authorization header so lookups made
// on its behalf carry the same credentials.
func WithAuthorization(ctx context.Context, header string) context.Context {
	return context.WithValue(ctx, authorizationKey{}, header)
}

func authorization(ctx context.Context) string {
	header, _ := ctx.Value(authorizationKey{}).(string)
	return header
}

// Kind tags the three possible results of a lookup.
type Kind int

const (
	Found Kind = iota + 1
	NotFound
	Failure
)

func (k Kind) String() string {
	switch k {
	case Found:
		return "found"
	case NotFound:
		return "not found"
	case Failure:
		return "failure"
	default:
		return "unknown"
	}
}

// Outcome is the result of one lookup. Value is set only for Found; Status
// and Err describe a Failure (Status is 0 when nothing was received).
type Outcome[T any] struct {
	Kind   Kind
	Value  *T
	Status int
	Err    error
}

func FoundValue[T any](v *T) Outcome[T] {
	return Outcome[T]{Kind: Found, Value: v, Status: http.StatusOK}
}

func Absent[T any](status int) Outcome[T] {
	return Outcome[T]{Kind: NotFound, Status: status}
}

func Failed[T any](status int, err error) Outcome[T] {
	return Outcome[T]{Kind: Failure, Status: status, Err: err}
}

// Resolver looks a record up by its numeric key.
type Resolver[T any] interface {
	Resolve(ctx context.Context, id int64) Outcome[T]
}

// emptiable is implemented by views that can decode from a success payload
// without describing any record.
type emptiable interface {
	Empty() bool
}

// HTTPResolver resolves records with a single GET {baseURL}{path}/{id}. It
// never retries; the http.Client timeout bounds the call.
type HTTPResolver[T any] struct {
	client  *http.Client
	baseURL string
	path    string
}

func NewHTTPResolver[T any](client *http.Client, baseURL, path string) *HTTPResolver[T] {
	return &HTTPResolver[T]{
		client:  client,
		baseURL: strings.TrimSuffix(baseURL, "/"),
		path:    "/" + strings.Trim(path, "/"),
	}
}

func (r *HTTPResolver[T]) Resolve(ctx context.Context, id int64) Outcome[T] {
	if id <= 0 {
		return Absent[T](0)
	}

	url := r.baseURL + r.path + "/" + strconv.FormatInt(id, 10)
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return Failed[T](0, fmt.Errorf("failed to build request: %w", err))
	}
	req.Header.Set("Accept", "application/json")
	if requestID := logger.RequestID(ctx); requestID != "" {
		req.Header.Set("X-Request-ID", requestID)
	}
	if header := authorization(ctx); header != "" {
		req.Header.Set("Authorization", header)
	}

	resp, err := r.client.Do(req)
	if err != nil {
		return Failed[T](0, fmt.Errorf("GET %s: %w", url, err))
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxBodyBytes))
	if err != nil {
		return Failed[T](resp.StatusCode, fmt.Errorf("failed to read response from %s: %w", url, err))
	}

	switch {
	case resp.StatusCode == http.StatusNotFound:
		return Absent[T](resp.StatusCode)
	case resp.StatusCode < 200 || resp.StatusCode > 299:
		return Failed[T](resp.StatusCode, fmt.Errorf("unexpected status %d from %s: %s", resp.StatusCode, url, snippet(body)))
	}

	trimmed := bytes.TrimSpace(body)
	if len(trimmed) == 0 || bytes.Equal(trimmed, []byte("null")) {
		return Absent[T](resp.StatusCode)
	}

	var v T
	if err := json.Unmarshal(trimmed, &v); err != nil {
		return Failed[T](resp.StatusCode, fmt.Errorf("failed to decode response from %s: %w", url, err))
	}
	if e, ok := any(v).(emptiable); ok && e.Empty() {
		return Absent[T](resp.StatusCode)
	}
	return FoundValue(&v)
}

func snippet(body []byte) string {
	const max = 200
	s := strings.TrimSpace(string(body))
	if len(s) > max {
		return s[:max] + "..."
	}
	return s
}
