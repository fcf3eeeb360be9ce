package ports

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"
)

// Request describes one backend call. Body is JSON-encoded unless Form is
// set, in which case the request is sent as multipart/form-data.
type Request struct {
	Method string
	Path   string
	Query  url.Values
	Body   any
	Form   *MultipartForm
	Header http.Header

	// Anonymous requests carry no bearer token and never trigger session
	// expiry handling. Used for login.
	Anonymous bool
}

// FormField is a plain multipart field. Repeated names are allowed.
type FormField struct {
	Name  string
	Value string
}

// FormFile is a multipart file part.
type FormFile struct {
	Field       string
	Filename    string
	ContentType string
	Content     io.Reader
}

// MultipartForm is a multipart/form-data body.
type MultipartForm struct {
	Fields []FormField
	Files  []FormFile

	// OnProgress receives the percentage of the encoded body sent so far.
	OnProgress func(percent int)
}

// Add appends a field.
func (f *MultipartForm) Add(name, value string) {
	f.Fields = append(f.Fields, FormField{Name: name, Value: value})
}

// Response is a successful backend response, body unmodified.
type Response struct {
	Status int
	Header http.Header
	Body   []byte
}

// Decode unmarshals the JSON body into v.
func (r *Response) Decode(v any) error {
	if len(r.Body) == 0 {
		return fmt.Errorf("decode response: empty body")
	}
	if err := json.Unmarshal(r.Body, v); err != nil {
		return fmt.Errorf("decode response: %w", err)
	}
	return nil
}

// Gateway sends authorized requests to the backend.
type Gateway interface {
	Send(ctx context.Context, req Request) (*Response, error)
}

// Exchange is what response handlers observe after every call. Status is 0
// when no response was received.
type Exchange struct {
	Request  *Request
	Status   int
	Duration time.Duration
	Err      error
}

// RequestInterceptor mutates the outbound request before dispatch.
type RequestInterceptor interface {
	InterceptRequest(ctx context.Context, req *Request, httpReq *http.Request) error
}

// ResponseHandler observes a finished exchange. Handlers only produce side
// effects; the caller still receives the original result.
type ResponseHandler interface {
	HandleResponse(ctx context.Context, ex Exchange)
}

// RequestInterceptorFunc adapts a function to RequestInterceptor.
type RequestInterceptorFunc func(ctx context.Context, req *Request, httpReq *http.Request) error

func (f RequestInterceptorFunc) InterceptRequest(ctx context.Context, req *Request, httpReq *http.Request) error {
	return f(ctx, req, httpReq)
}

// ResponseHandlerFunc adapts a function to ResponseHandler.
type ResponseHandlerFunc func(ctx context.Context, ex Exchange)

func (f ResponseHandlerFunc) HandleResponse(ctx context.Context, ex Exchange) {
	f(ctx, ex)
}
