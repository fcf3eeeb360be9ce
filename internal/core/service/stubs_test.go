package service

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"

	"github.com/mordensafety/admin-console/internal/core/domain"
	"github.com/mordensafety/admin-console/internal/core/ports"
)

var errDiskFull = errors.New("disk full")

// stubStore is an in-memory KeyValueStore with per-key failure injection.
type stubStore struct {
	data     map[string]string
	failSet  map[string]error
	failGet  map[string]error
	failDel  map[string]error
	writes   []string
	removals []string
}

func newStubStore() *stubStore {
	return &stubStore{
		data:    make(map[string]string),
		failSet: make(map[string]error),
		failGet: make(map[string]error),
		failDel: make(map[string]error),
	}
}

func (s *stubStore) Get(_ context.Context, key string) (string, error) {
	if err := s.failGet[key]; err != nil {
		return "", err
	}
	v, ok := s.data[key]
	if !ok {
		return "", domain.ErrKeyNotFound
	}
	return v, nil
}

func (s *stubStore) Set(_ context.Context, key, value string) error {
	if err := s.failSet[key]; err != nil {
		return err
	}
	s.writes = append(s.writes, key)
	s.data[key] = value
	return nil
}

func (s *stubStore) Remove(_ context.Context, key string) error {
	s.removals = append(s.removals, key)
	if err := s.failDel[key]; err != nil {
		return err
	}
	delete(s.data, key)
	return nil
}

func (s *stubStore) Ping(context.Context) error { return nil }

func (s *stubStore) Close() error { return nil }

func (s *stubStore) has(key string) bool {
	_, ok := s.data[key]
	return ok
}

// stubGateway records every request and answers through handle.
type stubGateway struct {
	requests []ports.Request
	handle   func(req ports.Request) (*ports.Response, error)
}

func (g *stubGateway) Send(_ context.Context, req ports.Request) (*ports.Response, error) {
	g.requests = append(g.requests, req)
	if g.handle == nil {
		return jsonResponse(http.StatusOK, map[string]any{}), nil
	}
	return g.handle(req)
}

func (g *stubGateway) last() ports.Request {
	return g.requests[len(g.requests)-1]
}

func jsonResponse(status int, v any) *ports.Response {
	body, _ := json.Marshal(v)
	return &ports.Response{Status: status, Header: http.Header{"Content-Type": {"application/json"}}, Body: body}
}

func httpError(req ports.Request, status int) error {
	return &domain.HTTPError{
		Method:         req.Method,
		Path:           req.Path,
		Status:         status,
		SessionExpired: status == http.StatusUnauthorized && !req.Anonymous,
	}
}

func formValues(form *ports.MultipartForm, name string) []string {
	var out []string
	for _, f := range form.Fields {
		if f.Name == name {
			out = append(out, f.Value)
		}
	}
	return out
}
