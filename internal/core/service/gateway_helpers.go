package service

import (
	"context"
	"net/http"
	"net/url"
	"strconv"

	"github.com/mordensafety/admin-console/internal/core/ports"
)

func getJSON(ctx context.Context, gw ports.Gateway, path string, query url.Values, out any) error {
	resp, err := gw.Send(ctx, ports.Request{Method: http.MethodGet, Path: path, Query: query})
	if err != nil {
		return err
	}
	return resp.Decode(out)
}

// sendJSON sends body and decodes the response into out when out is non-nil.
func sendJSON(ctx context.Context, gw ports.Gateway, method, path string, body, out any) error {
	resp, err := gw.Send(ctx, ports.Request{Method: method, Path: path, Body: body})
	if err != nil {
		return err
	}
	if out == nil {
		return nil
	}
	return resp.Decode(out)
}

func sendForm(ctx context.Context, gw ports.Gateway, method, path string, form *ports.MultipartForm, out any) error {
	resp, err := gw.Send(ctx, ports.Request{Method: method, Path: path, Form: form})
	if err != nil {
		return err
	}
	if out == nil {
		return nil
	}
	return resp.Decode(out)
}

func pagingQuery(page, limit int) url.Values {
	if page <= 0 {
		page = 1
	}
	if limit <= 0 {
		limit = 20
	}
	q := url.Values{}
	q.Set("page", strconv.Itoa(page))
	q.Set("limit", strconv.Itoa(limit))
	return q
}

func setIfNotEmpty(q url.Values, key, value string) {
	if value != "" {
		q.Set(key, value)
	}
}
