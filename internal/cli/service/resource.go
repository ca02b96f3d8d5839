package service

import (
	"context"
	"net/http"
	"net/url"
	"strings"

	"github.com/yndnr/rentdesk-go/internal/cli/connection"
	"github.com/yndnr/rentdesk-go/internal/core/domain"
)

// Client is the transport the services run on. *connection.HTTPClient
// implements it.
type Client interface {
	GetJSON(ctx context.Context, path string, target any) error
	SendJSON(ctx context.Context, method, path string, body, target any, opts ...connection.RequestOption) error
}

// Resource provides CRUD for one collection of records.
type Resource[T any] struct {
	client Client
	base   string
}

func newResource[T any](client Client, base string) Resource[T] {
	return Resource[T]{client: client, base: base}
}

// List returns every record. An empty collection is an empty slice.
func (r Resource[T]) List(ctx context.Context) ([]T, error) {
	out := []T{}
	if err := r.client.GetJSON(ctx, r.base, &out); err != nil {
		return nil, err
	}
	if out == nil {
		out = []T{}
	}
	return out, nil
}

// Get returns the record with id.
func (r Resource[T]) Get(ctx context.Context, id string) (T, error) {
	var out T
	path, err := r.itemPath(id)
	if err != nil {
		return out, err
	}
	err = r.client.GetJSON(ctx, path, &out)
	return out, err
}

// Create stores v and returns the record as the server saved it.
func (r Resource[T]) Create(ctx context.Context, v T) (T, error) {
	var out T
	err := r.client.SendJSON(ctx, http.MethodPost, r.base, v, &out)
	return out, err
}

// Update replaces the record with id.
func (r Resource[T]) Update(ctx context.Context, id string, v T) (T, error) {
	var out T
	path, err := r.itemPath(id)
	if err != nil {
		return out, err
	}
	err = r.client.SendJSON(ctx, http.MethodPut, path, v, &out)
	return out, err
}

// Delete removes the record with id.
func (r Resource[T]) Delete(ctx context.Context, id string) error {
	path, err := r.itemPath(id)
	if err != nil {
		return err
	}
	return r.client.SendJSON(ctx, http.MethodDelete, path, nil, nil)
}

func (r Resource[T]) itemPath(id string) (string, error) {
	id = strings.TrimSpace(id)
	if id == "" {
		return "", domain.ErrMissingID
	}
	return r.base + "/" + url.PathEscape(id), nil
}

// getAggregate fetches a read-only aggregate under base.
func getAggregate[T any](ctx context.Context, client Client, path string) (T, error) {
	var out T
	err := client.GetJSON(ctx, path, &out)
	return out, err
}
