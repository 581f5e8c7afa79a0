package api

import (
	"context"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
)

// Resource gives CRUD access to a REST collection, like "companies".
type Resource[T any] struct {
	c    *Client
	name string
}

// NewResource returns the accessor of the collection name.
func NewResource[T any](c *Client, name string) *Resource[T] {
	return &Resource[T]{c: c, name: strings.Trim(name, "/")}
}

// Name returns the collection path.
func (r *Resource[T]) Name() string { return r.name }

func (r *Resource[T]) item(id int) string { return r.name + "/" + strconv.Itoa(id) }

// List returns the page of items selected by query.
func (r *Resource[T]) List(ctx context.Context, query url.Values) (Page[T], error) {
	return Request[Page[T]](ctx, r.c, &Call{Path: r.name, Query: query})
}

// Get returns the item id.
func (r *Resource[T]) Get(ctx context.Context, id int) (T, error) {
	return Request[T](ctx, r.c, &Call{Path: r.item(id)})
}

// Create posts payload to the collection and returns the created item.
func (r *Resource[T]) Create(ctx context.Context, payload T) (T, error) {
	return Request[T](ctx, r.c, r.create(payload))
}

// CreateRaw is Create returning the envelope.
func (r *Resource[T]) CreateRaw(ctx context.Context, payload T) (*Envelope[T], error) {
	return RequestRaw[T](ctx, r.c, r.create(payload))
}

func (r *Resource[T]) create(payload T) *Call {
	return &Call{Method: http.MethodPost, Path: r.name + "/", JSON: payload}
}

// Update replaces the item id with payload and returns the updated item.
func (r *Resource[T]) Update(ctx context.Context, id int, payload T) (T, error) {
	return Request[T](ctx, r.c, r.update(id, payload))
}

// UpdateRaw is Update returning the envelope.
func (r *Resource[T]) UpdateRaw(ctx context.Context, id int, payload T) (*Envelope[T], error) {
	return RequestRaw[T](ctx, r.c, r.update(id, payload))
}

func (r *Resource[T]) update(id int, payload T) *Call {
	return &Call{Method: http.MethodPut, Path: r.item(id), JSON: payload}
}

// Delete removes the item id.
func (r *Resource[T]) Delete(ctx context.Context, id int) error {
	_, err := Request[any](ctx, r.c, &Call{Method: http.MethodDelete, Path: r.item(id)})
	return err
}

// DeleteRaw is Delete returning the envelope.
func (r *Resource[T]) DeleteRaw(ctx context.Context, id int) (*Envelope[any], error) {
	return RequestRaw[any](ctx, r.c, &Call{Method: http.MethodDelete, Path: r.item(id)})
}

// Post posts a raw body, like a multipart form, to the collection.
func (r *Resource[T]) Post(ctx context.Context, body io.Reader, contentType string) (T, error) {
	return Request[T](ctx, r.c, &Call{Method: http.MethodPost, Path: r.name + "/", Body: body, ContentType: contentType})
}
