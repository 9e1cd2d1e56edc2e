package web

import (
	"context"
	"fmt"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/omniorder/omniorder/internal/datastore"
	"github.com/omniorder/omniorder/internal/platform/httpx"
	"github.com/omniorder/omniorder/internal/records"
	"github.com/omniorder/omniorder/internal/shared"
)

// ListResponse is one page of a searched collection.
type ListResponse[T any] struct {
	Items      []T               `json:"items"`
	Pagination shared.Pagination `json:"pagination"`
}

// crud serves list, create, update and delete for one collection.
type crud[T records.Record] struct {
	h      *Handler
	name   string
	items  func(datastore.Snapshot) []T
	search func([]T, string) []T
	find   func(datastore.Snapshot, string) (T, bool)
	save   func(context.Context, T) (T, error)
	remove func(context.Context, string) error
	withID func(T, string) T
}

func (c crud[T]) list(w http.ResponseWriter, r *http.Request) {
	matched := c.search(c.items(c.h.store.Snapshot()), r.URL.Query().Get("search"))
	page, pagination := shared.Page(matched, queryInt(r, "page"), queryInt(r, "per_page"))
	httpx.JSON(w, http.StatusOK, ListResponse[T]{Items: page, Pagination: pagination})
}

func (c crud[T]) show(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	record, ok := c.find(c.h.store.Snapshot(), id)
	if !ok {
		c.h.fail(w, r, c.notFound(id))
		return
	}
	httpx.JSON(w, http.StatusOK, record)
}

func (c crud[T]) create(w http.ResponseWriter, r *http.Request) {
	var record T
	if err := httpx.DecodeJSON(r, &record); err != nil {
		c.h.fail(w, r, err)
		return
	}
	saved, err := c.save(r.Context(), c.withID(record, ""))
	if err != nil {
		c.h.fail(w, r, err)
		return
	}
	httpx.JSON(w, http.StatusCreated, saved)
}

func (c crud[T]) update(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	if _, ok := c.find(c.h.store.Snapshot(), id); !ok {
		c.h.fail(w, r, c.notFound(id))
		return
	}
	var record T
	if err := httpx.DecodeJSON(r, &record); err != nil {
		c.h.fail(w, r, err)
		return
	}
	saved, err := c.save(r.Context(), c.withID(record, id))
	if err != nil {
		c.h.fail(w, r, err)
		return
	}
	httpx.JSON(w, http.StatusOK, saved)
}

func (c crud[T]) delete(w http.ResponseWriter, r *http.Request) {
	if err := c.remove(r.Context(), chi.URLParam(r, "id")); err != nil {
		c.h.fail(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (c crud[T]) notFound(id string) error {
	return fmt.Errorf("%s %q: %w", c.name, id, shared.ErrNotFound)
}

func (c crud[T]) mount(r chi.Router, path string) {
	r.Get(path, c.list)
	r.Post(path, c.create)
	r.Get(path+"/{id}", c.show)
	r.Put(path+"/{id}", c.update)
	r.Delete(path+"/{id}", c.delete)
}
