package apitest

import (
	"encoding/json"
	"net/http"

	"github.com/google/uuid"
	"github.com/gorilla/mux"
)

// collection is an ordered id -> record map. Callers hold Server.mu.
type collection[T any] struct {
	order  []string
	items  map[string]T
	withID func(T, string) T
}

func newCollection[T any](withID func(T, string) T) *collection[T] {
	return &collection[T]{items: make(map[string]T), withID: withID}
}

func (c *collection[T]) list() []T {
	out := make([]T, 0, len(c.order))
	for _, id := range c.order {
		out = append(out, c.items[id])
	}
	return out
}

func (c *collection[T]) get(id string) (T, bool) {
	v, ok := c.items[id]
	return v, ok
}

func (c *collection[T]) create(v T) T {
	id := uuid.NewString()
	v = c.withID(v, id)
	c.items[id] = v
	c.order = append(c.order, id)
	return v
}

func (c *collection[T]) update(id string, v T) (T, bool) {
	if _, ok := c.items[id]; !ok {
		var zero T
		return zero, false
	}
	v = c.withID(v, id)
	c.items[id] = v
	return v, true
}

func (c *collection[T]) delete(id string) bool {
	if _, ok := c.items[id]; !ok {
		return false
	}
	delete(c.items, id)
	for i, oid := range c.order {
		if oid == id {
			c.order = append(c.order[:i], c.order[i+1:]...)
			break
		}
	}
	return true
}

// routeCollection registers list, create, get, update and delete for
// prefix. noun names the record in not-found messages.
func routeCollection[T any](r *mux.Router, prefix, noun string, s *Server, col func() *collection[T]) {
	notFound := noun + " not found"

	r.HandleFunc(prefix, func(w http.ResponseWriter, r *http.Request) {
		s.mu.Lock()
		defer s.mu.Unlock()
		writeJSON(w, http.StatusOK, col().list())
	}).Methods(http.MethodGet)

	r.HandleFunc(prefix, func(w http.ResponseWriter, r *http.Request) {
		var v T
		if err := json.NewDecoder(r.Body).Decode(&v); err != nil {
			writeError(w, http.StatusBadRequest, "Invalid request body")
			return
		}
		s.mu.Lock()
		defer s.mu.Unlock()
		writeJSON(w, http.StatusCreated, col().create(v))
	}).Methods(http.MethodPost)

	r.HandleFunc(prefix+"/{id}", func(w http.ResponseWriter, r *http.Request) {
		s.mu.Lock()
		defer s.mu.Unlock()
		v, ok := col().get(mux.Vars(r)["id"])
		if !ok {
			writeError(w, http.StatusNotFound, notFound)
			return
		}
		writeJSON(w, http.StatusOK, v)
	}).Methods(http.MethodGet)

	r.HandleFunc(prefix+"/{id}", func(w http.ResponseWriter, r *http.Request) {
		var v T
		if err := json.NewDecoder(r.Body).Decode(&v); err != nil {
			writeError(w, http.StatusBadRequest, "Invalid request body")
			return
		}
		s.mu.Lock()
		defer s.mu.Unlock()
		updated, ok := col().update(mux.Vars(r)["id"], v)
		if !ok {
			writeError(w, http.StatusNotFound, notFound)
			return
		}
		writeJSON(w, http.StatusOK, updated)
	}).Methods(http.MethodPut)

	r.HandleFunc(prefix+"/{id}", func(w http.ResponseWriter, r *http.Request) {
		s.mu.Lock()
		defer s.mu.Unlock()
		if !col().delete(mux.Vars(r)["id"]) {
			writeError(w, http.StatusNotFound, notFound)
			return
		}
		writeJSON(w, http.StatusOK, map[string]string{"message": noun + " deleted"})
	}).Methods(http.MethodDelete)
}
