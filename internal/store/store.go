// Package store owns the canonical in-memory shape collection for one
// canvas session. All mutations, local or remote, pass through it.
//
// Slice order is z-order, oldest first. The selection names a shape by
// id; the store keeps owning the shape itself. Operations are total:
// acting on an id that does not exist locally is a silent no-op, since
// remote and local views may transiently disagree.
package store

import (
	"sync"

	"sketchsync/internal/shape"
)

// Store is safe for concurrent use. The original surface it models runs
// on one cooperative event loop; local input and the remote message
// dispatch run on separate goroutines here, so the mutex is required.
type Store struct {
	mu         sync.RWMutex
	shapes     []shape.Shape
	selectedID string
}

func New() *Store {
	return &Store{}
}

// Create appends a shape and selects it.
func (st *Store) Create(s shape.Shape) {
	st.mu.Lock()
	defer st.mu.Unlock()
	st.shapes = append(st.shapes, s)
	st.selectedID = s.ID
}

// Append adds shapes without touching the selection, preserving their
// order. Used for bulk additions such as AI-generated diagrams.
func (st *Store) Append(shapes []shape.Shape) {
	st.mu.Lock()
	defer st.mu.Unlock()
	st.shapes = append(st.shapes, shapes...)
}

// Remove deletes the shape with the given id and clears the selection if
// it named that shape.
func (st *Store) Remove(id string) {
	st.mu.Lock()
	defer st.mu.Unlock()
	for i, s := range st.shapes {
		if s.ID == id {
			st.shapes = append(st.shapes[:i], st.shapes[i+1:]...)
			break
		}
	}
	if st.selectedID == id {
		st.selectedID = ""
	}
}

// Update replaces the shape with the matching id in place, keeping its
// z-order position.
func (st *Store) Update(id string, s shape.Shape) {
	st.mu.Lock()
	defer st.mu.Unlock()
	for i := range st.shapes {
		if st.shapes[i].ID == id {
			st.shapes[i] = s
			return
		}
	}
}

// Upsert replaces by id, or appends when the id is unknown. Inbound
// create and resize messages both apply through here, which makes the
// two deliveries commute regardless of arrival order.
func (st *Store) Upsert(s shape.Shape) {
	st.mu.Lock()
	defer st.mu.Unlock()
	for i := range st.shapes {
		if st.shapes[i].ID == s.ID {
			st.shapes[i] = s
			return
		}
	}
	st.shapes = append(st.shapes, s)
}

// Select names the shape with the given id as selected, if it exists.
// An empty id clears the selection.
func (st *Store) Select(id string) {
	st.mu.Lock()
	defer st.mu.Unlock()
	if id == "" {
		st.selectedID = ""
		return
	}
	for _, s := range st.shapes {
		if s.ID == id {
			st.selectedID = id
			return
		}
	}
}

// Selected returns the currently selected shape.
func (st *Store) Selected() (shape.Shape, bool) {
	st.mu.RLock()
	defer st.mu.RUnlock()
	if st.selectedID == "" {
		return shape.Shape{}, false
	}
	for _, s := range st.shapes {
		if s.ID == st.selectedID {
			return s, true
		}
	}
	return shape.Shape{}, false
}

// Get returns the shape with the given id.
func (st *Store) Get(id string) (shape.Shape, bool) {
	st.mu.RLock()
	defer st.mu.RUnlock()
	for _, s := range st.shapes {
		if s.ID == id {
			return s, true
		}
	}
	return shape.Shape{}, false
}

// Clear empties the collection and the selection.
func (st *Store) Clear() {
	st.mu.Lock()
	defer st.mu.Unlock()
	st.shapes = nil
	st.selectedID = ""
}

// Replace swaps in a full snapshot, clearing the selection. Applied when
// a room-joined snapshot delivers the authoritative shape list.
func (st *Store) Replace(shapes []shape.Shape) {
	st.mu.Lock()
	defer st.mu.Unlock()
	st.shapes = make([]shape.Shape, len(shapes))
	copy(st.shapes, shapes)
	st.selectedID = ""
}

// Shapes returns a copy of the collection in z-order.
func (st *Store) Shapes() []shape.Shape {
	st.mu.RLock()
	defer st.mu.RUnlock()
	out := make([]shape.Shape, len(st.shapes))
	copy(out, st.shapes)
	return out
}

// Len reports the number of shapes.
func (st *Store) Len() int {
	st.mu.RLock()
	defer st.mu.RUnlock()
	return len(st.shapes)
}
