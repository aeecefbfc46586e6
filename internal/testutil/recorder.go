package testutil

import (
	"context"
	"slices"
	"sync"

	"github.com/zjrosen/alloy/internal/variant"
)

// Recorder collects notes from concurrently running ingredients and compose routines.
type Recorder struct {
	mu    sync.Mutex
	notes []string
}

// Add records a note.
func (r *Recorder) Add(note string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.notes = append(r.notes, note)
}

// All returns the notes in recording order.
func (r *Recorder) All() []string {
	r.mu.Lock()
	defer r.mu.Unlock()
	return slices.Clone(r.notes)
}

// RecordingIngredient returns an ingredient that records "<name>:<unit>"
// each time it is applied.
func RecordingIngredient(name string, r *Recorder) variant.Ingredient {
	return variant.IngredientFunc(name, func(_ context.Context, u *variant.Unit, _ variant.Args) error {
		r.Add(name + ":" + u.ID().String())
		return nil
	})
}
