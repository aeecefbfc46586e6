// Package unitstore keeps constructed units in a go-cache backed store with
// optional retention.
package unitstore

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"time"

	"github.com/zjrosen/alloy/internal/cachemanager"
	"github.com/zjrosen/alloy/internal/config"
	"github.com/zjrosen/alloy/internal/log"
	"github.com/zjrosen/alloy/internal/variant"
)

// ErrNilUnit is returned by Put for a nil unit.
var ErrNilUnit = errors.New("unit cannot be nil")

// Store implements variant.Store on a cache manager. Units expire after the
// configured retention unless it is zero; a lookup restarts the retention window.
type Store struct {
	cache     *cachemanager.InMemoryCacheManager[variant.ID, *variant.Unit]
	retention time.Duration
}

var _ variant.Store = (*Store)(nil)

// New creates a store from configuration.
func New(cfg config.StoreConfig) *Store {
	retention := cfg.Retention
	if retention <= 0 {
		retention = cachemanager.NoExpiration
	}
	return &Store{
		cache:     cachemanager.NewInMemoryCacheManager[variant.ID, *variant.Unit]("units", retention, cfg.CleanupInterval),
		retention: retention,
	}
}

// Put stores a finished unit. Returns an error if the ID is already stored.
func (s *Store) Put(u *variant.Unit) error {
	if u == nil {
		return ErrNilUnit
	}
	if err := s.cache.Add(context.Background(), u.ID(), u, s.retention); err != nil {
		return fmt.Errorf("store unit: %w", err)
	}
	log.Debug(log.CatStore, "Stored unit", "unit", u.ID(), "template", u.Template())
	return nil
}

// Get retrieves a unit by ID.
func (s *Store) Get(id variant.ID) (*variant.Unit, bool) {
	if s.retention == cachemanager.NoExpiration {
		return s.cache.Get(context.Background(), id)
	}
	return s.cache.GetWithRefresh(context.Background(), id, s.retention)
}

// List returns every live unit in construction order.
func (s *Store) List() []*variant.Unit {
	items := s.cache.Items(context.Background())
	units := make([]*variant.Unit, 0, len(items))
	for _, u := range items {
		units = append(units, u)
	}
	sortBySeq(units)
	return units
}

// ByTemplate returns the live units built from the named template, in
// construction order.
func (s *Store) ByTemplate(template string) []*variant.Unit {
	var units []*variant.Unit
	for _, u := range s.List() {
		if u.Template() == template {
			units = append(units, u)
		}
	}
	return units
}

// Delete removes units by ID.
func (s *Store) Delete(ids ...variant.ID) error {
	return s.cache.Delete(context.Background(), ids...)
}

// Len returns the number of stored units, including expired ones not yet purged.
func (s *Store) Len() int {
	return s.cache.Len()
}

// OnEvicted registers fn to run when a unit expires or is deleted.
func (s *Store) OnEvicted(fn func(u *variant.Unit)) {
	s.cache.OnEvicted(func(id variant.ID, u *variant.Unit) {
		log.Debug(log.CatStore, "Evicted unit", "unit", id)
		fn(u)
	})
}

func sortBySeq(units []*variant.Unit) {
	seq := func(u *variant.Unit) uint64 {
		_, n, err := variant.ParseID(u.ID())
		if err != nil {
			return 0
		}
		return n
	}
	sort.Slice(units, func(i, j int) bool {
		return seq(units[i]) < seq(units[j])
	})
}
