package catalog

import (
	"errors"
	"fmt"
	"maps"
	"sort"
	"sync"

	"github.com/zjrosen/alloy/internal/variant"
)

// Sentinel errors for catalog operations.
var (
	ErrNotFound      = errors.New("template not found")
	ErrDuplicateName = errors.New("template with this name already exists")
	ErrNilTemplate   = errors.New("template cannot be nil")
)

// Source identifies where a catalog entry came from.
type Source string

const (
	SourceBuiltin Source = "builtin"
	SourceUser    Source = "user"
	SourceCode    Source = "code"
)

// Entry is a template plus the declaration it was loaded from.
type Entry struct {
	Template *variant.Template
	Source   Source
	// Path is the declaration file, empty for templates built in code.
	Path string
}

// Name returns the template name.
func (e Entry) Name() string {
	return e.Template.Name()
}

// Provider defines read-only access to a catalog.
type Provider interface {
	// List returns all entries ordered by template name.
	List() []Entry

	// Get returns the entry whose template name or export name matches.
	// Returns ErrNotFound if no entry matches.
	Get(name string) (Entry, error)

	// GetByLabels returns entries that have ALL specified labels (AND logic).
	// If no labels are provided, returns all entries.
	GetByLabels(labels ...string) []Entry

	// Labels returns all unique labels across all entries, sorted alphabetically.
	Labels() []string
}

// Compile-time check that Catalog implements Provider.
var _ Provider = (*Catalog)(nil)

// Catalog manages templates keyed by name.
type Catalog struct {
	mu      sync.RWMutex
	entries map[string]Entry
}

// New creates an empty catalog.
func New() *Catalog {
	return &Catalog{entries: make(map[string]Entry)}
}

// Add registers an entry. The template name and export name must not clash
// with any name already in the catalog.
func (c *Catalog) Add(e Entry) error {
	if e.Template == nil {
		return ErrNilTemplate
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	if err := c.checkNames(e); err != nil {
		return err
	}
	c.entries[e.Name()] = e
	return nil
}

// Replace swaps every entry from source for the given entries. Either all
// entries are installed or the catalog is left unchanged.
func (c *Catalog) Replace(source Source, entries []Entry) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	next := make(map[string]Entry, len(c.entries)+len(entries))
	for name, e := range c.entries {
		if e.Source != source {
			next[name] = e
		}
	}

	staged := &Catalog{entries: next}
	for _, e := range entries {
		if e.Template == nil {
			return ErrNilTemplate
		}
		e.Source = source
		if err := staged.checkNames(e); err != nil {
			return err
		}
		next[e.Name()] = e
	}

	c.entries = next
	return nil
}

// Remove deletes the entry with the given template name.
func (c *Catalog) Remove(name string) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if _, ok := c.entries[name]; !ok {
		return fmt.Errorf("%w: %s", ErrNotFound, name)
	}
	delete(c.entries, name)
	return nil
}

// List returns all entries ordered by template name.
func (c *Catalog) List() []Entry {
	c.mu.RLock()
	defer c.mu.RUnlock()

	result := make([]Entry, 0, len(c.entries))
	for _, e := range c.entries {
		result = append(result, e)
	}
	sort.Slice(result, func(i, j int) bool {
		return result[i].Name() < result[j].Name()
	})
	return result
}

// Get returns the entry whose template name or export name matches.
func (c *Catalog) Get(name string) (Entry, error) {
	c.mu.RLock()
	defer c.mu.RUnlock()

	if e, ok := c.entries[name]; ok {
		return e, nil
	}
	for _, e := range c.entries {
		if e.Template.Export() == name {
			return e, nil
		}
	}
	return Entry{}, fmt.Errorf("%w: %s", ErrNotFound, name)
}

// Template is a shorthand for Get that returns only the template.
func (c *Catalog) Template(name string) (*variant.Template, error) {
	e, err := c.Get(name)
	if err != nil {
		return nil, err
	}
	return e.Template, nil
}

// GetByLabels returns entries that have ALL specified labels (AND logic).
func (c *Catalog) GetByLabels(labels ...string) []Entry {
	all := c.List()
	if len(labels) == 0 {
		return all
	}

	var result []Entry
	for _, e := range all {
		if hasAllLabels(e.Template.Labels(), labels) {
			result = append(result, e)
		}
	}
	return result
}

// Labels returns all unique labels across all entries, sorted alphabetically.
func (c *Catalog) Labels() []string {
	c.mu.RLock()
	defer c.mu.RUnlock()

	seen := make(map[string]struct{})
	for _, e := range c.entries {
		for _, label := range e.Template.Labels() {
			seen[label] = struct{}{}
		}
	}

	result := make([]string, 0, len(seen))
	for label := range seen {
		result = append(result, label)
	}
	sort.Strings(result)
	return result
}

// Clone returns an independent copy of the catalog.
func (c *Catalog) Clone() *Catalog {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return &Catalog{entries: maps.Clone(c.entries)}
}

// Len returns the number of entries.
func (c *Catalog) Len() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.entries)
}

// checkNames reports a clash between e and existing entries. Caller holds the lock.
func (c *Catalog) checkNames(e Entry) error {
	name, export := e.Name(), e.Template.Export()
	for existingName, existing := range c.entries {
		existingExport := existing.Template.Export()
		switch {
		case existingName == name:
			return fmt.Errorf("%w: %s", ErrDuplicateName, name)
		case existingExport == export, existingName == export, existingExport == name:
			return fmt.Errorf("%w: %s (export %q clashes with %s)", ErrDuplicateName, name, export, existingName)
		}
	}
	return nil
}

// hasAllLabels checks if entryLabels contains all required labels.
func hasAllLabels(entryLabels, required []string) bool {
	labelSet := make(map[string]struct{}, len(entryLabels))
	for _, l := range entryLabels {
		labelSet[l] = struct{}{}
	}
	for _, r := range required {
		if _, ok := labelSet[r]; !ok {
			return false
		}
	}
	return true
}
