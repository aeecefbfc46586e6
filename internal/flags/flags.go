// Package flags provides feature flag support for controlled feature rollout.
// Flags are read-only after initialization and provide safe defaults for unknown flags.
package flags

import (
	"maps"

	"github.com/zjrosen/alloy/internal/log"
)

// Flag name constants for type-safe flag access.
const (
	// FlagEagerProxyValidation turns proxy/export collisions and proxies with
	// no backing ingredient into template load errors instead of diagnostics.
	FlagEagerProxyValidation = "eager-proxy-validation"

	// FlagUnitEvents controls whether the forge service publishes unit
	// created/failed events.
	FlagUnitEvents = "unit-events"

	// FlagUserTemplates controls whether declarations under ~/.alloy/templates
	// are loaded next to the built-in ones.
	FlagUserTemplates = "user-templates"
)

// Defaults returns the flag values used when the config file sets none.
func Defaults() map[string]bool {
	return map[string]bool{
		FlagEagerProxyValidation: false,
		FlagUnitEvents:           true,
		FlagUserTemplates:        true,
	}
}

// Registry holds feature flag state loaded from configuration.
type Registry struct {
	flags map[string]bool
}

// New creates a Registry from a config map.
// If flags is nil, an empty registry is created (all flags disabled).
func New(flags map[string]bool) *Registry {
	r := &Registry{flags: maps.Clone(flags)}
	if r.flags == nil {
		r.flags = make(map[string]bool)
	}
	log.Debug(log.CatConfig, "Feature flags initialized", "count", len(r.flags), "flags", r.All())
	return r
}

// Enabled returns true if the named flag is enabled.
// Unknown flags and a nil registry report false.
func (r *Registry) Enabled(name string) bool {
	if r == nil || r.flags == nil {
		return false
	}
	value, exists := r.flags[name]
	if !exists {
		log.Debug(log.CatConfig, "Unknown flag accessed", "flag", name, "result", false)
		return false
	}
	return value
}

// All returns a copy of all flags.
// Returns an empty map if the registry is nil.
func (r *Registry) All() map[string]bool {
	if r == nil || r.flags == nil {
		return make(map[string]bool)
	}
	return maps.Clone(r.flags)
}
