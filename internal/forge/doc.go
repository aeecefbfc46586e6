// Package forge is the application service for generating variants by name.
//
// A Service owns the template catalog, the ingredient library, the unit
// store and the variant factory. It loads the built-in declarations and,
// when the user-templates flag is on, the declarations in the configured
// templates directory. Every construction is logged, traced when tracing is
// enabled, and announced to subscribers as a unit event.
package forge
