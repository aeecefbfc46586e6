// Package catalog holds the set of templates available for generation.
//
// Templates enter the catalog from three places: built-in declarations
// embedded in the binary, declaration files under the user's templates
// directory, and templates built in code. Each entry remembers its source so
// a reload of one source replaces only the templates that came from it.
//
// Lookups accept either the template name or its export name, which is the
// name generator entry points are published under.
package catalog
