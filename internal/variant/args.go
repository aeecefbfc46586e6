package variant

import (
	"errors"
	"fmt"
)

// ErrOddArgs is returned when named access is attempted on an odd-length argument list.
var ErrOddArgs = errors.New("named arguments must come in key/value pairs")

// Args is an ordered argument list passed to ingredients and compose routines.
// Named access treats the list as alternating key/value pairs: "who", "World".
type Args []any

// Len returns the number of arguments.
func (a Args) Len() int {
	return len(a)
}

// At returns the positional argument at index i.
func (a Args) At(i int) (any, bool) {
	if i < 0 || i >= len(a) {
		return nil, false
	}
	return a[i], true
}

// Named returns the arguments as a map. Later pairs overwrite earlier ones.
func (a Args) Named() (map[string]any, error) {
	if len(a)%2 != 0 {
		return nil, ErrOddArgs
	}

	named := make(map[string]any, len(a)/2)
	for i := 0; i < len(a); i += 2 {
		key, ok := a[i].(string)
		if !ok {
			return nil, fmt.Errorf("argument %d: key must be a string, got %T", i, a[i])
		}
		named[key] = a[i+1]
	}
	return named, nil
}

// Lookup returns the value paired with key. The last matching pair wins.
func (a Args) Lookup(key string) (any, bool) {
	var (
		value any
		found bool
	)
	for i := 0; i+1 < len(a); i += 2 {
		if k, ok := a[i].(string); ok && k == key {
			value, found = a[i+1], true
		}
	}
	return value, found
}

// String returns the value paired with key formatted with fmt.Sprint,
// or an empty string when the key is absent.
func (a Args) String(key string) string {
	v, ok := a.Lookup(key)
	if !ok || v == nil {
		return ""
	}
	if s, ok := v.(string); ok {
		return s
	}
	return fmt.Sprint(v)
}
