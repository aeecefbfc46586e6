package variant

import (
	"errors"
	"fmt"
)

// Construction errors
var (
	ErrNoActiveContext   = errors.New("no active build context")
	ErrUnresolvedProxy   = errors.New("unresolved proxy operation")
	ErrUndeclaredProxy   = errors.New("proxy operation not declared by template")
	ErrIngredientFailed  = errors.New("ingredient application failed")
	ErrComposeFailed     = errors.New("compose routine failed")
	ErrNilTemplate       = errors.New("template cannot be nil")
	ErrUnitSealed        = errors.New("unit is sealed")
	ErrOperationNotFound = errors.New("operation not found")
	ErrEmptyOperation    = errors.New("operation name cannot be empty")
	ErrNilOperation      = errors.New("operation body cannot be nil")
)

// IngredientError reports an ingredient whose setup failed. It matches
// ErrIngredientFailed and the underlying cause with errors.Is.
type IngredientError struct {
	Template   string
	Unit       ID
	Ingredient string
	Index      int
	Err        error
}

func (e *IngredientError) Error() string {
	return fmt.Sprintf("template %s: ingredient %d (%s) on %s: %v", e.Template, e.Index, e.Ingredient, e.Unit, e.Err)
}

func (e *IngredientError) Unwrap() []error {
	return []error{ErrIngredientFailed, e.Err}
}

// ComposeError reports a compose routine that returned an error or panicked.
type ComposeError struct {
	Template string
	Unit     ID
	Err      error
}

func (e *ComposeError) Error() string {
	return fmt.Sprintf("template %s: compose on %s: %v", e.Template, e.Unit, e.Err)
}

func (e *ComposeError) Unwrap() []error {
	return []error{ErrComposeFailed, e.Err}
}

// UnresolvedProxyError is returned at the call site when a declared proxy has
// no body registered on the current unit.
type UnresolvedProxyError struct {
	Name string
	Unit ID
}

func (e *UnresolvedProxyError) Error() string {
	return fmt.Sprintf("proxy %q has no registered operation on %s", e.Name, e.Unit)
}

func (e *UnresolvedProxyError) Unwrap() error {
	return ErrUnresolvedProxy
}

// protect runs fn and turns a panic into an error.
func protect(fn func() error) (err error) {
	defer func() {
		if r := recover(); r != nil {
			if rErr, ok := r.(error); ok {
				err = fmt.Errorf("panic: %w", rErr)
				return
			}
			err = fmt.Errorf("panic: %v", r)
		}
	}()
	return fn()
}
