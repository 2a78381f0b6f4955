package harvest

import "fmt"

// NavigationTimeoutError means a page navigation or selector wait exceeded
// its bound during a mandatory step. Fatal for the engine path; the caller
// substitutes the fallback strategy.
type NavigationTimeoutError struct {
	Stage string
	Err   error
}

func (e *NavigationTimeoutError) Error() string {
	return fmt.Sprintf("navigation timed out during %s: %v", e.Stage, e.Err)
}
func (e *NavigationTimeoutError) Unwrap() error { return e.Err }
