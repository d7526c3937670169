package board

import "fmt"

// NotFoundError signals a mutation against an entity the store does not hold.
// This is a hard failure: it means the caller's view and the store diverged.
type NotFoundError struct {
	Kind string
	ID   string
}

func (e NotFoundError) Error() string {
	return fmt.Sprintf("%s not found: %s", e.Kind, e.ID)
}

// ValidationError signals an invalid placement request. Interactive shells
// never surface these (the machine filters invalid gestures first); they
// protect direct callers of the mutation API.
type ValidationError struct {
	Reason string
}

func (e ValidationError) Error() string {
	return "invalid placement: " + e.Reason
}
