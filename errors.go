package lastfit

import "fmt"

// ShapeError reports a precondition violation on mesh input at the ingest
// boundary; Cleanup returns it when a triangle references an out-of-range
// vertex index.
type ShapeError struct {
	Op     string
	Reason string
}

func (e *ShapeError) Error() string {
	return fmt.Sprintf("lastfit: %s: %s", e.Op, e.Reason)
}

// NewShapeError builds a ShapeError naming the failing operation.
func NewShapeError(op, reason string) *ShapeError {
	return &ShapeError{Op: op, Reason: reason}
}
