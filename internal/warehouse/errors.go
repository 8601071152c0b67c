package warehouse

import "fmt"

// SchemaError reports a required source column that is missing.
type SchemaError struct {
	Table  string
	Column string
}

func (e *SchemaError) Error() string {
	return fmt.Sprintf("schema error: table %s is missing required column %q", e.Table, e.Column)
}

// ResolutionError reports a natural key with no surrogate key under the
// strict resolution policy.
type ResolutionError struct {
	Dimension string
	Key       string
}

func (e *ResolutionError) Error() string {
	return fmt.Sprintf("resolution error: no %s key for %q", e.Dimension, e.Key)
}

// ValidationError reports a dimension that violates its key or weight
// invariants.
type ValidationError struct {
	Table  string
	Reason string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("validation error: %s: %s", e.Table, e.Reason)
}
