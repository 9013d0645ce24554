package vector

import "fmt"

// ConfigError reports a missing or out-of-range dims declaration. It is
// raised when a schema is built or merged, never during a document write.
type ConfigError struct {
	Field string
	Dims  int
	// Missing distinguishes an absent dims declaration from an
	// out-of-range one.
	Missing bool
}

func (e *ConfigError) Error() string {
	if e.Missing {
		return fmt.Sprintf("field %q: missing required parameter dims", e.Field)
	}
	return fmt.Sprintf("field %q: dims must be in the range [1, %d] but was %d", e.Field, MaxDims, e.Dims)
}

// ArityError reports a document value whose element count does not match the
// declared dimension count. Actual is the number of elements seen before the
// parser gave up: for oversized arrays counting stops at Declared+1 because
// parsing fails as soon as the bound is exceeded.
type ArityError struct {
	Field    string
	DocID    string
	Declared int
	Actual   int
}

func (e *ArityError) Error() string {
	if e.Actual > e.Declared {
		return fmt.Sprintf("field %q of doc %q: vector exceeds the %d dimensions declared in the mapping",
			e.Field, e.DocID, e.Declared)
	}
	return fmt.Sprintf("field %q of doc %q: vector has %d dimensions, fewer than the %d declared in the mapping",
		e.Field, e.DocID, e.Actual, e.Declared)
}

// TypeMismatchError reports a non-numeric element inside a vector value.
// Position is the zero-based index of the offending element.
type TypeMismatchError struct {
	Field    string
	DocID    string
	Position int
	Token    string
}

func (e *TypeMismatchError) Error() string {
	return fmt.Sprintf("field %q of doc %q: expected a numeric value at position %d but found %s",
		e.Field, e.DocID, e.Position, e.Token)
}

// DuplicateValueError reports a second value supplied for a single-valued
// field within one document. The first value is left in place.
type DuplicateValueError struct {
	Field string
	DocID string
}

func (e *DuplicateValueError) Error() string {
	return fmt.Sprintf("field %q of doc %q: multiple values are not supported for the same field in the same document",
		e.Field, e.DocID)
}

// UnsupportedOperationError reports an attempt to use a dense vector field
// in an operation the type does not define, such as a query or aggregation.
// It signals a caller-side contract violation, not a transient fault.
type UnsupportedOperationError struct {
	Field     string
	Operation string
}

func (e *UnsupportedOperationError) Error() string {
	return fmt.Sprintf("field %q of type %s does not support %s", e.Field, TypeName, e.Operation)
}

// UnsupportedFormatError reports a retrieval request that asked for a value
// format; dense vector fields define no formatting transforms.
type UnsupportedFormatError struct {
	Field  string
	Format string
}

func (e *UnsupportedFormatError) Error() string {
	return fmt.Sprintf("field %q of type %s does not support formats (requested %q)", e.Field, TypeName, e.Format)
}
