package prep

import "fmt"

// ValidationError reports a missing or invalid required field on one
// record. The record is skipped and counted, never fatal.
type ValidationError struct {
	Field  string
	Reason string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("invalid record: field %s %s", e.Field, e.Reason)
}

// SerializationError reports a record or pattern value that cannot be
// represented in the output schema. The row is skipped and counted.
type SerializationError struct {
	ID     string
	Reason string
}

func (e *SerializationError) Error() string {
	return fmt.Sprintf("cannot serialize %s: %s", e.ID, e.Reason)
}

// EmptyPoolError is the only pipeline-fatal condition: zero records
// survived validation, so there is nothing to sample or extract from.
type EmptyPoolError struct {
	LinesRead      int
	MalformedLines int
	Rejected       int
}

func (e *EmptyPoolError) Error() string {
	return fmt.Sprintf(
		"no records survived validation (%d lines read, %d malformed, %d rejected)",
		e.LinesRead, e.MalformedLines, e.Rejected,
	)
}
