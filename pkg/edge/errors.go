package edge

import "errors"

var (
	// ErrCannotFindSchema is returned by FromID when the edge's schema id
	// is not registered.
	ErrCannotFindSchema = errors.New("edge: schema not found")

	// ErrWrongSchema is returned when an edge cell's recorded schema does
	// not match the schema id the caller expected to reconstruct against.
	ErrWrongSchema = errors.New("edge: cell schema does not match expected edge schema")
)
