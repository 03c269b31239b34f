package entity

import "errors"

// Domain errors for dataset loading, validation and rendering.
//
// Validation errors are fatal: they abort the run before any aggregate
// is produced. ErrFontUnavailable is not: the affected optional chart
// is skipped and the omission recorded in the report. Empty groups and
// empty token partitions are valid results, not errors.
var (
	ErrStarOutOfRange  = errors.New("star rating out of range")
	ErrMissingColumn   = errors.New("required column missing")
	ErrInvalidRecord   = errors.New("invalid review record")
	ErrFontUnavailable = errors.New("no usable CJK font found")
)
