// Package repository defines error types that are reused across multiple
// repositories. These sentinel values allow higher layers such as
// handlers to distinguish lookups that yielded no rows from genuine
// database failures.
package repository

import "errors"

// ErrOfficeNotFound is returned when an office lookup yields no rows.
var ErrOfficeNotFound = errors.New("office not found")

// ErrSeatNotFound is returned when a seat lookup yields no rows.
var ErrSeatNotFound = errors.New("seat not found")
