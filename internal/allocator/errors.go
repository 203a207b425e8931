package allocator

import "errors"

// ErrClaimConflict is returned when a conditional occupancy update claims
// fewer seats than were fetched as available, i.e. a concurrent writer beat
// this batch to one of them. The surrounding transaction is rolled back and
// the caller may retry the batch.
var ErrClaimConflict = errors.New("seat claim conflict, batch rolled back")
