package catalog

import "github.com/qurtubah/bayanat/internal/keymutex"

// datasetLocks serializes appends per dataset. Version-number assignment is a
// read-then-write sequence, so concurrent appends for the same dataset must
// not interleave.
var datasetLocks = keymutex.New()
