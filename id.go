package tracerasdk

import (
	"crypto/rand"
	"strings"
	"time"

	"github.com/oklog/ulid/v2"
)

// NewRunID mints a unique, lexicographically sortable run identifier.
// Run IDs double as stream IDs on the wire, so sorting by ID sorts by
// creation time.
func NewRunID() string {
	id := ulid.MustNew(ulid.Timestamp(time.Now()), rand.Reader)

	return strings.ToLower(id.String())
}
