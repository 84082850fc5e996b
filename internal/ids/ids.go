package ids

import "github.com/segmentio/ksuid"

// New returns a sortable unique identifier, used for correlating
// portal-to-upstream requests in logs.
func New() string {
	return ksuid.New().String()
}
