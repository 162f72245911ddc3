// Package snapshot obtains raw device records from the controller side.
// It is the boundary collaborator in front of the model builder: how the
// dump got onto disk (subprocess, telnet, mock) is not this service's
// concern.
package snapshot

import (
	"context"

	"fhemview/internal/ingest"
)

// Source retrieves one point-in-time dump of all device states.
type Source interface {
	Fetch(ctx context.Context) ([]ingest.DeviceRecord, error)
}
