package realtime

import (
	"time"

	"github.com/google/uuid"
)

// Event types published on the part lifecycle channel.
const (
	EventPartCreated        = "part.created"
	EventPartVersionCreated = "part_version.created"
	EventPartVersionUpdated = "part_version.updated"
	EventPartStatusChanged  = "part.status_changed"
	EventPartDeleted        = "part.deleted"
	EventStructureChanged   = "structure.changed"
)

// Event is the wire shape pushed to UIs after a committed write.
type Event struct {
	Type          string     `json:"type"`
	PartID        uuid.UUID  `json:"part_id"`
	PartVersionID *uuid.UUID `json:"part_version_id,omitempty"`
	Actor         uuid.UUID  `json:"actor"`
	At            time.Time  `json:"at"`
}
