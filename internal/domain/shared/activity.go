package shared

import (
	"database/sql/driver"
	"encoding/json"
	"time"

	"github.com/google/uuid"
)

// ActivityEntry records a single mutation of a financial document:
// what changed, by whom, and when. Entries are append-only.
type ActivityEntry struct {
	ID         uuid.UUID  `json:"id"`
	Action     string     `json:"action"`
	Detail     string     `json:"detail"`
	ActorID    *uuid.UUID `json:"actor_id,omitempty"`
	RecordedAt time.Time  `json:"recorded_at"`
}

// NewActivityEntry creates a new activity entry
func NewActivityEntry(action, detail string, actorID *uuid.UUID) ActivityEntry {
	return ActivityEntry{
		ID:         uuid.New(),
		Action:     action,
		Detail:     detail,
		ActorID:    actorID,
		RecordedAt: time.Now(),
	}
}

// ActivityLog is an append-only list of activity entries.
// It is stored as a JSONB column; the log is never rewritten, only appended.
type ActivityLog []ActivityEntry

// Append returns the log with a new entry added. The receiver is not modified.
func (l ActivityLog) Append(action, detail string, actorID *uuid.UUID) ActivityLog {
	return append(l, NewActivityEntry(action, detail, actorID))
}

// Value implements driver.Valuer for database storage
func (l ActivityLog) Value() (driver.Value, error) {
	if l == nil {
		l = ActivityLog{}
	}
	return json.Marshal(l)
}

// Scan implements sql.Scanner for database retrieval
func (l *ActivityLog) Scan(value any) error {
	return ScanJSON(value, l, "ActivityLog")
}
