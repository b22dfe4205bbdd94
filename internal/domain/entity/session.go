package entity

import "time"

// Session is the resolved identity that scopes every data operation.
type Session struct {
	UserID     string
	Anonymous  bool
	Fallback   bool // locally generated id, no persistence guarantees
	ResolvedAt time.Time
}

// Display returns the short form shown in the header, e.g. "ID: 1a2b3c4d...".
func (s Session) Display() string {
	id := s.UserID
	if len(id) > 8 {
		id = id[:8]
	}
	return "ID: " + id + "..."
}
