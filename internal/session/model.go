package session

import (
	"time"

	"github.com/barangay-connect/member-portal/internal/hoaapi"
)

// Session is the browser-facing session record. It carries a snapshot of the
// user's identity and exactly one upstream credential, fixed when the session
// is created and never replaced afterwards.
type Session struct {
	ID          string
	UserID      string
	Email       string
	Name        string
	Role        hoaapi.Role
	UnitNumber  string
	Picture     string
	Credential  hoaapi.Credential
	Fingerprint string
	CSRFToken   string
	Expiry      time.Time
	LastVisited time.Time
}

func (s Session) Authenticated() bool {
	return s.ID != "" && !s.Credential.Empty()
}

func (s Session) Expired(now time.Time) bool {
	return !s.Expiry.IsZero() && now.After(s.Expiry)
}
