package fragment_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/barangay-connect/member-portal/internal/fragment"
)

func TestTicket(t *testing.T) {
	tests := []struct {
		name       string
		fragment   string
		wantTicket string
		wantOK     bool
	}{
		{
			name:       "plain ticket",
			fragment:   "session_id=abc123",
			wantTicket: "abc123",
			wantOK:     true,
		},
		{
			name:       "leading hash",
			fragment:   "#session_id=abc123",
			wantTicket: "abc123",
			wantOK:     true,
		},
		{
			name:       "ticket among other parameters",
			fragment:   "#state=xyz&session_id=abc123&provider=google",
			wantTicket: "abc123",
			wantOK:     true,
		},
		{
			name:       "url-encoded ticket",
			fragment:   "session_id=abc%2F123",
			wantTicket: "abc/123",
			wantOK:     true,
		},
		{
			name:     "empty fragment",
			fragment: "",
			wantOK:   false,
		},
		{
			name:     "bare hash",
			fragment: "#",
			wantOK:   false,
		},
		{
			name:     "missing parameter",
			fragment: "#state=xyz",
			wantOK:   false,
		},
		{
			name:     "empty ticket value",
			fragment: "#session_id=",
			wantOK:   false,
		},
		{
			name:     "malformed encoding",
			fragment: "#session_id=%zz",
			wantOK:   false,
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			ticket, ok := fragment.Ticket(tc.fragment)

			assert.Equal(t, tc.wantOK, ok)
			assert.Equal(t, tc.wantTicket, ticket)
		})
	}
}
