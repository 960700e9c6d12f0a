// Package fragment extracts the sign-in ticket the identity provider places
// in the URL fragment of its redirect. Browsers never send the fragment to
// the server, so parsing happens in the callback page script and the result
// is posted back; this package is the shared definition of what counts as a
// ticket.
package fragment

import (
	"net/url"
	"strings"
)

// ticketParameter matches the parameter name the identity provider uses in
// its redirect fragment.
const ticketParameter = "session_id"

// Ticket parses a URL fragment and returns the sign-in ticket it carries.
// The leading '#' is optional. A fragment without a non-empty session_id
// parameter yields ok == false.
func Ticket(frag string) (string, bool) {
	frag = strings.TrimPrefix(frag, "#")
	if frag == "" {
		return "", false
	}

	values, err := url.ParseQuery(frag)
	if err != nil {
		return "", false
	}

	ticket := values.Get(ticketParameter)
	if ticket == "" {
		return "", false
	}

	return ticket, true
}
