// Package responsewriter provides an http.ResponseWriter wrapper that records
// the status code a handler wrote, for middleware that reports on the
// response after the fact.
package responsewriter

import "net/http"

// Recorder wraps an http.ResponseWriter and remembers the first status code
// written to it.
type Recorder struct {
	http.ResponseWriter

	status      int
	wroteHeader bool
}

func NewRecorder(w http.ResponseWriter) *Recorder {
	return &Recorder{ResponseWriter: w}
}

func (r *Recorder) WriteHeader(status int) {
	if !r.wroteHeader {
		r.status = status
		r.wroteHeader = true
	}

	r.ResponseWriter.WriteHeader(status)
}

func (r *Recorder) Write(b []byte) (int, error) {
	if !r.wroteHeader {
		r.WriteHeader(http.StatusOK)
	}

	return r.ResponseWriter.Write(b)
}

// Status returns the recorded status code. A handler that never wrote
// anything is reported as 200, matching net/http behaviour.
func (r *Recorder) Status() int {
	if !r.wroteHeader {
		return http.StatusOK
	}

	return r.status
}
