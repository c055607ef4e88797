// Package responsewriter wraps http.ResponseWriter so middleware can see what
// a handler sent: status, body size, elapsed time and the content source the
// handler declared in X-Content-Source.
package responsewriter

import (
	"net/http"
	"time"
)

// SourceHeader carries the data source of a content response
// (live, static, cache or preview).
const SourceHeader = "X-Content-Source"

// ResponseWriter records the response as it is written.
type ResponseWriter struct {
	http.ResponseWriter
	start       time.Time
	status      int
	bytes       int
	source      string
	wroteHeader bool
}

// Wrap starts recording w. The clock starts at Wrap.
func Wrap(w http.ResponseWriter) *ResponseWriter {
	return &ResponseWriter{ResponseWriter: w, start: time.Now(), status: http.StatusOK}
}

// WriteHeader sends the status line once; later calls are ignored.
// The content source is captured here because handlers set it before
// the header is flushed.
func (w *ResponseWriter) WriteHeader(status int) {
	if w.wroteHeader {
		return
	}
	w.wroteHeader = true
	w.status = status
	w.source = w.Header().Get(SourceHeader)
	w.ResponseWriter.WriteHeader(status)
}

func (w *ResponseWriter) Write(b []byte) (int, error) {
	if !w.wroteHeader {
		w.WriteHeader(http.StatusOK)
	}
	n, err := w.ResponseWriter.Write(b)
	w.bytes += n
	return n, err
}

// StatusCode is the status sent, or 200 if nothing was written yet.
func (w *ResponseWriter) StatusCode() int { return w.status }

// BytesWritten is the body size sent so far.
func (w *ResponseWriter) BytesWritten() int { return w.bytes }

// Source is the X-Content-Source value at the time the header was sent,
// or "" for non-content responses.
func (w *ResponseWriter) Source() string { return w.source }

// Elapsed is the time since Wrap.
func (w *ResponseWriter) Elapsed() time.Duration { return time.Since(w.start) }

// Written reports whether the status line has been sent.
func (w *ResponseWriter) Written() bool { return w.wroteHeader }

// Flush implements http.Flusher when the underlying writer does.
func (w *ResponseWriter) Flush() {
	if !w.wroteHeader {
		w.WriteHeader(http.StatusOK)
	}
	if f, ok := w.ResponseWriter.(http.Flusher); ok {
		f.Flush()
	}
}

// Unwrap exposes the underlying writer to http.ResponseController.
func (w *ResponseWriter) Unwrap() http.ResponseWriter { return w.ResponseWriter }
