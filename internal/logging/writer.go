package logging

import (
	"log/slog"
	"net/http"
)

// responseRecorder notes the status code and body size flowing
// through it so the completion log line can report them. Only the
// first WriteHeader counts; a bare Write records the implicit 200.
type responseRecorder struct {
	http.ResponseWriter
	request *http.Request
	status  int
	bytes   int
}

func (w *responseRecorder) WriteHeader(status int) {
	if w.status == 0 {
		w.status = status
	}
	w.ResponseWriter.WriteHeader(status)
}

func (w *responseRecorder) Write(b []byte) (int, error) {
	if w.status == 0 {
		w.status = http.StatusOK
	}

	n, err := w.ResponseWriter.Write(b)
	if err != nil {
		GetLogger(w.request).Error("Response write failed", slog.String("error", err.Error()))
	}

	w.bytes += n

	return n, err
}
