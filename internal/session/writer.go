package session

import "net/http"

// sessionWriter reissues (or clears) the realm cookie just before the
// first byte of the response leaves, since headers are immutable
// after that. The gateway also triggers it for empty responses.
type sessionWriter struct {
	http.ResponseWriter
	session   *Session
	manager   *Manager
	cookieSet bool
}

func (w *sessionWriter) WriteHeader(statusCode int) {
	w.writeCookieOnce()
	w.ResponseWriter.WriteHeader(statusCode)
}

func (w *sessionWriter) Write(b []byte) (int, error) {
	w.writeCookieOnce()
	return w.ResponseWriter.Write(b)
}

func (w *sessionWriter) writeCookieOnce() {
	if w.cookieSet {
		return
	}

	w.cookieSet = true

	if w.session.Destroyed() {
		w.manager.codec.clear(w.ResponseWriter)
		return
	}

	if err := w.manager.codec.encode(w.ResponseWriter, w.session.id); err != nil {
		panic("failed to write session cookie")
	}
}
