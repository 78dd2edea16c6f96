package main

import (
	"log"
	"net/http"
	"strconv"
	"time"
)

// statusWriter proxies http.ResponseWriter and records the response
// status and body length.
type statusWriter struct {
	http.ResponseWriter
	status int
	length int
}

func (w *statusWriter) WriteHeader(status int) {
	w.status = status
	w.ResponseWriter.WriteHeader(status)
}

func (w *statusWriter) Write(b []byte) (int, error) {
	if w.status == 0 {
		w.status = http.StatusOK
	}
	length, err := w.ResponseWriter.Write(b)
	w.length += length
	return length, err
}

// HttpLog wraps a handler so every request gets an access-log line with
// status, response size and latency.
func HttpLog(handle http.Handler) http.HandlerFunc {
	if handle == nil {
		handle = http.DefaultServeMux
	}
	return func(w http.ResponseWriter, request *http.Request) {
		start := time.Now()
		writer := statusWriter{w, 0, 0}
		handle.ServeHTTP(&writer, request)
		latency := time.Since(start)

		log.Printf("%s \"%s %s %s\" %d %d %s %v",
			request.RemoteAddr,
			request.Method,
			request.URL.String(),
			request.Proto,
			writer.status,
			writer.length,
			strconv.Quote(request.Header.Get("User-Agent")),
			latency.Milliseconds())
	}
}
