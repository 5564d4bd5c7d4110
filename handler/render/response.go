package render

import (
	"bytes"
	"encoding/json"
	"net/http"
	"os"
	"strconv"
	"strings"
)

// ResponseErrorMessageAsHint exposes the message of internal errors in the
// hint field, read from RESPONSE_ERROR_MESSAGE_AS_HINT
var ResponseErrorMessageAsHint, _ = strconv.ParseBool(os.Getenv("RESPONSE_ERROR_MESSAGE_AS_HINT"))

type errorResponse struct {
	Code int    `json:"code"`
	Msg  string `json:"msg"`
	Hint string `json:"hint,omitempty"`
}

// bufferedWriter holds the handler output until the envelope is decided
type bufferedWriter struct {
	status int
	header http.Header
	body   bytes.Buffer
}

func (b *bufferedWriter) Header() http.Header {
	return b.header
}

func (b *bufferedWriter) WriteHeader(statusCode int) {
	b.status = statusCode
}

func (b *bufferedWriter) Write(data []byte) (int, error) {
	return b.body.Write(data)
}

func (b *bufferedWriter) failed() bool {
	return b.status >= http.StatusBadRequest
}

func (b *bufferedWriter) isJSON() bool {
	return strings.HasPrefix(b.header.Get("Content-Type"), "application/json")
}

// flush writes the buffered response to w, json successes wrapped as
// {"data": ...}
func (b *bufferedWriter) flush(w http.ResponseWriter, keepStatus bool) {
	status, body := b.status, b.body.Bytes()

	switch {
	case !b.isJSON():
	case b.failed():
		if !keepStatus {
			status = http.StatusOK
		}
	default:
		body, _ = json.Marshal(struct {
			Data json.RawMessage `json:"data,omitempty"`
		}{Data: bytes.TrimSpace(body)})
		w.Header().Del("Content-Length")
	}

	w.WriteHeader(status)
	_, _ = w.Write(body)
}

// WrapResponse wraps successful json responses into {"data": ...}.
// With status true, error responses keep their http status, otherwise
// they are written with 200 and only the body carries the error.
func WrapResponse(status bool) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		fn := func(w http.ResponseWriter, r *http.Request) {
			b := &bufferedWriter{
				status: http.StatusOK,
				header: w.Header(),
			}

			next.ServeHTTP(b, r)
			b.flush(w, status)
		}

		return http.HandlerFunc(fn)
	}
}
