package middleware

import (
	"net/http"

	apperrors "github.com/kbukum/habit/errors"
)

// BodySizeLimit caps request bodies at limit bytes. Requests that declare a
// larger Content-Length are rejected up front with 413.
func BodySizeLimit(limit int64) Middleware {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if r.ContentLength > limit {
				writeError(w, apperrors.New(apperrors.ErrCodeInvalidInput,
					"Request body is too large.", http.StatusRequestEntityTooLarge))
				return
			}
			r.Body = http.MaxBytesReader(w, r.Body, limit)
			next.ServeHTTP(w, r)
		})
	}
}
