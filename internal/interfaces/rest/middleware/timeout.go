package middleware

import (
	"net/http"
	"time"
)

const timeoutBody = `{"success":false,"error":{"code":"TIMEOUT","message":"Request timeout"}}`

// Timeout bounds each HTTP exchange. Flows started by a request run on
// their own context and are not affected.
func Timeout(timeout time.Duration) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.TimeoutHandler(next, timeout, timeoutBody)
	}
}
