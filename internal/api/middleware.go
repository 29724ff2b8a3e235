package api

import (
	"crypto/subtle"
	"net/http"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/hlog"
)

// RequestIDHeader carries the per-request id in both directions.
const RequestIDHeader = "X-Request-ID"

// AuthMiddleware returns middleware that requires the Authorization header
// to equal secret exactly. The comparison is constant-time. An empty secret
// rejects every request.
func AuthMiddleware(secret string) func(http.Handler) http.Handler {
	want := []byte(secret)
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			got := []byte(r.Header.Get("Authorization"))
			if len(want) == 0 || subtle.ConstantTimeCompare(got, want) != 1 {
				hlog.FromRequest(r).Info().Bool("header_present", len(got) > 0).Msg("rejected unauthorized request")
				Unauthorized(w, r)
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}

// RequestID reuses an incoming X-Request-ID or generates one, echoes it on
// the response, and adds it to the request logger. It must run after
// hlog.NewHandler.
func RequestID(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		id := r.Header.Get(RequestIDHeader)
		if id == "" {
			id = uuid.NewString()
		}
		w.Header().Set(RequestIDHeader, id)
		hlog.FromRequest(r).UpdateContext(func(c zerolog.Context) zerolog.Context {
			return c.Str("req_id", id)
		})
		next.ServeHTTP(w, r)
	})
}

// Logging returns the request logging chain: a per-request child of logger
// with request fields, a request id, and an access log line per response.
func Logging(logger zerolog.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		h := hlog.AccessHandler(func(r *http.Request, status, size int, duration time.Duration) {
			hlog.FromRequest(r).Info().
				Int("status", status).
				Int("size", size).
				Dur("duration", duration).
				Msg("request")
		})(next)
		h = RequestID(h)
		h = hlog.RefererHandler("referer")(h)
		h = hlog.UserAgentHandler("user_agent")(h)
		h = hlog.RemoteAddrHandler("remote_addr")(h)
		h = hlog.URLHandler("url")(h)
		h = hlog.MethodHandler("method")(h)
		h = hlog.NewHandler(logger)(h)
		return h
	}
}

// AcceptsHTML reports whether the request's Accept header includes
// text/html. An absent header counts as HTML only when emptyMeansHTML is set.
func AcceptsHTML(r *http.Request, emptyMeansHTML bool) bool {
	accept := r.Header.Get("Accept")
	if accept == "" {
		return emptyMeansHTML
	}
	return strings.Contains(accept, "text/html")
}
