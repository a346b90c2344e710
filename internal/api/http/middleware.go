package http

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/mux"

	"farmequip-backoffice/internal/config"
	"farmequip-backoffice/internal/domain"
	"farmequip-backoffice/internal/logger"
	"farmequip-backoffice/internal/metrics"
)

var errUnauthenticated = errors.New("unauthenticated")

type sessionKey struct{}

// SessionFromContext returns the session the auth middleware attached.
func SessionFromContext(ctx context.Context) (domain.Session, bool) {
	s, ok := ctx.Value(sessionKey{}).(domain.Session)
	return s, ok
}

func routeName(r *http.Request) string {
	if route := mux.CurrentRoute(r); route != nil {
		return route.GetName()
	}
	return ""
}

// statusRecorder captures the response code. It passes Hijack through so
// the websocket upgrade keeps working behind it.
type statusRecorder struct {
	http.ResponseWriter
	status int
}

func (w *statusRecorder) WriteHeader(code int) {
	w.status = code
	w.ResponseWriter.WriteHeader(code)
}

func (w *statusRecorder) Hijack() (net.Conn, *bufio.ReadWriter, error) {
	hj, ok := w.ResponseWriter.(http.Hijacker)
	if !ok {
		return nil, nil, fmt.Errorf("response writer does not support hijacking")
	}
	w.status = http.StatusSwitchingProtocols
	return hj.Hijack()
}

// observe tags the request with an id, logs it and records its metrics.
func observe(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		requestID := r.Header.Get("X-Request-ID")
		if requestID == "" {
			requestID = uuid.NewString()
		}
		name := routeName(r)

		ctx := logger.WithContext(r.Context(), logger.Get().With("request_id", requestID, "route", name))
		w.Header().Set("X-Request-ID", requestID)
		rec := &statusRecorder{ResponseWriter: w, status: http.StatusOK}

		next.ServeHTTP(rec, r.WithContext(ctx))

		elapsed := time.Since(start)
		metrics.ObserveRequest(name, r.Method, strconv.Itoa(rec.status), elapsed.Seconds())
		logger.InfoContext(ctx, "HTTP request", "method", r.Method, "path", r.URL.Path, "status", rec.status, "duration_ms", elapsed.Milliseconds())
	})
}

// authenticate validates the bearer token and checks the capability the
// route requires.
func (h *Handler) authenticate(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		access := config.GetRouteAccess(routeName(r))
		if access.Public {
			next.ServeHTTP(w, r)
			return
		}

		token := bearerToken(r)
		if token == "" {
			writeError(w, r, fmt.Errorf("%w: authorization token is not provided", errUnauthenticated))
			return
		}
		claims, err := h.opts.Tokens.ValidateToken(token)
		if err != nil {
			writeError(w, r, fmt.Errorf("%w: %v", errUnauthenticated, err))
			return
		}

		session := claims.Session()
		if !session.Can(access.Capability) {
			writeError(w, r, fmt.Errorf("%w: %s requires %s", domain.ErrForbidden, session.Username, access.Capability))
			return
		}

		ctx := context.WithValue(r.Context(), sessionKey{}, session)
		ctx = logger.WithContext(ctx, logger.FromContext(ctx).With("user", session.Username))
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

// bearerToken reads the Authorization header. Browsers cannot set headers
// on websocket requests, so a token query parameter is accepted too.
func bearerToken(r *http.Request) string {
	token := r.Header.Get("Authorization")
	if len(token) > 7 && strings.ToUpper(token[0:7]) == "BEARER " {
		return token[7:]
	}
	if token != "" {
		return token
	}
	return r.URL.Query().Get("token")
}

// confirmed reports whether the client confirmed a destructive action.
func confirmed(r *http.Request) bool {
	v := r.Header.Get("X-Confirm")
	if v == "" {
		v = r.URL.Query().Get("confirm")
	}
	ok, _ := strconv.ParseBool(v)
	return ok
}
