package httpapi

import (
	"context"
	"fmt"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/dmitrijs2005/authapp/internal/common"
	"github.com/dmitrijs2005/authapp/internal/logging"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/google/uuid"
)

type ctxKey int

const (
	ctxKeyRequestID ctxKey = iota
	ctxKeyUserID
)

// RequestIDFromContext returns the correlation id of the request, if any.
func RequestIDFromContext(ctx context.Context) string {
	id, _ := ctx.Value(ctxKeyRequestID).(string)
	return id
}

// UserIDFromContext returns the id of the authenticated caller.
func UserIDFromContext(ctx context.Context) (int64, bool) {
	id, ok := ctx.Value(ctxKeyUserID).(int64)
	return id, ok
}

const maxRequestIDLen = 128

// requestID reuses a sane X-Request-ID from the client or makes a new one,
// and echoes it back.
func requestID(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		id := r.Header.Get(common.RequestIDHeaderName)
		if id == "" || len(id) > maxRequestIDLen || strings.ContainsAny(id, " \t\r\n") {
			id = uuid.NewString()
		}
		w.Header().Set(common.RequestIDHeaderName, id)
		next.ServeHTTP(w, r.WithContext(context.WithValue(r.Context(), ctxKeyRequestID, id)))
	})
}

func accessLog(logger logging.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			start := time.Now()
			ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
			next.ServeHTTP(ww, r)
			logger.Info(r.Context(), "request",
				"request_id", RequestIDFromContext(r.Context()),
				"method", r.Method,
				"path", r.URL.Path,
				"status", ww.Status(),
				"duration", time.Since(start),
			)
		})
	}
}

// bearerAuth rejects requests without a valid token and stores the caller's
// id in the request context.
func bearerAuth(auth func(ctx context.Context, token string) (int64, error)) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			header := r.Header.Get(common.AuthorizationHeaderName)
			scheme, token, ok := strings.Cut(header, " ")
			if !ok || !strings.EqualFold(scheme, common.BearerScheme) || strings.TrimSpace(token) == "" {
				writeMessage(w, http.StatusUnauthorized, "Missing bearer token.")
				return
			}

			id, err := auth(r.Context(), strings.TrimSpace(token))
			if err != nil {
				status, msg := statusOf(err)
				if status != http.StatusInternalServerError {
					status, msg = http.StatusUnauthorized, "Invalid or expired token."
				}
				writeMessage(w, status, msg)
				return
			}

			next.ServeHTTP(w, r.WithContext(context.WithValue(r.Context(), ctxKeyUserID, id)))
		})
	}
}

// sameUser only lets callers reach their own {id}.
func sameUser(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		pathID, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
		if err != nil {
			writeMessage(w, http.StatusBadRequest, "Invalid user id.")
			return
		}
		caller, _ := UserIDFromContext(r.Context())
		if err := checkOwner(caller, pathID); err != nil {
			status, msg := statusOf(err)
			writeMessage(w, status, msg)
			return
		}
		next.ServeHTTP(w, r)
	})
}

func checkOwner(caller, target int64) error {
	if caller != target {
		return fmt.Errorf("%w: user %d cannot access user %d", common.ErrorForbidden, caller, target)
	}
	return nil
}
