/*-------------------------------------------------------------------------
 *
 * middleware.go
 *    HTTP middleware chain
 *
 * Request flow: request id, CORS, logging and metrics, JWT auth, then
 * verb-based authorization against the caller's permission grants. The
 * authorization middleware derives (entity, entity id) from the path and
 * tests the request method against the grant's verb set; admin-role
 * callers bypass grant evaluation inside the evaluator.
 *
 * Copyright (c) 2024-2026, Hazem Saifelnasr
 *
 * IDENTIFICATION
 *    warehouse-management/internal/api/middleware.go
 *
 *-------------------------------------------------------------------------
 */

package api

import (
	"context"
	"net/http"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/Hazem-Saifelnasr/warehouse-management/internal/auth"
	"github.com/Hazem-Saifelnasr/warehouse-management/internal/metrics"
)

type contextKey string

const claimsContextKey contextKey = "claims"

/* ClaimsFromContext returns the authenticated caller's token claims */
func ClaimsFromContext(ctx context.Context) *auth.Claims {
	claims, _ := ctx.Value(claimsContextKey).(*auth.Claims)
	return claims
}

/* RequestIDMiddleware assigns each request a uuid and threads it into the
 * log context. */
func RequestIDMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		requestID := r.Header.Get("X-Request-ID")
		if requestID == "" {
			requestID = uuid.New().String()
		}
		w.Header().Set("X-Request-ID", requestID)

		entity, _ := auth.ResourceFromPath(r.URL.Path)
		ctx := metrics.WithLogContext(r.Context(), requestID, 0, entity)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

func CORSMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Access-Control-Allow-Origin", "*")
		w.Header().Set("Access-Control-Allow-Methods", "GET, POST, PUT, PATCH, DELETE, OPTIONS")
		w.Header().Set("Access-Control-Allow-Headers", "Authorization, Content-Type, X-Request-ID")

		if r.Method == http.MethodOptions {
			w.WriteHeader(http.StatusNoContent)
			return
		}
		next.ServeHTTP(w, r)
	})
}

type statusRecorder struct {
	http.ResponseWriter
	status int
}

func (rec *statusRecorder) WriteHeader(status int) {
	rec.status = status
	rec.ResponseWriter.WriteHeader(status)
}

/* LoggingMiddleware records one log line and the request metrics per call */
func LoggingMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		rec := &statusRecorder{ResponseWriter: w, status: http.StatusOK}

		next.ServeHTTP(rec, r)

		duration := time.Since(start)
		metrics.RecordHTTPRequest(r.Method, r.URL.Path, http.StatusText(rec.status), duration)
		metrics.InfoWithContext(r.Context(), "Request completed", map[string]interface{}{
			"method":      r.Method,
			"path":        r.URL.Path,
			"status":      rec.status,
			"duration_ms": duration.Milliseconds(),
		})
	})
}

/* AuthMiddleware validates the bearer token and stores the claims plus the
 * caller id in the request context. */
func AuthMiddleware(tokens *auth.TokenManager) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			header := r.Header.Get("Authorization")
			if !strings.HasPrefix(header, "Bearer ") {
				respondError(w, r, http.StatusUnauthorized, "unauthorized", "missing bearer token")
				return
			}

			claims, err := tokens.Validate(strings.TrimPrefix(header, "Bearer "))
			if err != nil {
				respondError(w, r, http.StatusUnauthorized, "unauthorized", err.Error())
				return
			}

			ctx := context.WithValue(r.Context(), claimsContextKey, claims)
			requestID := metrics.GetRequestIDFromContext(ctx)
			entity, _ := auth.ResourceFromPath(r.URL.Path)
			ctx = metrics.WithLogContext(ctx, requestID, claims.UserID, entity)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

/* AuthorizeMiddleware gates the request on the caller's grants */
func AuthorizeMiddleware(evaluator *auth.Evaluator) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			claims := ClaimsFromContext(r.Context())
			if claims == nil {
				respondError(w, r, http.StatusUnauthorized, "unauthorized", "missing credentials")
				return
			}

			entity, entityID := auth.ResourceFromPath(r.URL.Path)
			if !evaluator.AuthorizeVerb(r.Context(), claims.UserID, entity, entityID, r.Method) {
				respondError(w, r, http.StatusForbidden, "forbidden", "not permitted for this resource")
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}
