package api

import (
	"context"
	"fmt"
	"net/http"
	"strconv"
	"time"

	"github.com/google/uuid"
	"github.com/vytor/timestables/internal/errors"
	"github.com/vytor/timestables/internal/logger"
	"github.com/vytor/timestables/internal/models"
)

// responseWriter wraps http.ResponseWriter to capture the status code.
type responseWriter struct {
	http.ResponseWriter
	status int
	size   int
}

func (rw *responseWriter) WriteHeader(code int) {
	rw.status = code
	rw.ResponseWriter.WriteHeader(code)
}

func (rw *responseWriter) Write(b []byte) (int, error) {
	n, err := rw.ResponseWriter.Write(b)
	rw.size += n
	return n, err
}

type contextKey string

const (
	ownerContextKey   contextKey = "owner"
	profileContextKey contextKey = "profile"
	profileCookieName            = "profile_id"
)

// ownerFromContext returns whose progress the request plays with. Requests
// without a selected profile play anonymously.
func ownerFromContext(ctx context.Context) models.Owner {
	if o, ok := ctx.Value(ownerContextKey).(models.Owner); ok {
		return o
	}
	return models.AnonymousOwner
}

func profileFromContext(ctx context.Context) *models.Profile {
	if p, ok := ctx.Value(profileContextKey).(*models.Profile); ok {
		return p
	}
	return nil
}

// ownerMiddleware resolves the selected profile from its cookie. A cookie
// that is malformed or names a deleted profile is cleared and the request
// falls back to the anonymous owner.
func (s *Server) ownerMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		log := logger.FromContext(r.Context())
		owner := models.AnonymousOwner
		var profile *models.Profile

		if cookie, err := r.Cookie(profileCookieName); err == nil && cookie.Value != "" {
			id, err := strconv.ParseInt(cookie.Value, 10, 64)
			if err != nil {
				log.Warn("invalid profile cookie %q, playing anonymously", cookie.Value)
				clearProfileCookie(w)
			} else {
				p, err := s.ProfileService.GetProfile(r.Context(), id)
				switch {
				case errors.IsNotFound(err):
					log.Warn("profile %d from cookie no longer exists, playing anonymously", id)
					clearProfileCookie(w)
				case err != nil:
					handleError(w, r, err)
					return
				default:
					profile = p
					owner = models.ProfileOwner(p.ID)
				}
			}
		}

		ctx := context.WithValue(r.Context(), ownerContextKey, owner)
		if profile != nil {
			ctx = context.WithValue(ctx, profileContextKey, profile)
		}
		ctx = logger.NewContext(ctx, log.WithField("owner", owner.String()))
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

func clearProfileCookie(w http.ResponseWriter) {
	http.SetCookie(w, &http.Cookie{
		Name:    profileCookieName,
		Value:   "",
		Path:    "/",
		Expires: time.Unix(0, 0),
		MaxAge:  -1,
	})
}

func setProfileCookie(w http.ResponseWriter, id int64) {
	http.SetCookie(w, &http.Cookie{
		Name:     profileCookieName,
		Value:    strconv.FormatInt(id, 10),
		Path:     "/",
		Expires:  time.Now().Add(30 * 24 * time.Hour),
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	})
}

// loggingMiddleware logs HTTP requests with timing, status codes, and request IDs.
func loggingMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		requestID := r.Header.Get("X-Request-ID")
		if requestID == "" {
			requestID = uuid.New().String()
		}

		log := logger.Default().WithFields(map[string]any{
			"request_id": requestID,
			"method":     r.Method,
			"path":       r.URL.Path,
		})
		if r.RemoteAddr != "" {
			log = log.WithField("remote_addr", r.RemoteAddr)
		}

		r = r.WithContext(logger.NewContext(r.Context(), log))
		w.Header().Set("X-Request-ID", requestID)
		wrapped := &responseWriter{ResponseWriter: w, status: http.StatusOK}

		log.Debug("request started")
		next.ServeHTTP(wrapped, r)

		log = log.WithFields(map[string]any{
			"status":      wrapped.status,
			"size":        wrapped.size,
			"duration_ms": time.Since(start).Milliseconds(),
		})

		if wrapped.status >= 500 {
			log.Error("request completed with server error")
		} else if wrapped.status >= 400 {
			log.Warn("request completed with client error")
		} else {
			log.Info("request completed")
		}
	})
}

// recoveryMiddleware turns a panic into a 500 JSON error.
func recoveryMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		defer func() {
			if rec := recover(); rec != nil {
				if rec == http.ErrAbortHandler {
					panic(rec)
				}
				handleError(w, r, errors.NewInternalError(fmt.Errorf("panic: %v", rec)))
			}
		}()
		next.ServeHTTP(w, r)
	})
}

func securityHeadersMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("X-Content-Type-Options", "nosniff")
		w.Header().Set("X-Frame-Options", "DENY")
		w.Header().Set("Referrer-Policy", "strict-origin-when-cross-origin")
		next.ServeHTTP(w, r)
	})
}
