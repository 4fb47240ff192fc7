package http

import (
	"context"
	"log/slog"
	"net/http"
	"strings"

	apperrors "github.com/vendly/marketplace/pkg/errors"
	"github.com/vendly/marketplace/pkg/httputil"
	"github.com/vendly/marketplace/pkg/logger"

	"github.com/vendly/marketplace/internal/domain"
)

// ContentTypeJSON enforces that requests with a body have Content-Type: application/json.
func ContentTypeJSON(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method == http.MethodPost || r.Method == http.MethodPut || r.Method == http.MethodPatch {
			ct := r.Header.Get("Content-Type")
			if !strings.HasPrefix(ct, "application/json") {
				w.Header().Set("Content-Type", "application/json")
				w.WriteHeader(http.StatusUnsupportedMediaType)
				_, _ = w.Write([]byte(`{"error":{"code":"UNSUPPORTED_MEDIA_TYPE","message":"Content-Type must be application/json"}}`))
				return
			}
		}
		next.ServeHTTP(w, r)
	})
}

// CORS sets permissive Cross-Origin Resource Sharing headers.
func CORS(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Access-Control-Allow-Origin", "*")
		w.Header().Set("Access-Control-Allow-Methods", "GET, POST, PUT, DELETE, OPTIONS")
		w.Header().Set("Access-Control-Allow-Headers", "Accept, Authorization, Content-Type, X-Correlation-ID")
		w.Header().Set("Access-Control-Max-Age", "3600")

		if r.Method == http.MethodOptions {
			w.WriteHeader(http.StatusNoContent)
			return
		}

		next.ServeHTTP(w, r)
	})
}

// CredentialVerifier checks a username/password pair against stored accounts.
type CredentialVerifier interface {
	Authenticate(ctx context.Context, username, password string) (*domain.User, error)
}

// Authenticator resolves HTTP Basic credentials into a requester identity.
// The resolved user ID is stored on the request context; handlers read it
// back and an empty ID means an anonymous request.
type Authenticator struct {
	verifier CredentialVerifier
	logger   *slog.Logger
}

// NewAuthenticator creates an authenticator backed by the given verifier.
func NewAuthenticator(verifier CredentialVerifier, logger *slog.Logger) *Authenticator {
	return &Authenticator{verifier: verifier, logger: logger}
}

// Optional resolves credentials when the Authorization header is present and
// lets anonymous requests through. Presented-but-invalid credentials are
// rejected so a client never silently degrades to anonymous.
func (a *Authenticator) Optional(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Header.Get("Authorization") == "" {
			next.ServeHTTP(w, r)
			return
		}
		a.authenticate(w, r, next)
	})
}

// Require rejects requests without valid Basic credentials.
func (a *Authenticator) Require(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Header.Get("Authorization") == "" {
			w.Header().Set("WWW-Authenticate", `Basic realm="marketplace"`)
			httputil.WriteError(w, r, apperrors.Unauthorized("authentication required"), a.logger)
			return
		}
		a.authenticate(w, r, next)
	})
}

func (a *Authenticator) authenticate(w http.ResponseWriter, r *http.Request, next http.Handler) {
	username, password, ok := r.BasicAuth()
	if !ok {
		w.Header().Set("WWW-Authenticate", `Basic realm="marketplace"`)
		httputil.WriteError(w, r, apperrors.Unauthorized("invalid authorization header"), a.logger)
		return
	}

	user, err := a.verifier.Authenticate(r.Context(), username, password)
	if err != nil {
		w.Header().Set("WWW-Authenticate", `Basic realm="marketplace"`)
		httputil.WriteError(w, r, err, a.logger)
		return
	}

	ctx := context.WithValue(r.Context(), requesterKey{}, user.ID)
	ctx = logger.WithUserID(ctx, user.ID)
	next.ServeHTTP(w, r.WithContext(ctx))
}

// requesterKey is the context key for the verified requester identity. Only
// authenticate() writes it; the logging context's user_id slot is never read
// back for authorization because clients can seed it via the X-User-ID
// header.
type requesterKey struct{}

// requesterID returns the authenticated user ID, or "" for anonymous
// requests.
func requesterID(r *http.Request) string {
	id, _ := r.Context().Value(requesterKey{}).(string)
	return id
}
