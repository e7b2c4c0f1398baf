package auth

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"strings"

	"github.com/dalemusser/imagehub/internal/app/system/timeouts"
	"github.com/dalemusser/imagehub/internal/domain/models"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.uber.org/zap"
)

/*─────────────────────────────────────────────────────────────────────────────*
| Collaborators                                                               |
*─────────────────────────────────────────────────────────────────────────────*/

// TokenVerifier checks a presented bearer token. tokenstore.Store satisfies it.
type TokenVerifier interface {
	Verify(ctx context.Context, token string) (*models.APIToken, error)
	Touch(ctx context.Context, id primitive.ObjectID) error
}

// UserLoader fetches the token's owner. userstore.Store satisfies it.
type UserLoader interface {
	GetByID(ctx context.Context, id primitive.ObjectID) (*models.User, error)
}

// ErrInvalidToken is what a TokenVerifier returns (possibly wrapped) for a
// bad token. Any other error is treated as a server fault.
var ErrInvalidToken = errors.New("invalid token")

/*─────────────────────────────────────────────────────────────────────────────*
| Current-User helper                                                         |
*─────────────────────────────────────────────────────────────────────────────*/

// APIUser is what the middleware injects into r.Context().
type APIUser struct {
	ID          primitive.ObjectID
	Username    string
	Storage     *models.StorageConfig
	TokenID     primitive.ObjectID
	TokenPrefix string
}

type ctxKey string

const currentUserKey ctxKey = "apiUser"

// CurrentUser returns the authenticated API user & "found?" flag.
func CurrentUser(r *http.Request) (*APIUser, bool) {
	u, ok := r.Context().Value(currentUserKey).(*APIUser)
	return u, ok && u != nil
}

// WithTestUser places u in the request context, bypassing the middleware.
func WithTestUser(r *http.Request, u *APIUser) *http.Request {
	return withUser(r, u)
}

func withUser(r *http.Request, u *APIUser) *http.Request {
	return r.WithContext(context.WithValue(r.Context(), currentUserKey, u))
}

// TokenPrefixKey is a ratelimit key function: the caller's token prefix.
func TokenPrefixKey(r *http.Request) string {
	if u, ok := CurrentUser(r); ok {
		return u.TokenPrefix
	}
	return ""
}

/*─────────────────────────────────────────────────────────────────────────────*
| Middleware                                                                  |
*─────────────────────────────────────────────────────────────────────────────*/

// Authenticator resolves "Authorization: Bearer <token>" to an APIUser.
type Authenticator struct {
	tokens TokenVerifier
	users  UserLoader
	log    *zap.Logger

	// OnFailure, if set, is told why a request was rejected
	// ("missing", "invalid", "unknown_user", "error").
	OnFailure func(r *http.Request, reason string)
}

func NewAuthenticator(tokens TokenVerifier, users UserLoader, logger *zap.Logger) *Authenticator {
	return &Authenticator{tokens: tokens, users: users, log: logger}
}

// BearerToken extracts the token from the Authorization header.
func BearerToken(r *http.Request) (string, bool) {
	h := r.Header.Get("Authorization")
	scheme, tok, ok := strings.Cut(h, " ")
	if !ok || !strings.EqualFold(scheme, "Bearer") {
		return "", false
	}
	tok = strings.TrimSpace(tok)
	return tok, tok != ""
}

// RequireToken rejects requests without a valid bearer token with 401 and
// otherwise injects the APIUser. Token use is recorded best effort.
func (a *Authenticator) RequireToken(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		tok, ok := BearerToken(r)
		if !ok {
			a.reject(w, r, "missing")
			return
		}

		ctx, cancel := context.WithTimeout(r.Context(), timeouts.Short())
		defer cancel()

		rec, err := a.tokens.Verify(ctx, tok)
		if err != nil {
			if errors.Is(err, ErrInvalidToken) {
				a.reject(w, r, "invalid")
				return
			}
			a.log.Error("token verify failed", zap.Error(err))
			a.fail(w, r, "error")
			return
		}

		u, err := a.users.GetByID(ctx, rec.UserID)
		if err != nil {
			a.log.Warn("token owner not loadable",
				zap.String("user_id", rec.UserID.Hex()),
				zap.String("token_prefix", rec.Prefix),
				zap.Error(err))
			a.reject(w, r, "unknown_user")
			return
		}

		if err := a.tokens.Touch(ctx, rec.ID); err != nil {
			a.log.Warn("token touch failed", zap.String("token_prefix", rec.Prefix), zap.Error(err))
		}

		r = withUser(r, &APIUser{
			ID:          u.ID,
			Username:    u.Username,
			Storage:     u.Storage,
			TokenID:     rec.ID,
			TokenPrefix: rec.Prefix,
		})
		next.ServeHTTP(w, r)
	})
}

func (a *Authenticator) reject(w http.ResponseWriter, r *http.Request, reason string) {
	if a.OnFailure != nil {
		a.OnFailure(r, reason)
	}
	w.Header().Set("WWW-Authenticate", `Bearer realm="imagehub"`)
	writeJSON(w, http.StatusUnauthorized, "unauthorized")
}

func (a *Authenticator) fail(w http.ResponseWriter, r *http.Request, reason string) {
	if a.OnFailure != nil {
		a.OnFailure(r, reason)
	}
	writeJSON(w, http.StatusInternalServerError, "a server error occurred")
}

func writeJSON(w http.ResponseWriter, status int, msg string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(map[string]string{"error": msg})
}
