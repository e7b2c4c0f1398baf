// internal/app/features/tokens/handler.go
package tokens

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"time"
	"unicode/utf8"

	uierrors "github.com/dalemusser/imagehub/internal/app/features/errors"
	tokenstore "github.com/dalemusser/imagehub/internal/app/store/tokens"
	"github.com/dalemusser/imagehub/internal/app/system/auditlog"
	"github.com/dalemusser/imagehub/internal/app/system/auth"
	"github.com/dalemusser/imagehub/internal/app/system/normalize"
	"github.com/dalemusser/imagehub/internal/app/system/timeouts"
	"github.com/dalemusser/imagehub/internal/domain/models"
	"github.com/go-chi/chi/v5"
	"go.mongodb.org/mongo-driver/mongo"
	"go.uber.org/zap"
)

// MaxLabelLen bounds a token label after normalization.
const MaxLabelLen = 64

// issueAttempts covers the unlikely case of a prefix collision.
const issueAttempts = 3

// Handler lets a token holder mint, list and revoke their own tokens.
type Handler struct {
	Tokens   *tokenstore.Store
	AuditLog *auditlog.Logger
	ErrLog   *uierrors.ErrorLogger
	Log      *zap.Logger
}

func NewHandler(db *mongo.Database, audit *auditlog.Logger, errLog *uierrors.ErrorLogger, logger *zap.Logger) *Handler {
	return &Handler{
		Tokens:   tokenstore.New(db),
		AuditLog: audit,
		ErrLog:   errLog,
		Log:      logger,
	}
}

type issueRequest struct {
	Label string `json:"label"`
}

type issueResponse struct {
	Token  string `json:"token"`
	Prefix string `json:"prefix"`
}

type tokenView struct {
	Prefix     string     `json:"prefix"`
	Label      string     `json:"label,omitempty"`
	CreatedAt  time.Time  `json:"created_at"`
	LastUsedAt *time.Time `json:"last_used_at,omitempty"`
	Current    bool       `json:"current"`
}

/*─────────────────────────────────────────────────────────────────────────────*
| POST /api/tokens                                                            |
*─────────────────────────────────────────────────────────────────────────────*/

// HandleIssue mints a token for the caller. The clear token appears in
// this response only.
func (h *Handler) HandleIssue(w http.ResponseWriter, r *http.Request) {
	u, ok := auth.CurrentUser(r)
	if !ok {
		uierrors.WriteJSON(w, http.StatusUnauthorized, "unauthorized")
		return
	}

	var in issueRequest
	if r.ContentLength != 0 {
		r.Body = http.MaxBytesReader(w, r.Body, 4<<10)
		if err := json.NewDecoder(r.Body).Decode(&in); err != nil {
			h.ErrLog.LogBadRequest(w, r, "tokens: bad body", err, `request body must be {"label": "..."}`)
			return
		}
	}
	label := normalize.Label(in.Label)
	if utf8.RuneCountInString(label) > MaxLabelLen {
		h.ErrLog.LogBadRequest(w, r, "tokens: label too long", nil, "label is too long")
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Short())
	defer cancel()

	var (
		token string
		rec   models.APIToken
		err   error
	)
	for i := 0; i < issueAttempts; i++ {
		token, rec, err = h.Tokens.Issue(ctx, u.ID, label)
		if !errors.Is(err, tokenstore.ErrDuplicatePrefix) {
			break
		}
	}
	if err != nil {
		h.ErrLog.LogServerError(w, r, "tokens: issue failed", err, "could not issue token")
		return
	}

	h.AuditLog.TokenIssued(ctx, r, u.ID, u.TokenPrefix, rec.Prefix, label)
	h.Log.Info("api token issued",
		zap.String("user_id", u.ID.Hex()),
		zap.String("token_prefix", rec.Prefix))

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusCreated)
	_ = json.NewEncoder(w).Encode(issueResponse{Token: token, Prefix: rec.Prefix})
}

/*─────────────────────────────────────────────────────────────────────────────*
| GET /api/tokens                                                             |
*─────────────────────────────────────────────────────────────────────────────*/

// ServeList lists the caller's tokens by prefix, newest first.
func (h *Handler) ServeList(w http.ResponseWriter, r *http.Request) {
	u, ok := auth.CurrentUser(r)
	if !ok {
		uierrors.WriteJSON(w, http.StatusUnauthorized, "unauthorized")
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Short())
	defer cancel()

	recs, err := h.Tokens.ListByUser(ctx, u.ID)
	if err != nil {
		h.ErrLog.LogServerError(w, r, "tokens: list failed", err, "a database error occurred")
		return
	}

	out := make([]tokenView, 0, len(recs))
	for _, t := range recs {
		out = append(out, tokenView{
			Prefix:     t.Prefix,
			Label:      t.Label,
			CreatedAt:  t.CreatedAt,
			LastUsedAt: t.LastUsedAt,
			Current:    t.Prefix == u.TokenPrefix,
		})
	}

	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(out)
}

/*─────────────────────────────────────────────────────────────────────────────*
| DELETE /api/tokens/{prefix}                                                 |
*─────────────────────────────────────────────────────────────────────────────*/

// HandleRevoke deletes one of the caller's tokens. Revoking the token used
// for this request is allowed.
func (h *Handler) HandleRevoke(w http.ResponseWriter, r *http.Request) {
	u, ok := auth.CurrentUser(r)
	if !ok {
		uierrors.WriteJSON(w, http.StatusUnauthorized, "unauthorized")
		return
	}
	prefix := chi.URLParam(r, "prefix")

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Short())
	defer cancel()

	if err := h.Tokens.Revoke(ctx, u.ID, prefix); err != nil {
		if errors.Is(err, tokenstore.ErrNotFound) {
			h.ErrLog.LogNotFound(w, r, "tokens: revoke unknown prefix", "token not found")
			return
		}
		h.ErrLog.LogServerError(w, r, "tokens: revoke failed", err, "a database error occurred")
		return
	}

	h.AuditLog.TokenRevoked(ctx, r, u.ID, u.TokenPrefix, prefix)
	h.Log.Info("api token revoked",
		zap.String("user_id", u.ID.Hex()),
		zap.String("token_prefix", prefix))
	w.WriteHeader(http.StatusNoContent)
}
