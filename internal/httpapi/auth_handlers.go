package httpapi

import (
	"errors"
	"log"
	"net/http"
	"strings"
	"time"

	"github.com/google/uuid"

	"campus/server/internal/auth"
	"campus/server/internal/crypto"
	"campus/server/internal/model"
	"campus/server/internal/policy"
	"campus/server/internal/token"
)

type loginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type tokenPairView struct {
	AccessToken  string  `json:"access_token"`
	RefreshToken string  `json:"refresh_token"`
	Role         string  `json:"role"`
	SchoolID     *string `json:"school_id"`
}

// The four verification failure tags share one response body; only the metric
// distinguishes them.
func loginFailureTag(err error) string {
	switch {
	case errors.Is(err, auth.ErrUnknownPrincipal):
		return "unknown_principal"
	case errors.Is(err, auth.ErrIncorrectPassword):
		return "incorrect_password"
	case errors.Is(err, auth.ErrInactivePrincipal):
		return "inactive_principal"
	case errors.Is(err, auth.ErrBlockedPrincipal):
		return "blocked_principal"
	default:
		return "unknown"
	}
}

func (s *Server) handleLogin(w http.ResponseWriter, r *http.Request) {
	var req loginRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	fields := map[string]string{}
	if strings.TrimSpace(req.Email) == "" {
		fields["email"] = "required"
	}
	if req.Password == "" {
		fields["password"] = "required"
	}
	if len(fields) > 0 {
		writeFieldErrors(w, fields)
		return
	}

	user, err := s.verifier.Verify(r.Context(), req.Email, req.Password)
	if err != nil {
		loginFailures.WithLabelValues(loginFailureTag(err)).Inc()
		writeError(w, http.StatusBadRequest, "authentication failed")
		return
	}

	access, refresh, err := s.tokens.Issue(r.Context(), user, token.WithClient(r.UserAgent(), clientIP(r)))
	if err != nil {
		writeError(w, http.StatusInternalServerError, "internal error")
		return
	}

	writeEnvelope(w, http.StatusCreated, "logged in", tokenPairView{
		AccessToken:  access,
		RefreshToken: refresh,
		Role:         string(user.Role),
		SchoolID:     user.SchoolID,
	})
}

type refreshRequest struct {
	RefreshToken string `json:"refresh_token"`
}

func (s *Server) handleRefresh(w http.ResponseWriter, r *http.Request) {
	var req refreshRequest
	if err := decodeJSON(r, &req); err != nil || req.RefreshToken == "" {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	access, refresh, user, err := s.tokens.Refresh(r.Context(), req.RefreshToken, token.WithClient(r.UserAgent(), clientIP(r)))
	if err != nil {
		writeTokenError(w, err)
		return
	}

	writeEnvelope(w, http.StatusOK, "token refreshed", tokenPairView{
		AccessToken:  access,
		RefreshToken: refresh,
		Role:         string(user.Role),
		SchoolID:     user.SchoolID,
	})
}

func writeTokenError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, token.ErrTokenRevoked):
		writeError(w, http.StatusUnauthorized, "token revoked")
	case errors.Is(err, token.ErrTokenExpired):
		writeError(w, http.StatusUnauthorized, "token expired")
	case errors.Is(err, token.ErrTokenMalformed):
		writeError(w, http.StatusUnauthorized, "token malformed")
	default:
		writeError(w, http.StatusInternalServerError, "internal error")
	}
}

func (s *Server) handleLogout(w http.ResponseWriter, r *http.Request) {
	var req refreshRequest
	if err := decodeJSON(r, &req); err != nil || req.RefreshToken == "" {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	// Revoking an unknown or already revoked token still succeeds.
	if err := s.tokens.Revoke(r.Context(), req.RefreshToken); err != nil {
		writeError(w, http.StatusInternalServerError, "internal error")
		return
	}
	writeEnvelope(w, http.StatusOK, "logged out", nil)
}

func (s *Server) handleMe(w http.ResponseWriter, r *http.Request) {
	principal := policy.PrincipalFromContext(r.Context())
	user, err := s.store.GetUserByID(r.Context(), principal.ID)
	if err != nil {
		writeStoreError(w, err)
		return
	}
	writeEnvelope(w, http.StatusOK, "ok", toUserView(user))
}

type passwordResetRequest struct {
	Email string `json:"email"`
}

// handlePasswordReset opens a reset flow. The response is identical whether or
// not the email maps to an account.
func (s *Server) handlePasswordReset(w http.ResponseWriter, r *http.Request) {
	var req passwordResetRequest
	if err := decodeJSON(r, &req); err != nil || strings.TrimSpace(req.Email) == "" {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	user, err := s.store.GetUserByEmail(r.Context(), model.NormalizeEmail(req.Email))
	if err == nil && user.Active && !user.Blocked {
		resetToken, tokenErr := crypto.NewOpaqueToken()
		if tokenErr != nil {
			writeError(w, http.StatusInternalServerError, "internal error")
			return
		}
		now := time.Now().UTC()
		record := model.PasswordResetToken{
			ID:        uuid.NewString(),
			UserID:    user.ID,
			TokenHash: crypto.HashToken(resetToken),
			CreatedAt: now,
			ExpiresAt: now.Add(s.cfg.ResetTokenTTL),
		}
		if err := s.store.CreatePasswordResetToken(r.Context(), record); err != nil {
			writeError(w, http.StatusInternalServerError, "internal error")
			return
		}
		// Delivery happens out of band. Only the token id is logged; the
		// plaintext never reaches shared logs.
		log.Printf("password reset token %s issued for user %s", record.ID, user.ID)
	}

	writeEnvelope(w, http.StatusOK, "reset initiated", nil)
}

type passwordResetConfirmRequest struct {
	Token       string `json:"token"`
	NewPassword string `json:"new_password"`
}

func (s *Server) handlePasswordResetConfirm(w http.ResponseWriter, r *http.Request) {
	var req passwordResetConfirmRequest
	if err := decodeJSON(r, &req); err != nil || req.Token == "" || req.NewPassword == "" {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	record, err := s.store.GetPasswordResetToken(r.Context(), crypto.HashToken(req.Token))
	if err != nil {
		writeError(w, http.StatusUnauthorized, "token malformed")
		return
	}
	if record.UsedAt != nil {
		writeError(w, http.StatusUnauthorized, "token revoked")
		return
	}
	now := time.Now().UTC()
	if record.ExpiresAt.Before(now) {
		writeError(w, http.StatusUnauthorized, "token expired")
		return
	}

	// Single use: marking consumes the token, so a concurrent confirm loses.
	if err := s.store.MarkPasswordResetTokenUsed(r.Context(), record.ID, now); err != nil {
		writeError(w, http.StatusUnauthorized, "token revoked")
		return
	}

	hash, err := crypto.HashPasswordCost(req.NewPassword, s.cfg.BcryptCost)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "internal error")
		return
	}
	if err := s.store.UpdateUserPassword(r.Context(), record.UserID, hash); err != nil {
		writeStoreError(w, err)
		return
	}
	// Every open session dies with the old password.
	if err := s.store.RevokeRefreshSessionsByUser(r.Context(), record.UserID, now); err != nil {
		writeError(w, http.StatusInternalServerError, "internal error")
		return
	}

	writeEnvelope(w, http.StatusOK, "password updated", nil)
}
