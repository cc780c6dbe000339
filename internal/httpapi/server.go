package httpapi

import (
	"errors"
	"net/http"
	"strings"

	"campus/server/internal/auth"
	"campus/server/internal/config"
	"campus/server/internal/policy"
	"campus/server/internal/repository"
	"campus/server/internal/token"
)

type Server struct {
	cfg      config.Config
	store    Store
	tokens   *token.Service
	verifier *auth.Verifier
}

func NewServer(cfg config.Config, store Store, tokens *token.Service) *Server {
	return &Server{
		cfg:      cfg,
		store:    store,
		tokens:   tokens,
		verifier: auth.NewVerifier(store),
	}
}

// resolvePrincipal attaches a principal to the context when a valid bearer is
// present. It never writes a response; failures are recorded for the guard.
func (s *Server) resolvePrincipal(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		bearer := bearerToken(r.Header.Get("Authorization"))
		if bearer == "" {
			next.ServeHTTP(w, r)
			return
		}

		claims, err := s.tokens.Verify(bearer)
		if err != nil {
			next.ServeHTTP(w, r.WithContext(policy.WithAuthError(r.Context(), err)))
			return
		}

		principal := &policy.Principal{
			ID:       claims.UserID,
			Role:     claims.Role,
			SchoolID: claims.SchoolID,
		}
		next.ServeHTTP(w, r.WithContext(policy.WithPrincipal(r.Context(), principal)))
	})
}

// guard enforces a declarative endpoint policy before the handler runs.
func (s *Server) guard(g policy.Guard) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			principal := policy.PrincipalFromContext(r.Context())

			// Optional immediate revocation: re-read the live record so a
			// principal blocked or deactivated mid-session is denied before
			// their token expires.
			if principal != nil && len(g.Roles) > 0 && s.cfg.LivePrincipalCheck {
				user, err := s.store.GetUserByID(r.Context(), principal.ID)
				if err != nil || !user.Active {
					writeError(w, http.StatusUnauthorized, "unauthorized")
					return
				}
				principal.Blocked = user.Blocked
			}

			switch g.Evaluate(principal) {
			case policy.Admit:
				next.ServeHTTP(w, r)
			case policy.DenyUnauthenticated:
				writeError(w, http.StatusUnauthorized, authFailureMessage(r))
			case policy.DenyRole:
				guardDenials.WithLabelValues("authorization_denied").Inc()
				writeError(w, http.StatusForbidden, "forbidden")
			case policy.DenyTenant:
				guardDenials.WithLabelValues("cross_tenant_denied").Inc()
				writeError(w, http.StatusForbidden, "forbidden")
			}
		})
	}
}

func authFailureMessage(r *http.Request) string {
	err := policy.AuthErrorFromContext(r.Context())
	switch {
	case errors.Is(err, auth.ErrTokenExpired):
		return "token expired"
	case errors.Is(err, auth.ErrTokenMalformed):
		return "token malformed"
	default:
		return "unauthorized"
	}
}

// writeStoreError maps repository failures onto the envelope. Rows outside the
// caller's scope surface as not found, identically to rows that do not exist.
func writeStoreError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, repository.ErrNotFound):
		writeError(w, http.StatusNotFound, "not found")
	case errors.Is(err, repository.ErrConflict):
		writeError(w, http.StatusConflict, "conflict")
	default:
		writeError(w, http.StatusInternalServerError, "internal error")
	}
}

func bearerToken(header string) string {
	if header == "" {
		return ""
	}
	parts := strings.SplitN(header, " ", 2)
	if len(parts) != 2 || !strings.EqualFold(parts[0], "bearer") {
		return ""
	}
	return strings.TrimSpace(parts[1])
}

func clientIP(r *http.Request) string {
	if forwarded := r.Header.Get("X-Forwarded-For"); forwarded != "" {
		parts := strings.Split(forwarded, ",")
		return strings.TrimSpace(parts[0])
	}
	if realIP := r.Header.Get("X-Real-IP"); realIP != "" {
		return realIP
	}
	return ""
}
