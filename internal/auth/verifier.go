package auth

import (
	"context"
	"errors"

	"campus/server/internal/crypto"
	"campus/server/internal/model"
)

// Credential verification failure tags. Handlers collapse all four into one
// generic message so the response does not reveal which check failed.
var (
	ErrUnknownPrincipal  = errors.New("unknown principal")
	ErrInactivePrincipal = errors.New("inactive principal")
	ErrIncorrectPassword = errors.New("incorrect password")
	ErrBlockedPrincipal  = errors.New("blocked principal")
)

type UserSource interface {
	GetUserByEmail(ctx context.Context, email string) (model.User, error)
}

type Verifier struct {
	users UserSource
}

func NewVerifier(users UserSource) *Verifier {
	return &Verifier{users: users}
}

// Verify checks an email/password pair. The password comparison runs even for
// blocked and inactive users so the failure tag never shortcuts timing.
func (v *Verifier) Verify(ctx context.Context, email, password string) (model.User, error) {
	user, err := v.users.GetUserByEmail(ctx, model.NormalizeEmail(email))
	if err != nil {
		return model.User{}, ErrUnknownPrincipal
	}
	if err := crypto.CheckPassword(user.PasswordHash, password); err != nil {
		return model.User{}, ErrIncorrectPassword
	}
	if !user.Active {
		return model.User{}, ErrInactivePrincipal
	}
	if user.Blocked {
		return model.User{}, ErrBlockedPrincipal
	}
	return user, nil
}
