package policy

import (
	"context"

	"campus/server/internal/model"
)

// Principal is the authenticated identity threaded through every request.
// A nil *Principal means the request is anonymous.
type Principal struct {
	ID       string
	Role     model.Role
	SchoolID *string
	Blocked  bool
}

type principalKey struct{}
type authErrorKey struct{}

func WithPrincipal(ctx context.Context, p *Principal) context.Context {
	return context.WithValue(ctx, principalKey{}, p)
}

func PrincipalFromContext(ctx context.Context) *Principal {
	value := ctx.Value(principalKey{})
	p, _ := value.(*Principal)
	return p
}

// WithAuthError records why bearer validation failed, so the guard can report
// token_expired vs token_malformed without the resolver ever writing a response.
func WithAuthError(ctx context.Context, err error) context.Context {
	return context.WithValue(ctx, authErrorKey{}, err)
}

func AuthErrorFromContext(ctx context.Context) error {
	value := ctx.Value(authErrorKey{})
	err, _ := value.(error)
	return err
}
