package auth

import (
	"context"
	"errors"
	"testing"

	"campus/server/internal/crypto"
	"campus/server/internal/model"
)

type fakeUsers struct {
	user model.User
	err  error
}

func (f fakeUsers) GetUserByEmail(_ context.Context, _ string) (model.User, error) {
	return f.user, f.err
}

func TestVerifier(t *testing.T) {
	hash, err := crypto.HashPassword("secret")
	if err != nil {
		t.Fatalf("hash error: %v", err)
	}
	base := model.User{ID: "user-1", Email: "a@b.c", PasswordHash: hash, Active: true}

	cases := []struct {
		name     string
		user     model.User
		storeErr error
		password string
		want     error
	}{
		{name: "ok", user: base, password: "secret", want: nil},
		{name: "unknown", storeErr: errors.New("no rows"), password: "secret", want: ErrUnknownPrincipal},
		{name: "wrong password", user: base, password: "nope", want: ErrIncorrectPassword},
		{name: "inactive", user: func() model.User { u := base; u.Active = false; return u }(), password: "secret", want: ErrInactivePrincipal},
		{name: "blocked", user: func() model.User { u := base; u.Blocked = true; return u }(), password: "secret", want: ErrBlockedPrincipal},
	}

	for _, tc := range cases {
		verifier := NewVerifier(fakeUsers{user: tc.user, err: tc.storeErr})
		_, err := verifier.Verify(context.Background(), "a@b.c", tc.password)
		if !errors.Is(err, tc.want) {
			t.Fatalf("%s: expected %v, got %v", tc.name, tc.want, err)
		}
	}
}
