package auth

import (
	"context"

	"golang.org/x/crypto/bcrypt"
)

// HashedPassword is an Authenticator for embedders that store bcrypt
// password hashes instead of cleartext credentials. The wire exchange
// itself is unchanged — the client still submits a cleartext password —
// only server-side validation differs.
type HashedPassword struct {
	// Lookup returns the stored bcrypt hash for user, and whether one
	// exists at all.
	Lookup func(ctx context.Context, user string) (hash string, ok bool)
}

func (h HashedPassword) IsAuthenticationNeeded(context.Context, string, string) bool {
	return true
}

func (h HashedPassword) Authenticate(ctx context.Context, user, password, database string) bool {
	hash, ok := h.Lookup(ctx, user)
	if !ok {
		return false
	}

	return bcrypt.CompareHashAndPassword([]byte(hash), []byte(password)) == nil
}
