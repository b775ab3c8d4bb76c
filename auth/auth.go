// Package auth implements the cleartext-password authentication hook this
// server solicits during the startup handshake. SCRAM/MD5/GSSAPI are
// explicitly out of scope; only the cleartext exchange and how the
// embedding application chooses to validate the password it receives are
// this package's concern.
package auth

import "context"

// Authenticator decides whether a connecting client must present a
// password and validates one when it does.
type Authenticator interface {
	// IsAuthenticationNeeded reports whether the handshake should solicit
	// a cleartext password for the given user/database before proceeding.
	IsAuthenticationNeeded(ctx context.Context, user, database string) bool
	// Authenticate validates a submitted cleartext password.
	Authenticate(ctx context.Context, user, password, database string) bool
}

// Open is an Authenticator that never requires a password. It is the
// default when no Authenticator is configured.
type Open struct{}

func (Open) IsAuthenticationNeeded(context.Context, string, string) bool { return false }
func (Open) Authenticate(context.Context, string, string, string) bool  { return true }
