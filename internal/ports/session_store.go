package ports

import (
	"context"

	"github.com/prajeetp/blackhole-cli/internal/domain"
)

// SessionStore persists the session bundle between CLI invocations. The
// password is never persisted; only endpoint, user, TLS policy, and cookies.
type SessionStore interface {
	Load(ctx context.Context) (domain.Credentials, error)
	Save(ctx context.Context, creds domain.Credentials) error
	Clear(ctx context.Context) error
}
