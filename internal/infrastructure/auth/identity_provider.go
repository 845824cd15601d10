package auth

import (
	"context"

	"github.com/ravesdeleste/PluginPitch/domain"
)

// NullIdentityProvider is the identity backend when sessions are not
// attached to an external provider. Sign-out is a no-op.
type NullIdentityProvider struct{}

func NewNullIdentityProvider() domain.IdentityProvider { return &NullIdentityProvider{} }

func (NullIdentityProvider) SignOut(ctx context.Context, email string) error { return nil }

var _ domain.IdentityProvider = (*NullIdentityProvider)(nil)
