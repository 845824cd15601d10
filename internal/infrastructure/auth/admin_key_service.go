package auth

import (
	"crypto/subtle"
	"strings"

	"golang.org/x/crypto/bcrypt"

	"github.com/ravesdeleste/PluginPitch/domain"
)

// AdminKeyServiceImpl implements domain.AdminKeyService. The configured
// key may be a bcrypt hash or a plain value; plain comparison is constant
// time either way.
type AdminKeyServiceImpl struct {
	configured string
}

// NewAdminKeyService creates a new admin key service
func NewAdminKeyService(configured string) domain.AdminKeyService {
	return &AdminKeyServiceImpl{configured: configured}
}

// Validate implements domain.AdminKeyService
func (a *AdminKeyServiceImpl) Validate(presented string) error {
	// An unconfigured key denies all admin access
	if a.configured == "" || presented == "" {
		return domain.ErrUnauthorized
	}

	if isBcryptHash(a.configured) {
		if bcrypt.CompareHashAndPassword([]byte(a.configured), []byte(presented)) != nil {
			return domain.ErrUnauthorized
		}
		return nil
	}

	if subtle.ConstantTimeCompare([]byte(a.configured), []byte(presented)) != 1 {
		return domain.ErrUnauthorized
	}
	return nil
}

func isBcryptHash(s string) bool {
	return strings.HasPrefix(s, "$2a$") || strings.HasPrefix(s, "$2b$") || strings.HasPrefix(s, "$2y$")
}
