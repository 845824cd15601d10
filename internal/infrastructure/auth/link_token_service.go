package auth

import (
	"errors"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"github.com/ravesdeleste/PluginPitch/domain"
)

// LinkTokenServiceImpl implements domain.LinkTokenService with HS256 JWTs.
// The token binds the artifact code to its email so a signed link is
// self-contained; single-use is still enforced against the pending record.
type LinkTokenServiceImpl struct {
	secretKey []byte
	issuer    string
	ttl       time.Duration
	clock     domain.Clock
}

// NewLinkTokenService creates a new link token service
func NewLinkTokenService(secretKey, issuer string, ttl time.Duration, clock domain.Clock) domain.LinkTokenService {
	return &LinkTokenServiceImpl{
		secretKey: []byte(secretKey),
		issuer:    issuer,
		ttl:       ttl,
		clock:     clock,
	}
}

// Generate implements domain.LinkTokenService
func (l *LinkTokenServiceImpl) Generate(email, code string) (string, error) {
	now := l.clock.Now()
	claims := jwt.MapClaims{
		"email": email,
		"code":  code,
		"iss":   l.issuer,
		"iat":   now.Unix(),
		"exp":   now.Add(l.ttl).Unix(),
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString(l.secretKey)
}

// Parse implements domain.LinkTokenService. Expired tokens map to
// ErrArtifactExpired, anything else unverifiable to ErrArtifactNotFound.
func (l *LinkTokenServiceImpl) Parse(tokenStr string) (string, string, error) {
	token, err := jwt.Parse(tokenStr, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, errors.New("unexpected signing method")
		}
		return l.secretKey, nil
	}, jwt.WithIssuer(l.issuer), jwt.WithTimeFunc(l.clock.Now))
	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return "", "", domain.ErrArtifactExpired
		}
		return "", "", domain.ErrArtifactNotFound
	}

	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok || !token.Valid {
		return "", "", domain.ErrArtifactNotFound
	}

	email, _ := claims["email"].(string)
	code, _ := claims["code"].(string)
	if email == "" || code == "" {
		return "", "", domain.ErrArtifactNotFound
	}

	return email, code, nil
}
