package auth

import (
	"errors"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// Issuer is embedded in every token and enforced during validation.
const Issuer = "auth-api"

var (
	ErrTokenCreation = errors.New("token creation failed")
	ErrTokenExpired  = errors.New("token expired")
	ErrTokenInvalid  = errors.New("invalid token")
)

// Claims carries the identity and the space-joined role names of a principal.
type Claims struct {
	Authorities string `json:"authorities"`
	jwt.RegisteredClaims
}

// TokenManager issues and validates HMAC-signed bearer tokens. Validation is
// stateless: the only shared state is the signing secret, read-only after
// startup.
type TokenManager struct {
	secret []byte
	expiry time.Duration
	issuer string
}

func NewTokenManager(secret string, expiry time.Duration) *TokenManager {
	return &TokenManager{
		secret: []byte(secret),
		expiry: expiry,
		issuer: Issuer,
	}
}

// Generate signs a token for subject with the given roles as authorities.
func (m *TokenManager) Generate(subject string, roles ...Role) (string, error) {
	if subject == "" || len(m.secret) == 0 {
		return "", ErrTokenCreation
	}

	now := time.Now()
	claims := &Claims{
		Authorities: JoinAuthorities(roles),
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   subject,
			Issuer:    m.issuer,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(m.expiry)),
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString(m.secret)
	if err != nil {
		return "", ErrTokenCreation
	}
	return signed, nil
}

// Validate checks signature, expiry and issuer. Expired tokens are reported
// as ErrTokenExpired; every other defect collapses to ErrTokenInvalid.
func (m *TokenManager) Validate(tokenString string) (*Claims, error) {
	if strings.TrimSpace(tokenString) == "" {
		return nil, ErrTokenInvalid
	}

	parsed, err := jwt.ParseWithClaims(tokenString, &Claims{}, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, ErrTokenInvalid
		}
		return m.secret, nil
	}, jwt.WithIssuer(m.issuer))
	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return nil, ErrTokenExpired
		}
		return nil, ErrTokenInvalid
	}

	claims, ok := parsed.Claims.(*Claims)
	if !ok || !parsed.Valid {
		return nil, ErrTokenInvalid
	}
	return claims, nil
}

// ExtractSubject is the best-effort variant of Validate used for auxiliary
// checks: it never fails, it just reports whether a subject was recovered.
func (m *TokenManager) ExtractSubject(tokenString string) (string, bool) {
	claims, err := m.Validate(tokenString)
	if err != nil {
		return "", false
	}
	return claims.Subject, true
}

// Expiry returns the configured validity window.
func (m *TokenManager) Expiry() time.Duration {
	return m.expiry
}

// TokenFromHeader extracts the bearer token from an Authorization header
// value. A missing header or a non-Bearer scheme yields ok=false; the request
// then proceeds unauthenticated and the route policy decides.
func TokenFromHeader(authHeader string) (string, bool) {
	const prefix = "Bearer "
	if !strings.HasPrefix(authHeader, prefix) {
		return "", false
	}
	token := strings.TrimSpace(strings.TrimPrefix(authHeader, prefix))
	return token, token != ""
}
