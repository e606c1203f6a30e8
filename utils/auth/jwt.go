package auth

import (
	"errors"
	"strconv"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

var (
	ErrInvalidToken = errors.New("invalid token")
	ErrExpiredToken = errors.New("token has expired")
	ErrMissingKey   = errors.New("jwt signing secret is empty")
)

// DefaultTokenTTL applies when a token is issued without an explicit ttl.
const DefaultTokenTTL = 30 * 24 * time.Hour

// JWTConfig holds JWT configuration
type JWTConfig struct {
	Secret string
	Expiry time.Duration
	Issuer string
}

// Claims is the signed payload. The subject carries the user id.
type Claims struct {
	Email        string `json:"email"`
	Role         string `json:"role"`
	TokenVersion int    `json:"token_version"`
	jwt.RegisteredClaims
}

// Principal is the identity carried by a verified token.
type Principal struct {
	UserID       uint
	Email        string
	Role         string
	TokenID      string
	TokenVersion int
	ExpiresAt    time.Time
}

// JWTManager issues and verifies HS256 bearer tokens.
type JWTManager struct {
	config JWTConfig
	now    func() time.Time
}

// NewJWTManager creates a new JWT manager
func NewJWTManager(config JWTConfig) *JWTManager {
	if config.Expiry <= 0 {
		config.Expiry = DefaultTokenTTL
	}
	return &JWTManager{
		config: config,
		now:    time.Now,
	}
}

// TTL returns the lifetime applied to tokens issued without an explicit ttl.
func (j *JWTManager) TTL() time.Duration {
	return j.config.Expiry
}

// Issue signs a token for the user. A ttl <= 0 uses the configured expiry.
func (j *JWTManager) Issue(userID uint, email, role string, tokenVersion int, ttl time.Duration) (string, *Principal, error) {
	if j.config.Secret == "" {
		return "", nil, ErrMissingKey
	}
	if ttl <= 0 {
		ttl = j.config.Expiry
	}

	now := j.now()
	expiresAt := now.Add(ttl)
	jti := uuid.New().String()

	claims := Claims{
		Email:        email,
		Role:         role,
		TokenVersion: tokenVersion,
		RegisteredClaims: jwt.RegisteredClaims{
			ID:        jti,
			Subject:   strconv.FormatUint(uint64(userID), 10),
			ExpiresAt: jwt.NewNumericDate(expiresAt),
			IssuedAt:  jwt.NewNumericDate(now),
			Issuer:    j.config.Issuer,
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString([]byte(j.config.Secret))
	if err != nil {
		return "", nil, err
	}

	return signed, &Principal{
		UserID:       userID,
		Email:        email,
		Role:         role,
		TokenID:      jti,
		TokenVersion: tokenVersion,
		ExpiresAt:    claims.ExpiresAt.Time,
	}, nil
}

// Verify checks the signature, algorithm and expiry of tokenString and
// returns the principal it names. It never performs I/O.
func (j *JWTManager) Verify(tokenString string) (*Principal, error) {
	if j.config.Secret == "" {
		return nil, ErrInvalidToken
	}

	parser := jwt.NewParser(
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithExpirationRequired(),
		jwt.WithTimeFunc(j.now),
	)

	claims := &Claims{}
	token, err := parser.ParseWithClaims(tokenString, claims, func(token *jwt.Token) (interface{}, error) {
		return []byte(j.config.Secret), nil
	})
	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return nil, ErrExpiredToken
		}
		return nil, ErrInvalidToken
	}
	if !token.Valid {
		return nil, ErrInvalidToken
	}

	userID, err := strconv.ParseUint(claims.Subject, 10, 64)
	if err != nil || userID == 0 {
		return nil, ErrInvalidToken
	}

	return &Principal{
		UserID:       uint(userID),
		Email:        claims.Email,
		Role:         claims.Role,
		TokenID:      claims.ID,
		TokenVersion: claims.TokenVersion,
		ExpiresAt:    claims.ExpiresAt.Time,
	}, nil
}
