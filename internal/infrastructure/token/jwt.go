package token

import (
	"context"
	"errors"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"

	"github.com/forka/forum-backend/internal/core/domain"
	"github.com/forka/forum-backend/internal/core/ports"
	"github.com/forka/forum-backend/internal/infrastructure/db/redis"
)

const (
	defaultAccessTTL  = 30 * time.Minute
	defaultRefreshTTL = 7 * 24 * time.Hour
)

// JWTIssuer mints HS256 access tokens and jti-tracked refresh tokens. The
// refresh allowlist lives in Redis so revocation takes effect immediately.
type JWTIssuer struct {
	secret     []byte
	store      *redis.TokenStore
	accessTTL  time.Duration
	refreshTTL time.Duration
	now        func() time.Time
}

func NewJWTIssuer(secret string, store *redis.TokenStore, accessTTL, refreshTTL time.Duration) *JWTIssuer {
	if accessTTL <= 0 {
		accessTTL = defaultAccessTTL
	}
	if refreshTTL <= 0 {
		refreshTTL = defaultRefreshTTL
	}
	return &JWTIssuer{
		secret:     []byte(secret),
		store:      store,
		accessTTL:  accessTTL,
		refreshTTL: refreshTTL,
		now:        time.Now,
	}
}

func (i *JWTIssuer) Issue(ctx context.Context, user *domain.User) (*ports.TokenPair, error) {
	now := i.now().UTC()

	access, err := i.sign(jwt.MapClaims{
		"sub":      user.ID,
		"username": user.Username,
		"role":     string(user.Role),
		"type":     "access",
		"iat":      now.Unix(),
		"exp":      now.Add(i.accessTTL).Unix(),
	})
	if err != nil {
		return nil, err
	}

	jti := uuid.NewString()
	refresh, err := i.sign(jwt.MapClaims{
		"sub":  user.ID,
		"jti":  jti,
		"type": "refresh",
		"iat":  now.Unix(),
		"exp":  now.Add(i.refreshTTL).Unix(),
	})
	if err != nil {
		return nil, err
	}

	if err := i.store.Save(ctx, jti, user.ID, i.refreshTTL); err != nil {
		return nil, err
	}

	return &ports.TokenPair{Access: access, Refresh: refresh}, nil
}

func (i *JWTIssuer) ValidateRefresh(ctx context.Context, refreshToken string) (string, error) {
	claims, err := i.parseRefresh(refreshToken)
	if err != nil {
		return "", err
	}

	jti, _ := claims["jti"].(string)
	sub, _ := claims["sub"].(string)
	if jti == "" || sub == "" {
		return "", domain.ErrInvalidToken
	}

	owner, err := i.store.UserID(ctx, jti)
	if errors.Is(err, redis.ErrTokenNotFound) {
		return "", domain.ErrInvalidToken
	}
	if err != nil {
		return "", err
	}
	if owner != sub {
		return "", domain.ErrInvalidToken
	}
	return sub, nil
}

func (i *JWTIssuer) Revoke(ctx context.Context, refreshToken string) error {
	claims, err := i.parseRefresh(refreshToken)
	if err != nil {
		return domain.ErrInvalidToken
	}
	jti, _ := claims["jti"].(string)
	if jti == "" {
		return domain.ErrInvalidToken
	}
	return i.store.Revoke(ctx, jti)
}

func (i *JWTIssuer) sign(claims jwt.MapClaims) (string, error) {
	t := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return t.SignedString(i.secret)
}

func (i *JWTIssuer) parseRefresh(raw string) (jwt.MapClaims, error) {
	claims := jwt.MapClaims{}
	tkn, err := jwt.ParseWithClaims(raw, claims, func(token *jwt.Token) (interface{}, error) {
		if token.Method.Alg() != jwt.SigningMethodHS256.Alg() {
			return nil, jwt.ErrTokenSignatureInvalid
		}
		return i.secret, nil
	})
	if err != nil || !tkn.Valid {
		return nil, domain.ErrInvalidToken
	}
	if typ, _ := claims["type"].(string); typ != "refresh" {
		return nil, domain.ErrInvalidToken
	}
	return claims, nil
}
