package devapi

import (
	"errors"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

const (
	kindAccess  = "access"
	kindRefresh = "refresh"
)

var (
	errInvalidToken = errors.New("invalid token")
	errTokenExpired = errors.New("token expired")
)

// Claims are the registered claims plus the user id and the token kind, so
// a refresh token is never accepted as an access token or the other way round.
type Claims struct {
	jwt.RegisteredClaims
	UserID string `json:"user_id"`
	Kind   string `json:"token_type"`
}

// tokenIssuer signs and checks HS256 tokens against one secret and clock.
type tokenIssuer struct {
	secret     []byte
	accessTTL  time.Duration
	refreshTTL time.Duration
	now        func() time.Time
}

func (i *tokenIssuer) pair(userID string) (access, refresh string, err error) {
	if access, err = i.generate(userID, kindAccess, i.accessTTL); err != nil {
		return "", "", err
	}
	if refresh, err = i.generate(userID, kindRefresh, i.refreshTTL); err != nil {
		return "", "", err
	}
	return access, refresh, nil
}

func (i *tokenIssuer) generate(userID, kind string, ttl time.Duration) (string, error) {
	now := i.now()
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, Claims{
		RegisteredClaims: jwt.RegisteredClaims{
			ID:        uuid.NewString(),
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
		},
		UserID: userID,
		Kind:   kind,
	})
	return token.SignedString(i.secret)
}

// userID validates tokenString as a token of the given kind and returns its
// subject. Expired tokens yield errTokenExpired, anything else wrong yields
// errInvalidToken.
func (i *tokenIssuer) userID(tokenString, kind string) (string, error) {
	claims := &Claims{}

	token, err := jwt.ParseWithClaims(tokenString, claims, func(*jwt.Token) (any, error) {
		return i.secret, nil
	}, jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}), jwt.WithTimeFunc(i.now))
	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return "", errTokenExpired
		}
		return "", errInvalidToken
	}

	if !token.Valid || claims.Kind != kind || claims.UserID == "" {
		return "", errInvalidToken
	}
	return claims.UserID, nil
}
