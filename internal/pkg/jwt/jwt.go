package jwt

import (
	"context"
	"errors"
	"time"

	"github.com/go-chi/jwtauth/v5"
	"github.com/lestrrat-go/jwx/v2/jwt"
)

const (
	TokenTypeAccess = "access"
	TokenTypeStream = "stream"

	streamTokenTTL = 5 * time.Minute
)

var (
	ErrInvalidToken  = errors.New("invalid token")
	ErrMissingClaims = errors.New("token is missing required claims")
)

type Service interface {
	GenerateAccessToken(claims Claims) (token string, expiresAt int64, err error)
	GenerateStreamToken(claims Claims) (token string, expiresIn int, err error)
	ValidateStreamToken(tokenString string) (Claims, error)
	JWTAuth() *jwtauth.JWTAuth
}

type JWTService struct {
	secretKey                 string
	accessTokenExpirationTime string
	tokenAuth                 *jwtauth.JWTAuth
}

func (j *JWTService) JWTAuth() *jwtauth.JWTAuth {
	return j.tokenAuth
}

func NewJWTService(secretKey string, accessTokenExpirationTime string) Service {
	return &JWTService{
		secretKey:                 secretKey,
		accessTokenExpirationTime: accessTokenExpirationTime,
		tokenAuth:                 jwtauth.New("HS256", []byte(secretKey), nil, jwt.WithAcceptableSkew(30*time.Second)),
	}
}

// GenerateAccessToken issues a bearer token for an already authenticated staff member.
// Login lives in the surrounding platform; this backs the CLI and tests.
func (j *JWTService) GenerateAccessToken(claims Claims) (token string, expiresAt int64, err error) {
	expDuration, err := time.ParseDuration(j.accessTokenExpirationTime)
	if err != nil {
		return "", 0, err
	}
	expiresAt = time.Now().Add(expDuration).Unix()

	payload := claims.toMap()
	payload["type"] = TokenTypeAccess
	payload["exp"] = expiresAt

	_, tokenString, err := j.tokenAuth.Encode(payload)
	return tokenString, expiresAt, err
}

// GenerateStreamToken generates a short-lived token for SSE connections
func (j *JWTService) GenerateStreamToken(claims Claims) (token string, expiresIn int, err error) {
	payload := claims.toMap()
	payload["type"] = TokenTypeStream
	payload["exp"] = time.Now().Add(streamTokenTTL).Unix()

	_, tokenString, err := j.tokenAuth.Encode(payload)
	if err != nil {
		return "", 0, err
	}
	return tokenString, int(streamTokenTTL.Seconds()), nil
}

// ValidateStreamToken validates an SSE token and returns its claims
func (j *JWTService) ValidateStreamToken(tokenString string) (Claims, error) {
	token, err := jwtauth.VerifyToken(j.tokenAuth, tokenString)
	if err != nil {
		return Claims{}, ErrInvalidToken
	}

	tokenType, ok := token.Get("type")
	if !ok || tokenType != TokenTypeStream {
		return Claims{}, ErrInvalidToken
	}

	claims, err := token.AsMap(context.Background())
	if err != nil {
		return Claims{}, ErrInvalidToken
	}
	return claimsFromMap(claims)
}

// NewTokenForTest builds an unsigned token carrying the given claims, for handler and service tests.
func NewTokenForTest(claims Claims) jwt.Token {
	tok := jwt.New()
	for k, v := range claims.toMap() {
		_ = tok.Set(k, v)
	}
	_ = tok.Set("type", TokenTypeAccess)
	return tok
}

// ContextWithClaims returns ctx carrying claims the same way jwtauth.Verifier does.
func ContextWithClaims(ctx context.Context, claims Claims) context.Context {
	return jwtauth.NewContext(ctx, NewTokenForTest(claims), nil)
}
