package jwt

import (
	"errors"
	"fmt"
	"time"

	"github.com/go-chi/jwtauth/v5"
	"github.com/lestrrat-go/jwx/v2/jwt"
)

// Role is carried in the "role" claim of access tokens.
type Role string

const (
	// RoleService is used by the attendance devices and the approval workflow.
	RoleService Role = "service"
	RoleAdmin   Role = "admin"
)

type Service interface {
	// GenerateAccessToken issues an HS256 access token for subject.
	GenerateAccessToken(subject string, role Role) (token string, expiresAt int64, err error)
	JWTAuth() *jwtauth.JWTAuth
}

type JWTService struct {
	accessTokenExpirationTime time.Duration
	tokenAuth                 *jwtauth.JWTAuth
	now                       func() time.Time
}

func NewJWTService(secretKey string, accessTokenExpirationTime time.Duration) *JWTService {
	if accessTokenExpirationTime <= 0 {
		accessTokenExpirationTime = time.Hour
	}
	return &JWTService{
		accessTokenExpirationTime: accessTokenExpirationTime,
		tokenAuth:                 jwtauth.New("HS256", []byte(secretKey), nil, jwt.WithAcceptableSkew(30*time.Second)),
		now:                       time.Now,
	}
}

func (j *JWTService) JWTAuth() *jwtauth.JWTAuth {
	return j.tokenAuth
}

func (j *JWTService) GenerateAccessToken(subject string, role Role) (token string, expiresAt int64, err error) {
	if subject == "" {
		return "", 0, fmt.Errorf("token subject is required")
	}
	now := j.now()
	expiresAt = now.Add(j.accessTokenExpirationTime).Unix()

	claims := map[string]interface{}{
		"sub":  subject,
		"role": string(role),
		"type": "access",
		"iat":  now.Unix(),
		"exp":  expiresAt,
	}
	_, tokenString, err := j.tokenAuth.Encode(claims)
	return tokenString, expiresAt, err
}

var (
	ErrInvalidToken     = errors.New("invalid or expired access token")
	ErrRoleNotPermitted = errors.New("token role is not permitted for this resource")
)
