// Package auth authenticates API requests with HS256 signed bearer tokens.
package auth

import (
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/gin-contrib/requestid"
	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
	"github.com/rs/zerolog/log"
)

// Anonymous is the user name recorded when authentication is disabled
// or no token was sent.
const Anonymous = "anonymous"

const contextUser = "condofin-user"

var (
	ErrTokenMissing = errors.New("an Authorization header with a bearer token is required")
	ErrTokenInvalid = errors.New("the bearer token is invalid or expired")
	ErrTokenFormat  = errors.New("the Authorization header format must be: Bearer {token}")
)

// Claims are the claims of a token. The subject identifies the user.
type Claims struct {
	jwt.RegisteredClaims
	Email string `json:"email"`
}

// User is the authenticated user of a request.
type User struct {
	Subject string
	Email   string
}

// Name is the value stamped on records the user creates or changes.
func (u User) Name() string {
	if u.Email != "" {
		return u.Email
	}

	if u.Subject != "" {
		return u.Subject
	}

	return Anonymous
}

// NewToken signs a token for the user that expires after ttl.
func NewToken(secret []byte, user User, ttl time.Duration) (string, error) {
	now := time.Now()
	claims := Claims{
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   user.Subject,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
		},
		Email: user.Email,
	}

	return jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(secret)
}

// Parse validates the token and returns its user.
func Parse(secret []byte, token string) (User, error) {
	var claims Claims
	parsed, err := jwt.ParseWithClaims(token, &claims, func(t *jwt.Token) (any, error) {
		return secret, nil
	}, jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}), jwt.WithExpirationRequired())
	if err != nil {
		return User{}, fmt.Errorf("%w: %w", ErrTokenInvalid, err)
	}

	if !parsed.Valid {
		return User{}, ErrTokenInvalid
	}

	return User{Subject: claims.Subject, Email: claims.Email}, nil
}

func bearerToken(header string) (string, error) {
	if header == "" {
		return "", ErrTokenMissing
	}

	parts := strings.Fields(header)
	if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") {
		return "", ErrTokenFormat
	}

	return parts[1], nil
}

// Middleware authenticates requests.
//
// With an empty secret, authentication is disabled. Otherwise, a sent token
// must be valid. Requests without a token are rejected only if required is set.
func Middleware(secret string, required bool) gin.HandlerFunc {
	return func(c *gin.Context) {
		if secret == "" {
			c.Next()
			return
		}

		header := c.GetHeader("Authorization")
		if header == "" && !required {
			c.Next()
			return
		}

		token, err := bearerToken(header)
		if err != nil {
			abort(c, err)
			return
		}

		user, err := Parse([]byte(secret), token)
		if err != nil {
			log.Debug().Str("request-id", requestid.Get(c)).Err(err).Msg("Authentication")
			abort(c, ErrTokenInvalid)
			return
		}

		c.Set(contextUser, user)
		c.Next()
	}
}

func abort(c *gin.Context, err error) {
	c.Header("WWW-Authenticate", `Bearer realm="condofin"`)
	c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": err.Error()})
}

// CurrentUser returns the user of the request.
func CurrentUser(c *gin.Context) User {
	if user, ok := c.Get(contextUser); ok {
		return user.(User)
	}

	return User{}
}
