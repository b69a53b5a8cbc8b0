package backendtest

import (
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/stemsi/erp-portal/internal/model"
	"golang.org/x/crypto/bcrypt"
)

// tokenTTL is how long issued tokens claim to be valid. The portal never
// checks it; the fake backend does.
const tokenTTL = time.Hour

var errInvalidCredentials = errors.New("invalid credentials")

// Claims are the fake backend's token claims.
type Claims struct {
	jwt.RegisteredClaims
	Role model.Role `json:"role"`
}

const ctxAccount = "account"

type account struct {
	ID       string
	Role     model.Role
	Email    string
	RollNo   string
	Hash     string
	Disabled bool
}

func hashPassword(password string) string {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.MinCost)
	if err != nil {
		panic(fmt.Sprintf("backendtest: hash password: %v", err))
	}
	return string(hash)
}

func checkPassword(hash, password string) error {
	if err := bcrypt.CompareHashAndPassword([]byte(hash), []byte(password)); err != nil {
		return errInvalidCredentials
	}
	return nil
}

// IssueToken signs a token for the account with the given ID and role.
func (b *Backend) IssueToken(id string, role model.Role) string {
	now := b.now()
	claims := Claims{
		RegisteredClaims: jwt.RegisteredClaims{
			ID:        uuid.NewString(),
			Subject:   id,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(tokenTTL)),
		},
		Role: role,
	}
	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(b.secret)
	if err != nil {
		panic(fmt.Sprintf("backendtest: sign token: %v", err))
	}
	return signed
}

func (b *Backend) validateToken(tokenStr string) (*Claims, error) {
	token, err := jwt.ParseWithClaims(tokenStr, &Claims{}, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", t.Header["alg"])
		}
		return b.secret, nil
	}, jwt.WithTimeFunc(b.now))
	if err != nil {
		return nil, fmt.Errorf("parse token: %w", err)
	}
	claims, ok := token.Claims.(*Claims)
	if !ok || !token.Valid {
		return nil, errors.New("invalid token claims")
	}
	return claims, nil
}

// requireRole admits requests whose bearer token belongs to one of roles.
func (b *Backend) requireRole(roles ...model.Role) gin.HandlerFunc {
	return func(c *gin.Context) {
		header := c.GetHeader("Authorization")
		tokenStr, ok := strings.CutPrefix(header, "Bearer ")
		if !ok || tokenStr == "" {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"message": "No token provided"})
			return
		}
		claims, err := b.validateToken(tokenStr)
		if err != nil {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"message": "Invalid token"})
			return
		}

		b.mu.Lock()
		acc, exists := b.accounts[claims.Subject]
		b.mu.Unlock()
		if !exists || acc.Disabled {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"message": "Account not found"})
			return
		}

		for _, r := range roles {
			if acc.Role == r {
				c.Set(ctxAccount, acc)
				c.Next()
				return
			}
		}
		c.AbortWithStatusJSON(http.StatusForbidden, gin.H{"message": "Forbidden"})
	}
}

func currentAccount(c *gin.Context) *account {
	v, _ := c.Get(ctxAccount)
	acc, _ := v.(*account)
	return acc
}
