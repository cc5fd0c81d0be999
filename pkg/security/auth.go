package security

import (
	"errors"
	"fmt"
	"time"

	"github.com/lucasz92/zenitwms-sub000/pkg/models"
	"github.com/lucasz92/zenitwms-sub000/pkg/roles"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
)

const currentUserKey = "currentUser"

var ErrNoIdentity = errors.New("no authenticated identity in request")

// IdentityClaims is the profile the identity provider puts in its session
// token. The service never authenticates users itself.
type IdentityClaims struct {
	Email   string `json:"email"`
	Name    string `json:"name"`
	Picture string `json:"picture"`
	Role    string `json:"role"`
	jwt.RegisteredClaims
}

func (c *IdentityClaims) User() *models.User {
	role := roles.Role(c.Role)
	if !role.IsValid() {
		role = roles.Viewer
	}

	return &models.User{
		ID:        c.Subject,
		Email:     c.Email,
		Name:      c.Name,
		Role:      role.String(),
		AvatarURL: c.Picture,
	}
}

type TokenVerifier struct {
	secret []byte
}

func NewTokenVerifier(secret string) *TokenVerifier {
	return &TokenVerifier{secret: []byte(secret)}
}

func (v *TokenVerifier) Verify(tokenString string) (*IdentityClaims, error) {
	claims := &IdentityClaims{}
	token, err := jwt.ParseWithClaims(tokenString, claims, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method")
		}
		return v.secret, nil
	})
	if err != nil {
		return nil, err
	}
	if !token.Valid {
		return nil, fmt.Errorf("invalid token")
	}
	if claims.Subject == "" {
		return nil, fmt.Errorf("token has no subject")
	}

	return claims, nil
}

// GenerateJWT signs a token the way the identity provider does. Used by the
// dev `token` command and by tests.
func GenerateJWT(secret string, user models.User, ttl time.Duration) (string, error) {
	claims := IdentityClaims{
		Email:   user.Email,
		Name:    user.Name,
		Picture: user.AvatarURL,
		Role:    user.Role,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   user.ID,
			IssuedAt:  jwt.NewNumericDate(time.Now()),
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(ttl)),
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString([]byte(secret))
}

func SetCurrentUser(c *gin.Context, user *models.User) {
	c.Set(currentUserKey, user)
}

func CurrentUser(c *gin.Context) (*models.User, error) {
	value, exists := c.Get(currentUserKey)
	if !exists {
		return nil, ErrNoIdentity
	}
	user, ok := value.(*models.User)
	if !ok || user == nil {
		return nil, ErrNoIdentity
	}
	return user, nil
}
