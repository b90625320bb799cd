package util

import (
	"time"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
)

// GateClaims 共享口令闸门换取的会话令牌；除会话标识外不携带用户身份
type GateClaims struct {
	SessionID string `json:"session_id"`
	jwt.RegisteredClaims
}

func GenerateGateToken(sessionID, secret string, expiration time.Duration) (string, error) {
	claims := &GateClaims{
		SessionID: sessionID,
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(expiration)),
			IssuedAt:  jwt.NewNumericDate(time.Now()),
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString([]byte(secret))
}

func ParseGateToken(tokenString, secret string) (*GateClaims, error) {
	token, err := jwt.ParseWithClaims(tokenString, &GateClaims{}, func(token *jwt.Token) (interface{}, error) {
		return []byte(secret), nil
	})

	if err != nil {
		return nil, err
	}

	if claims, ok := token.Claims.(*GateClaims); ok && token.Valid {
		return claims, nil
	}

	return nil, jwt.ErrTokenInvalidClaims
}

func GetSessionFromContext(c *gin.Context) *GateClaims {
	session, exists := c.Get("session")
	if !exists {
		return nil
	}
	claims, ok := session.(*GateClaims)
	if !ok {
		return nil
	}
	return claims
}
