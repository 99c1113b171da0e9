// Package jwt реализует генерацию и парсинг JWT токенов личного кабинета партнёра.
package jwt

import (
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// Identity — данные аутентифицированного пользователя, которые переносит токен.
type Identity struct {
	UserID    int64
	Email     string
	PartnerID int64 // 0, если у пользователя нет профиля партнёра
}

// CustomClaims описывает пользовательские данные, хранящиеся в JWT.
type CustomClaims struct {
	Email     string `json:"email"`
	UserID    int64  `json:"uid"`
	PartnerID int64  `json:"pid,omitempty"`
	jwt.RegisteredClaims
}

// Maker описывает интерфейс для генерации и парсинга JWT токенов.
type Maker interface {
	GenerateToken(identity Identity) (string, error)
	ParseToken(tokenStr string) (*CustomClaims, error)
}

// MakerImpl реализует Maker с использованием секретного ключа
// и времени жизни токена (TTL).
type MakerImpl struct {
	secretKey string
	tokenTTL  time.Duration
}

// NewJWTMaker создаёт новый экземпляр MakerImpl на основе секретного ключа и TTL.
func NewJWTMaker(secretKey string, ttl time.Duration) *MakerImpl {
	return &MakerImpl{
		secretKey: secretKey,
		tokenTTL:  ttl,
	}
}

// Identity возвращает данные пользователя из claims.
func (c *CustomClaims) Identity() Identity {
	return Identity{
		UserID:    c.UserID,
		Email:     c.Email,
		PartnerID: c.PartnerID,
	}
}
