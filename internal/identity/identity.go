// Package identity реализует проверку bearer-токенов внешнего провайдера
// идентификации. Сервис токены не выпускает, только проверяет подпись
// и извлекает подтверждённые email и subject.
package identity

import (
	"context"
	"fmt"

	"github.com/golang-jwt/jwt/v5"
)

// Identity — подтверждённые данные пользователя из токена.
type Identity struct {
	Subject string
	Email   string
	Name    string
	Picture string
}

// Verifier описывает интерфейс проверки bearer-токена.
type Verifier interface {
	Verify(ctx context.Context, token string) (*Identity, error)
}

// Claims — состав токена провайдера: email, имя и аватар поверх
// стандартных claims (sub, iss, exp и пр.).
type Claims struct {
	Email                string `json:"email"`
	Name                 string `json:"name"`
	Picture              string `json:"picture"`
	jwt.RegisteredClaims
}

// TokenVerifier проверяет HS256-токены по общему секрету провайдера.
type TokenVerifier struct {
	secretKey string
	issuer    string
}

// NewTokenVerifier создаёт TokenVerifier. Пустой issuer отключает
// проверку издателя.
func NewTokenVerifier(secretKey, issuer string) *TokenVerifier {
	return &TokenVerifier{
		secretKey: secretKey,
		issuer:    issuer,
	}
}

// Verify парсит токен, проверяет подпись, срок действия и издателя,
// возвращает Identity с подтверждённым email.
func (v *TokenVerifier) Verify(_ context.Context, tokenStr string) (*Identity, error) {
	const op = "identity.Verify"

	token, err := jwt.ParseWithClaims(tokenStr, &Claims{}, func(_ *jwt.Token) (any, error) {
		return []byte(v.secretKey), nil
	}, jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}))
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	claims, ok := token.Claims.(*Claims)
	if !ok || !token.Valid {
		return nil, fmt.Errorf("%s: invalid token", op)
	}
	if v.issuer != "" && claims.Issuer != v.issuer {
		return nil, fmt.Errorf("%s: unexpected issuer %q", op, claims.Issuer)
	}
	if claims.Email == "" {
		return nil, fmt.Errorf("%s: token has no email claim", op)
	}
	return &Identity{
		Subject: claims.Subject,
		Email:   claims.Email,
		Name:    claims.Name,
		Picture: claims.Picture,
	}, nil
}
