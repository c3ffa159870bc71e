// authtoken — безопасное извлечение claims из access-токена бэкенда.
//
// Шлюз не владеет ключом подписи: валидность токена решает бэкенд (401 на вызов).
// Здесь нам нужны только exp (срок куки) и role (блокировка ADMIN-аккаунтов),
// поэтому разбираем токен без верификации подписи через ParseUnverified.
// Битый токен — ошибка аутентификации, а не паника.
package authtoken

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// ErrMalformed — токен не разбирается или не содержит exp.
var ErrMalformed = errors.New("authtoken: malformed access token")

// RoleAdmin — роль административного аккаунта; ему вход в сторфронт закрыт.
const RoleAdmin = "ADMIN"

type claims struct {
	Role string `json:"role"`
	jwt.RegisteredClaims
}

// Claims — подмножество полезной нагрузки access-токена, нужное шлюзу.
type Claims struct {
	Role      string
	ExpiresAt time.Time
}

// Decode разбирает токен без проверки подписи и достаёт exp/role.
// Отсутствие exp считаем ошибкой: без него нельзя выставить срок куки.
func Decode(raw string) (*Claims, error) {
	if raw == "" {
		return nil, ErrMalformed
	}

	var c claims
	parser := jwt.NewParser()
	if _, _, err := parser.ParseUnverified(raw, &c); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrMalformed, err)
	}

	if c.ExpiresAt == nil {
		return nil, fmt.Errorf("%w: no exp claim", ErrMalformed)
	}

	return &Claims{
		Role:      c.Role,
		ExpiresAt: c.ExpiresAt.Time,
	}, nil
}
