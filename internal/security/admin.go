package security

import (
	"context"
	"fmt"
	"net/http"
	"strings"

	"github.com/golang-jwt/jwt/v5"

	"photo-asset-server/config"
	"photo-asset-server/internal/model"
	"photo-asset-server/internal/util"
)

type contextKey string

const (
	AdminContextKey contextKey = "admin"

	RoleAdmin = "admin"
)

type AdminClaims struct {
	UserUUID string `json:"user_uuid"`
	Role     string `json:"role"`
	jwt.RegisteredClaims
}

// AdminVerifier : проверяет access-токены внешнего админского сервиса
type AdminVerifier struct {
	cfg *config.AdminJWTConfig
}

func NewAdminVerifier(cfg *config.AdminJWTConfig) *AdminVerifier {
	return &AdminVerifier{cfg}
}

func (v *AdminVerifier) ValidateAccessToken(tokenStr string) (*AdminClaims, error) {
	var claims = &AdminClaims{}

	jwtToken, err := jwt.ParseWithClaims(tokenStr, claims, func(token *jwt.Token) (interface{}, error) {
		if token.Header["alg"] != jwt.SigningMethodHS512.Alg() {
			return nil, fmt.Errorf("неверный способ подписи токена: %v", token.Header["alg"])
		}
		return []byte(v.cfg.SecretKey), nil
	})

	if err != nil || jwtToken.Valid == false {
		return nil, util.LogError("[AdminVerifier] невалидный токен", err)
	}

	return claims, nil
}

// AdminFromRequest : опциональное определение администратора из Bearer
// заголовка или session cookie. Никогда не возвращает ошибку: любой сбой
// верификатора съедается в nil, запрос продолжает жить как анонимный.
func (v *AdminVerifier) AdminFromRequest(r *http.Request) *model.AdminPrincipal {
	tokenStr := ""

	authorizationHeader := r.Header.Get("Authorization")
	if strings.HasPrefix(authorizationHeader, "Bearer ") {
		tokenStr = strings.TrimPrefix(authorizationHeader, "Bearer ")
	} else if cookie, err := r.Cookie(v.cfg.CookieName); err == nil {
		tokenStr = cookie.Value
	}

	if tokenStr == "" {
		return nil
	}

	claims, err := v.ValidateAccessToken(tokenStr)
	if err != nil || claims.Role != RoleAdmin {
		return nil
	}

	return &model.AdminPrincipal{
		ID:      claims.UserUUID,
		Role:    claims.Role,
		TokenID: claims.ID,
	}
}

// AdminMiddleware : закрывает маршрут для всех, кроме администраторов
func AdminMiddleware(verifier *AdminVerifier) func(next http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			admin := verifier.AdminFromRequest(r)
			if admin == nil {
				util.HandleError(w, "unauthorized", http.StatusUnauthorized)
				return
			}

			req := r.WithContext(context.WithValue(r.Context(), AdminContextKey, admin))
			next.ServeHTTP(w, req)
		})
	}
}
