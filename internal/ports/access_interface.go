package ports

import (
	"context"
	"net/http"
	"time"

	"photo-asset-server/internal/model"
)

// AccessTokenVerifier : внешний сервис админских access-токенов.
// Сбои верификации превращаются в nil, а не в ошибку.
type AccessTokenVerifier interface {
	AdminFromRequest(r *http.Request) *model.AdminPrincipal
}

// ArchiveStorage : холодное S3-хранилище заархивированных оригиналов
type ArchiveStorage interface {
	GeneratePresignedGetURL(ctx context.Context, key string, expire time.Duration) (string, error)
}
