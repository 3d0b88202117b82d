package service

import (
	"context"
	"errors"
	"log"
	"net/http"

	"photo-asset-server/internal/model"
	"photo-asset-server/internal/ports"
	"photo-asset-server/internal/security"
)

// Ошибки гейта доступа. Handler переводит их в HTTP-статусы;
// 404 против 401 различает "никогда не существовало" и "есть, но нельзя".
var (
	ErrNotFound      = errors.New("не найдено")
	ErrUnauthorized  = errors.New("unauthorized")
	ErrTokenMismatch = errors.New("Token does not match request")
)

// AccessGate : собирает проверку видимости, детекцию администратора,
// валидацию публичного хэша и подписанного токена в одно решение
// допустить/отказать. Все проверки идут строго до обращения к диску,
// чтобы существование файлов не утекало неавторизованным.
type AccessGate struct {
	codec    *security.DownloadTokenCodec
	registry ports.PublicHashRegistry
	verifier ports.AccessTokenVerifier
}

func NewAccessGate(codec *security.DownloadTokenCodec, registry ports.PublicHashRegistry, verifier ports.AccessTokenVerifier) *AccessGate {
	return &AccessGate{
		codec:    codec,
		registry: registry,
		verifier: verifier,
	}
}

// CheckSignedRequest : для endpoint-ов под подписанным токеном. Кроме
// криптографической валидности требует точного совпадения полей payload
// с параметрами маршрута: токен на один файл не годится ни для какого
// другого, даже неистёкший.
func (g *AccessGate) CheckSignedRequest(token, folder, kind, name string) (*model.DownloadTokenPayload, error) {
	if token == "" {
		return nil, ErrUnauthorized
	}

	payload, reason := g.codec.Verify(token)
	if reason != "" {
		log.Printf("[AccessGate] отказ по токену скачивания: %s", reason)
		return nil, ErrUnauthorized
	}

	if payload.Folder != folder || payload.Filename != name || payload.Type != kind {
		log.Printf("[AccessGate] токен не совпадает с маршрутом: папка=%s тип=%s", folder, kind)
		return nil, ErrTokenMismatch
	}

	return payload, nil
}

// DerivativeDecision : результат допуска на derivative endpoint.
// PublicHash заполнен для администратора, смотрящего публичную фотографию,
// чтобы он мог увидеть актуальную публичную ссылку.
type DerivativeDecision struct {
	Admin      *model.AdminPrincipal
	PublicHash *model.PublicHashRecord
}

// AuthorizeDerivative : допуск на thumbnail/preview/image.
// private допускает только администратора, причём отказ маскируется под
// 404 — чужим не положено знать, что фотография вообще существует;
// public пускает администратора (с ротацией хэша) либо анонима с валидным
// query-хэшем именно этой фотографии.
func (g *AccessGate) AuthorizeDerivative(ctx context.Context, r *http.Request, photo *model.Photo) (*DerivativeDecision, error) {
	admin := g.verifier.AdminFromRequest(r)

	if !photo.IsPublic() {
		if admin == nil {
			return nil, ErrNotFound
		}
		return &DerivativeDecision{Admin: admin}, nil
	}

	if admin != nil {
		record, err := g.registry.EnsureHash(ctx, photo.ID)
		if err != nil {
			return nil, err
		}
		return &DerivativeDecision{Admin: admin, PublicHash: record}, nil
	}

	record, reason, err := g.registry.Validate(ctx, photo.ID, r.URL.Query().Get("hash"))
	if err != nil {
		return nil, err
	}
	if reason != "" {
		log.Printf("[AccessGate] отказ по публичному хэшу: %s (фото %s)", reason, photo.ID)
		return nil, ErrUnauthorized
	}

	return &DerivativeDecision{PublicHash: record}, nil
}
