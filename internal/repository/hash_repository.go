package repository

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/redis/go-redis/v9"

	"photo-asset-server/config"
	"photo-asset-server/internal/model"
	"photo-asset-server/internal/util"
)

// PublicHashRepository : хранит записи публичных хэшей в Redis.
// Ключ живёт дольше expires_at записи, чтобы Validate мог отличить
// expired от not_found.
type PublicHashRepository struct {
	client *config.RedisClient
}

func NewPublicHashRepository(rdb *config.RedisClient) *PublicHashRepository {
	return &PublicHashRepository{rdb}
}

func (r *PublicHashRepository) Get(ctx context.Context, photoID string) (*model.PublicHashRecord, error) {
	val, err := r.client.Client.Get(ctx, r.key(photoID)).Result()
	if errors.Is(err, redis.Nil) {
		return nil, nil // записи нет
	} else if err != nil {
		return nil, util.LogError("ошибка получения публичного хэша из Redis", err)
	}

	var record model.PublicHashRecord
	if err := json.Unmarshal([]byte(val), &record); err != nil {
		return nil, util.LogError("ошибка десериализации публичного хэша", err)
	}
	return &record, nil
}

func (r *PublicHashRepository) Save(ctx context.Context, photoID string, record *model.PublicHashRecord) error {
	data, err := json.Marshal(record)
	if err != nil {
		return util.LogError("ошибка сериализации публичного хэша", err)
	}

	cmd := r.client.Client.Set(ctx, r.key(photoID), data, 0)
	if err = cmd.Err(); err != nil {
		return util.LogError("ошибка сохранения публичного хэша в Redis", err)
	}
	if cmd.Val() != "OK" {
		return fmt.Errorf("неожиданный ответ Redis: %s", cmd.Val())
	}

	return nil
}

func (r *PublicHashRepository) key(photoID string) string {
	return fmt.Sprintf("public_hash:%s", photoID)
}
