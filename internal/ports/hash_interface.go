package ports

import (
	"context"

	"photo-asset-server/internal/model"
)

// PublicHashStore : Redis слой для записей публичных хэшей.
// Get возвращает (nil, nil), если записи нет.
type PublicHashStore interface {
	Get(ctx context.Context, photoID string) (*model.PublicHashRecord, error)
	Save(ctx context.Context, photoID string, record *model.PublicHashRecord) error
}

// PublicHashRegistry : жизненный цикл публичных хэшей. Ротация происходит
// только в EnsureHash; Validate и GetActive состояние не меняют.
type PublicHashRegistry interface {
	EnsureHash(ctx context.Context, photoID string) (*model.PublicHashRecord, error)
	GetActive(ctx context.Context, photoID string) (*model.PublicHashRecord, error)
	Validate(ctx context.Context, photoID string, candidateHash string) (*model.PublicHashRecord, string, error)
}
