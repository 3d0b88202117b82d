package service

import (
	"context"
	"hash/fnv"
	"sync"
	"time"

	"photo-asset-server/internal/model"
	"photo-asset-server/internal/ports"
	"photo-asset-server/internal/util"
)

// Причины отказа валидации публичного хэша
const (
	HashReasonMissing  = "missing"
	HashReasonNotFound = "not_found"
	HashReasonMismatch = "mismatch"
	HashReasonExpired  = "expired"
)

const publicHashLength = 32

// Фиксированный пул mutex-ов вместо map по photoID: перебор чужих id
// не раздувает память реестра
const hashRegistryLocks = 64

// HashRegistry : ротация публичных хэшей фотографий. Ротация случается
// только в EnsureHash, который вызывается с админского пути — публичный
// посетитель не может вынудить ротацию и сломать чужие легитимные ссылки.
type HashRegistry struct {
	store ports.PublicHashStore
	ttl   time.Duration
	now   func() time.Time

	locks [hashRegistryLocks]sync.Mutex
}

func NewHashRegistry(store ports.PublicHashStore, ttl time.Duration) *HashRegistry {
	return NewHashRegistryWithClock(store, ttl, time.Now)
}

func NewHashRegistryWithClock(store ports.PublicHashStore, ttl time.Duration, now func() time.Time) *HashRegistry {
	return &HashRegistry{
		store: store,
		ttl:   ttl,
		now:   now,
	}
}

// EnsureHash : возвращает активную запись, либо атомарно генерирует новую.
// Конкурентные вызовы по одному photoID сериализуются на шардированном
// mutex: победитель один, двух разных "активных" хэшей не бывает. Разные
// photoID изредка делят шард и тогда ждут друг друга, на корректность это
// не влияет.
func (reg *HashRegistry) EnsureHash(ctx context.Context, photoID string) (*model.PublicHashRecord, error) {
	lock := reg.keyLock(photoID)
	lock.Lock()
	defer lock.Unlock()

	record, err := reg.store.Get(ctx, photoID)
	if err != nil {
		return nil, err
	}
	if record.Active(reg.now().UnixMilli()) {
		return record, nil
	}

	hash, err := util.GenerateRandomToken(publicHashLength)
	if err != nil {
		return nil, util.LogError("[HashRegistry] ошибка генерации хэша", err)
	}

	record = &model.PublicHashRecord{
		Hash:      hash,
		ExpiresAt: reg.now().Add(reg.ttl).UnixMilli(),
	}
	if err := reg.store.Save(ctx, photoID, record); err != nil {
		return nil, err
	}

	return record, nil
}

// GetActive : read-only, nil если записи нет или она истекла
func (reg *HashRegistry) GetActive(ctx context.Context, photoID string) (*model.PublicHashRecord, error) {
	record, err := reg.store.Get(ctx, photoID)
	if err != nil {
		return nil, err
	}
	if !record.Active(reg.now().UnixMilli()) {
		return nil, nil
	}
	return record, nil
}

// Validate : проверяет хэш посетителя, никогда не мутирует состояние.
// Возвращает причину отказа missing / not_found / mismatch / expired,
// пустая причина означает успех. Ошибка — только сбой хранилища.
func (reg *HashRegistry) Validate(ctx context.Context, photoID string, candidateHash string) (*model.PublicHashRecord, string, error) {
	if candidateHash == "" {
		return nil, HashReasonMissing, nil
	}

	record, err := reg.store.Get(ctx, photoID)
	if err != nil {
		return nil, "", err
	}
	if record == nil {
		return nil, HashReasonNotFound, nil
	}
	if record.Hash != candidateHash {
		return nil, HashReasonMismatch, nil
	}
	if !record.Active(reg.now().UnixMilli()) {
		return nil, HashReasonExpired, nil
	}

	return record, "", nil
}

func (reg *HashRegistry) keyLock(photoID string) *sync.Mutex {
	h := fnv.New32a()
	h.Write([]byte(photoID))
	return &reg.locks[h.Sum32()%hashRegistryLocks]
}
