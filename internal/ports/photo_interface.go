package ports

import (
	"context"

	"photo-asset-server/internal/model"
)

// ProjectRepository : SQL слой, поиск проекта по публичной папке
type ProjectRepository interface {
	GetByFolder(ctx context.Context, folder string) (*model.Project, error)
}

// PhotoRepository : SQL слой, поиск фотографии внутри проекта.
// Имя сравнивается и с полным filename, и с basename, потому что клиент
// может запрашивать превью без расширения.
type PhotoRepository interface {
	GetByFilenameOrBasename(ctx context.Context, projectID string, name string) (*model.Photo, error)
}
