package repository

import (
	"context"
	"database/sql"
	"errors"

	"github.com/jmoiron/sqlx"

	"photo-asset-server/config"
	"photo-asset-server/internal/model"
)

type ProjectRepository struct {
	*config.Database
}

func NewProjectRepository(database *config.Database) *ProjectRepository {
	return &ProjectRepository{database}
}

// GetByFolder : возвращает проект по публичной папке, nil если не найден
func (r *ProjectRepository) GetByFolder(ctx context.Context, folder string) (*model.Project, error) {
	query := `
		SELECT id, folder, title, created_at
		FROM projects
		WHERE folder = $1
	`

	var project model.Project
	err := sqlx.GetContext(ctx, r.DB, &project, query, folder)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}

	return &project, nil
}

type PhotoRepository struct {
	*config.Database
}

func NewPhotoRepository(database *config.Database) *PhotoRepository {
	return &PhotoRepository{database}
}

// GetByFilenameOrBasename : ищет фотографию по точному filename либо по
// basename, nil если не найдена
func (r *PhotoRepository) GetByFilenameOrBasename(ctx context.Context, projectID string, name string) (*model.Photo, error) {
	query := `
		SELECT id, project_id, filename, basename, ext, visibility,
		       jpg_available, raw_available, preview_status, archive_key, created_at
		FROM photos
		WHERE project_id = $1 AND (filename = $2 OR basename = $2)
		LIMIT 1
	`

	var photo model.Photo
	err := sqlx.GetContext(ctx, r.DB, &photo, query, projectID, name)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}

	return &photo, nil
}
