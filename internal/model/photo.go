package model

import (
	"database/sql"
	"time"
)

const (
	VisibilityPublic  = "public"
	VisibilityPrivate = "private"
)

type Project struct {
	ID        string    `db:"id" json:"id"`
	Folder    string    `db:"folder" json:"folder"`
	Title     string    `db:"title" json:"title"`
	CreatedAt time.Time `db:"created_at" json:"created_at"`
}

// Photo : запись о фотографии, read-only для слоя доставки
type Photo struct {
	ID            string         `db:"id" json:"id"`
	ProjectID     string         `db:"project_id" json:"project_id"`
	Filename      string         `db:"filename" json:"filename"`
	Basename      string         `db:"basename" json:"basename"`
	Ext           string         `db:"ext" json:"ext"`
	Visibility    sql.NullString `db:"visibility" json:"visibility"`
	JpgAvailable  bool           `db:"jpg_available" json:"jpg_available"`
	RawAvailable  bool           `db:"raw_available" json:"raw_available"`
	PreviewStatus string         `db:"preview_status" json:"preview_status"`
	ArchiveKey    sql.NullString `db:"archive_key" json:"-"`
	CreatedAt     time.Time      `db:"created_at" json:"created_at"`
}

// IsPublic : visibility по умолчанию private, если колонка пустая
func (p *Photo) IsPublic() bool {
	return p.Visibility.Valid && p.Visibility.String == VisibilityPublic
}
