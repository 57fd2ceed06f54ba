package domain

import (
	"time"
)

// Category определяет тип записи в хранилище.
type Category string

const (
	CategoryFolder   Category = "folder"
	CategoryImage    Category = "image"
	CategoryDocument Category = "document"
	CategoryVideo    Category = "video"
	CategoryAudio    Category = "audio"
	CategoryOther    Category = "other"
)

// File представляет одну запись метаданных (файл или папку).
// JSON-теги повторяют формат документа "files" в хранилище.
type File struct {
	ID         string    `json:"id"`
	Name       string    `json:"name"`
	Category   Category  `json:"type"`
	SizeBytes  int64     `json:"size"`
	CreatedAt  time.Time `json:"createdAt"`
	ModifiedAt time.Time `json:"modifiedAt"`
	Path       string    `json:"path"`
	PreviewRef string    `json:"previewUrl,omitempty"`
	Starred    bool      `json:"starred,omitempty"`
	Shared     bool      `json:"shared,omitempty"`
	Recycled   bool      `json:"recycled"`
}

// FileUpload описывает загружаемый файл до создания записи.
type FileUpload struct {
	Name       string `json:"name"`
	MediaType  string `json:"media_type"`
	SizeBytes  int64  `json:"size_bytes"`
	Path       string `json:"path,omitempty"`
	PreviewRef string `json:"preview_url,omitempty"`
}
