package model

import (
	"path/filepath"
	"strings"
	"time"
)

const (
	FileTypeImage    = "IMAGE"
	FileTypeVideo    = "VIDEO"
	FileTypeDocument = "DOCUMENT"
	FileTypeZip      = "ZIP"
	FileTypeOther    = "OTHER"
)

// fileTypesByExtension maps lowercase extensions (without dot) to a file category
var fileTypesByExtension = map[string]string{
	"jpg": FileTypeImage, "jpeg": FileTypeImage, "png": FileTypeImage,
	"webp": FileTypeImage, "bmp": FileTypeImage, "gif": FileTypeImage,

	"mp4": FileTypeVideo, "mov": FileTypeVideo, "avi": FileTypeVideo,
	"mkv": FileTypeVideo, "webm": FileTypeVideo,

	"pdf": FileTypeDocument, "doc": FileTypeDocument, "docx": FileTypeDocument,
	"xls": FileTypeDocument, "xlsx": FileTypeDocument, "ppt": FileTypeDocument,
	"pptx": FileTypeDocument, "txt": FileTypeDocument, "odt": FileTypeDocument,

	"zip": FileTypeZip, "rar": FileTypeZip, "7z": FileTypeZip,
	"tar": FileTypeZip, "gz": FileTypeZip,
}

type File struct {
	ID        int64     `db:"id" json:"id"`
	OwnerID   int64     `db:"id_owner" json:"id_owner"`
	Name      string    `db:"name" json:"name"`
	Type      string    `db:"type" json:"type"`
	Path      string    `db:"path" json:"path"` // Random storage key, never derived from Name
	IsDeleted bool      `db:"is_deleted" json:"is_deleted"`
	CreatedAt time.Time `db:"created_at" json:"created_at"`
	UpdatedAt time.Time `db:"updated_at" json:"updated_at"`
}

// FileTypeFromName classifies a file by the extension of its client-supplied name.
// Unknown or missing extensions map to FileTypeOther.
func FileTypeFromName(filename string) string {
	ext := strings.ToLower(strings.TrimPrefix(filepath.Ext(filename), "."))
	fileType, ok := fileTypesByExtension[ext]
	if !ok {
		return FileTypeOther
	}
	return fileType
}

// IsValidFileType reports whether t is one of the known file categories
func IsValidFileType(t string) bool {
	switch t {
	case FileTypeImage, FileTypeVideo, FileTypeDocument, FileTypeZip, FileTypeOther:
		return true
	}
	return false
}
