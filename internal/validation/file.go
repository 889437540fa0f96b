package validation

import (
	"fmt"
	"mime/multipart"
)

// ValidateUpload checks an uploaded part before its content is stored.
// Any file type is accepted; the category is derived from the extension.
func ValidateUpload(header *multipart.FileHeader, maxSize int64) error {
	if header == nil {
		return fmt.Errorf("file is required")
	}

	if _, err := NormalizeName(header.Filename); err != nil {
		return fmt.Errorf("invalid file name: %w", err)
	}

	if header.Size > maxSize {
		return fmt.Errorf("file too large: maximum size is %d MB", maxSize/(1<<20))
	}

	return nil
}
