package utils

import (
	"errors"
	"fmt"
	"mime/multipart"
	"path/filepath"
	"strings"
	"time"
)

const MaxImageSize = 5 * 1024 * 1024

var allowedImageExtensions = map[string]bool{
	".jpg":  true,
	".jpeg": true,
	".png":  true,
	".gif":  true,
	".webp": true,
}

var (
	ErrFileTooLarge    = errors.New("file size exceeds maximum allowed size")
	ErrInvalidFileType = errors.New("invalid file type. Only images are allowed")
)

func ValidateImage(fileHeader *multipart.FileHeader, maxSize int64) error {
	if maxSize <= 0 {
		maxSize = MaxImageSize
	}
	if fileHeader.Size > maxSize {
		return ErrFileTooLarge
	}

	ext := strings.ToLower(filepath.Ext(fileHeader.Filename))
	if !allowedImageExtensions[ext] {
		return ErrInvalidFileType
	}
	return nil
}

// UploadName builds a storage public id for an uploaded image: no
// extension, no spaces, prefixed with the upload time.
func UploadName(prefix, filename string, at time.Time) string {
	base := strings.TrimSuffix(filepath.Base(filename), filepath.Ext(filename))
	base = strings.ReplaceAll(strings.TrimSpace(base), " ", "_")
	if len(base) > 100 {
		base = base[:100]
	}
	if base == "" {
		return fmt.Sprintf("%s_%d", prefix, at.Unix())
	}
	return fmt.Sprintf("%s_%d_%s", prefix, at.Unix(), base)
}
