// Package evidence validates references to payment proofs held by an external store.
package evidence

import (
	"errors"
	"fmt"
	"path/filepath"
	"strings"
)

// MaxSize is the largest accepted artifact, in bytes
const MaxSize int64 = 5 * 1024 * 1024

var allowedExtensions = map[string]bool{
	".pdf":  true,
	".jpg":  true,
	".jpeg": true,
	".png":  true,
}

var (
	ErrMissing         = errors.New("evidence is required")
	ErrUnsupportedType = errors.New("unsupported file type")
	ErrTooLarge        = errors.New("file is too large")
	ErrMissingStoreKey = errors.New("evidence store key is required")
)

// Ref points at an uploaded bank slip or receipt
type Ref struct {
	FileName string `json:"file_name" validate:"required,max=255"`
	Size     int64  `json:"size" validate:"gt=0"`
	StoreKey string `json:"store_key" validate:"required,max=255"`
}

// Validate checks extension and size before a ref is accepted
func Validate(ref Ref) error {
	if strings.TrimSpace(ref.FileName) == "" || ref.Size <= 0 {
		return ErrMissing
	}

	ext := strings.ToLower(filepath.Ext(ref.FileName))
	if !allowedExtensions[ext] {
		return fmt.Errorf("%w: %q (allowed: pdf, jpg, jpeg, png)", ErrUnsupportedType, ext)
	}

	if ref.Size > MaxSize {
		return fmt.Errorf("%w: %d bytes (max 5MB)", ErrTooLarge, ref.Size)
	}

	if strings.TrimSpace(ref.StoreKey) == "" {
		return ErrMissingStoreKey
	}

	return nil
}

// Key returns the value persisted on ledger rows
func (r Ref) Key() string {
	return r.StoreKey
}
