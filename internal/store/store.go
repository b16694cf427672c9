// Package store persists document text. The outline engine never talks to
// a store; the editor reads text, edits it through the engine and writes
// it back, guarding the round trip with the document version.
package store

import (
	"context"
	"errors"
	"regexp"
	"time"
)

var (
	ErrNotFound        = errors.New("document not found")
	ErrVersionConflict = errors.New("document version conflict")
	ErrInvalidKey      = errors.New("invalid document key")
)

// AnyVersion makes Save overwrite regardless of the stored version.
const AnyVersion int64 = -1

// Document is one stored document.
type Document struct {
	Key       string    `json:"key"`
	Content   string    `json:"content"`
	Version   int64     `json:"version"`
	UpdatedAt time.Time `json:"updated_at"`
}

// Store loads and saves documents by key.
//
// Save is conditional on expected: AnyVersion writes unconditionally, 0
// creates a document that must not exist yet, and any other value must
// equal the stored version. A successful Save bumps the version by one.
type Store interface {
	Load(ctx context.Context, key string) (Document, error)
	Save(ctx context.Context, key, content string, expected int64) (Document, error)
	List(ctx context.Context) ([]Document, error)
	Delete(ctx context.Context, key string) error
	Close() error
}

var keyPattern = regexp.MustCompile(`^[A-Za-z0-9][A-Za-z0-9._-]{0,127}$`)

// ValidKey reports whether key is usable as a document key: letters,
// digits, '.', '_' and '-', starting with a letter or digit.
func ValidKey(key string) bool {
	return keyPattern.MatchString(key)
}

func checkVersion(exists bool, current, expected int64) error {
	switch {
	case expected == AnyVersion:
		return nil
	case expected == 0 && exists:
		return ErrVersionConflict
	case expected > 0 && (!exists || current != expected):
		return ErrVersionConflict
	case expected < AnyVersion:
		return ErrVersionConflict
	}
	return nil
}
