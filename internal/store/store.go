// Package store persists an address book to a single file.
package store

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"go.uber.org/zap"

	"github.com/smileynet/addrbook/internal/book"
)

// FileStore reads and writes a whole address book as one file.
type FileStore struct {
	path   string
	codec  Codec
	logger *zap.Logger
}

// Option configures a FileStore.
type Option func(*FileStore)

// WithLogger sets the logger used for load and save events.
func WithLogger(l *zap.Logger) Option {
	return func(s *FileStore) {
		if l != nil {
			s.logger = l
		}
	}
}

// NewFileStore creates a FileStore for path. format is "yaml", "cbor", or empty
// to infer from the file extension.
func NewFileStore(path, format string, opts ...Option) (*FileStore, error) {
	if path == "" {
		return nil, errors.New("store: path cannot be empty")
	}
	codec, err := CodecFor(format, path)
	if err != nil {
		return nil, err
	}
	s := &FileStore{path: path, codec: codec, logger: zap.NewNop()}
	for _, opt := range opts {
		opt(s)
	}
	return s, nil
}

// Path returns the file the store reads and writes.
func (s *FileStore) Path() string { return s.path }

// Load reads the address book. A missing file yields an empty book.
func (s *FileStore) Load() (*book.Book, error) {
	data, err := os.ReadFile(s.path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			s.logger.Debug("address book not found, starting empty", zap.String("path", s.path))
			return book.New(), nil
		}
		return nil, fmt.Errorf("store: reading %s: %w", s.path, err)
	}

	b, err := Decode(data, s.codec)
	if err != nil {
		return nil, fmt.Errorf("%w (file %s)", err, s.path)
	}
	s.logger.Debug("address book loaded",
		zap.String("path", s.path),
		zap.String("format", s.codec.Name()),
		zap.Int("contacts", b.Len()),
	)
	return b, nil
}

// Save writes the address book. Data goes to a temporary file in the same
// directory which then replaces the target, so a failed write leaves the
// previous file intact.
func (s *FileStore) Save(b *book.Book) (err error) {
	data, err := Encode(b, s.codec)
	if err != nil {
		return err
	}

	dir := filepath.Dir(s.path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("store: creating directory: %w", err)
	}

	tmp, err := os.CreateTemp(dir, filepath.Base(s.path)+".*.tmp")
	if err != nil {
		return fmt.Errorf("store: creating temp file: %w", err)
	}
	tmpName := tmp.Name()
	defer func() {
		if err != nil {
			_ = tmp.Close()
			_ = os.Remove(tmpName)
		}
	}()

	if _, err = tmp.Write(data); err != nil {
		return fmt.Errorf("store: writing %s: %w", tmpName, err)
	}
	if err = tmp.Sync(); err != nil {
		return fmt.Errorf("store: syncing %s: %w", tmpName, err)
	}
	if err = tmp.Close(); err != nil {
		return fmt.Errorf("store: closing %s: %w", tmpName, err)
	}
	if err = os.Chmod(tmpName, 0o644); err != nil {
		return fmt.Errorf("store: chmod %s: %w", tmpName, err)
	}
	if err = os.Rename(tmpName, s.path); err != nil {
		return fmt.Errorf("store: replacing %s: %w", s.path, err)
	}

	s.logger.Info("address book saved",
		zap.String("path", s.path),
		zap.String("format", s.codec.Name()),
		zap.Int("contacts", b.Len()),
	)
	return nil
}
