// Package localdir guarda los blobs de imagen como ficheros planos en un
// directorio local. El nombre devuelto es opaco (uuid + extensión) y es lo
// único que persiste la entidad dueña de la imagen.
package localdir

import (
	"context"
	"errors"
	"mime"
	"os"
	"path/filepath"
	"strings"

	"github.com/google/uuid"

	"vet-clinic-backend/internal/platform/apperr"
	"vet-clinic-backend/internal/ports/media"
)

var extByType = map[string]string{
	"image/jpeg": ".jpg",
	"image/png":  ".png",
	"image/gif":  ".gif",
	"image/webp": ".webp",
}

type Store struct {
	dir string
}

// New crea el directorio si no existe.
func New(dir string) (*Store, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, err
	}
	return &Store{dir: dir}, nil
}

var _ media.Store = (*Store)(nil)

func (s *Store) Save(ctx context.Context, data []byte, contentType string) (string, error) {
	ext, ok := extByType[strings.ToLower(contentType)]
	if !ok {
		return "", apperr.ValidationMsg("file", "unsupported image type: "+contentType)
	}
	name := uuid.NewString() + ext
	if err := os.WriteFile(filepath.Join(s.dir, name), data, 0o644); err != nil {
		return "", err
	}
	return name, nil
}

func (s *Store) Load(ctx context.Context, name string) ([]byte, string, error) {
	name = filepath.Base(name) // sin traversal
	data, err := os.ReadFile(filepath.Join(s.dir, name))
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, "", apperr.NotFoundMsg("image " + name + " not found")
		}
		return nil, "", err
	}
	ct := mime.TypeByExtension(filepath.Ext(name))
	if ct == "" {
		ct = "application/octet-stream"
	}
	return data, ct, nil
}

// Delete es idempotente: borrar un blob inexistente no es error.
func (s *Store) Delete(ctx context.Context, name string) error {
	name = filepath.Base(name)
	err := os.Remove(filepath.Join(s.dir, name))
	if err != nil && !errors.Is(err, os.ErrNotExist) {
		return err
	}
	return nil
}
