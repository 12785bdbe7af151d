package media

import "context"

// Store es almacenamiento puro de blobs para imágenes de mascotas.
// Sin lógica de negocio: bytes dentro, identificador fuera.
type Store interface {
	Save(ctx context.Context, data []byte, contentType string) (string, error)
	Load(ctx context.Context, name string) (data []byte, contentType string, err error)
	Delete(ctx context.Context, name string) error
}
