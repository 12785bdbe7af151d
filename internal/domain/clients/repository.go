package clients

import (
	"context"

	"vet-clinic-backend/internal/platform/listing"
)

type Repository interface {
	// Create asigna el id generado por el almacén.
	Create(ctx context.Context, c Client) (Client, error)
	Update(ctx context.Context, c Client) error
	GetByID(ctx context.Context, id int64) (Client, error)
	GetByDNI(ctx context.Context, dni string) (Client, error)

	// List pagina y filtra por substring (apellidos, dni).
	List(ctx context.Context, q listing.Query) (listing.Page[Client], error)

	// Delete elimina en cascada mascotas, citas y tratamientos del cliente.
	// Si el cliente sigue vinculado a una cuenta de usuario devuelve Conflict.
	Delete(ctx context.Context, id int64) error

	Count(ctx context.Context) (int, error)
}
