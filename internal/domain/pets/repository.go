package pets

import (
	"context"

	"vet-clinic-backend/internal/platform/listing"
)

type Repository interface {
	Create(ctx context.Context, p Pet) (Pet, error)
	Update(ctx context.Context, p Pet) error
	GetByID(ctx context.Context, id int64) (Pet, error)

	// List pagina y filtra por substring (nombre, especie, raza).
	List(ctx context.Context, q listing.Query) (listing.Page[Pet], error)
	ListByClient(ctx context.Context, clientID int64) ([]Pet, error)

	// Delete elimina en cascada las citas de la mascota (y sus tratamientos).
	Delete(ctx context.Context, id int64) error

	Count(ctx context.Context) (int, error)
}
