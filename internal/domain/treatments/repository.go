package treatments

import (
	"context"

	"vet-clinic-backend/internal/platform/listing"
)

type Repository interface {
	Create(ctx context.Context, t Treatment) (Treatment, error)
	Update(ctx context.Context, t Treatment) error
	GetByID(ctx context.Context, id int64) (Treatment, error)

	// List pagina y filtra por substring (descripción, medicamento).
	List(ctx context.Context, q listing.Query) (listing.Page[Treatment], error)
	ListByAppointment(ctx context.Context, appointmentID int64) ([]Treatment, error)

	// ListByClient recupera los tratamientos de mascotas de un cliente
	// (cadena tratamiento → cita → mascota → cliente).
	ListByClient(ctx context.Context, clientID int64) ([]Treatment, error)

	// Delete es borrado simple: el tratamiento es entidad hoja.
	Delete(ctx context.Context, id int64) error
}
