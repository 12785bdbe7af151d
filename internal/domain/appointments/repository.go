package appointments

import (
	"context"
	"time"

	"vet-clinic-backend/internal/platform/listing"
)

type Repository interface {
	Create(ctx context.Context, a Appointment) (Appointment, error)
	Update(ctx context.Context, a Appointment) error
	GetByID(ctx context.Context, id int64) (Appointment, error)

	// List pagina y filtra por substring (motivo, diagnóstico, estado).
	List(ctx context.Context, q listing.Query) (listing.Page[Appointment], error)

	// ListByPet: historial clínico, más reciente primero.
	ListByPet(ctx context.Context, petID int64) ([]Appointment, error)
	// ListByVet: agenda del profesional, próximas citas primero.
	ListByVet(ctx context.Context, vetID int64) ([]Appointment, error)
	// ListByClient: todas las citas de mascotas del cliente.
	ListByClient(ctx context.Context, clientID int64) ([]Appointment, error)
	ListBetween(ctx context.Context, from, to time.Time) ([]Appointment, error)
	// ListRecent alimenta la actividad reciente del dashboard.
	ListRecent(ctx context.Context, limit int) ([]Appointment, error)

	// Delete elimina en cascada los tratamientos de la cita.
	Delete(ctx context.Context, id int64) error

	Count(ctx context.Context) (int, error)
}
