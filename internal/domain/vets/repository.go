package vets

import (
	"context"

	"vet-clinic-backend/internal/platform/listing"
)

type Repository interface {
	Create(ctx context.Context, v Vet) (Vet, error)
	Update(ctx context.Context, v Vet) error
	GetByID(ctx context.Context, id int64) (Vet, error)

	// List pagina y filtra por substring (apellidos).
	List(ctx context.Context, q listing.Query) (listing.Page[Vet], error)
	ListSpecialties(ctx context.Context) ([]string, error)

	// Delete debe, en una sola unidad atómica, poner a NULL la referencia
	// de todas las citas asignadas al veterinario y después borrar la fila.
	// Las citas históricas nunca se eliminan con el profesional.
	Delete(ctx context.Context, id int64) error

	Count(ctx context.Context) (int, error)
}
