package appointments

import (
	"time"

	"vet-clinic-backend/internal/domain/treatments"
)

// Appointment es la entidad central del sistema: une paciente (mascota),
// profesional (veterinario, opcional) y servicios realizados (tratamientos).
type Appointment struct {
	ID    int64
	PetID int64

	// VetID es anulable: si el profesional causa baja, la cita permanece
	// como registro histórico con la referencia a NULL.
	VetID *int64

	DateTime  time.Time
	Reason    string
	Diagnosis string
	Status    string // flujo libre: Pendiente, Realizada, Cancelada...
}

// Detail es la vista de lectura de una cita con su desglose económico.
// TotalCost se recalcula en cada lectura, nunca se almacena.
type Detail struct {
	Appointment
	Treatments []treatments.Treatment
	TotalCost  float64
}

// TotalCost suma los precios de los tratamientos; 0 si no hay ninguno.
func TotalCost(ts []treatments.Treatment) float64 {
	var total float64
	for _, t := range ts {
		total += t.Price
	}
	return total
}
