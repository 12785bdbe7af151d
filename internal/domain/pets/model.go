package pets

import "time"

// Pet representa al paciente (animal) de la clínica.
type Pet struct {
	ID       int64
	ClientID int64 // propietario, obligatorio

	Name    string
	Species string
	Breed   string

	BirthDate *time.Time // nunca futura
	Weight    float64    // kg, > 0

	// PhotoFile es el identificador del blob en el almacén de imágenes.
	PhotoFile string
}
