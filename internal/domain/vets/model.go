package vets

// Vet representa a un miembro del equipo médico de la clínica.
type Vet struct {
	ID      int64
	Name    string
	Surname string

	// LicenseNumber (número de colegiado) es único a nivel de sistema.
	LicenseNumber string

	Specialty string
	Email     string
}
