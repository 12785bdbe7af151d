package treatments

// Treatment es la línea de servicio o fármaco aplicado en una cita.
// No puede existir sin su cita padre.
type Treatment struct {
	ID            int64
	AppointmentID int64

	Description  string
	Medication   string
	Price        float64 // >= 0
	Observations string
}
