package clients

// Client representa al propietario de mascotas registrado en la clínica.
type Client struct {
	ID      int64
	Name    string
	Surname string

	// DNI es único a nivel de sistema (8 dígitos + letra de control).
	DNI string

	Phone   string
	Address string
	Email   string
}
