package auth

// Claims representa la información extraída (o embebida) en el token.
// ClientID/VetID viajan en el token para no consultar el usuario en cada request.
type Claims struct {
	UserID   int64
	Email    string
	Role     string // VETERINARIO | CLIENTE
	ClientID *int64
	VetID    *int64
}
