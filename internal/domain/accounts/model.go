package accounts

import "vet-clinic-backend/internal/access"

// User es la cuenta con credenciales de acceso. Según el rol queda vinculada
// a su ficha de cliente o de veterinario (exactamente una de las dos).
type User struct {
	ID           int64
	Email        string // único
	PasswordHash string
	Role         access.Role
	ClientID     *int64
	VetID        *int64
}
