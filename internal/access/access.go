// Package access evalúa qué puede leer o escribir un principal autenticado.
//
// Reglas:
//   - VETERINARIO (staff): lectura sin restricción y escritura completa.
//   - CLIENTE (propietario): solo lee su ficha de cliente y los recursos cuya
//     cadena de propiedad (mascota → cliente, cita → mascota → cliente,
//     tratamiento → cita → mascota → cliente) termina en su cliente vinculado.
//
// Las funciones operan sobre ids de cliente ya resueltos; resolver la cadena
// es responsabilidad del servicio que posee los repositorios.
package access

import (
	"vet-clinic-backend/internal/platform/apperr"
	"vet-clinic-backend/internal/ports/auth"
)

type Role string

const (
	RoleVet    Role = "VETERINARIO"
	RoleClient Role = "CLIENTE"
)

func ParseRole(s string) (Role, bool) {
	switch Role(s) {
	case RoleVet:
		return RoleVet, true
	case RoleClient:
		return RoleClient, true
	}
	return "", false
}

// Principal es la identidad autenticada sobre la que se evalúa el acceso.
type Principal struct {
	UserID   int64
	Email    string
	Role     Role
	ClientID *int64
	VetID    *int64
}

func FromClaims(c auth.Claims) (Principal, error) {
	role, ok := ParseRole(c.Role)
	if !ok {
		return Principal{}, apperr.Unauthorized("unknown role in token")
	}
	return Principal{
		UserID:   c.UserID,
		Email:    c.Email,
		Role:     role,
		ClientID: c.ClientID,
		VetID:    c.VetID,
	}, nil
}

func (p Principal) IsStaff() bool { return p.Role == RoleVet }

// RequireStaff protege las operaciones de escritura (solo personal clínico).
func RequireStaff(p Principal) error {
	if p.IsStaff() {
		return nil
	}
	return apperr.PermissionDenied("operation restricted to clinic staff")
}

// CanReadClient decide el acceso a una ficha de cliente concreta.
// Contrato explícito: para un propietario, cualquier id distinto del suyo
// devuelve PermissionDenied (no NotFound), aunque eso revele existencia.
func CanReadClient(p Principal, clientID int64) error {
	if p.IsStaff() {
		return nil
	}
	if p.ClientID != nil && *p.ClientID == clientID {
		return nil
	}
	return apperr.PermissionDenied("you may only access your own client record")
}

// CanReadOwned decide el acceso a un recurso cuya cadena de propiedad ya fue
// resuelta hasta owningClientID (mascotas, citas, tratamientos).
func CanReadOwned(p Principal, owningClientID int64) error {
	if p.IsStaff() {
		return nil
	}
	if p.ClientID != nil && *p.ClientID == owningClientID {
		return nil
	}
	return apperr.PermissionDenied("resource belongs to another client")
}

// ScopeToClient indica si los listados deben limitarse en silencio al cliente
// vinculado del principal (propietarios) en vez de fallar con 403.
func ScopeToClient(p Principal) (int64, bool) {
	if p.IsStaff() {
		return 0, false
	}
	if p.ClientID == nil {
		// Cuenta CLIENTE sin cliente vinculado: alcance vacío.
		return -1, true
	}
	return *p.ClientID, true
}
