package access

import (
	"testing"

	"vet-clinic-backend/internal/platform/apperr"
	"vet-clinic-backend/internal/ports/auth"
)

func ptr(v int64) *int64 { return &v }

func staff() Principal {
	return Principal{UserID: 1, Role: RoleVet, VetID: ptr(10)}
}

func owner(clientID int64) Principal {
	return Principal{UserID: 2, Role: RoleClient, ClientID: ptr(clientID)}
}

func TestRequireStaff(t *testing.T) {
	if err := RequireStaff(staff()); err != nil {
		t.Fatalf("staff should pass: %v", err)
	}
	err := RequireStaff(owner(7))
	if !apperr.IsPermissionDenied(err) {
		t.Fatalf("expected permission denied for owner, got %v", err)
	}
}

func TestCanReadClient_OwnerOnlySelf(t *testing.T) {
	if err := CanReadClient(staff(), 7); err != nil {
		t.Fatalf("staff should read any client: %v", err)
	}
	if err := CanReadClient(owner(7), 7); err != nil {
		t.Fatalf("owner should read own record: %v", err)
	}
	// Contrato: ficha ajena => 403, no 404.
	err := CanReadClient(owner(7), 9)
	if !apperr.IsPermissionDenied(err) {
		t.Fatalf("expected permission denied for foreign record, got %v", err)
	}
}

func TestCanReadOwned(t *testing.T) {
	if err := CanReadOwned(owner(7), 7); err != nil {
		t.Fatalf("owner should read own resource: %v", err)
	}
	if err := CanReadOwned(owner(7), 9); !apperr.IsPermissionDenied(err) {
		t.Fatalf("expected permission denied, got %v", err)
	}
	if err := CanReadOwned(staff(), 9); err != nil {
		t.Fatalf("staff should read anything: %v", err)
	}
}

func TestScopeToClient(t *testing.T) {
	if _, scoped := ScopeToClient(staff()); scoped {
		t.Fatalf("staff must not be scoped")
	}
	id, scoped := ScopeToClient(owner(7))
	if !scoped || id != 7 {
		t.Fatalf("expected scope to client 7, got %d scoped=%v", id, scoped)
	}
	// Cuenta CLIENTE sin ficha vinculada: alcance vacío, nunca listado global.
	unlinked := Principal{UserID: 3, Role: RoleClient}
	id, scoped = ScopeToClient(unlinked)
	if !scoped || id != -1 {
		t.Fatalf("expected empty scope for unlinked owner, got %d scoped=%v", id, scoped)
	}
}

func TestFromClaims_RejectsUnknownRole(t *testing.T) {
	if _, err := FromClaims(auth.Claims{UserID: 1, Role: "ADMIN"}); !apperr.IsUnauthorized(err) {
		t.Fatalf("expected unauthorized for unknown role, got %v", err)
	}
	p, err := FromClaims(auth.Claims{UserID: 1, Role: "VETERINARIO"})
	if err != nil || !p.IsStaff() {
		t.Fatalf("expected staff principal, got %+v err=%v", p, err)
	}
}
