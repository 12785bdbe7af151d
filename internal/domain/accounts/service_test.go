package accounts_test

import (
	"context"
	"testing"

	"vet-clinic-backend/internal/access"
	"vet-clinic-backend/internal/adapters/storage/memory"
	"vet-clinic-backend/internal/domain/accounts"
	"vet-clinic-backend/internal/domain/clients"
	"vet-clinic-backend/internal/domain/vets"
	"vet-clinic-backend/internal/platform/apperr"
	"vet-clinic-backend/internal/ports/auth"
)

// fakeIssuer evita depender de claves RSA en los tests de cuentas.
type fakeIssuer struct{ last auth.Claims }

func (f *fakeIssuer) Issue(c auth.Claims) (string, error) {
	f.last = c
	return "token-" + c.Email, nil
}

func setup(t *testing.T) (*accounts.Service, *memory.Store, *fakeIssuer) {
	t.Helper()
	store := memory.NewStore()
	issuer := &fakeIssuer{}
	svc := accounts.NewService(
		store.Users(),
		clients.NewService(store.Clients()),
		vets.NewService(store.Vets()),
		issuer,
	)
	return svc, store, issuer
}

func clientInput() accounts.RegisterInput {
	return accounts.RegisterInput{
		Email:    "laura@example.com",
		Password: "supersecreta",
		Role:     "CLIENTE",
		Name:     "Laura",
		Surname:  "García",
		DNI:      "12345678Z",
		Phone:    "+34 612345678",
		Address:  "Calle Mayor 1",
	}
}

func TestRegister_ClientCreatesLinkedRecord(t *testing.T) {
	svc, store, issuer := setup(t)
	ctx := context.Background()

	res, err := svc.Register(ctx, clientInput())
	if err != nil {
		t.Fatalf("register: %v", err)
	}
	if res.Token == "" || res.Role != access.RoleClient {
		t.Fatalf("unexpected result: %+v", res)
	}
	if issuer.last.ClientID == nil {
		t.Fatalf("token claims must carry the linked client id")
	}
	if _, err := store.Clients().GetByID(ctx, *issuer.last.ClientID); err != nil {
		t.Fatalf("linked client record missing: %v", err)
	}
}

func TestRegister_VetCreatesLinkedRecord(t *testing.T) {
	svc, store, issuer := setup(t)
	ctx := context.Background()

	res, err := svc.Register(ctx, accounts.RegisterInput{
		Email:         "carlos@clinica.example.com",
		Password:      "supersecreta",
		Role:          "VETERINARIO",
		Name:          "Carlos",
		Surname:       "Ruiz",
		LicenseNumber: "COL-001",
		Specialty:     "Traumatología",
	})
	if err != nil {
		t.Fatalf("register: %v", err)
	}
	if res.Role != access.RoleVet {
		t.Fatalf("unexpected role: %v", res.Role)
	}
	if issuer.last.VetID == nil {
		t.Fatalf("token claims must carry the linked vet id")
	}
	if _, err := store.Vets().GetByID(ctx, *issuer.last.VetID); err != nil {
		t.Fatalf("linked vet record missing: %v", err)
	}
}

func TestRegister_Validation(t *testing.T) {
	svc, _, _ := setup(t)

	in := clientInput()
	in.Email = "no-es-email"
	in.Password = "corta"
	in.Role = "ADMIN"

	_, err := svc.Register(context.Background(), in)
	if !apperr.IsValidation(err) {
		t.Fatalf("expected validation error, got %v", err)
	}
}

func TestRegister_DuplicateEmail(t *testing.T) {
	svc, _, _ := setup(t)
	ctx := context.Background()

	if _, err := svc.Register(ctx, clientInput()); err != nil {
		t.Fatalf("first register: %v", err)
	}

	in := clientInput()
	in.DNI = "87654321X"
	if _, err := svc.Register(ctx, in); !apperr.IsConflict(err) {
		t.Fatalf("expected conflict for duplicate email, got %v", err)
	}
}

func TestLogin_WrongPassword(t *testing.T) {
	svc, _, _ := setup(t)
	ctx := context.Background()

	if _, err := svc.Register(ctx, clientInput()); err != nil {
		t.Fatalf("register: %v", err)
	}

	// Misma respuesta para cuenta inexistente y contraseña errónea.
	if _, err := svc.Login(ctx, "laura@example.com", "incorrecta"); !apperr.IsUnauthorized(err) {
		t.Fatalf("expected unauthorized, got %v", err)
	}
	if _, err := svc.Login(ctx, "nadie@example.com", "supersecreta"); !apperr.IsUnauthorized(err) {
		t.Fatalf("expected unauthorized for unknown account, got %v", err)
	}
}

func TestLogin_OK(t *testing.T) {
	svc, _, _ := setup(t)
	ctx := context.Background()

	if _, err := svc.Register(ctx, clientInput()); err != nil {
		t.Fatalf("register: %v", err)
	}

	res, err := svc.Login(ctx, "Laura@Example.com", "supersecreta")
	if err != nil {
		t.Fatalf("login: %v", err)
	}
	if res.Token == "" || res.Email != "laura@example.com" {
		t.Fatalf("unexpected result: %+v", res)
	}
}
