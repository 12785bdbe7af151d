package memory_test

import (
	"context"
	"testing"
	"time"

	"vet-clinic-backend/internal/access"
	"vet-clinic-backend/internal/adapters/storage/memory"
	"vet-clinic-backend/internal/domain/accounts"
	"vet-clinic-backend/internal/domain/appointments"
	"vet-clinic-backend/internal/domain/clients"
	"vet-clinic-backend/internal/domain/pets"
	"vet-clinic-backend/internal/domain/treatments"
	"vet-clinic-backend/internal/domain/vets"
	"vet-clinic-backend/internal/platform/apperr"
)

// seed arma la cadena completa cliente → mascota → cita → tratamiento.
func seed(t *testing.T, s *memory.Store) (clients.Client, pets.Pet, appointments.Appointment, treatments.Treatment) {
	t.Helper()
	ctx := context.Background()

	c, err := s.Clients().Create(ctx, clients.Client{Name: "Laura", Surname: "García", DNI: "12345678Z"})
	if err != nil {
		t.Fatalf("seed client: %v", err)
	}
	p, err := s.Pets().Create(ctx, pets.Pet{ClientID: c.ID, Name: "Luna", Species: "Perro", Weight: 12})
	if err != nil {
		t.Fatalf("seed pet: %v", err)
	}
	a, err := s.Appointments().Create(ctx, appointments.Appointment{
		PetID:    p.ID,
		DateTime: time.Date(2026, 3, 10, 9, 0, 0, 0, time.UTC),
		Reason:   "Vacunación",
		Status:   "Pendiente",
	})
	if err != nil {
		t.Fatalf("seed appointment: %v", err)
	}
	tr, err := s.Treatments().Create(ctx, treatments.Treatment{
		AppointmentID: a.ID,
		Description:   "Vacuna polivalente",
		Price:         35,
	})
	if err != nil {
		t.Fatalf("seed treatment: %v", err)
	}
	return c, p, a, tr
}

func TestClientDelete_CascadesToTreatments(t *testing.T) {
	s := memory.NewStore()
	ctx := context.Background()
	c, p, a, tr := seed(t, s)

	if err := s.Clients().Delete(ctx, c.ID); err != nil {
		t.Fatalf("delete client: %v", err)
	}

	if _, err := s.Pets().GetByID(ctx, p.ID); !apperr.IsNotFound(err) {
		t.Fatalf("pet should be gone, got %v", err)
	}
	if _, err := s.Appointments().GetByID(ctx, a.ID); !apperr.IsNotFound(err) {
		t.Fatalf("appointment should be gone, got %v", err)
	}
	if _, err := s.Treatments().GetByID(ctx, tr.ID); !apperr.IsNotFound(err) {
		t.Fatalf("treatment should be gone, got %v", err)
	}
}

func TestClientDelete_ConflictWhenAccountLinked(t *testing.T) {
	s := memory.NewStore()
	ctx := context.Background()
	c, _, _, _ := seed(t, s)

	if _, err := s.Users().Create(ctx, accounts.User{
		Email: "laura@example.com", PasswordHash: "x", Role: access.RoleClient, ClientID: &c.ID,
	}); err != nil {
		t.Fatalf("create user: %v", err)
	}

	if err := s.Clients().Delete(ctx, c.ID); !apperr.IsConflict(err) {
		t.Fatalf("expected conflict for linked account, got %v", err)
	}
	if _, err := s.Clients().GetByID(ctx, c.ID); err != nil {
		t.Fatalf("client must survive the failed delete: %v", err)
	}
}

func TestVetDelete_UnassignsAppointments(t *testing.T) {
	s := memory.NewStore()
	ctx := context.Background()
	_, p, _, _ := seed(t, s)

	v, err := s.Vets().Create(ctx, vets.Vet{Name: "Carlos", Surname: "Ruiz", LicenseNumber: "COL-001"})
	if err != nil {
		t.Fatalf("create vet: %v", err)
	}
	a, err := s.Appointments().Create(ctx, appointments.Appointment{
		PetID:    p.ID,
		VetID:    &v.ID,
		DateTime: time.Date(2026, 4, 1, 10, 0, 0, 0, time.UTC),
		Reason:   "Revisión",
	})
	if err != nil {
		t.Fatalf("create appointment: %v", err)
	}

	if err := s.Vets().Delete(ctx, v.ID); err != nil {
		t.Fatalf("delete vet: %v", err)
	}

	got, err := s.Appointments().GetByID(ctx, a.ID)
	if err != nil {
		t.Fatalf("appointment must survive vet removal: %v", err)
	}
	if got.VetID != nil {
		t.Fatalf("expected vet reference cleared, got %v", *got.VetID)
	}
}

func TestVetCreate_DuplicateLicense(t *testing.T) {
	s := memory.NewStore()
	ctx := context.Background()

	if _, err := s.Vets().Create(ctx, vets.Vet{Name: "Carlos", LicenseNumber: "COL-001"}); err != nil {
		t.Fatalf("first create: %v", err)
	}
	if _, err := s.Vets().Create(ctx, vets.Vet{Name: "Ana", LicenseNumber: "COL-001"}); !apperr.IsConflict(err) {
		t.Fatalf("expected conflict for duplicate license, got %v", err)
	}
}

func TestPetDelete_CascadesAppointments(t *testing.T) {
	s := memory.NewStore()
	ctx := context.Background()
	_, p, a, tr := seed(t, s)

	if err := s.Pets().Delete(ctx, p.ID); err != nil {
		t.Fatalf("delete pet: %v", err)
	}
	if _, err := s.Appointments().GetByID(ctx, a.ID); !apperr.IsNotFound(err) {
		t.Fatalf("appointment should be gone, got %v", err)
	}
	if _, err := s.Treatments().GetByID(ctx, tr.ID); !apperr.IsNotFound(err) {
		t.Fatalf("treatment should be gone, got %v", err)
	}
}

func TestAppointmentListByPet_MostRecentFirst(t *testing.T) {
	s := memory.NewStore()
	ctx := context.Background()
	_, p, first, _ := seed(t, s)

	later, err := s.Appointments().Create(ctx, appointments.Appointment{
		PetID:    p.ID,
		DateTime: first.DateTime.Add(48 * time.Hour),
		Reason:   "Control",
	})
	if err != nil {
		t.Fatalf("create later appointment: %v", err)
	}

	items, err := s.Appointments().ListByPet(ctx, p.ID)
	if err != nil {
		t.Fatalf("list by pet: %v", err)
	}
	if len(items) != 2 || items[0].ID != later.ID || items[1].ID != first.ID {
		t.Fatalf("expected most recent first, got %+v", items)
	}
}

func TestUserCreate_DuplicateEmail(t *testing.T) {
	s := memory.NewStore()
	ctx := context.Background()

	u := accounts.User{Email: "x@example.com", PasswordHash: "h", Role: access.RoleVet}
	if _, err := s.Users().Create(ctx, u); err != nil {
		t.Fatalf("first create: %v", err)
	}
	if _, err := s.Users().Create(ctx, u); !apperr.IsConflict(err) {
		t.Fatalf("expected conflict for duplicate email, got %v", err)
	}
}
