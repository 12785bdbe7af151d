package treatments_test

import (
	"context"
	"testing"
	"time"

	"vet-clinic-backend/internal/access"
	"vet-clinic-backend/internal/adapters/storage/memory"
	"vet-clinic-backend/internal/domain/appointments"
	"vet-clinic-backend/internal/domain/clients"
	"vet-clinic-backend/internal/domain/pets"
	"vet-clinic-backend/internal/domain/treatments"
	"vet-clinic-backend/internal/domain/vets"
	"vet-clinic-backend/internal/platform/apperr"
)

func ptr(v int64) *int64 { return &v }

func staff() access.Principal {
	return access.Principal{UserID: 1, Role: access.RoleVet, VetID: ptr(1)}
}

func setup(t *testing.T) (*treatments.Service, appointments.Appointment, clients.Client) {
	t.Helper()
	ctx := context.Background()
	store := memory.NewStore()

	clientsSvc := clients.NewService(store.Clients())
	vetsSvc := vets.NewService(store.Vets())
	petsSvc := pets.NewService(store.Pets(), clientsSvc, nil)
	apptsSvc := appointments.NewService(store.Appointments(), petsSvc, vetsSvc, store.Treatments())
	trSvc := treatments.NewService(store.Treatments(), apptsSvc)

	c, err := store.Clients().Create(ctx, clients.Client{Name: "Laura", Surname: "García", DNI: "12345678Z"})
	if err != nil {
		t.Fatalf("seed client: %v", err)
	}
	p, err := store.Pets().Create(ctx, pets.Pet{ClientID: c.ID, Name: "Luna", Species: "Perro", Weight: 12})
	if err != nil {
		t.Fatalf("seed pet: %v", err)
	}
	a, err := store.Appointments().Create(ctx, appointments.Appointment{
		PetID:    p.ID,
		DateTime: time.Date(2026, 3, 10, 9, 0, 0, 0, time.UTC),
		Reason:   "Vacunación",
	})
	if err != nil {
		t.Fatalf("seed appointment: %v", err)
	}
	return trSvc, a, c
}

func priceOf(v float64) *float64 { return &v }

func TestCreate_PriceRules(t *testing.T) {
	svc, a, _ := setup(t)
	ctx := context.Background()

	// precio ausente: inválido
	_, err := svc.Create(ctx, staff(), treatments.CreateInput{
		AppointmentID: a.ID,
		Description:   "Vacuna",
	})
	if !apperr.IsValidation(err) {
		t.Fatalf("expected validation error for missing price, got %v", err)
	}

	// precio negativo: inválido
	_, err = svc.Create(ctx, staff(), treatments.CreateInput{
		AppointmentID: a.ID,
		Description:   "Vacuna",
		Price:         priceOf(-1),
	})
	if !apperr.IsValidation(err) {
		t.Fatalf("expected validation error for negative price, got %v", err)
	}

	// precio cero: válido (servicio gratuito)
	tr, err := svc.Create(ctx, staff(), treatments.CreateInput{
		AppointmentID: a.ID,
		Description:   "Revisión de cortesía",
		Price:         priceOf(0),
	})
	if err != nil {
		t.Fatalf("price 0 must be accepted: %v", err)
	}
	if tr.Price != 0 {
		t.Fatalf("expected price 0, got %v", tr.Price)
	}
}

func TestCreate_UnknownAppointment(t *testing.T) {
	svc, _, _ := setup(t)

	_, err := svc.Create(context.Background(), staff(), treatments.CreateInput{
		AppointmentID: 9999,
		Description:   "Vacuna",
		Price:         priceOf(10),
	})
	if !apperr.IsNotFound(err) {
		t.Fatalf("expected not found for unknown appointment, got %v", err)
	}
}

func TestGet_OwnerChain(t *testing.T) {
	svc, a, c := setup(t)
	ctx := context.Background()

	tr, err := svc.Create(ctx, staff(), treatments.CreateInput{
		AppointmentID: a.ID,
		Description:   "Vacuna",
		Price:         priceOf(35),
	})
	if err != nil {
		t.Fatalf("create: %v", err)
	}

	own := access.Principal{UserID: 2, Role: access.RoleClient, ClientID: ptr(c.ID)}
	if _, err := svc.Get(ctx, own, tr.ID); err != nil {
		t.Fatalf("owner should read own treatment: %v", err)
	}

	other := access.Principal{UserID: 3, Role: access.RoleClient, ClientID: ptr(c.ID + 100)}
	if _, err := svc.Get(ctx, other, tr.ID); !apperr.IsPermissionDenied(err) {
		t.Fatalf("expected 403 for foreign treatment, got %v", err)
	}
}

func TestUpdate_Partial(t *testing.T) {
	svc, a, _ := setup(t)
	ctx := context.Background()

	tr, err := svc.Create(ctx, staff(), treatments.CreateInput{
		AppointmentID: a.ID,
		Description:   "Vacuna",
		Medication:    "Polivalente",
		Price:         priceOf(35),
	})
	if err != nil {
		t.Fatalf("create: %v", err)
	}

	updated, err := svc.Update(ctx, staff(), tr.ID, treatments.UpdateInput{Price: priceOf(40)})
	if err != nil {
		t.Fatalf("update: %v", err)
	}
	if updated.Price != 40 {
		t.Fatalf("expected price 40, got %v", updated.Price)
	}
	if updated.Description != tr.Description || updated.Medication != tr.Medication {
		t.Fatalf("untouched fields changed: %+v", updated)
	}
}

func TestDelete_OwnerForbidden(t *testing.T) {
	svc, a, c := setup(t)
	ctx := context.Background()

	tr, err := svc.Create(ctx, staff(), treatments.CreateInput{
		AppointmentID: a.ID,
		Description:   "Vacuna",
		Price:         priceOf(35),
	})
	if err != nil {
		t.Fatalf("create: %v", err)
	}

	own := access.Principal{UserID: 2, Role: access.RoleClient, ClientID: ptr(c.ID)}
	if err := svc.Delete(ctx, own, tr.ID); !apperr.IsPermissionDenied(err) {
		t.Fatalf("expected 403 for owner delete, got %v", err)
	}
	if err := svc.Delete(ctx, staff(), tr.ID); err != nil {
		t.Fatalf("staff delete: %v", err)
	}
}
