package vets_test

import (
	"context"
	"testing"

	"vet-clinic-backend/internal/access"
	"vet-clinic-backend/internal/adapters/storage/memory"
	"vet-clinic-backend/internal/domain/vets"
	"vet-clinic-backend/internal/platform/apperr"
)

func ptr(v int64) *int64 { return &v }

func staff() access.Principal {
	return access.Principal{UserID: 1, Role: access.RoleVet, VetID: ptr(1)}
}

func validInput() vets.CreateInput {
	return vets.CreateInput{
		Name:          "Carlos",
		Surname:       "Ruiz",
		LicenseNumber: "COL-28-1234",
		Specialty:     "Traumatología",
		Email:         "carlos@clinica.example.com",
	}
}

func TestCreate_Validation(t *testing.T) {
	svc := vets.NewService(memory.NewStore().Vets())

	_, err := svc.Create(context.Background(), staff(), vets.CreateInput{Email: "no-es-email"})
	if !apperr.IsValidation(err) {
		t.Fatalf("expected validation error, got %v", err)
	}
}

func TestCreate_OwnerForbidden(t *testing.T) {
	svc := vets.NewService(memory.NewStore().Vets())

	p := access.Principal{UserID: 2, Role: access.RoleClient, ClientID: ptr(7)}
	if _, err := svc.Create(context.Background(), p, validInput()); !apperr.IsPermissionDenied(err) {
		t.Fatalf("expected permission denied, got %v", err)
	}
}

func TestUpdate_PartialKeepsLicense(t *testing.T) {
	svc := vets.NewService(memory.NewStore().Vets())
	ctx := context.Background()

	v, err := svc.Create(ctx, staff(), validInput())
	if err != nil {
		t.Fatalf("create: %v", err)
	}

	sp := "Cardiología"
	updated, err := svc.Update(ctx, staff(), v.ID, vets.UpdateInput{Specialty: &sp})
	if err != nil {
		t.Fatalf("update: %v", err)
	}
	if updated.Specialty != sp {
		t.Fatalf("specialty not updated: %q", updated.Specialty)
	}
	if updated.LicenseNumber != v.LicenseNumber || updated.Name != v.Name {
		t.Fatalf("untouched fields changed: %+v", updated)
	}
}

func TestListSpecialties_Distinct(t *testing.T) {
	svc := vets.NewService(memory.NewStore().Vets())
	ctx := context.Background()

	for _, in := range []vets.CreateInput{
		{Name: "Carlos", Surname: "Ruiz", LicenseNumber: "COL-001", Specialty: "Traumatología", Email: "c@x.com"},
		{Name: "Ana", Surname: "Mora", LicenseNumber: "COL-002", Specialty: "Cardiología", Email: "a@x.com"},
		{Name: "Luis", Surname: "Vega", LicenseNumber: "COL-003", Specialty: "Traumatología", Email: "l@x.com"},
		{Name: "Eva", Surname: "Sanz", LicenseNumber: "COL-004", Email: "e@x.com"},
	} {
		if _, err := svc.Create(ctx, staff(), in); err != nil {
			t.Fatalf("create %s: %v", in.Name, err)
		}
	}

	got, err := svc.ListSpecialties(ctx)
	if err != nil {
		t.Fatalf("list specialties: %v", err)
	}
	want := []string{"Cardiología", "Traumatología"}
	if len(got) != len(want) {
		t.Fatalf("expected %v, got %v", want, got)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("expected %v, got %v", want, got)
		}
	}
}

func TestDelete_OwnerForbidden(t *testing.T) {
	svc := vets.NewService(memory.NewStore().Vets())
	ctx := context.Background()

	v, err := svc.Create(ctx, staff(), validInput())
	if err != nil {
		t.Fatalf("create: %v", err)
	}

	own := access.Principal{UserID: 2, Role: access.RoleClient, ClientID: ptr(7)}
	if err := svc.Delete(ctx, own, v.ID); !apperr.IsPermissionDenied(err) {
		t.Fatalf("expected permission denied for owner, got %v", err)
	}
	if err := svc.Delete(ctx, staff(), v.ID); err != nil {
		t.Fatalf("staff delete: %v", err)
	}
	if err := svc.Exists(ctx, v.ID); !apperr.IsNotFound(err) {
		t.Fatalf("expected not found after delete, got %v", err)
	}
}
