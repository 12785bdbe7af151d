package clients_test

import (
	"context"
	"errors"
	"testing"

	"vet-clinic-backend/internal/access"
	"vet-clinic-backend/internal/adapters/storage/memory"
	"vet-clinic-backend/internal/domain/clients"
	"vet-clinic-backend/internal/platform/apperr"
	"vet-clinic-backend/internal/platform/listing"
)

func ptr(v int64) *int64 { return &v }

func staff() access.Principal {
	return access.Principal{UserID: 1, Role: access.RoleVet, VetID: ptr(1)}
}

func validInput() clients.CreateInput {
	return clients.CreateInput{
		Name:    "Laura",
		Surname: "García",
		DNI:     "12345678Z",
		Phone:   "+34 612345678",
		Address: "Calle Mayor 1",
		Email:   "laura@example.com",
	}
}

func TestCreate_Validation(t *testing.T) {
	svc := clients.NewService(memory.NewStore().Clients())

	in := validInput()
	in.Name = "L"
	in.DNI = "1234"
	in.Phone = "+33 612345678"

	_, err := svc.Create(context.Background(), staff(), in)
	if !apperr.IsValidation(err) {
		t.Fatalf("expected validation error, got %v", err)
	}
	var e *apperr.Error
	if !errors.As(err, &e) {
		t.Fatalf("expected *apperr.Error, got %T", err)
	}
	for _, field := range []string{"name", "dni", "phone"} {
		if _, ok := e.Fields[field]; !ok {
			t.Fatalf("expected field error for %q, got %v", field, e.Fields)
		}
	}
}

func TestCreate_DuplicateDNI(t *testing.T) {
	svc := clients.NewService(memory.NewStore().Clients())

	if _, err := svc.Create(context.Background(), staff(), validInput()); err != nil {
		t.Fatalf("first create: %v", err)
	}

	in := validInput()
	in.Email = "otra@example.com"
	_, err := svc.Create(context.Background(), staff(), in)
	if !apperr.IsConflict(err) {
		t.Fatalf("expected conflict for duplicate dni, got %v", err)
	}
}

func TestCreate_OwnerForbidden(t *testing.T) {
	svc := clients.NewService(memory.NewStore().Clients())

	p := access.Principal{UserID: 2, Role: access.RoleClient, ClientID: ptr(7)}
	_, err := svc.Create(context.Background(), p, validInput())
	if !apperr.IsPermissionDenied(err) {
		t.Fatalf("expected permission denied for owner, got %v", err)
	}
}

func TestGet_OwnerScope(t *testing.T) {
	svc := clients.NewService(memory.NewStore().Clients())

	c, err := svc.Create(context.Background(), staff(), validInput())
	if err != nil {
		t.Fatalf("create: %v", err)
	}

	own := access.Principal{UserID: 2, Role: access.RoleClient, ClientID: ptr(c.ID)}
	if _, err := svc.Get(context.Background(), own, c.ID); err != nil {
		t.Fatalf("owner should read own record: %v", err)
	}

	other := access.Principal{UserID: 3, Role: access.RoleClient, ClientID: ptr(c.ID + 100)}
	if _, err := svc.Get(context.Background(), other, c.ID); !apperr.IsPermissionDenied(err) {
		t.Fatalf("expected 403 for foreign record, got %v", err)
	}
}

func TestList_OwnerSeesOnlySelf(t *testing.T) {
	repo := memory.NewStore().Clients()
	svc := clients.NewService(repo)

	c1, err := svc.Create(context.Background(), staff(), validInput())
	if err != nil {
		t.Fatalf("create #1: %v", err)
	}
	in2 := validInput()
	in2.DNI = "87654321X"
	if _, err := svc.Create(context.Background(), staff(), in2); err != nil {
		t.Fatalf("create #2: %v", err)
	}

	own := access.Principal{UserID: 2, Role: access.RoleClient, ClientID: ptr(c1.ID)}
	page, err := svc.List(context.Background(), own, listing.Query{})
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(page.Items) != 1 || page.Items[0].ID != c1.ID {
		t.Fatalf("owner must see exactly their record, got %+v", page.Items)
	}

	page, err = svc.List(context.Background(), staff(), listing.Query{})
	if err != nil {
		t.Fatalf("staff list: %v", err)
	}
	if page.Total != 2 {
		t.Fatalf("staff should see 2 clients, got %d", page.Total)
	}
}

func TestUpdate_PartialKeepsDNI(t *testing.T) {
	svc := clients.NewService(memory.NewStore().Clients())

	c, err := svc.Create(context.Background(), staff(), validInput())
	if err != nil {
		t.Fatalf("create: %v", err)
	}

	newAddr := "Avenida del Puerto 22"
	updated, err := svc.Update(context.Background(), staff(), c.ID, clients.UpdateInput{Address: &newAddr})
	if err != nil {
		t.Fatalf("update: %v", err)
	}
	if updated.Address != newAddr {
		t.Fatalf("address not updated: %q", updated.Address)
	}
	if updated.DNI != c.DNI || updated.Name != c.Name {
		t.Fatalf("untouched fields changed: %+v", updated)
	}
}
