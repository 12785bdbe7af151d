package pets_test

import (
	"context"
	"strconv"
	"testing"
	"time"

	"vet-clinic-backend/internal/access"
	"vet-clinic-backend/internal/adapters/storage/memory"
	"vet-clinic-backend/internal/domain/clients"
	"vet-clinic-backend/internal/domain/pets"
	"vet-clinic-backend/internal/platform/apperr"
	"vet-clinic-backend/internal/platform/listing"
)

func ptr(v int64) *int64 { return &v }

func staff() access.Principal {
	return access.Principal{UserID: 1, Role: access.RoleVet, VetID: ptr(1)}
}

// fakePhotos simula el almacén de imágenes en memoria.
type fakePhotos struct {
	blobs map[string][]byte
	seq   int
}

func newFakePhotos() *fakePhotos {
	return &fakePhotos{blobs: map[string][]byte{}}
}

func (f *fakePhotos) Save(_ context.Context, data []byte, _ string) (string, error) {
	f.seq++
	name := "photo-" + strconv.Itoa(f.seq) + ".jpg"
	f.blobs[name] = data
	return name, nil
}

func (f *fakePhotos) Load(_ context.Context, name string) ([]byte, string, error) {
	b, ok := f.blobs[name]
	if !ok {
		return nil, "", apperr.NotFoundMsg("image " + name + " not found")
	}
	return b, "image/jpeg", nil
}

func (f *fakePhotos) Delete(_ context.Context, name string) error {
	delete(f.blobs, name)
	return nil
}

func setup(t *testing.T) (*pets.Service, *fakePhotos, clients.Client) {
	t.Helper()
	store := memory.NewStore()
	photos := newFakePhotos()
	clientsSvc := clients.NewService(store.Clients())
	svc := pets.NewService(store.Pets(), clientsSvc, photos)

	c, err := store.Clients().Create(context.Background(), clients.Client{
		Name: "Laura", Surname: "García", DNI: "12345678Z",
	})
	if err != nil {
		t.Fatalf("seed client: %v", err)
	}
	return svc, photos, c
}

func TestCreate_Validation(t *testing.T) {
	svc, _, c := setup(t)

	future := time.Now().Add(48 * time.Hour)
	_, err := svc.Create(context.Background(), staff(), pets.CreateInput{
		ClientID:  c.ID,
		Name:      "L",
		Species:   "",
		BirthDate: &future,
		Weight:    0,
	})
	if !apperr.IsValidation(err) {
		t.Fatalf("expected validation error, got %v", err)
	}
}

func TestCreate_UnknownOwner(t *testing.T) {
	svc, _, _ := setup(t)

	_, err := svc.Create(context.Background(), staff(), pets.CreateInput{
		ClientID: 9999,
		Name:     "Luna",
		Species:  "Perro",
		Weight:   12,
	})
	if !apperr.IsNotFound(err) {
		t.Fatalf("expected not found for unknown owner, got %v", err)
	}
}

func TestUpdate_ClearBirthDate(t *testing.T) {
	svc, _, c := setup(t)
	ctx := context.Background()

	bd := time.Date(2020, 5, 1, 0, 0, 0, 0, time.UTC)
	p, err := svc.Create(ctx, staff(), pets.CreateInput{
		ClientID: c.ID, Name: "Luna", Species: "Perro", BirthDate: &bd, Weight: 12,
	})
	if err != nil {
		t.Fatalf("create: %v", err)
	}

	// Campo ausente: la fecha no se toca.
	p2, err := svc.Update(ctx, staff(), p.ID, pets.UpdateInput{})
	if err != nil {
		t.Fatalf("update #1: %v", err)
	}
	if p2.BirthDate == nil {
		t.Fatalf("birth date must survive an empty patch")
	}

	// Presente con nil: se limpia.
	p3, err := svc.Update(ctx, staff(), p.ID, pets.UpdateInput{
		BirthDate: pets.PatchDate{Present: true, Value: nil},
	})
	if err != nil {
		t.Fatalf("update #2: %v", err)
	}
	if p3.BirthDate != nil {
		t.Fatalf("expected cleared birth date, got %v", p3.BirthDate)
	}
}

func TestList_OwnerScope(t *testing.T) {
	svc, _, c := setup(t)
	ctx := context.Background()

	if _, err := svc.Create(ctx, staff(), pets.CreateInput{
		ClientID: c.ID, Name: "Luna", Species: "Perro", Weight: 12,
	}); err != nil {
		t.Fatalf("create: %v", err)
	}

	own := access.Principal{UserID: 2, Role: access.RoleClient, ClientID: ptr(c.ID)}
	page, err := svc.List(ctx, own, listing.Query{})
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(page.Items) != 1 {
		t.Fatalf("owner should see 1 pet, got %d", len(page.Items))
	}

	other := access.Principal{UserID: 3, Role: access.RoleClient, ClientID: ptr(c.ID + 100)}
	page, err = svc.List(ctx, other, listing.Query{})
	if err != nil {
		t.Fatalf("list other: %v", err)
	}
	if len(page.Items) != 0 {
		t.Fatalf("foreign owner should see nothing, got %d", len(page.Items))
	}
}

func TestAttachPhoto_ReplacesOldBlob(t *testing.T) {
	svc, photos, c := setup(t)
	ctx := context.Background()

	p, err := svc.Create(ctx, staff(), pets.CreateInput{
		ClientID: c.ID, Name: "Luna", Species: "Perro", Weight: 12,
	})
	if err != nil {
		t.Fatalf("create: %v", err)
	}

	p1, err := svc.AttachPhoto(ctx, staff(), p.ID, []byte("first"), "image/jpeg")
	if err != nil {
		t.Fatalf("attach #1: %v", err)
	}
	p2, err := svc.AttachPhoto(ctx, staff(), p.ID, []byte("second"), "image/jpeg")
	if err != nil {
		t.Fatalf("attach #2: %v", err)
	}
	if p2.PhotoFile == p1.PhotoFile {
		t.Fatalf("expected a new photo file name")
	}
	if _, ok := photos.blobs[p1.PhotoFile]; ok {
		t.Fatalf("old blob must be deleted after replacement")
	}
	if _, ok := photos.blobs[p2.PhotoFile]; !ok {
		t.Fatalf("new blob missing")
	}
}

func TestDelete_RemovesPhoto(t *testing.T) {
	svc, photos, c := setup(t)
	ctx := context.Background()

	p, err := svc.Create(ctx, staff(), pets.CreateInput{
		ClientID: c.ID, Name: "Luna", Species: "Perro", Weight: 12,
	})
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	p, err = svc.AttachPhoto(ctx, staff(), p.ID, []byte("img"), "image/jpeg")
	if err != nil {
		t.Fatalf("attach: %v", err)
	}

	if err := svc.Delete(ctx, staff(), p.ID); err != nil {
		t.Fatalf("delete: %v", err)
	}
	if len(photos.blobs) != 0 {
		t.Fatalf("expected photo blob removed with the pet")
	}
}
