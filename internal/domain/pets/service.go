package pets

import (
	"context"
	"strings"
	"time"

	"vet-clinic-backend/internal/access"
	"vet-clinic-backend/internal/platform/apperr"
	"vet-clinic-backend/internal/platform/listing"
	"vet-clinic-backend/internal/ports/media"
)

// ClientDirectory resuelve existencia de clientes sin acoplar los repos.
type ClientDirectory interface {
	OwnerExists(ctx context.Context, clientID int64) error
}

type Service struct {
	repo    Repository
	clients ClientDirectory
	photos  media.Store
	now     func() time.Time
}

func NewService(repo Repository, clients ClientDirectory, photos media.Store) *Service {
	return &Service{
		repo:    repo,
		clients: clients,
		photos:  photos,
		now:     time.Now,
	}
}

type CreateInput struct {
	ClientID  int64
	Name      string
	Species   string
	Breed     string
	BirthDate *time.Time
	Weight    float64
}

func (s *Service) validateCreate(in CreateInput) map[string]string {
	errs := map[string]string{}
	if n := strings.TrimSpace(in.Name); len(n) < 2 || len(n) > 50 {
		errs["name"] = "name must be between 2 and 50 characters"
	}
	if strings.TrimSpace(in.Species) == "" {
		errs["species"] = "species is required"
	}
	if in.BirthDate != nil && in.BirthDate.After(s.now()) {
		errs["birth_date"] = "birth date cannot be in the future"
	}
	if in.Weight <= 0 {
		errs["weight"] = "weight must be positive"
	}
	if in.ClientID <= 0 {
		errs["client_id"] = "client_id is required"
	}
	return errs
}

func (s *Service) Create(ctx context.Context, p access.Principal, in CreateInput) (Pet, error) {
	if err := access.RequireStaff(p); err != nil {
		return Pet{}, err
	}
	if errs := s.validateCreate(in); len(errs) > 0 {
		return Pet{}, apperr.Validation(errs)
	}
	if err := s.clients.OwnerExists(ctx, in.ClientID); err != nil {
		return Pet{}, err
	}
	return s.repo.Create(ctx, Pet{
		ClientID:  in.ClientID,
		Name:      strings.TrimSpace(in.Name),
		Species:   strings.TrimSpace(in.Species),
		Breed:     strings.TrimSpace(in.Breed),
		BirthDate: in.BirthDate,
		Weight:    in.Weight,
	})
}

// PatchDate diferencia "campo ausente" de "poner a null":
// Present=false no toca; Present=true con Value=nil limpia la fecha.
type PatchDate struct {
	Present bool
	Value   *time.Time
}

type UpdateInput struct {
	// Punteros para PATCH real: nil = no tocar.
	Name      *string
	Species   *string
	Breed     *string
	BirthDate PatchDate
	Weight    *float64
	ClientID  *int64
}

func (s *Service) Update(ctx context.Context, p access.Principal, id int64, in UpdateInput) (Pet, error) {
	if err := access.RequireStaff(p); err != nil {
		return Pet{}, err
	}

	pet, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return Pet{}, err
	}

	errs := map[string]string{}
	if in.Name != nil {
		if v := strings.TrimSpace(*in.Name); len(v) < 2 || len(v) > 50 {
			errs["name"] = "name must be between 2 and 50 characters"
		} else {
			pet.Name = v
		}
	}
	if in.Species != nil {
		if v := strings.TrimSpace(*in.Species); v == "" {
			errs["species"] = "species is required"
		} else {
			pet.Species = v
		}
	}
	if in.Breed != nil {
		pet.Breed = strings.TrimSpace(*in.Breed)
	}
	if in.BirthDate.Present {
		if in.BirthDate.Value != nil && in.BirthDate.Value.After(s.now()) {
			errs["birth_date"] = "birth date cannot be in the future"
		} else {
			pet.BirthDate = in.BirthDate.Value
		}
	}
	if in.Weight != nil {
		if *in.Weight <= 0 {
			errs["weight"] = "weight must be positive"
		} else {
			pet.Weight = *in.Weight
		}
	}
	if in.ClientID != nil {
		if err := s.clients.OwnerExists(ctx, *in.ClientID); err != nil {
			return Pet{}, err
		}
		pet.ClientID = *in.ClientID
	}
	if len(errs) > 0 {
		return Pet{}, apperr.Validation(errs)
	}

	if err := s.repo.Update(ctx, pet); err != nil {
		return Pet{}, err
	}
	return pet, nil
}

func (s *Service) Get(ctx context.Context, p access.Principal, id int64) (Pet, error) {
	pet, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return Pet{}, err
	}
	if err := access.CanReadOwned(p, pet.ClientID); err != nil {
		return Pet{}, err
	}
	return pet, nil
}

func (s *Service) List(ctx context.Context, p access.Principal, q listing.Query) (listing.Page[Pet], error) {
	if clientID, scoped := access.ScopeToClient(p); scoped {
		items, err := s.repo.ListByClient(ctx, clientID)
		if err != nil {
			return listing.Page[Pet]{}, err
		}
		return listing.Single(items), nil
	}
	return s.repo.List(ctx, q.Normalize())
}

func (s *Service) ListByClient(ctx context.Context, p access.Principal, clientID int64) ([]Pet, error) {
	if err := access.CanReadClient(p, clientID); err != nil {
		return nil, err
	}
	return s.repo.ListByClient(ctx, clientID)
}

func (s *Service) Delete(ctx context.Context, p access.Principal, id int64) error {
	if err := access.RequireStaff(p); err != nil {
		return err
	}
	pet, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return err
	}
	if err := s.repo.Delete(ctx, id); err != nil {
		return err
	}
	if pet.PhotoFile != "" && s.photos != nil {
		// best effort: el blob huérfano no bloquea el borrado
		_ = s.photos.Delete(ctx, pet.PhotoFile)
	}
	return nil
}

// OwnerOf expone el cliente propietario de una mascota.
// Evita ciclos de imports entre módulos (citas → mascotas → clientes).
func (s *Service) OwnerOf(ctx context.Context, petID int64) (int64, error) {
	p, err := s.repo.GetByID(ctx, petID)
	if err != nil {
		return 0, err
	}
	return p.ClientID, nil
}

// AttachPhoto guarda la imagen nueva y borra la anterior si existía.
func (s *Service) AttachPhoto(ctx context.Context, p access.Principal, id int64, data []byte, contentType string) (Pet, error) {
	if err := access.RequireStaff(p); err != nil {
		return Pet{}, err
	}
	if s.photos == nil {
		return Pet{}, apperr.Internal(nil)
	}
	pet, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return Pet{}, err
	}
	if len(data) == 0 {
		return Pet{}, apperr.ValidationMsg("file", "file is empty")
	}

	name, err := s.photos.Save(ctx, data, contentType)
	if err != nil {
		return Pet{}, apperr.Internal(err)
	}

	old := pet.PhotoFile
	pet.PhotoFile = name
	if err := s.repo.Update(ctx, pet); err != nil {
		_ = s.photos.Delete(ctx, name)
		return Pet{}, err
	}
	if old != "" {
		_ = s.photos.Delete(ctx, old)
	}
	return pet, nil
}

func (s *Service) LoadPhoto(ctx context.Context, name string) ([]byte, string, error) {
	if s.photos == nil {
		return nil, "", apperr.NotFoundMsg("image not found")
	}
	data, ct, err := s.photos.Load(ctx, name)
	if err != nil {
		return nil, "", apperr.NotFoundMsg("image not found")
	}
	return data, ct, nil
}
