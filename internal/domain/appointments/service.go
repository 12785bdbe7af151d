package appointments

import (
	"context"
	"strings"
	"time"

	"vet-clinic-backend/internal/access"
	"vet-clinic-backend/internal/domain/treatments"
	"vet-clinic-backend/internal/platform/apperr"
	"vet-clinic-backend/internal/platform/listing"
)

// PetDirectory resuelve la mascota y su cliente propietario.
type PetDirectory interface {
	OwnerOf(ctx context.Context, petID int64) (int64, error)
}

// VetDirectory resuelve existencia de veterinarios.
type VetDirectory interface {
	Exists(ctx context.Context, vetID int64) error
}

// TreatmentLister recupera el desglose de una cita para calcular su coste.
type TreatmentLister interface {
	ListByAppointment(ctx context.Context, appointmentID int64) ([]treatments.Treatment, error)
}

type Service struct {
	repo       Repository
	pets       PetDirectory
	vets       VetDirectory
	treatments TreatmentLister
}

func NewService(repo Repository, pets PetDirectory, vets VetDirectory, tl TreatmentLister) *Service {
	return &Service{repo: repo, pets: pets, vets: vets, treatments: tl}
}

type CreateInput struct {
	PetID     int64
	VetID     *int64
	DateTime  *time.Time
	Reason    string
	Diagnosis string
	Status    string
}

func (in CreateInput) validate() map[string]string {
	errs := map[string]string{}
	if in.DateTime == nil {
		errs["date_time"] = "date and time are required"
	}
	if strings.TrimSpace(in.Reason) == "" {
		errs["reason"] = "reason is required"
	}
	if in.PetID <= 0 {
		errs["pet_id"] = "pet_id is required"
	}
	return errs
}

// Create resuelve mascota (y veterinario si viene) antes de persistir.
// La cita nace siempre con la colección de tratamientos vacía.
func (s *Service) Create(ctx context.Context, p access.Principal, in CreateInput) (Appointment, error) {
	if err := access.RequireStaff(p); err != nil {
		return Appointment{}, err
	}
	if errs := in.validate(); len(errs) > 0 {
		return Appointment{}, apperr.Validation(errs)
	}
	if _, err := s.pets.OwnerOf(ctx, in.PetID); err != nil {
		return Appointment{}, err
	}
	if in.VetID != nil {
		// El veterinario es opcional, pero si el caller lo indica debe existir.
		if err := s.vets.Exists(ctx, *in.VetID); err != nil {
			return Appointment{}, err
		}
	}
	return s.repo.Create(ctx, Appointment{
		PetID:     in.PetID,
		VetID:     in.VetID,
		DateTime:  *in.DateTime,
		Reason:    strings.TrimSpace(in.Reason),
		Diagnosis: strings.TrimSpace(in.Diagnosis),
		Status:    strings.TrimSpace(in.Status),
	})
}

type UpdateInput struct {
	// Punteros para PATCH real: nil = no tocar. La colección de tratamientos
	// nunca se toca desde esta operación, venga lo que venga en el payload.
	DateTime  *time.Time
	Reason    *string
	Diagnosis *string
	Status    *string
	PetID     *int64
	VetID     *int64 // nil = no cambiar; la baja del profesional es quien anula
}

func (s *Service) Update(ctx context.Context, p access.Principal, id int64, in UpdateInput) (Appointment, error) {
	if err := access.RequireStaff(p); err != nil {
		return Appointment{}, err
	}

	a, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return Appointment{}, err
	}

	if in.DateTime != nil {
		a.DateTime = *in.DateTime
	}
	if in.Reason != nil {
		if v := strings.TrimSpace(*in.Reason); v == "" {
			return Appointment{}, apperr.ValidationMsg("reason", "reason is required")
		} else {
			a.Reason = v
		}
	}
	if in.Diagnosis != nil {
		a.Diagnosis = strings.TrimSpace(*in.Diagnosis)
	}
	if in.Status != nil {
		a.Status = strings.TrimSpace(*in.Status)
	}
	if in.PetID != nil {
		if _, err := s.pets.OwnerOf(ctx, *in.PetID); err != nil {
			return Appointment{}, err
		}
		a.PetID = *in.PetID
	}
	if in.VetID != nil {
		if err := s.vets.Exists(ctx, *in.VetID); err != nil {
			return Appointment{}, err
		}
		a.VetID = in.VetID
	}

	if err := s.repo.Update(ctx, a); err != nil {
		return Appointment{}, err
	}
	return a, nil
}

// Get devuelve la cita con tratamientos y coste total recalculado.
func (s *Service) Get(ctx context.Context, p access.Principal, id int64) (Detail, error) {
	a, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return Detail{}, err
	}
	owner, err := s.pets.OwnerOf(ctx, a.PetID)
	if err != nil {
		return Detail{}, err
	}
	if err := access.CanReadOwned(p, owner); err != nil {
		return Detail{}, err
	}
	return s.detail(ctx, a)
}

func (s *Service) detail(ctx context.Context, a Appointment) (Detail, error) {
	ts, err := s.treatments.ListByAppointment(ctx, a.ID)
	if err != nil {
		return Detail{}, err
	}
	return Detail{Appointment: a, Treatments: ts, TotalCost: TotalCost(ts)}, nil
}

func (s *Service) details(ctx context.Context, items []Appointment) ([]Detail, error) {
	out := make([]Detail, 0, len(items))
	for _, a := range items {
		d, err := s.detail(ctx, a)
		if err != nil {
			return nil, err
		}
		out = append(out, d)
	}
	return out, nil
}

// List: staff ve todo paginado con búsqueda; un propietario solo las citas
// de sus mascotas (subconjunto silencioso, sin error parcial).
func (s *Service) List(ctx context.Context, p access.Principal, q listing.Query) (listing.Page[Detail], error) {
	if clientID, scoped := access.ScopeToClient(p); scoped {
		items, err := s.repo.ListByClient(ctx, clientID)
		if err != nil {
			return listing.Page[Detail]{}, err
		}
		ds, err := s.details(ctx, items)
		if err != nil {
			return listing.Page[Detail]{}, err
		}
		return listing.Single(ds), nil
	}

	page, err := s.repo.List(ctx, q.Normalize())
	if err != nil {
		return listing.Page[Detail]{}, err
	}
	ds, err := s.details(ctx, page.Items)
	if err != nil {
		return listing.Page[Detail]{}, err
	}
	return listing.Page[Detail]{
		Items:      ds,
		Total:      page.Total,
		Page:       page.Page,
		Size:       page.Size,
		TotalPages: page.TotalPages,
	}, nil
}

// ListByPet: historial clínico de la mascota (desc).
func (s *Service) ListByPet(ctx context.Context, p access.Principal, petID int64) ([]Detail, error) {
	owner, err := s.pets.OwnerOf(ctx, petID)
	if err != nil {
		return nil, err
	}
	if err := access.CanReadOwned(p, owner); err != nil {
		return nil, err
	}
	items, err := s.repo.ListByPet(ctx, petID)
	if err != nil {
		return nil, err
	}
	return s.details(ctx, items)
}

// ListByVet: agenda del profesional (asc). Solo staff.
func (s *Service) ListByVet(ctx context.Context, p access.Principal, vetID int64) ([]Detail, error) {
	if err := access.RequireStaff(p); err != nil {
		return nil, err
	}
	if err := s.vets.Exists(ctx, vetID); err != nil {
		return nil, err
	}
	items, err := s.repo.ListByVet(ctx, vetID)
	if err != nil {
		return nil, err
	}
	return s.details(ctx, items)
}

// ListBetween filtra por rango de fechas (agenda diaria/semanal). Solo staff.
func (s *Service) ListBetween(ctx context.Context, p access.Principal, from, to time.Time) ([]Detail, error) {
	if err := access.RequireStaff(p); err != nil {
		return nil, err
	}
	items, err := s.repo.ListBetween(ctx, from, to)
	if err != nil {
		return nil, err
	}
	return s.details(ctx, items)
}

// Delete elimina la cita y, en cascada, sus tratamientos.
func (s *Service) Delete(ctx context.Context, p access.Principal, id int64) error {
	if err := access.RequireStaff(p); err != nil {
		return err
	}
	if _, err := s.repo.GetByID(ctx, id); err != nil {
		return err
	}
	return s.repo.Delete(ctx, id)
}

// OwnerOfAppointment resuelve el cliente dueño de la cita (vía su mascota).
// Implementa treatments.AppointmentDirectory.
func (s *Service) OwnerOfAppointment(ctx context.Context, id int64) (int64, error) {
	a, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return 0, err
	}
	return s.pets.OwnerOf(ctx, a.PetID)
}
