package treatments

import (
	"context"
	"strings"

	"vet-clinic-backend/internal/access"
	"vet-clinic-backend/internal/platform/apperr"
	"vet-clinic-backend/internal/platform/listing"
)

// AppointmentDirectory resuelve la cita padre y su cliente propietario.
// Lo implementa el servicio de citas; la interfaz vive aquí para no crear
// un ciclo de imports (citas importa el modelo de tratamientos).
type AppointmentDirectory interface {
	// OwnerOfAppointment devuelve el cliente dueño de la mascota de la cita.
	OwnerOfAppointment(ctx context.Context, appointmentID int64) (int64, error)
}

type Service struct {
	repo  Repository
	appts AppointmentDirectory
}

func NewService(repo Repository, appts AppointmentDirectory) *Service {
	return &Service{repo: repo, appts: appts}
}

type CreateInput struct {
	AppointmentID int64
	Description   string
	Medication    string
	Price         *float64
	Observations  string
}

func (in CreateInput) validate() map[string]string {
	errs := map[string]string{}
	if strings.TrimSpace(in.Description) == "" {
		errs["description"] = "description is required"
	}
	if in.Price == nil {
		errs["price"] = "price is required"
	} else if *in.Price < 0 {
		errs["price"] = "price cannot be negative"
	}
	if in.AppointmentID <= 0 {
		errs["appointment_id"] = "appointment_id is required"
	}
	return errs
}

// Create ancla el tratamiento a su cita padre (NotFound si no existe).
func (s *Service) Create(ctx context.Context, p access.Principal, in CreateInput) (Treatment, error) {
	if err := access.RequireStaff(p); err != nil {
		return Treatment{}, err
	}
	if errs := in.validate(); len(errs) > 0 {
		return Treatment{}, apperr.Validation(errs)
	}
	if _, err := s.appts.OwnerOfAppointment(ctx, in.AppointmentID); err != nil {
		return Treatment{}, err
	}
	return s.repo.Create(ctx, Treatment{
		AppointmentID: in.AppointmentID,
		Description:   strings.TrimSpace(in.Description),
		Medication:    strings.TrimSpace(in.Medication),
		Price:         *in.Price,
		Observations:  strings.TrimSpace(in.Observations),
	})
}

type UpdateInput struct {
	// Punteros para PATCH real: nil = no tocar.
	AppointmentID *int64
	Description   *string
	Medication    *string
	Price         *float64
	Observations  *string
}

func (s *Service) Update(ctx context.Context, p access.Principal, id int64, in UpdateInput) (Treatment, error) {
	if err := access.RequireStaff(p); err != nil {
		return Treatment{}, err
	}

	t, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return Treatment{}, err
	}

	errs := map[string]string{}
	if in.AppointmentID != nil {
		// Reapuntar la cita exige que la nueva exista.
		if _, err := s.appts.OwnerOfAppointment(ctx, *in.AppointmentID); err != nil {
			return Treatment{}, err
		}
		t.AppointmentID = *in.AppointmentID
	}
	if in.Description != nil {
		if v := strings.TrimSpace(*in.Description); v == "" {
			errs["description"] = "description is required"
		} else {
			t.Description = v
		}
	}
	if in.Medication != nil {
		t.Medication = strings.TrimSpace(*in.Medication)
	}
	if in.Price != nil {
		if *in.Price < 0 {
			errs["price"] = "price cannot be negative"
		} else {
			t.Price = *in.Price
		}
	}
	if in.Observations != nil {
		t.Observations = strings.TrimSpace(*in.Observations)
	}
	if len(errs) > 0 {
		return Treatment{}, apperr.Validation(errs)
	}

	if err := s.repo.Update(ctx, t); err != nil {
		return Treatment{}, err
	}
	return t, nil
}

func (s *Service) Get(ctx context.Context, p access.Principal, id int64) (Treatment, error) {
	t, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return Treatment{}, err
	}
	owner, err := s.appts.OwnerOfAppointment(ctx, t.AppointmentID)
	if err != nil {
		return Treatment{}, err
	}
	if err := access.CanReadOwned(p, owner); err != nil {
		return Treatment{}, err
	}
	return t, nil
}

func (s *Service) List(ctx context.Context, p access.Principal, q listing.Query) (listing.Page[Treatment], error) {
	if clientID, scoped := access.ScopeToClient(p); scoped {
		items, err := s.repo.ListByClient(ctx, clientID)
		if err != nil {
			return listing.Page[Treatment]{}, err
		}
		return listing.Single(items), nil
	}
	return s.repo.List(ctx, q.Normalize())
}

// ListByAppointment desglosa la "factura" de una cita.
func (s *Service) ListByAppointment(ctx context.Context, p access.Principal, appointmentID int64) ([]Treatment, error) {
	owner, err := s.appts.OwnerOfAppointment(ctx, appointmentID)
	if err != nil {
		return nil, err
	}
	if err := access.CanReadOwned(p, owner); err != nil {
		return nil, err
	}
	return s.repo.ListByAppointment(ctx, appointmentID)
}

func (s *Service) Delete(ctx context.Context, p access.Principal, id int64) error {
	if err := access.RequireStaff(p); err != nil {
		return err
	}
	if _, err := s.repo.GetByID(ctx, id); err != nil {
		return err
	}
	return s.repo.Delete(ctx, id)
}
