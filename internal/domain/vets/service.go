package vets

import (
	"context"
	"regexp"
	"strings"

	"vet-clinic-backend/internal/access"
	"vet-clinic-backend/internal/platform/apperr"
	"vet-clinic-backend/internal/platform/listing"
)

var emailRe = regexp.MustCompile(`^[^@\s]+@[^@\s]+\.[^@\s]+$`)

type Service struct {
	repo Repository
}

func NewService(repo Repository) *Service {
	return &Service{repo: repo}
}

type CreateInput struct {
	Name          string
	Surname       string
	LicenseNumber string
	Specialty     string
	Email         string
}

func (in CreateInput) validate() map[string]string {
	errs := map[string]string{}
	if strings.TrimSpace(in.Name) == "" {
		errs["name"] = "name is required"
	}
	if strings.TrimSpace(in.Surname) == "" {
		errs["surname"] = "surname is required"
	}
	if strings.TrimSpace(in.LicenseNumber) == "" {
		errs["license_number"] = "license number is required"
	}
	if e := strings.TrimSpace(in.Email); e == "" || !emailRe.MatchString(e) {
		errs["email"] = "a valid contact email is required"
	}
	return errs
}

// Create da de alta un veterinario. Número de colegiado duplicado → Conflict.
func (s *Service) Create(ctx context.Context, p access.Principal, in CreateInput) (Vet, error) {
	if err := access.RequireStaff(p); err != nil {
		return Vet{}, err
	}
	return s.Register(ctx, in)
}

// Register crea el veterinario sin principal: lo usa el alta de cuentas
// con rol VETERINARIO.
func (s *Service) Register(ctx context.Context, in CreateInput) (Vet, error) {
	if errs := in.validate(); len(errs) > 0 {
		return Vet{}, apperr.Validation(errs)
	}
	return s.repo.Create(ctx, Vet{
		Name:          strings.TrimSpace(in.Name),
		Surname:       strings.TrimSpace(in.Surname),
		LicenseNumber: strings.TrimSpace(in.LicenseNumber),
		Specialty:     strings.TrimSpace(in.Specialty),
		Email:         strings.TrimSpace(in.Email),
	})
}

type UpdateInput struct {
	// Punteros para PATCH real: nil = no tocar.
	Name      *string
	Surname   *string
	Specialty *string
	Email     *string
}

func (s *Service) Update(ctx context.Context, p access.Principal, id int64, in UpdateInput) (Vet, error) {
	if err := access.RequireStaff(p); err != nil {
		return Vet{}, err
	}

	v, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return Vet{}, err
	}

	errs := map[string]string{}
	if in.Name != nil {
		if n := strings.TrimSpace(*in.Name); n == "" {
			errs["name"] = "name is required"
		} else {
			v.Name = n
		}
	}
	if in.Surname != nil {
		if n := strings.TrimSpace(*in.Surname); n == "" {
			errs["surname"] = "surname is required"
		} else {
			v.Surname = n
		}
	}
	if in.Specialty != nil {
		v.Specialty = strings.TrimSpace(*in.Specialty)
	}
	if in.Email != nil {
		if e := strings.TrimSpace(*in.Email); e == "" || !emailRe.MatchString(e) {
			errs["email"] = "a valid contact email is required"
		} else {
			v.Email = e
		}
	}
	if len(errs) > 0 {
		return Vet{}, apperr.Validation(errs)
	}

	if err := s.repo.Update(ctx, v); err != nil {
		return Vet{}, err
	}
	return v, nil
}

// Get: cualquier principal autenticado puede consultar el cuadro médico.
func (s *Service) Get(ctx context.Context, id int64) (Vet, error) {
	return s.repo.GetByID(ctx, id)
}

func (s *Service) List(ctx context.Context, q listing.Query) (listing.Page[Vet], error) {
	return s.repo.List(ctx, q.Normalize())
}

func (s *Service) ListSpecialties(ctx context.Context) ([]string, error) {
	return s.repo.ListSpecialties(ctx)
}

// Delete da de baja al profesional preservando su historial: las citas
// asignadas quedan con veterinario = NULL (todo o nada, lo garantiza el repo).
func (s *Service) Delete(ctx context.Context, p access.Principal, id int64) error {
	if err := access.RequireStaff(p); err != nil {
		return err
	}
	if _, err := s.repo.GetByID(ctx, id); err != nil {
		return err
	}
	return s.repo.Delete(ctx, id)
}

// Exists resuelve existencia para el módulo de citas.
func (s *Service) Exists(ctx context.Context, id int64) error {
	_, err := s.repo.GetByID(ctx, id)
	return err
}
