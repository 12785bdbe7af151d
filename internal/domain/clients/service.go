package clients

import (
	"context"
	"regexp"
	"strings"

	"vet-clinic-backend/internal/access"
	"vet-clinic-backend/internal/platform/apperr"
	"vet-clinic-backend/internal/platform/listing"
)

var (
	// Mismas reglas que la ficha original: DNI español y teléfono con
	// prefijo +34 empezando por 6, 7, 8 o 9 (espacios opcionales).
	dniRe   = regexp.MustCompile(`^[0-9]{8}[A-HJ-NP-TV-Z]$`)
	phoneRe = regexp.MustCompile(`^\+34 ?[6789](?: ?[0-9]){8}$`)
	emailRe = regexp.MustCompile(`^[^@\s]+@[^@\s]+\.[^@\s]+$`)
)

type Service struct {
	repo Repository
}

func NewService(repo Repository) *Service {
	return &Service{repo: repo}
}

type CreateInput struct {
	Name    string
	Surname string
	DNI     string
	Phone   string
	Address string
	Email   string
}

func (in CreateInput) validate() map[string]string {
	errs := map[string]string{}
	if n := strings.TrimSpace(in.Name); len(n) < 2 || len(n) > 100 {
		errs["name"] = "name must be between 2 and 100 characters"
	}
	if s := strings.TrimSpace(in.Surname); len(s) < 2 || len(s) > 100 {
		errs["surname"] = "surname must be between 2 and 100 characters"
	}
	if !dniRe.MatchString(strings.TrimSpace(in.DNI)) {
		errs["dni"] = "dni must be 8 digits plus a valid control letter"
	}
	if !phoneRe.MatchString(strings.TrimSpace(in.Phone)) {
		errs["phone"] = "phone must use the +34 prefix and start with 6, 7, 8 or 9"
	}
	if e := strings.TrimSpace(in.Email); e != "" && !emailRe.MatchString(e) {
		errs["email"] = "invalid email address"
	}
	return errs
}

// Create registra un cliente. DNI duplicado → Conflict (lo detecta el repo).
func (s *Service) Create(ctx context.Context, p access.Principal, in CreateInput) (Client, error) {
	if err := access.RequireStaff(p); err != nil {
		return Client{}, err
	}
	return s.Register(ctx, in)
}

// Register crea el cliente sin exigir rol staff: lo usa el alta de cuentas
// CLIENTE, donde todavía no existe principal.
func (s *Service) Register(ctx context.Context, in CreateInput) (Client, error) {
	if errs := in.validate(); len(errs) > 0 {
		return Client{}, apperr.Validation(errs)
	}
	return s.repo.Create(ctx, Client{
		Name:    strings.TrimSpace(in.Name),
		Surname: strings.TrimSpace(in.Surname),
		DNI:     strings.TrimSpace(in.DNI),
		Phone:   strings.TrimSpace(in.Phone),
		Address: strings.TrimSpace(in.Address),
		Email:   strings.TrimSpace(in.Email),
	})
}

type UpdateInput struct {
	// Punteros para PATCH real: nil = no tocar.
	Name    *string
	Surname *string
	Phone   *string
	Address *string
	Email   *string
}

func (s *Service) Update(ctx context.Context, p access.Principal, id int64, in UpdateInput) (Client, error) {
	if err := access.RequireStaff(p); err != nil {
		return Client{}, err
	}

	c, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return Client{}, err
	}

	errs := map[string]string{}
	if in.Name != nil {
		if n := strings.TrimSpace(*in.Name); len(n) < 2 || len(n) > 100 {
			errs["name"] = "name must be between 2 and 100 characters"
		} else {
			c.Name = n
		}
	}
	if in.Surname != nil {
		if v := strings.TrimSpace(*in.Surname); len(v) < 2 || len(v) > 100 {
			errs["surname"] = "surname must be between 2 and 100 characters"
		} else {
			c.Surname = v
		}
	}
	if in.Phone != nil {
		if v := strings.TrimSpace(*in.Phone); !phoneRe.MatchString(v) {
			errs["phone"] = "phone must use the +34 prefix and start with 6, 7, 8 or 9"
		} else {
			c.Phone = v
		}
	}
	if in.Address != nil {
		c.Address = strings.TrimSpace(*in.Address)
	}
	if in.Email != nil {
		if v := strings.TrimSpace(*in.Email); v != "" && !emailRe.MatchString(v) {
			errs["email"] = "invalid email address"
		} else {
			c.Email = v
		}
	}
	if len(errs) > 0 {
		return Client{}, apperr.Validation(errs)
	}

	if err := s.repo.Update(ctx, c); err != nil {
		return Client{}, err
	}
	return c, nil
}

func (s *Service) Get(ctx context.Context, p access.Principal, id int64) (Client, error) {
	if err := access.CanReadClient(p, id); err != nil {
		return Client{}, err
	}
	return s.repo.GetByID(ctx, id)
}

func (s *Service) GetByDNI(ctx context.Context, p access.Principal, dni string) (Client, error) {
	if err := access.RequireStaff(p); err != nil {
		return Client{}, err
	}
	return s.repo.GetByDNI(ctx, strings.TrimSpace(dni))
}

// List: staff ve todo paginado; un propietario solo su propia ficha.
func (s *Service) List(ctx context.Context, p access.Principal, q listing.Query) (listing.Page[Client], error) {
	if clientID, scoped := access.ScopeToClient(p); scoped {
		c, err := s.repo.GetByID(ctx, clientID)
		if err != nil {
			return listing.Single([]Client{}), nil
		}
		return listing.Single([]Client{c}), nil
	}
	return s.repo.List(ctx, q.Normalize())
}

// Delete elimina el cliente y, en cascada, sus mascotas con citas y
// tratamientos. Una cuenta de usuario aún vinculada produce Conflict.
func (s *Service) Delete(ctx context.Context, p access.Principal, id int64) error {
	if err := access.RequireStaff(p); err != nil {
		return err
	}
	if _, err := s.repo.GetByID(ctx, id); err != nil {
		return err
	}
	return s.repo.Delete(ctx, id)
}

// OwnerExists resuelve existencia para otros módulos sin exponer el repo.
func (s *Service) OwnerExists(ctx context.Context, id int64) error {
	_, err := s.repo.GetByID(ctx, id)
	return err
}
