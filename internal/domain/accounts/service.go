package accounts

import (
	"context"
	"regexp"
	"strings"

	"golang.org/x/crypto/bcrypt"

	"vet-clinic-backend/internal/access"
	"vet-clinic-backend/internal/domain/clients"
	"vet-clinic-backend/internal/domain/vets"
	"vet-clinic-backend/internal/platform/apperr"
	"vet-clinic-backend/internal/ports/auth"
)

var emailRe = regexp.MustCompile(`^[^@\s]+@[^@\s]+\.[^@\s]+$`)

type Service struct {
	repo    Repository
	clients *clients.Service
	vets    *vets.Service
	issuer  auth.TokenIssuer
}

func NewService(repo Repository, cs *clients.Service, vs *vets.Service, issuer auth.TokenIssuer) *Service {
	return &Service{repo: repo, clients: cs, vets: vs, issuer: issuer}
}

type RegisterInput struct {
	Email    string
	Password string
	Role     string

	// Datos de la ficha vinculada según rol.
	Name    string
	Surname string

	// CLIENTE
	DNI     string
	Phone   string
	Address string

	// VETERINARIO
	LicenseNumber string
	Specialty     string
}

type AuthResult struct {
	Token string
	Email string
	Role  access.Role
}

// Register da de alta la cuenta y su ficha vinculada según el rol
// (integridad rol-vínculo: CLIENTE → cliente, VETERINARIO → veterinario).
// Email duplicado → Conflict.
func (s *Service) Register(ctx context.Context, in RegisterInput) (AuthResult, error) {
	email := strings.TrimSpace(strings.ToLower(in.Email))

	errs := map[string]string{}
	if email == "" || !emailRe.MatchString(email) {
		errs["email"] = "a valid email is required"
	}
	if len(in.Password) < 8 {
		errs["password"] = "password must be at least 8 characters"
	}
	role, ok := access.ParseRole(strings.TrimSpace(in.Role))
	if !ok {
		errs["role"] = "role must be VETERINARIO or CLIENTE"
	}
	if len(errs) > 0 {
		return AuthResult{}, apperr.Validation(errs)
	}

	if _, err := s.repo.GetByEmail(ctx, email); err == nil {
		return AuthResult{}, apperr.Conflict("an account with that email already exists")
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(in.Password), bcrypt.DefaultCost)
	if err != nil {
		return AuthResult{}, apperr.Internal(err)
	}

	u := User{Email: email, PasswordHash: string(hash), Role: role}

	switch role {
	case access.RoleClient:
		c, err := s.clients.Register(ctx, clients.CreateInput{
			Name:    in.Name,
			Surname: in.Surname,
			DNI:     in.DNI,
			Phone:   in.Phone,
			Address: in.Address,
			Email:   email,
		})
		if err != nil {
			return AuthResult{}, err
		}
		u.ClientID = &c.ID
	case access.RoleVet:
		v, err := s.vets.Register(ctx, vets.CreateInput{
			Name:          in.Name,
			Surname:       in.Surname,
			LicenseNumber: in.LicenseNumber,
			Specialty:     in.Specialty,
			Email:         email,
		})
		if err != nil {
			return AuthResult{}, err
		}
		u.VetID = &v.ID
	}

	u, err = s.repo.Create(ctx, u)
	if err != nil {
		return AuthResult{}, err
	}
	return s.issue(u)
}

// Login verifica credenciales y emite un token de 24h.
func (s *Service) Login(ctx context.Context, email, password string) (AuthResult, error) {
	email = strings.TrimSpace(strings.ToLower(email))

	u, err := s.repo.GetByEmail(ctx, email)
	if err != nil {
		// Mensaje genérico: no revelar si la cuenta existe.
		return AuthResult{}, apperr.Unauthorized("invalid credentials")
	}
	if err := bcrypt.CompareHashAndPassword([]byte(u.PasswordHash), []byte(password)); err != nil {
		return AuthResult{}, apperr.Unauthorized("invalid credentials")
	}
	return s.issue(u)
}

func (s *Service) issue(u User) (AuthResult, error) {
	if s.issuer == nil {
		// Modo dev sin claves: la cuenta se crea pero no hay token.
		return AuthResult{Email: u.Email, Role: u.Role}, nil
	}
	token, err := s.issuer.Issue(auth.Claims{
		UserID:   u.ID,
		Email:    u.Email,
		Role:     string(u.Role),
		ClientID: u.ClientID,
		VetID:    u.VetID,
	})
	if err != nil {
		return AuthResult{}, apperr.Internal(err)
	}
	return AuthResult{Token: token, Email: u.Email, Role: u.Role}, nil
}
