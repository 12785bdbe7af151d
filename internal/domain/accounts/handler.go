package accounts

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"vet-clinic-backend/internal/access"
	"vet-clinic-backend/internal/platform/httpjson"
)

func RegisterRoutes(r chi.Router, svc *Service) {
	r.Route("/auth", func(ar chi.Router) {
		ar.Post("/register", registerHandler(svc))
		ar.Post("/login", loginHandler(svc))
	})
}

type registerRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
	Role     string `json:"role"` // VETERINARIO o CLIENTE

	// Ficha vinculada según rol.
	Name    string `json:"name"`
	Surname string `json:"surname"`

	// CLIENTE
	DNI     string `json:"dni"`
	Phone   string `json:"phone"`
	Address string `json:"address"`

	// VETERINARIO
	LicenseNumber string `json:"license_number"`
	Specialty     string `json:"specialty"`
}

type loginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type authResponse struct {
	Token string      `json:"token"`
	Email string      `json:"email"`
	Role  access.Role `json:"role"`
}

// registerHandler godoc
// @Summary Registrar una cuenta
// @Description Crea la cuenta y su ficha vinculada (cliente o veterinario según rol) y devuelve un token de sesión. Email duplicado devuelve 409.
// @Tags auth
// @Accept json
// @Produce json
// @Param payload body registerRequest true "Credenciales y datos de la ficha"
// @Success 201 {object} authResponse
// @Router /api/auth/register [post]
func registerHandler(svc *Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req registerRequest
		if err := httpjson.Decode(r, &req); err != nil {
			httpjson.WriteError(w, err)
			return
		}

		res, err := svc.Register(r.Context(), RegisterInput(req))
		if err != nil {
			httpjson.WriteError(w, err)
			return
		}
		httpjson.Write(w, http.StatusCreated, authResponse(res))
	}
}

// loginHandler godoc
// @Summary Iniciar sesión
// @Description Verifica credenciales y devuelve un token con 24 horas de validez. Credenciales inválidas devuelven 401 sin distinguir el motivo.
// @Tags auth
// @Accept json
// @Produce json
// @Param payload body loginRequest true "Email y contraseña"
// @Success 200 {object} authResponse
// @Router /api/auth/login [post]
func loginHandler(svc *Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req loginRequest
		if err := httpjson.Decode(r, &req); err != nil {
			httpjson.WriteError(w, err)
			return
		}

		res, err := svc.Login(r.Context(), req.Email, req.Password)
		if err != nil {
			httpjson.WriteError(w, err)
			return
		}
		httpjson.Write(w, http.StatusOK, authResponse(res))
	}
}
