package vets

import (
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"vet-clinic-backend/internal/middleware"
	"vet-clinic-backend/internal/platform/apperr"
	"vet-clinic-backend/internal/platform/httpjson"
	"vet-clinic-backend/internal/platform/listing"
)

func RegisterRoutes(r chi.Router, svc *Service) {
	r.Route("/vets", func(vr chi.Router) {
		vr.Post("/", createVetHandler(svc))
		vr.Get("/", listVetsHandler(svc))
		vr.Get("/specialties", listSpecialtiesHandler(svc))
		vr.Get("/{vetID}", getVetHandler(svc))
		vr.Put("/{vetID}", updateVetHandler(svc))
		vr.Delete("/{vetID}", deleteVetHandler(svc))
	})
}

type createVetRequest struct {
	Name          string `json:"name"`
	Surname       string `json:"surname"`
	LicenseNumber string `json:"license_number"`
	Specialty     string `json:"specialty"`
	Email         string `json:"email"`
}

type updateVetRequest struct {
	// Punteros para PATCH real: nil = no tocar. El número de colegiado
	// es inmutable una vez asignado.
	Name      *string `json:"name"`
	Surname   *string `json:"surname"`
	Specialty *string `json:"specialty"`
	Email     *string `json:"email"`
}

type vetResponse struct {
	ID            int64  `json:"id"`
	Name          string `json:"name"`
	Surname       string `json:"surname"`
	LicenseNumber string `json:"license_number"`
	Specialty     string `json:"specialty"`
	Email         string `json:"email"`
}

// createVetHandler godoc
// @Summary Dar de alta un veterinario
// @Description Registra un profesional. Número de colegiado duplicado devuelve 409. Solo personal clínico.
// @Tags vets
// @Accept json
// @Produce json
// @Param payload body createVetRequest true "Datos del veterinario"
// @Success 201 {object} vetResponse
// @Router /api/vets [post]
func createVetHandler(svc *Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		p, ok := middleware.GetPrincipal(r.Context())
		if !ok {
			httpjson.WriteError(w, apperr.Unauthorized("authentication required"))
			return
		}

		var req createVetRequest
		if err := httpjson.Decode(r, &req); err != nil {
			httpjson.WriteError(w, err)
			return
		}

		v, err := svc.Create(r.Context(), p, CreateInput(req))
		if err != nil {
			httpjson.WriteError(w, err)
			return
		}
		httpjson.Write(w, http.StatusCreated, toVetResponse(v))
	}
}

// listVetsHandler godoc
// @Summary Listar veterinarios
// @Description Cuadro médico visible para cualquier usuario autenticado. Búsqueda por apellidos.
// @Tags vets
// @Produce json
// @Param page query int false "Página (0-based)"
// @Param size query int false "Tamaño de página (máx 100)"
// @Param sort query string false "Campo de orden: id, surname, specialty"
// @Param search query string false "Substring sobre apellidos"
// @Router /api/vets [get]
func listVetsHandler(svc *Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if _, ok := middleware.GetPrincipal(r.Context()); !ok {
			httpjson.WriteError(w, apperr.Unauthorized("authentication required"))
			return
		}

		page, err := svc.List(r.Context(), listing.FromRequest(r))
		if err != nil {
			httpjson.WriteError(w, err)
			return
		}

		out := make([]vetResponse, 0, len(page.Items))
		for _, v := range page.Items {
			out = append(out, toVetResponse(v))
		}
		httpjson.Write(w, http.StatusOK, listing.Page[vetResponse]{
			Items: out, Total: page.Total, Page: page.Page, Size: page.Size, TotalPages: page.TotalPages,
		})
	}
}

// listSpecialtiesHandler godoc
// @Summary Especialidades disponibles
// @Description Lista las especialidades distintas del cuadro médico actual.
// @Tags vets
// @Produce json
// @Router /api/vets/specialties [get]
func listSpecialtiesHandler(svc *Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if _, ok := middleware.GetPrincipal(r.Context()); !ok {
			httpjson.WriteError(w, apperr.Unauthorized("authentication required"))
			return
		}

		items, err := svc.ListSpecialties(r.Context())
		if err != nil {
			httpjson.WriteError(w, err)
			return
		}
		httpjson.Write(w, http.StatusOK, items)
	}
}

// getVetHandler godoc
// @Summary Consultar un veterinario
// @Tags vets
// @Produce json
// @Param vetID path int true "ID del veterinario"
// @Router /api/vets/{vetID} [get]
func getVetHandler(svc *Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if _, ok := middleware.GetPrincipal(r.Context()); !ok {
			httpjson.WriteError(w, apperr.Unauthorized("authentication required"))
			return
		}

		id, err := pathID(r, "vetID")
		if err != nil {
			httpjson.WriteError(w, err)
			return
		}

		v, err := svc.Get(r.Context(), id)
		if err != nil {
			httpjson.WriteError(w, err)
			return
		}
		httpjson.Write(w, http.StatusOK, toVetResponse(v))
	}
}

// updateVetHandler godoc
// @Summary Actualizar un veterinario
// @Description Actualización parcial: solo cambian los campos presentes. Solo personal clínico.
// @Tags vets
// @Accept json
// @Produce json
// @Param vetID path int true "ID del veterinario"
// @Param payload body updateVetRequest true "Campos a modificar"
// @Router /api/vets/{vetID} [put]
func updateVetHandler(svc *Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		p, ok := middleware.GetPrincipal(r.Context())
		if !ok {
			httpjson.WriteError(w, apperr.Unauthorized("authentication required"))
			return
		}

		id, err := pathID(r, "vetID")
		if err != nil {
			httpjson.WriteError(w, err)
			return
		}

		var req updateVetRequest
		if err := httpjson.Decode(r, &req); err != nil {
			httpjson.WriteError(w, err)
			return
		}

		v, err := svc.Update(r.Context(), p, id, UpdateInput(req))
		if err != nil {
			httpjson.WriteError(w, err)
			return
		}
		httpjson.Write(w, http.StatusOK, toVetResponse(v))
	}
}

// deleteVetHandler godoc
// @Summary Dar de baja un veterinario
// @Description Las citas asignadas quedan sin profesional (histórico intacto). Con cuenta vinculada devuelve 409. Solo personal clínico.
// @Tags vets
// @Param vetID path int true "ID del veterinario"
// @Success 204
// @Router /api/vets/{vetID} [delete]
func deleteVetHandler(svc *Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		p, ok := middleware.GetPrincipal(r.Context())
		if !ok {
			httpjson.WriteError(w, apperr.Unauthorized("authentication required"))
			return
		}

		id, err := pathID(r, "vetID")
		if err != nil {
			httpjson.WriteError(w, err)
			return
		}

		if err := svc.Delete(r.Context(), p, id); err != nil {
			httpjson.WriteError(w, err)
			return
		}
		w.WriteHeader(http.StatusNoContent)
	}
}

func toVetResponse(v Vet) vetResponse {
	return vetResponse{
		ID:            v.ID,
		Name:          v.Name,
		Surname:       v.Surname,
		LicenseNumber: v.LicenseNumber,
		Specialty:     v.Specialty,
		Email:         v.Email,
	}
}

func pathID(r *http.Request, name string) (int64, error) {
	id, err := strconv.ParseInt(chi.URLParam(r, name), 10, 64)
	if err != nil || id <= 0 {
		return 0, apperr.ValidationMsg(name, "must be a positive integer")
	}
	return id, nil
}
