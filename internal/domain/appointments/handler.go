package appointments

import (
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"

	"vet-clinic-backend/internal/domain/treatments"
	"vet-clinic-backend/internal/middleware"
	"vet-clinic-backend/internal/platform/apperr"
	"vet-clinic-backend/internal/platform/httpjson"
	"vet-clinic-backend/internal/platform/listing"
)

func RegisterRoutes(r chi.Router, svc *Service) {
	r.Route("/appointments", func(ar chi.Router) {
		ar.Post("/", createAppointmentHandler(svc))
		ar.Get("/", listAppointmentsHandler(svc))
		ar.Get("/{appointmentID}", getAppointmentHandler(svc))
		ar.Put("/{appointmentID}", updateAppointmentHandler(svc))
		ar.Delete("/{appointmentID}", deleteAppointmentHandler(svc))
	})

	// Historial de una mascota y agenda de un profesional.
	r.Get("/pets/{petID}/appointments", listByPetHandler(svc))
	r.Get("/vets/{vetID}/appointments", listByVetHandler(svc))
}

type createAppointmentRequest struct {
	PetID     int64      `json:"pet_id"`
	VetID     *int64     `json:"vet_id"`
	DateTime  *time.Time `json:"date_time"` // RFC3339
	Reason    string     `json:"reason"`
	Diagnosis string     `json:"diagnosis"`
	Status    string     `json:"status"`
}

type updateAppointmentRequest struct {
	// Punteros para PATCH real: nil = no tocar. Los tratamientos de la
	// cita nunca se modifican por esta vía.
	DateTime  *time.Time `json:"date_time"`
	Reason    *string    `json:"reason"`
	Diagnosis *string    `json:"diagnosis"`
	Status    *string    `json:"status"`
	PetID     *int64     `json:"pet_id"`
	VetID     *int64     `json:"vet_id"`
}

type treatmentLine struct {
	ID           int64   `json:"id"`
	Description  string  `json:"description"`
	Medication   string  `json:"medication,omitempty"`
	Price        float64 `json:"price"`
	Observations string  `json:"observations,omitempty"`
}

type appointmentResponse struct {
	ID         int64           `json:"id"`
	PetID      int64           `json:"pet_id"`
	VetID      *int64          `json:"vet_id,omitempty"`
	DateTime   time.Time       `json:"date_time"`
	Reason     string          `json:"reason"`
	Diagnosis  string          `json:"diagnosis,omitempty"`
	Status     string          `json:"status,omitempty"`
	Treatments []treatmentLine `json:"treatments"`
	TotalCost  float64         `json:"total_cost"`
}

// createAppointmentHandler godoc
// @Summary Crear una cita
// @Description Registra una cita para una mascota, con veterinario opcional. Nace sin tratamientos. Solo personal clínico.
// @Tags appointments
// @Accept json
// @Produce json
// @Param payload body createAppointmentRequest true "Datos de la cita; date_time en formato RFC3339"
// @Success 201 {object} appointmentResponse
// @Router /api/appointments [post]
func createAppointmentHandler(svc *Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		p, ok := middleware.GetPrincipal(r.Context())
		if !ok {
			httpjson.WriteError(w, apperr.Unauthorized("authentication required"))
			return
		}

		var req createAppointmentRequest
		if err := httpjson.Decode(r, &req); err != nil {
			httpjson.WriteError(w, err)
			return
		}

		a, err := svc.Create(r.Context(), p, CreateInput(req))
		if err != nil {
			httpjson.WriteError(w, err)
			return
		}
		httpjson.Write(w, http.StatusCreated, toAppointmentResponse(Detail{Appointment: a, Treatments: nil}))
	}
}

// listAppointmentsHandler godoc
// @Summary Listar citas
// @Description Staff: listado paginado con búsqueda por motivo, diagnóstico o estado; from/to (RFC3339) filtran por rango de fechas. Un propietario solo ve las citas de sus mascotas.
// @Tags appointments
// @Produce json
// @Param page query int false "Página (0-based)"
// @Param size query int false "Tamaño de página (máx 100)"
// @Param sort query string false "Campo de orden: id, date_time, status"
// @Param search query string false "Substring sobre motivo, diagnóstico o estado"
// @Param from query string false "Inicio del rango (RFC3339)"
// @Param to query string false "Fin del rango (RFC3339)"
// @Router /api/appointments [get]
func listAppointmentsHandler(svc *Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		p, ok := middleware.GetPrincipal(r.Context())
		if !ok {
			httpjson.WriteError(w, apperr.Unauthorized("authentication required"))
			return
		}

		fromRaw := r.URL.Query().Get("from")
		toRaw := r.URL.Query().Get("to")
		if fromRaw != "" || toRaw != "" {
			from, err := time.Parse(time.RFC3339, fromRaw)
			if err != nil {
				httpjson.WriteError(w, apperr.ValidationMsg("from", "from must be RFC3339"))
				return
			}
			to, err := time.Parse(time.RFC3339, toRaw)
			if err != nil {
				httpjson.WriteError(w, apperr.ValidationMsg("to", "to must be RFC3339"))
				return
			}
			items, err := svc.ListBetween(r.Context(), p, from, to)
			if err != nil {
				httpjson.WriteError(w, err)
				return
			}
			httpjson.Write(w, http.StatusOK, toAppointmentResponses(items))
			return
		}

		page, err := svc.List(r.Context(), p, listing.FromRequest(r))
		if err != nil {
			httpjson.WriteError(w, err)
			return
		}
		httpjson.Write(w, http.StatusOK, listing.Page[appointmentResponse]{
			Items:      toAppointmentResponses(page.Items),
			Total:      page.Total,
			Page:       page.Page,
			Size:       page.Size,
			TotalPages: page.TotalPages,
		})
	}
}

// getAppointmentHandler godoc
// @Summary Consultar una cita
// @Description Devuelve la cita con sus tratamientos y el coste total recalculado. Un propietario solo accede a citas de sus mascotas.
// @Tags appointments
// @Produce json
// @Param appointmentID path int true "ID de la cita"
// @Router /api/appointments/{appointmentID} [get]
func getAppointmentHandler(svc *Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		p, ok := middleware.GetPrincipal(r.Context())
		if !ok {
			httpjson.WriteError(w, apperr.Unauthorized("authentication required"))
			return
		}

		id, err := pathID(r, "appointmentID")
		if err != nil {
			httpjson.WriteError(w, err)
			return
		}

		d, err := svc.Get(r.Context(), p, id)
		if err != nil {
			httpjson.WriteError(w, err)
			return
		}
		httpjson.Write(w, http.StatusOK, toAppointmentResponse(d))
	}
}

// updateAppointmentHandler godoc
// @Summary Actualizar una cita
// @Description Actualización parcial. vet_id ausente mantiene el profesional actual; los tratamientos no se tocan. Solo personal clínico.
// @Tags appointments
// @Accept json
// @Produce json
// @Param appointmentID path int true "ID de la cita"
// @Param payload body updateAppointmentRequest true "Campos a modificar"
// @Router /api/appointments/{appointmentID} [put]
func updateAppointmentHandler(svc *Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		p, ok := middleware.GetPrincipal(r.Context())
		if !ok {
			httpjson.WriteError(w, apperr.Unauthorized("authentication required"))
			return
		}

		id, err := pathID(r, "appointmentID")
		if err != nil {
			httpjson.WriteError(w, err)
			return
		}

		var req updateAppointmentRequest
		if err := httpjson.Decode(r, &req); err != nil {
			httpjson.WriteError(w, err)
			return
		}

		a, err := svc.Update(r.Context(), p, id, UpdateInput(req))
		if err != nil {
			httpjson.WriteError(w, err)
			return
		}

		d, err := svc.Get(r.Context(), p, a.ID)
		if err != nil {
			httpjson.WriteError(w, err)
			return
		}
		httpjson.Write(w, http.StatusOK, toAppointmentResponse(d))
	}
}

// deleteAppointmentHandler godoc
// @Summary Eliminar una cita
// @Description Borra la cita y en cascada sus tratamientos. Solo personal clínico.
// @Tags appointments
// @Param appointmentID path int true "ID de la cita"
// @Success 204
// @Router /api/appointments/{appointmentID} [delete]
func deleteAppointmentHandler(svc *Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		p, ok := middleware.GetPrincipal(r.Context())
		if !ok {
			httpjson.WriteError(w, apperr.Unauthorized("authentication required"))
			return
		}

		id, err := pathID(r, "appointmentID")
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

// listByPetHandler godoc
// @Summary Historial clínico de una mascota
// @Description Citas de la mascota de más reciente a más antigua. Un propietario solo accede a sus mascotas.
// @Tags appointments
// @Produce json
// @Param petID path int true "ID de la mascota"
// @Router /api/pets/{petID}/appointments [get]
func listByPetHandler(svc *Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		p, ok := middleware.GetPrincipal(r.Context())
		if !ok {
			httpjson.WriteError(w, apperr.Unauthorized("authentication required"))
			return
		}

		id, err := pathID(r, "petID")
		if err != nil {
			httpjson.WriteError(w, err)
			return
		}

		items, err := svc.ListByPet(r.Context(), p, id)
		if err != nil {
			httpjson.WriteError(w, err)
			return
		}
		httpjson.Write(w, http.StatusOK, toAppointmentResponses(items))
	}
}

// listByVetHandler godoc
// @Summary Agenda de un veterinario
// @Description Citas asignadas al profesional, de más próxima a más lejana. Solo personal clínico.
// @Tags appointments
// @Produce json
// @Param vetID path int true "ID del veterinario"
// @Router /api/vets/{vetID}/appointments [get]
func listByVetHandler(svc *Service) http.HandlerFunc {
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

		items, err := svc.ListByVet(r.Context(), p, id)
		if err != nil {
			httpjson.WriteError(w, err)
			return
		}
		httpjson.Write(w, http.StatusOK, toAppointmentResponses(items))
	}
}

func toAppointmentResponse(d Detail) appointmentResponse {
	lines := make([]treatmentLine, 0, len(d.Treatments))
	for _, t := range d.Treatments {
		lines = append(lines, toTreatmentLine(t))
	}
	return appointmentResponse{
		ID:         d.ID,
		PetID:      d.PetID,
		VetID:      d.VetID,
		DateTime:   d.DateTime,
		Reason:     d.Reason,
		Diagnosis:  d.Diagnosis,
		Status:     d.Status,
		Treatments: lines,
		TotalCost:  d.TotalCost,
	}
}

func toAppointmentResponses(items []Detail) []appointmentResponse {
	out := make([]appointmentResponse, 0, len(items))
	for _, d := range items {
		out = append(out, toAppointmentResponse(d))
	}
	return out
}

func toTreatmentLine(t treatments.Treatment) treatmentLine {
	return treatmentLine{
		ID:           t.ID,
		Description:  t.Description,
		Medication:   t.Medication,
		Price:        t.Price,
		Observations: t.Observations,
	}
}

func pathID(r *http.Request, name string) (int64, error) {
	id, err := strconv.ParseInt(chi.URLParam(r, name), 10, 64)
	if err != nil || id <= 0 {
		return 0, apperr.ValidationMsg(name, "must be a positive integer")
	}
	return id, nil
}
