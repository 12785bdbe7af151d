package treatments

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
	r.Route("/treatments", func(tr chi.Router) {
		tr.Post("/", createTreatmentHandler(svc))
		tr.Get("/", listTreatmentsHandler(svc))
		tr.Get("/appointment/{appointmentID}", listByAppointmentHandler(svc))
		tr.Get("/{treatmentID}", getTreatmentHandler(svc))
		tr.Put("/{treatmentID}", updateTreatmentHandler(svc))
		tr.Delete("/{treatmentID}", deleteTreatmentHandler(svc))
	})
}

type createTreatmentRequest struct {
	AppointmentID int64    `json:"appointment_id"`
	Description   string   `json:"description"`
	Medication    string   `json:"medication"`
	Price         *float64 `json:"price"` // obligatorio; 0 es válido
	Observations  string   `json:"observations"`
}

type updateTreatmentRequest struct {
	// Punteros para PATCH real: nil = no tocar.
	AppointmentID *int64   `json:"appointment_id"`
	Description   *string  `json:"description"`
	Medication    *string  `json:"medication"`
	Price         *float64 `json:"price"`
	Observations  *string  `json:"observations"`
}

type treatmentResponse struct {
	ID            int64   `json:"id"`
	AppointmentID int64   `json:"appointment_id"`
	Description   string  `json:"description"`
	Medication    string  `json:"medication,omitempty"`
	Price         float64 `json:"price"`
	Observations  string  `json:"observations,omitempty"`
}

// createTreatmentHandler godoc
// @Summary Registrar un tratamiento
// @Description Añade una línea de servicio a una cita existente (404 si la cita no existe). Solo personal clínico.
// @Tags treatments
// @Accept json
// @Produce json
// @Param payload body createTreatmentRequest true "Datos del tratamiento"
// @Success 201 {object} treatmentResponse
// @Router /api/treatments [post]
func createTreatmentHandler(svc *Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		p, ok := middleware.GetPrincipal(r.Context())
		if !ok {
			httpjson.WriteError(w, apperr.Unauthorized("authentication required"))
			return
		}

		var req createTreatmentRequest
		if err := httpjson.Decode(r, &req); err != nil {
			httpjson.WriteError(w, err)
			return
		}

		t, err := svc.Create(r.Context(), p, CreateInput(req))
		if err != nil {
			httpjson.WriteError(w, err)
			return
		}
		httpjson.Write(w, http.StatusCreated, toTreatmentResponse(t))
	}
}

// listTreatmentsHandler godoc
// @Summary Listar tratamientos
// @Description Staff: listado paginado con búsqueda por descripción o medicamento. Un propietario solo ve los de sus mascotas.
// @Tags treatments
// @Produce json
// @Param page query int false "Página (0-based)"
// @Param size query int false "Tamaño de página (máx 100)"
// @Param sort query string false "Campo de orden: id, price, description"
// @Param search query string false "Substring sobre descripción o medicamento"
// @Router /api/treatments [get]
func listTreatmentsHandler(svc *Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		p, ok := middleware.GetPrincipal(r.Context())
		if !ok {
			httpjson.WriteError(w, apperr.Unauthorized("authentication required"))
			return
		}

		page, err := svc.List(r.Context(), p, listing.FromRequest(r))
		if err != nil {
			httpjson.WriteError(w, err)
			return
		}

		out := make([]treatmentResponse, 0, len(page.Items))
		for _, t := range page.Items {
			out = append(out, toTreatmentResponse(t))
		}
		httpjson.Write(w, http.StatusOK, listing.Page[treatmentResponse]{
			Items: out, Total: page.Total, Page: page.Page, Size: page.Size, TotalPages: page.TotalPages,
		})
	}
}

// listByAppointmentHandler godoc
// @Summary Tratamientos de una cita
// @Description Desglose de servicios de la cita. Un propietario solo accede a citas de sus mascotas.
// @Tags treatments
// @Produce json
// @Param appointmentID path int true "ID de la cita"
// @Router /api/treatments/appointment/{appointmentID} [get]
func listByAppointmentHandler(svc *Service) http.HandlerFunc {
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

		items, err := svc.ListByAppointment(r.Context(), p, id)
		if err != nil {
			httpjson.WriteError(w, err)
			return
		}

		out := make([]treatmentResponse, 0, len(items))
		for _, t := range items {
			out = append(out, toTreatmentResponse(t))
		}
		httpjson.Write(w, http.StatusOK, out)
	}
}

// getTreatmentHandler godoc
// @Summary Consultar un tratamiento
// @Tags treatments
// @Produce json
// @Param treatmentID path int true "ID del tratamiento"
// @Router /api/treatments/{treatmentID} [get]
func getTreatmentHandler(svc *Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		p, ok := middleware.GetPrincipal(r.Context())
		if !ok {
			httpjson.WriteError(w, apperr.Unauthorized("authentication required"))
			return
		}

		id, err := pathID(r, "treatmentID")
		if err != nil {
			httpjson.WriteError(w, err)
			return
		}

		t, err := svc.Get(r.Context(), p, id)
		if err != nil {
			httpjson.WriteError(w, err)
			return
		}
		httpjson.Write(w, http.StatusOK, toTreatmentResponse(t))
	}
}

// updateTreatmentHandler godoc
// @Summary Actualizar un tratamiento
// @Description Actualización parcial; appointment_id permite reapuntar a otra cita existente. Solo personal clínico.
// @Tags treatments
// @Accept json
// @Produce json
// @Param treatmentID path int true "ID del tratamiento"
// @Param payload body updateTreatmentRequest true "Campos a modificar"
// @Router /api/treatments/{treatmentID} [put]
func updateTreatmentHandler(svc *Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		p, ok := middleware.GetPrincipal(r.Context())
		if !ok {
			httpjson.WriteError(w, apperr.Unauthorized("authentication required"))
			return
		}

		id, err := pathID(r, "treatmentID")
		if err != nil {
			httpjson.WriteError(w, err)
			return
		}

		var req updateTreatmentRequest
		if err := httpjson.Decode(r, &req); err != nil {
			httpjson.WriteError(w, err)
			return
		}

		t, err := svc.Update(r.Context(), p, id, UpdateInput(req))
		if err != nil {
			httpjson.WriteError(w, err)
			return
		}
		httpjson.Write(w, http.StatusOK, toTreatmentResponse(t))
	}
}

// deleteTreatmentHandler godoc
// @Summary Eliminar un tratamiento
// @Description Borrado simple: el tratamiento es hoja. Solo personal clínico.
// @Tags treatments
// @Param treatmentID path int true "ID del tratamiento"
// @Success 204
// @Router /api/treatments/{treatmentID} [delete]
func deleteTreatmentHandler(svc *Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		p, ok := middleware.GetPrincipal(r.Context())
		if !ok {
			httpjson.WriteError(w, apperr.Unauthorized("authentication required"))
			return
		}

		id, err := pathID(r, "treatmentID")
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

func toTreatmentResponse(t Treatment) treatmentResponse {
	return treatmentResponse{
		ID:            t.ID,
		AppointmentID: t.AppointmentID,
		Description:   t.Description,
		Medication:    t.Medication,
		Price:         t.Price,
		Observations:  t.Observations,
	}
}

func pathID(r *http.Request, name string) (int64, error) {
	id, err := strconv.ParseInt(chi.URLParam(r, name), 10, 64)
	if err != nil || id <= 0 {
		return 0, apperr.ValidationMsg(name, "must be a positive integer")
	}
	return id, nil
}
