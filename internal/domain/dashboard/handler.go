package dashboard

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"vet-clinic-backend/internal/middleware"
	"vet-clinic-backend/internal/platform/apperr"
	"vet-clinic-backend/internal/platform/httpjson"
)

func RegisterRoutes(r chi.Router, svc *Service) {
	r.Get("/dashboard", overviewHandler(svc))
}

type recentAppointment struct {
	ID       int64     `json:"id"`
	PetID    int64     `json:"pet_id"`
	VetID    *int64    `json:"vet_id,omitempty"`
	DateTime time.Time `json:"date_time"`
	Reason   string    `json:"reason"`
	Status   string    `json:"status,omitempty"`
}

type overviewResponse struct {
	TotalClients      int `json:"total_clients"`
	TotalPets         int `json:"total_pets"`
	TotalVets         int `json:"total_vets"`
	TotalAppointments int `json:"total_appointments"`

	RecentAppointments []recentAppointment `json:"recent_appointments"`
}

// overviewHandler godoc
// @Summary Panel de la clínica
// @Description KPIs globales (totales por entidad) y las 5 citas más recientes. Solo personal clínico.
// @Tags dashboard
// @Produce json
// @Success 200 {object} overviewResponse
// @Router /api/dashboard [get]
func overviewHandler(svc *Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		p, ok := middleware.GetPrincipal(r.Context())
		if !ok {
			httpjson.WriteError(w, apperr.Unauthorized("authentication required"))
			return
		}

		st, err := svc.Overview(r.Context(), p)
		if err != nil {
			httpjson.WriteError(w, err)
			return
		}

		recent := make([]recentAppointment, 0, len(st.RecentAppointments))
		for _, a := range st.RecentAppointments {
			recent = append(recent, recentAppointment{
				ID:       a.ID,
				PetID:    a.PetID,
				VetID:    a.VetID,
				DateTime: a.DateTime,
				Reason:   a.Reason,
				Status:   a.Status,
			})
		}
		httpjson.Write(w, http.StatusOK, overviewResponse{
			TotalClients:       st.TotalClients,
			TotalPets:          st.TotalPets,
			TotalVets:          st.TotalVets,
			TotalAppointments:  st.TotalAppointments,
			RecentAppointments: recent,
		})
	}
}
