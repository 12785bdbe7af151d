package clients

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
	r.Route("/clients", func(cr chi.Router) {
		cr.Post("/", createClientHandler(svc))
		cr.Get("/", listClientsHandler(svc))
		cr.Get("/dni/{dni}", getClientByDNIHandler(svc))
		cr.Get("/{clientID}", getClientHandler(svc))
		cr.Put("/{clientID}", updateClientHandler(svc))
		cr.Delete("/{clientID}", deleteClientHandler(svc))
	})
}

type createClientRequest struct {
	Name    string `json:"name"`
	Surname string `json:"surname"`
	DNI     string `json:"dni"`
	Phone   string `json:"phone"`
	Address string `json:"address"`
	Email   string `json:"email"`
}

type updateClientRequest struct {
	// Punteros para PATCH real: nil = no tocar.
	Name    *string `json:"name"`
	Surname *string `json:"surname"`
	Phone   *string `json:"phone"`
	Address *string `json:"address"`
	Email   *string `json:"email"`
}

type clientResponse struct {
	ID      int64  `json:"id"`
	Name    string `json:"name"`
	Surname string `json:"surname"`
	DNI     string `json:"dni"`
	Phone   string `json:"phone"`
	Address string `json:"address"`
	Email   string `json:"email"`
}

// createClientHandler godoc
// @Summary Dar de alta un cliente
// @Description Crea la ficha de un propietario. Solo personal clínico. DNI duplicado devuelve 409.
// @Tags clients
// @Accept json
// @Produce json
// @Param Authorization header string false "Bearer token"
// @Param payload body createClientRequest true "Datos del cliente"
// @Success 201 {object} clientResponse
// @Router /api/clients [post]
func createClientHandler(svc *Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		p, ok := middleware.GetPrincipal(r.Context())
		if !ok {
			httpjson.WriteError(w, apperr.Unauthorized("authentication required"))
			return
		}

		var req createClientRequest
		if err := httpjson.Decode(r, &req); err != nil {
			httpjson.WriteError(w, err)
			return
		}

		c, err := svc.Create(r.Context(), p, CreateInput(req))
		if err != nil {
			httpjson.WriteError(w, err)
			return
		}
		httpjson.Write(w, http.StatusCreated, toClientResponse(c))
	}
}

// listClientsHandler godoc
// @Summary Listar clientes
// @Description Staff: listado paginado con búsqueda por apellidos o DNI. Un propietario solo ve su propia ficha.
// @Tags clients
// @Produce json
// @Param page query int false "Página (0-based)"
// @Param size query int false "Tamaño de página (máx 100)"
// @Param sort query string false "Campo de orden: id, name, surname, dni"
// @Param search query string false "Substring sobre apellidos o DNI"
// @Router /api/clients [get]
func listClientsHandler(svc *Service) http.HandlerFunc {
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

		out := make([]clientResponse, 0, len(page.Items))
		for _, c := range page.Items {
			out = append(out, toClientResponse(c))
		}
		httpjson.Write(w, http.StatusOK, listing.Page[clientResponse]{
			Items: out, Total: page.Total, Page: page.Page, Size: page.Size, TotalPages: page.TotalPages,
		})
	}
}

// getClientHandler godoc
// @Summary Consultar un cliente
// @Description Staff lee cualquier ficha; un propietario solo la suya (403 en otro caso).
// @Tags clients
// @Produce json
// @Param clientID path int true "ID del cliente"
// @Router /api/clients/{clientID} [get]
func getClientHandler(svc *Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		p, ok := middleware.GetPrincipal(r.Context())
		if !ok {
			httpjson.WriteError(w, apperr.Unauthorized("authentication required"))
			return
		}

		id, err := pathID(r, "clientID")
		if err != nil {
			httpjson.WriteError(w, err)
			return
		}

		c, err := svc.Get(r.Context(), p, id)
		if err != nil {
			httpjson.WriteError(w, err)
			return
		}
		httpjson.Write(w, http.StatusOK, toClientResponse(c))
	}
}

// getClientByDNIHandler godoc
// @Summary Buscar cliente por DNI
// @Description Búsqueda exacta por DNI. Solo personal clínico.
// @Tags clients
// @Produce json
// @Param dni path string true "DNI del cliente"
// @Router /api/clients/dni/{dni} [get]
func getClientByDNIHandler(svc *Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		p, ok := middleware.GetPrincipal(r.Context())
		if !ok {
			httpjson.WriteError(w, apperr.Unauthorized("authentication required"))
			return
		}

		c, err := svc.GetByDNI(r.Context(), p, chi.URLParam(r, "dni"))
		if err != nil {
			httpjson.WriteError(w, err)
			return
		}
		httpjson.Write(w, http.StatusOK, toClientResponse(c))
	}
}

// updateClientHandler godoc
// @Summary Actualizar un cliente
// @Description Actualización parcial: solo cambian los campos presentes. El DNI no se modifica. Solo personal clínico.
// @Tags clients
// @Accept json
// @Produce json
// @Param clientID path int true "ID del cliente"
// @Param payload body updateClientRequest true "Campos a modificar"
// @Router /api/clients/{clientID} [put]
func updateClientHandler(svc *Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		p, ok := middleware.GetPrincipal(r.Context())
		if !ok {
			httpjson.WriteError(w, apperr.Unauthorized("authentication required"))
			return
		}

		id, err := pathID(r, "clientID")
		if err != nil {
			httpjson.WriteError(w, err)
			return
		}

		var req updateClientRequest
		if err := httpjson.Decode(r, &req); err != nil {
			httpjson.WriteError(w, err)
			return
		}

		c, err := svc.Update(r.Context(), p, id, UpdateInput(req))
		if err != nil {
			httpjson.WriteError(w, err)
			return
		}
		httpjson.Write(w, http.StatusOK, toClientResponse(c))
	}
}

// deleteClientHandler godoc
// @Summary Eliminar un cliente
// @Description Borra la ficha y en cascada sus mascotas, citas y tratamientos. Con cuenta vinculada devuelve 409. Solo personal clínico.
// @Tags clients
// @Param clientID path int true "ID del cliente"
// @Success 204
// @Router /api/clients/{clientID} [delete]
func deleteClientHandler(svc *Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		p, ok := middleware.GetPrincipal(r.Context())
		if !ok {
			httpjson.WriteError(w, apperr.Unauthorized("authentication required"))
			return
		}

		id, err := pathID(r, "clientID")
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

func toClientResponse(c Client) clientResponse {
	return clientResponse{
		ID:      c.ID,
		Name:    c.Name,
		Surname: c.Surname,
		DNI:     c.DNI,
		Phone:   c.Phone,
		Address: c.Address,
		Email:   c.Email,
	}
}

func pathID(r *http.Request, name string) (int64, error) {
	id, err := strconv.ParseInt(chi.URLParam(r, name), 10, 64)
	if err != nil || id <= 0 {
		return 0, apperr.ValidationMsg(name, "must be a positive integer")
	}
	return id, nil
}
