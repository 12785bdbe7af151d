package pets

import (
	"encoding/json"
	"io"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"

	"vet-clinic-backend/internal/middleware"
	"vet-clinic-backend/internal/platform/apperr"
	"vet-clinic-backend/internal/platform/httpjson"
	"vet-clinic-backend/internal/platform/listing"
)

// maxPhotoBytes limita el tamaño del multipart de subida de imagen.
const maxPhotoBytes = 5 << 20

func RegisterRoutes(r chi.Router, svc *Service) {
	r.Route("/pets", func(pr chi.Router) {
		pr.Post("/", createPetHandler(svc))
		pr.Get("/", listPetsHandler(svc))
		pr.Get("/image/{file}", downloadPetImageHandler(svc))
		pr.Get("/{petID}", getPetHandler(svc))
		pr.Put("/{petID}", updatePetHandler(svc))
		pr.Delete("/{petID}", deletePetHandler(svc))
		pr.Post("/{petID}/image", uploadPetImageHandler(svc))
	})

	// Mascotas de un cliente concreto.
	r.Get("/clients/{clientID}/pets", listPetsByClientHandler(svc))
}

type createPetRequest struct {
	ClientID  int64   `json:"client_id"`
	Name      string  `json:"name"`
	Species   string  `json:"species"`
	Breed     string  `json:"breed"`
	BirthDate string  `json:"birth_date"` // YYYY-MM-DD opcional
	Weight    float64 `json:"weight"`
}

type updatePetRequest struct {
	// Punteros para PATCH real: nil = no tocar.
	Name     *string  `json:"name"`
	Species  *string  `json:"species"`
	Breed    *string  `json:"breed"`
	Weight   *float64 `json:"weight"`
	ClientID *int64   `json:"client_id"`
}

type petResponse struct {
	ID        int64      `json:"id"`
	ClientID  int64      `json:"client_id"`
	Name      string     `json:"name"`
	Species   string     `json:"species"`
	Breed     string     `json:"breed"`
	BirthDate *string    `json:"birth_date,omitempty"`
	Weight    float64    `json:"weight"`
	PhotoFile string     `json:"photo_file,omitempty"`
}

// createPetHandler godoc
// @Summary Dar de alta una mascota
// @Description Registra un paciente vinculado a su cliente propietario. Solo personal clínico.
// @Tags pets
// @Accept json
// @Produce json
// @Param payload body createPetRequest true "Datos de la mascota; birth_date en formato YYYY-MM-DD"
// @Success 201 {object} petResponse
// @Router /api/pets [post]
func createPetHandler(svc *Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		p, ok := middleware.GetPrincipal(r.Context())
		if !ok {
			httpjson.WriteError(w, apperr.Unauthorized("authentication required"))
			return
		}

		var req createPetRequest
		if err := httpjson.Decode(r, &req); err != nil {
			httpjson.WriteError(w, err)
			return
		}

		var bd *time.Time
		if strings.TrimSpace(req.BirthDate) != "" {
			t, err := time.Parse("2006-01-02", req.BirthDate)
			if err != nil {
				httpjson.WriteError(w, apperr.ValidationMsg("birth_date", "birth_date must be YYYY-MM-DD"))
				return
			}
			bd = &t
		}

		pet, err := svc.Create(r.Context(), p, CreateInput{
			ClientID:  req.ClientID,
			Name:      req.Name,
			Species:   req.Species,
			Breed:     req.Breed,
			BirthDate: bd,
			Weight:    req.Weight,
		})
		if err != nil {
			httpjson.WriteError(w, err)
			return
		}
		httpjson.Write(w, http.StatusCreated, toPetResponse(pet))
	}
}

// listPetsHandler godoc
// @Summary Listar mascotas
// @Description Staff: listado paginado con búsqueda por nombre, especie o raza. Un propietario solo ve sus mascotas.
// @Tags pets
// @Produce json
// @Param page query int false "Página (0-based)"
// @Param size query int false "Tamaño de página (máx 100)"
// @Param sort query string false "Campo de orden: id, name, species"
// @Param search query string false "Substring sobre nombre, especie o raza"
// @Router /api/pets [get]
func listPetsHandler(svc *Service) http.HandlerFunc {
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

		out := make([]petResponse, 0, len(page.Items))
		for _, pet := range page.Items {
			out = append(out, toPetResponse(pet))
		}
		httpjson.Write(w, http.StatusOK, listing.Page[petResponse]{
			Items: out, Total: page.Total, Page: page.Page, Size: page.Size, TotalPages: page.TotalPages,
		})
	}
}

// listPetsByClientHandler godoc
// @Summary Mascotas de un cliente
// @Description Staff lee las de cualquier cliente; un propietario solo las suyas.
// @Tags pets
// @Produce json
// @Param clientID path int true "ID del cliente"
// @Router /api/clients/{clientID}/pets [get]
func listPetsByClientHandler(svc *Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		p, ok := middleware.GetPrincipal(r.Context())
		if !ok {
			httpjson.WriteError(w, apperr.Unauthorized("authentication required"))
			return
		}

		clientID, err := pathID(r, "clientID")
		if err != nil {
			httpjson.WriteError(w, err)
			return
		}

		items, err := svc.ListByClient(r.Context(), p, clientID)
		if err != nil {
			httpjson.WriteError(w, err)
			return
		}

		out := make([]petResponse, 0, len(items))
		for _, pet := range items {
			out = append(out, toPetResponse(pet))
		}
		httpjson.Write(w, http.StatusOK, out)
	}
}

// getPetHandler godoc
// @Summary Consultar una mascota
// @Description Staff lee cualquier mascota; un propietario solo las suyas (403 en otro caso).
// @Tags pets
// @Produce json
// @Param petID path int true "ID de la mascota"
// @Router /api/pets/{petID} [get]
func getPetHandler(svc *Service) http.HandlerFunc {
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

		pet, err := svc.Get(r.Context(), p, id)
		if err != nil {
			httpjson.WriteError(w, err)
			return
		}
		httpjson.Write(w, http.StatusOK, toPetResponse(pet))
	}
}

// updatePetHandler godoc
// @Summary Actualizar una mascota
// @Description Actualización parcial. "birth_date": null limpia la fecha; el campo ausente no la toca. Solo personal clínico.
// @Tags pets
// @Accept json
// @Produce json
// @Param petID path int true "ID de la mascota"
// @Param payload body updatePetRequest true "Campos a modificar"
// @Router /api/pets/{petID} [put]
func updatePetHandler(svc *Service) http.HandlerFunc {
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

		// Para soportar birth_date: null hay que detectar presencia del campo.
		// Estrategia: decodificar a map primero y re-unmarshal al struct.
		var raw map[string]json.RawMessage
		if err := httpjson.Decode(r, &raw); err != nil {
			httpjson.WriteError(w, err)
			return
		}

		var req updatePetRequest
		{
			b, _ := json.Marshal(raw)
			if err := json.Unmarshal(b, &req); err != nil {
				httpjson.WriteError(w, apperr.ValidationMsg("body", "invalid json"))
				return
			}
		}

		bd := PatchDate{}
		if v, exists := raw["birth_date"]; exists {
			bd.Present = true
			if string(v) != "null" {
				var s string
				if err := json.Unmarshal(v, &s); err != nil {
					httpjson.WriteError(w, apperr.ValidationMsg("birth_date", "birth_date must be YYYY-MM-DD or null"))
					return
				}
				t, err := time.Parse("2006-01-02", s)
				if err != nil {
					httpjson.WriteError(w, apperr.ValidationMsg("birth_date", "birth_date must be YYYY-MM-DD or null"))
					return
				}
				bd.Value = &t
			}
		}

		pet, err := svc.Update(r.Context(), p, id, UpdateInput{
			Name:      req.Name,
			Species:   req.Species,
			Breed:     req.Breed,
			BirthDate: bd,
			Weight:    req.Weight,
			ClientID:  req.ClientID,
		})
		if err != nil {
			httpjson.WriteError(w, err)
			return
		}
		httpjson.Write(w, http.StatusOK, toPetResponse(pet))
	}
}

// deletePetHandler godoc
// @Summary Eliminar una mascota
// @Description Borra el paciente y en cascada sus citas y tratamientos. Solo personal clínico.
// @Tags pets
// @Param petID path int true "ID de la mascota"
// @Success 204
// @Router /api/pets/{petID} [delete]
func deletePetHandler(svc *Service) http.HandlerFunc {
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

		if err := svc.Delete(r.Context(), p, id); err != nil {
			httpjson.WriteError(w, err)
			return
		}
		w.WriteHeader(http.StatusNoContent)
	}
}

// uploadPetImageHandler godoc
// @Summary Subir foto de una mascota
// @Description Multipart con campo "file". Sustituye la foto anterior si existía. Solo personal clínico.
// @Tags pets
// @Accept mpfd
// @Produce json
// @Param petID path int true "ID de la mascota"
// @Param file formData file true "Imagen (jpeg, png, gif o webp)"
// @Router /api/pets/{petID}/image [post]
func uploadPetImageHandler(svc *Service) http.HandlerFunc {
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

		r.Body = http.MaxBytesReader(w, r.Body, maxPhotoBytes)
		if err := r.ParseMultipartForm(maxPhotoBytes); err != nil {
			httpjson.WriteError(w, apperr.ValidationMsg("file", "invalid multipart payload"))
			return
		}

		file, header, err := r.FormFile("file")
		if err != nil {
			httpjson.WriteError(w, apperr.ValidationMsg("file", "file field is required"))
			return
		}
		defer file.Close()

		data, err := io.ReadAll(file)
		if err != nil {
			httpjson.WriteError(w, apperr.Internal(err))
			return
		}

		pet, err := svc.AttachPhoto(r.Context(), p, id, data, header.Header.Get("Content-Type"))
		if err != nil {
			httpjson.WriteError(w, err)
			return
		}
		httpjson.Write(w, http.StatusOK, toPetResponse(pet))
	}
}

// downloadPetImageHandler godoc
// @Summary Descargar foto de una mascota
// @Description Sirve el binario de la imagen por su nombre de fichero.
// @Tags pets
// @Produce octet-stream
// @Param file path string true "Nombre de fichero de la imagen"
// @Router /api/pets/image/{file} [get]
func downloadPetImageHandler(svc *Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if _, ok := middleware.GetPrincipal(r.Context()); !ok {
			httpjson.WriteError(w, apperr.Unauthorized("authentication required"))
			return
		}

		data, ct, err := svc.LoadPhoto(r.Context(), chi.URLParam(r, "file"))
		if err != nil {
			httpjson.WriteError(w, err)
			return
		}
		w.Header().Set("Content-Type", ct)
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write(data)
	}
}

func toPetResponse(p Pet) petResponse {
	resp := petResponse{
		ID:        p.ID,
		ClientID:  p.ClientID,
		Name:      p.Name,
		Species:   p.Species,
		Breed:     p.Breed,
		Weight:    p.Weight,
		PhotoFile: p.PhotoFile,
	}
	if p.BirthDate != nil {
		s := p.BirthDate.Format("2006-01-02")
		resp.BirthDate = &s
	}
	return resp
}

func pathID(r *http.Request, name string) (int64, error) {
	id, err := strconv.ParseInt(chi.URLParam(r, name), 10, 64)
	if err != nil || id <= 0 {
		return 0, apperr.ValidationMsg(name, "must be a positive integer")
	}
	return id, nil
}
