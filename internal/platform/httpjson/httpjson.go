package httpjson

import (
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"vet-clinic-backend/internal/platform/apperr"
)

// Antes cada módulo duplicaba su writeJSON; con seis módulos ya compensa
// el helper común (y un único punto de mapeo error → status).

func Write(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

// ErrorBody es la respuesta de error estructurada de la API.
type ErrorBody struct {
	Timestamp time.Time         `json:"timestamp"`
	Status    int               `json:"status"`
	Error     string            `json:"error"`
	Message   string            `json:"message,omitempty"`
	Fields    map[string]string `json:"fields,omitempty"`
}

// WriteError traduce un error de servicio a su respuesta HTTP.
// Los errores internos no filtran detalle al cliente.
func WriteError(w http.ResponseWriter, err error) {
	status := http.StatusInternalServerError
	label := "internal server error"
	msg := ""
	var fields map[string]string

	var e *apperr.Error
	if errors.As(err, &e) {
		switch e.Kind {
		case apperr.KindNotFound:
			status, label, msg = http.StatusNotFound, "not found", e.Message
		case apperr.KindPermissionDenied:
			status, label, msg = http.StatusForbidden, "forbidden", e.Message
		case apperr.KindValidation:
			status, label, fields = http.StatusBadRequest, "validation error", e.Fields
		case apperr.KindConflict:
			status, label, msg = http.StatusConflict, "conflict", e.Message
		case apperr.KindUnauthorized:
			status, label, msg = http.StatusUnauthorized, "unauthorized", e.Message
		}
	}

	Write(w, status, ErrorBody{
		Timestamp: time.Now().UTC(),
		Status:    status,
		Error:     label,
		Message:   msg,
		Fields:    fields,
	})
}

// Decode decodifica el body JSON ignorando campos desconocidos: un cliente
// puede reenviar tal cual el body de un GET (con id, colecciones anidadas,
// campos calculados) y el PUT solo aplica lo que el DTO declara.
func Decode(r *http.Request, dst any) error {
	if err := json.NewDecoder(r.Body).Decode(dst); err != nil {
		return apperr.ValidationMsg("body", "invalid json")
	}
	return nil
}
