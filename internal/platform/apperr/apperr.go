package apperr

import (
	"errors"
	"fmt"
)

// Kind clasifica los errores de negocio que cruzan la frontera de servicios.
type Kind int

const (
	KindInternal Kind = iota
	KindNotFound
	KindPermissionDenied
	KindValidation
	KindConflict
	KindUnauthorized
)

// Error es el error estructurado que devuelven servicios y repositorios.
// Los handlers lo traducen a HTTP vía httpjson.WriteError.
type Error struct {
	Kind    Kind
	Message string

	// Fields contiene errores de validación campo → mensaje.
	Fields map[string]string

	cause error
}

func (e *Error) Error() string {
	if e.cause != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.cause)
	}
	return e.Message
}

func (e *Error) Unwrap() error { return e.cause }

// NotFound construye un error 404 con entidad e id en el mensaje.
func NotFound(entity string, id int64) *Error {
	return &Error{
		Kind:    KindNotFound,
		Message: fmt.Sprintf("%s with id %d does not exist", entity, id),
	}
}

func NotFoundMsg(msg string) *Error {
	return &Error{Kind: KindNotFound, Message: msg}
}

// PermissionDenied: autenticado pero sin acceso al recurso concreto.
// Distinto de NotFound por contrato explícito (el 403 puede revelar existencia).
func PermissionDenied(msg string) *Error {
	return &Error{Kind: KindPermissionDenied, Message: msg}
}

// Validation agrupa errores campo → mensaje de un DTO de entrada.
func Validation(fields map[string]string) *Error {
	return &Error{
		Kind:    KindValidation,
		Message: "validation failed",
		Fields:  fields,
	}
}

func ValidationMsg(field, msg string) *Error {
	return Validation(map[string]string{field: msg})
}

// Conflict cubre violaciones de unicidad e integridad referencial.
// Nunca expone el texto crudo del error de base de datos.
func Conflict(msg string) *Error {
	return &Error{Kind: KindConflict, Message: msg}
}

func Unauthorized(msg string) *Error {
	return &Error{Kind: KindUnauthorized, Message: msg}
}

// Internal envuelve errores inesperados; el detalle queda para los logs.
func Internal(err error) *Error {
	return &Error{Kind: KindInternal, Message: "internal error", cause: err}
}

// KindOf extrae el Kind de un error; KindInternal si no es *Error.
func KindOf(err error) Kind {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind
	}
	return KindInternal
}

func IsNotFound(err error) bool         { return KindOf(err) == KindNotFound }
func IsPermissionDenied(err error) bool { return KindOf(err) == KindPermissionDenied }
func IsValidation(err error) bool       { return KindOf(err) == KindValidation }
func IsConflict(err error) bool         { return KindOf(err) == KindConflict }
func IsUnauthorized(err error) bool     { return KindOf(err) == KindUnauthorized }
