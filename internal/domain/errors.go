package domain

import (
	"errors"
	"fmt"
)

// Kind clasifica los errores de dominio; la capa HTTP lo traduce a un status.
type Kind string

const (
	KindValidation         Kind = "validation"
	KindConstraint         Kind = "constraint_violation"
	KindNotFound           Kind = "not_found"
	KindStorageUnavailable Kind = "storage_unavailable"
	KindUnauthorized       Kind = "unauthorized"
	KindForbidden          Kind = "forbidden"
)

// Errores de dominio (sin dependencias externas). Sirven como objetivo de errors.Is.
var (
	ErrValidation          = &Error{Kind: KindValidation, Message: "entrada inválida"}
	ErrConstraintViolation = &Error{Kind: KindConstraint, Message: "conflicto con el estado actual"}
	ErrNotFound            = &Error{Kind: KindNotFound, Message: "recurso no encontrado"}
	ErrStorageUnavailable  = &Error{Kind: KindStorageUnavailable, Message: "almacenamiento no disponible"}
	ErrUnauthorized        = &Error{Kind: KindUnauthorized, Message: "no autorizado"}
	ErrForbidden           = &Error{Kind: KindForbidden, Message: "acceso denegado"}
)

// FieldError describe un campo inválido en una petición.
type FieldError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

// Error es el resultado tipado que devuelven todos los casos de uso.
type Error struct {
	Kind    Kind
	Message string
	Fields  []FieldError
	Err     error
}

func (e *Error) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Err)
	}
	return e.Message
}

func (e *Error) Unwrap() error { return e.Err }

// Is compara por Kind, de modo que errors.Is(err, domain.ErrNotFound) funciona con cualquier mensaje.
func (e *Error) Is(target error) bool {
	t, ok := target.(*Error)
	if !ok {
		return false
	}
	return t.Kind == e.Kind
}

// Validation crea un ValidationError con mensaje y campos opcionales.
func Validation(message string, fields ...FieldError) error {
	return &Error{Kind: KindValidation, Message: message, Fields: fields}
}

// Constraint crea un ConstraintViolation.
func Constraint(format string, args ...any) error {
	return &Error{Kind: KindConstraint, Message: fmt.Sprintf(format, args...)}
}

// NotFound crea un NotFound para el recurso indicado.
func NotFound(resource string) error {
	return &Error{Kind: KindNotFound, Message: resource + " no encontrado"}
}

// Unauthorized crea un error de autenticación (token ausente, inválido o credenciales incorrectas).
func Unauthorized(message string) error {
	return &Error{Kind: KindUnauthorized, Message: message}
}

// Forbidden crea un error de autorización.
func Forbidden(message string) error {
	return &Error{Kind: KindForbidden, Message: message}
}

// Unavailable envuelve una falla transitoria del almacenamiento. Es seguro reintentar la operación.
func Unavailable(op string, err error) error {
	return &Error{Kind: KindStorageUnavailable, Message: op, Err: err}
}

// KindOf devuelve el Kind de err, o "" si no es un error de dominio.
func KindOf(err error) Kind {
	var de *Error
	if errors.As(err, &de) {
		return de.Kind
	}
	return ""
}

// FieldsOf devuelve los errores por campo de un ValidationError.
func FieldsOf(err error) []FieldError {
	var de *Error
	if errors.As(err, &de) {
		return de.Fields
	}
	return nil
}
