package domain

import "errors"

// Errores de dominio (sin dependencias externas).
var (
	ErrNotFound            = errors.New("recurso no encontrado")
	ErrUserNotFound        = errors.New("usuario no encontrado")
	ErrInvalidInput        = errors.New("entrada inválida")
	ErrUnauthorized        = errors.New("no autorizado")
	ErrForbidden           = errors.New("acceso denegado")
	ErrInvalidQuantity     = errors.New("cantidad de inventario inválida (debe ser >= 0)")
	ErrDuplicateBusinessKey = errors.New("ya existe una entidad con esa clave de negocio")
	ErrDuplicateKeyOnRekey = errors.New("ya existe otro producto con el nuevo código")
	ErrMissingReference    = errors.New("referencia a sitio o producto inexistente")
	ErrRestoreFailed       = errors.New("restauración fallida; cambios cancelados")
)
