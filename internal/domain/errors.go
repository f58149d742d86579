package domain

import "errors"

// Errores de dominio (sin dependencias externas).
// Cada uno mapea a un código estable en la capa HTTP; nunca se reintentan
// automáticamente: reintentar una transición rechazada es decisión del caller.
var (
	ErrNotFound             = errors.New("recurso no encontrado")
	ErrDuplicateSerial      = errors.New("número de serie ya registrado")
	ErrInvalidTransition    = errors.New("transición de estado no permitida")
	ErrInvalidSourceState   = errors.New("la tarjeta no está en el estado requerido")
	ErrIncompleteResolution = errors.New("los conjuntos no particionan los seriales enviados")
	ErrAlreadyResolved      = errors.New("la transferencia ya fue resuelta")
	ErrQuotaExceeded        = errors.New("cuota del producto excedida")
	ErrAlreadyExists        = errors.New("el recurso ya existe")
	ErrInvalidInput         = errors.New("entrada inválida")
	ErrUserNotFound         = errors.New("usuario no encontrado")
	ErrUnauthorized         = errors.New("no autorizado")
	ErrForbidden            = errors.New("acceso denegado")
)
