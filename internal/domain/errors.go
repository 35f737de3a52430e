package domain

import "errors"

// Errores de dominio (sin dependencias externas).
// Los casos de uso los envuelven con fmt.Errorf("%w: detalle") para dar mensajes descriptivos.
var (
	ErrNotFound     = errors.New("recurso no encontrado")
	ErrInvalidInput = errors.New("entrada inválida")
	ErrDuplicate    = errors.New("recurso duplicado")
	ErrUnauthorized = errors.New("no autorizado")
	ErrForbidden    = errors.New("acceso denegado")
	ErrConflict     = errors.New("conflicto con el estado actual")

	// Validación de proyectos
	ErrSizeSumMismatch = errors.New("la suma de tallas no coincide con la cantidad de la prenda")

	// Secuencia de áreas
	ErrInvalidArea      = errors.New("área de producción inválida")
	ErrOutOfOrder       = errors.New("las áreas deben completarse en orden")
	ErrAlreadyComplete  = errors.New("el área ya está completa")
	ErrNothingToRetreat = errors.New("no hay áreas completas para retroceder")
	ErrProjectClosed    = errors.New("el proyecto está cancelado o archivado")

	// Recursos (insumos)
	ErrOutOfStockCatalog = errors.New("no existe ningún insumo del tipo de material requerido")
	ErrInsufficientStock = errors.New("stock insuficiente")
)
