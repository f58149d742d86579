package card

import (
	"github.com/railops/cardstock-api/internal/domain"
	"github.com/railops/cardstock-api/internal/domain/entity"
)

// transitions tabla exhaustiva de aristas permitidas del ciclo de vida.
// LOST y DAMAGED son terminales (sin entrada en la tabla). SOLD_ACTIVE y
// SOLD_INACTIVE son reversibles entre sí; la venta la ejecuta un colaborador
// externo pero la arista debe estar permitida aquí.
var transitions = map[entity.CardStatus][]entity.CardStatus{
	entity.StatusOnRequest: {entity.StatusInOffice},
	entity.StatusInOffice:  {entity.StatusInTransit, entity.StatusLost, entity.StatusDamaged},
	entity.StatusInTransit: {entity.StatusInStation, entity.StatusLost, entity.StatusDamaged},
	entity.StatusInStation: {
		entity.StatusOnTransfer, entity.StatusSoldActive, entity.StatusSoldInactive,
		entity.StatusLost, entity.StatusDamaged,
	},
	entity.StatusOnTransfer:   {entity.StatusInStation, entity.StatusLost, entity.StatusDamaged},
	entity.StatusSoldActive:   {entity.StatusSoldInactive},
	entity.StatusSoldInactive: {entity.StatusSoldActive},
}

// CanTransition indica si la arista from -> to pertenece al grafo permitido.
func CanTransition(from, to entity.CardStatus) bool {
	for _, t := range transitions[from] {
		if t == to {
			return true
		}
	}
	return false
}

// ValidateTransition valida la arista y los valores de estado.
// Devuelve ErrInvalidTransition si la arista no existe en el grafo.
func ValidateTransition(from, to entity.CardStatus) error {
	if !from.IsValid() || !to.IsValid() {
		return domain.ErrInvalidTransition
	}
	if !CanTransition(from, to) {
		return domain.ErrInvalidTransition
	}
	return nil
}

// InitialStatus estado inicial de una unidad según el tipo de programa.
func InitialStatus(programType string) entity.CardStatus {
	if programType == entity.ProgramVoucher {
		return entity.StatusOnRequest
	}
	return entity.StatusInOffice
}
