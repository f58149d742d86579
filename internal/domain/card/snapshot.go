package card

import "github.com/railops/cardstock-api/internal/domain/entity"

// GroupKey clave de agrupación del snapshot. StationID vacío = oficina central.
type GroupKey struct {
	CategoryID string
	TypeID     string
	StationID  string
}

// Counters contadores derivados para un grupo. No son una partición estricta:
// Unsold se solapa con InStation por definición (unidades en estación que
// nunca fueron vendidas).
type Counters struct {
	InOffice     int `json:"inOffice"`
	InStation    int `json:"inStation"`
	InTransfer   int `json:"inTransfer"`
	SoldActive   int `json:"soldActive"`
	SoldInactive int `json:"soldInactive"`
	Lost         int `json:"lost"`
	Damaged      int `json:"damaged"`
	Unsold       int `json:"unsold"`
}

// Snapshot proyección pura del estado del registro: mapa grupo -> contadores.
// Se puede recomputar desde cero o mantener incrementalmente; ambas vías deben
// coincidir (propiedad verificada en tests).
type Snapshot map[GroupKey]Counters

// keyFor deriva la clave de grupo de una unidad. Las unidades en viaje
// (IN_TRANSIT, ON_TRANSFER) cuentan en el grupo de la estación destino
// declarada por el despacho; sin destino ni residencia, en el grupo oficina.
func keyFor(c *entity.Card) GroupKey {
	k := GroupKey{CategoryID: c.CategoryID, TypeID: c.TypeID}
	switch {
	case c.StationID != nil:
		k.StationID = *c.StationID
	case c.PendingStationID != nil:
		k.StationID = *c.PendingStationID
	}
	return k
}

// add suma delta (1 o -1) al contador que corresponde al estado.
func (s Snapshot) add(key GroupKey, status entity.CardStatus, delta int) {
	c := s[key]
	switch status {
	case entity.StatusInOffice:
		c.InOffice += delta
	case entity.StatusInStation:
		c.InStation += delta
		c.Unsold += delta
	case entity.StatusInTransit, entity.StatusOnTransfer:
		c.InTransfer += delta
	case entity.StatusSoldActive:
		c.SoldActive += delta
	case entity.StatusSoldInactive:
		c.SoldInactive += delta
	case entity.StatusLost:
		c.Lost += delta
	case entity.StatusDamaged:
		c.Damaged += delta
	case entity.StatusOnRequest:
		c.Unsold += delta
	}
	if c == (Counters{}) {
		delete(s, key)
		return
	}
	s[key] = c
}

// Build recomputa el snapshot desde cero a partir del estado actual.
func Build(cards []*entity.Card) Snapshot {
	s := make(Snapshot)
	for _, c := range cards {
		s.add(keyFor(c), c.Status, 1)
	}
	return s
}

// Apply mantiene el snapshot incrementalmente ante una transición: retira la
// unidad de su grupo/estado anterior y la suma al nuevo.
func (s Snapshot) Apply(before, after *entity.Card) {
	s.add(keyFor(before), before.Status, -1)
	s.add(keyFor(after), after.Status, 1)
}

// ApplyCreated registra una unidad recién creada.
func (s Snapshot) ApplyCreated(c *entity.Card) {
	s.add(keyFor(c), c.Status, 1)
}

// Filter devuelve un snapshot restringido a los grupos que cumplen el filtro.
// Campos vacíos no filtran.
func (s Snapshot) Filter(categoryID, typeID, stationID string) Snapshot {
	out := make(Snapshot)
	for k, v := range s {
		if categoryID != "" && k.CategoryID != categoryID {
			continue
		}
		if typeID != "" && k.TypeID != typeID {
			continue
		}
		if stationID != "" && k.StationID != stationID {
			continue
		}
		out[k] = v
	}
	return out
}
