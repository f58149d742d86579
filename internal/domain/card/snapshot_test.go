package card_test

import (
	"fmt"
	"math/rand"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/railops/cardstock-api/internal/domain/card"
	"github.com/railops/cardstock-api/internal/domain/entity"
)

func unit(serial, categoryID, typeID string, status entity.CardStatus, stationID *string) *entity.Card {
	return &entity.Card{
		SerialNumber: serial,
		CategoryID:   categoryID,
		TypeID:       typeID,
		Status:       status,
		StationID:    stationID,
	}
}

func strPtr(s string) *string { return &s }

func TestBuild_ContadoresPorGrupo(t *testing.T) {
	sta1 := strPtr("STA1")
	cards := []*entity.Card{
		unit("A1", "GOLD", "REG", entity.StatusInOffice, nil),
		unit("A2", "GOLD", "REG", entity.StatusInOffice, nil),
		unit("A3", "GOLD", "REG", entity.StatusInStation, sta1),
		unit("A4", "GOLD", "REG", entity.StatusSoldActive, sta1),
		unit("A5", "GOLD", "REG", entity.StatusLost, nil),
		unit("B1", "SILVER", "REG", entity.StatusOnRequest, nil),
	}
	snap := card.Build(cards)

	office := snap[card.GroupKey{CategoryID: "GOLD", TypeID: "REG"}]
	assert.Equal(t, 2, office.InOffice)
	assert.Equal(t, 1, office.Lost)

	sta := snap[card.GroupKey{CategoryID: "GOLD", TypeID: "REG", StationID: "STA1"}]
	assert.Equal(t, 1, sta.InStation)
	assert.Equal(t, 1, sta.SoldActive)
	assert.Equal(t, 1, sta.Unsold, "IN_STATION nunca vendida cuenta como unsold")

	silver := snap[card.GroupKey{CategoryID: "SILVER", TypeID: "REG"}]
	assert.Equal(t, 1, silver.Unsold, "ON_REQUEST cuenta como unsold")
}

// Las unidades en viaje cuentan en el grupo de la estación destino.
func TestBuild_EnTransitoCuentaEnDestino(t *testing.T) {
	c := unit("T1", "GOLD", "REG", entity.StatusInTransit, nil)
	c.PendingStationID = strPtr("STA1")
	snap := card.Build([]*entity.Card{c})

	sta := snap[card.GroupKey{CategoryID: "GOLD", TypeID: "REG", StationID: "STA1"}]
	assert.Equal(t, 1, sta.InTransfer)
}

func TestSnapshot_Filter(t *testing.T) {
	sta1, sta2 := strPtr("STA1"), strPtr("STA2")
	snap := card.Build([]*entity.Card{
		unit("A1", "GOLD", "REG", entity.StatusInStation, sta1),
		unit("A2", "GOLD", "REG", entity.StatusInStation, sta2),
		unit("B1", "SILVER", "REG", entity.StatusInStation, sta1),
	})

	byStation := snap.Filter("", "", "STA1")
	require.Len(t, byStation, 2)

	byCatAndStation := snap.Filter("GOLD", "", "STA1")
	require.Len(t, byCatAndStation, 1)
	assert.Equal(t, 1, byCatAndStation[card.GroupKey{CategoryID: "GOLD", TypeID: "REG", StationID: "STA1"}].InStation)
}

// ──────────────────────────────────────────────────────────────────────────────
// Propiedad de equivalencia: mantener el snapshot incrementalmente con Apply
// ante una secuencia aleatoria de transiciones válidas debe producir el mismo
// resultado que recomputar con Build desde cero al final.
// ──────────────────────────────────────────────────────────────────────────────

func TestSnapshot_EquivalenciaIncrementalVsRecomputo(t *testing.T) {
	rng := rand.New(rand.NewSource(20260901))

	categories := []string{"GOLD", "SILVER"}
	types := []string{"REG", "PROMO"}
	stations := []string{"STA1", "STA2", "STA3"}

	var cards []*entity.Card
	incremental := make(card.Snapshot)

	// Alta de 200 unidades en estados iniciales.
	for i := 0; i < 200; i++ {
		status := entity.StatusInOffice
		if rng.Intn(4) == 0 {
			status = entity.StatusOnRequest
		}
		c := unit(fmt.Sprintf("S%04d", i), categories[rng.Intn(2)], types[rng.Intn(2)], status, nil)
		cards = append(cards, c)
		incremental.ApplyCreated(c)
	}

	// 2000 transiciones aleatorias válidas.
	for step := 0; step < 2000; step++ {
		c := cards[rng.Intn(len(cards))]
		targets := validTargets(c.Status)
		if len(targets) == 0 {
			continue // terminal
		}
		to := targets[rng.Intn(len(targets))]

		before := *c
		applyFake(c, to, stations[rng.Intn(len(stations))])
		require.NoError(t, card.ValidateTransition(before.Status, c.Status))
		incremental.Apply(&before, c)
	}

	recomputed := card.Build(cards)
	assert.Equal(t, recomputed, incremental,
		"snapshot incremental y recomputado deben coincidir tras cualquier secuencia")
}

// validTargets aristas de salida según el grafo del dominio.
func validTargets(s entity.CardStatus) []entity.CardStatus {
	switch s {
	case entity.StatusOnRequest:
		return []entity.CardStatus{entity.StatusInOffice}
	case entity.StatusInOffice:
		return []entity.CardStatus{entity.StatusInTransit, entity.StatusLost, entity.StatusDamaged}
	case entity.StatusInTransit:
		return []entity.CardStatus{entity.StatusInStation, entity.StatusLost, entity.StatusDamaged}
	case entity.StatusInStation:
		return []entity.CardStatus{entity.StatusOnTransfer, entity.StatusSoldActive, entity.StatusSoldInactive, entity.StatusLost, entity.StatusDamaged}
	case entity.StatusOnTransfer:
		return []entity.CardStatus{entity.StatusInStation, entity.StatusLost, entity.StatusDamaged}
	case entity.StatusSoldActive:
		return []entity.CardStatus{entity.StatusSoldInactive}
	case entity.StatusSoldInactive:
		return []entity.CardStatus{entity.StatusSoldActive}
	}
	return nil
}

// applyFake muta la unidad como lo harían los casos de uso reales.
func applyFake(c *entity.Card, to entity.CardStatus, station string) {
	switch to {
	case entity.StatusInTransit, entity.StatusOnTransfer:
		c.StationID = nil
		c.PendingStationID = &station
	case entity.StatusInStation:
		dest := station
		if c.PendingStationID != nil {
			dest = *c.PendingStationID
		}
		c.StationID = &dest
		c.PendingStationID = nil
	case entity.StatusInOffice:
		c.StationID = nil
		c.PendingStationID = nil
	case entity.StatusLost, entity.StatusDamaged:
		// La atribución al grupo de la estación se conserva para el reporte.
		if c.StationID != nil {
			c.PendingStationID = c.StationID
			c.StationID = nil
		}
	}
	c.Status = to
}
