package stock_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/railops/cardstock-api/internal/application/apptest"
	"github.com/railops/cardstock-api/internal/application/dto"
	"github.com/railops/cardstock-api/internal/application/stock"
	"github.com/railops/cardstock-api/internal/domain"
	"github.com/railops/cardstock-api/internal/domain/entity"
	"github.com/railops/cardstock-api/internal/domain/repository"
)

func seedOffice(store *apptest.Store, serials ...string) {
	store.AddProduct(newProduct(entity.ProgramFWC, 100))
	for _, sn := range serials {
		store.AddCard(&entity.Card{
			SerialNumber:  sn,
			CardProductID: "prod-1",
			CategoryID:    "cat-gold",
			TypeID:        "type-reg",
			Status:        entity.StatusInOffice,
		})
	}
}

func newStockOutUC(store *apptest.Store) (*stock.StockOutUseCase, *apptest.Invalidator) {
	inv := &apptest.Invalidator{}
	return stock.NewStockOutUseCase(apptest.NewRunner(store), &apptest.MovementRepo{Store: store}, inv), inv
}

// Flujo completo de despacho: las unidades salen de oficina IN_TRANSIT con el
// destino anotado y la recepción las reparte entre recibidas, perdidas y dañadas.
func TestStockOut_DespachoYRecepcion(t *testing.T) {
	store := apptest.NewStore()
	seedOffice(store, "A1", "A2", "A3", "A4", "A5")
	uc, inv := newStockOutUC(store)
	ctx := context.Background()

	resp, err := uc.RecordStockOut(ctx, "user-1", dto.StockOutRequest{
		Serials:              []string{"A1", "A2", "A3", "A4", "A5"},
		DestinationStationID: "st-norte",
	})
	require.NoError(t, err)
	assert.Equal(t, string(entity.MovementStatusPending), resp.Status)
	for _, c := range store.Cards {
		assert.Equal(t, entity.StatusInTransit, c.Status)
		require.NotNil(t, c.PendingStationID)
		assert.Equal(t, "st-norte", *c.PendingStationID)
	}

	receipt, err := uc.ConfirmReceipt(ctx, "user-2", resp.MovementID, dto.ConfirmReceiptRequest{
		Confirmed: []string{"A1", "A2", "A3"},
		Lost:      []string{"A4"},
		Damaged:   []string{"A5"},
	})
	require.NoError(t, err)
	assert.Equal(t, string(entity.MovementStatusApproved), receipt.MovementStatus)
	assert.Len(t, receipt.Results, 5)

	assert.Equal(t, entity.StatusInStation, store.Cards["A1"].Status)
	require.NotNil(t, store.Cards["A1"].StationID)
	assert.Equal(t, "st-norte", *store.Cards["A1"].StationID)
	assert.Equal(t, entity.StatusLost, store.Cards["A4"].Status)
	assert.Nil(t, store.Cards["A4"].StationID)
	assert.Equal(t, entity.StatusDamaged, store.Cards["A5"].Status)

	m := store.Movements[resp.MovementID]
	assert.Equal(t, entity.MovementStatusApproved, m.Status)
	assert.ElementsMatch(t, []string{"A1", "A2", "A3"}, m.ReceivedSerialNumbers)
	assert.Equal(t, []string{"A4"}, m.LostSerialNumbers)
	assert.Equal(t, []string{"A5"}, m.DamagedSerialNumbers)
	assert.Equal(t, 2, inv.Calls)
}

// Reportar solo una excepción no arrastra al resto del envío: lo no
// contabilizado sigue viajando y el movimiento sigue pendiente.
func TestStockOut_ExcepcionNoArrastraElResto(t *testing.T) {
	store := apptest.NewStore()
	seedOffice(store, "A1", "A2", "A3")
	uc, _ := newStockOutUC(store)
	ctx := context.Background()

	resp, err := uc.RecordStockOut(ctx, "user-1", dto.StockOutRequest{
		Serials: []string{"A1", "A2", "A3"}, DestinationStationID: "st-sur",
	})
	require.NoError(t, err)

	receipt, err := uc.ConfirmReceipt(ctx, "user-2", resp.MovementID, dto.ConfirmReceiptRequest{
		Lost: []string{"A2"},
	})
	require.NoError(t, err)
	assert.Equal(t, string(entity.MovementStatusPending), receipt.MovementStatus)
	assert.Equal(t, entity.StatusInTransit, store.Cards["A1"].Status)
	assert.Equal(t, entity.StatusLost, store.Cards["A2"].Status)
	assert.Equal(t, entity.StatusInTransit, store.Cards["A3"].Status)
}

func TestStockOut_SerialNoDisponible(t *testing.T) {
	store := apptest.NewStore()
	seedOffice(store, "A1")
	sold := "st-norte"
	store.AddCard(&entity.Card{
		SerialNumber: "A2", CardProductID: "prod-1", CategoryID: "cat-gold",
		TypeID: "type-reg", Status: entity.StatusInStation, StationID: &sold,
	})
	uc, _ := newStockOutUC(store)

	_, err := uc.RecordStockOut(context.Background(), "user-1", dto.StockOutRequest{
		Serials: []string{"A1", "A2"}, DestinationStationID: "st-sur",
	})
	assert.ErrorIs(t, err, domain.ErrInvalidSourceState)
	// Nada se movió: el despacho es todo-o-nada.
	assert.Equal(t, entity.StatusInOffice, store.Cards["A1"].Status)
	assert.Empty(t, store.Movements)
}

func TestStockOut_SerialInexistente(t *testing.T) {
	store := apptest.NewStore()
	seedOffice(store, "A1")
	uc, _ := newStockOutUC(store)

	_, err := uc.RecordStockOut(context.Background(), "user-1", dto.StockOutRequest{
		Serials: []string{"A1", "NOPE"}, DestinationStationID: "st-sur",
	})
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

// Recepción parcial de un despacho de 10: confirmar S001..S008 deja esas 8
// residentes en la estación y S009/S010 siguen IN_TRANSIT; una confirmación
// posterior del resto recién aprueba el movimiento.
func TestConfirmReceipt_RecepcionParcial(t *testing.T) {
	store := apptest.NewStore()
	serials := []string{"S001", "S002", "S003", "S004", "S005", "S006", "S007", "S008", "S009", "S010"}
	seedOffice(store, serials...)
	uc, _ := newStockOutUC(store)
	ctx := context.Background()

	resp, err := uc.RecordStockOut(ctx, "user-1", dto.StockOutRequest{
		Serials: serials, DestinationStationID: "STA1",
	})
	require.NoError(t, err)

	receipt, err := uc.ConfirmReceipt(ctx, "user-2", resp.MovementID, dto.ConfirmReceiptRequest{
		Confirmed: serials[:8],
	})
	require.NoError(t, err)
	assert.Equal(t, string(entity.MovementStatusPending), receipt.MovementStatus)
	assert.Len(t, receipt.Results, 8)

	for _, sn := range serials[:8] {
		assert.Equal(t, entity.StatusInStation, store.Cards[sn].Status)
		require.NotNil(t, store.Cards[sn].StationID)
		assert.Equal(t, "STA1", *store.Cards[sn].StationID)
	}
	for _, sn := range serials[8:] {
		assert.Equal(t, entity.StatusInTransit, store.Cards[sn].Status)
	}

	m := store.Movements[resp.MovementID]
	assert.Equal(t, entity.MovementStatusPending, m.Status)
	assert.ElementsMatch(t, serials[:8], m.ReceivedSerialNumbers)
	assert.Nil(t, m.ValidatedAt)

	// La segunda confirmación contabiliza el resto y aprueba el movimiento.
	receipt, err = uc.ConfirmReceipt(ctx, "user-2", resp.MovementID, dto.ConfirmReceiptRequest{
		Confirmed: []string{"S009"},
		Lost:      []string{"S010"},
	})
	require.NoError(t, err)
	assert.Equal(t, string(entity.MovementStatusApproved), receipt.MovementStatus)
	assert.Equal(t, entity.MovementStatusApproved, store.Movements[resp.MovementID].Status)
	assert.Equal(t, entity.StatusLost, store.Cards["S010"].Status)
}

// Un serial ajeno al despacho o ya contabilizado se reporta en el resultado
// sin bloquear la confirmación de los demás.
func TestConfirmReceipt_SerialInvalidoNoBloquea(t *testing.T) {
	store := apptest.NewStore()
	seedOffice(store, "A1", "A2")
	uc, _ := newStockOutUC(store)
	ctx := context.Background()

	resp, err := uc.RecordStockOut(ctx, "user-1", dto.StockOutRequest{
		Serials: []string{"A1", "A2"}, DestinationStationID: "st-sur",
	})
	require.NoError(t, err)

	receipt, err := uc.ConfirmReceipt(ctx, "user-2", resp.MovementID, dto.ConfirmReceiptRequest{
		Confirmed: []string{"A1", "AJENO"},
	})
	require.NoError(t, err)
	assert.Equal(t, string(entity.StatusInStation), receipt.Results["A1"].Status)
	assert.Equal(t, "NOT_IN_DISPATCH", receipt.Results["AJENO"].Error)
	assert.Equal(t, entity.StatusInStation, store.Cards["A1"].Status)

	// Reintentar un serial ya contabilizado tampoco altera su estado.
	receipt, err = uc.ConfirmReceipt(ctx, "user-2", resp.MovementID, dto.ConfirmReceiptRequest{
		Confirmed: []string{"A1", "A2"},
	})
	require.NoError(t, err)
	assert.Equal(t, "ALREADY_ACCOUNTED", receipt.Results["A1"].Error)
	assert.Equal(t, string(entity.MovementStatusApproved), receipt.MovementStatus)
}

// El mismo serial en dos conjuntos es una petición malformada.
func TestConfirmReceipt_ConjuntosSolapados(t *testing.T) {
	store := apptest.NewStore()
	seedOffice(store, "A1")
	uc, _ := newStockOutUC(store)
	ctx := context.Background()

	resp, err := uc.RecordStockOut(ctx, "user-1", dto.StockOutRequest{
		Serials: []string{"A1"}, DestinationStationID: "st-sur",
	})
	require.NoError(t, err)

	_, err = uc.ConfirmReceipt(ctx, "user-2", resp.MovementID, dto.ConfirmReceiptRequest{
		Confirmed: []string{"A1"}, Lost: []string{"A1"},
	})
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
	assert.Equal(t, entity.StatusInTransit, store.Cards["A1"].Status)
}

func TestConfirmReceipt_DobleConfirmacion(t *testing.T) {
	store := apptest.NewStore()
	seedOffice(store, "A1")
	uc, _ := newStockOutUC(store)
	ctx := context.Background()

	resp, err := uc.RecordStockOut(ctx, "user-1", dto.StockOutRequest{
		Serials: []string{"A1"}, DestinationStationID: "st-sur",
	})
	require.NoError(t, err)

	_, err = uc.ConfirmReceipt(ctx, "user-2", resp.MovementID, dto.ConfirmReceiptRequest{Confirmed: []string{"A1"}})
	require.NoError(t, err)

	_, err = uc.ConfirmReceipt(ctx, "user-2", resp.MovementID, dto.ConfirmReceiptRequest{Confirmed: []string{"A1"}})
	assert.ErrorIs(t, err, domain.ErrAlreadyResolved)
}

func TestHistory_FiltraPorTipo(t *testing.T) {
	store := apptest.NewStore()
	seedOffice(store, "A1", "A2")
	uc, _ := newStockOutUC(store)
	ctx := context.Background()

	_, err := uc.RecordStockOut(ctx, "user-1", dto.StockOutRequest{
		Serials: []string{"A1"}, DestinationStationID: "st-sur",
	})
	require.NoError(t, err)

	items, total, err := uc.History(ctx, repository.MovementFilter{Type: entity.MovementTypeOUT})
	require.NoError(t, err)
	assert.Equal(t, 1, total)
	require.Len(t, items, 1)
	assert.Equal(t, entity.MovementTypeOUT, items[0].Type)
	assert.Equal(t, []string{"A1"}, items[0].SentSerialNumbers)
}
