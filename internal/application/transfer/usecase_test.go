package transfer_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/railops/cardstock-api/internal/application/apptest"
	"github.com/railops/cardstock-api/internal/application/dto"
	"github.com/railops/cardstock-api/internal/application/transfer"
	"github.com/railops/cardstock-api/internal/domain"
	"github.com/railops/cardstock-api/internal/domain/entity"
	"github.com/railops/cardstock-api/internal/domain/repository"
)

func seedStation(store *apptest.Store, stationID string, serials ...string) {
	for _, sn := range serials {
		st := stationID
		store.AddCard(&entity.Card{
			SerialNumber:  sn,
			CardProductID: "prod-1",
			CategoryID:    "cat-gold",
			TypeID:        "type-reg",
			Status:        entity.StatusInStation,
			StationID:     &st,
		})
	}
}

func newUC(store *apptest.Store) (*transfer.UseCase, *apptest.Invalidator) {
	inv := &apptest.Invalidator{}
	return transfer.NewUseCase(apptest.NewRunner(store), &apptest.TransferRepo{Store: store}, inv), inv
}

func TestTransfer_Despacho(t *testing.T) {
	store := apptest.NewStore()
	seedStation(store, "st-norte", "B1", "B2", "B3")
	uc, inv := newUC(store)

	resp, err := uc.Create(context.Background(), "user-1", dto.CreateTransferRequest{
		FromStationID: "st-norte",
		ToStationID:   "st-sur",
		Serials:       []string{"B1", "B2", "B3"},
	})
	require.NoError(t, err)
	assert.Equal(t, entity.TransferStatusPending, resp.Status)
	assert.Equal(t, 3, resp.Quantity)

	for _, c := range store.Cards {
		assert.Equal(t, entity.StatusOnTransfer, c.Status)
		require.NotNil(t, c.PendingStationID)
		assert.Equal(t, "st-sur", *c.PendingStationID)
	}

	// Queda un asiento TRANSFER pendiente ligado a la transferencia.
	tr := store.Transfers[resp.ID]
	require.NotNil(t, tr)
	m := store.Movements[tr.MovementID]
	require.NotNil(t, m)
	assert.Equal(t, entity.MovementTypeTRANSFER, m.Type)
	assert.Equal(t, entity.MovementStatusPending, m.Status)
	assert.Equal(t, 1, inv.Calls)
}

// Una unidad ya despachada no puede ir en una segunda transferencia.
func TestTransfer_SerialYaEnTraslado(t *testing.T) {
	store := apptest.NewStore()
	seedStation(store, "st-norte", "B1", "B2")
	uc, _ := newUC(store)
	ctx := context.Background()

	_, err := uc.Create(ctx, "user-1", dto.CreateTransferRequest{
		FromStationID: "st-norte", ToStationID: "st-sur", Serials: []string{"B1"},
	})
	require.NoError(t, err)

	_, err = uc.Create(ctx, "user-1", dto.CreateTransferRequest{
		FromStationID: "st-norte", ToStationID: "st-este", Serials: []string{"B1", "B2"},
	})
	assert.ErrorIs(t, err, domain.ErrInvalidSourceState)
	// B2 no se movió: el despacho es todo-o-nada.
	assert.Equal(t, entity.StatusInStation, store.Cards["B2"].Status)
}

func TestTransfer_OrigenIncorrecto(t *testing.T) {
	store := apptest.NewStore()
	seedStation(store, "st-norte", "B1")
	uc, _ := newUC(store)

	_, err := uc.Create(context.Background(), "user-1", dto.CreateTransferRequest{
		FromStationID: "st-sur", ToStationID: "st-este", Serials: []string{"B1"},
	})
	assert.ErrorIs(t, err, domain.ErrInvalidSourceState)
}

func TestTransfer_ResolucionConPerdidas(t *testing.T) {
	store := apptest.NewStore()
	seedStation(store, "st-norte", "B1", "B2", "B3", "B4")
	uc, _ := newUC(store)
	ctx := context.Background()

	created, err := uc.Create(ctx, "user-1", dto.CreateTransferRequest{
		FromStationID: "st-norte", ToStationID: "st-sur",
		Serials: []string{"B1", "B2", "B3", "B4"},
	})
	require.NoError(t, err)

	resolved, err := uc.Resolve(ctx, "user-2", created.ID, dto.ResolveTransferRequest{
		Received: []string{"B1", "B2"},
		Lost:     []string{"B3"},
		Damaged:  []string{"B4"},
	})
	require.NoError(t, err)
	assert.Equal(t, entity.TransferStatusReceived, resolved.Status)
	assert.Equal(t, 1, resolved.LostCount)
	assert.Equal(t, 1, resolved.DamagedCount)

	require.NotNil(t, store.Cards["B1"].StationID)
	assert.Equal(t, "st-sur", *store.Cards["B1"].StationID)
	assert.Equal(t, entity.StatusInStation, store.Cards["B2"].Status)
	assert.Equal(t, entity.StatusLost, store.Cards["B3"].Status)
	assert.Equal(t, entity.StatusDamaged, store.Cards["B4"].Status)

	// El asiento TRANSFER queda aprobado con el detalle final.
	m := store.Movements[store.Transfers[created.ID].MovementID]
	assert.Equal(t, entity.MovementStatusApproved, m.Status)
	assert.ElementsMatch(t, []string{"B1", "B2"}, m.ReceivedSerialNumbers)
}

// Aunque ninguna unidad llegue, la transferencia queda RECEIVED; las pérdidas
// se reflejan en los contadores, no en el estado de la transferencia.
func TestTransfer_ResolucionTodoPerdido(t *testing.T) {
	store := apptest.NewStore()
	seedStation(store, "st-norte", "B1", "B2")
	uc, _ := newUC(store)
	ctx := context.Background()

	created, err := uc.Create(ctx, "user-1", dto.CreateTransferRequest{
		FromStationID: "st-norte", ToStationID: "st-sur", Serials: []string{"B1", "B2"},
	})
	require.NoError(t, err)

	resolved, err := uc.Resolve(ctx, "user-2", created.ID, dto.ResolveTransferRequest{
		Lost: []string{"B1", "B2"},
	})
	require.NoError(t, err)
	assert.Equal(t, entity.TransferStatusReceived, resolved.Status)
	assert.Equal(t, 2, resolved.LostCount)
	assert.Empty(t, resolved.ReceivedSerialNumbers)
}

func TestTransfer_ResolucionIncompleta(t *testing.T) {
	store := apptest.NewStore()
	seedStation(store, "st-norte", "B1", "B2")
	uc, _ := newUC(store)
	ctx := context.Background()

	created, err := uc.Create(ctx, "user-1", dto.CreateTransferRequest{
		FromStationID: "st-norte", ToStationID: "st-sur", Serials: []string{"B1", "B2"},
	})
	require.NoError(t, err)

	_, err = uc.Resolve(ctx, "user-2", created.ID, dto.ResolveTransferRequest{
		Received: []string{"B1"},
	})
	assert.ErrorIs(t, err, domain.ErrIncompleteResolution)
	// Resolución fallida: todo sigue en traslado y la transferencia pendiente.
	assert.Equal(t, entity.StatusOnTransfer, store.Cards["B1"].Status)
	assert.Equal(t, entity.TransferStatusPending, store.Transfers[created.ID].Status)
}

func TestTransfer_ResolucionExactamenteUnaVez(t *testing.T) {
	store := apptest.NewStore()
	seedStation(store, "st-norte", "B1")
	uc, _ := newUC(store)
	ctx := context.Background()

	created, err := uc.Create(ctx, "user-1", dto.CreateTransferRequest{
		FromStationID: "st-norte", ToStationID: "st-sur", Serials: []string{"B1"},
	})
	require.NoError(t, err)

	_, err = uc.Resolve(ctx, "user-2", created.ID, dto.ResolveTransferRequest{Received: []string{"B1"}})
	require.NoError(t, err)

	_, err = uc.Resolve(ctx, "user-2", created.ID, dto.ResolveTransferRequest{Received: []string{"B1"}})
	assert.ErrorIs(t, err, domain.ErrAlreadyResolved)

	_, err = uc.Reject(ctx, "user-2", created.ID, "tarde")
	assert.ErrorIs(t, err, domain.ErrAlreadyResolved)
}

func TestTransfer_Rechazo(t *testing.T) {
	store := apptest.NewStore()
	seedStation(store, "st-norte", "B1", "B2")
	uc, _ := newUC(store)
	ctx := context.Background()

	created, err := uc.Create(ctx, "user-1", dto.CreateTransferRequest{
		FromStationID: "st-norte", ToStationID: "st-sur", Serials: []string{"B1", "B2"},
	})
	require.NoError(t, err)

	rejected, err := uc.Reject(ctx, "user-2", created.ID, "destino sin capacidad")
	require.NoError(t, err)
	assert.Equal(t, entity.TransferStatusRejected, rejected.Status)

	// Las unidades vuelven a la estación origen.
	for _, sn := range []string{"B1", "B2"} {
		c := store.Cards[sn]
		assert.Equal(t, entity.StatusInStation, c.Status)
		require.NotNil(t, c.StationID)
		assert.Equal(t, "st-norte", *c.StationID)
	}
	m := store.Movements[store.Transfers[created.ID].MovementID]
	assert.Equal(t, entity.MovementStatusRejected, m.Status)

	// Rechazada es terminal, pero los mismos seriales pueden viajar en una
	// transferencia nueva.
	_, err = uc.Resolve(ctx, "user-2", created.ID, dto.ResolveTransferRequest{Received: []string{"B1", "B2"}})
	assert.ErrorIs(t, err, domain.ErrAlreadyResolved)

	again, err := uc.Create(ctx, "user-1", dto.CreateTransferRequest{
		FromStationID: "st-norte", ToStationID: "st-este", Serials: []string{"B1", "B2"},
	})
	require.NoError(t, err)
	assert.Equal(t, entity.TransferStatusPending, again.Status)
}

func TestTransfer_MismoOrigenYDestino(t *testing.T) {
	store := apptest.NewStore()
	seedStation(store, "st-norte", "B1")
	uc, _ := newUC(store)

	_, err := uc.Create(context.Background(), "user-1", dto.CreateTransferRequest{
		FromStationID: "st-norte", ToStationID: "st-norte", Serials: []string{"B1"},
	})
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}

func TestTransfer_Listado(t *testing.T) {
	store := apptest.NewStore()
	seedStation(store, "st-norte", "B1", "B2")
	uc, _ := newUC(store)
	ctx := context.Background()

	_, err := uc.Create(ctx, "user-1", dto.CreateTransferRequest{
		FromStationID: "st-norte", ToStationID: "st-sur", Serials: []string{"B1"},
	})
	require.NoError(t, err)
	_, err = uc.Create(ctx, "user-1", dto.CreateTransferRequest{
		FromStationID: "st-norte", ToStationID: "st-este", Serials: []string{"B2"},
	})
	require.NoError(t, err)

	list, total, err := uc.List(ctx, repository.TransferFilter{StationID: "st-este"})
	require.NoError(t, err)
	assert.Equal(t, 1, total)
	require.Len(t, list, 1)
	assert.Equal(t, "st-este", list[0].ToStationID)
}
