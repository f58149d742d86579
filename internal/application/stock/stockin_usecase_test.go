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
)

func TestRecordStockIn_CreaUnidades(t *testing.T) {
	store := apptest.NewStore()
	store.AddProduct(newProduct(entity.ProgramFWC, 100))
	inv := &apptest.Invalidator{}
	uc := stock.NewStockInUseCase(apptest.NewRunner(store), inv)

	resp, err := uc.RecordStockIn(context.Background(), "user-1", dto.StockInRequest{
		CategoryID: "cat-gold",
		TypeID:     "type-reg",
		Serials:    []string{"EXT001", "EXT002", "EXT003"},
		Note:       "reposición proveedor",
	})
	require.NoError(t, err)
	assert.Equal(t, 3, resp.Quantity)
	assert.Len(t, store.Cards, 3)
	for _, c := range store.Cards {
		assert.Equal(t, entity.StatusInOffice, c.Status)
		assert.Nil(t, c.StationID)
	}
	m := store.Movements[resp.MovementID]
	require.NotNil(t, m)
	assert.Equal(t, entity.MovementTypeIN, m.Type)
	assert.Equal(t, entity.MovementStatusApproved, m.Status)
	assert.Equal(t, 1, inv.Calls)
}

// El programa del producto decide el estado inicial: las unidades de un
// producto voucher nacen ON_REQUEST a la espera de confirmación de oficina.
func TestRecordStockIn_VoucherNaceOnRequest(t *testing.T) {
	store := apptest.NewStore()
	store.AddProduct(newProduct(entity.ProgramVoucher, 100))
	uc := stock.NewStockInUseCase(apptest.NewRunner(store), &apptest.Invalidator{})

	resp, err := uc.RecordStockIn(context.Background(), "user-1", dto.StockInRequest{
		CategoryID: "cat-gold",
		TypeID:     "type-reg",
		Serials:    []string{"VCH001", "VCH002"},
	})
	require.NoError(t, err)
	assert.Equal(t, 2, resp.Quantity)
	for _, c := range store.Cards {
		assert.Equal(t, entity.StatusOnRequest, c.Status)
	}
}

// Un serial ya registrado rechaza el lote entero, sin importar el estado en
// que esté la unidad existente.
func TestRecordStockIn_SerialDuplicado(t *testing.T) {
	store := apptest.NewStore()
	store.AddProduct(newProduct(entity.ProgramFWC, 100))
	lost := entity.StatusLost
	store.AddCard(&entity.Card{SerialNumber: "EXT002", CardProductID: "prod-1", CategoryID: "cat-gold", TypeID: "type-reg", Status: lost})
	uc := stock.NewStockInUseCase(apptest.NewRunner(store), &apptest.Invalidator{})

	_, err := uc.RecordStockIn(context.Background(), "user-1", dto.StockInRequest{
		CategoryID: "cat-gold",
		TypeID:     "type-reg",
		Serials:    []string{"EXT001", "EXT002"},
	})
	assert.ErrorIs(t, err, domain.ErrDuplicateSerial)
	assert.Len(t, store.Cards, 1, "el lote rechazado no debe crear unidades")
	assert.Empty(t, store.Movements, "el lote rechazado no debe asentar movimiento")
}

func TestRecordStockIn_SinProducto(t *testing.T) {
	store := apptest.NewStore()
	uc := stock.NewStockInUseCase(apptest.NewRunner(store), &apptest.Invalidator{})

	_, err := uc.RecordStockIn(context.Background(), "user-1", dto.StockInRequest{
		CategoryID: "cat-gold", TypeID: "type-reg", Serials: []string{"EXT001"},
	})
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestConfirmGenerated_PasaAOficina(t *testing.T) {
	store := apptest.NewStore()
	store.AddProduct(newProduct(entity.ProgramVoucher, 100))
	genUC := stock.NewGenerateUseCase(apptest.NewRunner(store), &apptest.ProductRepo{Store: store}, &apptest.CardRepo{Store: store}, &apptest.Invalidator{})
	uc := stock.NewStockInUseCase(apptest.NewRunner(store), &apptest.Invalidator{})
	ctx := context.Background()

	_, err := genUC.Generate(ctx, "user-1", dto.GenerateUnitsRequest{CardProductID: "prod-1", StartSerial: "1", EndSerial: "5"})
	require.NoError(t, err)

	resp, err := uc.ConfirmGenerated(ctx, "user-2", dto.ConfirmGeneratedRequest{
		CardProductID: "prod-1", StartSerial: "1", EndSerial: "5",
	})
	require.NoError(t, err)
	assert.Equal(t, 5, resp.Quantity)
	for _, c := range store.Cards {
		assert.Equal(t, entity.StatusInOffice, c.Status)
	}

	// Confirmar de nuevo falla: las unidades ya no están ON_REQUEST.
	_, err = uc.ConfirmGenerated(ctx, "user-2", dto.ConfirmGeneratedRequest{
		CardProductID: "prod-1", StartSerial: "1", EndSerial: "5",
	})
	assert.ErrorIs(t, err, domain.ErrInvalidSourceState)
}

func TestConfirmGenerated_RangoNoRegistrado(t *testing.T) {
	store := apptest.NewStore()
	store.AddProduct(newProduct(entity.ProgramVoucher, 100))
	uc := stock.NewStockInUseCase(apptest.NewRunner(store), &apptest.Invalidator{})

	_, err := uc.ConfirmGenerated(context.Background(), "user-1", dto.ConfirmGeneratedRequest{
		CardProductID: "prod-1", StartSerial: "1", EndSerial: "3",
	})
	assert.ErrorIs(t, err, domain.ErrNotFound)
}
