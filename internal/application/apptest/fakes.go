// Package apptest provee dobles en memoria de los puertos de persistencia
// para probar los casos de uso sin base de datos. El TxRunner falso imita la
// semántica transaccional: ante error de la función, el estado se restaura.
package apptest

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/railops/cardstock-api/internal/domain"
	"github.com/railops/cardstock-api/internal/domain/entity"
	"github.com/railops/cardstock-api/internal/domain/repository"
)

// Store estado en memoria compartido por los repos falsos.
type Store struct {
	Cards     map[string]*entity.Card
	Movements map[string]*entity.StockMovement
	Transfers map[string]*entity.Transfer
	Products  map[string]*entity.CardProduct
}

// NewStore crea un Store vacío.
func NewStore() *Store {
	return &Store{
		Cards:     make(map[string]*entity.Card),
		Movements: make(map[string]*entity.StockMovement),
		Transfers: make(map[string]*entity.Transfer),
		Products:  make(map[string]*entity.CardProduct),
	}
}

// AddProduct registra un producto en el store.
func (s *Store) AddProduct(p *entity.CardProduct) {
	s.Products[p.ID] = p
}

// AddCard registra una unidad en el store.
func (s *Store) AddCard(c *entity.Card) {
	s.Cards[c.SerialNumber] = c
}

func (s *Store) clone() *Store {
	out := NewStore()
	for k, v := range s.Cards {
		c := *v
		out.Cards[k] = &c
	}
	for k, v := range s.Movements {
		m := *v
		out.Movements[k] = &m
	}
	for k, v := range s.Transfers {
		t := *v
		out.Transfers[k] = &t
	}
	for k, v := range s.Products {
		p := *v
		out.Products[k] = &p
	}
	return out
}

func (s *Store) restore(from *Store) {
	s.Cards = from.Cards
	s.Movements = from.Movements
	s.Transfers = from.Transfers
	s.Products = from.Products
}

// Runner TxRunner en memoria con rollback ante error.
type Runner struct {
	Store *Store
}

// NewRunner crea el runner sobre el store dado.
func NewRunner(store *Store) *Runner {
	return &Runner{Store: store}
}

// Run ejecuta fn sobre repos atados al store; si fn falla, restaura el
// estado previo para imitar el rollback de una transacción real.
func (r *Runner) Run(ctx context.Context, fn func(
	cardRepo repository.CardRepository,
	movementRepo repository.StockMovementRepository,
	transferRepo repository.TransferRepository,
	productRepo repository.CardProductRepository,
) error) error {
	backup := r.Store.clone()
	err := fn(
		&CardRepo{Store: r.Store},
		&MovementRepo{Store: r.Store},
		&TransferRepo{Store: r.Store},
		&ProductRepo{Store: r.Store},
	)
	if err != nil {
		r.Store.restore(backup)
	}
	return err
}

// Invalidator SnapshotInvalidator que cuenta invalidaciones.
type Invalidator struct {
	Calls int
}

// Invalidate incrementa el contador.
func (i *Invalidator) Invalidate(context.Context) { i.Calls++ }

// CardRepo repositorio de tarjetas en memoria.
type CardRepo struct {
	Store *Store
}

func (r *CardRepo) CreateBatch(cards []*entity.Card) error {
	for _, c := range cards {
		if _, ok := r.Store.Cards[c.SerialNumber]; ok {
			return fmt.Errorf("serial %s: %w", c.SerialNumber, domain.ErrDuplicateSerial)
		}
	}
	for _, c := range cards {
		cc := *c
		r.Store.Cards[c.SerialNumber] = &cc
	}
	return nil
}

func (r *CardRepo) GetBySerial(serialNumber string) (*entity.Card, error) {
	c, ok := r.Store.Cards[serialNumber]
	if !ok {
		return nil, nil
	}
	cc := *c
	return &cc, nil
}

func (r *CardRepo) ListBySerials(serialNumbers []string) ([]*entity.Card, error) {
	out := make([]*entity.Card, 0, len(serialNumbers))
	for _, sn := range serialNumbers {
		if c, ok := r.Store.Cards[sn]; ok {
			cc := *c
			out = append(out, &cc)
		}
	}
	return out, nil
}

func (r *CardRepo) ExistingSerials(serialNumbers []string) ([]string, error) {
	var out []string
	for _, sn := range serialNumbers {
		if _, ok := r.Store.Cards[sn]; ok {
			out = append(out, sn)
		}
	}
	return out, nil
}

func (r *CardRepo) LastSerialByProduct(cardProductID string) (string, error) {
	var last string
	for _, c := range r.Store.Cards {
		if c.CardProductID == cardProductID && strings.Compare(c.SerialNumber, last) > 0 {
			last = c.SerialNumber
		}
	}
	return last, nil
}

func (r *CardRepo) CountByProduct(cardProductID string) (int, error) {
	n := 0
	for _, c := range r.Store.Cards {
		if c.CardProductID == cardProductID {
			n++
		}
	}
	return n, nil
}

func (r *CardRepo) ApplyStatusChange(change repository.StatusChange) (bool, error) {
	c, ok := r.Store.Cards[change.SerialNumber]
	if !ok || c.Status != change.FromStatus {
		return false, nil
	}
	c.Status = change.ToStatus
	c.StationID = change.StationID
	c.PendingStationID = change.PendingStationID
	c.UpdatedAt = time.Now()
	c.UpdatedBy = change.UpdatedBy
	return true, nil
}

func (r *CardRepo) ListForSummary(filter repository.SummaryFilter) ([]*entity.Card, error) {
	serials := make([]string, 0, len(r.Store.Cards))
	for sn := range r.Store.Cards {
		serials = append(serials, sn)
	}
	sort.Strings(serials)

	var windowed map[string]bool
	if filter.StartDate != nil || filter.EndDate != nil {
		windowed = make(map[string]bool)
		for _, m := range r.Store.Movements {
			if filter.StartDate != nil && m.MovementAt.Before(*filter.StartDate) {
				continue
			}
			if filter.EndDate != nil && m.MovementAt.After(*filter.EndDate) {
				continue
			}
			for _, sets := range [][]string{
				m.SentSerialNumbers, m.ReceivedSerialNumbers,
				m.LostSerialNumbers, m.DamagedSerialNumbers,
			} {
				for _, sn := range sets {
					windowed[sn] = true
				}
			}
		}
	}

	var out []*entity.Card
	for _, sn := range serials {
		c := r.Store.Cards[sn]
		if filter.CategoryID != "" && c.CategoryID != filter.CategoryID {
			continue
		}
		if filter.TypeID != "" && c.TypeID != filter.TypeID {
			continue
		}
		if windowed != nil && !windowed[sn] {
			continue
		}
		cc := *c
		out = append(out, &cc)
	}
	return out, nil
}

// MovementRepo ledger en memoria.
type MovementRepo struct {
	Store *Store
}

func (r *MovementRepo) Create(movement *entity.StockMovement) error {
	m := *movement
	r.Store.Movements[movement.ID] = &m
	return nil
}

func (r *MovementRepo) GetByID(id string) (*entity.StockMovement, error) {
	m, ok := r.Store.Movements[id]
	if !ok {
		return nil, nil
	}
	mm := *m
	return &mm, nil
}

func (r *MovementRepo) GetByIDForUpdate(id string) (*entity.StockMovement, error) {
	return r.GetByID(id)
}

func (r *MovementRepo) RecordReceipt(movement *entity.StockMovement) error {
	m := *movement
	r.Store.Movements[movement.ID] = &m
	return nil
}

func (r *MovementRepo) List(filter repository.MovementFilter) ([]*entity.StockMovement, error) {
	var out []*entity.StockMovement
	for _, m := range r.Store.Movements {
		if filter.Type != "" && m.Type != filter.Type {
			continue
		}
		if filter.Status != "" && m.Status != filter.Status {
			continue
		}
		mm := *m
		out = append(out, &mm)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].MovementAt.Before(out[j].MovementAt) })
	return out, nil
}

func (r *MovementRepo) Count(filter repository.MovementFilter) (int, error) {
	list, _ := r.List(filter)
	return len(list), nil
}

// TransferRepo transferencias en memoria.
type TransferRepo struct {
	Store *Store
}

func (r *TransferRepo) Create(transfer *entity.Transfer) error {
	t := *transfer
	r.Store.Transfers[transfer.ID] = &t
	return nil
}

func (r *TransferRepo) GetByID(id string) (*entity.Transfer, error) {
	t, ok := r.Store.Transfers[id]
	if !ok {
		return nil, nil
	}
	tt := *t
	return &tt, nil
}

func (r *TransferRepo) GetByIDForUpdate(id string) (*entity.Transfer, error) {
	return r.GetByID(id)
}

func (r *TransferRepo) Resolve(transfer *entity.Transfer) (bool, error) {
	current, ok := r.Store.Transfers[transfer.ID]
	if !ok || current.Status != entity.TransferStatusPending {
		return false, nil
	}
	t := *transfer
	r.Store.Transfers[transfer.ID] = &t
	return true, nil
}

func (r *TransferRepo) List(filter repository.TransferFilter) ([]*entity.Transfer, error) {
	var out []*entity.Transfer
	for _, t := range r.Store.Transfers {
		if filter.Status != "" && t.Status != filter.Status {
			continue
		}
		if filter.StationID != "" && t.FromStationID != filter.StationID && t.ToStationID != filter.StationID {
			continue
		}
		tt := *t
		out = append(out, &tt)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.Before(out[j].CreatedAt) })
	return out, nil
}

func (r *TransferRepo) Count(filter repository.TransferFilter) (int, error) {
	list, _ := r.List(filter)
	return len(list), nil
}

// ProductRepo productos en memoria.
type ProductRepo struct {
	Store *Store
}

func (r *ProductRepo) Create(product *entity.CardProduct) error {
	p := *product
	r.Store.Products[product.ID] = &p
	return nil
}

func (r *ProductRepo) GetByID(id string) (*entity.CardProduct, error) {
	p, ok := r.Store.Products[id]
	if !ok {
		return nil, nil
	}
	pp := *p
	return &pp, nil
}

func (r *ProductRepo) GetByCategoryAndType(categoryID, typeID string) (*entity.CardProduct, error) {
	for _, p := range r.Store.Products {
		if p.CategoryID == categoryID && p.TypeID == typeID {
			pp := *p
			return &pp, nil
		}
	}
	return nil, nil
}

func (r *ProductRepo) List(limit, offset int) ([]*entity.CardProduct, error) {
	var out []*entity.CardProduct
	for _, p := range r.Store.Products {
		pp := *p
		out = append(out, &pp)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}
