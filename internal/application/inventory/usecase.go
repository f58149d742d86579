package inventory

import (
	"context"
	"fmt"
	"sort"
	"time"

	"github.com/railops/cardstock-api/internal/application/dto"
	"github.com/railops/cardstock-api/internal/domain"
	"github.com/railops/cardstock-api/internal/domain/card"
	"github.com/railops/cardstock-api/internal/domain/repository"
)

// SnapshotCache cache del snapshot completo (sin filtros). Get devuelve
// (nil, false, nil) ante miss; los errores del cache se tratan como miss
// porque el agregador nunca depende de él para ser correcto. La versión se
// lee antes de recomputar y Set escribe bajo esa misma versión: una mutación
// que se cuele durante el recómputo deja el snapshot bajo la versión vieja,
// que ninguna lectura posterior vuelve a servir.
type SnapshotCache interface {
	Get(ctx context.Context) (card.Snapshot, bool, error)
	Version(ctx context.Context) (int64, error)
	Set(ctx context.Context, version int64, s card.Snapshot) error
}

// UseCase agregador de inventario. Proyección derivada y consultiva: el
// registro de unidades es la fuente de verdad, el snapshot se recomputa o se
// sirve desde cache y jamás bloquea a los escritores.
type UseCase struct {
	cardRepo repository.CardRepository
	cache    SnapshotCache
}

func NewUseCase(cardRepo repository.CardRepository, cache SnapshotCache) *UseCase {
	return &UseCase{cardRepo: cardRepo, cache: cache}
}

// ComputeSummary calcula los contadores por grupo (categoría, tipo,
// estación|oficina). Las consultas sin ventana temporal pueden servirse desde
// cache; con ventana, el universo se restringe a unidades referenciadas por
// movimientos dentro de [start, end] y siempre se recomputa.
func (uc *UseCase) ComputeSummary(ctx context.Context, in dto.SummaryRequest) (*dto.SummaryResponse, error) {
	startDate, endDate, err := parseWindow(in.StartDate, in.EndDate)
	if err != nil {
		return nil, err
	}

	windowed := startDate != nil || endDate != nil
	var cacheVersion int64
	haveVersion := false
	if !windowed && uc.cache != nil {
		if snap, ok, cerr := uc.cache.Get(ctx); cerr == nil && ok {
			return buildResponse(snap.Filter(in.CategoryID, in.TypeID, in.StationID), true), nil
		}
		if v, verr := uc.cache.Version(ctx); verr == nil {
			cacheVersion = v
			haveVersion = true
		}
	}

	filter := repository.SummaryFilter{StartDate: startDate, EndDate: endDate}
	if windowed {
		// Con ventana no se cachea el resultado, así que el recorte por
		// categoría y tipo puede bajar al almacenamiento.
		filter.CategoryID = in.CategoryID
		filter.TypeID = in.TypeID
	}
	cards, err := uc.cardRepo.ListForSummary(filter)
	if err != nil {
		return nil, err
	}
	snap := card.Build(cards)

	if haveVersion {
		// Best-effort: un fallo al cachear no afecta la respuesta.
		_ = uc.cache.Set(ctx, cacheVersion, snap)
	}
	return buildResponse(snap.Filter(in.CategoryID, in.TypeID, in.StationID), false), nil
}

func parseWindow(start, end string) (*time.Time, *time.Time, error) {
	var startDate, endDate *time.Time
	if start != "" {
		t, err := time.Parse(time.RFC3339, start)
		if err != nil {
			return nil, nil, fmt.Errorf("start_date inválida: %w", domain.ErrInvalidInput)
		}
		startDate = &t
	}
	if end != "" {
		t, err := time.Parse(time.RFC3339, end)
		if err != nil {
			return nil, nil, fmt.Errorf("end_date inválida: %w", domain.ErrInvalidInput)
		}
		endDate = &t
	}
	if startDate != nil && endDate != nil && endDate.Before(*startDate) {
		return nil, nil, fmt.Errorf("end_date anterior a start_date: %w", domain.ErrInvalidInput)
	}
	return startDate, endDate, nil
}

// buildResponse ordena los grupos para una salida estable.
func buildResponse(snap card.Snapshot, cached bool) *dto.SummaryResponse {
	groups := make([]dto.SummaryGroup, 0, len(snap))
	for k, v := range snap {
		groups = append(groups, dto.SummaryGroup{
			CategoryID: k.CategoryID,
			TypeID:     k.TypeID,
			StationID:  k.StationID,
			Counters:   v,
		})
	}
	sort.Slice(groups, func(i, j int) bool {
		if groups[i].CategoryID != groups[j].CategoryID {
			return groups[i].CategoryID < groups[j].CategoryID
		}
		if groups[i].TypeID != groups[j].TypeID {
			return groups[i].TypeID < groups[j].TypeID
		}
		return groups[i].StationID < groups[j].StationID
	})
	return &dto.SummaryResponse{Groups: groups, Cached: cached}
}
