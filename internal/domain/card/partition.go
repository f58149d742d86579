package card

import (
	"fmt"
	"strings"

	"github.com/railops/cardstock-api/internal/domain"
)

// Partition resultado de una resolución: los tres conjuntos ya normalizados.
type Partition struct {
	Received []string
	Lost     []string
	Damaged  []string
}

// NormalizeSerials recorta espacios, descarta vacíos y deduplica preservando orden.
func NormalizeSerials(in []string) []string {
	seen := make(map[string]struct{}, len(in))
	out := make([]string, 0, len(in))
	for _, s := range in {
		s = strings.TrimSpace(s)
		if s == "" {
			continue
		}
		if _, ok := seen[s]; ok {
			continue
		}
		seen[s] = struct{}{}
		out = append(out, s)
	}
	return out
}

// BuildPartition verifica constructivamente que received ∪ lost ∪ damaged
// particiona exactamente el conjunto enviado: sin solapamientos, sin seriales
// ajenos al envío y sin faltantes. Si received viene vacío y hay lost/damaged,
// se completa con el resto del envío (el operador solo reporta excepciones).
func BuildPartition(sent, received, lost, damaged []string) (*Partition, error) {
	sent = NormalizeSerials(sent)
	received = NormalizeSerials(received)
	lost = NormalizeSerials(lost)
	damaged = NormalizeSerials(damaged)

	sentSet := toSet(sent)

	for _, s := range lost {
		if _, ok := sentSet[s]; !ok {
			return nil, fmt.Errorf("serial perdido '%s' no pertenece al envío: %w", s, domain.ErrIncompleteResolution)
		}
	}
	for _, s := range damaged {
		if _, ok := sentSet[s]; !ok {
			return nil, fmt.Errorf("serial dañado '%s' no pertenece al envío: %w", s, domain.ErrIncompleteResolution)
		}
	}

	lostSet := toSet(lost)
	damagedSet := toSet(damaged)
	for s := range lostSet {
		if _, ok := damagedSet[s]; ok {
			return nil, fmt.Errorf("serial '%s' aparece en lost y damaged: %w", s, domain.ErrIncompleteResolution)
		}
	}

	// El operador puede reportar solo las excepciones: received vacío significa
	// "todo lo demás llegó".
	if len(received) == 0 && len(lost)+len(damaged) > 0 {
		exceptions := make(map[string]struct{}, len(lost)+len(damaged))
		for s := range lostSet {
			exceptions[s] = struct{}{}
		}
		for s := range damagedSet {
			exceptions[s] = struct{}{}
		}
		for _, s := range sent {
			if _, ok := exceptions[s]; !ok {
				received = append(received, s)
			}
		}
	}

	receivedSet := toSet(received)
	for _, s := range received {
		if _, ok := sentSet[s]; !ok {
			return nil, fmt.Errorf("serial recibido '%s' no pertenece al envío: %w", s, domain.ErrIncompleteResolution)
		}
		if _, ok := lostSet[s]; ok {
			return nil, fmt.Errorf("serial '%s' aparece en received y lost: %w", s, domain.ErrIncompleteResolution)
		}
		if _, ok := damagedSet[s]; ok {
			return nil, fmt.Errorf("serial '%s' aparece en received y damaged: %w", s, domain.ErrIncompleteResolution)
		}
	}

	if len(receivedSet)+len(lostSet)+len(damagedSet) != len(sentSet) {
		return nil, fmt.Errorf("enviados=%d, contabilizados=%d: %w",
			len(sentSet), len(receivedSet)+len(lostSet)+len(damagedSet), domain.ErrIncompleteResolution)
	}

	return &Partition{Received: received, Lost: lost, Damaged: damaged}, nil
}

func toSet(in []string) map[string]struct{} {
	m := make(map[string]struct{}, len(in))
	for _, s := range in {
		m[s] = struct{}{}
	}
	return m
}
