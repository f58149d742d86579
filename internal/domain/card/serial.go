package card

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/railops/cardstock-api/internal/domain"
)

// SuffixWidth ancho fijo del sufijo numérico del serial.
const SuffixWidth = 5

// maxSuffixInput largo máximo de una entrada que se interpreta como sufijo
// suelto; más largo que eso debe ser un serial completo con prefijo válido.
const maxSuffixInput = 8

// YearSuffix últimos dos dígitos del año de la fecha dada.
func YearSuffix(at time.Time) string {
	y := at.Year() % 100
	return fmt.Sprintf("%02d", y)
}

// FormatSerial arma el serial completo: template + AA + sufijo con ceros.
func FormatSerial(template, yearSuffix string, n int) string {
	return fmt.Sprintf("%s%s%0*d", template, yearSuffix, SuffixWidth, n)
}

// ExpandRange genera la lista de seriales [startNum..endNum] para la plantilla.
func ExpandRange(template, yearSuffix string, startNum, endNum int) []string {
	if endNum < startNum {
		return nil
	}
	out := make([]string, 0, endNum-startNum+1)
	for n := startNum; n <= endNum; n++ {
		out = append(out, FormatSerial(template, yearSuffix, n))
	}
	return out
}

// ParseSmartSerial interpreta la entrada del operador: un sufijo corto se toma
// tal cual como número; una entrada larga debe empezar con template+AA y se
// extrae su sufijo. Cualquier otra cosa es ErrInvalidInput.
func ParseSmartSerial(input, template, yearSuffix string) (int, error) {
	input = strings.TrimSpace(input)
	if input == "" {
		return 0, fmt.Errorf("serial vacío: %w", domain.ErrInvalidInput)
	}
	if len(input) <= maxSuffixInput {
		n, err := strconv.Atoi(input)
		if err != nil {
			return 0, fmt.Errorf("serial '%s' no es numérico: %w", input, domain.ErrInvalidInput)
		}
		return n, nil
	}
	prefix := template + yearSuffix
	if !strings.HasPrefix(input, prefix) {
		return 0, fmt.Errorf("serial '%s' no coincide con el formato %s...: %w", input, prefix, domain.ErrInvalidInput)
	}
	suffix := input[len(prefix):]
	n, err := strconv.Atoi(suffix)
	if err != nil {
		return 0, fmt.Errorf("sufijo de '%s' no es numérico: %w", input, domain.ErrInvalidInput)
	}
	return n, nil
}
