// Package numbering formatea y analiza los números de comprobante (PREFIJO-0001).
package numbering

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/jhoicas/ledgerbook-api/internal/domain"
	"github.com/jhoicas/ledgerbook-api/internal/domain/entity"
)

// Width es el ancho mínimo del sufijo numérico.
const Width = 4

// Prefix devuelve el prefijo de tres letras en mayúscula del tipo (SAL, PUR, REC, PAY).
func Prefix(t entity.VoucherType) string {
	return strings.ToUpper(string(t)[:3])
}

// Format construye el número de comprobante para la secuencia n.
func Format(t entity.VoucherType, n int64) string {
	return fmt.Sprintf("%s-%0*d", Prefix(t), Width, n)
}

// Parse extrae la secuencia de un número existente. Un número con otro prefijo o sin sufijo
// numérico indica datos corruptos y se reporta como ConstraintViolation.
func Parse(t entity.VoucherType, number string) (int64, error) {
	prefix := Prefix(t) + "-"
	if !strings.HasPrefix(number, prefix) {
		return 0, domain.Constraint("número de comprobante %q no tiene el prefijo %s", number, prefix)
	}
	suffix := number[len(prefix):]
	if len(suffix) < Width {
		return 0, domain.Constraint("número de comprobante %q tiene un sufijo menor a %d dígitos", number, Width)
	}
	for _, r := range suffix {
		if r < '0' || r > '9' {
			return 0, domain.Constraint("número de comprobante %q tiene un sufijo no numérico", number)
		}
	}
	n, err := strconv.ParseInt(suffix, 10, 64)
	if err != nil || n < 1 {
		return 0, domain.Constraint("número de comprobante %q fuera de rango", number)
	}
	return n, nil
}

// Next calcula el siguiente número a partir del último emitido ("" si no hay ninguno).
func Next(t entity.VoucherType, last string) (string, error) {
	if last == "" {
		return Format(t, 1), nil
	}
	n, err := Parse(t, last)
	if err != nil {
		return "", err
	}
	return Format(t, n+1), nil
}
