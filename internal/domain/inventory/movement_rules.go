// Package inventory reglas puras del motor de movimientos (sin E/S): cálculo del
// saldo resultante con recorte a cero y formato del número de transacción.
package inventory

import (
	"fmt"
	"time"

	"github.com/shopspring/decimal"
)

// Outcome resultado de aplicar una cantidad con signo sobre un saldo.
type Outcome struct {
	Before    decimal.Decimal
	Requested decimal.Decimal
	Applied   decimal.Decimal // cantidad con signo efectivamente registrada
	After     decimal.Decimal
	Shortfall decimal.Decimal // > 0 solo en modo degradado
}

// Degraded indica si la salida se recortó por falta de stock.
func (o Outcome) Degraded() bool {
	return o.Shortfall.IsPositive()
}

// ComputeOutcome aplica la política de stock no negativo.
// Entradas siempre suman. Salidas con saldo suficiente restan; si no alcanza,
// se consume lo disponible (Applied = -Before) y el saldo queda en cero.
func ComputeOutcome(before, signed decimal.Decimal) Outcome {
	if before.IsNegative() {
		before = decimal.Zero
	}
	out := Outcome{Before: before, Requested: signed}
	if !signed.IsNegative() || before.GreaterThanOrEqual(signed.Neg()) {
		out.Applied = signed
		out.After = before.Add(signed)
		return out
	}
	out.Applied = before.Neg()
	out.After = decimal.Zero
	out.Shortfall = signed.Neg().Sub(before)
	return out
}

// TransactionNo código de tipo (2 letras) + fecha yymmdd + consecutivo diario de 3 dígitos.
// Por encima de 999 el consecutivo se ensancha: sigue siendo único, pero el orden textual deja
// de ser cronológico (SO261018999 > SO2610181000). Para orden usar id o created_at.
func TransactionNo(code string, day time.Time, seq int) string {
	return fmt.Sprintf("%s%s%03d", code, day.Format("060102"), seq)
}

// DayOf normaliza la fecha al inicio del día en la zona indicada.
func DayOf(t time.Time, loc *time.Location) time.Time {
	if loc != nil {
		t = t.In(loc)
	}
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, t.Location())
}
