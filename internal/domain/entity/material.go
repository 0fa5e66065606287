package entity

// Material material o producto del catálogo base (externo, solo lectura para el ledger).
// UnitID es la unidad por defecto de los movimientos cuando el llamador no la indica.
type Material struct {
	ID     string
	Code   string // código único
	Name   string
	UnitID string
}
