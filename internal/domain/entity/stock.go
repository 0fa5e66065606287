package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// StockRecord existencia actual de un material en una ubicación (tabla materializada).
// Se crea con el primer movimiento de la clave y nunca se elimina; cero es un valor válido.
type StockRecord struct {
	MaterialID string
	LocationID string
	Quantity   decimal.Decimal
	UpdatedAt  time.Time
}

// StockKey identidad (material, ubicación) de un registro de stock.
type StockKey struct {
	MaterialID string
	LocationID string
}

// String representación estable usada en bloqueos y mensajes.
func (k StockKey) String() string {
	return k.MaterialID + "@" + k.LocationID
}

// Less orden total de claves; los bloqueos de un lote se adquieren en este orden.
func (k StockKey) Less(o StockKey) bool {
	if k.MaterialID != o.MaterialID {
		return k.MaterialID < o.MaterialID
	}
	return k.LocationID < o.LocationID
}

// Key devuelve la clave del registro.
func (s StockRecord) Key() StockKey {
	return StockKey{MaterialID: s.MaterialID, LocationID: s.LocationID}
}
