package entity

// Location ubicación de almacenamiento (bodega, zona). Catálogo externo, solo lectura.
type Location struct {
	ID   string
	Code string
	Name string
}
