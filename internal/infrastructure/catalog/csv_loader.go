// Package catalog carga materiales y ubicaciones desde el CSV exportado por el ERP
// (separado por ';', normalmente en ISO-8859-1).
package catalog

import (
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"strings"
	"unicode/utf8"

	"golang.org/x/text/encoding/charmap"
	"golang.org/x/text/transform"

	"github.com/jhoicas/erp-ledger/internal/domain/entity"
)

// Columnas esperadas, en orden.
var header = []string{"kind", "id", "code", "name", "unit_id"}

// Catalog filas leídas del archivo.
type Catalog struct {
	Materials []entity.Material
	Locations []entity.Location
}

// LoadFile abre path y lo decodifica con Load.
func LoadFile(path string) (*Catalog, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("abrir catálogo %s: %w", path, err)
	}
	defer f.Close()
	return Load(f)
}

// Load lee el CSV. Si el contenido no es UTF-8 válido se decodifica como ISO-8859-1.
func Load(r io.Reader) (*Catalog, error) {
	raw, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("leer catálogo: %w", err)
	}
	var src io.Reader = strings.NewReader(string(raw))
	if !utf8.Valid(raw) {
		src = transform.NewReader(src, charmap.ISO8859_1.NewDecoder())
	}

	reader := csv.NewReader(src)
	reader.Comma = ';'
	reader.TrimLeadingSpace = true
	records, err := reader.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("decodificar catálogo: %w", err)
	}
	if len(records) == 0 {
		return nil, fmt.Errorf("catálogo vacío")
	}
	if !validHeader(records[0]) {
		return nil, fmt.Errorf("encabezado inválido: se espera %v, llegó %v", header, records[0])
	}

	out := &Catalog{}
	seen := make(map[string]struct{})
	for i, rec := range records[1:] {
		line := i + 2
		if len(rec) != len(header) {
			return nil, fmt.Errorf("fila %d: se esperan %d columnas, llegaron %d", line, len(header), len(rec))
		}
		kind := strings.ToLower(strings.TrimSpace(rec[0]))
		id, code, name, unit := strings.TrimSpace(rec[1]), strings.TrimSpace(rec[2]), strings.TrimSpace(rec[3]), strings.TrimSpace(rec[4])
		if id == "" || code == "" {
			return nil, fmt.Errorf("fila %d: id y code son obligatorios", line)
		}
		if _, dup := seen[kind+":"+id]; dup {
			return nil, fmt.Errorf("fila %d: %s %s repetido", line, kind, id)
		}
		seen[kind+":"+id] = struct{}{}

		switch kind {
		case "material":
			if unit == "" {
				return nil, fmt.Errorf("fila %d: el material %s no tiene unidad", line, code)
			}
			out.Materials = append(out.Materials, entity.Material{ID: id, Code: code, Name: name, UnitID: unit})
		case "location":
			out.Locations = append(out.Locations, entity.Location{ID: id, Code: code, Name: name})
		default:
			return nil, fmt.Errorf("fila %d: kind desconocido %q", line, rec[0])
		}
	}
	return out, nil
}

func validHeader(got []string) bool {
	if len(got) != len(header) {
		return false
	}
	for i, h := range header {
		// Excel agrega BOM al primer campo al exportar en UTF-8.
		if strings.TrimPrefix(strings.ToLower(strings.TrimSpace(got[i])), "\ufeff") != h {
			return false
		}
	}
	return true
}
