// seed_catalog genera el script SQL que puebla materials y locations a partir del
// CSV de catálogo exportado por el ERP (UTF-8 o ISO-8859-1, separado por ';').
//
// Uso: go run ./cmd/seed_catalog [ruta/catalogo.csv]
// Por defecto busca catalogo.csv en el directorio actual.
// Escribe: internal/infrastructure/postgres/migrations/002_seed_catalog.sql
package main

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/jhoicas/erp-ledger/internal/domain/entity"
	"github.com/jhoicas/erp-ledger/internal/infrastructure/catalog"
)

func main() {
	csvPath := "catalogo.csv"
	if len(os.Args) > 1 {
		csvPath = os.Args[1]
	}
	c, err := catalog.LoadFile(csvPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Leer catálogo: %v\n", err)
		os.Exit(1)
	}

	// Orden por código para salida estable
	sort.Slice(c.Materials, func(i, j int) bool { return c.Materials[i].Code < c.Materials[j].Code })
	sort.Slice(c.Locations, func(i, j int) bool { return c.Locations[i].Code < c.Locations[j].Code })

	moduleRoot := findModuleRoot()
	outPath := filepath.Join(moduleRoot, "internal", "infrastructure", "postgres", "migrations", "002_seed_catalog.sql")
	out, err := os.Create(outPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Crear archivo: %v\n", err)
		os.Exit(1)
	}
	defer out.Close()

	fmt.Fprintf(out, "-- Catálogo base: ubicaciones y materiales\n")
	fmt.Fprintf(out, "-- Generado desde %s\n\n", filepath.Base(csvPath))
	writeLocations(out, c.Locations)
	writeMaterials(out, c.Materials)

	fmt.Printf("Generado %s: %d ubicaciones, %d materiales\n", outPath, len(c.Locations), len(c.Materials))
}

func writeLocations(out *os.File, list []entity.Location) {
	if len(list) == 0 {
		return
	}
	fmt.Fprintf(out, "-- 1. Ubicaciones\n")
	fmt.Fprintf(out, "INSERT INTO locations (id, code, name) VALUES\n")
	for i, l := range list {
		fmt.Fprintf(out, "  ('%s', '%s', '%s')%s\n", escapeSQL(l.ID), escapeSQL(l.Code), escapeSQL(l.Name), sep(i, len(list)))
	}
	fmt.Fprintf(out, "ON CONFLICT (id) DO UPDATE SET code = EXCLUDED.code, name = EXCLUDED.name;\n\n")
}

func writeMaterials(out *os.File, list []entity.Material) {
	if len(list) == 0 {
		return
	}
	fmt.Fprintf(out, "-- 2. Materiales\n")
	fmt.Fprintf(out, "INSERT INTO materials (id, code, name, unit_id) VALUES\n")
	for i, m := range list {
		fmt.Fprintf(out, "  ('%s', '%s', '%s', '%s')%s\n",
			escapeSQL(m.ID), escapeSQL(m.Code), escapeSQL(m.Name), escapeSQL(m.UnitID), sep(i, len(list)))
	}
	fmt.Fprintf(out, "ON CONFLICT (id) DO UPDATE SET code = EXCLUDED.code, name = EXCLUDED.name, unit_id = EXCLUDED.unit_id;\n")
}

func sep(i, n int) string {
	if i < n-1 {
		return ","
	}
	return ""
}

func escapeSQL(s string) string {
	return strings.ReplaceAll(s, "'", "''")
}

func findModuleRoot() string {
	dir, _ := os.Getwd()
	for {
		if _, err := os.Stat(filepath.Join(dir, "go.mod")); err == nil {
			return dir
		}
		parent := filepath.Dir(dir)
		if parent == dir {
			return dir
		}
		dir = parent
	}
}
