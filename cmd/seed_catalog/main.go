// seed_catalog genera un script SQL idempotente con el catálogo de producción (áreas y reglas de
// consumo de material) a partir de un CSV exportado desde la hoja de cálculo de planta (Latin-1, ';').
//
// Uso: go run ./cmd/seed_catalog [ruta/catalogo.csv] [salida.sql]
// Por defecto lee catalogo.csv y escribe migrations/0002_seed_catalog.sql.
//
// Formato de filas:
//
//	area;<nombre>;<orden>
//	regla;<garment_type_id>;<material_type_id>;<cantidad_por_unidad>;<unidad>
package main

import (
	"fmt"
	"os"
	"path/filepath"

	"golang.org/x/text/encoding/charmap"
	"golang.org/x/text/transform"
)

func main() {
	csvPath := "catalogo.csv"
	if len(os.Args) > 1 {
		csvPath = os.Args[1]
	}
	outPath := filepath.Join(findModuleRoot(), "migrations", "0002_seed_catalog.sql")
	if len(os.Args) > 2 {
		outPath = os.Args[2]
	}

	f, err := os.Open(csvPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Abrir CSV: %v\n", err)
		os.Exit(1)
	}
	defer f.Close()

	cat, err := parseCatalog(transform.NewReader(f, charmap.ISO8859_1.NewDecoder()))
	if err != nil {
		fmt.Fprintf(os.Stderr, "Leer catálogo: %v\n", err)
		os.Exit(1)
	}

	out, err := os.Create(outPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Crear archivo: %v\n", err)
		os.Exit(1)
	}
	defer out.Close()

	if err := writeSQL(out, cat, filepath.Base(csvPath)); err != nil {
		fmt.Fprintf(os.Stderr, "Escribir SQL: %v\n", err)
		os.Exit(1)
	}
	fmt.Printf("Generado %s: %d áreas, %d reglas de consumo\n", outPath, len(cat.Areas), len(cat.Rules))
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
