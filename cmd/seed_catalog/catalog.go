package main

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"sort"
	"strconv"
	"strings"

	"github.com/shopspring/decimal"

	"github.com/jhoicas/Confeccion-api/pkg/textnorm"
)

type areaRow struct {
	Name  string
	Order int
}

type ruleRow struct {
	GarmentTypeID   int64
	MaterialTypeID  int64
	QuantityPerUnit decimal.Decimal
	Unit            string
}

type catalog struct {
	Areas []areaRow
	Rules []ruleRow
}

// parseCatalog lee el CSV ya decodificado a UTF-8. Ignora líneas vacías y comentarios (#).
// Un área repetida (sin distinguir tildes ni mayúsculas) o una regla repetida es un error.
func parseCatalog(r io.Reader) (*catalog, error) {
	cr := csv.NewReader(r)
	cr.Comma = ';'
	cr.Comment = '#'
	cr.FieldsPerRecord = -1
	cr.TrimLeadingSpace = true

	cat := &catalog{}
	seenAreas := map[string]bool{}
	seenRules := map[[2]int64]bool{}
	for {
		rec, err := cr.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, err
		}
		line, _ := cr.FieldPos(0)
		switch strings.ToLower(strings.TrimSpace(rec[0])) {
		case "area", "área":
			a, err := parseArea(rec)
			if err != nil {
				return nil, fmt.Errorf("línea %d: %w", line, err)
			}
			key := textnorm.Fold(a.Name)
			if seenAreas[key] {
				return nil, fmt.Errorf("línea %d: área %q repetida", line, a.Name)
			}
			seenAreas[key] = true
			cat.Areas = append(cat.Areas, a)
		case "regla":
			ru, err := parseRule(rec)
			if err != nil {
				return nil, fmt.Errorf("línea %d: %w", line, err)
			}
			key := [2]int64{ru.GarmentTypeID, ru.MaterialTypeID}
			if seenRules[key] {
				return nil, fmt.Errorf("línea %d: regla %d/%d repetida", line, ru.GarmentTypeID, ru.MaterialTypeID)
			}
			seenRules[key] = true
			cat.Rules = append(cat.Rules, ru)
		default:
			return nil, fmt.Errorf("línea %d: tipo de fila desconocido %q", line, rec[0])
		}
	}
	sort.SliceStable(cat.Areas, func(i, j int) bool { return cat.Areas[i].Order < cat.Areas[j].Order })
	return cat, nil
}

func parseArea(rec []string) (areaRow, error) {
	if len(rec) != 3 {
		return areaRow{}, fmt.Errorf("área: se esperaban 3 columnas, hay %d", len(rec))
	}
	name := strings.Join(strings.Fields(rec[1]), " ")
	if name == "" {
		return areaRow{}, errors.New("área sin nombre")
	}
	order, err := strconv.Atoi(strings.TrimSpace(rec[2]))
	if err != nil || order < 0 {
		return areaRow{}, fmt.Errorf("orden inválido %q", rec[2])
	}
	return areaRow{Name: name, Order: order}, nil
}

func parseRule(rec []string) (ruleRow, error) {
	if len(rec) != 5 {
		return ruleRow{}, fmt.Errorf("regla: se esperaban 5 columnas, hay %d", len(rec))
	}
	garment, err := strconv.ParseInt(strings.TrimSpace(rec[1]), 10, 64)
	if err != nil || garment <= 0 {
		return ruleRow{}, fmt.Errorf("tipo de prenda inválido %q", rec[1])
	}
	material, err := strconv.ParseInt(strings.TrimSpace(rec[2]), 10, 64)
	if err != nil || material <= 0 {
		return ruleRow{}, fmt.Errorf("tipo de material inválido %q", rec[2])
	}
	// La hoja de planta usa coma decimal.
	qty, err := decimal.NewFromString(strings.ReplaceAll(strings.TrimSpace(rec[3]), ",", "."))
	if err != nil || !qty.IsPositive() {
		return ruleRow{}, fmt.Errorf("cantidad por unidad inválida %q", rec[3])
	}
	unit := strings.TrimSpace(rec[4])
	if unit == "" {
		return ruleRow{}, errors.New("regla sin unidad")
	}
	return ruleRow{GarmentTypeID: garment, MaterialTypeID: material, QuantityPerUnit: qty, Unit: unit}, nil
}

// writeSQL escribe los INSERT con ON CONFLICT para que el script pueda reaplicarse.
func writeSQL(w io.Writer, cat *catalog, source string) error {
	var b strings.Builder
	b.WriteString("-- Catálogo de producción: áreas y reglas de consumo de material\n")
	fmt.Fprintf(&b, "-- Generado desde %s\n\n", source)

	if len(cat.Areas) > 0 {
		b.WriteString("-- 1. Áreas de producción\n")
		b.WriteString("INSERT INTO production_areas (name, sort_order) VALUES\n")
		for i, a := range cat.Areas {
			sep := ","
			if i == len(cat.Areas)-1 {
				sep = ""
			}
			fmt.Fprintf(&b, "  ('%s', %d)%s\n", escapeSQL(a.Name), a.Order, sep)
		}
		b.WriteString("ON CONFLICT (name) DO UPDATE SET sort_order = EXCLUDED.sort_order, active = TRUE;\n\n")
	}

	if len(cat.Rules) > 0 {
		b.WriteString("-- 2. Reglas de consumo por (tipo de prenda, tipo de material)\n")
		b.WriteString("INSERT INTO material_configs (garment_type_id, material_type_id, quantity_per_unit, unit) VALUES\n")
		for i, r := range cat.Rules {
			sep := ","
			if i == len(cat.Rules)-1 {
				sep = ""
			}
			fmt.Fprintf(&b, "  (%d, %d, %s, '%s')%s\n", r.GarmentTypeID, r.MaterialTypeID, r.QuantityPerUnit.String(), escapeSQL(r.Unit), sep)
		}
		b.WriteString("ON CONFLICT (garment_type_id, material_type_id) DO UPDATE\n")
		b.WriteString("  SET quantity_per_unit = EXCLUDED.quantity_per_unit, unit = EXCLUDED.unit;\n")
	}

	_, err := io.WriteString(w, b.String())
	return err
}

func escapeSQL(s string) string {
	return strings.ReplaceAll(s, "'", "''")
}
