package main

import (
	"bytes"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/text/encoding/charmap"
	"golang.org/x/text/transform"
)

func latin1(t *testing.T, s string) []byte {
	t.Helper()
	b, err := charmap.ISO8859_1.NewEncoder().Bytes([]byte(s))
	require.NoError(t, err)
	return b
}

func TestParseCatalog_Latin1(t *testing.T) {
	raw := latin1(t, "# exportado de planta\narea;Diseño;1\narea; Admin ;0\n\nregla;1;7;0,5;m\nregla;2;7;1.25;m\n")
	cat, err := parseCatalog(transform.NewReader(bytes.NewReader(raw), charmap.ISO8859_1.NewDecoder()))
	require.NoError(t, err)

	require.Len(t, cat.Areas, 2)
	assert.Equal(t, "Admin", cat.Areas[0].Name)
	assert.Equal(t, "Diseño", cat.Areas[1].Name)

	require.Len(t, cat.Rules, 2)
	assert.Equal(t, "0.5", cat.Rules[0].QuantityPerUnit.String())
	assert.Equal(t, "1.25", cat.Rules[1].QuantityPerUnit.String())
}

func TestParseCatalog_Errores(t *testing.T) {
	cases := map[string]string{
		"área repetida":      "area;Diseño;1\narea;DISENO;2\n",
		"orden inválido":     "area;Corte;x\n",
		"cantidad no válida": "regla;1;7;0;m\n",
		"regla repetida":     "regla;1;7;1;m\nregla;1;7;2;m\n",
		"sin unidad":         "regla;1;7;1;\n",
		"fila desconocida":   "insumo;1\n",
	}
	for name, in := range cases {
		t.Run(name, func(t *testing.T) {
			_, err := parseCatalog(strings.NewReader(in))
			assert.Error(t, err)
		})
	}
}

func TestWriteSQL_Idempotente(t *testing.T) {
	cat, err := parseCatalog(strings.NewReader("area;Confección d'Or;0\nregla;1;7;0.5;m\n"))
	require.NoError(t, err)

	var out bytes.Buffer
	require.NoError(t, writeSQL(&out, cat, "catalogo.csv"))
	sql := out.String()

	assert.Contains(t, sql, "('Confección d''Or', 0)")
	assert.Contains(t, sql, "ON CONFLICT (name) DO UPDATE")
	assert.Contains(t, sql, "(1, 7, 0.5, 'm')")
	assert.Contains(t, sql, "ON CONFLICT (garment_type_id, material_type_id) DO UPDATE")
}
