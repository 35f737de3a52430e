// Package textnorm normaliza textos para comparaciones insensibles a mayúsculas y tildes
// (ej. nombres de áreas: "Diseño", "DISENO" y " diseño " son equivalentes).
package textnorm

import (
	"strings"
	"unicode"

	"golang.org/x/text/cases"
	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

// Fold devuelve la forma canónica de s: sin marcas diacríticas, en minúsculas (case folding),
// sin espacios en los extremos y con espacios internos colapsados.
func Fold(s string) string {
	// Un transformer nuevo por llamada: los transformers de x/text no son seguros para uso concurrente.
	t := transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)
	out, _, err := transform.String(t, s)
	if err != nil {
		out = s
	}
	out = cases.Fold().String(out)
	return strings.Join(strings.Fields(out), " ")
}

// Equal compara a y b tras aplicar Fold.
func Equal(a, b string) bool {
	return Fold(a) == Fold(b)
}
