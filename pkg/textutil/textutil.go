// Package textutil normaliza texto para búsquedas: clientes y proveedores se
// registran con nombres con tildes y mayúsculas variadas, y la búsqueda debe
// encontrarlos igual ("Pérez" == "perez").
package textutil

import (
	"strings"
	"unicode"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

var foldChain = transform.Chain(
	norm.NFD,
	runes.Remove(runes.In(unicode.Mn)), // elimina marcas diacríticas (tildes, diéresis)
	norm.NFC,
)

// Fold devuelve el texto en minúsculas, sin tildes ni diacríticos y con espacios
// colapsados. Es lo que se persiste en las columnas *_search y lo que se usa como
// término de búsqueda.
func Fold(s string) string {
	folded, _, err := transform.String(foldChain, s)
	if err != nil {
		folded = s
	}
	return strings.Join(strings.Fields(strings.ToLower(folded)), " ")
}
