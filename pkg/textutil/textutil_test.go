package textutil_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/tu-usuario/negocio-api/pkg/textutil"
)

func TestFold_EliminaTildesYMayusculas(t *testing.T) {
	assert.Equal(t, "jose perez", textutil.Fold("José PÉREZ"))
	assert.Equal(t, "almacen nunez", textutil.Fold("Almacén Núñez"))
}

func TestFold_ColapsaEspacios(t *testing.T) {
	assert.Equal(t, "ferreteria el martillo", textutil.Fold("  Ferretería   El  Martillo "))
}

func TestFold_TextoSinDiacriticosQuedaIgual(t *testing.T) {
	assert.Equal(t, "acme sas", textutil.Fold("acme sas"))
}
