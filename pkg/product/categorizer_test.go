package product

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestCategorizeKnownKeywords(t *testing.T) {
	assert.Equal(t, "Grãos e Cereais", Categorize("ARROZ BRANCO TIPO 1"))
	assert.Equal(t, "Laticínios", Categorize("LEITE INTEGRAL 1L"))
	assert.Equal(t, "Carnes e Peixes", Categorize("FRANGO CONGELADO"))
	assert.Equal(t, "Bebidas", Categorize("REFRIGERANTE COLA 2L"))
	assert.Equal(t, "Limpeza", Categorize("DETERGENTE NEUTRO"))
}

func TestCategorizeMatchesAccentedSpellings(t *testing.T) {
	assert.Equal(t, "Grãos e Cereais", Categorize("FEIJÃO CARIOCA"))
	assert.Equal(t, "Padaria", Categorize("PÃO DE FORMA"))
}

func TestCategorizeFirstMatchWins(t *testing.T) {
	// Contains both a grain keyword and a dairy keyword; rule order decides.
	assert.Equal(t, "Grãos e Cereais", Categorize("ARROZ DOCE COM LEITE"))
}

func TestCategorizeUnknownFallsBack(t *testing.T) {
	assert.Equal(t, CategoryOther, Categorize("PILHA ALCALINA AA"))
	assert.Equal(t, CategoryOther, Categorize(""))
}

func TestCategorizeIsDeterministic(t *testing.T) {
	first := Categorize("TOMATE ITALIANO")
	for i := 0; i < 10; i++ {
		assert.Equal(t, first, Categorize("TOMATE ITALIANO"))
	}
}
