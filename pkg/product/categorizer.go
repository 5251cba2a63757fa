package product

import (
	"strings"
)

const CategoryOther = "Outros"

type categoryRule struct {
	category string
	keywords []string
}

// Rules are checked in declaration order and the first match wins, since a
// name may contain keywords from several groups. This is a heuristic, not a
// guarantee.
var categoryRules = []categoryRule{
	{"Grãos e Cereais", []string{"arroz", "feijao", "macarrao", "massa"}},
	{"Laticínios", []string{"leite", "queijo", "iogurte", "manteiga"}},
	{"Carnes e Peixes", []string{"carne", "frango", "peixe", "linguica"}},
	{"Frutas e Verduras", []string{"banana", "maca", "laranja", "tomate", "alface", "batata"}},
	{"Bebidas", []string{"refrigerante", "suco", "agua", "cerveja", "vinho"}},
	{"Padaria", []string{"pao", "bolo", "biscoito", "torrada"}},
	{"Limpeza", []string{"sabao", "detergente", "amaciante", "desinfetante"}},
	{"Higiene Pessoal", []string{"shampoo", "condicionador", "sabonete", "creme dental"}},
}

// Categorize assigns a category label from the keyword rule table. The
// name goes through Normalize first so accented spellings still match the
// accent-free keywords. It never fails; unmatched names fall back to
// CategoryOther.
func Categorize(rawName string) string {
	name := Normalize(rawName)
	for _, rule := range categoryRules {
		for _, keyword := range rule.keywords {
			if strings.Contains(name, keyword) {
				return rule.category
			}
		}
	}
	return CategoryOther
}
