package product

import (
	"strings"
	"unicode"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

// unitSynonyms maps whole-word unit spellings to a canonical token, so
// "ARROZ 1 KILO" and "ARROZ 1 KG" produce the same deduplication key.
// Matching is token-based, which keeps substrings inside other words intact.
var unitSynonyms = map[string]string{
	"kilo":    "kg",
	"quilo":   "kg",
	"litro":   "l",
	"lt":      "l",
	"grama":   "g",
	"gramas":  "g",
	"gr":      "g",
	"unidade": "un",
	"pc":      "un",
	"pacote":  "pct",
}

var stripAccents = transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)

// Normalize builds the catalog's canonical comparison key: lower-cased,
// accent-stripped, whitespace-collapsed, with unit synonyms replaced.
// Pure and idempotent; this key decides how aggressively distinct line
// items collapse into one product.
func Normalize(rawName string) string {
	lowered := strings.ToLower(rawName)
	if stripped, _, err := transform.String(stripAccents, lowered); err == nil {
		lowered = stripped
	}

	fields := strings.Fields(lowered)
	for i, field := range fields {
		if canonical, ok := unitSynonyms[field]; ok {
			fields[i] = canonical
		}
	}
	return strings.Join(fields, " ")
}
