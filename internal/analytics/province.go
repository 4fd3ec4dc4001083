package analytics

import (
	"sort"
	"strings"
	"unicode"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

// UnknownProvince is the sentinel bucket for locations that could not be
// resolved, keeping geographic totals reconcilable against total order count.
const UnknownProvince = "ไม่ทราบจังหวัด"

// thaiProvincePrefix is the "Province" prefix some inputs carry (จังหวัดชลบุรี).
const thaiProvincePrefix = "จังหวัด"

// ResolveProvince maps a free-text location string to a canonical English
// province name, or "" when there is no confident match. The resolver is
// permissive about spellings and aliases but never guesses across genuinely
// different provinces; callers bucket "" under UnknownProvince.
func ResolveProvince(raw string) string {
	candidate := strings.TrimSpace(raw)
	if candidate == "" {
		return ""
	}

	// "City, Province" inputs carry the province in the last segment.
	if idx := strings.LastIndex(candidate, ","); idx >= 0 {
		candidate = strings.TrimSpace(candidate[idx+1:])
	}
	candidate = strings.TrimSpace(strings.TrimPrefix(candidate, thaiProvincePrefix))

	if containsThai(candidate) {
		compact := strings.ReplaceAll(candidate, " ", "")
		if en, ok := thaiProvinces[compact]; ok {
			return en
		}
	}

	key := normalizeKey(candidate)
	if en, ok := provinceAliases[key]; ok {
		return en
	}
	if en, ok := englishIndex[key]; ok {
		return en
	}

	// Last resort for concatenations with no separators ("PakKretNonthaburi"):
	// tokenize on camel-case boundaries and whitespace and try progressively
	// shorter suffixes.
	tokens := splitCamelWords(raw)
	for i := range tokens {
		suffix := normalizeKey(strings.Join(tokens[i:], ""))
		if en, ok := provinceAliases[suffix]; ok {
			return en
		}
		if en, ok := englishIndex[suffix]; ok {
			return en
		}
	}

	return ""
}

// ProvinceNames lists the canonical English names of all 77 provinces, sorted.
func ProvinceNames() []string {
	names := make([]string, 0, len(thaiProvinces))
	for _, en := range thaiProvinces {
		names = append(names, en)
	}
	sort.Strings(names)
	return names
}

var stripMarks = transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)

// normalizeKey builds the comparison key used for all Latin-script lookups:
// diacritics stripped, everything except letters and digits removed, then
// lower-cased. "Chon-Buri", "chonburi" and "CHON BURI" all collide.
func normalizeKey(s string) string {
	if folded, _, err := transform.String(stripMarks, s); err == nil {
		s = folded
	}
	var b strings.Builder
	for _, r := range s {
		if unicode.IsLetter(r) || unicode.IsDigit(r) {
			b.WriteRune(unicode.ToLower(r))
		}
	}
	return b.String()
}

func containsThai(s string) bool {
	for _, r := range s {
		if unicode.Is(unicode.Thai, r) {
			return true
		}
	}
	return false
}

// splitCamelWords splits on whitespace and lower-to-upper camel boundaries.
func splitCamelWords(s string) []string {
	var words []string
	for _, field := range strings.Fields(s) {
		start := 0
		runes := []rune(field)
		for i := 1; i < len(runes); i++ {
			if unicode.IsUpper(runes[i]) && unicode.IsLower(runes[i-1]) {
				words = append(words, string(runes[start:i]))
				start = i
			}
		}
		words = append(words, string(runes[start:]))
	}
	return words
}
