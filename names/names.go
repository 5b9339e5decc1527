// Package names turns device-reported cat names into cat ids.
package names

import (
	"strings"
	"unicode"
)

// aliases maps device names which do not say whose they are.
var aliases = map[string]string{
	"QP1A_191005_007_A3_Pixel_XL": "ric",
	"Rye16":                       "rye",
	"ranga-moto-act3":             "ia",
}

// AliasOrName returns the alias for name, or name.
func AliasOrName(name string) string {
	if alias, ok := aliases[name]; ok {
		return alias
	}
	return name
}

// SanitizeName lowercases name and replaces every run of characters
// other than letters, digits, '-' and '_' with a single '_'.
func SanitizeName(name string) string {
	var b strings.Builder
	lastUnderscore := false
	for _, r := range strings.ToLower(strings.TrimSpace(name)) {
		if unicode.IsLetter(r) || unicode.IsDigit(r) || r == '-' || r == '_' {
			b.WriteRune(r)
			lastUnderscore = r == '_'
			continue
		}
		if !lastUnderscore {
			b.WriteRune('_')
			lastUnderscore = true
		}
	}
	return strings.Trim(b.String(), "_")
}

func AliasOrSanitizedName(name string) string {
	if alias, ok := aliases[name]; ok {
		return alias
	}
	return SanitizeName(name)
}
