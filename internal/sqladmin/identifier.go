package sqladmin

import (
	"regexp"
	"strings"
	"unicode"
)

// columnTypePattern admits type names such as INTEGER, VARCHAR(255),
// DECIMAL(10, 2) or UNSIGNED BIG INT, and nothing that could end a clause.
var columnTypePattern = regexp.MustCompile(`^[A-Za-z_][A-Za-z0-9_ ]*(\(\s*[+-]?[0-9]+(\s*,\s*[+-]?[0-9]+)?\s*\))?$`)

// ValidateIdentifier trims name and checks it against the identifier rule:
// non-empty and, once underscores are removed, made only of letters and
// digits. kind names the identifier in the error message ("table", "column").
func ValidateIdentifier(kind, name string) (string, error) {
	trimmed := strings.TrimSpace(name)
	if trimmed == "" {
		return "", invalidArgument("Invalid %s name provided.", kind)
	}
	if !isAlnum(strings.ReplaceAll(trimmed, "_", "")) {
		return "", invalidArgument("Invalid %s name provided.", kind)
	}
	return trimmed, nil
}

// isAlnum reports whether s is non-empty and every rune is a letter or digit.
func isAlnum(s string) bool {
	if s == "" {
		return false
	}
	for _, r := range s {
		if !unicode.IsLetter(r) && !unicode.IsNumber(r) {
			return false
		}
	}
	return true
}

// validateColumnType trims a declared column type and rejects anything that
// is not a plain type name with an optional size.
func validateColumnType(column, typ string) (string, error) {
	trimmed := strings.TrimSpace(typ)
	if trimmed == "" {
		return "", invalidArgument("Column type must not be empty for column '%s'.", column)
	}
	if !columnTypePattern.MatchString(trimmed) {
		return "", invalidArgument("Invalid type '%s' for column '%s'.", trimmed, column)
	}
	return trimmed, nil
}

// quoteIdentifier wraps name in double quotes, doubling embedded quotes.
// Validated identifiers never contain quotes; names read back from the
// catalog might.
func quoteIdentifier(name string) string {
	return `"` + strings.ReplaceAll(name, `"`, `""`) + `"`
}
