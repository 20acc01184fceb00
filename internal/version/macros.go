// Package version composes the version macros injected after the includes
// of a generated header.
package version

import (
	"errors"
	"fmt"
	"strings"
	"unicode"

	"github.com/goplus/gbindgen/mod/module"
	"github.com/iancoleman/strcase"
)

// ErrNamespaceMissing is returned when no namespace is configured: the
// macro names are derived from it.
var ErrNamespaceMissing = errors.New("namespace is not set, cannot name version macros")

const macrosFormat = `
#define %[1]s_MAJOR_VERSION %[2]d
#define %[1]s_MINOR_VERSION %[3]d
#define %[1]s_MICRO_VERSION %[4]d

#define %[1]s_CHECK_VERSION(major,minor,micro) \
    (%[1]s_MAJOR_VERSION > (major) ||                                   \
     (%[1]s_MAJOR_VERSION == (major) && %[1]s_MINOR_VERSION > (minor)) || \
     (%[1]s_MAJOR_VERSION == (major) && %[1]s_MINOR_VERSION == (minor) && \
      %[1]s_MICRO_VERSION >= (micro)))
`

// Prefix returns the macro prefix for namespace: upper snake case.
// Words break at non-alphanumeric characters, before an upper case letter
// following a lower case one, and before the last letter of an acronym
// followed by lower case ("HTTPServer" is HTTP_SERVER). Digits never
// start a word, so "Gtk4Rs" is GTK4_RS.
func Prefix(namespace string) string {
	ws := words(namespace)
	for i, w := range ws {
		// strcase separates digits from letters; a word keeps them.
		ws[i] = strings.ReplaceAll(strcase.ToScreamingSnake(w), "_", "")
	}
	return strings.Join(ws, "_")
}

type caseMode int

const (
	caseBoundary caseMode = iota
	caseLower
	caseUpper
)

func words(s string) []string {
	var ret []string
	fields := strings.FieldsFunc(s, func(r rune) bool {
		return !unicode.IsLetter(r) && !unicode.IsDigit(r)
	})
	for _, field := range fields {
		runes := []rune(field)
		start, mode := 0, caseBoundary
		for i := 0; i+1 < len(runes); i++ {
			c, next := runes[i], runes[i+1]
			nextMode := mode
			switch {
			case unicode.IsLower(c):
				nextMode = caseLower
			case unicode.IsUpper(c):
				nextMode = caseUpper
			}
			switch {
			case nextMode == caseLower && unicode.IsUpper(next):
				ret = append(ret, string(runes[start:i+1]))
				start = i + 1
			case mode == caseUpper && unicode.IsUpper(c) && unicode.IsLower(next) && i > start:
				ret = append(ret, string(runes[start:i]))
				start = i
			}
			mode = nextMode
		}
		ret = append(ret, string(runes[start:]))
	}
	return ret
}

// Macros returns the block defining NS_MAJOR_VERSION, NS_MINOR_VERSION,
// NS_MICRO_VERSION and NS_CHECK_VERSION(major,minor,micro) for v.
// The output depends only on its arguments.
func Macros(namespace string, v module.Semver) (string, error) {
	ns := Prefix(strings.TrimSpace(namespace))
	if ns == "" {
		return "", ErrNamespaceMissing
	}
	return fmt.Sprintf(macrosFormat, ns, v.Major, v.Minor, v.Patch), nil
}
