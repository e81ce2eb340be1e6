package engine

import (
	"strings"
	"unicode"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

var titler = cases.Title(language.English)

// HandlerName converts a wire action name to the conventional handler method
// name: "submit_form" becomes "OnSubmitForm". Handler tables are keyed by the
// wire name; this exists for diagnostics and code generation.
func HandlerName(action string) string {
	var b strings.Builder
	b.WriteString("On")
	for _, part := range strings.Split(action, "_") {
		b.WriteString(titler.String(strings.ToLower(part)))
	}
	return b.String()
}

// ActionName is the inverse of HandlerName: "OnSubmitForm" becomes
// "submit_form".
func ActionName(method string) string {
	method = strings.TrimPrefix(method, "On")
	var b strings.Builder
	for i, r := range method {
		if unicode.IsUpper(r) && i > 0 {
			b.WriteByte('_')
		}
		b.WriteRune(unicode.ToLower(r))
	}
	return b.String()
}
