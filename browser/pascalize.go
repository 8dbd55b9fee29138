package browser

import "strings"

// pascalExceptions maps a lowercased header key to its canonical mixed
// case form, for keys real browsers don't send in simple
// Pascal-Case-by-hyphen form. The sec-ch-ua family is not listed here: it
// is handled separately below, and every sec-ch-ua-* variant is
// preserved verbatim.
var pascalExceptions = map[string]string{
	"dnt": "DNT",
	"rtt": "RTT",
	"ect": "ECT",
}

const secChUaPrefix = "sec-ch-ua"

// Pascalize converts an HTTP/2 lowercase header key into the mixed-case
// form an HTTP/1.1 client actually sends on the wire. HTTP/2 pseudo
// headers (":method", ":path", ...) and the sec-ch-ua family are passed
// through unchanged, keys in the fixed exception table take their
// tabled form (dnt -> DNT), and everything else is title-cased at each
// hyphen-delimited segment. Pascalize is
// idempotent: pascalising an already-pascalised key yields the same
// canonical output.
func Pascalize(key string) string {
	return PascalizeWithExceptions(key, nil)
}

// PascalizeWithExceptions pascalises key as Pascalize does, but checks
// overrides before the package's own exception table: a caller holding a
// specific Entry can pass its PascalExceptions so a browser that departs
// from the common dnt/rtt/ect set still casts its own exceptions
// correctly.
func PascalizeWithExceptions(key string, overrides map[string]string) string {
	lower := strings.ToLower(key)
	if strings.HasPrefix(lower, ":") {
		return key
	}
	if strings.HasPrefix(lower, secChUaPrefix) {
		return key
	}
	if exc, ok := overrides[lower]; ok {
		return exc
	}
	if exc, ok := pascalExceptions[lower]; ok {
		return exc
	}
	parts := strings.Split(lower, "-")
	for i, p := range parts {
		if p == "" {
			continue
		}
		parts[i] = strings.ToUpper(p[:1]) + p[1:]
	}
	return strings.Join(parts, "-")
}
