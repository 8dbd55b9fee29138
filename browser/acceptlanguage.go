package browser

import (
	"fmt"
	"strings"
)

// AcceptLanguage synthesizes an Accept-Language header value from an
// ordered list of locale tags. The first locale is sent bare (q=1 is
// implicit); each subsequent locale gets a quality value 0.1 lower than
// the one before it, floored at 0.1.
func AcceptLanguage(locales []string) string {
	if len(locales) == 0 {
		return "en-US,en;q=0.9"
	}
	parts := make([]string, 0, len(locales))
	parts = append(parts, locales[0])
	q := 1.0
	for _, locale := range locales[1:] {
		q -= 0.1
		if q < 0.1 {
			q = 0.1
		}
		parts = append(parts, fmt.Sprintf("%s;q=%.1f", locale, q))
	}
	return strings.Join(parts, ",")
}
