package browser_test

import (
	"testing"

	"github.com/bartasx/browserforge/browser"
	"github.com/bartasx/browserforge/testutil"
)

func TestPascalizeOrdinaryHeader(t *testing.T) {
	var tests = []struct {
		in, out string
	}{
		{"accept-language", "Accept-Language"},
		{"user-agent", "User-Agent"},
		{"host", "Host"},
	}
	for _, test := range tests {
		testutil.Equals(t, test.out, browser.Pascalize(test.in))
	}
}

func TestPascalizeExceptions(t *testing.T) {
	var tests = []struct {
		in, out string
	}{
		{"dnt", "DNT"},
		{"rtt", "RTT"},
		{"ect", "ECT"},
		{"sec-ch-ua", "sec-ch-ua"},
		{"sec-ch-ua-mobile", "sec-ch-ua-mobile"},
	}
	for _, test := range tests {
		testutil.Equals(t, test.out, browser.Pascalize(test.in))
	}
}

func TestPascalizePreservesUnlistedSecChUaVariants(t *testing.T) {
	var tests = []struct {
		in, out string
	}{
		{"sec-ch-ua-bitness", "sec-ch-ua-bitness"},
		{"sec-ch-ua-wow64", "sec-ch-ua-wow64"},
		{"sec-ch-ua-model", "sec-ch-ua-model"},
		{"sec-ch-ua-full-version-list", "sec-ch-ua-full-version-list"},
		{"Sec-CH-UA-Bitness", "Sec-CH-UA-Bitness"},
	}
	for _, test := range tests {
		testutil.Equals(t, test.out, browser.Pascalize(test.in))
	}
}

func TestPascalizePassesThroughPseudoHeaders(t *testing.T) {
	testutil.Equals(t, ":method", browser.Pascalize(":method"))
}

func TestPascalizeIsIdempotent(t *testing.T) {
	keys := []string{"accept-language", "dnt", "sec-ch-ua", ":path", "user-agent"}
	for _, k := range keys {
		once := browser.Pascalize(k)
		twice := browser.Pascalize(once)
		testutil.Equals(t, once, twice)
	}
}
