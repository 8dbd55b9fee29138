package pipeline

import (
	"testing"

	"github.com/bartasx/browserforge/testutil"
)

func TestRequestValidateAcceptsZeroValue(t *testing.T) {
	testutil.Ok(t, Request{}.Validate())
}

func TestRequestValidateRejectsTooManyLocales(t *testing.T) {
	locales := make([]string, 11)
	for i := range locales {
		locales[i] = "en-US"
	}
	req := Request{Locales: locales}
	testutil.Assert(t, req.Validate() != nil, "expected an error for more than 10 locales")
}

func TestRequestValidateAcceptsTenLocales(t *testing.T) {
	locales := make([]string, 10)
	for i := range locales {
		locales[i] = "en-US"
	}
	req := Request{Locales: locales}
	testutil.Ok(t, req.Validate())
}

func TestRequestValidateRejectsBadHTTPVersion(t *testing.T) {
	req := Request{HTTPVersion: "3"}
	testutil.Assert(t, req.Validate() != nil, "expected an error for an unsupported HTTP version")
}

func TestRequestValidateRejectsBrowserSpecWithoutName(t *testing.T) {
	req := Request{Browsers: []BrowserSpec{{}}}
	testutil.Assert(t, req.Validate() != nil, "expected an error for a BrowserSpec missing Name")
}
