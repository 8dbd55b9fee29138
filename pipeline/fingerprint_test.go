package pipeline

import (
	"strings"
	"testing"

	"github.com/bartasx/browserforge/bayesnet"
	"github.com/bartasx/browserforge/testutil"
)

const screenValueModelJSON = `{
  "nodes": [
    {
      "name": "screen",
      "parentNames": [],
      "possibleValues": [
        "*STRINGIFIED*{\"width\":1920,\"height\":1080}",
        "*STRINGIFIED*{\"width\":640,\"height\":480}"
      ],
      "conditionalProbabilities": {
        "*STRINGIFIED*{\"width\":1920,\"height\":1080}": 0.5,
        "*STRINGIFIED*{\"width\":640,\"height\":480}": 0.5
      }
    }
  ]
}`

func TestScreenDimensionWhitelistNilWhenNoBoundsRequested(t *testing.T) {
	net, err := bayesnet.LoadNetwork(strings.NewReader(screenValueModelJSON))
	testutil.Ok(t, err)
	whitelist := screenDimensionWhitelist(net, Request{})
	testutil.Assert(t, whitelist == nil, "expected nil whitelist with no bounds set")
}

func TestScreenDimensionWhitelistFiltersByBounds(t *testing.T) {
	net, err := bayesnet.LoadNetwork(strings.NewReader(screenValueModelJSON))
	testutil.Ok(t, err)
	whitelist := screenDimensionWhitelist(net, Request{MinScreenWidth: 1024})
	set, ok := whitelist[nodeScreen]
	testutil.Assert(t, ok, "expected a screen constraint")
	testutil.Equals(t, 1, len(set))
	testutil.Assert(t, set[`*STRINGIFIED*{"width":1920,"height":1080}`], "expected the large candidate to survive")
}

func TestScreenDimensionWhitelistNilWhenNoNodePresent(t *testing.T) {
	net, err := bayesnet.LoadNetwork(strings.NewReader(`{"nodes":[{"name":"userAgent","parentNames":[],"possibleValues":["UA"],"conditionalProbabilities":{"UA":1.0}}]}`))
	testutil.Ok(t, err)
	whitelist := screenDimensionWhitelist(net, Request{MinScreenWidth: 1024})
	testutil.Assert(t, whitelist == nil, "expected nil whitelist when the value network has no screen node")
}

func TestPostProcessDropsMissingAndDecodesStringified(t *testing.T) {
	fp := postProcess(map[string]string{
		"userAgent": "Mozilla/5.0 (Windows NT 10.0; Win64; x64)",
		"plugin":    sentinelMissingValue,
		"screen":    stringifiedPrefix + `{"width":1920,"height":1080}`,
	})
	_, hasPlugin := fp["plugin"]
	testutil.Assert(t, !hasPlugin, "expected *MISSING_VALUE* field to be dropped")

	screen, ok := fp["screen"].(map[string]interface{})
	testutil.Assert(t, ok, "expected screen to decode to a map")
	testutil.Equals(t, float64(1920), screen["width"])
}

func TestPostProcessFillsPlatformBatteryAndFonts(t *testing.T) {
	fp := postProcess(map[string]string{
		"userAgent": "Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/108.0.0.0 Safari/537.36",
	})
	testutil.Equals(t, "Win32", fp["platform"])
	_, hasBattery := fp["battery"]
	testutil.Assert(t, hasBattery, "expected a default battery entry")
	_, hasFonts := fp["fonts"]
	testutil.Assert(t, hasFonts, "expected default fonts")
}

func TestPostProcessLeavesExplicitPlatformAlone(t *testing.T) {
	fp := postProcess(map[string]string{"platform": "Linux x86_64"})
	testutil.Equals(t, "Linux x86_64", fp["platform"])
}

func TestDerivePlatformMapsKnownOSes(t *testing.T) {
	testutil.Equals(t, "Win32", derivePlatform("Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/108.0.0.0 Safari/537.36"))
	testutil.Equals(t, "MacIntel", derivePlatform("Mozilla/5.0 (Macintosh; Intel Mac OS X 10_15_7) AppleWebKit/605.1.15 (KHTML, like Gecko) Version/15.0 Safari/605.1.15"))
}

func TestDefaultMultimediaDevicesVariesByPlatform(t *testing.T) {
	mac := defaultMultimediaDevices("MacIntel")
	testutil.Equals(t, 1, mac["webcams"])
	win := defaultMultimediaDevices("Win32")
	testutil.Equals(t, 0, win["webcams"])
}

func TestCheckUserAgentAgreesWithSampleAcceptsMatchingBrowser(t *testing.T) {
	chromeUA := "Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/108.0.0.0 Safari/537.36"
	err := checkUserAgentAgreesWithSample(chromeUA, "chrome/108.0.0.0|2")
	testutil.Ok(t, err)
}

func TestCheckUserAgentAgreesWithSampleRejectsMismatch(t *testing.T) {
	firefoxUA := "Mozilla/5.0 (Windows NT 10.0; Win64; x64; rv:91.0) Gecko/20100101 Firefox/91.0"
	err := checkUserAgentAgreesWithSample(firefoxUA, "chrome/108.0.0.0|2")
	testutil.Assert(t, err == ErrUserAgentMismatch, "expected ErrUserAgentMismatch, got %v", err)
}

func TestCheckUserAgentAgreesWithSampleToleratesEmptyInputs(t *testing.T) {
	testutil.Ok(t, checkUserAgentAgreesWithSample("", "chrome/108.0.0.0|2"))
	testutil.Ok(t, checkUserAgentAgreesWithSample("Mozilla/5.0", ""))
}
