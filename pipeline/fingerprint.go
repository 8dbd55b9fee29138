package pipeline

import (
	"encoding/json"
	"math/rand"
	"strings"

	"github.com/avct/uasurfer"
	"github.com/bartasx/browserforge/bayesnet"
	"github.com/bartasx/browserforge/browser"
	"github.com/bartasx/browserforge/collection"
)

const (
	nodeScreen    = "screen"
	nodeUserAgent = "userAgent"
)

// Fingerprint is a sampled set of browser/device attributes keyed by
// value-network field name. Scalar fields decode to string; a
// *STRINGIFIED* field (e.g. screen, plugin, and font lists) decodes to
// whatever JSON value it carried.
type Fingerprint map[string]interface{}

// screenCandidate is the shape a stringified screen-node value decodes
// into for whitelist filtering.
type screenCandidate struct {
	Width  int `json:"width"`
	Height int `json:"height"`
}

// GenerateFingerprint reuses the header pipeline as a subroutine: it
// samples input/value as §4.4.1 does, pins the value-network's userAgent
// node to the string the header flow produced, and resamples the value
// network with that pin plus a screen-dimension whitelist derived from
// req's bounds (if any); the input sample itself is not narrowed by
// screen bounds. If that resample fails, it aborts when req.Strict, and
// otherwise resamples without the screen whitelist, still pinned to the
// same userAgent. The result is
// post-processed (sentinel cleanup, stringified-JSON decoding, and
// platform-derived defaults for missing battery/multimedia/font
// fields) and returned alongside the headers used to derive it.
func (s *Store) GenerateFingerprint(rng *rand.Rand, req Request) (Fingerprint, []Header, error) {
	input, value := s.networks()
	if input == nil || value == nil {
		return nil, nil, ErrNoNetworks
	}

	httpVersion := normalizeHTTPVersion(req.HTTPVersion)

	iSample, unsatisfiable, err := sampleInput(rng, input, value, req, nil)
	if err != nil {
		return nil, nil, err
	}
	if unsatisfiable {
		if req.Strict {
			return nil, nil, ErrUnsatisfiableConstraints
		}
		return nil, []Header{{Key: "User-Agent", Value: "Mozilla/5.0"}}, nil
	}

	vSample := value.Sample(rng, iSample)
	headers, err := deriveFilterOrder(iSample, vSample, req, httpVersion)
	if err != nil {
		return nil, nil, err
	}

	userAgent := headerValue(headers, headerUserAgent1)
	if err := checkUserAgentAgreesWithSample(userAgent, iSample[nodeBrowserHTTP]); err != nil {
		return nil, nil, err
	}
	uaConstraint := map[string]collection.StringSet{nodeUserAgent: {userAgent: true}}

	screenWhitelist := screenDimensionWhitelist(value, req)
	withScreen := map[string]collection.StringSet{}
	for k, v := range uaConstraint {
		withScreen[k] = v
	}
	for k, v := range screenWhitelist {
		withScreen[k] = v
	}

	fpSample, ok := value.SampleConsistent(rng, withScreen)
	if !ok {
		if req.Strict {
			return nil, nil, ErrUnsatisfiableConstraints
		}
		fpSample, ok = value.SampleConsistent(rng, uaConstraint)
		if !ok {
			fpSample = value.Sample(rng, map[string]string{nodeUserAgent: userAgent})
		}
	}

	fp := postProcess(fpSample)
	return fp, headers, nil
}

// checkUserAgentAgreesWithSample re-parses userAgent with uasurfer and
// confirms its detected browser family matches identifierStr, the raw
// *BROWSER_HTTP value the input network sampled to drive header
// generation in the first place. A generated User-Agent that uasurfer
// attributes to a different family than the sampler intended means the
// value network's userAgent node and the input network's *BROWSER_HTTP
// catalogue have drifted out of sync, which downstream callers matching
// fingerprint fields against the User-Agent string need to know about
// rather than silently trust.
func checkUserAgentAgreesWithSample(userAgent, identifierStr string) error {
	if userAgent == "" || identifierStr == "" {
		return nil
	}
	id, err := browser.ParseIdentifier(identifierStr)
	if err != nil {
		return nil
	}
	// uasurfer names its families "BrowserChrome", "BrowserUnknown", ...;
	// strip that prefix to compare against the bare identifier name.
	detected := strings.ToLower(strings.TrimPrefix(uasurfer.Parse(userAgent).Browser.Name.String(), "Browser"))
	if detected == "" || detected == "unknown" {
		return nil
	}
	if detected != strings.ToLower(id.Name) {
		return ErrUserAgentMismatch
	}
	return nil
}

func headerValue(headers []Header, key string) string {
	for _, h := range headers {
		if h.Key == key {
			return h.Value
		}
	}
	return ""
}

// screenDimensionWhitelist derives the set of the value network's
// screen-node candidates (each stored as a *STRINGIFIED* JSON blob)
// whose width/height satisfy req's bounds, keyed so it can be merged
// straight into a constraint map. It returns nil when req specifies no
// bounds at all, or when the value network has no screen node.
func screenDimensionWhitelist(value *bayesnet.Network, req Request) map[string]collection.StringSet {
	if req.MinScreenWidth == 0 && req.MaxScreenWidth == 0 && req.MinScreenHeight == 0 && req.MaxScreenHeight == 0 {
		return nil
	}
	node, ok := value.Node(nodeScreen)
	if !ok {
		return nil
	}

	allowed := collection.StringSet{}
	for candidate := range node.PossibleValues {
		raw := unwrapSentinel(candidate)
		var sc screenCandidate
		if err := json.Unmarshal([]byte(raw), &sc); err != nil {
			continue
		}
		if req.MinScreenWidth != 0 && sc.Width < req.MinScreenWidth {
			continue
		}
		if req.MaxScreenWidth != 0 && sc.Width > req.MaxScreenWidth {
			continue
		}
		if req.MinScreenHeight != 0 && sc.Height < req.MinScreenHeight {
			continue
		}
		if req.MaxScreenHeight != 0 && sc.Height > req.MaxScreenHeight {
			continue
		}
		allowed[candidate] = true
	}
	if len(allowed) == 0 {
		return nil
	}
	return map[string]collection.StringSet{nodeScreen: allowed}
}

// postProcess turns a raw value-network sample into a Fingerprint: drop
// *MISSING_VALUE* fields, JSON-decode *STRINGIFIED* payloads, pass
// everything else through as a plain string, and fill in
// battery/multimedia-device/font fields from the sampled platform when
// the network didn't already produce them.
func postProcess(sample map[string]string) Fingerprint {
	fp := make(Fingerprint, len(sample))
	for k, v := range sample {
		if v == sentinelMissingValue {
			continue
		}
		if len(v) > len(stringifiedPrefix) && v[:len(stringifiedPrefix)] == stringifiedPrefix {
			payload := v[len(stringifiedPrefix):]
			var decoded interface{}
			if err := json.Unmarshal([]byte(payload), &decoded); err == nil {
				fp[k] = decoded
				continue
			}
		}
		fp[k] = v
	}

	platform, _ := fp["platform"].(string)
	if platform == "" {
		if ua, ok := fp[nodeUserAgent].(string); ok {
			platform = derivePlatform(ua)
			if platform != "" {
				fp["platform"] = platform
			}
		}
	}

	if _, ok := fp["battery"]; !ok {
		fp["battery"] = defaultBattery()
	}
	if _, ok := fp["multimediaDevices"]; !ok {
		fp["multimediaDevices"] = defaultMultimediaDevices(platform)
	}
	if _, ok := fp["fonts"]; !ok {
		fp["fonts"] = defaultFonts(platform)
	}
	return fp
}

// derivePlatform parses rawUA with uasurfer and returns the
// navigator.platform-style string browsers report for the sampled
// operating system.
func derivePlatform(rawUA string) string {
	info := uasurfer.Parse(rawUA)
	switch info.OS.Platform {
	case uasurfer.PlatformWindows:
		return "Win32"
	case uasurfer.PlatformMac:
		return "MacIntel"
	case uasurfer.PlatformLinux:
		return "Linux x86_64"
	case uasurfer.PlatformiPhone, uasurfer.PlatformiPad:
		return "iPhone"
	default:
		return info.OS.Platform.String()
	}
}

// defaultBattery returns a plugged-in, fully-charged battery state: the
// common case for a desktop fingerprint and a reasonable default absent
// any sampled value.
func defaultBattery() map[string]interface{} {
	return map[string]interface{}{
		"charging":        true,
		"chargingTime":    0,
		"dischargingTime": nil,
		"level":           1.0,
	}
}

func defaultMultimediaDevices(platform string) map[string]int {
	switch platform {
	case "MacIntel", "iPhone":
		return map[string]int{"speakers": 1, "micros": 1, "webcams": 1}
	default:
		return map[string]int{"speakers": 1, "micros": 1, "webcams": 0}
	}
}

func defaultFonts(platform string) []string {
	common := []string{"Arial", "Courier New", "Georgia", "Times New Roman", "Verdana"}
	switch platform {
	case "Win32":
		return append(common, "Segoe UI", "Calibri")
	case "MacIntel":
		return append(common, "Helvetica Neue", "San Francisco")
	default:
		return append(common, "DejaVu Sans", "Liberation Sans")
	}
}
