package pipeline

import (
	"fmt"
	"math/rand"
	"strings"

	"github.com/bartasx/browserforge/bayesnet"
	"github.com/bartasx/browserforge/browser"
	"github.com/bartasx/browserforge/collection"
)

// Node names the input network's meta-nodes are expected to carry.
// *LOCALE is this implementation's own addition: the distilled
// description of step 2 only names the other three, but the relaxation
// order and its worked examples both treat locale as a fourth,
// equally-first-class input constraint, so it is populated here
// alongside them.
const (
	nodeBrowserHTTP     = "*BROWSER_HTTP"
	nodeOperatingSystem = "*OPERATING_SYSTEM"
	nodeDevice          = "*DEVICE"
	nodeLocale          = "*LOCALE"

	nodeBrowserName = "*BROWSER"

	headerUserAgent1 = "User-Agent"
	headerUserAgent2 = "user-agent"

	sentinelMissingValue = "*MISSING_VALUE*"
	stringifiedPrefix    = "*STRINGIFIED*"
)

// Header is one ordered output header field. Ordering matters (a
// fingerprinted client sends its headers in a characteristic sequence),
// so the pipeline returns a slice rather than a map.
type Header struct {
	Key   string
	Value string
}

// GenerateHeaders runs the full header pipeline: expand the request's
// browser specs against the input network's known identities, build
// input constraints, sample the input network (relaxing on failure per
// req.Strict), sample the value network given that input sample, derive
// Accept-Language and the Sec-Fetch-* block, filter out scaffolding
// fields, overlay the caller's request-dependent headers, order by the
// matched browser's header order, and pascalise for HTTP/2 output.
func (s *Store) GenerateHeaders(rng *rand.Rand, req Request) ([]Header, error) {
	input, value := s.networks()
	if input == nil || value == nil {
		return nil, fmt.Errorf("pipeline: store has no loaded networks")
	}
	return generateHeaders(rng, input, value, req)
}

func generateHeaders(rng *rand.Rand, input, value *bayesnet.Network, req Request) ([]Header, error) {
	httpVersion := normalizeHTTPVersion(req.HTTPVersion)

	iSample, unsatisfiable, err := sampleInput(rng, input, value, req, nil)
	if err != nil {
		return nil, err
	}
	if unsatisfiable {
		if httpVersion == "1" {
			// Retrying at HTTP/2 is enough to pascalise the result too:
			// that run's own httpVersion is "2", so deriveFilterOrder
			// pascalises on the way out.
			retryReq := req
			retryReq.HTTPVersion = "2"
			return generateHeaders(rng, input, value, retryReq)
		}
		if req.Strict {
			return nil, fmt.Errorf("%w: no consistent input sample after relaxation", ErrUnsatisfiableConstraints)
		}
		return []Header{{Key: "User-Agent", Value: "Mozilla/5.0"}}, nil
	}

	vSample := value.Sample(rng, iSample)
	return deriveFilterOrder(iSample, vSample, req, httpVersion)
}

func normalizeHTTPVersion(v string) string {
	if v == "" {
		return "2"
	}
	return v
}

// sampleInput builds the input-network constraints for req (optionally
// narrowed by a caller-supplied user-agent whitelist and merged with
// extraConstraints; both current callers pass nil) and samples it, relaxing on failure
// unless req.HTTPVersion is "1" (that case is the caller's
// responsibility: it retries the whole pipeline at HTTP/2 instead of
// relaxing). unsatisfiable is true when no sample could be produced and
// the caller hasn't been told to retry at HTTP/2.
func sampleInput(rng *rand.Rand, input, value *bayesnet.Network, req Request, extraConstraints map[string]collection.StringSet) (map[string]string, bool, error) {
	browserWhitelist, err := expandBrowserSpecs(input, req.Browsers)
	if err != nil {
		return nil, false, err
	}

	constraints := buildInputConstraints(browserWhitelist, req.OperatingSystems, req.Devices, req.Locales)
	if len(req.UserAgentWhitelist) > 0 {
		narrowByUserAgentWhitelist(value, constraints, req.UserAgentWhitelist)
	}
	for k, v := range extraConstraints {
		constraints[k] = v
	}

	if iSample, ok := input.SampleConsistent(rng, constraints); ok {
		return iSample, false, nil
	}

	if normalizeHTTPVersion(req.HTTPVersion) == "1" {
		return nil, true, nil
	}

	steps := []relaxStep{
		{nodeLocale, len(req.Locales)},
		{nodeDevice, len(req.Devices)},
		{nodeOperatingSystem, len(req.OperatingSystems)},
		{nodeBrowserHTTP, len(req.Browsers)},
	}
	iSample, ok := relax(rng, input, constraints, steps)
	return iSample, !ok, nil
}

// expandBrowserSpecs resolves the request's browser specs against the
// input network's *BROWSER_HTTP catalogue, returning the set of
// identifier strings matching at least one spec. An empty specs list
// leaves the browser dimension unconstrained (nil, not an empty set:
// SampleConsistent treats a name absent from constraints as
// unconstrained, and an explicitly-empty set as impossible).
func expandBrowserSpecs(input *bayesnet.Network, specs []BrowserSpec) (collection.StringSet, error) {
	if len(specs) == 0 {
		return nil, nil
	}
	node, ok := input.Node(nodeBrowserHTTP)
	if !ok {
		return nil, fmt.Errorf("pipeline: input network has no %s node", nodeBrowserHTTP)
	}

	matchers := make([]browserSpecMatcher, len(specs))
	for i, spec := range specs {
		matchers[i] = newBrowserSpecMatcher(spec)
	}

	whitelist := collection.StringSet{}
	for candidate := range node.PossibleValues {
		id, err := browser.ParseIdentifier(candidate)
		if err != nil {
			continue
		}
		for _, m := range matchers {
			if m.matches(id) {
				whitelist[candidate] = true
				break
			}
		}
	}
	return whitelist, nil
}

// browserSpecMatcher pre-computes the major-version whitelist for one
// BrowserSpec, using an IntSet rather than a pair of int comparisons so
// that an open-ended range (MinVersion set, MaxVersion not, or vice
// versa) and a closed range are tested the same way.
type browserSpecMatcher struct {
	spec    BrowserSpec
	bounded bool
	majors  *collection.IntSet
}

func newBrowserSpecMatcher(spec BrowserSpec) browserSpecMatcher {
	if spec.MinVersion == 0 && spec.MaxVersion == 0 {
		return browserSpecMatcher{spec: spec}
	}
	min := spec.MinVersion
	max := spec.MaxVersion
	if max == 0 {
		max = min + 999
	}
	if min == 0 {
		min = 0
	}
	set := &collection.IntSet{}
	for v := min; v <= max; v++ {
		set.Insert(v)
	}
	return browserSpecMatcher{spec: spec, bounded: true, majors: set}
}

func (m browserSpecMatcher) matches(id browser.Identifier) bool {
	if m.spec.Name != "" && m.spec.Name != id.Name {
		return false
	}
	if m.spec.HTTPVersion != "" && m.spec.HTTPVersion != id.HTTPVersion {
		return false
	}
	if m.bounded && !m.majors.Has(id.Version.Major()) {
		return false
	}
	return true
}

func buildInputConstraints(browserWhitelist collection.StringSet, operatingSystems, devices, locales []string) map[string]collection.StringSet {
	constraints := map[string]collection.StringSet{}
	if browserWhitelist != nil {
		// Non-nil (even if empty) means the request named at least one
		// browser spec: an empty result is a real, binding constraint
		// that no known identifier matched any of them, not "no
		// preference".
		constraints[nodeBrowserHTTP] = browserWhitelist
	}
	if len(operatingSystems) > 0 {
		constraints[nodeOperatingSystem] = collection.StringList(operatingSystems).Set()
	}
	if len(devices) > 0 {
		constraints[nodeDevice] = collection.StringList(devices).Set()
	}
	if len(locales) > 0 {
		constraints[nodeLocale] = collection.StringList(locales).Set()
	}
	return constraints
}

// narrowByUserAgentWhitelist restricts the *BROWSER_HTTP constraint to
// identifiers whose bare browser name co-occurs with at least one
// whitelisted User-Agent string, using the value network's own
// constraint propagation to discover that co-occurrence. An "x|1"
// identifier survives if the HTTP/1-cased propagation doesn't bind
// *BROWSER at all (no browser name is excluded) or binds it to a set
// containing x; "x|2" is judged symmetrically against the HTTP/2-cased
// propagation.
func narrowByUserAgentWhitelist(value *bayesnet.Network, constraints map[string]collection.StringSet, whitelist []string) {
	browserWhitelist, ok := constraints[nodeBrowserHTTP]
	if !ok {
		return
	}

	uaSet := collection.StringList(whitelist).Set()
	http1Domain, http1Err := value.PossibleValues(map[string]collection.StringSet{headerUserAgent1: uaSet})
	http2Domain, http2Err := value.PossibleValues(map[string]collection.StringSet{headerUserAgent2: uaSet})

	filtered := collection.StringSet{}
	for candidate := range browserWhitelist {
		id, err := browser.ParseIdentifier(candidate)
		if err != nil {
			continue
		}
		switch id.HTTPVersion {
		case "1":
			if http1Err == nil && survivesDomain(http1Domain, id.Name) {
				filtered[candidate] = true
			}
		case "2":
			if http2Err == nil && survivesDomain(http2Domain, id.Name) {
				filtered[candidate] = true
			}
		}
	}
	constraints[nodeBrowserHTTP] = filtered
}

func survivesDomain(domain map[string]collection.StringSet, name string) bool {
	bound, ok := domain[nodeBrowserName]
	if !ok {
		return true
	}
	return bound[name]
}

// deriveFilterOrder turns a matched (input, value) sample pair into the
// final ordered header list: derive Accept-Language and Sec-Fetch-*,
// drop scaffolding fields, overlay request-dependent headers, order by
// the matched browser's declared header order, and pascalise for
// HTTP/2 output.
func deriveFilterOrder(iSample, vSample map[string]string, req Request, httpVersion string) ([]Header, error) {
	fields := make(map[string]string, len(vSample))
	for k, v := range vSample {
		fields[k] = unwrapSentinel(v)
	}
	// userAgent is the value network's node for fingerprint pinning
	// (§4.4.2); as a header it surfaces under its wire name.
	if ua, ok := fields[nodeUserAgent]; ok {
		fields[headerUserAgent1] = ua
		delete(fields, nodeUserAgent)
	}

	reg := browser.DefaultRegistry()
	var entry *browser.Entry
	var id browser.Identifier
	if raw, ok := iSample[nodeBrowserHTTP]; ok {
		if parsed, err := browser.ParseIdentifier(raw); err == nil {
			id = parsed
			entry = reg.ByName(parsed.Name)
		}
	}

	// Fields carry the mixed-case keys the value network's nodes are
	// declared with (the same casing browser.Entry.HeaderOrder lists),
	// which is also the form an HTTP/1.1 client sends on the wire.
	// Pascalize is only applied, idempotently, at the very end for
	// HTTP/2 output.
	delete(fields, headerUserAgent2)
	fields["Accept-Language"] = browser.AcceptLanguage(req.Locales)

	if entry != nil && entry.SendsSecFetch(id.Version) {
		injectSecFetch(fields, httpVersion)
	}

	filtered := filterScaffolding(fields)

	for k, v := range req.RequestDependentHeaders {
		filtered[k] = v
	}

	if _, ok := filtered[headerUserAgent1]; !ok {
		return nil, ErrMissingUserAgent
	}

	ordered := orderHeaders(filtered, entry)
	if httpVersion == "2" {
		ordered = pascalizeAll(ordered, entry)
	}
	return ordered, nil
}

// injectSecFetch adds the four Sec-Fetch-* fields a browser that gates
// on SendsSecFetch is expected to send for a top-level navigation
// request: Site=none, Mode=navigate, User=?1, Dest=document. Per §6 the
// block's own casing is pinned directly to the target HTTP version
// (mixed-case for HTTP/1, lowercase for HTTP/2) rather than left to the
// general pascalisation pass, so pascalizeAll leaves sec-fetch-* keys
// alone.
func injectSecFetch(fields map[string]string, httpVersion string) {
	values := map[string]string{"site": "none", "mode": "navigate", "user": "?1", "dest": "document"}
	for name, value := range values {
		if httpVersion == "2" {
			fields["sec-fetch-"+name] = value
			continue
		}
		fields["Sec-Fetch-"+strings.ToUpper(name[:1])+name[1:]] = value
	}
}

// filterScaffolding drops the internal bookkeeping fields that never
// belong on the wire: names starting with '*' (meta-node pass-throughs
// like the sample's own *BROWSER_HTTP), the *MISSING_VALUE* sentinel, an
// empty value, and a hard-coded Connection: close (every generated
// sample is meant to represent a keep-alive connection).
func filterScaffolding(fields map[string]string) map[string]string {
	out := make(map[string]string, len(fields))
	for k, v := range fields {
		if len(k) == 0 || k[0] == '*' {
			continue
		}
		if v == "" || v == sentinelMissingValue {
			continue
		}
		if (k == "Connection" || k == "connection") && v == "close" {
			continue
		}
		out[k] = v
	}
	return out
}

// orderHeaders arranges fields according to entry's declared header
// order, appending any field entry doesn't name at the end in the
// order map iteration happens to find them (there is no canonical
// "rest" order once a field falls outside a known browser's profile).
// A nil entry (unmatched or unknown browser) falls back entirely to
// that undefined order.
func orderHeaders(fields map[string]string, entry *browser.Entry) []Header {
	ordered := make([]Header, 0, len(fields))
	seen := make(map[string]bool, len(fields))

	if entry != nil {
		for _, key := range entry.HeaderOrder {
			if v, ok := fields[key]; ok {
				ordered = append(ordered, Header{Key: key, Value: v})
				seen[key] = true
			}
		}
	}
	for k, v := range fields {
		if seen[k] {
			continue
		}
		ordered = append(ordered, Header{Key: k, Value: v})
	}
	return ordered
}

// pascalizeAll applies browser.Pascalize to every header key except the
// Sec-Fetch-* block, whose own casing (already pinned to lowercase for
// HTTP/2 by injectSecFetch) is governed directly by §6's Sec-Fetch block
// rule rather than the general pascalisation pass. When entry is
// non-nil, its own PascalExceptions take priority over the package's
// default table, so a browser whose presentation metadata departs from
// the common dnt/rtt/ect/sec-ch-ua set still casts correctly.
func pascalizeAll(headers []Header, entry *browser.Entry) []Header {
	var overrides map[string]string
	if entry != nil {
		overrides = entry.PascalExceptions
	}
	out := make([]Header, len(headers))
	for i, h := range headers {
		if strings.HasPrefix(strings.ToLower(h.Key), "sec-fetch-") {
			out[i] = h
			continue
		}
		out[i] = Header{Key: browser.PascalizeWithExceptions(h.Key, overrides), Value: h.Value}
	}
	return out
}

// unwrapSentinel strips the *STRINGIFIED* JSON-as-string prefix a value
// network field can carry, leaving the underlying string untouched
// otherwise. Full JSON decoding of the stringified payload is only
// needed by fingerprint generation's structured fields (screen,
// battery, ...), so it's applied there rather than unconditionally here.
func unwrapSentinel(v string) string {
	const prefix = stringifiedPrefix
	if len(v) > len(prefix) && v[:len(prefix)] == prefix {
		return v[len(prefix):]
	}
	return v
}
