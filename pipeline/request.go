package pipeline

import "github.com/go-playground/validator/v10"

// requestValidate is the shared validator instance for Request, holding
// no per-call state so it's safe to reuse across concurrent calls.
var requestValidate = validator.New()

// BrowserSpec narrows the browser catalogue to one family, optionally
// bounded to a major-version range and pinned to one HTTP protocol
// version. A zero MinVersion/MaxVersion/HTTPVersion leaves that axis
// unconstrained.
type BrowserSpec struct {
	Name        string `validate:"required"`
	MinVersion  int    `validate:"omitempty,min=0"`
	MaxVersion  int    `validate:"omitempty,min=0"`
	HTTPVersion string `validate:"omitempty,oneof=1 2"`
}

// Request describes one caller's ask for a generated header set or
// fingerprint: which browsers/operating systems/devices/locales are
// acceptable, how strictly those constraints must be honoured, and the
// headers the caller's own transport layer already knows (and which the
// sampler must not overwrite).
type Request struct {
	Browsers         []BrowserSpec `validate:"omitempty,dive"`
	OperatingSystems []string
	Devices          []string

	// Locales is an ordered list of accepted locale tags, most preferred
	// first; it drives both the *LOCALE input constraint and the
	// generated Accept-Language header. Capped at 10: a request naming
	// more locales than that gains nothing (Accept-Language only ever
	// surfaces a handful) and makes relaxation's own *LOCALE step
	// pointless to reach.
	Locales []string `validate:"omitempty,max=10"`

	// HTTPVersion is the caller's preferred protocol version ("1" or
	// "2"). Empty defaults to "2".
	HTTPVersion string `validate:"omitempty,oneof=1 2"`

	// Strict, when true, surfaces ErrUnsatisfiableConstraints instead of
	// falling back to a stub response when no consistent sample exists
	// (after relaxation, where relaxation is attempted at all).
	Strict bool

	// UserAgentWhitelist, if non-empty, narrows the browser identities
	// expanded from Browsers to those the value network's User-Agent /
	// user-agent nodes tie to a string in this list. It has no effect
	// when Browsers is empty, or when the value network has no node by
	// either of those names.
	UserAgentWhitelist []string

	// RequestDependentHeaders are overlaid onto the generated set after
	// filtering and before ordering, taking precedence over anything the
	// sampler produced for the same key (e.g. Host, Cookie).
	RequestDependentHeaders map[string]string

	// Screen bounds, used only by fingerprint generation to narrow the
	// whitelist of candidate screen dimensions. Zero means unbounded on
	// that side.
	MinScreenWidth  int
	MaxScreenWidth  int
	MinScreenHeight int
	MaxScreenHeight int
}

// Validate checks req's struct tags and returns a validator.ValidationErrors
// describing every violation, or nil if req is well-formed. Callers are
// expected to call this before handing req to GenerateHeaders or
// GenerateFingerprint.
func (req Request) Validate() error {
	return requestValidate.Struct(req)
}
