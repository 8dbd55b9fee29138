package pipeline

import "errors"

// ErrUnsatisfiableConstraints is returned when a request's constraints
// admit no consistent sample, the requester asked for strict behaviour,
// and relaxation (where attempted) still came up empty.
var ErrUnsatisfiableConstraints = errors.New("pipeline: unsatisfiable constraints")

// ErrMissingUserAgent is returned when the value network produced a
// sample with no User-Agent header at all. Outside a broken or
// mismatched model file this should never happen, since every value
// network is expected to carry a user-agent node.
var ErrMissingUserAgent = errors.New("pipeline: sample has no user-agent header")

// ErrUserAgentMismatch is returned when the generated User-Agent string,
// re-parsed with uasurfer, names a different browser family than the
// *BROWSER_HTTP value the input network sampled to produce it.
var ErrUserAgentMismatch = errors.New("pipeline: generated user-agent disagrees with sampled browser identity")
