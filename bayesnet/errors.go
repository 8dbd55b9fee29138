package bayesnet

import "errors"

var (
	// ErrMalformedModel indicates a model document did not match the CPT
	// Tree / Node / Network grammar during load.
	ErrMalformedModel = errors.New("bayesnet: malformed model")

	// ErrEmptyConstraint indicates possibleValues was given a constraint
	// already bound to an empty set of allowed values.
	ErrEmptyConstraint = errors.New("bayesnet: empty constraint")

	// ErrInconsistentConstraints indicates closed-form propagation reduced
	// some node's candidate set to empty: the constraints, taken together,
	// have no satisfying assignment that local CPT support can find.
	ErrInconsistentConstraints = errors.New("bayesnet: inconsistent constraints")
)
