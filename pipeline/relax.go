package pipeline

import (
	"math/rand"

	"github.com/bartasx/browserforge/bayesnet"
	"github.com/bartasx/browserforge/collection"
)

// relaxStep pairs an input-network constraint key with the size of the
// request-supplied list it was built from. Only a dimension the caller
// narrowed to more than one candidate is eligible for relaxation: a
// dimension left unconstrained, or pinned to exactly one value, is a
// deliberate ask and is skipped rather than counted against the
// four-attempt budget.
type relaxStep struct {
	node          string
	originalCount int
}

// relax resets input-network constraints one dimension at a time, in
// the declared locale -> device -> operatingSystem -> browser order,
// retrying SampleConsistent after each reset. Resets accumulate: once a
// dimension is dropped it stays dropped for the rest of the attempts,
// matching a caller relaxing their own ask rather than the sampler
// randomly guessing around it. It reports false if every dimension has
// been tried and none produced a consistent sample.
func relax(rng *rand.Rand, input *bayesnet.Network, constraints map[string]collection.StringSet, steps []relaxStep) (map[string]string, bool) {
	current := cloneConstraints(constraints)
	for _, step := range steps {
		if step.originalCount <= 1 {
			continue
		}
		delete(current, step.node)
		if assignment, ok := input.SampleConsistent(rng, current); ok {
			return assignment, true
		}
	}
	return nil, false
}

func cloneConstraints(in map[string]collection.StringSet) map[string]collection.StringSet {
	out := make(map[string]collection.StringSet, len(in))
	for k, v := range in {
		cp := make(collection.StringSet, len(v))
		for val := range v {
			cp[val] = true
		}
		out[k] = cp
	}
	return out
}
