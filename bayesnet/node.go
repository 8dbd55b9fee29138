package bayesnet

import (
	"math/rand"
	"sort"

	"github.com/bartasx/browserforge/collection"
)

// Node is a categorical random variable: a name, an ordered list of
// parent names it is conditioned on, the set of values it can take, and
// the compressed conditional probability table describing how those
// values are distributed given the parents.
type Node struct {
	Name           string
	ParentNames    []string
	PossibleValues collection.StringSet

	cpt *CPT
}

// ProbabilitiesGiven returns the node's conditional distribution given an
// assignment of (at least) its parents' values.
func (n *Node) ProbabilitiesGiven(assignment map[string]string) map[string]float64 {
	return n.cpt.Resolve(assignment, n.ParentNames)
}

// Support returns the node's own local-support sets: for each parent
// level, the values of that parent compatible with the node taking one
// of the values in valid, plus whether valid is reachable at all under
// some assignment of the node's parents. See CPT.Support for the exact
// semantics.
func (n *Node) Support(valid collection.StringSet) (levels []collection.StringSet, reachable bool) {
	raw, reachable := n.cpt.Support(valid, len(n.ParentNames))
	levels = make([]collection.StringSet, len(raw))
	for i, l := range raw {
		levels[i] = l
	}
	return levels, reachable
}

// Sample draws a value from the node's conditional distribution given
// assignment. The second return value is false if the distribution is
// empty (no value to draw).
func (n *Node) Sample(rng *rand.Rand, assignment map[string]string) (string, bool) {
	return sampleWeighted(rng, n.ProbabilitiesGiven(assignment))
}

// SampleRestricted draws a value from the node's conditional distribution
// given assignment, further restricted to allowed (if non-nil) and with
// banned removed. It returns ("", false) if no candidate remains.
func (n *Node) SampleRestricted(rng *rand.Rand, assignment map[string]string, allowed, banned collection.StringSet) (string, bool) {
	dist := n.ProbabilitiesGiven(assignment)
	if len(dist) == 0 {
		return "", false
	}
	restricted := make(map[string]float64, len(dist))
	for value, p := range dist {
		if allowed != nil && !allowed[value] {
			continue
		}
		if banned[value] {
			continue
		}
		restricted[value] = p
	}
	return sampleWeighted(rng, restricted)
}

// sampleWeighted draws a single value from dist via inverse-CDF sampling.
// Keys are visited in sorted order rather than map iteration order, so
// that two calls sharing an rng seed and a dist always make the same
// draw regardless of Go's randomized map iteration. The draw is scaled
// by the distribution's total mass rather than assuming it sums to 1, so
// that a restricted/partial distribution (allowed/banned filtering
// applied before the weights were renormalized) still preserves the
// relative proportions among its surviving candidates.
func sampleWeighted(rng *rand.Rand, dist map[string]float64) (string, bool) {
	if len(dist) == 0 {
		return "", false
	}
	keys := make([]string, 0, len(dist))
	var total float64
	for k, p := range dist {
		keys = append(keys, k)
		total += p
	}
	if total <= 0 {
		return "", false
	}
	sort.Strings(keys)

	u := rng.Float64() * total
	var cumulative float64
	for _, k := range keys {
		cumulative += dist[k]
		if cumulative > u {
			return k, true
		}
	}
	// Floating point round-off can leave cumulative fractionally short of
	// total; treat the last key in order as the catch-all.
	return keys[len(keys)-1], true
}
