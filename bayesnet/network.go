package bayesnet

import (
	"fmt"
	"math/rand"

	"github.com/bartasx/browserforge/collection"
)

// Network is an ordered collection of Nodes in topological sampling
// order: every node's parents appear earlier in Nodes than the node
// itself.
type Network struct {
	Nodes  []*Node
	byName map[string]*Node
}

// NewNetwork validates that nodes are listed in a valid topological order
// (no node names a parent that has not already appeared) and indexes them
// by name.
func NewNetwork(nodes []*Node) (*Network, error) {
	net := &Network{
		Nodes:  nodes,
		byName: make(map[string]*Node, len(nodes)),
	}
	for _, node := range nodes {
		if _, dup := net.byName[node.Name]; dup {
			return nil, fmt.Errorf("%w: duplicate node %q", ErrMalformedModel, node.Name)
		}
		for _, parent := range node.ParentNames {
			if _, ok := net.byName[parent]; !ok {
				return nil, fmt.Errorf("%w: node %q references parent %q out of order", ErrMalformedModel, node.Name, parent)
			}
		}
		net.byName[node.Name] = node
	}
	return net, nil
}

// Node looks up a node by name.
func (net *Network) Node(name string) (*Node, bool) {
	node, ok := net.byName[name]
	return node, ok
}

// Sample draws a complete, unconstrained assignment by visiting Nodes in
// order. Entries already present in fixed are kept as given and never
// resampled; a node whose distribution comes up empty is simply left
// unassigned, matching upstream tools that tolerate sparse models.
func (net *Network) Sample(rng *rand.Rand, fixed map[string]string) map[string]string {
	assignment := make(map[string]string, len(net.Nodes))
	for k, v := range fixed {
		assignment[k] = v
	}
	for _, node := range net.Nodes {
		if _, bound := assignment[node.Name]; bound {
			continue
		}
		if v, ok := node.Sample(rng, assignment); ok {
			assignment[node.Name] = v
		}
	}
	return assignment
}

// SampleConsistent performs depth-first, backtracking search over the
// sampling order for a complete assignment that honours constraints (a
// per-node set of allowed values; nodes absent from constraints fall
// back to their own PossibleValues). It reports false if no consistent
// assignment exists.
func (net *Network) SampleConsistent(rng *rand.Rand, constraints map[string]collection.StringSet) (map[string]string, bool) {
	assignment := make(map[string]string, len(net.Nodes))
	if net.sampleConsistentFrom(rng, constraints, assignment, 0) {
		return assignment, true
	}
	return nil, false
}

// sampleConsistentFrom resolves net.Nodes[depth:] given the partial
// assignment built so far. banned is local to this call: a fresh set is
// allocated on every invocation, so a retried ancestor value always gets
// a clean slate at each deeper level instead of inheriting exclusions
// accumulated under a different prefix.
func (net *Network) sampleConsistentFrom(rng *rand.Rand, constraints map[string]collection.StringSet, assignment map[string]string, depth int) bool {
	if depth == len(net.Nodes) {
		return true
	}
	node := net.Nodes[depth]
	allowed := node.PossibleValues
	if c, ok := constraints[node.Name]; ok {
		allowed = c
	}

	banned := collection.StringSet{}
	for {
		value, found := node.SampleRestricted(rng, assignment, allowed, banned)
		if !found {
			delete(assignment, node.Name)
			return false
		}
		assignment[node.Name] = value
		if net.sampleConsistentFrom(rng, constraints, assignment, depth+1) {
			return true
		}
		banned[value] = true
		delete(assignment, node.Name)
	}
}

// PossibleValues performs closed-form constraint propagation: for every
// (node, allowed) pair in constraints, it intersects allowed into the
// node's own candidate set and walks that node's local CPT support to
// extend the same treatment to its parents. The result maps every node
// touched (directly constrained or reached through propagation) to its
// narrowed candidate set.
//
// A node named in constraints that the network doesn't know about is
// ignored. A constraint already bound to an empty set, or a propagation
// that narrows some node to no candidates at all, fails with an error
// wrapping ErrEmptyConstraint or ErrInconsistentConstraints respectively.
func (net *Network) PossibleValues(constraints map[string]collection.StringSet) (map[string]collection.StringSet, error) {
	result := make(map[string]collection.StringSet)

	for name, allowed := range constraints {
		node, ok := net.byName[name]
		if !ok {
			continue
		}
		if len(allowed) == 0 {
			return nil, fmt.Errorf("%s: %w", name, ErrEmptyConstraint)
		}
		mergeConstraint(result, name, allowed)

		levels, reachable := node.Support(allowed)
		if !reachable {
			// No assignment of node's parents can make it take a value
			// in allowed: force the node's own entry to empty so the
			// failure check below reports ErrInconsistentConstraints.
			mergeConstraint(result, name, collection.StringSet{})
			continue
		}
		for i, parentName := range node.ParentNames {
			if len(levels[i]) == 0 {
				continue
			}
			mergeConstraint(result, parentName, levels[i])
		}
	}

	for name, set := range result {
		if len(set) == 0 {
			return nil, fmt.Errorf("%s: %w", name, ErrInconsistentConstraints)
		}
	}
	return result, nil
}

func mergeConstraint(result map[string]collection.StringSet, name string, set collection.StringSet) {
	existing, ok := result[name]
	if !ok {
		cp := make(collection.StringSet, len(set))
		for k := range set {
			cp[k] = true
		}
		result[name] = cp
		return
	}
	result[name] = existing.Inter(set)
}
