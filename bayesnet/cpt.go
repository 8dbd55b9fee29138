package bayesnet

import (
	"encoding/json"
	"fmt"
)

// CPT is the compressed conditional probability tree for a single node,
// covering that node's parents in their declared order. Internally it is
// a chain of branches, one per parent level, terminating in a leaf
// distribution over the node's own values.
type CPT struct {
	root cptNode
}

// cptNode is either a cptLeaf or a *cptBranch.
type cptNode interface {
	isCPTNode()
}

// cptLeaf holds the node's own conditional distribution once every parent
// level has been resolved (or skipped).
type cptLeaf struct {
	distribution map[string]float64
}

// cptBranch dispatches on one parent's value. deeper holds one child per
// observed value of that parent; skip, if non-nil, is taken when the
// observed value has no entry in deeper, modelling conditional
// independence from that parent for the remaining probability mass.
type cptBranch struct {
	deeper map[string]cptNode
	skip   cptNode
}

func (cptLeaf) isCPTNode()    {}
func (*cptBranch) isCPTNode() {}

// Resolve walks the tree according to assignment, consulting parentNames
// in order to know which parent each level dispatches on, and returns the
// leaf distribution reached. It returns nil if a branch has no deeper
// entry for the observed value and no skip edge to fall back on.
func (c *CPT) Resolve(assignment map[string]string, parentNames []string) map[string]float64 {
	if c == nil {
		return nil
	}
	cur := c.root
	for i := 0; ; i++ {
		switch node := cur.(type) {
		case cptLeaf:
			return node.distribution
		case *cptBranch:
			value := assignment[parentNames[i]]
			if next, ok := node.deeper[value]; ok {
				cur = next
				continue
			}
			if node.skip != nil {
				cur = node.skip
				continue
			}
			return nil
		default:
			return nil
		}
	}
}

// Support returns, for each of numParents parent levels, the set of
// parent values seen at that level across every root-to-leaf path whose
// leaf distribution assigns positive probability to at least one key in
// valid, plus whether any such path exists at all (reachable). A level
// where a qualifying path took the skip edge is reported as
// unconstraining (an empty set), because a skip edge is reachable for
// every value of that parent, so it can never be soundly excluded. When
// reachable is false, none of the node's own values in valid can occur
// under any parent assignment, and the caller must treat that as a hard
// failure rather than as an unconstraining level.
func (c *CPT) Support(valid map[string]bool, numParents int) (levels []map[string]bool, reachable bool) {
	levels = make([]map[string]bool, numParents)
	skipSeen := make([]bool, numParents)
	for i := range levels {
		levels[i] = map[string]bool{}
	}
	if c == nil {
		return levels, false
	}

	type step struct {
		level int
		value string
		skip  bool
	}
	path := make([]step, 0, numParents)
	reachable = false

	var walk func(node cptNode, depth int)
	walk = func(node cptNode, depth int) {
		switch n := node.(type) {
		case cptLeaf:
			qualifies := false
			for k, p := range n.distribution {
				if p > 0 && valid[k] {
					qualifies = true
					break
				}
			}
			if !qualifies {
				return
			}
			reachable = true
			for _, s := range path {
				if s.skip {
					skipSeen[s.level] = true
				} else {
					levels[s.level][s.value] = true
				}
			}
		case *cptBranch:
			for value, child := range n.deeper {
				path = append(path, step{depth, value, false})
				walk(child, depth+1)
				path = path[:len(path)-1]
			}
			if n.skip != nil {
				path = append(path, step{depth, "", true})
				walk(n.skip, depth+1)
				path = path[:len(path)-1]
			}
		}
	}
	walk(c.root, 0)

	for i := range levels {
		if skipSeen[i] {
			levels[i] = map[string]bool{}
		}
	}
	return levels, reachable
}

// parseCPT decodes a CPT Tree document. An object carrying a "deeper" key
// is a branch (with an optional "skip" sibling; any other key beside
// those two is ignored); any other object is a leaf whose keys are the
// node's own values and whose values are probabilities. At a leaf only a
// stray "skip" key is ignored: every other key is read as a value, and a
// non-numeric probability fails with ErrMalformedModel.
func parseCPT(raw json.RawMessage) (cptNode, error) {
	if len(raw) == 0 {
		return nil, fmt.Errorf("%w: missing conditionalProbabilities", ErrMalformedModel)
	}
	var obj map[string]json.RawMessage
	if err := json.Unmarshal(raw, &obj); err != nil {
		return nil, fmt.Errorf("%w: %s", ErrMalformedModel, err)
	}

	if deeperRaw, ok := obj["deeper"]; ok {
		var deeperObj map[string]json.RawMessage
		if err := json.Unmarshal(deeperRaw, &deeperObj); err != nil {
			return nil, fmt.Errorf("%w: deeper: %s", ErrMalformedModel, err)
		}
		branch := &cptBranch{deeper: make(map[string]cptNode, len(deeperObj))}
		for value, childRaw := range deeperObj {
			child, err := parseCPT(childRaw)
			if err != nil {
				return nil, err
			}
			branch.deeper[value] = child
		}
		if skipRaw, ok := obj["skip"]; ok {
			skipNode, err := parseCPT(skipRaw)
			if err != nil {
				return nil, fmt.Errorf("%w: skip: %s", ErrMalformedModel, err)
			}
			branch.skip = skipNode
		}
		return branch, nil
	}

	leaf := cptLeaf{distribution: make(map[string]float64, len(obj))}
	for value, probRaw := range obj {
		if value == "skip" {
			continue
		}
		var p float64
		if err := json.Unmarshal(probRaw, &p); err != nil {
			return nil, fmt.Errorf("%w: leaf value %q: %s", ErrMalformedModel, value, err)
		}
		leaf.distribution[value] = p
	}
	return leaf, nil
}
