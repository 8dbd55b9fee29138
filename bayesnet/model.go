package bayesnet

import (
	"encoding/json"
	"fmt"
	"io"

	"github.com/bartasx/browserforge/collection"
)

// modelDocument is the on-disk shape of a network: an ordered list of
// nodes, each carrying its own CPT Tree.
type modelDocument struct {
	Nodes []modelNode `json:"nodes"`
}

type modelNode struct {
	Name                     string          `json:"name"`
	ParentNames              []string        `json:"parentNames"`
	PossibleValues           []string        `json:"possibleValues"`
	ConditionalProbabilities json.RawMessage `json:"conditionalProbabilities"`
}

// LoadNetwork parses a network from its JSON model document. Nodes must
// already be listed in topological order; LoadNetwork does not reorder
// them.
func LoadNetwork(r io.Reader) (*Network, error) {
	var doc modelDocument
	dec := json.NewDecoder(r)
	if err := dec.Decode(&doc); err != nil {
		return nil, fmt.Errorf("%w: %s", ErrMalformedModel, err)
	}
	if len(doc.Nodes) == 0 {
		return nil, fmt.Errorf("%w: no nodes", ErrMalformedModel)
	}

	nodes := make([]*Node, 0, len(doc.Nodes))
	for _, mn := range doc.Nodes {
		if mn.Name == "" {
			return nil, fmt.Errorf("%w: node missing name", ErrMalformedModel)
		}
		root, err := parseCPT(mn.ConditionalProbabilities)
		if err != nil {
			return nil, fmt.Errorf("node %q: %w", mn.Name, err)
		}
		nodes = append(nodes, &Node{
			Name:           mn.Name,
			ParentNames:    append([]string(nil), mn.ParentNames...),
			PossibleValues: collection.StringList(mn.PossibleValues).Set(),
			cpt:            &CPT{root: root},
		})
	}
	return NewNetwork(nodes)
}
