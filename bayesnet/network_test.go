package bayesnet

import (
	"errors"
	"math/rand"
	"testing"

	"github.com/bartasx/browserforge/collection"
	"github.com/bartasx/browserforge/testutil"
)

func buildOSBrowserNetwork(t *testing.T) *Network {
	osNode := &Node{
		Name:           "os",
		PossibleValues: collection.StringSet{"windows": true, "linux": true},
		cpt:            &CPT{root: cptLeaf{distribution: map[string]float64{"windows": 0.01, "linux": 0.99}}},
	}
	browserNode := &Node{
		Name:           "browser",
		ParentNames:    []string{"os"},
		PossibleValues: collection.StringSet{"chrome": true, "firefox": true},
		cpt: &CPT{root: &cptBranch{
			deeper: map[string]cptNode{
				"windows": cptLeaf{distribution: map[string]float64{"chrome": 1.0}},
				"linux":   cptLeaf{distribution: map[string]float64{"firefox": 1.0}},
			},
		}},
	}
	net, err := NewNetwork([]*Node{osNode, browserNode})
	testutil.Ok(t, err)
	return net
}

func TestNewNetworkRejectsOutOfOrderParent(t *testing.T) {
	browserNode := &Node{
		Name:        "browser",
		ParentNames: []string{"os"},
		cpt:         &CPT{root: cptLeaf{distribution: map[string]float64{"chrome": 1.0}}},
	}
	_, err := NewNetwork([]*Node{browserNode})
	testutil.Assert(t, errors.Is(err, ErrMalformedModel), "expected ErrMalformedModel, got %v", err)
}

func TestNewNetworkRejectsDuplicateNames(t *testing.T) {
	a := &Node{Name: "os", cpt: &CPT{root: cptLeaf{distribution: map[string]float64{"windows": 1.0}}}}
	b := &Node{Name: "os", cpt: &CPT{root: cptLeaf{distribution: map[string]float64{"linux": 1.0}}}}
	_, err := NewNetwork([]*Node{a, b})
	testutil.Assert(t, errors.Is(err, ErrMalformedModel), "expected ErrMalformedModel, got %v", err)
}

func TestNetworkSampleUnconstrained(t *testing.T) {
	net := buildOSBrowserNetwork(t)
	rng := rand.New(rand.NewSource(1))
	assignment := net.Sample(rng, nil)
	testutil.Equals(t, 2, len(assignment))
}

func TestNetworkSampleKeepsFixedValues(t *testing.T) {
	net := buildOSBrowserNetwork(t)
	rng := rand.New(rand.NewSource(1))
	assignment := net.Sample(rng, map[string]string{"os": "windows"})
	testutil.Equals(t, "windows", assignment["os"])
	testutil.Equals(t, "chrome", assignment["browser"])
}

func TestNetworkSampleConsistentBacktracksPastDeadEnd(t *testing.T) {
	net := buildOSBrowserNetwork(t)
	constraints := map[string]collection.StringSet{
		"browser": {"chrome": true},
	}
	// os is weighted heavily toward linux, which cannot satisfy a
	// chrome-only constraint on browser; every seed should still recover
	// by backtracking to the only consistent os value.
	for seed := int64(0); seed < 25; seed++ {
		rng := rand.New(rand.NewSource(seed))
		assignment, ok := net.SampleConsistent(rng, constraints)
		testutil.Assert(t, ok, "expected a consistent assignment for seed %d", seed)
		testutil.Equals(t, "windows", assignment["os"])
		testutil.Equals(t, "chrome", assignment["browser"])
	}
}

func TestNetworkSampleConsistentUnsatisfiable(t *testing.T) {
	net := buildOSBrowserNetwork(t)
	constraints := map[string]collection.StringSet{
		"browser": {"safari": true}, // no os value ever produces safari here
	}
	rng := rand.New(rand.NewSource(1))
	_, ok := net.SampleConsistent(rng, constraints)
	testutil.Assert(t, !ok, "expected no consistent assignment")
}

func TestNetworkPossibleValuesPropagatesToParent(t *testing.T) {
	net := buildOSBrowserNetwork(t)
	result, err := net.PossibleValues(map[string]collection.StringSet{
		"browser": {"chrome": true},
	})
	testutil.Ok(t, err)
	testutil.Equals(t, collection.StringSet{"chrome": true}, result["browser"])
	testutil.Equals(t, collection.StringSet{"windows": true}, result["os"])
}

func TestNetworkPossibleValuesIgnoresUnknownNode(t *testing.T) {
	net := buildOSBrowserNetwork(t)
	result, err := net.PossibleValues(map[string]collection.StringSet{
		"screen": {"1920x1080": true},
	})
	testutil.Ok(t, err)
	testutil.Equals(t, 0, len(result))
}

func TestNetworkPossibleValuesEmptyConstraintFails(t *testing.T) {
	net := buildOSBrowserNetwork(t)
	_, err := net.PossibleValues(map[string]collection.StringSet{
		"browser": {},
	})
	testutil.Assert(t, errors.Is(err, ErrEmptyConstraint), "expected ErrEmptyConstraint, got %v", err)
}

func TestNetworkPossibleValuesInconsistentFails(t *testing.T) {
	net := buildOSBrowserNetwork(t)
	_, err := net.PossibleValues(map[string]collection.StringSet{
		"browser": {"safari": true},
	})
	testutil.Assert(t, errors.Is(err, ErrInconsistentConstraints), "expected ErrInconsistentConstraints, got %v", err)
}
