package pipeline

import (
	"math/rand"
	"strings"
	"testing"

	"github.com/bartasx/browserforge/bayesnet"
	"github.com/bartasx/browserforge/collection"
	"github.com/bartasx/browserforge/testutil"
)

const relaxTestModelJSON = `{
  "nodes": [
    {
      "name": "*LOCALE",
      "parentNames": [],
      "possibleValues": ["en-US", "fr"],
      "conditionalProbabilities": {"en-US": 0.5, "fr": 0.5}
    },
    {
      "name": "*BROWSER_HTTP",
      "parentNames": [],
      "possibleValues": ["chrome/108.0.0.0|2"],
      "conditionalProbabilities": {"chrome/108.0.0.0|2": 1.0}
    }
  ]
}`

func TestRelaxDropsEligibleDimensionAndKeepsSingletonPin(t *testing.T) {
	net, err := bayesnet.LoadNetwork(strings.NewReader(relaxTestModelJSON))
	testutil.Ok(t, err)

	// *LOCALE is constrained to a value the network can never produce,
	// from a request that named two locales (so it's eligible for
	// relaxation); *BROWSER_HTTP is pinned to a single named browser it
	// can actually produce. Only relaxing *LOCALE should be needed.
	constraints := map[string]collection.StringSet{
		"*LOCALE":       {"de": true},
		"*BROWSER_HTTP": {"chrome/108.0.0.0|2": true},
	}
	steps := []relaxStep{
		{"*LOCALE", 2},
		{"*BROWSER_HTTP", 1},
	}
	rng := rand.New(rand.NewSource(1))
	assignment, ok := relax(rng, net, constraints, steps)
	testutil.Assert(t, ok, "expected relaxation to find a consistent sample")
	testutil.Equals(t, "chrome/108.0.0.0|2", assignment["*BROWSER_HTTP"])
}

func TestRelaxSkipsSingletonAndUnconstrainedDimensions(t *testing.T) {
	net, err := bayesnet.LoadNetwork(strings.NewReader(relaxTestModelJSON))
	testutil.Ok(t, err)

	// *BROWSER_HTTP is bound to an impossible value; originalCount 1
	// means the caller named exactly one browser, a deliberate ask that
	// relax must not loosen, so the overall search must fail even though
	// *LOCALE (never constrained, originalCount 0) is also skipped.
	constraints := map[string]collection.StringSet{
		"*BROWSER_HTTP": {"safari/1.0|2": true},
	}
	steps := []relaxStep{
		{"*LOCALE", 0},
		{"*BROWSER_HTTP", 1},
	}
	rng := rand.New(rand.NewSource(1))
	_, ok := relax(rng, net, constraints, steps)
	testutil.Assert(t, !ok, "expected relax to fail when the only impossible dimension is a singleton ask")
}

func TestRelaxExhaustsAllStepsAndFails(t *testing.T) {
	net, err := bayesnet.LoadNetwork(strings.NewReader(relaxTestModelJSON))
	testutil.Ok(t, err)

	// Both dimensions are singleton asks (originalCount 1): neither is
	// eligible for relaxation, so the search must exhaust every step
	// without loosening anything and report failure.
	constraints := map[string]collection.StringSet{
		"*LOCALE":       {"de": true},
		"*BROWSER_HTTP": {"safari/1.0|2": true},
	}
	steps := []relaxStep{
		{"*LOCALE", 1},
		{"*BROWSER_HTTP", 1},
	}
	rng := rand.New(rand.NewSource(1))
	_, ok := relax(rng, net, constraints, steps)
	testutil.Assert(t, !ok, "expected relax to fail when every dimension is a singleton ask")
}

func TestCloneConstraintsIsADeepCopy(t *testing.T) {
	original := map[string]collection.StringSet{"a": {"x": true}}
	clone := cloneConstraints(original)
	clone["a"]["y"] = true
	testutil.Equals(t, 1, len(original["a"]))
	testutil.Equals(t, 2, len(clone["a"]))
}
