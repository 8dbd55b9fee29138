package bayesnet

import (
	"errors"
	"math/rand"
	"strings"
	"testing"

	"github.com/bartasx/browserforge/testutil"
)

const validModelJSON = `{
	"nodes": [
		{
			"name": "os",
			"parentNames": [],
			"possibleValues": ["windows", "macos", "linux"],
			"conditionalProbabilities": {"windows": 0.6, "macos": 0.3, "linux": 0.1}
		},
		{
			"name": "browser",
			"parentNames": ["os"],
			"possibleValues": ["chrome", "safari", "firefox"],
			"conditionalProbabilities": {
				"deeper": {
					"windows": {"chrome": 1.0},
					"macos": {"safari": 0.7, "chrome": 0.3}
				},
				"skip": {"firefox": 1.0}
			}
		}
	]
}`

func TestLoadNetworkValid(t *testing.T) {
	net, err := LoadNetwork(strings.NewReader(validModelJSON))
	testutil.Ok(t, err)
	testutil.Equals(t, 2, len(net.Nodes))

	osNode, ok := net.Node("os")
	testutil.Assert(t, ok, "expected os node")
	testutil.Equals(t, 3, len(osNode.PossibleValues))

	rng := rand.New(rand.NewSource(9))
	assignment := net.Sample(rng, map[string]string{"os": "windows"})
	testutil.Equals(t, "chrome", assignment["browser"])
}

func TestLoadNetworkMalformedJSON(t *testing.T) {
	_, err := LoadNetwork(strings.NewReader(`{not json`))
	testutil.Assert(t, errors.Is(err, ErrMalformedModel), "expected ErrMalformedModel, got %v", err)
}

func TestLoadNetworkNoNodes(t *testing.T) {
	_, err := LoadNetwork(strings.NewReader(`{"nodes": []}`))
	testutil.Assert(t, errors.Is(err, ErrMalformedModel), "expected ErrMalformedModel, got %v", err)
}

func TestLoadNetworkOutOfOrderParent(t *testing.T) {
	doc := `{
		"nodes": [
			{"name": "browser", "parentNames": ["os"], "possibleValues": ["chrome"], "conditionalProbabilities": {"chrome": 1.0}}
		]
	}`
	_, err := LoadNetwork(strings.NewReader(doc))
	testutil.Assert(t, errors.Is(err, ErrMalformedModel), "expected ErrMalformedModel, got %v", err)
}

func TestLoadNetworkMissingNodeName(t *testing.T) {
	doc := `{"nodes": [{"conditionalProbabilities": {"chrome": 1.0}}]}`
	_, err := LoadNetwork(strings.NewReader(doc))
	testutil.Assert(t, errors.Is(err, ErrMalformedModel), "expected ErrMalformedModel, got %v", err)
}
