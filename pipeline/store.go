package pipeline

import (
	"bytes"
	"errors"
	"io"
	"io/ioutil"
	"log"
	"os"
	"sync"

	"github.com/bartasx/browserforge/bayesnet"
	"github.com/bartasx/browserforge/loader"
)

// ErrNoNetworks is returned by NewStore/Load when both the input and
// value model files failed to load, leaving nothing to sample from.
var ErrNoNetworks = errors.New("pipeline: no network models loaded")

// Config names the two model files a Store loads: the input-selector
// network (browser/OS/device/locale) and the value network (the header
// and fingerprint fields conditioned on that selection), plus the
// Loader used to fetch them. A nil Loader reads directly from the local
// filesystem.
type Config struct {
	InputFileName string
	ValueFileName string
	Loader        loader.Loader
}

// Store holds the pair of Bayesian networks the pipeline samples from.
// Networks are swapped as a pair under a lock so a concurrent request
// never sees an input network from one Load and a value network from
// another.
type Store struct {
	mu    sync.RWMutex
	input *bayesnet.Network
	value *bayesnet.Network
}

// NewStore builds a Store initialized from config.
func NewStore(config Config) (*Store, error) {
	s := &Store{}
	if err := s.Load(config); err != nil {
		return nil, err
	}
	return s, nil
}

// Load (or reload) the store's networks from the provided configuration.
// A file that fails to load or parse is logged as a warning rather than
// treated as a hard failure, and the store keeps whatever network it
// already held in that slot (none, on a first load), matching the
// tolerant reload behaviour of the model this pipeline's loader package
// is adapted from; Load only fails outright if neither network could be
// built.
func (s *Store) Load(config Config) error {
	inputFile, err := loadFile(config.InputFileName, config.Loader)
	if err != nil {
		log.Printf("WARNING: loading file %q produced error %q", config.InputFileName, err)
		inputFile = ioutil.NopCloser(bytes.NewReader(nil))
	}
	input, inputErr := bayesnet.LoadNetwork(inputFile)
	inputFile.Close()

	valueFile, err := loadFile(config.ValueFileName, config.Loader)
	if err != nil {
		log.Printf("WARNING: loading file %q produced error %q", config.ValueFileName, err)
		valueFile = ioutil.NopCloser(bytes.NewReader(nil))
	}
	value, valueErr := bayesnet.LoadNetwork(valueFile)
	valueFile.Close()

	if inputErr != nil && valueErr != nil {
		return ErrNoNetworks
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if inputErr == nil {
		s.input = input
	}
	if valueErr == nil {
		s.value = value
	}
	return nil
}

// networks returns the current input/value network pair under a read
// lock, so a concurrent Load swapping them mid-request can't be
// observed as a torn pair.
func (s *Store) networks() (input, value *bayesnet.Network) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.input, s.value
}

func loadFile(fileName string, l loader.Loader) (io.ReadCloser, error) {
	if l == nil {
		return os.Open(fileName)
	}
	return l.LoadFile(fileName)
}
