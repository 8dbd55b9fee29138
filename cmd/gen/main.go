// Command gen loads a sampler's input/value network models and prints a
// generated header set (and, with --fingerprint, a full fingerprint) for
// one request, read from an optional YAML file.
package main

import (
	"encoding/json"
	"fmt"
	"math/rand"
	"os"
	"time"

	"github.com/bartasx/browserforge/config"
	"github.com/bartasx/browserforge/pipeline"
	"github.com/google/uuid"
	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"
)

// requestDocument is the on-disk YAML shape a caller edits by hand; it
// mirrors pipeline.Request field-for-field except BrowserSpec, which is
// flattened into plain strings here and expanded below, and the screen
// bounds, which it does not carry.
type requestDocument struct {
	Browsers                []string          `yaml:"browsers"`
	OperatingSystems        []string          `yaml:"operatingSystems"`
	Devices                 []string          `yaml:"devices"`
	Locales                 []string          `yaml:"locales"`
	HTTPVersion             string            `yaml:"httpVersion"`
	Strict                  bool              `yaml:"strict"`
	UserAgentWhitelist      []string          `yaml:"userAgentWhitelist"`
	RequestDependentHeaders map[string]string `yaml:"requestDependentHeaders"`
}

func (d requestDocument) toRequest() pipeline.Request {
	specs := make([]pipeline.BrowserSpec, len(d.Browsers))
	for i, name := range d.Browsers {
		specs[i] = pipeline.BrowserSpec{Name: name}
	}
	return pipeline.Request{
		Browsers:                specs,
		OperatingSystems:        d.OperatingSystems,
		Devices:                 d.Devices,
		Locales:                 d.Locales,
		HTTPVersion:             d.HTTPVersion,
		Strict:                  d.Strict,
		UserAgentWhitelist:      d.UserAgentWhitelist,
		RequestDependentHeaders: d.RequestDependentHeaders,
	}
}

func main() {
	var configFileName string
	var requestFileName string
	var wantFingerprint bool

	root := &cobra.Command{
		Use:   "gen",
		Short: "Generate a synthetic browser header set or fingerprint",
		RunE: func(cmd *cobra.Command, args []string) error {
			return run(configFileName, requestFileName, wantFingerprint)
		},
	}
	root.Flags().StringVar(&configFileName, "config", "app.toml", "application config file")
	root.Flags().StringVar(&requestFileName, "request", "", "YAML file describing the request (defaults to an unconstrained request)")
	root.Flags().BoolVar(&wantFingerprint, "fingerprint", false, "also generate a full fingerprint, not just headers")

	if err := root.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func run(configFileName, requestFileName string, wantFingerprint bool) error {
	id := uuid.New()
	log := func(format string, v ...interface{}) {
		fmt.Fprintf(os.Stderr, "[%s] "+format+"\n", append([]interface{}{id}, v...)...)
	}

	cfg, err := config.Load(configFileName)
	if err != nil {
		return err
	}
	l, err := cfg.NewLoader()
	if err != nil {
		return err
	}
	store, err := pipeline.NewStore(pipeline.Config{
		InputFileName: cfg.InputFileName,
		ValueFileName: cfg.ValueFileName,
		Loader:        l,
	})
	if err != nil {
		return fmt.Errorf("loading models: %w", err)
	}
	log("loaded models %s / %s", cfg.InputFileName, cfg.ValueFileName)

	req := pipeline.Request{HTTPVersion: cfg.DefaultHTTPVersion, Locales: cfg.DefaultLocales}
	if requestFileName != "" {
		data, err := os.ReadFile(requestFileName)
		if err != nil {
			return fmt.Errorf("reading request file: %w", err)
		}
		var doc requestDocument
		if err := yaml.Unmarshal(data, &doc); err != nil {
			return fmt.Errorf("parsing request file: %w", err)
		}
		req = doc.toRequest()
	}
	if err := req.Validate(); err != nil {
		return fmt.Errorf("invalid request: %w", err)
	}

	rng := rand.New(rand.NewSource(time.Now().UnixNano()))
	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")

	if wantFingerprint {
		fp, headers, err := store.GenerateFingerprint(rng, req)
		if err != nil {
			return fmt.Errorf("generating fingerprint: %w", err)
		}
		log("generated fingerprint with %d fields and %d headers", len(fp), len(headers))
		return enc.Encode(map[string]interface{}{"fingerprint": fp, "headers": headers})
	}

	headers, err := store.GenerateHeaders(rng, req)
	if err != nil {
		return fmt.Errorf("generating headers: %w", err)
	}
	log("generated %d headers", len(headers))
	return enc.Encode(headers)
}
