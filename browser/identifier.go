// Package browser models the catalogue of browser identities the
// sampler can emit: dotted version numbers, the "name/version|http"
// identifier grammar, and the per-browser presentation metadata
// (header order, Sec-Fetch gating, pascalisation exceptions) used when
// turning a sampled assignment into HTTP headers.
package browser

import (
	"fmt"
	"strings"

	"github.com/bartasx/browserforge/collection"
)

// DottedVersion is an ordered, arbitrary-length version number such as
// 120.0.6099.71. It generalizes a fixed three-segment major.minor.patch
// triple so that browsers publishing two, three, or four-segment
// versions all compare correctly.
type DottedVersion struct {
	Segments collection.IntList
}

// ParseDottedVersion parses a "."-separated decimal version string.
func ParseDottedVersion(s string) (DottedVersion, error) {
	var segs collection.IntList
	if err := segs.Parse(s); err != nil {
		return DottedVersion{}, fmt.Errorf("browser: invalid version %q: %w", s, err)
	}
	return DottedVersion{Segments: segs}, nil
}

// MustParseDottedVersion parses s, panicking on failure. Used for
// compile-time-constant version literals in registry_data.go.
func MustParseDottedVersion(s string) DottedVersion {
	v, err := ParseDottedVersion(s)
	if err != nil {
		panic(err)
	}
	return v
}

func (v DottedVersion) String() string {
	return v.Segments.String()
}

// Major returns the version's leading segment, or 0 for a zero value.
func (v DottedVersion) Major() int {
	if len(v.Segments) == 0 {
		return 0
	}
	return v.Segments[0]
}

// IsZero reports whether v carries no segments at all.
func (v DottedVersion) IsZero() bool {
	return len(v.Segments) == 0
}

// Compare returns -1, 0, or 1 as v is less than, equal to, or greater
// than other, comparing segment by segment with the shorter version
// zero-padded.
func (v DottedVersion) Compare(other DottedVersion) int {
	n := len(v.Segments)
	if len(other.Segments) > n {
		n = len(other.Segments)
	}
	for i := 0; i < n; i++ {
		var a, b int
		if i < len(v.Segments) {
			a = v.Segments[i]
		}
		if i < len(other.Segments) {
			b = other.Segments[i]
		}
		if a != b {
			if a < b {
				return -1
			}
			return 1
		}
	}
	return 0
}

// InRange reports whether v falls within [min, max] inclusive. A zero
// min or max is treated as unbounded on that side.
func (v DottedVersion) InRange(min, max DottedVersion) bool {
	if !min.IsZero() && v.Compare(min) < 0 {
		return false
	}
	if !max.IsZero() && v.Compare(max) > 0 {
		return false
	}
	return true
}

// Identifier names one sampled browser identity: a browser name, its
// dotted version, and the HTTP protocol version it was sampled to speak,
// in the form "<name>/<dottedVersion>|<httpVersion>".
type Identifier struct {
	Name        string
	Version     DottedVersion
	HTTPVersion string
}

// ParseIdentifier parses the "name/version|http" grammar.
func ParseIdentifier(s string) (Identifier, error) {
	nameRest := strings.SplitN(s, "/", 2)
	if len(nameRest) != 2 || nameRest[0] == "" {
		return Identifier{}, fmt.Errorf("browser: malformed identifier %q", s)
	}
	versionHTTP := strings.SplitN(nameRest[1], "|", 2)
	if len(versionHTTP) != 2 || versionHTTP[1] == "" {
		return Identifier{}, fmt.Errorf("browser: malformed identifier %q", s)
	}
	version, err := ParseDottedVersion(versionHTTP[0])
	if err != nil {
		return Identifier{}, fmt.Errorf("browser: malformed identifier %q: %w", s, err)
	}
	return Identifier{Name: nameRest[0], Version: version, HTTPVersion: versionHTTP[1]}, nil
}

func (id Identifier) String() string {
	return fmt.Sprintf("%s/%s|%s", id.Name, id.Version.String(), id.HTTPVersion)
}
