package loader_test

import (
	"archive/zip"
	"bytes"
	"io"
	"testing"

	"github.com/bartasx/browserforge/loader"
	"github.com/bartasx/browserforge/testutil"
)

func writeTestZip(t *testing.T, members map[string]string) []byte {
	t.Helper()
	var buf bytes.Buffer
	w := zip.NewWriter(&buf)
	for name, contents := range members {
		member, err := w.Create(name)
		testutil.Ok(t, err)
		_, err = member.Write([]byte(contents))
		testutil.Ok(t, err)
	}
	testutil.Ok(t, w.Close())
	return buf.Bytes()
}

func TestZipExtractsSoleMember(t *testing.T) {
	archive := writeTestZip(t, map[string]string{"model.json": `{"nodes":[]}`})
	inner := fakeLoaderFile{name: "input.zip", data: archive}

	l := loader.Zip{Inner: inner}
	rc, err := l.LoadFile("input.zip")
	testutil.Ok(t, err)
	defer rc.Close()

	data, err := io.ReadAll(rc)
	testutil.Ok(t, err)
	testutil.Equals(t, `{"nodes":[]}`, string(data))
}

func TestZipRejectsMultipleMembers(t *testing.T) {
	archive := writeTestZip(t, map[string]string{
		"model.json": `{"nodes":[]}`,
		"extra.json": `{}`,
	})
	inner := fakeLoaderFile{name: "input.zip", data: archive}

	l := loader.Zip{Inner: inner}
	_, err := l.LoadFile("input.zip")
	testutil.Assert(t, err != nil, "expected an error when the archive has more than one member")
}

func TestZipPassesThroughPlainJSON(t *testing.T) {
	inner := fakeLoaderFile{name: "input.json", data: []byte(`{"nodes":[]}`)}

	l := loader.Zip{Inner: inner}
	rc, err := l.LoadFile("input.json")
	testutil.Ok(t, err)
	defer rc.Close()

	data, err := io.ReadAll(rc)
	testutil.Ok(t, err)
	testutil.Equals(t, `{"nodes":[]}`, string(data))
}

// fakeLoaderFile is a minimal Loader serving one fixed in-memory file,
// so Zip's auto-detection can be tested without touching disk.
type fakeLoaderFile struct {
	name string
	data []byte
}

func (f fakeLoaderFile) LoadFile(fileName string) (io.ReadCloser, error) {
	if fileName != f.name {
		return nil, io.ErrUnexpectedEOF
	}
	return io.NopCloser(bytes.NewReader(f.data)), nil
}
