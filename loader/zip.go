package loader

import (
	"archive/zip"
	"bytes"
	"fmt"
	"io"
	"io/ioutil"
)

// Zip wraps another Loader and transparently unwraps a ZIP-archived
// model: spec.md's model load format is "either a UTF-8 JSON document
// or a ZIP archive containing exactly one JSON member", so the caller
// never needs to know which shape a given file actually is. Bytes that
// aren't a ZIP archive at all are passed through unchanged, so Zip can
// wrap any Loader unconditionally without breaking plain-JSON sources.
type Zip struct {
	Inner Loader
}

// zipMagic is the four-byte "local file header" signature every ZIP
// archive starts with (PK\x03\x04); a shorter or differently-prefixed
// read is treated as plain, non-archived content.
var zipMagic = []byte{'P', 'K', 0x03, 0x04}

// LoadFile reads fileName from the wrapped Loader. If the bytes start
// with the ZIP magic, it extracts the archive's sole member (erroring
// if there is not exactly one); otherwise it returns the bytes as read.
func (z Zip) LoadFile(fileName string) (io.ReadCloser, error) {
	rc, err := z.Inner.LoadFile(fileName)
	if err != nil {
		return nil, err
	}
	defer rc.Close()

	data, err := ioutil.ReadAll(rc)
	if err != nil {
		return nil, fmt.Errorf("could not read %s: %w", fileName, err)
	}
	if !bytes.HasPrefix(data, zipMagic) {
		return ioutil.NopCloser(bytes.NewReader(data)), nil
	}

	archive, err := zip.NewReader(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		return nil, fmt.Errorf("could not open %s as a zip archive: %w", fileName, err)
	}
	var member *zip.File
	for _, f := range archive.File {
		if f.FileInfo().IsDir() {
			continue
		}
		if member != nil {
			return nil, fmt.Errorf("zip archive %s has more than one member", fileName)
		}
		member = f
	}
	if member == nil {
		return nil, fmt.Errorf("zip archive %s has no members", fileName)
	}

	memberReader, err := member.Open()
	if err != nil {
		return nil, fmt.Errorf("could not open %s in %s: %w", member.Name, fileName, err)
	}
	return memberReader, nil
}
