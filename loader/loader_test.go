package loader_test

import "github.com/bartasx/browserforge/loader"

// Compile-time check that every loader implementation satisfies the
// shared Loader interface.
var (
	_ loader.Loader = loader.FS{}
	_ loader.Loader = loader.Zip{}
	_ loader.Loader = loader.S3{}
)
