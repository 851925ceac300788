package driver

import (
	_ "embed"
)

//go:embed runtime/require.js
var shimSource []byte

//go:embed runtime/require.min.js
var shimSourceMin []byte

// shimContent returns the embedded runtime loader shim bytes, selecting the
// minified resource outside dev mode per §4.7.
func shimContent(dev bool) []byte {
	if dev {
		return shimSource
	}
	return shimSourceMin
}

const shimOutputName = "require.js"
