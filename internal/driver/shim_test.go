package driver

import "testing"

func TestShimContentSelectsDevVsMinified(t *testing.T) {
	dev := shimContent(true)
	prod := shimContent(false)
	if len(dev) == 0 || len(prod) == 0 {
		t.Fatalf("expected both shim variants to be non-empty")
	}
	if string(dev) == string(prod) {
		t.Fatalf("expected the dev and minified shims to differ")
	}
}
