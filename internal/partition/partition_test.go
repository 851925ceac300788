package partition

import (
	"testing"

	"webbundle/internal/bfile"
)

func extPeek(exts map[string]string) TerminalExtension {
	return func(f bfile.File) (string, error) {
		if ext, ok := exts[f.Path()]; ok {
			return ext, nil
		}
		return f.Extension(), nil
	}
}

// TestPartitionSplitsBundleVendorAndAssets is scenario S6.
func TestPartitionSplitsBundleVendorAndAssets(t *testing.T) {
	deps := []bfile.Dependency{
		bfile.NewDependency(bfile.NewFile("src/app/main.js")),
		bfile.NewDependency(bfile.NewFile("src/vendor/jquery/jquery.js")),
		bfile.NewDependency(bfile.NewFile("src/app/data.json")),
	}
	split, err := Partition(deps, "src/vendor", extPeek(nil))
	if err != nil {
		t.Fatalf("Partition error: %v", err)
	}
	if len(split.Bundle) != 1 || split.Bundle[0].File.Path() != "src/app/main.js" {
		t.Fatalf("unexpected bundle group: %+v", split.Bundle)
	}
	if len(split.Vendor) != 1 || split.Vendor[0].File.Path() != "src/vendor/jquery/jquery.js" {
		t.Fatalf("unexpected vendor group: %+v", split.Vendor)
	}
	if len(split.Assets) != 1 || split.Assets[0].File.Path() != "src/app/data.json" {
		t.Fatalf("unexpected assets group: %+v", split.Assets)
	}
}

func TestPartitionSkipsVirtualDeps(t *testing.T) {
	virtual := bfile.NewDependency(bfile.NewFile("src/app/virtual.js"))
	virtual.Virtual = true
	real := bfile.NewDependency(bfile.NewFile("src/app/main.js"))

	split, err := Partition([]bfile.Dependency{virtual, real}, "", extPeek(nil))
	if err != nil {
		t.Fatalf("Partition error: %v", err)
	}
	if len(split.Bundle) != 1 {
		t.Fatalf("expected the virtual dep excluded entirely, got %+v", split)
	}
}

func TestPartitionTreatsInlinedAssetAsAssetRegardlessOfExtension(t *testing.T) {
	dep := bfile.NewDependency(bfile.NewFile("src/app/logo.js"))
	dep.InlinedAsset = true

	split, err := Partition([]bfile.Dependency{dep}, "", extPeek(nil))
	if err != nil {
		t.Fatalf("Partition error: %v", err)
	}
	if len(split.Assets) != 1 || len(split.Bundle) != 0 {
		t.Fatalf("expected an inlined .js dep treated as an asset, got %+v", split)
	}
}

func TestPartitionUsesTerminalExtensionNotSourceExtension(t *testing.T) {
	dep := bfile.NewDependency(bfile.NewFile("src/app/styles.scss"))
	split, err := Partition([]bfile.Dependency{dep}, "", extPeek(map[string]string{"src/app/styles.scss": ".css"}))
	if err != nil {
		t.Fatalf("Partition error: %v", err)
	}
	if len(split.Assets) != 1 {
		t.Fatalf("expected a .css terminal extension routed to assets, got %+v", split)
	}
}

func TestPartitionTargetPaths(t *testing.T) {
	bundle := BundleTarget("web", "dist", "main")
	if bundle.Path() != "web/dist/main.js" {
		t.Fatalf("got %q", bundle.Path())
	}
	vendor := VendorTarget("web", "dist", "main")
	if vendor.Path() != "web/dist/main.vendor.js" {
		t.Fatalf("got %q", vendor.Path())
	}
	asset := AssetTarget("web", "dist", "src", bfile.NewFile("src/app/img/logo.png"), ".png")
	if asset.Path() != "web/dist/app/img/logo.png" {
		t.Fatalf("got %q", asset.Path())
	}
}
