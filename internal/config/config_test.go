package config

import "testing"

func TestValidateRequiresProjectRoot(t *testing.T) {
	o := &Options{EntryPoints: []string{"src/main.js"}}
	if err := o.Validate(); err == nil {
		t.Fatalf("expected an error when project_root is empty")
	}
}

func TestValidateRequiresAtLeastOneTarget(t *testing.T) {
	o := &Options{ProjectRoot: "."}
	if err := o.Validate(); err == nil {
		t.Fatalf("expected an error when neither entry_points nor asset_files is set")
	}
}

func TestValidateAcceptsAssetFilesAlone(t *testing.T) {
	o := &Options{ProjectRoot: ".", AssetFiles: []string{"src/favicon.ico"}}
	if err := o.Validate(); err != nil {
		t.Fatalf("expected asset_files alone to satisfy Validate, got %v", err)
	}
}
