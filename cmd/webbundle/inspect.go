package main

import (
	"bytes"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"time"

	"github.com/spf13/cobra"

	"webbundle/internal/bundle"
	"webbundle/internal/cache"
	"webbundle/internal/diff"
	"webbundle/internal/graph"
	"webbundle/internal/index"
	"webbundle/internal/meta"
	"webbundle/internal/validate"
	"webbundle/internal/walkwalk"
)

// inspectOptions binds every flag the old standalone class-collector CLI
// exposed as package-level flag.* vars. The FULL/DELTA/CHAT modes and their
// knobs are unchanged; only the parsing surface moved from the stdlib flag
// package to cobra/pflag, matching the rest of this CLI's command tree.
type inspectOptions struct {
	ext            string
	exclude        string
	include        string
	maxBytes       int64
	maxFileBytes   int64
	useGitignore   bool
	followSymlinks bool

	zipOut  string
	deltaOut string
	chatOut string
	chatMaxClasses int
	chatMaxChars   int

	tmpDir          string
	resetCache      bool
	storeBlobs      bool
	maxDiffBytes    int
	renameSim       bool
	renameSimThresh int
	renameSimOldRoot string

	emitSrc       bool
	maxFileLines  int
	lang          string
	validate      bool
	saveSnapshot  bool

	autoAnchors        bool
	autoAnchorsMin     int
	autoAnchorsMax     int
	autoAnchorsImports bool
	autoAnchorsTests   bool
	autoAnchorsPrefix  string
}

// newInspectCmd builds the `inspect` subcommand: the Source Inspector
// (§4.8), a diagnostic snapshot of a source tree's code intelligence and
// dependency graph into an auditable ZIP, independent of the `build`
// command's front-end bundling pipeline.
func newInspectCmd() *cobra.Command {
	opts := &inspectOptions{}
	cmd := &cobra.Command{
		Use:   "inspect <src-dir>",
		Short: "Snapshot a source tree's dependency graph and code intelligence into a ZIP bundle",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runInspect(opts, filepath.Clean(args[0]))
		},
	}

	f := cmd.Flags()
	f.StringVar(&opts.ext, "ext", ".go,.java,.kt,.cs,.ts,.tsx,.js,.json,.yaml,.yml,.xml,.proto,.gradle,.md,.txt", "comma-separated extensions to include")
	f.StringVar(&opts.exclude, "exclude", ".git,node_modules,dist,build,out,target,.idea,.vscode,.DS_Store", "comma-separated dir/file prefixes to exclude")
	f.StringVar(&opts.include, "include", "", "comma-separated substrings to force-include (in path)")
	f.Int64Var(&opts.maxBytes, "max-bytes", 25_000_000, "approx max total bytes to include in FULL mode (0 = no limit)")
	f.Int64Var(&opts.maxFileBytes, "max-file-bytes", 2_000_000, "max bytes per file to include (0 = no limit)")
	f.BoolVar(&opts.useGitignore, "use-gitignore", true, "honor .gitignore patterns during file walk")
	f.BoolVar(&opts.followSymlinks, "follow-symlinks", false, "follow symlinks during walk")

	f.StringVar(&opts.zipOut, "zip", "", "path to output FULL zip bundle (mutually exclusive with --delta/--chat)")
	f.StringVar(&opts.deltaOut, "delta", "", "path to output DELTA zip bundle (mutually exclusive with --zip/--chat)")
	f.StringVar(&opts.chatOut, "chat", "", "path to output CHAT zip (mutually exclusive with --zip/--delta)")
	f.IntVar(&opts.chatMaxClasses, "chat-max-classes", 10, "max classes/entities per chat message")
	f.IntVar(&opts.chatMaxChars, "chat-max-chars", 80_000, "max characters per chat message")

	f.StringVar(&opts.tmpDir, "tmp-dir", "tmp/.ccache", "base cache directory for snapshots and blobs")
	f.BoolVar(&opts.resetCache, "new", false, "reset cache for this src-dir before building")
	f.BoolVar(&opts.storeBlobs, "store-blobs", false, "store source copies as content-addressed blobs for diffs")
	f.IntVar(&opts.maxDiffBytes, "max-diff-bytes", 2_000_000, "max bytes for diffs in --delta (0 = no limit)")
	f.BoolVar(&opts.renameSim, "rename-similarity", false, "enable similarity-based rename detection in --delta")
	f.IntVar(&opts.renameSimThresh, "rename-sim-thresh", 8, "max Hamming distance for SimHash to classify as rename")
	f.StringVar(&opts.renameSimOldRoot, "rename-sim-oldroot", "", "old snapshot root for reading removed files (optional)")

	f.BoolVar(&opts.emitSrc, "emit-src", false, "include source copies in the FULL zip under src/")
	f.IntVar(&opts.maxFileLines, "max-file-lines", 500, "max lines per file before slicing; anchors preferred")
	f.StringVar(&opts.lang, "lang", "", "limit symbol extraction to languages (comma list: java,go,ts,tsx,js)")
	f.BoolVar(&opts.validate, "validate", true, "validate manifest/symbols JSON against schemas")
	f.BoolVar(&opts.saveSnapshot, "save-snapshot", true, "save snapshot in tmp after FULL (--zip)")

	f.BoolVar(&opts.autoAnchors, "auto-anchors", true, "synthesize virtual anchors from symbols/imports/tests")
	f.IntVar(&opts.autoAnchorsMin, "auto-anchors-min-lines", 8, "minimum region length for auto anchors")
	f.IntVar(&opts.autoAnchorsMax, "auto-anchors-max-per-file", 64, "maximum number of auto anchors per file (0 = unlimited)")
	f.BoolVar(&opts.autoAnchorsImports, "auto-anchors-imports", true, "add IMPORTS anchor if an import block exists")
	f.BoolVar(&opts.autoAnchorsTests, "auto-anchors-tests", true, "add test anchors (Go: Test*/Benchmark*/Example*, TS: describe/it/test)")
	f.StringVar(&opts.autoAnchorsPrefix, "auto-anchors-prefix", "auto:", "prefix for auto anchor names")

	return cmd
}

type dualFS struct{ oldRoot, newRoot string }

func (d dualFS) Read(p string, old bool) ([]byte, error) {
	root := d.newRoot
	if old {
		root = d.oldRoot
	}
	full := filepath.Join(root, filepath.FromSlash(p))
	return os.ReadFile(full)
}

func splitCSV(s string) []string {
	if s == "" {
		return nil
	}
	out := make([]string, 0, 8)
	start := 0
	for i := 0; i <= len(s); i++ {
		if i == len(s) || s[i] == ',' {
			p := s[start:i]
			if p != "" {
				out = append(out, p)
			}
			start = i + 1
		}
	}
	return out
}

func toSet(list []string) map[string]struct{} {
	m := make(map[string]struct{}, len(list))
	for _, v := range list {
		if v != "" {
			m[v] = struct{}{}
		}
	}
	return m
}

func runInspect(opts *inspectOptions, srcDir string) error {
	zipMode := opts.zipOut != ""
	deltaMode := opts.deltaOut != ""
	chatMode := opts.chatOut != ""
	if (zipMode && deltaMode) || (zipMode && chatMode) || (deltaMode && chatMode) {
		return fmt.Errorf("--zip, --delta and --chat are mutually exclusive")
	}
	if !zipMode && !deltaMode && !chatMode {
		return fmt.Errorf("one of --zip, --delta, or --chat is required")
	}

	srcAbs, _ := filepath.Abs(srcDir)
	ccDir := cache.CacheDir(opts.tmpDir, srcAbs)
	if opts.resetCache {
		_ = cache.Clear(ccDir)
	}

	exts := toSet(splitCSV(opts.ext))
	exclude := toSet(splitCSV(opts.exclude))
	includes := splitCSV(opts.include)

	maxBytes := opts.maxBytes
	if deltaMode && maxBytes > 0 {
		fmt.Fprintln(os.Stderr, "Note: ignoring --max-bytes in --delta mode")
		maxBytes = 0
	}

	files, _, err := walkwalk.CollectFiles(srcDir, exts, exclude, includes, maxBytes, opts.maxFileBytes, opts.useGitignore, opts.followSymlinks)
	if err != nil {
		return err
	}
	if len(files) == 0 {
		fmt.Fprintln(os.Stderr, "No files matched filters.")
		return nil
	}

	curr := &cache.Snapshot{
		Module:        filepath.Base(srcDir),
		Created:       time.Now().UTC().Format(time.RFC3339),
		FormatVersion: "1",
		Files:         make([]cache.SnapFile, 0, len(files)),
	}
	for _, f := range files {
		data, err := os.ReadFile(f.AbsPath)
		if err != nil {
			continue
		}
		lines := 1 + bytes.Count(data, []byte("\n"))
		curr.Files = append(curr.Files, cache.SnapFile{Path: f.RelPath, Hash: f.SHA256Hex, Lines: lines})
		if opts.storeBlobs && len(f.SHA256Hex) >= 6 {
			_ = cache.SaveBlob(ccDir, f.SHA256Hex, bytes.NewReader(data))
		}
	}

	switch {
	case deltaMode:
		return runDelta(opts, srcDir, ccDir, curr, files)
	case chatMode:
		return runChat(opts, srcDir, files)
	default:
		return runZip(opts, srcDir, ccDir, curr, files)
	}
}

func runDelta(opts *inspectOptions, srcDir, ccDir string, curr *cache.Snapshot, files []walkwalk.FileInfo) error {
	prev, _ := cache.Load(ccDir)
	if prev == nil {
		prev = &cache.Snapshot{Module: curr.Module}
	}
	cache.SetRenameSimilarity(opts.renameSim, opts.renameSimThresh)
	if opts.renameSim && opts.renameSimOldRoot != "" {
		cache.SetContentProvider(dualFS{oldRoot: opts.renameSimOldRoot, newRoot: srcDir})
	}

	d := cache.BuildDelta(prev, curr)

	readOld := func(hash string) ([]byte, error) {
		if len(hash) < 6 {
			return nil, fs.ErrNotExist
		}
		return cache.ReadBlob(ccDir, hash)
	}

	diffs, _ := bundle.MakeDiffs(d, files, diff.Options{
		MaxBytes:       opts.maxDiffBytes,
		TimeoutSeconds: 5.0,
		Context:        16,
		LineMode:       true,
	}, readOld)

	type changedEntry struct {
		Path       string `json:"path"`
		HashBefore string `json:"hashBefore"`
		HashAfter  string `json:"hashAfter"`
		Diff       string `json:"diff"`
		Oversize   bool   `json:"oversize,omitempty"`
		Truncated  bool   `json:"truncated,omitempty"`
	}
	changed := make([]changedEntry, 0, len(d.Changed))
	overs := 0
	for _, ch := range d.Changed {
		if ch.Oversize {
			overs++
		}
		changed = append(changed, changedEntry{
			Path: ch.Path, HashBefore: ch.HashBefore, HashAfter: ch.HashAfter,
			Diff: ch.DiffPath, Oversize: ch.Oversize, Truncated: ch.Oversize,
		})
	}

	di := struct {
		BaseModule   string           `json:"baseModule"`
		BaseSnapshot string           `json:"baseSnapshot"`
		HeadSnapshot string           `json:"headSnapshot"`
		Added        []cache.SnapFile `json:"added"`
		Removed      []cache.SnapFile `json:"removed"`
		Renamed      []struct {
			From string `json:"from"`
			To   string `json:"to"`
			Hash string `json:"hash"`
		} `json:"renamed"`
		Changed []changedEntry `json:"changed"`
	}{
		BaseModule:   curr.Module,
		BaseSnapshot: prev.Created,
		HeadSnapshot: curr.Created,
		Added:        append([]cache.SnapFile{}, d.Added...),
		Removed:      append([]cache.SnapFile{}, d.Removed...),
		Renamed: append([]struct {
			From string `json:"from"`
			To   string `json:"to"`
			Hash string `json:"hash"`
		}{}, d.Renamed...),
		Changed: changed,
	}

	var addedFiles []struct{ RelPath, AbsPath string }
	if len(d.Added) > 0 {
		byRel := make(map[string]string, len(files))
		for _, f := range files {
			byRel[f.RelPath] = f.AbsPath
		}
		for _, a := range d.Added {
			if ap, ok := byRel[a.Path]; ok {
				addedFiles = append(addedFiles, struct{ RelPath, AbsPath string }{RelPath: a.Path, AbsPath: ap})
			}
		}
		sort.Slice(addedFiles, func(i, j int) bool { return addedFiles[i].RelPath < addedFiles[j].RelPath })
	}

	if err := bundle.WriteDelta(opts.deltaOut, di, diffs, addedFiles); err != nil {
		return err
	}
	_ = cache.Save(ccDir, curr)

	fmt.Printf("Wrote delta bundle %s (added=%d, removed=%d, changed=%d, renamed=%d, oversize=%d)\n",
		opts.deltaOut, len(d.Added), len(d.Removed), len(d.Changed), len(d.Renamed), overs)
	return nil
}

func runChat(opts *inspectOptions, srcDir string, files []walkwalk.FileInfo) error {
	gf := make([]graph.File, 0, len(files))
	for _, f := range files {
		gf = append(gf, graph.File{RelPath: f.RelPath, AbsPath: f.AbsPath, Ext: f.Ext})
	}
	g := graph.BuildFrom(gf)

	index.SetAutoAnchorsConfig(index.AutoAnchorConfig{
		Enabled: opts.autoAnchors, MinLines: opts.autoAnchorsMin, MaxPerFile: opts.autoAnchorsMax,
		IncludeImports: opts.autoAnchorsImports, IncludeTests: opts.autoAnchorsTests, Prefix: opts.autoAnchorsPrefix,
	})

	man, syms, _, _ := index.BuildArtifacts(srcDir, files, opts.maxFileLines, toSet(splitCSV(opts.lang)))

	indexed := make(map[string]struct{}, len(man.Files))
	for _, mf := range man.Files {
		indexed[mf.Path] = struct{}{}
	}
	var srcFiles []struct{ RelPath, AbsPath string }
	for _, f := range files {
		if _, ok := indexed[f.RelPath]; ok {
			srcFiles = append(srcFiles, struct{ RelPath, AbsPath string }{RelPath: f.RelPath, AbsPath: f.AbsPath})
		}
	}
	sort.Slice(srcFiles, func(i, j int) bool { return srcFiles[i].RelPath < srcFiles[j].RelPath })

	if err := bundle.WriteChat(opts.chatOut, man, srcFiles, syms, g, opts.chatMaxClasses, opts.chatMaxChars, ""); err != nil {
		return err
	}
	fmt.Printf("Wrote chat bundle %s (files=%d)\n", opts.chatOut, len(man.Files))
	return nil
}

func runZip(opts *inspectOptions, srcDir, ccDir string, curr *cache.Snapshot, files []walkwalk.FileInfo) error {
	index.SetAutoAnchorsConfig(index.AutoAnchorConfig{
		Enabled: opts.autoAnchors, MinLines: opts.autoAnchorsMin, MaxPerFile: opts.autoAnchorsMax,
		IncludeImports: opts.autoAnchorsImports, IncludeTests: opts.autoAnchorsTests, Prefix: opts.autoAnchorsPrefix,
	})

	man, syms, slices, pointers := index.BuildArtifacts(srcDir, files, opts.maxFileLines, toSet(splitCSV(opts.lang)))

	bi := meta.Detect(srcDir)
	meta.ApplyToManifest(bi, &man)

	if opts.validate {
		if err := validate.Manifest(man); err != nil {
			return err
		}
		if err := validate.Symbols(syms); err != nil {
			return err
		}
	}

	indexed := make(map[string]struct{}, len(man.Files))
	for _, mf := range man.Files {
		indexed[mf.Path] = struct{}{}
	}
	var srcFiles []struct{ RelPath, AbsPath string }
	if opts.emitSrc {
		for _, f := range files {
			if _, ok := indexed[f.RelPath]; ok {
				srcFiles = append(srcFiles, struct{ RelPath, AbsPath string }{RelPath: f.RelPath, AbsPath: f.AbsPath})
			}
		}
		sort.Slice(srcFiles, func(i, j int) bool { return srcFiles[i].RelPath < srcFiles[j].RelPath })
	}

	gfiles := make([]graph.File, 0, len(files))
	for _, f := range files {
		gfiles = append(gfiles, graph.File{RelPath: f.RelPath, AbsPath: f.AbsPath, Ext: f.Ext})
	}
	g := graph.BuildFrom(gfiles)

	if err := bundle.WriteFull(opts.zipOut, srcDir, srcFiles, man, syms, slices, pointers, g, opts.emitSrc); err != nil {
		return err
	}

	if opts.saveSnapshot {
		if err := cache.Save(ccDir, curr); err != nil {
			return fmt.Errorf("saving snapshot: %w", err)
		}
	}

	fmt.Printf("Wrote bundle %s (files=%d, symbols=%d, slices=%d, pointers=%d)\n",
		opts.zipOut, len(man.Files), len(syms.Symbols), len(slices), len(pointers))
	return nil
}
