package driver

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"floe/internal/diag"
	"floe/internal/project"
)

func writeFile(t *testing.T, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		t.Fatalf("mkdir: %v", err)
	}
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("write %s: %v", name, err)
	}
	return path
}

func TestExpandPathsWalksAndFilters(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "a.py", "x = 1\n")
	writeFile(t, dir, "sub/b.py", "y = 2\n")
	writeFile(t, dir, "notes.txt", "not python\n")
	writeFile(t, dir, "__pycache__/c.py", "cached = 1\n")

	m := &project.Manifest{}
	m.Index.Exclude = []string{"__pycache__"}

	files, err := ExpandPaths([]string{dir}, m)
	if err != nil {
		t.Fatalf("ExpandPaths: %v", err)
	}
	if len(files) != 2 {
		t.Fatalf("expected 2 files, got %v", files)
	}
	for _, f := range files {
		if filepath.Ext(f) != ".py" {
			t.Fatalf("non-python file leaked: %s", f)
		}
	}
}

func TestIndexPathsProducesSummaries(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "ok.py", "x = 1\ny = x\n")
	writeFile(t, dir, "warn.py", "if cond():\n    z = 1\nw = z\n")

	fileSet, results, err := IndexPaths(context.Background(), []string{dir}, Options{})
	if err != nil {
		t.Fatalf("IndexPaths: %v", err)
	}
	if fileSet.Len() != 2 || len(results) != 2 {
		t.Fatalf("expected 2 results, got %d files / %d results", fileSet.Len(), len(results))
	}

	for _, r := range results {
		if r.Index == nil {
			t.Fatalf("%s: missing index", r.Path)
		}
		if r.Summary.Scopes < 1 || r.Summary.Symbols < 1 {
			t.Fatalf("%s: implausible summary %+v", r.Path, r.Summary)
		}
	}

	// warn.py sorts after ok.py; it should carry the possibly-unbound warning.
	warn := results[1]
	found := false
	for _, d := range warn.Bag.Items() {
		if d.Code == diag.NamePossiblyUnbound {
			found = true
		}
	}
	if !found {
		t.Fatalf("expected a possibly-unbound warning in %s, got %v", warn.Path, warn.Bag.Items())
	}
}

func TestIndexPathsReportsUnreadableFiles(t *testing.T) {
	dir := t.TempDir()
	good := writeFile(t, dir, "good.py", "x = 1\n")
	missing := filepath.Join(dir, "gone.py")

	_, _, err := IndexPaths(context.Background(), []string{good, missing}, Options{})
	if err == nil {
		t.Fatalf("expected stat error for a missing explicit path")
	}
}

func TestDiskCacheRoundTrip(t *testing.T) {
	cache, err := OpenDiskCache(t.TempDir())
	if err != nil {
		t.Fatalf("OpenDiskCache: %v", err)
	}
	digest := [32]byte{1, 2, 3}

	if _, ok := cache.Get(digest); ok {
		t.Fatalf("empty cache reported a hit")
	}

	payload := &cachePayload{
		Schema:  cacheSchema,
		Path:    "a.py",
		Summary: Summary{Scopes: 2, Symbols: 3, Uses: 1},
		Diags: []cachedDiag{
			{Severity: uint8(diag.SevWarning), Code: uint16(diag.NamePossiblyUnbound), Msg: "m", Start: 4, End: 5},
		},
	}
	if err := cache.Put(digest, payload); err != nil {
		t.Fatalf("Put: %v", err)
	}

	got, ok := cache.Get(digest)
	if !ok {
		t.Fatalf("stored entry not found")
	}
	if got.Summary != payload.Summary {
		t.Fatalf("summary round-trip: %+v != %+v", got.Summary, payload.Summary)
	}
	if len(got.Diags) != 1 || got.Diags[0] != payload.Diags[0] {
		t.Fatalf("diagnostics round-trip: %+v", got.Diags)
	}
}

func TestDiskCacheRejectsOtherSchemas(t *testing.T) {
	cache, err := OpenDiskCache(t.TempDir())
	if err != nil {
		t.Fatalf("OpenDiskCache: %v", err)
	}
	digest := [32]byte{9}
	if err := cache.Put(digest, &cachePayload{Schema: cacheSchema + 1}); err != nil {
		t.Fatalf("Put: %v", err)
	}
	if _, ok := cache.Get(digest); ok {
		t.Fatalf("entry with a different schema should miss")
	}
}

func TestSecondRunHitsCache(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "a.py", "x = 1\ny = x\n")
	cache, err := OpenDiskCache(t.TempDir())
	if err != nil {
		t.Fatalf("OpenDiskCache: %v", err)
	}
	opts := Options{Cache: cache}

	_, first, err := IndexPaths(context.Background(), []string{dir}, opts)
	if err != nil {
		t.Fatalf("first run: %v", err)
	}
	if first[0].FromCache {
		t.Fatalf("first run should not hit the cache")
	}

	_, second, err := IndexPaths(context.Background(), []string{dir}, opts)
	if err != nil {
		t.Fatalf("second run: %v", err)
	}
	if !second[0].FromCache {
		t.Fatalf("second run should hit the cache")
	}
	if second[0].Summary != first[0].Summary {
		t.Fatalf("cached summary drifted: %+v != %+v", second[0].Summary, first[0].Summary)
	}
	if second[0].Index != nil {
		t.Fatalf("cache hits carry no index")
	}
}

func TestObserverSeesTerminalStage(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "a.py", "x = 1\n")

	events := make(chan Event, 16)
	opts := Options{Observer: func(ev Event) { events <- ev }}
	_, _, err := IndexPaths(context.Background(), []string{dir}, opts)
	if err != nil {
		t.Fatalf("IndexPaths: %v", err)
	}
	close(events)
	last := Event{}
	for ev := range events {
		last = ev
	}
	if last.Stage != StageDone {
		t.Fatalf("final stage = %v, want done", last.Stage)
	}
}
