package walker

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"sort"
	"testing"

	"github.com/basalt-labs/topos/core/filter"
	"github.com/basalt-labs/topos/core/reference"
	"github.com/basalt-labs/topos/internal/validation"
)

func buildMatcher(t *testing.T) *filter.Matcher {
	t.Helper()
	data, err := reference.LoadDefault()
	if err != nil {
		t.Fatalf("LoadDefault() error = %v", err)
	}
	m, err := filter.NewBuilder(data).Build()
	if err != nil {
		t.Fatalf("Build() error = %v", err)
	}
	return m
}

func TestWalkFindsMatchesAcrossFiles(t *testing.T) {
	dir := t.TempDir()
	files := map[string]string{
		"a.txt":     "See John 3:16 for the famous verse.",
		"b.txt":     "Nothing scriptural here.",
		"sub/c.txt": "Genesis 1:1 In the beginning.",
	}
	for name, content := range files {
		path := filepath.Join(dir, name)
		if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
			t.Fatalf("MkdirAll() error = %v", err)
		}
		if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
			t.Fatalf("WriteFile() error = %v", err)
		}
	}

	m := buildMatcher(t)
	ctx := context.Background()

	var matched []string
	for pm := range Walk(ctx, dir, m) {
		if pm.Err != nil {
			t.Fatalf("unexpected error for %v: %v", pm.Path, pm.Err)
		}
		if len(pm.Matches) > 0 {
			matched = append(matched, *pm.Path)
		}
	}
	sort.Strings(matched)

	want := []string{filepath.Join(dir, "a.txt"), filepath.Join(dir, "sub/c.txt")}
	sort.Strings(want)
	if len(matched) != len(want) {
		t.Fatalf("matched files = %v, want %v", matched, want)
	}
	for i := range want {
		if matched[i] != want[i] {
			t.Errorf("matched[%d] = %q, want %q", i, matched[i], want[i])
		}
	}
}

func TestWalkRejectsOversizedFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "big.txt")
	f, err := os.Create(path)
	if err != nil {
		t.Fatalf("Create() error = %v", err)
	}
	if err := f.Truncate(validation.MaxFileSize + 1); err != nil {
		t.Fatalf("Truncate() error = %v", err)
	}
	if err := f.Close(); err != nil {
		t.Fatalf("Close() error = %v", err)
	}

	m := buildMatcher(t)
	ctx := context.Background()

	for pm := range Walk(ctx, dir, m) {
		if !errors.Is(pm.Err, validation.ErrFileTooLarge) {
			t.Errorf("expected ErrFileTooLarge, got %v", pm.Err)
		}
	}
}

func TestWalkSmallFileScansNormally(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "small.txt")
	if err := os.WriteFile(path, []byte("John 3:16"), 0o644); err != nil {
		t.Fatalf("WriteFile() error = %v", err)
	}

	m := buildMatcher(t)
	ctx := context.Background()

	for pm := range Walk(ctx, dir, m) {
		if pm.Err != nil {
			t.Fatalf("unexpected error: %v", pm.Err)
		}
		if len(pm.Matches) != 1 {
			t.Errorf("expected one match in %v, got %d", *pm.Path, len(pm.Matches))
		}
	}
}

func TestWalkCancellation(t *testing.T) {
	dir := t.TempDir()
	for i := 0; i < 5; i++ {
		path := filepath.Join(dir, "f"+string(rune('a'+i))+".txt")
		if err := os.WriteFile(path, []byte("John 3:16"), 0o644); err != nil {
			t.Fatalf("WriteFile() error = %v", err)
		}
	}

	m := buildMatcher(t)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	count := 0
	for range Walk(ctx, dir, m) {
		count++
	}
	if count > 5 {
		t.Errorf("expected at most 5 results after immediate cancellation, got %d", count)
	}
}

func TestWalkEmptyDirectory(t *testing.T) {
	dir := t.TempDir()
	m := buildMatcher(t)
	ctx := context.Background()

	for pm := range Walk(ctx, dir, m) {
		t.Fatalf("expected no results for an empty directory, got %+v", pm)
	}
}
