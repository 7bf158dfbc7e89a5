package testsupport

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/goliatone/go-mappedtypes/pkg/mapped"
	"github.com/goliatone/go-mappedtypes/pkg/metadata"
	"github.com/goliatone/go-mappedtypes/pkg/typedef"
)

// LoadDefinitions parses a definition fixture and applies it to a fresh
// registry. Testing helpers fail the test on error to keep fixtures concise.
func LoadDefinitions(t *testing.T, path string, options ...mapped.Option) (*metadata.Registry, *typedef.Catalog) {
	t.Helper()

	reg, catalog, err := LoadDefinitionsFromPath(path, options...)
	if err != nil {
		t.Fatalf("load definitions: %v", err)
	}
	return reg, catalog
}

// LoadDefinitionsFromPath is LoadDefinitions without testing.T, for callers
// wiring fixtures in setup functions.
func LoadDefinitionsFromPath(path string, options ...mapped.Option) (*metadata.Registry, *typedef.Catalog, error) {
	if path == "" {
		return nil, nil, errors.New("testsupport: definitions path is required")
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, nil, fmt.Errorf("testsupport: read definitions: %w", err)
	}
	doc, err := typedef.Parse(data, path)
	if err != nil {
		return nil, nil, err
	}
	reg := metadata.NewRegistry()
	catalog, err := doc.Apply(context.Background(), reg, mapped.New(reg, options...))
	if err != nil {
		return nil, nil, err
	}
	return reg, catalog, nil
}

// MustToken resolves a declared name from catalog.
func MustToken(t *testing.T, catalog *typedef.Catalog, name string) metadata.Token {
	t.Helper()

	token, ok := catalog.Token(name)
	if !ok {
		t.Fatalf("type %q not declared", name)
	}
	return token
}

// WriteGolden writes value as indented JSON when UPDATE_GOLDENS is set.
// Returns true if the golden was written (test should exit early).
func WriteGolden(t *testing.T, path string, value any) bool {
	t.Helper()

	if os.Getenv("UPDATE_GOLDENS") == "" {
		return false
	}
	payload, err := json.MarshalIndent(value, "", "  ")
	if err != nil {
		t.Fatalf("marshal golden: %v", err)
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		t.Fatalf("mkdir golden dir: %v", err)
	}
	if err := os.WriteFile(path, append(payload, '\n'), 0o644); err != nil {
		t.Fatalf("write golden: %v", err)
	}
	return true
}

// MustReadGolden reads a golden file and returns its raw bytes.
func MustReadGolden(t *testing.T, path string) []byte {
	t.Helper()
	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read golden: %v", err)
	}
	return data
}

// CompareGoldenJSON encodes got and diffs it against the JSON golden at path.
// Both sides are compared as decoded values so key order and spacing do not
// matter.
func CompareGoldenJSON(t *testing.T, path string, got any) string {
	t.Helper()

	if WriteGolden(t, path, got) {
		return ""
	}
	var want any
	if err := json.Unmarshal(MustReadGolden(t, path), &want); err != nil {
		t.Fatalf("unmarshal golden: %v", err)
	}
	raw, err := json.Marshal(got)
	if err != nil {
		t.Fatalf("marshal value: %v", err)
	}
	var decoded any
	if err := json.Unmarshal(raw, &decoded); err != nil {
		t.Fatalf("unmarshal value: %v", err)
	}
	return cmp.Diff(want, decoded)
}
