// Package testutil provides testing utilities for golden tests.
package testutil

import (
	"os"
	"path/filepath"
	"runtime"
	"testing"
)

// FixtureContext holds information about a loaded fixture.
type FixtureContext struct {
	// Name is the fixture directory name (e.g., "cars")
	Name string

	// Root is the absolute path to the fixture directory
	Root string

	// InputPath is the path to the fixture's input.json
	InputPath string

	// ExpectedDir is the path to the expected/ directory
	ExpectedDir string
}

// LoadFixture loads a dataset fixture from testdata/fixtures/<name>, failing
// the test on error.
func LoadFixture(t *testing.T, name string) *FixtureContext {
	t.Helper()

	root := getFixturesRoot(t)
	fixtureDir := filepath.Join(root, name)

	// Verify fixture exists
	if _, err := os.Stat(fixtureDir); os.IsNotExist(err) {
		t.Fatalf("Fixture directory not found: %s", fixtureDir)
	}

	inputPath := filepath.Join(fixtureDir, "input.json")
	if _, err := os.Stat(inputPath); os.IsNotExist(err) {
		t.Fatalf("Fixture input not found: %s", inputPath)
	}

	expectedDir := filepath.Join(fixtureDir, "expected")
	if _, err := os.Stat(expectedDir); os.IsNotExist(err) {
		if err := os.MkdirAll(expectedDir, 0o755); err != nil {
			t.Fatalf("Failed to create expected directory: %v", err)
		}
	}

	return &FixtureContext{
		Name:        name,
		Root:        fixtureDir,
		InputPath:   inputPath,
		ExpectedDir: expectedDir,
	}
}

// Input reads the fixture's input.json.
func (f *FixtureContext) Input(t *testing.T) []byte {
	t.Helper()

	data, err := os.ReadFile(f.InputPath)
	if err != nil {
		t.Fatalf("Failed to read fixture input: %v", err)
	}
	return data
}

// ExpectedPath returns the path to a golden file within the fixture.
// The name should include its extension.
func (f *FixtureContext) ExpectedPath(name string) string {
	return filepath.Join(f.ExpectedDir, name)
}

// getFixturesRoot returns the absolute path to testdata/fixtures/.
func getFixturesRoot(t *testing.T) string {
	t.Helper()

	// Get the directory of this source file
	_, thisFile, _, ok := runtime.Caller(0)
	if !ok {
		t.Fatal("Failed to get caller information")
	}

	// Navigate from internal/testutil to project root
	projectRoot := filepath.Dir(filepath.Dir(filepath.Dir(thisFile)))
	fixturesRoot := filepath.Join(projectRoot, "testdata", "fixtures")

	if _, err := os.Stat(fixturesRoot); os.IsNotExist(err) {
		t.Fatalf("Fixtures root not found: %s", fixturesRoot)
	}

	return fixturesRoot
}
