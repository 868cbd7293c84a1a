// Package corpus enumerates the input set of a differential run.
//
// A corpus location is either a directory (all regular files in it) or a
// glob pattern. Enumeration is read-only and deterministic: the same
// location over an unchanged tree always yields the same test cases in the
// same order, so a failing case can be located by its identifier across
// runs. Game-description files are never opened; cases are opaque paths.
package corpus

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
)

// TestCase identifies one game-description input. Immutable once
// enumerated; the harness never interprets the file's contents.
type TestCase struct {
	// Path is the file path passed to both solvers as their final argument.
	Path string
}

// Name returns the case's display identifier (its base name).
func (tc TestCase) Name() string {
	return filepath.Base(tc.Path)
}

// EnumerationError reports that an input-set location could not be
// resolved into test cases. It is fatal for the whole run: there is no
// partial-enumeration recovery.
type EnumerationError struct {
	Location string
	Err      error
}

func (e *EnumerationError) Error() string {
	return fmt.Sprintf("enumerate %q: %v", e.Location, e.Err)
}

func (e *EnumerationError) Unwrap() error {
	return e.Err
}

// Enumerate resolves a location into an ordered list of test cases.
//
// A directory yields every regular file directly inside it. Anything else
// is treated as a glob pattern. Results are sorted lexicographically so
// enumeration order is stable across runs.
func Enumerate(location string) ([]TestCase, error) {
	info, err := os.Stat(location)
	switch {
	case err == nil && info.IsDir():
		return enumerateDir(location)
	case err == nil:
		// A single file is a one-case corpus.
		return []TestCase{{Path: location}}, nil
	default:
		return enumerateGlob(location)
	}
}

func enumerateDir(dir string) ([]TestCase, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, &EnumerationError{Location: dir, Err: err}
	}

	var cases []TestCase
	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}
		cases = append(cases, TestCase{Path: filepath.Join(dir, entry.Name())})
	}

	sortCases(cases)
	return cases, nil
}

func enumerateGlob(pattern string) ([]TestCase, error) {
	matches, err := filepath.Glob(pattern)
	if err != nil {
		return nil, &EnumerationError{Location: pattern, Err: err}
	}
	if matches == nil {
		return nil, &EnumerationError{Location: pattern, Err: os.ErrNotExist}
	}

	var cases []TestCase
	for _, match := range matches {
		info, err := os.Stat(match)
		if err != nil {
			return nil, &EnumerationError{Location: pattern, Err: err}
		}
		if info.IsDir() {
			continue
		}
		cases = append(cases, TestCase{Path: match})
	}

	sortCases(cases)
	return cases, nil
}

func sortCases(cases []TestCase) {
	sort.Slice(cases, func(i, j int) bool {
		return cases[i].Path < cases[j].Path
	})
}
