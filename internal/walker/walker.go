// Package walker discovers files to search and iterates their lines,
// grounded on the reference implementation's file_search module: the
// same three responsibilities (single-file line iteration, recursive
// directory discovery, and per-path diagnostics for missing/denied/
// directory-instead-of-file paths) reimplemented as the idiomatic Go
// shapes for those operations.
package walker

import (
	"bufio"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
)

// PathError describes a path that could not be searched at all (as
// opposed to a file that was searched but had no matches). Its Error
// text matches the reference implementation's diagnostics so output
// stays recognizable to anyone used to that tool.
type PathError struct {
	Path string
	Kind string // "no such file or directory", "is a directory", "permission denied"
}

func (e *PathError) Error() string {
	return fmt.Sprintf("%s: %s", e.Path, e.Kind)
}

// Discover resolves a list of CLI path arguments into a flat list of
// regular files to search. Non-recursive: a directory argument is
// reported as a PathError rather than expanded. Recursive: each
// directory argument is walked to its regular files in lexical order;
// file arguments are taken as-is.
func Discover(paths []string, recursive bool) ([]string, []error) {
	var files []string
	var errs []error

	for _, p := range paths {
		info, err := os.Stat(p)
		if err != nil {
			if errors.Is(err, fs.ErrNotExist) {
				errs = append(errs, &PathError{Path: p, Kind: "no such file or directory"})
			} else if errors.Is(err, fs.ErrPermission) {
				errs = append(errs, &PathError{Path: p, Kind: "permission denied"})
			} else {
				errs = append(errs, &PathError{Path: p, Kind: "no such file or directory"})
			}
			continue
		}

		if info.IsDir() {
			if !recursive {
				errs = append(errs, &PathError{Path: p, Kind: "is a directory"})
				continue
			}
			found, walkErrs := walkDir(p)
			files = append(files, found...)
			errs = append(errs, walkErrs...)
			continue
		}

		files = append(files, p)
	}

	return files, errs
}

func walkDir(root string) ([]string, []error) {
	var files []string
	var errs []error

	err := filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			if errors.Is(err, fs.ErrPermission) {
				errs = append(errs, &PathError{Path: path, Kind: "permission denied"})
				return nil
			}
			errs = append(errs, err)
			return nil
		}
		if d.IsDir() {
			return nil
		}
		files = append(files, path)
		return nil
	})
	if err != nil {
		errs = append(errs, err)
	}
	return files, errs
}

// Lines opens filename and calls yield once per line, with its
// trailing newline stripped, stopping early if yield returns false.
// It reports the same permission-denied / is-a-directory / missing-
// file diagnostics as Discover for a path that slips through (e.g. a
// directory named explicitly without -r).
func Lines(filename string, yield func(lineNum int, line string) bool) error {
	info, err := os.Stat(filename)
	if err != nil {
		if errors.Is(err, fs.ErrPermission) {
			return &PathError{Path: filename, Kind: "permission denied"}
		}
		return &PathError{Path: filename, Kind: "no such file or directory"}
	}
	if info.IsDir() {
		return &PathError{Path: filename, Kind: "is a directory"}
	}

	f, err := os.Open(filename)
	if err != nil {
		if errors.Is(err, fs.ErrPermission) {
			return &PathError{Path: filename, Kind: "permission denied"}
		}
		return err
	}
	defer f.Close()

	scanner := bufio.NewScanner(f)
	scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)
	lineNum := 0
	for scanner.Scan() {
		lineNum++
		if !yield(lineNum, scanner.Text()) {
			return nil
		}
	}
	return scanner.Err()
}
