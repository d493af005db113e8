// Package fsutil provides file system utility functions.
package fsutil

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"
)

var (
	ErrNoMatch        = errors.New("no matching file found")
	ErrAmbiguous      = errors.New("more than one matching file found")
	ErrEmptyExtension = errors.New("extension must not be empty")
)

// FindFilesByExtension searches root for files ending with extension and
// returns their full paths sorted. Hidden directories are skipped; with
// recursive false only root itself is searched.
func FindFilesByExtension(root, extension string, recursive bool) ([]string, error) {
	if extension == "" {
		return nil, ErrEmptyExtension
	}

	var files []string
	err := filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() {
			if path != root && (!recursive || strings.HasPrefix(d.Name(), ".")) {
				return filepath.SkipDir
			}
			return nil
		}
		if strings.HasSuffix(d.Name(), extension) {
			files = append(files, path)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	sort.Strings(files)
	return files, nil
}

// ResolveFile returns path itself when it is a file. For a directory it
// returns the single file directly inside it with the given extension.
func ResolveFile(path, extension string) (string, error) {
	info, err := os.Stat(path)
	if err != nil {
		return "", err
	}
	if !info.IsDir() {
		return path, nil
	}

	files, err := FindFilesByExtension(path, extension, false)
	if err != nil {
		return "", err
	}
	switch len(files) {
	case 0:
		return "", fmt.Errorf("%w: no *%s in %s", ErrNoMatch, extension, path)
	case 1:
		return files[0], nil
	}
	return "", fmt.Errorf("%w: %s in %s", ErrAmbiguous, strings.Join(relative(path, files), ", "), path)
}

func relative(base string, files []string) []string {
	out := make([]string, len(files))
	for i, f := range files {
		if rel, err := filepath.Rel(base, f); err == nil {
			out[i] = rel
		} else {
			out[i] = f
		}
	}
	return out
}
