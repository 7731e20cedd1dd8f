package fs

import (
	"fmt"
	iofs "io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/bmatcuk/doublestar/v4"
)

// NormalizeExtensions lowercases extensions and ensures a leading dot.
func NormalizeExtensions(exts []string) []string {
	out := make([]string, 0, len(exts))
	seen := make(map[string]struct{}, len(exts))
	for _, ext := range exts {
		ext = strings.ToLower(strings.TrimSpace(ext))
		if ext == "" {
			continue
		}
		if ext[0] != '.' {
			ext = "." + ext
		}
		if _, ok := seen[ext]; ok {
			continue
		}
		seen[ext] = struct{}{}
		out = append(out, ext)
	}
	return out
}

// Discover returns every regular file under root whose extension is one of
// extensions, skipping files that match any of the exclude globs. Paths are
// joined with root and sorted. A root that does not exist yields no files.
// Files under a dot-directory, and dot-files themselves, are skipped unless
// hidden is set.
func Discover(root string, extensions, excludes []string, hidden bool) ([]string, error) {
	info, err := os.Stat(root)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("could not stat root '%s': %w", root, err)
	}
	if !info.IsDir() {
		return nil, fmt.Errorf("root '%s' is not a directory", root)
	}

	for _, pattern := range excludes {
		if !doublestar.ValidatePattern(pattern) {
			return nil, fmt.Errorf("invalid exclude pattern '%s'", pattern)
		}
	}

	fsys := os.DirFS(root)
	found := make(map[string]struct{})
	for _, ext := range NormalizeExtensions(extensions) {
		matches, err := doublestar.Glob(fsys, "**/*"+ext, doublestar.WithFilesOnly())
		if err != nil {
			return nil, fmt.Errorf("failed to search '%s' for *%s files: %w", root, ext, err)
		}
		for _, rel := range matches {
			if (!hidden && isHidden(rel)) || matchesAny(excludes, rel) {
				continue
			}
			found[rel] = struct{}{}
		}
	}

	paths := make([]string, 0, len(found))
	for rel := range found {
		paths = append(paths, filepath.Join(root, filepath.FromSlash(rel)))
	}
	sort.Strings(paths)
	return paths, nil
}

// isHidden reports whether any element of the slash-separated rel starts
// with a dot.
func isHidden(rel string) bool {
	for _, part := range strings.Split(rel, "/") {
		if strings.HasPrefix(part, ".") {
			return true
		}
	}
	return false
}

func matchesAny(patterns []string, rel string) bool {
	rel = filepath.ToSlash(rel)
	for _, pattern := range patterns {
		if ok, err := doublestar.Match(pattern, rel); err == nil && ok {
			return true
		}
	}
	return false
}

// UpdateFile writes rewritten to path if it differs from original. It reports
// whether a write happened. With atomic set, the content is written to a
// temporary file in the same directory and renamed over path.
func UpdateFile(path string, original, rewritten []byte, atomic bool) (bool, error) {
	if string(original) == string(rewritten) {
		return false, nil
	}

	mode := iofs.FileMode(0644)
	if info, err := os.Stat(path); err == nil {
		mode = info.Mode().Perm()
	}

	if !atomic {
		if err := os.WriteFile(path, rewritten, mode); err != nil {
			return false, fmt.Errorf("failed to write '%s': %w", path, err)
		}
		return true, nil
	}

	if err := writeAtomic(path, rewritten, mode); err != nil {
		return false, err
	}
	return true, nil
}

func writeAtomic(path string, data []byte, mode iofs.FileMode) error {
	tmpFile, err := os.CreateTemp(filepath.Dir(path), "."+filepath.Base(path)+".catchfix-")
	if err != nil {
		return fmt.Errorf("failed to create temp file for '%s': %w", path, err)
	}
	tmpPath := tmpFile.Name()
	// Cleared once the rename succeeds.
	defer func() {
		if tmpPath != "" {
			os.Remove(tmpPath)
		}
	}()

	if _, err := tmpFile.Write(data); err != nil {
		tmpFile.Close()
		return fmt.Errorf("failed to write temp file for '%s': %w", path, err)
	}
	if err := tmpFile.Chmod(mode); err != nil {
		tmpFile.Close()
		return fmt.Errorf("failed to set mode on temp file for '%s': %w", path, err)
	}
	if err := tmpFile.Close(); err != nil {
		return fmt.Errorf("failed to close temp file for '%s': %w", path, err)
	}
	if err := os.Rename(tmpPath, path); err != nil {
		return fmt.Errorf("failed to replace '%s': %w", path, err)
	}
	tmpPath = ""
	return nil
}
