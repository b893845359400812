package profile

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
)

// ErrNotFound is returned by Load when no profile file matches the ID.
type ErrNotFound struct {
	ID  string
	Dir string
}

func (e *ErrNotFound) Error() string {
	return fmt.Sprintf("profile %q not found in %s", e.ID, e.Dir)
}

// Load reads a profile by ID from the profiles directory.
// Both .yaml and .yml extensions are tried, in that order.
func Load(id, dir string) (*Profile, error) {
	for _, ext := range []string{".yaml", ".yml"} {
		path := filepath.Join(dir, id+ext)
		data, err := os.ReadFile(path)
		if os.IsNotExist(err) {
			continue
		}
		if err != nil {
			return nil, fmt.Errorf("read profile %q: %w", id, err)
		}
		return parseProfile(id, data)
	}
	return nil, &ErrNotFound{ID: id, Dir: dir}
}

// List returns the IDs of all profiles in the directory, sorted.
// A missing directory is not an error; it simply has no profiles.
func List(dir string) ([]string, error) {
	entries, err := os.ReadDir(dir)
	if os.IsNotExist(err) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("list profiles: %w", err)
	}

	seen := make(map[string]bool)
	ids := make([]string, 0, len(entries))
	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}
		name := entry.Name()
		ext := filepath.Ext(name)
		if ext != ".yaml" && ext != ".yml" {
			continue
		}
		id := strings.TrimSuffix(name, ext)
		if !seen[id] {
			seen[id] = true
			ids = append(ids, id)
		}
	}
	sort.Strings(ids)
	return ids, nil
}
