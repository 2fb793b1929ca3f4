package gitconfig

import (
	"errors"
	"io/fs"
	"os"
	"sort"
	"strings"
)

// readLines returns the non-empty lines of the file at path, none if it
// does not exist.
func readLines(path string) ([]string, error) {
	b, err := os.ReadFile(path)
	if errors.Is(err, fs.ErrNotExist) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	var lines []string
	for _, line := range strings.Split(string(b), "\n") {
		line = strings.TrimRight(line, "\r")
		if line != "" {
			lines = append(lines, line)
		}
	}
	return lines, nil
}

func writeLines(path string, lines []string) error {
	return os.WriteFile(path, []byte(strings.Join(lines, "\n")+"\n"), 0644)
}

// AddLines makes the file at path hold the sorted union of its lines and
// keys. It returns the resulting lines.
func AddLines(path string, keys []string) ([]string, error) {
	lines, err := readLines(path)
	if err != nil {
		return nil, errorf("AddLines", "%w", err)
	}
	set := make(map[string]bool, len(lines)+len(keys))
	var union []string
	for _, line := range append(lines, keys...) {
		if !set[line] {
			set[line] = true
			union = append(union, line)
		}
	}
	sort.Strings(union)
	if err := writeLines(path, union); err != nil {
		return nil, errorf("AddLines", "%w", err)
	}
	return union, nil
}

// RemoveLines removes keys from the file at path, keeping the order of the
// other lines. The file is left as is when nothing remains; it is up to the
// caller to delete it. It returns the remaining lines.
func RemoveLines(path string, keys []string) ([]string, error) {
	lines, err := readLines(path)
	if err != nil {
		return nil, errorf("RemoveLines", "%w", err)
	}
	remove := make(map[string]bool, len(keys))
	for _, k := range keys {
		remove[k] = true
	}
	var kept []string
	for _, line := range lines {
		if !remove[line] {
			kept = append(kept, line)
		}
	}
	if len(kept) > 0 && len(kept) < len(lines) {
		if err := writeLines(path, kept); err != nil {
			return nil, errorf("RemoveLines", "%w", err)
		}
	}
	return kept, nil
}

func deleteFile(path string) error {
	err := os.Remove(path)
	if errors.Is(err, fs.ErrNotExist) {
		return nil
	}
	return err
}
