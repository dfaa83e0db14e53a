package browsers

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"slices"
	"strings"
)

// ReadManifest returns every Path value listed in the profiles.ini at path.
// The os.ErrNotExist error is passed through wrapped so callers can treat a
// missing manifest separately.
func ReadManifest(path string) ([]string, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read %s: %w", path, err)
	}
	defer f.Close()

	paths, err := ParseManifest(f)
	if err != nil {
		return nil, fmt.Errorf("failed to parse %s: %w", path, err)
	}
	return paths, nil
}

// ParseManifest extracts the Path value of every section in an ini-style
// manifest. Keys outside a section are ignored. Values are reduced to their
// last path component so that "Profiles/abc.default" matches the directory
// name "abc.default".
func ParseManifest(r io.Reader) ([]string, error) {
	var paths []string
	var currentSection string

	scanner := bufio.NewScanner(r)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, ";") || strings.HasPrefix(line, "#") {
			continue
		}
		if strings.HasPrefix(line, "[") && strings.HasSuffix(line, "]") {
			currentSection = strings.TrimSpace(line[1 : len(line)-1])
			continue
		}
		if currentSection == "" {
			continue
		}

		key, value, ok := strings.Cut(line, "=")
		if !ok || !strings.EqualFold(strings.TrimSpace(key), "path") {
			continue
		}
		if name := lastComponent(strings.TrimSpace(value)); name != "" {
			paths = append(paths, name)
		}
	}
	if err := scanner.Err(); err != nil {
		return nil, err
	}
	return paths, nil
}

// ValidateManifest checks manifest entries against discovered profiles. An
// entry missing from profiles is only an error when the two lists also
// differ in length.
func ValidateManifest(manifest, profiles []string) error {
	for _, entry := range manifest {
		if !slices.Contains(profiles, entry) && len(manifest) != len(profiles) {
			return fmt.Errorf("%w: %q listed in manifest (%d entries) but not among %d profile directories",
				ErrManifestMismatch, entry, len(manifest), len(profiles))
		}
	}
	return nil
}

func lastComponent(p string) string {
	p = strings.TrimRight(p, `/\`)
	if i := strings.LastIndexAny(p, `/\`); i >= 0 {
		return p[i+1:]
	}
	return p
}
