package ai

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"unicode"
)

const maxSlugLen = 50

// SaveScenarios persists generated scenario records under the core's
// storage convention: <rootDir>/<suite>/cases/<slug>.json. It returns the
// written file paths in write order.
func SaveScenarios(rootDir, suite string, scenarios []GeneratedScenario) ([]string, error) {
	casesDir := filepath.Join(rootDir, suite, "cases")
	if err := os.MkdirAll(casesDir, 0o755); err != nil {
		return nil, fmt.Errorf("failed to create cases directory: %w", err)
	}

	var paths []string
	for i, sc := range scenarios {
		name := sc.Description
		if name == "" {
			name = fmt.Sprintf("scenario_%d", i+1)
		}
		path := filepath.Join(casesDir, slugify(name)+".json")

		data, err := json.MarshalIndent(sc, "", "  ")
		if err != nil {
			return paths, fmt.Errorf("failed to encode scenario %q: %w", name, err)
		}
		if err := os.WriteFile(path, data, 0o644); err != nil {
			return paths, fmt.Errorf("failed to write scenario %q: %w", path, err)
		}
		paths = append(paths, path)
	}
	return paths, nil
}

// slugify turns a free-text description into a scenario file name.
func slugify(s string) string {
	s = strings.ToLower(strings.TrimSpace(s))
	var b strings.Builder
	for _, r := range s {
		switch {
		case unicode.IsLetter(r) || unicode.IsDigit(r):
			b.WriteRune(r)
		case r == ' ' || r == '_' || r == '-':
			b.WriteRune('_')
		}
	}
	slug := b.String()
	if len(slug) > maxSlugLen {
		slug = slug[:maxSlugLen]
	}
	if slug == "" {
		slug = "scenario"
	}
	return slug
}
