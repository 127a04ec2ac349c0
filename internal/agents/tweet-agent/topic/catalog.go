package topic

import (
	"embed"
	"fmt"
	"os"
	"strings"
	"text/template"

	"gopkg.in/yaml.v3"
)

//go:embed assets/*.yaml assets/*.tmpl
var assets embed.FS

// Topic is one entry of the catalog.
type Topic struct {
	Name     string   `yaml:"name" json:"name"`
	Hints    []string `yaml:"hints,omitempty" json:"hints,omitempty"`
	Template string   `yaml:"template,omitempty" json:"template,omitempty"`
}

type catalogFile struct {
	Topics []Topic `yaml:"topics"`
}

// DefaultCatalog returns the embedded catalog.
func DefaultCatalog() ([]Topic, error) {
	b, err := assets.ReadFile("assets/catalog.yaml")
	if err != nil {
		return nil, err
	}
	return ParseCatalog(b)
}

// LoadCatalog reads a YAML catalog from path. An empty path yields the embedded one.
func LoadCatalog(path string) ([]Topic, error) {
	path = strings.TrimSpace(path)
	if path == "" {
		return DefaultCatalog()
	}
	b, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read topics file: %w", err)
	}
	topics, err := ParseCatalog(b)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return topics, nil
}

func ParseCatalog(b []byte) ([]Topic, error) {
	var f catalogFile
	if err := yaml.Unmarshal(b, &f); err != nil {
		return nil, fmt.Errorf("invalid topics yaml: %w", err)
	}
	if len(f.Topics) == 0 {
		return nil, fmt.Errorf("topic catalog is empty")
	}

	seen := make(map[string]struct{}, len(f.Topics))
	out := make([]Topic, 0, len(f.Topics))
	for i, t := range f.Topics {
		t.Name = strings.TrimSpace(t.Name)
		if t.Name == "" {
			return nil, fmt.Errorf("topic %d has no name", i+1)
		}
		key := strings.ToLower(t.Name)
		if _, ok := seen[key]; ok {
			return nil, fmt.Errorf("duplicate topic %q", t.Name)
		}
		seen[key] = struct{}{}

		hints := t.Hints[:0]
		for _, h := range t.Hints {
			if h = strings.TrimSpace(h); h != "" {
				hints = append(hints, h)
			}
		}
		t.Hints = hints

		if strings.TrimSpace(t.Template) != "" {
			if _, err := template.New(t.Name).Option("missingkey=error").Parse(t.Template); err != nil {
				return nil, fmt.Errorf("topic %q: invalid template: %w", t.Name, err)
			}
		}
		out = append(out, t)
	}
	return out, nil
}
