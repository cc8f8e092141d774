// Package behavior serves the behavior/trait library referenced by
// conversation analyses. A default library ships embedded in the binary;
// a user-supplied YAML file can replace it.
package behavior

import (
	_ "embed"
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

//go:embed library.yaml
var defaultLibrary []byte

// Behavior is one named behavior or trait the analysis service can match
// against conversation content.
type Behavior struct {
	ID          string `yaml:"id"`
	Name        string `yaml:"name"`
	Description string `yaml:"description,omitempty"`
}

// Subcategory groups related behaviors.
type Subcategory struct {
	Name      string     `yaml:"name"`
	Behaviors []Behavior `yaml:"behaviors"`
}

// Category is a top-level grouping. Category names are injected into the
// conversation-analysis prompt so the service can reference library ids.
type Category struct {
	Name          string        `yaml:"category"`
	Subcategories []Subcategory `yaml:"subcategories"`
}

// Library is the full versioned behavior library.
type Library struct {
	Version    string     `yaml:"version"`
	Categories []Category `yaml:"categories"`
}

// Default returns the embedded library.
func Default() (*Library, error) {
	return parse(defaultLibrary)
}

// Load reads a library from a YAML file, falling back to the embedded
// default when path is empty.
func Load(path string) (*Library, error) {
	if path == "" {
		return Default()
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read behavior library: %w", err)
	}
	lib, err := parse(data)
	if err != nil {
		return nil, fmt.Errorf("behavior library %s: %w", path, err)
	}
	return lib, nil
}

func parse(data []byte) (*Library, error) {
	var lib Library
	if err := yaml.Unmarshal(data, &lib); err != nil {
		return nil, fmt.Errorf("parse behavior library: %w", err)
	}
	return &lib, nil
}

// CategoryNames returns the category names in library order.
func (l *Library) CategoryNames() []string {
	names := make([]string, 0, len(l.Categories))
	for _, c := range l.Categories {
		names = append(names, c.Name)
	}
	return names
}

// Count returns the total number of behaviors across all categories.
func (l *Library) Count() int {
	n := 0
	for _, c := range l.Categories {
		for _, sc := range c.Subcategories {
			n += len(sc.Behaviors)
		}
	}
	return n
}

// Find returns the behavior with the given id.
func (l *Library) Find(id string) (Behavior, bool) {
	for _, c := range l.Categories {
		for _, sc := range c.Subcategories {
			for _, b := range sc.Behaviors {
				if b.ID == id {
					return b, true
				}
			}
		}
	}
	return Behavior{}, false
}
