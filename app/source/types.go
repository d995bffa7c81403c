package source

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

type Kind string

const (
	KindFeed Kind = "feed"
	KindPage Kind = "page"
)

// Descriptor is the static configuration of one news source. Defined once
// at startup, never mutated.
type Descriptor struct {
	Name     string `yaml:"name"`
	URL      string `yaml:"url"`
	Kind     Kind   `yaml:"kind"`
	Selector string `yaml:"selector,omitempty"`
	Extract  bool   `yaml:"extract,omitempty"`
}

type sourcesFile struct {
	Sources []Descriptor `yaml:"sources"`
}

// LoadSources reads and validates the source descriptors from a YAML file.
func LoadSources(path string) ([]Descriptor, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read sources file: %w", err)
	}

	var file sourcesFile
	if err := yaml.Unmarshal(data, &file); err != nil {
		return nil, fmt.Errorf("failed to parse sources file: %w", err)
	}

	for i := range file.Sources {
		src := &file.Sources[i]
		if src.Kind == "" {
			src.Kind = KindFeed
		}
		if err := validate(src); err != nil {
			return nil, fmt.Errorf("invalid source %q: %w", src.Name, err)
		}
	}

	if len(file.Sources) == 0 {
		return nil, fmt.Errorf("no sources defined in %s", path)
	}

	return file.Sources, nil
}

func validate(src *Descriptor) error {
	if src.Name == "" {
		return fmt.Errorf("source name is required")
	}
	if src.URL == "" {
		return fmt.Errorf("source URL is required")
	}
	if src.Kind != KindFeed && src.Kind != KindPage {
		return fmt.Errorf("unknown source kind %q", src.Kind)
	}
	if src.Selector != "" && src.Kind != KindPage {
		return fmt.Errorf("selector is only valid for page sources")
	}
	return nil
}
