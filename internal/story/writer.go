package story

import (
	_ "embed"
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

//go:embed default.yaml
var defaultTemplate []byte

// DefaultTemplate returns the narrative template shipped with the binary.
func DefaultTemplate() (*Story, error) {
	return ParseStory(defaultTemplate)
}

// DefaultTemplateBytes is the raw embedded template, for authors to copy.
func DefaultTemplateBytes() []byte {
	out := make([]byte, len(defaultTemplate))
	copy(out, defaultTemplate)
	return out
}

// ParseStory decodes a YAML template. JSON documents are valid YAML, so a
// story.json authored for the web version loads unchanged.
func ParseStory(data []byte) (*Story, error) {
	var s Story
	if err := yaml.Unmarshal(data, &s); err != nil {
		return nil, fmt.Errorf("decode story: %w", err)
	}
	return &s, nil
}

// ReadStory reads a story template from a YAML or JSON file
func ReadStory(path string) (*Story, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	return ParseStory(data)
}

// WriteStory writes a story to a YAML file
func WriteStory(s *Story, path string) error {
	data, err := yaml.Marshal(s)
	if err != nil {
		return err
	}

	return os.WriteFile(path, data, 0644)
}
