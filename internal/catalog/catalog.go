package catalog

import (
	"fmt"
	"os"
	"strings"

	"github.com/ahmetcoskunkizilkaya/bjj-tracker/internal/models"
	"github.com/google/uuid"
	"gopkg.in/yaml.v3"
)

// Definition describes one technique to seed.
type Definition struct {
	Name     string `yaml:"name"`
	Category string `yaml:"category"`
	VideoURL string `yaml:"video_url,omitempty"`
	Note     string `yaml:"note,omitempty"`
}

type File struct {
	Techniques []Definition `yaml:"techniques"`
}

// Defaults is the built-in white-to-blue curriculum, in display order.
var Defaults = []Definition{
	{Name: "Parry and Counter", Category: "Punch Defense", VideoURL: "https://www.youtube.com/watch?v=example1"},
	{Name: "Slip and Counter", Category: "Punch Defense", VideoURL: "https://www.youtube.com/watch?v=example2"},
	{Name: "Duck and Counter", Category: "Punch Defense", VideoURL: "https://www.youtube.com/watch?v=example3"},
	{Name: "Block and Counter", Category: "Punch Defense", VideoURL: "https://www.youtube.com/watch?v=example4"},

	{Name: "Cover and Crash Entry", Category: "Cover Crash & Clinch to T-POSITION", VideoURL: "https://www.youtube.com/watch?v=example5"},
	{Name: "Clinch Control", Category: "Cover Crash & Clinch to T-POSITION", VideoURL: "https://www.youtube.com/watch?v=example6"},
	{Name: "T-Position Setup", Category: "Cover Crash & Clinch to T-POSITION", VideoURL: "https://www.youtube.com/watch?v=example7"},
	{Name: "T-Position Takedown", Category: "Cover Crash & Clinch to T-POSITION", VideoURL: "https://www.youtube.com/watch?v=example8"},
}

// Load returns the definitions from a YAML file, or Defaults when path is empty.
func Load(path string) ([]Definition, error) {
	if path == "" {
		return Defaults, nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read catalog file: %w", err)
	}
	return Parse(data)
}

func Parse(data []byte) ([]Definition, error) {
	var file File
	if err := yaml.Unmarshal(data, &file); err != nil {
		return nil, fmt.Errorf("failed to parse catalog file: %w", err)
	}
	if len(file.Techniques) == 0 {
		return nil, fmt.Errorf("catalog file has no techniques")
	}

	for i, d := range file.Techniques {
		if strings.TrimSpace(d.Name) == "" || strings.TrimSpace(d.Category) == "" {
			return nil, fmt.Errorf("catalog entry %d: name and category are required", i+1)
		}
	}
	return file.Techniques, nil
}

// ToModels converts definitions into rows, keeping their order in Position.
func ToModels(defs []Definition) []models.Technique {
	out := make([]models.Technique, 0, len(defs))
	for i, d := range defs {
		out = append(out, models.Technique{
			ID:       uuid.New(),
			Name:     d.Name,
			Category: d.Category,
			VideoURL: optional(d.VideoURL),
			Note:     optional(d.Note),
			Position: i + 1,
		})
	}
	return out
}

func optional(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}
