package config

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"leadgen/internal/domain/entity"
	"leadgen/internal/usecase/calendar"
)

// RotationFile is the YAML layout of a calendar rotation override.
//
//	calendar:
//	  niches: [restaurants, law firms]
//	  post_types: [how-to, listicle]
//	  weeks: 4
//	  slot_spacing_days: 2
//
// Omitted fields keep their defaults.
type RotationFile struct {
	Calendar struct {
		Niches          []string `yaml:"niches"`
		PostTypes       []string `yaml:"post_types"`
		Weeks           int      `yaml:"weeks"`
		SlotSpacingDays int      `yaml:"slot_spacing_days"`
	} `yaml:"calendar"`
}

// LoadRotation reads a rotation override. An empty path yields the default rotation.
// The path parameter is expected to come from a trusted source (environment or CLI flag).
func LoadRotation(path string) (calendar.Rotation, error) {
	if path == "" {
		return calendar.DefaultRotation(), nil
	}

	// #nosec G304 -- path is provided by the operator, not user input
	data, err := os.ReadFile(path)
	if err != nil {
		return calendar.Rotation{}, fmt.Errorf("failed to read rotation file: %w", err)
	}

	var file RotationFile
	if err := yaml.Unmarshal(data, &file); err != nil {
		return calendar.Rotation{}, fmt.Errorf("failed to parse rotation file: %w", err)
	}

	r := calendar.DefaultRotation()
	if len(file.Calendar.Niches) > 0 {
		r.Niches = file.Calendar.Niches
	}
	if len(file.Calendar.PostTypes) > 0 {
		r.PostTypes = make([]entity.PostType, 0, len(file.Calendar.PostTypes))
		for _, s := range file.Calendar.PostTypes {
			pt, err := entity.ParsePostType(s)
			if err != nil {
				return calendar.Rotation{}, fmt.Errorf("rotation file: %w", err)
			}
			r.PostTypes = append(r.PostTypes, pt)
		}
	}
	if file.Calendar.Weeks != 0 {
		r.Weeks = file.Calendar.Weeks
	}
	if file.Calendar.SlotSpacingDays != 0 {
		r.SlotSpacingDays = file.Calendar.SlotSpacingDays
	}

	if err := r.Validate(); err != nil {
		return calendar.Rotation{}, fmt.Errorf("rotation file validation failed: %w", err)
	}
	return r, nil
}
